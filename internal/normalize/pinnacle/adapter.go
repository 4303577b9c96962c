// Package pinnacle normalizes Pinnacle guest-API league documents into
// canonical games. Prices arrive as American odds and are converted to
// decimal during normalization.
package pinnacle

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/mbelyaev/betfeed/internal/normalize"
	"github.com/mbelyaev/betfeed/internal/pkg/enums"
	"github.com/mbelyaev/betfeed/internal/pkg/metrics"
	"github.com/mbelyaev/betfeed/internal/pkg/models"
	"github.com/mbelyaev/betfeed/internal/pkg/oddsmath"
)

const fullGamePeriod = 0

func init() {
	normalize.Register(enums.BookmakerPinnacle, func(aliases normalize.Aliases) normalize.Adapter {
		return New(aliases)
	})
}

// Adapter normalizes one Pinnacle league document per call.
type Adapter struct {
	aliases normalize.Aliases
}

func New(aliases normalize.Aliases) *Adapter {
	return &Adapter{aliases: aliases}
}

func (a *Adapter) Bookmaker() enums.Bookmaker {
	return enums.BookmakerPinnacle
}

// Normalize joins the document's matchups and markets by matchup id and maps
// each joined pair to a canonical game. Non-matchup entries (specials, props)
// and non-primary markets are dropped without failing the document.
func (a *Adapter) Normalize(doc json.RawMessage) ([]*models.Game, error) {
	var league leagueDocument
	if err := json.Unmarshal(doc, &league); err != nil {
		return nil, fmt.Errorf("unmarshal league document: %w", err)
	}
	if len(league.Matchups) == 0 {
		return nil, fmt.Errorf("league document %s has no matchups", league.LeagueID.String())
	}

	marketsByMatchup := make(map[string][]rawMarket)
	for _, m := range league.Markets {
		id := m.MatchupID.String()
		marketsByMatchup[id] = append(marketsByMatchup[id], m)
	}

	now := time.Now().UTC()
	var games []*models.Game
	for _, matchup := range league.Matchups {
		if matchup.Type != "" && matchup.Type != "matchup" {
			a.skip("event", "not_a_matchup", "matchup_id", matchup.ID.String(), "type", matchup.Type)
			continue
		}
		game := a.normalizeMatchup(matchup, marketsByMatchup[matchup.ID.String()], now)
		if game != nil {
			games = append(games, game)
		}
	}
	return games, nil
}

func (a *Adapter) normalizeMatchup(matchup rawMatchup, markets []rawMarket, now time.Time) *models.Game {
	matchupID := matchup.ID.String()

	var homeName, awayName string
	for _, p := range matchup.Participants {
		switch p.Alignment {
		case "home":
			homeName = p.Name
		case "away":
			awayName = p.Name
		}
	}
	if homeName == "" || awayName == "" {
		a.skip("event", "missing_teams", "matchup_id", matchupID)
		return nil
	}

	var sportLabel, leagueLabel string
	if matchup.League != nil {
		leagueLabel = matchup.League.Name
		if matchup.League.Sport != nil {
			sportLabel = matchup.League.Sport.Name
		}
	}

	sport, ok := normalize.MapSport(sportLabel)
	if !ok {
		a.skip("event", "unmapped_sport", "matchup_id", matchupID, "sport", sportLabel)
		return nil
	}
	league, ok := normalize.MapLeague(leagueLabel, sport)
	if !ok {
		a.skip("event", "unmapped_league", "matchup_id", matchupID, "league", leagueLabel)
		return nil
	}
	startTime, ok := normalize.ParseStartTime(matchup.StartTime)
	if !ok {
		a.skip("event", "bad_start_time", "matchup_id", matchupID, "start", matchup.StartTime)
		return nil
	}

	homeTeam := models.NewTeam(homeName, a.aliases.Teams)
	awayTeam := models.NewTeam(awayName, a.aliases.Teams)
	gameID := models.GameIDFor(sport, league, awayTeam.TeamID, homeTeam.TeamID, startTime)

	game := &models.Game{
		Sport:          sport,
		League:         league,
		StartTimeUTC:   startTime,
		HomeTeam:       homeTeam,
		AwayTeam:       awayTeam,
		Bookmaker:      enums.BookmakerPinnacle,
		RawEventID:     matchupID,
		GameID:         gameID,
		LastUpdatedUTC: now,
	}

	for _, raw := range markets {
		market := a.normalizeMarket(raw, game, now)
		if market != nil {
			game.Markets = append(game.Markets, market)
		}
	}
	if len(game.Markets) == 0 {
		slog.Debug("Pinnacle: matchup has no valid markets, discarding",
			"matchup_id", matchupID, "game_id", gameID)
		return nil
	}
	return game
}

// normalizeMarket keeps only primary full-game markets: period 0 and not an
// alternate line. The market line is the home-side points for spreads and
// the shared points value for totals.
func (a *Adapter) normalizeMarket(raw rawMarket, game *models.Game, now time.Time) *models.Market {
	if raw.Period != fullGamePeriod {
		a.skip("market", "non_full_game_period", "matchup_id", game.RawEventID, "period", raw.Period)
		return nil
	}
	if raw.IsAlternate {
		a.skip("market", "alternate_line", "matchup_id", game.RawEventID, "type", raw.Type)
		return nil
	}

	var marketType enums.MarketType
	switch strings.ToLower(raw.Type) {
	case "moneyline":
		marketType = enums.MarketMoneyline
	case "spread":
		marketType = enums.MarketSpread
	case "total":
		marketType = enums.MarketTotal
	default:
		a.skip("market", "unmapped_type", "matchup_id", game.RawEventID, "type", raw.Type)
		return nil
	}

	var marketLine *decimal.Decimal
	if marketType != enums.MarketMoneyline {
		for _, p := range raw.Prices {
			if p.Points == nil {
				continue
			}
			if marketType == enums.MarketSpread && p.Designation != "home" {
				continue
			}
			d := decimal.NewFromFloat(*p.Points)
			marketLine = &d
			break
		}
	}

	marketID := models.MarketIDFor(game.GameID, marketType, marketLine)
	market := &models.Market{
		GameID:        game.GameID,
		MarketType:    marketType,
		Period:        enums.PeriodFullGame,
		Line:          marketLine,
		RawMarketName: raw.Type,
		MarketID:      marketID,
	}

	for _, p := range raw.Prices {
		side, ok := mapDesignation(p.Designation, marketType)
		if !ok {
			a.skip("outcome", "unmapped_side", "matchup_id", game.RawEventID,
				"type", raw.Type, "designation", p.Designation)
			continue
		}
		price := oddsmath.AmericanToDecimal(p.Price)
		odds, err := models.NewOdds(marketID, enums.BookmakerPinnacle, side, price, now)
		if err != nil {
			a.skip("outcome", "invalid_price", "matchup_id", game.RawEventID,
				"type", raw.Type, "american", p.Price, "error", err.Error())
			continue
		}
		odds.AmericanOdds = p.Price
		if p.Points != nil {
			d := decimal.NewFromFloat(*p.Points)
			switch marketType {
			case enums.MarketSpread:
				odds.Points = &d
			case enums.MarketTotal:
				odds.Line = &d
			}
		}
		market.Odds = append(market.Odds, odds)
	}
	if len(market.Odds) == 0 {
		slog.Debug("Pinnacle: market has no valid outcomes, discarding",
			"matchup_id", game.RawEventID, "type", raw.Type)
		return nil
	}
	return market
}

// mapDesignation resolves a price designation against the market type, so a
// mislabelled price (an "over" inside a moneyline) is rejected rather than
// silently carried.
func mapDesignation(designation string, marketType enums.MarketType) (enums.MarketSide, bool) {
	switch strings.ToLower(designation) {
	case "home":
		if marketType != enums.MarketTotal {
			return enums.SideHome, true
		}
	case "away":
		if marketType != enums.MarketTotal {
			return enums.SideAway, true
		}
	case "over":
		if marketType == enums.MarketTotal {
			return enums.SideOver, true
		}
	case "under":
		if marketType == enums.MarketTotal {
			return enums.SideUnder, true
		}
	}
	return "", false
}

func (a *Adapter) skip(unit, reason string, args ...any) {
	metrics.UnitsSkipped.WithLabelValues(enums.BookmakerPinnacle.String(), unit, reason).Inc()
	slog.Debug("Pinnacle: skipping "+unit, append([]any{"reason", reason}, args...)...)
}
