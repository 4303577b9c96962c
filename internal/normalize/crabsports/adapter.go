// Package crabsports normalizes Crab Sports component-API payloads into
// canonical games. Prices arrive as decimal odds natively.
package crabsports

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"github.com/shopspring/decimal"

	"github.com/mbelyaev/betfeed/internal/normalize"
	"github.com/mbelyaev/betfeed/internal/pkg/enums"
	"github.com/mbelyaev/betfeed/internal/pkg/metrics"
	"github.com/mbelyaev/betfeed/internal/pkg/models"
)

const eventListKey = "prematch_event_list"

func init() {
	normalize.Register(enums.BookmakerCrabSports, func(aliases normalize.Aliases) normalize.Adapter {
		return New(aliases)
	})
}

// Adapter normalizes one Crab Sports raw response per call.
type Adapter struct {
	aliases normalize.Aliases
}

func New(aliases normalize.Aliases) *Adapter {
	return &Adapter{aliases: aliases}
}

func (a *Adapter) Bookmaker() enums.Bookmaker {
	return enums.BookmakerCrabSports
}

// Normalize maps one raw component response to games. A missing event-list
// component is a structural failure for this document only; malformed
// events, markets and outcomes are skipped individually.
func (a *Adapter) Normalize(doc json.RawMessage) ([]*models.Game, error) {
	var resp componentResponse
	if err := json.Unmarshal(doc, &resp); err != nil {
		return nil, fmt.Errorf("unmarshal component response: %w", err)
	}

	events, err := locateEvents(&resp)
	if err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	var games []*models.Game
	for _, ev := range events {
		game := a.normalizeEvent(ev, now)
		if game != nil {
			games = append(games, game)
		}
	}
	return games, nil
}

// locateEvents finds the raw event list inside the component tree. Events
// are usually nested under competitions; a flat events list is the fallback.
func locateEvents(resp *componentResponse) ([]rawEvent, error) {
	var data *componentData
	for i := range resp.Components {
		if resp.Components[i].TreeCompoKey == eventListKey {
			data = resp.Components[i].Data
			break
		}
	}
	if data == nil {
		return nil, fmt.Errorf("component %q not found in response", eventListKey)
	}

	var events []rawEvent
	for _, comp := range data.Competitions {
		events = append(events, comp.Events...)
	}
	if len(events) == 0 {
		events = data.Events
	}
	if len(events) == 0 {
		return nil, fmt.Errorf("no events found under component %q", eventListKey)
	}
	return events, nil
}

func (a *Adapter) normalizeEvent(ev rawEvent, now time.Time) *models.Game {
	eventID := ev.ID.String()

	var homeName, awayName string
	for _, actor := range ev.Actors {
		switch actor.Type {
		case "home":
			homeName = actor.Label
		case "away":
			awayName = actor.Label
		}
	}
	if homeName == "" || awayName == "" {
		a.skip("event", "missing_teams", "event_id", eventID)
		return nil
	}

	var sportLabel, leagueLabel string
	if ev.Sport != nil {
		sportLabel = ev.Sport.Label
	}
	if ev.Competition != nil {
		leagueLabel = ev.Competition.Label
	}

	sport, ok := normalize.MapSport(sportLabel)
	if !ok {
		a.skip("event", "unmapped_sport", "event_id", eventID, "sport", sportLabel)
		return nil
	}
	league, ok := normalize.MapLeague(leagueLabel, sport)
	if !ok {
		a.skip("event", "unmapped_league", "event_id", eventID, "league", leagueLabel)
		return nil
	}
	startTime, ok := normalize.ParseStartTime(ev.Start)
	if !ok {
		a.skip("event", "bad_start_time", "event_id", eventID, "start", ev.Start)
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
		Bookmaker:      enums.BookmakerCrabSports,
		RawEventID:     eventID,
		GameID:         gameID,
		LastUpdatedUTC: now,
	}

	for _, container := range ev.Markets {
		market := a.normalizeMarket(container, game, now)
		if market != nil {
			game.Markets = append(game.Markets, market)
		}
	}
	if len(game.Markets) == 0 {
		slog.Debug("CrabSports: game has no valid markets, discarding", "game_id", gameID)
		return nil
	}
	return game
}

// normalizeMarket maps one market container (its first bet) to a canonical
// market, or nil when nothing usable survives.
func (a *Adapter) normalizeMarket(container marketContainer, game *models.Game, now time.Time) *models.Market {
	if len(container.Bets) == 0 {
		return nil
	}
	b := container.Bets[0]
	if b.Label == "" {
		a.skip("market", "missing_label", "event_id", game.RawEventID)
		return nil
	}

	marketType, ok := normalize.MapMarketType(b.Label, a.aliases.Markets)
	if !ok {
		a.skip("market", "unmapped_type", "event_id", game.RawEventID, "label", b.Label)
		return nil
	}

	type parsedOutcome struct {
		side  enums.MarketSide
		price decimal.Decimal
		line  *decimal.Decimal
	}
	var (
		outcomes   []parsedOutcome
		marketLine *decimal.Decimal
	)
	for _, sel := range b.Selections {
		if sel.Label == "" || sel.Odds == "" {
			a.skip("outcome", "missing_fields", "event_id", game.RawEventID, "market", b.Label)
			continue
		}
		price, err := decimal.NewFromString(sel.Odds.String())
		if err != nil {
			a.skip("outcome", "bad_price", "event_id", game.RawEventID, "label", sel.Label, "odds", sel.Odds.String())
			continue
		}
		line := normalize.ExtractLine(sel.Label)
		side, ok := normalize.MapSide(sel.Label, marketType, game.HomeTeam.RawName, game.AwayTeam.RawName)
		if !ok {
			a.skip("outcome", "unmapped_side", "event_id", game.RawEventID, "label", sel.Label, "market", b.Label)
			continue
		}
		if marketLine == nil && line != nil && (marketType == enums.MarketSpread || marketType == enums.MarketTotal) {
			marketLine = line
		}
		outcomes = append(outcomes, parsedOutcome{side: side, price: price, line: line})
	}

	marketID := models.MarketIDFor(game.GameID, marketType, marketLine)
	market := &models.Market{
		GameID:        game.GameID,
		MarketType:    marketType,
		Period:        enums.PeriodFullGame,
		Line:          marketLine,
		RawMarketName: b.Label,
		MarketID:      marketID,
	}

	for _, out := range outcomes {
		odds, err := models.NewOdds(marketID, enums.BookmakerCrabSports, out.side, out.price, now)
		if err != nil {
			a.skip("outcome", "invalid_price", "event_id", game.RawEventID, "market", b.Label, "error", err.Error())
			continue
		}
		switch marketType {
		case enums.MarketSpread:
			odds.Points = out.line
		case enums.MarketTotal:
			odds.Line = out.line
		}
		market.Odds = append(market.Odds, odds)
	}
	if len(market.Odds) == 0 {
		slog.Debug("CrabSports: market has no valid outcomes, discarding",
			"event_id", game.RawEventID, "market", b.Label)
		return nil
	}
	return market
}

// skip records one skipped unit at debug level and bumps the counter. The
// first two args are the unit granularity and the reason.
func (a *Adapter) skip(unit, reason string, args ...any) {
	metrics.UnitsSkipped.WithLabelValues(enums.BookmakerCrabSports.String(), unit, reason).Inc()
	slog.Debug("CrabSports: skipping "+unit, append([]any{"reason", reason}, args...)...)
}
