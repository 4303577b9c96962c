package storage

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/mbelyaev/betfeed/internal/pkg/models"
)

// Flat row projections of the canonical model. Enums become strings,
// decimals become float64 and optional lines become nullable columns.

type TeamRecord struct {
	TeamID        string
	RawName       string
	CanonicalName string
}

type GameRecord struct {
	GameID         string
	Sport          string
	League         string
	StartTimeUTC   time.Time
	HomeTeamID     string
	AwayTeamID     string
	Bookmaker      string
	RawEventID     string
	LastUpdatedUTC time.Time
}

type MarketRecord struct {
	MarketID      string
	GameID        string
	MarketType    string
	Period        string
	Line          *float64
	RawMarketName string
}

type OddsRecord struct {
	MarketID           string
	Bookmaker          string
	Side               string
	Points             *float64
	Line               *float64
	DecimalOdds        float64
	AmericanOdds       int
	TimestampCollected time.Time
}

// Records is one batch of flattened rows ready for upsert.
type Records struct {
	Teams   []TeamRecord
	Games   []GameRecord
	Markets []MarketRecord
	Odds    []OddsRecord
}

// Flatten projects a batch of canonical games into row records. Teams are
// deduplicated by id across the whole batch; games, markets and odds map
// one-to-one.
func Flatten(games []*models.Game) *Records {
	recs := &Records{}
	seenTeams := make(map[string]bool)

	addTeam := func(t models.Team) {
		if t.TeamID == "" || seenTeams[t.TeamID] {
			return
		}
		seenTeams[t.TeamID] = true
		recs.Teams = append(recs.Teams, TeamRecord{
			TeamID:        t.TeamID,
			RawName:       t.RawName,
			CanonicalName: t.CanonicalName,
		})
	}

	for _, g := range games {
		addTeam(g.HomeTeam)
		addTeam(g.AwayTeam)

		recs.Games = append(recs.Games, GameRecord{
			GameID:         g.GameID,
			Sport:          g.Sport.String(),
			League:         g.League.String(),
			StartTimeUTC:   g.StartTimeUTC.UTC(),
			HomeTeamID:     g.HomeTeam.TeamID,
			AwayTeamID:     g.AwayTeam.TeamID,
			Bookmaker:      g.Bookmaker.String(),
			RawEventID:     g.RawEventID,
			LastUpdatedUTC: g.LastUpdatedUTC.UTC(),
		})

		for _, m := range g.Markets {
			recs.Markets = append(recs.Markets, MarketRecord{
				MarketID:      m.MarketID,
				GameID:        m.GameID,
				MarketType:    m.MarketType.String(),
				Period:        m.Period.String(),
				Line:          decimalPtr(m.Line),
				RawMarketName: m.RawMarketName,
			})
			for _, o := range m.Odds {
				recs.Odds = append(recs.Odds, OddsRecord{
					MarketID:           o.MarketID,
					Bookmaker:          o.Bookmaker.String(),
					Side:               o.Side.String(),
					Points:             decimalPtr(o.Points),
					Line:               decimalPtr(o.Line),
					DecimalOdds:        o.DecimalOdds.InexactFloat64(),
					AmericanOdds:       o.AmericanOdds,
					TimestampCollected: o.TimestampCollected.UTC(),
				})
			}
		}
	}
	return recs
}

func decimalPtr(d *decimal.Decimal) *float64 {
	if d == nil {
		return nil
	}
	f := d.InexactFloat64()
	return &f
}
