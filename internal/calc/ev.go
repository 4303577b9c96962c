// Package calc scans stored upcoming games for positive-expected-value bets.
// The fair-odds model is a placeholder: the first price seen for an outcome
// anchors the market, and other books are compared against it.
package calc

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/shopspring/decimal"

	"github.com/mbelyaev/betfeed/internal/pkg/config"
	"github.com/mbelyaev/betfeed/internal/pkg/models"
	"github.com/mbelyaev/betfeed/internal/pkg/storage"
)

// ValueBet is one odds record priced above its fair-odds anchor.
type ValueBet struct {
	Game     *models.Game
	Market   *models.Market
	Odds     *models.Odds
	FairOdds decimal.Decimal
	// EV is the expected value as a fraction: 0.05 means +5%.
	EV float64
}

// Calculator finds value bets among stored upcoming games.
type Calculator struct {
	reader     storage.UpcomingReader
	minEV      float64
	hoursAhead int
}

func New(reader storage.UpcomingReader, cfg config.CalculatorConfig) *Calculator {
	hours := cfg.HoursAhead
	if hours <= 0 {
		hours = 24
	}
	return &Calculator{
		reader:     reader,
		minEV:      cfg.MinEVThreshold,
		hoursAhead: hours,
	}
}

// FindValueBets loads games starting within the window and returns every
// odds record whose EV against the anchor price clears the threshold.
func (c *Calculator) FindValueBets(ctx context.Context) ([]ValueBet, error) {
	games, err := c.reader.GetUpcomingGames(ctx, time.Now().UTC(), c.hoursAhead)
	if err != nil {
		return nil, fmt.Errorf("load upcoming games: %w", err)
	}

	var bets []ValueBet
	for _, g := range games {
		for _, m := range g.Markets {
			bets = append(bets, c.scanMarket(g, m)...)
		}
	}
	slog.Info("Value bet scan finished",
		"games", len(games), "value_bets", len(bets), "min_ev", c.minEV)
	return bets, nil
}

// scanMarket compares each price against the anchor for its side. The anchor
// is the first odds record of that side in the market, which after a merge is
// the first bookmaker that priced the outcome.
func (c *Calculator) scanMarket(g *models.Game, m *models.Market) []ValueBet {
	anchors := make(map[string]*models.Odds)
	for _, o := range m.Odds {
		side := o.Side.String()
		if _, ok := anchors[side]; !ok {
			anchors[side] = o
		}
	}

	var bets []ValueBet
	for _, o := range m.Odds {
		anchor := anchors[o.Side.String()]
		if anchor == nil || anchor == o {
			continue
		}
		ev := expectedValue(o.DecimalOdds, anchor.DecimalOdds)
		if ev < c.minEV {
			continue
		}
		bets = append(bets, ValueBet{
			Game:     g,
			Market:   m,
			Odds:     o,
			FairOdds: anchor.DecimalOdds,
			EV:       ev,
		})
	}
	return bets
}

// expectedValue returns p_fair*odds - 1 with p_fair = 1/fair.
func expectedValue(offered, fair decimal.Decimal) float64 {
	if fair.LessThanOrEqual(decimal.Zero) {
		return 0
	}
	return offered.Div(fair).Sub(decimal.NewFromInt(1)).InexactFloat64()
}
