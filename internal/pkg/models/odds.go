package models

import (
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/mbelyaev/betfeed/internal/pkg/enums"
	"github.com/mbelyaev/betfeed/internal/pkg/oddsmath"
)

var minDecimalOdds = decimal.NewFromInt(1)

// Odds is one priced outcome observation: a side of a market from one
// bookmaker at one point in time. Immutable after construction apart from
// the derived AmericanOdds fill-in.
type Odds struct {
	MarketID  string           `json:"market_id"`
	Bookmaker enums.Bookmaker  `json:"bookmaker"`
	Side      enums.MarketSide `json:"side"`

	// Points is the spread handicap specific to this side (home -1.5 vs
	// away +1.5); Line is the total threshold specific to this side.
	Points *decimal.Decimal `json:"points,omitempty"`
	Line   *decimal.Decimal `json:"line,omitempty"`

	DecimalOdds  decimal.Decimal `json:"decimal_odds"`
	AmericanOdds int             `json:"american_odds,omitempty"`

	TimestampCollected time.Time `json:"timestamp_collected"`
}

// NewOdds constructs a validated Odds record. Decimal odds must be strictly
// greater than 1.0; anything else is rejected with a ValidationError so the
// adapter can skip the outcome. AmericanOdds is derived when not supplied.
func NewOdds(marketID string, bookmaker enums.Bookmaker, side enums.MarketSide, decimalOdds decimal.Decimal, collected time.Time) (*Odds, error) {
	if decimalOdds.LessThanOrEqual(minDecimalOdds) {
		return nil, &ValidationError{
			Entity: "odds",
			Field:  "decimal_odds",
			Reason: "must be strictly greater than 1.0, got " + decimalOdds.String(),
		}
	}
	return &Odds{
		MarketID:           marketID,
		Bookmaker:          bookmaker,
		Side:               side,
		DecimalOdds:        decimalOdds,
		AmericanOdds:       oddsmath.DecimalToAmerican(decimalOdds),
		TimestampCollected: collected,
	}, nil
}

// Key identifies the outcome this observation prices. Two observations with
// the same key are the same outcome seen at different times and collapse to
// the freshest one during merge. DecimalOdds is deliberately not part of
// the key.
func (o *Odds) Key() string {
	parts := []string{o.MarketID, o.Bookmaker.String(), o.Side.String(), "", ""}
	if o.Points != nil {
		parts[3] = o.Points.String()
	}
	if o.Line != nil {
		parts[4] = o.Line.String()
	}
	return strings.Join(parts, "|")
}

// ImpliedProbability returns 1/decimal_odds.
func (o *Odds) ImpliedProbability() decimal.Decimal {
	return oddsmath.ImpliedProbability(o.DecimalOdds)
}
