package models

import (
	"github.com/shopspring/decimal"

	"github.com/mbelyaev/betfeed/internal/pkg/enums"
	"github.com/mbelyaev/betfeed/internal/pkg/ids"
)

// lineTolerance is the maximum difference under which two market lines are
// considered the same in the fallback equality check.
var lineTolerance = decimal.RequireFromString("0.01")

// Market is one betting market within a game. GameID references the owning
// game's canonical id; the Odds slice is owned exclusively by the market.
type Market struct {
	GameID        string           `json:"game_id"`
	MarketType    enums.MarketType `json:"market_type"`
	Period        enums.Period     `json:"period"`
	Line          *decimal.Decimal `json:"line,omitempty"`
	RawMarketName string           `json:"raw_market_name"`
	MarketID      string           `json:"market_id"`

	Odds []*Odds `json:"odds"`
}

// MarketIDFor derives the canonical market id from the owning game id, the
// market type and the market-level line ("base" when there is none).
func MarketIDFor(gameID string, marketType enums.MarketType, line *decimal.Decimal) string {
	lineStr := "base"
	if line != nil {
		lineStr = line.String()
	}
	return ids.Generate(gameID, marketType.String(), lineStr)
}

// Equal reports whether two markets are the same market. Canonical ids
// decide when both are set; the fallback compares game, type, period and the
// quarter-rounded line with a small tolerance.
func (m *Market) Equal(other *Market) bool {
	if other == nil {
		return false
	}
	if m.MarketID != "" && other.MarketID != "" {
		return m.MarketID == other.MarketID
	}
	if m.GameID != other.GameID || m.MarketType != other.MarketType || m.Period != other.Period {
		return false
	}
	if m.Line == nil && other.Line == nil {
		return true
	}
	if m.Line == nil || other.Line == nil {
		return false
	}
	return roundQuarter(*m.Line).Sub(roundQuarter(*other.Line)).Abs().LessThan(lineTolerance)
}

// roundQuarter quantizes a line to the nearest 0.25.
func roundQuarter(d decimal.Decimal) decimal.Decimal {
	four := decimal.NewFromInt(4)
	return d.Mul(four).Round(0).Div(four)
}
