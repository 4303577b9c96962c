package normalize

import "github.com/mbelyaev/betfeed/internal/pkg/enums"

// Aliases are the injected mapping tables shared by all adapters. They are
// read-only during a normalization run and safe to share across concurrent
// adapter invocations.
type Aliases struct {
	// Teams maps a lower-cased raw team name to its canonical form.
	Teams map[string]string
	// Markets maps a lower-cased raw market label to a canonical type.
	// Substring heuristics in MapMarketType run after this table.
	Markets map[string]enums.MarketType
}

// DefaultAliases returns the built-in mapping tables. The market table
// covers the labels both providers have been observed to use; the team table
// starts empty and grows as mismatches are found in production.
func DefaultAliases() Aliases {
	return Aliases{
		Teams: map[string]string{},
		Markets: map[string]enums.MarketType{
			"moneyline":    enums.MarketMoneyline,
			"money line":   enums.MarketMoneyline,
			"ml":           enums.MarketMoneyline,
			"point spread": enums.MarketSpread,
			"spread":       enums.MarketSpread,
			"run line":     enums.MarketSpread,
			"puck line":    enums.MarketSpread,
			"handicap":     enums.MarketSpread,
			"total points": enums.MarketTotal,
			"total":        enums.MarketTotal,
			"over/under":   enums.MarketTotal,
			"over under":   enums.MarketTotal,
		},
	}
}
