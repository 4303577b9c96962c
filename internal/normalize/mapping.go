package normalize

import (
	"regexp"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/mbelyaev/betfeed/internal/pkg/enums"
)

// Shared label-mapping helpers used by all source adapters. Provider labels
// are free text and brittle; everything here is case-insensitive substring
// matching with skip-on-miss semantics.

// MapSport maps a raw sport label to a canonical sport.
func MapSport(raw string) (enums.Sport, bool) {
	lower := strings.ToLower(strings.TrimSpace(raw))
	if lower == "" {
		return "", false
	}
	switch {
	case strings.Contains(lower, "basketball"):
		return enums.SportNBA, true
	case strings.Contains(lower, "hockey"):
		return enums.SportNHL, true
	case strings.Contains(lower, "baseball"):
		return enums.SportMLB, true
	case strings.Contains(lower, "soccer"):
		return enums.SportSoccer, true
	case strings.Contains(lower, "tennis"):
		return enums.SportTennis, true
	case strings.Contains(lower, "football"):
		// "american football" and plain "football" from US books both
		// mean NFL here; soccer is matched above.
		return enums.SportNFL, true
	}
	return "", false
}

// MapLeague maps a raw league label to a canonical league, in the context of
// an already-mapped sport.
func MapLeague(raw string, sport enums.Sport) (enums.League, bool) {
	lower := strings.ToLower(strings.TrimSpace(raw))
	if lower == "" {
		return "", false
	}
	switch sport {
	case enums.SportNBA:
		if strings.Contains(lower, "nba") || strings.Contains(lower, "national basketball association") {
			return enums.LeagueNBA, true
		}
	case enums.SportNHL:
		if strings.Contains(lower, "nhl") || strings.Contains(lower, "national hockey league") {
			return enums.LeagueNHL, true
		}
	case enums.SportMLB:
		if strings.Contains(lower, "mlb") || strings.Contains(lower, "major league baseball") {
			return enums.LeagueMLB, true
		}
	case enums.SportNFL:
		if strings.Contains(lower, "nfl") || strings.Contains(lower, "national football league") {
			return enums.LeagueNFL, true
		}
	case enums.SportSoccer:
		switch {
		case strings.Contains(lower, "premier league"):
			return enums.LeagueEPL, true
		case strings.Contains(lower, "champions league"):
			return enums.LeagueChampionsLeague, true
		case strings.Contains(lower, "la liga"):
			return enums.LeagueLaLiga, true
		case strings.Contains(lower, "serie a"):
			return enums.LeagueSerieA, true
		case strings.Contains(lower, "bundesliga"):
			return enums.LeagueBundesliga, true
		case strings.Contains(lower, "ligue 1"):
			return enums.LeagueLigue1, true
		case strings.Contains(lower, "mls"), strings.Contains(lower, "major league soccer"):
			return enums.LeagueMLS, true
		}
	case enums.SportTennis:
		if strings.Contains(lower, "atp") {
			return enums.LeagueATP, true
		}
		if strings.Contains(lower, "wta") {
			return enums.LeagueWTA, true
		}
	}
	return "", false
}

// MapMarketType maps a raw market label to a canonical market type: exact
// alias-table hit first, then substring heuristics.
func MapMarketType(raw string, aliases map[string]enums.MarketType) (enums.MarketType, bool) {
	lower := strings.ToLower(strings.TrimSpace(raw))
	if lower == "" {
		return "", false
	}
	if mt, ok := aliases[lower]; ok {
		return mt, true
	}
	switch {
	case strings.Contains(lower, "moneyline"):
		return enums.MarketMoneyline, true
	case strings.Contains(lower, "spread"), strings.Contains(lower, "run line"), strings.Contains(lower, "handicap"):
		return enums.MarketSpread, true
	case strings.Contains(lower, "over/under"), strings.Contains(lower, "total"):
		return enums.MarketTotal, true
	case lower == "winner 2-way":
		return enums.MarketMoneyline, true
	}
	return "", false
}

// MapSide resolves the canonical side of an outcome label. Moneyline and
// spread outcomes are matched by team-name prefix; totals by over/under
// keywords.
func MapSide(label string, marketType enums.MarketType, homeTeam, awayTeam string) (enums.MarketSide, bool) {
	lower := strings.ToLower(strings.TrimSpace(label))
	if lower == "" {
		return "", false
	}
	switch marketType {
	case enums.MarketMoneyline, enums.MarketSpread:
		home := strings.ToLower(strings.TrimSpace(homeTeam))
		away := strings.ToLower(strings.TrimSpace(awayTeam))
		if home != "" && strings.HasPrefix(lower, home) {
			return enums.SideHome, true
		}
		if away != "" && strings.HasPrefix(lower, away) {
			return enums.SideAway, true
		}
	case enums.MarketTotal:
		if strings.HasPrefix(lower, "over") || lower == "o" {
			return enums.SideOver, true
		}
		if strings.HasPrefix(lower, "under") || lower == "u" {
			return enums.SideUnder, true
		}
	}
	return "", false
}

var (
	// trailing signed decimal, optionally closed by a paren:
	// "Mets (-1.5)" and "Under 110.5" both match.
	trailingLine = regexp.MustCompile(`([+-]?\d*\.?\d+)\)?$`)
	// first bare decimal after an over/under keyword: "Over 9.5 runs".
	anyLine = regexp.MustCompile(`([+-]?\d*\.?\d+)`)
)

// ExtractLine pulls a numeric line/points value out of an outcome label.
// Returns nil when the label carries no usable number.
func ExtractLine(label string) *decimal.Decimal {
	trimmed := strings.TrimSpace(label)
	if trimmed == "" {
		return nil
	}
	if m := trailingLine.FindStringSubmatch(trimmed); m != nil {
		if d, err := decimal.NewFromString(m[1]); err == nil {
			return &d
		}
	}
	lower := strings.ToLower(trimmed)
	if strings.HasPrefix(lower, "over") || strings.HasPrefix(lower, "under") {
		if m := anyLine.FindStringSubmatch(trimmed); m != nil {
			if d, err := decimal.NewFromString(m[1]); err == nil {
				return &d
			}
		}
	}
	return nil
}

// startTimeLayouts are the ISO-8601 variants the providers have been seen
// sending (with and without fractional seconds).
var startTimeLayouts = []string{
	time.RFC3339Nano,
	time.RFC3339,
	"2006-01-02T15:04:05.000-07:00",
	"2006-01-02T15:04:05Z0700",
}

// ParseStartTime parses a provider start-time string and converts it to UTC.
func ParseStartTime(s string) (time.Time, bool) {
	trimmed := strings.TrimSpace(s)
	if trimmed == "" {
		return time.Time{}, false
	}
	for _, layout := range startTimeLayouts {
		if t, err := time.Parse(layout, trimmed); err == nil {
			return t.UTC(), true
		}
	}
	return time.Time{}, false
}
