package enums

// Sport represents supported sports types
type Sport string

const (
	SportNBA    Sport = "NBA"
	SportNHL    Sport = "NHL"
	SportMLB    Sport = "MLB"
	SportNFL    Sport = "NFL"
	SportSoccer Sport = "SOCCER"
	SportTennis Sport = "TENNIS"
)

// IsValid checks if sport is supported
func (s Sport) IsValid() bool {
	switch s {
	case SportNBA, SportNHL, SportMLB, SportNFL, SportSoccer, SportTennis:
		return true
	default:
		return false
	}
}

// String returns string representation
func (s Sport) String() string {
	return string(s)
}

// League represents a competition within a sport
type League string

const (
	LeagueNBA             League = "NBA"
	LeagueNHL             League = "NHL"
	LeagueMLB             League = "MLB"
	LeagueNFL             League = "NFL"
	LeagueEPL             League = "EPL"
	LeagueChampionsLeague League = "CHAMPIONS_LEAGUE"
	LeagueLaLiga          League = "LA_LIGA"
	LeagueSerieA          League = "SERIE_A"
	LeagueBundesliga      League = "BUNDESLIGA"
	LeagueLigue1          League = "LIGUE_1"
	LeagueMLS             League = "MLS"
	LeagueATP             League = "ATP"
	LeagueWTA             League = "WTA"
)

func (l League) String() string {
	return string(l)
}

// MarketType is the canonical market classification.
// SPREAD covers point spread, run line, puck line and generic handicaps;
// TOTAL covers over/under.
type MarketType string

const (
	MarketMoneyline MarketType = "MONEYLINE"
	MarketSpread    MarketType = "SPREAD"
	MarketTotal     MarketType = "TOTAL"
)

func (m MarketType) String() string {
	return string(m)
}

// MarketSide is one priced side of a market
type MarketSide string

const (
	SideHome  MarketSide = "HOME"
	SideAway  MarketSide = "AWAY"
	SideOver  MarketSide = "OVER"
	SideUnder MarketSide = "UNDER"
)

func (s MarketSide) String() string {
	return string(s)
}

// Period identifies the game segment a market covers.
// Only FULL_GAME is populated by the current adapters.
type Period string

const (
	PeriodFullGame  Period = "FULL_GAME"
	PeriodFirstHalf Period = "FIRST_HALF"
)

func (p Period) String() string {
	return string(p)
}

// Bookmaker identifies an upstream odds source
type Bookmaker string

const (
	BookmakerPinnacle   Bookmaker = "Pinnacle"
	BookmakerCrabSports Bookmaker = "CrabSports"
	BookmakerUnknown    Bookmaker = "Unknown"
)

func (b Bookmaker) String() string {
	return string(b)
}

// AllBookmakers returns every bookmaker an adapter can be registered for
func AllBookmakers() []Bookmaker {
	return []Bookmaker{BookmakerPinnacle, BookmakerCrabSports}
}
