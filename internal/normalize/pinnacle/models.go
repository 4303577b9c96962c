package pinnacle

import "encoding/json"

// Provisional decode structures for the Pinnacle guest API. One raw document
// covers one league: a matchups list and a flat markets list joined by
// matchup id.

type leagueDocument struct {
	LeagueID json.Number  `json:"league_id"`
	Matchups []rawMatchup `json:"matchups"`
	Markets  []rawMarket  `json:"markets"`
}

type rawMatchup struct {
	ID           json.Number      `json:"id"`
	StartTime    string           `json:"startTime"`
	Type         string           `json:"type"` // only "matchup" is a game
	League       *matchupLeague   `json:"league"`
	Participants []rawParticipant `json:"participants"`
}

type matchupLeague struct {
	Name  string        `json:"name"`
	Sport *matchupSport `json:"sport"`
}

type matchupSport struct {
	Name string `json:"name"`
}

type rawParticipant struct {
	Alignment string `json:"alignment"` // "home" | "away"
	Name      string `json:"name"`
}

type rawMarket struct {
	MatchupID   json.Number `json:"matchupId"`
	Period      int         `json:"period"` // 0 is the full game
	Type        string      `json:"type"`   // moneyline | spread | total
	IsAlternate bool        `json:"isAlternate"`
	Prices      []rawPrice  `json:"prices"`
}

type rawPrice struct {
	Designation string   `json:"designation"` // home | away | over | under
	Points      *float64 `json:"points"`
	Price       int      `json:"price"` // American odds
}
