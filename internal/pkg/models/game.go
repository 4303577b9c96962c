package models

import (
	"fmt"
	"time"

	"github.com/mbelyaev/betfeed/internal/pkg/enums"
	"github.com/mbelyaev/betfeed/internal/pkg/ids"
)

// startTimeTolerance absorbs sources rounding kickoff time differently.
const startTimeTolerance = 300 * time.Second

// Game represents a single sporting event as seen by one bookmaker.
// GameID is canonical (source-independent); RawEventID is source-native.
type Game struct {
	Sport        enums.Sport     `json:"sport"`
	League       enums.League    `json:"league"`
	StartTimeUTC time.Time       `json:"start_time_utc"`
	HomeTeam     Team            `json:"home_team"`
	AwayTeam     Team            `json:"away_team"`
	Bookmaker    enums.Bookmaker `json:"bookmaker"`
	RawEventID   string          `json:"raw_event_id"`

	GameID         string    `json:"game_id"`
	LastUpdatedUTC time.Time `json:"last_updated_utc"`

	Markets []*Market `json:"markets"`
}

// GameIDFor derives the canonical game id from sport, league, team ids and
// the date portion of the start time. Using the date only (not the full
// timestamp) makes same-day re-scrapes collapse to the same id.
func GameIDFor(sport enums.Sport, league enums.League, awayTeamID, homeTeamID string, startTime time.Time) string {
	return ids.Generate(sport.String(), league.String(), awayTeamID, "at", homeTeamID, startTime.UTC().Format("20060102"))
}

// Equal reports whether two games represent the same event. When both carry
// a canonical id the ids decide; otherwise fall back to the identifying
// fields with a start-time tolerance.
func (g *Game) Equal(other *Game) bool {
	if other == nil {
		return false
	}
	if g.GameID != "" && other.GameID != "" {
		return g.GameID == other.GameID
	}
	if g.Sport != other.Sport || g.League != other.League {
		return false
	}
	if g.HomeTeam.RawName != other.HomeTeam.RawName || g.AwayTeam.RawName != other.AwayTeam.RawName {
		return false
	}
	diff := g.StartTimeUTC.Sub(other.StartTimeUTC)
	if diff < 0 {
		diff = -diff
	}
	return diff <= startTimeTolerance
}

// Description returns a human-readable one-liner for logs.
func (g *Game) Description() string {
	home := g.HomeTeam.CanonicalName
	if home == "" {
		home = g.HomeTeam.RawName
	}
	away := g.AwayTeam.CanonicalName
	if away == "" {
		away = g.AwayTeam.RawName
	}
	return fmt.Sprintf("%s: %s @ %s (%s)", g.League, away, home, g.StartTimeUTC.Format("2006-01-02 15:04 UTC"))
}
