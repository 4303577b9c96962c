package models

import (
	"strings"

	"github.com/mbelyaev/betfeed/internal/pkg/ids"
)

// Team is one side of a game as observed from a single source. Teams are
// recomputed independently per source observation and never merged; identity
// continuity comes from the deterministic TeamID.
type Team struct {
	RawName       string `json:"raw_name"`
	CanonicalName string `json:"canonical_name"`
	TeamID        string `json:"team_id"`
}

// NewTeam builds a Team from a source-native name. The canonical name is the
// lower-cased, alias-resolved form; aliases may be nil.
func NewTeam(rawName string, aliases map[string]string) Team {
	canonical := strings.ToLower(strings.TrimSpace(rawName))
	if resolved, ok := aliases[canonical]; ok {
		canonical = resolved
	}
	return Team{
		RawName:       rawName,
		CanonicalName: canonical,
		TeamID:        ids.Generate(canonical),
	}
}
