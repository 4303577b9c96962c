package crabsports

import "encoding/json"

// Provisional decode structures for the Crab Sports component API. Every
// field is optional; narrowing happens in the adapter. The response is a
// list of UI components, one of which carries the prematch event list.

type componentResponse struct {
	Components []component `json:"components"`
}

type component struct {
	TreeCompoKey string         `json:"tree_compo_key"`
	Data         *componentData `json:"data"`
}

type componentData struct {
	Competitions []competition `json:"competitions"`
	Events       []rawEvent    `json:"events"`
}

type competition struct {
	Label  string     `json:"label"`
	Events []rawEvent `json:"events"`
}

type rawEvent struct {
	ID          json.Number       `json:"id"`
	Start       string            `json:"start"` // ISO-8601 with offset
	Sport       *labeled          `json:"sport"`
	Competition *labeled          `json:"competition"`
	Actors      []actor           `json:"actors"`
	Markets     []marketContainer `json:"markets"`
}

type labeled struct {
	Label string `json:"label"`
}

type actor struct {
	Type  string `json:"type"` // "home" | "away"
	Label string `json:"label"`
}

// marketContainer may hold several bets; the first bet carries the primary
// market info for the container.
type marketContainer struct {
	Bets []bet `json:"bets"`
}

type bet struct {
	Label      string      `json:"label"`
	Selections []selection `json:"selections"`
}

type selection struct {
	Label string      `json:"label"`
	Odds  json.Number `json:"odds"` // decimal odds, native
}
