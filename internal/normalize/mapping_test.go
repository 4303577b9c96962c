package normalize

import (
	"testing"

	"github.com/shopspring/decimal"

	"github.com/mbelyaev/betfeed/internal/pkg/enums"
)

func TestMapSport(t *testing.T) {
	tests := []struct {
		raw  string
		want enums.Sport
		ok   bool
	}{
		{"Basketball", enums.SportNBA, true},
		{"Ice Hockey", enums.SportNHL, true},
		{"Baseball", enums.SportMLB, true},
		{"American Football", enums.SportNFL, true},
		{"Football", enums.SportNFL, true},
		{"Soccer", enums.SportSoccer, true},
		{"Tennis", enums.SportTennis, true},
		{"Darts", "", false},
		{"", "", false},
	}
	for _, tt := range tests {
		got, ok := MapSport(tt.raw)
		if ok != tt.ok || got != tt.want {
			t.Errorf("MapSport(%q) = (%q, %v), want (%q, %v)", tt.raw, got, ok, tt.want, tt.ok)
		}
	}
}

func TestMapLeague(t *testing.T) {
	tests := []struct {
		raw   string
		sport enums.Sport
		want  enums.League
		ok    bool
	}{
		{"NHL", enums.SportNHL, enums.LeagueNHL, true},
		{"National Hockey League", enums.SportNHL, enums.LeagueNHL, true},
		{"NBA", enums.SportNBA, enums.LeagueNBA, true},
		{"English Premier League", enums.SportSoccer, enums.LeagueEPL, true},
		{"UEFA Champions League", enums.SportSoccer, enums.LeagueChampionsLeague, true},
		{"ATP Miami", enums.SportTennis, enums.LeagueATP, true},
		{"KHL", enums.SportNHL, "", false},
		{"NBA", enums.SportNHL, "", false},
	}
	for _, tt := range tests {
		got, ok := MapLeague(tt.raw, tt.sport)
		if ok != tt.ok || got != tt.want {
			t.Errorf("MapLeague(%q, %s) = (%q, %v), want (%q, %v)",
				tt.raw, tt.sport, got, ok, tt.want, tt.ok)
		}
	}
}

func TestMapMarketType(t *testing.T) {
	aliases := DefaultAliases().Markets
	tests := []struct {
		raw  string
		want enums.MarketType
		ok   bool
	}{
		{"Moneyline", enums.MarketMoneyline, true},
		{"Winner 2-Way", enums.MarketMoneyline, true},
		{"Point Spread", enums.MarketSpread, true},
		{"Run Line", enums.MarketSpread, true},
		{"Puck Line", enums.MarketSpread, true},
		{"Total Points", enums.MarketTotal, true},
		{"Over/Under", enums.MarketTotal, true},
		{"Player Props", "", false},
	}
	for _, tt := range tests {
		got, ok := MapMarketType(tt.raw, aliases)
		if ok != tt.ok || got != tt.want {
			t.Errorf("MapMarketType(%q) = (%q, %v), want (%q, %v)", tt.raw, got, ok, tt.want, tt.ok)
		}
	}
}

func TestMapSide(t *testing.T) {
	tests := []struct {
		label      string
		marketType enums.MarketType
		want       enums.MarketSide
		ok         bool
	}{
		{"Miami Heat", enums.MarketMoneyline, enums.SideHome, true},
		{"Boston Celtics", enums.MarketMoneyline, enums.SideAway, true},
		{"Miami Heat (-1.5)", enums.MarketSpread, enums.SideHome, true},
		{"Boston Celtics (+1.5)", enums.MarketSpread, enums.SideAway, true},
		{"Over 210.5", enums.MarketTotal, enums.SideOver, true},
		{"Under 210.5", enums.MarketTotal, enums.SideUnder, true},
		{"o", enums.MarketTotal, enums.SideOver, true},
		{"Draw", enums.MarketMoneyline, "", false},
		{"Over 210.5", enums.MarketMoneyline, "", false},
	}
	for _, tt := range tests {
		got, ok := MapSide(tt.label, tt.marketType, "Miami Heat", "Boston Celtics")
		if ok != tt.ok || got != tt.want {
			t.Errorf("MapSide(%q, %s) = (%q, %v), want (%q, %v)",
				tt.label, tt.marketType, got, ok, tt.want, tt.ok)
		}
	}
}

func TestExtractLine(t *testing.T) {
	tests := []struct {
		label string
		want  string // "" means nil
	}{
		{"Miami Heat (-1.5)", "-1.5"},
		{"Boston Celtics (+1.5)", "1.5"},
		{"Over 210.5", "210.5"},
		{"Under 9.5", "9.5"},
		{"Over 9.5 runs", "9.5"},
		{"Miami Heat", ""},
		{"", ""},
	}
	for _, tt := range tests {
		got := ExtractLine(tt.label)
		if tt.want == "" {
			if got != nil {
				t.Errorf("ExtractLine(%q) = %s, want nil", tt.label, got)
			}
			continue
		}
		want := decimal.RequireFromString(tt.want)
		if got == nil || !got.Equal(want) {
			t.Errorf("ExtractLine(%q) = %v, want %s", tt.label, got, want)
		}
	}
}

func TestParseStartTime(t *testing.T) {
	tests := []struct {
		raw string
		ok  bool
	}{
		{"2026-03-10T23:00:00Z", true},
		{"2026-03-10T18:00:00-05:00", true},
		{"2026-03-10T18:00:00.000-05:00", true},
		{"tomorrow", false},
		{"", false},
	}
	for _, tt := range tests {
		got, ok := ParseStartTime(tt.raw)
		if ok != tt.ok {
			t.Errorf("ParseStartTime(%q) ok = %v, want %v", tt.raw, ok, tt.ok)
			continue
		}
		if ok && got.Location() != got.UTC().Location() {
			t.Errorf("ParseStartTime(%q) not normalized to UTC", tt.raw)
		}
	}
}

func TestParseStartTimeConvertsToUTC(t *testing.T) {
	got, ok := ParseStartTime("2026-03-10T18:00:00-05:00")
	if !ok {
		t.Fatal("expected parse to succeed")
	}
	if got.Hour() != 23 {
		t.Errorf("hour = %d, want 23 UTC", got.Hour())
	}
}
