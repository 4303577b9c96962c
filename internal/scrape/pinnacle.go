package scrape

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"strings"

	"github.com/mbelyaev/betfeed/internal/pkg/config"
	"github.com/mbelyaev/betfeed/internal/pkg/enums"
)

// pinnacleLeagueIDs maps canonical sport names to Pinnacle guest-API league
// ids for the primary competition of each sport.
var pinnacleLeagueIDs = map[string]int64{
	"NBA": 487,
	"NHL": 1456,
	"MLB": 246,
	"NFL": 889,
}

// leagueDocument is the composite raw document handed to normalization: the
// league's matchups joined with its straight markets.
type leagueDocument struct {
	LeagueID int64           `json:"league_id"`
	Matchups json.RawMessage `json:"matchups"`
	Markets  json.RawMessage `json:"markets"`
}

// PinnacleFetcher pulls matchups and straight markets from the Pinnacle guest
// API, one composite document per league.
type PinnacleFetcher struct {
	cfg    config.PinnacleConfig
	http   *HTTPClient
	rawDir string
}

func NewPinnacleFetcher(cfg config.ScraperConfig, client *HTTPClient) *PinnacleFetcher {
	return &PinnacleFetcher{
		cfg:    cfg.Pinnacle,
		http:   client,
		rawDir: cfg.RawResponseDir,
	}
}

func (f *PinnacleFetcher) Bookmaker() enums.Bookmaker {
	return enums.BookmakerPinnacle
}

// FetchOdds fetches one composite document per configured sport. Both the
// matchups and the markets call must succeed or the league is skipped: a
// document with only one half would normalize to games without prices.
func (f *PinnacleFetcher) FetchOdds(ctx context.Context, sports []string) ([]json.RawMessage, error) {
	var docs []json.RawMessage
	for _, sport := range sports {
		leagueID, ok := pinnacleLeagueIDs[strings.ToUpper(sport)]
		if !ok {
			slog.Warn("Pinnacle: no league id for sport, skipping", "sport", sport)
			continue
		}

		matchups, err := f.getJSON(ctx, fmt.Sprintf("/0.1/leagues/%d/matchups", leagueID))
		if err != nil {
			slog.Error("Pinnacle: matchups fetch failed", "sport", sport, "league_id", leagueID, "error", err)
			continue
		}
		markets, err := f.getJSON(ctx, fmt.Sprintf("/0.1/leagues/%d/markets/straight", leagueID))
		if err != nil {
			slog.Error("Pinnacle: markets fetch failed, skipping league", "sport", sport, "league_id", leagueID, "error", err)
			continue
		}

		doc, err := json.Marshal(leagueDocument{
			LeagueID: leagueID,
			Matchups: matchups,
			Markets:  markets,
		})
		if err != nil {
			return nil, fmt.Errorf("marshal league document: %w", err)
		}

		archiveRaw(f.rawDir, enums.BookmakerPinnacle, strings.ToLower(sport), doc)
		docs = append(docs, json.RawMessage(doc))
	}
	if len(docs) == 0 {
		return nil, fmt.Errorf("no leagues fetched")
	}
	return docs, nil
}

func (f *PinnacleFetcher) getJSON(ctx context.Context, path string) (json.RawMessage, error) {
	req, err := http.NewRequest(http.MethodGet, f.cfg.BaseURL+path, nil)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	if f.cfg.APIKey != "" {
		req.Header.Set("X-API-Key", f.cfg.APIKey)
	}

	body, err := f.http.Do(ctx, req)
	if err != nil {
		return nil, err
	}
	if !json.Valid(body) {
		return nil, fmt.Errorf("response from %s is not valid JSON", path)
	}
	return json.RawMessage(body), nil
}
