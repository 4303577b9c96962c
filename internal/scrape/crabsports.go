package scrape

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strings"
	"sync"

	"github.com/mbelyaev/betfeed/internal/pkg/config"
	"github.com/mbelyaev/betfeed/internal/pkg/enums"
)

// sportPaths maps canonical sport names to the Crab Sports site paths the
// component API is queried with.
var sportPaths = map[string]string{
	"NBA":    "/basketball/nba",
	"NHL":    "/ice-hockey/nhl",
	"MLB":    "/baseball/mlb",
	"NFL":    "/american-football/nfl",
	"SOCCER": "/football",
	"TENNIS": "/tennis",
}

// componentRequest is the POST payload asking the component API for the
// prematch event list of one site path.
type componentRequest struct {
	Requests []componentQuery `json:"requests"`
}

type componentQuery struct {
	TreeCompoKey string `json:"tree_compo_key"`
	Path         string `json:"path"`
}

// CrabSportsFetcher pulls prematch component responses, one per sport. The
// session cookie is bootstrapped with a headless browser when missing or
// rejected.
type CrabSportsFetcher struct {
	cfg    config.CrabSportsConfig
	http   *HTTPClient
	rawDir string

	mu     sync.Mutex
	cookie string
}

func NewCrabSportsFetcher(cfg config.ScraperConfig, client *HTTPClient) *CrabSportsFetcher {
	return &CrabSportsFetcher{
		cfg:    cfg.CrabSports,
		http:   client,
		rawDir: cfg.RawResponseDir,
		cookie: cfg.CrabSports.Cookie,
	}
}

func (f *CrabSportsFetcher) Bookmaker() enums.Bookmaker {
	return enums.BookmakerCrabSports
}

// FetchOdds requests the prematch event list for every configured sport. A
// sport with no path mapping or a failing request is skipped; an auth
// rejection triggers one session refresh before giving up on the sport.
func (f *CrabSportsFetcher) FetchOdds(ctx context.Context, sports []string) ([]json.RawMessage, error) {
	var docs []json.RawMessage
	for _, sport := range sports {
		path, ok := sportPaths[strings.ToUpper(sport)]
		if !ok {
			slog.Warn("CrabSports: no site path for sport, skipping", "sport", sport)
			continue
		}

		body, err := f.fetchComponent(ctx, path)
		var authErr *AuthError
		if errors.As(err, &authErr) {
			slog.Warn("CrabSports: session rejected, refreshing cookie", "status", authErr.StatusCode)
			if refreshErr := f.refreshSession(ctx); refreshErr != nil {
				return docs, fmt.Errorf("session refresh: %w", refreshErr)
			}
			body, err = f.fetchComponent(ctx, path)
		}
		if err != nil {
			slog.Error("CrabSports: fetch failed for sport", "sport", sport, "error", err)
			continue
		}

		archiveRaw(f.rawDir, enums.BookmakerCrabSports, strings.ToLower(sport), body)
		docs = append(docs, json.RawMessage(body))
	}
	if len(docs) == 0 {
		return nil, fmt.Errorf("no sports fetched")
	}
	return docs, nil
}

func (f *CrabSportsFetcher) fetchComponent(ctx context.Context, path string) ([]byte, error) {
	payload, err := json.Marshal(componentRequest{
		Requests: []componentQuery{{TreeCompoKey: "prematch_event_list", Path: path}},
	})
	if err != nil {
		return nil, fmt.Errorf("marshal component request: %w", err)
	}

	req, err := NewJSONRequest(http.MethodPost, f.cfg.BaseURL, payload)
	if err != nil {
		return nil, err
	}
	if ua := f.cfg.UserAgent; ua != "" {
		req.Header.Set("User-Agent", ua)
	}
	if cookie := f.currentCookie(); cookie != "" {
		req.Header.Set("Cookie", cookie)
	}
	return f.http.Do(ctx, req)
}

func (f *CrabSportsFetcher) currentCookie() string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.cookie
}

func (f *CrabSportsFetcher) refreshSession(ctx context.Context) error {
	if f.cfg.SiteURL == "" {
		return fmt.Errorf("site_url not configured, cannot bootstrap session")
	}
	cookie, err := BootstrapSessionCookie(ctx, f.cfg.SiteURL, f.cfg.UserAgent)
	if err != nil {
		return err
	}
	f.mu.Lock()
	f.cookie = cookie
	f.mu.Unlock()
	slog.Info("CrabSports: session cookie refreshed")
	return nil
}
