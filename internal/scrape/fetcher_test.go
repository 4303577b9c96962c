package scrape

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/mbelyaev/betfeed/internal/pkg/config"
)

func scraperConfig(baseURL string) config.ScraperConfig {
	return config.ScraperConfig{
		Timeout: 5 * time.Second,
		CrabSports: config.CrabSportsConfig{
			BaseURL:   baseURL,
			Cookie:    "session=abc",
			UserAgent: "test-agent",
		},
		Pinnacle: config.PinnacleConfig{
			BaseURL: baseURL,
			APIKey:  "test-key",
		},
	}
}

func TestCrabSportsFetchSendsSessionAndPayload(t *testing.T) {
	var gotCookie, gotPath string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotCookie = r.Header.Get("Cookie")
		var req componentRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			t.Errorf("decode payload: %v", err)
		}
		if len(req.Requests) == 1 {
			gotPath = req.Requests[0].Path
		}
		w.Write([]byte(`{"components":[]}`))
	}))
	defer srv.Close()

	f := NewCrabSportsFetcher(scraperConfig(srv.URL), fastClient())
	docs, err := f.FetchOdds(context.Background(), []string{"NHL"})
	if err != nil {
		t.Fatalf("FetchOdds: %v", err)
	}
	if len(docs) != 1 {
		t.Fatalf("docs = %d, want 1", len(docs))
	}
	if gotCookie != "session=abc" {
		t.Errorf("cookie = %q, want configured session", gotCookie)
	}
	if gotPath != "/ice-hockey/nhl" {
		t.Errorf("path = %q, want /ice-hockey/nhl", gotPath)
	}
}

func TestCrabSportsFetchSkipsUnknownSport(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"components":[]}`))
	}))
	defer srv.Close()

	f := NewCrabSportsFetcher(scraperConfig(srv.URL), fastClient())
	if _, err := f.FetchOdds(context.Background(), []string{"CRICKET"}); err == nil {
		t.Fatal("expected error when no sport could be fetched")
	}
}

func TestPinnacleFetchJoinsMatchupsAndMarkets(t *testing.T) {
	var gotKey string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotKey = r.Header.Get("X-API-Key")
		switch {
		case strings.HasSuffix(r.URL.Path, "/matchups"):
			w.Write([]byte(`[{"id": 1}]`))
		case strings.HasSuffix(r.URL.Path, "/markets/straight"):
			w.Write([]byte(`[{"matchupId": 1}]`))
		default:
			w.WriteHeader(http.StatusNotFound)
		}
	}))
	defer srv.Close()

	f := NewPinnacleFetcher(scraperConfig(srv.URL), fastClient())
	docs, err := f.FetchOdds(context.Background(), []string{"NHL"})
	if err != nil {
		t.Fatalf("FetchOdds: %v", err)
	}
	if len(docs) != 1 {
		t.Fatalf("docs = %d, want 1", len(docs))
	}
	if gotKey != "test-key" {
		t.Errorf("api key = %q, want test-key", gotKey)
	}

	var doc struct {
		LeagueID int64           `json:"league_id"`
		Matchups json.RawMessage `json:"matchups"`
		Markets  json.RawMessage `json:"markets"`
	}
	if err := json.Unmarshal(docs[0], &doc); err != nil {
		t.Fatalf("unmarshal composite document: %v", err)
	}
	if doc.LeagueID != 1456 {
		t.Errorf("league id = %d, want 1456", doc.LeagueID)
	}
	if len(doc.Matchups) == 0 || len(doc.Markets) == 0 {
		t.Error("composite document missing matchups or markets")
	}
}

func TestPinnacleFetchSkipsLeagueWhenMarketsFail(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if strings.HasSuffix(r.URL.Path, "/matchups") {
			w.Write([]byte(`[{"id": 1}]`))
			return
		}
		w.WriteHeader(http.StatusNotFound)
	}))
	defer srv.Close()

	f := NewPinnacleFetcher(scraperConfig(srv.URL), fastClient())
	if _, err := f.FetchOdds(context.Background(), []string{"NHL"}); err == nil {
		t.Fatal("expected error: a league without markets must not produce a document")
	}
}

func TestFetchAllIsolatesProviderFailure(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"components":[]}`))
	}))
	defer srv.Close()

	good := NewCrabSportsFetcher(scraperConfig(srv.URL), fastClient())

	badCfg := scraperConfig("http://127.0.0.1:1")
	bad := NewPinnacleFetcher(badCfg, &HTTPClient{
		client:      &http.Client{Timeout: time.Second},
		maxAttempts: 1,
		backoff:     time.Millisecond,
	})

	out := FetchAll(context.Background(), []Fetcher{good, bad}, []string{"NHL"})
	if len(out[good.Bookmaker()]) != 1 {
		t.Errorf("good provider docs = %d, want 1", len(out[good.Bookmaker()]))
	}
	if _, ok := out[bad.Bookmaker()]; ok {
		t.Error("failed provider should be absent from results")
	}
}
