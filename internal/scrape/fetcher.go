package scrape

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/mbelyaev/betfeed/internal/pkg/enums"
	"github.com/mbelyaev/betfeed/internal/pkg/metrics"
)

// Fetcher retrieves raw pre-match payloads from one provider. One returned
// document corresponds to one normalization unit (a component response, a
// league document).
type Fetcher interface {
	Bookmaker() enums.Bookmaker
	FetchOdds(ctx context.Context, sports []string) ([]json.RawMessage, error)
}

// FetchAll runs every fetcher concurrently and collects the raw documents per
// bookmaker. A failing provider is logged and excluded; the others proceed.
func FetchAll(ctx context.Context, fetchers []Fetcher, sports []string) map[enums.Bookmaker][]json.RawMessage {
	type result struct {
		bookmaker enums.Bookmaker
		docs      []json.RawMessage
		err       error
	}

	ch := make(chan result, len(fetchers))
	for _, f := range fetchers {
		go func(f Fetcher) {
			docs, err := f.FetchOdds(ctx, sports)
			ch <- result{bookmaker: f.Bookmaker(), docs: docs, err: err}
		}(f)
	}

	out := make(map[enums.Bookmaker][]json.RawMessage, len(fetchers))
	for range fetchers {
		res := <-ch
		if res.err != nil {
			slog.Error("Provider fetch failed", "bookmaker", res.bookmaker, "error", res.err)
			continue
		}
		out[res.bookmaker] = res.docs
		metrics.RawDocumentsFetched.WithLabelValues(res.bookmaker.String()).Add(float64(len(res.docs)))
		slog.Info("Fetched raw documents", "bookmaker", res.bookmaker, "documents", len(res.docs))
	}
	return out
}

// archiveRaw writes one raw payload to dir for offline debugging. Disabled
// when dir is empty; failures are logged, never fatal.
func archiveRaw(dir string, bookmaker enums.Bookmaker, name string, body []byte) {
	if dir == "" {
		return
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		slog.Warn("Failed to create raw response dir", "dir", dir, "error", err)
		return
	}
	filename := fmt.Sprintf("%s_%s_%s.json",
		bookmaker, name, time.Now().UTC().Format("20060102T150405"))
	path := filepath.Join(dir, filename)
	if err := os.WriteFile(path, body, 0o644); err != nil {
		slog.Warn("Failed to archive raw response", "path", path, "error", err)
	}
}
