// Package normalize turns raw per-provider payload batches into canonical
// Game entities. One adapter per provider; the orchestrator dispatches each
// raw document to the right adapter and concatenates the results.
package normalize

import (
	"encoding/json"
	"log/slog"

	"github.com/mbelyaev/betfeed/internal/pkg/enums"
	"github.com/mbelyaev/betfeed/internal/pkg/metrics"
	"github.com/mbelyaev/betfeed/internal/pkg/models"
)

// Normalizer dispatches raw documents to per-provider adapters.
type Normalizer struct {
	adapters map[enums.Bookmaker]Adapter
	order    []enums.Bookmaker
}

// New builds a Normalizer from every registered adapter, constructed with
// the given alias tables.
func New(aliases Aliases) *Normalizer {
	n := &Normalizer{adapters: make(map[enums.Bookmaker]Adapter)}
	for _, b := range RegisteredBookmakers() {
		f, _ := FactoryFor(b)
		n.adapters[b] = f(aliases)
		n.order = append(n.order, b)
	}
	return n
}

// NewWithAdapters builds a Normalizer from an explicit adapter list,
// bypassing the registry. Mostly for tests.
func NewWithAdapters(adapters ...Adapter) *Normalizer {
	n := &Normalizer{adapters: make(map[enums.Bookmaker]Adapter)}
	for _, a := range adapters {
		n.adapters[a.Bookmaker()] = a
		n.order = append(n.order, a.Bookmaker())
	}
	return n
}

// Normalize maps raw documents from all providers to a flat list of games.
// One provider's total failure never blocks the others; a provider with no
// registered adapter is logged and skipped. Output order is provider
// registration order, then document order, then adapter-internal event
// order, significant only for determinism.
func (n *Normalizer) Normalize(rawByProvider map[enums.Bookmaker][]json.RawMessage) []*models.Game {
	var all []*models.Game

	for _, bookmaker := range n.order {
		docs := rawByProvider[bookmaker]
		if len(docs) == 0 {
			continue
		}
		adapter := n.adapters[bookmaker]

		var produced int
		for i, doc := range docs {
			games, err := adapter.Normalize(doc)
			if err != nil {
				// Structural failure of one document only; siblings
				// still get processed.
				slog.Error("Normalization failed for raw document",
					"bookmaker", bookmaker, "doc_index", i, "error", err)
				continue
			}
			all = append(all, games...)
			produced += len(games)
		}
		metrics.GamesNormalized.WithLabelValues(bookmaker.String()).Add(float64(produced))
		slog.Info("Normalized provider batch",
			"bookmaker", bookmaker, "documents", len(docs), "games", produced)
	}

	for bookmaker, docs := range rawByProvider {
		if _, ok := n.adapters[bookmaker]; !ok && len(docs) > 0 {
			slog.Warn("No adapter registered for bookmaker, skipping",
				"bookmaker", bookmaker, "documents", len(docs))
		}
	}

	return all
}
