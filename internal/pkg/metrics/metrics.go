// Package metrics holds the Prometheus instruments for the scrape/normalize
// pipeline. Counters are registered once via promauto and shared.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// RawDocumentsFetched counts raw provider documents successfully fetched.
	RawDocumentsFetched = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "betfeed_raw_documents_fetched_total",
		Help: "Raw documents fetched per bookmaker.",
	}, []string{"bookmaker"})

	// GamesNormalized counts games produced by the source adapters.
	GamesNormalized = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "betfeed_games_normalized_total",
		Help: "Games produced by normalization per bookmaker.",
	}, []string{"bookmaker"})

	// UnitsSkipped counts events/markets/outcomes skipped during
	// normalization, labeled by the granularity and the reason.
	UnitsSkipped = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "betfeed_normalize_units_skipped_total",
		Help: "Events, markets and outcomes skipped during normalization.",
	}, []string{"bookmaker", "unit", "reason"})

	// GamesMerged counts duplicate games folded into a canonical game.
	GamesMerged = promauto.NewCounter(prometheus.CounterOpts{
		Name: "betfeed_games_merged_total",
		Help: "Duplicate games folded into a canonical game during merge.",
	})

	// GamesUnkeyed counts games dropped because no fuzzy key could be built.
	GamesUnkeyed = promauto.NewCounter(prometheus.CounterOpts{
		Name: "betfeed_games_unkeyed_total",
		Help: "Games dropped from merge because they could not be keyed.",
	})

	// RecordsUpserted counts records written to the datastore per table.
	RecordsUpserted = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "betfeed_records_upserted_total",
		Help: "Records upserted to the datastore per table.",
	}, []string{"table"})

	// CycleDuration observes full scrape cycle durations.
	CycleDuration = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "betfeed_cycle_duration_seconds",
		Help:    "Duration of a full scrape/normalize/persist cycle.",
		Buckets: prometheus.DefBuckets,
	})
)
