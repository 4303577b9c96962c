// Package storage persists canonical games and serves them back to the EV
// calculator. PostgreSQL is the durable store; Redis carries a short-lived
// latest-odds cache.
package storage

import (
	"context"
	"time"

	"github.com/mbelyaev/betfeed/internal/pkg/models"
)

// Upserter persists one batch of canonical games idempotently: re-writing
// the same batch updates rows in place instead of duplicating them.
type Upserter interface {
	UpsertGames(ctx context.Context, games []*models.Game) error
	Close() error
}

// UpcomingReader serves persisted games starting within the window. Used by
// the EV calculator.
type UpcomingReader interface {
	GetUpcomingGames(ctx context.Context, from time.Time, hoursAhead int) ([]*models.Game, error)
}
