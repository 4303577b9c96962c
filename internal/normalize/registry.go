package normalize

import (
	"encoding/json"
	"sort"
	"sync"

	"github.com/mbelyaev/betfeed/internal/pkg/enums"
	"github.com/mbelyaev/betfeed/internal/pkg/models"
)

// Adapter maps one raw provider document into zero or more canonical games.
// A returned error means the whole document was unusable (structural parse
// failure); per-event problems are handled inside the adapter by skipping.
type Adapter interface {
	Bookmaker() enums.Bookmaker
	Normalize(doc json.RawMessage) ([]*models.Game, error)
}

// Factory builds an adapter with the given alias tables injected.
type Factory func(aliases Aliases) Adapter

var (
	registryMu sync.RWMutex
	registry   = map[enums.Bookmaker]Factory{}
)

// Register adds an adapter factory for a bookmaker. Adapters register
// themselves from init(); importing the all package wires every one in.
func Register(bookmaker enums.Bookmaker, f Factory) {
	if bookmaker == "" || bookmaker == enums.BookmakerUnknown {
		panic("normalize: invalid bookmaker in Register")
	}
	if f == nil {
		panic("normalize: nil factory in Register for " + bookmaker.String())
	}

	registryMu.Lock()
	defer registryMu.Unlock()
	if _, exists := registry[bookmaker]; exists {
		panic("normalize: duplicate registration for " + bookmaker.String())
	}
	registry[bookmaker] = f
}

// FactoryFor returns the registered factory for a bookmaker.
func FactoryFor(bookmaker enums.Bookmaker) (Factory, bool) {
	registryMu.RLock()
	defer registryMu.RUnlock()
	f, ok := registry[bookmaker]
	return f, ok
}

// RegisteredBookmakers returns the bookmakers with a registered adapter,
// sorted for deterministic iteration.
func RegisteredBookmakers() []enums.Bookmaker {
	registryMu.RLock()
	defer registryMu.RUnlock()
	out := make([]enums.Bookmaker, 0, len(registry))
	for b := range registry {
		out = append(out, b)
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}
