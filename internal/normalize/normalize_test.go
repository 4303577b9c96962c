package normalize

import (
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/mbelyaev/betfeed/internal/pkg/enums"
	"github.com/mbelyaev/betfeed/internal/pkg/models"
)

// fakeAdapter produces a fixed number of empty games per document, or fails.
type fakeAdapter struct {
	bookmaker enums.Bookmaker
	perDoc    int
	fail      bool
}

func (f *fakeAdapter) Bookmaker() enums.Bookmaker { return f.bookmaker }

func (f *fakeAdapter) Normalize(doc json.RawMessage) ([]*models.Game, error) {
	if f.fail {
		return nil, errors.New("structural failure")
	}
	games := make([]*models.Game, f.perDoc)
	for i := range games {
		games[i] = &models.Game{
			Bookmaker:      f.bookmaker,
			LastUpdatedUTC: time.Now().UTC(),
		}
	}
	return games, nil
}

func TestNormalizeDispatchesPerBookmaker(t *testing.T) {
	n := NewWithAdapters(
		&fakeAdapter{bookmaker: enums.BookmakerPinnacle, perDoc: 2},
		&fakeAdapter{bookmaker: enums.BookmakerCrabSports, perDoc: 1},
	)

	games := n.Normalize(map[enums.Bookmaker][]json.RawMessage{
		enums.BookmakerPinnacle:   {json.RawMessage(`{}`), json.RawMessage(`{}`)},
		enums.BookmakerCrabSports: {json.RawMessage(`{}`)},
	})

	if len(games) != 5 {
		t.Fatalf("games = %d, want 5 (2 docs x 2 + 1 doc x 1)", len(games))
	}
	counts := make(map[enums.Bookmaker]int)
	for _, g := range games {
		counts[g.Bookmaker]++
	}
	if counts[enums.BookmakerPinnacle] != 4 || counts[enums.BookmakerCrabSports] != 1 {
		t.Errorf("per-bookmaker counts = %v", counts)
	}
}

func TestNormalizeFailingProviderIsolated(t *testing.T) {
	n := NewWithAdapters(
		&fakeAdapter{bookmaker: enums.BookmakerPinnacle, fail: true},
		&fakeAdapter{bookmaker: enums.BookmakerCrabSports, perDoc: 3},
	)

	games := n.Normalize(map[enums.Bookmaker][]json.RawMessage{
		enums.BookmakerPinnacle:   {json.RawMessage(`{}`)},
		enums.BookmakerCrabSports: {json.RawMessage(`{}`)},
	})

	if len(games) != 3 {
		t.Fatalf("games = %d, want 3 from the healthy provider", len(games))
	}
}

func TestNormalizeUnregisteredProviderSkipped(t *testing.T) {
	n := NewWithAdapters(&fakeAdapter{bookmaker: enums.BookmakerPinnacle, perDoc: 1})

	games := n.Normalize(map[enums.Bookmaker][]json.RawMessage{
		enums.BookmakerCrabSports: {json.RawMessage(`{}`)},
	})

	if len(games) != 0 {
		t.Fatalf("games = %d, want 0 for an unregistered provider", len(games))
	}
}

func TestRegisterRejectsInvalid(t *testing.T) {
	assertPanics := func(name string, fn func()) {
		t.Helper()
		defer func() {
			if recover() == nil {
				t.Errorf("%s: expected panic", name)
			}
		}()
		fn()
	}

	assertPanics("unknown bookmaker", func() {
		Register(enums.BookmakerUnknown, func(Aliases) Adapter { return nil })
	})
	assertPanics("nil factory", func() {
		Register(enums.Bookmaker("SomeBook"), nil)
	})
}
