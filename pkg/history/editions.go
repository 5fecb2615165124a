package history

import (
	"context"
	"fmt"

	"github.com/go-pkgz/lgr"

	"github.com/umputun/newsdigest/pkg/domain"
)

// Editions merges published article sets into the stored history.
// It is not safe for overlapping publishers: two concurrent Add calls for the same store
// race on load-modify-save and the last save wins.
type Editions struct {
	store       Store
	maxEditions int
}

// NewEditions makes an editions service keeping at most maxEditions editions
func NewEditions(store Store, maxEditions int) *Editions {
	if maxEditions <= 0 {
		maxEditions = DefaultMaxEditions
	}
	return &Editions{store: store, maxEditions: maxEditions}
}

// Add loads the history, upserts the edition for date and saves the whole history back.
// An unreadable history is replaced by an empty one, a failed save is returned.
func (e *Editions) Add(ctx context.Context, date string, articles []domain.Article) (domain.History, error) {
	current, err := e.store.Load(ctx)
	if err != nil {
		lgr.Printf("[WARN] can't load history from %s, starting with empty history: %v", e.store.Location(), err)
		current = domain.History{Editions: []domain.Edition{}}
	}

	updated := Upsert(current, date, articles, e.maxEditions)
	if err := e.store.Save(ctx, updated); err != nil {
		return domain.History{}, fmt.Errorf("save history to %s: %w", e.store.Location(), err)
	}

	lgr.Printf("[INFO] saved edition %s with %d articles, %d editions in history", date, len(articles), len(updated.Editions))
	return updated, nil
}

// History returns the stored history for readers, load errors are returned as is
func (e *Editions) History(ctx context.Context) (domain.History, error) {
	h, err := e.store.Load(ctx)
	if err != nil {
		return domain.History{}, fmt.Errorf("load history from %s: %w", e.store.Location(), err)
	}
	return h, nil
}

// Location returns where the history is stored
func (e *Editions) Location() string {
	return e.store.Location()
}
