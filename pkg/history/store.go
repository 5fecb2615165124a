package history

import (
	"context"
	"fmt"

	"github.com/umputun/newsdigest/pkg/config"
	"github.com/umputun/newsdigest/pkg/domain"
)

//go:generate moq -out mocks/store.go -pkg mocks -skip-ensure -fmt goimports . Store

// Store loads and saves the whole history document.
// Save must be atomic, readers never observe a partially written history.
type Store interface {
	Load(ctx context.Context) (domain.History, error)
	Save(ctx context.Context, h domain.History) error
	Location() string
	Close() error
}

// NewStore makes a store for the configured driver
func NewStore(ctx context.Context, cfg config.HistoryConfig) (Store, error) {
	switch cfg.Driver {
	case "", "file":
		return NewFileStore(cfg.Path), nil
	case "sqlite", "postgres":
		st, err := NewSQLStore(ctx, cfg.Driver, cfg.DSN)
		if err != nil {
			return nil, fmt.Errorf("make %s store: %w", cfg.Driver, err)
		}
		return st, nil
	case "memory":
		return NewMemoryStore(), nil
	default:
		return nil, fmt.Errorf("unknown history driver %q", cfg.Driver)
	}
}
