package stores

import (
	"context"

	"github.com/pacedog/pacedog/internal/store"
)

// Repository persists the whole Store aggregate as one unit.
type Repository interface {
	// Load reads the persisted store. When nothing has been persisted yet,
	// or the persisted data is unusable, it returns a fresh default store
	// rather than an error; the load path degrades gracefully.
	Load(ctx context.Context) (*store.Store, error)

	// Save replaces the persisted state with s in a single transaction, so
	// readers never observe a partially written store.
	Save(ctx context.Context, s *store.Store) error
}
