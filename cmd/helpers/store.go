package helpers

import (
	"context"

	"github.com/zinc-sig/pyramid/cmd/config"
	"github.com/zinc-sig/pyramid/internal/store"
)

// OpenStore returns nil when no driver is configured.
func OpenStore(ctx context.Context, cfg *config.StoreConfig) (*store.Store, error) {
	if cfg.Driver == "" {
		return nil, nil
	}
	return store.Open(ctx, store.Driver(cfg.Driver), cfg.DSN)
}
