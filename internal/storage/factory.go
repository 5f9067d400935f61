package storage

import (
	"context"
	"fmt"
	"sync"
)

// Config selects and configures a storage backend.
type Config struct {
	// Kind names a registered backend, e.g. "sqlite" or "postgres".
	Kind string

	// DSN is passed through to the backend unchanged.
	DSN string
}

// Factory constructs a Repository for one backend kind.
type Factory func(ctx context.Context, cfg Config) (Repository, error)

var (
	regMu     sync.RWMutex
	factories = map[string]Factory{}
)

// Register registers (or replaces) the factory for a backend kind. It is
// typically called from backend packages' init() functions; importing
// invoicedw/internal/storage/all registers every built-in backend.
func Register(kind string, fn Factory) {
	regMu.Lock()
	defer regMu.Unlock()
	factories[kind] = fn
}

// New opens a Repository for cfg.Kind. A failure here is the one
// unrecoverable error class of the pipeline: without a store handle nothing
// downstream can run.
func New(ctx context.Context, cfg Config) (Repository, error) {
	regMu.RLock()
	fn, ok := factories[cfg.Kind]
	regMu.RUnlock()
	if !ok {
		return nil, fmt.Errorf("no storage backend registered for kind %q", cfg.Kind)
	}
	return fn(ctx, cfg)
}
