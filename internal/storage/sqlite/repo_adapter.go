// This file wires the SQLite backend into the storage factory. Callers never
// import this package directly; registration happens in init via the
// storage/all blank-import package.
package sqlite

import (
	"context"

	"invoicedw/internal/storage"
)

// newRepository is a test hook that points to NewRepository by default.
// Tests may replace this variable to avoid real DB connections.
var newRepository = NewRepository

// Ensure Repository satisfies the interface at compile time.
var _ storage.Repository = (*Repository)(nil)

func init() {
	storage.Register("sqlite", func(ctx context.Context, cfg storage.Config) (storage.Repository, error) {
		return newRepository(ctx, Config{DSN: cfg.DSN})
	})
}
