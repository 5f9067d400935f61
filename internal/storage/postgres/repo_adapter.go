// This file wires the Postgres backend into the storage factory; registration
// happens in init via the storage/all blank-import package.
package postgres

import (
	"context"

	"invoicedw/internal/storage"
)

// newRepository is a test hook that points to NewRepository by default.
var newRepository = NewRepository

// Ensure Repository satisfies the interface at compile time.
var _ storage.Repository = (*Repository)(nil)

func init() {
	storage.Register("postgres", func(ctx context.Context, cfg storage.Config) (storage.Repository, error) {
		return newRepository(ctx, Config{DSN: cfg.DSN})
	})
}
