// Package storage contains the storage-agnostic contract of the relational
// store plus the backend factory. The pipeline owns every table it writes and
// only ever issues full-replace operations; backends expose the minimal
// capability set that requires: execute SQL, bulk-insert rows, and return
// tabular results.
package storage

import "context"

// Rowset is a generic tabular query result.
type Rowset struct {
	Columns []string
	Rows    [][]any
}

// Repository is the single long-lived store handle for one pipeline run.
// Implementations are not required to be safe for concurrent writes; the
// pipeline performs all table builds sequentially. Read-only queries may be
// issued concurrently after the build.
type Repository interface {
	// Exec executes one SQL statement (typically DDL or DML without results).
	Exec(ctx context.Context, sql string, args ...any) error

	// ExecAll executes the given statements inside a single transaction.
	// It is the unit of atomicity for a full table replace: either every
	// statement applies or none do.
	ExecAll(ctx context.Context, stmts []string) error

	// CopyFrom bulk-inserts rows into table using the backend's most efficient
	// primitive. len(row) must equal len(columns) for every row. It returns
	// the number of rows inserted.
	CopyFrom(ctx context.Context, table string, columns []string, rows [][]any) (int64, error)

	// Query runs a read-only statement and materializes the full result.
	Query(ctx context.Context, sql string, args ...any) (*Rowset, error)

	// Close releases the underlying connection(s).
	Close()
}
