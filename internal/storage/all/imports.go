// Package all wires all built-in storage backends into the storage factory.
//
// This package exists purely for side effects: importing it (even as a blank
// import) causes the init functions of each concrete storage backend to run,
// which in turn register their factories with the storage package.
//
// Importing this package makes the following storage kinds available at
// runtime:
//
//   - "sqlite"   (invoicedw/internal/storage/sqlite)
//   - "postgres" (invoicedw/internal/storage/postgres)
//
// A binary that needs only one backend can blank-import that backend package
// directly instead of this one.
package all

import (
	_ "invoicedw/internal/storage/postgres"
	_ "invoicedw/internal/storage/sqlite"
)
