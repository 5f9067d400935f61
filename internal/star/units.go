// Package star builds the dimensional model: four conformed dimensions and
// two fact tables derived from the valid partition. Each table comes from one
// SQL transformation unit applied in a fixed dependency order; dimensions
// before facts, order-item facts before order facts.
package star

import (
	"embed"
	"fmt"
	"os"
	"path/filepath"
)

//go:embed sql/sqlite/*.sql sql/postgres/*.sql
var builtinSQL embed.FS

// Order is the fixed dependency order of the transformation units.
var Order = []string{
	"dim_customer",
	"dim_product",
	"dim_date",
	"dim_location",
	"fact_order_item",
	"fact_order",
}

// Unit is one table-producing transformation: the table it replaces and the
// SELECT-shaped SQL that builds it. The runner wraps it with the drop of the
// previous version inside one transaction.
type Unit struct {
	Table string
	SQL   string
}

// Units returns the transformation units for the given dialect ("sqlite" or
// "postgres"), in build order. When scriptsDir is non-empty, a <table>.sql
// file in that directory takes precedence over the embedded script, so
// operators can supply adjusted transformations without rebuilding.
func Units(dialect, scriptsDir string) ([]Unit, error) {
	units := make([]Unit, 0, len(Order))
	for _, table := range Order {
		sqlText, err := loadUnitSQL(dialect, scriptsDir, table)
		if err != nil {
			return nil, err
		}
		units = append(units, Unit{Table: table, SQL: sqlText})
	}
	return units, nil
}

func loadUnitSQL(dialect, scriptsDir, table string) (string, error) {
	if scriptsDir != "" {
		path := filepath.Join(scriptsDir, table+".sql")
		b, err := os.ReadFile(path)
		if err == nil {
			return string(b), nil
		}
		if !os.IsNotExist(err) {
			return "", fmt.Errorf("read script %s: %w", path, err)
		}
		// fall through to the embedded script
	}
	b, err := builtinSQL.ReadFile(fmt.Sprintf("sql/%s/%s.sql", dialect, table))
	if err != nil {
		return "", fmt.Errorf("no %s transformation for dialect %q: %w", table, dialect, err)
	}
	return string(b), nil
}
