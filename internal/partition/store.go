package partition

import (
	"context"
	"fmt"
	"log"

	"invoicedw/internal/invoice"
	"invoicedw/internal/storage"
)

// Table names owned by the partitioner.
const (
	ValidTable  = "order_items"
	DefectTable = "defected_order_items"
)

// validColumns is the persisted column order of the valid table.
var validColumns = append([]string{"id"}, invoice.Columns...)

// The type names below are accepted by both supported backends: SQLite maps
// them onto its affinities, Postgres takes them literally.
const createValidTable = `CREATE TABLE ` + ValidTable + ` (
	id BIGINT NOT NULL,
	invoice TEXT NOT NULL,
	stock_code TEXT NOT NULL,
	description TEXT,
	quantity BIGINT NOT NULL,
	invoice_date TEXT NOT NULL,
	price DOUBLE PRECISION NOT NULL,
	customer_id TEXT,
	country TEXT
)`

const createDefectTable = `CREATE TABLE ` + DefectTable + ` (
	id BIGINT NOT NULL,
	invoice TEXT,
	stock_code TEXT,
	description TEXT,
	quantity TEXT,
	invoice_date TEXT,
	price TEXT,
	customer_id TEXT,
	country TEXT
)`

// Store persists partitions into the relational store.
type Store struct {
	Repo      storage.Repository
	BatchSize int
}

// WriteValid replaces the order_items table with the valid partition.
func (s *Store) WriteValid(ctx context.Context, rows []invoice.Row) error {
	err := s.Repo.ExecAll(ctx, []string{
		"DROP TABLE IF EXISTS " + ValidTable,
		createValidTable,
	})
	if err != nil {
		return fmt.Errorf("replace %s: %w", ValidTable, err)
	}

	var inserted int64
	for start := 0; start < len(rows); start += s.batch() {
		end := start + s.batch()
		if end > len(rows) {
			end = len(rows)
		}
		batch := make([][]any, 0, end-start)
		for _, r := range rows[start:end] {
			batch = append(batch, []any{
				r.ID,
				r.Invoice,
				r.StockCode,
				textOrNil(r.Description),
				r.Quantity,
				r.InvoiceDate.Format(invoice.DateLayout),
				r.Price,
				textOrNil(r.CustomerID),
				textOrNil(r.Country),
			})
		}
		n, err := s.Repo.CopyFrom(ctx, ValidTable, validColumns, batch)
		inserted += n
		if err != nil {
			return fmt.Errorf("load %s: %w", ValidTable, err)
		}
	}
	log.Printf("partition: %s loaded rows=%d", ValidTable, inserted)
	return nil
}

// WriteDefects replaces the defected_order_items table with the defective
// partition. When the partition is empty the table is dropped and not
// recreated: absence of the table, not an empty table, signals a clean run.
func (s *Store) WriteDefects(ctx context.Context, defects []Defect) error {
	if len(defects) == 0 {
		if err := s.Repo.Exec(ctx, "DROP TABLE IF EXISTS "+DefectTable); err != nil {
			return fmt.Errorf("drop %s: %w", DefectTable, err)
		}
		return nil
	}

	err := s.Repo.ExecAll(ctx, []string{
		"DROP TABLE IF EXISTS " + DefectTable,
		createDefectTable,
	})
	if err != nil {
		return fmt.Errorf("replace %s: %w", DefectTable, err)
	}

	var inserted int64
	for start := 0; start < len(defects); start += s.batch() {
		end := start + s.batch()
		if end > len(defects) {
			end = len(defects)
		}
		batch := make([][]any, 0, end-start)
		for _, d := range defects[start:end] {
			row := make([]any, 0, len(validColumns))
			row = append(row, d.ID)
			for _, col := range invoice.Columns {
				row = append(row, d.Values[col])
			}
			batch = append(batch, row)
		}
		n, err := s.Repo.CopyFrom(ctx, DefectTable, validColumns, batch)
		inserted += n
		if err != nil {
			return fmt.Errorf("load %s: %w", DefectTable, err)
		}
	}
	log.Printf("partition: %s loaded rows=%d", DefectTable, inserted)
	return nil
}

func (s *Store) batch() int {
	if s.BatchSize > 0 {
		return s.BatchSize
	}
	return 500
}

func textOrNil(s *string) any {
	if s == nil {
		return nil
	}
	return *s
}
