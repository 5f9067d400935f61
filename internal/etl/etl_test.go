package etl_test

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"invoicedw/internal/config"
	"invoicedw/internal/etl"
	"invoicedw/internal/star"
	"invoicedw/internal/storage/sqlite"
)

const fixtureCSV = `Invoice,StockCode,Description,Quantity,InvoiceDate,Price,Customer ID,Country
489434,85048,15CM CHRISTMAS GLASS BALL 20 LIGHTS,6,2010-12-01 08:26,2.55,13085,United Kingdom
489435,85049,PAPER LANTERN,2,2010-12-01 09:00,3.00,,United Kingdom
489436,85048,15CM CHRISTMAS GLASS BALL 20 LIGHTS,six,2010-12-01 09:30,2.55,13085,United Kingdom
489437,85049,PAPER LANTERN,1,2010-12-02 10:00,3.00,13085,
`

func writeFixture(t *testing.T) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "invoices.csv")
	if err := os.WriteFile(path, []byte(fixtureCSV), 0o644); err != nil {
		t.Fatalf("write fixture: %v", err)
	}
	return path
}

func count(t *testing.T, repo *sqlite.Repository, table string) int64 {
	t.Helper()
	rs, err := repo.Query(context.Background(), "SELECT COUNT(*) FROM "+table)
	if err != nil {
		t.Fatalf("count %s: %v", table, err)
	}
	return rs.Rows[0][0].(int64)
}

func TestRunEndToEnd(t *testing.T) {
	ctx := context.Background()
	repo, err := sqlite.NewRepository(ctx, sqlite.Config{DSN: ":memory:"})
	if err != nil {
		t.Fatalf("open sqlite :memory:: %v", err)
	}
	t.Cleanup(repo.Close)

	p := config.Pipeline{
		Job: "etl_test",
		Source: config.Source{
			Path:     writeFixture(t),
			Encoding: "utf-8",
		},
		Storage: config.Storage{Kind: "sqlite"},
	}

	sum, err := etl.Run(ctx, repo, p)
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if sum.RunID == "" {
		t.Error("summary has no run id")
	}
	if sum.RowsRead != 4 || sum.Skipped != 0 {
		t.Errorf("RowsRead/Skipped = %d/%d, want 4/0", sum.RowsRead, sum.Skipped)
	}
	if sum.Valid != 3 || sum.Defective != 1 {
		t.Errorf("Valid/Defective = %d/%d, want 3/1", sum.Valid, sum.Defective)
	}
	if failed := star.Failed(sum.Units); len(failed) > 0 {
		t.Errorf("failed units: %v", failed)
	}
	if len(sum.Units) != len(star.Order) {
		t.Errorf("units run = %d, want %d", len(sum.Units), len(star.Order))
	}

	// The NULL-country line produced no fact row and is counted, not dropped.
	if sum.UnmatchedFacts != 1 {
		t.Errorf("UnmatchedFacts = %d, want 1", sum.UnmatchedFacts)
	}

	if got := count(t, repo, "order_items"); got != 3 {
		t.Errorf("order_items = %d, want 3", got)
	}
	if got := count(t, repo, "defected_order_items"); got != 1 {
		t.Errorf("defected_order_items = %d, want 1", got)
	}
	if got := count(t, repo, "fact_order_item"); got != 2 {
		t.Errorf("fact_order_item = %d, want 2", got)
	}
	if got := count(t, repo, "fact_order"); got != 2 {
		t.Errorf("fact_order = %d, want 2", got)
	}
}

func TestRunCleanExtractDropsDefectTable(t *testing.T) {
	ctx := context.Background()
	repo, err := sqlite.NewRepository(ctx, sqlite.Config{DSN: ":memory:"})
	if err != nil {
		t.Fatalf("open sqlite :memory:: %v", err)
	}
	t.Cleanup(repo.Close)

	clean := `Invoice,StockCode,Description,Quantity,InvoiceDate,Price,Customer ID,Country
489434,85048,GLASS BALL,6,2010-12-01 08:26,2.55,13085,United Kingdom
`
	path := filepath.Join(t.TempDir(), "clean.csv")
	if err := os.WriteFile(path, []byte(clean), 0o644); err != nil {
		t.Fatalf("write fixture: %v", err)
	}

	sum, err := etl.Run(ctx, repo, config.Pipeline{
		Job:     "etl_test",
		Source:  config.Source{Path: path, Encoding: "utf-8"},
		Storage: config.Storage{Kind: "sqlite"},
	})
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if sum.Defective != 0 {
		t.Errorf("Defective = %d, want 0", sum.Defective)
	}
	if _, err := repo.Query(ctx, "SELECT COUNT(*) FROM defected_order_items"); err == nil {
		t.Error("defected_order_items exists after a clean run")
	}
}

func TestRunMissingSource(t *testing.T) {
	ctx := context.Background()
	repo, err := sqlite.NewRepository(ctx, sqlite.Config{DSN: ":memory:"})
	if err != nil {
		t.Fatalf("open sqlite :memory:: %v", err)
	}
	t.Cleanup(repo.Close)

	_, err = etl.Run(ctx, repo, config.Pipeline{
		Source:  config.Source{Path: "/nonexistent/invoices.csv"},
		Storage: config.Storage{Kind: "sqlite"},
	})
	if err == nil {
		t.Fatal("Run succeeded with a missing source file")
	}
}
