package report_test

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"invoicedw/internal/invoice"
	"invoicedw/internal/partition"
	"invoicedw/internal/report"
	"invoicedw/internal/star"
	"invoicedw/internal/storage"
	"invoicedw/internal/storage/sqlite"
)

func ptr(s string) *string { return &s }

// seedStar loads a small valid partition and builds the star schema over it.
// Spend by customer: C1 = 7.00 (Dec), C2 = 3.00 (Nov).
func seedStar(t *testing.T) *sqlite.Repository {
	t.Helper()
	ctx := context.Background()
	repo, err := sqlite.NewRepository(ctx, sqlite.Config{DSN: ":memory:"})
	if err != nil {
		t.Fatalf("open sqlite :memory:: %v", err)
	}
	t.Cleanup(repo.Close)

	nov := time.Date(2010, 11, 15, 10, 0, 0, 0, time.UTC)
	dec := time.Date(2010, 12, 1, 8, 26, 0, 0, time.UTC)
	uk := ptr("United Kingdom")
	rows := []invoice.Row{
		{ID: 1, Invoice: "I1", StockCode: "A", Description: ptr("APPLE"), Quantity: 2, Price: 2.00, InvoiceDate: dec, CustomerID: ptr("C1"), Country: uk, Amount: 4.00},
		{ID: 2, Invoice: "I1", StockCode: "B", Description: ptr("BANANA"), Quantity: 3, Price: 1.00, InvoiceDate: dec, CustomerID: ptr("C1"), Country: uk, Amount: 3.00},
		{ID: 3, Invoice: "I2", StockCode: "A", Description: ptr("APPLE"), Quantity: 2, Price: 1.50, InvoiceDate: nov, CustomerID: ptr("C2"), Country: uk, Amount: 3.00},
	}
	st := &partition.Store{Repo: repo}
	if err := st.WriteValid(ctx, rows); err != nil {
		t.Fatalf("load valid partition: %v", err)
	}

	units, err := star.Units("sqlite", "")
	if err != nil {
		t.Fatalf("load units: %v", err)
	}
	runner := &star.Runner{Repo: repo, Job: "test"}
	if failed := star.Failed(runner.Run(ctx, units)); len(failed) > 0 {
		t.Fatalf("star build failed: %v", failed)
	}
	return repo
}

func byName(t *testing.T, reports []report.Report, name string) *storage.Rowset {
	t.Helper()
	for _, r := range reports {
		if r.Name == name {
			return r.Data
		}
	}
	t.Fatalf("report %q not generated", name)
	return nil
}

func TestGenerate(t *testing.T) {
	repo := seedStar(t)
	reports, err := report.Generate(context.Background(), repo, report.Options{
		TopCustomers: 5,
		TopProducts:  5,
		Year:         2010,
		MonthFrom:    11,
		MonthTo:      12,
	})
	if err != nil {
		t.Fatalf("Generate: %v", err)
	}
	if len(reports) != 3 {
		t.Fatalf("generated %d reports, want 3", len(reports))
	}

	// Customers ranked by total spend, descending.
	tc := byName(t, reports, report.TopCustomers)
	if len(tc.Rows) != 2 {
		t.Fatalf("top customers rows = %d, want 2", len(tc.Rows))
	}
	if tc.Rows[0][0] != "C1" || tc.Rows[1][0] != "C2" {
		t.Errorf("top customer order = (%v, %v), want (C1, C2)", tc.Rows[0][0], tc.Rows[1][0])
	}
	if got := tc.Rows[0][1].(float64); got != 7.00 {
		t.Errorf("C1 total = %v, want 7.00", got)
	}

	// Product ranking is bounded to the requested window, ordered by month.
	tp := byName(t, reports, report.TopProductsByMonth)
	if len(tp.Rows) != 3 {
		t.Fatalf("top products rows = %d, want 3 (one Nov, two Dec)", len(tp.Rows))
	}
	if m := tp.Rows[0][1]; m != int64(11) {
		t.Errorf("first ranked month = %v, want 11", m)
	}

	// Monthly revenue carries the synthesized year_month label.
	mr := byName(t, reports, report.MonthlyRevenue)
	last := mr.Columns[len(mr.Columns)-1]
	if last != "year_month" {
		t.Fatalf("last column = %q, want year_month", last)
	}
	if len(mr.Rows) != 2 {
		t.Fatalf("monthly revenue rows = %d, want 2", len(mr.Rows))
	}
	if lbl := mr.Rows[0][len(mr.Rows[0])-1]; lbl != "2010-11" {
		t.Errorf("year_month = %v, want 2010-11", lbl)
	}
}

func TestGenerateSkipsProductReportWithoutWindow(t *testing.T) {
	repo := seedStar(t)
	reports, err := report.Generate(context.Background(), repo, report.Options{TopCustomers: 5})
	if err != nil {
		t.Fatalf("Generate: %v", err)
	}
	if len(reports) != 2 {
		t.Fatalf("generated %d reports, want 2 when no window is set", len(reports))
	}
	for _, r := range reports {
		if r.Name == report.TopProductsByMonth {
			t.Fatal("product report generated despite zero-year window")
		}
	}
}

func TestWriteCSVFormatsDecimals(t *testing.T) {
	rs := &storage.Rowset{
		Columns: []string{"customer_id", "total_spent"},
		Rows: [][]any{
			{"C1", 7.0},
			{"C2", 3.456},
			{nil, int64(2)},
		},
	}
	var buf bytes.Buffer
	if err := report.WriteCSV(&buf, rs); err != nil {
		t.Fatalf("WriteCSV: %v", err)
	}
	want := "customer_id,total_spent\nC1,7.00\nC2,3.46\n,2\n"
	if buf.String() != want {
		t.Errorf("WriteCSV output:\n%q\nwant:\n%q", buf.String(), want)
	}
}

func TestWriteFiles(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "reports")
	reports := []report.Report{{
		Name: report.TopCustomers,
		Data: &storage.Rowset{
			Columns: []string{"customer_id", "total_spent"},
			Rows:    [][]any{{"C1", 7.0}},
		},
	}}
	if err := report.WriteFiles(dir, reports); err != nil {
		t.Fatalf("WriteFiles: %v", err)
	}
	b, err := os.ReadFile(filepath.Join(dir, "top_customers.csv"))
	if err != nil {
		t.Fatalf("read export: %v", err)
	}
	if !strings.Contains(string(b), "C1,7.00") {
		t.Errorf("export content = %q, want a C1,7.00 line", string(b))
	}
}
