// Package etl wires the full warehouse run: ingest the extract, partition it
// into valid and defective sets, persist both, build the star schema, and
// report the outcome. It depends only on the storage abstraction and never
// imports database drivers directly.
package etl

import (
	"context"
	"fmt"
	"log"
	"os"
	"time"

	"github.com/google/uuid"

	"invoicedw/internal/config"
	"invoicedw/internal/invoice"
	"invoicedw/internal/metrics"
	csvparser "invoicedw/internal/parser/csv"
	"invoicedw/internal/partition"
	"invoicedw/internal/star"
	"invoicedw/internal/storage"
)

// Summary reports the per-step outcome of one run. Unit failures and
// defective rows live here, not in the error return: they are data about the
// run, not reasons to abort it.
type Summary struct {
	RunID string

	RowsRead  int // rows the parser produced
	Skipped   int // rows the parser could not read at all
	Valid     int
	Defective int

	Units          []star.UnitResult
	UnmatchedFacts int64
}

// Run executes the pipeline against an already-open store handle. The caller
// owns the handle's lifecycle; a nil error does not imply every
// transformation unit succeeded (check Summary.Units).
func Run(ctx context.Context, repo storage.Repository, cfg config.Pipeline) (*Summary, error) {
	sum := &Summary{RunID: uuid.NewString()}
	job := cfg.Job
	if job == "" {
		job = "invoice_dw"
	}
	log.Printf("etl: run=%s job=%s source=%s", sum.RunID, job, cfg.Source.Path)

	// 1) Ingest the extract.
	f, err := os.Open(cfg.Source.Path)
	if err != nil {
		return sum, fmt.Errorf("open source: %w", err)
	}
	defer f.Close()

	headerMap := make(map[string]string, len(invoice.HeaderMap)+len(cfg.Source.HeaderMap))
	for k, v := range invoice.HeaderMap {
		headerMap[k] = v
	}
	for k, v := range cfg.Source.HeaderMap {
		headerMap[k] = v
	}

	p := csvparser.NewParser(csvparser.Options{
		HasHeader: true,
		Comma:     cfg.Source.ResolveComma(),
		TrimSpace: true,
		Encoding:  cfg.Source.ResolveEncoding(),
		HeaderMap: headerMap,
	})

	start := time.Now()
	recs, skipped, err := p.Parse(f)
	metrics.RecordStep(job, "parse", err, time.Since(start))
	if err != nil {
		return sum, fmt.Errorf("parse source: %w", err)
	}
	sum.RowsRead = len(recs)
	sum.Skipped = skipped

	// 2) Partition into valid and defective sets.
	res := partition.Split(recs)
	sum.Valid = len(res.Valid)
	sum.Defective = len(res.Defects)

	agg := newErrAgg(3)
	for _, d := range res.Defects {
		agg.add(fmt.Sprintf("row %d: %s", d.Pos, d.Reason))
	}
	log.Printf("etl: partitioned rows=%d valid=%d defective=%d skipped=%d", sum.RowsRead, sum.Valid, sum.Defective, sum.Skipped)
	agg.report("etl: defect")

	metrics.RecordRow(job, "rows_read", int64(sum.RowsRead))
	metrics.RecordRow(job, "skipped", int64(sum.Skipped))
	metrics.RecordRow(job, "valid", int64(sum.Valid))
	metrics.RecordRow(job, "defective", int64(sum.Defective))

	// 3) Persist both partitions.
	st := &partition.Store{Repo: repo, BatchSize: cfg.Runtime.ResolveBatchSize()}
	start = time.Now()
	err = st.WriteValid(ctx, res.Valid)
	metrics.RecordStep(job, "load_valid", err, time.Since(start))
	if err != nil {
		return sum, err
	}
	start = time.Now()
	err = st.WriteDefects(ctx, res.Defects)
	metrics.RecordStep(job, "load_defects", err, time.Since(start))
	if err != nil {
		return sum, err
	}

	// 4) Build the star schema: dimensions first, then facts.
	units, err := star.Units(cfg.Storage.ResolveKind(), cfg.Transform.ScriptsDir)
	if err != nil {
		return sum, fmt.Errorf("load transformation units: %w", err)
	}
	runner := &star.Runner{Repo: repo, Job: job}
	sum.Units = runner.Run(ctx, units)

	// 5) Referential misses are reported, not silently dropped.
	if unitSucceeded(sum.Units, "fact_order_item") {
		n, err := star.UnmatchedOrderItems(ctx, repo)
		if err != nil {
			log.Printf("etl: unmatched fact count: %v", err)
		} else {
			sum.UnmatchedFacts = n
			metrics.RecordRow(job, "unmatched_facts", n)
			if n > 0 {
				log.Printf("etl: %d valid rows produced no order-item fact (dimension lookup failed)", n)
			}
		}
	}

	if failed := star.Failed(sum.Units); len(failed) > 0 {
		log.Printf("etl: completed with failed units: %v", failed)
	}
	return sum, nil
}

func unitSucceeded(results []star.UnitResult, table string) bool {
	for _, r := range results {
		if r.Table == table {
			return r.Err == nil
		}
	}
	return false
}
