package star

import (
	"context"
	"log"
	"time"

	"invoicedw/internal/metrics"
	"invoicedw/internal/storage"
)

// UnitResult records the outcome of one transformation unit.
type UnitResult struct {
	Table       string
	Err         error
	Duration    time.Duration
	Fingerprint uint64 // content fingerprint of the built table; 0 on failure
}

// Runner executes transformation units against the store.
type Runner struct {
	Repo storage.Repository
	Job  string // metrics job label
}

// Run applies the units in order. A failing unit is logged with the table
// name and underlying cause and the run continues with the remaining units:
// one broken script must not abort the whole build. The transaction wrapping
// each unit guarantees the failing table's previous version (and every table
// built earlier) stays in place and queryable.
func (r *Runner) Run(ctx context.Context, units []Unit) []UnitResult {
	results := make([]UnitResult, 0, len(units))
	for _, u := range units {
		start := time.Now()
		err := r.Repo.ExecAll(ctx, []string{
			"DROP TABLE IF EXISTS " + u.Table,
			u.SQL,
		})
		res := UnitResult{Table: u.Table, Err: err, Duration: time.Since(start)}
		metrics.RecordStep(r.Job, u.Table, err, res.Duration)

		if err != nil {
			log.Printf("star: %s failed: %v", u.Table, err)
			results = append(results, res)
			continue
		}

		// Fingerprint the finished table so identical reloads are verifiable
		// from the logs alone. A fingerprint failure is not a build failure.
		if fp, ferr := Fingerprint(ctx, r.Repo, u.Table); ferr != nil {
			log.Printf("star: %s fingerprint: %v", u.Table, ferr)
		} else {
			res.Fingerprint = fp
		}
		log.Printf("star: %s built in %s fingerprint=%016x", u.Table, res.Duration.Truncate(time.Millisecond), res.Fingerprint)
		results = append(results, res)
	}
	return results
}

// Failed returns the tables whose unit failed.
func Failed(results []UnitResult) []string {
	var failed []string
	for _, r := range results {
		if r.Err != nil {
			failed = append(failed, r.Table)
		}
	}
	return failed
}
