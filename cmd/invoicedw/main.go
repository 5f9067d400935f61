// Command invoicedw runs the full-refresh invoice warehouse pipeline: it
// loads the pipeline config, acquires the store handle, executes the
// validation-and-dimensionalization run, and exports the reports.
//
// Exit status is non-zero only for config errors and store acquisition
// failure; defective rows and failed transformation units are reported and
// the process still exits zero.
package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"log"
	"os"
	"time"

	"github.com/joho/godotenv"

	"invoicedw/internal/config"
	"invoicedw/internal/etl"
	"invoicedw/internal/metrics"
	"invoicedw/internal/metrics/prompush"
	"invoicedw/internal/report"
	"invoicedw/internal/storage"

	// register all backends with the storage factory.
	// config specifies which to use but we build in support for all of them.
	_ "invoicedw/internal/storage/all"
)

func main() {
	var (
		cfgPath           string
		metricsBackendFlg string
		pushGatewayURLFlg string
		validate          bool
		skipReports       bool
	)

	flag.StringVar(&cfgPath, "config", "configs/pipelines/invoices.json", "pipeline config JSON path")
	flag.StringVar(&metricsBackendFlg, "metrics-backend", "", "metrics backend to use (pushgateway, none); falls back to env METRICS_BACKEND")
	flag.StringVar(&pushGatewayURLFlg, "pushgateway-url", "", "Pushgateway base URL (overrides env PUSHGATEWAY_URL)")
	flag.BoolVar(&validate, "validate", false, "validate the configuration and exit")
	flag.BoolVar(&skipReports, "skip-reports", false, "build the star schema but skip report generation")
	verbose := flag.Bool("v", false, "enable verbose logs")

	flag.Parse()

	// Optional .env for 12-factor style overrides (DSN etc.); absence is fine.
	_ = godotenv.Load()

	f, err := os.Open(cfgPath)
	if err != nil {
		fatalf("open config: %v", err)
	}
	var p config.Pipeline
	err = json.NewDecoder(f).Decode(&p)
	f.Close()
	if err != nil {
		fatalf("decode config: %v", err)
	}

	if dsn := os.Getenv("INVOICEDW_DSN"); dsn != "" {
		p.Storage.DB.DSN = dsn
	}

	// Validate pipeline config.
	issues := config.ValidatePipeline(p)
	hasError := false
	for _, iss := range issues {
		fmt.Fprintf(os.Stderr, "%s: %s: %s\n", iss.Severity, iss.Path, iss.Message)
		if iss.Severity == config.SeverityError {
			hasError = true
		}
	}
	if hasError {
		log.Printf("Configuration is invalid: %v", cfgPath)
		os.Exit(1)
	}
	if validate {
		log.Printf("Configuration is valid: %v", cfgPath)
		os.Exit(0)
	}

	// Decide metrics backend: flag, then env, then default.
	backendName := metricsBackendFlg
	if backendName == "" {
		backendName = os.Getenv("METRICS_BACKEND")
	}
	switch backendName {
	case "pushgateway":
		gwURL := pushGatewayURLFlg
		if gwURL == "" {
			gwURL = os.Getenv("PUSHGATEWAY_URL")
		}
		if gwURL == "" {
			gwURL = "http://localhost:9091"
		}
		jobName := p.Job
		if jobName == "" {
			jobName = "invoice_dw"
		}
		b, err := prompush.NewBackend(jobName, gwURL)
		if err != nil {
			log.Printf("metrics: failed to init prom push backend: %v; using nop", err)
		} else {
			log.Printf("metrics: url=%v backend=%v job_name=%v", gwURL, backendName, jobName)
			metrics.SetBackend(b)
			defer func() {
				if err := metrics.Flush(); err != nil {
					log.Printf("metrics: flush error: %v", err)
				}
			}()
		}

	case "", "none":
		if *verbose {
			log.Printf("metrics: disabled (backend=%q)", backendName)
		}

	default:
		log.Printf("metrics: unknown backend %q; metrics disabled", backendName)
	}

	ctx := context.Background()
	start := time.Now()

	// The store handle is the one unrecoverable dependency: without it nothing
	// downstream can run.
	repo, err := storage.New(ctx, storage.Config{
		Kind: p.Storage.ResolveKind(),
		DSN:  p.Storage.DB.DSN,
	})
	if err != nil {
		fatalf("open store: %v", err)
	}
	defer repo.Close()

	sum, err := etl.Run(ctx, repo, p)
	if err != nil {
		fatalf("run: %v", err)
	}

	if !skipReports {
		reports, err := report.Generate(ctx, repo, report.Options{
			TopCustomers: p.Reports.ResolveTopCustomers(),
			TopProducts:  p.Reports.ResolveTopProducts(),
			Year:         p.Reports.Window.Year,
			MonthFrom:    p.Reports.Window.MonthFrom,
			MonthTo:      p.Reports.Window.MonthTo,
		})
		if err != nil {
			// Reporting reads the schema the run just built; a failure here is
			// recoverable in the same sense as a failed unit.
			log.Printf("report: %v", err)
		} else if p.Reports.Dir != "" {
			if err := report.WriteFiles(p.Reports.Dir, reports); err != nil {
				log.Printf("report: %v", err)
			}
		}
	}

	log.Printf("run=%s rows=%d valid=%d defective=%d unmatched_facts=%d completed in %s",
		sum.RunID, sum.RowsRead, sum.Valid, sum.Defective, sum.UnmatchedFacts,
		time.Since(start).Truncate(time.Millisecond))
}

func fatalf(format string, a ...any) {
	fmt.Fprintf(os.Stderr, format+"\n", a...)
	os.Exit(1)
}
