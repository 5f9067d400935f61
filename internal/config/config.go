// Package config defines the canonical, JSON-serializable configuration model
// for the invoice warehouse pipeline. It is intentionally small, explicit, and
// dependency-free so that pipeline specs can be loaded from disk and passed
// through the program without additional glue code.
//
// Example (trimmed):
//
//	{
//	  "job":     "invoice_dw",
//	  "source":  { "path": "./data/invoices.csv", "encoding": "windows-1252" },
//	  "storage": { "kind": "sqlite", "db": { "dsn": "./db/invoice_dw.db" } },
//	  "reports": { "dir": "./reports", "window": { "year": 2010, "month_from": 1, "month_to": 4 } }
//	}
package config

import "encoding/json"

// Pipeline describes one full-refresh warehouse run. It is the top-level
// object decoded from a pipeline file.
type Pipeline struct {
	// Job names the pipeline run; used for metrics labeling and log lines.
	Job string `json:"job"`

	// Source describes the raw sales extract to ingest.
	Source Source `json:"source"`

	// Storage describes the relational store the star schema is built in.
	Storage Storage `json:"storage"`

	// Transform configures where the SQL transformation units come from.
	Transform Transform `json:"transform"`

	// Reports configures the read-only reporting queries and their export.
	Reports Reports `json:"reports"`

	// Runtime controls batching during the raw load.
	Runtime RuntimeConfig `json:"runtime"`
}

// Source identifies the input extract. The pipeline ingests exactly one
// delimited text file per run.
type Source struct {
	// Path is the local filesystem path to the extract.
	Path string `json:"path"`

	// Encoding names the input text encoding. The legacy extract is known to
	// fail under UTF-8; the default is "windows-1252". "utf-8" is accepted for
	// already-transcoded inputs.
	Encoding string `json:"encoding"`

	// Comma is the field delimiter; defaults to ",".
	Comma string `json:"comma"`

	// HeaderMap overrides or extends the built-in mapping from source header
	// names (e.g. "Customer ID") to canonical column keys (e.g. "customer_id").
	HeaderMap map[string]string `json:"header_map,omitempty"`
}

// Storage selects the relational store used to persist every produced table.
type Storage struct {
	// Kind selects the storage implementation: "sqlite" (embedded, default)
	// or "postgres".
	Kind string `json:"kind"`

	// DB configures the selected backend.
	DB DBConfig `json:"db"`
}

// DBConfig configures the store connection.
type DBConfig struct {
	// DSN is the connection string: a file path (or ":memory:") for sqlite,
	// a pgx URL for postgres.
	DSN string `json:"dsn"`
}

// Transform configures the SQL transformation units that build the star
// schema. Units are embedded in the binary per storage dialect; ScriptsDir
// optionally points at a directory of <table>.sql files that take precedence.
type Transform struct {
	ScriptsDir string `json:"scripts_dir,omitempty"`
}

// Reports configures the reporting layer.
type Reports struct {
	// Dir is where report CSVs are written. Empty disables file export.
	Dir string `json:"dir"`

	// TopCustomers bounds the customer-spend report; defaults to 5.
	TopCustomers int `json:"top_customers"`

	// TopProducts bounds the per-month product report; defaults to 5.
	TopProducts int `json:"top_products"`

	// Window bounds the top-products report to one year and month range.
	Window ReportWindow `json:"window"`
}

// ReportWindow is a bounded calendar window for the product report.
type ReportWindow struct {
	Year      int `json:"year"`
	MonthFrom int `json:"month_from"`
	MonthTo   int `json:"month_to"`
}

// RuntimeConfig controls batching during the raw partition load.
type RuntimeConfig struct {
	BatchSize int `json:"batch_size"`
}

// DefaultBatchSize is used when runtime.batch_size is unset.
const DefaultBatchSize = 500

// ResolveBatchSize returns the configured batch size or the default.
func (r RuntimeConfig) ResolveBatchSize() int {
	if r.BatchSize > 0 {
		return r.BatchSize
	}
	return DefaultBatchSize
}

// ResolveEncoding returns the configured encoding or the legacy default.
func (s Source) ResolveEncoding() string {
	if s.Encoding == "" {
		return "windows-1252"
	}
	return s.Encoding
}

// ResolveComma returns the configured delimiter rune or ','.
func (s Source) ResolveComma() rune {
	if s.Comma == "" {
		return ','
	}
	return rune(s.Comma[0])
}

// ResolveKind returns the configured storage kind or "sqlite".
func (s Storage) ResolveKind() string {
	if s.Kind == "" {
		return "sqlite"
	}
	return s.Kind
}

// ResolveTopCustomers returns the configured limit or 5.
func (r Reports) ResolveTopCustomers() int {
	if r.TopCustomers > 0 {
		return r.TopCustomers
	}
	return 5
}

// ResolveTopProducts returns the configured limit or 5.
func (r Reports) ResolveTopProducts() int {
	if r.TopProducts > 0 {
		return r.TopProducts
	}
	return 5
}

// Marshal renders the pipeline as indented JSON, e.g. for tooling or test
// fixtures.
func Marshal(p Pipeline) ([]byte, error) {
	return json.MarshalIndent(p, "", "  ")
}
