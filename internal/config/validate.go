// Package config provides configuration models and helpers for the pipeline.
//
// This file adds a lightweight linter/validator for Pipeline values. It
// performs static checks over a decoded Pipeline and returns a list of issues
// (errors and warnings) that callers can surface in a CLI or tests.
package config

import (
	"fmt"
	"strings"
)

// IssueSeverity represents the severity of a configuration issue.
type IssueSeverity string

const (
	// SeverityError indicates a configuration error that should block execution.
	SeverityError IssueSeverity = "error"
	// SeverityWarning indicates a configuration warning that should be surfaced
	// to users but may not necessarily block execution.
	SeverityWarning IssueSeverity = "warning"
)

// Issue describes a single validation/lint finding for a Pipeline.
//
// Path is a dotted path into the config (e.g. "storage.kind",
// "reports.window.month_from"). Message is human-readable.
type Issue struct {
	Severity IssueSeverity
	Path     string
	Message  string
}

// Error implements the error interface so an Issue can be treated as a single
// error in contexts that expect error.
func (i Issue) Error() string {
	return fmt.Sprintf("%s at %s: %s", i.Severity, i.Path, i.Message)
}

// ValidatePipeline performs static validation / linting of a Pipeline.
//
// It does not mutate the pipeline. Instead it returns a slice of Issue values.
// Callers may decide whether to treat warnings as fatal or not.
func ValidatePipeline(p Pipeline) []Issue {
	var issues []Issue

	if strings.TrimSpace(p.Job) == "" {
		issues = append(issues, Issue{
			Severity: SeverityWarning,
			Path:     "job",
			Message:  "job is empty; metrics and log lines will use a generic job name",
		})
	}
	issues = append(issues, validateSource(p.Source)...)
	issues = append(issues, validateStorage(p.Storage)...)
	issues = append(issues, validateReports(p.Reports)...)
	issues = append(issues, validateRuntime(p.Runtime)...)

	return issues
}

func validateSource(s Source) []Issue {
	var issues []Issue

	if strings.TrimSpace(s.Path) == "" {
		issues = append(issues, Issue{
			Severity: SeverityError,
			Path:     "source.path",
			Message:  "source requires a non-empty path",
		})
	}

	switch s.ResolveEncoding() {
	case "windows-1252", "utf-8":
	default:
		issues = append(issues, Issue{
			Severity: SeverityError,
			Path:     "source.encoding",
			Message:  fmt.Sprintf("unsupported encoding %q (supported: windows-1252, utf-8)", s.Encoding),
		})
	}

	if len(s.Comma) > 1 {
		issues = append(issues, Issue{
			Severity: SeverityError,
			Path:     "source.comma",
			Message:  fmt.Sprintf("delimiter %q must be a single character", s.Comma),
		})
	}

	return issues
}

func validateStorage(s Storage) []Issue {
	var issues []Issue

	switch s.ResolveKind() {
	case "sqlite", "postgres":
	default:
		issues = append(issues, Issue{
			Severity: SeverityError,
			Path:     "storage.kind",
			Message:  fmt.Sprintf("unknown storage kind %q (supported: sqlite, postgres)", s.Kind),
		})
	}

	if strings.TrimSpace(s.DB.DSN) == "" {
		issues = append(issues, Issue{
			Severity: SeverityError,
			Path:     "storage.db.dsn",
			Message:  "storage requires a non-empty DSN",
		})
	}

	return issues
}

func validateReports(r Reports) []Issue {
	var issues []Issue

	if r.TopCustomers < 0 {
		issues = append(issues, Issue{
			Severity: SeverityError,
			Path:     "reports.top_customers",
			Message:  "limit must not be negative",
		})
	}
	if r.TopProducts < 0 {
		issues = append(issues, Issue{
			Severity: SeverityError,
			Path:     "reports.top_products",
			Message:  "limit must not be negative",
		})
	}

	w := r.Window
	// A zero window is allowed; the product report is skipped in that case.
	if w == (ReportWindow{}) {
		return issues
	}
	if w.Year <= 0 {
		issues = append(issues, Issue{
			Severity: SeverityError,
			Path:     "reports.window.year",
			Message:  "window requires a positive year",
		})
	}
	if w.MonthFrom < 1 || w.MonthFrom > 12 {
		issues = append(issues, Issue{
			Severity: SeverityError,
			Path:     "reports.window.month_from",
			Message:  fmt.Sprintf("month %d out of range 1..12", w.MonthFrom),
		})
	}
	if w.MonthTo < 1 || w.MonthTo > 12 {
		issues = append(issues, Issue{
			Severity: SeverityError,
			Path:     "reports.window.month_to",
			Message:  fmt.Sprintf("month %d out of range 1..12", w.MonthTo),
		})
	}
	if w.MonthFrom >= 1 && w.MonthTo >= 1 && w.MonthFrom > w.MonthTo {
		issues = append(issues, Issue{
			Severity: SeverityError,
			Path:     "reports.window",
			Message:  fmt.Sprintf("month_from %d is after month_to %d", w.MonthFrom, w.MonthTo),
		})
	}

	return issues
}

func validateRuntime(r RuntimeConfig) []Issue {
	var issues []Issue

	if r.BatchSize < 0 {
		issues = append(issues, Issue{
			Severity: SeverityError,
			Path:     "runtime.batch_size",
			Message:  "batch_size must not be negative",
		})
	}

	return issues
}
