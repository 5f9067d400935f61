package parser

import (
	"io"

	"invoicedw/pkg/records"
)

// Parser turns raw bytes into records plus a count of soft-skipped rows.
type Parser interface {
	Parse(r io.Reader) ([]records.Record, int, error)
}
