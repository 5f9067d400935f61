// Package csv implements a streaming CSV parser for the legacy sales extract.
// The source file uses a single-byte Windows-1252 encoding (loading it as
// UTF-8 is known to corrupt it), so the parser can transcode on the fly before
// the bytes reach encoding/csv.
package csv

import (
	"encoding/csv"
	"fmt"
	"io"
	"log"
	"strings"

	"golang.org/x/text/encoding/charmap"
	"golang.org/x/text/transform"

	"invoicedw/pkg/records"
)

// Options configures the CSV parser behavior. All fields are optional; sensible
// defaults are applied when a field is zero.
type Options struct {
	// HasHeader indicates whether the first row contains column headers.
	HasHeader bool

	// Comma specifies the field delimiter. When zero, ',' is used.
	Comma rune

	// TrimSpace trims leading/trailing ASCII spaces from each field value.
	TrimSpace bool

	// Encoding selects the input text encoding: "windows-1252" (transcoded via
	// x/text/charmap) or "utf-8"/"" (passed through unchanged).
	Encoding string

	// ExpectedFields, when > 0, enforces a fixed field count per record. Rows
	// with a different width are skipped (soft-fail) and counted.
	ExpectedFields int

	// HeaderMap maps source header names to canonical keys (e.g.
	// "Customer ID" to "customer_id"). Only applies when HasHeader is true.
	HeaderMap map[string]string
}

// Parser parses CSV input according to Options. It is safe to reuse across
// inputs, but Parser itself is not concurrency-safe.
type Parser struct{ opt Options }

// NewParser constructs a Parser with the provided Options.
func NewParser(opt Options) *Parser { return &Parser{opt: opt} }

// utf8BOM is stripped from the first header cell if present.
const utf8BOM = "\uFEFF"

// skipLogLimit caps the number of per-row skip log lines.
const skipLogLimit = 400

// Parse consumes CSV records from r and returns the parsed rows along with the
// number of rows that were skipped due to parse errors or field-count
// mismatches. Empty cells are mapped to nil so downstream validation can
// distinguish absence from empty text.
func (p *Parser) Parse(r io.Reader) ([]records.Record, int, error) {
	switch p.opt.Encoding {
	case "", "utf-8":
		// pass through
	case "windows-1252":
		r = transform.NewReader(r, charmap.Windows1252.NewDecoder())
	default:
		return nil, 0, fmt.Errorf("csv: unsupported encoding %q", p.opt.Encoding)
	}

	cr := csv.NewReader(r)
	if p.opt.Comma != 0 {
		cr.Comma = p.opt.Comma
	}
	// Rows with the wrong width are skipped after read; do not let csv.Reader
	// abort the whole file on the first irregular row.
	cr.FieldsPerRecord = -1
	cr.LazyQuotes = true

	var headers []string
	var out []records.Record
	var skipped int

	// Header handling.
	if p.opt.HasHeader {
		h, err := cr.Read()
		if err != nil {
			return nil, 0, fmt.Errorf("read csv header: %w", err)
		}
		headers = normalizeHeaders(h, p.opt)
	} else if p.opt.ExpectedFields > 0 {
		headers = make([]string, p.opt.ExpectedFields)
		for i := range headers {
			headers[i] = fmt.Sprintf("col_%d", i)
		}
	}

	// Read body rows.
	for line := 1; ; line++ {
		row, err := cr.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			if skipped < skipLogLimit {
				// Soft-fail this row and continue.
				log.Printf("csv: skipping row %d: %v", line, err)
			}
			skipped++
			continue
		}

		// Enforce expected width when known (by headers or explicit ExpectedFields).
		if len(headers) > 0 && len(row) != len(headers) {
			if skipped < skipLogLimit {
				log.Printf("csv: skipping row %d: incorrect number of fields (expected %d, got %d)", line, len(headers), len(row))
			}
			skipped++
			continue
		}

		rec := make(records.Record, len(row))
		for i, val := range row {
			if p.opt.TrimSpace {
				val = strings.TrimSpace(val)
			}
			rec[keyFor(i, headers)] = emptyToNil(val)
		}
		out = append(out, rec)
	}

	return out, skipped, nil
}

// keyFor returns the column key for index idx, using headers when available,
// otherwise synthesizing a "col_N" name.
func keyFor(idx int, headers []string) string {
	if idx < len(headers) && headers[idx] != "" {
		return headers[idx]
	}
	return fmt.Sprintf("col_%d", idx)
}

// emptyToNil converts an empty string to nil; all other values are returned as-is.
func emptyToNil(s string) any {
	if s == "" {
		return nil
	}
	return s
}

// normalizeHeaders produces canonical header keys using HeaderMap (when
// provided) and simple normalization (lowercase, spaces to underscores). It
// also strips a UTF-8 BOM from the first cell if present.
func normalizeHeaders(h []string, opt Options) []string {
	res := make([]string, len(h))
	for i, col := range h {
		c := strings.TrimSpace(col)
		if i == 0 {
			c = strings.TrimPrefix(c, utf8BOM)
		}
		if opt.HeaderMap != nil {
			if m, ok := opt.HeaderMap[c]; ok {
				res[i] = m
				continue
			}
		}
		res[i] = strings.ReplaceAll(strings.ToLower(c), " ", "_")
	}
	return res
}
