// Package partition splits the raw record set into a valid partition and a
// defective partition and persists both as replace-if-exists tables.
//
// Identifiers are partition-local: the valid set and the defective set each
// count from 1 independently, so two rows in different partitions may share an
// identifier value. Every input row lands in exactly one partition.
package partition

import (
	"invoicedw/internal/invoice"
	"invoicedw/pkg/records"
)

// Defect is a raw record that failed the acceptance gate, preserved with all
// fields coerced to text for inspection.
type Defect struct {
	// ID is the partition-local identifier, monotonically increasing from 1
	// within the defective set.
	ID int64

	// Pos is the zero-based position of the row in the original extract.
	// Not persisted.
	Pos int

	// Values holds the text form of every canonical column.
	Values map[string]string

	// Reason records why the gate rejected the row. Logged, not persisted:
	// the defect table mirrors the extract's column set.
	Reason string
}

// Result holds the two disjoint partitions of one extract.
type Result struct {
	Valid   []invoice.Row
	Defects []Defect
}

// Split classifies every record and assigns partition-local identifiers. It
// is pure: no I/O, deterministic for a given input order.
func Split(recs []records.Record) Result {
	var res Result
	for i, rec := range recs {
		row, rej := invoice.Validate(rec)
		if rej == nil {
			row.ID = int64(len(res.Valid) + 1)
			row.Pos = i
			res.Valid = append(res.Valid, row)
			continue
		}
		d := Defect{
			ID:     int64(len(res.Defects) + 1),
			Pos:    i,
			Values: make(map[string]string, len(invoice.Columns)),
			Reason: rej.String(),
		}
		for _, col := range invoice.Columns {
			d.Values[col] = invoice.AsText(rec[col])
		}
		res.Defects = append(res.Defects, d)
	}
	return res
}
