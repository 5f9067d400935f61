// Package records defines the row representation shared by the parser and
// the validation/partitioning stages.
package records

// Record is one parsed input row keyed by canonical column name. Values are
// either string (the raw cell text) or nil (the cell was empty/missing).
type Record map[string]any
