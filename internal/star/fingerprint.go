package star

import (
	"context"
	"fmt"

	"github.com/zeebo/xxh3"

	"invoicedw/internal/storage"
)

// Fingerprint computes a content hash of a produced table, ordered by its
// first column (the surrogate key on every table this pipeline writes), so
// two builds from the same valid partition yield the same value. Values are
// hashed through their text rendering; cell and row separators keep adjacent
// values from colliding.
func Fingerprint(ctx context.Context, repo storage.Repository, table string) (uint64, error) {
	rs, err := repo.Query(ctx, "SELECT * FROM "+table+" ORDER BY 1")
	if err != nil {
		return 0, err
	}

	h := xxh3.New()
	for _, col := range rs.Columns {
		_, _ = h.WriteString(col)
		_, _ = h.WriteString("\x1f")
	}
	_, _ = h.WriteString("\x1e")
	for _, row := range rs.Rows {
		for _, v := range row {
			if v == nil {
				_, _ = h.WriteString("\x00")
			} else {
				_, _ = h.WriteString(fmt.Sprint(v))
			}
			_, _ = h.WriteString("\x1f")
		}
		_, _ = h.WriteString("\x1e")
	}
	return h.Sum64(), nil
}
