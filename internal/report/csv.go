package report

import (
	"encoding/csv"
	"fmt"
	"io"
	"log"
	"os"
	"path/filepath"
	"strconv"

	"invoicedw/internal/storage"
)

// WriteCSV renders a rowset as delimited text. Decimal values are formatted
// with two decimals; NULLs become empty cells.
func WriteCSV(w io.Writer, rs *storage.Rowset) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(rs.Columns); err != nil {
		return err
	}
	cells := make([]string, len(rs.Columns))
	for _, row := range rs.Rows {
		for i, v := range row {
			cells[i] = formatCell(v)
		}
		if err := cw.Write(cells); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}

// WriteFiles exports every report as <dir>/<name>.csv, creating dir if
// needed.
func WriteFiles(dir string, reports []Report) error {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("create report dir: %w", err)
	}
	for _, rep := range reports {
		path := filepath.Join(dir, rep.Name+".csv")
		f, err := os.Create(path)
		if err != nil {
			return fmt.Errorf("create %s: %w", path, err)
		}
		if err := WriteCSV(f, rep.Data); err != nil {
			f.Close()
			return fmt.Errorf("write %s: %w", path, err)
		}
		if err := f.Close(); err != nil {
			return fmt.Errorf("close %s: %w", path, err)
		}
		log.Printf("report: saved %s rows=%d", path, len(rep.Data.Rows))
	}
	return nil
}

func formatCell(v any) string {
	switch t := v.(type) {
	case nil:
		return ""
	case float64:
		return strconv.FormatFloat(t, 'f', 2, 64)
	case float32:
		return strconv.FormatFloat(float64(t), 'f', 2, 32)
	case int64:
		return strconv.FormatInt(t, 10)
	case int:
		return strconv.Itoa(t)
	case string:
		return t
	default:
		return fmt.Sprint(t)
	}
}
