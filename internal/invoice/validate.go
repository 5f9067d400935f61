package invoice

import (
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"

	"invoicedw/pkg/records"
)

// Reject is the tagged outcome for a row that failed the acceptance gate.
// Field names the first offending column; Reason is human-readable. The gate
// never panics or returns an error: a parse failure is data, not a fault.
type Reject struct {
	Field  string
	Reason string
}

func (r *Reject) String() string {
	return fmt.Sprintf("%s: %s", r.Field, r.Reason)
}

// dateLayouts are tried in order when parsing InvoiceDate. The extract
// carries minute precision ("2010-12-01 08:26"); second precision and RFC3339
// are accepted for re-ingesting previously exported data.
var dateLayouts = []string{
	"2006-01-02 15:04",
	"2006-01-02 15:04:05",
	time.RFC3339,
}

// Validate classifies one raw record. It returns the typed Row when the
// record is structurally valid, or a non-nil Reject naming the first rule it
// broke. Rules, in order:
//
//  1. invoice, stock_code, customer_id (and the descriptive columns) are
//     optional text; present values are coerced to text unconditionally.
//  2. quantity must parse as an integer, price as a decimal, invoice_date as
//     a timestamp.
//  3. invoice, stock_code, quantity, price, and invoice_date must be present.
//     A missing customer_id is not a rejection (anonymous order).
//  4. quantity x price must be computable (finite).
//
// The caller owns ID/Pos assignment; Validate leaves them zero.
func Validate(rec records.Record) (Row, *Reject) {
	var row Row

	// Rule 1: identifier and descriptive columns as optional text.
	invoiceID := optText(rec[FieldInvoice])
	stockCode := optText(rec[FieldStockCode])
	row.Description = optText(rec[FieldDescription])
	row.CustomerID = optText(rec[FieldCustomerID])
	row.Country = optText(rec[FieldCountry])

	// Rule 2: typed columns.
	qty, present, err := parseInt(rec[FieldQuantity])
	if err != nil {
		return row, &Reject{FieldQuantity, err.Error()}
	}
	if !present {
		return row, &Reject{FieldQuantity, "missing"}
	}
	price, present, err := parseFloat(rec[FieldPrice])
	if err != nil {
		return row, &Reject{FieldPrice, err.Error()}
	}
	if !present {
		return row, &Reject{FieldPrice, "missing"}
	}
	ts, present, err := parseTime(rec[FieldInvoiceDate])
	if err != nil {
		return row, &Reject{FieldInvoiceDate, err.Error()}
	}
	if !present {
		return row, &Reject{FieldInvoiceDate, "missing"}
	}

	// Rule 3: required identifiers.
	if invoiceID == nil {
		return row, &Reject{FieldInvoice, "missing"}
	}
	if stockCode == nil {
		return row, &Reject{FieldStockCode, "missing"}
	}

	// Rule 4: the line amount must be computable. A non-finite product means
	// the extract carries corrupted magnitudes, which is a structural defect.
	amount := float64(qty) * price
	if math.IsNaN(amount) || math.IsInf(amount, 0) {
		return row, &Reject{FieldPrice, fmt.Sprintf("amount %d * %v is not computable", qty, price)}
	}

	row.Invoice = *invoiceID
	row.StockCode = *stockCode
	row.Quantity = qty
	row.Price = price
	row.InvoiceDate = ts
	row.Amount = amount
	return row, nil
}

// optText maps nil/missing to absence and coerces any present value to text.
func optText(v any) *string {
	s := AsText(v)
	if s == "" {
		return nil
	}
	return &s
}

// AsText renders a raw cell value as text. nil becomes the empty string.
func AsText(v any) string {
	switch t := v.(type) {
	case nil:
		return ""
	case string:
		return t
	case int:
		return strconv.Itoa(t)
	case int64:
		return strconv.FormatInt(t, 10)
	case float64:
		return strconv.FormatFloat(t, 'g', -1, 64)
	case bool:
		if t {
			return "true"
		}
		return "false"
	case time.Time:
		return t.Format(DateLayout)
	default:
		return fmt.Sprint(t)
	}
}

func parseInt(v any) (n int64, present bool, err error) {
	switch t := v.(type) {
	case nil:
		return 0, false, nil
	case int:
		return int64(t), true, nil
	case int64:
		return t, true, nil
	case string:
		s := strings.TrimSpace(t)
		if s == "" {
			return 0, false, nil
		}
		n, perr := strconv.ParseInt(s, 10, 64)
		if perr != nil {
			return 0, true, fmt.Errorf("%q is not an integer", t)
		}
		return n, true, nil
	default:
		return 0, true, fmt.Errorf("type %T is not an integer", v)
	}
}

func parseFloat(v any) (f float64, present bool, err error) {
	switch t := v.(type) {
	case nil:
		return 0, false, nil
	case float64:
		return t, true, nil
	case int:
		return float64(t), true, nil
	case int64:
		return float64(t), true, nil
	case string:
		s := strings.TrimSpace(t)
		if s == "" {
			return 0, false, nil
		}
		f, perr := strconv.ParseFloat(s, 64)
		if perr != nil {
			return 0, true, fmt.Errorf("%q is not a decimal", t)
		}
		return f, true, nil
	default:
		return 0, true, fmt.Errorf("type %T is not a decimal", v)
	}
}

func parseTime(v any) (ts time.Time, present bool, err error) {
	switch t := v.(type) {
	case nil:
		return time.Time{}, false, nil
	case time.Time:
		if t.IsZero() {
			return time.Time{}, false, nil
		}
		return t, true, nil
	case string:
		s := strings.TrimSpace(t)
		if s == "" {
			return time.Time{}, false, nil
		}
		for _, layout := range dateLayouts {
			if ts, perr := time.Parse(layout, s); perr == nil {
				return ts, true, nil
			}
		}
		return time.Time{}, true, fmt.Errorf("%q is not a timestamp", t)
	default:
		return time.Time{}, true, fmt.Errorf("type %T is not a timestamp", v)
	}
}
