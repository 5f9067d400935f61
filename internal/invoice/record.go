// Package invoice holds the domain model of the raw sales extract and the
// row-acceptance gate that splits it into typed, valid rows and defects.
package invoice

import "time"

// Canonical column keys, produced by header normalization of the legacy
// extract headers {Invoice, StockCode, Description, Quantity, InvoiceDate,
// Price, Customer ID, Country}.
const (
	FieldInvoice     = "invoice"
	FieldStockCode   = "stock_code"
	FieldDescription = "description"
	FieldQuantity    = "quantity"
	FieldInvoiceDate = "invoice_date"
	FieldPrice       = "price"
	FieldCustomerID  = "customer_id"
	FieldCountry     = "country"
)

// Columns lists the canonical column keys in extract order.
var Columns = []string{
	FieldInvoice,
	FieldStockCode,
	FieldDescription,
	FieldQuantity,
	FieldInvoiceDate,
	FieldPrice,
	FieldCustomerID,
	FieldCountry,
}

// HeaderMap maps the extract's literal header names onto canonical keys.
// Identifier-like columns are always kept as text; numeric-looking invoice or
// customer identifiers must never be auto-typed as numbers.
var HeaderMap = map[string]string{
	"Invoice":     FieldInvoice,
	"StockCode":   FieldStockCode,
	"Description": FieldDescription,
	"Quantity":    FieldQuantity,
	"InvoiceDate": FieldInvoiceDate,
	"Price":       FieldPrice,
	"Customer ID": FieldCustomerID,
	"Country":     FieldCountry,
}

// Row is one order-line observation that passed the acceptance gate.
// Identifier fields are text; CustomerID, Description, and Country may be nil
// (anonymous orders are valid).
type Row struct {
	// ID is the partition-local identifier assigned by the partitioner,
	// monotonically increasing from 1 within the valid set.
	ID int64

	// Pos is the zero-based position of the row in the original extract. It is
	// not persisted; it exists so the exactly-once partition invariant stays
	// checkable.
	Pos int

	Invoice     string
	StockCode   string
	Description *string
	Quantity    int64
	Price       float64
	InvoiceDate time.Time
	CustomerID  *string
	Country     *string

	// Amount is quantity x price, computed at validation time.
	Amount float64
}

// DateLayout is the persisted text form of InvoiceDate.
const DateLayout = "2006-01-02 15:04:05"
