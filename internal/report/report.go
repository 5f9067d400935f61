// Package report runs the read-only reporting queries over the finished star
// schema and exports them as delimited text. Every query joins facts to
// dimensions on surrogate-key equality only; no further joins are needed.
package report

import (
	"context"
	"fmt"

	"golang.org/x/sync/errgroup"

	"invoicedw/internal/storage"
)

// Report names used for log lines and export file names.
const (
	TopCustomers       = "top_customers"
	TopProductsByMonth = "top_products_by_month"
	MonthlyRevenue     = "monthly_revenue"
)

// Options bounds the reports.
type Options struct {
	// TopCustomers limits the customer-spend report.
	TopCustomers int

	// TopProducts limits the per-month product ranking.
	TopProducts int

	// Year/MonthFrom/MonthTo bound the product report to one calendar window.
	// A zero Year skips the product report.
	Year      int
	MonthFrom int
	MonthTo   int
}

// Report is one named tabular result.
type Report struct {
	Name string
	Data *storage.Rowset
}

// Generate runs the reporting queries and returns the results in a stable
// order. The queries are read-only and independent, so they fan out
// concurrently; the first failure cancels the rest.
func Generate(ctx context.Context, repo storage.Repository, opt Options) ([]Report, error) {
	type slot struct {
		name string
		sql  string
		post func(*storage.Rowset)
	}

	slots := []slot{
		{name: TopCustomers, sql: topCustomersSQL(opt.TopCustomers)},
	}
	if opt.Year > 0 {
		slots = append(slots, slot{
			name: TopProductsByMonth,
			sql:  topProductsSQL(opt.Year, opt.MonthFrom, opt.MonthTo, opt.TopProducts),
		})
	}
	slots = append(slots, slot{
		name: MonthlyRevenue,
		sql:  monthlyRevenueSQL(),
		post: addYearMonthLabel,
	})

	out := make([]Report, len(slots))
	g, gctx := errgroup.WithContext(ctx)
	for i, s := range slots {
		g.Go(func() error {
			rs, err := repo.Query(gctx, s.sql)
			if err != nil {
				return fmt.Errorf("report %s: %w", s.name, err)
			}
			if s.post != nil {
				s.post(rs)
			}
			out[i] = Report{Name: s.name, Data: rs}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return out, nil
}

func topCustomersSQL(limit int) string {
	return fmt.Sprintf(`
		SELECT
			dc.customer_id,
			SUM(fo.total_amount) AS total_spent
		FROM fact_order fo
		JOIN dim_customer dc ON dc.customer_sk = fo.customer_sk
		GROUP BY dc.customer_id
		ORDER BY total_spent DESC
		LIMIT %d`, limit)
}

func topProductsSQL(year, monthFrom, monthTo, limit int) string {
	return fmt.Sprintf(`
		SELECT year, month, stock_code, description, total_revenue
		FROM (
			SELECT
				d.year,
				d.month,
				p.stock_code,
				p.description,
				SUM(foi.amount) AS total_revenue,
				ROW_NUMBER() OVER (
					PARTITION BY d.year, d.month
					ORDER BY SUM(foi.amount) DESC
				) AS rn
			FROM fact_order_item foi
			JOIN dim_product p ON foi.product_sk = p.product_sk
			JOIN dim_date d ON foi.date_sk = d.date_sk
			WHERE d.year = %d AND d.month BETWEEN %d AND %d
			GROUP BY d.year, d.month, p.stock_code, p.description
		) ranked
		WHERE rn <= %d
		ORDER BY year, month, total_revenue DESC`, year, monthFrom, monthTo, limit)
}

func monthlyRevenueSQL() string {
	return `
		SELECT
			d.year,
			d.month,
			SUM(f.total_amount) AS monthly_revenue
		FROM fact_order f
		JOIN dim_date d ON f.min_date_sk = d.date_sk
		GROUP BY d.year, d.month
		ORDER BY d.year, d.month`
}

// addYearMonthLabel appends a "year_month" column ("2010-03") so the trend is
// plot-ready without further processing.
func addYearMonthLabel(rs *storage.Rowset) {
	yearIdx, monthIdx := -1, -1
	for i, c := range rs.Columns {
		switch c {
		case "year":
			yearIdx = i
		case "month":
			monthIdx = i
		}
	}
	if yearIdx < 0 || monthIdx < 0 {
		return
	}
	rs.Columns = append(rs.Columns, "year_month")
	for i, row := range rs.Rows {
		y, yerr := asInt(row[yearIdx])
		m, merr := asInt(row[monthIdx])
		if yerr != nil || merr != nil {
			rs.Rows[i] = append(row, nil)
			continue
		}
		rs.Rows[i] = append(row, fmt.Sprintf("%d-%02d", y, m))
	}
}

func asInt(v any) (int64, error) {
	switch t := v.(type) {
	case int64:
		return t, nil
	case int:
		return int64(t), nil
	case int32:
		return int64(t), nil
	case float64:
		return int64(t), nil
	default:
		return 0, fmt.Errorf("value %T is not numeric", v)
	}
}
