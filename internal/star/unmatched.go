package star

import (
	"context"
	"fmt"

	"invoicedw/internal/storage"
)

// UnmatchedOrderItems counts valid records that produced no order-item fact
// row because a natural key had no dimension match (e.g. a NULL country has
// no location row). The rows are excluded from the fact table, but the count
// is reported explicitly rather than dropped silently.
func UnmatchedOrderItems(ctx context.Context, repo storage.Repository) (int64, error) {
	rs, err := repo.Query(ctx, `
		SELECT COUNT(*)
		FROM order_items oi
		WHERE NOT EXISTS (
			SELECT 1 FROM fact_order_item f WHERE f.order_item_id = oi.id
		)`)
	if err != nil {
		return 0, err
	}
	if len(rs.Rows) != 1 || len(rs.Rows[0]) != 1 {
		return 0, fmt.Errorf("unexpected count result shape")
	}
	return toInt64(rs.Rows[0][0])
}

func toInt64(v any) (int64, error) {
	switch t := v.(type) {
	case int64:
		return t, nil
	case int:
		return int64(t), nil
	case int32:
		return int64(t), nil
	case float64:
		return int64(t), nil
	case string:
		var n int64
		_, err := fmt.Sscan(t, &n)
		return n, err
	default:
		return 0, fmt.Errorf("count value %T is not numeric", v)
	}
}
