package analytics

import (
	"sort"

	"shoppulse/pkg/contracts/domain"
)

// CategoryRevenue aggregates revenue and distinct-order counts per product
// category, ranked descending by revenue. Ties break on the label so the
// ranking is deterministic. Records without a category fall under the empty
// label; they are aggregated, never fabricated into one.
func CategoryRevenue(records []domain.SalesRecord) []domain.TableRow {
	type agg struct {
		revenue float64
		orders  map[string]bool
	}
	byCategory := make(map[string]*agg)
	for _, r := range records {
		a, ok := byCategory[r.Category]
		if !ok {
			a = &agg{orders: make(map[string]bool)}
			byCategory[r.Category] = a
		}
		a.revenue += r.Price
		a.orders[r.OrderID] = true
	}

	rows := make([]domain.TableRow, 0, len(byCategory))
	for label, a := range byCategory {
		rows = append(rows, domain.TableRow{
			Label:   label,
			Orders:  int64(len(a.orders)),
			Revenue: a.revenue,
		})
	}
	sort.Slice(rows, func(i, j int) bool {
		if rows[i].Revenue != rows[j].Revenue {
			return rows[i].Revenue > rows[j].Revenue
		}
		return rows[i].Label < rows[j].Label
	})
	return rows
}

// TopNShare returns the share of total revenue held by the n highest-revenue
// rows, in percent. The share is monotone non-decreasing in n and reaches
// 100% when n covers every row. False when total revenue is zero.
func TopNShare(rows []domain.TableRow, n int) (float64, bool) {
	var total, top float64
	for i, row := range rows {
		total += row.Revenue
		if i < n {
			top += row.Revenue
		}
	}
	if total == 0 {
		return 0, false
	}
	return top / total * 100, true
}

func (c *Calculator) productMetrics(result domain.MetricsResult, records []domain.SalesRecord) {
	rows := CategoryRevenue(records)
	result[domain.MetricCategoryRevenue] = domain.Table(rows)

	if share, ok := TopNShare(rows, c.opts.TopN); ok {
		result[domain.MetricTopShare] = domain.Scalar(share)
	} else {
		result[domain.MetricTopShare] = domain.NA()
	}
}
