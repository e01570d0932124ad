package analytics

import (
	"fmt"
	"sort"

	"shoppulse/pkg/contracts/domain"
)

// GrowthRate returns the period-over-period growth in percent. The second
// return is false when the previous value is zero or undefined, in which case
// the metric must be reported as N/A rather than a number.
//
// Boundary rule: a change of exactly zero is a valid growth rate of +0%, not
// N/A. The sign convention treats 0% as non-negative; rendering that as an
// arrow or color is up to the presentation layer.
func GrowthRate(current, previous float64) (float64, bool) {
	if previous == 0 {
		return 0, false
	}
	return (current - previous) / previous * 100, true
}

// TotalRevenue sums item prices over the records.
func TotalRevenue(records []domain.SalesRecord) float64 {
	var total float64
	for _, r := range records {
		total += r.Price
	}
	return total
}

// DistinctOrders counts unique order ids.
func DistinctOrders(records []domain.SalesRecord) int64 {
	seen := make(map[string]bool)
	for _, r := range records {
		seen[r.OrderID] = true
	}
	return int64(len(seen))
}

// MonthlyRevenue returns revenue summed per purchase month, ascending by
// period ("2006-01" labels sort chronologically).
func MonthlyRevenue(records []domain.SalesRecord) []domain.SeriesPoint {
	sums := make(map[string]float64)
	for _, r := range records {
		period := fmt.Sprintf("%04d-%02d", r.PurchasedAt.Year(), int(r.PurchasedAt.Month()))
		sums[period] += r.Price
	}
	points := make([]domain.SeriesPoint, 0, len(sums))
	for period, v := range sums {
		points = append(points, domain.SeriesPoint{Period: period, Value: v})
	}
	sort.Slice(points, func(i, j int) bool { return points[i].Period < points[j].Period })
	return points
}

// meanMonthlyGrowth averages the month-over-month growth of the series.
// Pairs with a zero base month are skipped; when no pair remains the metric
// is undefined.
func meanMonthlyGrowth(series []domain.SeriesPoint) (float64, bool) {
	if len(series) < 2 {
		return 0, false
	}
	var sum float64
	var n int
	for i := 1; i < len(series); i++ {
		if growth, ok := GrowthRate(series[i].Value, series[i-1].Value); ok {
			sum += growth
			n++
		}
	}
	if n == 0 {
		return 0, false
	}
	return sum / float64(n), true
}

func (c *Calculator) revenueMetrics(result domain.MetricsResult, current, previous []domain.SalesRecord) {
	total := TotalRevenue(current)
	orders := DistinctOrders(current)
	series := MonthlyRevenue(current)

	result[domain.MetricRevenueTotal] = domain.Scalar(total)
	result[domain.MetricOrdersTotal] = domain.Scalar(float64(orders))
	result[domain.MetricMonthlyRevenue] = domain.Series(series)

	if orders > 0 {
		result[domain.MetricAvgOrderValue] = domain.Scalar(total / float64(orders))
	} else {
		result[domain.MetricAvgOrderValue] = domain.NA()
	}

	if previous == nil {
		result[domain.MetricRevenuePrevious] = domain.NA()
		result[domain.MetricRevenueGrowthPct] = domain.NA()
	} else {
		prevTotal := TotalRevenue(previous)
		result[domain.MetricRevenuePrevious] = domain.Scalar(prevTotal)
		if growth, ok := GrowthRate(total, prevTotal); ok {
			result[domain.MetricRevenueGrowthPct] = domain.Scalar(growth)
		} else {
			result[domain.MetricRevenueGrowthPct] = domain.NA()
		}
	}

	if growth, ok := meanMonthlyGrowth(series); ok {
		result[domain.MetricMonthlyGrowthPct] = domain.Scalar(growth)
	} else {
		result[domain.MetricMonthlyGrowthPct] = domain.NA()
	}
}
