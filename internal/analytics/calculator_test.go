package analytics

import (
	"fmt"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"shoppulse/pkg/contracts/domain"
)

// rec builds a minimal sales record for metric tests.
func rec(orderID, category string, price float64, purchased time.Time) domain.SalesRecord {
	return domain.SalesRecord{
		OrderID:     orderID,
		CustomerID:  "c1",
		ProductID:   "p1",
		Category:    category,
		Status:      domain.StatusDelivered,
		PurchasedAt: purchased,
		Price:       price,
	}
}

func withReview(r domain.SalesRecord, score int) domain.SalesRecord {
	r.ReviewScore = &score
	return r
}

func withDelivery(r domain.SalesRecord, days float64) domain.SalesRecord {
	delivered := r.PurchasedAt.Add(time.Duration(days * 24 * float64(time.Hour)))
	r.DeliveredAt = &delivered
	return r
}

func TestGrowthRate(t *testing.T) {
	tests := []struct {
		name     string
		current  float64
		previous float64
		want     float64
		defined  bool
	}{
		{"positive growth", 150, 100, 50, true},
		{"negative growth", 50, 100, -50, true},
		// A change of exactly zero is a defined growth rate of +0%, not N/A.
		{"zero change", 100, 100, 0, true},
		{"zero previous is undefined", 100, 0, 0, false},
		{"both zero is undefined", 0, 0, 0, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := GrowthRate(tt.current, tt.previous)
			assert.Equal(t, tt.defined, ok)
			if tt.defined {
				assert.InDelta(t, tt.want, got, 1e-9)
				if tt.current >= tt.previous {
					assert.GreaterOrEqual(t, got, 0.0)
				}
			}
		})
	}
}

func TestTopNShare(t *testing.T) {
	// Worked example: revenues and categories from ten order lines; category
	// B holds 1200 of 1900 total.
	revenues := []float64{100, 200, 300, 50, 150, 400, 100, 200, 300, 100}
	categories := []string{"A", "B", "B", "A", "A", "B", "A", "B", "A", "B"}

	base := time.Date(2023, 3, 1, 0, 0, 0, 0, time.UTC)
	records := make([]domain.SalesRecord, len(revenues))
	for i := range revenues {
		records[i] = rec(fmt.Sprintf("o%d", i), categories[i], revenues[i], base)
	}

	rows := CategoryRevenue(records)
	require.Len(t, rows, 2)
	assert.Equal(t, "B", rows[0].Label)
	assert.InDelta(t, 1200, rows[0].Revenue, 1e-9)
	assert.InDelta(t, 700, rows[1].Revenue, 1e-9)

	share1, ok := TopNShare(rows, 1)
	require.True(t, ok)
	assert.InDelta(t, 63.16, share1, 0.01)

	// Monotone non-decreasing in N, and exactly 100% once N covers all rows.
	prev := 0.0
	for n := 1; n <= len(rows)+2; n++ {
		share, ok := TopNShare(rows, n)
		require.True(t, ok)
		assert.GreaterOrEqual(t, share, prev)
		prev = share
	}
	full, ok := TopNShare(rows, len(rows))
	require.True(t, ok)
	assert.InDelta(t, 100.0, full, 1e-9)
}

func TestTopNShareZeroRevenue(t *testing.T) {
	_, ok := TopNShare(nil, 3)
	assert.False(t, ok)

	rows := []domain.TableRow{{Label: "A", Revenue: 0}}
	_, ok = TopNShare(rows, 1)
	assert.False(t, ok)
}

func TestDeliveryStats(t *testing.T) {
	base := time.Date(2023, 5, 1, 0, 0, 0, 0, time.UTC)
	durations := []float64{1, 2, 3, 10, 15}

	records := make([]domain.SalesRecord, 0, len(durations)+1)
	for i, days := range durations {
		records = append(records, withDelivery(rec(fmt.Sprintf("o%d", i), "A", 10, base), days))
	}
	// Undelivered orders are excluded from the duration metrics.
	records = append(records, rec("o-pending", "A", 10, base))

	meanDays, lateShare, ok := DeliveryStats(records, 7)
	require.True(t, ok)
	assert.InDelta(t, 6.2, meanDays, 1e-9)
	assert.InDelta(t, 40.0, lateShare, 1e-9)
}

func TestDeliveryStatsEmpty(t *testing.T) {
	_, _, ok := DeliveryStats(nil, 7)
	assert.False(t, ok)

	// Only undelivered records: still undefined.
	records := []domain.SalesRecord{rec("o1", "A", 10, time.Now())}
	_, _, ok = DeliveryStats(records, 7)
	assert.False(t, ok)
}

func TestReviewStats(t *testing.T) {
	base := time.Date(2023, 5, 1, 0, 0, 0, 0, time.UTC)
	records := []domain.SalesRecord{
		withReview(rec("o1", "A", 10, base), 5),
		withReview(rec("o2", "A", 10, base), 4),
		withReview(rec("o3", "A", 10, base), 2),
		rec("o4", "A", 10, base), // unreviewed, excluded
	}

	mean, highShare, ok := ReviewStats(records, 4)
	require.True(t, ok)
	assert.InDelta(t, 11.0/3.0, mean, 1e-9)
	assert.InDelta(t, 2.0/3.0*100, highShare, 1e-9)

	_, _, ok = ReviewStats(nil, 4)
	assert.False(t, ok)
}

func TestMonthlyRevenue(t *testing.T) {
	records := []domain.SalesRecord{
		rec("o1", "A", 100, time.Date(2023, 1, 5, 0, 0, 0, 0, time.UTC)),
		rec("o2", "A", 50, time.Date(2023, 1, 20, 0, 0, 0, 0, time.UTC)),
		rec("o3", "A", 200, time.Date(2023, 3, 2, 0, 0, 0, 0, time.UTC)),
	}

	series := MonthlyRevenue(records)
	require.Equal(t, []domain.SeriesPoint{
		{Period: "2023-01", Value: 150},
		{Period: "2023-03", Value: 200},
	}, series)
}

func TestComputeFullResult(t *testing.T) {
	base := time.Date(2023, 2, 1, 0, 0, 0, 0, time.UTC)
	current := []domain.SalesRecord{
		withDelivery(withReview(rec("o1", "electronics", 100, base), 5), 3),
		withDelivery(withReview(rec("o2", "books", 60, base.AddDate(0, 1, 0)), 3), 9),
	}
	previous := []domain.SalesRecord{
		rec("p1", "electronics", 80, base.AddDate(-1, 0, 0)),
	}

	calc := NewCalculator(slog.Default(), DefaultOptions())
	result := calc.Compute(current, previous)

	assert.InDelta(t, 160, result[domain.MetricRevenueTotal].Scalar, 1e-9)
	assert.InDelta(t, 80, result[domain.MetricRevenuePrevious].Scalar, 1e-9)
	assert.InDelta(t, 100, result[domain.MetricRevenueGrowthPct].Scalar, 1e-9)
	assert.InDelta(t, 2, result[domain.MetricOrdersTotal].Scalar, 1e-9)
	assert.InDelta(t, 80, result[domain.MetricAvgOrderValue].Scalar, 1e-9)

	categories := result[domain.MetricCategoryRevenue]
	require.Equal(t, domain.KindTable, categories.Kind)
	require.Len(t, categories.Table, 2)
	assert.Equal(t, "electronics", categories.Table[0].Label)

	assert.InDelta(t, 4.0, result[domain.MetricReviewAvg].Scalar, 1e-9)
	assert.InDelta(t, 50.0, result[domain.MetricReviewHighPct].Scalar, 1e-9)
	assert.InDelta(t, 6.0, result[domain.MetricDeliveryAvgDays].Scalar, 1e-9)
	assert.InDelta(t, 50.0, result[domain.MetricDeliveryLatePct].Scalar, 1e-9)
}

func TestComputeEmptyInput(t *testing.T) {
	calc := NewCalculator(slog.Default(), DefaultOptions())
	result := calc.Compute(nil, nil)

	// Degenerate inputs yield defined sentinels, never a panic or a
	// fabricated number.
	assert.Equal(t, domain.KindScalar, result[domain.MetricRevenueTotal].Kind)
	assert.Zero(t, result[domain.MetricRevenueTotal].Scalar)
	assert.Equal(t, domain.KindNA, result[domain.MetricRevenueGrowthPct].Kind)
	assert.Equal(t, domain.KindNA, result[domain.MetricRevenuePrevious].Kind)
	assert.Equal(t, domain.KindNA, result[domain.MetricAvgOrderValue].Kind)
	assert.Equal(t, domain.KindNA, result[domain.MetricMonthlyGrowthPct].Kind)
	assert.Equal(t, domain.KindNA, result[domain.MetricTopShare].Kind)
	assert.Equal(t, domain.KindNA, result[domain.MetricReviewAvg].Kind)
	assert.Equal(t, domain.KindNA, result[domain.MetricDeliveryAvgDays].Kind)
	assert.Empty(t, result[domain.MetricCategoryRevenue].Table)
}

func TestComputeGrowthZeroPrevious(t *testing.T) {
	base := time.Date(2023, 2, 1, 0, 0, 0, 0, time.UTC)
	current := []domain.SalesRecord{rec("o1", "A", 100, base)}
	// A previous period that exists but had zero revenue still yields N/A.
	previous := []domain.SalesRecord{}

	calc := NewCalculator(slog.Default(), DefaultOptions())
	result := calc.Compute(current, previous)

	assert.Equal(t, domain.KindScalar, result[domain.MetricRevenuePrevious].Kind)
	assert.Zero(t, result[domain.MetricRevenuePrevious].Scalar)
	assert.Equal(t, domain.KindNA, result[domain.MetricRevenueGrowthPct].Kind)
}

func TestStateCentroidEnrichment(t *testing.T) {
	base := time.Date(2023, 2, 1, 0, 0, 0, 0, time.UTC)
	r := rec("o1", "A", 100, base)
	r.CustomerState = "IL"
	r.CustomerCity = "springfield"

	opts := DefaultOptions()
	opts.StateCentroids = map[string][2]float64{"IL": {41.8, -87.6}}
	calc := NewCalculator(slog.Default(), opts)
	result := calc.Compute([]domain.SalesRecord{r}, nil)

	states := result[domain.MetricStateRevenue].Table
	require.Len(t, states, 1)
	require.NotNil(t, states[0].Lat)
	assert.InDelta(t, 41.8, *states[0].Lat, 1e-9)
	assert.InDelta(t, -87.6, *states[0].Lon, 1e-9)

	cities := result[domain.MetricCityRevenue].Table
	require.Len(t, cities, 1)
	assert.Equal(t, "springfield", cities[0].Label)
}
