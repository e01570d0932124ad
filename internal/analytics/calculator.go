// Package analytics computes descriptive business metrics over joined sales
// records. The calculator returns facts only: numbers, tables and series.
// Thresholding into labels, arrows or ratings is a presentation concern and
// never happens here.
package analytics

import (
	"log/slog"

	"shoppulse/pkg/contracts/domain"
)

// Options carries the numeric thresholds the metric families need. The
// thresholds parameterize computations; they never produce judgments.
type Options struct {
	// StarThreshold is the minimum review score counted by the
	// high-review-share metric.
	StarThreshold int
	// LateThresholdDays is the delivery duration above which an order counts
	// toward the late-share metric.
	LateThresholdDays float64
	// TopN is the number of leading categories summed by the top-share metric.
	TopN int
	// StateCentroids optionally enriches the state table with map coordinates.
	StateCentroids map[string][2]float64
}

// DefaultOptions returns the thresholds the dashboard ships with.
func DefaultOptions() Options {
	return Options{
		StarThreshold:     4,
		LateThresholdDays: 7,
		TopN:              3,
	}
}

// Calculator computes a MetricsResult from sales records. Each metric family
// is a pure function over the same input; Compute only assembles their
// outputs.
type Calculator struct {
	opts   Options
	logger *slog.Logger
}

// NewCalculator creates a calculator. A nil logger falls back to the default.
func NewCalculator(logger *slog.Logger, opts Options) *Calculator {
	if logger == nil {
		logger = slog.Default()
	}
	if opts.TopN <= 0 {
		opts.TopN = DefaultOptions().TopN
	}
	if opts.StarThreshold <= 0 {
		opts.StarThreshold = DefaultOptions().StarThreshold
	}
	if opts.LateThresholdDays <= 0 {
		opts.LateThresholdDays = DefaultOptions().LateThresholdDays
	}
	return &Calculator{
		opts:   opts,
		logger: logger.With(slog.String("component", "analytics")),
	}
}

// Compute produces the full metrics mapping for the current records.
// previous carries the comparable prior period (typically the same filter
// shifted one year back) and may be nil, in which case every
// period-over-period metric is the N/A sentinel. The result is built fresh on
// every call and is never mutated afterwards.
func (c *Calculator) Compute(current, previous []domain.SalesRecord) domain.MetricsResult {
	result := make(domain.MetricsResult)

	c.revenueMetrics(result, current, previous)
	c.productMetrics(result, current)
	c.geographyMetrics(result, current)
	c.satisfactionMetrics(result, current)
	c.deliveryMetrics(result, current)

	c.logger.Debug("metrics computed",
		slog.Int("records", len(current)),
		slog.Int("previous_records", len(previous)),
		slog.Int("metrics", len(result)))

	return result
}
