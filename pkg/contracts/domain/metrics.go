package domain

// ValueKind discriminates the shape of a metric value.
type ValueKind string

const (
	// KindScalar is a single numeric result.
	KindScalar ValueKind = "scalar"
	// KindNA marks a metric whose denominator is zero or undefined. The
	// presentation layer renders it as "N/A"; the core never invents a number.
	KindNA ValueKind = "n/a"
	// KindTable is a small ordered breakdown (top-N style).
	KindTable ValueKind = "table"
	// KindSeries is an ordered sequence of (period, value) points.
	KindSeries ValueKind = "series"
)

// Value is one entry of a MetricsResult. Exactly one of Scalar, Table or
// Series is meaningful, selected by Kind. Values are computed fresh on every
// filter change and are read-only once returned.
type Value struct {
	Kind   ValueKind     `json:"kind"`
	Scalar float64       `json:"scalar,omitempty"`
	Table  []TableRow    `json:"table,omitempty"`
	Series []SeriesPoint `json:"series,omitempty"`
}

// TableRow is one line of an ordered breakdown. Revenue-ranked tables carry
// Orders and Revenue; geographic tables may additionally carry a centroid for
// map rendering by the presentation layer.
type TableRow struct {
	Label   string   `json:"label"`
	Orders  int64    `json:"orders"`
	Revenue float64  `json:"revenue"`
	Lat     *float64 `json:"lat,omitempty"`
	Lon     *float64 `json:"lon,omitempty"`
}

// SeriesPoint is one (period, value) pair of a time series. Period is a
// sortable label such as "2023-04".
type SeriesPoint struct {
	Period string  `json:"period"`
	Value  float64 `json:"value"`
}

// MetricsResult maps metric names to computed values. The key set below is
// the stable schema the presentation layer consumes.
type MetricsResult map[string]Value

// Metric names present in every MetricsResult.
const (
	MetricRevenueTotal     = "revenue_total"
	MetricRevenuePrevious  = "revenue_previous"
	MetricRevenueGrowthPct = "revenue_growth_pct"
	MetricMonthlyGrowthPct = "monthly_growth_pct"
	MetricMonthlyRevenue   = "monthly_revenue"
	MetricOrdersTotal      = "orders_total"
	MetricAvgOrderValue    = "avg_order_value"
	MetricCategoryRevenue  = "category_revenue"
	MetricTopShare         = "top_category_share_pct"
	MetricStateRevenue     = "state_revenue"
	MetricCityRevenue      = "city_revenue"
	MetricReviewAvg        = "review_score_avg"
	MetricReviewHighPct    = "review_high_share_pct"
	MetricDeliveryAvgDays  = "delivery_days_avg"
	MetricDeliveryLatePct  = "delivery_late_share_pct"
)

// Scalar builds a scalar value.
func Scalar(v float64) Value { return Value{Kind: KindScalar, Scalar: v} }

// NA builds the not-available sentinel.
func NA() Value { return Value{Kind: KindNA} }

// Table builds a table value.
func Table(rows []TableRow) Value { return Value{Kind: KindTable, Table: rows} }

// Series builds a time-series value.
func Series(points []SeriesPoint) Value { return Value{Kind: KindSeries, Series: points} }
