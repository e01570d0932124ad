// Package services composes the loader and calculator behind the interfaces
// the transport layer consumes.
package services

import (
	"context"
	"errors"
	"log/slog"
	"sync"
	"time"

	"shoppulse/internal/analytics"
	"shoppulse/internal/config"
	"shoppulse/internal/dataset"
	"shoppulse/internal/infrastructure"
	"shoppulse/pkg/contracts/domain"
)

// ErrNotLoaded is returned when a snapshot is requested before the dataset
// has been loaded.
var ErrNotLoaded = errors.New("sales dataset not loaded")

// Snapshot is one computed view of the sales data for a filter.
type Snapshot struct {
	Filter       domain.Filter        `json:"filter"`
	Metrics      domain.MetricsResult `json:"metrics"`
	JoinStats    dataset.JoinStats    `json:"join_stats"`
	PreviousYear *int                 `json:"previous_year,omitempty"`
	GeneratedAt  time.Time            `json:"generated_at"`
}

// AnalyticsService owns the loaded dataset and computes metric snapshots.
// The dataset is immutable once loaded; each snapshot works on its own join
// output, so concurrent snapshots and repeated filter changes never observe
// each other.
type AnalyticsService struct {
	cfg     *config.Config
	loader  *dataset.Loader
	logger  *slog.Logger
	metrics *infrastructure.Metrics

	mu sync.RWMutex
	ds *dataset.Dataset
}

// NewAnalyticsService creates the service. metrics may be nil (the pipeline
// binary runs without an exposition endpoint).
func NewAnalyticsService(cfg *config.Config, logger *slog.Logger, metrics *infrastructure.Metrics) *AnalyticsService {
	if logger == nil {
		logger = slog.Default()
	}
	return &AnalyticsService{
		cfg:     cfg,
		loader:  dataset.NewLoader(cfg.Data.Dir, logger),
		logger:  logger.With(slog.String("component", "analytics_service")),
		metrics: metrics,
	}
}

// Reload loads and normalizes the six sources, replacing the current dataset.
func (s *AnalyticsService) Reload(ctx context.Context) error {
	start := time.Now()
	ds, err := s.loader.Load()
	if err != nil {
		if s.metrics != nil {
			s.metrics.PipelineRuns.WithLabelValues("load_error").Inc()
		}
		return err
	}

	summary := ds.Summary()
	for _, sc := range summary.Sources {
		if s.metrics != nil && sc.Dropped > 0 {
			s.metrics.RowsDropped.WithLabelValues(string(sc.Source)).Add(float64(sc.Dropped))
		}
	}

	s.mu.Lock()
	s.ds = ds
	s.mu.Unlock()

	s.logger.InfoContext(ctx, "dataset loaded",
		slog.Duration("duration", time.Since(start)),
		slog.Int("orders", summary.Rows(domain.SourceOrders)),
		slog.Int("order_items", summary.Rows(domain.SourceOrderItems)))
	return nil
}

// Compute runs join and compute for the filter. When the filter names a year,
// the same filter shifted one year back provides the comparison period for
// the trend metrics; without a year constraint every period-over-period
// metric is N/A.
func (s *AnalyticsService) Compute(ctx context.Context, f domain.Filter) (*Snapshot, error) {
	s.mu.RLock()
	ds := s.ds
	s.mu.RUnlock()
	if ds == nil {
		return nil, ErrNotLoaded
	}

	start := time.Now()
	current, stats := ds.Join(f)

	var previous []domain.SalesRecord
	var previousYear *int
	if prevFilter, ok := f.PreviousYear(); ok {
		previous, _ = ds.Join(prevFilter)
		previousYear = prevFilter.Year
	}

	calc := analytics.NewCalculator(s.logger, analytics.Options{
		StarThreshold:     s.cfg.Analytics.StarThreshold,
		LateThresholdDays: s.cfg.Analytics.LateThresholdDays,
		TopN:              s.cfg.Analytics.TopN,
		StateCentroids:    ds.StateCentroids(),
	})
	result := calc.Compute(current, previous)

	if s.metrics != nil {
		s.metrics.PipelineRuns.WithLabelValues("ok").Inc()
		s.metrics.PipelineSeconds.Observe(time.Since(start).Seconds())
		s.metrics.RecordsJoined.Set(float64(stats.Records))
	}
	s.logger.InfoContext(ctx, "snapshot computed",
		slog.Int("records", stats.Records),
		slog.Int("filtered", stats.Filtered),
		slog.Duration("duration", time.Since(start)))

	return &Snapshot{
		Filter:       f,
		Metrics:      result,
		JoinStats:    stats,
		PreviousYear: previousYear,
		GeneratedAt:  time.Now().UTC(),
	}, nil
}

// Summary returns the per-source load diagnostics.
func (s *AnalyticsService) Summary(ctx context.Context) (dataset.LoadSummary, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.ds == nil {
		return dataset.LoadSummary{}, ErrNotLoaded
	}
	return s.ds.Summary(), nil
}

// Filters returns the filter dimensions present in the data, for the filter
// widgets of the dashboard.
func (s *AnalyticsService) Filters(ctx context.Context) ([]int, []domain.OrderStatus, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.ds == nil {
		return nil, nil, ErrNotLoaded
	}
	return s.ds.Years(), s.ds.Statuses(), nil
}
