package infrastructure

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics holds the Prometheus collectors for the service.
type Metrics struct {
	registry *prometheus.Registry

	PipelineRuns    *prometheus.CounterVec
	PipelineSeconds prometheus.Histogram
	RecordsJoined   prometheus.Gauge
	RowsDropped     *prometheus.CounterVec
	HTTPRequests    *prometheus.CounterVec
	HTTPSeconds     *prometheus.HistogramVec
}

// NewMetrics creates a registry with all service collectors registered.
func NewMetrics() *Metrics {
	registry := prometheus.NewRegistry()
	factory := promauto.With(registry)

	return &Metrics{
		registry: registry,
		PipelineRuns: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "shoppulse_pipeline_runs_total",
			Help: "Pipeline executions by outcome.",
		}, []string{"status"}),
		PipelineSeconds: factory.NewHistogram(prometheus.HistogramOpts{
			Name:    "shoppulse_pipeline_duration_seconds",
			Help:    "Duration of a full join-and-compute run.",
			Buckets: prometheus.DefBuckets,
		}),
		RecordsJoined: factory.NewGauge(prometheus.GaugeOpts{
			Name: "shoppulse_records_joined",
			Help: "Sales records produced by the most recent join.",
		}),
		RowsDropped: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "shoppulse_rows_dropped_total",
			Help: "Raw rows dropped during normalization, by source.",
		}, []string{"source"}),
		HTTPRequests: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "shoppulse_http_requests_total",
			Help: "HTTP requests by path and status code.",
		}, []string{"path", "code"}),
		HTTPSeconds: factory.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "shoppulse_http_request_duration_seconds",
			Help:    "HTTP request latency by path.",
			Buckets: prometheus.DefBuckets,
		}, []string{"path"}),
	}
}

// Handler serves the registry in Prometheus exposition format.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}

// Instrument is a chi-compatible middleware recording request counts and
// latency per route pattern.
func (m *Metrics) Instrument(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		recorder := &statusRecorder{ResponseWriter: w, code: http.StatusOK}
		next.ServeHTTP(recorder, r)

		m.HTTPRequests.WithLabelValues(r.URL.Path, strconv.Itoa(recorder.code)).Inc()
		m.HTTPSeconds.WithLabelValues(r.URL.Path).Observe(time.Since(start).Seconds())
	})
}

type statusRecorder struct {
	http.ResponseWriter
	code int
}

func (r *statusRecorder) WriteHeader(code int) {
	r.code = code
	r.ResponseWriter.WriteHeader(code)
}
