package exporter

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"time"

	"github.com/google/uuid"

	"shoppulse/internal/services"
	"shoppulse/pkg/contracts/domain"
)

// naSentinel is the textual rendering of an undefined metric in reports.
const naSentinel = "N/A"

// ReportWriter renders snapshots to report files under a base directory.
type ReportWriter struct {
	dir    string
	csv    *CSVWriter
	logger *slog.Logger
}

// NewReportWriter creates a report writer rooted at dir.
func NewReportWriter(dir string, logger *slog.Logger) *ReportWriter {
	if logger == nil {
		logger = slog.Default()
	}
	return &ReportWriter{
		dir:    dir,
		csv:    NewCSVWriter(dir, logger),
		logger: logger.With(slog.String("component", "report_writer")),
	}
}

// NewRunID returns the identifier stamped on a report run.
func NewRunID() string {
	return uuid.New().String()
}

// WriteCSVReport writes one CSV file per metric shape: a scalars file plus
// one file per table/series metric.
func (w *ReportWriter) WriteCSVReport(runID string, snapshot *services.Snapshot) error {
	prefix := fmt.Sprintf("metrics_%s", runID)

	scalarNames := make([]string, 0, len(snapshot.Metrics))
	for name, value := range snapshot.Metrics {
		if value.Kind == domain.KindScalar || value.Kind == domain.KindNA {
			scalarNames = append(scalarNames, name)
		}
	}
	sort.Strings(scalarNames)

	scalarRows := make([][]string, 0, len(scalarNames))
	for _, name := range scalarNames {
		scalarRows = append(scalarRows, []string{name, formatScalar(snapshot.Metrics[name])})
	}
	if err := w.csv.WriteCSV(prefix+"_scalars.csv", WriteOptions{
		Headers:   []string{"metric", "value"},
		Records:   scalarRows,
		BOMPrefix: true,
	}); err != nil {
		return err
	}

	for name, value := range snapshot.Metrics {
		switch value.Kind {
		case domain.KindTable:
			rows := make([][]string, 0, len(value.Table))
			for _, row := range value.Table {
				rows = append(rows, []string{
					row.Label,
					strconv.FormatInt(row.Orders, 10),
					strconv.FormatFloat(row.Revenue, 'f', 2, 64),
				})
			}
			if err := w.csv.WriteCSV(fmt.Sprintf("%s_%s.csv", prefix, name), WriteOptions{
				Headers:   []string{"label", "orders", "revenue"},
				Records:   rows,
				BOMPrefix: true,
			}); err != nil {
				return err
			}
		case domain.KindSeries:
			rows := make([][]string, 0, len(value.Series))
			for _, point := range value.Series {
				rows = append(rows, []string{point.Period, strconv.FormatFloat(point.Value, 'f', 2, 64)})
			}
			if err := w.csv.WriteCSV(fmt.Sprintf("%s_%s.csv", prefix, name), WriteOptions{
				Headers:   []string{"period", "value"},
				Records:   rows,
				BOMPrefix: true,
			}); err != nil {
				return err
			}
		}
	}
	return nil
}

// jsonReport is the envelope written by WriteJSONReport.
type jsonReport struct {
	RunID       string             `json:"run_id"`
	GeneratedAt time.Time          `json:"generated_at"`
	Snapshot    *services.Snapshot `json:"snapshot"`
}

// WriteJSONReport writes the full snapshot as an indented JSON document.
func (w *ReportWriter) WriteJSONReport(runID string, snapshot *services.Snapshot) error {
	if err := os.MkdirAll(w.dir, 0o755); err != nil {
		return fmt.Errorf("failed to create report directory: %w", err)
	}

	path := filepath.Join(w.dir, fmt.Sprintf("metrics_%s.json", runID))
	file, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create JSON report: %w", err)
	}
	defer file.Close()

	encoder := json.NewEncoder(file)
	encoder.SetIndent("", "  ")
	if err := encoder.Encode(jsonReport{
		RunID:       runID,
		GeneratedAt: time.Now().UTC(),
		Snapshot:    snapshot,
	}); err != nil {
		return fmt.Errorf("failed to encode JSON report: %w", err)
	}

	w.logger.Info("wrote JSON report", slog.String("path", path))
	return nil
}

// formatScalar renders a scalar value or the N/A sentinel.
func formatScalar(v domain.Value) string {
	if v.Kind == domain.KindNA {
		return naSentinel
	}
	return strconv.FormatFloat(v.Scalar, 'f', 2, 64)
}
