package exporter

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sort"

	"github.com/xuri/excelize/v2"

	"shoppulse/internal/services"
	"shoppulse/pkg/contracts/domain"
)

// excelSheets maps table/series metrics to workbook sheet names.
var excelSheets = map[string]string{
	domain.MetricCategoryRevenue: "Categories",
	domain.MetricStateRevenue:    "States",
	domain.MetricCityRevenue:     "Cities",
	domain.MetricMonthlyRevenue:  "Monthly Revenue",
}

// WriteExcelReport writes the snapshot as an xlsx workbook: an Overview sheet
// with the scalar metrics and one sheet per breakdown.
func (w *ReportWriter) WriteExcelReport(runID string, snapshot *services.Snapshot) error {
	if err := os.MkdirAll(w.dir, 0o755); err != nil {
		return fmt.Errorf("failed to create report directory: %w", err)
	}

	f := excelize.NewFile()
	defer f.Close()

	const overview = "Overview"
	if err := f.SetSheetName("Sheet1", overview); err != nil {
		return fmt.Errorf("failed to rename sheet: %w", err)
	}

	scalarNames := make([]string, 0, len(snapshot.Metrics))
	for name, value := range snapshot.Metrics {
		if value.Kind == domain.KindScalar || value.Kind == domain.KindNA {
			scalarNames = append(scalarNames, name)
		}
	}
	sort.Strings(scalarNames)

	f.SetCellValue(overview, "A1", "metric")
	f.SetCellValue(overview, "B1", "value")
	for i, name := range scalarNames {
		row := i + 2
		f.SetCellValue(overview, fmt.Sprintf("A%d", row), name)
		value := snapshot.Metrics[name]
		if value.Kind == domain.KindNA {
			f.SetCellValue(overview, fmt.Sprintf("B%d", row), naSentinel)
		} else {
			f.SetCellValue(overview, fmt.Sprintf("B%d", row), value.Scalar)
		}
	}

	for name, sheet := range excelSheets {
		value, ok := snapshot.Metrics[name]
		if !ok {
			continue
		}
		if _, err := f.NewSheet(sheet); err != nil {
			return fmt.Errorf("failed to create sheet %s: %w", sheet, err)
		}
		switch value.Kind {
		case domain.KindTable:
			f.SetCellValue(sheet, "A1", "label")
			f.SetCellValue(sheet, "B1", "orders")
			f.SetCellValue(sheet, "C1", "revenue")
			for i, row := range value.Table {
				r := i + 2
				f.SetCellValue(sheet, fmt.Sprintf("A%d", r), row.Label)
				f.SetCellValue(sheet, fmt.Sprintf("B%d", r), row.Orders)
				f.SetCellValue(sheet, fmt.Sprintf("C%d", r), row.Revenue)
			}
		case domain.KindSeries:
			f.SetCellValue(sheet, "A1", "period")
			f.SetCellValue(sheet, "B1", "value")
			for i, point := range value.Series {
				r := i + 2
				f.SetCellValue(sheet, fmt.Sprintf("A%d", r), point.Period)
				f.SetCellValue(sheet, fmt.Sprintf("B%d", r), point.Value)
			}
		}
	}

	path := filepath.Join(w.dir, fmt.Sprintf("metrics_%s.xlsx", runID))
	if err := f.SaveAs(path); err != nil {
		return fmt.Errorf("failed to save workbook: %w", err)
	}

	w.logger.Info("wrote Excel report", slog.String("path", path))
	return nil
}
