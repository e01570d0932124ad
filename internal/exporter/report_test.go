package exporter

import (
	"encoding/csv"
	"encoding/json"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"shoppulse/internal/services"
	"shoppulse/pkg/contracts/domain"
)

func testSnapshot() *services.Snapshot {
	return &services.Snapshot{
		Filter: domain.Filter{Status: domain.StatusDelivered},
		Metrics: domain.MetricsResult{
			domain.MetricRevenueTotal:     domain.Scalar(430),
			domain.MetricRevenueGrowthPct: domain.NA(),
			domain.MetricCategoryRevenue: domain.Table([]domain.TableRow{
				{Label: "electronics", Orders: 2, Revenue: 300},
				{Label: "books", Orders: 1, Revenue: 130},
			}),
			domain.MetricMonthlyRevenue: domain.Series([]domain.SeriesPoint{
				{Period: "2023-01", Value: 150},
				{Period: "2023-02", Value: 280},
			}),
		},
		GeneratedAt: time.Date(2023, 6, 1, 12, 0, 0, 0, time.UTC),
	}
}

func testWriter(t *testing.T) (*ReportWriter, string) {
	t.Helper()
	dir := t.TempDir()
	logger := slog.New(slog.NewJSONHandler(io.Discard, nil))
	return NewReportWriter(dir, logger), dir
}

func readCSVFile(t *testing.T, path string) [][]string {
	t.Helper()
	data, err := os.ReadFile(path)
	require.NoError(t, err)

	// Reports carry a UTF-8 BOM for Excel.
	require.True(t, strings.HasPrefix(string(data), "\xEF\xBB\xBF"), "missing BOM in %s", path)

	rows, err := csv.NewReader(strings.NewReader(strings.TrimPrefix(string(data), "\xEF\xBB\xBF"))).ReadAll()
	require.NoError(t, err)
	return rows
}

func TestWriteCSVReport(t *testing.T) {
	w, dir := testWriter(t)
	require.NoError(t, w.WriteCSVReport("run1", testSnapshot()))

	scalars := readCSVFile(t, filepath.Join(dir, "metrics_run1_scalars.csv"))
	require.GreaterOrEqual(t, len(scalars), 3)
	assert.Equal(t, []string{"metric", "value"}, scalars[0])

	byName := make(map[string]string)
	for _, row := range scalars[1:] {
		require.Len(t, row, 2)
		byName[row[0]] = row[1]
	}
	assert.Equal(t, "430.00", byName[domain.MetricRevenueTotal])
	// Undefined metrics are rendered as the sentinel, never as a number.
	assert.Equal(t, "N/A", byName[domain.MetricRevenueGrowthPct])

	categories := readCSVFile(t, filepath.Join(dir, "metrics_run1_"+domain.MetricCategoryRevenue+".csv"))
	require.Len(t, categories, 3)
	assert.Equal(t, []string{"label", "orders", "revenue"}, categories[0])
	assert.Equal(t, []string{"electronics", "2", "300.00"}, categories[1])

	monthly := readCSVFile(t, filepath.Join(dir, "metrics_run1_"+domain.MetricMonthlyRevenue+".csv"))
	require.Len(t, monthly, 3)
	assert.Equal(t, []string{"2023-01", "150.00"}, monthly[1])
}

func TestWriteJSONReport(t *testing.T) {
	w, dir := testWriter(t)
	require.NoError(t, w.WriteJSONReport("run2", testSnapshot()))

	data, err := os.ReadFile(filepath.Join(dir, "metrics_run2.json"))
	require.NoError(t, err)

	var report struct {
		RunID    string `json:"run_id"`
		Snapshot struct {
			Metrics map[string]json.RawMessage `json:"metrics"`
		} `json:"snapshot"`
	}
	require.NoError(t, json.Unmarshal(data, &report))
	assert.Equal(t, "run2", report.RunID)
	assert.Contains(t, report.Snapshot.Metrics, domain.MetricRevenueTotal)
}

func TestWriteExcelReport(t *testing.T) {
	w, dir := testWriter(t)
	require.NoError(t, w.WriteExcelReport("run3", testSnapshot()))

	f, err := excelize.OpenFile(filepath.Join(dir, "metrics_run3.xlsx"))
	require.NoError(t, err)
	defer f.Close()

	sheets := f.GetSheetList()
	assert.Contains(t, sheets, "Overview")
	assert.Contains(t, sheets, "Categories")
	assert.Contains(t, sheets, "Monthly Revenue")
	// No state/city tables in the snapshot, so no sheet for them.
	assert.NotContains(t, sheets, "States")

	label, err := f.GetCellValue("Categories", "A2")
	require.NoError(t, err)
	assert.Equal(t, "electronics", label)

	growth, err := f.GetCellValue("Overview", "B1")
	require.NoError(t, err)
	assert.Equal(t, "value", growth)
}

func TestNewRunIDUnique(t *testing.T) {
	assert.NotEqual(t, NewRunID(), NewRunID())
	assert.NotEmpty(t, NewRunID())
}

func TestWriteCSVPlain(t *testing.T) {
	dir := t.TempDir()
	w := NewCSVWriter(dir, nil)

	err := w.WriteCSV("out.csv", WriteOptions{
		Headers: []string{"a", "b"},
		Records: [][]string{{"1", "2"}},
	})
	require.NoError(t, err)

	data, err := os.ReadFile(filepath.Join(dir, "out.csv"))
	require.NoError(t, err)
	// No BOM unless requested.
	assert.Equal(t, "a,b\n1,2\n", string(data))
}
