// Command pipeline runs the analytics pipeline once: load the six CSV
// sources, join them under the given filter, compute the metrics and write a
// report.
package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"strings"

	"shoppulse/internal/config"
	"shoppulse/internal/exporter"
	"shoppulse/internal/infrastructure"
	"shoppulse/internal/services"
	"shoppulse/pkg/contracts/domain"
)

func main() {
	configPath := flag.String("config", "shoppulse.yaml", "path to config file")
	dataDir := flag.String("data", "", "data directory override")
	outDir := flag.String("out", "", "report directory override")
	year := flag.Int("year", 0, "filter: purchase year (0 = all)")
	month := flag.Int("month", 0, "filter: purchase month 1-12 (0 = all)")
	status := flag.String("status", "", "filter: order status (empty = all)")
	format := flag.String("format", "csv", "report format: csv, json, xlsx or all")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}
	if *dataDir != "" {
		cfg.Data.Dir = *dataDir
	}
	if *outDir != "" {
		cfg.Data.ReportsDir = *outDir
	}

	logger := infrastructure.MustLogger(cfg.Logging)

	filter := domain.Filter{Status: domain.OrderStatus(*status)}
	if *year != 0 {
		filter.Year = year
	}
	if *month != 0 {
		filter.Month = month
	}

	if err := run(context.Background(), cfg, logger, filter, *format); err != nil {
		logger.Error("pipeline failed", slog.String("error", err.Error()))
		os.Exit(1)
	}
}

func run(ctx context.Context, cfg *config.Config, logger *slog.Logger, filter domain.Filter, format string) error {
	service := services.NewAnalyticsService(cfg, logger, nil)
	if err := service.Reload(ctx); err != nil {
		return err
	}

	summary, err := service.Summary(ctx)
	if err != nil {
		return err
	}
	for _, sc := range summary.Sources {
		fmt.Printf("%-14s %7d rows", sc.Source, sc.Rows)
		if sc.Dropped > 0 {
			fmt.Printf("  (%d dropped)", sc.Dropped)
		}
		fmt.Println()
	}

	snapshot, err := service.Compute(ctx, filter)
	if err != nil {
		return err
	}

	writer := exporter.NewReportWriter(cfg.Data.ReportsDir, logger)
	runID := exporter.NewRunID()

	formats := strings.Split(strings.ToLower(format), ",")
	if format == "all" {
		formats = []string{"csv", "json", "xlsx"}
	}
	for _, f := range formats {
		switch strings.TrimSpace(f) {
		case "csv":
			err = writer.WriteCSVReport(runID, snapshot)
		case "json":
			err = writer.WriteJSONReport(runID, snapshot)
		case "xlsx":
			err = writer.WriteExcelReport(runID, snapshot)
		default:
			err = fmt.Errorf("unknown report format: %q", f)
		}
		if err != nil {
			return err
		}
	}

	fmt.Printf("report %s written to %s (%d records joined)\n",
		runID, cfg.Data.ReportsDir, snapshot.JoinStats.Records)
	return nil
}
