package dataset

import (
	"encoding/csv"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"shoppulse/pkg/contracts/domain"
)

// sourceFiles maps each source to its expected file name in the data
// directory.
var sourceFiles = map[domain.Source]string{
	domain.SourceOrders:      "orders.csv",
	domain.SourceOrderItems:  "order_items.csv",
	domain.SourceCustomers:   "customers.csv",
	domain.SourceProducts:    "products.csv",
	domain.SourceReviews:     "order_reviews.csv",
	domain.SourceGeolocation: "geolocation.csv",
}

// Loader reads the six raw CSV sources and turns them into a normalized
// Dataset. It owns the raw-to-joined transformation; downstream stages never
// touch the files.
type Loader struct {
	dir    string
	logger *slog.Logger
}

// NewLoader creates a loader reading from dir.
func NewLoader(dir string, logger *slog.Logger) *Loader {
	if logger == nil {
		logger = slog.Default()
	}
	return &Loader{
		dir:    dir,
		logger: logger.With(slog.String("component", "dataset_loader")),
	}
}

// Load reads and normalizes all sources. It is the common entry point for
// both binaries; LoadRaw and Normalize stay exported for callers that need
// the intermediate form.
func (l *Loader) Load() (*Dataset, error) {
	raw, err := l.LoadRaw()
	if err != nil {
		return nil, err
	}
	return l.Normalize(raw)
}

// LoadRaw reads every source file into an untyped RawTable. A missing file
// yields a *MissingSourceError; a file without a header row yields a
// *ParseError.
func (l *Loader) LoadRaw() (map[domain.Source]*RawTable, error) {
	tables := make(map[domain.Source]*RawTable, len(sourceFiles))
	for _, src := range domain.Sources {
		path := filepath.Join(l.dir, sourceFiles[src])
		table, err := l.readCSV(src, path)
		if err != nil {
			return nil, err
		}
		l.logger.Info("loaded source",
			slog.String("source", string(src)),
			slog.String("path", path),
			slog.Int("rows", len(table.Rows)))
		tables[src] = table
	}
	return tables, nil
}

// readCSV reads one CSV file into a RawTable, stripping a UTF-8 BOM if
// present so header matching works on Excel exports.
func (l *Loader) readCSV(src domain.Source, path string) (*RawTable, error) {
	content, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, &MissingSourceError{Source: src, Path: path}
		}
		return nil, fmt.Errorf("failed to read %s: %w", path, err)
	}

	if len(content) >= 3 && content[0] == 0xEF && content[1] == 0xBB && content[2] == 0xBF {
		content = content[3:]
	}

	reader := csv.NewReader(strings.NewReader(string(content)))
	reader.FieldsPerRecord = -1
	records, err := reader.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("failed to parse %s: %w", path, err)
	}
	if len(records) == 0 {
		return nil, &ParseError{Source: src, Column: "", Reason: "file has no header row"}
	}

	return &RawTable{
		Source: src,
		Header: records[0],
		Rows:   records[1:],
	}, nil
}
