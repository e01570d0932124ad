package dataset

import (
	"sort"
	"strings"
	"time"

	"shoppulse/pkg/contracts/domain"
)

// RawTable holds one source file as untyped rows. Columns stay strings until
// Normalize coerces them at the join boundary.
type RawTable struct {
	Source domain.Source
	Header []string
	Rows   [][]string

	index map[string]int
}

// Column returns the index of the named column, or -1 when absent. Header
// names are matched case-insensitively after BOM and whitespace cleanup.
func (t *RawTable) Column(name string) int {
	if t.index == nil {
		t.index = make(map[string]int, len(t.Header))
		for i, col := range t.Header {
			t.index[cleanColumn(col)] = i
		}
	}
	if i, ok := t.index[strings.ToLower(strings.TrimSpace(name))]; ok {
		return i
	}
	return -1
}

// cleanColumn normalizes a header cell. CSV exports from spreadsheet tools
// prepend a UTF-8 BOM and zero-width characters to the first header.
func cleanColumn(col string) string {
	col = strings.TrimSpace(col)
	col = strings.TrimPrefix(col, "\uFEFF")
	col = strings.TrimLeft(col, "\u200B\u200C\u200D\u2060\uFEFF")
	return strings.ToLower(strings.TrimSpace(col))
}

// order is a normalized row of the orders source.
type order struct {
	ID          string
	CustomerID  string
	Status      domain.OrderStatus
	PurchasedAt time.Time
	DeliveredAt *time.Time
}

// orderItem is a normalized row of the order_items source.
type orderItem struct {
	OrderID   string
	ItemID    int
	ProductID string
	Price     float64
	Freight   float64
}

// customer is a normalized row of the customers source.
type customer struct {
	ID        string
	ZipPrefix string
	City      string
	State     string
}

// product is a normalized row of the products source.
type product struct {
	ID       string
	Category string
}

// review is a normalized row of the reviews source.
type review struct {
	ID      string
	OrderID string
	Score   int
}

// geoPoint is a normalized row of the geolocation source.
type geoPoint struct {
	ZipPrefix string
	Lat       float64
	Lon       float64
	City      string
	State     string
}

// SourceCount reports how many rows of a source survived normalization and
// how many were dropped for unparseable required fields.
type SourceCount struct {
	Source  domain.Source `json:"source"`
	Rows    int           `json:"rows"`
	Dropped int           `json:"dropped"`
}

// LoadSummary is the per-source diagnostic summary. It is an explicit return
// value; no pipeline stage depends on it for control flow.
type LoadSummary struct {
	Sources []SourceCount `json:"sources"`
}

// Dropped returns the drop count for one source.
func (s LoadSummary) Dropped(src domain.Source) int {
	for _, c := range s.Sources {
		if c.Source == src {
			return c.Dropped
		}
	}
	return 0
}

// Rows returns the surviving row count for one source.
func (s LoadSummary) Rows(src domain.Source) int {
	for _, c := range s.Sources {
		if c.Source == src {
			return c.Rows
		}
	}
	return 0
}

// JoinStats counts join gaps. Records missing their product or customer are
// dropped; orders without a review are kept with a nil score.
type JoinStats struct {
	Records         int `json:"records"`
	MissingOrder    int `json:"missing_order"`
	MissingProduct  int `json:"missing_product"`
	MissingCustomer int `json:"missing_customer"`
	WithoutReview   int `json:"without_review"`
	Filtered        int `json:"filtered"`
}

// Dataset is the normalized, immutable form of the six sources. Join reads
// from it without mutating it, so repeated joins with different filters are
// independent.
type Dataset struct {
	orders    map[string]order
	items     []orderItem
	customers map[string]customer
	products  map[string]product
	reviews   map[string]int
	geo       []geoPoint

	summary LoadSummary
}

// Summary returns the per-source load diagnostics.
func (d *Dataset) Summary() LoadSummary {
	return d.summary
}

// StateCentroids averages the geolocation points per state. The presentation
// layer uses the centroids to place map markers.
func (d *Dataset) StateCentroids() map[string][2]float64 {
	sums := make(map[string][3]float64)
	for _, g := range d.geo {
		s := sums[g.State]
		sums[g.State] = [3]float64{s[0] + g.Lat, s[1] + g.Lon, s[2] + 1}
	}
	out := make(map[string][2]float64, len(sums))
	for state, s := range sums {
		out[state] = [2]float64{s[0] / s[2], s[1] / s[2]}
	}
	return out
}

// Years returns the distinct purchase years present, ascending.
func (d *Dataset) Years() []int {
	seen := make(map[int]bool)
	for _, o := range d.orders {
		seen[o.PurchasedAt.Year()] = true
	}
	years := make([]int, 0, len(seen))
	for y := range seen {
		years = append(years, y)
	}
	sort.Ints(years)
	return years
}

// Statuses returns the distinct order statuses present, sorted.
func (d *Dataset) Statuses() []domain.OrderStatus {
	seen := make(map[domain.OrderStatus]bool)
	for _, o := range d.orders {
		seen[o.Status] = true
	}
	statuses := make([]domain.OrderStatus, 0, len(seen))
	for s := range seen {
		statuses = append(statuses, s)
	}
	sort.Slice(statuses, func(i, j int) bool { return statuses[i] < statuses[j] })
	return statuses
}
