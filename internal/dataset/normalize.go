package dataset

import (
	"log/slog"
	"strconv"
	"strings"
	"time"

	"shoppulse/pkg/contracts/domain"
)

// timestampLayouts are tried in order when parsing date/time columns.
var timestampLayouts = []string{
	"2006-01-02 15:04:05",
	"2006-01-02T15:04:05",
	"2006-01-02",
}

// Normalize coerces every raw table into its typed form. Rows whose required
// fields fail coercion are dropped and counted per source; a source whose
// required column is missing entirely fails with a *ParseError.
func (l *Loader) Normalize(raw map[domain.Source]*RawTable) (*Dataset, error) {
	ds := &Dataset{
		orders:    make(map[string]order),
		customers: make(map[string]customer),
		products:  make(map[string]product),
		reviews:   make(map[string]int),
	}

	steps := []struct {
		source domain.Source
		run    func(*RawTable) (int, int, error)
	}{
		{domain.SourceOrders, ds.normalizeOrders},
		{domain.SourceOrderItems, ds.normalizeOrderItems},
		{domain.SourceCustomers, ds.normalizeCustomers},
		{domain.SourceProducts, ds.normalizeProducts},
		{domain.SourceReviews, ds.normalizeReviews},
		{domain.SourceGeolocation, ds.normalizeGeolocation},
	}

	for _, step := range steps {
		table, ok := raw[step.source]
		if !ok {
			return nil, &MissingSourceError{Source: step.source}
		}
		rows, dropped, err := step.run(table)
		if err != nil {
			return nil, err
		}
		if dropped > 0 {
			l.logger.Warn("dropped unparseable rows",
				slog.String("source", string(step.source)),
				slog.Int("dropped", dropped),
				slog.Int("kept", rows))
		}
		ds.summary.Sources = append(ds.summary.Sources, SourceCount{
			Source:  step.source,
			Rows:    rows,
			Dropped: dropped,
		})
	}

	return ds, nil
}

// requireColumns resolves the named columns or fails with a *ParseError.
func requireColumns(t *RawTable, names ...string) ([]int, error) {
	indices := make([]int, len(names))
	for i, name := range names {
		idx := t.Column(name)
		if idx == -1 {
			return nil, &ParseError{Source: t.Source, Column: name, Reason: "required column not found"}
		}
		indices[i] = idx
	}
	return indices, nil
}

func (d *Dataset) normalizeOrders(t *RawTable) (int, int, error) {
	cols, err := requireColumns(t,
		"order_id", "customer_id", "order_status", "order_purchase_timestamp")
	if err != nil {
		return 0, 0, err
	}
	idxID, idxCustomer, idxStatus, idxPurchase := cols[0], cols[1], cols[2], cols[3]
	idxDelivered := t.Column("order_delivered_customer_date")

	dropped := 0
	for _, row := range t.Rows {
		id := field(row, idxID)
		customerID := field(row, idxCustomer)
		status := strings.ToLower(field(row, idxStatus))
		purchasedAt, ok := parseTimestamp(field(row, idxPurchase))
		if id == "" || customerID == "" || status == "" || !ok {
			dropped++
			continue
		}

		o := order{
			ID:          id,
			CustomerID:  customerID,
			Status:      domain.OrderStatus(status),
			PurchasedAt: purchasedAt,
		}
		// Delivery date is optional: empty until the order arrives.
		if idxDelivered != -1 {
			if delivered, ok := parseTimestamp(field(row, idxDelivered)); ok {
				o.DeliveredAt = &delivered
			}
		}
		d.orders[id] = o
	}
	return len(d.orders), dropped, nil
}

func (d *Dataset) normalizeOrderItems(t *RawTable) (int, int, error) {
	cols, err := requireColumns(t, "order_id", "order_item_id", "product_id", "price")
	if err != nil {
		return 0, 0, err
	}
	idxOrder, idxItem, idxProduct, idxPrice := cols[0], cols[1], cols[2], cols[3]
	idxFreight := t.Column("freight_value")

	dropped := 0
	for _, row := range t.Rows {
		orderID := field(row, idxOrder)
		productID := field(row, idxProduct)
		itemID, itemErr := strconv.Atoi(field(row, idxItem))
		price, priceErr := strconv.ParseFloat(field(row, idxPrice), 64)
		if orderID == "" || productID == "" || itemErr != nil || priceErr != nil {
			dropped++
			continue
		}

		item := orderItem{
			OrderID:   orderID,
			ItemID:    itemID,
			ProductID: productID,
			Price:     price,
		}
		if idxFreight != -1 {
			// Freight is not required: an unparseable value stays zero.
			item.Freight, _ = strconv.ParseFloat(field(row, idxFreight), 64)
		}
		d.items = append(d.items, item)
	}
	return len(d.items), dropped, nil
}

func (d *Dataset) normalizeCustomers(t *RawTable) (int, int, error) {
	cols, err := requireColumns(t, "customer_id", "customer_city", "customer_state")
	if err != nil {
		return 0, 0, err
	}
	idxID, idxCity, idxState := cols[0], cols[1], cols[2]
	idxZip := t.Column("customer_zip_code_prefix")

	dropped := 0
	for _, row := range t.Rows {
		id := field(row, idxID)
		if id == "" {
			dropped++
			continue
		}
		c := customer{
			ID:    id,
			City:  field(row, idxCity),
			State: field(row, idxState),
		}
		if idxZip != -1 {
			c.ZipPrefix = field(row, idxZip)
		}
		d.customers[id] = c
	}
	return len(d.customers), dropped, nil
}

func (d *Dataset) normalizeProducts(t *RawTable) (int, int, error) {
	cols, err := requireColumns(t, "product_id")
	if err != nil {
		return 0, 0, err
	}
	idxID := cols[0]
	idxCategory := t.Column("product_category_name")

	dropped := 0
	for _, row := range t.Rows {
		id := field(row, idxID)
		if id == "" {
			dropped++
			continue
		}
		p := product{ID: id}
		if idxCategory != -1 {
			p.Category = field(row, idxCategory)
		}
		d.products[id] = p
	}
	return len(d.products), dropped, nil
}

func (d *Dataset) normalizeReviews(t *RawTable) (int, int, error) {
	cols, err := requireColumns(t, "order_id", "review_score")
	if err != nil {
		return 0, 0, err
	}
	idxOrder, idxScore := cols[0], cols[1]

	dropped := 0
	for _, row := range t.Rows {
		orderID := field(row, idxOrder)
		score, scoreErr := strconv.Atoi(field(row, idxScore))
		if orderID == "" || scoreErr != nil || score < 1 || score > 5 {
			dropped++
			continue
		}
		// Zero-or-one review per order: the last row read wins when a source
		// carries duplicates.
		d.reviews[orderID] = score
	}
	return len(d.reviews), dropped, nil
}

func (d *Dataset) normalizeGeolocation(t *RawTable) (int, int, error) {
	cols, err := requireColumns(t,
		"geolocation_lat", "geolocation_lng", "geolocation_state")
	if err != nil {
		return 0, 0, err
	}
	idxLat, idxLon, idxState := cols[0], cols[1], cols[2]
	idxZip := t.Column("geolocation_zip_code_prefix")
	idxCity := t.Column("geolocation_city")

	dropped := 0
	for _, row := range t.Rows {
		lat, latErr := strconv.ParseFloat(field(row, idxLat), 64)
		lon, lonErr := strconv.ParseFloat(field(row, idxLon), 64)
		state := field(row, idxState)
		if latErr != nil || lonErr != nil || state == "" {
			dropped++
			continue
		}
		g := geoPoint{Lat: lat, Lon: lon, State: state}
		if idxZip != -1 {
			g.ZipPrefix = field(row, idxZip)
		}
		if idxCity != -1 {
			g.City = field(row, idxCity)
		}
		d.geo = append(d.geo, g)
	}
	return len(d.geo), dropped, nil
}

// field returns a trimmed cell value, tolerating short rows.
func field(row []string, idx int) string {
	if idx < 0 || idx >= len(row) {
		return ""
	}
	return strings.TrimSpace(row[idx])
}

// parseTimestamp tries the known layouts.
func parseTimestamp(s string) (time.Time, bool) {
	if s == "" {
		return time.Time{}, false
	}
	for _, layout := range timestampLayouts {
		if ts, err := time.Parse(layout, s); err == nil {
			return ts, true
		}
	}
	return time.Time{}, false
}
