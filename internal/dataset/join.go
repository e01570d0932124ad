package dataset

import (
	"sort"

	"shoppulse/pkg/contracts/domain"
)

// Join produces one SalesRecord per order line, left-joining order items to
// orders, products, customers and reviews, then applying the filter.
//
// Join policy: the order, product and customer keys are required, so a line
// whose key cannot be resolved is dropped and counted. The review join is
// optional and null-filled. Records are returned in ascending purchase-time
// order; ties break on (order id, item id) so the ordering is stable.
//
// Join never mutates the dataset: each call builds its own slice, so repeated
// calls with different filters are independent.
func (d *Dataset) Join(f domain.Filter) ([]domain.SalesRecord, JoinStats) {
	var stats JoinStats
	records := make([]domain.SalesRecord, 0, len(d.items))

	for _, item := range d.items {
		o, ok := d.orders[item.OrderID]
		if !ok {
			stats.MissingOrder++
			continue
		}
		p, ok := d.products[item.ProductID]
		if !ok {
			stats.MissingProduct++
			continue
		}
		c, ok := d.customers[o.CustomerID]
		if !ok {
			stats.MissingCustomer++
			continue
		}

		rec := domain.SalesRecord{
			OrderID:       item.OrderID,
			OrderItemID:   item.ItemID,
			CustomerID:    o.CustomerID,
			ProductID:     item.ProductID,
			Category:      p.Category,
			Status:        o.Status,
			PurchasedAt:   o.PurchasedAt,
			Price:         item.Price,
			Freight:       item.Freight,
			CustomerCity:  c.City,
			CustomerState: c.State,
		}
		if o.DeliveredAt != nil {
			delivered := *o.DeliveredAt
			rec.DeliveredAt = &delivered
		}
		if score, ok := d.reviews[item.OrderID]; ok {
			s := score
			rec.ReviewScore = &s
		} else {
			stats.WithoutReview++
		}

		if !f.Matches(rec) {
			stats.Filtered++
			continue
		}
		records = append(records, rec)
	}

	sort.SliceStable(records, func(i, j int) bool {
		if !records[i].PurchasedAt.Equal(records[j].PurchasedAt) {
			return records[i].PurchasedAt.Before(records[j].PurchasedAt)
		}
		if records[i].OrderID != records[j].OrderID {
			return records[i].OrderID < records[j].OrderID
		}
		return records[i].OrderItemID < records[j].OrderItemID
	})

	stats.Records = len(records)
	return records, stats
}
