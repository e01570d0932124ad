package domain

import (
	"time"
)

// Source identifies one of the raw tabular inputs the pipeline consumes.
type Source string

const (
	SourceOrders      Source = "orders"
	SourceOrderItems  Source = "order_items"
	SourceCustomers   Source = "customers"
	SourceProducts    Source = "products"
	SourceReviews     Source = "reviews"
	SourceGeolocation Source = "geolocation"
)

// Sources lists every required input in loading order.
var Sources = []Source{
	SourceOrders,
	SourceOrderItems,
	SourceCustomers,
	SourceProducts,
	SourceReviews,
	SourceGeolocation,
}

// OrderStatus represents the lifecycle state of an order.
type OrderStatus string

const (
	StatusDelivered   OrderStatus = "delivered"
	StatusShipped     OrderStatus = "shipped"
	StatusProcessing  OrderStatus = "processing"
	StatusCanceled    OrderStatus = "canceled"
	StatusUnavailable OrderStatus = "unavailable"
)

// SalesRecord is one order line after joining orders, items, products,
// customers and reviews. Every record resolves to exactly one customer and
// one product; the review is optional and nil when the order was never
// reviewed. DeliveredAt is nil until the carrier confirms delivery.
type SalesRecord struct {
	OrderID       string      `json:"order_id"`
	OrderItemID   int         `json:"order_item_id"`
	CustomerID    string      `json:"customer_id"`
	ProductID     string      `json:"product_id"`
	Category      string      `json:"category"`
	Status        OrderStatus `json:"status"`
	PurchasedAt   time.Time   `json:"purchased_at"`
	DeliveredAt   *time.Time  `json:"delivered_at,omitempty"`
	Price         float64     `json:"price"`
	Freight       float64     `json:"freight"`
	ReviewScore   *int        `json:"review_score,omitempty"`
	CustomerCity  string      `json:"customer_city"`
	CustomerState string      `json:"customer_state"`
}

// DeliveryDays returns the delivery duration in fractional days, or false
// when the order has not been delivered yet.
func (r SalesRecord) DeliveryDays() (float64, bool) {
	if r.DeliveredAt == nil {
		return 0, false
	}
	return r.DeliveredAt.Sub(r.PurchasedAt).Hours() / 24, true
}

// Filter narrows which sales records are aggregated. A nil/empty field means
// no constraint on that dimension.
type Filter struct {
	Year   *int        `json:"year,omitempty"`
	Month  *int        `json:"month,omitempty"`
	Status OrderStatus `json:"status,omitempty"`
}

// Matches reports whether the record passes every set constraint.
func (f Filter) Matches(r SalesRecord) bool {
	if f.Year != nil && r.PurchasedAt.Year() != *f.Year {
		return false
	}
	if f.Month != nil && int(r.PurchasedAt.Month()) != *f.Month {
		return false
	}
	if f.Status != "" && r.Status != f.Status {
		return false
	}
	return true
}

// IsZero reports whether the filter carries no constraint at all.
func (f Filter) IsZero() bool {
	return f.Year == nil && f.Month == nil && f.Status == ""
}

// PreviousYear returns the filter shifted one year back for period-over-period
// comparison, or false when the filter has no year constraint.
func (f Filter) PreviousYear() (Filter, bool) {
	if f.Year == nil {
		return Filter{}, false
	}
	prev := *f.Year - 1
	return Filter{Year: &prev, Month: f.Month, Status: f.Status}, true
}
