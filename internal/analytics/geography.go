package analytics

import (
	"sort"

	"shoppulse/pkg/contracts/domain"
)

// regionRevenue aggregates revenue and distinct-order counts by the key
// function, ranked descending by revenue with label tie-break.
func regionRevenue(records []domain.SalesRecord, key func(domain.SalesRecord) string) []domain.TableRow {
	type agg struct {
		revenue float64
		orders  map[string]bool
	}
	byRegion := make(map[string]*agg)
	for _, r := range records {
		label := key(r)
		if label == "" {
			continue
		}
		a, ok := byRegion[label]
		if !ok {
			a = &agg{orders: make(map[string]bool)}
			byRegion[label] = a
		}
		a.revenue += r.Price
		a.orders[r.OrderID] = true
	}

	rows := make([]domain.TableRow, 0, len(byRegion))
	for label, a := range byRegion {
		rows = append(rows, domain.TableRow{
			Label:   label,
			Orders:  int64(len(a.orders)),
			Revenue: a.revenue,
		})
	}
	sort.Slice(rows, func(i, j int) bool {
		if rows[i].Revenue != rows[j].Revenue {
			return rows[i].Revenue > rows[j].Revenue
		}
		return rows[i].Label < rows[j].Label
	})
	return rows
}

// StateRevenue aggregates per customer state.
func StateRevenue(records []domain.SalesRecord) []domain.TableRow {
	return regionRevenue(records, func(r domain.SalesRecord) string { return r.CustomerState })
}

// CityRevenue aggregates per customer city.
func CityRevenue(records []domain.SalesRecord) []domain.TableRow {
	return regionRevenue(records, func(r domain.SalesRecord) string { return r.CustomerCity })
}

func (c *Calculator) geographyMetrics(result domain.MetricsResult, records []domain.SalesRecord) {
	states := StateRevenue(records)
	// Centroid enrichment gives the presentation layer map coordinates; the
	// metric itself is the revenue/order aggregate.
	if c.opts.StateCentroids != nil {
		for i := range states {
			if centroid, ok := c.opts.StateCentroids[states[i].Label]; ok {
				lat, lon := centroid[0], centroid[1]
				states[i].Lat = &lat
				states[i].Lon = &lon
			}
		}
	}

	result[domain.MetricStateRevenue] = domain.Table(states)
	result[domain.MetricCityRevenue] = domain.Table(CityRevenue(records))
}
