package analytics

import (
	"shoppulse/pkg/contracts/domain"
)

// ReviewStats returns the mean review score and the share of reviews at or
// above the star threshold, in percent. False when no record carries a
// review.
func ReviewStats(records []domain.SalesRecord, starThreshold int) (mean, highShare float64, ok bool) {
	var sum float64
	var reviewed, high int
	for _, r := range records {
		if r.ReviewScore == nil {
			continue
		}
		reviewed++
		sum += float64(*r.ReviewScore)
		if *r.ReviewScore >= starThreshold {
			high++
		}
	}
	if reviewed == 0 {
		return 0, 0, false
	}
	return sum / float64(reviewed), float64(high) / float64(reviewed) * 100, true
}

// DeliveryStats returns the mean delivery duration in days and the share of
// delivered orders exceeding the threshold, in percent. False when no record
// has been delivered.
func DeliveryStats(records []domain.SalesRecord, lateThresholdDays float64) (meanDays, lateShare float64, ok bool) {
	var sum float64
	var delivered, late int
	for _, r := range records {
		days, hasDelivery := r.DeliveryDays()
		if !hasDelivery {
			continue
		}
		delivered++
		sum += days
		if days > lateThresholdDays {
			late++
		}
	}
	if delivered == 0 {
		return 0, 0, false
	}
	return sum / float64(delivered), float64(late) / float64(delivered) * 100, true
}

func (c *Calculator) satisfactionMetrics(result domain.MetricsResult, records []domain.SalesRecord) {
	mean, highShare, ok := ReviewStats(records, c.opts.StarThreshold)
	if !ok {
		result[domain.MetricReviewAvg] = domain.NA()
		result[domain.MetricReviewHighPct] = domain.NA()
		return
	}
	result[domain.MetricReviewAvg] = domain.Scalar(mean)
	result[domain.MetricReviewHighPct] = domain.Scalar(highShare)
}

func (c *Calculator) deliveryMetrics(result domain.MetricsResult, records []domain.SalesRecord) {
	meanDays, lateShare, ok := DeliveryStats(records, c.opts.LateThresholdDays)
	if !ok {
		result[domain.MetricDeliveryAvgDays] = domain.NA()
		result[domain.MetricDeliveryLatePct] = domain.NA()
		return
	}
	result[domain.MetricDeliveryAvgDays] = domain.Scalar(meanDays)
	result[domain.MetricDeliveryLatePct] = domain.Scalar(lateShare)
}
