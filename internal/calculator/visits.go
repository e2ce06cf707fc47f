package calculator

import "github.com/mmynk/tripledger/internal/currency"

// Visit is the minimal view of a restaurant visit needed for journal stats.
type Visit struct {
	Rating   int
	Price    float64 // 0 when the bill was not recorded
	Currency string
}

// VisitStats summarizes the visits to one restaurant.
type VisitStats struct {
	Count         int
	AverageRating float64
	// AveragePrice is in the reporting currency, over visits with a recorded
	// price only.
	AveragePrice float64
	PricedVisits int
}

// SummarizeVisits computes the visit count, mean rating and mean bill of a
// restaurant. All averages are 0 when there is nothing to average.
func SummarizeVisits(visits []Visit, rates currency.RateTable) VisitStats {
	stats := VisitStats{Count: len(visits)}
	if len(visits) == 0 {
		return stats
	}

	var ratingSum, priceSum float64
	for _, v := range visits {
		ratingSum += float64(v.Rating)
		if v.Price > 0 {
			priceSum += currency.ToReporting(v.Price, v.Currency, rates)
			stats.PricedVisits++
		}
	}

	stats.AverageRating = ratingSum / float64(len(visits))
	if stats.PricedVisits > 0 {
		stats.AveragePrice = priceSum / float64(stats.PricedVisits)
	}
	return stats
}
