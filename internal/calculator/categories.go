package calculator

import (
	"math"
	"sort"

	"github.com/mmynk/tripledger/internal/currency"
	"github.com/mmynk/tripledger/internal/models"
)

// CategoryTotal is the normalized spend for one category.
type CategoryTotal struct {
	Category   models.Category
	Amount     float64
	Percentage float64 // Share of the trip total, 0-100
}

// Slice is one wedge of a pie chart over category totals.
// Start and End are fractions of the full circle; the angles are in radians
// measured from the positive x axis.
type Slice struct {
	Category   models.Category
	Color      string
	Start      float64
	End        float64
	StartAngle float64
	EndAngle   float64
	LargeArc   bool // Wedge spans more than half the circle
	FullCircle bool // Single category holding the whole total; draw a circle
}

// Total returns the sum of all expenses in the reporting currency.
func Total(expenses []Expense, rates currency.RateTable) float64 {
	var total float64
	for _, e := range expenses {
		total += currency.ToReporting(e.Amount, e.Currency, rates)
	}
	return total
}

// AggregateByCategory groups normalized spend by category, largest first.
// Categories with equal amounts keep the order in which they first appear.
// Percentages are 0 when there is no spend.
func AggregateByCategory(expenses []Expense, rates currency.RateTable) []CategoryTotal {
	totals := []CategoryTotal{}
	index := make(map[models.Category]int)

	var total float64
	for _, e := range expenses {
		amount := currency.ToReporting(e.Amount, e.Currency, rates)
		total += amount

		i, ok := index[e.Category]
		if !ok {
			i = len(totals)
			index[e.Category] = i
			totals = append(totals, CategoryTotal{Category: e.Category})
		}
		totals[i].Amount += amount
	}

	for i := range totals {
		if total > 0 {
			totals[i].Percentage = totals[i].Amount / total * 100
		}
	}

	sort.SliceStable(totals, func(a, b int) bool {
		return totals[a].Amount > totals[b].Amount
	})

	return totals
}

// PieSlices lays out categories around a circle in the given order,
// carrying a running fraction of the total from one wedge to the next.
func PieSlices(categories []CategoryTotal) []Slice {
	slices := make([]Slice, 0, len(categories))

	var cumulative float64
	for _, c := range categories {
		fraction := c.Percentage / 100
		start := cumulative
		cumulative += fraction

		slices = append(slices, Slice{
			Category:   c.Category,
			Color:      c.Category.Color(),
			Start:      start,
			End:        cumulative,
			StartAngle: 2 * math.Pi * start,
			EndAngle:   2 * math.Pi * cumulative,
			LargeArc:   fraction > 0.5,
			FullCircle: math.Abs(fraction-1) < 1e-9,
		})
	}

	return slices
}
