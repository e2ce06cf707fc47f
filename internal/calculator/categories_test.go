package calculator

import (
	"math"
	"testing"

	"github.com/mmynk/tripledger/internal/currency"
	"github.com/mmynk/tripledger/internal/models"
)

func TestAggregateByCategory(t *testing.T) {
	rates := currency.RateTable{"EUR": 1, "USD": 1.1}

	tests := []struct {
		name         string
		expenses     []Expense
		validateFunc func(t *testing.T, totals []CategoryTotal)
	}{
		{
			name: "groups and sorts by amount",
			expenses: []Expense{
				{Amount: 10, Currency: "EUR", Category: models.CategoryFood},
				{Amount: 55, Currency: "USD", Category: models.CategoryHotel},
				{Amount: 15, Currency: "EUR", Category: models.CategoryFood},
				{Amount: 25, Currency: "EUR", Category: models.CategoryTransport},
			},
			validateFunc: func(t *testing.T, totals []CategoryTotal) {
				// Hotel 50, Food 25, Transport 25 -> total 100
				if len(totals) != 3 {
					t.Fatalf("got %d categories, want 3", len(totals))
				}
				wantOrder := []models.Category{models.CategoryHotel, models.CategoryFood, models.CategoryTransport}
				wantAmount := []float64{50, 25, 25}
				for i := range wantOrder {
					if totals[i].Category != wantOrder[i] {
						t.Errorf("totals[%d] = %s, want %s", i, totals[i].Category, wantOrder[i])
					}
					if !approx(totals[i].Amount, wantAmount[i], 1e-9) {
						t.Errorf("%s amount = %v, want %v", totals[i].Category, totals[i].Amount, wantAmount[i])
					}
					if !approx(totals[i].Percentage, wantAmount[i], 1e-9) {
						t.Errorf("%s percentage = %v, want %v", totals[i].Category, totals[i].Percentage, wantAmount[i])
					}
				}
			},
		},
		{
			name:     "no expenses",
			expenses: nil,
			validateFunc: func(t *testing.T, totals []CategoryTotal) {
				if totals == nil || len(totals) != 0 {
					t.Errorf("got %v, want empty non-nil slice", totals)
				}
			},
		},
		{
			name: "percentages sum to 100",
			expenses: []Expense{
				{Amount: 3.33, Currency: "EUR", Category: models.CategoryFood},
				{Amount: 7.77, Currency: "USD", Category: models.CategoryActivity},
				{Amount: 1.01, Currency: "EUR", Category: models.CategoryShopping},
				{Amount: 12.5, Currency: "GBP", Category: models.CategoryOther},
			},
			validateFunc: func(t *testing.T, totals []CategoryTotal) {
				var sum float64
				for _, c := range totals {
					sum += c.Percentage
				}
				if !approx(sum, 100, 1e-9) {
					t.Errorf("percentages sum to %v, want 100", sum)
				}
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tt.validateFunc(t, AggregateByCategory(tt.expenses, rates))
		})
	}
}

func TestAggregateByCategory_ZeroSpendHasZeroPercent(t *testing.T) {
	totals := AggregateByCategory([]Expense{{Amount: 0, Currency: "EUR", Category: models.CategoryFood}}, nil)
	if len(totals) != 1 {
		t.Fatalf("got %d categories, want 1", len(totals))
	}
	if totals[0].Percentage != 0 {
		t.Errorf("percentage = %v, want 0", totals[0].Percentage)
	}
}

func TestTotal(t *testing.T) {
	expenses := []Expense{
		{Amount: 110, Currency: "USD"},
		{Amount: 20, Currency: "EUR"},
	}
	if got := Total(expenses, currency.RateTable{"EUR": 1, "USD": 1.1}); !approx(got, 120, 1e-9) {
		t.Errorf("Total = %v, want 120", got)
	}
}

func TestPieSlices(t *testing.T) {
	slices := PieSlices([]CategoryTotal{
		{Category: models.CategoryHotel, Percentage: 60},
		{Category: models.CategoryFood, Percentage: 30},
		{Category: models.CategoryOther, Percentage: 10},
	})

	if len(slices) != 3 {
		t.Fatalf("got %d slices, want 3", len(slices))
	}

	wantStart := []float64{0, 0.6, 0.9}
	wantEnd := []float64{0.6, 0.9, 1.0}
	for i, s := range slices {
		if !approx(s.Start, wantStart[i], 1e-9) || !approx(s.End, wantEnd[i], 1e-9) {
			t.Errorf("slice %d = [%v, %v], want [%v, %v]", i, s.Start, s.End, wantStart[i], wantEnd[i])
		}
		if !approx(s.EndAngle, 2*math.Pi*wantEnd[i], 1e-9) {
			t.Errorf("slice %d end angle = %v", i, s.EndAngle)
		}
		if s.FullCircle {
			t.Errorf("slice %d should not be a full circle", i)
		}
	}
	if !slices[0].LargeArc || slices[1].LargeArc {
		t.Errorf("large-arc flags = %v/%v, want true/false", slices[0].LargeArc, slices[1].LargeArc)
	}
	if slices[0].Color != models.CategoryHotel.Color() {
		t.Errorf("slice colour = %s, want %s", slices[0].Color, models.CategoryHotel.Color())
	}
}

func TestPieSlices_SingleCategoryIsFullCircle(t *testing.T) {
	totals := AggregateByCategory([]Expense{{Amount: 42, Currency: "EUR", Category: models.CategoryFood}}, nil)
	slices := PieSlices(totals)

	if len(slices) != 1 || !slices[0].FullCircle {
		t.Fatalf("slices = %+v, want a single full circle", slices)
	}
}
