package service

import (
	"github.com/shopspring/decimal"
)

var currencySymbols = map[string]string{
	"EUR": "€",
	"USD": "$",
	"GBP": "£",
	"THB": "฿",
}

// formatMoney renders amount with two decimals and the currency symbol,
// e.g. "€50.00" or "-€10.00". Unknown codes are suffixed instead ("12.00 CHF").
func formatMoney(amount float64, code string) string {
	d := decimal.NewFromFloat(amount).Round(2)
	sign := ""
	if d.IsNegative() {
		sign = "-"
		d = d.Abs()
	}
	if sym, ok := currencySymbols[code]; ok {
		return sign + sym + d.StringFixed(2)
	}
	return sign + d.StringFixed(2) + " " + code
}

// formatPercent renders a percentage with one decimal, e.g. "33.3%".
func formatPercent(p float64) string {
	return decimal.NewFromFloat(p).StringFixed(1) + "%"
}

// noValue is shown in place of an average when there is nothing to average.
const noValue = "-"

// formatRating renders an average rating with one decimal, e.g. "4.5".
func formatRating(r float64) string {
	return decimal.NewFromFloat(r).StringFixed(1)
}
