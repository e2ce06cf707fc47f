// Package currency converts amounts between currencies using a rate table
// quoted against a single reporting currency, and caches those tables.
package currency

// ReportingCurrency is the currency all trip totals are reported in.
const ReportingCurrency = "EUR"

// RateTable maps a currency code to the number of units of that currency
// equal to one unit of the reporting currency (e.g. "USD": 1.1).
type RateTable map[string]float64

// Normalize converts amount from one currency to another.
//
// Conversion is fail-open: when the table is empty, or either currency has no
// usable rate, the amount is returned unchanged. Totals may then be wrong but
// callers never have to handle a conversion error.
func Normalize(amount float64, from, to string, rates RateTable) float64 {
	if from == to {
		return amount
	}
	if len(rates) == 0 {
		return amount
	}

	rateFrom, ok := rates[from]
	if !ok || rateFrom == 0 {
		return amount
	}
	if to == ReportingCurrency {
		return amount / rateFrom
	}

	rateTo, ok := rates[to]
	if !ok || rateTo == 0 {
		return amount
	}
	return amount / rateFrom * rateTo
}

// ToReporting converts amount into the reporting currency.
func ToReporting(amount float64, from string, rates RateTable) float64 {
	return Normalize(amount, from, ReportingCurrency, rates)
}

// Clone returns a copy of the table that callers may modify freely.
func (r RateTable) Clone() RateTable {
	out := make(RateTable, len(r))
	for k, v := range r {
		out[k] = v
	}
	return out
}

// Convertible reports whether Normalize would apply a rate for this pair
// rather than pass the amount through.
func Convertible(from, to string, rates RateTable) bool {
	if from == to {
		return true
	}
	if rates[from] == 0 {
		return false
	}
	return to == ReportingCurrency || rates[to] != 0
}
