package models

import (
	"errors"
	"math"
	"strings"
)

var (
	ErrInvalidAmount    = errors.New("amount must be a positive number")
	ErrInvalidCurrency  = errors.New("currency must be a 3-letter upper-case code")
	ErrInvalidCategory  = errors.New("unknown expense category")
	ErrEmptyDescription = errors.New("description cannot be empty")
	ErrMissingDate      = errors.New("expense date is required")
	ErrMissingTrip      = errors.New("expense must belong to a trip")

	ErrDescriptionTooLong = errors.New("description too long (max 200 characters)")
)

// SupportedCurrencies are the currencies offered when entering an expense.
// Other ISO codes are accepted; conversion falls back to the raw amount
// when no exchange rate is known.
var SupportedCurrencies = []string{"EUR", "USD", "GBP", "THB"}

// Expense represents a single payment made during a trip.
type Expense struct {
	// ID is the unique identifier for the expense (UUID format).
	ID string

	// TripID is the trip this expense belongs to.
	TripID string

	// Amount is the positive amount paid, in Currency.
	Amount float64

	// Currency is the ISO 4217 code the amount was paid in.
	Currency string

	// Category classifies the expense for reporting.
	Category Category

	// Description is a short free-text label (e.g., "Dinner at Ramiro").
	Description string

	// PaidBy is the user ID of the member who paid. Empty when unattributed:
	// the amount still counts toward the trip total.
	PaidBy string

	// Date is the Unix timestamp of when the expense occurred.
	Date int64

	// CreatedAt is the Unix timestamp when the expense was recorded.
	CreatedAt int64
}

// Validate checks that the expense is well formed.
func (e *Expense) Validate() error {
	if e.TripID == "" {
		return ErrMissingTrip
	}
	if math.IsNaN(e.Amount) || math.IsInf(e.Amount, 0) || e.Amount <= 0 {
		return ErrInvalidAmount
	}
	if !validCurrencyCode(e.Currency) {
		return ErrInvalidCurrency
	}
	if !e.Category.Valid() {
		return ErrInvalidCategory
	}
	if strings.TrimSpace(e.Description) == "" {
		return ErrEmptyDescription
	}
	if len(e.Description) > 200 {
		return ErrDescriptionTooLong
	}
	if e.Date == 0 {
		return ErrMissingDate
	}
	return nil
}

func validCurrencyCode(code string) bool {
	if len(code) != 3 {
		return false
	}
	for _, r := range code {
		if r < 'A' || r > 'Z' {
			return false
		}
	}
	return true
}
