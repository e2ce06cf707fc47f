package models

import (
	"errors"
	"strings"
)

var (
	ErrEmptyTripName    = errors.New("trip name cannot be empty")
	ErrInvalidTripDates = errors.New("trip must end on or after its start date")
)

// Trip represents a journey whose expenses are shared among its members.
type Trip struct {
	// ID is the unique identifier for the trip (UUID format).
	ID string

	// Name is the display name of the trip (e.g., "Lisbon 2025").
	Name string

	// CoverImage is an optional image URL shown in trip lists.
	CoverImage string

	// Icon and Color are optional presentation hints chosen by the creator.
	Icon  string
	Color string

	// StartDate and EndDate are Unix timestamps bounding the trip.
	StartDate int64
	EndDate   int64

	// Members is the ordered list of user IDs taking part in the trip.
	// The creator is always the first member.
	Members []string

	// CreatedAt and UpdatedAt are Unix timestamps maintained by the store.
	CreatedAt int64
	UpdatedAt int64
}

// HasMember reports whether userID belongs to the trip.
func (t *Trip) HasMember(userID string) bool {
	for _, m := range t.Members {
		if m == userID {
			return true
		}
	}
	return false
}

// Validate checks that the trip is well formed.
func (t *Trip) Validate() error {
	if strings.TrimSpace(t.Name) == "" {
		return ErrEmptyTripName
	}
	if t.StartDate == 0 || t.EndDate < t.StartDate {
		return ErrInvalidTripDates
	}
	return nil
}
