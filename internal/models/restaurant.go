package models

import (
	"errors"
	"math"
	"strings"
)

var (
	ErrEmptyRestaurantName = errors.New("restaurant name cannot be empty")
	ErrRestaurantNameLong  = errors.New("restaurant name too long (max 100 characters)")
	ErrInvalidCoordinates  = errors.New("coordinates out of range")
	ErrMissingRestaurant   = errors.New("visit must belong to a restaurant")
	ErrMissingVisitDate    = errors.New("visit date is required")
	ErrInvalidRating       = errors.New("rating must be between 1 and 5")
	ErrInvalidPrice        = errors.New("price must be zero or a positive number")
	ErrEmptyDishName       = errors.New("dish name cannot be empty")
	ErrVisitNotesTooLong   = errors.New("visit notes too long (max 1000 characters)")
)

const (
	MinRating = 1
	MaxRating = 5
)

// Coordinates locate a restaurant on the map.
type Coordinates struct {
	Lat float64
	Lng float64
}

// Restaurant is an entry in a user's restaurant journal.
type Restaurant struct {
	// ID is the unique identifier for the restaurant (UUID format).
	ID string

	// UserID owns the journal entry.
	UserID string

	// TripID optionally links the restaurant to a trip the owner belongs to.
	TripID string

	Name        string
	Address     string
	City        string
	Country     string
	MapsLink    string
	CuisineType string

	// Coordinates is nil when the location is unknown.
	Coordinates *Coordinates

	CreatedAt int64
}

// Validate checks that the restaurant is well formed.
func (r *Restaurant) Validate() error {
	name := strings.TrimSpace(r.Name)
	if name == "" {
		return ErrEmptyRestaurantName
	}
	if len(name) > 100 {
		return ErrRestaurantNameLong
	}
	if c := r.Coordinates; c != nil {
		if math.IsNaN(c.Lat) || math.IsNaN(c.Lng) || math.Abs(c.Lat) > 90 || math.Abs(c.Lng) > 180 {
			return ErrInvalidCoordinates
		}
	}
	return nil
}

// Dish is something eaten during a visit. Rating is 0 when not rated.
type Dish struct {
	Name   string
	Rating int
}

// Visit records one meal at a restaurant.
type Visit struct {
	ID           string
	RestaurantID string

	// UserID is the user who logged the visit.
	UserID string

	// Date is the Unix timestamp of the meal.
	Date int64

	// Rating is the overall score, MinRating to MaxRating.
	Rating int

	// TotalPrice is the bill in Currency. Zero means not recorded.
	TotalPrice float64
	Currency   string

	Notes  string
	Dishes []Dish

	CreatedAt int64
}

// Validate checks that the visit is well formed.
func (v *Visit) Validate() error {
	if v.RestaurantID == "" {
		return ErrMissingRestaurant
	}
	if v.Date == 0 {
		return ErrMissingVisitDate
	}
	if v.Rating < MinRating || v.Rating > MaxRating {
		return ErrInvalidRating
	}
	if math.IsNaN(v.TotalPrice) || math.IsInf(v.TotalPrice, 0) || v.TotalPrice < 0 {
		return ErrInvalidPrice
	}
	if !validCurrencyCode(v.Currency) {
		return ErrInvalidCurrency
	}
	if len(v.Notes) > 1000 {
		return ErrVisitNotesTooLong
	}
	for _, d := range v.Dishes {
		if strings.TrimSpace(d.Name) == "" {
			return ErrEmptyDishName
		}
		if d.Rating != 0 && (d.Rating < MinRating || d.Rating > MaxRating) {
			return ErrInvalidRating
		}
	}
	return nil
}
