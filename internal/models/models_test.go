package models

import (
	"errors"
	"math"
	"strings"
	"testing"
)

func validExpense() Expense {
	return Expense{
		TripID:      "trip-1",
		Amount:      12.5,
		Currency:    "EUR",
		Category:    CategoryFood,
		Description: "Pastéis de nata",
		PaidBy:      "alice",
		Date:        1700000000,
	}
}

func TestExpense_Validate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(e *Expense)
		wantErr error
	}{
		{name: "valid", mutate: func(e *Expense) {}},
		{name: "unattributed is valid", mutate: func(e *Expense) { e.PaidBy = "" }},
		{name: "uncommon currency is valid", mutate: func(e *Expense) { e.Currency = "JPY" }},
		{name: "missing trip", mutate: func(e *Expense) { e.TripID = "" }, wantErr: ErrMissingTrip},
		{name: "zero amount", mutate: func(e *Expense) { e.Amount = 0 }, wantErr: ErrInvalidAmount},
		{name: "negative amount", mutate: func(e *Expense) { e.Amount = -1 }, wantErr: ErrInvalidAmount},
		{name: "NaN amount", mutate: func(e *Expense) { e.Amount = math.NaN() }, wantErr: ErrInvalidAmount},
		{name: "infinite amount", mutate: func(e *Expense) { e.Amount = math.Inf(1) }, wantErr: ErrInvalidAmount},
		{name: "lower-case currency", mutate: func(e *Expense) { e.Currency = "eur" }, wantErr: ErrInvalidCurrency},
		{name: "long currency", mutate: func(e *Expense) { e.Currency = "EURO" }, wantErr: ErrInvalidCurrency},
		{name: "unknown category", mutate: func(e *Expense) { e.Category = "Snacks" }, wantErr: ErrInvalidCategory},
		{name: "blank description", mutate: func(e *Expense) { e.Description = "  " }, wantErr: ErrEmptyDescription},
		{name: "long description", mutate: func(e *Expense) { e.Description = strings.Repeat("x", 201) }, wantErr: ErrDescriptionTooLong},
		{name: "missing date", mutate: func(e *Expense) { e.Date = 0 }, wantErr: ErrMissingDate},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			e := validExpense()
			tt.mutate(&e)
			err := e.Validate()
			if tt.wantErr == nil {
				if err != nil {
					t.Fatalf("Validate() = %v, want nil", err)
				}
				return
			}
			if !errors.Is(err, tt.wantErr) {
				t.Errorf("Validate() = %v, want %v", err, tt.wantErr)
			}
		})
	}
}

func TestTrip_Validate(t *testing.T) {
	trip := Trip{Name: "Lisbon", StartDate: 100, EndDate: 100}
	if err := trip.Validate(); err != nil {
		t.Errorf("single-day trip: %v", err)
	}

	trip.Name = " "
	if err := trip.Validate(); !errors.Is(err, ErrEmptyTripName) {
		t.Errorf("blank name: got %v", err)
	}

	trip = Trip{Name: "Lisbon", StartDate: 200, EndDate: 100}
	if err := trip.Validate(); !errors.Is(err, ErrInvalidTripDates) {
		t.Errorf("end before start: got %v", err)
	}
}

func TestTrip_HasMember(t *testing.T) {
	trip := Trip{Members: []string{"alice", "bob"}}
	if !trip.HasMember("bob") || trip.HasMember("carol") {
		t.Errorf("HasMember mismatch for %v", trip.Members)
	}
}

func TestParseCategory(t *testing.T) {
	for _, in := range []string{"food", "FOOD", " Food "} {
		got, err := ParseCategory(in)
		if err != nil || got != CategoryFood {
			t.Errorf("ParseCategory(%q) = %q, %v", in, got, err)
		}
	}

	if _, err := ParseCategory("Souvenirs"); !errors.Is(err, ErrInvalidCategory) {
		t.Errorf("ParseCategory(Souvenirs) error = %v, want ErrInvalidCategory", err)
	}
}

func TestCategory_Color(t *testing.T) {
	want := map[Category]string{
		CategoryFood:      "#F97316",
		CategoryTransport: "#3B82F6",
		CategoryHotel:     "#A855F7",
		CategoryActivity:  "#10B981",
		CategoryShopping:  "#EC4899",
		CategoryOther:     "#6B7280",
	}
	for _, c := range Categories {
		if c.Color() != want[c] {
			t.Errorf("%s colour = %s, want %s", c, c.Color(), want[c])
		}
	}
	if Category("Mystery").Color() != want[CategoryOther] {
		t.Errorf("unknown category should use Other's colour")
	}
}

func TestNewUser(t *testing.T) {
	u := NewUser("a@example.com", "Alice", "hash")
	if u.ID == "" || u.CreatedAt == 0 || u.CreatedAt != u.UpdatedAt {
		t.Errorf("NewUser did not initialize identity and timestamps: %+v", u)
	}
	if NewUser("b@example.com", "Bob", "hash").ID == u.ID {
		t.Error("NewUser reused an ID")
	}
}

func TestNote_Validate(t *testing.T) {
	tests := []struct {
		name    string
		note    Note
		wantErr error
	}{
		{name: "valid", note: Note{TripID: "trip-1", Title: "Packing list"}},
		{name: "missing trip", note: Note{Title: "Packing list"}, wantErr: ErrMissingNoteTrip},
		{name: "blank title", note: Note{TripID: "trip-1", Title: "  "}, wantErr: ErrEmptyNoteTitle},
		{name: "long title", note: Note{TripID: "trip-1", Title: strings.Repeat("x", 101)}, wantErr: ErrNoteTitleTooLong},
		{name: "long content", note: Note{TripID: "trip-1", Title: "t", Content: strings.Repeat("x", 10001)}, wantErr: ErrNoteTooLong},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.note.Validate()
			if tt.wantErr == nil {
				if err != nil {
					t.Fatalf("Validate() = %v, want nil", err)
				}
				return
			}
			if !errors.Is(err, tt.wantErr) {
				t.Errorf("Validate() = %v, want %v", err, tt.wantErr)
			}
		})
	}
}

func TestRestaurant_Validate(t *testing.T) {
	r := Restaurant{Name: "Cervejaria Ramiro", Coordinates: &Coordinates{Lat: 38.72, Lng: -9.13}}
	if err := r.Validate(); err != nil {
		t.Errorf("valid restaurant: %v", err)
	}

	r.Coordinates = nil
	if err := r.Validate(); err != nil {
		t.Errorf("restaurant without coordinates: %v", err)
	}

	r.Coordinates = &Coordinates{Lat: 91}
	if err := r.Validate(); !errors.Is(err, ErrInvalidCoordinates) {
		t.Errorf("latitude out of range: got %v", err)
	}

	r = Restaurant{Name: " "}
	if err := r.Validate(); !errors.Is(err, ErrEmptyRestaurantName) {
		t.Errorf("blank name: got %v", err)
	}
}

func validVisit() Visit {
	return Visit{
		RestaurantID: "rest-1",
		Date:         1700000000,
		Rating:       4,
		TotalPrice:   42,
		Currency:     "EUR",
		Dishes:       []Dish{{Name: "Prego", Rating: 5}, {Name: "Gambas"}},
	}
}

func TestVisit_Validate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(v *Visit)
		wantErr error
	}{
		{name: "valid", mutate: func(v *Visit) {}},
		{name: "free meal", mutate: func(v *Visit) { v.TotalPrice = 0 }},
		{name: "no dishes", mutate: func(v *Visit) { v.Dishes = nil }},
		{name: "missing restaurant", mutate: func(v *Visit) { v.RestaurantID = "" }, wantErr: ErrMissingRestaurant},
		{name: "missing date", mutate: func(v *Visit) { v.Date = 0 }, wantErr: ErrMissingVisitDate},
		{name: "rating too low", mutate: func(v *Visit) { v.Rating = 0 }, wantErr: ErrInvalidRating},
		{name: "rating too high", mutate: func(v *Visit) { v.Rating = 6 }, wantErr: ErrInvalidRating},
		{name: "negative price", mutate: func(v *Visit) { v.TotalPrice = -1 }, wantErr: ErrInvalidPrice},
		{name: "NaN price", mutate: func(v *Visit) { v.TotalPrice = math.NaN() }, wantErr: ErrInvalidPrice},
		{name: "bad currency", mutate: func(v *Visit) { v.Currency = "€" }, wantErr: ErrInvalidCurrency},
		{name: "unnamed dish", mutate: func(v *Visit) { v.Dishes[1].Name = "" }, wantErr: ErrEmptyDishName},
		{name: "dish rating out of range", mutate: func(v *Visit) { v.Dishes[0].Rating = 9 }, wantErr: ErrInvalidRating},
		{name: "long notes", mutate: func(v *Visit) { v.Notes = strings.Repeat("x", 1001) }, wantErr: ErrVisitNotesTooLong},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			v := validVisit()
			tt.mutate(&v)
			err := v.Validate()
			if tt.wantErr == nil {
				if err != nil {
					t.Fatalf("Validate() = %v, want nil", err)
				}
				return
			}
			if !errors.Is(err, tt.wantErr) {
				t.Errorf("Validate() = %v, want %v", err, tt.wantErr)
			}
		})
	}
}
