// Package storage provides abstractions for persistent data storage.
package storage

import (
	"context"
	"errors"

	"github.com/mmynk/tripledger/internal/models"
)

// ErrNotFound is wrapped by every lookup that finds no matching record.
var ErrNotFound = errors.New("not found")

// TripStore persists trips and their member lists.
type TripStore interface {
	// CreateTrip persists a new trip. ID and timestamps are assigned when empty.
	CreateTrip(ctx context.Context, trip *models.Trip) error

	// GetTrip retrieves a trip with its ordered members.
	GetTrip(ctx context.Context, tripID string) (*models.Trip, error)

	// ListTripsByMember returns the trips userID belongs to, latest start date first.
	ListTripsByMember(ctx context.Context, userID string) ([]*models.Trip, error)

	// UpdateTrip updates a trip's descriptive fields. Members are not touched.
	UpdateTrip(ctx context.Context, trip *models.Trip) error

	// DeleteTrip removes a trip together with all of its expenses and notes.
	// Restaurants linked to it are kept and unlinked.
	DeleteTrip(ctx context.Context, tripID string) error

	// AddTripMember appends userID to the trip's members. Adding an existing
	// member is a no-op.
	AddTripMember(ctx context.Context, tripID, userID string) error
}

// ExpenseStore persists trip expenses.
type ExpenseStore interface {
	CreateExpense(ctx context.Context, expense *models.Expense) error
	GetExpense(ctx context.Context, expenseID string) (*models.Expense, error)
	UpdateExpense(ctx context.Context, expense *models.Expense) error
	DeleteExpense(ctx context.Context, expenseID string) error

	// ListExpensesByTrip returns a trip's expenses, most recent date first.
	ListExpensesByTrip(ctx context.Context, tripID string) ([]*models.Expense, error)
}

// UserStore persists user accounts.
type UserStore interface {
	CreateUser(ctx context.Context, user *models.User) error
	GetUserByEmail(ctx context.Context, email string) (*models.User, error)
	GetUserByID(ctx context.Context, id string) (*models.User, error)

	// GetUsersByIDs returns the users that exist among ids, keyed by ID.
	GetUsersByIDs(ctx context.Context, ids []string) (map[string]*models.User, error)

	UpdateDisplayName(ctx context.Context, userID, displayName string) error
}

// NoteStore persists trip notes.
type NoteStore interface {
	// CreateNote persists a new note. ID and timestamps are assigned when empty.
	CreateNote(ctx context.Context, note *models.Note) error
	GetNote(ctx context.Context, noteID string) (*models.Note, error)

	// UpdateNote replaces a note's title and content and bumps UpdatedAt.
	UpdateNote(ctx context.Context, note *models.Note) error
	DeleteNote(ctx context.Context, noteID string) error

	// ListNotesByTrip returns a trip's notes, most recently updated first.
	ListNotesByTrip(ctx context.Context, tripID string) ([]*models.Note, error)
}

// RestaurantStore persists the restaurant journal and its visits.
type RestaurantStore interface {
	CreateRestaurant(ctx context.Context, restaurant *models.Restaurant) error
	GetRestaurant(ctx context.Context, restaurantID string) (*models.Restaurant, error)

	// ListRestaurantsByUser returns a user's restaurants, newest first.
	ListRestaurantsByUser(ctx context.Context, userID string) ([]*models.Restaurant, error)
	UpdateRestaurant(ctx context.Context, restaurant *models.Restaurant) error

	// DeleteRestaurant removes a restaurant together with all of its visits.
	DeleteRestaurant(ctx context.Context, restaurantID string) error

	// CreateVisit persists a visit and its dishes in order.
	CreateVisit(ctx context.Context, visit *models.Visit) error
	GetVisit(ctx context.Context, visitID string) (*models.Visit, error)
	DeleteVisit(ctx context.Context, visitID string) error

	// ListVisitsByRestaurant returns a restaurant's visits, most recent date first.
	ListVisitsByRestaurant(ctx context.Context, restaurantID string) ([]*models.Visit, error)
}

// Store defines the full storage backend used by the services.
// This abstraction allows swapping storage backends (SQLite, PostgreSQL, etc.)
// without changing the service layer.
type Store interface {
	TripStore
	ExpenseStore
	UserStore
	NoteStore
	RestaurantStore

	// Close releases any resources held by the store.
	Close() error
}
