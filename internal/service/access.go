package service

import (
	"context"

	"connectrpc.com/connect"

	"github.com/mmynk/tripledger/internal/calculator"
	"github.com/mmynk/tripledger/internal/middleware"
	"github.com/mmynk/tripledger/internal/models"
	"github.com/mmynk/tripledger/internal/storage"
)

// callerID returns the authenticated user or an Unauthenticated error.
func callerID(ctx context.Context) (string, error) {
	userID := middleware.GetUserID(ctx)
	if userID == "" {
		return "", connect.NewError(connect.CodeUnauthenticated, errAuthRequired)
	}
	return userID, nil
}

// memberTrip loads tripID and checks that the caller belongs to it.
func memberTrip(ctx context.Context, trips storage.TripStore, tripID string) (*models.Trip, error) {
	userID, err := callerID(ctx)
	if err != nil {
		return nil, err
	}
	if tripID == "" {
		return nil, invalidArgument("trip id is required")
	}

	trip, err := trips.GetTrip(ctx, tripID)
	if err != nil {
		return nil, toConnectError(err)
	}
	if !trip.HasMember(userID) {
		return nil, connect.NewError(connect.CodePermissionDenied, errNotMember)
	}
	return trip, nil
}

// memberNames resolves nicknames for the trip members. Members without an
// account are left out and shown as unknown.
func memberNames(ctx context.Context, users storage.UserStore, members []string) (map[string]string, error) {
	found, err := users.GetUsersByIDs(ctx, members)
	if err != nil {
		return nil, err
	}
	names := make(map[string]string, len(found))
	for id, u := range found {
		names[id] = u.DisplayName
	}
	return names, nil
}

func toTripMessage(trip *models.Trip, names map[string]string) *Trip {
	members := make([]Member, len(trip.Members))
	for i, id := range trip.Members {
		name, ok := names[id]
		if !ok || name == "" {
			name = calculator.UnknownMember
		}
		members[i] = Member{ID: id, DisplayName: name}
	}
	return &Trip{
		ID:         trip.ID,
		Name:       trip.Name,
		CoverImage: trip.CoverImage,
		Icon:       trip.Icon,
		Color:      trip.Color,
		StartDate:  trip.StartDate,
		EndDate:    trip.EndDate,
		Members:    members,
		CreatedAt:  trip.CreatedAt,
		UpdatedAt:  trip.UpdatedAt,
	}
}

func toCalculatorExpenses(expenses []*models.Expense) []calculator.Expense {
	out := make([]calculator.Expense, len(expenses))
	for i, e := range expenses {
		out[i] = calculator.Expense{
			Amount:   e.Amount,
			Currency: e.Currency,
			Category: e.Category,
			PaidBy:   e.PaidBy,
		}
	}
	return out
}
