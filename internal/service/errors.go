package service

import (
	"errors"
	"fmt"

	"connectrpc.com/connect"

	"github.com/mmynk/tripledger/internal/auth"
	"github.com/mmynk/tripledger/internal/models"
	"github.com/mmynk/tripledger/internal/storage"
)

var (
	errAuthRequired = errors.New("authentication required")
	errNotMember    = errors.New("caller is not a member of this trip")
	errNotOwner     = errors.New("restaurant belongs to another user")
)

// toConnectError maps domain and storage errors onto connect codes.
func toConnectError(err error) error {
	var connectErr *connect.Error
	switch {
	case err == nil:
		return nil
	case errors.As(err, &connectErr):
		return err
	case errors.Is(err, storage.ErrNotFound):
		return connect.NewError(connect.CodeNotFound, err)
	case isValidationError(err):
		return connect.NewError(connect.CodeInvalidArgument, err)
	case errors.Is(err, auth.ErrEmailExists):
		return connect.NewError(connect.CodeAlreadyExists, err)
	case errors.Is(err, auth.ErrInvalidCredentials):
		return connect.NewError(connect.CodeUnauthenticated, err)
	default:
		return connect.NewError(connect.CodeInternal, err)
	}
}

func isValidationError(err error) bool {
	for _, target := range []error{
		models.ErrInvalidAmount,
		models.ErrInvalidCurrency,
		models.ErrInvalidCategory,
		models.ErrEmptyDescription,
		models.ErrMissingDate,
		models.ErrMissingTrip,
		models.ErrEmptyTripName,
		models.ErrInvalidTripDates,
		models.ErrDescriptionTooLong,
		models.ErrEmptyNoteTitle,
		models.ErrNoteTitleTooLong,
		models.ErrNoteTooLong,
		models.ErrMissingNoteTrip,
		models.ErrEmptyRestaurantName,
		models.ErrRestaurantNameLong,
		models.ErrInvalidCoordinates,
		models.ErrMissingRestaurant,
		models.ErrMissingVisitDate,
		models.ErrInvalidRating,
		models.ErrInvalidPrice,
		models.ErrEmptyDishName,
		models.ErrVisitNotesTooLong,
		auth.ErrWeakPassword,
		auth.ErrInvalidEmail,
		auth.ErrEmptyDisplayName,
	} {
		if errors.Is(err, target) {
			return true
		}
	}
	return false
}

func invalidArgument(format string, args ...any) error {
	return connect.NewError(connect.CodeInvalidArgument, fmt.Errorf(format, args...))
}
