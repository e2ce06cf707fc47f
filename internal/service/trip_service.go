package service

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"strings"

	"connectrpc.com/connect"

	"github.com/mmynk/tripledger/internal/auth"
	"github.com/mmynk/tripledger/internal/calculator"
	"github.com/mmynk/tripledger/internal/currency"
	"github.com/mmynk/tripledger/internal/metrics"
	"github.com/mmynk/tripledger/internal/models"
	"github.com/mmynk/tripledger/internal/storage"
)

const tripServiceName = "TripService"

// TripService manages trips, their members and the balance summary.
type TripService struct {
	store  storage.Store
	rates  RateSource
	logger *slog.Logger
}

// NewTripService creates a new TripService.
func NewTripService(store storage.Store, rates RateSource, logger *slog.Logger) *TripService {
	return &TripService{store: store, rates: rates, logger: logger}
}

// Mount registers the service's procedures on mux.
func (s *TripService) Mount(mux *http.ServeMux, opts ...connect.HandlerOption) {
	handle(mux, procedure(tripServiceName, "CreateTrip"), s.CreateTrip, opts...)
	handle(mux, procedure(tripServiceName, "GetTrip"), s.GetTrip, opts...)
	handle(mux, procedure(tripServiceName, "ListTrips"), s.ListTrips, opts...)
	handle(mux, procedure(tripServiceName, "UpdateTrip"), s.UpdateTrip, opts...)
	handle(mux, procedure(tripServiceName, "DeleteTrip"), s.DeleteTrip, opts...)
	handle(mux, procedure(tripServiceName, "AddMember"), s.AddMember, opts...)
	handle(mux, procedure(tripServiceName, "GetTripSummary"), s.GetTripSummary, opts...)
}

// CreateTrip creates a trip with the caller as its first member.
func (s *TripService) CreateTrip(ctx context.Context, req *connect.Request[CreateTripRequest]) (*connect.Response[TripResponse], error) {
	userID, err := callerID(ctx)
	if err != nil {
		return nil, err
	}

	trip := &models.Trip{
		Name:       strings.TrimSpace(req.Msg.Name),
		CoverImage: req.Msg.CoverImage,
		Icon:       req.Msg.Icon,
		Color:      req.Msg.Color,
		StartDate:  req.Msg.StartDate,
		EndDate:    req.Msg.EndDate,
		Members:    []string{userID},
	}
	if err := trip.Validate(); err != nil {
		return nil, toConnectError(err)
	}

	if err := s.store.CreateTrip(ctx, trip); err != nil {
		s.logger.Error("Failed to create trip", "user_id", userID, "error", err)
		return nil, toConnectError(err)
	}

	s.logger.Info("Trip created", "trip_id", trip.ID, "user_id", userID)
	return s.tripResponse(ctx, trip)
}

// GetTrip returns a trip the caller belongs to.
func (s *TripService) GetTrip(ctx context.Context, req *connect.Request[TripRequest]) (*connect.Response[TripResponse], error) {
	trip, err := memberTrip(ctx, s.store, req.Msg.TripID)
	if err != nil {
		return nil, err
	}
	return s.tripResponse(ctx, trip)
}

// ListTrips returns every trip the caller belongs to, latest first.
func (s *TripService) ListTrips(ctx context.Context, req *connect.Request[ListTripsRequest]) (*connect.Response[ListTripsResponse], error) {
	userID, err := callerID(ctx)
	if err != nil {
		return nil, err
	}

	trips, err := s.store.ListTripsByMember(ctx, userID)
	if err != nil {
		s.logger.Error("Failed to list trips", "user_id", userID, "error", err)
		return nil, toConnectError(err)
	}

	// Resolve all member names in one query
	seen := make(map[string]bool)
	var ids []string
	for _, trip := range trips {
		for _, id := range trip.Members {
			if !seen[id] {
				seen[id] = true
				ids = append(ids, id)
			}
		}
	}
	names, err := memberNames(ctx, s.store, ids)
	if err != nil {
		return nil, toConnectError(err)
	}

	resp := &ListTripsResponse{Trips: make([]*Trip, len(trips))}
	for i, trip := range trips {
		resp.Trips[i] = toTripMessage(trip, names)
	}
	return connect.NewResponse(resp), nil
}

// UpdateTrip changes a trip's name, dates and presentation fields.
func (s *TripService) UpdateTrip(ctx context.Context, req *connect.Request[UpdateTripRequest]) (*connect.Response[TripResponse], error) {
	trip, err := memberTrip(ctx, s.store, req.Msg.TripID)
	if err != nil {
		return nil, err
	}

	trip.Name = strings.TrimSpace(req.Msg.Name)
	trip.CoverImage = req.Msg.CoverImage
	trip.Icon = req.Msg.Icon
	trip.Color = req.Msg.Color
	trip.StartDate = req.Msg.StartDate
	trip.EndDate = req.Msg.EndDate
	if err := trip.Validate(); err != nil {
		return nil, toConnectError(err)
	}

	if err := s.store.UpdateTrip(ctx, trip); err != nil {
		s.logger.Error("Failed to update trip", "trip_id", trip.ID, "error", err)
		return nil, toConnectError(err)
	}

	return s.tripResponse(ctx, trip)
}

// DeleteTrip removes a trip and all of its expenses.
func (s *TripService) DeleteTrip(ctx context.Context, req *connect.Request[TripRequest]) (*connect.Response[DeleteResponse], error) {
	trip, err := memberTrip(ctx, s.store, req.Msg.TripID)
	if err != nil {
		return nil, err
	}

	if err := s.store.DeleteTrip(ctx, trip.ID); err != nil {
		s.logger.Error("Failed to delete trip", "trip_id", trip.ID, "error", err)
		return nil, toConnectError(err)
	}

	s.logger.Info("Trip deleted", "trip_id", trip.ID)
	return connect.NewResponse(&DeleteResponse{}), nil
}

// AddMember adds a registered user to the trip. Adding an existing member
// returns the trip unchanged.
func (s *TripService) AddMember(ctx context.Context, req *connect.Request[AddMemberRequest]) (*connect.Response[TripResponse], error) {
	trip, err := memberTrip(ctx, s.store, req.Msg.TripID)
	if err != nil {
		return nil, err
	}

	var user *models.User
	switch {
	case req.Msg.UserID != "":
		user, err = s.store.GetUserByID(ctx, req.Msg.UserID)
	case req.Msg.Email != "":
		user, err = s.store.GetUserByEmail(ctx, auth.NormalizeEmail(req.Msg.Email))
	default:
		return nil, invalidArgument("user id or email is required")
	}
	if err != nil {
		return nil, toConnectError(err)
	}

	if !trip.HasMember(user.ID) {
		if err := s.store.AddTripMember(ctx, trip.ID, user.ID); err != nil {
			s.logger.Error("Failed to add member", "trip_id", trip.ID, "member_id", user.ID, "error", err)
			return nil, toConnectError(err)
		}
		s.logger.Info("Member added", "trip_id", trip.ID, "member_id", user.ID)
	}

	trip, err = s.store.GetTrip(ctx, trip.ID)
	if err != nil {
		return nil, toConnectError(err)
	}
	return s.tripResponse(ctx, trip)
}

// GetTripSummary computes balances, settlement suggestions and the category
// breakdown of a trip in the reporting currency.
func (s *TripService) GetTripSummary(ctx context.Context, req *connect.Request[TripRequest]) (*connect.Response[TripSummaryResponse], error) {
	trip, err := memberTrip(ctx, s.store, req.Msg.TripID)
	if err != nil {
		return nil, err
	}

	expenses, err := s.store.ListExpensesByTrip(ctx, trip.ID)
	if err != nil {
		s.logger.Error("Failed to list expenses", "trip_id", trip.ID, "error", err)
		return nil, toConnectError(err)
	}
	names, err := memberNames(ctx, s.store, trip.Members)
	if err != nil {
		return nil, toConnectError(err)
	}

	snapshot := s.rates.Get(ctx, currency.ReportingCurrency)
	if snapshot.Stale {
		s.logger.Warn("Summarizing with stale exchange rates", "trip_id", trip.ID, "rates", len(snapshot.Rates))
	}

	items := toCalculatorExpenses(expenses)
	balances := calculator.ComputeBalances(trip.Members, items, names, snapshot.Rates)
	settlements := calculator.ComputeSettlements(balances)
	categories := calculator.AggregateByCategory(items, snapshot.Rates)
	total := calculator.Total(items, snapshot.Rates)
	share := calculator.EqualShare(trip.Members, items, snapshot.Rates)

	metrics.SettlementsSuggested.Observe(float64(len(settlements)))

	code := currency.ReportingCurrency
	resp := &TripSummaryResponse{
		TripID:            trip.ID,
		Currency:          code,
		Total:             total,
		TotalDisplay:      formatMoney(total, code),
		EqualShare:        share,
		EqualShareDisplay: formatMoney(share, code),
		Balances:          make([]BalanceEntry, len(balances)),
		Settlements:       make([]SettlementEntry, len(settlements)),
		Categories:        make([]CategoryEntry, len(categories)),
		RatesStale:        snapshot.Stale,
	}
	if !snapshot.FetchedAt.IsZero() {
		resp.RatesFetchedAt = snapshot.FetchedAt.Unix()
	}
	for i, b := range balances {
		resp.Balances[i] = BalanceEntry{
			MemberID:       b.MemberID,
			DisplayName:    b.Name,
			Paid:           b.Paid,
			Balance:        b.Balance,
			PaidDisplay:    formatMoney(b.Paid, code),
			BalanceDisplay: formatMoney(b.Balance, code),
		}
	}
	for i, st := range settlements {
		resp.Settlements[i] = SettlementEntry{
			FromID:        st.FromID,
			From:          st.From,
			ToID:          st.ToID,
			To:            st.To,
			Amount:        st.Amount,
			AmountDisplay: formatMoney(st.Amount, code),
		}
	}
	for i, c := range categories {
		resp.Categories[i] = CategoryEntry{
			Category:          c.Category,
			Color:             c.Category.Color(),
			Amount:            c.Amount,
			Percentage:        c.Percentage,
			AmountDisplay:     formatMoney(c.Amount, code),
			PercentageDisplay: formatPercent(c.Percentage),
		}
	}

	s.logger.Debug("Trip summary computed",
		"trip_id", trip.ID,
		"expenses", len(expenses),
		"settlements", len(settlements),
		"total", total,
	)
	return connect.NewResponse(resp), nil
}

// CategoryBreakdown returns the category totals of a trip the caller belongs
// to. It backs the chart endpoints.
func (s *TripService) CategoryBreakdown(ctx context.Context, tripID string) ([]calculator.CategoryTotal, error) {
	trip, err := memberTrip(ctx, s.store, tripID)
	if err != nil {
		return nil, err
	}

	expenses, err := s.store.ListExpensesByTrip(ctx, trip.ID)
	if err != nil {
		return nil, toConnectError(err)
	}

	snapshot := s.rates.Get(ctx, currency.ReportingCurrency)
	return calculator.AggregateByCategory(toCalculatorExpenses(expenses), snapshot.Rates), nil
}

func (s *TripService) tripResponse(ctx context.Context, trip *models.Trip) (*connect.Response[TripResponse], error) {
	names, err := memberNames(ctx, s.store, trip.Members)
	if err != nil && !errors.Is(err, storage.ErrNotFound) {
		return nil, toConnectError(err)
	}
	return connect.NewResponse(&TripResponse{Trip: toTripMessage(trip, names)}), nil
}
