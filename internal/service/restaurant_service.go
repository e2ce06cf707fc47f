package service

import (
	"context"
	"log/slog"
	"net/http"
	"strings"

	"connectrpc.com/connect"

	"github.com/mmynk/tripledger/internal/calculator"
	"github.com/mmynk/tripledger/internal/currency"
	"github.com/mmynk/tripledger/internal/models"
	"github.com/mmynk/tripledger/internal/storage"
)

const restaurantServiceName = "RestaurantService"

// RestaurantService manages each user's private restaurant journal. An entry
// may be linked to a trip the owner belongs to.
type RestaurantService struct {
	store  storage.Store
	rates  RateSource
	logger *slog.Logger
}

// NewRestaurantService creates a new RestaurantService.
func NewRestaurantService(store storage.Store, rates RateSource, logger *slog.Logger) *RestaurantService {
	return &RestaurantService{store: store, rates: rates, logger: logger}
}

// Mount registers the service's procedures on mux.
func (s *RestaurantService) Mount(mux *http.ServeMux, opts ...connect.HandlerOption) {
	handle(mux, procedure(restaurantServiceName, "AddRestaurant"), s.AddRestaurant, opts...)
	handle(mux, procedure(restaurantServiceName, "GetRestaurant"), s.GetRestaurant, opts...)
	handle(mux, procedure(restaurantServiceName, "ListRestaurants"), s.ListRestaurants, opts...)
	handle(mux, procedure(restaurantServiceName, "UpdateRestaurant"), s.UpdateRestaurant, opts...)
	handle(mux, procedure(restaurantServiceName, "DeleteRestaurant"), s.DeleteRestaurant, opts...)
	handle(mux, procedure(restaurantServiceName, "AddVisit"), s.AddVisit, opts...)
	handle(mux, procedure(restaurantServiceName, "DeleteVisit"), s.DeleteVisit, opts...)
	handle(mux, procedure(restaurantServiceName, "ListVisits"), s.ListVisits, opts...)
}

func applyRestaurantFields(r *models.Restaurant, f RestaurantFields) {
	r.TripID = f.TripID
	r.Name = strings.TrimSpace(f.Name)
	r.Address = strings.TrimSpace(f.Address)
	r.City = strings.TrimSpace(f.City)
	r.Country = strings.TrimSpace(f.Country)
	r.MapsLink = strings.TrimSpace(f.MapsLink)
	r.CuisineType = strings.TrimSpace(f.CuisineType)
	r.Coordinates = nil
	if f.Coordinates != nil {
		r.Coordinates = &models.Coordinates{Lat: f.Coordinates.Lat, Lng: f.Coordinates.Lng}
	}
}

// AddRestaurant creates a journal entry owned by the caller.
func (s *RestaurantService) AddRestaurant(ctx context.Context, req *connect.Request[AddRestaurantRequest]) (*connect.Response[RestaurantResponse], error) {
	userID, err := callerID(ctx)
	if err != nil {
		return nil, err
	}

	restaurant := &models.Restaurant{UserID: userID}
	applyRestaurantFields(restaurant, req.Msg.RestaurantFields)
	if err := restaurant.Validate(); err != nil {
		return nil, toConnectError(err)
	}
	if restaurant.TripID != "" {
		if _, err := memberTrip(ctx, s.store, restaurant.TripID); err != nil {
			return nil, err
		}
	}

	if err := s.store.CreateRestaurant(ctx, restaurant); err != nil {
		s.logger.Error("Failed to create restaurant", "user_id", userID, "error", err)
		return nil, toConnectError(err)
	}

	s.logger.Info("Restaurant added", "restaurant_id", restaurant.ID, "user_id", userID, "trip_id", restaurant.TripID)
	return connect.NewResponse(&RestaurantResponse{
		Restaurant: toRestaurantMessage(restaurant, calculator.VisitStats{}),
	}), nil
}

// GetRestaurant returns one of the caller's restaurants with its visit stats.
func (s *RestaurantService) GetRestaurant(ctx context.Context, req *connect.Request[RestaurantRequest]) (*connect.Response[RestaurantResponse], error) {
	restaurant, err := s.ownedRestaurant(ctx, req.Msg.RestaurantID)
	if err != nil {
		return nil, err
	}

	rates := s.rates.Get(ctx, currency.ReportingCurrency).Rates
	msg, err := s.restaurantMessage(ctx, restaurant, rates)
	if err != nil {
		return nil, err
	}
	return connect.NewResponse(&RestaurantResponse{Restaurant: msg}), nil
}

// ListRestaurants returns the caller's journal, newest entry first. With
// TripID set only the entries linked to that trip are returned.
func (s *RestaurantService) ListRestaurants(ctx context.Context, req *connect.Request[ListRestaurantsRequest]) (*connect.Response[ListRestaurantsResponse], error) {
	userID, err := callerID(ctx)
	if err != nil {
		return nil, err
	}

	restaurants, err := s.store.ListRestaurantsByUser(ctx, userID)
	if err != nil {
		s.logger.Error("Failed to list restaurants", "user_id", userID, "error", err)
		return nil, toConnectError(err)
	}

	rates := s.rates.Get(ctx, currency.ReportingCurrency).Rates
	resp := &ListRestaurantsResponse{Restaurants: []*Restaurant{}}
	for _, r := range restaurants {
		if req.Msg.TripID != "" && r.TripID != req.Msg.TripID {
			continue
		}
		msg, err := s.restaurantMessage(ctx, r, rates)
		if err != nil {
			return nil, err
		}
		resp.Restaurants = append(resp.Restaurants, msg)
	}
	return connect.NewResponse(resp), nil
}

// UpdateRestaurant edits a journal entry. Linking to a different trip
// requires membership of that trip.
func (s *RestaurantService) UpdateRestaurant(ctx context.Context, req *connect.Request[UpdateRestaurantRequest]) (*connect.Response[RestaurantResponse], error) {
	restaurant, err := s.ownedRestaurant(ctx, req.Msg.RestaurantID)
	if err != nil {
		return nil, err
	}

	previousTrip := restaurant.TripID
	applyRestaurantFields(restaurant, req.Msg.RestaurantFields)
	if err := restaurant.Validate(); err != nil {
		return nil, toConnectError(err)
	}
	if restaurant.TripID != "" && restaurant.TripID != previousTrip {
		if _, err := memberTrip(ctx, s.store, restaurant.TripID); err != nil {
			return nil, err
		}
	}

	if err := s.store.UpdateRestaurant(ctx, restaurant); err != nil {
		s.logger.Error("Failed to update restaurant", "restaurant_id", restaurant.ID, "error", err)
		return nil, toConnectError(err)
	}

	rates := s.rates.Get(ctx, currency.ReportingCurrency).Rates
	msg, err := s.restaurantMessage(ctx, restaurant, rates)
	if err != nil {
		return nil, err
	}
	return connect.NewResponse(&RestaurantResponse{Restaurant: msg}), nil
}

// DeleteRestaurant removes a journal entry and all of its visits.
func (s *RestaurantService) DeleteRestaurant(ctx context.Context, req *connect.Request[RestaurantRequest]) (*connect.Response[DeleteResponse], error) {
	restaurant, err := s.ownedRestaurant(ctx, req.Msg.RestaurantID)
	if err != nil {
		return nil, err
	}

	if err := s.store.DeleteRestaurant(ctx, restaurant.ID); err != nil {
		s.logger.Error("Failed to delete restaurant", "restaurant_id", restaurant.ID, "error", err)
		return nil, toConnectError(err)
	}

	s.logger.Info("Restaurant deleted", "restaurant_id", restaurant.ID)
	return connect.NewResponse(&DeleteResponse{}), nil
}

// AddVisit logs a meal at one of the caller's restaurants.
func (s *RestaurantService) AddVisit(ctx context.Context, req *connect.Request[AddVisitRequest]) (*connect.Response[VisitResponse], error) {
	restaurant, err := s.ownedRestaurant(ctx, req.Msg.RestaurantID)
	if err != nil {
		return nil, err
	}

	m := req.Msg
	code := strings.ToUpper(strings.TrimSpace(m.Currency))
	if code == "" {
		code = currency.ReportingCurrency
	}
	visit := &models.Visit{
		RestaurantID: restaurant.ID,
		UserID:       restaurant.UserID,
		Date:         m.Date,
		Rating:       m.Rating,
		TotalPrice:   m.TotalPrice,
		Currency:     code,
		Notes:        strings.TrimSpace(m.Notes),
		Dishes:       make([]models.Dish, len(m.Dishes)),
	}
	for i, d := range m.Dishes {
		visit.Dishes[i] = models.Dish{Name: strings.TrimSpace(d.Name), Rating: d.Rating}
	}
	if err := visit.Validate(); err != nil {
		return nil, toConnectError(err)
	}

	if err := s.store.CreateVisit(ctx, visit); err != nil {
		s.logger.Error("Failed to create visit", "restaurant_id", restaurant.ID, "error", err)
		return nil, toConnectError(err)
	}

	s.logger.Info("Visit added",
		"restaurant_id", restaurant.ID,
		"visit_id", visit.ID,
		"rating", visit.Rating,
		"dishes", len(visit.Dishes),
	)
	return connect.NewResponse(&VisitResponse{Visit: toVisitMessage(visit)}), nil
}

// DeleteVisit removes a visit from one of the caller's restaurants.
func (s *RestaurantService) DeleteVisit(ctx context.Context, req *connect.Request[VisitRequest]) (*connect.Response[DeleteResponse], error) {
	if _, err := callerID(ctx); err != nil {
		return nil, err
	}
	if req.Msg.VisitID == "" {
		return nil, invalidArgument("visit id is required")
	}

	visit, err := s.store.GetVisit(ctx, req.Msg.VisitID)
	if err != nil {
		return nil, toConnectError(err)
	}
	if _, err := s.ownedRestaurant(ctx, visit.RestaurantID); err != nil {
		return nil, err
	}

	if err := s.store.DeleteVisit(ctx, visit.ID); err != nil {
		s.logger.Error("Failed to delete visit", "visit_id", visit.ID, "error", err)
		return nil, toConnectError(err)
	}

	s.logger.Info("Visit deleted", "visit_id", visit.ID, "restaurant_id", visit.RestaurantID)
	return connect.NewResponse(&DeleteResponse{}), nil
}

// ListVisits returns a restaurant's visits, most recent first.
func (s *RestaurantService) ListVisits(ctx context.Context, req *connect.Request[RestaurantRequest]) (*connect.Response[ListVisitsResponse], error) {
	restaurant, err := s.ownedRestaurant(ctx, req.Msg.RestaurantID)
	if err != nil {
		return nil, err
	}

	visits, err := s.store.ListVisitsByRestaurant(ctx, restaurant.ID)
	if err != nil {
		s.logger.Error("Failed to list visits", "restaurant_id", restaurant.ID, "error", err)
		return nil, toConnectError(err)
	}

	resp := &ListVisitsResponse{Visits: make([]*Visit, len(visits))}
	for i, v := range visits {
		resp.Visits[i] = toVisitMessage(v)
	}
	return connect.NewResponse(resp), nil
}

// ownedRestaurant loads a restaurant and checks that the caller owns it.
func (s *RestaurantService) ownedRestaurant(ctx context.Context, restaurantID string) (*models.Restaurant, error) {
	userID, err := callerID(ctx)
	if err != nil {
		return nil, err
	}
	if restaurantID == "" {
		return nil, invalidArgument("restaurant id is required")
	}

	restaurant, err := s.store.GetRestaurant(ctx, restaurantID)
	if err != nil {
		return nil, toConnectError(err)
	}
	if restaurant.UserID != userID {
		return nil, connect.NewError(connect.CodePermissionDenied, errNotOwner)
	}
	return restaurant, nil
}

func (s *RestaurantService) restaurantMessage(ctx context.Context, r *models.Restaurant, rates currency.RateTable) (*Restaurant, error) {
	visits, err := s.store.ListVisitsByRestaurant(ctx, r.ID)
	if err != nil {
		s.logger.Error("Failed to list visits", "restaurant_id", r.ID, "error", err)
		return nil, toConnectError(err)
	}
	return toRestaurantMessage(r, calculator.SummarizeVisits(toCalculatorVisits(visits), rates)), nil
}

func toCalculatorVisits(visits []*models.Visit) []calculator.Visit {
	out := make([]calculator.Visit, len(visits))
	for i, v := range visits {
		out[i] = calculator.Visit{Rating: v.Rating, Price: v.TotalPrice, Currency: v.Currency}
	}
	return out
}
