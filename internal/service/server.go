package service

import (
	"log/slog"
	"net/http"

	"connectrpc.com/connect"

	"github.com/mmynk/tripledger/internal/auth"
	"github.com/mmynk/tripledger/internal/middleware"
	"github.com/mmynk/tripledger/internal/storage"
)

// Services bundles the RPC services of the API.
type Services struct {
	Auth     *AuthService
	Trips    *TripService
	Expenses *ExpenseService
	Currency *CurrencyService

	Notes       *NoteService
	Restaurants *RestaurantService
}

// NewServices wires every service to the same store, rate source and logger.
func NewServices(store storage.Store, rates RateSource, jwtManager *auth.JWTManager, logger *slog.Logger) *Services {
	return &Services{
		Auth:     NewAuthService(auth.NewPasswordAuthenticator(store), jwtManager, store, logger),
		Trips:    NewTripService(store, rates, logger),
		Expenses: NewExpenseService(store, logger),
		Currency: NewCurrencyService(rates, logger),

		Notes:       NewNoteService(store, logger),
		Restaurants: NewRestaurantService(store, rates, logger),
	}
}

// Mount registers all procedures on mux. Every call is counted and logged;
// only the auth service accepts anonymous callers.
func (s *Services) Mount(mux *http.ServeMux, jwtManager *auth.JWTManager, logger *slog.Logger) {
	public := connect.WithInterceptors(
		middleware.MetricsInterceptor(),
		middleware.OptionalAuth(jwtManager),
		middleware.LoggingInterceptor(logger),
	)
	protected := connect.WithInterceptors(
		middleware.MetricsInterceptor(),
		middleware.RequireAuth(jwtManager),
		middleware.LoggingInterceptor(logger),
	)

	s.Auth.Mount(mux, public)
	s.Trips.Mount(mux, protected)
	s.Expenses.Mount(mux, protected)
	s.Currency.Mount(mux, protected)
	s.Notes.Mount(mux, protected)
	s.Restaurants.Mount(mux, protected)
}
