package service

import (
	"context"
	"log/slog"
	"math"
	"net/http"
	"slices"
	"strings"

	"connectrpc.com/connect"

	"github.com/mmynk/tripledger/internal/currency"
	"github.com/mmynk/tripledger/internal/models"
)

const currencyServiceName = "CurrencyService"

// RateSource serves exchange-rate tables. *currency.Cache implements it.
type RateSource interface {
	Get(ctx context.Context, base string) currency.Snapshot
	Refresh(ctx context.Context, base string) (currency.Snapshot, error)
}

var _ RateSource = (*currency.Cache)(nil)

// CurrencyService exposes the cached rate table and ad-hoc conversions.
type CurrencyService struct {
	rates  RateSource
	logger *slog.Logger
}

// NewCurrencyService creates a new CurrencyService.
func NewCurrencyService(rates RateSource, logger *slog.Logger) *CurrencyService {
	return &CurrencyService{rates: rates, logger: logger}
}

// Mount registers the service's procedures on mux.
func (s *CurrencyService) Mount(mux *http.ServeMux, opts ...connect.HandlerOption) {
	handle(mux, procedure(currencyServiceName, "GetExchangeRates"), s.GetExchangeRates, opts...)
	handle(mux, procedure(currencyServiceName, "Convert"), s.Convert, opts...)
}

// GetExchangeRates returns the current rate table against the reporting
// currency. With Refresh set the provider is queried even if the cached table
// is still fresh; on failure the cached table is returned marked stale.
func (s *CurrencyService) GetExchangeRates(ctx context.Context, req *connect.Request[GetExchangeRatesRequest]) (*connect.Response[ExchangeRatesResponse], error) {
	if _, err := callerID(ctx); err != nil {
		return nil, err
	}

	var snapshot currency.Snapshot
	if req.Msg.Refresh {
		var err error
		snapshot, err = s.rates.Refresh(ctx, currency.ReportingCurrency)
		if err != nil {
			s.logger.Warn("Forced rate refresh failed", "error", err)
			snapshot = s.rates.Get(ctx, currency.ReportingCurrency)
		}
	} else {
		snapshot = s.rates.Get(ctx, currency.ReportingCurrency)
	}

	resp := &ExchangeRatesResponse{
		Base:  snapshot.Base,
		Rates: snapshot.Rates,
		Stale: snapshot.Stale,

		Supported: slices.Clone(models.SupportedCurrencies),
	}
	if resp.Rates == nil {
		resp.Rates = map[string]float64{}
	}
	if !snapshot.FetchedAt.IsZero() {
		resp.FetchedAt = snapshot.FetchedAt.Unix()
	}
	return connect.NewResponse(resp), nil
}

// Convert converts an amount between two currencies. A missing rate passes
// the amount through unchanged and reports Converted=false.
func (s *CurrencyService) Convert(ctx context.Context, req *connect.Request[ConvertRequest]) (*connect.Response[ConvertResponse], error) {
	if _, err := callerID(ctx); err != nil {
		return nil, err
	}

	amount := req.Msg.Amount
	if math.IsNaN(amount) || math.IsInf(amount, 0) {
		return nil, invalidArgument("amount must be a finite number")
	}
	from := strings.ToUpper(strings.TrimSpace(req.Msg.From))
	to := strings.ToUpper(strings.TrimSpace(req.Msg.To))
	if len(from) != 3 || len(to) != 3 {
		return nil, invalidArgument("currency codes must have 3 letters")
	}

	snapshot := s.rates.Get(ctx, currency.ReportingCurrency)
	converted := currency.Normalize(amount, from, to, snapshot.Rates)

	return connect.NewResponse(&ConvertResponse{
		Amount:    converted,
		Display:   formatMoney(converted, to),
		Converted: currency.Convertible(from, to, snapshot.Rates),
		Stale:     snapshot.Stale,
	}), nil
}
