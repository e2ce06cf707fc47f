package chart

import (
	"bytes"
	"context"
	"log/slog"
	"net/http"

	"connectrpc.com/connect"

	"github.com/mmynk/tripledger/internal/auth"
	"github.com/mmynk/tripledger/internal/calculator"
	"github.com/mmynk/tripledger/internal/currency"
	"github.com/mmynk/tripledger/internal/middleware"
)

// Breakdown supplies the category totals of a trip for the caller in ctx.
// Errors carry connect codes.
type Breakdown interface {
	CategoryBreakdown(ctx context.Context, tripID string) ([]calculator.CategoryTotal, error)
}

// Handler serves trip charts over plain HTTP.
type Handler struct {
	source Breakdown
	logger *slog.Logger
}

// NewHandler creates a chart handler backed by source.
func NewHandler(source Breakdown, logger *slog.Logger) *Handler {
	return &Handler{source: source, logger: logger}
}

// Mount registers the chart routes on mux behind bearer authentication.
func (h *Handler) Mount(mux *http.ServeMux, jwtManager *auth.JWTManager) {
	mux.Handle("GET /charts/trips/{tripID}/categories.svg",
		middleware.RequireAuthHTTP(jwtManager, http.HandlerFunc(h.servePie)))
	mux.Handle("GET /charts/trips/{tripID}/categories.png",
		middleware.RequireAuthHTTP(jwtManager, http.HandlerFunc(h.serveBars)))
}

func (h *Handler) servePie(w http.ResponseWriter, r *http.Request) {
	h.serve(w, r, "image/svg+xml", func(buf *bytes.Buffer, totals []calculator.CategoryTotal) error {
		return WritePieSVG(buf, totals)
	})
}

func (h *Handler) serveBars(w http.ResponseWriter, r *http.Request) {
	h.serve(w, r, "image/png", func(buf *bytes.Buffer, totals []calculator.CategoryTotal) error {
		return WriteBarPNG(buf, totals, currency.ReportingCurrency)
	})
}

func (h *Handler) serve(w http.ResponseWriter, r *http.Request, contentType string, render func(*bytes.Buffer, []calculator.CategoryTotal) error) {
	tripID := r.PathValue("tripID")

	totals, err := h.source.CategoryBreakdown(r.Context(), tripID)
	if err != nil {
		status := httpStatus(err)
		if status >= http.StatusInternalServerError {
			h.logger.Error("Chart data failed", "trip_id", tripID, "error", err)
		}
		http.Error(w, http.StatusText(status), status)
		return
	}

	var buf bytes.Buffer
	if err := render(&buf, totals); err != nil {
		h.logger.Error("Chart rendering failed", "trip_id", tripID, "format", contentType, "error", err)
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", contentType)
	w.Header().Set("Cache-Control", "no-store")
	if _, err := w.Write(buf.Bytes()); err != nil {
		h.logger.Warn("Chart write failed", "trip_id", tripID, "error", err)
	}
}

func httpStatus(err error) int {
	switch connect.CodeOf(err) {
	case connect.CodeInvalidArgument:
		return http.StatusBadRequest
	case connect.CodeUnauthenticated:
		return http.StatusUnauthorized
	case connect.CodePermissionDenied:
		return http.StatusForbidden
	case connect.CodeNotFound:
		return http.StatusNotFound
	default:
		return http.StatusInternalServerError
	}
}
