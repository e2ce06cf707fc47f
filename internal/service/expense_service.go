package service

import (
	"context"
	"log/slog"
	"net/http"
	"strings"

	"connectrpc.com/connect"

	"github.com/mmynk/tripledger/internal/models"
	"github.com/mmynk/tripledger/internal/storage"
)

const expenseServiceName = "ExpenseService"

// ExpenseService records and edits the expenses of a trip.
type ExpenseService struct {
	store  storage.Store
	logger *slog.Logger
}

// NewExpenseService creates a new ExpenseService.
func NewExpenseService(store storage.Store, logger *slog.Logger) *ExpenseService {
	return &ExpenseService{store: store, logger: logger}
}

// Mount registers the service's procedures on mux.
func (s *ExpenseService) Mount(mux *http.ServeMux, opts ...connect.HandlerOption) {
	handle(mux, procedure(expenseServiceName, "AddExpense"), s.AddExpense, opts...)
	handle(mux, procedure(expenseServiceName, "UpdateExpense"), s.UpdateExpense, opts...)
	handle(mux, procedure(expenseServiceName, "DeleteExpense"), s.DeleteExpense, opts...)
	handle(mux, procedure(expenseServiceName, "ListExpenses"), s.ListExpenses, opts...)
}

// validatePayer checks that a named payer belongs to the trip.
// An empty payer leaves the expense unattributed.
func validatePayer(payerID string, trip *models.Trip) error {
	if payerID == "" || trip.HasMember(payerID) {
		return nil
	}
	return invalidArgument("payer %q is not a member of this trip", payerID)
}

func parseExpenseFields(expense *models.Expense, amount float64, code, category, description, paidBy string, date int64) error {
	cat, err := models.ParseCategory(category)
	if err != nil {
		return err
	}
	expense.Amount = amount
	expense.Currency = strings.ToUpper(strings.TrimSpace(code))
	expense.Category = cat
	expense.Description = strings.TrimSpace(description)
	expense.PaidBy = paidBy
	expense.Date = date
	return expense.Validate()
}

// AddExpense records a new expense on a trip the caller belongs to.
func (s *ExpenseService) AddExpense(ctx context.Context, req *connect.Request[AddExpenseRequest]) (*connect.Response[ExpenseResponse], error) {
	trip, err := memberTrip(ctx, s.store, req.Msg.TripID)
	if err != nil {
		return nil, err
	}

	expense := &models.Expense{TripID: trip.ID}
	m := req.Msg
	if err := parseExpenseFields(expense, m.Amount, m.Currency, m.Category, m.Description, m.PaidBy, m.Date); err != nil {
		return nil, toConnectError(err)
	}
	if err := validatePayer(expense.PaidBy, trip); err != nil {
		return nil, err
	}

	if err := s.store.CreateExpense(ctx, expense); err != nil {
		s.logger.Error("Failed to create expense", "trip_id", trip.ID, "error", err)
		return nil, toConnectError(err)
	}

	s.logger.Info("Expense added",
		"trip_id", trip.ID,
		"expense_id", expense.ID,
		"amount", expense.Amount,
		"currency", expense.Currency,
	)
	return connect.NewResponse(&ExpenseResponse{Expense: toExpenseMessage(expense)}), nil
}

// UpdateExpense edits an existing expense. Its trip cannot change.
func (s *ExpenseService) UpdateExpense(ctx context.Context, req *connect.Request[UpdateExpenseRequest]) (*connect.Response[ExpenseResponse], error) {
	expense, trip, err := s.memberExpense(ctx, req.Msg.ExpenseID)
	if err != nil {
		return nil, err
	}

	m := req.Msg
	if err := parseExpenseFields(expense, m.Amount, m.Currency, m.Category, m.Description, m.PaidBy, m.Date); err != nil {
		return nil, toConnectError(err)
	}
	if err := validatePayer(expense.PaidBy, trip); err != nil {
		return nil, err
	}

	if err := s.store.UpdateExpense(ctx, expense); err != nil {
		s.logger.Error("Failed to update expense", "expense_id", expense.ID, "error", err)
		return nil, toConnectError(err)
	}

	return connect.NewResponse(&ExpenseResponse{Expense: toExpenseMessage(expense)}), nil
}

// DeleteExpense removes an expense.
func (s *ExpenseService) DeleteExpense(ctx context.Context, req *connect.Request[ExpenseRequest]) (*connect.Response[DeleteResponse], error) {
	expense, _, err := s.memberExpense(ctx, req.Msg.ExpenseID)
	if err != nil {
		return nil, err
	}

	if err := s.store.DeleteExpense(ctx, expense.ID); err != nil {
		s.logger.Error("Failed to delete expense", "expense_id", expense.ID, "error", err)
		return nil, toConnectError(err)
	}

	s.logger.Info("Expense deleted", "expense_id", expense.ID, "trip_id", expense.TripID)
	return connect.NewResponse(&DeleteResponse{}), nil
}

// ListExpenses returns a trip's expenses, most recent first.
func (s *ExpenseService) ListExpenses(ctx context.Context, req *connect.Request[TripRequest]) (*connect.Response[ListExpensesResponse], error) {
	trip, err := memberTrip(ctx, s.store, req.Msg.TripID)
	if err != nil {
		return nil, err
	}

	expenses, err := s.store.ListExpensesByTrip(ctx, trip.ID)
	if err != nil {
		s.logger.Error("Failed to list expenses", "trip_id", trip.ID, "error", err)
		return nil, toConnectError(err)
	}

	resp := &ListExpensesResponse{Expenses: make([]*Expense, len(expenses))}
	for i, e := range expenses {
		resp.Expenses[i] = toExpenseMessage(e)
	}
	return connect.NewResponse(resp), nil
}

// memberExpense loads an expense and the trip it belongs to, checking that
// the caller is a member of that trip.
func (s *ExpenseService) memberExpense(ctx context.Context, expenseID string) (*models.Expense, *models.Trip, error) {
	if _, err := callerID(ctx); err != nil {
		return nil, nil, err
	}
	if expenseID == "" {
		return nil, nil, invalidArgument("expense id is required")
	}

	expense, err := s.store.GetExpense(ctx, expenseID)
	if err != nil {
		return nil, nil, toConnectError(err)
	}
	trip, err := memberTrip(ctx, s.store, expense.TripID)
	if err != nil {
		return nil, nil, err
	}
	return expense, trip, nil
}
