package service

import (
	"github.com/mmynk/tripledger/internal/calculator"
	"github.com/mmynk/tripledger/internal/currency"
	"github.com/mmynk/tripledger/internal/models"
)

// User is the public view of an account.
type User struct {
	ID          string `json:"id"`
	Email       string `json:"email"`
	DisplayName string `json:"displayName"`
	CreatedAt   int64  `json:"createdAt"`
}

type RegisterRequest struct {
	Email       string `json:"email"`
	Password    string `json:"password"`
	DisplayName string `json:"displayName"`
}

type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// AuthResponse is returned by Register and Login.
type AuthResponse struct {
	User  *User  `json:"user"`
	Token string `json:"token"`
}

type GetCurrentUserRequest struct{}

type UpdateNicknameRequest struct {
	DisplayName string `json:"displayName"`
}

// UserResponse wraps a single user.
type UserResponse struct {
	User *User `json:"user"`
}

// Member is a trip member with its resolved nickname.
type Member struct {
	ID          string `json:"id"`
	DisplayName string `json:"displayName"`
}

type Trip struct {
	ID         string   `json:"id"`
	Name       string   `json:"name"`
	CoverImage string   `json:"coverImage,omitempty"`
	Icon       string   `json:"icon,omitempty"`
	Color      string   `json:"color,omitempty"`
	StartDate  int64    `json:"startDate"`
	EndDate    int64    `json:"endDate"`
	Members    []Member `json:"members"`
	CreatedAt  int64    `json:"createdAt"`
	UpdatedAt  int64    `json:"updatedAt"`
}

type CreateTripRequest struct {
	Name       string `json:"name"`
	CoverImage string `json:"coverImage"`
	Icon       string `json:"icon"`
	Color      string `json:"color"`
	StartDate  int64  `json:"startDate"`
	EndDate    int64  `json:"endDate"`
}

type UpdateTripRequest struct {
	TripID     string `json:"tripId"`
	Name       string `json:"name"`
	CoverImage string `json:"coverImage"`
	Icon       string `json:"icon"`
	Color      string `json:"color"`
	StartDate  int64  `json:"startDate"`
	EndDate    int64  `json:"endDate"`
}

// TripRequest addresses a single trip.
type TripRequest struct {
	TripID string `json:"tripId"`
}

type TripResponse struct {
	Trip *Trip `json:"trip"`
}

type ListTripsRequest struct{}

type ListTripsResponse struct {
	Trips []*Trip `json:"trips"`
}

// AddMemberRequest adds a registered user to a trip, by ID or by email.
type AddMemberRequest struct {
	TripID string `json:"tripId"`
	UserID string `json:"userId,omitempty"`
	Email  string `json:"email,omitempty"`
}

type DeleteResponse struct{}

type Expense struct {
	ID          string          `json:"id"`
	TripID      string          `json:"tripId"`
	Amount      float64         `json:"amount"`
	Currency    string          `json:"currency"`
	Category    models.Category `json:"category"`
	Description string          `json:"description"`
	PaidBy      string          `json:"paidBy,omitempty"`
	Date        int64           `json:"date"`
	CreatedAt   int64           `json:"createdAt"`
}

type AddExpenseRequest struct {
	TripID      string  `json:"tripId"`
	Amount      float64 `json:"amount"`
	Currency    string  `json:"currency"`
	Category    string  `json:"category"`
	Description string  `json:"description"`
	PaidBy      string  `json:"paidBy"`
	Date        int64   `json:"date"`
}

type UpdateExpenseRequest struct {
	ExpenseID   string  `json:"expenseId"`
	Amount      float64 `json:"amount"`
	Currency    string  `json:"currency"`
	Category    string  `json:"category"`
	Description string  `json:"description"`
	PaidBy      string  `json:"paidBy"`
	Date        int64   `json:"date"`
}

type ExpenseRequest struct {
	ExpenseID string `json:"expenseId"`
}

type ExpenseResponse struct {
	Expense *Expense `json:"expense"`
}

type ListExpensesResponse struct {
	Expenses []*Expense `json:"expenses"`
}

// BalanceEntry is one member's position in a trip summary.
type BalanceEntry struct {
	MemberID       string  `json:"memberId"`
	DisplayName    string  `json:"displayName"`
	Paid           float64 `json:"paid"`
	Balance        float64 `json:"balance"`
	PaidDisplay    string  `json:"paidDisplay"`
	BalanceDisplay string  `json:"balanceDisplay"`
}

// SettlementEntry is a suggested transfer.
type SettlementEntry struct {
	FromID        string  `json:"fromId"`
	From          string  `json:"from"`
	ToID          string  `json:"toId"`
	To            string  `json:"to"`
	Amount        float64 `json:"amount"`
	AmountDisplay string  `json:"amountDisplay"`
}

// CategoryEntry is one category's share of the trip spend.
type CategoryEntry struct {
	Category          models.Category `json:"category"`
	Color             string          `json:"color"`
	Amount            float64         `json:"amount"`
	Percentage        float64         `json:"percentage"`
	AmountDisplay     string          `json:"amountDisplay"`
	PercentageDisplay string          `json:"percentageDisplay"`
}

type TripSummaryResponse struct {
	TripID            string            `json:"tripId"`
	Currency          string            `json:"currency"`
	Total             float64           `json:"total"`
	TotalDisplay      string            `json:"totalDisplay"`
	EqualShare        float64           `json:"equalShare"`
	EqualShareDisplay string            `json:"equalShareDisplay"`
	Balances          []BalanceEntry    `json:"balances"`
	Settlements       []SettlementEntry `json:"settlements"`
	Categories        []CategoryEntry   `json:"categories"`
	RatesStale        bool              `json:"ratesStale"`
	RatesFetchedAt    int64             `json:"ratesFetchedAt,omitempty"`
}

type GetExchangeRatesRequest struct {
	Refresh bool `json:"refresh"`
}

type ExchangeRatesResponse struct {
	Base      string             `json:"base"`
	Rates     map[string]float64 `json:"rates"`
	FetchedAt int64              `json:"fetchedAt,omitempty"`
	Stale     bool               `json:"stale"`
	// Supported lists the currencies offered when entering an expense.
	Supported []string `json:"supported"`
}

type ConvertRequest struct {
	Amount float64 `json:"amount"`
	From   string  `json:"from"`
	To     string  `json:"to"`
}

type ConvertResponse struct {
	Amount  float64 `json:"amount"`
	Display string  `json:"display"`
	// Converted is false when a rate was missing and the amount passed through unchanged.
	Converted bool `json:"converted"`
	Stale     bool `json:"stale"`
}

func toUserMessage(u *models.User) *User {
	return &User{
		ID:          u.ID,
		Email:       u.Email,
		DisplayName: u.DisplayName,
		CreatedAt:   u.CreatedAt,
	}
}

func toExpenseMessage(e *models.Expense) *Expense {
	return &Expense{
		ID:          e.ID,
		TripID:      e.TripID,
		Amount:      e.Amount,
		Currency:    e.Currency,
		Category:    e.Category,
		Description: e.Description,
		PaidBy:      e.PaidBy,
		Date:        e.Date,
		CreatedAt:   e.CreatedAt,
	}
}

type Note struct {
	ID            string `json:"id"`
	TripID        string `json:"tripId"`
	Title         string `json:"title"`
	Content       string `json:"content"`
	CreatedBy     string `json:"createdBy"`
	CreatedByName string `json:"createdByName"`
	CreatedAt     int64  `json:"createdAt"`
	UpdatedAt     int64  `json:"updatedAt"`
}

type AddNoteRequest struct {
	TripID  string `json:"tripId"`
	Title   string `json:"title"`
	Content string `json:"content"`
}

type UpdateNoteRequest struct {
	NoteID  string `json:"noteId"`
	Title   string `json:"title"`
	Content string `json:"content"`
}

type NoteRequest struct {
	NoteID string `json:"noteId"`
}

type NoteResponse struct {
	Note *Note `json:"note"`
}

type ListNotesResponse struct {
	Notes []*Note `json:"notes"`
}

type Coordinates struct {
	Lat float64 `json:"lat"`
	Lng float64 `json:"lng"`
}

// Restaurant is a journal entry with its visit statistics.
type Restaurant struct {
	ID          string       `json:"id"`
	TripID      string       `json:"tripId,omitempty"`
	Name        string       `json:"name"`
	Address     string       `json:"address,omitempty"`
	City        string       `json:"city,omitempty"`
	Country     string       `json:"country,omitempty"`
	MapsLink    string       `json:"googleMapsLink,omitempty"`
	CuisineType string       `json:"cuisineType,omitempty"`
	Coordinates *Coordinates `json:"coordinates,omitempty"`
	CreatedAt   int64        `json:"createdAt"`

	VisitCount           int     `json:"visitCount"`
	AverageRating        float64 `json:"averageRating"`
	AveragePrice         float64 `json:"averagePrice"`
	AverageRatingDisplay string  `json:"averageRatingDisplay"`
	AveragePriceDisplay  string  `json:"averagePriceDisplay"`
}

// RestaurantFields are the editable fields of a journal entry.
type RestaurantFields struct {
	TripID      string       `json:"tripId"`
	Name        string       `json:"name"`
	Address     string       `json:"address"`
	City        string       `json:"city"`
	Country     string       `json:"country"`
	MapsLink    string       `json:"googleMapsLink"`
	CuisineType string       `json:"cuisineType"`
	Coordinates *Coordinates `json:"coordinates,omitempty"`
}

type AddRestaurantRequest struct {
	RestaurantFields
}

type UpdateRestaurantRequest struct {
	RestaurantID string `json:"restaurantId"`
	RestaurantFields
}

type RestaurantRequest struct {
	RestaurantID string `json:"restaurantId"`
}

// ListRestaurantsRequest lists the caller's journal, optionally only the
// entries linked to one trip.
type ListRestaurantsRequest struct {
	TripID string `json:"tripId,omitempty"`
}

type RestaurantResponse struct {
	Restaurant *Restaurant `json:"restaurant"`
}

type ListRestaurantsResponse struct {
	Restaurants []*Restaurant `json:"restaurants"`
}

type Dish struct {
	Name   string `json:"name"`
	Rating int    `json:"rating,omitempty"`
}

type Visit struct {
	ID           string  `json:"id"`
	RestaurantID string  `json:"restaurantId"`
	UserID       string  `json:"userId"`
	Date         int64   `json:"date"`
	Rating       int     `json:"rating"`
	TotalPrice   float64 `json:"totalPrice"`
	Currency     string  `json:"currency"`
	PriceDisplay string  `json:"priceDisplay"`
	Notes        string  `json:"notes,omitempty"`
	Dishes       []Dish  `json:"dishes"`
	CreatedAt    int64   `json:"createdAt"`
}

type AddVisitRequest struct {
	RestaurantID string  `json:"restaurantId"`
	Date         int64   `json:"date"`
	Rating       int     `json:"rating"`
	TotalPrice   float64 `json:"totalPrice"`
	// Currency defaults to the reporting currency.
	Currency string `json:"currency"`
	Notes    string `json:"notes"`
	Dishes   []Dish `json:"dishes"`
}

type VisitRequest struct {
	VisitID string `json:"visitId"`
}

type VisitResponse struct {
	Visit *Visit `json:"visit"`
}

type ListVisitsResponse struct {
	Visits []*Visit `json:"visits"`
}

func toNoteMessage(n *models.Note, names map[string]string) *Note {
	name, ok := names[n.CreatedBy]
	if !ok || name == "" {
		name = calculator.UnknownMember
	}
	return &Note{
		ID:            n.ID,
		TripID:        n.TripID,
		Title:         n.Title,
		Content:       n.Content,
		CreatedBy:     n.CreatedBy,
		CreatedByName: name,
		CreatedAt:     n.CreatedAt,
		UpdatedAt:     n.UpdatedAt,
	}
}

func toRestaurantMessage(r *models.Restaurant, stats calculator.VisitStats) *Restaurant {
	msg := &Restaurant{
		ID:          r.ID,
		TripID:      r.TripID,
		Name:        r.Name,
		Address:     r.Address,
		City:        r.City,
		Country:     r.Country,
		MapsLink:    r.MapsLink,
		CuisineType: r.CuisineType,
		CreatedAt:   r.CreatedAt,

		VisitCount:           stats.Count,
		AverageRating:        stats.AverageRating,
		AveragePrice:         stats.AveragePrice,
		AverageRatingDisplay: noValue,
		AveragePriceDisplay:  noValue,
	}
	if r.Coordinates != nil {
		msg.Coordinates = &Coordinates{Lat: r.Coordinates.Lat, Lng: r.Coordinates.Lng}
	}
	if stats.Count > 0 {
		msg.AverageRatingDisplay = formatRating(stats.AverageRating)
	}
	if stats.PricedVisits > 0 {
		msg.AveragePriceDisplay = formatMoney(stats.AveragePrice, currency.ReportingCurrency)
	}
	return msg
}

func toVisitMessage(v *models.Visit) *Visit {
	dishes := make([]Dish, len(v.Dishes))
	for i, d := range v.Dishes {
		dishes[i] = Dish{Name: d.Name, Rating: d.Rating}
	}
	msg := &Visit{
		ID:           v.ID,
		RestaurantID: v.RestaurantID,
		UserID:       v.UserID,
		Date:         v.Date,
		Rating:       v.Rating,
		TotalPrice:   v.TotalPrice,
		Currency:     v.Currency,
		PriceDisplay: noValue,
		Notes:        v.Notes,
		Dishes:       dishes,
		CreatedAt:    v.CreatedAt,
	}
	if v.TotalPrice > 0 {
		msg.PriceDisplay = formatMoney(v.TotalPrice, v.Currency)
	}
	return msg
}
