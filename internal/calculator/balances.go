package calculator

import (
	"math"
	"sort"

	"github.com/mmynk/tripledger/internal/currency"
	"github.com/mmynk/tripledger/internal/models"
)

// Epsilon is the absolute tolerance, in reporting-currency units, below which
// a balance or transfer is treated as settled.
const Epsilon = 0.01

// UnknownMember is the name shown for members without a resolved display name.
const UnknownMember = "Unknown"

// Expense represents an expense with the minimal information needed for balance calculations.
type Expense struct {
	Amount   float64
	Currency string
	Category models.Category
	PaidBy   string // Member ID; empty when nobody is recorded as payer
}

// Balance represents the balance information for one trip member.
type Balance struct {
	MemberID string
	Name     string
	Paid     float64 // Total paid, in the reporting currency
	Balance  float64 // Positive = owed money, Negative = owes money
}

// Settlement is a suggested transfer from a debtor to a creditor.
type Settlement struct {
	FromID string
	From   string // Debtor's display name
	ToID   string
	To     string // Creditor's display name
	Amount float64
}

// EqualShare returns the total normalized spend divided by the member count,
// or 0 when there are no members.
func EqualShare(members []string, expenses []Expense, rates currency.RateTable) float64 {
	if len(members) == 0 {
		return 0
	}
	return Total(expenses, rates) / float64(len(members))
}

// ComputeBalances computes each member's net position against an equal split
// of the trip total.
//
// Algorithm:
// - Every member starts at 0 paid, so members without expenses still appear
// - Each expense is normalized to the reporting currency and added to the total
// - The payer, if any, is credited with the normalized amount. Unattributed
// expenses (and payers who are not members) only raise the total
// - balance = paid - total/len(members)
//
// The result is sorted by balance, largest creditor first. Members with equal
// balances keep their order in members.
func ComputeBalances(members []string, expenses []Expense, names map[string]string, rates currency.RateTable) []Balance {
	if len(members) == 0 {
		return []Balance{}
	}

	paid := make(map[string]float64, len(members))
	for _, id := range members {
		paid[id] = 0
	}

	var total float64
	for _, e := range expenses {
		amount := currency.ToReporting(e.Amount, e.Currency, rates)
		total += amount
		if e.PaidBy == "" {
			continue
		}
		if _, ok := paid[e.PaidBy]; ok {
			paid[e.PaidBy] += amount
		}
	}

	share := total / float64(len(members))

	balances := make([]Balance, len(members))
	for i, id := range members {
		name, ok := names[id]
		if !ok || name == "" {
			name = UnknownMember
		}
		balances[i] = Balance{
			MemberID: id,
			Name:     name,
			Paid:     paid[id],
			Balance:  paid[id] - share,
		}
	}

	sort.SliceStable(balances, func(a, b int) bool {
		return balances[a].Balance > balances[b].Balance
	})

	return balances
}

// ComputeSettlements derives transfers that bring every balance to zero.
//
// Creditors (balance > Epsilon) are taken largest first and debtors
// (balance < -Epsilon) most indebted first. The two lists are walked
// together: each step moves min(debt, credit) from the current debtor to the
// current creditor, and whichever side is settled advances. This is greedy
// and not guaranteed to use the fewest possible transfers.
//
// balances is not modified.
func ComputeSettlements(balances []Balance) []Settlement {
	var creditors, debtors []Balance
	for _, b := range balances {
		if b.Balance > Epsilon {
			creditors = append(creditors, b)
		} else if b.Balance < -Epsilon {
			debtors = append(debtors, b)
		}
	}

	sort.SliceStable(creditors, func(a, b int) bool {
		return creditors[a].Balance > creditors[b].Balance
	})
	sort.SliceStable(debtors, func(a, b int) bool {
		return debtors[a].Balance < debtors[b].Balance
	})

	settlements := []Settlement{}
	i, j := 0, 0
	for i < len(creditors) && j < len(debtors) {
		creditor := &creditors[i]
		debtor := &debtors[j]

		amount := math.Min(math.Abs(debtor.Balance), creditor.Balance)
		if amount < Epsilon {
			break
		}

		settlements = append(settlements, Settlement{
			FromID: debtor.MemberID,
			From:   debtor.Name,
			ToID:   creditor.MemberID,
			To:     creditor.Name,
			Amount: amount,
		})

		debtor.Balance += amount
		creditor.Balance -= amount

		if math.Abs(debtor.Balance) < Epsilon {
			j++
		}
		if creditor.Balance < Epsilon {
			i++
		}
	}

	return settlements
}
