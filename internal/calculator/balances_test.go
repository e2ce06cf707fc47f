package calculator

import (
	"math"
	"math/rand"
	"testing"

	"github.com/mmynk/tripledger/internal/currency"
	"github.com/mmynk/tripledger/internal/models"
)

func approx(a, b, tol float64) bool {
	return math.Abs(a-b) <= tol
}

func findBalance(t *testing.T, balances []Balance, id string) Balance {
	t.Helper()
	for _, b := range balances {
		if b.MemberID == id {
			return b
		}
	}
	t.Fatalf("no balance for member %s", id)
	return Balance{}
}

func TestComputeBalances(t *testing.T) {
	names := map[string]string{"a": "Alice", "b": "Bob", "c": "Charlie"}

	tests := []struct {
		name         string
		members      []string
		expenses     []Expense
		rates        currency.RateTable
		validateFunc func(t *testing.T, balances []Balance)
	}{
		{
			name:    "two members, payer in foreign currency",
			members: []string{"a", "b"},
			expenses: []Expense{
				{Amount: 110, Currency: "USD", Category: models.CategoryFood, PaidBy: "a"},
			},
			rates: currency.RateTable{"EUR": 1, "USD": 1.1},
			validateFunc: func(t *testing.T, balances []Balance) {
				// 110 USD = 100 EUR, share = 50
				if len(balances) != 2 {
					t.Fatalf("got %d balances, want 2", len(balances))
				}
				if balances[0].MemberID != "a" || !approx(balances[0].Balance, 50, 1e-9) {
					t.Errorf("first balance = %+v, want Alice +50", balances[0])
				}
				if !approx(balances[0].Paid, 100, 1e-9) {
					t.Errorf("Alice paid = %v, want 100", balances[0].Paid)
				}
				if balances[1].MemberID != "b" || !approx(balances[1].Balance, -50, 1e-9) {
					t.Errorf("second balance = %+v, want Bob -50", balances[1])
				}
			},
		},
		{
			name:    "three members, single payer",
			members: []string{"a", "b", "c"},
			expenses: []Expense{
				{Amount: 30, Currency: "EUR", Category: models.CategoryFood, PaidBy: "a"},
			},
			rates: currency.RateTable{"EUR": 1},
			validateFunc: func(t *testing.T, balances []Balance) {
				want := map[string]float64{"a": 20, "b": -10, "c": -10}
				for id, w := range want {
					if got := findBalance(t, balances, id).Balance; !approx(got, w, 1e-9) {
						t.Errorf("%s balance = %v, want %v", id, got, w)
					}
				}
				if balances[0].MemberID != "a" {
					t.Errorf("largest creditor should come first, got %s", balances[0].MemberID)
				}
			},
		},
		{
			name:     "no expenses yields zero balances for every member",
			members:  []string{"a", "b", "c"},
			expenses: nil,
			rates:    currency.RateTable{"EUR": 1},
			validateFunc: func(t *testing.T, balances []Balance) {
				if len(balances) != 3 {
					t.Fatalf("got %d balances, want 3", len(balances))
				}
				for i, id := range []string{"a", "b", "c"} {
					if balances[i].MemberID != id {
						t.Errorf("balances[%d] = %s, want %s (member order on ties)", i, balances[i].MemberID, id)
					}
					if balances[i].Balance != 0 || balances[i].Paid != 0 {
						t.Errorf("%s = %+v, want zero", id, balances[i])
					}
				}
			},
		},
		{
			name:    "unattributed expense raises the share but nobody's paid total",
			members: []string{"a", "b"},
			expenses: []Expense{
				{Amount: 40, Currency: "EUR", Category: models.CategoryHotel, PaidBy: "a"},
				{Amount: 20, Currency: "EUR", Category: models.CategoryOther, PaidBy: ""},
			},
			rates: currency.RateTable{"EUR": 1},
			validateFunc: func(t *testing.T, balances []Balance) {
				// total 60, share 30
				a := findBalance(t, balances, "a")
				b := findBalance(t, balances, "b")
				if !approx(a.Paid, 40, 1e-9) || !approx(b.Paid, 0, 1e-9) {
					t.Errorf("paid totals = %v / %v, want 40 / 0", a.Paid, b.Paid)
				}
				if !approx(a.Balance, 10, 1e-9) || !approx(b.Balance, -30, 1e-9) {
					t.Errorf("balances = %v / %v, want 10 / -30", a.Balance, b.Balance)
				}
			},
		},
		{
			name:    "payer outside the member list only counts toward the total",
			members: []string{"a", "b"},
			expenses: []Expense{
				{Amount: 20, Currency: "EUR", Category: models.CategoryFood, PaidBy: "ghost"},
			},
			rates: currency.RateTable{"EUR": 1},
			validateFunc: func(t *testing.T, balances []Balance) {
				for _, b := range balances {
					if !approx(b.Balance, -10, 1e-9) {
						t.Errorf("%s balance = %v, want -10", b.MemberID, b.Balance)
					}
				}
			},
		},
		{
			name:    "missing rate falls back to the raw amount",
			members: []string{"a", "b"},
			expenses: []Expense{
				{Amount: 100, Currency: "USD", Category: models.CategoryFood, PaidBy: "a"},
			},
			rates: currency.RateTable{},
			validateFunc: func(t *testing.T, balances []Balance) {
				if got := findBalance(t, balances, "a").Paid; got != 100 {
					t.Errorf("paid = %v, want 100 (unconverted)", got)
				}
			},
		},
		{
			name:     "no members",
			members:  nil,
			expenses: []Expense{{Amount: 10, Currency: "EUR", PaidBy: "a"}},
			rates:    currency.RateTable{"EUR": 1},
			validateFunc: func(t *testing.T, balances []Balance) {
				if balances == nil || len(balances) != 0 {
					t.Errorf("got %v, want empty non-nil slice", balances)
				}
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			balances := ComputeBalances(tt.members, tt.expenses, names, tt.rates)
			tt.validateFunc(t, balances)
		})
	}
}

func TestComputeBalances_UnknownName(t *testing.T) {
	balances := ComputeBalances([]string{"x"}, nil, map[string]string{}, nil)
	if balances[0].Name != UnknownMember {
		t.Errorf("name = %q, want %q", balances[0].Name, UnknownMember)
	}
}

func TestEqualShare(t *testing.T) {
	expenses := []Expense{
		{Amount: 40, Currency: "EUR", PaidBy: "a"},
		{Amount: 20, Currency: "EUR"},
	}
	if got := EqualShare([]string{"a", "b"}, expenses, currency.RateTable{"EUR": 1}); got != 30 {
		t.Errorf("EqualShare = %v, want 30", got)
	}
	if got := EqualShare(nil, expenses, nil); got != 0 {
		t.Errorf("EqualShare with no members = %v, want 0", got)
	}
}

func TestComputeBalances_Conservation(t *testing.T) {
	rng := rand.New(rand.NewSource(7))
	members := []string{"a", "b", "c", "d", "e"}
	currencies := []string{"EUR", "USD", "GBP", "THB"}
	rates := currency.RateTable{"EUR": 1, "USD": 1.0837, "GBP": 0.8412, "THB": 39.12}

	for round := 0; round < 100; round++ {
		var expenses []Expense
		for n := rng.Intn(30); n > 0; n-- {
			expenses = append(expenses, Expense{
				Amount:   float64(rng.Intn(100000)+1) / 100,
				Currency: currencies[rng.Intn(len(currencies))],
				PaidBy:   members[rng.Intn(len(members))],
			})
		}

		var sum float64
		for _, b := range ComputeBalances(members, expenses, nil, rates) {
			sum += b.Balance
		}
		if math.Abs(sum) > 1e-9 {
			t.Fatalf("round %d: sum of balances = %v, want 0", round, sum)
		}
	}
}

func TestComputeBalances_UnattributedSpendShowsInSum(t *testing.T) {
	expenses := []Expense{
		{Amount: 90, Currency: "EUR", PaidBy: "a"},
		{Amount: 30, Currency: "EUR"},
	}
	var sum float64
	for _, b := range ComputeBalances([]string{"a", "b", "c"}, expenses, nil, nil) {
		sum += b.Balance
	}
	if !approx(sum, -30, 1e-9) {
		t.Errorf("sum of balances = %v, want -30 (the unattributed amount)", sum)
	}
}

func TestComputeSettlements(t *testing.T) {
	tests := []struct {
		name     string
		balances []Balance
		want     []Settlement
	}{
		{
			name: "one debtor pays one creditor",
			balances: []Balance{
				{MemberID: "a", Name: "Alice", Balance: 50},
				{MemberID: "b", Name: "Bob", Balance: -50},
			},
			want: []Settlement{
				{FromID: "b", From: "Bob", ToID: "a", To: "Alice", Amount: 50},
			},
		},
		{
			name: "two debtors pay one creditor",
			balances: []Balance{
				{MemberID: "a", Name: "Alice", Balance: 20},
				{MemberID: "b", Name: "Bob", Balance: -10},
				{MemberID: "c", Name: "Charlie", Balance: -10},
			},
			want: []Settlement{
				{FromID: "b", From: "Bob", ToID: "a", To: "Alice", Amount: 10},
				{FromID: "c", From: "Charlie", ToID: "a", To: "Alice", Amount: 10},
			},
		},
		{
			name: "largest debtor is matched with largest creditor first",
			balances: []Balance{
				{MemberID: "a", Name: "Alice", Balance: 10},
				{MemberID: "b", Name: "Bob", Balance: 30},
				{MemberID: "c", Name: "Charlie", Balance: -5},
				{MemberID: "d", Name: "Diana", Balance: -35},
			},
			want: []Settlement{
				{FromID: "d", From: "Diana", ToID: "b", To: "Bob", Amount: 30},
				{FromID: "d", From: "Diana", ToID: "a", To: "Alice", Amount: 5},
				{FromID: "c", From: "Charlie", ToID: "a", To: "Alice", Amount: 5},
			},
		},
		{
			name: "near-zero balances are ignored",
			balances: []Balance{
				{MemberID: "a", Name: "Alice", Balance: 0.005},
				{MemberID: "b", Name: "Bob", Balance: -0.005},
			},
			want: []Settlement{},
		},
		{
			name:     "nothing to settle",
			balances: nil,
			want:     []Settlement{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ComputeSettlements(tt.balances)
			if got == nil {
				t.Fatalf("ComputeSettlements returned nil, want non-nil slice")
			}
			if len(got) != len(tt.want) {
				t.Fatalf("got %d settlements %+v, want %d", len(got), got, len(tt.want))
			}
			for i := range tt.want {
				g, w := got[i], tt.want[i]
				if g.FromID != w.FromID || g.ToID != w.ToID || g.From != w.From || g.To != w.To {
					t.Errorf("settlement %d = %s->%s, want %s->%s", i, g.From, g.To, w.From, w.To)
				}
				if !approx(g.Amount, w.Amount, 1e-9) {
					t.Errorf("settlement %d amount = %v, want %v", i, g.Amount, w.Amount)
				}
			}
		})
	}
}

func TestComputeSettlements_DoesNotMutateInput(t *testing.T) {
	balances := []Balance{
		{MemberID: "a", Balance: 20},
		{MemberID: "b", Balance: -10},
		{MemberID: "c", Balance: -10},
	}
	ComputeSettlements(balances)

	want := []float64{20, -10, -10}
	for i, b := range balances {
		if b.Balance != want[i] {
			t.Errorf("balances[%d] = %v after settlement, want %v", i, b.Balance, want[i])
		}
	}
}

func TestComputeSettlements_ZeroesBalances(t *testing.T) {
	rng := rand.New(rand.NewSource(42))

	for round := 0; round < 200; round++ {
		// Whole-euro amounts over 2 or 4 members keep every balance an exact
		// multiple of 0.25, so only the algorithm can leave a residue.
		members := []string{"a", "b"}
		if rng.Intn(2) == 1 {
			members = []string{"a", "b", "c", "d"}
		}
		var expenses []Expense
		for n := rng.Intn(12); n > 0; n-- {
			expenses = append(expenses, Expense{
				Amount:   float64(rng.Intn(500) + 1),
				Currency: "EUR",
				PaidBy:   members[rng.Intn(len(members))],
			})
		}

		balances := ComputeBalances(members, expenses, nil, nil)
		settlements := ComputeSettlements(balances)

		remaining := make(map[string]float64, len(balances))
		for _, b := range balances {
			remaining[b.MemberID] = b.Balance
		}
		for _, s := range settlements {
			if s.Amount <= 0 {
				t.Fatalf("round %d: non-positive settlement %+v", round, s)
			}
			remaining[s.FromID] += s.Amount
			remaining[s.ToID] -= s.Amount
		}
		for id, r := range remaining {
			if math.Abs(r) > Epsilon {
				t.Fatalf("round %d: %s left with %v after settlements %+v", round, id, r, settlements)
			}
		}
		if len(balances) > 0 && len(settlements) > len(balances)-1 {
			t.Errorf("round %d: %d settlements for %d members", round, len(settlements), len(balances))
		}
	}
}

func TestScenario_ForeignCurrencyTrip(t *testing.T) {
	names := map[string]string{"a": "A", "b": "B"}
	expenses := []Expense{{Amount: 110, Currency: "USD", Category: models.CategoryFood, PaidBy: "a"}}

	balances := ComputeBalances([]string{"a", "b"}, expenses, names, currency.RateTable{"EUR": 1, "USD": 1.1})
	settlements := ComputeSettlements(balances)

	if len(settlements) != 1 {
		t.Fatalf("got %d settlements, want 1", len(settlements))
	}
	s := settlements[0]
	if s.From != "B" || s.To != "A" || !approx(s.Amount, 50, 1e-9) {
		t.Errorf("settlement = %+v, want B->A 50.00", s)
	}
}
