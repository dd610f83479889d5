package balance

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/yzahrani/splitmate/internal/expense"
	"github.com/yzahrani/splitmate/internal/expense/split"
	"github.com/yzahrani/splitmate/internal/settlement"
)

func groupExpense(payer string, total float64, shares map[string]float64) *expense.Expense {
	e := &expense.Expense{
		TotalAmount: total,
		PaidByUID:   payer,
		SplitType:   string(split.SplitTypeEqually),
	}
	for uid, amount := range shares {
		e.Participants = append(e.Participants, split.Share{UID: uid, ShareAmount: amount})
		e.ParticipantUIDs = append(e.ParticipantUIDs, uid)
	}
	return e
}

func payment(from, to string, amount float64) *settlement.Settlement {
	return &settlement.Settlement{PaidByUID: from, PaidToUID: to, Amount: amount}
}

func TestInGroupConservation(t *testing.T) {
	expenses := []*expense.Expense{
		groupExpense("alice", 100, map[string]float64{"alice": 50, "bob": 50}),
	}

	a := InGroup("alice", expenses, nil)
	b := InGroup("bob", expenses, nil)

	assert.Equal(t, 50.0, a.Net)
	assert.Equal(t, 50.0, a.Owed)
	assert.Equal(t, 0.0, a.Owes)
	assert.Equal(t, -50.0, b.Net)
	assert.Equal(t, a.Net, -b.Net)
}

func TestInGroupSettlementClosesDebt(t *testing.T) {
	expenses := []*expense.Expense{
		groupExpense("alice", 100, map[string]float64{"alice": 50, "bob": 50}),
	}
	settlements := []*settlement.Settlement{
		payment("bob", "alice", 50),
	}

	b := InGroup("bob", expenses, settlements)
	assert.Equal(t, 0.0, b.Net)
	assert.Equal(t, 0.0, b.Owes)
	assert.Equal(t, 0.0, b.Owed)

	a := InGroup("alice", expenses, settlements)
	assert.Equal(t, 0.0, a.Net)
}

func TestInGroupOverpaymentClamp(t *testing.T) {
	// Bob owes Alice 30, then overpays by 10. The excess must surface as
	// being owed back, never as a negative owes figure.
	expenses := []*expense.Expense{
		groupExpense("alice", 60, map[string]float64{"alice": 30, "bob": 30}),
	}
	settlements := []*settlement.Settlement{
		payment("bob", "alice", 40),
	}

	b := InGroup("bob", expenses, settlements)
	assert.GreaterOrEqual(t, b.Owes, 0.0)
	assert.GreaterOrEqual(t, b.Owed, 0.0)
	assert.Equal(t, 10.0, b.Net)
}

func TestInGroupSkipsNonParticipantExpenses(t *testing.T) {
	expenses := []*expense.Expense{
		groupExpense("alice", 80, map[string]float64{"alice": 40, "carol": 40}),
	}

	b := InGroup("bob", expenses, nil)
	assert.Equal(t, Position{}, b)
}

func TestInGroupIdempotent(t *testing.T) {
	expenses := []*expense.Expense{
		groupExpense("alice", 99.99, map[string]float64{"alice": 33.33, "bob": 33.33, "carol": 33.33}),
		groupExpense("bob", 20, map[string]float64{"alice": 10, "bob": 10}),
	}
	settlements := []*settlement.Settlement{
		payment("bob", "alice", 15),
	}

	first := InGroup("alice", expenses, settlements)
	second := InGroup("alice", expenses, settlements)
	assert.Equal(t, first, second)
}

func TestWithPeerSwapNegates(t *testing.T) {
	expenses := []*expense.Expense{
		groupExpense("alice", 100, map[string]float64{"alice": 50, "bob": 50}),
		groupExpense("bob", 30, map[string]float64{"alice": 15, "bob": 15}),
	}
	settlements := []*settlement.Settlement{
		payment("bob", "alice", 20),
	}

	ab := WithPeer("alice", "bob", expenses, settlements)
	ba := WithPeer("bob", "alice", expenses, settlements)

	assert.Equal(t, 15.0, ab)
	assert.Equal(t, ab, -ba)
}

func TestWithPeerIgnoresThirdParties(t *testing.T) {
	expenses := []*expense.Expense{
		groupExpense("alice", 100, map[string]float64{"alice": 50, "carol": 50}),
		groupExpense("alice", 40, map[string]float64{"alice": 20, "bob": 20}),
	}

	net := WithPeer("alice", "bob", expenses, nil)
	assert.Equal(t, 20.0, net)
}

func TestWithPeerSettlementOnly(t *testing.T) {
	// A settlement with no prior expense flips straight into being owed.
	settlements := []*settlement.Settlement{
		payment("alice", "bob", 25),
	}

	net := WithPeer("alice", "bob", nil, settlements)
	assert.Equal(t, 25.0, net)
}

func TestClampAndTransfer(t *testing.T) {
	tests := []struct {
		name         string
		owes, owed   float64
		wantA, wantB float64
	}{
		{"both positive", 10, 20, 10, 20},
		{"owes negative", -5, 20, 0, 25},
		{"owed negative", 10, -5, 15, 0},
		{"both negative", -5, -10, 5, 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			a, b := clampAndTransfer(tt.owes, tt.owed)
			assert.Equal(t, tt.wantA, a)
			assert.Equal(t, tt.wantB, b)
		})
	}
}

func TestRound2(t *testing.T) {
	assert.Equal(t, 33.33, Round2(33.333333))
	assert.Equal(t, 66.67, Round2(66.666666))
	assert.Equal(t, -10.5, Round2(-10.499999999))
}
