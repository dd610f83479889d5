// Package balance derives net positions from expense and settlement records.
// All calculators are pure functions over already-fetched lists; nothing in
// this package touches storage.
package balance

import (
	"math"

	"github.com/yzahrani/splitmate/internal/expense"
	"github.com/yzahrani/splitmate/internal/settlement"
)

// Position holds one user's accumulated debt within a scope. Owes and Owed
// are kept non-negative by the clamp rule; Net is Owed minus Owes.
type Position struct {
	Owes float64 `json:"owes"`
	Owed float64 `json:"owed"`
	Net  float64 `json:"net"`
}

// InGroup computes a user's position from one group's expenses and
// settlements. Expenses the user has no participant entry in are skipped,
// never treated as errors.
func InGroup(userUID string, expenses []*expense.Expense, settlements []*settlement.Settlement) Position {
	var owes, owed float64

	for _, e := range expenses {
		if !e.HasParticipant(userUID) {
			continue
		}
		if e.PaidByUID == userUID {
			for _, p := range e.Participants {
				if p.UID != userUID {
					owed += p.ShareAmount
				}
			}
		} else {
			share, _ := e.ShareOf(userUID)
			owes += share
		}
	}

	for _, s := range settlements {
		switch {
		case s.PaidByUID == userUID:
			owes -= s.Amount
		case s.PaidToUID == userUID:
			owed -= s.Amount
		}
	}

	return finalize(owes, owed)
}

// WithPeer computes the signed net between userUID and peerUID over their
// direct expenses and settlements. Positive means the peer owes the user.
// Records not involving both parties are ignored.
func WithPeer(userUID, peerUID string, expenses []*expense.Expense, settlements []*settlement.Settlement) float64 {
	var userOwesPeer, peerOwesUser float64

	for _, e := range expenses {
		if !e.HasParticipant(userUID) || !e.HasParticipant(peerUID) {
			continue
		}
		switch e.PaidByUID {
		case peerUID:
			share, _ := e.ShareOf(userUID)
			userOwesPeer += share
		case userUID:
			share, _ := e.ShareOf(peerUID)
			peerOwesUser += share
		}
	}

	for _, s := range settlements {
		if !s.Involves(userUID) || !s.Involves(peerUID) {
			continue
		}
		switch s.PaidByUID {
		case userUID:
			userOwesPeer -= s.Amount
		case peerUID:
			peerOwesUser -= s.Amount
		}
	}

	userOwesPeer, peerOwesUser = clampAndTransfer(userOwesPeer, peerOwesUser)
	return Round2(peerOwesUser - userOwesPeer)
}

// Combined treats a user's non-group expenses and settlements as one ledger
// across all counterparties at once, rather than per peer.
func Combined(userUID string, expenses []*expense.Expense, settlements []*settlement.Settlement) Position {
	return InGroup(userUID, expenses, settlements)
}

// finalize applies the clamp rule, rounds, and derives the net.
func finalize(owes, owed float64) Position {
	owes, owed = clampAndTransfer(owes, owed)
	owes = Round2(owes)
	owed = Round2(owed)
	return Position{
		Owes: owes,
		Owed: owed,
		Net:  Round2(owed - owes),
	}
}

// clampAndTransfer moves any negative excess in one accumulator onto the
// other, so overpayments collapse into the opposite side instead of
// producing a negative figure.
func clampAndTransfer(a, b float64) (float64, float64) {
	if a < 0 {
		b += -a
		a = 0
	}
	if b < 0 {
		a += -b
		b = 0
	}
	return a, b
}

// Round2 rounds to two decimal places, half away from zero.
func Round2(v float64) float64 {
	return math.Round(v*100) / 100
}
