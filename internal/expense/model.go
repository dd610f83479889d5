package expense

import (
	"time"

	"github.com/yzahrani/splitmate/internal/expense/split"
)

// Expense represents one shared cost event. Participants carry the computed
// share of every participant, payer included; ParticipantUIDs mirrors the
// uids for containment queries.
type Expense struct {
	ID              string        `json:"id"`
	Title           string        `json:"title"`
	TotalAmount     float64       `json:"total_amount"`
	PaidByUID       string        `json:"paid_by_uid"`
	SplitType       string        `json:"split_type"` // equally, exact, percentage, shares
	Participants    []split.Share `json:"participants"`
	ParticipantUIDs []string      `json:"participant_uids"`
	GroupID         *string       `json:"group_id,omitempty"` // nil for direct (P2P) expenses
	CreatedByUID    string        `json:"created_by_uid"`
	Notes           string        `json:"notes,omitempty"`
	Category        string        `json:"category,omitempty"`
	ExpenseDate     time.Time     `json:"expense_date"`
	CreatedAt       time.Time     `json:"created_at"`
	UpdatedAt       time.Time     `json:"updated_at"`
}

// IsDirect reports whether the expense is peer-to-peer (not owned by a group).
func (e *Expense) IsDirect() bool {
	return e.GroupID == nil
}

// ShareOf returns the participant entry share for the given uid. The second
// return is false when the uid is not a participant.
func (e *Expense) ShareOf(uid string) (float64, bool) {
	for _, p := range e.Participants {
		if p.UID == uid {
			return p.ShareAmount, true
		}
	}
	return 0, false
}

// HasParticipant reports whether the uid has a participant entry.
func (e *Expense) HasParticipant(uid string) bool {
	_, ok := e.ShareOf(uid)
	return ok
}

// CanModify reports whether the uid may edit or delete the expense. Only the
// payer or the creator may mutate it.
func (e *Expense) CanModify(uid string) bool {
	return uid == e.PaidByUID || uid == e.CreatedByUID
}
