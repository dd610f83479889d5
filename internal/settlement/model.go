package settlement

import "time"

// Settlement represents one payment that reduces a debt. Settlements are
// free-standing ledger entries; they are never allocated against specific
// expenses.
type Settlement struct {
	ID             string    `json:"id"`
	PaidByUID      string    `json:"paid_by_uid"`
	PaidToUID      string    `json:"paid_to_uid"`
	Amount         float64   `json:"amount"`
	GroupID        *string   `json:"group_id,omitempty"` // nil for direct settlements
	Method         string    `json:"method"`
	Notes          string    `json:"notes,omitempty"`
	RecordedByUID  string    `json:"recorded_by_uid"`
	SettlementDate time.Time `json:"settlement_date"`
	CreatedAt      time.Time `json:"created_at"`
	UpdatedAt      time.Time `json:"updated_at"`
}

// IsDirect reports whether the settlement is peer-to-peer (not owned by a group).
func (s *Settlement) IsDirect() bool {
	return s.GroupID == nil
}

// CanModify reports whether the uid may edit or delete the settlement. Only
// its recorder may.
func (s *Settlement) CanModify(uid string) bool {
	return uid == s.RecordedByUID
}

// Involves reports whether the uid is the payer or the payee.
func (s *Settlement) Involves(uid string) bool {
	return s.PaidByUID == uid || s.PaidToUID == uid
}
