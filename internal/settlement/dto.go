package settlement

import "time"

// CreateSettlementRequest represents the request to record a settlement
type CreateSettlementRequest struct {
	PaidByUID string     `json:"paid_by_uid" validate:"required"`
	PaidToUID string     `json:"paid_to_uid" validate:"required"`
	Amount    float64    `json:"amount" validate:"required,gt=0"`
	GroupID   *string    `json:"group_id,omitempty"`
	Method    string     `json:"method,omitempty" validate:"max=50"`
	Notes     string     `json:"notes,omitempty" validate:"max=1000"`
	Date      *time.Time `json:"date,omitempty"`
}

// UpdateSettlementRequest represents the request to edit a settlement. Payer,
// payee, and owning group are fixed at creation.
type UpdateSettlementRequest struct {
	Amount float64    `json:"amount" validate:"required,gt=0"`
	Method string     `json:"method,omitempty" validate:"max=50"`
	Notes  string     `json:"notes,omitempty" validate:"max=1000"`
	Date   *time.Time `json:"date,omitempty"`
}

// SettlementResponse represents the response for a settlement
type SettlementResponse struct {
	ID             string  `json:"id"`
	PaidByUID      string  `json:"paid_by_uid"`
	PaidToUID      string  `json:"paid_to_uid"`
	Amount         float64 `json:"amount"`
	GroupID        *string `json:"group_id,omitempty"`
	Method         string  `json:"method"`
	Notes          string  `json:"notes,omitempty"`
	RecordedByUID  string  `json:"recorded_by_uid"`
	SettlementDate string  `json:"settlement_date"`
	CreatedAt      string  `json:"created_at"`
}

// ToResponse converts a Settlement model to a SettlementResponse DTO
func (s *Settlement) ToResponse() *SettlementResponse {
	return &SettlementResponse{
		ID:             s.ID,
		PaidByUID:      s.PaidByUID,
		PaidToUID:      s.PaidToUID,
		Amount:         s.Amount,
		GroupID:        s.GroupID,
		Method:         s.Method,
		Notes:          s.Notes,
		RecordedByUID:  s.RecordedByUID,
		SettlementDate: s.SettlementDate.Format(time.RFC3339),
		CreatedAt:      s.CreatedAt.Format(time.RFC3339),
	}
}
