package expense

import (
	"time"

	"github.com/yzahrani/splitmate/internal/expense/split"
)

// CreateExpenseRequest represents the request to create an expense
type CreateExpenseRequest struct {
	Title        string        `json:"title" validate:"max=255"`
	Amount       float64       `json:"amount" validate:"required,gt=0"`
	PaidByUID    string        `json:"paid_by_uid" validate:"required"`
	SplitType    string        `json:"split_type" validate:"required,oneof=equally exact percentage shares"`
	Participants []split.Input `json:"participants" validate:"required,min=1,dive"`
	GroupID      *string       `json:"group_id,omitempty"`
	Notes        string        `json:"notes,omitempty" validate:"max=1000"`
	Category     string        `json:"category,omitempty" validate:"max=100"`
	Date         *time.Time    `json:"date,omitempty"`
}

// UpdateExpenseRequest represents the request to update an expense. Shares
// are recomputed from the submitted split inputs.
type UpdateExpenseRequest struct {
	Title        string        `json:"title" validate:"max=255"`
	Amount       float64       `json:"amount" validate:"required,gt=0"`
	PaidByUID    string        `json:"paid_by_uid" validate:"required"`
	SplitType    string        `json:"split_type" validate:"required,oneof=equally exact percentage shares"`
	Participants []split.Input `json:"participants" validate:"required,min=1,dive"`
	Notes        string        `json:"notes,omitempty" validate:"max=1000"`
	Category     string        `json:"category,omitempty" validate:"max=100"`
	Date         *time.Time    `json:"date,omitempty"`
}

// ExpenseResponse represents the response for an expense
type ExpenseResponse struct {
	ID              string        `json:"id"`
	Title           string        `json:"title"`
	TotalAmount     float64       `json:"total_amount"`
	PaidByUID       string        `json:"paid_by_uid"`
	SplitType       string        `json:"split_type"`
	Participants    []split.Share `json:"participants"`
	ParticipantUIDs []string      `json:"participant_uids"`
	GroupID         *string       `json:"group_id,omitempty"`
	CreatedByUID    string        `json:"created_by_uid"`
	Notes           string        `json:"notes,omitempty"`
	Category        string        `json:"category,omitempty"`
	ExpenseDate     string        `json:"expense_date"`
	CreatedAt       string        `json:"created_at"`
}

// ToResponse converts an Expense model to an ExpenseResponse DTO
func (e *Expense) ToResponse() *ExpenseResponse {
	return &ExpenseResponse{
		ID:              e.ID,
		Title:           e.Title,
		TotalAmount:     e.TotalAmount,
		PaidByUID:       e.PaidByUID,
		SplitType:       e.SplitType,
		Participants:    e.Participants,
		ParticipantUIDs: e.ParticipantUIDs,
		GroupID:         e.GroupID,
		CreatedByUID:    e.CreatedByUID,
		Notes:           e.Notes,
		Category:        e.Category,
		ExpenseDate:     e.ExpenseDate.Format(time.RFC3339),
		CreatedAt:       e.CreatedAt.Format(time.RFC3339),
	}
}
