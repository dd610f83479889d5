package notification

import "time"

// Notification represents an in-app notification for a user
type Notification struct {
	ID                string    `json:"id"`
	RecipientUID      string    `json:"recipientUid"`
	Message           string    `json:"message"`
	IsRead            bool      `json:"isRead"`
	RelatedEntityType *string   `json:"relatedEntityType,omitempty"`
	RelatedEntityID   *string   `json:"relatedEntityId,omitempty"`
	CreatedAt         time.Time `json:"createdAt"`
}

// Entity types a notification can reference
const (
	EntityExpense    = "expense"
	EntitySettlement = "settlement"
	EntityGroup      = "group"
)
