package notification

import (
	"context"
	"errors"
	"fmt"
)

// Common errors
var (
	ErrNotificationNotFound = errors.New("notification not found")
)

// Store is the persistence surface the service needs.
type Store interface {
	Create(ctx context.Context, recipientUID, message string, entityType, entityID *string) (*Notification, error)
	ListByRecipient(ctx context.Context, recipientUID string, limit, offset int, unreadOnly bool) ([]*Notification, int, error)
	MarkAsRead(ctx context.Context, id, recipientUID string) (bool, error)
	MarkAllAsRead(ctx context.Context, recipientUID string) error
	GetUnreadCount(ctx context.Context, recipientUID string) (int, error)
}

// UsernameResolver looks up display usernames for notification messages
type UsernameResolver interface {
	UsernameOf(ctx context.Context, uid string) (string, error)
}

// Service handles notification business logic
type Service struct {
	repo  Store
	users UsernameResolver
}

// NewService creates a new notification service
func NewService(repo Store, users UsernameResolver) *Service {
	return &Service{repo: repo, users: users}
}

// ListByRecipient retrieves notifications for a user
func (s *Service) ListByRecipient(ctx context.Context, recipientUID string, page, perPage int, unreadOnly bool) ([]*Notification, int, error) {
	if page < 1 {
		page = 1
	}
	if perPage < 1 || perPage > 100 {
		perPage = 20
	}

	offset := (page - 1) * perPage
	return s.repo.ListByRecipient(ctx, recipientUID, perPage, offset, unreadOnly)
}

// MarkAsRead marks one of the caller's notifications as read
func (s *Service) MarkAsRead(ctx context.Context, id, userUID string) error {
	ok, err := s.repo.MarkAsRead(ctx, id, userUID)
	if err != nil {
		return err
	}
	if !ok {
		return ErrNotificationNotFound
	}
	return nil
}

// MarkAllAsRead marks all of the caller's notifications as read
func (s *Service) MarkAllAsRead(ctx context.Context, userUID string) error {
	return s.repo.MarkAllAsRead(ctx, userUID)
}

// GetUnreadCount returns the count of unread notifications
func (s *Service) GetUnreadCount(ctx context.Context, userUID string) (int, error) {
	return s.repo.GetUnreadCount(ctx, userUID)
}

// NotifyExpenseAdded notifies a participant that an expense involving them
// was recorded
func (s *Service) NotifyExpenseAdded(ctx context.Context, recipientUID, payerUID string, amount float64, expenseID string) error {
	message := fmt.Sprintf("%s added an expense of %.2f that includes you", s.displayName(ctx, payerUID), amount)
	entityType := EntityExpense
	_, err := s.repo.Create(ctx, recipientUID, message, &entityType, &expenseID)
	return err
}

// NotifySettlementRecorded notifies the counterparty of a recorded payment
func (s *Service) NotifySettlementRecorded(ctx context.Context, recipientUID, payerUID string, amount float64, settlementID string) error {
	message := fmt.Sprintf("%s recorded a payment of %.2f with you", s.displayName(ctx, payerUID), amount)
	entityType := EntitySettlement
	_, err := s.repo.Create(ctx, recipientUID, message, &entityType, &settlementID)
	return err
}

// NotifyAddedToGroup notifies a user they were added to a group
func (s *Service) NotifyAddedToGroup(ctx context.Context, recipientUID, groupName, groupID string) error {
	message := "You were added to the group " + groupName
	entityType := EntityGroup
	_, err := s.repo.Create(ctx, recipientUID, message, &entityType, &groupID)
	return err
}

// displayName resolves a username, falling back to the raw uid so a missing
// profile never blocks a notification.
func (s *Service) displayName(ctx context.Context, uid string) string {
	name, err := s.users.UsernameOf(ctx, uid)
	if err != nil || name == "" {
		return uid
	}
	return name
}
