package notification

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/google/uuid"
)

const notificationColumns = `id, recipient_uid, message, is_read, related_entity_type, related_entity_id, created_at`

// Repository handles notification data persistence
type Repository struct {
	db *sql.DB
}

// NewRepository creates a new notification repository
func NewRepository(db *sql.DB) *Repository {
	return &Repository{db: db}
}

// Create inserts a new notification into the database
func (r *Repository) Create(ctx context.Context, recipientUID, message string, entityType, entityID *string) (*Notification, error) {
	query := `
		INSERT INTO notifications (id, recipient_uid, message, related_entity_type, related_entity_id)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING ` + notificationColumns

	return scanNotification(r.db.QueryRowContext(ctx, query,
		uuid.NewString(), recipientUID, message, entityType, entityID))
}

// ListByRecipient retrieves notifications for a user, newest first,
// optionally restricted to unread ones.
func (r *Repository) ListByRecipient(ctx context.Context, recipientUID string, limit, offset int, unreadOnly bool) ([]*Notification, int, error) {
	countQuery := `SELECT COUNT(*) FROM notifications WHERE recipient_uid = $1`
	if unreadOnly {
		countQuery += ` AND is_read = false`
	}

	var total int
	if err := r.db.QueryRowContext(ctx, countQuery, recipientUID).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("failed to count notifications: %w", err)
	}

	query := `SELECT ` + notificationColumns + ` FROM notifications WHERE recipient_uid = $1`
	if unreadOnly {
		query += ` AND is_read = false`
	}
	query += ` ORDER BY created_at DESC LIMIT $2 OFFSET $3`

	rows, err := r.db.QueryContext(ctx, query, recipientUID, limit, offset)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list notifications: %w", err)
	}
	defer rows.Close()

	var notifications []*Notification
	for rows.Next() {
		n, err := scanNotification(rows)
		if err != nil {
			return nil, 0, err
		}
		notifications = append(notifications, n)
	}

	return notifications, total, rows.Err()
}

// MarkAsRead marks one of the recipient's notifications as read
func (r *Repository) MarkAsRead(ctx context.Context, id, recipientUID string) (bool, error) {
	query := `UPDATE notifications SET is_read = true WHERE id = $1 AND recipient_uid = $2`

	result, err := r.db.ExecContext(ctx, query, id, recipientUID)
	if err != nil {
		return false, fmt.Errorf("failed to mark notification as read: %w", err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("failed to get rows affected: %w", err)
	}
	return affected > 0, nil
}

// MarkAllAsRead marks all of a user's unread notifications as read
func (r *Repository) MarkAllAsRead(ctx context.Context, recipientUID string) error {
	query := `UPDATE notifications SET is_read = true WHERE recipient_uid = $1 AND is_read = false`
	if _, err := r.db.ExecContext(ctx, query, recipientUID); err != nil {
		return fmt.Errorf("failed to mark all notifications as read: %w", err)
	}
	return nil
}

// GetUnreadCount returns the count of unread notifications for a user
func (r *Repository) GetUnreadCount(ctx context.Context, recipientUID string) (int, error) {
	var count int
	query := `SELECT COUNT(*) FROM notifications WHERE recipient_uid = $1 AND is_read = false`
	if err := r.db.QueryRowContext(ctx, query, recipientUID).Scan(&count); err != nil {
		return 0, fmt.Errorf("failed to count unread notifications: %w", err)
	}
	return count, nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanNotification(row rowScanner) (*Notification, error) {
	n := &Notification{}
	err := row.Scan(
		&n.ID,
		&n.RecipientUID,
		&n.Message,
		&n.IsRead,
		&n.RelatedEntityType,
		&n.RelatedEntityID,
		&n.CreatedAt,
	)
	if err == sql.ErrNoRows {
		return nil, err
	}
	if err != nil {
		return nil, fmt.Errorf("failed to scan notification: %w", err)
	}
	return n, nil
}
