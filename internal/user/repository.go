package user

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/lib/pq"
)

const userColumns = `uid, username, email, first_name, last_name, profile_pic_url, created_at`

// Repository handles user data persistence
type Repository struct {
	db *sql.DB
}

// NewRepository creates a new user repository with database dependency injected
func NewRepository(db *sql.DB) *Repository {
	return &Repository{db: db}
}

// Upsert inserts a profile for the uid, or refreshes the mutable fields
// when the uid already has one. Username and email never change on conflict.
func (r *Repository) Upsert(ctx context.Context, uid string, req *CreateProfileRequest) (*User, error) {
	query := `
		INSERT INTO users (uid, username, email, first_name, last_name, profile_pic_url)
		VALUES ($1, $2, $3, $4, $5, $6)
		ON CONFLICT (uid) DO UPDATE
		SET first_name = EXCLUDED.first_name,
		    last_name = EXCLUDED.last_name,
		    profile_pic_url = EXCLUDED.profile_pic_url
		RETURNING ` + userColumns

	return scanUser(r.db.QueryRowContext(ctx, query,
		uid, req.Username, req.Email, req.FirstName, req.LastName, req.ProfilePicURL))
}

// GetByUID retrieves a user by their uid
func (r *Repository) GetByUID(ctx context.Context, uid string) (*User, error) {
	query := `SELECT ` + userColumns + ` FROM users WHERE uid = $1`

	user, err := scanUser(r.db.QueryRowContext(ctx, query, uid))
	if err == sql.ErrNoRows {
		return nil, nil
	}
	return user, err
}

// GetByUsername retrieves a user by their exact username
func (r *Repository) GetByUsername(ctx context.Context, username string) (*User, error) {
	query := `SELECT ` + userColumns + ` FROM users WHERE username = $1`

	user, err := scanUser(r.db.QueryRowContext(ctx, query, username))
	if err == sql.ErrNoRows {
		return nil, nil
	}
	return user, err
}

// GetByUIDs retrieves profiles for a batch of uids in one query. Unknown
// uids are simply absent from the result.
func (r *Repository) GetByUIDs(ctx context.Context, uids []string) ([]*User, error) {
	if len(uids) == 0 {
		return nil, nil
	}

	query := `SELECT ` + userColumns + ` FROM users WHERE uid = ANY($1)`

	rows, err := r.db.QueryContext(ctx, query, pq.Array(uids))
	if err != nil {
		return nil, fmt.Errorf("failed to get users by uids: %w", err)
	}
	defer rows.Close()

	return collectUsers(rows)
}

// SearchByUsernamePrefix finds users whose username starts with the given
// prefix, excluding the caller, capped at limit results.
func (r *Repository) SearchByUsernamePrefix(ctx context.Context, prefix, excludeUID string, limit int) ([]*User, error) {
	query := `
		SELECT ` + userColumns + `
		FROM users
		WHERE username ILIKE $1 || '%' AND uid <> $2
		ORDER BY username
		LIMIT $3
	`

	rows, err := r.db.QueryContext(ctx, query, prefix, excludeUID, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to search users: %w", err)
	}
	defer rows.Close()

	return collectUsers(rows)
}

// Update modifies the caller's mutable profile fields
func (r *Repository) Update(ctx context.Context, uid string, req *UpdateProfileRequest) (*User, error) {
	query := `
		UPDATE users
		SET first_name = COALESCE($2, first_name),
		    last_name = COALESCE($3, last_name),
		    profile_pic_url = COALESCE($4, profile_pic_url)
		WHERE uid = $1
		RETURNING ` + userColumns

	user, err := scanUser(r.db.QueryRowContext(ctx, query, uid, req.FirstName, req.LastName, req.ProfilePicURL))
	if err == sql.ErrNoRows {
		return nil, nil
	}
	return user, err
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanUser(row rowScanner) (*User, error) {
	user := &User{}
	err := row.Scan(
		&user.UID,
		&user.Username,
		&user.Email,
		&user.FirstName,
		&user.LastName,
		&user.ProfilePicURL,
		&user.CreatedAt,
	)
	if err == sql.ErrNoRows {
		return nil, err
	}
	if err != nil {
		return nil, fmt.Errorf("failed to scan user: %w", err)
	}
	return user, nil
}

func collectUsers(rows *sql.Rows) ([]*User, error) {
	var users []*User
	for rows.Next() {
		user, err := scanUser(rows)
		if err != nil {
			return nil, err
		}
		users = append(users, user)
	}
	return users, rows.Err()
}
