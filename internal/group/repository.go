package group

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"

	"github.com/google/uuid"
	"github.com/lib/pq"
)

const groupColumns = `id, name, created_by_uid, members, member_uids, created_at`

// Repository handles group data persistence
type Repository struct {
	db *sql.DB
}

// NewRepository creates a new group repository
func NewRepository(db *sql.DB) *Repository {
	return &Repository{db: db}
}

// Create inserts a new group, assigning its id.
func (r *Repository) Create(ctx context.Context, g *Group) (*Group, error) {
	members, err := json.Marshal(g.Members)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal members: %w", err)
	}

	query := `
		INSERT INTO groups (` + groupColumns + `)
		VALUES ($1, $2, $3, $4, $5, NOW())
		RETURNING ` + groupColumns

	created, err := scanGroup(r.db.QueryRowContext(ctx, query,
		uuid.NewString(), g.Name, g.CreatedByUID, members, pq.Array(g.MemberUIDs)))
	if err != nil {
		return nil, fmt.Errorf("failed to create group: %w", err)
	}
	return created, nil
}

// GetByID retrieves a group by its ID. Returns (nil, nil) when absent.
func (r *Repository) GetByID(ctx context.Context, id string) (*Group, error) {
	query := `SELECT ` + groupColumns + ` FROM groups WHERE id = $1`

	g, err := scanGroup(r.db.QueryRowContext(ctx, query, id))
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get group: %w", err)
	}
	return g, nil
}

// UpdateName renames a group.
func (r *Repository) UpdateName(ctx context.Context, id, name string) (*Group, error) {
	query := `UPDATE groups SET name = $2 WHERE id = $1 RETURNING ` + groupColumns

	g, err := scanGroup(r.db.QueryRowContext(ctx, query, id, name))
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to rename group: %w", err)
	}
	return g, nil
}

// ReplaceMembers rewrites the member list and its denormalized uid mirror.
func (r *Repository) ReplaceMembers(ctx context.Context, id string, members []Member, memberUIDs []string) (*Group, error) {
	data, err := json.Marshal(members)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal members: %w", err)
	}

	query := `UPDATE groups SET members = $2, member_uids = $3 WHERE id = $1 RETURNING ` + groupColumns

	g, err := scanGroup(r.db.QueryRowContext(ctx, query, id, data, pq.Array(memberUIDs)))
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to replace members: %w", err)
	}
	return g, nil
}

// ListByMemberUID retrieves every group the uid belongs to, newest first.
func (r *Repository) ListByMemberUID(ctx context.Context, uid string) ([]*Group, error) {
	query := `SELECT ` + groupColumns + ` FROM groups
		WHERE $1 = ANY(member_uids)
		ORDER BY created_at DESC`

	rows, err := r.db.QueryContext(ctx, query, uid)
	if err != nil {
		return nil, fmt.Errorf("failed to list groups: %w", err)
	}
	defer rows.Close()

	var groups []*Group
	for rows.Next() {
		g, err := scanGroup(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan group: %w", err)
		}
		groups = append(groups, g)
	}
	return groups, rows.Err()
}

// IsMember reports whether the uid belongs to the group.
func (r *Repository) IsMember(ctx context.Context, groupID, uid string) (bool, error) {
	var exists bool
	query := `SELECT EXISTS (SELECT 1 FROM groups WHERE id = $1 AND $2 = ANY(member_uids))`
	if err := r.db.QueryRowContext(ctx, query, groupID, uid).Scan(&exists); err != nil {
		return false, fmt.Errorf("failed to check membership: %w", err)
	}
	return exists, nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanGroup(row rowScanner) (*Group, error) {
	g := &Group{}
	var members []byte
	if err := row.Scan(
		&g.ID,
		&g.Name,
		&g.CreatedByUID,
		&members,
		pq.Array(&g.MemberUIDs),
		&g.CreatedAt,
	); err != nil {
		return nil, err
	}
	if err := json.Unmarshal(members, &g.Members); err != nil {
		return nil, fmt.Errorf("failed to unmarshal members: %w", err)
	}
	return g, nil
}
