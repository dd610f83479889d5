package settlement

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/google/uuid"
)

const settlementColumns = `id, paid_by_uid, paid_to_uid, amount, group_id, method, notes,
	recorded_by_uid, settlement_date, created_at, updated_at`

// Repository handles settlement data persistence
type Repository struct {
	db *sql.DB
}

// NewRepository creates a new settlement repository
func NewRepository(db *sql.DB) *Repository {
	return &Repository{db: db}
}

// Create inserts a new settlement, assigning its id.
func (r *Repository) Create(ctx context.Context, s *Settlement) (*Settlement, error) {
	query := `
		INSERT INTO settlements (` + settlementColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, NOW(), NOW())
		RETURNING ` + settlementColumns

	row := r.db.QueryRowContext(ctx, query,
		uuid.NewString(),
		s.PaidByUID,
		s.PaidToUID,
		s.Amount,
		s.GroupID,
		s.Method,
		s.Notes,
		s.RecordedByUID,
		s.SettlementDate,
	)

	created, err := scanSettlement(row)
	if err != nil {
		return nil, fmt.Errorf("failed to create settlement: %w", err)
	}
	return created, nil
}

// GetByID retrieves a settlement by its ID. Returns (nil, nil) when absent.
func (r *Repository) GetByID(ctx context.Context, id string) (*Settlement, error) {
	query := `SELECT ` + settlementColumns + ` FROM settlements WHERE id = $1`

	s, err := scanSettlement(r.db.QueryRowContext(ctx, query, id))
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get settlement: %w", err)
	}
	return s, nil
}

// Update replaces the editable fields of a settlement.
func (r *Repository) Update(ctx context.Context, s *Settlement) (*Settlement, error) {
	query := `
		UPDATE settlements
		SET amount = $2, method = $3, notes = $4, settlement_date = $5, updated_at = NOW()
		WHERE id = $1
		RETURNING ` + settlementColumns

	updated, err := scanSettlement(r.db.QueryRowContext(ctx, query,
		s.ID, s.Amount, s.Method, s.Notes, s.SettlementDate))
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to update settlement: %w", err)
	}
	return updated, nil
}

// Delete removes a settlement permanently.
func (r *Repository) Delete(ctx context.Context, id string) error {
	if _, err := r.db.ExecContext(ctx, `DELETE FROM settlements WHERE id = $1`, id); err != nil {
		return fmt.Errorf("failed to delete settlement: %w", err)
	}
	return nil
}

// ListByGroupID retrieves all settlements of a group, newest first.
func (r *Repository) ListByGroupID(ctx context.Context, groupID string) ([]*Settlement, error) {
	query := `SELECT ` + settlementColumns + ` FROM settlements
		WHERE group_id = $1 ORDER BY settlement_date DESC`
	return r.list(ctx, query, groupID)
}

// ListInvolving retrieves every settlement, group-owned or direct, where the
// uid is payer or payee. One batched query serves the overall summary.
func (r *Repository) ListInvolving(ctx context.Context, uid string) ([]*Settlement, error) {
	query := `SELECT ` + settlementColumns + ` FROM settlements
		WHERE paid_by_uid = $1 OR paid_to_uid = $1
		ORDER BY settlement_date DESC`
	return r.list(ctx, query, uid)
}

// ListDirectInvolving retrieves the uid's non-group settlements in either
// direction.
func (r *Repository) ListDirectInvolving(ctx context.Context, uid string) ([]*Settlement, error) {
	query := `SELECT ` + settlementColumns + ` FROM settlements
		WHERE group_id IS NULL AND (paid_by_uid = $1 OR paid_to_uid = $1)
		ORDER BY settlement_date DESC`
	return r.list(ctx, query, uid)
}

// ListDirectBetween retrieves the non-group settlements between exactly the
// two uids, in either direction.
func (r *Repository) ListDirectBetween(ctx context.Context, uid, peerUID string) ([]*Settlement, error) {
	query := `SELECT ` + settlementColumns + ` FROM settlements
		WHERE group_id IS NULL
		  AND ((paid_by_uid = $1 AND paid_to_uid = $2) OR (paid_by_uid = $2 AND paid_to_uid = $1))
		ORDER BY settlement_date DESC`
	return r.list(ctx, query, uid, peerUID)
}

func (r *Repository) list(ctx context.Context, query string, args ...any) ([]*Settlement, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list settlements: %w", err)
	}
	defer rows.Close()

	var settlements []*Settlement
	for rows.Next() {
		s, err := scanSettlement(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan settlement: %w", err)
		}
		settlements = append(settlements, s)
	}
	return settlements, rows.Err()
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanSettlement(row rowScanner) (*Settlement, error) {
	s := &Settlement{}
	if err := row.Scan(
		&s.ID,
		&s.PaidByUID,
		&s.PaidToUID,
		&s.Amount,
		&s.GroupID,
		&s.Method,
		&s.Notes,
		&s.RecordedByUID,
		&s.SettlementDate,
		&s.CreatedAt,
		&s.UpdatedAt,
	); err != nil {
		return nil, err
	}
	return s, nil
}
