package expense

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"

	"github.com/google/uuid"
	"github.com/lib/pq"

	"github.com/yzahrani/splitmate/internal/expense/split"
)

const expenseColumns = `id, title, total_amount, paid_by_uid, split_type, participants, participant_uids,
	group_id, created_by_uid, notes, category, expense_date, created_at, updated_at`

// Repository handles expense data persistence
type Repository struct {
	db *sql.DB
}

// NewRepository creates a new expense repository
func NewRepository(db *sql.DB) *Repository {
	return &Repository{db: db}
}

// Create inserts a new expense, assigning its id.
func (r *Repository) Create(ctx context.Context, e *Expense) (*Expense, error) {
	participants, err := json.Marshal(e.Participants)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal participants: %w", err)
	}

	query := `
		INSERT INTO expenses (` + expenseColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, NOW(), NOW())
		RETURNING ` + expenseColumns

	row := r.db.QueryRowContext(ctx, query,
		uuid.NewString(),
		e.Title,
		e.TotalAmount,
		e.PaidByUID,
		e.SplitType,
		participants,
		pq.Array(e.ParticipantUIDs),
		e.GroupID,
		e.CreatedByUID,
		e.Notes,
		e.Category,
		e.ExpenseDate,
	)

	created, err := scanExpense(row)
	if err != nil {
		return nil, fmt.Errorf("failed to create expense: %w", err)
	}
	return created, nil
}

// GetByID retrieves an expense by its ID. Returns (nil, nil) when absent.
func (r *Repository) GetByID(ctx context.Context, id string) (*Expense, error) {
	query := `SELECT ` + expenseColumns + ` FROM expenses WHERE id = $1`

	e, err := scanExpense(r.db.QueryRowContext(ctx, query, id))
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get expense: %w", err)
	}
	return e, nil
}

// Update replaces the mutable fields of an expense, including its recomputed
// participant shares.
func (r *Repository) Update(ctx context.Context, e *Expense) (*Expense, error) {
	participants, err := json.Marshal(e.Participants)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal participants: %w", err)
	}

	query := `
		UPDATE expenses
		SET title = $2, total_amount = $3, paid_by_uid = $4, split_type = $5,
		    participants = $6, participant_uids = $7, notes = $8, category = $9,
		    expense_date = $10, updated_at = NOW()
		WHERE id = $1
		RETURNING ` + expenseColumns

	row := r.db.QueryRowContext(ctx, query,
		e.ID,
		e.Title,
		e.TotalAmount,
		e.PaidByUID,
		e.SplitType,
		participants,
		pq.Array(e.ParticipantUIDs),
		e.Notes,
		e.Category,
		e.ExpenseDate,
	)

	updated, err := scanExpense(row)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to update expense: %w", err)
	}
	return updated, nil
}

// Delete removes an expense permanently.
func (r *Repository) Delete(ctx context.Context, id string) error {
	if _, err := r.db.ExecContext(ctx, `DELETE FROM expenses WHERE id = $1`, id); err != nil {
		return fmt.Errorf("failed to delete expense: %w", err)
	}
	return nil
}

// ListByGroupID retrieves all expenses of a group, newest first.
func (r *Repository) ListByGroupID(ctx context.Context, groupID string) ([]*Expense, error) {
	query := `SELECT ` + expenseColumns + ` FROM expenses WHERE group_id = $1 ORDER BY created_at DESC`
	return r.list(ctx, query, groupID)
}

// ListByParticipant retrieves every expense, group-owned or direct, in which
// the uid has a participant entry. One batched query serves the overall
// summary instead of a per-group fan-out.
func (r *Repository) ListByParticipant(ctx context.Context, uid string) ([]*Expense, error) {
	query := `SELECT ` + expenseColumns + ` FROM expenses WHERE $1 = ANY(participant_uids) ORDER BY created_at DESC`
	return r.list(ctx, query, uid)
}

// ListDirectByParticipant retrieves the uid's non-group expenses.
func (r *Repository) ListDirectByParticipant(ctx context.Context, uid string) ([]*Expense, error) {
	query := `SELECT ` + expenseColumns + ` FROM expenses
		WHERE group_id IS NULL AND $1 = ANY(participant_uids)
		ORDER BY created_at DESC`
	return r.list(ctx, query, uid)
}

// ListDirectBetween retrieves the non-group expenses shared by both uids.
func (r *Repository) ListDirectBetween(ctx context.Context, uid, peerUID string) ([]*Expense, error) {
	query := `SELECT ` + expenseColumns + ` FROM expenses
		WHERE group_id IS NULL AND participant_uids @> $1
		ORDER BY created_at DESC`
	return r.list(ctx, query, pq.Array([]string{uid, peerUID}))
}

func (r *Repository) list(ctx context.Context, query string, args ...any) ([]*Expense, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list expenses: %w", err)
	}
	defer rows.Close()

	var expenses []*Expense
	for rows.Next() {
		e, err := scanExpense(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan expense: %w", err)
		}
		expenses = append(expenses, e)
	}
	return expenses, rows.Err()
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanExpense(row rowScanner) (*Expense, error) {
	e := &Expense{}
	var participants []byte
	if err := row.Scan(
		&e.ID,
		&e.Title,
		&e.TotalAmount,
		&e.PaidByUID,
		&e.SplitType,
		&participants,
		pq.Array(&e.ParticipantUIDs),
		&e.GroupID,
		&e.CreatedByUID,
		&e.Notes,
		&e.Category,
		&e.ExpenseDate,
		&e.CreatedAt,
		&e.UpdatedAt,
	); err != nil {
		return nil, err
	}
	if err := json.Unmarshal(participants, &e.Participants); err != nil {
		return nil, fmt.Errorf("failed to unmarshal participants: %w", err)
	}
	if e.Participants == nil {
		e.Participants = []split.Share{}
	}
	return e, nil
}
