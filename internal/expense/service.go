package expense

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/yzahrani/splitmate/internal/expense/split"
)

// Common errors
var (
	ErrExpenseNotFound     = errors.New("expense not found")
	ErrNotPayerOrCreator   = errors.New("only the payer or creator can modify this expense")
	ErrNotGroupMember      = errors.New("not a member of this group")
	ErrPayerNotParticipant = errors.New("payer must be one of the participants")
)

// Store is the persistence surface the service needs.
type Store interface {
	Create(ctx context.Context, e *Expense) (*Expense, error)
	GetByID(ctx context.Context, id string) (*Expense, error)
	Update(ctx context.Context, e *Expense) (*Expense, error)
	Delete(ctx context.Context, id string) error
	ListByGroupID(ctx context.Context, groupID string) ([]*Expense, error)
	ListDirectByParticipant(ctx context.Context, uid string) ([]*Expense, error)
}

// GroupChecker answers group membership questions.
type GroupChecker interface {
	IsMember(ctx context.Context, groupID, uid string) (bool, error)
}

// Notifier delivers best-effort notifications to other participants.
type Notifier interface {
	NotifyExpenseAdded(ctx context.Context, recipientUID, payerUID string, amount float64, expenseID string) error
}

// Service handles expense business logic
type Service struct {
	store        Store
	groups       GroupChecker
	notifier     Notifier
	splitFactory *split.Factory
}

// NewService creates a new expense service with dependencies injected.
// notifier may be nil.
func NewService(store Store, groups GroupChecker, notifier Notifier, splitFactory *split.Factory) *Service {
	return &Service{
		store:        store,
		groups:       groups,
		notifier:     notifier,
		splitFactory: splitFactory,
	}
}

// Create computes the participant shares with the requested strategy and
// persists the expense. Share validation failures block persistence.
func (s *Service) Create(ctx context.Context, creatorUID string, req *CreateExpenseRequest) (*Expense, error) {
	shares, uids, err := s.computeShares(req.Amount, req.SplitType, req.Participants)
	if err != nil {
		return nil, err
	}

	if req.GroupID != nil {
		ok, err := s.groups.IsMember(ctx, *req.GroupID, creatorUID)
		if err != nil {
			return nil, err
		}
		if !ok {
			return nil, ErrNotGroupMember
		}
	} else if !containsUID(uids, req.PaidByUID) {
		// A direct expense has no group to anchor it; the payer must hold a
		// participant entry or the record is unreachable by any peer query.
		return nil, ErrPayerNotParticipant
	}

	e := &Expense{
		Title:           titleOrDefault(req.Title),
		TotalAmount:     req.Amount,
		PaidByUID:       req.PaidByUID,
		SplitType:       req.SplitType,
		Participants:    shares,
		ParticipantUIDs: uids,
		GroupID:         req.GroupID,
		CreatedByUID:    creatorUID,
		Notes:           req.Notes,
		Category:        req.Category,
		ExpenseDate:     dateOrNow(req.Date),
	}

	created, err := s.store.Create(ctx, e)
	if err != nil {
		return nil, err
	}

	s.notifyParticipants(ctx, created, creatorUID)
	return created, nil
}

// GetByID retrieves an expense.
func (s *Service) GetByID(ctx context.Context, id string) (*Expense, error) {
	e, err := s.store.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if e == nil {
		return nil, ErrExpenseNotFound
	}
	return e, nil
}

// Update recomputes shares from the submitted inputs and replaces the
// expense. Only the payer or creator may update.
func (s *Service) Update(ctx context.Context, uid, id string, req *UpdateExpenseRequest) (*Expense, error) {
	existing, err := s.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if !existing.CanModify(uid) {
		return nil, ErrNotPayerOrCreator
	}

	shares, uids, err := s.computeShares(req.Amount, req.SplitType, req.Participants)
	if err != nil {
		return nil, err
	}
	if existing.IsDirect() && !containsUID(uids, req.PaidByUID) {
		return nil, ErrPayerNotParticipant
	}

	existing.Title = titleOrDefault(req.Title)
	existing.TotalAmount = req.Amount
	existing.PaidByUID = req.PaidByUID
	existing.SplitType = req.SplitType
	existing.Participants = shares
	existing.ParticipantUIDs = uids
	existing.Notes = req.Notes
	existing.Category = req.Category
	if req.Date != nil {
		existing.ExpenseDate = *req.Date
	}

	updated, err := s.store.Update(ctx, existing)
	if err != nil {
		return nil, err
	}
	if updated == nil {
		return nil, ErrExpenseNotFound
	}
	return updated, nil
}

// Delete removes an expense. Only the payer or creator may delete; deletion
// is immediate and irreversible.
func (s *Service) Delete(ctx context.Context, uid, id string) error {
	existing, err := s.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if !existing.CanModify(uid) {
		return ErrNotPayerOrCreator
	}
	return s.store.Delete(ctx, id)
}

// ListGroupExpenses returns a group's expenses for one of its members.
func (s *Service) ListGroupExpenses(ctx context.Context, uid, groupID string) ([]*Expense, error) {
	ok, err := s.groups.IsMember(ctx, groupID, uid)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, ErrNotGroupMember
	}
	return s.store.ListByGroupID(ctx, groupID)
}

// ListDirectExpenses returns the caller's non-group expenses.
func (s *Service) ListDirectExpenses(ctx context.Context, uid string) ([]*Expense, error) {
	return s.store.ListDirectByParticipant(ctx, uid)
}

// computeShares runs the split strategy and derives the denormalized uid list.
func (s *Service) computeShares(amount float64, splitType string, inputs []split.Input) ([]split.Share, []string, error) {
	strategy, err := s.splitFactory.CreateFromString(splitType)
	if err != nil {
		return nil, nil, err
	}

	shares, err := strategy.Calculate(amount, inputs)
	if err != nil {
		return nil, nil, err
	}

	uids := make([]string, len(shares))
	for i, sh := range shares {
		uids[i] = sh.UID
	}
	return shares, uids, nil
}

// notifyParticipants tells everyone except the creator about the new expense.
// Notification failures never fail the write.
func (s *Service) notifyParticipants(ctx context.Context, e *Expense, creatorUID string) {
	if s.notifier == nil {
		return
	}
	for _, uid := range e.ParticipantUIDs {
		if uid == creatorUID {
			continue
		}
		if err := s.notifier.NotifyExpenseAdded(ctx, uid, e.PaidByUID, e.TotalAmount, e.ID); err != nil {
			slog.Warn("failed to notify participant about expense",
				"expense_id", e.ID, "recipient", uid, "error", err)
		}
	}
}

func titleOrDefault(title string) string {
	if title == "" {
		return "Untitled Expense"
	}
	return title
}

func dateOrNow(t *time.Time) time.Time {
	if t != nil {
		return *t
	}
	return time.Now()
}

func containsUID(uids []string, uid string) bool {
	for _, u := range uids {
		if u == uid {
			return true
		}
	}
	return false
}
