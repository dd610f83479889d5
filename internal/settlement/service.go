package settlement

import (
	"context"
	"errors"
	"log/slog"
	"time"
)

// Common errors
var (
	ErrSettlementNotFound = errors.New("settlement not found")
	ErrNotRecorder        = errors.New("only the recorder can modify this settlement")
	ErrSamePayerPayee     = errors.New("payer and payee must be different users")
	ErrNotGroupMember     = errors.New("not a member of this group")
)

// Store is the persistence surface the service needs.
type Store interface {
	Create(ctx context.Context, s *Settlement) (*Settlement, error)
	GetByID(ctx context.Context, id string) (*Settlement, error)
	Update(ctx context.Context, s *Settlement) (*Settlement, error)
	Delete(ctx context.Context, id string) error
	ListByGroupID(ctx context.Context, groupID string) ([]*Settlement, error)
	ListDirectBetween(ctx context.Context, uid, peerUID string) ([]*Settlement, error)
}

// GroupChecker answers group membership questions.
type GroupChecker interface {
	IsMember(ctx context.Context, groupID, uid string) (bool, error)
}

// Notifier delivers best-effort notifications.
type Notifier interface {
	NotifySettlementRecorded(ctx context.Context, recipientUID, payerUID string, amount float64, settlementID string) error
}

// Service handles settlement business logic
type Service struct {
	store    Store
	groups   GroupChecker
	notifier Notifier
}

// NewService creates a new settlement service. notifier may be nil.
func NewService(store Store, groups GroupChecker, notifier Notifier) *Service {
	return &Service{store: store, groups: groups, notifier: notifier}
}

// Create records a free-standing settlement. A settlement never links back
// to specific expenses; it simply offsets the running balance.
func (s *Service) Create(ctx context.Context, recorderUID string, req *CreateSettlementRequest) (*Settlement, error) {
	if req.PaidByUID == req.PaidToUID {
		return nil, ErrSamePayerPayee
	}

	if req.GroupID != nil {
		ok, err := s.groups.IsMember(ctx, *req.GroupID, recorderUID)
		if err != nil {
			return nil, err
		}
		if !ok {
			return nil, ErrNotGroupMember
		}
	}

	settlement := &Settlement{
		PaidByUID:      req.PaidByUID,
		PaidToUID:      req.PaidToUID,
		Amount:         req.Amount,
		GroupID:        req.GroupID,
		Method:         methodOrDefault(req.Method),
		Notes:          req.Notes,
		RecordedByUID:  recorderUID,
		SettlementDate: dateOrNow(req.Date),
	}

	created, err := s.store.Create(ctx, settlement)
	if err != nil {
		return nil, err
	}

	s.notifyCounterparty(ctx, created, recorderUID)
	return created, nil
}

// GetByID retrieves a settlement.
func (s *Service) GetByID(ctx context.Context, id string) (*Settlement, error) {
	settlement, err := s.store.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if settlement == nil {
		return nil, ErrSettlementNotFound
	}
	return settlement, nil
}

// Update edits a settlement. Only the recorder may edit.
func (s *Service) Update(ctx context.Context, uid, id string, req *UpdateSettlementRequest) (*Settlement, error) {
	existing, err := s.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if !existing.CanModify(uid) {
		return nil, ErrNotRecorder
	}

	existing.Amount = req.Amount
	existing.Method = methodOrDefault(req.Method)
	existing.Notes = req.Notes
	if req.Date != nil {
		existing.SettlementDate = *req.Date
	}

	updated, err := s.store.Update(ctx, existing)
	if err != nil {
		return nil, err
	}
	if updated == nil {
		return nil, ErrSettlementNotFound
	}
	return updated, nil
}

// Delete removes a settlement. Only the recorder may delete.
func (s *Service) Delete(ctx context.Context, uid, id string) error {
	existing, err := s.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if !existing.CanModify(uid) {
		return ErrNotRecorder
	}
	return s.store.Delete(ctx, id)
}

// ListGroupSettlements returns a group's settlements for one of its members.
func (s *Service) ListGroupSettlements(ctx context.Context, uid, groupID string) ([]*Settlement, error) {
	ok, err := s.groups.IsMember(ctx, groupID, uid)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, ErrNotGroupMember
	}
	return s.store.ListByGroupID(ctx, groupID)
}

// ListDirectWith returns the direct settlements between the caller and one
// peer, in either direction.
func (s *Service) ListDirectWith(ctx context.Context, uid, peerUID string) ([]*Settlement, error) {
	return s.store.ListDirectBetween(ctx, uid, peerUID)
}

// notifyCounterparty tells the party who did not record the settlement.
func (s *Service) notifyCounterparty(ctx context.Context, settlement *Settlement, recorderUID string) {
	if s.notifier == nil {
		return
	}
	recipient := settlement.PaidToUID
	if recipient == recorderUID {
		recipient = settlement.PaidByUID
	}
	if recipient == recorderUID {
		return
	}
	if err := s.notifier.NotifySettlementRecorded(ctx, recipient, settlement.PaidByUID, settlement.Amount, settlement.ID); err != nil {
		slog.Warn("failed to notify counterparty about settlement",
			"settlement_id", settlement.ID, "recipient", recipient, "error", err)
	}
}

func methodOrDefault(method string) string {
	if method == "" {
		return "cash"
	}
	return method
}

func dateOrNow(t *time.Time) time.Time {
	if t != nil {
		return *t
	}
	return time.Now()
}
