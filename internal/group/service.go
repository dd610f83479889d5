package group

import (
	"context"
	"errors"
	"log/slog"
	"time"
)

// Common errors
var (
	ErrGroupNotFound       = errors.New("group not found")
	ErrMemberNotFound      = errors.New("member not found")
	ErrMemberAlreadyExists = errors.New("user is already a member of this group")
	ErrNotAdmin            = errors.New("only an admin can perform this action")
	ErrNotMember           = errors.New("not a member of this group")
	ErrSoleAdmin           = errors.New("the sole admin cannot leave or be removed while other members remain")
)

// Store is the persistence surface the service needs.
type Store interface {
	Create(ctx context.Context, g *Group) (*Group, error)
	GetByID(ctx context.Context, id string) (*Group, error)
	UpdateName(ctx context.Context, id, name string) (*Group, error)
	ReplaceMembers(ctx context.Context, id string, members []Member, memberUIDs []string) (*Group, error)
	ListByMemberUID(ctx context.Context, uid string) ([]*Group, error)
}

// Notifier delivers best-effort notifications.
type Notifier interface {
	NotifyAddedToGroup(ctx context.Context, recipientUID, groupName, groupID string) error
}

// Service handles group business logic
type Service struct {
	store    Store
	notifier Notifier
}

// NewService creates a new group service. notifier may be nil.
func NewService(store Store, notifier Notifier) *Service {
	return &Service{store: store, notifier: notifier}
}

// Create creates a group with the creator as its only member and sole admin.
func (s *Service) Create(ctx context.Context, creatorUID, creatorUsername string, req *CreateGroupRequest) (*Group, error) {
	g := &Group{
		Name:         req.Name,
		CreatedByUID: creatorUID,
		Members: []Member{{
			UID:      creatorUID,
			Username: creatorUsername,
			Role:     MemberRoleAdmin,
			JoinedAt: time.Now(),
		}},
		MemberUIDs: []string{creatorUID},
	}
	return s.store.Create(ctx, g)
}

// GetByID retrieves a group for one of its members.
func (s *Service) GetByID(ctx context.Context, uid, id string) (*Group, error) {
	g, err := s.get(ctx, id)
	if err != nil {
		return nil, err
	}
	if !g.HasMember(uid) {
		return nil, ErrNotMember
	}
	return g, nil
}

// ListByUser retrieves every group the uid belongs to.
func (s *Service) ListByUser(ctx context.Context, uid string) ([]*Group, error) {
	return s.store.ListByMemberUID(ctx, uid)
}

// Rename changes a group's name. Admin only.
func (s *Service) Rename(ctx context.Context, uid, id string, req *UpdateGroupRequest) (*Group, error) {
	g, err := s.get(ctx, id)
	if err != nil {
		return nil, err
	}
	if !g.IsAdmin(uid) {
		return nil, ErrNotAdmin
	}

	renamed, err := s.store.UpdateName(ctx, id, req.Name)
	if err != nil {
		return nil, err
	}
	if renamed == nil {
		return nil, ErrGroupNotFound
	}
	return renamed, nil
}

// AddMember adds a user to the group. Admin only. New members always join
// with the member role.
func (s *Service) AddMember(ctx context.Context, adminUID, id string, req *AddMemberRequest) (*Group, error) {
	g, err := s.get(ctx, id)
	if err != nil {
		return nil, err
	}
	if !g.IsAdmin(adminUID) {
		return nil, ErrNotAdmin
	}
	if g.HasMember(req.UID) {
		return nil, ErrMemberAlreadyExists
	}

	members := append(g.Members, Member{
		UID:      req.UID,
		Username: req.Username,
		Role:     MemberRoleMember,
		JoinedAt: time.Now(),
	})
	uids := append(g.MemberUIDs, req.UID)

	updated, err := s.store.ReplaceMembers(ctx, id, members, uids)
	if err != nil {
		return nil, err
	}
	if updated == nil {
		return nil, ErrGroupNotFound
	}

	if s.notifier != nil {
		if nerr := s.notifier.NotifyAddedToGroup(ctx, req.UID, updated.Name, updated.ID); nerr != nil {
			slog.Warn("failed to notify new group member",
				"group_id", updated.ID, "recipient", req.UID, "error", nerr)
		}
	}
	return updated, nil
}

// RemoveMember removes a user from the group. Admin only, and the sole admin
// cannot be removed while other members remain. Historical expenses and
// settlements referencing the removed member are untouched.
func (s *Service) RemoveMember(ctx context.Context, adminUID, id, memberUID string) (*Group, error) {
	g, err := s.get(ctx, id)
	if err != nil {
		return nil, err
	}
	if !g.IsAdmin(adminUID) {
		return nil, ErrNotAdmin
	}
	if !g.HasMember(memberUID) {
		return nil, ErrMemberNotFound
	}
	if g.IsSoleAdmin(memberUID) {
		return nil, ErrSoleAdmin
	}

	members, uids := g.WithoutMember(memberUID)
	updated, err := s.store.ReplaceMembers(ctx, id, members, uids)
	if err != nil {
		return nil, err
	}
	if updated == nil {
		return nil, ErrGroupNotFound
	}
	return updated, nil
}

// Leave removes the caller from the group. The sole admin must hand off the
// admin role before leaving a group that still has other members.
func (s *Service) Leave(ctx context.Context, uid, id string) (*Group, error) {
	g, err := s.get(ctx, id)
	if err != nil {
		return nil, err
	}
	if !g.HasMember(uid) {
		return nil, ErrNotMember
	}
	if g.IsSoleAdmin(uid) {
		return nil, ErrSoleAdmin
	}

	members, uids := g.WithoutMember(uid)
	updated, err := s.store.ReplaceMembers(ctx, id, members, uids)
	if err != nil {
		return nil, err
	}
	if updated == nil {
		return nil, ErrGroupNotFound
	}
	return updated, nil
}

func (s *Service) get(ctx context.Context, id string) (*Group, error) {
	g, err := s.store.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if g == nil {
		return nil, ErrGroupNotFound
	}
	return g, nil
}
