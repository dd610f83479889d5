package user

import (
	"context"
	"errors"
	"strings"
)

// Common errors
var (
	ErrUserNotFound         = errors.New("user not found")
	ErrUsernameAlreadyTaken = errors.New("username already taken")
	ErrQueryTooShort        = errors.New("search query must be at least 3 characters")
)

const (
	searchMinQueryLen = 3
	searchResultLimit = 10
)

// Store is the persistence surface the service needs.
type Store interface {
	Upsert(ctx context.Context, uid string, req *CreateProfileRequest) (*User, error)
	GetByUID(ctx context.Context, uid string) (*User, error)
	GetByUsername(ctx context.Context, username string) (*User, error)
	SearchByUsernamePrefix(ctx context.Context, prefix, excludeUID string, limit int) ([]*User, error)
	Update(ctx context.Context, uid string, req *UpdateProfileRequest) (*User, error)
}

// Service handles user business logic
type Service struct {
	repo Store
}

// NewService creates a new user service with repository dependency injected
func NewService(repo Store) *Service {
	return &Service{repo: repo}
}

// CreateProfile registers or refreshes the profile for the authenticated uid.
// The username must be free unless it already belongs to this uid.
func (s *Service) CreateProfile(ctx context.Context, uid string, req *CreateProfileRequest) (*User, error) {
	req.Username = strings.ToLower(strings.TrimSpace(req.Username))

	existing, err := s.repo.GetByUsername(ctx, req.Username)
	if err != nil {
		return nil, err
	}
	if existing != nil && existing.UID != uid {
		return nil, ErrUsernameAlreadyTaken
	}

	return s.repo.Upsert(ctx, uid, req)
}

// GetByUID retrieves a user profile by uid
func (s *Service) GetByUID(ctx context.Context, uid string) (*User, error) {
	user, err := s.repo.GetByUID(ctx, uid)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, ErrUserNotFound
	}
	return user, nil
}

// UsernameOf resolves the username for a uid
func (s *Service) UsernameOf(ctx context.Context, uid string) (string, error) {
	user, err := s.GetByUID(ctx, uid)
	if err != nil {
		return "", err
	}
	return user.Username, nil
}

// Search finds users by username prefix, excluding the caller. Queries
// shorter than three characters are rejected to keep result sets small.
func (s *Service) Search(ctx context.Context, callerUID, query string) ([]*User, error) {
	query = strings.ToLower(strings.TrimSpace(query))
	if len(query) < searchMinQueryLen {
		return nil, ErrQueryTooShort
	}

	return s.repo.SearchByUsernamePrefix(ctx, query, callerUID, searchResultLimit)
}

// UpdateProfile modifies the caller's own profile
func (s *Service) UpdateProfile(ctx context.Context, uid string, req *UpdateProfileRequest) (*User, error) {
	updated, err := s.repo.Update(ctx, uid, req)
	if err != nil {
		return nil, err
	}
	if updated == nil {
		return nil, ErrUserNotFound
	}
	return updated, nil
}
