package user

import (
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeStore struct {
	users       map[string]*User // keyed by uid
	searchCalls int
}

func newFakeStore(users ...*User) *fakeStore {
	f := &fakeStore{users: map[string]*User{}}
	for _, u := range users {
		f.users[u.UID] = u
	}
	return f
}

func (f *fakeStore) Upsert(_ context.Context, uid string, req *CreateProfileRequest) (*User, error) {
	u := &User{
		UID:       uid,
		Username:  req.Username,
		Email:     req.Email,
		FirstName: req.FirstName,
		LastName:  req.LastName,
	}
	f.users[uid] = u
	return u, nil
}

func (f *fakeStore) GetByUID(_ context.Context, uid string) (*User, error) {
	return f.users[uid], nil
}

func (f *fakeStore) GetByUsername(_ context.Context, username string) (*User, error) {
	for _, u := range f.users {
		if u.Username == username {
			return u, nil
		}
	}
	return nil, nil
}

func (f *fakeStore) SearchByUsernamePrefix(_ context.Context, prefix, excludeUID string, limit int) ([]*User, error) {
	f.searchCalls++
	var out []*User
	for _, u := range f.users {
		if u.UID == excludeUID || !strings.HasPrefix(u.Username, prefix) {
			continue
		}
		out = append(out, u)
		if len(out) == limit {
			break
		}
	}
	return out, nil
}

func (f *fakeStore) Update(_ context.Context, uid string, req *UpdateProfileRequest) (*User, error) {
	u, ok := f.users[uid]
	if !ok {
		return nil, nil
	}
	if req.FirstName != nil {
		u.FirstName = *req.FirstName
	}
	if req.LastName != nil {
		u.LastName = *req.LastName
	}
	return u, nil
}

func TestCreateProfileRejectsTakenUsername(t *testing.T) {
	store := newFakeStore(&User{UID: "u1", Username: "alice92"})
	svc := NewService(store)

	_, err := svc.CreateProfile(context.Background(), "u2", &CreateProfileRequest{
		Username: "alice92",
		Email:    "other@example.com",
	})
	assert.ErrorIs(t, err, ErrUsernameAlreadyTaken)

	// The owner of the username can re-register freely.
	u, err := svc.CreateProfile(context.Background(), "u1", &CreateProfileRequest{
		Username: "alice92",
		Email:    "alice@example.com",
	})
	require.NoError(t, err)
	assert.Equal(t, "u1", u.UID)
}

func TestCreateProfileNormalizesUsername(t *testing.T) {
	store := newFakeStore()
	svc := NewService(store)

	u, err := svc.CreateProfile(context.Background(), "u1", &CreateProfileRequest{
		Username: "  Alice92 ",
		Email:    "alice@example.com",
	})
	require.NoError(t, err)
	assert.Equal(t, "alice92", u.Username)
}

func TestSearchRejectsShortQueries(t *testing.T) {
	store := newFakeStore(&User{UID: "u1", Username: "alice92"})
	svc := NewService(store)

	for _, query := range []string{"", "al", "  a  "} {
		_, err := svc.Search(context.Background(), "caller", query)
		assert.ErrorIs(t, err, ErrQueryTooShort, "query %q", query)
	}
	// Short queries never reach the store.
	assert.Zero(t, store.searchCalls)

	results, err := svc.Search(context.Background(), "caller", " ALI ")
	require.NoError(t, err)
	require.Len(t, results, 1)
	assert.Equal(t, "alice92", results[0].Username)
}

func TestSearchExcludesCaller(t *testing.T) {
	store := newFakeStore(
		&User{UID: "u1", Username: "alice92"},
		&User{UID: "u2", Username: "alicia"},
	)
	svc := NewService(store)

	results, err := svc.Search(context.Background(), "u1", "ali")
	require.NoError(t, err)
	require.Len(t, results, 1)
	assert.Equal(t, "u2", results[0].UID)
}

func TestUsernameOfUnknownUID(t *testing.T) {
	svc := NewService(newFakeStore())

	_, err := svc.UsernameOf(context.Background(), "ghost")
	assert.ErrorIs(t, err, ErrUserNotFound)
}

func TestUpdateProfileUnknownUID(t *testing.T) {
	svc := NewService(newFakeStore())

	first := "New"
	_, err := svc.UpdateProfile(context.Background(), "ghost", &UpdateProfileRequest{FirstName: &first})
	assert.ErrorIs(t, err, ErrUserNotFound)
}
