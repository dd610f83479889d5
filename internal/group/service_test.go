package group

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeStore struct {
	groups map[string]*Group
	nextID int
}

func newFakeStore() *fakeStore {
	return &fakeStore{groups: map[string]*Group{}}
}

func (f *fakeStore) Create(_ context.Context, g *Group) (*Group, error) {
	f.nextID++
	g.ID = "g" + string(rune('0'+f.nextID))
	g.CreatedAt = time.Now()
	f.groups[g.ID] = g
	return g, nil
}

func (f *fakeStore) GetByID(_ context.Context, id string) (*Group, error) {
	return f.groups[id], nil
}

func (f *fakeStore) UpdateName(_ context.Context, id, name string) (*Group, error) {
	g, ok := f.groups[id]
	if !ok {
		return nil, nil
	}
	g.Name = name
	return g, nil
}

func (f *fakeStore) ReplaceMembers(_ context.Context, id string, members []Member, memberUIDs []string) (*Group, error) {
	g, ok := f.groups[id]
	if !ok {
		return nil, nil
	}
	g.Members = members
	g.MemberUIDs = memberUIDs
	return g, nil
}

func (f *fakeStore) ListByMemberUID(_ context.Context, uid string) ([]*Group, error) {
	var out []*Group
	for _, g := range f.groups {
		if g.HasMember(uid) {
			out = append(out, g)
		}
	}
	return out, nil
}

type fakeNotifier struct {
	added []string
}

func (f *fakeNotifier) NotifyAddedToGroup(_ context.Context, recipientUID, _, _ string) error {
	f.added = append(f.added, recipientUID)
	return nil
}

func seedGroup(t *testing.T, svc *Service) *Group {
	t.Helper()
	g, err := svc.Create(context.Background(), "alice", "alice", &CreateGroupRequest{Name: "Trip"})
	require.NoError(t, err)
	return g
}

func TestCreateMakesCreatorSoleAdmin(t *testing.T) {
	svc := NewService(newFakeStore(), nil)

	g := seedGroup(t, svc)
	require.Len(t, g.Members, 1)
	assert.Equal(t, "alice", g.Members[0].UID)
	assert.Equal(t, MemberRoleAdmin, g.Members[0].Role)
	assert.True(t, g.IsAdmin("alice"))
}

func TestAddMemberAdminOnly(t *testing.T) {
	notifier := &fakeNotifier{}
	svc := NewService(newFakeStore(), notifier)
	g := seedGroup(t, svc)

	updated, err := svc.AddMember(context.Background(), "alice", g.ID, &AddMemberRequest{UID: "bob", Username: "bob"})
	require.NoError(t, err)
	assert.True(t, updated.HasMember("bob"))
	assert.False(t, updated.IsAdmin("bob"))
	assert.Equal(t, []string{"bob"}, notifier.added)

	_, err = svc.AddMember(context.Background(), "bob", g.ID, &AddMemberRequest{UID: "carol", Username: "carol"})
	assert.ErrorIs(t, err, ErrNotAdmin)

	_, err = svc.AddMember(context.Background(), "alice", g.ID, &AddMemberRequest{UID: "bob", Username: "bob"})
	assert.ErrorIs(t, err, ErrMemberAlreadyExists)
}

func TestRemoveMemberSoleAdminGuard(t *testing.T) {
	svc := NewService(newFakeStore(), nil)
	g := seedGroup(t, svc)
	_, err := svc.AddMember(context.Background(), "alice", g.ID, &AddMemberRequest{UID: "bob", Username: "bob"})
	require.NoError(t, err)

	// Alice is the only admin with another member present, so she is stuck.
	_, err = svc.RemoveMember(context.Background(), "alice", g.ID, "alice")
	assert.ErrorIs(t, err, ErrSoleAdmin)

	updated, err := svc.RemoveMember(context.Background(), "alice", g.ID, "bob")
	require.NoError(t, err)
	assert.False(t, updated.HasMember("bob"))
}

func TestRemoveMemberUnknown(t *testing.T) {
	svc := NewService(newFakeStore(), nil)
	g := seedGroup(t, svc)

	_, err := svc.RemoveMember(context.Background(), "alice", g.ID, "ghost")
	assert.ErrorIs(t, err, ErrMemberNotFound)
}

func TestLeaveSoleAdminGuard(t *testing.T) {
	svc := NewService(newFakeStore(), nil)
	g := seedGroup(t, svc)
	_, err := svc.AddMember(context.Background(), "alice", g.ID, &AddMemberRequest{UID: "bob", Username: "bob"})
	require.NoError(t, err)

	_, err = svc.Leave(context.Background(), "alice", g.ID)
	assert.ErrorIs(t, err, ErrSoleAdmin)

	updated, err := svc.Leave(context.Background(), "bob", g.ID)
	require.NoError(t, err)
	assert.False(t, updated.HasMember("bob"))

	// With bob gone alice is the last member and may leave freely.
	updated, err = svc.Leave(context.Background(), "alice", g.ID)
	require.NoError(t, err)
	assert.Empty(t, updated.Members)
}

func TestLeaveNotMember(t *testing.T) {
	svc := NewService(newFakeStore(), nil)
	g := seedGroup(t, svc)

	_, err := svc.Leave(context.Background(), "mallory", g.ID)
	assert.ErrorIs(t, err, ErrNotMember)
}

func TestGetByIDMemberOnly(t *testing.T) {
	svc := NewService(newFakeStore(), nil)
	g := seedGroup(t, svc)

	_, err := svc.GetByID(context.Background(), "mallory", g.ID)
	assert.ErrorIs(t, err, ErrNotMember)

	_, err = svc.GetByID(context.Background(), "alice", "missing")
	assert.ErrorIs(t, err, ErrGroupNotFound)
}

func TestRenameAdminOnly(t *testing.T) {
	svc := NewService(newFakeStore(), nil)
	g := seedGroup(t, svc)
	_, err := svc.AddMember(context.Background(), "alice", g.ID, &AddMemberRequest{UID: "bob", Username: "bob"})
	require.NoError(t, err)

	_, err = svc.Rename(context.Background(), "bob", g.ID, &UpdateGroupRequest{Name: "New"})
	assert.ErrorIs(t, err, ErrNotAdmin)

	renamed, err := svc.Rename(context.Background(), "alice", g.ID, &UpdateGroupRequest{Name: "New"})
	require.NoError(t, err)
	assert.Equal(t, "New", renamed.Name)
}
