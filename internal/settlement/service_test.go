package settlement

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeStore struct {
	settlements map[string]*Settlement
	creates     int
	nextID      int
}

func newFakeStore() *fakeStore {
	return &fakeStore{settlements: map[string]*Settlement{}}
}

func (f *fakeStore) Create(_ context.Context, s *Settlement) (*Settlement, error) {
	f.creates++
	f.nextID++
	s.ID = "s" + string(rune('0'+f.nextID))
	f.settlements[s.ID] = s
	return s, nil
}

func (f *fakeStore) GetByID(_ context.Context, id string) (*Settlement, error) {
	return f.settlements[id], nil
}

func (f *fakeStore) Update(_ context.Context, s *Settlement) (*Settlement, error) {
	if _, ok := f.settlements[s.ID]; !ok {
		return nil, nil
	}
	f.settlements[s.ID] = s
	return s, nil
}

func (f *fakeStore) Delete(_ context.Context, id string) error {
	delete(f.settlements, id)
	return nil
}

func (f *fakeStore) ListByGroupID(_ context.Context, groupID string) ([]*Settlement, error) {
	var out []*Settlement
	for _, s := range f.settlements {
		if s.GroupID != nil && *s.GroupID == groupID {
			out = append(out, s)
		}
	}
	return out, nil
}

func (f *fakeStore) ListDirectBetween(_ context.Context, uid, peerUID string) ([]*Settlement, error) {
	var out []*Settlement
	for _, s := range f.settlements {
		if s.IsDirect() && s.Involves(uid) && s.Involves(peerUID) {
			out = append(out, s)
		}
	}
	return out, nil
}

type fakeGroups struct {
	members map[string][]string
}

func (f *fakeGroups) IsMember(_ context.Context, groupID, uid string) (bool, error) {
	for _, m := range f.members[groupID] {
		if m == uid {
			return true, nil
		}
	}
	return false, nil
}

type fakeNotifier struct {
	recipients []string
}

func (f *fakeNotifier) NotifySettlementRecorded(_ context.Context, recipientUID, _ string, _ float64, _ string) error {
	f.recipients = append(f.recipients, recipientUID)
	return nil
}

func newTestService(store *fakeStore, groups *fakeGroups, notifier Notifier) *Service {
	if groups == nil {
		groups = &fakeGroups{members: map[string][]string{}}
	}
	return NewService(store, groups, notifier)
}

func TestCreateRejectsSamePayerPayee(t *testing.T) {
	store := newFakeStore()
	svc := newTestService(store, nil, nil)

	_, err := svc.Create(context.Background(), "alice", &CreateSettlementRequest{
		PaidByUID: "alice",
		PaidToUID: "alice",
		Amount:    10,
	})
	assert.ErrorIs(t, err, ErrSamePayerPayee)
	assert.Zero(t, store.creates)
}

func TestCreateGroupSettlementRequiresMembership(t *testing.T) {
	store := newFakeStore()
	groups := &fakeGroups{members: map[string][]string{"g1": {"bob", "carol"}}}
	svc := newTestService(store, groups, nil)
	groupID := "g1"

	_, err := svc.Create(context.Background(), "alice", &CreateSettlementRequest{
		PaidByUID: "alice",
		PaidToUID: "bob",
		Amount:    10,
		GroupID:   &groupID,
	})
	assert.ErrorIs(t, err, ErrNotGroupMember)
	assert.Zero(t, store.creates)
}

func TestCreateDefaultsMethodAndNotifiesCounterparty(t *testing.T) {
	store := newFakeStore()
	notifier := &fakeNotifier{}
	svc := newTestService(store, nil, notifier)

	created, err := svc.Create(context.Background(), "alice", &CreateSettlementRequest{
		PaidByUID: "alice",
		PaidToUID: "bob",
		Amount:    25,
	})
	require.NoError(t, err)
	assert.Equal(t, "cash", created.Method)
	assert.Equal(t, "alice", created.RecordedByUID)
	assert.Equal(t, []string{"bob"}, notifier.recipients)
}

func TestCreateNotifiesPayerWhenPayeeRecords(t *testing.T) {
	store := newFakeStore()
	notifier := &fakeNotifier{}
	svc := newTestService(store, nil, notifier)

	_, err := svc.Create(context.Background(), "bob", &CreateSettlementRequest{
		PaidByUID: "alice",
		PaidToUID: "bob",
		Amount:    25,
	})
	require.NoError(t, err)
	assert.Equal(t, []string{"alice"}, notifier.recipients)
}

func TestUpdateOnlyRecorder(t *testing.T) {
	store := newFakeStore()
	svc := newTestService(store, nil, nil)

	created, err := svc.Create(context.Background(), "alice", &CreateSettlementRequest{
		PaidByUID: "alice",
		PaidToUID: "bob",
		Amount:    25,
	})
	require.NoError(t, err)

	_, err = svc.Update(context.Background(), "bob", created.ID, &UpdateSettlementRequest{Amount: 30})
	assert.ErrorIs(t, err, ErrNotRecorder)

	updated, err := svc.Update(context.Background(), "alice", created.ID, &UpdateSettlementRequest{Amount: 30})
	require.NoError(t, err)
	assert.Equal(t, 30.0, updated.Amount)
	// Parties are fixed at creation.
	assert.Equal(t, "alice", updated.PaidByUID)
	assert.Equal(t, "bob", updated.PaidToUID)
}

func TestDeleteOnlyRecorder(t *testing.T) {
	store := newFakeStore()
	svc := newTestService(store, nil, nil)

	created, err := svc.Create(context.Background(), "alice", &CreateSettlementRequest{
		PaidByUID: "alice",
		PaidToUID: "bob",
		Amount:    25,
	})
	require.NoError(t, err)

	err = svc.Delete(context.Background(), "bob", created.ID)
	assert.ErrorIs(t, err, ErrNotRecorder)

	err = svc.Delete(context.Background(), "alice", created.ID)
	require.NoError(t, err)

	_, err = svc.GetByID(context.Background(), created.ID)
	assert.ErrorIs(t, err, ErrSettlementNotFound)
}
