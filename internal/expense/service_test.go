package expense

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yzahrani/splitmate/internal/expense/split"
)

type fakeStore struct {
	expenses map[string]*Expense
	creates  int
	nextID   int
}

func newFakeStore() *fakeStore {
	return &fakeStore{expenses: map[string]*Expense{}}
}

func (f *fakeStore) Create(_ context.Context, e *Expense) (*Expense, error) {
	f.creates++
	f.nextID++
	e.ID = "e" + string(rune('0'+f.nextID))
	f.expenses[e.ID] = e
	return e, nil
}

func (f *fakeStore) GetByID(_ context.Context, id string) (*Expense, error) {
	return f.expenses[id], nil
}

func (f *fakeStore) Update(_ context.Context, e *Expense) (*Expense, error) {
	if _, ok := f.expenses[e.ID]; !ok {
		return nil, nil
	}
	f.expenses[e.ID] = e
	return e, nil
}

func (f *fakeStore) Delete(_ context.Context, id string) error {
	delete(f.expenses, id)
	return nil
}

func (f *fakeStore) ListByGroupID(_ context.Context, groupID string) ([]*Expense, error) {
	var out []*Expense
	for _, e := range f.expenses {
		if e.GroupID != nil && *e.GroupID == groupID {
			out = append(out, e)
		}
	}
	return out, nil
}

func (f *fakeStore) ListDirectByParticipant(_ context.Context, uid string) ([]*Expense, error) {
	var out []*Expense
	for _, e := range f.expenses {
		if e.IsDirect() && e.HasParticipant(uid) {
			out = append(out, e)
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

func newTestService(store *fakeStore, groups *fakeGroups) *Service {
	if groups == nil {
		groups = &fakeGroups{members: map[string][]string{}}
	}
	return NewService(store, groups, nil, split.NewFactory())
}

func fp(v float64) *float64 { return &v }

func TestCreateEquallyPersistsShares(t *testing.T) {
	store := newFakeStore()
	svc := newTestService(store, nil)

	created, err := svc.Create(context.Background(), "alice", &CreateExpenseRequest{
		Amount:    100,
		PaidByUID: "alice",
		SplitType: string(split.SplitTypeEqually),
		Participants: []split.Input{
			{UID: "alice"}, {UID: "bob"}, {UID: "carol"},
		},
	})
	require.NoError(t, err)

	require.Len(t, created.Participants, 3)
	var sum float64
	for _, p := range created.Participants {
		sum += p.ShareAmount
	}
	assert.InDelta(t, 100.0, sum, 0.001)
	assert.Equal(t, []string{"alice", "bob", "carol"}, created.ParticipantUIDs)
	assert.Equal(t, "Untitled Expense", created.Title)
}

func TestCreateInvalidSplitBlocksPersistence(t *testing.T) {
	store := newFakeStore()
	svc := newTestService(store, nil)

	_, err := svc.Create(context.Background(), "alice", &CreateExpenseRequest{
		Amount:    100,
		PaidByUID: "alice",
		SplitType: string(split.SplitTypePercentage),
		Participants: []split.Input{
			{UID: "alice", Percentage: fp(60)},
			{UID: "bob", Percentage: fp(30)},
		},
	})
	assert.ErrorIs(t, err, split.ErrPercentagesMismatch)
	assert.Zero(t, store.creates)
}

func TestCreateDirectRequiresPayerParticipant(t *testing.T) {
	store := newFakeStore()
	svc := newTestService(store, nil)

	_, err := svc.Create(context.Background(), "alice", &CreateExpenseRequest{
		Amount:    50,
		PaidByUID: "dave",
		SplitType: string(split.SplitTypeEqually),
		Participants: []split.Input{
			{UID: "alice"}, {UID: "bob"},
		},
	})
	assert.ErrorIs(t, err, ErrPayerNotParticipant)
	assert.Zero(t, store.creates)
}

func TestCreateGroupExpenseRequiresMembership(t *testing.T) {
	store := newFakeStore()
	groups := &fakeGroups{members: map[string][]string{"g1": {"bob"}}}
	svc := newTestService(store, groups)
	groupID := "g1"

	_, err := svc.Create(context.Background(), "alice", &CreateExpenseRequest{
		Amount:    50,
		PaidByUID: "alice",
		SplitType: string(split.SplitTypeEqually),
		Participants: []split.Input{
			{UID: "alice"}, {UID: "bob"},
		},
		GroupID: &groupID,
	})
	assert.ErrorIs(t, err, ErrNotGroupMember)
	assert.Zero(t, store.creates)
}

func TestUpdateOnlyPayerOrCreator(t *testing.T) {
	store := newFakeStore()
	svc := newTestService(store, nil)

	created, err := svc.Create(context.Background(), "alice", &CreateExpenseRequest{
		Amount:    40,
		PaidByUID: "alice",
		SplitType: string(split.SplitTypeEqually),
		Participants: []split.Input{
			{UID: "alice"}, {UID: "bob"},
		},
	})
	require.NoError(t, err)

	_, err = svc.Update(context.Background(), "bob", created.ID, &UpdateExpenseRequest{
		Amount:    60,
		PaidByUID: "alice",
		SplitType: string(split.SplitTypeEqually),
		Participants: []split.Input{
			{UID: "alice"}, {UID: "bob"},
		},
	})
	assert.ErrorIs(t, err, ErrNotPayerOrCreator)

	updated, err := svc.Update(context.Background(), "alice", created.ID, &UpdateExpenseRequest{
		Amount:    60,
		PaidByUID: "alice",
		SplitType: string(split.SplitTypeEqually),
		Participants: []split.Input{
			{UID: "alice"}, {UID: "bob"},
		},
	})
	require.NoError(t, err)
	assert.Equal(t, 60.0, updated.TotalAmount)
}

func TestDeleteOnlyPayerOrCreator(t *testing.T) {
	store := newFakeStore()
	svc := newTestService(store, nil)

	created, err := svc.Create(context.Background(), "alice", &CreateExpenseRequest{
		Amount:    40,
		PaidByUID: "alice",
		SplitType: string(split.SplitTypeEqually),
		Participants: []split.Input{
			{UID: "alice"}, {UID: "bob"},
		},
	})
	require.NoError(t, err)

	err = svc.Delete(context.Background(), "bob", created.ID)
	assert.ErrorIs(t, err, ErrNotPayerOrCreator)

	err = svc.Delete(context.Background(), "alice", created.ID)
	require.NoError(t, err)

	_, err = svc.GetByID(context.Background(), created.ID)
	assert.ErrorIs(t, err, ErrExpenseNotFound)
}
