package notification

import (
	"context"
	"errors"
	"strconv"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeStore struct {
	notifications map[string]*Notification
	nextID        int
}

func newFakeStore() *fakeStore {
	return &fakeStore{notifications: map[string]*Notification{}}
}

func (f *fakeStore) Create(_ context.Context, recipientUID, message string, entityType, entityID *string) (*Notification, error) {
	f.nextID++
	n := &Notification{
		ID:                "n" + strconv.Itoa(f.nextID),
		RecipientUID:      recipientUID,
		Message:           message,
		RelatedEntityType: entityType,
		RelatedEntityID:   entityID,
		CreatedAt:         time.Now(),
	}
	f.notifications[n.ID] = n
	return n, nil
}

func (f *fakeStore) ListByRecipient(_ context.Context, recipientUID string, limit, offset int, unreadOnly bool) ([]*Notification, int, error) {
	var out []*Notification
	for _, n := range f.notifications {
		if n.RecipientUID != recipientUID {
			continue
		}
		if unreadOnly && n.IsRead {
			continue
		}
		out = append(out, n)
	}
	total := len(out)
	if offset > len(out) {
		offset = len(out)
	}
	out = out[offset:]
	if limit < len(out) {
		out = out[:limit]
	}
	return out, total, nil
}

// MarkAsRead mirrors the recipient scoping of the real UPDATE: a mismatched
// recipient affects no rows.
func (f *fakeStore) MarkAsRead(_ context.Context, id, recipientUID string) (bool, error) {
	n, ok := f.notifications[id]
	if !ok || n.RecipientUID != recipientUID {
		return false, nil
	}
	n.IsRead = true
	return true, nil
}

func (f *fakeStore) MarkAllAsRead(_ context.Context, recipientUID string) error {
	for _, n := range f.notifications {
		if n.RecipientUID == recipientUID {
			n.IsRead = true
		}
	}
	return nil
}

func (f *fakeStore) GetUnreadCount(_ context.Context, recipientUID string) (int, error) {
	count := 0
	for _, n := range f.notifications {
		if n.RecipientUID == recipientUID && !n.IsRead {
			count++
		}
	}
	return count, nil
}

type fakeResolver struct {
	names map[string]string
	err   error
}

func (f *fakeResolver) UsernameOf(_ context.Context, uid string) (string, error) {
	if f.err != nil {
		return "", f.err
	}
	return f.names[uid], nil
}

func TestMarkAsReadScopedToRecipient(t *testing.T) {
	store := newFakeStore()
	svc := NewService(store, &fakeResolver{names: map[string]string{}})

	require.NoError(t, svc.NotifyAddedToGroup(context.Background(), "bob", "Trip", "g1"))
	var id string
	for nid := range store.notifications {
		id = nid
	}

	// Someone other than the recipient cannot mark it read.
	err := svc.MarkAsRead(context.Background(), id, "mallory")
	assert.ErrorIs(t, err, ErrNotificationNotFound)
	assert.False(t, store.notifications[id].IsRead)

	require.NoError(t, svc.MarkAsRead(context.Background(), id, "bob"))
	assert.True(t, store.notifications[id].IsRead)

	err = svc.MarkAsRead(context.Background(), "missing", "bob")
	assert.ErrorIs(t, err, ErrNotificationNotFound)
}

func TestNotifyExpenseAddedUsesUsername(t *testing.T) {
	store := newFakeStore()
	resolver := &fakeResolver{names: map[string]string{"alice": "alice92"}}
	svc := NewService(store, resolver)

	require.NoError(t, svc.NotifyExpenseAdded(context.Background(), "bob", "alice", 42.5, "e1"))

	require.Len(t, store.notifications, 1)
	for _, n := range store.notifications {
		assert.Equal(t, "bob", n.RecipientUID)
		assert.Contains(t, n.Message, "alice92")
		assert.Contains(t, n.Message, "42.50")
		require.NotNil(t, n.RelatedEntityType)
		assert.Equal(t, EntityExpense, *n.RelatedEntityType)
		require.NotNil(t, n.RelatedEntityID)
		assert.Equal(t, "e1", *n.RelatedEntityID)
	}
}

func TestNotifyFallsBackToUIDWhenResolverFails(t *testing.T) {
	store := newFakeStore()
	resolver := &fakeResolver{err: errors.New("store down")}
	svc := NewService(store, resolver)

	require.NoError(t, svc.NotifySettlementRecorded(context.Background(), "bob", "alice", 10, "s1"))

	for _, n := range store.notifications {
		assert.Contains(t, n.Message, "alice")
	}
}

func TestListByRecipientUnreadFilterAndCount(t *testing.T) {
	store := newFakeStore()
	svc := NewService(store, &fakeResolver{names: map[string]string{}})

	require.NoError(t, svc.NotifyAddedToGroup(context.Background(), "bob", "Trip", "g1"))
	require.NoError(t, svc.NotifyAddedToGroup(context.Background(), "bob", "Flat", "g2"))
	require.NoError(t, svc.NotifyAddedToGroup(context.Background(), "carol", "Trip", "g1"))

	count, err := svc.GetUnreadCount(context.Background(), "bob")
	require.NoError(t, err)
	assert.Equal(t, 2, count)

	require.NoError(t, svc.MarkAllAsRead(context.Background(), "bob"))

	unread, total, err := svc.ListByRecipient(context.Background(), "bob", 1, 20, true)
	require.NoError(t, err)
	assert.Empty(t, unread)
	assert.Zero(t, total)

	all, total, err := svc.ListByRecipient(context.Background(), "bob", 1, 20, false)
	require.NoError(t, err)
	assert.Len(t, all, 2)
	assert.Equal(t, 2, total)

	count, err = svc.GetUnreadCount(context.Background(), "carol")
	require.NoError(t, err)
	assert.Equal(t, 1, count)
}
