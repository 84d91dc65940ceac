package usecase

import (
	"context"
	"testing"
	"time"

	"lostfound-board/internal/board/domain/model"
	apperrors "lostfound-board/internal/shared/errors"
	"lostfound-board/internal/shared/eventbus"
	"lostfound-board/internal/shared/logger"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newChatSync(store *fakeStore) (*ChatSync, *RealtimeHub) {
	log := logger.NewLogger()
	hub := NewRealtimeHub(nil, log)
	bus := eventbus.NewEventBus(log)
	return NewChatSync(store, NewQueryExecutor(store, log), hub, bus, 10, log), hub
}

func seedConversation(store *fakeStore, id, itemID string, participants []string, updatedAt int64) {
	store.seed(model.CollectionConversations, id, map[string]interface{}{
		"itemId":       itemID,
		"participants": participants,
		"createdAt":    updatedAt,
		"updatedAt":    updatedAt,
	})
}

func seedMessage(store *fakeStore, id, convID, senderID string, ts int64, read bool) {
	store.seed(model.CollectionMessages, id, map[string]interface{}{
		"conversationId": convID,
		"senderId":       senderID,
		"senderName":     senderID,
		"text":           "hello",
		"timestamp":      ts,
		"read":           read,
	})
}

func receiveViews(t *testing.T, ch <-chan []model.ConversationView) []model.ConversationView {
	t.Helper()
	select {
	case views, ok := <-ch:
		require.True(t, ok, "stream closed unexpectedly")
		return views
	case <-time.After(2 * time.Second):
		t.Fatal("timed out waiting for a view emission")
		return nil
	}
}

func TestChatSync_ViewsJoinAndOrder(t *testing.T) {
	store := newFakeStore()
	seedConversation(store, "c1", "i1", []string{"alice", "bob"}, 200)
	seedConversation(store, "c2", "i2", []string{"alice", "carol"}, 100)
	store.seed(model.CollectionUsers, "bob", map[string]interface{}{"name": "Bob"})
	store.seed(model.CollectionItems, "i1", map[string]interface{}{"title": "Black wallet"})
	seedMessage(store, "m1", "c1", "bob", 10, false)
	seedMessage(store, "m2", "c2", "alice", 20, false)

	sync, _ := newChatSync(store)
	views, err := sync.Views(context.Background(), "alice")
	require.NoError(t, err)
	require.Len(t, views, 2)

	// Newest activity first.
	assert.Equal(t, "c1", views[0].Conversation.ID)
	assert.Equal(t, "Bob", views[0].OtherUserName)
	assert.Equal(t, "Black wallet", views[0].ItemTitle)
	require.NotNil(t, views[0].LastMessage)
	assert.True(t, views[0].Unread, "unread message from the other side")

	// Missing user and item resolve to placeholders.
	assert.Equal(t, "c2", views[1].Conversation.ID)
	assert.Equal(t, model.PlaceholderUserName, views[1].OtherUserName)
	assert.Equal(t, model.PlaceholderItemTitle, views[1].ItemTitle)
	assert.False(t, views[1].Unread, "own message never counts as unread")
}

func TestChatSync_ViewsEmptyWithoutConversations(t *testing.T) {
	sync, _ := newChatSync(newFakeStore())
	views, err := sync.Views(context.Background(), "alice")
	require.NoError(t, err)
	assert.Empty(t, views)
}

func TestChatSync_SubscribeEmitsInitialSnapshotAndTicks(t *testing.T) {
	store := newFakeStore()
	seedConversation(store, "c1", "i1", []string{"alice", "bob"}, 100)
	sync, hub := newChatSync(store)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	ch, err := sync.Subscribe(ctx, "alice")
	require.NoError(t, err)

	initial := receiveViews(t, ch)
	require.Len(t, initial, 1)

	seedConversation(store, "c2", "i2", []string{"alice", "carol"}, 200)
	hub.Publish(model.ChangeEvent{
		Type:       model.ChangeTypeCreated,
		Collection: model.CollectionConversations,
		DocumentID: "c2",
		Timestamp:  time.Now(),
	})

	require.Eventually(t, func() bool {
		select {
		case views, ok := <-ch:
			return ok && len(views) == 2 && views[0].Conversation.ID == "c2"
		default:
			return false
		}
	}, 2*time.Second, 10*time.Millisecond)
}

func TestChatSync_ResubscribeClosesPreviousStream(t *testing.T) {
	store := newFakeStore()
	sync, _ := newChatSync(store)
	ctx := context.Background()

	first, err := sync.Subscribe(ctx, "alice")
	require.NoError(t, err)
	receiveViews(t, first)

	second, err := sync.Subscribe(ctx, "alice")
	require.NoError(t, err)
	defer sync.Unsubscribe("alice")

	require.Eventually(t, func() bool {
		select {
		case _, ok := <-first:
			return !ok
		default:
			return false
		}
	}, 2*time.Second, 10*time.Millisecond, "previous stream should close on re-subscribe")

	receiveViews(t, second)
}

func TestChatSync_CancelContextTearsDownSubscription(t *testing.T) {
	store := newFakeStore()
	sync, hub := newChatSync(store)

	ctx, cancel := context.WithCancel(context.Background())
	ch, err := sync.Subscribe(ctx, "alice")
	require.NoError(t, err)
	receiveViews(t, ch)

	cancel()
	require.Eventually(t, func() bool {
		select {
		case _, ok := <-ch:
			return !ok
		default:
			return false
		}
	}, 2*time.Second, 10*time.Millisecond)
	assert.Zero(t, hub.SubscriberCount(model.CollectionConversations))
}

func TestChatSync_SubscribeRequiresViewer(t *testing.T) {
	sync, _ := newChatSync(newFakeStore())
	_, err := sync.Subscribe(context.Background(), "")
	require.Error(t, err)
	assert.True(t, apperrors.IsAuthentication(err))
}

func TestChatSync_SendMessageWritesAndBumpsConversation(t *testing.T) {
	store := newFakeStore()
	seedConversation(store, "c1", "i1", []string{"alice", "bob"}, 100)
	sync, _ := newChatSync(store)

	id, err := sync.SendMessage(context.Background(), "c1", "alice", "Alice", "  is this your wallet?  ")
	require.NoError(t, err)
	require.NotEmpty(t, id)

	stored := store.data[model.CollectionMessages][id]
	require.NotNil(t, stored)
	assert.Equal(t, "is this your wallet?", stored["text"])
	assert.Equal(t, false, stored["read"])

	conv := store.data[model.CollectionConversations]["c1"]
	assert.Greater(t, conv["updatedAt"].(int64), int64(100))
}

func TestChatSync_SendMessageRejectsEmptyText(t *testing.T) {
	sync, _ := newChatSync(newFakeStore())
	_, err := sync.SendMessage(context.Background(), "c1", "alice", "Alice", "   ")
	require.Error(t, err)
	assert.True(t, apperrors.IsValidation(err))
}

func TestChatSync_MarkReadSkipsOwnMessages(t *testing.T) {
	store := newFakeStore()
	seedMessage(store, "m1", "c1", "bob", 10, false)
	seedMessage(store, "m2", "c1", "alice", 20, false)
	seedMessage(store, "m3", "c1", "bob", 30, true)
	seedMessage(store, "m4", "c2", "bob", 40, false)
	sync, _ := newChatSync(store)

	require.NoError(t, sync.MarkRead(context.Background(), "c1", "alice"))

	assert.Equal(t, true, store.data[model.CollectionMessages]["m1"]["read"])
	assert.Equal(t, false, store.data[model.CollectionMessages]["m2"]["read"], "own message untouched")
	assert.Equal(t, false, store.data[model.CollectionMessages]["m4"]["read"], "other conversation untouched")

	require.Len(t, store.batchCalls, 1)
	assert.Equal(t, []string{"m1"}, store.batchCalls[0])
}

func TestChatSync_MarkReadNoopWithoutUnread(t *testing.T) {
	store := newFakeStore()
	seedMessage(store, "m1", "c1", "bob", 10, true)
	sync, _ := newChatSync(store)

	require.NoError(t, sync.MarkRead(context.Background(), "c1", "alice"))
	assert.Empty(t, store.batchCalls)
}

func TestChatSync_MessagesAscending(t *testing.T) {
	store := newFakeStore()
	seedMessage(store, "m2", "c1", "bob", 20, false)
	seedMessage(store, "m1", "c1", "alice", 10, true)
	seedMessage(store, "m3", "c2", "bob", 5, false)
	sync, _ := newChatSync(store)

	messages, err := sync.Messages(context.Background(), "c1")
	require.NoError(t, err)
	require.Len(t, messages, 2)
	assert.Equal(t, "m1", messages[0].ID)
	assert.Equal(t, "m2", messages[1].ID)
}
