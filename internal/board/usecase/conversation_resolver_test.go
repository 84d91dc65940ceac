package usecase

import (
	"context"
	"testing"

	"lostfound-board/internal/board/domain/model"
	apperrors "lostfound-board/internal/shared/errors"
	"lostfound-board/internal/shared/eventbus"
	"lostfound-board/internal/shared/logger"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newResolver(store *fakeStore) *ConversationResolver {
	log := logger.NewLogger()
	bus := eventbus.NewEventBus(log)
	return NewConversationResolver(store, NewQueryExecutor(store, log), bus, log)
}

func TestConversationResolver_CreatesOnceThenReuses(t *testing.T) {
	store := newFakeStore()
	resolver := newResolver(store)
	ctx := context.Background()

	first, err := resolver.GetOrCreate(ctx, "item-1", "alice", "bob")
	require.NoError(t, err)
	require.NotEmpty(t, first)

	second, err := resolver.GetOrCreate(ctx, "item-1", "alice", "bob")
	require.NoError(t, err)
	assert.Equal(t, first, second)
	assert.Len(t, store.data[model.CollectionConversations], 1)
}

func TestConversationResolver_PairOrderDoesNotMatter(t *testing.T) {
	store := newFakeStore()
	resolver := newResolver(store)
	ctx := context.Background()

	ab, err := resolver.GetOrCreate(ctx, "item-1", "alice", "bob")
	require.NoError(t, err)
	ba, err := resolver.GetOrCreate(ctx, "item-1", "bob", "alice")
	require.NoError(t, err)
	assert.Equal(t, ab, ba)
	assert.Len(t, store.data[model.CollectionConversations], 1)
}

func TestConversationResolver_DistinctItemsGetDistinctConversations(t *testing.T) {
	store := newFakeStore()
	resolver := newResolver(store)
	ctx := context.Background()

	one, err := resolver.GetOrCreate(ctx, "item-1", "alice", "bob")
	require.NoError(t, err)
	two, err := resolver.GetOrCreate(ctx, "item-2", "alice", "bob")
	require.NoError(t, err)
	assert.NotEqual(t, one, two)
}

func TestConversationResolver_FindsLegacyRandomIDConversation(t *testing.T) {
	store := newFakeStore()
	store.seed(model.CollectionConversations, "legacy-id", map[string]interface{}{
		"itemId":       "item-1",
		"participants": []string{"bob", "alice"},
		"createdAt":    int64(1),
		"updatedAt":    int64(1),
	})
	resolver := newResolver(store)

	id, err := resolver.GetOrCreate(context.Background(), "item-1", "alice", "bob")
	require.NoError(t, err)
	assert.Equal(t, "legacy-id", id)
	assert.Len(t, store.data[model.CollectionConversations], 1)
}

func TestConversationResolver_ConflictMeansConcurrentCreateWon(t *testing.T) {
	store := newFakeStore()
	resolver := newResolver(store)
	ctx := context.Background()

	// Pre-create the document under the deterministic id while leaving the
	// participants empty, so the scan misses it and Create collides.
	id := conversationID("item-1", "alice", "bob")
	require.NoError(t, store.Create(ctx, model.CollectionConversations, id, map[string]interface{}{
		"itemId": "item-1", "participants": []string{}, "createdAt": int64(1), "updatedAt": int64(1),
	}))

	got, err := resolver.GetOrCreate(ctx, "item-1", "alice", "bob")
	require.NoError(t, err)
	assert.Equal(t, id, got)
}

func TestConversationResolver_RequiresViewer(t *testing.T) {
	resolver := newResolver(newFakeStore())
	_, err := resolver.GetOrCreate(context.Background(), "item-1", "", "bob")
	require.Error(t, err)
	assert.True(t, apperrors.IsAuthentication(err))
	assert.Contains(t, err.Error(), "please log in")
}

func TestConversationID_Deterministic(t *testing.T) {
	a := conversationID("item-1", "alice", "bob")
	b := conversationID("item-1", "bob", "alice")
	c := conversationID("item-2", "alice", "bob")
	assert.Equal(t, a, b)
	assert.NotEqual(t, a, c)
	assert.Len(t, a, 40)
}
