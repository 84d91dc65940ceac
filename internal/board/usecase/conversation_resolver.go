package usecase

import (
	"context"
	"crypto/sha1"
	"encoding/hex"
	"sort"
	"time"

	"lostfound-board/internal/board/domain/model"
	"lostfound-board/internal/board/domain/repository"
	apperrors "lostfound-board/internal/shared/errors"
	"lostfound-board/internal/shared/eventbus"
	"lostfound-board/internal/shared/logger"
)

// ConversationResolver finds or creates the conversation for an
// (item, participant-pair). The pair is unordered: GetOrCreate(item, a, b)
// and GetOrCreate(item, b, a) resolve to the same conversation.
//
// New conversations get an id derived deterministically from the item and
// the sorted pair, written with an insert-if-absent, so two racing callers
// converge on one document instead of creating duplicates. Conversations
// created by older clients with random ids are still found by the scan.
type ConversationResolver struct {
	store    repository.DocumentStore
	executor *QueryExecutor
	bus      *eventbus.EventBus
	log      logger.Logger
}

// NewConversationResolver creates a resolver over the given store and bus.
func NewConversationResolver(store repository.DocumentStore, executor *QueryExecutor, bus *eventbus.EventBus, log logger.Logger) *ConversationResolver {
	return &ConversationResolver{
		store:    store,
		executor: executor,
		bus:      bus,
		log:      log.WithComponent("ConversationResolver"),
	}
}

// GetOrCreate returns the id of the conversation between userA and userB
// about the given item, creating it when absent.
func (r *ConversationResolver) GetOrCreate(ctx context.Context, itemID, userA, userB string) (string, error) {
	if userA == "" {
		return "", apperrors.NewAuthenticationError("please log in")
	}

	query := model.Query{}.
		Where(model.ConversationFieldParticipants, model.OperatorArrayContains, userA)

	docs, err := r.executor.Execute(ctx, model.CollectionConversations, query)
	if err != nil && !apperrors.IsIndexUnavailable(err) {
		return "", err
	}

	for _, doc := range docs {
		conv := model.ConversationFromDocument(doc)
		if conv.ItemID == itemID && conv.HasParticipant(userA) && conv.HasParticipant(userB) {
			return conv.ID, nil
		}
	}

	now := time.Now().UnixMilli()
	conv := model.Conversation{
		ItemID:       itemID,
		Participants: []string{userA, userB},
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	id := conversationID(itemID, userA, userB)

	if err := r.store.Create(ctx, model.CollectionConversations, id, conv.Fields()); err != nil {
		if apperrors.IsConflict(err) {
			// A concurrent caller created it between our scan and write;
			// the deterministic id makes that the same conversation.
			return id, nil
		}
		return "", err
	}

	r.log.WithContext(ctx).Infof("created conversation %s for item %s", id, itemID)
	if r.bus != nil {
		r.bus.PublishAndForget(ctx, eventbus.NewBasicEventWithSource(
			eventbus.EventTypeConversationCreated,
			model.ChangeEvent{
				Type:       model.ChangeTypeCreated,
				Collection: model.CollectionConversations,
				DocumentID: id,
				Data:       conv.Fields(),
				Timestamp:  time.Now(),
			},
			"ConversationResolver",
		))
	}
	return id, nil
}

// conversationID derives a stable id from the item and the unordered pair.
func conversationID(itemID, userA, userB string) string {
	pair := []string{userA, userB}
	sort.Strings(pair)
	sum := sha1.Sum([]byte(itemID + "|" + pair[0] + "|" + pair[1]))
	return hex.EncodeToString(sum[:])
}
