package usecase

import (
	"context"
	"strings"
	"sync"
	"time"

	"lostfound-board/internal/board/domain/model"
	"lostfound-board/internal/board/domain/repository"
	apperrors "lostfound-board/internal/shared/errors"
	"lostfound-board/internal/shared/eventbus"
	"lostfound-board/internal/shared/logger"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// ChatSync maintains the live, denormalized view of a user's conversations
// and owns the message write paths. Subscribe materializes the full view
// list on every change-stream tick; consumers treat each emission as a
// complete replacement, never a diff.
//
// ChatSync holds no state between calls apart from the per-viewer
// subscription handles; at most one live subscription exists per viewer and
// re-subscribing releases the previous listener.
type ChatSync struct {
	store    repository.DocumentStore
	executor *QueryExecutor
	listener repository.ChangeListener
	bus      *eventbus.EventBus
	log      logger.Logger

	buffer int

	mu   sync.Mutex
	subs map[string]*chatSubscription
}

type chatSubscription struct {
	cancel context.CancelFunc
	done   chan struct{}
}

// NewChatSync wires the chat view layer. channelBuffer sizes the change
// event channel per subscription; values <= 0 fall back to a small default.
func NewChatSync(
	store repository.DocumentStore,
	executor *QueryExecutor,
	listener repository.ChangeListener,
	bus *eventbus.EventBus,
	channelBuffer int,
	log logger.Logger,
) *ChatSync {
	if channelBuffer <= 0 {
		channelBuffer = 10
	}
	return &ChatSync{
		store:    store,
		executor: executor,
		listener: listener,
		bus:      bus,
		buffer:   channelBuffer,
		log:      log.WithComponent("ChatSync"),
		subs:     make(map[string]*chatSubscription),
	}
}

// Subscribe opens the live view stream for a viewer. The first emission is
// the current state; every conversation change re-materializes and re-emits
// the whole list. Cancelling ctx, or subscribing again for the same viewer,
// tears the stream down and releases the listener.
func (s *ChatSync) Subscribe(ctx context.Context, viewerID string) (<-chan []model.ConversationView, error) {
	if viewerID == "" {
		return nil, apperrors.NewAuthenticationError("please log in")
	}

	subCtx, cancel := context.WithCancel(ctx)
	sub := &chatSubscription{cancel: cancel, done: make(chan struct{})}

	s.mu.Lock()
	prev := s.subs[viewerID]
	s.subs[viewerID] = sub
	s.mu.Unlock()

	// Waiting happens outside the lock; the outgoing goroutine's teardown
	// needs it.
	if prev != nil {
		prev.cancel()
		<-prev.done
	}

	events := make(chan model.ChangeEvent, s.buffer)
	if err := s.listener.Listen(model.CollectionConversations, viewerID, events); err != nil {
		cancel()
		close(sub.done)
		s.mu.Lock()
		if s.subs[viewerID] == sub {
			delete(s.subs, viewerID)
		}
		s.mu.Unlock()
		return nil, err
	}

	out := make(chan []model.ConversationView, 1)
	go s.run(subCtx, viewerID, sub, events, out)
	return out, nil
}

// Unsubscribe tears down the viewer's live subscription, if any.
func (s *ChatSync) Unsubscribe(viewerID string) {
	s.mu.Lock()
	sub, ok := s.subs[viewerID]
	if ok {
		delete(s.subs, viewerID)
	}
	s.mu.Unlock()

	if ok {
		sub.cancel()
		<-sub.done
	}
}

func (s *ChatSync) run(ctx context.Context, viewerID string, sub *chatSubscription, events chan model.ChangeEvent, out chan []model.ConversationView) {
	defer func() {
		s.listener.Cancel(model.CollectionConversations, viewerID)
		close(out)

		s.mu.Lock()
		if current, ok := s.subs[viewerID]; ok && current == sub {
			delete(s.subs, viewerID)
		}
		s.mu.Unlock()
		close(sub.done)
	}()

	emit := func() {
		views, err := s.Views(ctx, viewerID)
		if err != nil {
			s.log.Error("View materialization failed, keeping previous emission",
				zap.String("viewerID", viewerID), zap.Error(err))
			return
		}
		// Replace a stale pending emission instead of blocking on it.
		select {
		case out <- views:
		default:
			select {
			case <-out:
			default:
			}
			out <- views
		}
	}

	emit()

	for {
		select {
		case <-ctx.Done():
			return
		case _, ok := <-events:
			if !ok {
				return
			}
			emit()
		}
	}
}

// Views materializes the viewer's conversation list once: newest activity
// first, each conversation joined with the other participant's name, the
// item title, the last message and the unread flag. Missing users or items
// resolve to placeholders; only a failing conversations read is an error.
func (s *ChatSync) Views(ctx context.Context, viewerID string) ([]model.ConversationView, error) {
	query := model.Query{}.
		Where(model.ConversationFieldParticipants, model.OperatorArrayContains, viewerID).
		SortedBy(model.ConversationFieldUpdatedAt, model.Descending)

	docs, err := s.executor.Execute(ctx, model.CollectionConversations, query)
	if err != nil {
		return nil, err
	}

	conversations := make([]model.Conversation, 0, len(docs))
	for _, doc := range docs {
		conversations = append(conversations, model.ConversationFromDocument(doc))
	}

	userNames, itemTitles := s.resolveReferences(ctx, viewerID, conversations)

	views := make([]model.ConversationView, 0, len(conversations))
	for _, conv := range conversations {
		view := model.ConversationView{
			Conversation:  conv,
			OtherUserName: model.PlaceholderUserName,
			ItemTitle:     model.PlaceholderItemTitle,
		}
		if name, ok := userNames[conv.OtherParticipant(viewerID)]; ok && name != "" {
			view.OtherUserName = name
		}
		if title, ok := itemTitles[conv.ItemID]; ok && title != "" {
			view.ItemTitle = title
		}
		if last := s.lastMessage(ctx, conv.ID); last != nil {
			view.LastMessage = last
			view.Unread = !last.Read && last.SenderID != viewerID
		}
		views = append(views, view)
	}
	return views, nil
}

// resolveReferences batch-resolves the unique other-participant names and
// item titles for one snapshot tick, so each referenced document is fetched
// once regardless of how many conversations point at it.
func (s *ChatSync) resolveReferences(ctx context.Context, viewerID string, conversations []model.Conversation) (map[string]string, map[string]string) {
	userIDs := make(map[string]struct{})
	itemIDs := make(map[string]struct{})
	for _, conv := range conversations {
		if other := conv.OtherParticipant(viewerID); other != "" {
			userIDs[other] = struct{}{}
		}
		if conv.ItemID != "" {
			itemIDs[conv.ItemID] = struct{}{}
		}
	}

	userNames := make(map[string]string, len(userIDs))
	for id := range userIDs {
		doc, err := s.store.Get(ctx, model.CollectionUsers, id)
		if err != nil {
			if !apperrors.IsNotFound(err) {
				s.log.Warn("User lookup failed during view resolution",
					zap.String("userID", id), zap.Error(err))
			}
			continue
		}
		userNames[id] = model.UserFromDocument(doc).Name
	}

	itemTitles := make(map[string]string, len(itemIDs))
	for id := range itemIDs {
		doc, err := s.store.Get(ctx, model.CollectionItems, id)
		if err != nil {
			if !apperrors.IsNotFound(err) {
				s.log.Warn("Item lookup failed during view resolution",
					zap.String("itemID", id), zap.Error(err))
			}
			continue
		}
		itemTitles[id] = model.ItemFromDocument(doc).Title
	}
	return userNames, itemTitles
}

// lastMessage resolves the most recent message of a conversation, nil when
// there is none or the read fails.
func (s *ChatSync) lastMessage(ctx context.Context, conversationID string) *model.Message {
	query := model.Query{}.
		Where(model.MessageFieldConversationID, model.OperatorEqual, conversationID).
		SortedBy(model.MessageFieldTimestamp, model.Descending).
		Limited(1)

	docs, err := s.executor.Execute(ctx, model.CollectionMessages, query)
	if err != nil || len(docs) == 0 {
		return nil
	}
	msg := model.MessageFromDocument(docs[0])
	return &msg
}

// Messages returns a conversation's full history ordered oldest first.
func (s *ChatSync) Messages(ctx context.Context, conversationID string) ([]model.Message, error) {
	query := model.Query{}.
		Where(model.MessageFieldConversationID, model.OperatorEqual, conversationID).
		SortedBy(model.MessageFieldTimestamp, model.Ascending)

	docs, err := s.executor.Execute(ctx, model.CollectionMessages, query)
	if err != nil {
		return nil, err
	}

	messages := make([]model.Message, 0, len(docs))
	for _, doc := range docs {
		messages = append(messages, model.MessageFromDocument(doc))
	}
	return messages, nil
}

// SendMessage appends a message and bumps the conversation's updatedAt. The
// two writes are not atomic: the message can be visible briefly before the
// conversation reorders.
func (s *ChatSync) SendMessage(ctx context.Context, conversationID, senderID, senderName, text string) (string, error) {
	if senderID == "" {
		return "", apperrors.NewAuthenticationError("please log in")
	}
	text = strings.TrimSpace(text)
	if text == "" {
		return "", apperrors.NewValidationError("message text is empty")
	}

	now := time.Now().UnixMilli()
	msg := model.Message{
		ID:             uuid.NewString(),
		ConversationID: conversationID,
		SenderID:       senderID,
		SenderName:     senderName,
		Text:           text,
		Timestamp:      now,
		Read:           false,
	}

	if err := s.store.Put(ctx, model.CollectionMessages, msg.ID, msg.Fields()); err != nil {
		return "", err
	}
	if err := s.store.Update(ctx, model.CollectionConversations, conversationID, map[string]interface{}{
		model.ConversationFieldUpdatedAt: now,
	}); err != nil {
		return "", err
	}

	s.publishChange(ctx, eventbus.EventTypeMessageSent, model.ChangeEvent{
		Type:       model.ChangeTypeCreated,
		Collection: model.CollectionMessages,
		DocumentID: msg.ID,
		Data:       msg.Fields(),
		Timestamp:  time.Now(),
	})
	s.publishChange(ctx, eventbus.EventTypeConversationUpdated, model.ChangeEvent{
		Type:       model.ChangeTypeUpdated,
		Collection: model.CollectionConversations,
		DocumentID: conversationID,
		Data: map[string]interface{}{
			model.ConversationFieldUpdatedAt: now,
		},
		Timestamp: time.Now(),
	})
	return msg.ID, nil
}

// MarkRead flips read to true on every unread message in the conversation
// that the viewer did not send. The viewer's own messages stay untouched.
func (s *ChatSync) MarkRead(ctx context.Context, conversationID, viewerID string) error {
	if viewerID == "" {
		return apperrors.NewAuthenticationError("please log in")
	}

	query := model.Query{}.
		Where(model.MessageFieldConversationID, model.OperatorEqual, conversationID).
		Where(model.MessageFieldRead, model.OperatorEqual, false)

	docs, err := s.executor.Execute(ctx, model.CollectionMessages, query)
	if err != nil {
		return err
	}

	ids := make([]string, 0, len(docs))
	for _, doc := range docs {
		if model.MessageFromDocument(doc).SenderID != viewerID {
			ids = append(ids, doc.ID)
		}
	}
	if len(ids) == 0 {
		return nil
	}

	if err := s.store.BatchUpdate(ctx, model.CollectionMessages, ids, map[string]interface{}{
		model.MessageFieldRead: true,
	}); err != nil {
		return err
	}

	s.publishChange(ctx, eventbus.EventTypeMessagesRead, model.ChangeEvent{
		Type:       model.ChangeTypeUpdated,
		Collection: model.CollectionMessages,
		DocumentID: conversationID,
		Data: map[string]interface{}{
			model.MessageFieldConversationID: conversationID,
			"count":                          len(ids),
		},
		Timestamp: time.Now(),
	})
	return nil
}

func (s *ChatSync) publishChange(ctx context.Context, eventType string, change model.ChangeEvent) {
	if s.bus == nil {
		return
	}
	s.bus.PublishAndForget(ctx, eventbus.NewBasicEventWithSource(eventType, change, "ChatSync"))
}
