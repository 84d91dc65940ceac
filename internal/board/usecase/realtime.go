package usecase

import (
	"context"
	"sync"

	"lostfound-board/internal/board/domain/model"
	"lostfound-board/internal/shared/eventbus"
	"lostfound-board/internal/shared/logger"

	"go.uber.org/zap"
)

// RealtimeHub implements the store boundary's listen primitive in-process:
// write usecases publish ChangeEvents onto the event bus, the hub fans them
// out to per-collection subscribers. Subscriber channels must be buffered;
// a full channel drops the event for that subscriber rather than blocking
// distribution.
type RealtimeHub struct {
	// subscriptions maps a collection to a map of subscriber IDs to their
	// event channels.
	subscriptions map[string]map[string]chan<- model.ChangeEvent
	mu            sync.RWMutex
	log           logger.Logger
}

// NewRealtimeHub creates a hub and registers it on the bus for every change
// event type the write paths publish.
func NewRealtimeHub(bus *eventbus.EventBus, log logger.Logger) *RealtimeHub {
	hub := &RealtimeHub{
		subscriptions: make(map[string]map[string]chan<- model.ChangeEvent),
		log:           log.WithComponent("RealtimeHub"),
	}
	if bus != nil {
		for _, eventType := range []string{
			eventbus.EventTypeItemCreated,
			eventbus.EventTypeItemUpdated,
			eventbus.EventTypeItemDeleted,
			eventbus.EventTypeConversationCreated,
			eventbus.EventTypeConversationUpdated,
			eventbus.EventTypeMessageSent,
			eventbus.EventTypeMessagesRead,
		} {
			bus.Subscribe(eventType, hub.handleBusEvent)
		}
	}
	return hub
}

func (h *RealtimeHub) handleBusEvent(ctx context.Context, event eventbus.Event) error {
	change, ok := event.Data().(model.ChangeEvent)
	if !ok {
		h.log.Warn("Dropping bus event with unexpected payload", zap.String("eventType", event.Type()))
		return nil
	}
	h.Publish(change)
	return nil
}

// Listen registers a subscriber channel for one collection's change events.
// Subscribing again under the same id replaces the previous registration.
func (h *RealtimeHub) Listen(collection, subscriberID string, events chan<- model.ChangeEvent) error {
	h.mu.Lock()
	defer h.mu.Unlock()

	if _, ok := h.subscriptions[collection]; !ok {
		h.subscriptions[collection] = make(map[string]chan<- model.ChangeEvent)
	}
	if _, ok := h.subscriptions[collection][subscriberID]; ok {
		h.log.Warn("Subscriber already listening to collection, overwriting subscription",
			zap.String("subscriberID", subscriberID), zap.String("collection", collection))
	}

	h.subscriptions[collection][subscriberID] = events
	h.log.Debug("Subscriber listening", zap.String("subscriberID", subscriberID), zap.String("collection", collection))
	return nil
}

// Cancel removes a subscription. The subscriber owns the channel and closes
// it after cancelling; the hub only stops delivering.
func (h *RealtimeHub) Cancel(collection, subscriberID string) {
	h.mu.Lock()
	defer h.mu.Unlock()

	subscribers, ok := h.subscriptions[collection]
	if !ok {
		return
	}
	if _, ok := subscribers[subscriberID]; !ok {
		return
	}
	delete(subscribers, subscriberID)
	if len(subscribers) == 0 {
		delete(h.subscriptions, collection)
	}
	h.log.Debug("Subscriber cancelled", zap.String("subscriberID", subscriberID), zap.String("collection", collection))
}

// Publish fans a change event out to every subscriber of its collection.
// Sends are non-blocking so a slow consumer cannot stall the writer.
func (h *RealtimeHub) Publish(event model.ChangeEvent) {
	h.mu.RLock()
	defer h.mu.RUnlock()

	subscribers, ok := h.subscriptions[event.Collection]
	if !ok {
		return
	}

	for subID, ch := range subscribers {
		select {
		case ch <- event:
		default:
			h.log.Warn("Dropping change event for slow subscriber",
				zap.String("subscriberID", subID), zap.String("collection", event.Collection))
		}
	}
}

// SubscriberCount reports how many subscribers a collection currently has.
func (h *RealtimeHub) SubscriberCount(collection string) int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.subscriptions[collection])
}
