// Package persistence holds store-adjacent adapters that are not the
// document store itself.
package persistence

import (
	"context"
	"encoding/json"
	"strconv"
	"time"

	"lostfound-board/internal/board/domain/model"
	"lostfound-board/internal/shared/eventbus"
	"lostfound-board/internal/shared/logger"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

const journalStreamPrefix = "changes:"

// RedisChangeJournal appends every change event to a per-collection Redis
// Stream. The journal is an audit and replay surface; the in-process hub
// stays the delivery path, so a journal write failure never blocks or fails
// the operation that produced the change.
type RedisChangeJournal struct {
	client    *redis.Client
	maxLength int64
	logger    logger.Logger
}

// NewRedisChangeJournal creates the journal and registers it on the bus for
// every change event type.
func NewRedisChangeJournal(client *redis.Client, bus *eventbus.EventBus, maxLength int64, log logger.Logger) *RedisChangeJournal {
	journal := &RedisChangeJournal{
		client:    client,
		maxLength: maxLength,
		logger:    log.WithComponent("RedisChangeJournal"),
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
			bus.Subscribe(eventType, journal.handleBusEvent)
		}
	}
	return journal
}

func (j *RedisChangeJournal) handleBusEvent(ctx context.Context, event eventbus.Event) error {
	change, ok := event.Data().(model.ChangeEvent)
	if !ok {
		j.logger.Warn("Skipping bus event with unexpected payload", zap.String("eventType", event.Type()))
		return nil
	}
	return j.Append(ctx, change)
}

// Append writes one change event to its collection's stream, trimming the
// stream approximately to the configured maximum length.
func (j *RedisChangeJournal) Append(ctx context.Context, event model.ChangeEvent) error {
	data, err := json.Marshal(event.Data)
	if err != nil {
		j.logger.Error("Failed to serialize change data", zap.Error(err))
		return err
	}

	streamName := journalStreamPrefix + event.Collection

	_, err = j.client.XAdd(ctx, &redis.XAddArgs{
		Stream: streamName,
		MaxLen: j.maxLength,
		Approx: true,
		Values: map[string]interface{}{
			"type":       string(event.Type),
			"collection": event.Collection,
			"documentId": event.DocumentID,
			"data":       data,
			"timestamp":  event.Timestamp.UnixNano(),
		},
	}).Result()

	if err != nil {
		j.logger.Error("Failed to append change to journal",
			zap.String("stream", streamName),
			zap.String("documentId", event.DocumentID),
			zap.Error(err))
		return err
	}

	j.logger.Debug("Change appended to journal",
		zap.String("stream", streamName),
		zap.String("documentId", event.DocumentID))
	return nil
}

// EventsSince reads changes appended after the given stream id; "0" reads
// the whole retained stream. The returned id of the last message can be
// passed back in to continue from there.
func (j *RedisChangeJournal) EventsSince(ctx context.Context, collection, lastID string) ([]model.ChangeEvent, string, error) {
	streamName := journalStreamPrefix + collection
	if lastID == "" {
		lastID = "0"
	}

	exists, err := j.client.Exists(ctx, streamName).Result()
	if err != nil {
		return nil, lastID, err
	}
	if exists == 0 {
		return []model.ChangeEvent{}, lastID, nil
	}

	readCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	res, err := j.client.XRead(readCtx, &redis.XReadArgs{
		Streams: []string{streamName, lastID},
		Count:   1000,
		Block:   0,
	}).Result()
	if err != nil {
		if err == redis.Nil || err == context.DeadlineExceeded {
			return []model.ChangeEvent{}, lastID, nil
		}
		return nil, lastID, err
	}

	events := make([]model.ChangeEvent, 0)
	for _, streamRes := range res {
		for _, msg := range streamRes.Messages {
			event, err := parseJournalMessage(msg)
			if err != nil {
				j.logger.Warn("Skipping unparseable journal entry",
					zap.String("messageId", msg.ID), zap.Error(err))
				continue
			}
			events = append(events, event)
			lastID = msg.ID
		}
	}
	return events, lastID, nil
}

func parseJournalMessage(msg redis.XMessage) (model.ChangeEvent, error) {
	event := model.ChangeEvent{
		Type:       model.ChangeType(stringField(msg, "type")),
		Collection: stringField(msg, "collection"),
		DocumentID: stringField(msg, "documentId"),
	}

	if raw := stringField(msg, "data"); raw != "" && raw != "null" {
		if err := json.Unmarshal([]byte(raw), &event.Data); err != nil {
			return model.ChangeEvent{}, err
		}
	}
	if raw := stringField(msg, "timestamp"); raw != "" {
		nanos, err := strconv.ParseInt(raw, 10, 64)
		if err != nil {
			return model.ChangeEvent{}, err
		}
		event.Timestamp = time.Unix(0, nanos)
	}
	return event, nil
}

func stringField(msg redis.XMessage, key string) string {
	if v, ok := msg.Values[key].(string); ok {
		return v
	}
	return ""
}
