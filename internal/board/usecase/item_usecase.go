package usecase

import (
	"context"
	"strings"
	"time"

	"lostfound-board/internal/board/domain/model"
	"lostfound-board/internal/board/domain/repository"
	apperrors "lostfound-board/internal/shared/errors"
	"lostfound-board/internal/shared/eventbus"
	"lostfound-board/internal/shared/logger"

	"github.com/google/uuid"
)

// ItemUsecase owns the item lifecycle: posting, listing, search and
// resolution. Posting also kicks off matching so the caller gets the
// candidate list in the same round trip.
type ItemUsecase struct {
	store    repository.DocumentStore
	executor *QueryExecutor
	matches  *MatchService
	bus      *eventbus.EventBus
	log      logger.Logger
}

// NewItemUsecase wires the item lifecycle over the store and match service.
func NewItemUsecase(store repository.DocumentStore, executor *QueryExecutor, matches *MatchService, bus *eventbus.EventBus, log logger.Logger) *ItemUsecase {
	return &ItemUsecase{
		store:    store,
		executor: executor,
		matches:  matches,
		bus:      bus,
		log:      log.WithComponent("ItemUsecase"),
	}
}

// Post validates and stores a new item, then runs matching against the
// opposite-status board. Matching failures never fail the post; the item is
// saved either way and the candidate list is simply empty.
func (u *ItemUsecase) Post(ctx context.Context, item model.Item) (model.Item, []model.MatchCandidate, error) {
	saved, err := u.Save(ctx, item)
	if err != nil {
		return model.Item{}, nil, err
	}
	return saved, u.matches.FindMatches(ctx, saved), nil
}

// Save validates and persists an item. A missing id gets a fresh one; a
// missing timestamp gets now. Returns the item as stored.
func (u *ItemUsecase) Save(ctx context.Context, item model.Item) (model.Item, error) {
	if item.OwnerID == "" {
		return model.Item{}, apperrors.NewAuthenticationError("please log in")
	}
	item.Title = strings.TrimSpace(item.Title)
	if item.Title == "" {
		return model.Item{}, apperrors.NewValidationError("item title is empty")
	}

	isNew := item.ID == ""
	if isNew {
		item.ID = uuid.NewString()
	}
	if item.CreatedAt == 0 {
		item.CreatedAt = time.Now().UnixMilli()
	}
	item.Category = model.ParseCategory(string(item.Category))
	item.Status = model.ParseItemStatus(string(item.Status))

	if err := u.store.Put(ctx, model.CollectionItems, item.ID, item.Fields()); err != nil {
		return model.Item{}, err
	}

	eventType := eventbus.EventTypeItemUpdated
	changeType := model.ChangeTypeUpdated
	if isNew {
		eventType = eventbus.EventTypeItemCreated
		changeType = model.ChangeTypeCreated
	}
	u.publishChange(ctx, eventType, model.ChangeEvent{
		Type:       changeType,
		Collection: model.CollectionItems,
		DocumentID: item.ID,
		Data:       item.Fields(),
		Timestamp:  time.Now(),
	})

	u.log.WithContext(ctx).Infof("saved item %s (%s, %s)", item.ID, item.Status, item.Category)
	return item, nil
}

// Get fetches a single item by id.
func (u *ItemUsecase) Get(ctx context.Context, itemID string) (model.Item, error) {
	doc, err := u.store.Get(ctx, model.CollectionItems, itemID)
	if err != nil {
		return model.Item{}, err
	}
	return model.ItemFromDocument(doc), nil
}

// List returns unresolved items newest first, optionally narrowed by
// category and status. limit <= 0 means no limit.
func (u *ItemUsecase) List(ctx context.Context, category, status string, limit int) ([]model.Item, error) {
	query := model.Query{}.
		Where(model.ItemFieldResolved, model.OperatorEqual, false).
		SortedBy(model.ItemFieldTimestamp, model.Descending)
	if category != "" {
		query = query.Where(model.ItemFieldCategory, model.OperatorEqual, string(model.ParseCategory(category)))
	}
	if status != "" {
		query = query.Where(model.ItemFieldStatus, model.OperatorEqual, string(model.ParseItemStatus(status)))
	}
	if limit > 0 {
		query = query.Limited(limit)
	}
	return u.queryItems(ctx, query)
}

// ListByOwner returns every item posted by one user, newest first,
// resolved ones included.
func (u *ItemUsecase) ListByOwner(ctx context.Context, ownerID string) ([]model.Item, error) {
	query := model.Query{}.
		Where(model.ItemFieldOwnerID, model.OperatorEqual, ownerID).
		SortedBy(model.ItemFieldTimestamp, model.Descending)
	return u.queryItems(ctx, query)
}

// Search filters unresolved items by a case-insensitive substring match on
// title and description. The match runs client-side over the listed pool.
func (u *ItemUsecase) Search(ctx context.Context, term string, limit int) ([]model.Item, error) {
	items, err := u.List(ctx, "", "", 0)
	if err != nil {
		return nil, err
	}
	term = strings.ToLower(strings.TrimSpace(term))
	if term == "" {
		return items, nil
	}

	matched := make([]model.Item, 0, len(items))
	for _, item := range items {
		if strings.Contains(strings.ToLower(item.Title), term) ||
			strings.Contains(strings.ToLower(item.Description), term) {
			matched = append(matched, item)
			if limit > 0 && len(matched) == limit {
				break
			}
		}
	}
	return matched, nil
}

// Matches re-runs matching for an already stored item.
func (u *ItemUsecase) Matches(ctx context.Context, itemID string) ([]model.MatchCandidate, error) {
	item, err := u.Get(ctx, itemID)
	if err != nil {
		return nil, err
	}
	return u.matches.FindMatches(ctx, item), nil
}

// Resolve marks an item as returned to its owner. Only the owner may
// resolve; anyone else gets a validation error.
func (u *ItemUsecase) Resolve(ctx context.Context, itemID, callerID string) error {
	item, err := u.Get(ctx, itemID)
	if err != nil {
		return err
	}
	if item.OwnerID != callerID {
		return apperrors.NewValidationError("only the item owner can resolve it")
	}
	if item.Resolved {
		return nil
	}

	if err := u.store.Update(ctx, model.CollectionItems, itemID, map[string]interface{}{
		model.ItemFieldResolved: true,
	}); err != nil {
		return err
	}

	u.publishChange(ctx, eventbus.EventTypeItemUpdated, model.ChangeEvent{
		Type:       model.ChangeTypeUpdated,
		Collection: model.CollectionItems,
		DocumentID: itemID,
		Data:       map[string]interface{}{model.ItemFieldResolved: true},
		Timestamp:  time.Now(),
	})
	return nil
}

// Delete removes an item. Only the owner may delete.
func (u *ItemUsecase) Delete(ctx context.Context, itemID, callerID string) error {
	item, err := u.Get(ctx, itemID)
	if err != nil {
		if apperrors.IsNotFound(err) {
			return nil
		}
		return err
	}
	if item.OwnerID != callerID {
		return apperrors.NewValidationError("only the item owner can delete it")
	}

	if err := u.store.Delete(ctx, model.CollectionItems, itemID); err != nil {
		return err
	}

	u.publishChange(ctx, eventbus.EventTypeItemDeleted, model.ChangeEvent{
		Type:       model.ChangeTypeDeleted,
		Collection: model.CollectionItems,
		DocumentID: itemID,
		Timestamp:  time.Now(),
	})
	return nil
}

func (u *ItemUsecase) queryItems(ctx context.Context, query model.Query) ([]model.Item, error) {
	docs, err := u.executor.Execute(ctx, model.CollectionItems, query)
	if err != nil {
		return nil, err
	}
	items := make([]model.Item, 0, len(docs))
	for _, doc := range docs {
		items = append(items, model.ItemFromDocument(doc))
	}
	return items, nil
}

func (u *ItemUsecase) publishChange(ctx context.Context, eventType string, change model.ChangeEvent) {
	if u.bus == nil {
		return
	}
	u.bus.PublishAndForget(ctx, eventbus.NewBasicEventWithSource(eventType, change, "ItemUsecase"))
}
