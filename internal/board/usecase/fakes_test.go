package usecase

import (
	"context"
	"sort"
	"sync"

	"lostfound-board/internal/board/domain/model"
	apperrors "lostfound-board/internal/shared/errors"
)

// fakeStore is an in-memory DocumentStore for the usecase tests. The knobs
// simulate the store rejecting query shapes for lack of an index.
type fakeStore struct {
	mu   sync.Mutex
	data map[string]map[string]map[string]interface{}

	failSortedQueries   bool
	failFilteredQueries bool
	queryErr            error

	queryCalls  []model.Query
	batchCalls  [][]string
	updateCalls []string
}

func newFakeStore() *fakeStore {
	return &fakeStore{data: make(map[string]map[string]map[string]interface{})}
}

func (f *fakeStore) seed(collection, id string, fields map[string]interface{}) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.data[collection] == nil {
		f.data[collection] = make(map[string]map[string]interface{})
	}
	f.data[collection][id] = fields
}

func (f *fakeStore) Get(_ context.Context, collection, id string) (model.Document, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	fields, ok := f.data[collection][id]
	if !ok {
		return model.Document{}, apperrors.NewNotFoundError(collection + "/" + id)
	}
	return model.Document{ID: id, Data: fields}, nil
}

func (f *fakeStore) Query(_ context.Context, collection string, query model.Query) ([]model.Document, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	f.queryCalls = append(f.queryCalls, query)
	if f.queryErr != nil {
		return nil, f.queryErr
	}
	if f.failSortedQueries && query.OrderBy != nil {
		return nil, apperrors.NewIndexUnavailableError("no composite index for sorted query")
	}
	if f.failFilteredQueries && len(query.Filters) > 0 {
		return nil, apperrors.NewIndexUnavailableError("no composite index for filtered query")
	}

	docs := make([]model.Document, 0)
	ids := make([]string, 0, len(f.data[collection]))
	for id := range f.data[collection] {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	for _, id := range ids {
		doc := model.Document{ID: id, Data: f.data[collection][id]}
		if fakeMatches(doc, query.Filters) {
			docs = append(docs, doc)
		}
	}
	if query.OrderBy != nil {
		sortDocuments(docs, query.OrderBy)
	}
	if query.Limit > 0 && len(docs) > query.Limit {
		docs = docs[:query.Limit]
	}
	return docs, nil
}

func (f *fakeStore) Put(_ context.Context, collection, id string, data map[string]interface{}) error {
	f.seed(collection, id, data)
	return nil
}

func (f *fakeStore) Create(_ context.Context, collection, id string, data map[string]interface{}) error {
	f.mu.Lock()
	if _, exists := f.data[collection][id]; exists {
		f.mu.Unlock()
		return apperrors.NewConflictError("document already exists: " + id)
	}
	f.mu.Unlock()
	f.seed(collection, id, data)
	return nil
}

func (f *fakeStore) Update(_ context.Context, collection, id string, fields map[string]interface{}) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.updateCalls = append(f.updateCalls, collection+"/"+id)
	doc, ok := f.data[collection][id]
	if !ok {
		return apperrors.NewNotFoundError(collection + "/" + id)
	}
	for k, v := range fields {
		doc[k] = v
	}
	return nil
}

func (f *fakeStore) Delete(_ context.Context, collection, id string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	delete(f.data[collection], id)
	return nil
}

func (f *fakeStore) BatchUpdate(_ context.Context, collection string, ids []string, fields map[string]interface{}) error {
	f.mu.Lock()
	batch := append([]string(nil), ids...)
	f.batchCalls = append(f.batchCalls, batch)
	f.mu.Unlock()
	for _, id := range ids {
		if err := f.Update(context.Background(), collection, id, fields); err != nil {
			return err
		}
	}
	return nil
}

func fakeMatches(doc model.Document, filters []model.Filter) bool {
	for _, filter := range filters {
		if !matchesFilter(doc, filter) {
			return false
		}
	}
	return true
}

// fakeMatcher is a canned MatcherClient.
type fakeMatcher struct {
	candidates []model.MatchCandidate
	err        error
	calls      int
}

func (f *fakeMatcher) FindMatches(context.Context, model.Item) ([]model.MatchCandidate, error) {
	f.calls++
	if f.err != nil {
		return nil, f.err
	}
	return f.candidates, nil
}
