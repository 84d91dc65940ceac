package repository

import (
	"context"

	"lostfound-board/internal/board/domain/model"
)

// DocumentStore is the boundary to the external document store. The board
// core never talks to a store SDK directly; every read and write goes
// through this port so tests can substitute a fake.
//
// Query must return an error satisfying apperrors.IsIndexUnavailable when the
// store rejects the filter/sort combination for lack of a composite index;
// the query executor relies on that classification to escalate tiers.
type DocumentStore interface {
	// Get fetches a single document by id. A missing document yields an
	// error satisfying apperrors.IsNotFound.
	Get(ctx context.Context, collection, id string) (model.Document, error)

	// Query runs a filtered, optionally sorted, optionally limited read.
	Query(ctx context.Context, collection string, query model.Query) ([]model.Document, error)

	// Put writes the full document under the given id, creating or
	// replacing it.
	Put(ctx context.Context, collection, id string, data map[string]interface{}) error

	// Create writes the document only if the id is not yet taken. A
	// collision yields an error satisfying apperrors.IsConflict.
	Create(ctx context.Context, collection, id string, data map[string]interface{}) error

	// Update patches the named fields of an existing document.
	Update(ctx context.Context, collection, id string, fields map[string]interface{}) error

	// Delete removes a document. Deleting a missing document is not an error.
	Delete(ctx context.Context, collection, id string) error

	// BatchUpdate patches the same fields on every listed document in one
	// round trip.
	BatchUpdate(ctx context.Context, collection string, ids []string, fields map[string]interface{}) error
}
