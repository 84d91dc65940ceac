// Package mongodb implements the document store boundary on MongoDB.
package mongodb

import (
	"context"
	"errors"
	"fmt"

	"lostfound-board/internal/board/domain/model"
	apperrors "lostfound-board/internal/shared/errors"
	"lostfound-board/internal/shared/logger"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// Store is the MongoDB-backed DocumentStore. One Mongo collection per board
// collection; the document id doubles as the Mongo _id so lookups never need
// a secondary index.
type Store struct {
	db  *mongo.Database
	log logger.Logger
}

// NewStore creates a store over an already connected database handle.
func NewStore(db *mongo.Database, log logger.Logger) *Store {
	return &Store{
		db:  db,
		log: log.WithComponent("MongoStore"),
	}
}

// Get fetches one document by id.
func (s *Store) Get(ctx context.Context, collection, id string) (model.Document, error) {
	var raw bson.M
	err := s.db.Collection(collection).FindOne(ctx, bson.M{"_id": id}).Decode(&raw)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return model.Document{}, apperrors.NewNotFoundError(collection + "/" + id)
		}
		return model.Document{}, apperrors.NewStoreError("failed to read document").WithCause(err)
	}
	return toDocument(id, raw), nil
}

// Query runs a filtered, optionally sorted, optionally limited read. A query
// shape the server rejects for lack of an index comes back as an
// index-unavailable error so the executor can degrade.
func (s *Store) Query(ctx context.Context, collection string, query model.Query) ([]model.Document, error) {
	findOptions := options.Find()
	if query.OrderBy != nil {
		direction := 1
		if query.OrderBy.Direction == model.Descending {
			direction = -1
		}
		findOptions.SetSort(bson.D{{Key: query.OrderBy.Field, Value: direction}})
	}
	if query.Limit > 0 {
		findOptions.SetLimit(int64(query.Limit))
	}

	cursor, err := s.db.Collection(collection).Find(ctx, buildFilter(query.Filters), findOptions)
	if err != nil {
		return nil, classifyQueryError(collection, err)
	}
	defer cursor.Close(ctx)

	docs := make([]model.Document, 0)
	for cursor.Next(ctx) {
		var raw bson.M
		if err := cursor.Decode(&raw); err != nil {
			return nil, apperrors.NewStoreError("failed to decode document").WithCause(err)
		}
		id, _ := raw["_id"].(string)
		docs = append(docs, toDocument(id, raw))
	}
	if err := cursor.Err(); err != nil {
		return nil, classifyQueryError(collection, err)
	}
	return docs, nil
}

// Put writes the full document under the given id, creating or replacing it.
func (s *Store) Put(ctx context.Context, collection, id string, data map[string]interface{}) error {
	replacement := bson.M{"_id": id}
	for k, v := range data {
		replacement[k] = v
	}
	_, err := s.db.Collection(collection).ReplaceOne(ctx, bson.M{"_id": id}, replacement, options.Replace().SetUpsert(true))
	if err != nil {
		return apperrors.NewStoreError("failed to write document").WithCause(err)
	}
	return nil
}

// Create inserts the document only if the id is not yet taken.
func (s *Store) Create(ctx context.Context, collection, id string, data map[string]interface{}) error {
	insert := bson.M{"_id": id}
	for k, v := range data {
		insert[k] = v
	}
	_, err := s.db.Collection(collection).InsertOne(ctx, insert)
	if err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return apperrors.NewConflictError("document already exists: " + id)
		}
		return apperrors.NewStoreError("failed to create document").WithCause(err)
	}
	return nil
}

// Update patches the named fields of an existing document.
func (s *Store) Update(ctx context.Context, collection, id string, fields map[string]interface{}) error {
	result, err := s.db.Collection(collection).UpdateByID(ctx, id, bson.M{"$set": fields})
	if err != nil {
		return apperrors.NewStoreError("failed to update document").WithCause(err)
	}
	if result.MatchedCount == 0 {
		return apperrors.NewNotFoundError(collection + "/" + id)
	}
	return nil
}

// Delete removes a document. Deleting a missing document is not an error.
func (s *Store) Delete(ctx context.Context, collection, id string) error {
	_, err := s.db.Collection(collection).DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return apperrors.NewStoreError("failed to delete document").WithCause(err)
	}
	return nil
}

// BatchUpdate patches the same fields on every listed document in one round
// trip.
func (s *Store) BatchUpdate(ctx context.Context, collection string, ids []string, fields map[string]interface{}) error {
	if len(ids) == 0 {
		return nil
	}
	_, err := s.db.Collection(collection).UpdateMany(ctx,
		bson.M{"_id": bson.M{"$in": ids}},
		bson.M{"$set": fields},
	)
	if err != nil {
		return apperrors.NewStoreError("failed to batch update documents").WithCause(err)
	}
	return nil
}

// buildFilter translates the boundary's filters into a Mongo filter
// document. array-contains maps to plain equality: Mongo matches scalar
// values against array elements natively.
func buildFilter(filters []model.Filter) bson.M {
	filter := bson.M{}
	for _, f := range filters {
		switch f.Operator {
		case model.OperatorEqual, model.OperatorArrayContains:
			filter[f.Field] = f.Value
		case model.OperatorNotEqual:
			filter[f.Field] = bson.M{"$ne": f.Value}
		}
	}
	return filter
}

// Server error codes that mean the query shape needs an index the
// collection does not have.
const (
	codeIndexNotFound        = 27
	codeNoQueryExecutionPlan = 291
)

func classifyQueryError(collection string, err error) error {
	var cmdErr mongo.CommandError
	if errors.As(err, &cmdErr) {
		if cmdErr.Code == codeIndexNotFound || cmdErr.Code == codeNoQueryExecutionPlan {
			return apperrors.NewIndexUnavailableError(
				fmt.Sprintf("no index for query on %s: %s", collection, cmdErr.Message)).WithCause(err)
		}
	}
	return apperrors.NewStoreError("query failed on " + collection).WithCause(err)
}

// toDocument strips the _id and normalizes driver types so the rest of the
// system never sees bson primitives.
func toDocument(id string, raw bson.M) model.Document {
	data := make(map[string]interface{}, len(raw))
	for k, v := range raw {
		if k == "_id" {
			continue
		}
		data[k] = normalizeValue(v)
	}
	return model.Document{ID: id, Data: data}
}

func normalizeValue(v interface{}) interface{} {
	switch value := v.(type) {
	case primitive.A:
		out := make([]interface{}, len(value))
		for i, item := range value {
			out[i] = normalizeValue(item)
		}
		return out
	case bson.M:
		out := make(map[string]interface{}, len(value))
		for k, item := range value {
			out[k] = normalizeValue(item)
		}
		return out
	case bson.D:
		out := make(map[string]interface{}, len(value))
		for _, elem := range value {
			out[elem.Key] = normalizeValue(elem.Value)
		}
		return out
	case primitive.DateTime:
		return value.Time()
	case int32:
		return int64(value)
	default:
		return v
	}
}
