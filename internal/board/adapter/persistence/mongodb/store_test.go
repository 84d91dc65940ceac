package mongodb

import (
	"testing"
	"time"

	"lostfound-board/internal/board/domain/model"
	apperrors "lostfound-board/internal/shared/errors"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
)

func TestBuildFilter(t *testing.T) {
	filter := buildFilter([]model.Filter{
		{Field: "status", Operator: model.OperatorEqual, Value: "LOST"},
		{Field: "participants", Operator: model.OperatorArrayContains, Value: "alice"},
		{Field: "resolved", Operator: model.OperatorNotEqual, Value: true},
	})

	assert.Equal(t, "LOST", filter["status"])
	assert.Equal(t, "alice", filter["participants"], "array-contains is plain equality in mongo")
	assert.Equal(t, bson.M{"$ne": true}, filter["resolved"])
}

func TestBuildFilter_Empty(t *testing.T) {
	assert.Empty(t, buildFilter(nil))
}

func TestClassifyQueryError(t *testing.T) {
	indexErr := classifyQueryError("items", mongo.CommandError{Code: codeIndexNotFound, Message: "index not found"})
	assert.True(t, apperrors.IsIndexUnavailable(indexErr))

	planErr := classifyQueryError("items", mongo.CommandError{Code: codeNoQueryExecutionPlan, Message: "no plan"})
	assert.True(t, apperrors.IsIndexUnavailable(planErr))

	otherErr := classifyQueryError("items", mongo.CommandError{Code: 13, Message: "unauthorized"})
	assert.False(t, apperrors.IsIndexUnavailable(otherErr))
	assert.True(t, apperrors.IsStore(otherErr))
}

func TestToDocument_NormalizesDriverTypes(t *testing.T) {
	created := time.Date(2026, 8, 1, 12, 0, 0, 0, time.UTC)
	raw := bson.M{
		"_id":          "item-1",
		"title":        "Black wallet",
		"timestamp":    int32(100),
		"participants": primitive.A{"alice", "bob"},
		"createdAt":    primitive.NewDateTimeFromTime(created),
		"nested":       bson.D{{Key: "inner", Value: primitive.A{int32(1)}}},
	}

	doc := toDocument("item-1", raw)
	require.Equal(t, "item-1", doc.ID)
	assert.NotContains(t, doc.Data, "_id")
	assert.Equal(t, int64(100), doc.Data["timestamp"])
	assert.Equal(t, []interface{}{"alice", "bob"}, doc.Data["participants"])
	assert.Equal(t, created, doc.Data["createdAt"].(time.Time).UTC())

	nested := doc.Data["nested"].(map[string]interface{})
	assert.Equal(t, []interface{}{int64(1)}, nested["inner"])
}

func TestToDocument_RoundTripsItem(t *testing.T) {
	raw := bson.M{
		"_id":         "item-1",
		"title":       "Black wallet",
		"description": "leather",
		"category":    "CARDS",
		"location":    "Main Library",
		"timestamp":   int64(1700000000000),
		"status":      "LOST",
		"userId":      "alice",
		"imageUrls":   primitive.A{"https://img.example.edu/1.jpg"},
		"resolved":    false,
	}

	item := model.ItemFromDocument(toDocument("item-1", raw))
	assert.Equal(t, "item-1", item.ID)
	assert.Equal(t, model.CategoryCards, item.Category)
	assert.Equal(t, model.StatusLost, item.Status)
	assert.Equal(t, int64(1700000000000), item.CreatedAt)
	assert.Equal(t, []string{"https://img.example.edu/1.jpg"}, item.ImageURLs)
}
