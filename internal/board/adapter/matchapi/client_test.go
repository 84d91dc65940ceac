package matchapi

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"lostfound-board/internal/board/config"
	"lostfound-board/internal/board/domain/model"
	apperrors "lostfound-board/internal/shared/errors"
	"lostfound-board/internal/shared/logger"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestClient(baseURL string) *Client {
	return NewClient(config.MatcherConfig{
		BaseURL:        baseURL,
		APIKey:         "test-key",
		ConnectTimeout: 2 * time.Second,
		ReadTimeout:    2 * time.Second,
	}, logger.NewLogger())
}

func lostItem() model.Item {
	return model.Item{
		ID:          "lost-1",
		Title:       "Student card",
		Description: "blue lanyard",
		Category:    model.CategoryCards,
		Location:    "Main Library",
		CreatedAt:   1700000000000,
		Status:      model.StatusLost,
		OwnerID:     "alice",
		OwnerName:   "Alice",
		OwnerEmail:  "alice@example.edu",
	}
}

func TestClient_FindMatches(t *testing.T) {
	var gotBody map[string]interface{}
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/api/v1/match", r.URL.Path)
		assert.Equal(t, "test-key", r.Header.Get("x-api-key"))
		assert.Equal(t, "application/json", r.Header.Get("Content-Type"))
		require.NoError(t, json.NewDecoder(r.Body).Decode(&gotBody))

		json.NewEncoder(w).Encode(map[string]interface{}{
			"matches": []map[string]interface{}{
				{
					"id":               "found-7",
					"title":            "Found a student card",
					"category":         "STUDENT_CARD",
					"location":         "Main Library",
					"timestamp":        1700000100000,
					"userId":           "bob",
					"userName":         "Bob",
					"imageURLs":        []string{"https://img.example.edu/1.jpg"},
					"similarity_score": 87,
				},
				{
					"id":       "found-8",
					"title":    "Mystery bag",
					"category": "BAG",
				},
			},
		})
	}))
	defer server.Close()

	client := newTestClient(server.URL)
	got, err := client.FindMatches(context.Background(), lostItem())
	require.NoError(t, err)
	require.Len(t, got, 2)

	// Request uses the remote vocabulary and always declares a LOST item.
	assert.Equal(t, "STUDENT_CARD", gotBody["category"])
	assert.Equal(t, "LOST", gotBody["status"])
	assert.Equal(t, false, gotBody["resolved"])
	assert.Equal(t, "alice", gotBody["userId"])

	// Responses map back to local categories with status FOUND.
	assert.Equal(t, "found-7", got[0].Item.ID)
	assert.Equal(t, model.CategoryCards, got[0].Item.Category)
	assert.Equal(t, model.StatusFound, got[0].Item.Status)
	assert.Equal(t, 87, got[0].Score)
	assert.Equal(t, []string{"https://img.example.edu/1.jpg"}, got[0].Item.ImageURLs)

	assert.Equal(t, model.CategoryBags, got[1].Item.Category)
	assert.Zero(t, got[1].Score, "missing similarity_score defaults to zero")
}

func TestClient_NonSuccessStatusIsTransient(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	}))
	defer server.Close()

	_, err := newTestClient(server.URL).FindMatches(context.Background(), lostItem())
	require.Error(t, err)
	assert.True(t, apperrors.IsTransientRemote(err))
}

func TestClient_MalformedResponseIsTransient(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.Write([]byte("not json"))
	}))
	defer server.Close()

	_, err := newTestClient(server.URL).FindMatches(context.Background(), lostItem())
	require.Error(t, err)
	assert.True(t, apperrors.IsTransientRemote(err))
}

func TestClient_UnreachableHostIsTransient(t *testing.T) {
	_, err := newTestClient("http://127.0.0.1:1").FindMatches(context.Background(), lostItem())
	require.Error(t, err)
	assert.True(t, apperrors.IsTransientRemote(err))
}

func TestClient_HonoursContextCancellation(t *testing.T) {
	started := make(chan struct{})
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		// Drain the body so the server starts its background read; without it
		// the request context is never cancelled on client disconnect and
		// server.Close deadlocks.
		io.Copy(io.Discard, r.Body)
		close(started)
		<-r.Context().Done()
	}))
	defer server.Close()

	ctx, cancel := context.WithCancel(context.Background())
	go func() {
		<-started
		cancel()
	}()

	_, err := newTestClient(server.URL).FindMatches(ctx, lostItem())
	require.Error(t, err)
	assert.True(t, apperrors.IsTransientRemote(err))
}
