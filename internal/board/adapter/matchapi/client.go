// Package matchapi implements the HTTP client for the remote matching API.
package matchapi

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net"
	"net/http"
	"strings"

	"lostfound-board/internal/board/config"
	"lostfound-board/internal/board/domain/model"
	apperrors "lostfound-board/internal/shared/errors"
	"lostfound-board/internal/shared/logger"
)

const matchPath = "/api/v1/match"

// Client talks to the remote matcher over HTTP. It is safe for concurrent
// use; the underlying http.Client pools connections across requests.
//
// Every failure comes back as a transient-remote error so the caller can
// fall back to local scoring.
type Client struct {
	baseURL string
	apiKey  string
	http    *http.Client
	log     logger.Logger
}

// NewClient builds a matcher client from the given configuration. The
// connect timeout bounds dialing and TLS setup, the read timeout bounds
// waiting for response headers after the request is written.
func NewClient(cfg config.MatcherConfig, log logger.Logger) *Client {
	transport := &http.Transport{
		DialContext: (&net.Dialer{
			Timeout: cfg.ConnectTimeout,
		}).DialContext,
		TLSHandshakeTimeout:   cfg.ConnectTimeout,
		ResponseHeaderTimeout: cfg.ReadTimeout,
	}
	return &Client{
		baseURL: strings.TrimRight(cfg.BaseURL, "/"),
		apiKey:  cfg.APIKey,
		http:    &http.Client{Transport: transport},
		log:     log.WithComponent("MatcherClient"),
	}
}

type matchRequest struct {
	ID          string   `json:"id"`
	UserID      string   `json:"userId"`
	UserName    string   `json:"userName"`
	UserEmail   string   `json:"userEmail"`
	Title       string   `json:"title"`
	Description string   `json:"description"`
	Category    string   `json:"category"`
	Location    string   `json:"location"`
	Timestamp   int64    `json:"timestamp"`
	ImageURLs   []string `json:"imageURLs"`
	Status      string   `json:"status"`
	Resolved    bool     `json:"resolved"`
}

type matchPayload struct {
	ID              string   `json:"id"`
	Title           string   `json:"title"`
	Description     string   `json:"description"`
	Category        string   `json:"category"`
	Location        string   `json:"location"`
	Timestamp       int64    `json:"timestamp"`
	UserID          string   `json:"userId"`
	UserName        string   `json:"userName"`
	UserEmail       string   `json:"userEmail"`
	ImageURLs       []string `json:"imageURLs"`
	SimilarityScore int      `json:"similarity_score"`
}

type matchResponse struct {
	Matches []matchPayload `json:"matches"`
}

// FindMatches submits the lost item and returns the remote candidates. The
// request carries the remote category vocabulary; responses are mapped back
// into local item shape with status FOUND and the remote scores untouched.
func (c *Client) FindMatches(ctx context.Context, item model.Item) ([]model.MatchCandidate, error) {
	urls := item.ImageURLs
	if urls == nil {
		urls = []string{}
	}
	payload := matchRequest{
		ID:          item.ID,
		UserID:      item.OwnerID,
		UserName:    item.OwnerName,
		UserEmail:   item.OwnerEmail,
		Title:       item.Title,
		Description: item.Description,
		Category:    item.Category.RemoteName(),
		Location:    item.Location,
		Timestamp:   item.CreatedAt,
		ImageURLs:   urls,
		Status:      string(model.StatusLost),
		Resolved:    false,
	}

	body, err := json.Marshal(payload)
	if err != nil {
		return nil, apperrors.NewTransientRemoteError("failed to encode match request").WithCause(err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+matchPath, bytes.NewReader(body))
	if err != nil {
		return nil, apperrors.NewTransientRemoteError("failed to build match request").WithCause(err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("x-api-key", c.apiKey)

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, apperrors.NewTransientRemoteError("matcher request failed").WithCause(err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		io.Copy(io.Discard, resp.Body)
		return nil, apperrors.NewTransientRemoteError(fmt.Sprintf("matcher returned HTTP %d", resp.StatusCode))
	}

	var parsed matchResponse
	if err := json.NewDecoder(resp.Body).Decode(&parsed); err != nil {
		return nil, apperrors.NewTransientRemoteError("failed to decode matcher response").WithCause(err)
	}

	candidates := make([]model.MatchCandidate, 0, len(parsed.Matches))
	for _, match := range parsed.Matches {
		candidates = append(candidates, model.MatchCandidate{
			Item: model.Item{
				ID:          match.ID,
				Title:       match.Title,
				Description: match.Description,
				Category:    model.CategoryFromRemote(match.Category),
				Location:    match.Location,
				CreatedAt:   match.Timestamp,
				Status:      model.StatusFound,
				OwnerID:     match.UserID,
				OwnerName:   match.UserName,
				OwnerEmail:  match.UserEmail,
				ImageURLs:   match.ImageURLs,
			},
			Score: match.SimilarityScore,
		})
	}
	return candidates, nil
}
