package client

import (
	"context"

	"lostfound-board/internal/board/domain/model"
)

// MatcherClient is the port to the remote matching API. Implementations
// translate categories to the remote vocabulary on the way out and back on
// the way in; failures are reported as transient-remote errors so the match
// service can fall back to local scoring.
type MatcherClient interface {
	// FindMatches submits a lost item and returns the remote candidates,
	// already mapped back into local item shape with status FOUND. The
	// returned scores are the remote scores, passed through untouched.
	FindMatches(ctx context.Context, item model.Item) ([]model.MatchCandidate, error)
}
