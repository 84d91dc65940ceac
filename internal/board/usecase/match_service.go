package usecase

import (
	"context"
	"sort"

	"lostfound-board/internal/board/domain/client"
	"lostfound-board/internal/board/domain/model"
	"lostfound-board/internal/shared/logger"
)

// MatchService finds plausible counterpart items for a newly posted item. A
// LOST item first goes to the remote matcher; on any remote failure, or for
// FOUND items, candidates come from the deterministic local scorer over the
// opposite-status pool.
//
// FindMatches never fails: every error path degrades to the next step or to
// an empty result. The whole operation is read-only and safe to retry or
// cancel.
type MatchService struct {
	matcher  client.MatcherClient
	executor *QueryExecutor
	scorer   *LocalMatcher
	log      logger.Logger
}

// NewMatchService wires the remote client, the tiered query executor and the
// local scorer together.
func NewMatchService(matcher client.MatcherClient, executor *QueryExecutor, scorer *LocalMatcher, log logger.Logger) *MatchService {
	return &MatchService{
		matcher:  matcher,
		executor: executor,
		scorer:   scorer,
		log:      log.WithComponent("MatchService"),
	}
}

// FindMatches returns up to five candidates ordered by score descending.
// Cancellation via ctx simply discards the in-flight result.
func (s *MatchService) FindMatches(ctx context.Context, item model.Item) []model.MatchCandidate {
	log := s.log.WithContext(ctx)

	if item.Status == model.StatusLost && s.matcher != nil {
		candidates, err := s.matcher.FindMatches(ctx, item)
		if err != nil {
			log.Warnf("remote matcher unavailable for item %s, falling back to local scoring: %v", item.ID, err)
		} else if len(candidates) > 0 {
			log.Infof("remote matcher returned %d candidates for item %s", len(candidates), item.ID)
			return candidates
		}
	}

	return s.findMatchesLocally(ctx, item)
}

// findMatchesLocally fetches up to 100 opposite-status items newest-first,
// scores each against the source and keeps the top scorers at or above the
// threshold. The sort is stable so ties keep the newest-first pool order.
func (s *MatchService) findMatchesLocally(ctx context.Context, item model.Item) []model.MatchCandidate {
	query := model.Query{}.
		Where(model.ItemFieldStatus, model.OperatorEqual, string(item.Status.Opposite())).
		SortedBy(model.ItemFieldTimestamp, model.Descending).
		Limited(model.MatchCandidatePoolSize)

	docs, err := s.executor.Execute(ctx, model.CollectionItems, query)
	if err != nil {
		s.log.WithContext(ctx).Warnf("candidate pool fetch failed for item %s: %v", item.ID, err)
		return []model.MatchCandidate{}
	}

	candidates := make([]model.MatchCandidate, 0, len(docs))
	for _, doc := range docs {
		candidate := model.ItemFromDocument(doc)
		if candidate.ID == item.ID || candidate.OwnerID == item.OwnerID {
			continue
		}
		score := s.scorer.Score(item, candidate)
		if score >= model.MatchScoreThreshold {
			candidates = append(candidates, model.MatchCandidate{Item: candidate, Score: score})
		}
	}

	sort.SliceStable(candidates, func(i, j int) bool {
		return candidates[i].Score > candidates[j].Score
	})

	if len(candidates) > model.MaxMatchResults {
		candidates = candidates[:model.MaxMatchResults]
	}
	return candidates
}
