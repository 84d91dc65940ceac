package usecase

import (
	"regexp"
	"strings"

	"lostfound-board/internal/board/domain/model"
)

// Scoring weights of the local similarity formula. The formula is frozen:
// clients and the remote matcher's fallback path must agree on every score.
const (
	categoryWeight    = 40
	locationWeight    = 25
	tokenBonusCap     = 35
	tokenOverlapValue = 8
	minTokenLength    = 2 // tokens must be strictly longer than this
)

var nonAlphanumeric = regexp.MustCompile(`[^a-z0-9\s]`)

// LocalMatcher scores how likely two items describe the same object. It is a
// pure function over the two records: deterministic, no I/O.
type LocalMatcher struct{}

// NewLocalMatcher creates the deterministic fallback scorer.
func NewLocalMatcher() *LocalMatcher {
	return &LocalMatcher{}
}

// Score returns an integer similarity in [0,100]:
//
//	+40 for an exact category match
//	+25 for a case-insensitive exact location match
//	+min(35, 8*overlap) for overlapping title/description tokens
func (m *LocalMatcher) Score(source, candidate model.Item) int {
	score := 0
	if source.Category == candidate.Category {
		score += categoryWeight
	}
	if strings.EqualFold(source.Location, candidate.Location) {
		score += locationWeight
	}

	sourceTokens := tokenize(source.Title + " " + source.Description)
	candidateTokens := tokenize(candidate.Title + " " + candidate.Description)
	overlap := 0
	for token := range sourceTokens {
		if _, ok := candidateTokens[token]; ok {
			overlap++
		}
	}
	if overlap > 0 {
		bonus := overlap * tokenOverlapValue
		if bonus > tokenBonusCap {
			bonus = tokenBonusCap
		}
		score += bonus
	}

	if score < 0 {
		return 0
	}
	if score > 100 {
		return 100
	}
	return score
}

// tokenize lower-cases the text, replaces everything outside [a-z0-9\s] with
// a space, splits on whitespace runs and keeps the set of tokens longer than
// two characters.
func tokenize(text string) map[string]struct{} {
	cleaned := nonAlphanumeric.ReplaceAllString(strings.ToLower(text), " ")
	tokens := make(map[string]struct{})
	for _, token := range strings.Fields(cleaned) {
		if len(token) > minTokenLength {
			tokens[token] = struct{}{}
		}
	}
	return tokens
}
