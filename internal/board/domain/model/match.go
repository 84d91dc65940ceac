package model

// Matching thresholds shared by the local scorer and the match service.
const (
	// MatchScoreThreshold is the minimum similarity score a candidate must
	// reach to be surfaced at all.
	MatchScoreThreshold = 40

	// MaxMatchResults caps how many candidates a match run returns.
	MaxMatchResults = 5

	// MatchCandidatePoolSize is how many opposite-status items the local
	// fallback fetches before scoring.
	MatchCandidatePoolSize = 100
)

// MatchCandidate is an item proposed as a possible counterpart to another,
// with an integer similarity score in [0,100].
type MatchCandidate struct {
	Item  Item `json:"item"`
	Score int  `json:"score"`
}
