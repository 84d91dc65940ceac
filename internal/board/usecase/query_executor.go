package usecase

import (
	"context"
	"sort"
	"strings"

	"lostfound-board/internal/board/domain/model"
	"lostfound-board/internal/board/domain/repository"
	apperrors "lostfound-board/internal/shared/errors"
	"lostfound-board/internal/shared/logger"
)

// QueryExecutor runs filter/sort/limit reads against the document store,
// degrading through three strategies when the store lacks the composite
// index a query needs:
//
//	tier 1: filtered, server-sorted, server-limited
//	tier 2: same filter, server limit, no server sort
//	tier 3: full unfiltered fetch, filter/sort/limit applied client-side
//
// Escalation happens only on the index-unavailable error class; any other
// error propagates immediately. Once any tier succeeds the index error is
// absorbed and never surfaced.
type QueryExecutor struct {
	store repository.DocumentStore
	log   logger.Logger
}

// NewQueryExecutor creates a query executor over the given store.
func NewQueryExecutor(store repository.DocumentStore, log logger.Logger) *QueryExecutor {
	return &QueryExecutor{
		store: store,
		log:   log.WithComponent("QueryExecutor"),
	}
}

// Execute runs the query, escalating tiers as needed. Results are always
// ordered according to the query's sort clause: when the store cannot sort
// server-side, the executor sorts what it got back.
func (e *QueryExecutor) Execute(ctx context.Context, collection string, q model.Query) ([]model.Document, error) {
	// Tier 1: let the store do everything.
	docs, tierOneErr := e.store.Query(ctx, collection, q)
	if tierOneErr == nil {
		return docs, nil
	}
	if !apperrors.IsIndexUnavailable(tierOneErr) {
		return nil, tierOneErr
	}

	e.log.WithContext(ctx).Debugf("tier 1 index unavailable on %s, degrading to unsorted query", collection)

	// Tier 2: same filter and limit, no server sort.
	if q.OrderBy != nil {
		docs, err := e.store.Query(ctx, collection, q.WithoutSort())
		if err == nil {
			sortDocuments(docs, q.OrderBy)
			return docs, nil
		}
		if !apperrors.IsIndexUnavailable(err) {
			return nil, err
		}
		e.log.WithContext(ctx).Debugf("tier 2 index unavailable on %s, degrading to full scan", collection)
	}

	// Tier 3: full scan, everything client-side.
	raw, err := e.store.Query(ctx, collection, model.Query{})
	if err != nil {
		return nil, err
	}

	filtered := make([]model.Document, 0, len(raw))
	for _, doc := range raw {
		if matchesFilters(doc, q.Filters) {
			filtered = append(filtered, doc)
		}
	}

	if len(filtered) == 0 {
		if len(raw) == 0 {
			// An empty store is indistinguishable from a broken query at
			// this point; surface the original failure instead of a
			// misleading empty success.
			return nil, tierOneErr
		}
		return []model.Document{}, nil
	}

	sortDocuments(filtered, q.OrderBy)
	if q.Limit > 0 && len(filtered) > q.Limit {
		filtered = filtered[:q.Limit]
	}
	return filtered, nil
}

// matchesFilters evaluates every filter against the document; all must hold.
func matchesFilters(doc model.Document, filters []model.Filter) bool {
	for _, f := range filters {
		if !matchesFilter(doc, f) {
			return false
		}
	}
	return true
}

func matchesFilter(doc model.Document, f model.Filter) bool {
	value, present := doc.Data[f.Field]
	switch f.Operator {
	case model.OperatorEqual:
		return present && equalValues(value, f.Value)
	case model.OperatorNotEqual:
		return !present || !equalValues(value, f.Value)
	case model.OperatorArrayContains:
		if !present {
			return false
		}
		return sliceContains(value, f.Value)
	default:
		return false
	}
}

func sliceContains(haystack, needle interface{}) bool {
	switch vs := haystack.(type) {
	case []string:
		for _, v := range vs {
			if equalValues(v, needle) {
				return true
			}
		}
	case []interface{}:
		for _, v := range vs {
			if equalValues(v, needle) {
				return true
			}
		}
	}
	return false
}

// sortDocuments stable-sorts in place by the order clause. Documents missing
// the sort field keep their relative position at the end for ascending reads
// and at the start for descending ones, mirroring how stores treat absent
// fields as the lowest value.
func sortDocuments(docs []model.Document, order *model.Order) {
	if order == nil {
		return
	}
	desc := order.Direction == model.Descending
	sort.SliceStable(docs, func(i, j int) bool {
		less := lessValues(docs[i].Data[order.Field], docs[j].Data[order.Field])
		if desc {
			return lessValues(docs[j].Data[order.Field], docs[i].Data[order.Field])
		}
		return less
	})
}

// equalValues compares two store values, normalizing numeric types so that
// an int64 written by one driver matches a float64 read back by another.
func equalValues(a, b interface{}) bool {
	if na, aNum := asNumber(a); aNum {
		if nb, bNum := asNumber(b); bNum {
			return na == nb
		}
		return false
	}
	switch av := a.(type) {
	case string:
		bv, ok := b.(string)
		return ok && av == bv
	case bool:
		bv, ok := b.(bool)
		return ok && av == bv
	case nil:
		return b == nil
	default:
		return false
	}
}

// lessValues orders two store values. Values of different kinds order by a
// fixed kind rank (nil < bool < number < string) so sorting stays total.
func lessValues(a, b interface{}) bool {
	ra, rb := kindRank(a), kindRank(b)
	if ra != rb {
		return ra < rb
	}
	switch ra {
	case rankBool:
		return !a.(bool) && b.(bool)
	case rankNumber:
		na, _ := asNumber(a)
		nb, _ := asNumber(b)
		return na < nb
	case rankString:
		return strings.Compare(a.(string), b.(string)) < 0
	default:
		return false
	}
}

const (
	rankNil = iota
	rankBool
	rankNumber
	rankString
	rankOther
)

func kindRank(v interface{}) int {
	if v == nil {
		return rankNil
	}
	if _, ok := v.(bool); ok {
		return rankBool
	}
	if _, ok := asNumber(v); ok {
		return rankNumber
	}
	if _, ok := v.(string); ok {
		return rankString
	}
	return rankOther
}

func asNumber(v interface{}) (float64, bool) {
	switch n := v.(type) {
	case int:
		return float64(n), true
	case int32:
		return float64(n), true
	case int64:
		return float64(n), true
	case float32:
		return float64(n), true
	case float64:
		return n, true
	default:
		return 0, false
	}
}
