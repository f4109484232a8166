package redis

import (
	"context"
	"errors"
	"strconv"

	"github.com/keswick-hub/registrar-engine/internal/domain/gpa"
	"github.com/keswick-hub/registrar-engine/internal/domain/shared"
)

// ══════════════════════════════════════════════════════════════════════════════
// COHORT GPA CACHE
// ══════════════════════════════════════════════════════════════════════════════

// GPACache implements standing.GPACache on top of the generic Cache.
// A whole cohort is stored as a single JSON document under one key, so
// the ranking step reads one materialized map instead of per-student
// entries. A nil underlying cache disables it: writes succeed silently
// and reads always miss, which keeps the batch path free of nil checks
// when Redis is not deployed.
type GPACache struct {
	cache *Cache
}

// NewGPACache creates a GPACache. Pass nil to run in disabled mode.
func NewGPACache(cache *Cache) *GPACache {
	return &GPACache{cache: cache}
}

// Enabled reports whether a Redis backend is attached.
func (g *GPACache) Enabled() bool {
	return g.cache != nil
}

// PutCohort stores the full cohort GPA map.
func (g *GPACache) PutCohort(ctx context.Context, year shared.GraduationYear, results map[shared.StudentID]gpa.Result) error {
	if g.cache == nil {
		return nil
	}

	// JSON object keys must be strings.
	doc := make(map[string]gpa.Result, len(results))
	for id, res := range results {
		doc[strconv.FormatInt(id.Int64(), 10)] = res
	}

	return g.cache.Set(ctx, CohortGPAKey(year.Int()), doc, TTLCohortGPA)
}

// GetCohort loads the full cohort GPA map; ok is false on miss.
func (g *GPACache) GetCohort(ctx context.Context, year shared.GraduationYear) (map[shared.StudentID]gpa.Result, bool, error) {
	if g.cache == nil {
		return nil, false, nil
	}

	var doc map[string]gpa.Result
	err := g.cache.Get(ctx, CohortGPAKey(year.Int()), &doc)
	if err != nil {
		if errors.Is(err, ErrCacheMiss) {
			return nil, false, nil
		}
		return nil, false, err
	}

	results := make(map[shared.StudentID]gpa.Result, len(doc))
	for key, res := range doc {
		id, err := strconv.ParseInt(key, 10, 64)
		if err != nil {
			// A malformed key means the document was written by
			// something else; treat the whole entry as a miss.
			return nil, false, nil
		}
		results[shared.StudentID(id)] = res
	}

	return results, true, nil
}

// Invalidate drops a cohort's cached map.
func (g *GPACache) Invalidate(ctx context.Context, year shared.GraduationYear) error {
	if g.cache == nil {
		return nil
	}

	return g.cache.Delete(ctx, CohortGPAKey(year.Int()))
}
