package ranking

import (
	"context"
	"fmt"
	"sort"

	"golang.org/x/sync/errgroup"

	"github.com/mnp/taskmatch/internal/scoring"
	"github.com/mnp/taskmatch/internal/types"
)

// scoreConcurrency caps the scoring fan-out per request.
const scoreConcurrency = 8

// Ranker produces ordered recommendation lists from a candidate pool.
type Ranker struct {
	scorer *scoring.Scorer
}

// NewRanker creates a Ranker around a scorer.
func NewRanker(scorer *scoring.Scorer) *Ranker {
	return &Ranker{scorer: scorer}
}

// Recommend scores every candidate in the pool against the task and returns
// the top recommendations in deterministic order. Candidates are scored
// concurrently but the result order never depends on scheduling: ties break
// on skill match score, then employee ID.
//
// A topN of zero or less returns the full ranked list. An empty pool is a
// valid request with an empty answer, except under a team-scoped profile,
// where a team with no candidates is rejected.
func (r *Ranker) Recommend(ctx context.Context, task types.Task, pool []types.Employee, profile scoring.Profile, topN int) ([]types.Recommendation, error) {
	if err := profile.Validate(); err != nil {
		return nil, err
	}

	candidates := dedupByID(pool)
	if profile.Team != "" {
		candidates = filterByTeam(candidates, profile.Team)
		if len(candidates) == 0 {
			return nil, &types.ValidationError{
				Field:   "team",
				Message: fmt.Sprintf("no candidates in team %q", profile.Team),
			}
		}
	}
	if len(candidates) == 0 {
		return []types.Recommendation{}, nil
	}

	recs := make([]types.Recommendation, len(candidates))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(scoreConcurrency)
	for i, emp := range candidates {
		g.Go(func() error {
			rec, err := r.scorer.Score(gctx, task, emp, profile)
			if err != nil {
				return fmt.Errorf("scoring candidate %s: %w", emp.ID, err)
			}
			recs[i] = rec
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	sort.SliceStable(recs, func(i, j int) bool {
		if recs[i].OverallScore != recs[j].OverallScore {
			return recs[i].OverallScore > recs[j].OverallScore
		}
		if recs[i].SkillMatchScore != recs[j].SkillMatchScore {
			return recs[i].SkillMatchScore > recs[j].SkillMatchScore
		}
		return recs[i].EmployeeID < recs[j].EmployeeID
	})

	for i := range recs {
		recs[i].Rank = i + 1
	}
	if topN > 0 && topN < len(recs) {
		recs = recs[:topN]
	}
	return recs, nil
}

// dedupByID drops repeated employee IDs, keeping the first occurrence.
func dedupByID(pool []types.Employee) []types.Employee {
	seen := make(map[string]struct{}, len(pool))
	out := make([]types.Employee, 0, len(pool))
	for _, emp := range pool {
		if _, dup := seen[emp.ID]; dup {
			continue
		}
		seen[emp.ID] = struct{}{}
		out = append(out, emp)
	}
	return out
}

func filterByTeam(pool []types.Employee, team string) []types.Employee {
	out := make([]types.Employee, 0, len(pool))
	for _, emp := range pool {
		if emp.Team == team {
			out = append(out, emp)
		}
	}
	return out
}
