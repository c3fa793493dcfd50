package performance

import (
	"fmt"
	"math"

	"github.com/mnp/taskmatch/internal/types"
)

// Weights blend the four performance sub-metrics. Must sum to 1.0.
type Weights struct {
	Quality    float64 `json:"quality"`
	Timeliness float64 `json:"timeliness"`
	Completion float64 `json:"completion"`
	Efficiency float64 `json:"efficiency"`
}

// DefaultWeights returns the default blend: quality 0.35, timeliness 0.25,
// completion 0.20, efficiency 0.20.
func DefaultWeights() Weights {
	return Weights{Quality: 0.35, Timeliness: 0.25, Completion: 0.20, Efficiency: 0.20}
}

// Validate rejects weight vectors that do not sum to 1.0 (within 1e-9).
func (w Weights) Validate() error {
	sum := w.Quality + w.Timeliness + w.Completion + w.Efficiency
	if math.Abs(sum-1.0) > 1e-9 {
		return &types.DataIntegrityError{
			Entity:  "performance weights",
			Message: fmt.Sprintf("weights must sum to 1.0, got %.6f", sum),
		}
	}
	return nil
}

// Score blends a record's sub-metrics into a [0,1] score. The second return
// is false for an unscored employee (zero completed tasks): there is no
// score, and callers must substitute an explicit default rather than read 0.
func Score(rec types.PerformanceRecord, w Weights) (float64, bool) {
	if rec.Unscored() {
		return 0, false
	}

	quality := rec.QualityScore / 5.0
	timeliness := rec.TimelinessScorePct / 100.0
	completion := rec.CompletionRatePct / 100.0
	efficiency := rec.EfficiencyScorePct / 100.0

	score := w.Quality*quality + w.Timeliness*timeliness + w.Completion*completion + w.Efficiency*efficiency
	if score < 0 {
		score = 0
	}
	if score > 1 {
		score = 1
	}
	return score, true
}
