package scoring

import (
	"fmt"
	"math"

	"github.com/mnp/taskmatch/internal/performance"
	"github.com/mnp/taskmatch/internal/types"
	"github.com/mnp/taskmatch/internal/workload"
)

// Profile is a named weight vector plus the tunables that bias a ranking
// toward a scenario. The overall score is a convex combination, so the
// component weights must sum to 1.0.
type Profile struct {
	Name    string             `json:"name"`
	Weights types.WeightVector `json:"weights"`
	// UnknownPerformanceDefault substitutes for an unscored employee's
	// performance component.
	UnknownPerformanceDefault float64 `json:"unknown_performance_default"`
	// Curve sets the utilization-quality breakpoints.
	Curve workload.UtilizationCurve `json:"curve"`
	// PerformanceWeights blends the four performance sub-metrics.
	PerformanceWeights performance.Weights `json:"performance_weights"`
	// Team restricts the candidate pool before scoring. Empty means no filter.
	Team string `json:"team,omitempty"`
}

// Validate rejects profiles whose weights do not sum to 1.0 (within 1e-9) or
// whose tunables are out of range.
func (p Profile) Validate() error {
	sum := p.Weights.Skill + p.Weights.Availability + p.Weights.Workload + p.Weights.Performance
	if math.Abs(sum-1.0) > 1e-9 {
		return &types.DataIntegrityError{
			Entity:  fmt.Sprintf("profile %s", p.Name),
			Message: fmt.Sprintf("component weights must sum to 1.0, got %.6f", sum),
		}
	}
	if p.UnknownPerformanceDefault < 0 || p.UnknownPerformanceDefault > 1 {
		return &types.DataIntegrityError{
			Entity:  fmt.Sprintf("profile %s", p.Name),
			Message: fmt.Sprintf("unknown performance default must be in [0,1], got %.2f", p.UnknownPerformanceDefault),
		}
	}
	if err := p.Curve.Validate(); err != nil {
		return err
	}
	return p.PerformanceWeights.Validate()
}
