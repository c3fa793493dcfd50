package workload

import (
	"fmt"

	"github.com/mnp/taskmatch/internal/types"
)

// AvailabilityScore is the remaining capacity fraction:
// clamp(1 - assigned/capacity, 0, 1). Zero or unknown capacity scores 0,
// failing safe toward "do not recommend".
func AvailabilityScore(snap types.WorkloadSnapshot) float64 {
	if snap.CapacityHoursPerWeek <= 0 {
		return 0
	}
	return clamp01(1 - snap.AssignedHours/snap.CapacityHoursPerWeek)
}

// UtilizationCurve defines the trapezoid used to score utilization quality.
// The score rises from 0 at idle to 1 at PeakLow, plateaus through PeakHigh,
// and falls back to 0 at Overload. Idle scores 0 too: an employee with no
// assigned work at all is as suspicious as an overloaded one.
type UtilizationCurve struct {
	PeakLow  float64 `json:"peak_low"`
	PeakHigh float64 `json:"peak_high"`
	Overload float64 `json:"overload"`
}

// DefaultCurve returns the default sustainable-load curve: full score between
// 70% and 85% utilization, zero at idle and at 100%.
func DefaultCurve() UtilizationCurve {
	return UtilizationCurve{PeakLow: 0.70, PeakHigh: 0.85, Overload: 1.0}
}

// Validate rejects curves whose breakpoints are out of order.
func (c UtilizationCurve) Validate() error {
	if c.PeakLow <= 0 || c.PeakLow > c.PeakHigh || c.PeakHigh >= c.Overload {
		return &types.DataIntegrityError{
			Entity:  "utilization curve",
			Message: fmt.Sprintf("breakpoints must satisfy 0 < peak_low <= peak_high < overload, got %.2f/%.2f/%.2f", c.PeakLow, c.PeakHigh, c.Overload),
		}
	}
	return nil
}

// Score evaluates the curve at a utilization fraction.
func (c UtilizationCurve) Score(utilization float64) float64 {
	switch {
	case utilization <= 0:
		return 0
	case utilization < c.PeakLow:
		return utilization / c.PeakLow
	case utilization <= c.PeakHigh:
		return 1
	case utilization < c.Overload:
		return (c.Overload - utilization) / (c.Overload - c.PeakHigh)
	default:
		return 0
	}
}

// UtilizationScore scores a snapshot's utilization against the curve.
// Unknown capacity scores 0, consistent with AvailabilityScore.
func UtilizationScore(snap types.WorkloadSnapshot, curve UtilizationCurve) float64 {
	if snap.CapacityHoursPerWeek <= 0 {
		return 0
	}
	return curve.Score(snap.Utilization())
}

func clamp01(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}
