package types

import "time"

// WorkloadSnapshot is a point-in-time view of an employee's assigned hours
// against weekly capacity. Snapshots are recomputed on demand, never
// streamed; a snapshot always represents "as of now".
type WorkloadSnapshot struct {
	EmployeeID           string    `json:"employee_id"`
	AssignedHours        float64   `json:"assigned_hours"`
	CapacityHoursPerWeek float64   `json:"capacity_hours_per_week"`
	WindowStart          time.Time `json:"window_start"`
	WindowEnd            time.Time `json:"window_end"`
}

// Utilization returns assigned/capacity, or 0 when capacity is unknown.
func (w WorkloadSnapshot) Utilization() float64 {
	if w.CapacityHoursPerWeek <= 0 {
		return 0
	}
	return w.AssignedHours / w.CapacityHoursPerWeek
}

// PerformanceRecord aggregates an employee's historical task outcomes.
// Updated only via explicit recalculation; callers own staleness.
type PerformanceRecord struct {
	EmployeeID         string    `json:"employee_id"`
	QualityScore       float64   `json:"quality_score"`        // 0..5 average review rating
	TimelinessScorePct float64   `json:"timeliness_score_pct"` // % of completed tasks finished by due date
	CompletionRatePct  float64   `json:"completion_rate_pct"`  // completed / assigned
	EfficiencyScorePct float64   `json:"efficiency_score_pct"` // estimated/actual hours, capped at 100
	TasksAssigned      int       `json:"tasks_assigned"`
	TasksCompleted     int       `json:"tasks_completed"`
	TasksOnTime        int       `json:"tasks_on_time"`
	LastUpdated        time.Time `json:"last_updated"`
}

// Unscored reports whether the employee has no completed work to score.
// An unscored record must never be read as a real (0 or perfect) score.
func (p PerformanceRecord) Unscored() bool {
	return p.TasksCompleted == 0
}
