package db

import (
	"context"
	"fmt"

	"github.com/mnp/taskmatch/internal/performance"
	"github.com/mnp/taskmatch/internal/types"
	"github.com/mnp/taskmatch/internal/workload"
)

var (
	_ workload.TaskSource       = (*Store)(nil)
	_ performance.HistorySource = (*Store)(nil)
)

// OpenAssignments implements workload.TaskSource. Terminal statuses are
// returned too; the tracker filters them.
func (s *Store) OpenAssignments(ctx context.Context, employeeID string) ([]workload.Assignment, error) {
	rows, err := s.pool.Query(ctx,
		`SELECT task_id, estimated_hours, progress, status
		 FROM assignments WHERE employee_id = $1 ORDER BY task_id`,
		employeeID,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to get assignments for employee %s: %w", employeeID, err)
	}
	defer rows.Close()

	assignments := make([]workload.Assignment, 0)
	for rows.Next() {
		var a workload.Assignment
		var status string
		if err := rows.Scan(&a.TaskID, &a.EstimatedHours, &a.Progress, &status); err != nil {
			return nil, fmt.Errorf("failed to scan assignment: %w", err)
		}
		a.Status = types.TaskStatus(status)
		assignments = append(assignments, a)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate assignments: %w", err)
	}
	return assignments, nil
}

// TaskOutcomes implements performance.HistorySource.
func (s *Store) TaskOutcomes(ctx context.Context, employeeID string) ([]performance.TaskOutcome, error) {
	rows, err := s.pool.Query(ctx,
		`SELECT task_id, completed, completed_on_time, quality_rating, estimated_hours, actual_hours
		 FROM task_history WHERE employee_id = $1 ORDER BY task_id`,
		employeeID,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to get task history for employee %s: %w", employeeID, err)
	}
	defer rows.Close()

	outcomes := make([]performance.TaskOutcome, 0)
	for rows.Next() {
		var o performance.TaskOutcome
		if err := rows.Scan(&o.TaskID, &o.Completed, &o.CompletedOnTime, &o.QualityRating, &o.EstimatedHours, &o.ActualHours); err != nil {
			return nil, fmt.Errorf("failed to scan task outcome: %w", err)
		}
		outcomes = append(outcomes, o)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate task history: %w", err)
	}
	return outcomes, nil
}
