// Package workload maintains per-employee assigned-hours snapshots and the
// availability/utilization scores derived from them.
package workload

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/mnp/taskmatch/internal/types"
)

// Assignment is one open task currently assigned to an employee, as reported
// by the external task store.
type Assignment struct {
	TaskID         string
	EstimatedHours float64
	Progress       float64 // 0..1 fraction complete
	Status         types.TaskStatus
}

// TaskSource supplies the externally owned data a snapshot is computed from.
// Implementations must be safe for concurrent use.
type TaskSource interface {
	// OpenAssignments returns the employee's assignments. Terminal statuses
	// may be included; the tracker filters them out.
	OpenAssignments(ctx context.Context, employeeID string) ([]Assignment, error)
	// Capacity returns the employee's weekly capacity in hours. Zero means
	// unknown capacity.
	Capacity(ctx context.Context, employeeID string) (float64, error)
}

// Tracker is a read-through snapshot cache keyed by employee ID. Refresh is
// the only mutator; concurrent refreshes for the same employee serialize,
// refreshes for different employees run independently.
type Tracker struct {
	source TaskSource

	mu    sync.Mutex
	locks map[string]*sync.Mutex

	cacheMu sync.RWMutex
	cache   map[string]types.WorkloadSnapshot

	now func() time.Time
}

// NewTracker creates a Tracker over the given task source.
func NewTracker(source TaskSource) *Tracker {
	return &Tracker{
		source: source,
		locks:  make(map[string]*sync.Mutex),
		cache:  make(map[string]types.WorkloadSnapshot),
		now:    time.Now,
	}
}

// Snapshot returns the cached snapshot for the employee, computing one on
// first access.
func (t *Tracker) Snapshot(ctx context.Context, employeeID string) (types.WorkloadSnapshot, error) {
	if employeeID == "" {
		return types.WorkloadSnapshot{}, &types.ValidationError{Field: "employee_id", Message: "employee id is required"}
	}

	t.cacheMu.RLock()
	snap, ok := t.cache[employeeID]
	t.cacheMu.RUnlock()
	if ok {
		return snap, nil
	}

	return t.Refresh(ctx, employeeID)
}

// Refresh recomputes the employee's snapshot from the task source and stores
// it. Idempotent: calling twice with no intervening task changes yields the
// same snapshot apart from the observation window.
func (t *Tracker) Refresh(ctx context.Context, employeeID string) (types.WorkloadSnapshot, error) {
	if employeeID == "" {
		return types.WorkloadSnapshot{}, &types.ValidationError{Field: "employee_id", Message: "employee id is required"}
	}

	lock := t.lockFor(employeeID)
	lock.Lock()
	defer lock.Unlock()

	assignments, err := t.source.OpenAssignments(ctx, employeeID)
	if err != nil {
		return types.WorkloadSnapshot{}, &types.DependencyUnavailableError{
			Dependency: fmt.Sprintf("task source (employee %s)", employeeID),
			Cause:      err,
		}
	}
	capacity, err := t.source.Capacity(ctx, employeeID)
	if err != nil {
		return types.WorkloadSnapshot{}, &types.DependencyUnavailableError{
			Dependency: fmt.Sprintf("task source (employee %s)", employeeID),
			Cause:      err,
		}
	}

	assigned := 0.0
	for _, a := range assignments {
		if a.Status.Terminal() {
			continue
		}
		remaining := a.EstimatedHours
		if a.Progress > 0 && a.Progress <= 1 {
			remaining = a.EstimatedHours * (1 - a.Progress)
		}
		assigned += remaining
	}

	start, end := currentWindow(t.now())
	snap := types.WorkloadSnapshot{
		EmployeeID:           employeeID,
		AssignedHours:        assigned,
		CapacityHoursPerWeek: capacity,
		WindowStart:          start,
		WindowEnd:            end,
	}

	t.cacheMu.Lock()
	t.cache[employeeID] = snap
	t.cacheMu.Unlock()

	return snap, nil
}

// lockFor returns the per-employee refresh lock, creating it on first use.
func (t *Tracker) lockFor(employeeID string) *sync.Mutex {
	t.mu.Lock()
	defer t.mu.Unlock()
	lock, ok := t.locks[employeeID]
	if !ok {
		lock = &sync.Mutex{}
		t.locks[employeeID] = lock
	}
	return lock
}

// currentWindow returns the Monday-to-Monday week containing now, in UTC.
func currentWindow(now time.Time) (time.Time, time.Time) {
	now = now.UTC()
	weekday := int(now.Weekday())
	if weekday == 0 {
		weekday = 7 // Sunday belongs to the preceding Monday
	}
	start := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC).
		AddDate(0, 0, -(weekday - 1))
	return start, start.AddDate(0, 0, 7)
}
