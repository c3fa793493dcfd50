// Package performance aggregates historical task outcomes into per-employee
// performance records and the normalized score derived from them.
package performance

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/mnp/taskmatch/internal/types"
)

// TaskOutcome is one historical task result from the external task-history
// collaborator.
type TaskOutcome struct {
	TaskID          string
	Completed       bool
	CompletedOnTime bool
	QualityRating   float64 // 0..5 review rating; 0 means unrated
	EstimatedHours  float64
	ActualHours     float64
}

// HistorySource supplies historical outcomes. Implementations must be safe
// for concurrent use.
type HistorySource interface {
	TaskOutcomes(ctx context.Context, employeeID string) ([]TaskOutcome, error)
}

// Repository caches performance records keyed by employee ID. Recalculate is
// the only mutator; records are never silently stale-invalidated, callers
// own when to recalculate.
type Repository struct {
	source HistorySource

	mu    sync.Mutex
	locks map[string]*sync.Mutex

	cacheMu sync.RWMutex
	cache   map[string]types.PerformanceRecord

	now func() time.Time
}

// NewRepository creates a Repository over the given history source.
func NewRepository(source HistorySource) *Repository {
	return &Repository{
		source: source,
		locks:  make(map[string]*sync.Mutex),
		cache:  make(map[string]types.PerformanceRecord),
		now:    time.Now,
	}
}

// Record returns the cached record for the employee, recalculating on first
// access.
func (r *Repository) Record(ctx context.Context, employeeID string) (types.PerformanceRecord, error) {
	if employeeID == "" {
		return types.PerformanceRecord{}, &types.ValidationError{Field: "employee_id", Message: "employee id is required"}
	}

	r.cacheMu.RLock()
	rec, ok := r.cache[employeeID]
	r.cacheMu.RUnlock()
	if ok {
		return rec, nil
	}

	return r.Recalculate(ctx, employeeID)
}

// Recalculate aggregates the employee's history into a fresh record and
// stores it. Concurrent recalculations for the same employee serialize.
func (r *Repository) Recalculate(ctx context.Context, employeeID string) (types.PerformanceRecord, error) {
	if employeeID == "" {
		return types.PerformanceRecord{}, &types.ValidationError{Field: "employee_id", Message: "employee id is required"}
	}

	lock := r.lockFor(employeeID)
	lock.Lock()
	defer lock.Unlock()

	outcomes, err := r.source.TaskOutcomes(ctx, employeeID)
	if err != nil {
		return types.PerformanceRecord{}, &types.DependencyUnavailableError{
			Dependency: fmt.Sprintf("task history (employee %s)", employeeID),
			Cause:      err,
		}
	}

	rec := aggregate(employeeID, outcomes, r.now())

	r.cacheMu.Lock()
	r.cache[employeeID] = rec
	r.cacheMu.Unlock()

	return rec, nil
}

func (r *Repository) lockFor(employeeID string) *sync.Mutex {
	r.mu.Lock()
	defer r.mu.Unlock()
	lock, ok := r.locks[employeeID]
	if !ok {
		lock = &sync.Mutex{}
		r.locks[employeeID] = lock
	}
	return lock
}

// aggregate folds raw outcomes into the four sub-metrics. An employee with
// zero completed tasks yields an unscored record; no metric is fabricated.
func aggregate(employeeID string, outcomes []TaskOutcome, now time.Time) types.PerformanceRecord {
	rec := types.PerformanceRecord{
		EmployeeID:    employeeID,
		TasksAssigned: len(outcomes),
		LastUpdated:   now,
	}

	var (
		qualitySum   float64
		qualityCount int
		estimatedSum float64
		actualSum    float64
	)
	for _, o := range outcomes {
		if !o.Completed {
			continue
		}
		rec.TasksCompleted++
		if o.CompletedOnTime {
			rec.TasksOnTime++
		}
		if o.QualityRating > 0 {
			qualitySum += o.QualityRating
			qualityCount++
		}
		if o.ActualHours > 0 && o.EstimatedHours > 0 {
			estimatedSum += o.EstimatedHours
			actualSum += o.ActualHours
		}
	}

	if rec.TasksCompleted == 0 {
		return rec
	}

	if qualityCount > 0 {
		rec.QualityScore = qualitySum / float64(qualityCount)
	}
	rec.TimelinessScorePct = 100 * float64(rec.TasksOnTime) / float64(rec.TasksCompleted)
	rec.CompletionRatePct = 100 * float64(rec.TasksCompleted) / float64(rec.TasksAssigned)
	if actualSum > 0 {
		// Finishing early is rewarded but not unboundedly.
		ratio := estimatedSum / actualSum
		if ratio > 1 {
			ratio = 1
		}
		rec.EfficiencyScorePct = 100 * ratio
	}

	return rec
}
