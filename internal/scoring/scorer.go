// Package scoring computes the component scores and the weighted overall
// score for one (task, candidate) pair.
package scoring

import (
	"context"

	"github.com/mnp/taskmatch/internal/performance"
	"github.com/mnp/taskmatch/internal/skills"
	"github.com/mnp/taskmatch/internal/types"
	"github.com/mnp/taskmatch/internal/workload"
)

// WorkloadSource yields point-in-time workload snapshots.
type WorkloadSource interface {
	Snapshot(ctx context.Context, employeeID string) (types.WorkloadSnapshot, error)
}

// PerformanceSource yields per-employee performance records.
type PerformanceSource interface {
	Record(ctx context.Context, employeeID string) (types.PerformanceRecord, error)
}

// Scorer scores candidates against tasks. Stateless apart from its
// collaborators; safe for concurrent use.
type Scorer struct {
	normalizer   *skills.Normalizer
	workloads    WorkloadSource
	performances PerformanceSource
}

// NewScorer creates a Scorer. A nil normalizer uses the default rule table.
func NewScorer(normalizer *skills.Normalizer, workloads WorkloadSource, performances PerformanceSource) *Scorer {
	if normalizer == nil {
		normalizer = skills.NewNormalizer(nil)
	}
	return &Scorer{normalizer: normalizer, workloads: workloads, performances: performances}
}

// neutralScore substitutes for a component whose lookup failed. The
// candidate stays in the batch, flagged as degraded.
const neutralScore = 0.5

// Score computes a Recommendation for one (task, candidate) pair under the
// given profile. The profile must already be validated. A failed workload or
// performance lookup never aborts scoring: the component falls back to a
// neutral default and the recommendation is flagged.
func (s *Scorer) Score(ctx context.Context, task types.Task, emp types.Employee, profile Profile) (types.Recommendation, error) {
	rec := types.Recommendation{
		TaskID:     task.ID,
		EmployeeID: emp.ID,
	}

	skillScore, matched, missing, err := s.skillMatch(task.RequiredSkills, emp)
	if err != nil {
		return types.Recommendation{}, err
	}
	rec.SkillMatchScore = skillScore
	rec.MatchedSkills = matched
	rec.MissingSkills = missing

	var workloadDegraded, performanceDegraded bool
	var utilization float64
	var capacityKnown bool

	snap, err := s.workloads.Snapshot(ctx, emp.ID)
	if err != nil {
		rec.AvailabilityScore = neutralScore
		rec.WorkloadScore = neutralScore
		workloadDegraded = true
	} else {
		rec.AvailabilityScore = workload.AvailabilityScore(snap)
		rec.WorkloadScore = workload.UtilizationScore(snap, profile.Curve)
		utilization = snap.Utilization()
		capacityKnown = snap.CapacityHoursPerWeek > 0
	}

	perfRecord, err := s.performances.Record(ctx, emp.ID)
	performanceUnscored := false
	switch {
	case err != nil:
		rec.PerformanceScore = neutralScore
		performanceDegraded = true
	default:
		score, scored := performance.Score(perfRecord, profile.PerformanceWeights)
		if scored {
			rec.PerformanceScore = score
		} else {
			rec.PerformanceScore = profile.UnknownPerformanceDefault
			performanceUnscored = true
		}
	}

	rec.OverallScore = profile.Weights.Skill*rec.SkillMatchScore +
		profile.Weights.Availability*rec.AvailabilityScore +
		profile.Weights.Workload*rec.WorkloadScore +
		profile.Weights.Performance*rec.PerformanceScore

	rec.Degraded = workloadDegraded || performanceDegraded
	rec.Reasons = buildReasons(reasonInput{
		task:                task,
		rec:                 rec,
		utilization:         utilization,
		capacityKnown:       capacityKnown,
		performanceUnscored: performanceUnscored,
		workloadDegraded:    workloadDegraded,
		performanceDegraded: performanceDegraded,
	})

	return rec, nil
}

// skillMatch checks each requirement against the candidate's normalized
// skill set. Mandatory skills weigh double:
// (2*matchedMandatory + matchedOptional) / (2*mandatory + optional).
// Zero required skills is no constraint, hence a full match.
func (s *Scorer) skillMatch(required []types.SkillRequirement, emp types.Employee) (float64, []types.SkillRequirement, []types.SkillRequirement, error) {
	matched := make([]types.SkillRequirement, 0, len(required))
	missing := make([]types.SkillRequirement, 0)

	if len(required) == 0 {
		return 1.0, matched, missing, nil
	}

	// Fold the employee's skills to canonical names, keeping the highest
	// level when duplicates collapse onto the same name.
	levels := make(map[string]types.ProficiencyLevel, len(emp.Skills))
	for _, es := range emp.Skills {
		name := s.normalizer.Normalize(es.Skill.Name).Name
		if current, ok := levels[name]; !ok || es.Level.Rank() > current.Rank() {
			levels[name] = es.Level
		}
	}

	var mandatoryCount, optionalCount, matchedMandatory, matchedOptional int
	for _, req := range required {
		requiredLevel, err := types.ParseProficiencyLevel(string(req.RequiredLevel))
		if err != nil {
			return 0, nil, nil, err
		}

		if req.Mandatory {
			mandatoryCount++
		} else {
			optionalCount++
		}

		name := s.normalizer.Normalize(req.Skill.Name).Name
		level, has := levels[name]
		if has && level.AtLeast(requiredLevel) {
			matched = append(matched, req)
			if req.Mandatory {
				matchedMandatory++
			} else {
				matchedOptional++
			}
		} else {
			missing = append(missing, req)
		}
	}

	denominator := float64(mandatoryCount*2 + optionalCount)
	score := float64(matchedMandatory*2+matchedOptional) / denominator
	return score, matched, missing, nil
}
