package scoring

import (
	"fmt"
	"strings"

	"github.com/mnp/taskmatch/internal/types"
)

type reasonInput struct {
	task                types.Task
	rec                 types.Recommendation
	utilization         float64
	capacityKnown       bool
	performanceUnscored bool
	workloadDegraded    bool
	performanceDegraded bool
}

// buildReasons creates a deterministic, ordered explanation of the score:
// skill match first, then availability, utilization, and performance.
func buildReasons(in reasonInput) []string {
	reasons := make([]string, 0, 5)
	rec := in.rec

	// Skill match description
	if len(in.task.RequiredSkills) == 0 {
		reasons = append(reasons, "No skill requirements on task")
	} else {
		matched := skillNames(rec.MatchedSkills)
		switch {
		case rec.SkillMatchScore >= 0.7 && len(matched) > 0:
			reasons = append(reasons, fmt.Sprintf("Strong skill match (%s)", strings.Join(matched, ", ")))
		case rec.SkillMatchScore >= 0.4 && len(matched) > 0:
			reasons = append(reasons, fmt.Sprintf("Moderate skill match (%s)", strings.Join(matched, ", ")))
		case len(matched) > 0:
			reasons = append(reasons, fmt.Sprintf("Weak skill match (%s)", strings.Join(matched, ", ")))
		default:
			reasons = append(reasons, "No skill matches")
		}

		if missing := mandatoryNames(rec.MissingSkills); len(missing) > 0 {
			reasons = append(reasons, fmt.Sprintf("Missing mandatory skills (%s)", strings.Join(missing, ", ")))
		}
	}

	// Availability description
	switch {
	case in.workloadDegraded:
		reasons = append(reasons, "Workload data unavailable; neutral default applied")
	case !in.capacityKnown:
		reasons = append(reasons, "Capacity unknown; treated as unavailable")
	case rec.AvailabilityScore >= 0.5:
		reasons = append(reasons, "High availability")
	case rec.AvailabilityScore > 0:
		reasons = append(reasons, "Limited availability")
	default:
		reasons = append(reasons, "No remaining capacity")
	}

	// Utilization description. A zero score covers three different
	// situations; the snapshot's utilization tells them apart.
	if !in.workloadDegraded && in.capacityKnown {
		switch {
		case rec.WorkloadScore >= 1.0:
			reasons = append(reasons, "Utilization in the productive range")
		case rec.WorkloadScore > 0:
			reasons = append(reasons, "Utilization outside the productive range")
		case in.utilization <= 0:
			reasons = append(reasons, "No current assignments")
		default:
			reasons = append(reasons, "Overloaded")
		}
	}

	// Performance description
	switch {
	case in.performanceDegraded:
		reasons = append(reasons, "Performance data unavailable; neutral default applied")
	case in.performanceUnscored:
		reasons = append(reasons, "No completed task history; neutral default applied")
	case rec.PerformanceScore >= 0.75:
		reasons = append(reasons, "Strong performance history")
	case rec.PerformanceScore >= 0.5:
		reasons = append(reasons, "Solid performance history")
	default:
		reasons = append(reasons, "Below-average performance history")
	}

	return reasons
}

func skillNames(reqs []types.SkillRequirement) []string {
	names := make([]string, 0, len(reqs))
	for _, r := range reqs {
		names = append(names, r.Skill.Name)
	}
	return names
}

func mandatoryNames(reqs []types.SkillRequirement) []string {
	names := make([]string, 0, len(reqs))
	for _, r := range reqs {
		if r.Mandatory {
			names = append(names, r.Skill.Name)
		}
	}
	return names
}
