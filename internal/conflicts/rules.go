// Package conflicts detects contradictions and scheduling pressure inside an
// extracted requirement set. Detection is pure: requirements are never
// mutated, and re-running over the same set yields the same conflicts.
package conflicts

import "github.com/mnp/taskmatch/internal/types"

// Rule declares one pair of mutually exclusive requirement postures. A
// requirement matches a side when its text contains any of that side's
// keywords; one requirement matching each side is a conflict.
type Rule struct {
	Name        string                 `json:"name"`
	SideA       []string               `json:"side_a"`
	SideB       []string               `json:"side_b"`
	Severity    types.ConflictSeverity `json:"severity"`
	Description string                 `json:"description"`
	Suggestion  string                 `json:"suggestion"`
}

// DefaultRules returns the built-in contradiction table.
func DefaultRules() []Rule {
	return []Rule{
		{
			Name:        "privacy-vs-collection",
			SideA:       []string{"privacy", "anonymize", "anonymous", "data minimization", "gdpr"},
			SideB:       []string{"collect all", "broad data collection", "user profiling", "behavioral tracking", "telemetry"},
			Severity:    types.SeverityHigh,
			Description: "privacy posture contradicts broad data collection",
			Suggestion:  "Decide which data classes are collected and under what consent; scope one of the requirements down.",
		},
		{
			Name:        "offline-vs-realtime",
			SideA:       []string{"offline-first", "offline mode", "work offline", "local-only"},
			SideB:       []string{"real-time sync", "real-time updates", "always online", "live updates"},
			Severity:    types.SeverityMedium,
			Description: "offline-first operation contradicts an always-connected real-time requirement",
			Suggestion:  "Define the sync model explicitly: which data is live, which is eventually consistent.",
		},
		{
			Name:        "monolith-vs-microservices",
			SideA:       []string{"single deployable", "monolith"},
			SideB:       []string{"microservices", "service mesh", "independently deployable services"},
			Severity:    types.SeverityMedium,
			Description: "deployment-shape requirements pull in opposite directions",
			Suggestion:  "Pick one target architecture for this milestone and file the other as a later migration.",
		},
		{
			Name:        "inhouse-vs-managed",
			SideA:       []string{"no third-party", "in-house only", "self-hosted only"},
			SideB:       []string{"managed service", "saas provider", "third-party service"},
			Severity:    types.SeverityLow,
			Description: "vendor policy contradicts a requirement that names an external service",
			Suggestion:  "Confirm the vendor policy with the stakeholder or carve out an explicit exception.",
		},
	}
}
