package types

// Recommendation is the scored, explained result for one (task, candidate)
// pair. Produced fresh for every (task, pool, profile) triple; workload and
// performance are point-in-time, so recommendations are never persisted as
// ground truth.
type Recommendation struct {
	TaskID            string             `json:"task_id"`
	EmployeeID        string             `json:"employee_id"`
	OverallScore      float64            `json:"overall_score"`
	SkillMatchScore   float64            `json:"skill_match_score"`
	AvailabilityScore float64            `json:"availability_score"`
	WorkloadScore     float64            `json:"workload_score"`
	PerformanceScore  float64            `json:"performance_score"`
	MatchedSkills     []SkillRequirement `json:"matched_skills"`
	MissingSkills     []SkillRequirement `json:"missing_skills"`
	Reasons           []string           `json:"reasons"`
	Rank              int                `json:"rank"`
	// Degraded marks a recommendation whose workload or performance lookup
	// failed and was scored with neutral defaults instead.
	Degraded bool `json:"degraded,omitempty"`
}

// SkillFrequency counts how often a skill appears across an extracted
// requirement set, keeping the highest priority it appeared with.
type SkillFrequency struct {
	Skill    Skill    `json:"skill"`
	Count    int      `json:"count"`
	Priority Priority `json:"priority"`
}

// AnalysisToggles selects which analysis outputs to compute.
type AnalysisToggles struct {
	GenerateTasks       bool `json:"generate_tasks"`
	AnalyzeRequirements bool `json:"analyze_requirements"`
	DetectConflicts     bool `json:"detect_conflicts"`
	IdentifySkills      bool `json:"identify_skills"`
}

// AnalysisReport is the full output of one requirements-analysis run.
type AnalysisReport struct {
	Requirements   []Requirement    `json:"requirements"`
	GeneratedTasks []TaskDraft      `json:"generated_tasks,omitempty"`
	Conflicts      []Conflict       `json:"conflicts,omitempty"`
	SkillFrequency []SkillFrequency `json:"skill_frequency,omitempty"`
	// ExtractionDegraded is set when the inference provider failed and the
	// requirements are the labeled fallback set, not real extractions.
	ExtractionDegraded bool   `json:"extraction_degraded,omitempty"`
	DegradedReason     string `json:"degraded_reason,omitempty"`
}
