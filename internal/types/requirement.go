package types

// Requirement is one discrete statement of project need extracted from a
// source document. Requirements are immutable once extracted; a new
// extraction run produces a new set.
type Requirement struct {
	ID             string             `json:"id"`
	Text           string             `json:"text"`
	Priority       Priority           `json:"priority,omitempty"`
	DerivedSkills  []SkillRequirement `json:"derived_skills"`
	EstimatedHours float64            `json:"estimated_hours,omitempty"`
	Dependencies   []string           `json:"dependencies,omitempty"`
}

// ConflictType classifies a detected conflict.
type ConflictType string

// Conflict type constants.
const (
	ConflictRequirement ConflictType = "requirement_conflict"
	ConflictContention  ConflictType = "resource_contention"
)

// ConflictSeverity grades how badly a conflict blocks planning.
type ConflictSeverity string

// Conflict severity constants.
const (
	SeverityLow    ConflictSeverity = "low"
	SeverityMedium ConflictSeverity = "medium"
	SeverityHigh   ConflictSeverity = "high"
)

// Conflict is a derived, read-only annotation over a requirement set.
// Detection never mutates the requirements themselves.
type Conflict struct {
	ID                     string           `json:"id"`
	Type                   ConflictType     `json:"type"`
	Severity               ConflictSeverity `json:"severity"`
	InvolvedRequirementIDs []string         `json:"involved_requirement_ids"`
	Description            string           `json:"description"`
	Suggestion             string           `json:"suggestion"`
}
