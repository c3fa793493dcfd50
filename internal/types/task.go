package types

import "time"

// TaskStatus tracks a task through its lifecycle. Done and Cancelled are
// terminal: tasks in those states no longer count toward workload.
type TaskStatus string

// Task status constants.
const (
	StatusTodo       TaskStatus = "todo"
	StatusInProgress TaskStatus = "in_progress"
	StatusReview     TaskStatus = "review"
	StatusDone       TaskStatus = "done"
	StatusCancelled  TaskStatus = "cancelled"
)

// Terminal reports whether the status ends a task's claim on workload.
func (s TaskStatus) Terminal() bool {
	return s == StatusDone || s == StatusCancelled
}

// Priority of a task or requirement.
type Priority string

// Priority constants in ascending order of urgency.
const (
	PriorityLow      Priority = "low"
	PriorityMedium   Priority = "medium"
	PriorityHigh     Priority = "high"
	PriorityCritical Priority = "critical"
)

var priorityRank = map[Priority]int{
	PriorityLow:      1,
	PriorityMedium:   2,
	PriorityHigh:     3,
	PriorityCritical: 4,
}

// Rank returns the ordinal urgency of the priority (low=1 .. critical=4),
// or 0 for an unknown value.
func (p Priority) Rank() int {
	return priorityRank[p]
}

// Task is an existing task to be matched against candidates. Tasks are
// scored but never mutated by this subsystem.
type Task struct {
	ID             string             `json:"id"`
	Title          string             `json:"title"`
	Description    string             `json:"description,omitempty"`
	Priority       Priority           `json:"priority,omitempty"`
	EstimatedHours float64            `json:"estimated_hours"`
	DueDate        *time.Time         `json:"due_date,omitempty"`
	RequiredSkills []SkillRequirement `json:"required_skills"`
	ProjectID      string             `json:"project_id,omitempty"`
}

// TaskDraft is a synthesized task ready for downstream persistence.
// ID assignment in the task store and assignee selection happen outside
// this subsystem.
type TaskDraft struct {
	DraftID        string             `json:"draft_id"`
	RequirementID  string             `json:"requirement_id"`
	Title          string             `json:"title"`
	Description    string             `json:"description,omitempty"`
	Priority       Priority           `json:"priority,omitempty"`
	EstimatedHours float64            `json:"estimated_hours"`
	RequiredSkills []SkillRequirement `json:"required_skills"`
	DependsOn      []string           `json:"depends_on,omitempty"`
}
