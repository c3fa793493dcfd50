// Package types provides type definitions for structured data used throughout the task-assignment engine.
//
//nolint:revive // types is a standard Go package name pattern
package types

import (
	"fmt"
	"strings"
)

// SkillType categorizes a skill after normalization.
type SkillType string

// Skill type constants. The normalizer's rule table decides which one a raw
// name falls into; SkillTypeSoftSkill is the fallback for anything unmatched.
const (
	SkillTypeTestingTool         SkillType = "testing_tool"
	SkillTypeMobileDevelopment   SkillType = "mobile_development"
	SkillTypeProgrammingLanguage SkillType = "programming_language"
	SkillTypeFramework           SkillType = "framework"
	SkillTypeDatabase            SkillType = "database"
	SkillTypeCloudPlatform       SkillType = "cloud_platform"
	SkillTypeDevOpsTool          SkillType = "devops_tool"
	SkillTypeArchitecture        SkillType = "architecture"
	SkillTypeSecurity            SkillType = "security"
	SkillTypeAPITechnology       SkillType = "api_technology"
	SkillTypeVersionControl      SkillType = "version_control"
	SkillTypeSoftSkill           SkillType = "soft_skill"
)

// Skill is a canonicalized skill. Name is the unique key after normalization
// (lower-cased, trimmed, alias-folded).
type Skill struct {
	Name string    `json:"name"`
	Type SkillType `json:"type"`
}

// ProficiencyLevel represents how well an employee knows a skill.
type ProficiencyLevel string

// Proficiency levels in ascending order of mastery.
const (
	LevelBeginner     ProficiencyLevel = "beginner"
	LevelIntermediate ProficiencyLevel = "intermediate"
	LevelAdvanced     ProficiencyLevel = "advanced"
	LevelExpert       ProficiencyLevel = "expert"
	LevelMaster       ProficiencyLevel = "master"
)

var proficiencyRank = map[ProficiencyLevel]int{
	LevelBeginner:     1,
	LevelIntermediate: 2,
	LevelAdvanced:     3,
	LevelExpert:       4,
	LevelMaster:       5,
}

// ParseProficiencyLevel parses a level string case-insensitively.
// Unrecognized levels are a data-integrity problem, never coerced.
func ParseProficiencyLevel(s string) (ProficiencyLevel, error) {
	level := ProficiencyLevel(strings.ToLower(strings.TrimSpace(s)))
	if _, ok := proficiencyRank[level]; !ok {
		return "", &DataIntegrityError{Entity: s, Message: fmt.Sprintf("unrecognized proficiency level %q", s)}
	}
	return level, nil
}

// Rank returns the ordinal position of the level (beginner=1 .. master=5),
// or 0 for an unrecognized level.
func (p ProficiencyLevel) Rank() int {
	return proficiencyRank[p]
}

// AtLeast reports whether p meets or exceeds the required level.
func (p ProficiencyLevel) AtLeast(required ProficiencyLevel) bool {
	return proficiencyRank[p] >= proficiencyRank[required]
}

// SkillRequirement attaches a required skill to a task. Mandatory
// requirements that a candidate does not meet must be surfaced, not dropped.
type SkillRequirement struct {
	Skill         Skill            `json:"skill"`
	RequiredLevel ProficiencyLevel `json:"required_level"`
	Mandatory     bool             `json:"mandatory"`
}

// EmployeeSkill is a skill an employee holds at a given proficiency.
type EmployeeSkill struct {
	Skill Skill            `json:"skill"`
	Level ProficiencyLevel `json:"level"`
}

// Employee is a candidate for assignment. Identity is immutable; skills and
// capacity are owned by external HR data and read-only here.
type Employee struct {
	ID                   string          `json:"id"`
	Name                 string          `json:"name,omitempty"`
	Skills               []EmployeeSkill `json:"skills"`
	CapacityHoursPerWeek float64         `json:"capacity_hours_per_week"`
	Team                 string          `json:"team,omitempty"`
}

// SkillAt returns the employee's proficiency for a normalized skill name,
// or false when the employee does not hold the skill.
func (e *Employee) SkillAt(normalizedName string) (ProficiencyLevel, bool) {
	for _, s := range e.Skills {
		if s.Skill.Name == normalizedName {
			return s.Level, true
		}
	}
	return "", false
}
