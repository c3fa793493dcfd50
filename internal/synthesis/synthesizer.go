// Package synthesis turns extracted requirements into draft tasks.
// Drafts are proposals only: persistence, real task IDs, and assignee
// selection happen downstream.
package synthesis

import (
	"fmt"
	"strings"

	"github.com/google/uuid"

	"github.com/mnp/taskmatch/internal/types"
)

// DefaultSplitThresholdHours is the effort above which one requirement
// becomes a design/implementation/testing triple instead of a single task.
const DefaultSplitThresholdHours = 40.0

// Phase effort shares for split requirements.
const (
	designShare         = 0.25
	implementationShare = 0.50
	testingShare        = 0.25
)

var draftNamespace = uuid.NewSHA1(uuid.NameSpaceURL, []byte("taskmatch://draft"))

// Synthesizer maps requirements to task drafts.
type Synthesizer struct {
	splitThresholdHours float64
}

// NewSynthesizer creates a Synthesizer. A non-positive threshold uses
// DefaultSplitThresholdHours.
func NewSynthesizer(splitThresholdHours float64) *Synthesizer {
	if splitThresholdHours <= 0 {
		splitThresholdHours = DefaultSplitThresholdHours
	}
	return &Synthesizer{splitThresholdHours: splitThresholdHours}
}

// Synthesize maps each requirement to one draft, or to a
// design/implementation/testing triple when its estimate crosses the split
// threshold. Requirement dependencies become draft dependencies on the
// dependency's final draft, so execution order survives the mapping. Draft
// IDs are stable digests of requirement ID and phase.
func (s *Synthesizer) Synthesize(requirements []types.Requirement) []types.TaskDraft {
	drafts := make([]types.TaskDraft, 0, len(requirements))

	// finalDraft maps a requirement to the draft that completes it, which
	// is what downstream work must wait on.
	finalDraft := make(map[string]string, len(requirements))
	for _, r := range requirements {
		if s.shouldSplit(r) {
			finalDraft[r.ID] = draftID(r.ID, "testing")
		} else {
			finalDraft[r.ID] = draftID(r.ID, "")
		}
	}

	for _, r := range requirements {
		external := make([]string, 0, len(r.Dependencies))
		for _, depID := range r.Dependencies {
			if final, ok := finalDraft[depID]; ok {
				external = append(external, final)
			}
		}

		if s.shouldSplit(r) {
			drafts = append(drafts, s.splitDrafts(r, external)...)
			continue
		}

		drafts = append(drafts, types.TaskDraft{
			DraftID:        draftID(r.ID, ""),
			RequirementID:  r.ID,
			Title:          draftTitle(r.Text),
			Description:    r.Text,
			Priority:       r.Priority,
			EstimatedHours: r.EstimatedHours,
			RequiredSkills: cloneSkills(r.DerivedSkills),
			DependsOn:      external,
		})
	}

	return drafts
}

func (s *Synthesizer) shouldSplit(r types.Requirement) bool {
	return r.EstimatedHours > s.splitThresholdHours
}

// splitDrafts breaks one large requirement into three phased drafts.
// External dependencies gate the design phase; later phases chain on the
// earlier ones.
func (s *Synthesizer) splitDrafts(r types.Requirement, external []string) []types.TaskDraft {
	design := types.TaskDraft{
		DraftID:        draftID(r.ID, "design"),
		RequirementID:  r.ID,
		Title:          "Design: " + draftTitle(r.Text),
		Description:    fmt.Sprintf("Design work for: %s", r.Text),
		Priority:       r.Priority,
		EstimatedHours: r.EstimatedHours * designShare,
		RequiredSkills: cloneSkills(r.DerivedSkills),
		DependsOn:      external,
	}
	implementation := types.TaskDraft{
		DraftID:        draftID(r.ID, "implementation"),
		RequirementID:  r.ID,
		Title:          "Implement: " + draftTitle(r.Text),
		Description:    fmt.Sprintf("Implementation work for: %s", r.Text),
		Priority:       r.Priority,
		EstimatedHours: r.EstimatedHours * implementationShare,
		RequiredSkills: cloneSkills(r.DerivedSkills),
		DependsOn:      []string{design.DraftID},
	}
	testing := types.TaskDraft{
		DraftID:        draftID(r.ID, "testing"),
		RequirementID:  r.ID,
		Title:          "Test: " + draftTitle(r.Text),
		Description:    fmt.Sprintf("Verification work for: %s", r.Text),
		Priority:       r.Priority,
		EstimatedHours: r.EstimatedHours * testingShare,
		RequiredSkills: cloneSkills(r.DerivedSkills),
		DependsOn:      []string{implementation.DraftID},
	}
	return []types.TaskDraft{design, implementation, testing}
}

// draftTitle is the requirement text cut to a title-sized line.
func draftTitle(text string) string {
	const maxTitleLen = 80
	text = strings.TrimSpace(text)
	if len(text) <= maxTitleLen {
		return text
	}
	cut := text[:maxTitleLen]
	if idx := strings.LastIndex(cut, " "); idx > 0 {
		cut = cut[:idx]
	}
	return cut + "..."
}

func draftID(requirementID, phase string) string {
	key := requirementID
	if phase != "" {
		key += ":" + phase
	}
	return uuid.NewSHA1(draftNamespace, []byte(key)).String()
}

func cloneSkills(skills []types.SkillRequirement) []types.SkillRequirement {
	out := make([]types.SkillRequirement, len(skills))
	copy(out, skills)
	return out
}
