package synthesis

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mnp/taskmatch/internal/types"
)

func oauthRequirement() types.Requirement {
	return types.Requirement{
		ID:       "R1",
		Text:     "Implement OAuth2 login for the customer portal",
		Priority: types.PriorityHigh,
		DerivedSkills: []types.SkillRequirement{
			{Skill: types.Skill{Name: "oauth", Type: types.SkillTypeSecurity}, RequiredLevel: types.LevelAdvanced, Mandatory: true},
		},
		EstimatedHours: 24,
	}
}

func TestSynthesizeSingleDraft(t *testing.T) {
	synthesizer := NewSynthesizer(0)

	drafts := synthesizer.Synthesize([]types.Requirement{oauthRequirement()})
	require.Len(t, drafts, 1)

	draft := drafts[0]
	assert.Equal(t, "R1", draft.RequirementID)
	assert.Equal(t, "Implement OAuth2 login for the customer portal", draft.Title)
	assert.Equal(t, types.PriorityHigh, draft.Priority)
	assert.Equal(t, 24.0, draft.EstimatedHours)
	require.Len(t, draft.RequiredSkills, 1)
	assert.Equal(t, "oauth", draft.RequiredSkills[0].Skill.Name)
	assert.Empty(t, draft.DependsOn)
}

func TestSynthesizeSplitsLargeRequirement(t *testing.T) {
	req := oauthRequirement()
	req.EstimatedHours = 60
	synthesizer := NewSynthesizer(40)

	drafts := synthesizer.Synthesize([]types.Requirement{req})
	require.Len(t, drafts, 3)

	design, implementation, testing := drafts[0], drafts[1], drafts[2]
	assert.Contains(t, design.Title, "Design:")
	assert.Contains(t, implementation.Title, "Implement:")
	assert.Contains(t, testing.Title, "Test:")

	// Effort splits 25/50/25 and the phases chain in order.
	assert.InDelta(t, 15.0, design.EstimatedHours, 1e-9)
	assert.InDelta(t, 30.0, implementation.EstimatedHours, 1e-9)
	assert.InDelta(t, 15.0, testing.EstimatedHours, 1e-9)
	assert.Equal(t, []string{design.DraftID}, implementation.DependsOn)
	assert.Equal(t, []string{implementation.DraftID}, testing.DependsOn)

	for _, d := range drafts {
		assert.Equal(t, "R1", d.RequirementID)
		assert.Len(t, d.RequiredSkills, 1)
	}
}

func TestSynthesizeMapsRequirementDependencies(t *testing.T) {
	first := oauthRequirement()
	second := types.Requirement{
		ID:             "R2",
		Text:           "Add audit logging for login attempts",
		Priority:       types.PriorityMedium,
		EstimatedHours: 8,
		Dependencies:   []string{"R1"},
	}
	synthesizer := NewSynthesizer(40)

	drafts := synthesizer.Synthesize([]types.Requirement{first, second})
	require.Len(t, drafts, 2)
	assert.Equal(t, []string{drafts[0].DraftID}, drafts[1].DependsOn)
}

func TestSynthesizeDependencyOnSplitRequirementWaitsForTesting(t *testing.T) {
	large := oauthRequirement()
	large.EstimatedHours = 60
	dependent := types.Requirement{
		ID:             "R2",
		Text:           "Roll out login to all tenants",
		EstimatedHours: 8,
		Dependencies:   []string{"R1"},
	}
	synthesizer := NewSynthesizer(40)

	drafts := synthesizer.Synthesize([]types.Requirement{large, dependent})
	require.Len(t, drafts, 4)

	testing := drafts[2]
	rollout := drafts[3]
	assert.Contains(t, testing.Title, "Test:")
	assert.Equal(t, []string{testing.DraftID}, rollout.DependsOn)
}

func TestSynthesizeStableDraftIDs(t *testing.T) {
	synthesizer := NewSynthesizer(0)
	req := oauthRequirement()

	first := synthesizer.Synthesize([]types.Requirement{req})
	second := synthesizer.Synthesize([]types.Requirement{req})
	require.Len(t, first, 1)
	require.Len(t, second, 1)
	assert.Equal(t, first[0].DraftID, second[0].DraftID)
}

func TestSynthesizeUnknownDependencyDropped(t *testing.T) {
	req := oauthRequirement()
	req.Dependencies = []string{"R-missing"}
	synthesizer := NewSynthesizer(0)

	drafts := synthesizer.Synthesize([]types.Requirement{req})
	require.Len(t, drafts, 1)
	assert.Empty(t, drafts[0].DependsOn)
}

func TestDraftTitleTruncation(t *testing.T) {
	long := "Implement a fully fledged reporting pipeline with scheduled exports, templated dashboards, and per-tenant access control"
	title := draftTitle(long)
	assert.LessOrEqual(t, len(title), 84)
	assert.Contains(t, title, "...")
}

func TestSynthesizeEmptyInput(t *testing.T) {
	assert.Empty(t, NewSynthesizer(0).Synthesize(nil))
}
