package conflicts

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mnp/taskmatch/internal/types"
)

func TestDetectContradictoryPairYieldsExactlyOneConflict(t *testing.T) {
	requirements := []types.Requirement{
		{ID: "R1", Text: "All analytics must respect user privacy and data minimization"},
		{ID: "R2", Text: "Enable broad data collection and behavioral tracking across the product"},
	}
	detector := NewDetector(nil, 0)

	conflicts := detector.Detect(requirements)
	require.Len(t, conflicts, 1)

	conflict := conflicts[0]
	assert.Equal(t, types.ConflictRequirement, conflict.Type)
	assert.ElementsMatch(t, []string{"R1", "R2"}, conflict.InvolvedRequirementIDs)
	assert.NotEmpty(t, conflict.Suggestion)
	assert.Equal(t, types.SeverityHigh, conflict.Severity)
}

func TestDetectPairOrderDoesNotMatter(t *testing.T) {
	requirements := []types.Requirement{
		{ID: "R1", Text: "Enable broad data collection across the product"},
		{ID: "R2", Text: "All processing must be gdpr compliant with data minimization"},
	}
	detector := NewDetector(nil, 0)

	conflicts := detector.Detect(requirements)
	require.Len(t, conflicts, 1)
	assert.ElementsMatch(t, []string{"R1", "R2"}, conflicts[0].InvolvedRequirementIDs)
}

func TestDetectNoConflictForCompatibleRequirements(t *testing.T) {
	requirements := []types.Requirement{
		{ID: "R1", Text: "Implement OAuth2 login"},
		{ID: "R2", Text: "Add audit logging for login attempts"},
	}
	detector := NewDetector(nil, 0)

	assert.Empty(t, detector.Detect(requirements))
}

func TestDetectIsStableAndPure(t *testing.T) {
	requirements := []types.Requirement{
		{ID: "R1", Text: "Users may work offline-first on flaky networks"},
		{ID: "R2", Text: "The dashboard shows real-time updates for all users"},
	}
	detector := NewDetector(nil, 0)

	first := detector.Detect(requirements)
	second := detector.Detect(requirements)
	require.Len(t, first, 1)
	require.Len(t, second, 1)
	assert.Equal(t, first[0].ID, second[0].ID)

	assert.Equal(t, "Users may work offline-first on flaky networks", requirements[0].Text)
}

func TestDetectResourceContention(t *testing.T) {
	// R3 depends on R2 depends on R1: 60 serialized hours against a 40
	// hour window.
	requirements := []types.Requirement{
		{ID: "R1", Text: "Design the schema", EstimatedHours: 20},
		{ID: "R2", Text: "Implement the storage layer", EstimatedHours: 20, Dependencies: []string{"R1"}},
		{ID: "R3", Text: "Build the reporting API", EstimatedHours: 20, Dependencies: []string{"R2"}},
	}
	detector := NewDetector(nil, 40)

	conflicts := detector.Detect(requirements)
	require.Len(t, conflicts, 1)

	conflict := conflicts[0]
	assert.Equal(t, types.ConflictContention, conflict.Type)
	assert.Equal(t, []string{"R1", "R2", "R3"}, conflict.InvolvedRequirementIDs)
	assert.Contains(t, conflict.Description, "60 hours")
}

func TestDetectContentionReportsOnlyMaximalChain(t *testing.T) {
	// The R1<-R2 sub-chain already exceeds the window on its own and is
	// found before the full chain; both describe the same serialization.
	requirements := []types.Requirement{
		{ID: "R1", Text: "Design the schema", EstimatedHours: 30},
		{ID: "R2", Text: "Implement the storage layer", EstimatedHours: 30, Dependencies: []string{"R1"}},
		{ID: "R3", Text: "Build the reporting API", EstimatedHours: 30, Dependencies: []string{"R2"}},
	}
	detector := NewDetector(nil, 40)

	conflicts := detector.Detect(requirements)
	require.Len(t, conflicts, 1)
	assert.Equal(t, []string{"R1", "R2", "R3"}, conflicts[0].InvolvedRequirementIDs)
	assert.Contains(t, conflicts[0].Description, "90 hours")
}

func TestDetectContentionUnderWindow(t *testing.T) {
	requirements := []types.Requirement{
		{ID: "R1", Text: "Design the schema", EstimatedHours: 10},
		{ID: "R2", Text: "Implement the storage layer", EstimatedHours: 10, Dependencies: []string{"R1"}},
	}
	detector := NewDetector(nil, 40)

	assert.Empty(t, detector.Detect(requirements))
}

func TestDetectContentionIgnoresCycles(t *testing.T) {
	requirements := []types.Requirement{
		{ID: "R1", Text: "First", EstimatedHours: 30, Dependencies: []string{"R2"}},
		{ID: "R2", Text: "Second", EstimatedHours: 30, Dependencies: []string{"R1"}},
	}
	detector := NewDetector(nil, 40)

	// A cycle must not hang or panic; both two-step chains exceed the
	// window so contention is still reported.
	conflicts := detector.Detect(requirements)
	assert.NotEmpty(t, conflicts)
}
