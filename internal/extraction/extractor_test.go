package extraction

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mnp/taskmatch/internal/types"
)

type fakeProvider struct {
	response string
	err      error
	delay    time.Duration
	calls    int
}

func (f *fakeProvider) Infer(ctx context.Context, _ Input) (string, error) {
	f.calls++
	if f.delay > 0 {
		select {
		case <-time.After(f.delay):
		case <-ctx.Done():
			return "", ctx.Err()
		}
	}
	if f.err != nil {
		return "", f.err
	}
	return f.response, nil
}

const wellFormedResponse = `{
	"requirements": [
		{
			"text": "Implement OAuth2 login for the customer portal",
			"priority": "high",
			"skills": [
				{"name": "OAuth", "required_level": "advanced", "mandatory": true},
				{"name": "Go", "required_level": "intermediate", "mandatory": false}
			],
			"estimated_hours": 24
		},
		{
			"text": "Add audit logging for login attempts",
			"priority": "medium",
			"skills": [{"name": "postgres", "required_level": "intermediate", "mandatory": true}],
			"estimated_hours": 8,
			"depends_on": [0]
		}
	]
}`

func TestExtractWellFormedResponse(t *testing.T) {
	extractor := NewExtractor(&fakeProvider{response: wellFormedResponse}, nil, 0)

	result, err := extractor.Extract(context.Background(), Input{Text: "build a portal"})
	require.NoError(t, err)
	assert.False(t, result.Degraded)
	require.Len(t, result.Requirements, 2)

	first := result.Requirements[0]
	assert.Equal(t, "Implement OAuth2 login for the customer portal", first.Text)
	assert.Equal(t, types.PriorityHigh, first.Priority)
	assert.Equal(t, 24.0, first.EstimatedHours)
	require.Len(t, first.DerivedSkills, 2)
	assert.Equal(t, "oauth", first.DerivedSkills[0].Skill.Name)
	assert.True(t, first.DerivedSkills[0].Mandatory)
	assert.Equal(t, "golang", first.DerivedSkills[1].Skill.Name)

	second := result.Requirements[1]
	assert.Equal(t, "postgresql", second.DerivedSkills[0].Skill.Name)
	require.Len(t, second.Dependencies, 1)
	assert.Equal(t, first.ID, second.Dependencies[0])
}

func TestExtractStableIDs(t *testing.T) {
	extractor := NewExtractor(&fakeProvider{response: wellFormedResponse}, nil, 0)

	first, err := extractor.Extract(context.Background(), Input{Text: "build a portal"})
	require.NoError(t, err)
	second, err := extractor.Extract(context.Background(), Input{Text: "build a portal"})
	require.NoError(t, err)

	require.Len(t, second.Requirements, len(first.Requirements))
	for i := range first.Requirements {
		assert.Equal(t, first.Requirements[i].ID, second.Requirements[i].ID)
	}
}

func TestExtractNearDuplicatesCollapse(t *testing.T) {
	response := `{
		"requirements": [
			{"text": "Implement OAuth2 login for the customer portal", "priority": "high"},
			{"text": "Implement OAuth2 login for the customer portal.", "priority": "medium"},
			{"text": "Add audit logging for login attempts", "priority": "low", "depends_on": [1]}
		]
	}`
	extractor := NewExtractor(&fakeProvider{response: response}, nil, 0)

	result, err := extractor.Extract(context.Background(), Input{Text: "build a portal"})
	require.NoError(t, err)
	require.Len(t, result.Requirements, 2)

	// The dependency on the dropped duplicate resolves to the kept one.
	require.Len(t, result.Requirements[1].Dependencies, 1)
	assert.Equal(t, result.Requirements[0].ID, result.Requirements[1].Dependencies[0])
}

func TestExtractProviderFailureFallsBack(t *testing.T) {
	extractor := NewExtractor(&fakeProvider{err: errors.New("quota exhausted")}, nil, 0)

	result, err := extractor.Extract(context.Background(), Input{Text: "build a portal"})
	require.NoError(t, err)

	assert.True(t, result.Degraded)
	assert.Contains(t, result.Reason, "quota exhausted")
	require.Len(t, result.Requirements, 1)
	assert.Contains(t, result.Requirements[0].Text, "Extraction unavailable")
}

func TestExtractTimeoutFallsBack(t *testing.T) {
	provider := &fakeProvider{response: wellFormedResponse, delay: 200 * time.Millisecond}
	extractor := NewExtractor(provider, nil, 20*time.Millisecond)

	start := time.Now()
	result, err := extractor.Extract(context.Background(), Input{Text: "build a portal"})
	require.NoError(t, err)

	assert.True(t, result.Degraded)
	require.Len(t, result.Requirements, 1)
	assert.Contains(t, result.Requirements[0].Text, "Extraction unavailable")
	assert.Less(t, time.Since(start), 150*time.Millisecond, "caller wait must be timeout-bounded")
}

func TestExtractInvalidOutputFallsBack(t *testing.T) {
	tests := []struct {
		name     string
		response string
	}{
		{name: "not JSON", response: "sure, here are the requirements:"},
		{name: "schema violation", response: `{"requirements": [{"priority": "high"}]}`},
		{name: "unknown priority", response: `{"requirements": [{"text": "x", "priority": "urgent"}]}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			extractor := NewExtractor(&fakeProvider{response: tt.response}, nil, 0)

			result, err := extractor.Extract(context.Background(), Input{Text: "build a portal"})
			require.NoError(t, err)
			assert.True(t, result.Degraded)
			require.Len(t, result.Requirements, 1)
		})
	}
}

func TestExtractInputValidation(t *testing.T) {
	extractor := NewExtractor(&fakeProvider{response: wellFormedResponse}, nil, 0)

	tests := []struct {
		name  string
		input Input
	}{
		{name: "empty input", input: Input{}},
		{name: "whitespace text", input: Input{Text: "   "}},
		{name: "text and document", input: Input{Text: "x", Document: []byte("y"), MIMEType: "text/plain"}},
		{name: "document without mime type", input: Input{Document: []byte("y")}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := extractor.Extract(context.Background(), tt.input)
			require.Error(t, err)

			var validation *types.ValidationError
			assert.True(t, errors.As(err, &validation))
		})
	}
}

func TestJaccard(t *testing.T) {
	assert.Equal(t, 1.0, jaccard(nil, nil))
	assert.Equal(t, 1.0, jaccard([]string{"a", "b"}, []string{"b", "a"}))
	assert.Equal(t, 0.0, jaccard([]string{"a"}, []string{"b"}))
	assert.InDelta(t, 0.5, jaccard([]string{"a", "b", "c"}, []string{"a", "b", "d"}), 1e-9)
}
