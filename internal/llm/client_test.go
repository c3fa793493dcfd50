package llm

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCleanJSONBlock(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{
			name:  "bare JSON passes through",
			input: `{"requirements": []}`,
			want:  `{"requirements": []}`,
		},
		{
			name:  "json fenced block",
			input: "```json\n{\"requirements\": []}\n```",
			want:  `{"requirements": []}`,
		},
		{
			name:  "generic fenced block",
			input: "```\n{\"requirements\": []}\n```",
			want:  `{"requirements": []}`,
		},
		{
			name:  "fence with language identifier",
			input: "```javascript\n{\"requirements\": []}\n```",
			want:  `{"requirements": []}`,
		},
		{
			name:  "fence on one line",
			input: "```json {\"a\": 1}```",
			want:  `{"a": 1}`,
		},
		{
			name:  "surrounding whitespace",
			input: "  \n```json\n{\"a\": 1}\n```  \n",
			want:  `{"a": 1}`,
		},
		{
			name:  "empty input",
			input: "",
			want:  "",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, CleanJSONBlock(tt.input))
		})
	}
}

func TestConfigGetModelFallback(t *testing.T) {
	cfg := &Config{Provider: ProviderGemini, Models: map[ModelTier]string{TierLite: "gemini-2.5-flash-lite"}}
	assert.Equal(t, "gemini-2.5-flash-lite", cfg.GetModel(TierAdvanced))

	cfg = cfg.WithModel(TierAdvanced, "gemini-2.5-pro")
	assert.Equal(t, "gemini-2.5-pro", cfg.GetModel(TierAdvanced))
	assert.Equal(t, "gemini-2.5-flash-lite", cfg.GetModel(TierLite))
}
