// Package extraction turns free-form project descriptions into structured
// requirements via a pluggable inference provider.
package extraction

import (
	"context"
	"fmt"

	"github.com/mnp/taskmatch/internal/llm"
	"github.com/mnp/taskmatch/schemas"
)

// Input is one extraction source: either plain text or a binary document
// the provider reads directly.
type Input struct {
	Text     string
	Document []byte
	MIMEType string
}

// Provider runs the natural-language understanding step and returns raw
// JSON matching the requirements schema. Implementations own their own
// transport; the extractor owns validation, dedup, and fallback.
type Provider interface {
	Infer(ctx context.Context, input Input) (string, error)
}

const extractionPrompt = `You are a requirements analyst. Read the project description and extract every discrete requirement.

Return JSON matching this schema exactly, with no commentary:

%s

Rules:
- One requirement per actionable statement. Restate each as a single sentence.
- Assign priority by urgency and blast radius: critical > high > medium > low.
- List the technical skills each requirement implies, with a proficiency level
  (beginner, intermediate, advanced, expert, master) and whether the skill is
  mandatory for the work.
- Estimate effort in hours where the text gives enough signal; omit otherwise.
- depends_on lists zero-based indexes of requirements that must land first.`

// GeminiProvider implements Provider on the Gemini client.
type GeminiProvider struct {
	client llm.Client
	tier   llm.ModelTier
}

// NewGeminiProvider creates a provider using the given model tier.
func NewGeminiProvider(client llm.Client, tier llm.ModelTier) *GeminiProvider {
	if tier == "" {
		tier = llm.TierStandard
	}
	return &GeminiProvider{client: client, tier: tier}
}

// Infer sends the source to the model and returns the raw JSON response.
func (p *GeminiProvider) Infer(ctx context.Context, input Input) (string, error) {
	prompt := fmt.Sprintf(extractionPrompt, schemas.Requirements)
	if len(input.Document) > 0 {
		return p.client.GenerateJSONFromDocument(ctx, prompt, input.Document, input.MIMEType, p.tier)
	}
	return p.client.GenerateJSON(ctx, prompt+"\n\nProject description:\n"+input.Text, p.tier)
}
