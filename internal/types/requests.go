package types

import (
	"github.com/go-playground/validator/v10"
)

// WeightVector is an explicit set of component weights. Weights must sum to
// 1.0; anything else is rejected as a data-integrity problem, not normalized.
type WeightVector struct {
	Skill        float64 `json:"skill" validate:"gte=0,lte=1"`
	Availability float64 `json:"availability" validate:"gte=0,lte=1"`
	Workload     float64 `json:"workload" validate:"gte=0,lte=1"`
	Performance  float64 `json:"performance" validate:"gte=0,lte=1"`
}

// RecommendRequest asks for a ranked candidate list for one task.
// Either Profile (a named profile) or Weights (an explicit vector) selects
// the weighting; Team applies only to the team-scoped profile.
type RecommendRequest struct {
	Task       Task          `json:"task" validate:"required"`
	Candidates []Employee    `json:"candidates"`
	Profile    string        `json:"profile,omitempty"`
	Weights    *WeightVector `json:"weights,omitempty"`
	Team       string        `json:"team,omitempty"`
	TopN       int           `json:"top_n,omitempty" validate:"gte=0"`
}

// Validate validates the RecommendRequest using the validator.
func (r *RecommendRequest) Validate() error {
	validate := validator.New()
	if err := validate.Struct(r); err != nil {
		return &ValidationError{Field: "recommend_request", Message: err.Error()}
	}
	if r.Task.ID == "" {
		return &ValidationError{Field: "task.id", Message: "task id is required"}
	}
	if r.Profile != "" && r.Weights != nil {
		return &ValidationError{Field: "profile", Message: "profile and weights are mutually exclusive"}
	}
	return nil
}

// AnalyzeRequest submits raw text or an uploaded document for requirements
// analysis. Exactly one of Text or Document must be set.
type AnalyzeRequest struct {
	Text     string          `json:"text,omitempty"`
	Document []byte          `json:"document,omitempty"` // base64 in JSON
	Filename string          `json:"filename,omitempty"`
	Toggles  AnalysisToggles `json:"toggles"`
	// TimeoutSeconds bounds the caller-side wait on the inference provider.
	TimeoutSeconds int `json:"timeout_seconds,omitempty" validate:"gte=0"`
}

// Validate validates the AnalyzeRequest using the validator.
func (r *AnalyzeRequest) Validate() error {
	validate := validator.New()
	if err := validate.Struct(r); err != nil {
		return &ValidationError{Field: "analyze_request", Message: err.Error()}
	}
	if r.Text == "" && len(r.Document) == 0 {
		return &ValidationError{Field: "text", Message: "either text or document is required"}
	}
	if r.Text != "" && len(r.Document) > 0 {
		return &ValidationError{Field: "document", Message: "text and document are mutually exclusive"}
	}
	if len(r.Document) > 0 && r.Filename == "" {
		return &ValidationError{Field: "filename", Message: "filename is required with a document"}
	}
	return nil
}
