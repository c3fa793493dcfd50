package extraction

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/mnp/taskmatch/internal/schemas"
	"github.com/mnp/taskmatch/internal/skills"
	"github.com/mnp/taskmatch/internal/types"
	rootschemas "github.com/mnp/taskmatch/schemas"
)

// DefaultTimeout bounds the caller-side wait on the inference provider.
const DefaultTimeout = 60 * time.Second

// defaultDedupThreshold is the token-overlap ratio at which two requirement
// texts count as near-duplicates.
const defaultDedupThreshold = 0.9

// requirementNamespace seeds stable requirement IDs: the same requirement
// text always produces the same ID across runs.
var requirementNamespace = uuid.NewSHA1(uuid.NameSpaceURL, []byte("taskmatch://requirement"))

// Result is one extraction run's output. Degraded distinguishes "extraction
// failed, these are placeholders" from "no requirements found".
type Result struct {
	Requirements []types.Requirement
	Degraded     bool
	Reason       string
}

// Extractor validates, deduplicates, and labels what the provider returns.
type Extractor struct {
	provider   Provider
	normalizer *skills.Normalizer
	timeout    time.Duration
}

// NewExtractor creates an Extractor. A zero timeout uses DefaultTimeout;
// a nil normalizer uses the default rule table.
func NewExtractor(provider Provider, normalizer *skills.Normalizer, timeout time.Duration) *Extractor {
	if normalizer == nil {
		normalizer = skills.NewNormalizer(nil)
	}
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	return &Extractor{provider: provider, normalizer: normalizer, timeout: timeout}
}

// Extract runs inference over the input and returns structured requirements.
// A provider failure, timeout, or malformed response never propagates as an
// error: the result carries a deterministic placeholder set with Degraded
// set, so callers can always tell degraded output from an empty extraction.
// Only invalid input is rejected outright.
func (e *Extractor) Extract(ctx context.Context, input Input) (Result, error) {
	if err := validateInput(input); err != nil {
		return Result{}, err
	}

	raw, err := e.inferWithTimeout(ctx, input)
	if err != nil {
		return degradedResult(err), nil
	}

	if err := schemas.ValidateJSONString(rootschemas.Requirements, raw); err != nil {
		return degradedResult(fmt.Errorf("inference output failed schema validation: %w", err)), nil
	}

	var doc inferredDocument
	if err := json.Unmarshal([]byte(raw), &doc); err != nil {
		return degradedResult(fmt.Errorf("unmarshaling inference output: %w", err)), nil
	}

	return Result{Requirements: e.build(doc.Requirements)}, nil
}

// inferWithTimeout bounds the wait on the provider. The provider call itself
// is not cancellable once submitted, so the goroutine is left to finish into
// a buffered channel while the caller moves on.
func (e *Extractor) inferWithTimeout(ctx context.Context, input Input) (string, error) {
	ctx, cancel := context.WithTimeout(ctx, e.timeout)
	defer cancel()

	type inferOutcome struct {
		raw string
		err error
	}
	done := make(chan inferOutcome, 1)
	go func() {
		raw, err := e.provider.Infer(ctx, input)
		done <- inferOutcome{raw: raw, err: err}
	}()

	select {
	case out := <-done:
		if out.err != nil {
			return "", &types.DependencyUnavailableError{Dependency: "inference provider", Cause: out.err}
		}
		return out.raw, nil
	case <-ctx.Done():
		return "", &types.DependencyUnavailableError{Dependency: "inference provider", Cause: ctx.Err()}
	}
}

func validateInput(input Input) error {
	hasText := strings.TrimSpace(input.Text) != ""
	hasDocument := len(input.Document) > 0
	switch {
	case !hasText && !hasDocument:
		return &types.ValidationError{Field: "source", Message: "either text or a document is required"}
	case hasText && hasDocument:
		return &types.ValidationError{Field: "source", Message: "text and document are mutually exclusive"}
	case hasDocument && input.MIMEType == "":
		return &types.ValidationError{Field: "mime_type", Message: "document requires a MIME type"}
	}
	return nil
}

type inferredSkill struct {
	Name          string `json:"name"`
	RequiredLevel string `json:"required_level"`
	Mandatory     bool   `json:"mandatory"`
}

type inferredRequirement struct {
	Text           string          `json:"text"`
	Priority       string          `json:"priority"`
	Skills         []inferredSkill `json:"skills"`
	EstimatedHours float64         `json:"estimated_hours"`
	DependsOn      []int           `json:"depends_on"`
}

type inferredDocument struct {
	Requirements []inferredRequirement `json:"requirements"`
}

// build converts inferred requirements to domain requirements: near-duplicate
// texts collapse onto the first occurrence, IDs are stable digests of the
// text, and depends_on indexes resolve to the surviving requirement's ID.
func (e *Extractor) build(inferred []inferredRequirement) []types.Requirement {
	requirements := make([]types.Requirement, 0, len(inferred))
	keptTokens := make([][]string, 0, len(inferred))
	// keptIndex maps every original index, duplicates included, to the
	// position of the requirement that survived dedup.
	keptIndex := make([]int, len(inferred))

	for i, ir := range inferred {
		tokens := tokenize(ir.Text)
		if dup := duplicateOf(tokens, keptTokens); dup >= 0 {
			keptIndex[i] = dup
			continue
		}

		keptIndex[i] = len(requirements)
		keptTokens = append(keptTokens, tokens)
		requirements = append(requirements, types.Requirement{
			ID:             RequirementID(ir.Text),
			Text:           strings.TrimSpace(ir.Text),
			Priority:       types.Priority(ir.Priority),
			DerivedSkills:  e.buildSkills(ir.Skills),
			EstimatedHours: ir.EstimatedHours,
		})
	}

	// Resolve dependency indexes in a second pass so forward references work.
	for i, ir := range inferred {
		target := keptIndex[i]
		for _, dep := range ir.DependsOn {
			if dep < 0 || dep >= len(keptIndex) || keptIndex[dep] == target {
				continue
			}
			requirements[target].Dependencies = appendUnique(requirements[target].Dependencies, requirements[keptIndex[dep]].ID)
		}
	}

	return requirements
}

func (e *Extractor) buildSkills(inferred []inferredSkill) []types.SkillRequirement {
	out := make([]types.SkillRequirement, 0, len(inferred))
	seen := make(map[string]struct{}, len(inferred))
	for _, is := range inferred {
		skill := e.normalizer.Normalize(is.Name)
		if _, dup := seen[skill.Name]; dup {
			continue
		}
		seen[skill.Name] = struct{}{}

		level := types.LevelIntermediate
		if is.RequiredLevel != "" {
			parsed, err := types.ParseProficiencyLevel(is.RequiredLevel)
			if err == nil {
				level = parsed
			}
		}
		out = append(out, types.SkillRequirement{Skill: skill, RequiredLevel: level, Mandatory: is.Mandatory})
	}
	return out
}

// RequirementID derives a stable UUID from requirement text.
func RequirementID(text string) string {
	normalized := strings.Join(tokenize(text), " ")
	return uuid.NewSHA1(requirementNamespace, []byte(normalized)).String()
}

func degradedResult(cause error) Result {
	text := "Extraction unavailable: review the source document manually and enter requirements by hand."
	return Result{
		Requirements: []types.Requirement{{
			ID:       RequirementID(text),
			Text:     text,
			Priority: types.PriorityHigh,
		}},
		Degraded: true,
		Reason:   cause.Error(),
	}
}

func tokenize(text string) []string {
	fields := strings.Fields(strings.ToLower(text))
	out := make([]string, 0, len(fields))
	for _, f := range fields {
		f = strings.Trim(f, ".,;:!?\"'()[]")
		if f != "" {
			out = append(out, f)
		}
	}
	return out
}

// duplicateOf returns the index of a kept requirement whose token set
// overlaps this one at or above the threshold, or -1.
func duplicateOf(tokens []string, kept [][]string) int {
	for i, other := range kept {
		if jaccard(tokens, other) >= defaultDedupThreshold {
			return i
		}
	}
	return -1
}

func jaccard(a, b []string) float64 {
	if len(a) == 0 && len(b) == 0 {
		return 1
	}
	setA := make(map[string]struct{}, len(a))
	for _, t := range a {
		setA[t] = struct{}{}
	}
	setB := make(map[string]struct{}, len(b))
	for _, t := range b {
		setB[t] = struct{}{}
	}
	intersection := 0
	for t := range setA {
		if _, ok := setB[t]; ok {
			intersection++
		}
	}
	union := len(setA) + len(setB) - intersection
	if union == 0 {
		return 1
	}
	return float64(intersection) / float64(union)
}

func appendUnique(ids []string, id string) []string {
	for _, existing := range ids {
		if existing == id {
			return ids
		}
	}
	return append(ids, id)
}
