// Package engine orchestrates one analysis run: extraction, then task
// synthesis, conflict detection, and skill tallying over the extracted set.
package engine

import (
	"context"
	"sort"

	"golang.org/x/sync/errgroup"

	"github.com/mnp/taskmatch/internal/conflicts"
	"github.com/mnp/taskmatch/internal/extraction"
	"github.com/mnp/taskmatch/internal/synthesis"
	"github.com/mnp/taskmatch/internal/types"
)

// Engine wires the analysis stages together.
type Engine struct {
	extractor   *extraction.Extractor
	detector    *conflicts.Detector
	synthesizer *synthesis.Synthesizer
}

// New creates an Engine from its stages.
func New(extractor *extraction.Extractor, detector *conflicts.Detector, synthesizer *synthesis.Synthesizer) *Engine {
	return &Engine{extractor: extractor, detector: detector, synthesizer: synthesizer}
}

// Analyze extracts requirements from the input and computes whichever
// downstream outputs the toggles select. Synthesis and conflict detection
// are independent of each other and run concurrently. A degraded extraction
// still flows through the rest of the pipeline so the caller sees the
// labeled placeholder set alongside the degraded flag.
func (e *Engine) Analyze(ctx context.Context, input extraction.Input, toggles types.AnalysisToggles) (types.AnalysisReport, error) {
	extracted, err := e.extractor.Extract(ctx, input)
	if err != nil {
		return types.AnalysisReport{}, err
	}

	report := types.AnalysisReport{
		ExtractionDegraded: extracted.Degraded,
		DegradedReason:     extracted.Reason,
	}
	if toggles.AnalyzeRequirements {
		report.Requirements = extracted.Requirements
	}

	g, _ := errgroup.WithContext(ctx)
	if toggles.GenerateTasks {
		g.Go(func() error {
			report.GeneratedTasks = e.synthesizer.Synthesize(extracted.Requirements)
			return nil
		})
	}
	if toggles.DetectConflicts {
		g.Go(func() error {
			report.Conflicts = e.detector.Detect(extracted.Requirements)
			return nil
		})
	}
	if toggles.IdentifySkills {
		g.Go(func() error {
			report.SkillFrequency = tallySkills(extracted.Requirements)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return types.AnalysisReport{}, err
	}

	return report, nil
}

// tallySkills counts derived-skill occurrences across the requirement set,
// keeping the highest priority each skill appeared with. Output is ordered
// by count, then name, so runs over the same set compare equal.
func tallySkills(requirements []types.Requirement) []types.SkillFrequency {
	byName := make(map[string]*types.SkillFrequency)
	for _, r := range requirements {
		for _, sr := range r.DerivedSkills {
			freq, ok := byName[sr.Skill.Name]
			if !ok {
				byName[sr.Skill.Name] = &types.SkillFrequency{Skill: sr.Skill, Count: 1, Priority: r.Priority}
				continue
			}
			freq.Count++
			if r.Priority.Rank() > freq.Priority.Rank() {
				freq.Priority = r.Priority
			}
		}
	}

	out := make([]types.SkillFrequency, 0, len(byName))
	for _, freq := range byName {
		out = append(out, *freq)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Count != out[j].Count {
			return out[i].Count > out[j].Count
		}
		return out[i].Skill.Name < out[j].Skill.Name
	})
	return out
}
