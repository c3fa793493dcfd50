package conflicts

import (
	"fmt"
	"strings"

	"github.com/google/uuid"

	"github.com/mnp/taskmatch/internal/types"
)

// DefaultWindowHours is the serialization window for contention detection:
// a dependency chain longer than this forces work past one planning window.
const DefaultWindowHours = 40.0

var conflictNamespace = uuid.NewSHA1(uuid.NameSpaceURL, []byte("taskmatch://conflict"))

// Detector runs the contradiction rule table and contention analysis over a
// requirement set.
type Detector struct {
	rules       []Rule
	windowHours float64
}

// NewDetector creates a Detector. Nil rules use the built-in table; a
// non-positive window uses DefaultWindowHours.
func NewDetector(rules []Rule, windowHours float64) *Detector {
	if rules == nil {
		rules = DefaultRules()
	}
	if windowHours <= 0 {
		windowHours = DefaultWindowHours
	}
	return &Detector{rules: rules, windowHours: windowHours}
}

// Detect returns every conflict in the requirement set. At most one
// requirement conflict is reported per requirement pair, even when several
// rules match it. Conflict IDs are stable digests of the participants, so
// re-running detection never invents new identities.
func (d *Detector) Detect(requirements []types.Requirement) []types.Conflict {
	conflicts := d.detectContradictions(requirements)
	conflicts = append(conflicts, d.detectContention(requirements)...)
	return conflicts
}

func (d *Detector) detectContradictions(requirements []types.Requirement) []types.Conflict {
	conflicts := make([]types.Conflict, 0)
	seenPairs := make(map[string]struct{})

	for i := 0; i < len(requirements); i++ {
		for j := i + 1; j < len(requirements); j++ {
			a, b := requirements[i], requirements[j]
			pairKey := a.ID + "|" + b.ID
			if _, seen := seenPairs[pairKey]; seen {
				continue
			}
			rule, matched := d.matchPair(a.Text, b.Text)
			if !matched {
				continue
			}
			seenPairs[pairKey] = struct{}{}
			conflicts = append(conflicts, types.Conflict{
				ID:                     conflictID("requirement", a.ID, b.ID),
				Type:                   types.ConflictRequirement,
				Severity:               rule.Severity,
				InvolvedRequirementIDs: []string{a.ID, b.ID},
				Description:            fmt.Sprintf("%s: %q vs %q", rule.Description, a.Text, b.Text),
				Suggestion:             rule.Suggestion,
			})
		}
	}
	return conflicts
}

// matchPair checks every rule against the pair in both orientations and
// returns the first that fires.
func (d *Detector) matchPair(textA, textB string) (Rule, bool) {
	la, lb := strings.ToLower(textA), strings.ToLower(textB)
	for _, rule := range d.rules {
		if (containsAny(la, rule.SideA) && containsAny(lb, rule.SideB)) ||
			(containsAny(lb, rule.SideA) && containsAny(la, rule.SideB)) {
			return rule, true
		}
	}
	return Rule{}, false
}

// detectContention flags dependency chains whose serialized effort exceeds
// the window. One conflict per offending chain, rooted at its deepest
// requirement.
func (d *Detector) detectContention(requirements []types.Requirement) []types.Conflict {
	byID := make(map[string]types.Requirement, len(requirements))
	for _, r := range requirements {
		byID[r.ID] = r
	}

	type offender struct {
		chain []string
		hours float64
	}
	offenders := make([]offender, 0)
	seen := make(map[string]struct{})

	for _, r := range requirements {
		chain, hours := d.longestChain(r, byID, make(map[string]bool))
		if hours <= d.windowHours || len(chain) < 2 {
			continue
		}
		key := strings.Join(chain, "|")
		if _, dup := seen[key]; dup {
			continue
		}
		seen[key] = struct{}{}
		offenders = append(offenders, offender{chain: chain, hours: hours})
	}

	conflicts := make([]types.Conflict, 0, len(offenders))
	for i, o := range offenders {
		// A chain contained in a longer one is the same problem,
		// regardless of which was found first.
		maximal := true
		for j, other := range offenders {
			if i != j && len(other.chain) > len(o.chain) && subChain(o.chain, other.chain) {
				maximal = false
				break
			}
		}
		if !maximal {
			continue
		}
		conflicts = append(conflicts, types.Conflict{
			ID:                     conflictID("contention", o.chain...),
			Type:                   types.ConflictContention,
			Severity:               types.SeverityMedium,
			InvolvedRequirementIDs: o.chain,
			Description: fmt.Sprintf("dependency chain of %d requirements serializes %.0f hours of work, beyond the %.0f hour window",
				len(o.chain), o.hours, d.windowHours),
			Suggestion: "Break the dependency chain or split requirements so independent parts can run in parallel.",
		})
	}
	return conflicts
}

// longestChain walks dependencies depth-first and returns the heaviest path
// ending at r, in execution order, with its total hours. Cycles are cut.
func (d *Detector) longestChain(r types.Requirement, byID map[string]types.Requirement, visiting map[string]bool) ([]string, float64) {
	if visiting[r.ID] {
		return nil, 0
	}
	visiting[r.ID] = true
	defer delete(visiting, r.ID)

	var bestChain []string
	var bestHours float64
	for _, depID := range r.Dependencies {
		dep, ok := byID[depID]
		if !ok {
			continue
		}
		chain, hours := d.longestChain(dep, byID, visiting)
		if hours > bestHours || bestChain == nil {
			bestChain, bestHours = chain, hours
		}
	}
	return append(bestChain, r.ID), bestHours + r.EstimatedHours
}

// subChain reports whether inner appears as a contiguous run inside outer.
func subChain(inner, outer []string) bool {
	for start := 0; start+len(inner) <= len(outer); start++ {
		match := true
		for k, id := range inner {
			if outer[start+k] != id {
				match = false
				break
			}
		}
		if match {
			return true
		}
	}
	return false
}

func containsAny(text string, keywords []string) bool {
	for _, kw := range keywords {
		if strings.Contains(text, kw) {
			return true
		}
	}
	return false
}

func conflictID(kind string, requirementIDs ...string) string {
	return uuid.NewSHA1(conflictNamespace, []byte(kind+":"+strings.Join(requirementIDs, ","))).String()
}
