// Package skills canonicalizes free-text skill names into typed skill records.
package skills

import (
	"strings"

	"github.com/mnp/taskmatch/internal/types"
)

// Normalizer folds raw skill names into canonical Skills using an ordered
// keyword rule table. Two raw strings that fold to the same lower-cased
// trimmed name are the same skill regardless of original casing/punctuation.
type Normalizer struct {
	table *RuleTable
}

// NewNormalizer creates a Normalizer. A nil table uses the built-in default.
func NewNormalizer(table *RuleTable) *Normalizer {
	if table == nil {
		table = DefaultRuleTable()
	}
	return &Normalizer{table: table}
}

// Normalize canonicalizes a raw skill name. Unknown or novel strings never
// error; they fall through to the soft-skill category.
func (n *Normalizer) Normalize(rawName string) types.Skill {
	name := strings.ToLower(strings.TrimSpace(rawName))
	if alias, ok := n.table.Aliases[name]; ok {
		name = alias
	}

	return types.Skill{Name: name, Type: n.typeOf(name)}
}

// typeOf evaluates the ordered rule list; first substring match wins.
func (n *Normalizer) typeOf(loweredName string) types.SkillType {
	for _, rule := range n.table.Rules {
		for _, keyword := range rule.Keywords {
			if strings.Contains(loweredName, keyword) {
				return rule.Type
			}
		}
	}
	return types.SkillTypeSoftSkill
}

// NormalizeAll normalizes a batch of raw names, deduplicating on the
// canonical name and preserving first-seen order.
func (n *Normalizer) NormalizeAll(rawNames []string) []types.Skill {
	seen := make(map[string]bool, len(rawNames))
	out := make([]types.Skill, 0, len(rawNames))
	for _, raw := range rawNames {
		skill := n.Normalize(raw)
		if skill.Name == "" || seen[skill.Name] {
			continue
		}
		seen[skill.Name] = true
		out = append(out, skill)
	}
	return out
}
