package skills

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/mnp/taskmatch/internal/types"
)

// Rule maps a keyword set to a skill type. A rule matches when any of its
// keywords is a substring of the lowered, trimmed skill name.
type Rule struct {
	Type     types.SkillType `json:"type"`
	Keywords []string        `json:"keywords"`
}

// RuleTable is an ordered list of rules. Order is authoritative: the first
// matching rule wins, so more specific categories (testing tools, mobile)
// must come before broader ones (languages, soft skills).
type RuleTable struct {
	Rules   []Rule            `json:"rules"`
	Aliases map[string]string `json:"aliases,omitempty"`
}

// DefaultRuleTable returns the built-in categorization table. The evaluation
// order is: TestingTool, MobileDevelopment, ProgrammingLanguage, Framework,
// Database, CloudPlatform, DevOpsTool, Architecture, Security, APITechnology,
// VersionControl, with SoftSkill as the fallback for anything unmatched.
func DefaultRuleTable() *RuleTable {
	return &RuleTable{
		Rules: []Rule{
			{Type: types.SkillTypeTestingTool, Keywords: []string{
				"junit", "testng", "selenium", "cypress", "jest", "mocha", "postman", "jmeter", "pytest",
			}},
			{Type: types.SkillTypeMobileDevelopment, Keywords: []string{
				"android", "ios", "flutter", "react native", "xamarin", "ionic", "swiftui",
			}},
			{Type: types.SkillTypeProgrammingLanguage, Keywords: []string{
				"java", "python", "javascript", "typescript", "c++", "c#", "php", "ruby", "golang",
				"kotlin", "swift", "scala", "rust",
			}},
			{Type: types.SkillTypeFramework, Keywords: []string{
				"spring", "react", "angular", "vue", "django", "flask", "express", "laravel",
				"rails", "hibernate", "jpa", "fastapi", "gin", "next.js",
			}},
			{Type: types.SkillTypeDatabase, Keywords: []string{
				"mysql", "postgresql", "mongodb", "redis", "elasticsearch", "oracle", "sql server",
				"sqlite", "cassandra", "mariadb", "dynamodb",
			}},
			{Type: types.SkillTypeCloudPlatform, Keywords: []string{
				"aws", "azure", "gcp", "google cloud", "amazon web services", "heroku", "cloudflare",
			}},
			{Type: types.SkillTypeDevOpsTool, Keywords: []string{
				"jenkins", "gitlab", "github actions", "docker", "kubernetes", "terraform",
				"ansible", "chef", "puppet", "ci/cd", "helm",
			}},
			{Type: types.SkillTypeArchitecture, Keywords: []string{
				"architecture", "design pattern", "system design", "uml", "domain-driven",
				"event-driven", "distributed systems",
			}},
			{Type: types.SkillTypeSecurity, Keywords: []string{
				"security", "oauth", "jwt", "encryption", "penetration", "authentication",
				"authorization", "owasp",
			}},
			{Type: types.SkillTypeAPITechnology, Keywords: []string{
				"rest", "graphql", "soap", "grpc", "api", "microservice", "websocket",
			}},
			{Type: types.SkillTypeVersionControl, Keywords: []string{
				"git", "svn", "mercurial", "version control",
			}},
		},
		Aliases: map[string]string{
			// "go" stays out of the keyword list: as a substring it would
			// swallow django, mongodb and friends. The alias carries it.
			"go":             "golang",
			"js":             "javascript",
			"ts":             "typescript",
			"py":             "python",
			"k8s":            "kubernetes",
			"docker compose": "docker",
			"postgres":       "postgresql",
			"mongo":          "mongodb",
			"spring boot":    "spring",
			"react.js":       "react",
			"reactjs":        "react",
			"vue.js":         "vue",
			"angular.js":     "angular",
			"node":           "node.js",
			"nodejs":         "node.js",
			"rest api":       "restful api",
			"restful apis":   "restful api",
			"web api":        "restful api",
			"ml":             "machine learning",
			"deep learning":  "machine learning",
		},
	}
}

// LoadRuleTable reads a rule table from a JSON file so categorization can be
// adjusted without redeploying. The file replaces the default table entirely.
func LoadRuleTable(path string) (*RuleTable, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read rule table %s: %w", path, err)
	}

	var table RuleTable
	if err := json.Unmarshal(data, &table); err != nil {
		return nil, fmt.Errorf("failed to parse rule table %s: %w", path, err)
	}
	if len(table.Rules) == 0 {
		return nil, &types.DataIntegrityError{Entity: path, Message: "rule table has no rules"}
	}
	for i, rule := range table.Rules {
		if rule.Type == "" || len(rule.Keywords) == 0 {
			return nil, &types.DataIntegrityError{
				Entity:  path,
				Message: fmt.Sprintf("rule %d is missing a type or keywords", i),
			}
		}
	}

	return &table, nil
}
