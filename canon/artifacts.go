package canon

import (
	multiagentspec "github.com/agentplexus/multi-agent-spec/sdk/go"
)

// RuleType classifies how a rules file is applied (spec.md §3.5).
type RuleType string

const (
	RuleAlways      RuleType = "always"
	RuleFileScoped  RuleType = "file-scoped"
	RuleIntelligent RuleType = "intelligent"
	RuleManual      RuleType = "manual"
	RuleGeneral     RuleType = "general"
)

// RulesFile is a canonical rules/instructions document.
type RulesFile struct {
	Path         string   `json:"path"`
	Name         string   `json:"name"`
	Content      string   `json:"content"`
	AlwaysApply  *bool    `json:"alwaysApply,omitempty"`
	Globs        []string `json:"globs,omitempty"`
	Description  string   `json:"description,omitempty"`
	Type         RuleType `json:"ruleType,omitempty"`
}

// DeriveRuleType applies the Cursor MDC derivation rule from spec.md §3.5:
// alwaysApply=true => always; else globs present => file-scoped; else
// description present => intelligent; else manual.
func DeriveRuleType(alwaysApply *bool, globs []string, description string) RuleType {
	if alwaysApply != nil && *alwaysApply {
		return RuleAlways
	}
	if len(globs) > 0 {
		return RuleFileScoped
	}
	if description != "" {
		return RuleIntelligent
	}
	return RuleManual
}

// AgentMode is whether an agent is invoked directly or delegated to.
type AgentMode string

const (
	AgentPrimary  AgentMode = "primary"
	AgentSubagent AgentMode = "subagent"
)

// Agent is a canonical agent definition (spec.md §3.6).
type Agent struct {
	Path        string         `json:"path"`
	Name        string         `json:"name"`
	Content     string         `json:"content"`
	Frontmatter map[string]any `json:"frontmatter,omitempty"`
	Body        string         `json:"body"`
	Description string         `json:"description,omitempty"`

	Mode        AgentMode `json:"mode,omitempty"`
	Model       string    `json:"model,omitempty"`
	Tools       []string  `json:"tools,omitempty"`
	Temperature *float64  `json:"temperature,omitempty"`
	MaxSteps    *int      `json:"maxSteps,omitempty"`
	Color       string    `json:"color,omitempty"`
}

// NewAgentFromSpec builds the portable half of a canonical Agent (name,
// description, model, tool list, body) from a multi-agent-spec
// definition, the same canonical agent shape the teacher's
// agents/claude adapter parses Claude Code frontmatter into. Callers
// set the remaining format-specific fields (Path, Content, Frontmatter,
// Mode, Temperature, MaxSteps, Color) themselves.
func NewAgentFromSpec(spec *multiagentspec.Agent) Agent {
	return Agent{
		Name:        spec.Name,
		Description: spec.Description,
		Model:       string(spec.Model),
		Tools:       spec.Tools,
		Body:        spec.Instructions,
	}
}

// ToSpec projects a canonical Agent back onto a multi-agent-spec
// Agent, carrying only the fields that type understands.
func (a Agent) ToSpec() *multiagentspec.Agent {
	spec := multiagentspec.NewAgent(a.Name, a.Description)
	spec.Model = multiagentspec.Model(a.Model)
	spec.Tools = a.Tools
	spec.Instructions = a.Body
	return spec
}

// Command is a canonical command/prompt definition (spec.md §3.6).
type Command struct {
	Path        string         `json:"path"`
	Name        string         `json:"name"`
	Content     string         `json:"content"`
	Frontmatter map[string]any `json:"frontmatter,omitempty"`
	Body        string         `json:"body"`
	Description string         `json:"description,omitempty"`
}

// Skill is a canonical skill definition (spec.md §3.7).
type Skill struct {
	Path          string `json:"path"`
	Name          string `json:"name"`
	Description   string `json:"description,omitempty"`
	IsSymlink     bool   `json:"isSymlink,omitempty"`
	SymlinkTarget string `json:"symlinkTarget,omitempty"`

	// RealPath is the fully resolved path (after following symlinks),
	// the identity used for deduplication across global/project scans
	// (spec.md §3.7, §9).
	RealPath string `json:"-"`
}

// DedupeSkills removes skills that share the same resolved RealPath,
// keeping the first occurrence. Supplemented helper (SPEC_FULL.md §4):
// both the Claude Code scanner (~/.Claude/skills vs ~/.agents/skills)
// and the Cursor scanner need this, so it is factored out once instead
// of being re-implemented per scanner.
func DedupeSkills(skills []Skill) []Skill {
	seen := make(map[string]bool, len(skills))
	out := make([]Skill, 0, len(skills))
	for _, s := range skills {
		key := s.RealPath
		if key == "" {
			key = s.Path
		}
		if seen[key] {
			continue
		}
		seen[key] = true
		out = append(out, s)
	}
	return out
}
