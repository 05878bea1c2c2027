// Package cursor implements the Cursor to-canonical mapper of spec.md
// §4.2: MDC rule-type derivation, tool-name normalization, and
// prototype-pollution-safe permission keys.
package cursor

import (
	"strings"

	multiagentspec "github.com/agentplexus/multi-agent-spec/sdk/go"

	"github.com/grokify/aiassistbridge/canon"
	"github.com/grokify/aiassistbridge/convert/mcp"
	"github.com/grokify/aiassistbridge/convert/permissions"
	"github.com/grokify/aiassistbridge/scanner/cursor"
)

// dangerousKeys are prototype-pollution vectors a JS host would reject;
// Go maps can't be polluted this way, but the scanner's source data may
// still carry them from a Cursor permission export, so they are
// rejected explicitly per spec.md §4.2's ported invariant.
var dangerousKeys = map[string]bool{
	"__proto__":   true,
	"constructor": true,
	"prototype":   true,
}

// ToCanonical projects a Cursor scan onto the canonical IR.
func ToCanonical(scan *cursor.ScanResult, report *canon.ConversionReport) *canon.ScanResult {
	result := canon.NewScanResult(canon.Cursor)

	if scan.Mcp != nil {
		result.Global.McpServers = mapMcpFile(scan.Mcp.MCPServers, report)
	}
	for _, s := range scan.Skills {
		result.Global.Skills = append(result.Global.Skills, mapSkill(s))
	}
	for _, c := range scan.Commands {
		result.Global.Commands = append(result.Global.Commands, mapCommand(c))
	}
	for _, a := range scan.Agents {
		result.Global.Agents = append(result.Global.Agents, mapAgent(a))
	}
	if cliPerms, ok := extractCLIPermissions(scan.CLIConfig); ok {
		result.Global.Permissions = cliPerms
	}

	for _, p := range scan.Projects {
		result.Projects = append(result.Projects, mapProject(p, report))
	}

	return result
}

func mapProject(p cursor.Project, report *canon.ConversionReport) *canon.ProjectConfig {
	pc := canon.NewProjectConfig(p.Path)

	if p.Mcp != nil {
		pc.McpServers = mapMcpFile(p.Mcp.MCPServers, report)
	}
	for _, r := range p.Rules {
		pc.Rules = append(pc.Rules, mapRule(r))
	}
	for _, a := range p.Agents {
		pc.Agents = append(pc.Agents, mapAgent(a))
	}
	for _, c := range p.Commands {
		pc.Commands = append(pc.Commands, mapCommand(c))
	}
	for _, s := range p.Skills {
		pc.Skills = append(pc.Skills, mapSkill(s))
	}

	// Project-root AGENTS.md and .cursorrules both become alwaysApply
	// rules, per spec.md §4.2.
	if p.AgentsMD != "" {
		pc.Rules = append(pc.Rules, alwaysApplyRule("AGENTS.md", "AGENTS", p.AgentsMD))
	}
	if p.LegacyRules != "" {
		pc.Rules = append(pc.Rules, alwaysApplyRule(".cursorrules", "cursorrules", p.LegacyRules))
	}

	return pc
}

func alwaysApplyRule(path, name, content string) canon.RulesFile {
	t := true
	return canon.RulesFile{
		Path:        path,
		Name:        name,
		Content:     content,
		AlwaysApply: &t,
		Type:        canon.RuleAlways,
	}
}

func mapMcpFile(servers map[string]cursor.McpServerFile, report *canon.ConversionReport) map[string]canon.McpServer {
	if len(servers) == 0 {
		return nil
	}
	out := make(map[string]canon.McpServer, len(servers))
	for name, raw := range servers {
		srv, ok := mcp.FromDuckTyped(name, raw.Command, raw.Args, raw.Env, raw.URL, raw.Headers, report)
		if !ok {
			continue
		}
		out[name] = srv
	}
	return out
}

func mapRule(doc cursor.RuleDoc) canon.RulesFile {
	rf := canon.RulesFile{
		Path:    doc.Path,
		Name:    doc.Name,
		Content: doc.Body,
	}
	if desc, ok := doc.Frontmatter["description"].(string); ok {
		rf.Description = desc
	}
	if alwaysApply, ok := doc.Frontmatter["alwaysApply"].(bool); ok {
		rf.AlwaysApply = &alwaysApply
	}
	rf.Globs = extractGlobs(doc.Frontmatter["globs"])
	rf.Type = canon.DeriveRuleType(rf.AlwaysApply, rf.Globs, rf.Description)
	return rf
}

// extractGlobs joins array-shaped globs with "," per spec.md §4.2;
// a plain string value passes through unchanged.
func extractGlobs(v any) []string {
	switch t := v.(type) {
	case string:
		if t == "" {
			return nil
		}
		return []string{t}
	case []any:
		var parts []string
		for _, item := range t {
			if s, ok := item.(string); ok {
				parts = append(parts, s)
			}
		}
		if len(parts) == 0 {
			return nil
		}
		return []string{strings.Join(parts, ",")}
	case []string:
		if len(t) == 0 {
			return nil
		}
		return []string{strings.Join(t, ",")}
	default:
		return nil
	}
}

func mapAgent(doc cursor.MarkdownDoc) canon.Agent {
	spec := multiagentspec.NewAgent(doc.Name, "")
	if desc, ok := doc.Frontmatter["description"].(string); ok {
		spec.Description = desc
	}
	spec.Instructions = doc.Body

	a := canon.NewAgentFromSpec(spec)
	a.Path = doc.Path
	a.Name = doc.Name
	a.Content = doc.Content
	a.Frontmatter = doc.Frontmatter
	return a
}

func mapCommand(doc cursor.MarkdownDoc) canon.Command {
	c := canon.Command{
		Path:        doc.Path,
		Name:        doc.Name,
		Content:     doc.Content,
		Frontmatter: doc.Frontmatter,
		Body:        doc.Body,
	}
	if desc, ok := doc.Frontmatter["description"].(string); ok {
		c.Description = desc
	}
	return c
}

func mapSkill(doc cursor.MarkdownDoc) canon.Skill {
	s := canon.Skill{Path: doc.Path, Name: doc.Name}
	if desc, ok := doc.Frontmatter["description"].(string); ok {
		s.Description = desc
	}
	return s
}

// extractCLIPermissions reads cli-config.json's permission map, if any,
// using the Cursor tool-name table and rejecting prototype-pollution
// keys.
func extractCLIPermissions(cliConfig map[string]any) (canon.Permissions, bool) {
	raw, ok := cliConfig["permissions"].(map[string]any)
	if !ok || len(raw) == 0 {
		return nil, false
	}
	perms := make(canon.Permissions, len(raw))
	for tool, v := range raw {
		if dangerousKeys[tool] {
			continue
		}
		action, ok := v.(string)
		if !ok {
			continue
		}
		perms[permissions.MapCursorToolName(tool)] = canon.PermissionRule{Action: canon.Action(action)}
	}
	if len(perms) == 0 {
		return nil, false
	}
	return perms, true
}
