// Package claudecode implements the Claude Code to-canonical mapper of
// spec.md §4.2: it walks a claudecode.ScanResult and emits a
// canon.ScanResult, normalizing permissions, MCP servers, and agent
// frontmatter along the way.
package claudecode

import (
	"strings"

	multiagentspec "github.com/agentplexus/multi-agent-spec/sdk/go"

	"github.com/grokify/aiassistbridge/canon"
	"github.com/grokify/aiassistbridge/convert/history"
	"github.com/grokify/aiassistbridge/convert/mcp"
	"github.com/grokify/aiassistbridge/convert/permissions"
	"github.com/grokify/aiassistbridge/scanner/claudecode"
)

// ToCanonical projects a Claude Code scan onto the canonical IR.
func ToCanonical(scan *claudecode.ScanResult, report *canon.ConversionReport) *canon.ScanResult {
	result := canon.NewScanResult(canon.ClaudeCode)

	if scan.Settings != nil {
		mapSettings(scan.Settings, &result.Global, report)
	}
	for _, s := range scan.GlobalSkills {
		result.Global.Skills = append(result.Global.Skills, mapSkill(s))
	}
	if scan.GlobalRulesMD != "" {
		alwaysApply := true
		result.Global.Rules = append(result.Global.Rules, canon.RulesFile{
			Path:        "CLAUDE.md",
			Name:        "CLAUDE",
			Content:     scan.GlobalRulesMD,
			AlwaysApply: &alwaysApply,
			Type:        canon.RuleAlways,
		})
	}

	for _, p := range scan.Projects {
		result.Projects = append(result.Projects, mapProject(p, report))
	}

	return result
}

func mapSettings(s *claudecode.Settings, g *canon.GlobalConfig, report *canon.ConversionReport) {
	g.Model = s.Model
	g.Env = s.Env
	if s.AutoUpdatesChannel != "" {
		g.AutoUpdate = true
	}

	if s.Permissions != nil {
		g.Permissions = buildPermissions(s.Permissions, report)
	}

	extra := make(map[string]any)
	putRaw(extra, "teammateMode", s.TeammateMode)
	putRaw(extra, "hooks", s.Hooks)
	putRaw(extra, "sandbox", s.Sandbox)
	putRaw(extra, "apiKeyHelper", s.APIKeyHelper)
	putRaw(extra, "outputStyle", s.OutputStyle)
	if len(extra) > 0 {
		g.ExtraSettings = extra
	}
}

func buildPermissions(p *claudecode.PermissionsBlock, report *canon.ConversionReport) canon.Permissions {
	bypass := p.DefaultMode == "bypassPermissions"
	lists := []permissions.SourceList{
		{Patterns: p.Allow, Action: canon.ActionAllow},
		{Patterns: p.Deny, Action: canon.ActionDeny},
		{Patterns: p.Ask, Action: canon.ActionAsk},
		{Patterns: p.AllowedTools, Action: canon.ActionAllow},
	}
	return permissions.Build(lists, permissions.BuildOptions{
		BypassPermissions: bypass,
		MapToolName:       permissions.MapClaudeToolName,
	}, report)
}

func putRaw(m map[string]any, key string, raw []byte) {
	if len(raw) == 0 {
		return
	}
	m[key] = string(raw)
}

func mapProject(p claudecode.Project, report *canon.ConversionReport) *canon.ProjectConfig {
	pc := canon.NewProjectConfig(p.Path)

	servers := make(map[string]canon.McpServer)
	if p.Mcp != nil {
		mergeMcpFile(servers, p.Mcp.MCPServers, report)
	}
	if p.UserStateProject != nil {
		mergeMcpFile(servers, p.UserStateProject.MCPServers, report)
		pc.DisabledServers = p.UserStateProject.DisabledServers
		pc.EnabledServers = p.UserStateProject.EnabledServers
		pc.IgnorePatterns = p.UserStateProject.IgnorePatterns
	}
	if p.SettingsLocal != nil {
		if p.SettingsLocal.Permissions != nil {
			pc.Permissions = buildPermissions(p.SettingsLocal.Permissions, report)
		}
		// settings.local.json is the third mcpServers merge source of
		// spec.md §4.2 step 2, applied last so it overrides .mcp.json
		// and the ~/.claude.json per-project entry.
		if len(p.SettingsLocal.MCPServers) > 0 {
			mergeMcpFile(servers, p.SettingsLocal.MCPServers, report)
		}
	}
	pc.McpServers = servers

	for _, a := range p.Agents {
		pc.Agents = append(pc.Agents, mapAgent(a))
	}
	for _, c := range p.Commands {
		pc.Commands = append(pc.Commands, mapCommand(c))
	}
	for _, s := range p.Skills {
		pc.Skills = append(pc.Skills, mapSkill(s))
	}
	if p.ClaudeMD != "" {
		alwaysApply := true
		pc.Rules = append(pc.Rules, canon.RulesFile{
			Path:        "CLAUDE.md",
			Name:        "CLAUDE",
			Content:     p.ClaudeMD,
			AlwaysApply: &alwaysApply,
			Type:        canon.RuleAlways,
		})
	}
	if p.AgentsMD != "" {
		alwaysApply := true
		pc.Rules = append(pc.Rules, canon.RulesFile{
			Path:        "AGENTS.md",
			Name:        "AGENTS",
			Content:     p.AgentsMD,
			AlwaysApply: &alwaysApply,
			Type:        canon.RuleAlways,
		})
	}

	return pc
}

// mergeMcpFile applies spec.md §4.2's three-source gather rule at the
// granularity of a single source: later calls with the same server name
// override earlier ones.
func mergeMcpFile(into map[string]canon.McpServer, servers map[string]claudecode.McpServerFile, report *canon.ConversionReport) {
	for name, raw := range servers {
		srv, ok := mcp.FromDuckTyped(name, raw.Command, raw.Args, raw.Env, raw.URL, raw.Headers, report)
		if !ok {
			continue
		}
		into[name] = srv
	}
}

// mapAgent parses a Claude Code agent Markdown file's frontmatter into the
// multi-agent-spec canonical agent shape, the same projection
// agents/claude's Adapter.Parse performs, then layers the Claude-specific
// fields (path, raw frontmatter/content, color) on top.
func mapAgent(doc claudecode.MarkdownDoc) canon.Agent {
	spec := multiagentspec.NewAgent(doc.Name, "")
	if desc, ok := doc.Frontmatter["description"].(string); ok {
		spec.Description = desc
	}
	if model, ok := doc.Frontmatter["model"].(string); ok {
		spec.Model = multiagentspec.Model(model)
	}
	spec.Instructions = doc.Body
	spec.Tools = parseToolsField(doc.Frontmatter["tools"])

	a := canon.NewAgentFromSpec(spec)
	a.Path = doc.Path
	a.Name = doc.Name
	a.Content = doc.Content
	a.Frontmatter = doc.Frontmatter
	if color, ok := doc.Frontmatter["color"].(string); ok {
		a.Color = color
	}
	return a
}

// parseToolsField implements spec.md §4.2: "tools may be a
// comma-separated string or a list; split and trim."
func parseToolsField(v any) []string {
	switch t := v.(type) {
	case string:
		var out []string
		for _, part := range strings.Split(t, ",") {
			part = strings.TrimSpace(part)
			if part != "" {
				out = append(out, part)
			}
		}
		return out
	case []string:
		return t
	case []any:
		var out []string
		for _, item := range t {
			if s, ok := item.(string); ok {
				out = append(out, strings.TrimSpace(s))
			}
		}
		return out
	default:
		return nil
	}
}

func mapCommand(doc claudecode.MarkdownDoc) canon.Command {
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

func mapSkill(doc claudecode.SkillDoc) canon.Skill {
	s := canon.Skill{
		Path:          doc.Path,
		Name:          doc.Name,
		IsSymlink:     doc.IsSymlink,
		SymlinkTarget: doc.SymlinkTarget,
		RealPath:      doc.RealPath,
	}
	if desc, ok := doc.Frontmatter["description"].(string); ok {
		s.Description = desc
	}
	return s
}

// ToCanonicalHistory projects raw Claude Code session transcripts
// through the format-agnostic history converter, per spec.md §4.4's
// "analogous" JSONL converter.
func ToCanonicalHistory(raw *claudecode.HistoryResult) []canon.ConvertedSession {
	if raw == nil {
		return nil
	}
	var sessions []canon.ConvertedSession
	for _, rs := range raw.Sessions {
		messages := decodeSessionLines(rs.Lines)
		if sess, ok := history.ConvertSession(rs.ProjectPath, "imported", rs.SessionID, rs.ProjectPath, messages, 0, 0, ""); ok {
			sessions = append(sessions, sess)
		}
	}
	return sessions
}
