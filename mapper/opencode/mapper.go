// Package opencode implements the OpenCode to-canonical mapper of
// spec.md §4.2. OpenCode's permission structure already matches the
// canonical shape, so it skips the build algorithm and only goes through
// the simplify pass; only MCP's command[] splitting needs real translation.
package opencode

import (
	multiagentspec "github.com/agentplexus/multi-agent-spec/sdk/go"

	"github.com/grokify/aiassistbridge/canon"
	"github.com/grokify/aiassistbridge/convert/mcp"
	"github.com/grokify/aiassistbridge/scanner/opencode"
)

// ToCanonical projects an OpenCode scan onto the canonical IR.
func ToCanonical(scan *opencode.ScanResult, report *canon.ConversionReport) *canon.ScanResult {
	result := canon.NewScanResult(canon.OpenCode)

	if scan.Config != nil {
		mapConfig(scan.Config, &result.Global, report)
	}
	if scan.AgentsMD != "" {
		alwaysApply := true
		result.Global.Rules = append(result.Global.Rules, canon.RulesFile{
			Path:        "AGENTS.md",
			Name:        "AGENTS",
			Content:     scan.AgentsMD,
			AlwaysApply: &alwaysApply,
			Type:        canon.RuleAlways,
		})
	}
	for _, a := range scan.Agents {
		result.Global.Agents = append(result.Global.Agents, mapAgent(a))
	}
	for _, c := range scan.Commands {
		result.Global.Commands = append(result.Global.Commands, mapCommand(c))
	}
	for _, s := range scan.Skills {
		result.Global.Skills = append(result.Global.Skills, mapSkill(s))
	}

	for _, p := range scan.Projects {
		result.Projects = append(result.Projects, mapProject(p, report))
	}

	return result
}

func mapProject(p opencode.Project, report *canon.ConversionReport) *canon.ProjectConfig {
	pc := canon.NewProjectConfig(p.Path)

	if p.Config != nil {
		mapConfig(p.Config, &pc.GlobalConfig, report)
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
	for _, a := range p.Agents {
		pc.Agents = append(pc.Agents, mapAgent(a))
	}
	for _, c := range p.Commands {
		pc.Commands = append(pc.Commands, mapCommand(c))
	}
	for _, s := range p.Skills {
		pc.Skills = append(pc.Skills, mapSkill(s))
	}

	return pc
}

func mapConfig(c *opencode.Config, g *canon.GlobalConfig, report *canon.ConversionReport) {
	g.Model = c.Model
	g.SmallModel = c.SmallModel
	g.Env = c.Env
	if c.Autoupdate != nil {
		g.AutoUpdate = *c.Autoupdate
	}
	if provider, ok := firstProviderKey(c.Provider); ok {
		g.Provider = provider
	}

	// OpenCode's permission format *is* the canonical form (spec.md
	// §4.2), so it passes through as per-tool rules rather than being
	// re-derived through the build algorithm; only Simplify runs on it.
	if len(c.Permission) > 0 {
		g.Permissions = passthroughPermissions(c.Permission)
	}

	if len(c.MCP) > 0 {
		g.McpServers = make(map[string]canon.McpServer, len(c.MCP))
		for name, entry := range c.MCP {
			srv := mapMcpEntry(entry, report)
			g.McpServers[name] = srv
		}
	}

	if len(c.Extra) > 0 {
		g.ExtraSettings = c.Extra
	}
}

func firstProviderKey(provider map[string]any) (string, bool) {
	for k := range provider {
		return k, true
	}
	return "", false
}

func mapMcpEntry(entry opencode.McpEntry, report *canon.ConversionReport) canon.McpServer {
	var srv canon.McpServer
	if entry.Type == "remote" || entry.URL != "" {
		srv = canon.NewRemoteMcpServer(entry.URL, entry.Headers)
	} else {
		head, tail := mcp.SplitCommandArgs(entry.Command)
		srv = canon.NewLocalMcpServer(head, tail, entry.Environment)
	}
	if entry.Enabled != nil {
		enabled := *entry.Enabled
		srv.Enabled = &enabled
	}
	if err := srv.Validate(); err != nil && report != nil {
		report.Errorf("mcp entry: %v", err)
	}
	return srv
}

// passthroughPermissions converts OpenCode's permission map (string
// action or nested glob map, matching canon.PermissionRule's own shape)
// into canon.Permissions without re-deriving it, then applies Simplify,
// so a nested map whose only key is "*" collapses to its action.
func passthroughPermissions(raw map[string]any) canon.Permissions {
	perms := make(canon.Permissions, len(raw))
	for tool, v := range raw {
		switch t := v.(type) {
		case string:
			perms[tool] = canon.PermissionRule{Action: canon.Action(t)}
		case map[string]any:
			patterns := make(map[string]canon.Action, len(t))
			for pattern, action := range t {
				if s, ok := action.(string); ok {
					patterns[pattern] = canon.Action(s)
				}
			}
			perms[tool] = canon.PermissionRule{Patterns: patterns}
		}
	}
	return perms.Simplify()
}

// mapAgent routes OpenCode agent frontmatter through the same
// multi-agent-spec canonical shape mapper/claudecode uses, then layers
// OpenCode's own mode/temperature fields on top (multiagentspec.Agent has
// no equivalent for either).
func mapAgent(doc opencode.MarkdownDoc) canon.Agent {
	spec := multiagentspec.NewAgent(doc.Name, "")
	if desc, ok := doc.Frontmatter["description"].(string); ok {
		spec.Description = desc
	}
	if model, ok := doc.Frontmatter["model"].(string); ok {
		spec.Model = multiagentspec.Model(model)
	}
	spec.Instructions = doc.Body

	a := canon.NewAgentFromSpec(spec)
	a.Path = doc.Path
	a.Name = doc.Name
	a.Content = doc.Content
	a.Frontmatter = doc.Frontmatter
	if mode, ok := doc.Frontmatter["mode"].(string); ok {
		a.Mode = canon.AgentMode(mode)
	}
	if temp, ok := doc.Frontmatter["temperature"].(float64); ok {
		a.Temperature = &temp
	}
	return a
}

func mapCommand(doc opencode.MarkdownDoc) canon.Command {
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

func mapSkill(doc opencode.MarkdownDoc) canon.Skill {
	s := canon.Skill{Path: doc.Path, Name: doc.Name}
	if desc, ok := doc.Frontmatter["description"].(string); ok {
		s.Description = desc
	}
	return s
}
