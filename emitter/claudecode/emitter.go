// Package claudecode implements the canonical-to-Claude-Code emitter of
// spec.md §4.3.
package claudecode

import (
	"fmt"
	"path/filepath"
	"regexp"
	"strings"

	"github.com/grokify/aiassistbridge/canon"
	"github.com/grokify/aiassistbridge/codec"
	"github.com/grokify/aiassistbridge/convert/mcp"
	"github.com/grokify/aiassistbridge/convert/modelid"
	"github.com/grokify/aiassistbridge/pathresolver"
)

// Options configures the emitter.
type Options struct {
	Env               pathresolver.Env
	ModelOverrides    map[string]string
	DefaultModel      string
	DefaultSmallModel string
}

var sanitizeRe = regexp.MustCompile(`[^a-zA-Z0-9_-]+`)

func sanitize(name string) string {
	s := sanitizeRe.ReplaceAllString(name, "-")
	return strings.Trim(s, "-")
}

// Emit walks a canon.ScanResult and produces the Claude Code
// CanonicalConversionResult.
func Emit(scan *canon.ScanResult, opts Options) *canon.ConversionResult {
	result := canon.NewConversionResult(scan.SourceFormat, canon.ClaudeCode)

	result.GlobalConfigPath = pathresolver.ClaudeGlobalSettingsJSON(opts.Env)
	result.GlobalConfig = emitSettings(&scan.Global, opts)
	emitRules(scan.Global.Rules, pathresolver.ClaudeGlobalRulesFile(opts.Env), "", result)
	for _, a := range scan.Global.Agents {
		result.Report.ManualActionf("agent %q has no global Claude Code equivalent; move it into a project's .claude/agents", a.Name)
	}
	for _, c := range scan.Global.Commands {
		result.Report.ManualActionf("command %q has no global Claude Code equivalent; move it into a project's .claude/commands", c.Name)
	}

	for _, p := range scan.Projects {
		emitProject(p, opts, result)
	}

	return result
}

func emitSettings(g *canon.GlobalConfig, opts Options) map[string]any {
	settings := make(map[string]any)
	if g.Model != "" {
		settings["model"] = stripAnthropicPrefix(translateModel(g.Model, opts))
	}
	if len(g.Permissions) > 0 {
		settings["permissions"] = emitPermissions(g.Permissions)
	}
	if len(g.Env) > 0 {
		settings["env"] = g.Env
	}
	if g.AutoUpdate {
		settings["autoUpdatesChannel"] = "latest"
	}
	for k, v := range g.ExtraSettings {
		settings[k] = v
	}
	return settings
}

// stripAnthropicPrefix implements "provider prefix stripped for direct
// Anthropic" from spec.md §4.3.
func stripAnthropicPrefix(qualified string) string {
	if rest, ok := strings.CutPrefix(qualified, "anthropic/"); ok {
		return rest
	}
	return qualified
}

func translateModel(id string, opts Options) string {
	provider := modelid.DetectProvider(modelid.Env{}, id)
	return modelid.Translate(id, provider, opts.ModelOverrides)
}

func emitPermissions(perms canon.Permissions) map[string]any {
	out := map[string]any{}
	var allow, deny, ask []string
	for tool, rule := range perms {
		if tool == "*" {
			continue
		}
		if rule.IsPatterned() {
			for pattern, action := range rule.Patterns {
				entry := fmt.Sprintf("%s(%s)", tool, pattern)
				if pattern == "*" {
					entry = tool
				}
				appendByAction(&allow, &deny, &ask, action, entry)
			}
			continue
		}
		appendByAction(&allow, &deny, &ask, rule.Action, tool)
	}
	if len(allow) > 0 {
		out["allow"] = allow
	}
	if len(deny) > 0 {
		out["deny"] = deny
	}
	if len(ask) > 0 {
		out["ask"] = ask
	}
	if perms.Default() == canon.ActionAllow {
		out["defaultMode"] = "bypassPermissions"
	}
	return out
}

func appendByAction(allow, deny, ask *[]string, action canon.Action, entry string) {
	switch action {
	case canon.ActionAllow:
		*allow = append(*allow, entry)
	case canon.ActionDeny:
		*deny = append(*deny, entry)
	case canon.ActionAsk:
		*ask = append(*ask, entry)
	}
}

func emitProject(p *canon.ProjectConfig, opts Options, result *canon.ConversionResult) {
	cfg := make(map[string]any)
	if len(p.Permissions) > 0 {
		cfg["permissions"] = emitPermissions(p.Permissions)
	}
	if len(p.McpServers) > 0 {
		servers := make(map[string]any, len(p.McpServers))
		for name, srv := range p.McpServers {
			servers[name] = emitMcpServer(srv, result.Report, name)
		}
		mcpPath := pathresolver.ClaudeProjectMcpJSON(p.Path)
		result.ProjectConfigs[mcpPath] = map[string]any{"mcpServers": servers}
	}
	if len(cfg) > 0 {
		result.ProjectConfigs[pathresolver.ClaudeProjectSettingsLocalJSON(p.Path)] = cfg
	}

	emitRules(p.Rules, pathresolver.ClaudeProjectRulesFile(p.Path), p.Path, result)
	emitAgentsAndCommands(p.Agents, p.Commands, p.Path, result)

	for _, s := range p.Skills {
		result.Report.AddConverted(canon.CategorySkills, s.Path,
			filepath.Join(pathresolver.ClaudeProjectSkillsDir(p.Path), s.Name, "SKILL.md"), "")
	}
}

// emitMcpServer implements spec.md §4.3's Canonical -> Claude Code MCP
// rule: remote URLs containing "/sse" keep type:"sse", else "http".
func emitMcpServer(srv canon.McpServer, report *canon.ConversionReport, name string) map[string]any {
	out := map[string]any{}
	switch srv.Kind {
	case canon.McpLocal:
		out["command"] = srv.Command
		if len(srv.Args) > 0 {
			out["args"] = srv.Args
		}
		if len(srv.Env) > 0 {
			out["env"] = srv.Env
		}
	case canon.McpRemote:
		out["type"] = mcp.ClaudeCodeTransportType(srv.URL)
		out["url"] = srv.URL
		if len(srv.Headers) > 0 {
			out["headers"] = srv.Headers
		}
		if mcp.HasEmbeddedCredential(srv.URL) {
			report.Warnf("mcp server %q: url contains embedded credentials", name)
		}
	}
	return out
}

// emitRules implements spec.md §4.3: always/general rules concatenate
// into a single CLAUDE.md; file-scoped/intelligent rules each become
// their own .claude/rules/<sanitized>.md with a manual-action note.
func emitRules(rules []canon.RulesFile, rulesFilePath, projectPath string, result *canon.ConversionResult) {
	var always []string
	for _, r := range rules {
		switch r.Type {
		case canon.RuleAlways, canon.RuleGeneral, "":
			always = append(always, strings.TrimSpace(r.Content))
			result.Report.AddConverted(canon.CategoryRules, r.Path, rulesFilePath, "")
		default:
			target := filepath.Join(projectPath, ".claude", "rules", sanitize(r.Name)+".md")
			fm := map[string]any{}
			if len(r.Globs) > 0 {
				fm["paths"] = r.Globs
			}
			body, err := codec.SerializeFrontmatter(fm, r.Content)
			if err == nil {
				result.Rules[target] = string(body)
			}
			result.Report.AddConverted(canon.CategoryRules, r.Path, target, "")
			result.Report.ManualActionf("rule %q is file-scoped/intelligent; Claude Code applies rules globally, review %s", r.Name, target)
		}
	}
	if len(always) > 0 && rulesFilePath != "" {
		result.Rules[rulesFilePath] = strings.Join(always, "\n\n") + "\n"
	}
}

func emitAgentsAndCommands(agents []canon.Agent, commands []canon.Command, projectPath string, result *canon.ConversionResult) {
	for _, a := range agents {
		fm := map[string]any{}
		if a.Description != "" {
			fm["description"] = a.Description
		}
		if a.Model != "" {
			fm["model"] = a.Model
		}
		if len(a.Tools) > 0 {
			fm["tools"] = strings.Join(a.Tools, ", ")
		}
		if a.Color != "" {
			fm["color"] = a.Color
		}
		body, err := codec.SerializeFrontmatter(fm, a.Body)
		if err != nil {
			continue
		}
		target := filepath.Join(pathresolver.ClaudeProjectAgentsDir(projectPath), sanitize(a.Name)+".md")
		result.Agents[target] = string(body)
		result.Report.AddConverted(canon.CategoryAgents, a.Path, target, "")
	}
	for _, c := range commands {
		fm := map[string]any{}
		if c.Description != "" {
			fm["description"] = c.Description
		}
		body, err := codec.SerializeFrontmatter(fm, c.Body)
		if err != nil {
			continue
		}
		target := filepath.Join(pathresolver.ClaudeProjectCommandsDir(projectPath), sanitize(c.Name)+".md")
		result.Commands[target] = string(body)
		result.Report.AddConverted(canon.CategoryCommands, c.Path, target, "")
	}
}
