// Package cursor implements the canonical-to-Cursor emitter of spec.md
// §4.3: MDC rule rendering, duck-typed MCP shaping, and frontmatter-free
// command markdown.
package cursor

import (
	"path/filepath"
	"regexp"
	"strings"

	"github.com/grokify/aiassistbridge/canon"
	"github.com/grokify/aiassistbridge/codec"
	"github.com/grokify/aiassistbridge/convert/mcp"
	"github.com/grokify/aiassistbridge/pathresolver"
)

// Options configures the emitter.
type Options struct {
	Env pathresolver.Env
}

var sanitizeRe = regexp.MustCompile(`[^a-zA-Z0-9_-]+`)

func sanitize(name string) string {
	return strings.Trim(sanitizeRe.ReplaceAllString(name, "-"), "-")
}

// Emit walks a canon.ScanResult and produces the Cursor
// CanonicalConversionResult.
func Emit(scan *canon.ScanResult, opts Options) *canon.ConversionResult {
	result := canon.NewConversionResult(scan.SourceFormat, canon.Cursor)

	if len(scan.Global.McpServers) > 0 {
		result.GlobalConfigPath = pathresolver.CursorGlobalMcpJSON(opts.Env)
		result.GlobalConfig = emitMcpConfig(scan.Global.McpServers, result.Report)
	}
	emitAgentsAndCommands(scan.Global.Agents, scan.Global.Commands,
		pathresolver.CursorGlobalAgentsDir(opts.Env), pathresolver.CursorGlobalCommandsDir(opts.Env), result)
	for _, s := range scan.Global.Skills {
		result.Report.AddConverted(canon.CategorySkills, s.Path,
			filepath.Join(pathresolver.CursorGlobalSkillsDir(opts.Env), s.Name, "SKILL.md"), "")
	}
	if len(scan.Global.Permissions) > 0 {
		result.Report.ManualActionf("global permissions have no Cursor CLI equivalent in this scope; reapply them in cli-config.json")
	}

	for _, p := range scan.Projects {
		emitProject(p, result)
	}

	return result
}

func emitProject(p *canon.ProjectConfig, result *canon.ConversionResult) {
	if len(p.McpServers) > 0 {
		result.ProjectConfigs[pathresolver.CursorProjectMcpJSON(p.Path)] = emitMcpConfig(p.McpServers, result.Report)
	}

	emitRules(p.Rules, pathresolver.CursorProjectRulesDir(p.Path), result)
	emitAgentsAndCommands(p.Agents, p.Commands,
		pathresolver.CursorProjectAgentsDir(p.Path), pathresolver.CursorProjectCommandsDir(p.Path), result)

	for _, s := range p.Skills {
		result.Report.AddConverted(canon.CategorySkills, s.Path,
			filepath.Join(pathresolver.CursorProjectSkillsDir(p.Path), s.Name, "SKILL.md"), "")
	}
}

func emitMcpConfig(servers map[string]canon.McpServer, report *canon.ConversionReport) map[string]any {
	out := make(map[string]any, len(servers))
	shaped := make(map[string]any, len(servers))
	for name, srv := range servers {
		shaped[name] = emitMcpServer(srv, report, name)
	}
	out["mcpServers"] = shaped
	return out
}

// emitMcpServer implements spec.md §4.3's Canonical -> Cursor MCP rule:
// remote becomes {url, headers?, auth?}; local becomes
// {command, args?, env?}.
func emitMcpServer(srv canon.McpServer, report *canon.ConversionReport, name string) map[string]any {
	out := map[string]any{}
	switch srv.Kind {
	case canon.McpRemote:
		out["url"] = srv.URL
		if len(srv.Headers) > 0 {
			out["headers"] = srv.Headers
		}
		if srv.OAuth != nil {
			out["auth"] = map[string]any{
				"clientId":     srv.OAuth.ClientID,
				"authorizeUrl": srv.OAuth.AuthorizeURL,
				"tokenUrl":     srv.OAuth.TokenURL,
				"scopes":       srv.OAuth.Scopes,
			}
		}
		if mcp.HasEmbeddedCredential(srv.URL) {
			report.Warnf("mcp server %q: url contains embedded credentials", name)
		}
	case canon.McpLocal:
		out["command"] = srv.Command
		if len(srv.Args) > 0 {
			out["args"] = srv.Args
		}
		if len(srv.Env) > 0 {
			out["env"] = srv.Env
		}
	}
	if srv.Enabled != nil {
		out["enabled"] = *srv.Enabled
	}
	return out
}

// emitRules implements spec.md §4.3: every rule becomes its own MDC file
// under .cursor/rules, with description/globs/alwaysApply frontmatter
// reconstructed from the rule type.
func emitRules(rules []canon.RulesFile, rulesDir string, result *canon.ConversionResult) {
	for _, r := range rules {
		fm := map[string]any{}
		if r.Description != "" {
			fm["description"] = r.Description
		}
		if len(r.Globs) > 0 {
			fm["globs"] = r.Globs[0]
		}
		alwaysApply := r.Type == canon.RuleAlways
		fm["alwaysApply"] = alwaysApply

		body, err := codec.SerializeFrontmatter(fm, r.Content)
		if err != nil {
			result.Report.Errorf("rule %q: %v", r.Name, err)
			continue
		}
		target := filepath.Join(rulesDir, sanitize(r.Name)+".mdc")
		result.Rules[target] = string(body)
		result.Report.AddConverted(canon.CategoryRules, r.Path, target, "")
	}
}

// emitAgentsAndCommands writes agents with description/model/color/tools
// frontmatter (other source frontmatter keys are not carried over), and commands as plain markdown with no frontmatter,
// since Cursor commands carry no metadata (spec.md §4.3).
func emitAgentsAndCommands(agents []canon.Agent, commands []canon.Command, agentsDir, commandsDir string, result *canon.ConversionResult) {
	for _, a := range agents {
		fm := map[string]any{}
		if a.Description != "" {
			fm["description"] = a.Description
		}
		if a.Model != "" {
			fm["model"] = a.Model
		}
		if a.Color != "" {
			fm["color"] = a.Color
		}
		if len(a.Tools) > 0 {
			fm["tools"] = a.Tools
		}
		body, err := codec.SerializeFrontmatter(fm, a.Body)
		if err != nil {
			continue
		}
		target := filepath.Join(agentsDir, sanitize(a.Name)+".md")
		result.Agents[target] = string(body)
		result.Report.AddConverted(canon.CategoryAgents, a.Path, target, "")
	}

	for _, c := range commands {
		target := filepath.Join(commandsDir, sanitize(c.Name)+".md")
		result.Commands[target] = strings.TrimRight(c.Body, "\n") + "\n"
		result.Report.AddConverted(canon.CategoryCommands, c.Path, target, "")
		if c.Description != "" {
			result.Report.ManualActionf("command %q description %q dropped: Cursor commands carry no frontmatter", c.Name, c.Description)
		}
	}
}
