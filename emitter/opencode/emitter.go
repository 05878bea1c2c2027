// Package opencode implements the canonical-to-OpenCode emitter of
// spec.md §4.3, including the agent mode/temperature inference (§4.7)
// and the Claude Code hooks-to-plugin-stub converter (§4.8).
package opencode

import (
	"encoding/json"
	"path/filepath"
	"regexp"
	"strings"

	"github.com/grokify/aiassistbridge/canon"
	"github.com/grokify/aiassistbridge/codec"
	"github.com/grokify/aiassistbridge/convert/hooks"
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
	return strings.Trim(sanitizeRe.ReplaceAllString(name, "-"), "-")
}

// Emit walks a canon.ScanResult and produces the OpenCode
// CanonicalConversionResult.
func Emit(scan *canon.ScanResult, opts Options) *canon.ConversionResult {
	result := canon.NewConversionResult(scan.SourceFormat, canon.OpenCode)

	result.GlobalConfigPath = pathresolver.OpenCodeGlobalConfigJSON(opts.Env)
	result.GlobalConfig = emitConfig(&scan.Global, opts, result)
	emitRules(scan.Global.Rules, pathresolver.OpenCodeGlobalAgentsMD(opts.Env), result)
	emitAgentsAndCommands(scan.Global.Agents, scan.Global.Commands, "", opts.Env, result)
	emitHooksIfPresent(scan.Global.ExtraSettings, result)

	for _, p := range scan.Projects {
		emitProject(p, opts, result)
	}

	return result
}

func emitProject(p *canon.ProjectConfig, opts Options, result *canon.ConversionResult) {
	cfg := emitConfig(&p.GlobalConfig, opts, result)
	if len(cfg) > 0 {
		result.ProjectConfigs[pathresolver.OpenCodeProjectConfigJSON(p.Path)] = cfg
	}
	emitRules(p.Rules, pathresolver.OpenCodeProjectAgentsMD(p.Path), result)
	emitAgentsAndCommands(p.Agents, p.Commands, p.Path, pathresolver.Env{}, result)
	emitHooksIfPresent(p.ExtraSettings, result)

	for _, s := range p.Skills {
		result.Report.AddConverted(canon.CategorySkills, s.Path,
			filepath.Join(pathresolver.OpenCodeProjectSkillsDir(p.Path), s.Name, "SKILL.md"), "")
	}
}

func emitConfig(g *canon.GlobalConfig, opts Options, result *canon.ConversionResult) map[string]any {
	cfg := make(map[string]any)
	if g.Model == "" && len(g.McpServers) == 0 && len(g.Permissions) == 0 {
		return cfg
	}

	cfg["$schema"] = "https://opencode.ai/config.json"

	if g.Model != "" {
		qualified := translateModel(g.Model, opts)
		cfg["model"] = qualified
		small := opts.DefaultSmallModel
		if small == "" {
			small = modelid.SuggestSmallModel(qualified)
		}
		cfg["small_model"] = small
		cfg["provider"] = map[string]any{modelid.DetectProvider(modelid.Env{}, g.Model): map[string]any{}}
	}

	if len(g.Permissions) > 0 {
		cfg["permission"] = emitPermissions(g.Permissions)
	}

	if len(g.McpServers) > 0 {
		mcpOut := make(map[string]any, len(g.McpServers))
		for name, srv := range g.McpServers {
			mcpOut[name] = emitMcpEntry(srv, result.Report, name)
		}
		cfg["mcp"] = mcpOut
	}

	if len(g.Env) > 0 {
		cfg["env"] = g.Env
	}
	if g.AutoUpdate {
		cfg["autoupdate"] = true
	}

	return cfg
}

func translateModel(id string, opts Options) string {
	provider := modelid.DetectProvider(modelid.Env{}, id)
	return modelid.Translate(id, provider, opts.ModelOverrides)
}

// emitPermissions passes canon.Permissions through nearly unchanged,
// since OpenCode's permission shape is the canonical one (spec.md §4.2).
func emitPermissions(perms canon.Permissions) map[string]any {
	out := make(map[string]any, len(perms))
	for tool, rule := range perms {
		if rule.IsPatterned() {
			nested := make(map[string]any, len(rule.Patterns))
			for pattern, action := range rule.Patterns {
				nested[pattern] = string(action)
			}
			out[tool] = nested
			continue
		}
		out[tool] = string(rule.Action)
	}
	return out
}

func emitMcpEntry(srv canon.McpServer, report *canon.ConversionReport, name string) map[string]any {
	out := map[string]any{}
	switch srv.Kind {
	case canon.McpLocal:
		out["type"] = "local"
		command := append([]string{srv.Command}, srv.Args...)
		out["command"] = command
		if len(srv.Env) > 0 {
			out["environment"] = srv.Env
		}
	case canon.McpRemote:
		out["type"] = "remote"
		out["url"] = srv.URL
		if len(srv.Headers) > 0 {
			out["headers"] = srv.Headers
		}
		if srv.OAuth != nil {
			out["oauth"] = srv.OAuth
		}
		if mcp.HasEmbeddedCredential(srv.URL) {
			report.Warnf("mcp server %q: url contains embedded credentials", name)
		}
	}
	if srv.Enabled != nil {
		out["enabled"] = *srv.Enabled
	}
	return out
}

// emitRules implements spec.md §4.3: always-apply rules merge into
// AGENTS.md; file-scoped/intelligent rules get a manual-action note only
// ("OpenCode does not support file-scoped rules natively").
func emitRules(rules []canon.RulesFile, agentsMDPath string, result *canon.ConversionResult) {
	var always []string
	var dropped int
	for _, r := range rules {
		switch r.Type {
		case canon.RuleAlways, canon.RuleGeneral, "":
			always = append(always, strings.TrimSpace(r.Content))
			result.Report.AddConverted(canon.CategoryRules, r.Path, agentsMDPath, "")
		default:
			dropped++
			result.Report.AddSkipped(canon.CategoryRules, r.Path, "", "file-scoped/intelligent rule")
		}
	}
	if len(always) > 0 {
		result.Rules[agentsMDPath] = strings.Join(always, "\n\n") + "\n"
	}
	if dropped > 0 {
		result.Report.ManualActionf("OpenCode does not support file-scoped rules natively: %d file-scoped/intelligent rules dropped", dropped)
	}
}

// primaryKeywords and subagentKeywords implement spec.md §4.7's mode
// inference; primary is checked first.
var primaryKeywords = []string{
	"build", "implement", "create", "develop", "main", "primary", "default", "general", "full", "orchestrat",
}

var subagentKeywords = []string{
	"review", "audit", "analyze", "check", "helper", "assist", "search", "find", "explore",
	"scan", "inspect", "verify", "validate", "lint", "format", "test", "debug", "document", "explain",
}

// InferMode implements spec.md §4.7: lowercase name+description, scan
// for keywords, primary checked first, default primary.
func InferMode(name, description string) canon.AgentMode {
	haystack := strings.ToLower(name + " " + description)
	for _, kw := range primaryKeywords {
		if strings.Contains(haystack, kw) {
			return canon.AgentPrimary
		}
	}
	for _, kw := range subagentKeywords {
		if strings.Contains(haystack, kw) {
			return canon.AgentSubagent
		}
	}
	return canon.AgentPrimary
}

// temperatureRules is ordered; first matching keyword group wins.
var temperatureRules = []struct {
	keywords []string
	value    float64
}{
	{[]string{"security", "audit", "review", "lint", "check", "verify", "validate", "test"}, 0.1},
	{[]string{"code", "implement", "build", "develop", "engineer", "refactor", "fix", "debug"}, 0.3},
	{[]string{"document", "write", "explain", "create", "design", "architect", "plan"}, 0.5},
}

// InferTemperature implements spec.md §4.7's keyword-to-temperature table.
func InferTemperature(name, description string) float64 {
	haystack := strings.ToLower(name + " " + description)
	for _, rule := range temperatureRules {
		for _, kw := range rule.keywords {
			if strings.Contains(haystack, kw) {
				return rule.value
			}
		}
	}
	return 0.3
}

// emitAgentsAndCommands writes agent/command markdown files. Pass
// projectPath == "" for the global scope, in which case env resolves
// the global OpenCode directories; otherwise env is ignored.
func emitAgentsAndCommands(agents []canon.Agent, commands []canon.Command, projectPath string, env pathresolver.Env, result *canon.ConversionResult) {
	var agentsDir, commandsDir string
	if projectPath == "" {
		agentsDir = pathresolver.OpenCodeGlobalAgentsDir(env)
		commandsDir = pathresolver.OpenCodeGlobalCommandsDir(env)
	} else {
		agentsDir = pathresolver.OpenCodeProjectAgentsDir(projectPath)
		commandsDir = pathresolver.OpenCodeProjectCommandsDir(projectPath)
	}

	for _, a := range agents {
		mode := a.Mode
		if mode == "" {
			mode = InferMode(a.Name, a.Description)
		}
		temperature := a.Temperature
		if temperature == nil {
			t := InferTemperature(a.Name, a.Description)
			temperature = &t
		}
		steps := 50
		if mode == canon.AgentSubagent {
			steps = 25
		}

		fm := map[string]any{
			"mode":        string(mode),
			"temperature": *temperature,
			"steps":       steps,
		}
		if a.Description != "" {
			fm["description"] = a.Description
		}
		if a.Model != "" {
			fm["model"] = a.Model
		}

		body, err := serializeAgentFrontmatter(fm, a.Body)
		if err != nil {
			continue
		}
		target := filepath.Join(agentsDir, sanitize(a.Name)+".md")
		result.Agents[target] = body
		result.Report.AddConverted(canon.CategoryAgents, a.Path, target, "")
	}

	for _, c := range commands {
		fm := map[string]any{}
		if c.Description != "" {
			fm["description"] = c.Description
		}
		body, err := serializeAgentFrontmatter(fm, c.Body)
		if err != nil {
			continue
		}
		target := filepath.Join(commandsDir, sanitize(c.Name)+".md")
		result.Commands[target] = body
		result.Report.AddConverted(canon.CategoryCommands, c.Path, target, "")
	}
}

func serializeAgentFrontmatter(fm map[string]any, body string) (string, error) {
	out, err := codec.SerializeFrontmatter(fm, body)
	if err != nil {
		return "", err
	}
	return string(out), nil
}

// hookEntry mirrors one Claude Code hooks.json matcher group; the exact
// upstream schema is a list of {matcher, hooks:[{command}]} per event.
type hookEntry struct {
	Matcher string `json:"matcher"`
	Hooks   []struct {
		Command string `json:"command"`
	} `json:"hooks"`
}

// emitHooksIfPresent decodes extraSettings["hooks"] (preserved verbatim
// by the Claude Code mapper) and, if present, generates the OpenCode
// plugin stub of spec.md §4.8.
func emitHooksIfPresent(extra map[string]any, result *canon.ConversionResult) {
	raw, ok := extra["hooks"].(string)
	if !ok || raw == "" {
		return
	}
	var byEvent map[string][]hookEntry
	if json.Unmarshal([]byte(raw), &byEvent) != nil {
		return
	}

	var hookList []hooks.Hook
	for event, entries := range byEvent {
		for _, entry := range entries {
			for _, h := range entry.Hooks {
				hookList = append(hookList, hooks.Hook{Event: event, Matcher: entry.Matcher, Command: h.Command})
			}
		}
	}
	if len(hookList) == 0 {
		return
	}
	result.ExtraFiles["cc-hooks.ts"] = hooks.GeneratePluginStub(hookList, result.Report)
}
