// Package validator implements the structural checks of spec.md §4.11
// against a CanonicalConversionResult, applied to every target format's
// emitted output.
package validator

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/grokify/aiassistbridge/canon"
	"github.com/grokify/aiassistbridge/codec"
)

// Result is the {valid, errors[], warnings[]} triple spec.md §4.11 calls
// for.
type Result struct {
	Valid    bool     `json:"valid"`
	Errors   []string `json:"errors,omitempty"`
	Warnings []string `json:"warnings,omitempty"`
}

func (r *Result) addErrorf(format string, args ...any) {
	r.Errors = append(r.Errors, fmt.Sprintf(format, args...))
	r.Valid = false
}

func (r *Result) addWarnf(format string, args ...any) {
	r.Warnings = append(r.Warnings, fmt.Sprintf(format, args...))
}

var secretLikeRe = regexp.MustCompile(`(?i)(key|secret|token|password|passwd)`)

// Validate walks a canon.ConversionResult and applies spec.md §4.11's
// rules.
func Validate(result *canon.ConversionResult) Result {
	r := Result{Valid: true}

	validateConfig(&r, result.GlobalConfig)
	for _, cfg := range result.ProjectConfigs {
		validateConfig(&r, cfg)
	}

	for path, content := range result.Agents {
		validateFrontmatterPresent(&r, "agent", path, content)
		validateAgentFrontmatter(&r, path, content)
	}
	for path, content := range result.Commands {
		validateFrontmatterPresent(&r, "command", path, content)
	}

	return r
}

func validateConfig(r *Result, cfg map[string]any) {
	if model, ok := cfg["model"].(string); ok {
		validateQualifiedModel(r, "model", model)
	}
	if small, ok := cfg["small_model"].(string); ok {
		validateQualifiedModel(r, "small_model", small)
	} else if small, ok := cfg["smallModel"].(string); ok {
		validateQualifiedModel(r, "smallModel", small)
	}

	validateMcp(r, cfg["mcp"])
	validateMcp(r, cfg["mcpServers"])

	validatePermissionBlock(r, cfg["permission"])
	validatePermissionBlock(r, cfg["permissions"])

	validateProviderSecrets(r, cfg["provider"])
}

func validateQualifiedModel(r *Result, field, id string) {
	if !strings.Contains(id, "/") {
		r.addErrorf("%s %q must contain a provider prefix (\"/\")", field, id)
	}
}

// validateMcp handles both the OpenCode-shaped {type, command|url} map and
// the Claude Code/Cursor-shaped {mcpServers: {...}} wrapper.
func validateMcp(r *Result, raw any) {
	servers, ok := raw.(map[string]any)
	if !ok {
		return
	}
	if inner, ok := servers["mcpServers"].(map[string]any); ok {
		servers = inner
	}
	for name, v := range servers {
		entry, ok := v.(map[string]any)
		if !ok {
			continue
		}
		validateMcpEntry(r, name, entry)
	}
}

func validateMcpEntry(r *Result, name string, entry map[string]any) {
	url, hasURL := entry["url"].(string)
	_, hasCommand := entry["command"]

	if hasURL {
		if url == "" {
			r.addErrorf("mcp server %q: remote url must be non-empty", name)
		}
		if secretLikeRe.MatchString(url) && strings.ContainsAny(url, "?&") {
			r.addWarnf("mcp server %q: url looks like it embeds a secret", name)
		}
		return
	}
	if hasCommand {
		switch cmd := entry["command"].(type) {
		case string:
			if cmd == "" {
				r.addErrorf("mcp server %q: local command must be non-empty", name)
			}
		case []any:
			if len(cmd) == 0 {
				r.addErrorf("mcp server %q: local command array must be non-empty", name)
			}
		}
		return
	}
	r.addErrorf("mcp server %q: neither url nor command is set", name)
}

func validatePermissionBlock(r *Result, raw any) {
	perms, ok := raw.(map[string]any)
	if !ok {
		return
	}
	for tool, v := range perms {
		validatePermissionValue(r, tool, v)
	}
}

func validatePermissionValue(r *Result, tool string, v any) {
	switch t := v.(type) {
	case string:
		if !isValidAction(t) {
			r.addErrorf("permission %q: invalid action %q", tool, t)
		}
	case map[string]any:
		for pattern, action := range t {
			if s, ok := action.(string); ok && !isValidAction(s) {
				r.addErrorf("permission %q[%q]: invalid action %q", tool, pattern, s)
			}
		}
	}
}

func isValidAction(s string) bool {
	return canon.Action(s).Valid()
}

// validateAgentFrontmatter re-parses an emitted agent file's own
// frontmatter (the same split validateFrontmatterPresent checks for a
// leading "---") and validates the mode/temperature/steps/model values
// spec.md §4.11 requires — this is the actual shape
// emitter/opencode.emitAgentsAndCommands writes, not a config-level
// "agent" map (nothing in this pipeline emits one).
func validateAgentFrontmatter(r *Result, path, content string) {
	fm, _ := codec.ParseFrontmatter([]byte(content))
	if fm == nil {
		return
	}
	if mode, ok := fm["mode"].(string); ok {
		switch mode {
		case "subagent", "primary", "all":
		default:
			r.addErrorf("agent %q: invalid mode %q", path, mode)
		}
	}
	if temp, ok := asFloat(fm["temperature"]); ok {
		if temp < 0 || temp > 2 {
			r.addErrorf("agent %q: temperature %v out of range [0,2]", path, temp)
		}
	}
	if steps, ok := asFloat(fm["steps"]); ok {
		if steps <= 0 || steps != float64(int(steps)) {
			r.addErrorf("agent %q: steps must be a positive integer", path)
		}
	}
	if model, ok := fm["model"].(string); ok {
		validateQualifiedModel(r, fmt.Sprintf("agent %q model", path), model)
	}
}

// asFloat coerces the numeric types codec.ParseFrontmatter can hand back
// (yaml.v3's int/int64/float64 on the strict path, int64/float64 from
// parseLenient's fallback) into a float64 for range checks.
func asFloat(v any) (float64, bool) {
	switch n := v.(type) {
	case float64:
		return n, true
	case int:
		return float64(n), true
	case int64:
		return float64(n), true
	}
	return 0, false
}

// validateProviderSecrets implements spec.md §4.11's last rule: a
// provider option value that looks like a secret must be wrapped in
// "{env:...}" or it is flagged.
func validateProviderSecrets(r *Result, raw any) {
	providers, ok := raw.(map[string]any)
	if !ok {
		return
	}
	for providerName, v := range providers {
		opts, ok := v.(map[string]any)
		if !ok {
			continue
		}
		for key, val := range opts {
			s, ok := val.(string)
			if !ok || !secretLikeRe.MatchString(key) {
				continue
			}
			if !strings.HasPrefix(s, "{env:") {
				r.addWarnf("provider %q option %q looks like a secret value; use \"{env:VAR}\" instead", providerName, key)
			}
		}
	}
}

// validateFrontmatterPresent implements spec.md §4.11's rule that agent
// and command files must begin with "---".
func validateFrontmatterPresent(r *Result, kind, path, content string) {
	if !strings.HasPrefix(content, "---") {
		r.addErrorf("%s file %q must begin with frontmatter (\"---\")", kind, path)
	}
}
