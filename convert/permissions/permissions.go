// Package permissions implements the permission converter of spec.md
// §4.5: the Claude Code / Cursor tool-name vocabularies, the
// Tool(pattern) parser, and the build/simplify algorithm that produces a
// canon.Permissions map.
package permissions

import (
	"strings"

	"github.com/grokify/aiassistbridge/canon"
)

// claudeToolNames is the Claude Code -> canonical tool-name table from
// spec.md §4.5.
var claudeToolNames = map[string]string{
	"Read":      "read",
	"Write":     "write",
	"Edit":      "edit",
	"MultiEdit": "edit",
	"Bash":      "bash",
	"Glob":      "glob",
	"Grep":      "grep",
	"WebFetch":  "webfetch",
	"WebSearch": "websearch",
	"Task":      "task",
	"TodoRead":  "todoread",
	"TodoWrite": "todowrite",
	"Skill":     "skill",
}

// cursorToolNames is the Cursor tool-name table from spec.md §4.2.
var cursorToolNames = map[string]string{
	"Shell": "bash",
	"Read":  "read",
	"Write": "write",
	"Edit":  "edit",
}

// MapClaudeToolName maps a Claude Code tool name to its canonical key.
// Unknown names report ok=false; the caller must emit a warning and skip
// the pattern per spec.md §7.
func MapClaudeToolName(tool string) (string, bool) {
	name, ok := claudeToolNames[tool]
	return name, ok
}

// MapCursorToolName maps a Cursor tool name to its canonical key.
// Unrecognized names are lowercased rather than rejected, per spec.md
// §4.2 ("unknown names lowercased").
func MapCursorToolName(tool string) string {
	if name, ok := cursorToolNames[tool]; ok {
		return name
	}
	return strings.ToLower(tool)
}

// ParsedPattern is the result of parsing a "Tool(pattern)" or bare "Tool"
// string (spec.md §4.5).
type ParsedPattern struct {
	Tool    string
	Pattern string
}

// ParseToolPattern parses "Tool(pattern)" => {tool, pattern}; bare "Tool"
// => {tool, "*"}; anything else returns ok=false.
func ParseToolPattern(s string) (ParsedPattern, bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return ParsedPattern{}, false
	}
	open := strings.IndexByte(s, '(')
	if open < 0 {
		return ParsedPattern{Tool: s, Pattern: "*"}, true
	}
	if !strings.HasSuffix(s, ")") || open == 0 {
		return ParsedPattern{}, false
	}
	tool := s[:open]
	pattern := s[open+1 : len(s)-1]
	if pattern == "" {
		pattern = "*"
	}
	return ParsedPattern{Tool: tool, Pattern: pattern}, true
}

// SourceList is one (patterns, action) input to Build, e.g. a Claude Code
// settings.json "allow"/"deny"/"ask"/"allowedTools" array.
type SourceList struct {
	Patterns []string
	Action   canon.Action
}

// BuildOptions configures the canonical-permission build algorithm
// (spec.md §4.5).
type BuildOptions struct {
	// BypassPermissions mirrors Claude Code's defaultMode=="bypassPermissions",
	// which seeds the wildcard default as "allow" instead of "ask".
	BypassPermissions bool

	// MapToolName resolves a raw tool name to its canonical key. Return
	// ok=false for unrecognized tools; Build will skip the pattern and
	// append a warning.
	MapToolName func(tool string) (string, bool)
}

// Build runs the algorithm from spec.md §4.5:
//  1. Start with "*": "ask" (or "allow" if BypassPermissions).
//  2. For each SourceList in order, apply each pattern: "*" sets the
//     tool's own default (or the nested object's "*" field); otherwise it
//     adds/promotes a nested pattern entry.
//  3. Simplify: any nested object whose only key is "*" collapses to its
//     action value.
//
// Lists are applied in the order given; within a list, later patterns win;
// across lists, later lists overwrite earlier ones for identical patterns
// (spec.md's tie-break rule — callers should pass allow before deny/ask).
func Build(lists []SourceList, opts BuildOptions, report *canon.ConversionReport) canon.Permissions {
	perms := make(canon.Permissions)
	defaultAction := canon.ActionAsk
	if opts.BypassPermissions {
		defaultAction = canon.ActionAllow
	}
	perms["*"] = canon.PermissionRule{Action: defaultAction}

	mapName := opts.MapToolName
	if mapName == nil {
		mapName = func(t string) (string, bool) { return strings.ToLower(t), true }
	}

	for _, list := range lists {
		for _, raw := range list.Patterns {
			parsed, ok := ParseToolPattern(raw)
			if !ok {
				if report != nil {
					report.Warnf("permissions: unparseable pattern %q, skipped", raw)
				}
				continue
			}
			tool, ok := mapName(parsed.Tool)
			if !ok {
				if report != nil {
					report.Warnf("permissions: unknown tool %q, skipped", parsed.Tool)
				}
				continue
			}
			applyPattern(perms, tool, parsed.Pattern, list.Action)
		}
	}

	return perms.Simplify()
}

// applyPattern implements step 2 of the build algorithm.
func applyPattern(perms canon.Permissions, tool, pattern string, action canon.Action) {
	existing, has := perms[tool]

	if pattern == "*" {
		if has && existing.IsPatterned() {
			existing.Patterns["*"] = action
			perms[tool] = existing
			return
		}
		perms[tool] = canon.PermissionRule{Action: action}
		return
	}

	switch {
	case !has:
		perms[tool] = canon.PermissionRule{Patterns: map[string]canon.Action{pattern: action}}
	case existing.IsPatterned():
		existing.Patterns[pattern] = action
		perms[tool] = existing
	default:
		// Promote a bare action to a nested map, preserving the existing
		// action under "*".
		perms[tool] = canon.PermissionRule{Patterns: map[string]canon.Action{
			"*":     existing.Action,
			pattern: action,
		}}
	}
}

// AgentToolsToPermissions converts an agent-level tool list (e.g.
// "Read, Edit, Bash, Grep") into a simple allow-map, with Bash defaulting
// to "ask" as a safety default per spec.md §4.5.
func AgentToolsToPermissions(tools []string) canon.Permissions {
	perms := make(canon.Permissions)
	for _, raw := range tools {
		tool, ok := MapClaudeToolName(strings.TrimSpace(raw))
		if !ok {
			tool = strings.ToLower(strings.TrimSpace(raw))
		}
		action := canon.ActionAllow
		if tool == "bash" {
			action = canon.ActionAsk
		}
		perms[tool] = canon.PermissionRule{Action: action}
	}
	return perms
}
