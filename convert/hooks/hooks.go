// Package hooks implements the Claude Code -> OpenCode plugin-stub
// converter of spec.md §4.8. It always produces exactly one generated
// file and always records a manual action, since a generated plugin stub
// can never fully replace a hand-authored hook script.
package hooks

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/grokify/aiassistbridge/canon"
)

// eventMap is the event-name translation from spec.md §4.8. Events not
// listed here become commented TODOs in the generated file.
var eventMap = map[string]string{
	"PreToolUse":       "tool.execute.before",
	"PostToolUse":      "tool.execute.after",
	"UserPromptSubmit": "chat.message",
}

// Hook is one raw Claude Code hook entry: a matcher regex and the shell
// command it runs.
type Hook struct {
	Event   string
	Matcher string
	Command string
}

// GeneratePluginStub renders cc-hooks.ts for a set of Claude Code hooks,
// and appends the mandatory manual-action notice to report.
func GeneratePluginStub(hookList []Hook, report *canon.ConversionReport) string {
	var b strings.Builder

	b.WriteString("// Generated from Claude Code hooks. Review before relying on this in production.\n")
	b.WriteString("export default function hooks() {\n")
	b.WriteString("  return {\n")

	byEvent := make(map[string][]Hook)
	var order []string
	for _, h := range hookList {
		if _, seen := byEvent[h.Event]; !seen {
			order = append(order, h.Event)
		}
		byEvent[h.Event] = append(byEvent[h.Event], h)
	}

	for _, event := range order {
		mapped, ok := eventMap[event]
		if !ok {
			b.WriteString(fmt.Sprintf("    // TODO: %q has no OpenCode plugin event equivalent\n", event))
			continue
		}
		b.WriteString(fmt.Sprintf("    %q: async (ctx) => {\n", mapped))
		for _, h := range byEvent[event] {
			b.WriteString(fmt.Sprintf("      if (%s.test(ctx.tool)) {\n", matcherRegexLiteral(h.Matcher)))
			b.WriteString(fmt.Sprintf("        await ctx.shell(`%s`)\n", escapeBacktick(h.Command)))
			b.WriteString("      }\n")
		}
		b.WriteString("    },\n")
	}

	b.WriteString("  }\n")
	b.WriteString("}\n")

	if report != nil {
		report.ManualActionf("generated cc-hooks.ts from %d Claude Code hook(s); review the matcher/command translation before use", len(hookList))
	}

	return b.String()
}

// matcherRegexLiteral embeds the matcher as a JS regex literal. spec.md
// §9 flags the source's naive embedding as unsafe when the matcher
// contains "/" and instructs implementations to escape regex
// metacharacters — the source does not, and should be corrected here.
func matcherRegexLiteral(matcher string) string {
	return "/" + escapeRegexMetachars(matcher) + "/"
}

var regexMetaRe = regexp.MustCompile(`[.*+?^${}()|[\]\\/]`)

func escapeRegexMetachars(s string) string {
	return regexMetaRe.ReplaceAllStringFunc(s, func(m string) string {
		return `\` + m
	})
}

// escapeBacktick escapes a shell command for embedding in a JS template
// literal, per spec.md §4.8: "\ " -> "\\", "`" -> "\`", "$" -> "\$".
func escapeBacktick(cmd string) string {
	replacer := strings.NewReplacer(
		`\`, `\\`,
		"`", "\\`",
		"$", "\\$",
	)
	return replacer.Replace(cmd)
}
