// Package mcp implements the MCP-server auxiliary converter of spec.md
// §4.2/§4.3/§4.5, reusable by every to-canonical mapper and
// from-canonical emitter. Grounded on mcp/core/config.go and
// mcp/claude/adapter.go's transport-inference switch.
package mcp

import (
	"regexp"
	"strings"

	"github.com/grokify/aiassistbridge/canon"
)

// secretLikeRe flags URLs carrying an embedded credential in a query
// parameter, per spec.md §4.3's Canonical -> Cursor emitter rule and the
// Scenario 4 testable property.
var secretLikeRe = regexp.MustCompile(`[?&](token|key|secret|api_key)=`)

// HasEmbeddedCredential reports whether url looks like it carries a
// secret in its query string.
func HasEmbeddedCredential(url string) bool {
	return secretLikeRe.MatchString(strings.ToLower(url))
}

// FromDuckTyped builds a canon.McpServer from structurally-discriminated
// fields (has url vs has command), applying spec.md §9's rule:
// url && !command => Remote, else Local. Returns an error (via the
// report, never a Go error) when the required field for the discriminated
// kind is missing, matching spec.md §7's "MCP local missing command /
// remote missing url -> report.errors, skip server".
func FromDuckTyped(name, command string, args []string, env map[string]string, url string, headers map[string]string, report *canon.ConversionReport) (canon.McpServer, bool) {
	kind := canon.DiscriminateMcpKind(url != "", command != "")

	srv := canon.McpServer{Kind: kind, Command: command, Args: args, Env: env, URL: url, Headers: headers}
	if err := srv.Validate(); err != nil {
		if report != nil {
			report.Errorf("mcp server %q: %v", name, err)
		}
		return canon.McpServer{}, false
	}

	if kind == canon.McpRemote && HasEmbeddedCredential(url) {
		if report != nil {
			report.Warnf("mcp server %q: url contains embedded credentials", name)
		}
	}

	return srv, true
}

// SplitCommandArgs splits OpenCode's command[] array into head (the
// executable) and tail (its arguments), per spec.md §4.2.
func SplitCommandArgs(command []string) (string, []string) {
	if len(command) == 0 {
		return "", nil
	}
	return command[0], command[1:]
}

// ClaudeCodeTransportType returns "sse" for a remote URL containing
// "/sse", else "http", per spec.md §4.3's Canonical -> Claude Code rule.
func ClaudeCodeTransportType(url string) string {
	if strings.Contains(url, "/sse") {
		return "sse"
	}
	return "http"
}

// MergeServers applies spec.md §4.2's Claude Code gather rule: later
// sources override earlier ones by server name. Pass sources in order
// (.mcp.json, ~/.claude.json per-project entry, settings.local.json).
func MergeServers(sources ...map[string]canon.McpServer) map[string]canon.McpServer {
	merged := make(map[string]canon.McpServer)
	for _, src := range sources {
		for name, srv := range src {
			merged[name] = srv
		}
	}
	return merged
}
