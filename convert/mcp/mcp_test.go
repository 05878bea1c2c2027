package mcp

import (
	"testing"

	"github.com/grokify/aiassistbridge/canon"
)

func TestHasEmbeddedCredential(t *testing.T) {
	tests := []struct {
		url  string
		want bool
	}{
		{"https://mcp.example.com/sse?token=abc123", true},
		{"https://mcp.example.com/sse?api_key=xyz", true},
		{"https://mcp.example.com/sse", false},
		{"https://mcp.example.com/sse?user=bob", false},
	}
	for _, tt := range tests {
		t.Run(tt.url, func(t *testing.T) {
			if got := HasEmbeddedCredential(tt.url); got != tt.want {
				t.Errorf("HasEmbeddedCredential(%q) = %v, want %v", tt.url, got, tt.want)
			}
		})
	}
}

func TestFromDuckTypedLocal(t *testing.T) {
	report := canon.NewReport()
	srv, ok := FromDuckTyped("fs", "npx", []string{"-y", "server-fs"}, nil, "", nil, report)
	if !ok {
		t.Fatalf("FromDuckTyped local: ok = false, report = %+v", report)
	}
	if srv.Kind != canon.McpLocal || srv.Command != "npx" {
		t.Errorf("FromDuckTyped local = %+v, want Kind=local Command=npx", srv)
	}
}

func TestFromDuckTypedRemote(t *testing.T) {
	report := canon.NewReport()
	srv, ok := FromDuckTyped("sentry", "", nil, nil, "https://mcp.sentry.dev/mcp", nil, report)
	if !ok {
		t.Fatalf("FromDuckTyped remote: ok = false, report = %+v", report)
	}
	if srv.Kind != canon.McpRemote || srv.URL != "https://mcp.sentry.dev/mcp" {
		t.Errorf("FromDuckTyped remote = %+v, want Kind=remote URL set", srv)
	}
}

func TestFromDuckTypedRemoteWithEmbeddedCredentialWarns(t *testing.T) {
	report := canon.NewReport()
	_, ok := FromDuckTyped("sentry", "", nil, nil, "https://mcp.sentry.dev/mcp?token=abc", nil, report)
	if !ok {
		t.Fatalf("FromDuckTyped remote: ok = false, report = %+v", report)
	}
	if len(report.Warnings) == 0 {
		t.Errorf("expected a warning for an embedded-credential url")
	}
}

func TestFromDuckTypedMissingCommandErrors(t *testing.T) {
	report := canon.NewReport()
	_, ok := FromDuckTyped("broken", "", nil, nil, "", nil, report)
	if ok {
		t.Fatalf("FromDuckTyped with neither url nor command should fail")
	}
	if len(report.Errors) == 0 {
		t.Errorf("expected an error to be recorded for the invalid server")
	}
}

func TestSplitCommandArgs(t *testing.T) {
	head, args := SplitCommandArgs([]string{"npx", "-y", "server-fs"})
	if head != "npx" {
		t.Errorf("head = %q, want npx", head)
	}
	if len(args) != 2 || args[0] != "-y" || args[1] != "server-fs" {
		t.Errorf("args = %v, want [-y server-fs]", args)
	}

	head, args = SplitCommandArgs(nil)
	if head != "" || args != nil {
		t.Errorf("SplitCommandArgs(nil) = (%q, %v), want (\"\", nil)", head, args)
	}
}

func TestClaudeCodeTransportType(t *testing.T) {
	if got := ClaudeCodeTransportType("https://mcp.example.com/sse"); got != "sse" {
		t.Errorf("ClaudeCodeTransportType(sse url) = %q, want sse", got)
	}
	if got := ClaudeCodeTransportType("https://mcp.example.com/mcp"); got != "http" {
		t.Errorf("ClaudeCodeTransportType(non-sse url) = %q, want http", got)
	}
}

func TestMergeServersLaterSourceWins(t *testing.T) {
	base := map[string]canon.McpServer{"fs": {Kind: canon.McpLocal, Command: "npx"}}
	override := map[string]canon.McpServer{"fs": {Kind: canon.McpLocal, Command: "uvx"}}
	merged := MergeServers(base, override)
	if merged["fs"].Command != "uvx" {
		t.Errorf("merged[fs].Command = %q, want uvx (later source wins)", merged["fs"].Command)
	}
}
