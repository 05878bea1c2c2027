package cursor

import (
	"strings"
	"testing"

	"github.com/grokify/aiassistbridge/canon"
)

func TestEmitMcpServerRemote(t *testing.T) {
	report := canon.NewReport()
	out := emitMcpServer(canon.McpServer{Kind: canon.McpRemote, URL: "https://mcp.example.com", Headers: map[string]string{"X-Key": "v"}}, report, "svc")
	if out["url"] != "https://mcp.example.com" {
		t.Errorf("url = %v", out["url"])
	}
	if _, ok := out["headers"]; !ok {
		t.Errorf("expected headers to be carried over")
	}
}

func TestEmitMcpServerLocal(t *testing.T) {
	report := canon.NewReport()
	out := emitMcpServer(canon.McpServer{Kind: canon.McpLocal, Command: "npx", Args: []string{"-y", "server"}}, report, "svc")
	if out["command"] != "npx" {
		t.Errorf("command = %v, want npx", out["command"])
	}
	if args, ok := out["args"].([]string); !ok || len(args) != 2 {
		t.Errorf("args = %v, want [-y server]", out["args"])
	}
}

func TestEmitMcpServerWarnsOnEmbeddedCredential(t *testing.T) {
	report := canon.NewReport()
	emitMcpServer(canon.McpServer{Kind: canon.McpRemote, URL: "https://mcp.example.com?token=abc"}, report, "svc")
	if len(report.Warnings) != 1 {
		t.Errorf("expected one warning, got %v", report.Warnings)
	}
}

func TestEmitRulesAlwaysApplySetByRuleType(t *testing.T) {
	result := canon.NewConversionResult(canon.ClaudeCode, canon.Cursor)
	rules := []canon.RulesFile{
		{Name: "always-rule", Path: "a.md", Type: canon.RuleAlways, Content: "body"},
		{Name: "scoped-rule", Path: "b.md", Type: canon.RuleFileScoped, Content: "body", Globs: []string{"*.go"}},
	}
	emitRules(rules, "/repo/.cursor/rules", result)

	if len(result.Rules) != 2 {
		t.Fatalf("Rules = %v, want 2 entries", result.Rules)
	}
	for target, content := range result.Rules {
		if strings.Contains(target, "always-rule") && !strings.Contains(content, "alwaysApply: true") {
			t.Errorf("always rule %q missing alwaysApply: true:\n%s", target, content)
		}
		if strings.Contains(target, "scoped-rule") {
			if !strings.Contains(content, "alwaysApply: false") {
				t.Errorf("scoped rule missing alwaysApply: false:\n%s", content)
			}
			if !strings.Contains(content, "*.go") {
				t.Errorf("scoped rule missing globs:\n%s", content)
			}
		}
	}
}

func TestEmitAgentsAndCommandsDropsCommandDescriptionWithManualAction(t *testing.T) {
	result := canon.NewConversionResult(canon.ClaudeCode, canon.Cursor)
	agents := []canon.Agent{{Name: "reviewer", Path: "r.md", Description: "reviews", Body: "body"}}
	commands := []canon.Command{{Name: "deploy", Path: "d.md", Description: "deploys", Body: "body"}}

	emitAgentsAndCommands(agents, commands, "/repo/.cursor/agents", "/repo/.cursor/commands", result)

	if len(result.Agents) != 1 {
		t.Fatalf("Agents = %v, want 1", result.Agents)
	}
	if len(result.Commands) != 1 {
		t.Fatalf("Commands = %v, want 1", result.Commands)
	}
	found := false
	for _, m := range result.Report.ManualActions {
		if strings.Contains(m, "deploy") {
			found = true
		}
	}
	if !found {
		t.Errorf("expected a manual action about the dropped command description, got %v", result.Report.ManualActions)
	}
}

func TestSanitizeStripsDisallowedChars(t *testing.T) {
	if got := sanitize("My Agent!!"); got != "My-Agent" {
		t.Errorf("sanitize = %q, want My-Agent", got)
	}
}
