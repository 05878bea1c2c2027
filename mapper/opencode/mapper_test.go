package opencode

import (
	"testing"

	"github.com/grokify/aiassistbridge/canon"
	"github.com/grokify/aiassistbridge/scanner/opencode"
)

func TestToCanonicalMapsConfig(t *testing.T) {
	scan := &opencode.ScanResult{
		Config: &opencode.Config{
			Model:      "anthropic/claude-opus-4-6",
			SmallModel: "anthropic/claude-haiku-4-6",
			Permission: map[string]any{
				"bash": map[string]any{"*": "allow", "rm *": "deny"},
				"read": "allow",
			},
			MCP: map[string]opencode.McpEntry{
				"fs": {Type: "local", Command: []string{"npx", "-y", "server"}},
			},
		},
	}
	result := ToCanonical(scan, canon.NewReport())

	if result.Global.Model != "anthropic/claude-opus-4-6" {
		t.Errorf("Model = %q", result.Global.Model)
	}
	bash, ok := result.Global.Permissions["bash"]
	if !ok || bash.Patterns["rm *"] != canon.ActionDeny {
		t.Fatalf("bash rule = %+v, want a deny pattern for rm *", bash)
	}
	fs, ok := result.Global.McpServers["fs"]
	if !ok || fs.Command != "npx" || len(fs.Args) != 2 {
		t.Errorf("fs server = %+v, want command npx with 2 args", fs)
	}
}

func TestMapMcpEntryRemoteByURL(t *testing.T) {
	report := canon.NewReport()
	srv := mapMcpEntry(opencode.McpEntry{URL: "https://mcp.example.com"}, report)
	if srv.Kind != canon.McpRemote {
		t.Errorf("Kind = %q, want remote when url is set", srv.Kind)
	}
}

func TestMapAgentParsesFrontmatter(t *testing.T) {
	doc := opencode.MarkdownDoc{
		Name: "reviewer",
		Frontmatter: map[string]any{
			"description": "reviews code",
			"mode":        "subagent",
			"temperature": 0.2,
		},
		Body: "instructions",
	}
	agent := mapAgent(doc)
	if agent.Description != "reviews code" {
		t.Errorf("Description = %q", agent.Description)
	}
	if agent.Mode != canon.AgentSubagent {
		t.Errorf("Mode = %q, want subagent", agent.Mode)
	}
	if agent.Temperature == nil || *agent.Temperature != 0.2 {
		t.Errorf("Temperature = %v, want 0.2", agent.Temperature)
	}
}

func TestAgentsMDBecomesAlwaysRule(t *testing.T) {
	scan := &opencode.ScanResult{AgentsMD: "# conventions"}
	result := ToCanonical(scan, canon.NewReport())
	if len(result.Global.Rules) != 1 || result.Global.Rules[0].Type != canon.RuleAlways {
		t.Fatalf("Global.Rules = %+v, want one always rule", result.Global.Rules)
	}
}

func TestPassthroughPermissionsHandlesStringAndNestedForms(t *testing.T) {
	perms := passthroughPermissions(map[string]any{
		"write": "ask",
		"bash":  map[string]any{"*": "allow"},
	})
	if perms["write"].Action != canon.ActionAsk {
		t.Errorf("write action = %q, want ask", perms["write"].Action)
	}
	if perms["bash"].IsPatterned() || perms["bash"].Action != canon.ActionAllow {
		t.Errorf("bash rule = %+v, want a single wildcard pattern collapsed to a bare allow action", perms["bash"])
	}
}
