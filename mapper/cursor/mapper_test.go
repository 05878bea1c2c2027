package cursor

import (
	"testing"

	"github.com/grokify/aiassistbridge/canon"
	"github.com/grokify/aiassistbridge/scanner/cursor"
)

func TestToCanonicalMapsMcpAndRules(t *testing.T) {
	scan := &cursor.ScanResult{
		Mcp: &cursor.McpFile{MCPServers: map[string]cursor.McpServerFile{
			"fs": {Command: "npx", Args: []string{"-y", "server"}},
		}},
		Projects: []cursor.Project{
			{
				Path: "/repo/app",
				Rules: []cursor.RuleDoc{
					{Path: "r.mdc", Name: "r", Frontmatter: map[string]any{"alwaysApply": true}, Body: "body"},
				},
				AgentsMD:    "# conventions",
				LegacyRules: "legacy rule text",
			},
		},
	}
	result := ToCanonical(scan, canon.NewReport())

	if _, ok := result.Global.McpServers["fs"]; !ok {
		t.Fatalf("expected a global fs mcp server, got %+v", result.Global.McpServers)
	}
	if len(result.Projects) != 1 {
		t.Fatalf("Projects = %d, want 1", len(result.Projects))
	}
	// one explicit rule + AGENTS.md + .cursorrules
	if len(result.Projects[0].Rules) != 3 {
		t.Fatalf("Rules = %+v, want 3", result.Projects[0].Rules)
	}
}

func TestMapRuleDerivesTypeFromAlwaysApply(t *testing.T) {
	doc := cursor.RuleDoc{Path: "r.mdc", Name: "r", Frontmatter: map[string]any{"alwaysApply": true}, Body: "body"}
	rf := mapRule(doc)
	if rf.Type != canon.RuleAlways {
		t.Errorf("Type = %q, want always", rf.Type)
	}
}

func TestMapRuleJoinsArrayGlobs(t *testing.T) {
	doc := cursor.RuleDoc{
		Path:        "r.mdc",
		Name:        "r",
		Frontmatter: map[string]any{"globs": []any{"*.go", "*.ts"}},
		Body:        "body",
	}
	rf := mapRule(doc)
	if len(rf.Globs) != 1 || rf.Globs[0] != "*.go,*.ts" {
		t.Errorf("Globs = %v, want a single comma-joined entry", rf.Globs)
	}
}

func TestExtractCLIPermissionsRejectsDangerousKeys(t *testing.T) {
	cliConfig := map[string]any{
		"permissions": map[string]any{
			"__proto__": "allow",
			"readFile":  "allow",
		},
	}
	perms, ok := extractCLIPermissions(cliConfig)
	if !ok {
		t.Fatalf("expected permissions to be extracted")
	}
	if _, exists := perms["__proto__"]; exists {
		t.Errorf("expected __proto__ to be rejected, got %+v", perms)
	}
	if len(perms) != 1 {
		t.Errorf("perms = %+v, want exactly one surviving entry", perms)
	}
}

func TestExtractCLIPermissionsMissingReturnsFalse(t *testing.T) {
	if _, ok := extractCLIPermissions(map[string]any{}); ok {
		t.Errorf("expected ok=false when no permissions key is present")
	}
}
