package cursor

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/grokify/aiassistbridge/pathresolver"
)

func TestScanReadsGlobalMcpAndCLIConfig(t *testing.T) {
	env := pathresolver.Env{Home: t.TempDir()}
	mustWriteFile(t, pathresolver.CursorGlobalMcpJSON(env), `{"mcpServers": {"fs": {"command": "npx"}}}`)
	mustWriteFile(t, pathresolver.CursorGlobalCLIConfig(env), `{"permissions": {"readFile": "allow"}}`)

	result, err := Scan(Options{Env: env, Global: true})
	if err != nil {
		t.Fatalf("Scan returned an error: %v", err)
	}
	if result.Mcp == nil || result.Mcp.MCPServers["fs"].Command != "npx" {
		t.Fatalf("Mcp = %+v, want fs server with command npx", result.Mcp)
	}
	if result.CLIConfig["permissions"] == nil {
		t.Errorf("CLIConfig = %+v, want a permissions key", result.CLIConfig)
	}
}

func TestScanProjectReadsRulesAndLegacyRules(t *testing.T) {
	project := t.TempDir()
	mustWriteFile(t, filepath.Join(pathresolver.CursorProjectRulesDir(project), "style.mdc"),
		"---\nalwaysApply: true\n---\nuse tabs")
	mustWriteFile(t, pathresolver.CursorProjectLegacyRules(project), "legacy content")

	result, err := Scan(Options{ProjectPath: project})
	if err != nil {
		t.Fatalf("Scan returned an error: %v", err)
	}
	p := result.Projects[0]
	if len(p.Rules) != 1 || p.Rules[0].Name != "style" {
		t.Fatalf("Rules = %+v, want one rule named style", p.Rules)
	}
	if p.LegacyRules != "legacy content" {
		t.Errorf("LegacyRules = %q", p.LegacyRules)
	}
}

func TestScanSkipsSkillsCursorDir(t *testing.T) {
	env := pathresolver.Env{Home: t.TempDir()}
	mustWriteFile(t, filepath.Join(pathresolver.CursorGlobalSkillsDir(env), skipSkillsDir, "SKILL.md"), "body")
	mustWriteFile(t, filepath.Join(pathresolver.CursorGlobalSkillsDir(env), "real-skill", "SKILL.md"), "body")

	result, err := Scan(Options{Env: env, Global: true})
	if err != nil {
		t.Fatalf("Scan returned an error: %v", err)
	}
	if len(result.Skills) != 1 || result.Skills[0].Name != "real-skill" {
		t.Fatalf("Skills = %+v, want only real-skill", result.Skills)
	}
}

func mustWriteFile(t *testing.T, path, content string) {
	t.Helper()
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatalf("MkdirAll(%q): %v", filepath.Dir(path), err)
	}
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("WriteFile(%q): %v", path, err)
	}
}
