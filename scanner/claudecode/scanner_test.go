package claudecode

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/grokify/aiassistbridge/pathresolver"
)

func TestScanReadsGlobalSettingsAndRules(t *testing.T) {
	home := t.TempDir()
	env := pathresolver.Env{Home: home}

	settingsPath := pathresolver.ClaudeGlobalSettingsJSON(env)
	mustWriteFile(t, settingsPath, `{"model": "opus", "permissions": {"allow": ["Read"]}}`)
	mustWriteFile(t, pathresolver.ClaudeGlobalRulesFile(env), "# global conventions")

	result, err := Scan(Options{Env: env, Global: true})
	if err != nil {
		t.Fatalf("Scan returned an error: %v", err)
	}
	if result.Settings == nil || result.Settings.Model != "opus" {
		t.Fatalf("Settings = %+v, want model opus", result.Settings)
	}
	if result.GlobalRulesMD != "# global conventions" {
		t.Errorf("GlobalRulesMD = %q", result.GlobalRulesMD)
	}
}

func TestScanMissingFilesIsNotAnError(t *testing.T) {
	env := pathresolver.Env{Home: t.TempDir()}
	result, err := Scan(Options{Env: env, Global: true})
	if err != nil {
		t.Fatalf("Scan on an empty home returned an error: %v", err)
	}
	if result.Settings != nil {
		t.Errorf("Settings = %+v, want nil when settings.json is absent", result.Settings)
	}
}

func TestScanProjectReadsAgentsAndClaudeMD(t *testing.T) {
	project := t.TempDir()
	mustWriteFile(t, filepath.Join(pathresolver.ClaudeProjectAgentsDir(project), "reviewer.md"),
		"---\ndescription: reviews code\n---\nbody text")
	mustWriteFile(t, pathresolver.ClaudeProjectRulesFile(project), "# project rules")

	result, err := Scan(Options{ProjectPath: project})
	if err != nil {
		t.Fatalf("Scan returned an error: %v", err)
	}
	if len(result.Projects) != 1 {
		t.Fatalf("Projects = %d, want 1", len(result.Projects))
	}
	p := result.Projects[0]
	if len(p.Agents) != 1 || p.Agents[0].Name != "reviewer" {
		t.Fatalf("Agents = %+v, want one agent named reviewer", p.Agents)
	}
	if p.ClaudeMD != "# project rules" {
		t.Errorf("ClaudeMD = %q", p.ClaudeMD)
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
