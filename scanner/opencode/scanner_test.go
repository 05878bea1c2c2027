package opencode

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/grokify/aiassistbridge/pathresolver"
)

func TestScanReadsJSONCConfig(t *testing.T) {
	env := pathresolver.Env{Home: t.TempDir()}
	path := pathresolver.OpenCodeGlobalConfigJSON(env)
	mustWriteFile(t, path, "{\n  // a comment\n  \"model\": \"anthropic/claude-opus-4-6\"\n}")

	result, err := Scan(Options{Env: env, Global: true})
	if err != nil {
		t.Fatalf("Scan returned an error: %v", err)
	}
	if result.Config == nil || result.Config.Model != "anthropic/claude-opus-4-6" {
		t.Fatalf("Config = %+v, want model set despite the JSONC comment", result.Config)
	}
}

func TestScanProjectReadsAgentsMD(t *testing.T) {
	project := t.TempDir()
	mustWriteFile(t, pathresolver.OpenCodeProjectAgentsMD(project), "# conventions")

	result, err := Scan(Options{ProjectPath: project})
	if err != nil {
		t.Fatalf("Scan returned an error: %v", err)
	}
	if len(result.Projects) != 1 || result.Projects[0].AgentsMD != "# conventions" {
		t.Fatalf("Projects = %+v, want one project with AGENTS.md content", result.Projects)
	}
}

func TestScanMissingConfigIsNotAnError(t *testing.T) {
	env := pathresolver.Env{Home: t.TempDir()}
	result, err := Scan(Options{Env: env, Global: true})
	if err != nil {
		t.Fatalf("Scan on an empty home returned an error: %v", err)
	}
	if result.Config != nil {
		t.Errorf("Config = %+v, want nil when opencode.json is absent", result.Config)
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
