package writer

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/grokify/aiassistbridge/canon"
)

func newResult(t *testing.T) (*canon.ConversionResult, string) {
	t.Helper()
	dir := t.TempDir()
	r := canon.NewConversionResult(canon.ClaudeCode, canon.OpenCode)
	r.GlobalConfigPath = filepath.Join(dir, "opencode.json")
	r.GlobalConfig = map[string]any{"model": "anthropic/claude-opus-4-6"}
	r.Agents[filepath.Join(dir, "agents", "reviewer.md")] = "---\ndescription: reviewer\n---\nbody"
	return r, dir
}

func TestWriteWritesAllFiles(t *testing.T) {
	result, dir := newResult(t)
	out, err := Write(result, Options{})
	if err != nil {
		t.Fatalf("Write error: %v", err)
	}
	if len(out.FilesWritten) != 2 {
		t.Fatalf("FilesWritten = %v, want 2 entries", out.FilesWritten)
	}
	raw, err := os.ReadFile(filepath.Join(dir, "opencode.json"))
	if err != nil {
		t.Fatalf("config not written: %v", err)
	}
	var cfg map[string]any
	json.Unmarshal(raw, &cfg)
	if cfg["model"] != "anthropic/claude-opus-4-6" {
		t.Errorf("written config = %v", cfg)
	}
}

func TestWriteDryRunTouchesNothing(t *testing.T) {
	result, dir := newResult(t)
	out, err := Write(result, Options{DryRun: true})
	if err != nil {
		t.Fatalf("Write error: %v", err)
	}
	if len(out.FilesWritten) != 2 {
		t.Errorf("dry-run FilesWritten = %v, want 2 reported (but not created)", out.FilesWritten)
	}
	if _, err := os.Stat(filepath.Join(dir, "opencode.json")); !os.IsNotExist(err) {
		t.Errorf("dry-run should not create the config file, stat err = %v", err)
	}
}

func TestWriteOverwriteSkipsExistingWithoutForce(t *testing.T) {
	result, dir := newResult(t)
	os.WriteFile(result.GlobalConfigPath, []byte(`{"model":"old"}`), 0o644)

	out, err := Write(result, Options{MergeStrategy: MergeOverwrite})
	if err != nil {
		t.Fatalf("Write error: %v", err)
	}
	if len(out.FilesSkipped) != 1 || out.FilesSkipped[0] != result.GlobalConfigPath {
		t.Errorf("FilesSkipped = %v, want the existing config path skipped", out.FilesSkipped)
	}

	raw, _ := os.ReadFile(filepath.Join(dir, "opencode.json"))
	var cfg map[string]any
	json.Unmarshal(raw, &cfg)
	if cfg["model"] != "old" {
		t.Errorf("existing config should be untouched without --force, got %v", cfg)
	}
}

func TestWriteOverwriteWithForce(t *testing.T) {
	result, _ := newResult(t)
	os.WriteFile(result.GlobalConfigPath, []byte(`{"model":"old","extra":"keep-me"}`), 0o644)

	out, err := Write(result, Options{MergeStrategy: MergeOverwrite, Force: true})
	if err != nil {
		t.Fatalf("Write error: %v", err)
	}
	if len(out.FilesWritten) != 2 {
		t.Fatalf("FilesWritten = %v, want 2", out.FilesWritten)
	}
	raw, _ := os.ReadFile(result.GlobalConfigPath)
	var cfg map[string]any
	json.Unmarshal(raw, &cfg)
	if cfg["model"] != "anthropic/claude-opus-4-6" {
		t.Errorf("forced overwrite should apply the new model, got %v", cfg)
	}
	if cfg["extra"] != "keep-me" {
		t.Errorf("overwriteMerge should still carry over keys incoming doesn't touch, got %v", cfg)
	}
}

func TestWritePreserveExistingKeepsExistingValue(t *testing.T) {
	result, _ := newResult(t)
	os.WriteFile(result.GlobalConfigPath, []byte(`{"model":"user-pinned-model"}`), 0o644)

	_, err := Write(result, Options{MergeStrategy: MergePreserve})
	if err != nil {
		t.Fatalf("Write error: %v", err)
	}
	raw, _ := os.ReadFile(result.GlobalConfigPath)
	var cfg map[string]any
	json.Unmarshal(raw, &cfg)
	if cfg["model"] != "user-pinned-model" {
		t.Errorf("preserve-existing should keep the user's value, got %v", cfg["model"])
	}
}

func TestWriteRecursiveMergeUnionsArrays(t *testing.T) {
	result, _ := newResult(t)
	result.GlobalConfig = map[string]any{"tags": []any{"b", "c"}}
	os.WriteFile(result.GlobalConfigPath, []byte(`{"tags":["a","b"]}`), 0o644)

	_, err := Write(result, Options{MergeStrategy: MergeRecursive})
	if err != nil {
		t.Fatalf("Write error: %v", err)
	}
	raw, _ := os.ReadFile(result.GlobalConfigPath)
	var cfg map[string]any
	json.Unmarshal(raw, &cfg)
	tags, ok := cfg["tags"].([]any)
	if !ok || len(tags) != 3 {
		t.Fatalf("merged tags = %v, want [a b c]", cfg["tags"])
	}
	want := []string{"a", "b", "c"}
	for i, v := range tags {
		if v.(string) != want[i] {
			t.Errorf("tags[%d] = %v, want %q", i, v, want[i])
		}
	}
}

func TestWriteTextSkipsExistingWithoutForce(t *testing.T) {
	result, _ := newResult(t)
	agentPath := filepath.Join(filepath.Dir(result.GlobalConfigPath), "agents", "reviewer.md")
	os.MkdirAll(filepath.Dir(agentPath), 0o755)
	os.WriteFile(agentPath, []byte("existing content"), 0o644)

	out, err := Write(result, Options{})
	if err != nil {
		t.Fatalf("Write error: %v", err)
	}
	found := false
	for _, p := range out.FilesSkipped {
		if p == agentPath {
			found = true
		}
	}
	if !found {
		t.Errorf("FilesSkipped = %v, want agent path skipped since it already exists", out.FilesSkipped)
	}
	content, _ := os.ReadFile(agentPath)
	if string(content) != "existing content" {
		t.Errorf("existing agent file was overwritten without --force")
	}
}

func TestWriteIdempotentWithPreserveStrategy(t *testing.T) {
	result, _ := newResult(t)
	first, err := Write(result, Options{MergeStrategy: MergePreserve})
	if err != nil {
		t.Fatalf("first Write error: %v", err)
	}
	second, err := Write(result, Options{MergeStrategy: MergePreserve})
	if err != nil {
		t.Fatalf("second Write error: %v", err)
	}
	// The second run merges into the existing config and skips the agent
	// file, which already exists while Force is off.
	if len(first.FilesWritten) != len(second.FilesWritten)+len(second.FilesSkipped) {
		t.Errorf("re-running Write with the same result should touch the same file set (written or skipped): first=%v second=%v skipped=%v", first.FilesWritten, second.FilesWritten, second.FilesSkipped)
	}
}
