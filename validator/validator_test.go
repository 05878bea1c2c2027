package validator

import (
	"testing"

	"github.com/grokify/aiassistbridge/canon"
)

func newResult() *canon.ConversionResult {
	return canon.NewConversionResult(canon.ClaudeCode, canon.OpenCode)
}

func TestValidateOkOnEmptyResult(t *testing.T) {
	r := Validate(newResult())
	if !r.Valid {
		t.Errorf("empty result should be valid, got errors: %v", r.Errors)
	}
}

func TestValidateModelMissingProviderPrefix(t *testing.T) {
	result := newResult()
	result.GlobalConfig["model"] = "claude-opus-4-6"
	r := Validate(result)
	if r.Valid {
		t.Fatalf("expected invalid for an unqualified model id")
	}
	if len(r.Errors) != 1 {
		t.Errorf("errors = %v, want exactly one", r.Errors)
	}
}

func TestValidateModelWithProviderPrefixOk(t *testing.T) {
	result := newResult()
	result.GlobalConfig["model"] = "anthropic/claude-opus-4-6"
	r := Validate(result)
	if !r.Valid {
		t.Errorf("expected valid, got errors: %v", r.Errors)
	}
}

func TestValidateMcpMissingURLAndCommand(t *testing.T) {
	result := newResult()
	result.GlobalConfig["mcp"] = map[string]any{
		"broken": map[string]any{"type": "remote"},
	}
	r := Validate(result)
	if r.Valid {
		t.Fatalf("expected invalid for an mcp server with neither url nor command")
	}
}

func TestValidateMcpEmbeddedSecretWarns(t *testing.T) {
	result := newResult()
	result.GlobalConfig["mcp"] = map[string]any{
		"sentry": map[string]any{"url": "https://mcp.sentry.dev/mcp?token=abc"},
	}
	r := Validate(result)
	if !r.Valid {
		t.Errorf("embedded secret should warn, not invalidate: %v", r.Errors)
	}
	if len(r.Warnings) == 0 {
		t.Errorf("expected a warning for the embedded-credential url")
	}
}

func TestValidateMcpServersWrapperShape(t *testing.T) {
	result := newResult()
	result.GlobalConfig["mcpServers"] = map[string]any{
		"mcpServers": map[string]any{
			"fs": map[string]any{"command": "npx"},
		},
	}
	r := Validate(result)
	if !r.Valid {
		t.Errorf("wrapped mcpServers shape should validate cleanly: %v", r.Errors)
	}
}

func TestValidatePermissionInvalidAction(t *testing.T) {
	result := newResult()
	result.GlobalConfig["permission"] = map[string]any{
		"bash": "maybe",
	}
	r := Validate(result)
	if r.Valid {
		t.Fatalf("expected invalid for an unrecognized permission action")
	}
}

func TestValidatePermissionNestedAction(t *testing.T) {
	result := newResult()
	result.GlobalConfig["permission"] = map[string]any{
		"bash": map[string]any{"rm *": "deny", "*": "allow"},
	}
	r := Validate(result)
	if !r.Valid {
		t.Errorf("expected valid nested permission actions: %v", r.Errors)
	}
}

func TestValidateAgentFrontmatterRanges(t *testing.T) {
	result := newResult()
	result.Agents["reviewer.md"] = "---\n" +
		"mode: not-a-mode\n" +
		"temperature: 3.5\n" +
		"steps: 2.5\n" +
		"model: bare-model-id\n" +
		"---\n" +
		"body"
	r := Validate(result)
	if r.Valid {
		t.Fatalf("expected multiple invalid fields to mark the result invalid")
	}
	if len(r.Errors) != 4 {
		t.Errorf("errors = %v, want 4 (mode, temperature, steps, model)", r.Errors)
	}
}

func TestValidateAgentFrontmatterOkWithIntegerSteps(t *testing.T) {
	result := newResult()
	result.Agents["reviewer.md"] = "---\n" +
		"mode: subagent\n" +
		"temperature: 0.3\n" +
		"steps: 25\n" +
		"model: anthropic/claude-opus-4-6\n" +
		"---\n" +
		"body"
	r := Validate(result)
	if !r.Valid {
		t.Errorf("expected valid agent frontmatter, got errors: %v", r.Errors)
	}
}

func TestValidateProviderSecretWarnsUnlessEnvWrapped(t *testing.T) {
	result := newResult()
	result.GlobalConfig["provider"] = map[string]any{
		"anthropic": map[string]any{
			"apiKey": "sk-ant-raw-value",
		},
	}
	r := Validate(result)
	if len(r.Warnings) == 0 {
		t.Errorf("expected a warning for a raw secret-like provider value")
	}

	result2 := newResult()
	result2.GlobalConfig["provider"] = map[string]any{
		"anthropic": map[string]any{
			"apiKey": "{env:ANTHROPIC_API_KEY}",
		},
	}
	r2 := Validate(result2)
	if len(r2.Warnings) != 0 {
		t.Errorf("expected no warning for an {env:} wrapped value, got: %v", r2.Warnings)
	}
}

func TestValidateFrontmatterPresent(t *testing.T) {
	result := newResult()
	result.Agents["reviewer.md"] = "# no frontmatter here"
	r := Validate(result)
	if r.Valid {
		t.Fatalf("expected invalid for an agent file missing frontmatter")
	}

	result2 := newResult()
	result2.Commands["ok.md"] = "---\ndescription: ok\n---\nbody"
	r2 := Validate(result2)
	if !r2.Valid {
		t.Errorf("expected valid for a command file with frontmatter: %v", r2.Errors)
	}
}

func TestValidateProjectConfigsAreChecked(t *testing.T) {
	result := newResult()
	result.ProjectConfigs["/repo/a"] = map[string]any{"model": "unqualified"}
	r := Validate(result)
	if r.Valid {
		t.Fatalf("expected project config validation to surface the same errors as global")
	}
}
