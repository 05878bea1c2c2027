// Package modelid implements the model-id translator of spec.md §4.6,
// grounded on the tiered-model vocabulary in
// randalmurphal-llmkit/model/names.go (opus/sonnet/haiku tiers) and
// generalized to the OpenCode provider/model-id qualification scheme.
package modelid

import (
	"regexp"
	"strings"
)

// aliasTable is the fixed table from spec.md §4.6. Values already carry
// the provider prefix.
var aliasTable = map[string]string{
	"opus":   "anthropic/claude-opus-4-6",
	"sonnet": "anthropic/claude-sonnet-4-5",
	"haiku":  "anthropic/claude-3-5-haiku-20241022",

	"claude-opus-4-6":                 "anthropic/claude-opus-4-6",
	"claude-sonnet-4-5":               "anthropic/claude-sonnet-4-5",
	"claude-3-5-haiku-20241022":       "anthropic/claude-3-5-haiku-20241022",
	"claude-3-5-sonnet-20241022":      "anthropic/claude-3-5-sonnet-20241022",
	"claude-3-opus-20240229":          "anthropic/claude-3-opus-20240229",
}

var bedrockIDRe = regexp.MustCompile(`^((us|eu|ap|global)\.)?anthropic\.`)

// Env is the subset of process environment the provider-detection step
// consults (spec.md §4.6).
type Env struct {
	UseBedrock string // CLAUDE_CODE_USE_BEDROCK
	UseVertex  string // CLAUDE_CODE_USE_VERTEX
}

// DetectProvider implements spec.md §4.6's provider-detection rule:
//
//	env.CLAUDE_CODE_USE_BEDROCK=="1" => amazon-bedrock
//	env.CLAUDE_CODE_USE_VERTEX=="1"  => google-vertex
//	id matches bedrock-style prefix  => amazon-bedrock
//	else                              => anthropic
func DetectProvider(env Env, id string) string {
	if env.UseBedrock == "1" {
		return "amazon-bedrock"
	}
	if env.UseVertex == "1" {
		return "google-vertex"
	}
	if bedrockIDRe.MatchString(id) {
		return "amazon-bedrock"
	}
	return "anthropic"
}

// Translate implements the full algorithm from spec.md §4.6:
//  1. overrides[id] if present.
//  2. id containing "/" passes through unchanged (already qualified).
//  3. the fixed alias table (direct alias wins over provider hint,
//     spec.md §9's resolved open question / Scenario 3).
//  4. bedrock-style id prefix => amazon-bedrock/<id>.
//  5. "claude-" prefix => anthropic/<id>.
//  6. fallback: <provider or "anthropic">/<id>.
func Translate(id string, provider string, overrides map[string]string) string {
	if v, ok := overrides[id]; ok {
		return v
	}
	if strings.Contains(id, "/") {
		return id
	}
	if v, ok := aliasTable[id]; ok {
		return v
	}
	if bedrockIDRe.MatchString(id) {
		return "amazon-bedrock/" + id
	}
	if strings.HasPrefix(id, "claude-") {
		return "anthropic/" + id
	}
	if provider == "" {
		provider = "anthropic"
	}
	return provider + "/" + id
}

// SuggestSmallModel derives a "small model" suggestion from the main
// model's provider prefix (spec.md §4.6). qualifiedModel must already be
// provider-qualified (contain "/").
func SuggestSmallModel(qualifiedModel string) string {
	provider, _, ok := strings.Cut(qualifiedModel, "/")
	if !ok {
		provider = "anthropic"
	}
	switch provider {
	case "amazon-bedrock":
		return "amazon-bedrock/anthropic.claude-3-5-haiku-20241022-v1:0"
	case "google-vertex":
		return "google-vertex/claude-3-5-haiku@20241022"
	default:
		return "anthropic/claude-3-5-haiku-20241022"
	}
}
