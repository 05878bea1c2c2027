package codec

import (
	"encoding/json"
	"testing"
)

func TestStripJSONCComments(t *testing.T) {
	input := []byte(`{
  // a line comment
  "a": 1, /* inline block */
  "b": [1, 2, 3], // trailing
}`)
	var out map[string]any
	if err := json.Unmarshal(StripJSONC(input), &out); err != nil {
		t.Fatalf("json.Unmarshal(StripJSONC(...)) error: %v; stripped = %s", err, StripJSONC(input))
	}
	if out["a"].(float64) != 1 {
		t.Errorf("a = %v, want 1", out["a"])
	}
	list, ok := out["b"].([]any)
	if !ok || len(list) != 3 {
		t.Errorf("b = %v, want [1 2 3]", out["b"])
	}
}

func TestStripJSONCDoesNotTouchStringContent(t *testing.T) {
	input := []byte(`{"url": "https://example.com // not a comment", "note": "trailing comma, literally"}`)
	stripped := StripJSONC(input)
	var out map[string]any
	if err := json.Unmarshal(stripped, &out); err != nil {
		t.Fatalf("StripJSONC corrupted string content: %v; stripped = %s", err, stripped)
	}
	if out["url"] != "https://example.com // not a comment" {
		t.Errorf("url = %v, want the string preserved verbatim", out["url"])
	}
}

func TestUnmarshalJSONC(t *testing.T) {
	input := []byte(`{
  "mcpServers": {
    "fs": {"command": "npx"}, // github server
  },
}`)
	var out struct {
		McpServers map[string]struct {
			Command string `json:"command"`
		} `json:"mcpServers"`
	}
	if err := UnmarshalJSONC(input, &out); err != nil {
		t.Fatalf("UnmarshalJSONC error: %v", err)
	}
	if out.McpServers["fs"].Command != "npx" {
		t.Errorf("fs.command = %q, want npx", out.McpServers["fs"].Command)
	}
}
