package codec

import (
	"reflect"
	"testing"
)

func TestParseFrontmatterStrict(t *testing.T) {
	content := []byte("---\ndescription: a reviewer\nmodel: anthropic/claude-opus-4-6\n---\nYou are a reviewer.\n")
	fm, body := ParseFrontmatter(content)
	if fm["description"] != "a reviewer" {
		t.Errorf("fm[description] = %v, want %q", fm["description"], "a reviewer")
	}
	if fm["model"] != "anthropic/claude-opus-4-6" {
		t.Errorf("fm[model] = %v, want the qualified model id", fm["model"])
	}
	if body != "You are a reviewer.\n" {
		t.Errorf("body = %q", body)
	}
}

func TestParseFrontmatterNoBlock(t *testing.T) {
	content := []byte("just a plain markdown file\n")
	fm, body := ParseFrontmatter(content)
	if fm != nil {
		t.Errorf("fm = %v, want nil for content with no frontmatter block", fm)
	}
	if body != string(content) {
		t.Errorf("body = %q, want content unchanged", body)
	}
}

func TestParseFrontmatterLenientFallback(t *testing.T) {
	// Malformed YAML (an unclosed flow sequence) should fall back to the
	// line-split coercion path rather than error out.
	content := []byte("---\ndescription: [unterminated\nsteps: 3\nenabled: true\n---\nbody\n")
	fm, _ := ParseFrontmatter(content)
	if fm["steps"] != int64(3) {
		t.Errorf("fm[steps] = %v (%T), want int64(3)", fm["steps"], fm["steps"])
	}
	if fm["enabled"] != true {
		t.Errorf("fm[enabled] = %v, want true", fm["enabled"])
	}
}

func TestSerializeFrontmatterRoundTrip(t *testing.T) {
	fm := map[string]any{"description": "a reviewer", "model": "anthropic/claude-opus-4-6"}
	out, err := SerializeFrontmatter(fm, "You are a reviewer.")
	if err != nil {
		t.Fatalf("SerializeFrontmatter error: %v", err)
	}
	gotFM, gotBody := ParseFrontmatter(out)
	if !reflect.DeepEqual(gotFM, fm) {
		t.Errorf("round-tripped frontmatter = %v, want %v", gotFM, fm)
	}
	if gotBody != "\nYou are a reviewer.\n" {
		t.Errorf("round-tripped body = %q", gotBody)
	}
}

func TestExtractBody(t *testing.T) {
	content := []byte("---\ndescription: x\n---\nbody text\n")
	if got := ExtractBody(content); got != "body text\n" {
		t.Errorf("ExtractBody = %q, want %q", got, "body text\n")
	}
	plain := []byte("no frontmatter here")
	if got := ExtractBody(plain); got != string(plain) {
		t.Errorf("ExtractBody on plain content = %q, want unchanged", got)
	}
}

func TestStringList(t *testing.T) {
	tests := []struct {
		name string
		in   any
		want []string
	}{
		{"nil", nil, nil},
		{"comma string", "Read, Edit, Bash", []string{"Read", "Edit", "Bash"}},
		{"empty string", "", nil},
		{"string slice", []string{"a", "b"}, []string{"a", "b"}},
		{"any slice", []any{"a", "b"}, []string{"a", "b"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := StringList(tt.in)
			if !reflect.DeepEqual(got, tt.want) {
				t.Errorf("StringList(%v) = %v, want %v", tt.in, got, tt.want)
			}
		})
	}
}

func TestJoinGlobs(t *testing.T) {
	if got := JoinGlobs([]string{"*.go", "*.ts"}); got != "*.go,*.ts" {
		t.Errorf("JoinGlobs = %q, want %q", got, "*.go,*.ts")
	}
}
