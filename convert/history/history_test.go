package history

import (
	"strings"
	"testing"

	"github.com/grokify/aiassistbridge/canon"
)

func TestProjectIDIsStableAndSixteenHexChars(t *testing.T) {
	a := ProjectID("/Users/dev/repo")
	b := ProjectID("/Users/dev/repo")
	if a != b {
		t.Errorf("ProjectID is not deterministic: %q != %q", a, b)
	}
	if len(a) != 16 {
		t.Errorf("ProjectID length = %d, want 16", len(a))
	}
	if ProjectID("/other/repo") == a {
		t.Errorf("different project paths produced the same id")
	}
}

func TestSessionID(t *testing.T) {
	tests := []struct {
		prefix, sourceID, want string
	}{
		{"cursor", "abcdefgh12345", "ses_cursor_abcdefgh"},
		{"imported", "short", "ses_imported_short"},
	}
	for _, tt := range tests {
		if got := SessionID(tt.prefix, tt.sourceID); got != tt.want {
			t.Errorf("SessionID(%q, %q) = %q, want %q", tt.prefix, tt.sourceID, got, tt.want)
		}
	}
}

func TestSlugify(t *testing.T) {
	tests := []struct {
		title, want string
	}{
		{"Fix the Login Bug!", "fix-the-login-bug"},
		{"  leading and trailing  ", "leading-and-trailing"},
		{strings.Repeat("a", 60), strings.Repeat("a", 50)},
	}
	for _, tt := range tests {
		if got := Slugify(tt.title); got != tt.want {
			t.Errorf("Slugify(%q) = %q, want %q", tt.title, got, tt.want)
		}
	}
}

func TestTitleFallback(t *testing.T) {
	messages := []RawMessage{
		{Role: canon.RoleAssistant, Parts: []RawPart{{Type: canon.PartText, Content: "ignored"}}},
		{Role: canon.RoleUser, Parts: []RawPart{{Type: canon.PartText, Content: "fix the bug in the parser"}}},
	}
	if got := TitleFallback(messages); got != "fix the bug in the parser" {
		t.Errorf("TitleFallback = %q", got)
	}

	long := strings.Repeat("x", 90)
	messagesLong := []RawMessage{{Role: canon.RoleUser, Parts: []RawPart{{Type: canon.PartText, Content: long}}}}
	got := TitleFallback(messagesLong)
	if !strings.HasSuffix(got, "...") || len(got) != 83 {
		t.Errorf("TitleFallback long message = %q (len %d), want 80 chars + '...'", got, len(got))
	}

	if got := TitleFallback(nil); got != "Untitled chat" {
		t.Errorf("TitleFallback(nil) = %q, want \"Untitled chat\"", got)
	}
}

func TestConvertSessionDropsEmptyResult(t *testing.T) {
	messages := []RawMessage{{Role: canon.RoleUser, Parts: []RawPart{{Type: canon.PartText, Content: ""}}}}
	_, ok := ConvertSession("/repo", "imported", "sess-1", "/repo", messages, 0, 0, "")
	if ok {
		t.Errorf("expected a session with zero resulting parts to be dropped")
	}
}

func TestConvertSessionBuildsInvariantConsistentSession(t *testing.T) {
	messages := []RawMessage{
		{Role: canon.RoleUser, Parts: []RawPart{{Type: canon.PartText, Content: "hello"}}},
		{Role: canon.RoleAssistant, Parts: []RawPart{{Type: canon.PartText, Content: "hi there"}}},
	}
	session, ok := ConvertSession("/repo", "imported", "sess-1", "/repo", messages, 100, 200, "")
	if !ok {
		t.Fatalf("expected ok=true for a non-empty session")
	}
	if err := session.Validate(); err != nil {
		t.Errorf("ConvertSession produced an invariant-violating session: %v", err)
	}
	if len(session.Messages) != 2 {
		t.Fatalf("Messages = %d, want 2", len(session.Messages))
	}
}
