package cursor

import (
	"testing"

	"github.com/grokify/aiassistbridge/canon"
	"github.com/grokify/aiassistbridge/scanner/cursor"
)

func TestToCanonicalHistoryDropsEmptySessions(t *testing.T) {
	sessions := []cursor.CursorHistorySession{
		{
			ComposerID:    "abc123",
			WorkspacePath: "/repo",
			Messages: []cursor.CursorHistoryMessage{
				{Role: canon.RoleUser, Text: ""},
			},
		},
		{
			ComposerID:    "def456",
			WorkspacePath: "/repo",
			Messages: []cursor.CursorHistoryMessage{
				{Role: canon.RoleUser, Text: "fix the bug"},
				{Role: canon.RoleAssistant, Text: "done"},
			},
		},
	}
	out := ToCanonicalHistory(sessions)
	if len(out) != 1 {
		t.Fatalf("ToCanonicalHistory = %d sessions, want 1 after dropping the empty one", len(out))
	}
	if err := out[0].Validate(); err != nil {
		t.Errorf("converted session violates invariants: %v", err)
	}
}
