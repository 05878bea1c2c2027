package cursor

import (
	"github.com/grokify/aiassistbridge/canon"
	"github.com/grokify/aiassistbridge/convert/history"
)

// ToConvertedSession projects a CursorHistorySession through the
// format-agnostic history converter (spec.md §4.4's "History
// converter"): thinking blocks, then text, then tool results, appended
// in that order within each bubble.
func ToConvertedSession(sess CursorHistorySession) (canon.ConvertedSession, bool) {
	messages := make([]history.RawMessage, 0, len(sess.Messages))
	for _, m := range sess.Messages {
		var parts []history.RawPart
		for _, t := range m.ThinkingBlocks {
			parts = append(parts, history.RawPart{Type: canon.PartReasoning, Content: t})
		}
		if m.Text != "" {
			parts = append(parts, history.RawPart{Type: canon.PartText, Content: m.Text})
		}
		for _, tr := range m.ToolResults {
			parts = append(parts, history.RawPart{Type: canon.PartToolResult, Content: tr})
		}
		messages = append(messages, history.RawMessage{
			Role:  m.Role,
			Parts: parts,
			Time:  canon.TimePair{Created: m.CreatedAt, Updated: m.CreatedAt},
		})
	}

	var created, updated int64 = sess.CreatedAt, sess.UpdatedAt
	return history.ConvertSession(sess.WorkspacePath, "cursor", sess.ComposerID, sess.WorkspacePath, messages, created, updated, "")
}
