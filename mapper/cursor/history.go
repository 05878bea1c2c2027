package cursor

import (
	"github.com/grokify/aiassistbridge/canon"
	"github.com/grokify/aiassistbridge/scanner/cursor"
)

// ToCanonicalHistory projects scanned Cursor composer sessions through
// the history converter, dropping any session left with zero parts.
func ToCanonicalHistory(sessions []cursor.CursorHistorySession) []canon.ConvertedSession {
	var out []canon.ConvertedSession
	for _, s := range sessions {
		if converted, ok := cursor.ToConvertedSession(s); ok {
			out = append(out, converted)
		}
	}
	return out
}
