// Package history implements the format-agnostic chat-history converter
// of spec.md §4.4 ("History converter") and the analogous Claude Code
// JSONL converter. Both the Cursor scanner and the Claude Code scanner
// feed their raw, format-specific message sequences through the single
// ConvertSession entry point so the session/part/id invariants (spec.md
// §3.10) are enforced in exactly one place.
package history

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"regexp"
	"strings"

	"github.com/grokify/aiassistbridge/canon"
)

// RawPart is one piece of raw, format-specific message content, already
// classified into a canon.PartType by the caller (the Cursor or Claude
// Code scanner knows its own wire format).
type RawPart struct {
	Type    canon.PartType
	Content string
}

// RawMessage is one turn in a source-format chat transcript, reduced to
// the shape the converter needs.
type RawMessage struct {
	Role  canon.MessageRole
	Parts []RawPart
	Time  canon.TimePair
}

// ProjectID returns the first 16 hex chars of SHA-256(projectPath),
// spec.md §3.10's projectId derivation.
func ProjectID(projectPath string) string {
	sum := sha256.Sum256([]byte(projectPath))
	return hex.EncodeToString(sum[:])[:16]
}

// SessionID derives a deterministic session id from a source identifier,
// spec.md §3.10: "ses_cursor_<first-8-of-composerId>" or
// "ses_imported_<first-8-of-sessionId>". prefix is "cursor" or
// "imported"; sourceID is the composerId / sessionId.
func SessionID(prefix, sourceID string) string {
	short := sourceID
	if len(short) > 8 {
		short = short[:8]
	}
	return fmt.Sprintf("ses_%s_%s", prefix, short)
}

var nonSlugRe = regexp.MustCompile(`[^a-z0-9]+`)

// Slugify implements spec.md §4.4's slug rule: lowercase, [^a-z0-9]+ ->
// "-", strip leading/trailing "-", <=50 chars.
func Slugify(title string) string {
	s := nonSlugRe.ReplaceAllString(strings.ToLower(title), "-")
	s = strings.Trim(s, "-")
	if len(s) > 50 {
		s = s[:50]
	}
	return s
}

// TitleFallback implements spec.md §4.4's title derivation: the first
// <=80-char trimmed user message, "..."-truncated if longer, else
// "Untitled chat".
func TitleFallback(messages []RawMessage) string {
	for _, m := range messages {
		if m.Role != canon.RoleUser {
			continue
		}
		text := firstTextPart(m)
		text = strings.TrimSpace(text)
		if text == "" {
			continue
		}
		if len(text) > 80 {
			return text[:80] + "..."
		}
		return text
	}
	return "Untitled chat"
}

func firstTextPart(m RawMessage) string {
	for _, p := range m.Parts {
		if p.Type == canon.PartText {
			return p.Content
		}
	}
	return ""
}

// ConvertSession builds a canon.ConvertedSession from a raw message
// sequence, appending parts in order within each message (thinking ->
// reasoning, text -> text, tool results -> tool-result, per spec.md
// §4.4). It returns ok=false when the session has zero resulting parts,
// per spec.md §4.4: "Session with zero resulting parts is dropped."
func ConvertSession(projectPath, idPrefix, sourceID, directory string, messages []RawMessage, created, updated int64, summary string) (canon.ConvertedSession, bool) {
	projectID := ProjectID(projectPath)
	sessionID := SessionID(idPrefix, sourceID)
	title := TitleFallback(messages)

	out := canon.ConvertedSession{
		ProjectID: projectID,
		Session: canon.Session{
			ID:        sessionID,
			Slug:      Slugify(title),
			Version:   "imported",
			ProjectID: projectID,
			Directory: directory,
			Title:     title,
			Time:      canon.TimePair{Created: created, Updated: updated},
			Summary:   summary,
		},
	}

	totalParts := 0
	for mi, rm := range messages {
		msgID := fmt.Sprintf("%s_msg%d", sessionID, mi)
		msg := canon.Message{ID: msgID, SessionID: sessionID, Role: rm.Role, Time: rm.Time}
		for pi, rp := range rm.Parts {
			if rp.Content == "" {
				continue
			}
			msg.Parts = append(msg.Parts, canon.Part{
				ID:        fmt.Sprintf("%s_part%d", msgID, pi),
				MessageID: msgID,
				Type:      rp.Type,
				Content:   rp.Content,
			})
		}
		totalParts += len(msg.Parts)
		if len(msg.Parts) > 0 {
			out.Messages = append(out.Messages, msg)
		}
	}

	if totalParts == 0 {
		return canon.ConvertedSession{}, false
	}
	return out, true
}
