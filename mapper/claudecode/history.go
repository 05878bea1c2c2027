package claudecode

import (
	"encoding/json"
	"fmt"

	"github.com/grokify/aiassistbridge/canon"
	"github.com/grokify/aiassistbridge/convert/history"
)

// sessionLine mirrors one line of a Claude Code session transcript
// JSONL file (spec.md §4.4): the outer envelope carries type and a
// nested Anthropic-shaped message for "user"/"assistant" lines.
type sessionLine struct {
	Type    string          `json:"type"`
	Message json.RawMessage `json:"message"`
}

type anthropicMessage struct {
	Role    string          `json:"role"`
	Content json.RawMessage `json:"content"`
}

// contentBlock covers the union of block shapes spec.md §4.4 names:
// text, thinking, tool_use, tool_result.
type contentBlock struct {
	Type      string          `json:"type"`
	Text      string          `json:"text"`
	Thinking  string          `json:"thinking"`
	ID        string          `json:"id"`
	Name      string          `json:"name"`
	Input     json.RawMessage `json:"input"`
	ToolUseID string          `json:"tool_use_id"`
	Content   json.RawMessage `json:"content"`
}

// decodeSessionLines turns raw Claude Code JSONL lines into the
// format-agnostic history.RawMessage sequence the converter expects,
// skipping "summary" and "file-history-snapshot" lines (they carry no
// message content) and any line that fails to parse.
func decodeSessionLines(lines []json.RawMessage) []history.RawMessage {
	var messages []history.RawMessage
	for _, line := range lines {
		var envelope sessionLine
		if json.Unmarshal(line, &envelope) != nil {
			continue
		}
		if envelope.Type != "user" && envelope.Type != "assistant" {
			continue
		}
		var msg anthropicMessage
		if json.Unmarshal(envelope.Message, &msg) != nil {
			continue
		}

		role := canon.RoleUser
		if msg.Role == "assistant" {
			role = canon.RoleAssistant
		}

		parts := decodeContent(msg.Content)
		if len(parts) == 0 {
			continue
		}
		messages = append(messages, history.RawMessage{Role: role, Parts: parts})
	}
	return messages
}

// decodeContent handles both the plain-string and block-array shapes
// Anthropic's "content" field can take.
func decodeContent(raw json.RawMessage) []history.RawPart {
	if len(raw) == 0 {
		return nil
	}

	var asString string
	if json.Unmarshal(raw, &asString) == nil {
		if asString == "" {
			return nil
		}
		return []history.RawPart{{Type: canon.PartText, Content: asString}}
	}

	var blocks []contentBlock
	if json.Unmarshal(raw, &blocks) != nil {
		return nil
	}

	var parts []history.RawPart
	for _, b := range blocks {
		switch b.Type {
		case "text":
			if b.Text != "" {
				parts = append(parts, history.RawPart{Type: canon.PartText, Content: b.Text})
			}
		case "thinking":
			if b.Thinking != "" {
				parts = append(parts, history.RawPart{Type: canon.PartReasoning, Content: b.Thinking})
			}
		case "tool_use":
			content := fmt.Sprintf(`{"name":%q,"input":%s,"toolCallId":%q}`, b.Name, rawOrNull(b.Input), b.ID)
			parts = append(parts, history.RawPart{Type: canon.PartToolInvocation, Content: content})
		case "tool_result":
			parts = append(parts, history.RawPart{Type: canon.PartToolResult, Content: string(b.Content)})
		}
	}
	return parts
}

func rawOrNull(raw json.RawMessage) json.RawMessage {
	if len(raw) == 0 {
		return json.RawMessage("null")
	}
	return raw
}
