package canon

// MessageRole is who authored a converted chat message.
type MessageRole string

const (
	RoleUser      MessageRole = "user"
	RoleAssistant MessageRole = "assistant"
)

// PartType classifies one segment of a converted message (spec.md §3.10).
type PartType string

const (
	PartText           PartType = "text"
	PartReasoning      PartType = "reasoning"
	PartToolInvocation PartType = "tool-invocation"
	PartToolResult     PartType = "tool-result"
)

// Part is one segment of a message's content.
type Part struct {
	ID        string   `json:"id"`
	MessageID string   `json:"messageID"`
	Type      PartType `json:"type"`
	Content   string   `json:"content"`
}

// Message is one turn in a converted chat session.
type Message struct {
	ID        string      `json:"id"`
	SessionID string      `json:"sessionID"`
	Role      MessageRole `json:"role"`
	Time      TimePair    `json:"time"`
	Parts     []Part      `json:"parts"`
}

// TimePair carries creation/update timestamps, both Unix-millisecond
// epoch values to stay allocation- and timezone-free across formats.
type TimePair struct {
	Created int64 `json:"created"`
	Updated int64 `json:"updated"`
}

// Session is the per-session metadata half of a ConvertedSession.
type Session struct {
	ID        string   `json:"id"`
	Slug      string   `json:"slug"`
	Version   string   `json:"version"`
	ProjectID string   `json:"projectID"`
	Directory string   `json:"directory"`
	Title     string   `json:"title"`
	Time      TimePair `json:"time"`
	Summary   string   `json:"summary,omitempty"`
}

// ConvertedSession is the canonical chat-history unit (spec.md §3.10).
type ConvertedSession struct {
	ProjectID string    `json:"projectId"`
	Session   Session   `json:"session"`
	Messages  []Message `json:"messages"`
}

// Validate checks the invariants from spec.md §3.10 / §8:
//
//	session.projectID == projectId
//	every message.sessionID == session.id
//	every part.messageID == message.id
func (c ConvertedSession) Validate() error {
	if c.Session.ProjectID != c.ProjectID {
		return &HistoryInvariantError{Reason: "session.projectID does not match ConvertedSession.ProjectID"}
	}
	for _, m := range c.Messages {
		if m.SessionID != c.Session.ID {
			return &HistoryInvariantError{Reason: "message.sessionID does not match session.id"}
		}
		for _, p := range m.Parts {
			if p.MessageID != m.ID {
				return &HistoryInvariantError{Reason: "part.messageID does not match message.id"}
			}
		}
	}
	return nil
}

// HistoryInvariantError signals a violated chat-history invariant. These
// are programmer errors (a converter building a malformed session), not
// data defects, so unlike the rest of the pipeline they are real errors
// rather than report entries.
type HistoryInvariantError struct {
	Reason string
}

func (e *HistoryInvariantError) Error() string {
	return "chat history invariant violated: " + e.Reason
}
