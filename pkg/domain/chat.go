package domain

import "time"

type Role string

const (
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
)

// Message is one entry of the conversation log. Timestamp doubles as the
// entry identifier within a session.
type Message struct {
	Role      Role
	Content   string
	Timestamp time.Time

	// Thinking and Final are only set on assistant messages. When Final is
	// set it is rendered instead of Content.
	Thinking string
	Final    string

	// Error marks an assistant entry that reports a failed round trip.
	Error bool
}

func (m Message) IsStructured() bool {
	return m.Role == RoleAssistant && (m.Thinking != "" || m.Final != "")
}

// Body returns the text a renderer should show as the main body.
func (m Message) Body() string {
	if m.Role == RoleAssistant && m.Final != "" {
		return m.Final
	}
	return m.Content
}
