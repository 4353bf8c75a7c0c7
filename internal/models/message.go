package models

// Role is the author of a transcript message
type Role string

const (
	RoleSystem    Role = "system"
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
)

// Valid reports whether r is one of the three transcript roles
func (r Role) Valid() bool {
	switch r {
	case RoleSystem, RoleUser, RoleAssistant:
		return true
	}
	return false
}

// Message is a single role-tagged transcript entry
type Message struct {
	Role    Role   `json:"role"`
	Content string `json:"content"`
}

// Visible returns the messages a user may see: everything except system messages.
func Visible(messages []Message) []Message {
	visible := make([]Message, 0, len(messages))
	for _, m := range messages {
		if m.Role == RoleSystem {
			continue
		}
		visible = append(visible, m)
	}
	return visible
}
