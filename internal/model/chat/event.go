package chat

import "time"

// Kind tags an event in the log. The set is closed; an event never changes
// kind after creation.
type Kind string

const (
	KindUser          Kind = "user"
	KindUserRedacted  Kind = "user_redacted"
	KindAI            Kind = "ai"
	KindError         Kind = "error"
	KindSecurityBlock Kind = "security_block"
)

// Sentinel author identifiers for events not written by a real user.
const (
	AuthorAIAssistant   = "ai-assistant"
	AuthorProxySecurity = "proxy-security"
)

// Event is an immutable record appended to the chat log. Insertion order is
// delivery order.
type Event struct {
	ID            string    `json:"id"`
	AuthorID      string    `json:"authorId"`
	DisplayName   string    `json:"displayName"`
	Body          string    `json:"body"`
	CreatedAt     time.Time `json:"createdAt"`
	Kind          Kind      `json:"kind"`
	BlockCategory BlockType `json:"blockCategory,omitempty"`
	Reason        string    `json:"reason,omitempty"`
}
