package chat

// EventType 会话事件类型。
type EventType string

const (
	EventMessage EventType = "message"
	EventTyping  EventType = "typing"
	EventClosed  EventType = "closed"
)

// Event is pushed to session subscribers (SSE and WebSocket clients).
type Event struct {
	Type      EventType `json:"type"`
	SessionID string    `json:"sessionId"`
	Message   *Message  `json:"message,omitempty"`
	Typing    bool      `json:"typing,omitempty"`
}
