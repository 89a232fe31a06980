package chat

import "time"

// Sender identifies who authored a message.
type Sender string

const (
	SenderUser      Sender = "user"
	SenderAssistant Sender = "assistant"
)

// AttachmentKind 附件类型。
type AttachmentKind string

const (
	AttachmentImage    AttachmentKind = "image"
	AttachmentDocument AttachmentKind = "document"
)

// Attachment references client-local media picked from the camera, library or files.
type Attachment struct {
	Kind AttachmentKind `json:"kind"`
	URI  string         `json:"uri"`
}

// Valid reports whether the attachment names a known kind and a non-empty URI.
func (a *Attachment) Valid() bool {
	if a == nil || a.URI == "" {
		return false
	}
	return a.Kind == AttachmentImage || a.Kind == AttachmentDocument
}

// Message is one immutable transcript entry.
type Message struct {
	ID         int64       `json:"id"`
	SessionID  string      `json:"sessionId"`
	Text       string      `json:"text"`
	Sender     Sender      `json:"sender"`
	Timestamp  string      `json:"timestamp"`
	Intent     string      `json:"intent,omitempty"`
	Attachment *Attachment `json:"attachment,omitempty"`
	CreatedAt  time.Time   `json:"createdAt"`
}

// Reply is what a responder produces for one user message.
type Reply struct {
	Text   string `json:"text"`
	Intent string `json:"intent"`
}
