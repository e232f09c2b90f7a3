package core

import "time"

// Message is the domain model for a relayed chat message. SenderName
// is resolved from the user store for display; CreatedAt is the
// server-assigned ordering key.
type Message struct {
	ID         int64
	Room       string
	Sender     string
	SenderName string
	Receiver   string
	Text       string
	FilePath   string
	FileKind   string
	CreatedAt  time.Time
}
