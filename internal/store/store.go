package store

import (
	"context"
	"time"
)

// User represents a registered account. LastSeen is nil while the user
// is online; it is set to the disconnect time when they go offline.
type User struct {
	ID           int64
	Username     string
	Email        string
	PasswordHash string
	ProfileImg   string
	LastSeen     *time.Time
	CreatedAt    time.Time
}

// Message is a persisted chat message. Sender and Receiver are
// identities (usernames); RoomKey scopes the message to a room.
// At least one of Text or FilePath is always set.
type Message struct {
	ID        int64
	RoomKey   string
	Sender    string
	Receiver  string
	Text      string
	FilePath  string
	FileKind  string
	CreatedAt time.Time
}

// HasContent reports whether the message carries text or an attachment.
func (m *Message) HasContent() bool {
	return m.Text != "" || m.FilePath != ""
}

// UserStore handles user and last-seen persistence.
type UserStore interface {
	// CreateUser creates a new user with hashed password.
	CreateUser(ctx context.Context, username, email, passwordHash string) (*User, error)

	// GetUserByID retrieves a user by ID.
	GetUserByID(ctx context.Context, id int64) (*User, error)

	// GetUserByUsername retrieves a user by username.
	// Returns (nil, nil) when no such user exists.
	GetUserByUsername(ctx context.Context, username string) (*User, error)

	// SearchUsers searches for users by username substring.
	SearchUsers(ctx context.Context, query string) ([]*User, error)

	// UpdateProfileImage sets the profile image URL for a user.
	UpdateProfileImage(ctx context.Context, username, url string) error

	// SetLastSeen records the time a user was last connected.
	SetLastSeen(ctx context.Context, username string, t time.Time) error

	// ClearLastSeen resets last-seen when the user comes online.
	ClearLastSeen(ctx context.Context, username string) error
}

// MessageStore handles message persistence.
type MessageStore interface {
	// SaveMessage persists a message and fills in its assigned ID.
	SaveMessage(ctx context.Context, msg *Message) error

	// ListRoomMessages retrieves all messages of a room in ascending
	// creation order.
	ListRoomMessages(ctx context.Context, roomKey string) ([]*Message, error)

	// DeleteRoomMessages removes every message persisted for the room.
	DeleteRoomMessages(ctx context.Context, roomKey string) error

	// ListMediaBetween returns messages carrying attachments exchanged
	// between two identities, in either direction.
	ListMediaBetween(ctx context.Context, userA, userB string) ([]*Message, error)
}

// Store aggregates all storage interfaces.
type Store interface {
	UserStore
	MessageStore

	// Close closes the underlying database connection.
	Close() error
}
