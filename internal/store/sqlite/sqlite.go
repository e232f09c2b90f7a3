package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	_ "github.com/mattn/go-sqlite3"
	"github.com/vovakirdan/beamchat-server/internal/store"
)

const schema = `
CREATE TABLE IF NOT EXISTS users (
	id            INTEGER PRIMARY KEY AUTOINCREMENT,
	username      TEXT NOT NULL UNIQUE,
	email         TEXT NOT NULL UNIQUE,
	password_hash TEXT NOT NULL,
	profile_img   TEXT NOT NULL DEFAULT '',
	last_seen     DATETIME,
	created_at    DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP
);

CREATE TABLE IF NOT EXISTS messages (
	id         INTEGER PRIMARY KEY AUTOINCREMENT,
	room_key   TEXT NOT NULL,
	sender     TEXT NOT NULL,
	receiver   TEXT NOT NULL,
	text       TEXT,
	file_path  TEXT,
	file_kind  TEXT,
	created_at DATETIME NOT NULL,
	CHECK (text IS NOT NULL OR file_path IS NOT NULL)
);

CREATE INDEX IF NOT EXISTS idx_messages_room ON messages(room_key, created_at);
CREATE INDEX IF NOT EXISTS idx_messages_media ON messages(sender, receiver) WHERE file_path IS NOT NULL;
`

// SQLiteStore implements store.Store for SQLite.
type SQLiteStore struct {
	db *sql.DB
}

// New creates a new SQLite store and applies the schema.
// dbPath is the path to the SQLite database file.
func New(dbPath string) (*SQLiteStore, error) {
	db, err := sql.Open("sqlite3", dbPath+"?_journal_mode=WAL&_busy_timeout=5000")
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}

	// SQLite works best with a single connection.
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping sqlite: %w", err)
	}

	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("apply schema: %w", err)
	}

	return &SQLiteStore{db: db}, nil
}

// NewWithSetup creates a new SQLite store and runs a setup function
// after the schema has been applied. Useful for tests to seed data.
func NewWithSetup(dbPath string, setup func(*sql.DB) error) (*SQLiteStore, error) {
	s, err := New(dbPath)
	if err != nil {
		return nil, err
	}

	if setup != nil {
		if err := setup(s.db); err != nil {
			s.db.Close()
			return nil, fmt.Errorf("setup: %w", err)
		}
	}

	return s, nil
}

// Close closes the database connection.
func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

// ==== UserStore implementation ====

// CreateUser creates a new user with hashed password.
func (s *SQLiteStore) CreateUser(ctx context.Context, username, email, passwordHash string) (*store.User, error) {
	query := `
		INSERT INTO users (username, email, password_hash)
		VALUES (?, ?, ?)
	`
	result, err := s.db.ExecContext(ctx, query, username, email, passwordHash)
	if err != nil {
		return nil, fmt.Errorf("insert user: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return nil, fmt.Errorf("get last insert id: %w", err)
	}

	return s.GetUserByID(ctx, id)
}

// GetUserByID retrieves a user by ID.
func (s *SQLiteStore) GetUserByID(ctx context.Context, id int64) (*store.User, error) {
	query := `
		SELECT id, username, email, password_hash, profile_img, last_seen, created_at
		FROM users
		WHERE id = ?
	`
	return s.scanUser(s.db.QueryRowContext(ctx, query, id))
}

// GetUserByUsername retrieves a user by username.
// Returns (nil, nil) when no such user exists.
func (s *SQLiteStore) GetUserByUsername(ctx context.Context, username string) (*store.User, error) {
	query := `
		SELECT id, username, email, password_hash, profile_img, last_seen, created_at
		FROM users
		WHERE username = ?
	`
	user, err := s.scanUser(s.db.QueryRowContext(ctx, query, username))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	return user, nil
}

// SearchUsers searches for users by username substring.
func (s *SQLiteStore) SearchUsers(ctx context.Context, query string) ([]*store.User, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, username, email, password_hash, profile_img, last_seen, created_at
		FROM users
		WHERE username LIKE ?
		ORDER BY username
	`, "%"+query+"%")
	if err != nil {
		return nil, fmt.Errorf("search users: %w", err)
	}
	defer rows.Close()

	users := make([]*store.User, 0)
	for rows.Next() {
		u, err := s.scanUser(rows)
		if err != nil {
			return nil, err
		}
		users = append(users, u)
	}
	return users, rows.Err()
}

// UpdateProfileImage sets the profile image URL for a user.
func (s *SQLiteStore) UpdateProfileImage(ctx context.Context, username, url string) error {
	_, err := s.db.ExecContext(ctx, `UPDATE users SET profile_img = ? WHERE username = ?`, url, username)
	if err != nil {
		return fmt.Errorf("update profile image: %w", err)
	}
	return nil
}

// SetLastSeen records the time a user was last connected.
func (s *SQLiteStore) SetLastSeen(ctx context.Context, username string, t time.Time) error {
	_, err := s.db.ExecContext(ctx, `UPDATE users SET last_seen = ? WHERE username = ?`, t.UTC(), username)
	if err != nil {
		return fmt.Errorf("set last seen: %w", err)
	}
	return nil
}

// ClearLastSeen resets last-seen when the user comes online.
func (s *SQLiteStore) ClearLastSeen(ctx context.Context, username string) error {
	_, err := s.db.ExecContext(ctx, `UPDATE users SET last_seen = NULL WHERE username = ?`, username)
	if err != nil {
		return fmt.Errorf("clear last seen: %w", err)
	}
	return nil
}

// ==== MessageStore implementation ====

// SaveMessage persists a message and fills in its assigned ID.
func (s *SQLiteStore) SaveMessage(ctx context.Context, msg *store.Message) error {
	query := `
		INSERT INTO messages (room_key, sender, receiver, text, file_path, file_kind, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)
	`
	result, err := s.db.ExecContext(ctx, query,
		msg.RoomKey,
		msg.Sender,
		msg.Receiver,
		nullable(msg.Text),
		nullable(msg.FilePath),
		nullable(msg.FileKind),
		msg.CreatedAt.UTC(),
	)
	if err != nil {
		return fmt.Errorf("insert message: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return fmt.Errorf("get last insert id: %w", err)
	}
	msg.ID = id
	return nil
}

// ListRoomMessages retrieves all messages of a room in ascending creation order.
func (s *SQLiteStore) ListRoomMessages(ctx context.Context, roomKey string) ([]*store.Message, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, room_key, sender, receiver, text, file_path, file_kind, created_at
		FROM messages
		WHERE room_key = ?
		ORDER BY created_at ASC, id ASC
	`, roomKey)
	if err != nil {
		return nil, fmt.Errorf("list room messages: %w", err)
	}
	defer rows.Close()

	return scanMessages(rows)
}

// DeleteRoomMessages removes every message persisted for the room.
func (s *SQLiteStore) DeleteRoomMessages(ctx context.Context, roomKey string) error {
	_, err := s.db.ExecContext(ctx, `DELETE FROM messages WHERE room_key = ?`, roomKey)
	if err != nil {
		return fmt.Errorf("delete room messages: %w", err)
	}
	return nil
}

// ListMediaBetween returns messages carrying attachments exchanged
// between two identities, in either direction.
func (s *SQLiteStore) ListMediaBetween(ctx context.Context, userA, userB string) ([]*store.Message, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, room_key, sender, receiver, text, file_path, file_kind, created_at
		FROM messages
		WHERE file_path IS NOT NULL
		  AND ((sender = ? AND receiver = ?) OR (sender = ? AND receiver = ?))
		ORDER BY created_at ASC, id ASC
	`, userA, userB, userB, userA)
	if err != nil {
		return nil, fmt.Errorf("list media: %w", err)
	}
	defer rows.Close()

	return scanMessages(rows)
}

// ==== helpers ====

type rowScanner interface {
	Scan(dest ...any) error
}

func (s *SQLiteStore) scanUser(row rowScanner) (*store.User, error) {
	var u store.User
	var lastSeen sql.NullTime
	if err := row.Scan(&u.ID, &u.Username, &u.Email, &u.PasswordHash, &u.ProfileImg, &lastSeen, &u.CreatedAt); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, err
		}
		return nil, fmt.Errorf("scan user: %w", err)
	}
	if lastSeen.Valid {
		t := lastSeen.Time
		u.LastSeen = &t
	}
	return &u, nil
}

func scanMessages(rows *sql.Rows) ([]*store.Message, error) {
	messages := make([]*store.Message, 0)
	for rows.Next() {
		var m store.Message
		var text, filePath, fileKind sql.NullString
		if err := rows.Scan(&m.ID, &m.RoomKey, &m.Sender, &m.Receiver, &text, &filePath, &fileKind, &m.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan message: %w", err)
		}
		m.Text = text.String
		m.FilePath = filePath.String
		m.FileKind = fileKind.String
		messages = append(messages, &m)
	}
	return messages, rows.Err()
}

func nullable(s string) any {
	if s == "" {
		return nil
	}
	return s
}
