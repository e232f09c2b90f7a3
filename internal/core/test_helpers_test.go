package core

import (
	"context"
	"errors"
	"sort"
	"sync"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/vovakirdan/beamchat-server/internal/store"
)

func mustEvent(t *testing.T, ch <-chan *Event, kind EventKind) *Event {
	t.Helper()

	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		select {
		case ev := <-ch:
			if ev == nil {
				continue
			}
			if ev.Kind == kind {
				return ev
			}
		default:
			time.Sleep(10 * time.Millisecond)
		}
	}
	t.Fatalf("expected event kind %v not received", kind)
	return nil
}

// mustRosterSize consumes roster broadcasts until one carrying exactly
// n identities arrives. Useful as a barrier: a roster of size n proves
// the hub has processed n registrations.
func mustRosterSize(t *testing.T, ch <-chan *Event, n int) *Event {
	t.Helper()

	for {
		ev := mustEvent(t, ch, EventOnlineUsers)
		if len(ev.Users) == n {
			return ev
		}
	}
}

// mustNoEvent drains the channel for the given window and fails if an
// event of the kind shows up.
func mustNoEvent(t *testing.T, ch <-chan *Event, kind EventKind, window time.Duration) {
	t.Helper()

	deadline := time.Now().Add(window)
	for time.Now().Before(deadline) {
		select {
		case ev := <-ch:
			if ev != nil && ev.Kind == kind {
				t.Fatalf("unexpected event kind %v received: %+v", kind, ev)
			}
		default:
			time.Sleep(10 * time.Millisecond)
		}
	}
}

func testLogger() *zerolog.Logger {
	logger := zerolog.Nop()
	return &logger
}

func startTestHub(t *testing.T) (*Hub, *memStore) {
	t.Helper()

	st := newMemStore()
	hub := NewHub(st, testLogger())

	ctx, cancel := context.WithCancel(context.Background())
	t.Cleanup(cancel)
	go hub.Run(ctx)

	return hub, st
}

func registerIdentity(hub *Hub, id, identity string) *Client {
	c := NewClient(id)
	hub.RegisterClient(c)
	c.Commands <- &Command{Kind: CommandRegisterIdentity, Identity: identity}
	return c
}

// errStoreDown simulates a failing backing store.
var errStoreDown = errors.New("store down")

// memStore is an in-memory store.Store used by hub tests. Individual
// operations can be made to fail to exercise degradation paths.
type memStore struct {
	mu       sync.Mutex
	users    map[string]*store.User
	messages []*store.Message
	nextID   int64

	saveMessageErr error
	setLastSeenErr error
}

func newMemStore() *memStore {
	return &memStore{users: make(map[string]*store.User), nextID: 1}
}

func (m *memStore) CreateUser(_ context.Context, username, email, passwordHash string) (*store.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	u := &store.User{ID: m.nextID, Username: username, Email: email, PasswordHash: passwordHash, CreatedAt: time.Now()}
	m.nextID++
	m.users[username] = u
	return u, nil
}

func (m *memStore) GetUserByID(_ context.Context, id int64) (*store.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, u := range m.users {
		if u.ID == id {
			return u, nil
		}
	}
	return nil, nil
}

func (m *memStore) GetUserByUsername(_ context.Context, username string) (*store.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.users[username], nil
}

func (m *memStore) SearchUsers(_ context.Context, query string) ([]*store.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []*store.User
	for name, u := range m.users {
		if query == "" || name == query {
			out = append(out, u)
		}
	}
	return out, nil
}

func (m *memStore) UpdateProfileImage(_ context.Context, username, url string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if u, ok := m.users[username]; ok {
		u.ProfileImg = url
	}
	return nil
}

// failSaveMessage makes subsequent SaveMessage calls return err; nil
// restores normal operation.
func (m *memStore) failSaveMessage(err error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.saveMessageErr = err
}

// failSetLastSeen makes subsequent SetLastSeen calls return err; nil
// restores normal operation.
func (m *memStore) failSetLastSeen(err error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.setLastSeenErr = err
}

func (m *memStore) SetLastSeen(_ context.Context, username string, t time.Time) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.setLastSeenErr != nil {
		return m.setLastSeenErr
	}
	u, ok := m.users[username]
	if !ok {
		u = &store.User{ID: m.nextID, Username: username}
		m.nextID++
		m.users[username] = u
	}
	u.LastSeen = &t
	return nil
}

func (m *memStore) ClearLastSeen(_ context.Context, username string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if u, ok := m.users[username]; ok {
		u.LastSeen = nil
	}
	return nil
}

func (m *memStore) SaveMessage(_ context.Context, msg *store.Message) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.saveMessageErr != nil {
		return m.saveMessageErr
	}
	msg.ID = m.nextID
	m.nextID++
	cp := *msg
	m.messages = append(m.messages, &cp)
	return nil
}

func (m *memStore) ListRoomMessages(_ context.Context, roomKey string) ([]*store.Message, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []*store.Message
	for _, msg := range m.messages {
		if msg.RoomKey == roomKey {
			out = append(out, msg)
		}
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].CreatedAt.Before(out[j].CreatedAt) })
	return out, nil
}

func (m *memStore) DeleteRoomMessages(_ context.Context, roomKey string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	kept := m.messages[:0]
	for _, msg := range m.messages {
		if msg.RoomKey != roomKey {
			kept = append(kept, msg)
		}
	}
	m.messages = kept
	return nil
}

func (m *memStore) ListMediaBetween(_ context.Context, userA, userB string) ([]*store.Message, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []*store.Message
	for _, msg := range m.messages {
		if msg.FilePath == "" {
			continue
		}
		if (msg.Sender == userA && msg.Receiver == userB) || (msg.Sender == userB && msg.Receiver == userA) {
			out = append(out, msg)
		}
	}
	return out, nil
}

func (m *memStore) Close() error { return nil }

var _ store.Store = (*memStore)(nil)
