package auth

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/vovakirdan/beamchat-server/internal/store"
)

type fakeUserStore struct {
	mu    sync.Mutex
	users map[string]*store.User
	next  int64
}

func newFakeUserStore() *fakeUserStore {
	return &fakeUserStore{users: make(map[string]*store.User), next: 1}
}

func (f *fakeUserStore) CreateUser(_ context.Context, username, email, passwordHash string) (*store.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	u := &store.User{ID: f.next, Username: username, Email: email, PasswordHash: passwordHash, CreatedAt: time.Now()}
	f.next++
	f.users[username] = u
	return u, nil
}

func (f *fakeUserStore) GetUserByID(_ context.Context, id int64) (*store.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, u := range f.users {
		if u.ID == id {
			return u, nil
		}
	}
	return nil, nil
}

func (f *fakeUserStore) GetUserByUsername(_ context.Context, username string) (*store.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.users[username], nil
}

func (f *fakeUserStore) SearchUsers(_ context.Context, _ string) ([]*store.User, error) {
	return nil, nil
}

func (f *fakeUserStore) UpdateProfileImage(_ context.Context, _, _ string) error { return nil }

func (f *fakeUserStore) SetLastSeen(_ context.Context, _ string, _ time.Time) error { return nil }

func (f *fakeUserStore) ClearLastSeen(_ context.Context, _ string) error { return nil }

func testService() *Service {
	return NewService(newFakeUserStore(), &JWTConfig{
		Secret:   []byte("test-secret"),
		Issuer:   "beamchat-test",
		Audience: "beamchat",
		TTL:      time.Hour,
	})
}

func TestRegisterAndLogin(t *testing.T) {
	svc := testService()
	ctx := context.Background()

	token, err := svc.Register(ctx, "alice", "alice@example.com", "secret1")
	if err != nil {
		t.Fatalf("register: %v", err)
	}

	claims, err := svc.ValidateToken(token)
	if err != nil {
		t.Fatalf("validate register token: %v", err)
	}
	if claims.Username != "alice" {
		t.Fatalf("unexpected claims: %+v", claims)
	}

	token, err = svc.Login(ctx, "alice", "secret1")
	if err != nil {
		t.Fatalf("login: %v", err)
	}
	if _, err := svc.ValidateToken(token); err != nil {
		t.Fatalf("validate login token: %v", err)
	}
}

func TestRegisterValidation(t *testing.T) {
	svc := testService()
	ctx := context.Background()

	cases := []struct {
		name     string
		username string
		email    string
		password string
		wantErr  error
	}{
		{"short username", "ab", "a@b.com", "secret1", ErrInvalidUsername},
		{"bad email", "alice", "not-an-email", "secret1", ErrInvalidEmail},
		{"short password", "alice", "a@b.com", "12345", ErrInvalidPassword},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if _, err := svc.Register(ctx, tc.username, tc.email, tc.password); err != tc.wantErr {
				t.Fatalf("expected %v, got %v", tc.wantErr, err)
			}
		})
	}
}

func TestRegisterDuplicate(t *testing.T) {
	svc := testService()
	ctx := context.Background()

	if _, err := svc.Register(ctx, "alice", "alice@example.com", "secret1"); err != nil {
		t.Fatalf("register: %v", err)
	}
	if _, err := svc.Register(ctx, "alice", "other@example.com", "secret2"); err != ErrUserExists {
		t.Fatalf("expected ErrUserExists, got %v", err)
	}
}

func TestLoginWrongPassword(t *testing.T) {
	svc := testService()
	ctx := context.Background()

	if _, err := svc.Register(ctx, "alice", "alice@example.com", "secret1"); err != nil {
		t.Fatalf("register: %v", err)
	}
	if _, err := svc.Login(ctx, "alice", "wrong"); err != ErrInvalidCredentials {
		t.Fatalf("expected ErrInvalidCredentials, got %v", err)
	}
	if _, err := svc.Login(ctx, "nobody", "secret1"); err != ErrInvalidCredentials {
		t.Fatalf("expected ErrInvalidCredentials, got %v", err)
	}
}
