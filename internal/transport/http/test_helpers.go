package http

import (
	"context"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/rs/zerolog"

	"github.com/vovakirdan/beamchat-server/internal/auth"
	"github.com/vovakirdan/beamchat-server/internal/calltoken"
	"github.com/vovakirdan/beamchat-server/internal/config"
	"github.com/vovakirdan/beamchat-server/internal/core"
	"github.com/vovakirdan/beamchat-server/internal/store"
	"github.com/vovakirdan/beamchat-server/internal/store/sqlite"
)

// createTestStore creates an in-memory SQLite store with schema applied.
func createTestStore(t *testing.T) store.Store {
	t.Helper()

	st, err := sqlite.New(":memory:")
	if err != nil {
		t.Fatalf("failed to create test store: %v", err)
	}
	t.Cleanup(func() { st.Close() })

	return st
}

// createTestAuthService creates an auth service for testing.
func createTestAuthService(t *testing.T, st store.Store, jwtSecret string) *auth.Service {
	t.Helper()

	jwtConfig := &auth.JWTConfig{
		Secret:   []byte(jwtSecret),
		Issuer:   "test",
		Audience: "test",
		TTL:      24 * time.Hour,
	}

	return auth.NewService(st, jwtConfig)
}

// staticIssuer is a calltoken.Issuer stub for tests.
type staticIssuer struct{}

func (staticIssuer) IssueJoinToken(_ context.Context, room, identity string) (*calltoken.JoinToken, error) {
	return &calltoken.JoinToken{
		URL:      "ws://media.test",
		Token:    "join-" + room + "-" + identity,
		Room:     room,
		Identity: identity,
	}, nil
}

type testEnv struct {
	ts   *httptest.Server
	st   store.Store
	auth *auth.Service
	hub  *core.Hub
}

// startTestServer wires a full server around an in-memory store and a
// running hub. Everything is torn down via t.Cleanup.
func startTestServer(t *testing.T) *testEnv {
	t.Helper()

	st := createTestStore(t)
	authService := createTestAuthService(t, st, "test-secret")

	disabledLogger := zerolog.Nop()
	hub := core.NewHub(st, &disabledLogger)

	ctx, cancel := context.WithCancel(context.Background())
	t.Cleanup(cancel)
	go hub.Run(ctx)

	cfg := config.Default()
	cfg.Addr = ":0"
	cfg.JWTSecret = "test-secret"

	server := NewServer(hub, authService, st, staticIssuer{}, &cfg, &disabledLogger)
	ts := httptest.NewServer(server.Handler)
	t.Cleanup(ts.Close)

	return &testEnv{ts: ts, st: st, auth: authService, hub: hub}
}
