package core

import (
	"context"
	"time"

	"github.com/rs/zerolog"
	"github.com/vovakirdan/beamchat-server/internal/store"
)

// Presence status vocabulary, shared by initial_status, user_status_update
// and user_typing_update events.
const (
	StatusOnline   = "online"
	StatusLastSeen = "last-seen"
	StatusOffline  = "offline"
	StatusTyping   = "typing"
)

// Status is the resolved presence of one identity. LastSeen is set
// only when State == StatusLastSeen.
type Status struct {
	Identity string
	State    string
	LastSeen *time.Time
}

// Presence tracks online/offline state. The registry's online set is
// the source of truth for "currently connected"; the user store holds
// the durable last-seen timestamps for everyone else.
type Presence struct {
	registry *Registry
	users    store.UserStore
	log      *zerolog.Logger
}

// NewPresence constructs a presence tracker over the registry and user store.
func NewPresence(registry *Registry, users store.UserStore, logger *zerolog.Logger) *Presence {
	return &Presence{
		registry: registry,
		users:    users,
		log:      logger,
	}
}

// MarkOnline clears the persisted last-seen for an identity that just
// registered. Online state itself lives in the registry, so a store
// failure here is logged, not fatal.
func (p *Presence) MarkOnline(ctx context.Context, identity string) {
	if err := p.users.ClearLastSeen(ctx, identity); err != nil {
		p.log.Warn().Err(err).Str("identity", identity).Msg("failed to clear last seen")
	}
}

// MarkOffline persists the disconnect timestamp and returns it for
// broadcasting. A store failure surfaces to the caller so it can fall
// back to a bare offline announcement.
func (p *Presence) MarkOffline(ctx context.Context, identity string, at time.Time) (time.Time, error) {
	if err := p.users.SetLastSeen(ctx, identity, at); err != nil {
		return at, err
	}
	return at, nil
}

// QueryStatus resolves the identity's presence fresh at call time:
// online if currently bound to a connection, last-seen if a persisted
// timestamp exists, offline otherwise. Store failures degrade to
// offline, matching the behavior for unknown identities.
func (p *Presence) QueryStatus(ctx context.Context, identity string) Status {
	if p.registry.IsOnline(identity) {
		return Status{Identity: identity, State: StatusOnline}
	}

	user, err := p.users.GetUserByUsername(ctx, identity)
	if err != nil {
		p.log.Warn().Err(err).Str("identity", identity).Msg("failed to fetch last seen")
		return Status{Identity: identity, State: StatusOffline}
	}
	if user != nil && user.LastSeen != nil {
		return Status{Identity: identity, State: StatusLastSeen, LastSeen: user.LastSeen}
	}
	return Status{Identity: identity, State: StatusOffline}
}
