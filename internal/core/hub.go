package core

import (
	"context"
	"errors"
	"time"

	"github.com/rs/zerolog"
	"github.com/vovakirdan/beamchat-server/internal/store"
)

// clientCommand pairs a command with the connection that issued it.
type clientCommand struct {
	client *Client
	cmd    *Command
}

// Hub is the connection lifecycle controller. It runs as a single
// actor goroutine that owns the set of live clients and orchestrates
// the ordering between registry, presence, rooms and relay on
// registration and disconnect. Because every command is dispatched
// from this one goroutine, the save-then-broadcast sequence of the
// relay is serialized and per-room message order is preserved.
type Hub struct {
	log *zerolog.Logger

	registry *Registry
	presence *Presence
	rooms    *Rooms
	relay    *Relay
	typing   *TypingNotifier
	calls    *CallSignaler

	register   chan *Client
	unregister chan *Client
	commands   chan clientCommand

	// clients is touched only by the Run goroutine.
	clients map[string]*Client

	stopped chan struct{}
}

// NewHub constructs the hub and its core components over the store.
func NewHub(st store.Store, logger *zerolog.Logger) *Hub {
	h := &Hub{
		log:        logger,
		register:   make(chan *Client),
		unregister: make(chan *Client),
		commands:   make(chan clientCommand, 64),
		clients:    make(map[string]*Client),
		stopped:    make(chan struct{}),
	}

	h.registry = NewRegistry()
	h.presence = NewPresence(h.registry, st, logger)
	h.rooms = NewRooms()
	h.relay = NewRelay(st, st, h.rooms, logger)
	h.typing = NewTypingNotifier(h.rooms, h.presence)
	h.calls = NewCallSignaler(h.registry, h.clientByConn, logger)

	return h
}

// Presence exposes the presence tracker for status lookups outside the
// event loop (REST user handlers).
func (h *Hub) Presence() *Presence {
	return h.presence
}

// DeleteRoomHistory removes all persisted messages for the room. Live
// room membership is unaffected.
func (h *Hub) DeleteRoomHistory(ctx context.Context, room string) error {
	return h.relay.DeleteHistory(ctx, room)
}

// RegisterClient hands a freshly connected client to the hub.
func (h *Hub) RegisterClient(c *Client) {
	select {
	case h.register <- c:
	case <-h.stopped:
	}
}

// UnregisterClient tears down a disconnected client. Safe to call once
// per client; the transport does so on socket close.
func (h *Hub) UnregisterClient(c *Client) {
	close(c.done)
	select {
	case h.unregister <- c:
	case <-h.stopped:
	}
}

// Run drives the hub until the context is cancelled.
func (h *Hub) Run(ctx context.Context) {
	defer close(h.stopped)

	for {
		select {
		case c := <-h.register:
			h.handleRegister(c)
		case c := <-h.unregister:
			h.handleUnregister(ctx, c)
		case cc := <-h.commands:
			h.dispatch(ctx, cc.client, cc.cmd)
		case <-ctx.Done():
			return
		}
	}
}

func (h *Hub) handleRegister(c *Client) {
	select {
	case <-c.done:
		// The connection was torn down before the attach was processed;
		// its unregister is (or was) queued and finds nothing to undo.
		return
	default:
	}

	h.clients[c.ID] = c
	h.log.Debug().Str("client_id", c.ID).Msg("connection attached")

	// One forwarding goroutine per connection multiplexes its commands
	// into the hub's single command channel.
	go func() {
		for {
			select {
			case cmd := <-c.Commands:
				select {
				case h.commands <- clientCommand{client: c, cmd: cmd}:
				case <-c.done:
					return
				case <-h.stopped:
					return
				}
			case <-c.done:
				return
			case <-h.stopped:
				return
			}
		}
	}()
}

// handleUnregister runs the disconnect reconciliation: drop room
// subscriptions, unbind the identity if one was ever registered, and
// only then announce presence changes. A connection that never
// registered produces no presence side effects.
func (h *Hub) handleUnregister(ctx context.Context, c *Client) {
	h.rooms.LeaveAll(c)
	delete(h.clients, c.ID)

	identity, ok := h.registry.Unbind(c.ID)
	if !ok {
		h.log.Debug().Str("client_id", c.ID).Msg("unregistered connection closed")
		return
	}

	at, err := h.presence.MarkOffline(ctx, identity, time.Now().UTC())
	status := Status{Identity: identity, State: StatusLastSeen, LastSeen: &at}
	if err != nil {
		h.log.Error().Err(err).Str("identity", identity).Msg("failed to persist last seen")
		status = Status{Identity: identity, State: StatusOffline}
	}

	h.broadcastAll(&Event{Kind: EventUserStatus, Status: &status})
	h.broadcastAll(&Event{Kind: EventOnlineUsers, Users: h.registry.Online()})
	h.log.Info().Str("identity", identity).Str("client_id", c.ID).Msg("identity went offline")
}

func (h *Hub) dispatch(ctx context.Context, c *Client, cmd *Command) {
	// The unregister channel and the command channel carry no relative
	// ordering, so a queued command can outlive its connection. A
	// disconnected client accepts no further work; in particular a late
	// register must not bind an identity to a dead connection.
	if _, ok := h.clients[c.ID]; !ok {
		return
	}

	switch cmd.Kind {
	case CommandRegisterIdentity:
		h.handleRegisterIdentity(ctx, c, cmd.Identity)
	case CommandRequestStatus:
		status := h.presence.QueryStatus(ctx, cmd.Identity)
		c.send(&Event{Kind: EventInitialStatus, Status: &status})
	case CommandJoinRoom:
		h.handleJoinRoom(ctx, c, cmd.Room)
	case CommandSendMessage:
		h.handleSendMessage(ctx, c, cmd)
	case CommandTyping:
		h.typing.Typing(cmd.Room, h.typingIdentity(c, cmd), c)
	case CommandStopTyping:
		h.typing.StopTyping(ctx, cmd.Room, h.typingIdentity(c, cmd), c)
	case CommandCallUser:
		caller := cmd.Caller
		if caller == "" {
			caller = c.Identity
		}
		h.calls.RequestCall(caller, cmd.Identity, cmd.Room, cmd.CallType)
	}
}

func (h *Hub) handleRegisterIdentity(ctx context.Context, c *Client, identity string) {
	h.registry.Bind(identity, c.ID)
	c.Identity = identity
	h.presence.MarkOnline(ctx, identity)

	h.log.Info().Str("identity", identity).Str("client_id", c.ID).Msg("identity registered")

	// The roster goes to every connection, not just room members:
	// each client needs the global user list.
	h.broadcastAll(&Event{Kind: EventOnlineUsers, Users: h.registry.Online()})
}

func (h *Hub) handleJoinRoom(ctx context.Context, c *Client, room string) {
	if !h.rooms.Join(c, room) {
		// Already subscribed; rejoining must not re-deliver history.
		return
	}

	history, err := h.relay.History(ctx, room)
	if err != nil {
		h.log.Error().Err(err).Str("room", room).Msg("failed to load history")
		c.send(&Event{Kind: EventError, Error: coreError(ErrCodeStoreError, "failed to load history")})
		return
	}
	c.send(&Event{Kind: EventHistory, Messages: history})
	h.log.Debug().Str("client_id", c.ID).Str("room", room).Int("history", len(history)).Msg("joined room")
}

func (h *Hub) handleSendMessage(ctx context.Context, c *Client, cmd *Command) {
	in := cmd.Message
	if in.Sender == "" {
		in.Sender = c.Identity
	}
	if in.Sender == "" {
		c.send(&Event{Kind: EventError, Error: coreError(ErrCodeNotRegistered, "register an identity before sending")})
		return
	}

	if _, err := h.relay.Send(ctx, cmd.Room, in); err != nil {
		if errors.Is(err, ErrEmptyMessage) {
			c.send(&Event{Kind: EventError, Error: coreError(ErrCodeEmptyMessage, "message needs text or an attachment")})
			return
		}
		h.log.Error().Err(err).Str("room", cmd.Room).Str("sender", in.Sender).Msg("failed to relay message")
		c.send(&Event{Kind: EventError, Error: coreError(ErrCodeStoreError, "could not deliver message")})
	}
}

func (h *Hub) typingIdentity(c *Client, cmd *Command) string {
	if cmd.Identity != "" {
		return cmd.Identity
	}
	return c.Identity
}

func (h *Hub) broadcastAll(ev *Event) {
	for _, client := range h.clients {
		client.send(ev)
	}
}

// clientByConn resolves a connection ID to its live client. Called
// only from the Run goroutine (via command dispatch).
func (h *Hub) clientByConn(connID string) *Client {
	return h.clients[connID]
}
