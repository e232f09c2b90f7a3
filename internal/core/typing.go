package core

import "context"

// TypingNotifier broadcasts ephemeral typing state. Nothing here is
// persisted; every event is a prompt for a UI refresh.
type TypingNotifier struct {
	rooms    *Rooms
	presence *Presence
}

// NewTypingNotifier constructs a typing notifier.
func NewTypingNotifier(rooms *Rooms, presence *Presence) *TypingNotifier {
	return &TypingNotifier{rooms: rooms, presence: presence}
}

// Typing announces that the identity is typing in the room, excluding
// the originating connection.
func (t *TypingNotifier) Typing(room, identity string, from *Client) {
	t.rooms.Broadcast(room, &Event{
		Kind:   EventTypingUpdate,
		Status: &Status{Identity: identity, State: StatusTyping},
	}, from)
}

// StopTyping recomputes the identity's presence and broadcasts the
// resolved status instead of a bare "stopped" signal, so clients never
// need a separate reconciliation step.
func (t *TypingNotifier) StopTyping(ctx context.Context, room, identity string, from *Client) {
	status := t.presence.QueryStatus(ctx, identity)
	t.rooms.Broadcast(room, &Event{
		Kind:   EventTypingUpdate,
		Status: &status,
	}, from)
}
