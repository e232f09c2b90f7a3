package core

// EventKind is a notification the core emits to clients.
type EventKind int

const (
	// EventInitialStatus answers a status request, reply-only.
	EventInitialStatus EventKind = iota
	// EventOnlineUsers carries the full roster of online identities.
	EventOnlineUsers
	// EventUserStatus announces a presence change after a disconnect.
	EventUserStatus
	// EventTypingUpdate carries typing state, or resolved presence on stop.
	EventTypingUpdate
	// EventHistory delivers room history to a client upon joining.
	EventHistory
	// EventMessage delivers a persisted chat message to a room.
	EventMessage
	// EventIncomingCall notifies the callee of an incoming call.
	EventIncomingCall
	// EventError notifies a client about a domain error.
	EventError
)

// Event is sent to clients to describe what happened in the system.
type Event struct {
	Kind     EventKind
	Status   *Status
	Users    []string
	Message  *Message
	Messages []*Message // for EventHistory
	Call     *CallInvite
	Error    *CoreError
}

// CallInvite holds data specific to an incoming call notification.
type CallInvite struct {
	Room     string
	Caller   string
	CallType string
}
