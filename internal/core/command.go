package core

// CommandKind describes what the client wants to do.
type CommandKind int

const (
	// CommandRegisterIdentity binds the connection to an identity and
	// marks it online.
	CommandRegisterIdentity CommandKind = iota
	// CommandRequestStatus asks for another identity's presence status.
	CommandRequestStatus
	// CommandJoinRoom subscribes the client to a room and delivers history.
	CommandJoinRoom
	// CommandSendMessage persists a chat message and relays it to the room.
	CommandSendMessage
	// CommandTyping broadcasts a transient typing notice to the room.
	CommandTyping
	// CommandStopTyping reverts the typing notice to the resolved presence.
	CommandStopTyping
	// CommandCallUser notifies the callee's connection of an incoming call.
	CommandCallUser
)

// Command represents an action requested by a client.
type Command struct {
	Kind     CommandKind
	Identity string // register target, status target, typing identity or callee
	Room     string
	Message  MessageInput
	Caller   string
	CallType string
}

// MessageInput is the client-supplied part of a chat message. The
// server assigns ID and timestamp on persistence.
type MessageInput struct {
	Sender   string
	Receiver string
	Text     string
	FilePath string
	FileKind string
}
