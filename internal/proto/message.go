package proto

import (
	"encoding/json"
	"time"
)

// Inbound is the envelope for events coming from the client.
type Inbound struct {
	Type string          `json:"type"`
	Data json.RawMessage `json:"data"`
}

// Outbound is the envelope for events sent to the client. Type is the
// event name itself.
type Outbound struct {
	Type  string `json:"type"`
	Data  any    `json:"data,omitempty"`
	Error *Error `json:"error,omitempty"`
}

const (
	InboundTypeRegisterIdentity = "register_identity"
	InboundTypeRequestStatus    = "request_user_status"
	InboundTypeTyping           = "typing"
	InboundTypeStopTyping       = "stop_typing"
	InboundTypeJoinRoom         = "join_chat_room"
	InboundTypeSendMessage      = "send_message"
	InboundTypeCallUser         = "call_user"

	OutboundTypeInitialStatus  = "initial_status"
	OutboundTypeOnlineUsers    = "online_users_list"
	OutboundTypeUserStatus     = "user_status_update"
	OutboundTypeTypingUpdate   = "user_typing_update"
	OutboundTypeMessageHistory = "receive_message_history"
	OutboundTypeMessage        = "receive_message"
	OutboundTypeIncomingCall   = "incoming_call"
	OutboundTypeError          = "error"
)

// RegisterIdentityData binds the connection to an identity.
type RegisterIdentityData struct {
	Identity string `json:"identity"`
}

// RequestStatusData asks for another identity's presence status.
type RequestStatusData struct {
	Target string `json:"target"`
}

// TypingData scopes a typing notice to a room.
type TypingData struct {
	Room     string `json:"room"`
	Identity string `json:"identity"`
}

// JoinRoomData subscribes the connection to a room.
type JoinRoomData struct {
	Room string `json:"room"`
}

// SendMessageData carries a chat message to persist and relay.
type SendMessageData struct {
	Room    string      `json:"room"`
	Message MessageBody `json:"message"`
}

// MessageBody is the client-supplied part of a chat message.
type MessageBody struct {
	Sender   string `json:"sender"`
	Receiver string `json:"receiver"`
	Text     string `json:"text,omitempty"`
	FilePath string `json:"filePath,omitempty"`
	FileKind string `json:"fileKind,omitempty"`
}

// CallUserData requests an incoming-call notification for the callee.
type CallUserData struct {
	Callee   string `json:"callee"`
	Room     string `json:"room"`
	Caller   string `json:"caller"`
	CallType string `json:"callType"`
}

// StatusData is the shared shape of initial_status, user_status_update
// and user_typing_update. Timestamp is present only for last-seen.
type StatusData struct {
	Identity  string     `json:"identity"`
	Status    string     `json:"status"`
	Timestamp *time.Time `json:"timestamp,omitempty"`
}

// MessageData is a stored message as delivered to clients.
type MessageData struct {
	ID         int64     `json:"id"`
	Room       string    `json:"room"`
	Sender     string    `json:"sender"`
	SenderName string    `json:"senderName"`
	Receiver   string    `json:"receiver"`
	Text       string    `json:"text,omitempty"`
	FilePath   string    `json:"filePath,omitempty"`
	FileKind   string    `json:"fileKind,omitempty"`
	CreatedAt  time.Time `json:"createdAt"`
}

// IncomingCallData notifies the callee of a call to join.
type IncomingCallData struct {
	Room     string `json:"room"`
	Caller   string `json:"caller"`
	CallType string `json:"callType"`
}

// Error describes a protocol-level error response.
type Error struct {
	Code string `json:"code"`
	Msg  string `json:"msg"`
}
