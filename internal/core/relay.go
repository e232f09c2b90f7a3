package core

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog"
	"github.com/vovakirdan/beamchat-server/internal/store"
)

// Relay persists chat messages and fans them out to room members.
// A message is broadcast only after it has been saved, so every member
// observes the same server-assigned ordering key.
type Relay struct {
	messages store.MessageStore
	users    store.UserStore
	rooms    *Rooms
	log      *zerolog.Logger
}

// NewRelay constructs a message relay over the given stores and rooms.
func NewRelay(messages store.MessageStore, users store.UserStore, rooms *Rooms, logger *zerolog.Logger) *Relay {
	return &Relay{
		messages: messages,
		users:    users,
		rooms:    rooms,
		log:      logger,
	}
}

// Send validates, persists and broadcasts a chat message. The stored
// message is returned to the caller; on a persistence failure nothing
// is broadcast.
func (r *Relay) Send(ctx context.Context, room string, in MessageInput) (*Message, error) {
	rec := &store.Message{
		RoomKey:   room,
		Sender:    in.Sender,
		Receiver:  in.Receiver,
		Text:      in.Text,
		FilePath:  in.FilePath,
		FileKind:  in.FileKind,
		CreatedAt: time.Now().UTC(),
	}
	if !rec.HasContent() {
		return nil, ErrEmptyMessage
	}

	if err := r.messages.SaveMessage(ctx, rec); err != nil {
		return nil, fmt.Errorf("save message: %w", err)
	}

	msg := r.toDomain(ctx, rec)
	// Everyone in the room gets the stored message, the sender included,
	// so the sender's UI reflects the server-assigned ID and timestamp.
	r.rooms.Broadcast(room, &Event{Kind: EventMessage, Message: msg}, nil)
	return msg, nil
}

// History returns the room's persisted messages in ascending creation
// order, each annotated with the sender's display name.
func (r *Relay) History(ctx context.Context, room string) ([]*Message, error) {
	records, err := r.messages.ListRoomMessages(ctx, room)
	if err != nil {
		return nil, fmt.Errorf("list messages: %w", err)
	}

	names := make(map[string]string)
	messages := make([]*Message, 0, len(records))
	for _, rec := range records {
		msg := &Message{
			ID:        rec.ID,
			Room:      rec.RoomKey,
			Sender:    rec.Sender,
			Receiver:  rec.Receiver,
			Text:      rec.Text,
			FilePath:  rec.FilePath,
			FileKind:  rec.FileKind,
			CreatedAt: rec.CreatedAt,
		}
		name, ok := names[rec.Sender]
		if !ok {
			name = r.senderName(ctx, rec.Sender)
			names[rec.Sender] = name
		}
		msg.SenderName = name
		messages = append(messages, msg)
	}
	return messages, nil
}

// DeleteHistory hard-deletes all persisted messages for the room. Live
// membership is untouched.
func (r *Relay) DeleteHistory(ctx context.Context, room string) error {
	if err := r.messages.DeleteRoomMessages(ctx, room); err != nil {
		return fmt.Errorf("delete history: %w", err)
	}
	r.log.Info().Str("room", room).Msg("room history deleted")
	return nil
}

func (r *Relay) toDomain(ctx context.Context, rec *store.Message) *Message {
	return &Message{
		ID:         rec.ID,
		Room:       rec.RoomKey,
		Sender:     rec.Sender,
		SenderName: r.senderName(ctx, rec.Sender),
		Receiver:   rec.Receiver,
		Text:       rec.Text,
		FilePath:   rec.FilePath,
		FileKind:   rec.FileKind,
		CreatedAt:  rec.CreatedAt,
	}
}

// senderName resolves a display name, falling back to the identity.
func (r *Relay) senderName(ctx context.Context, identity string) string {
	user, err := r.users.GetUserByUsername(ctx, identity)
	if err != nil || user == nil {
		return identity
	}
	return user.Username
}
