package livekit

import (
	"context"
	"fmt"
	"time"

	"github.com/livekit/protocol/auth"
	"github.com/vovakirdan/beamchat-server/internal/calltoken"
)

// Engine issues LiveKit join tokens. LiveKit creates rooms on demand
// when the first participant joins, so the room key from the chat core
// is used as the media room name directly.
type Engine struct {
	apiKey    string
	apiSecret string
	wsURL     string
}

// New creates a LiveKit token engine.
func New(apiKey, apiSecret, wsURL string) *Engine {
	return &Engine{
		apiKey:    apiKey,
		apiSecret: apiSecret,
		wsURL:     wsURL,
	}
}

// IssueJoinToken creates join credentials for the identity in the call room.
func (e *Engine) IssueJoinToken(_ context.Context, room, identity string) (*calltoken.JoinToken, error) {
	if e.apiKey == "" || e.apiSecret == "" {
		return nil, fmt.Errorf("livekit credentials not configured")
	}

	at := auth.NewAccessToken(e.apiKey, e.apiSecret)
	grant := &auth.VideoGrant{
		RoomJoin: true,
		Room:     room,
	}
	at.SetVideoGrant(grant).
		SetIdentity(identity).
		SetName(identity).
		SetValidFor(time.Hour)

	token, err := at.ToJWT()
	if err != nil {
		return nil, fmt.Errorf("generate token: %w", err)
	}

	return &calltoken.JoinToken{
		URL:      e.wsURL,
		Token:    token,
		Room:     room,
		Identity: identity,
	}, nil
}

var _ calltoken.Issuer = (*Engine)(nil)
