// Package calltoken hands connections off to the external video-call
// transport. The core only signals "someone is calling you" over the
// event protocol; this package issues the credentials a client needs
// to actually join the media room named by the room key.
package calltoken

import "context"

// JoinToken contains everything a client needs to join a call room.
type JoinToken struct {
	URL      string `json:"url"`
	Token    string `json:"token"`
	Room     string `json:"room"`
	Identity string `json:"identity"`
}

// Issuer abstracts the media backend issuing join credentials.
type Issuer interface {
	// IssueJoinToken creates join credentials for the identity in the
	// given call room.
	IssueJoinToken(ctx context.Context, room, identity string) (*JoinToken, error)
}
