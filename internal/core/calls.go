package core

import "github.com/rs/zerolog"

// CallSignaler is a stateless relay that turns a "call this identity"
// request into a targeted incoming-call notification. No call state is
// kept here; the media itself is carried by an external provider the
// room key hands off to.
type CallSignaler struct {
	registry *Registry
	resolve  func(connID string) *Client
	log      *zerolog.Logger
}

// NewCallSignaler constructs a call signaler. resolve maps a connection
// ID to its live client.
func NewCallSignaler(registry *Registry, resolve func(connID string) *Client, logger *zerolog.Logger) *CallSignaler {
	return &CallSignaler{
		registry: registry,
		resolve:  resolve,
		log:      logger,
	}
}

// RequestCall notifies the callee's connection of an incoming call.
// An offline callee is a silent no-op: no queuing, no push fallback.
func (s *CallSignaler) RequestCall(caller, callee, room, callType string) {
	connID, ok := s.registry.Lookup(callee)
	if !ok {
		s.log.Debug().Str("caller", caller).Str("callee", callee).Msg("callee offline, call not delivered")
		return
	}
	target := s.resolve(connID)
	if target == nil {
		return
	}

	s.log.Info().Str("caller", caller).Str("callee", callee).Str("call_type", callType).Msg("relaying incoming call")
	target.send(&Event{
		Kind: EventIncomingCall,
		Call: &CallInvite{Room: room, Caller: caller, CallType: callType},
	})
}
