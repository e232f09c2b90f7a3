package core

import (
	"sort"
	"sync"
)

// Registry is the process-wide identity registry: a bidirectional
// mapping between identities and connection IDs plus the online set.
// Both directions are kept consistent under a single lock so that a
// reverse lookup during disconnect can never observe a half-applied
// rebind.
type Registry struct {
	mu         sync.Mutex
	byIdentity map[string]string // identity -> connection id
	byConn     map[string]string // connection id -> identity
}

// NewRegistry constructs an empty identity registry.
func NewRegistry() *Registry {
	return &Registry{
		byIdentity: make(map[string]string),
		byConn:     make(map[string]string),
	}
}

// Bind associates an identity with a connection, superseding any prior
// binding for the same identity. The superseded connection becomes
// unregistered, so its later disconnect will not touch the identity.
func (r *Registry) Bind(identity, connID string) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if old, ok := r.byIdentity[identity]; ok && old != connID {
		delete(r.byConn, old)
	}
	if prev, ok := r.byConn[connID]; ok && prev != identity {
		delete(r.byIdentity, prev)
	}
	r.byIdentity[identity] = connID
	r.byConn[connID] = identity
}

// Unbind removes the binding for a connection and returns the identity
// it carried. Returns ("", false) for a connection that was never
// registered or has been superseded by a reconnect.
func (r *Registry) Unbind(connID string) (string, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()

	identity, ok := r.byConn[connID]
	if !ok {
		return "", false
	}
	delete(r.byConn, connID)
	delete(r.byIdentity, identity)
	return identity, true
}

// IsOnline reports whether the identity is currently bound to a connection.
func (r *Registry) IsOnline(identity string) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	_, ok := r.byIdentity[identity]
	return ok
}

// Lookup returns the connection ID currently bound to the identity.
func (r *Registry) Lookup(identity string) (string, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	connID, ok := r.byIdentity[identity]
	return connID, ok
}

// Online returns a sorted snapshot of all online identities.
func (r *Registry) Online() []string {
	r.mu.Lock()
	defer r.mu.Unlock()

	identities := make([]string, 0, len(r.byIdentity))
	for identity := range r.byIdentity {
		identities = append(identities, identity)
	}
	sort.Strings(identities)
	return identities
}
