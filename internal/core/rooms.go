package core

import "sync"

// Room groups clients subscribed to the same room key.
type Room struct {
	Key     string
	clients map[*Client]struct{}
}

func newRoom(key string) *Room {
	return &Room{
		Key:     key,
		clients: make(map[*Client]struct{}),
	}
}

// Rooms tracks which clients are subscribed to which room. Membership
// is transient, per-process state; clients rebuild it by rejoining
// after a reconnect. It is an independent lock domain from the
// identity registry so unrelated rooms never contend with presence.
type Rooms struct {
	mu    sync.Mutex
	rooms map[string]*Room
}

// NewRooms constructs an empty room membership table.
func NewRooms() *Rooms {
	return &Rooms{rooms: make(map[string]*Room)}
}

// Join subscribes the client to the room. Returns false if the client
// was already subscribed.
func (r *Rooms) Join(c *Client, key string) bool {
	r.mu.Lock()
	defer r.mu.Unlock()

	room, ok := r.rooms[key]
	if !ok {
		room = newRoom(key)
		r.rooms[key] = room
	}
	if _, exists := room.clients[c]; exists {
		return false
	}
	room.clients[c] = struct{}{}
	return true
}

// Leave removes the client from the room, pruning it when empty.
func (r *Rooms) Leave(c *Client, key string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.leaveLocked(c, key)
}

// LeaveAll removes the client from every room it is subscribed to.
func (r *Rooms) LeaveAll(c *Client) {
	r.mu.Lock()
	defer r.mu.Unlock()

	for key, room := range r.rooms {
		if _, ok := room.clients[c]; ok {
			r.leaveLocked(c, key)
		}
	}
}

func (r *Rooms) leaveLocked(c *Client, key string) {
	room, ok := r.rooms[key]
	if !ok {
		return
	}
	delete(room.clients, c)
	if len(room.clients) == 0 {
		delete(r.rooms, key)
	}
}

// Broadcast sends an event to every client subscribed to the room,
// optionally excluding one connection. Slow consumers drop events.
func (r *Rooms) Broadcast(key string, ev *Event, exclude *Client) {
	r.mu.Lock()
	defer r.mu.Unlock()

	room, ok := r.rooms[key]
	if !ok {
		return
	}
	for client := range room.clients {
		if client == exclude {
			continue
		}
		client.send(ev)
	}
}
