package core

// Client is one live connection as seen by the core layer. Identity is
// empty until the connection registers; it is written only by the hub.
type Client struct {
	ID       string
	Identity string
	Commands chan *Command
	Events   chan *Event

	done chan struct{}
}

// NewClient constructs a client with initialized channels.
func NewClient(id string) *Client {
	return &Client{
		ID:       id,
		Commands: make(chan *Command, 8),
		Events:   make(chan *Event, 16),
		done:     make(chan struct{}),
	}
}

// send queues an event without blocking. Slow consumers drop events.
func (c *Client) send(ev *Event) {
	select {
	case c.Events <- ev:
	default:
	}
}
