// Package events fans store changes out to server-sent event clients.
package events

import (
	"encoding/json"
	"sync"
	"time"

	"appointment-booking-server/internal/store"

	"github.com/rs/zerolog"
)

const clientBuffer = 16

// Broadcaster manages SSE clients and broadcasts messages to all of them.
type Broadcaster struct {
	clients map[chan string]bool
	mu      sync.Mutex
	timeout time.Duration
	log     zerolog.Logger
}

// NewBroadcaster creates a Broadcaster that drops clients which do not
// accept a message within one second.
func NewBroadcaster(log zerolog.Logger) *Broadcaster {
	return &Broadcaster{
		clients: make(map[chan string]bool),
		timeout: time.Second,
		log:     log,
	}
}

// Register adds a new client and returns its channel.
func (b *Broadcaster) Register() chan string {
	client := make(chan string, clientBuffer)
	b.mu.Lock()
	defer b.mu.Unlock()
	b.clients[client] = true
	return client
}

// Unregister removes a client. It is safe to call after the client was dropped.
func (b *Broadcaster) Unregister(client chan string) {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.clients[client] {
		delete(b.clients, client)
		close(client)
	}
}

// Clients returns the number of connected clients.
func (b *Broadcaster) Clients() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return len(b.clients)
}

// Broadcast sends a message to all registered clients.
func (b *Broadcaster) Broadcast(message string) {
	b.mu.Lock()
	defer b.mu.Unlock()
	for client := range b.clients {
		select {
		case client <- message:
		case <-time.After(b.timeout):
			// Not draining; drop it.
			delete(b.clients, client)
			close(client)
			b.log.Warn().Msg("dropped unresponsive event client")
		}
	}
}

// Notify broadcasts a store event as JSON.
func (b *Broadcaster) Notify(e store.Event) {
	payload, err := json.Marshal(e)
	if err != nil {
		b.log.Error().Err(err).Str("event", string(e.Kind)).Msg("failed to encode event")
		return
	}
	b.Broadcast(string(payload))
}
