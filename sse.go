package main

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"sync"
	"time"
)

const (
	sseChannelBuffer = 16
	sseHeartbeat     = 30 * time.Second
)

// Event is one message pushed to subscribers. Data is flattened next to
// the type in the JSON payload.
type Event struct {
	Type string
	Data map[string]any
}

func (e Event) MarshalJSON() ([]byte, error) {
	out := make(map[string]any, len(e.Data)+1)
	for k, v := range e.Data {
		out[k] = v
	}
	out["type"] = e.Type
	return json.Marshal(out)
}

// client represents a single SSE connection.
type client struct {
	ch    chan string
	topic string
}

// Broadcaster manages SSE clients grouped by topic. A topic is a puzzle or
// game session ID.
type Broadcaster struct {
	mu      sync.RWMutex
	clients map[*client]struct{}
}

// NewBroadcaster creates an empty broadcaster.
func NewBroadcaster() *Broadcaster {
	return &Broadcaster{
		clients: make(map[*client]struct{}),
	}
}

// Register adds a client for a topic and returns it.
func (b *Broadcaster) Register(topic string) *client {
	c := &client{
		ch:    make(chan string, sseChannelBuffer),
		topic: topic,
	}
	b.mu.Lock()
	b.clients[c] = struct{}{}
	b.mu.Unlock()
	sseClients.Inc()
	return c
}

// Unregister removes a client and closes its channel.
func (b *Broadcaster) Unregister(c *client) {
	b.mu.Lock()
	if _, ok := b.clients[c]; ok {
		delete(b.clients, c)
		close(c.ch)
		sseClients.Dec()
	}
	b.mu.Unlock()
}

// Broadcast sends a raw message to all clients of a topic.
func (b *Broadcaster) Broadcast(topic, data string) {
	b.mu.RLock()
	defer b.mu.RUnlock()

	for c := range b.clients {
		if c.topic == topic {
			select {
			case c.ch <- data:
			default:
				// Channel full, skip slow client.
			}
		}
	}
}

// Publish encodes an event and broadcasts it.
func (b *Broadcaster) Publish(topic string, evt Event) {
	data, err := json.Marshal(evt)
	if err != nil {
		slog.Error("encode event", "type", evt.Type, "error", err)
		return
	}
	b.Broadcast(topic, string(data))
}

// ClientCount returns the number of connected clients for a topic.
func (b *Broadcaster) ClientCount(topic string) int {
	b.mu.RLock()
	defer b.mu.RUnlock()

	n := 0
	for c := range b.clients {
		if c.topic == topic {
			n++
		}
	}
	return n
}

// ServeSSE handles an SSE connection for a topic.
func (b *Broadcaster) ServeSSE(w http.ResponseWriter, r *http.Request, topic string, onConnect func(c *client), onDisconnect func()) {
	flusher, ok := w.(http.Flusher)
	if !ok {
		http.Error(w, "Streaming non supporté", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")

	c := b.Register(topic)
	defer func() {
		b.Unregister(c)
		if onDisconnect != nil {
			onDisconnect()
		}
	}()

	if onConnect != nil {
		onConnect(c)
	}

	ticker := time.NewTicker(sseHeartbeat)
	defer ticker.Stop()

	for {
		select {
		case <-r.Context().Done():
			return
		case msg, ok := <-c.ch:
			if !ok {
				return
			}
			fmt.Fprintf(w, "data: %s\n\n", msg)
			flusher.Flush()
		case <-ticker.C:
			fmt.Fprintf(w, ": heartbeat\n\n")
			flusher.Flush()
		}
	}
}

// send queues an event for a single client, typically the initial state.
func (c *client) send(evt Event) {
	data, err := json.Marshal(evt)
	if err != nil {
		return
	}
	select {
	case c.ch <- string(data):
	default:
	}
}
