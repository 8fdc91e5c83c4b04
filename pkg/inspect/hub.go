package inspect

import (
	"encoding/json"
	"net/http"
	"sync"

	"github.com/gorilla/websocket"

	"github.com/VFiee/vue-next/pkg/reactive"
)

// MessageType classifies a streamed engine event.
type MessageType string

const (
	MessageTrack     MessageType = "track"
	MessageTrigger   MessageType = "trigger"
	MessageEffectRun MessageType = "effect_run"
)

// Message is the envelope sent to inspector clients over WebSocket.
type Message struct {
	Type MessageType `json:"type"`

	Track     *reactive.TrackEvent     `json:"track,omitempty"`
	Trigger   *TriggerPayload          `json:"trigger,omitempty"`
	EffectRun *reactive.EffectRunEvent `json:"effect_run,omitempty"`
}

// TriggerPayload carries a trigger event with its kind rendered as a string.
type TriggerPayload struct {
	reactive.TriggerEvent
	Kind string `json:"kind"`
}

// Hub manages inspector WebSocket connections and fans engine events out to
// them. It implements reactive.Observer, so it can be installed directly with
// Graph.SetObserver (or combined with other observers).
type Hub struct {
	clients  map[*websocket.Conn]bool
	mu       sync.RWMutex
	upgrader websocket.Upgrader
}

var _ reactive.Observer = (*Hub)(nil)

// NewHub creates a hub with no connected clients.
func NewHub() *Hub {
	return &Hub{
		clients: make(map[*websocket.Conn]bool),
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin: func(r *http.Request) bool {
				return true // Inspector is a local dev tool
			},
		},
	}
}

// HandleWebSocket upgrades the request and keeps the connection registered
// until the client disconnects.
func (h *Hub) HandleWebSocket(w http.ResponseWriter, req *http.Request) {
	conn, err := h.upgrader.Upgrade(w, req, nil)
	if err != nil {
		return
	}

	h.mu.Lock()
	h.clients[conn] = true
	h.mu.Unlock()

	for {
		if _, _, err := conn.ReadMessage(); err != nil {
			break
		}
	}

	h.mu.Lock()
	delete(h.clients, conn)
	h.mu.Unlock()
	conn.Close()
}

// Tracked streams a dependency recording.
func (h *Hub) Tracked(ev reactive.TrackEvent) {
	h.broadcast(Message{Type: MessageTrack, Track: &ev})
}

// Triggered streams a mutation notification.
func (h *Hub) Triggered(ev reactive.TriggerEvent) {
	h.broadcast(Message{Type: MessageTrigger, Trigger: &TriggerPayload{
		TriggerEvent: ev,
		Kind:         ev.Kind.String(),
	}})
}

// EffectRan streams a completed effect run.
func (h *Hub) EffectRan(ev reactive.EffectRunEvent) {
	h.broadcast(Message{Type: MessageEffectRun, EffectRun: &ev})
}

// broadcast sends a message to all connected clients, dropping clients whose
// connection has failed.
func (h *Hub) broadcast(msg Message) {
	h.mu.RLock()
	if len(h.clients) == 0 {
		h.mu.RUnlock()
		return
	}
	clients := make([]*websocket.Conn, 0, len(h.clients))
	for client := range h.clients {
		clients = append(clients, client)
	}
	h.mu.RUnlock()

	data, err := json.Marshal(msg)
	if err != nil {
		return
	}

	for _, client := range clients {
		if err := client.WriteMessage(websocket.TextMessage, data); err != nil {
			h.mu.Lock()
			delete(h.clients, client)
			h.mu.Unlock()
			client.Close()
		}
	}
}

// ClientCount returns the number of connected clients.
func (h *Hub) ClientCount() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.clients)
}

// Close disconnects all clients.
func (h *Hub) Close() {
	h.mu.Lock()
	defer h.mu.Unlock()
	for client := range h.clients {
		client.Close()
	}
	h.clients = make(map[*websocket.Conn]bool)
}
