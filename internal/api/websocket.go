package api

import (
	"encoding/json"
	"log"
	"net/http"
	"strings"
	"sync"

	"swarm-duel/internal/game"

	"github.com/go-chi/chi/v5"
	"github.com/gorilla/websocket"
)

const (
	// MaxWSConnectionsTotal caps concurrent WebSocket connections.
	MaxWSConnectionsTotal = 500

	// clientSendBuffer is the per-client outbound queue. A client that
	// cannot drain it fast enough loses frames, never the whole server.
	clientSendBuffer = 64
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin: func(r *http.Request) bool {
		origin := r.Header.Get("Origin")
		if isAllowedOrigin(origin) {
			return true
		}
		log.Printf("ws connection rejected from origin %s", origin)
		RecordConnectionRejected("origin")
		return false
	},
}

func isAllowedOrigin(origin string) bool {
	if origin == "" {
		// Non-browser clients send no Origin header
		return true
	}
	if strings.HasPrefix(origin, "http://localhost") || strings.HasPrefix(origin, "http://127.0.0.1") {
		return true
	}
	return false
}

// wsClient is one subscriber attached to a room's group. connectionID is
// empty for spectators; for players it ties the socket's lifetime to
// their room membership.
type wsClient struct {
	conn         *websocket.Conn
	send         chan []byte
	roomID       string
	connectionID string
	closeOnce    sync.Once
}

func (c *wsClient) close() {
	c.closeOnce.Do(func() {
		close(c.send)
		c.conn.Close()
	})
}

// wsEnvelope is an inbound client message.
type wsEnvelope struct {
	Action    string `json:"action"`    // "move" | "restart" | "ping"
	Direction string `json:"direction"` // for "move"
}

// Hub fans simulation events out to WebSocket subscribers, grouped by
// room. It implements game.Broadcaster, which is the only way the core
// ever reaches it.
type Hub struct {
	registry *game.Registry

	mu    sync.RWMutex
	rooms map[string]map[*wsClient]struct{}
	total int
}

// NewHub creates a hub over the given registry.
func NewHub(registry *game.Registry) *Hub {
	return &Hub{
		registry: registry,
		rooms:    make(map[string]map[*wsClient]struct{}),
	}
}

// ClientCount returns the number of connected clients.
func (h *Hub) ClientCount() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return h.total
}

// HandleWebSocket attaches a subscriber to a room's group. Players pass
// the connection id they received from create/join; spectators omit it.
// Closing a player's socket is equivalent to leaving the room.
func (h *Hub) HandleWebSocket(w http.ResponseWriter, r *http.Request) {
	roomID := strings.ToUpper(chi.URLParam(r, "code"))
	if _, ok := h.registry.Room(roomID); !ok {
		http.Error(w, "room not found", http.StatusNotFound)
		return
	}

	if h.ClientCount() >= MaxWSConnectionsTotal {
		RecordConnectionRejected("ws_limit")
		http.Error(w, "too many connections", http.StatusServiceUnavailable)
		return
	}

	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Printf("ws upgrade error: %v", err)
		return
	}

	client := &wsClient{
		conn:         conn,
		send:         make(chan []byte, clientSendBuffer),
		roomID:       roomID,
		connectionID: r.URL.Query().Get("connection"),
	}
	h.register(client)

	go client.writePump()
	go h.readPump(client)
}

func (h *Hub) register(c *wsClient) {
	h.mu.Lock()
	group, ok := h.rooms[c.roomID]
	if !ok {
		group = make(map[*wsClient]struct{})
		h.rooms[c.roomID] = group
	}
	group[c] = struct{}{}
	h.total++
	count := h.total
	h.mu.Unlock()

	log.Printf("room %s: client attached (%d total)", c.roomID, count)
	UpdateWSConnections(count)
}

func (h *Hub) unregister(c *wsClient) {
	h.mu.Lock()
	group, ok := h.rooms[c.roomID]
	if ok {
		if _, present := group[c]; present {
			delete(group, c)
			h.total--
			if len(group) == 0 {
				delete(h.rooms, c.roomID)
			}
		}
	}
	count := h.total
	h.mu.Unlock()

	c.close()
	UpdateWSConnections(count)

	// A player socket going away means the player left the match.
	if c.connectionID != "" {
		h.registry.RemoveConnection(c.connectionID)
	}
}

// readPump consumes intents from the client until the socket dies.
func (h *Hub) readPump(c *wsClient) {
	defer h.unregister(c)

	for {
		_, data, err := c.conn.ReadMessage()
		if err != nil {
			return
		}

		var msg wsEnvelope
		if err := json.Unmarshal(data, &msg); err != nil {
			continue
		}

		switch strings.ToLower(msg.Action) {
		case "move":
			if c.connectionID != "" {
				h.registry.SetDirection(c.connectionID, game.ParseDirection(msg.Direction))
			}
		case "restart":
			if h.registry.RestartMatch(c.roomID) {
				if room, ok := h.registry.Room(c.roomID); ok {
					h.MatchRestarted(room.Snapshot())
				}
			}
		case "ping":
			if room, ok := h.registry.Room(c.roomID); ok {
				room.Touch()
			}
		}
	}
}

// writePump drains the send queue onto the socket.
func (c *wsClient) writePump() {
	for data := range c.send {
		if err := c.conn.WriteMessage(websocket.TextMessage, data); err != nil {
			c.conn.Close()
			return
		}
	}
}

// sendToRoom marshals an event envelope and queues it on every subscriber
// of one room. Slow clients drop frames instead of blocking the tick.
func (h *Hub) sendToRoom(roomID, event string, data interface{}) {
	payload, err := json.Marshal(map[string]interface{}{
		"event": event,
		"data":  data,
	})
	if err != nil {
		return
	}

	h.mu.RLock()
	for c := range h.rooms[roomID] {
		select {
		case c.send <- payload:
		default:
			// Queue full, skip (backpressure)
		}
	}
	h.mu.RUnlock()
	IncrementWSMessages()
}

// game.Broadcaster implementation. Each event reaches only the room's own
// subscriber group.

func (h *Hub) RoomCreated(view game.StateView) {
	h.sendToRoom(view.RoomID, "room:created", view)
}

func (h *Hub) PlayerJoined(view game.StateView) {
	h.sendToRoom(view.RoomID, "player:joined", view)
}

func (h *Hub) StateUpdated(view game.StateView) {
	h.sendToRoom(view.RoomID, "state:update", view)
}

func (h *Hub) MatchRestarted(view game.StateView) {
	h.sendToRoom(view.RoomID, "match:restarted", view)
}

func (h *Hub) GameOver(roomID, winnerID string) {
	RecordMatchFinished()
	h.sendToRoom(roomID, "game:over", map[string]string{
		"roomId":   roomID,
		"winnerId": winnerID,
	})
}
