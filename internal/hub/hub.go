package hub

import (
	"context"
	"encoding/json"
	"sync"

	"github.com/natichat/natichat/pkg/logx"
)

// DefaultRoom is the implicit room every connection joins.
const DefaultRoom = "general"

// Outbound is the wire shape of every server-to-client message.
type Outbound struct {
	Type string `json:"type"`
	Data any    `json:"data,omitempty"`
}

type envelope struct {
	room    string
	payload []byte
	exclude string // connection ID to skip, "" for none
}

// Hub fans messages out to the connections of a room. Delivery is best
// effort to currently-connected clients, in the order broadcasts are
// enqueued; the recipient set is captured at dispatch time.
type Hub struct {
	mu         sync.RWMutex
	clients    map[string]*Client
	rooms      map[string]map[string]*Client
	register   chan *Client
	unregister chan *Client
	broadcast  chan envelope
}

// New bootstraps a hub. Call Run in its own goroutine before use.
func New() *Hub {
	return &Hub{
		clients:    make(map[string]*Client),
		rooms:      make(map[string]map[string]*Client),
		register:   make(chan *Client),
		unregister: make(chan *Client),
		broadcast:  make(chan envelope, 256),
	}
}

// Run processes registration and broadcast traffic until ctx is cancelled.
func (h *Hub) Run(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			return

		case client := <-h.register:
			h.mu.Lock()
			h.clients[client.ID] = client
			h.mu.Unlock()
			logx.L().Debug().Str(logx.FieldConnectionID, client.ID).Msg("client registered")

		case client := <-h.unregister:
			h.mu.Lock()
			for room, members := range h.rooms {
				delete(members, client.ID)
				if len(members) == 0 {
					delete(h.rooms, room)
				}
			}
			delete(h.clients, client.ID)
			h.mu.Unlock()
			client.closeSend()
			logx.L().Debug().Str(logx.FieldConnectionID, client.ID).Msg("client unregistered")

		case msg := <-h.broadcast:
			h.mu.RLock()
			members := h.rooms[msg.room]
			for id, client := range members {
				if id == msg.exclude {
					continue
				}
				if !client.enqueue(msg.payload) {
					// Slow or departed client; drop it rather than
					// stall the room.
					go h.Unregister(client)
				}
			}
			h.mu.RUnlock()
		}
	}
}

// Register adds a client to the hub.
func (h *Hub) Register(client *Client) {
	h.register <- client
}

// Unregister removes a client and closes its send queue.
func (h *Hub) Unregister(client *Client) {
	h.unregister <- client
}

// JoinRoom adds a client to a room.
func (h *Hub) JoinRoom(client *Client, room string) {
	h.mu.Lock()
	defer h.mu.Unlock()

	if _, ok := h.rooms[room]; !ok {
		h.rooms[room] = make(map[string]*Client)
	}
	h.rooms[room][client.ID] = client
}

// LeaveRoom removes a client from a room.
func (h *Hub) LeaveRoom(client *Client, room string) {
	h.mu.Lock()
	defer h.mu.Unlock()

	if members, ok := h.rooms[room]; ok {
		delete(members, client.ID)
		if len(members) == 0 {
			delete(h.rooms, room)
		}
	}
}

// Broadcast delivers a message to every connection in a room.
func (h *Hub) Broadcast(room string, message Outbound) {
	h.BroadcastExcept(room, "", message)
}

// BroadcastExcept delivers a message to a room, skipping one connection.
// Used for typing indicators, which exclude the sender.
func (h *Hub) BroadcastExcept(room, exclude string, message Outbound) {
	payload, err := json.Marshal(message)
	if err != nil {
		logx.L().Error().Err(err).Str(logx.FieldRoom, room).Msg("marshal broadcast")
		return
	}

	h.broadcast <- envelope{room: room, payload: payload, exclude: exclude}
}

// RoomSize reports how many connections a room currently has.
func (h *Hub) RoomSize(room string) int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.rooms[room])
}
