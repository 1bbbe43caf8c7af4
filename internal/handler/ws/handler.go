package ws

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"

	"github.com/natichat/natichat/internal/hub"
	"github.com/natichat/natichat/internal/middleware"
	"github.com/natichat/natichat/internal/service/relay"
	"github.com/natichat/natichat/internal/service/session"
	"github.com/natichat/natichat/pkg/logx"
)

// How many events a freshly-connected client catches up on.
const historyLimit = 50

// Handler upgrades real-time connections and routes their events.
type Handler struct {
	hub      *hub.Hub
	registry *session.Registry
	relay    *relay.Relay
	upgrader websocket.Upgrader
}

// New creates the websocket handler.
func New(h *hub.Hub, registry *session.Registry, r *relay.Relay) *Handler {
	return &Handler{
		hub:      h,
		registry: registry,
		relay:    r,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin: func(r *http.Request) bool {
				return true
			},
		},
	}
}

type inbound struct {
	Type string `json:"type"`
	Room string `json:"room"`
}

// HandleWebSocket upgrades the connection and binds it to the caller's
// identity. A connection without a valid identity cookie is logged and
// proceeds unassociated; it is never rejected for that.
func (h *Handler) HandleWebSocket(w http.ResponseWriter, r *http.Request) {
	var identity middleware.Identity
	if c, err := r.Cookie(middleware.CookieName); err == nil {
		if name, ok := h.registry.Lookup(c.Value); ok {
			identity = middleware.Identity{UserID: c.Value, DisplayName: name}
		}
	}

	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		logx.L().Warn().Err(err).Msg("websocket upgrade failed")
		return
	}

	client := hub.NewClient(uuid.NewString(), h.hub, conn)
	h.hub.Register(client)
	h.hub.JoinRoom(client, hub.DefaultRoom)

	go client.WritePump()

	if identity.UserID != "" {
		client.UserID = identity.UserID
		client.DisplayName = identity.DisplayName
		h.registry.BindConnection(client.ID, identity.UserID)

		h.hub.Broadcast(hub.DefaultRoom, hub.Outbound{
			Type: "user_joined",
			Data: map[string]any{
				"userId":    identity.UserID,
				"username":  identity.DisplayName,
				"timestamp": time.Now().UTC(),
			},
		})
		logx.L().Info().
			Str(logx.FieldConnectionID, client.ID).
			Str(logx.FieldUsername, identity.DisplayName).
			Msg("client connected")
	} else {
		logx.L().Warn().
			Str(logx.FieldConnectionID, client.ID).
			Msg("client connected without session")
	}

	client.SendMessage(hub.Outbound{Type: "status", Data: map[string]string{"message": "Connected to chat server"}})
	client.SendMessage(hub.Outbound{Type: "history", Data: h.relay.Recent(historyLimit)})

	go client.ReadPump(h.handleMessage, h.handleDisconnect)
}

func (h *Handler) handleMessage(client *hub.Client, raw []byte) {
	var msg inbound
	if err := json.Unmarshal(raw, &msg); err != nil {
		client.SendMessage(hub.Outbound{Type: "status", Data: map[string]string{"message": "Invalid message format"}})
		return
	}

	room := msg.Room
	if room == "" {
		room = hub.DefaultRoom
	}

	switch msg.Type {
	case "join":
		h.hub.JoinRoom(client, room)
		h.hub.Broadcast(room, hub.Outbound{Type: "status", Data: map[string]string{"message": "Joined room: " + room}})

	case "leave":
		h.hub.LeaveRoom(client, room)
		h.hub.Broadcast(room, hub.Outbound{Type: "status", Data: map[string]string{"message": "Left room: " + room}})

	case "typing":
		if client.DisplayName == "" {
			return
		}
		h.hub.BroadcastExcept(hub.DefaultRoom, client.ID, hub.Outbound{
			Type: "user_typing",
			Data: map[string]any{
				"username":  client.DisplayName,
				"timestamp": time.Now().UTC(),
			},
		})

	case "stop_typing":
		// Accepted and ignored; typing state is ephemeral.

	default:
		client.SendMessage(hub.Outbound{Type: "status", Data: map[string]string{"message": "Unknown message type"}})
	}
}

func (h *Handler) handleDisconnect(client *hub.Client) {
	userID, wasLast, ok := h.registry.UnbindConnection(client.ID)
	if !ok {
		logx.L().Debug().Str(logx.FieldConnectionID, client.ID).Msg("unknown connection disconnected")
		return
	}

	if !wasLast {
		logx.L().Info().
			Str(logx.FieldConnectionID, client.ID).
			Str(logx.FieldUserID, userID).
			Msg("connection closed, user still online")
		return
	}

	name, retired := h.registry.RetireIfOrphaned(userID)
	if retired {
		h.hub.Broadcast(hub.DefaultRoom, hub.Outbound{
			Type: "user_left",
			Data: map[string]any{
				"userId":    userID,
				"username":  name,
				"timestamp": time.Now().UTC(),
			},
		})
		logx.L().Info().
			Str(logx.FieldUserID, userID).
			Str(logx.FieldUsername, name).
			Msg("user disconnected")
	}
}
