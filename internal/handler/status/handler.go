package status

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/natichat/natichat/internal/service/relay"
	"github.com/natichat/natichat/internal/service/session"
	"github.com/natichat/natichat/pkg/utils"
)

// Handler serves introspection endpoints. None of them mutate state.
type Handler struct {
	registry *session.Registry
	relay    *relay.Relay
}

// New creates the introspection handler.
func New(registry *session.Registry, r *relay.Relay) *Handler {
	return &Handler{registry: registry, relay: r}
}

// RegisterRoutes mounts the introspection endpoints.
func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Get("/users", h.handleUsers)
	r.Get("/status", h.handleStatus)
	r.Get("/debug/users", h.handleDebugUsers)
}

func (h *Handler) handleUsers(w http.ResponseWriter, r *http.Request) {
	utils.RespondJSON(w, http.StatusOK, h.registry.Usernames())
}

func (h *Handler) handleStatus(w http.ResponseWriter, r *http.Request) {
	utils.RespondJSON(w, http.StatusOK, map[string]any{
		"status":          "online",
		"usersCount":      h.registry.Count(),
		"messagesCount":   h.relay.EventCount(),
		"proxyConfigured": true,
		"timestamp":       time.Now().UTC(),
	})
}

func (h *Handler) handleDebugUsers(w http.ResponseWriter, r *http.Request) {
	utils.RespondJSON(w, http.StatusOK, h.registry.DebugSnapshot())
}
