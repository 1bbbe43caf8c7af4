package handler

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"

	"github.com/natichat/natichat/internal/handler/assistant"
	"github.com/natichat/natichat/internal/handler/message"
	"github.com/natichat/natichat/internal/handler/status"
	"github.com/natichat/natichat/internal/handler/ws"
	"github.com/natichat/natichat/internal/hub"
	"github.com/natichat/natichat/internal/middleware"
	"github.com/natichat/natichat/internal/provider"
	aiservice "github.com/natichat/natichat/internal/service/ai"
	"github.com/natichat/natichat/internal/service/moderation"
	"github.com/natichat/natichat/internal/service/relay"
	"github.com/natichat/natichat/internal/service/session"
)

// Deps collects everything the HTTP surface needs.
type Deps struct {
	Registry *session.Registry
	Relay    *relay.Relay
	Probe    *moderation.Probe
	AI       *aiservice.Service
	Hub      *hub.Hub
	ChatGPT  provider.Generator
	Claude   provider.Generator
}

// NewRouter wires HTTP routes to core services.
func NewRouter(deps Deps) http.Handler {
	r := chi.NewRouter()

	r.Use(chimiddleware.RequestID)
	r.Use(chimiddleware.RealIP)
	r.Use(middleware.RequestLogger)
	r.Use(chimiddleware.Recoverer)
	r.Use(middleware.CORS)

	messageHandler := message.New(deps.Relay, deps.Probe, deps.AI, deps.ChatGPT, deps.Claude)
	assistantHandler := assistant.New(deps.AI, deps.ChatGPT, deps.Claude)
	statusHandler := status.New(deps.Registry, deps.Relay)
	wsHandler := ws.New(deps.Hub, deps.Registry, deps.Relay)

	identity := middleware.WithIdentity(deps.Registry)

	// Direct AI endpoints live at the root, as the frontend calls them.
	r.Group(func(g chi.Router) {
		g.Use(identity)
		g.Post("/chatgpt", assistantHandler.HandleChatGPT)
		g.Post("/claude", assistantHandler.HandleClaude)
	})

	r.Route("/api", func(api chi.Router) {
		api.Use(identity)
		messageHandler.RegisterRoutes(api)
		assistantHandler.RegisterCompatRoutes(api)
		statusHandler.RegisterRoutes(api)
	})

	// No identity middleware here: a connection arriving without a session
	// proceeds unassociated instead of being minted one mid-upgrade.
	r.Get("/ws", wsHandler.HandleWebSocket)

	return r
}
