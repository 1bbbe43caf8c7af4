package message

import (
	"encoding/json"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/natichat/natichat/internal/middleware"
	"github.com/natichat/natichat/internal/provider"
	aiservice "github.com/natichat/natichat/internal/service/ai"
	"github.com/natichat/natichat/internal/service/moderation"
	"github.com/natichat/natichat/internal/service/relay"
	"github.com/natichat/natichat/pkg/utils"
)

// AI command prefixes. Matching is case-insensitive; the remainder of the
// message is the prompt and moderation is skipped entirely.
const (
	chatGPTCommand = "/chatgpt "
	claudeCommand  = "/claude "
)

// Handler serves the message log and the moderated send path.
type Handler struct {
	relay   *relay.Relay
	probe   *moderation.Probe
	ai      *aiservice.Service
	chatGPT provider.Generator
	claude  provider.Generator
}

// New creates the message handler.
func New(r *relay.Relay, probe *moderation.Probe, ai *aiservice.Service, chatGPT, claude provider.Generator) *Handler {
	return &Handler{relay: r, probe: probe, ai: ai, chatGPT: chatGPT, claude: claude}
}

// RegisterRoutes mounts the message endpoints.
func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Get("/messages", h.handleList)
	r.Post("/messages", h.handleSend)
}

func (h *Handler) handleList(w http.ResponseWriter, r *http.Request) {
	utils.RespondJSON(w, http.StatusOK, h.relay.Events())
}

func (h *Handler) handleSend(w http.ResponseWriter, r *http.Request) {
	var payload struct {
		Message json.RawMessage `json:"message"`
	}
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		utils.RespondError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	text, ok := stringField(payload.Message)
	if !ok {
		utils.RespondError(w, http.StatusBadRequest, "Message must be a string")
		return
	}

	text = strings.TrimSpace(text)
	if text == "" {
		utils.RespondError(w, http.StatusBadRequest, "Message cannot be empty")
		return
	}

	// AI commands dispatch straight to the reply path; the probe never runs.
	lower := strings.ToLower(text)
	switch {
	case strings.HasPrefix(lower, chatGPTCommand):
		h.dispatchAI(w, r, h.chatGPT, text[len(chatGPTCommand):])
		return
	case strings.HasPrefix(lower, claudeCommand):
		h.dispatchAI(w, r, h.claude, text[len(claudeCommand):])
		return
	}

	identity, _ := middleware.IdentityFrom(r.Context())

	// Blocking network call; no shared state is held across it.
	outcome := h.probe.Check(r.Context(), text)

	if outcome.Allowed {
		event := h.relay.PublishUser(identity.UserID, identity.DisplayName, text)
		utils.RespondJSON(w, http.StatusOK, event)
		return
	}

	redacted, _ := h.relay.PublishBlocked(identity.UserID, identity.DisplayName, text, outcome)
	utils.RespondJSON(w, http.StatusOK, redacted)
}

func (h *Handler) dispatchAI(w http.ResponseWriter, r *http.Request, gen provider.Generator, prompt string) {
	// Failures are already relayed as error events; the command itself is
	// always acknowledged.
	_, _ = h.ai.Respond(r.Context(), gen, strings.TrimSpace(prompt))
	utils.RespondJSON(w, http.StatusOK, map[string]string{"status": "AI request processed"})
}

// stringField unpacks an optional JSON string field. A missing field reads
// as the empty string; any other JSON type is rejected.
func stringField(raw json.RawMessage) (string, bool) {
	if len(raw) == 0 {
		return "", true
	}
	var s string
	if err := json.Unmarshal(raw, &s); err != nil {
		return "", false
	}
	return s, true
}
