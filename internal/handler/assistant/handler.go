package assistant

import (
	"encoding/json"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/natichat/natichat/internal/provider"
	aiservice "github.com/natichat/natichat/internal/service/ai"
	"github.com/natichat/natichat/pkg/utils"
)

// Handler serves the direct AI reply endpoints. These bypass moderation.
type Handler struct {
	ai      *aiservice.Service
	chatGPT provider.Generator
	claude  provider.Generator
}

// New creates the assistant handler.
func New(ai *aiservice.Service, chatGPT, claude provider.Generator) *Handler {
	return &Handler{ai: ai, chatGPT: chatGPT, claude: claude}
}

// HandleChatGPT answers a prompt through the OpenAI upstream.
func (h *Handler) HandleChatGPT(w http.ResponseWriter, r *http.Request) {
	h.respond(w, r, h.chatGPT)
}

// HandleClaude answers a prompt through the Anthropic upstream.
func (h *Handler) HandleClaude(w http.ResponseWriter, r *http.Request) {
	h.respond(w, r, h.claude)
}

// RegisterCompatRoutes mounts deprecated aliases kept for older frontends.
func (h *Handler) RegisterCompatRoutes(r chi.Router) {
	r.Post("/ai", h.HandleChatGPT) // defaults to ChatGPT
	r.Post("/chatgpt", h.HandleChatGPT)
	r.Post("/anthropic", h.HandleClaude)
}

func (h *Handler) respond(w http.ResponseWriter, r *http.Request, gen provider.Generator) {
	var payload struct {
		Prompt json.RawMessage `json:"prompt"`
	}
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		utils.RespondError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	prompt, ok := stringField(payload.Prompt)
	if !ok {
		utils.RespondError(w, http.StatusBadRequest, "Prompt must be a string")
		return
	}

	prompt = strings.TrimSpace(prompt)
	if prompt == "" {
		utils.RespondError(w, http.StatusBadRequest, "Prompt cannot be empty")
		return
	}

	event, err := h.ai.Respond(r.Context(), gen, prompt)
	if err != nil {
		// The error event was already relayed; surface it with a 500.
		utils.RespondJSON(w, http.StatusInternalServerError, event)
		return
	}

	utils.RespondJSON(w, http.StatusOK, event)
}

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
