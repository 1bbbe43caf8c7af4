package assistant

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/natichat/natichat/internal/hub"
	"github.com/natichat/natichat/internal/model/chat"
	"github.com/natichat/natichat/internal/provider"
	aiservice "github.com/natichat/natichat/internal/service/ai"
	chatlog "github.com/natichat/natichat/internal/service/chat"
	"github.com/natichat/natichat/internal/service/relay"
)

type fakeGenerator struct {
	name     provider.Name
	reply    string
	replyErr error
}

func (f *fakeGenerator) Name() provider.Name {
	return f.name
}

func (f *fakeGenerator) Reply(context.Context, string) (string, error) {
	if f.replyErr != nil {
		return "", f.replyErr
	}
	return f.reply, nil
}

func (f *fakeGenerator) Probe(context.Context, string) error {
	return nil
}

type nopBroadcaster struct{}

func (nopBroadcaster) Broadcast(string, hub.Outbound) {}

func newRouter(chatGPT, claude *fakeGenerator) (*chi.Mux, *relay.Relay) {
	rel := relay.New(chatlog.NewLog(), nopBroadcaster{})
	handler := New(aiservice.NewService(rel), chatGPT, claude)

	r := chi.NewRouter()
	r.Post("/chatgpt", handler.HandleChatGPT)
	r.Post("/claude", handler.HandleClaude)
	r.Route("/api", func(api chi.Router) {
		handler.RegisterCompatRoutes(api)
	})
	return r, rel
}

func post(t *testing.T, r http.Handler, path, body string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(http.MethodPost, path, bytes.NewReader([]byte(body)))
	req.Header.Set("Content-Type", "application/json")
	resp := httptest.NewRecorder()
	r.ServeHTTP(resp, req)
	return resp
}

func TestChatGPTReply(t *testing.T) {
	chatGPT := &fakeGenerator{name: provider.ChatGPT, reply: "Sure thing!"}
	r, rel := newRouter(chatGPT, &fakeGenerator{})

	resp := post(t, r, "/chatgpt", `{"prompt": "say hi"}`)

	require.Equal(t, http.StatusOK, resp.Code)

	var event chat.Event
	require.NoError(t, json.Unmarshal(resp.Body.Bytes(), &event))
	assert.Equal(t, chat.KindAI, event.Kind)
	assert.Equal(t, chat.AuthorAIAssistant, event.AuthorID)
	assert.Equal(t, "ChatGPT Assistant", event.DisplayName)
	assert.Equal(t, "Sure thing!", event.Body)

	assert.Equal(t, 1, rel.EventCount())
}

func TestClaudeReply(t *testing.T) {
	claude := &fakeGenerator{name: provider.Claude, reply: "Hello."}
	r, _ := newRouter(&fakeGenerator{}, claude)

	resp := post(t, r, "/claude", `{"prompt": "say hi"}`)

	require.Equal(t, http.StatusOK, resp.Code)

	var event chat.Event
	require.NoError(t, json.Unmarshal(resp.Body.Bytes(), &event))
	assert.Equal(t, "Claude Assistant", event.DisplayName)
}

func TestEmptyPrompt(t *testing.T) {
	r, _ := newRouter(&fakeGenerator{}, &fakeGenerator{})

	resp := post(t, r, "/chatgpt", `{"prompt": ""}`)

	require.Equal(t, http.StatusBadRequest, resp.Code)
	assert.JSONEq(t, `{"error": "Prompt cannot be empty"}`, resp.Body.String())
}

func TestNonStringPrompt(t *testing.T) {
	r, _ := newRouter(&fakeGenerator{}, &fakeGenerator{})

	resp := post(t, r, "/claude", `{"prompt": ["nope"]}`)

	require.Equal(t, http.StatusBadRequest, resp.Code)
	assert.JSONEq(t, `{"error": "Prompt must be a string"}`, resp.Body.String())
}

func TestUpstreamFailure(t *testing.T) {
	chatGPT := &fakeGenerator{
		name:     provider.ChatGPT,
		replyErr: errors.New(`Error code: 403 - {"error": {"message": "Forbidden by content policy"}}`),
	}
	r, rel := newRouter(chatGPT, &fakeGenerator{})

	resp := post(t, r, "/chatgpt", `{"prompt": "say hi"}`)

	require.Equal(t, http.StatusInternalServerError, resp.Code)

	var event chat.Event
	require.NoError(t, json.Unmarshal(resp.Body.Bytes(), &event))
	assert.Equal(t, chat.KindError, event.Kind)
	assert.Equal(t, "Forbidden by content policy", event.Body)

	// The failure is in the log too, so every participant sees it.
	events := rel.Events()
	require.Len(t, events, 1)
	assert.Equal(t, chat.KindError, events[0].Kind)
}

func TestCompatRoutes(t *testing.T) {
	chatGPT := &fakeGenerator{name: provider.ChatGPT, reply: "ok"}
	claude := &fakeGenerator{name: provider.Claude, reply: "ok"}
	r, _ := newRouter(chatGPT, claude)

	for _, path := range []string{"/api/ai", "/api/chatgpt", "/api/anthropic"} {
		resp := post(t, r, path, `{"prompt": "hello"}`)
		assert.Equal(t, http.StatusOK, resp.Code, "path %s", path)
	}
}
