package relay

import (
	"sync"

	"github.com/natichat/natichat/internal/hub"
	"github.com/natichat/natichat/internal/model/chat"
	"github.com/natichat/natichat/internal/provider"
	chatlog "github.com/natichat/natichat/internal/service/chat"
	"github.com/natichat/natichat/internal/service/moderation"
	"github.com/natichat/natichat/pkg/logx"
)

// Broadcaster fans an event out to a room's connections.
type Broadcaster interface {
	Broadcast(room string, message hub.Outbound)
}

// Relay appends events to the log and broadcasts them to the default room.
// A single mutex serializes publish calls so log order and wire order agree,
// and so the redacted/security-block pair stays adjacent against concurrent
// publishes.
type Relay struct {
	mu  sync.Mutex
	log *chatlog.Log
	b   Broadcaster
}

// New wires a relay over the given log and broadcaster.
func New(log *chatlog.Log, b Broadcaster) *Relay {
	return &Relay{log: log, b: b}
}

// PublishUser relays a message that passed moderation, unmodified.
func (r *Relay) PublishUser(userID, displayName, body string) chat.Event {
	r.mu.Lock()
	defer r.mu.Unlock()

	event := r.log.Append(chat.Event{
		AuthorID:    userID,
		DisplayName: displayName,
		Body:        body,
		Kind:        chat.KindUser,
	})
	r.broadcast(event)
	return event
}

// PublishBlocked relays a blocked message as its redacted form, immediately
// followed by a synthetic system event carrying the proxy's own explanation.
func (r *Relay) PublishBlocked(userID, displayName, originalBody string, outcome moderation.Outcome) (chat.Event, chat.Event) {
	redacted := chat.Event{
		AuthorID:      userID,
		DisplayName:   displayName,
		Body:          moderation.Redact(originalBody),
		Kind:          chat.KindUserRedacted,
		BlockCategory: outcome.Category,
	}
	system := chat.Event{
		AuthorID:      chat.AuthorProxySecurity,
		DisplayName:   "🛡️ " + string(outcome.Provider),
		Body:          outcome.Diagnostic,
		Kind:          chat.KindSecurityBlock,
		BlockCategory: outcome.Category,
		Reason:        outcome.Category.Explanation(),
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	first, second := r.log.AppendPair(redacted, system)
	r.broadcast(first)
	r.broadcast(second)

	logx.L().Info().
		Str(logx.FieldUserID, userID).
		Str(logx.FieldBlockType, string(outcome.Category)).
		Str(logx.FieldProvider, string(outcome.Provider)).
		Msg("message blocked by proxy")

	return first, second
}

// PublishAI relays a direct AI reply.
func (r *Relay) PublishAI(name provider.Name, body string) chat.Event {
	return r.publishAssistant(name, body, chat.KindAI)
}

// PublishAIError relays an upstream generation failure so every participant
// sees it.
func (r *Relay) PublishAIError(name provider.Name, body string) chat.Event {
	return r.publishAssistant(name, body, chat.KindError)
}

func (r *Relay) publishAssistant(name provider.Name, body string, kind chat.Kind) chat.Event {
	r.mu.Lock()
	defer r.mu.Unlock()

	event := r.log.Append(chat.Event{
		AuthorID:    chat.AuthorAIAssistant,
		DisplayName: name.AssistantName(),
		Body:        body,
		Kind:        kind,
	})
	r.broadcast(event)
	return event
}

// Events returns the full log snapshot.
func (r *Relay) Events() []chat.Event {
	return r.log.All()
}

// Recent returns the last n events for connection catch-up.
func (r *Relay) Recent(n int) []chat.Event {
	return r.log.Recent(n)
}

// EventCount reports the log size.
func (r *Relay) EventCount() int {
	return r.log.Len()
}

// caller holds r.mu
func (r *Relay) broadcast(event chat.Event) {
	r.b.Broadcast(hub.DefaultRoom, hub.Outbound{Type: "new_message", Data: event})
}
