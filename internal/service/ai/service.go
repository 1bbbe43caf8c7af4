package ai

import (
	"context"

	"github.com/natichat/natichat/internal/model/chat"
	"github.com/natichat/natichat/internal/provider"
	"github.com/natichat/natichat/internal/service/moderation"
	"github.com/natichat/natichat/internal/service/relay"
	"github.com/natichat/natichat/pkg/logx"
)

// Service handles direct AI replies (the /chatgpt and /claude paths). These
// bypass moderation entirely: the prompt goes straight through the proxy to
// the chosen provider.
type Service struct {
	relay *relay.Relay
}

// NewService wires the AI reply service over the relay.
func NewService(r *relay.Relay) *Service {
	return &Service{relay: r}
}

// Respond generates a reply from the given provider and relays it as an ai
// event. On upstream failure the classified diagnostic is relayed as an
// error event so every participant sees it, and the failure is returned to
// the caller for the HTTP status.
func (s *Service) Respond(ctx context.Context, gen provider.Generator, prompt string) (chat.Event, error) {
	reply, err := gen.Reply(ctx, prompt)
	if err != nil {
		diagnostic := moderation.ExtractMessage(err)
		logx.L().Error().
			Str(logx.FieldProvider, string(gen.Name())).
			Str("diagnostic", diagnostic).
			Msg("ai reply failed")
		return s.relay.PublishAIError(gen.Name(), diagnostic), err
	}

	event := s.relay.PublishAI(gen.Name(), reply)
	logx.L().Info().
		Str(logx.FieldProvider, string(gen.Name())).
		Str(logx.FieldEventID, event.ID).
		Int("length", len(reply)).
		Msg("ai reply relayed")
	return event, nil
}
