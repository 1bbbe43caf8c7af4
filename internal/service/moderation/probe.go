package moderation

import (
	"context"

	"github.com/natichat/natichat/internal/model/chat"
	"github.com/natichat/natichat/internal/provider"
	"github.com/natichat/natichat/pkg/logx"
)

// Outcome is the result of a moderation probe.
type Outcome struct {
	Allowed    bool
	Category   chat.BlockType
	Diagnostic string
	Provider   provider.Name
}

// Probe delegates moderation to the policy-enforcing proxy by issuing a
// disposable generation request through a randomly chosen provider.
type Probe struct {
	selector provider.Selector
}

// NewProbe builds a probe around the given selection strategy.
func NewProbe(selector provider.Selector) *Probe {
	return &Probe{selector: selector}
}

// Check passes the candidate message through the proxy. The message content
// is never inspected locally; only the success or failure of the upstream
// call is observed. Callers must not hold shared-state locks across Check
// because it blocks on the network.
func (p *Probe) Check(ctx context.Context, text string) Outcome {
	gen := p.selector.Choose()

	err := gen.Probe(ctx, text)
	if err == nil {
		return Outcome{Allowed: true, Provider: gen.Name()}
	}

	diagnostic := ExtractMessage(err)
	category := ResolveBlockType(diagnostic)

	if category == chat.BlockUnknown {
		// Fail open: an unrecognised proxy error must not block a message.
		logx.L().Warn().
			Str(logx.FieldProvider, string(gen.Name())).
			Str("diagnostic", diagnostic).
			Msg("unknown proxy error, allowing message")
		return Outcome{Allowed: true, Provider: gen.Name()}
	}

	return Outcome{
		Allowed:    false,
		Category:   category,
		Diagnostic: diagnostic,
		Provider:   gen.Name(),
	}
}
