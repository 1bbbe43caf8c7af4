package provider

import (
	"context"
	"fmt"
	"math/rand/v2"
)

// Name identifies an upstream provider in user-facing labels.
type Name string

const (
	ChatGPT Name = "ChatGPT"
	Claude  Name = "Claude"
)

// AssistantName returns the display name used for direct AI replies.
func (n Name) AssistantName() string {
	return string(n) + " Assistant"
}

// Per-call token budgets. Probes are throwaway requests; replies are real.
const (
	probeMaxTokens = 50
	replyMaxTokens = 150
)

// Generator is a single upstream provider reached through the proxy.
type Generator interface {
	Name() Name
	// Reply produces a chat reply for a user prompt.
	Reply(ctx context.Context, prompt string) (string, error)
	// Probe issues a throwaway generation request whose only purpose is to
	// pass the message through the proxy's policy checks. The generated
	// content is discarded.
	Probe(ctx context.Context, message string) error
}

// CallError is the one error shape that leaves a provider adapter. SDK
// failures are wrapped here at the boundary so downstream classification
// never deals with transport-specific types.
type CallError struct {
	Provider Name
	Status   int    // HTTP status when the transport exposed one, 0 otherwise
	Body     []byte // raw response body when available
	Err      error
}

func (e *CallError) Error() string {
	if e.Err != nil {
		return e.Err.Error()
	}
	return fmt.Sprintf("%s call failed", e.Provider)
}

func (e *CallError) Unwrap() error {
	return e.Err
}

// Selector picks the provider for a moderation probe. Injectable so tests
// can force a deterministic choice.
type Selector interface {
	Choose() Generator
}

type randomSelector struct {
	generators []Generator
}

// NewRandomSelector selects uniformly at random, independently per call.
func NewRandomSelector(generators ...Generator) Selector {
	return &randomSelector{generators: generators}
}

func (s *randomSelector) Choose() Generator {
	return s.generators[rand.IntN(len(s.generators))]
}
