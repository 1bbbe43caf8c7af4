package provider

import (
	"context"
	"fmt"
	"strings"

	claudemodel "github.com/cloudwego/eino-ext/components/model/claude"
	"github.com/cloudwego/eino/components/model"
	"github.com/cloudwego/eino/schema"

	"github.com/natichat/natichat/internal/config"
)

// Anthropic reaches the Anthropic-compatible endpoint behind the proxy.
type Anthropic struct {
	model model.ChatModel
}

// NewAnthropic builds the Claude adapter against the proxy's /anthropic endpoint.
func NewAnthropic(ctx context.Context, cfg config.AnthropicConfig, baseURL string) (*Anthropic, error) {
	chatModel, err := claudemodel.NewChatModel(ctx, &claudemodel.Config{
		APIKey:    cfg.APIKey,
		BaseURL:   &baseURL,
		Model:     cfg.Model,
		MaxTokens: replyMaxTokens,
	})
	if err != nil {
		return nil, fmt.Errorf("create claude chat model: %w", err)
	}
	return &Anthropic{model: chatModel}, nil
}

func (p *Anthropic) Name() Name {
	return Claude
}

func (p *Anthropic) Reply(ctx context.Context, prompt string) (string, error) {
	messages := []*schema.Message{
		schema.UserMessage("Please respond to this chat message: " + prompt),
	}

	out, err := p.model.Generate(ctx, messages, model.WithMaxTokens(replyMaxTokens))
	if err != nil {
		return "", &CallError{Provider: Claude, Err: err}
	}
	return strings.TrimSpace(out.Content), nil
}

func (p *Anthropic) Probe(ctx context.Context, message string) error {
	messages := []*schema.Message{
		schema.UserMessage("Simply acknowledge this message briefly: " + message),
	}

	if _, err := p.model.Generate(ctx, messages, model.WithMaxTokens(probeMaxTokens)); err != nil {
		return &CallError{Provider: Claude, Err: err}
	}
	return nil
}
