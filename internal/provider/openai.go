package provider

import (
	"context"
	"fmt"

	openaimodel "github.com/cloudwego/eino-ext/components/model/openai"
	"github.com/cloudwego/eino/components/model"
	"github.com/cloudwego/eino/schema"

	"github.com/natichat/natichat/internal/config"
)

const (
	openAIReplySystem = "You are a helpful assistant in a chat application. Keep responses concise and friendly."
	openAIProbeSystem = "You are a helpful assistant. Simply acknowledge receipt of the user's message with a brief, positive response."
)

// OpenAI reaches the OpenAI-compatible endpoint behind the proxy.
type OpenAI struct {
	model model.ChatModel
}

// NewOpenAI builds the OpenAI adapter against the proxy's /openai/v1 endpoint.
func NewOpenAI(ctx context.Context, cfg config.OpenAIConfig, baseURL string) (*OpenAI, error) {
	chatModel, err := openaimodel.NewChatModel(ctx, &openaimodel.ChatModelConfig{
		APIKey:  cfg.APIKey,
		BaseURL: baseURL,
		Model:   cfg.Model,
	})
	if err != nil {
		return nil, fmt.Errorf("create openai chat model: %w", err)
	}
	return &OpenAI{model: chatModel}, nil
}

func (p *OpenAI) Name() Name {
	return ChatGPT
}

func (p *OpenAI) Reply(ctx context.Context, prompt string) (string, error) {
	messages := []*schema.Message{
		schema.SystemMessage(openAIReplySystem),
		schema.UserMessage(prompt),
	}

	out, err := p.model.Generate(ctx, messages, model.WithMaxTokens(replyMaxTokens))
	if err != nil {
		return "", &CallError{Provider: ChatGPT, Err: err}
	}
	return out.Content, nil
}

func (p *OpenAI) Probe(ctx context.Context, message string) error {
	messages := []*schema.Message{
		schema.SystemMessage(openAIProbeSystem),
		schema.UserMessage(message),
	}

	if _, err := p.model.Generate(ctx, messages, model.WithMaxTokens(probeMaxTokens)); err != nil {
		return &CallError{Provider: ChatGPT, Err: err}
	}
	return nil
}
