package config

import (
	"fmt"
	"strings"

	"github.com/caarlos0/env/v11"
)

// Config aggregates all service configuration.
type Config struct {
	Server    ServerConfig
	Log       LogConfig
	Proxy     ProxyConfig
	OpenAI    OpenAIConfig
	Anthropic AnthropicConfig
}

// Load parses configuration from environment variables.
func Load() (*Config, error) {
	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return nil, fmt.Errorf("parse env: %w", err)
	}

	if strings.Contains(cfg.Server.Port, " ") {
		return nil, fmt.Errorf("invalid PORT value: %q", cfg.Server.Port)
	}

	return &cfg, nil
}

// ServerConfig describes the HTTP listener.
type ServerConfig struct {
	Port string `env:"PORT" envDefault:"5000"`
}

// Addr returns a listen address. Accepts either a bare port or a full
// host:port so ":5000" and "127.0.0.1:5000" both work.
func (c ServerConfig) Addr() string {
	if strings.Contains(c.Port, ":") {
		return c.Port
	}
	return ":" + c.Port
}

// LogConfig describes logger behaviour.
type LogConfig struct {
	Level  string `env:"LOG_LEVEL" envDefault:"info"`
	Pretty bool   `env:"LOG_PRETTY" envDefault:"false"`
}

// ProxyConfig points both provider clients at the policy-enforcing proxy.
// The proxy is the sole moderation authority; this service never talks to
// the real providers directly.
type ProxyConfig struct {
	BaseURL string `env:"PROXY_BASE_URL" envDefault:"http://localhost:3000"`
}

// OpenAIBaseURL returns the OpenAI-compatible endpoint behind the proxy.
func (c ProxyConfig) OpenAIBaseURL() string {
	return strings.TrimRight(c.BaseURL, "/") + "/openai/v1"
}

// AnthropicBaseURL returns the Anthropic-compatible endpoint behind the proxy.
func (c ProxyConfig) AnthropicBaseURL() string {
	return strings.TrimRight(c.BaseURL, "/") + "/anthropic"
}

// OpenAIConfig holds client settings for the OpenAI upstream. The key is a
// placeholder by default; the proxy injects real credentials.
type OpenAIConfig struct {
	APIKey string `env:"OPENAI_API_KEY" envDefault:"sk-client-placeholder"`
	Model  string `env:"OPENAI_MODEL" envDefault:"gpt-3.5-turbo"`
}

// AnthropicConfig holds client settings for the Anthropic upstream.
type AnthropicConfig struct {
	APIKey string `env:"ANTHROPIC_API_KEY" envDefault:"sk-client-placeholder"`
	Model  string `env:"ANTHROPIC_MODEL" envDefault:"claude-3-haiku-20240307"`
}
