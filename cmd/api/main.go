package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"github.com/natichat/natichat/internal/config"
	"github.com/natichat/natichat/internal/handler"
	"github.com/natichat/natichat/internal/hub"
	"github.com/natichat/natichat/internal/provider"
	aiservice "github.com/natichat/natichat/internal/service/ai"
	chatlog "github.com/natichat/natichat/internal/service/chat"
	"github.com/natichat/natichat/internal/service/moderation"
	"github.com/natichat/natichat/internal/service/relay"
	"github.com/natichat/natichat/internal/service/session"
	"github.com/natichat/natichat/pkg/logx"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := godotenv.Load(); err != nil {
		logx.L().Warn().Msg("no .env file found, using system environment only")
	}

	cfg, err := config.Load()
	if err != nil {
		logx.L().Fatal().Err(err).Msg("failed to load configuration")
	}

	logx.Init(logx.Config{Level: cfg.Log.Level, Pretty: cfg.Log.Pretty, Service: "natichat"})

	chatGPT, err := provider.NewOpenAI(ctx, cfg.OpenAI, cfg.Proxy.OpenAIBaseURL())
	if err != nil {
		logx.L().Fatal().Err(err).Msg("failed to initialize OpenAI provider")
	}
	claude, err := provider.NewAnthropic(ctx, cfg.Anthropic, cfg.Proxy.AnthropicBaseURL())
	if err != nil {
		logx.L().Fatal().Err(err).Msg("failed to initialize Anthropic provider")
	}

	probe := moderation.NewProbe(provider.NewRandomSelector(chatGPT, claude))
	registry := session.NewRegistry()

	h := hub.New()
	go h.Run(ctx)

	rel := relay.New(chatlog.NewLog(), h)
	ai := aiservice.NewService(rel)

	router := handler.NewRouter(handler.Deps{
		Registry: registry,
		Relay:    rel,
		Probe:    probe,
		AI:       ai,
		Hub:      h,
		ChatGPT:  chatGPT,
		Claude:   claude,
	})

	logx.L().Info().
		Str("proxy", cfg.Proxy.BaseURL).
		Str("addr", cfg.Server.Addr()).
		Msg("starting chat relay")

	startServer(ctx, cfg.Server, router)
}

func startServer(ctx context.Context, serverCfg config.ServerConfig, router http.Handler) {
	srv := &http.Server{
		Addr:              serverCfg.Addr(),
		Handler:           router,
		ReadHeaderTimeout: 5 * time.Second,
		IdleTimeout:       120 * time.Second,
	}

	if err := runServer(ctx, srv); err != nil {
		logx.L().Fatal().Err(err).Msg("server error")
	}
}

func runServer(ctx context.Context, srv *http.Server) error {
	errCh := make(chan error, 1)
	go func() {
		errCh <- srv.ListenAndServe()
	}()

	select {
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		_ = srv.Shutdown(shutdownCtx)
		err := <-errCh
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	}
}
