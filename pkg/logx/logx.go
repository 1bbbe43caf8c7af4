package logx

import (
	"io"
	stdlog "log"
	"os"
	"sync"
	"time"

	"github.com/rs/zerolog"
)

// Config controls the process logger.
type Config struct {
	Level   string
	Pretty  bool
	Service string
}

var (
	// Usable before Init runs; Init replaces it with the configured logger.
	global = zerolog.New(os.Stdout).With().Timestamp().Logger()
	once   sync.Once
)

// New builds a logger from cfg. Unknown or empty level strings fall back
// to info rather than erroring.
func New(cfg Config) zerolog.Logger {
	level, err := zerolog.ParseLevel(cfg.Level)
	if err != nil || level == zerolog.NoLevel {
		level = zerolog.InfoLevel
	}

	var out io.Writer = os.Stdout
	if cfg.Pretty {
		out = zerolog.ConsoleWriter{Out: os.Stdout, TimeFormat: time.Kitchen}
	}

	ctx := zerolog.New(out).Level(level).With().Timestamp()
	if cfg.Service != "" {
		ctx = ctx.Str(FieldService, cfg.Service)
	}
	return ctx.Logger()
}

// Init installs the process-wide logger and routes stdlib log output through
// it, so stray log.Printf calls stay structured. Repeat calls are no-ops.
func Init(cfg Config) {
	once.Do(func() {
		global = New(cfg)

		stdlog.SetFlags(0)
		stdlog.SetOutput(global.With().Str("source", "stdlog").Logger())
	})
}

// L returns the process logger. The pointer keeps level methods chainable
// at call sites: logx.L().Error().Msg(...).
func L() *zerolog.Logger {
	return &global
}
