package logger

import (
	"io"
	"os"
	"strings"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

// Config opciones del logger de la aplicación.
type Config struct {
	Env   string // development: consola legible; cualquier otro valor: JSON
	Level string // trace, debug, info, warn, error, disabled
	// Output por defecto stdout. La CLI usa stderr para no mezclar logs con --json.
	Output io.Writer
}

// New configura zerolog y lo instala como logger global (log.Logger), que es el que usan
// los paquetes de infraestructura.
func New(cfg Config) zerolog.Logger {
	out := cfg.Output
	if out == nil {
		out = os.Stdout
	}
	if cfg.Env == "development" {
		out = zerolog.ConsoleWriter{Out: out, TimeFormat: "15:04:05"}
	}

	log.Logger = zerolog.New(out).
		Level(levelOrInfo(cfg.Level)).
		With().Timestamp().
		Logger()
	return log.Logger
}

// WithComponent sublogger del global con component=name (extractor, cli, http...).
func WithComponent(name string) zerolog.Logger {
	return log.With().Str("component", name).Logger()
}

func levelOrInfo(s string) zerolog.Level {
	s = strings.ToLower(strings.TrimSpace(s))
	if s == "off" {
		return zerolog.Disabled
	}
	lvl, err := zerolog.ParseLevel(s)
	if err != nil || s == "" {
		return zerolog.InfoLevel
	}
	return lvl
}
