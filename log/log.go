package log

import (
	"io"
	"log/slog"
)

type Config struct {
	Level     int  `mapstructure:"level"`
	AddSource bool `mapstructure:"add_source"`
	// Format is "json" (default) or "text".
	Format string `mapstructure:"format"`
}

// New builds the process logger. Level follows slog levels (-4 debug, 0 info, 4 warn, 8 error).
func New(w io.Writer, c Config) *slog.Logger {
	opts := &slog.HandlerOptions{
		Level:     slog.Level(c.Level),
		AddSource: c.AddSource,
	}
	if c.Format == "text" {
		return slog.New(slog.NewTextHandler(w, opts))
	}
	return slog.New(slog.NewJSONHandler(w, opts))
}
