package logger

import (
	"io"
	"log/slog"
	"os"
)

type Options struct {
	Production bool
	Debug      bool
	Output     io.Writer
}

// New builds the process logger and installs it as the slog default.
func New(opts Options) *slog.Logger {
	out := opts.Output
	if out == nil {
		out = os.Stdout
	}

	hopts := &slog.HandlerOptions{Level: slog.LevelInfo}
	if opts.Debug {
		hopts.Level = slog.LevelDebug
	}

	var handler slog.Handler
	if opts.Production {
		handler = slog.NewJSONHandler(out, hopts)
	} else {
		handler = slog.NewTextHandler(out, hopts)
	}

	log := slog.New(handler)
	slog.SetDefault(log)
	return log
}
