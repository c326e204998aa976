package logger

import (
	"log/slog"
	"os"
	"time"

	"github.com/lmittmann/tint"
	"github.com/mattn/go-isatty"
)

type Option func(*options)

type options struct {
	level slog.Level
}

func WithDebugFlag(debug bool) Option {
	return func(o *options) {
		if debug {
			o.level = slog.LevelDebug
		}
	}
}

func Init(opts ...Option) {
	o := &options{level: slog.LevelInfo}

	for _, opt := range opts {
		opt(o)
	}

	w := os.Stderr

	handler := tint.NewHandler(w, &tint.Options{
		Level:      o.level,
		TimeFormat: time.TimeOnly,
		NoColor:    !isatty.IsTerminal(w.Fd()),
	})

	slog.SetDefault(slog.New(handler))
}
