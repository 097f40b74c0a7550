package logging

import (
	"fmt"
	"io"
	"log/slog"
	"strings"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

const (
	BackendSlog = "slog"
	BackendZap  = "zap"

	FormatJSON = "json"
	FormatText = "text"
)

// Options selects the logger implementation and its output.
// Empty fields fall back to slog, json and info.
type Options struct {
	Backend string
	Format  string
	Level   string
}

// New builds a Logger writing to w as described by opts.
// Level is one of debug, info, warn, error. The text format maps to
// zap's console encoder.
func New(opts Options, w io.Writer) (Logger, error) {
	switch strings.ToLower(opts.Backend) {
	case "", BackendSlog:
		lvl, err := parseSlogLevel(opts.Level)
		if err != nil {
			return nil, err
		}
		h, err := NewSlogHandler(w, opts.Format, lvl)
		if err != nil {
			return nil, err
		}
		return NewSlogLogger(slog.New(h)), nil

	case BackendZap:
		lvl, err := zapcore.ParseLevel(orDefault(opts.Level))
		if err != nil {
			return nil, fmt.Errorf("zap level %q: %w", opts.Level, err)
		}
		enc, err := zapEncoder(opts.Format)
		if err != nil {
			return nil, err
		}
		return NewZapLogger(zap.New(zapcore.NewCore(enc, zapcore.AddSync(w), lvl))), nil

	default:
		return nil, fmt.Errorf("unknown log backend %q", opts.Backend)
	}
}

func zapEncoder(format string) (zapcore.Encoder, error) {
	cfg := zap.NewProductionEncoderConfig()
	switch strings.ToLower(format) {
	case "", FormatJSON:
		return zapcore.NewJSONEncoder(cfg), nil
	case FormatText:
		cfg.EncodeTime = zapcore.ISO8601TimeEncoder
		return zapcore.NewConsoleEncoder(cfg), nil
	default:
		return nil, fmt.Errorf("unknown log format %q", format)
	}
}

// Nop returns a Logger that discards everything.
func Nop() Logger {
	return NewZapLogger(zap.NewNop())
}

func orDefault(level string) string {
	if level == "" {
		return "info"
	}
	return level
}
