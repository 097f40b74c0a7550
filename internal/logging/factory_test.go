package logging

import (
	"bytes"
	"context"
	"encoding/json"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNew_JSONBackends(t *testing.T) {
	for _, backend := range []string{"", BackendSlog, BackendZap} {
		t.Run("backend="+backend, func(t *testing.T) {
			var buf bytes.Buffer
			log, err := New(Options{Backend: backend, Level: "info"}, &buf)
			require.NoError(t, err)

			log.With("component", "auth").Info(context.Background(), "login succeeded", "attempts", 0)
			log.Debug(context.Background(), "hidden")

			lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
			require.Len(t, lines, 1, "debug must be filtered at info level")

			var rec map[string]any
			require.NoError(t, json.Unmarshal([]byte(lines[0]), &rec))
			assert.Equal(t, "login succeeded", rec["msg"])
			assert.Equal(t, "auth", rec["component"])
			assert.EqualValues(t, 0, rec["attempts"])
		})
	}
}

func TestNew_TextFormat(t *testing.T) {
	for _, backend := range []string{BackendSlog, BackendZap} {
		t.Run("backend="+backend, func(t *testing.T) {
			var buf bytes.Buffer
			log, err := New(Options{Backend: backend, Format: FormatText, Level: "debug"}, &buf)
			require.NoError(t, err)

			log.Debug(context.Background(), "lock expired", "attempts", 5)

			out := strings.TrimSpace(buf.String())
			require.NotEmpty(t, out)
			assert.False(t, json.Valid([]byte(out)), "text output must not be JSON: %s", out)
			assert.Contains(t, out, "lock expired")
			assert.Contains(t, out, "attempts")
		})
	}
}

func TestNew_Errors(t *testing.T) {
	tests := []struct {
		name string
		opts Options
		want string
	}{
		{"unknown backend", Options{Backend: "logrus"}, "log backend"},
		{"bad slog level", Options{Backend: BackendSlog, Level: "loud"}, "slog level"},
		{"bad zap level", Options{Backend: BackendZap, Level: "loud"}, "zap level"},
		{"bad slog format", Options{Backend: BackendSlog, Format: "xml"}, "log format"},
		{"bad zap format", Options{Backend: BackendZap, Format: "xml"}, "log format"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := New(tt.opts, &bytes.Buffer{})
			require.ErrorContains(t, err, tt.want)
		})
	}
}

func TestNop_DoesNotPanic(t *testing.T) {
	log := Nop()
	ctx := context.Background()
	log.Debug(ctx, "x")
	log.Info(ctx, "x")
	log.With("k", "v").Warn(ctx, "x")
	log.Error(ctx, "x")
}
