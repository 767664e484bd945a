package sink_test

import (
	"bytes"
	"encoding/json"
	"errors"
	"log/slog"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"go.jacobcolvin.com/chirp"
	"go.jacobcolvin.com/chirp/internal/chirptest"
	"go.jacobcolvin.com/chirp/sink"
)

func TestSlogLevel(t *testing.T) {
	t.Parallel()

	tcs := map[string]struct {
		in   chirp.Level
		want slog.Level
	}{
		"debug":     {in: chirp.LevelDebug, want: slog.LevelDebug},
		"log":       {in: chirp.LevelLog, want: slog.LevelInfo},
		"info":      {in: chirp.LevelInfo, want: slog.LevelInfo},
		"warning":   {in: chirp.LevelWarning, want: slog.LevelWarn},
		"assert":    {in: chirp.LevelAssert, want: slog.LevelError},
		"error":     {in: chirp.LevelError, want: slog.LevelError},
		"exception": {in: chirp.LevelException, want: slog.LevelError},
	}

	for name, tc := range tcs {
		t.Run(name, func(t *testing.T) {
			t.Parallel()

			assert.Equal(t, tc.want, sink.SlogLevel(tc.in))
		})
	}
}

func TestSlog(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer

	s := sink.NewSlog(slog.NewJSONHandler(&buf, &slog.HandlerOptions{
		AddSource: true,
		Level:     slog.LevelInfo,
	}))

	events := chirptest.Events(t, func(d *chirp.Dispatcher) {
		d.DebugCh(d.Channel("net"), "filtered")
		d.ExceptionCh(d.Channel("net"), errors.New("reset"), "conn", 7)
	})
	require.Len(t, events, 2)

	require.NoError(t, s.Initialize())

	for _, evt := range events {
		require.NoError(t, s.Append(evt))
	}

	require.NoError(t, s.Destroy())

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	require.Len(t, lines, 1, "debug is below the handler level")

	var got map[string]any

	require.NoError(t, json.Unmarshal([]byte(lines[0]), &got))
	assert.Equal(t, "ERROR", got["level"])
	assert.Equal(t, "conn 7", got["msg"])
	assert.Equal(t, "exception", got["severity"])
	assert.Equal(t, "net", got["channel"])
	assert.Equal(t, "reset", got["error"])

	src, ok := got["source"].(map[string]any)
	require.True(t, ok, "source attribute present")
	assert.True(t, strings.HasSuffix(src["file"].(string), "slog_test.go"), src["file"])
}
