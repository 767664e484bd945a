package sink_test

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"go.jacobcolvin.com/chirp"
	"go.jacobcolvin.com/chirp/internal/chirptest"
	"go.jacobcolvin.com/chirp/sink"
)

func TestFile(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "logs", "chirp.jsonl")
	s := sink.NewFile(path)
	assert.Equal(t, path, s.Path())

	events := chirptest.Events(t, func(d *chirp.Dispatcher) {
		d.Info("one")
		d.Info("two")
	})

	require.ErrorIs(t, s.Append(events[0]), sink.ErrNotOpen)

	require.NoError(t, s.Initialize())
	require.NoError(t, s.Initialize(), "initialize is idempotent")

	for _, evt := range events {
		require.NoError(t, s.Append(evt))
	}

	require.NoError(t, s.Destroy())
	require.NoError(t, s.Destroy(), "destroy is idempotent")

	// Reopening appends.
	require.NoError(t, s.Initialize())
	require.NoError(t, s.Append(events[0]))
	require.NoError(t, s.Destroy())

	data, err := os.ReadFile(path)
	require.NoError(t, err)

	lines := strings.Split(strings.TrimSpace(string(data)), "\n")
	require.Len(t, lines, 3)
	assert.Contains(t, lines[0], `"msg":"one"`)
	assert.Contains(t, lines[1], `"msg":"two"`)
	assert.Contains(t, lines[2], `"msg":"one"`)
}

func TestFileLock(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "chirp.jsonl")
	first := sink.NewFile(path)
	second := sink.NewFile(path)

	require.NoError(t, first.Initialize())
	assert.NotEmpty(t, first.Session())

	require.ErrorIs(t, second.Initialize(), sink.ErrLocked)
	assert.Empty(t, second.Session())

	require.NoError(t, first.Destroy())
	assert.Empty(t, first.Session())

	require.NoError(t, second.Initialize())
	require.NoError(t, second.Destroy())
}

func TestFileThroughDispatcher(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "chirp.jsonl")
	d := chirptest.NewDispatcher(t)

	d.Initialize(sink.NewFile(path))
	d.Error("on disk")
	d.Shutdown()

	data, err := os.ReadFile(path)
	require.NoError(t, err)

	lines := strings.Split(strings.TrimSpace(string(data)), "\n")
	require.Len(t, lines, 3, "announcement, error and destroy")
	assert.Contains(t, lines[0], "Included Loggers: File")
	assert.Contains(t, lines[1], `"level":"error"`)
	assert.Contains(t, lines[2], `"msg":"Destroy"`)
}
