package sink_test

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"go.jacobcolvin.com/chirp"
	"go.jacobcolvin.com/chirp/internal/chirptest"
	"go.jacobcolvin.com/chirp/sink"
)

func TestRecorder(t *testing.T) {
	t.Parallel()

	d := chirptest.NewDispatcher(t)
	rec := sink.NewRecorder()

	d.Initialize(rec)
	assert.Equal(t, 1, rec.Initialized())
	require.Equal(t, 1, rec.Len())

	rec.Reset()
	assert.Equal(t, 0, rec.Len())

	d.Info("one")
	d.Warning("two")

	events := rec.Events()
	require.Len(t, events, 2)
	assert.Equal(t, "one", events[0].Message())
	assert.Equal(t, chirp.LevelWarning, events[1].Level())

	events[0] = events[1]
	assert.Equal(t, "one", rec.Events()[0].Message(), "Events returns a copy")

	d.Shutdown()
	assert.Equal(t, 1, rec.Destroyed())
}

func TestRecorderConcurrency(t *testing.T) {
	t.Parallel()

	d := chirptest.NewDispatcher(t, chirp.WithMinLevel(chirp.LevelLog))
	rec := sink.NewRecorder()
	d.Initialize(rec)

	var wg sync.WaitGroup
	for range 4 {
		wg.Go(func() {
			for range 50 {
				d.Log("x")
				_ = rec.Events()
			}
		})
	}

	wg.Wait()
	assert.Equal(t, 200, rec.Len())
}
