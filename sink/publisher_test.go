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

func messages(t *testing.T, n int) []chirp.Event {
	t.Helper()

	return chirptest.Events(t, func(d *chirp.Dispatcher) {
		for i := range n {
			d.Info(i)
		}
	})
}

func TestNewPublisher(t *testing.T) {
	t.Parallel()

	tcs := map[string]struct {
		opts    []sink.PublisherOption
		wantCap int
	}{
		"default buffer size": {
			opts:    nil,
			wantCap: 64,
		},
		"custom buffer size": {
			opts:    []sink.PublisherOption{sink.WithBufferSize(128)},
			wantCap: 128,
		},
		"clamp zero to one": {
			opts:    []sink.PublisherOption{sink.WithBufferSize(0)},
			wantCap: 1,
		},
		"clamp negative to one": {
			opts:    []sink.PublisherOption{sink.WithBufferSize(-5)},
			wantCap: 1,
		},
	}

	for name, tc := range tcs {
		t.Run(name, func(t *testing.T) {
			t.Parallel()

			pub := sink.NewPublisher(tc.opts...)

			sub := pub.Subscribe()
			defer sub.Close()

			assert.Equal(t, tc.wantCap, cap(sub.C()))
		})
	}
}

func TestPublisherAppend(t *testing.T) {
	t.Parallel()

	tcs := map[string]struct {
		numSubscribers int
	}{
		"single subscriber":    {numSubscribers: 1},
		"multiple subscribers": {numSubscribers: 3},
		"no subscribers":       {numSubscribers: 0},
	}

	for name, tc := range tcs {
		t.Run(name, func(t *testing.T) {
			t.Parallel()

			evt := messages(t, 1)[0]
			pub := sink.NewPublisher()

			subs := make([]*sink.Subscription, tc.numSubscribers)
			for i := range subs {
				subs[i] = pub.Subscribe()
			}

			require.NoError(t, pub.Append(evt))

			for _, sub := range subs {
				got := <-sub.C()
				assert.Equal(t, "0", got.Message())
			}
		})
	}
}

func TestPublisherRingBuffer(t *testing.T) {
	t.Parallel()

	tcs := map[string]struct {
		bufSize int
		appends int
		want    []string
	}{
		"drops oldest on full": {
			bufSize: 2,
			appends: 4,
			want:    []string{"2", "3"},
		},
		"preserves newest entries": {
			bufSize: 3,
			appends: 5,
			want:    []string{"2", "3", "4"},
		},
	}

	for name, tc := range tcs {
		t.Run(name, func(t *testing.T) {
			t.Parallel()

			pub := sink.NewPublisher(sink.WithBufferSize(tc.bufSize))
			sub := pub.Subscribe()

			for _, evt := range messages(t, tc.appends) {
				require.NoError(t, pub.Append(evt))
			}

			var got []string
			for range tc.want {
				got = append(got, (<-sub.C()).Message())
			}

			assert.Equal(t, tc.want, got)
		})
	}
}

func TestSubscriptionClose(t *testing.T) {
	t.Parallel()

	t.Run("stops delivery", func(t *testing.T) {
		t.Parallel()

		events := messages(t, 2)
		pub := sink.NewPublisher()
		sub := pub.Subscribe()

		require.NoError(t, pub.Append(events[0]))

		sub.Close()

		// Trigger compaction.
		require.NoError(t, pub.Append(events[1]))

		got := <-sub.C()
		assert.Equal(t, "0", got.Message())

		_, open := <-sub.C()
		assert.False(t, open, "channel should be closed after subscription close + compaction")
	})

	t.Run("idempotent", func(t *testing.T) {
		t.Parallel()

		pub := sink.NewPublisher()
		sub := pub.Subscribe()

		sub.Close()
		sub.Close()

		require.NoError(t, pub.Append(messages(t, 1)[0]))

		_, open := <-sub.C()
		assert.False(t, open)
	})
}

func TestPublisherDestroy(t *testing.T) {
	t.Parallel()

	t.Run("closes all subscriptions", func(t *testing.T) {
		t.Parallel()

		pub := sink.NewPublisher()
		sub1 := pub.Subscribe()
		sub2 := pub.Subscribe()

		require.NoError(t, pub.Destroy())

		_, open1 := <-sub1.C()
		_, open2 := <-sub2.C()

		assert.False(t, open1)
		assert.False(t, open2)
	})

	t.Run("append after destroy is no-op", func(t *testing.T) {
		t.Parallel()

		pub := sink.NewPublisher()
		sub := pub.Subscribe()

		require.NoError(t, pub.Destroy())
		require.NoError(t, pub.Append(messages(t, 1)[0]))

		_, open := <-sub.C()
		assert.False(t, open)
	})

	t.Run("idempotent", func(t *testing.T) {
		t.Parallel()

		pub := sink.NewPublisher()
		require.NoError(t, pub.Destroy())
		require.NoError(t, pub.Destroy())
	})

	t.Run("subscribe after destroy", func(t *testing.T) {
		t.Parallel()

		pub := sink.NewPublisher()
		require.NoError(t, pub.Destroy())

		sub := pub.Subscribe()
		_, open := <-sub.C()
		assert.False(t, open, "subscription from destroyed publisher should have closed channel")
	})

	t.Run("initialize reopens", func(t *testing.T) {
		t.Parallel()

		pub := sink.NewPublisher()
		require.NoError(t, pub.Destroy())
		require.NoError(t, pub.Initialize())

		sub := pub.Subscribe()
		require.NoError(t, pub.Append(messages(t, 1)[0]))

		got, open := <-sub.C()
		require.True(t, open)
		assert.Equal(t, "0", got.Message())
	})
}

func TestPublisherConcurrency(t *testing.T) {
	t.Parallel()

	pub := sink.NewPublisher(sink.WithBufferSize(8))
	evt := messages(t, 1)[0]

	var wg sync.WaitGroup

	for range 5 {
		wg.Go(func() {
			for range 100 {
				//nolint:errcheck // Append always returns nil; checking would complicate goroutine.
				pub.Append(evt)
			}
		})
	}

	for range 5 {
		wg.Go(func() {
			sub := pub.Subscribe()
			for range 20 {
				select {
				case <-sub.C():
				default:
				}
			}

			sub.Close()
		})
	}

	wg.Wait()
	require.NoError(t, pub.Destroy())
}

func TestPublisherWithDispatcher(t *testing.T) {
	t.Parallel()

	pub := sink.NewPublisher()
	sub := pub.Subscribe()

	d := chirptest.NewDispatcher(t)
	d.Initialize(pub)
	d.WarningCh(d.Channel("ai"), "hello from publisher")
	d.Shutdown()

	var got []chirp.Event
	for evt := range sub.C() {
		got = append(got, evt)
	}

	require.Len(t, got, 3, "announcement, warning and destroy")
	assert.Equal(t, "hello from publisher", got[1].Message())
	assert.True(t, got[1].Channel().EqualString("ai"))
}
