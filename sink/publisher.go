package sink

import (
	"sync"
	"sync/atomic"

	"go.jacobcolvin.com/chirp"
)

const defaultBufferSize = 64

// Publisher is a [chirp.Sink] that fans out events to subscribers.
//
// Each appended event is delivered to every active [Subscription] via a
// buffered channel with ring-buffer semantics: when a subscriber's channel is
// full the oldest event is dropped, so Append never blocks the dispatcher.
// Destroy closes every subscription; a later Initialize reopens the
// Publisher for new subscribers. Safe for concurrent use.
//
// Create instances with [NewPublisher].
type Publisher struct {
	subscribers []*Subscription
	bufSize     int
	mu          sync.Mutex
	closed      bool
}

var _ chirp.Sink = (*Publisher)(nil)

// PublisherOption configures a [Publisher].
type PublisherOption func(*Publisher)

// WithBufferSize sets the channel buffer size for new subscriptions.
// Values less than 1 are clamped to 1.
func WithBufferSize(n int) PublisherOption {
	return func(p *Publisher) {
		p.bufSize = max(n, 1)
	}
}

// NewPublisher creates a [Publisher] with the given options.
// The default buffer size is 64.
func NewPublisher(opts ...PublisherOption) *Publisher {
	p := &Publisher{
		bufSize: defaultBufferSize,
	}
	for _, opt := range opts {
		opt(p)
	}

	return p
}

// Initialize implements [chirp.Sink]. It reopens a destroyed Publisher.
func (p *Publisher) Initialize() error {
	p.mu.Lock()
	defer p.mu.Unlock()

	p.closed = false

	return nil
}

// Append implements [chirp.Sink]. Closed subscriptions are compacted out of
// the subscriber list. Append always returns nil.
func (p *Publisher) Append(evt chirp.Event) error {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.closed {
		return nil
	}

	alive := p.subscribers[:0]
	for _, sub := range p.subscribers {
		if sub.closed.Load() {
			close(sub.ch)
			continue
		}

		select {
		case sub.ch <- evt:
		default:
			<-sub.ch

			sub.ch <- evt
		}

		alive = append(alive, sub)
	}

	clear(p.subscribers[len(alive):])
	p.subscribers = alive

	return nil
}

// Destroy implements [chirp.Sink]. It closes all subscription channels and
// releases the subscriber list. Idempotent.
func (p *Publisher) Destroy() error {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.closed {
		return nil
	}

	p.closed = true
	for _, sub := range p.subscribers {
		close(sub.ch)
	}

	p.subscribers = nil

	return nil
}

// Subscribe creates and registers a new [Subscription]. If the Publisher is
// destroyed the returned subscription's channel is immediately closed.
func (p *Publisher) Subscribe() *Subscription {
	p.mu.Lock()
	defer p.mu.Unlock()

	sub := &Subscription{
		ch: make(chan chirp.Event, p.bufSize),
	}

	if p.closed {
		close(sub.ch)
		return sub
	}

	p.subscribers = append(p.subscribers, sub)

	return sub
}

// Subscription receives events from a [Publisher].
type Subscription struct {
	ch     chan chirp.Event
	closed atomic.Bool
}

// C returns the read-only channel that delivers events.
func (s *Subscription) C() <-chan chirp.Event {
	return s.ch
}

// Close marks the subscription as closed. The Publisher closes the
// underlying channel on its next Append or Destroy. Idempotent.
func (s *Subscription) Close() {
	s.closed.Store(true)
}
