package sink

import (
	"slices"
	"sync"

	"go.jacobcolvin.com/chirp"
)

// Recorder is a [chirp.Sink] that keeps every appended event in memory and
// counts lifecycle hook calls. Safe for concurrent use.
type Recorder struct {
	events      []chirp.Event
	initialized int
	destroyed   int
	mu          sync.Mutex
}

var _ chirp.Sink = (*Recorder)(nil)

// NewRecorder creates an empty [Recorder].
func NewRecorder() *Recorder {
	return &Recorder{}
}

// Initialize implements [chirp.Sink].
func (r *Recorder) Initialize() error {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.initialized++

	return nil
}

// Append implements [chirp.Sink].
func (r *Recorder) Append(evt chirp.Event) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.events = append(r.events, evt)

	return nil
}

// Destroy implements [chirp.Sink].
func (r *Recorder) Destroy() error {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.destroyed++

	return nil
}

// Events returns a copy of the recorded events in append order.
func (r *Recorder) Events() []chirp.Event {
	r.mu.Lock()
	defer r.mu.Unlock()

	return slices.Clone(r.events)
}

// Len returns the number of recorded events.
func (r *Recorder) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()

	return len(r.events)
}

// Reset discards the recorded events.
func (r *Recorder) Reset() {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.events = nil
}

// Initialized returns how many times Initialize was called.
func (r *Recorder) Initialized() int {
	r.mu.Lock()
	defer r.mu.Unlock()

	return r.initialized
}

// Destroyed returns how many times Destroy was called.
func (r *Recorder) Destroyed() int {
	r.mu.Lock()
	defer r.mu.Unlock()

	return r.destroyed
}
