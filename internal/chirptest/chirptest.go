// Package chirptest provides helpers for testing code that logs through
// package chirp.
package chirptest

import (
	"bytes"
	"errors"
	"log/slog"
	"strings"
	"sync"
	"sync/atomic"
	"testing"

	"go.jacobcolvin.com/chirp"
	"go.jacobcolvin.com/chirp/channel"
)

// ErrSinkFailed is returned by every hook of a failing [Faulty] sink.
var ErrSinkFailed = errors.New("sink failed")

// NewDispatcher creates a [chirp.Dispatcher] with a fresh registry and
// discarded diagnostics. Additional options are applied after the defaults.
// The dispatcher is shut down when the test ends.
func NewDispatcher(t testing.TB, opts ...chirp.Option) *chirp.Dispatcher {
	t.Helper()

	base := []chirp.Option{
		chirp.WithRegistry(channel.NewRegistry()),
		chirp.WithDiagnostics(slog.New(slog.DiscardHandler)),
	}

	d := chirp.New(append(base, opts...)...)
	t.Cleanup(d.Shutdown)

	return d
}

// Events runs fn against an initialized dispatcher with discarded
// diagnostics and returns the events fn produced, excluding the
// initialization announcement.
func Events(t testing.TB, fn func(d *chirp.Dispatcher)) []chirp.Event {
	t.Helper()

	c := &collector{}
	d := NewDispatcher(t)
	d.Initialize(c)

	c.mu.Lock()
	c.events = nil
	c.mu.Unlock()

	fn(d)

	c.mu.Lock()
	defer c.mu.Unlock()

	return c.events
}

type collector struct {
	events []chirp.Event
	mu     sync.Mutex
}

func (c *collector) Initialize() error { return nil }

func (c *collector) Destroy() error { return nil }

func (c *collector) Append(evt chirp.Event) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.events = append(c.events, evt)

	return nil
}

// Diagnostics is a concurrency-safe buffer behind a text [slog.Logger], for
// asserting on a dispatcher's diagnostic output.
type Diagnostics struct {
	logger *slog.Logger
	buf    bytes.Buffer
	mu     sync.Mutex
}

// NewDiagnostics creates an empty [Diagnostics].
func NewDiagnostics() *Diagnostics {
	d := &Diagnostics{}
	d.logger = slog.New(slog.NewTextHandler(d, &slog.HandlerOptions{Level: slog.LevelDebug}))

	return d
}

// Logger returns the logger writing into the buffer.
func (d *Diagnostics) Logger() *slog.Logger {
	return d.logger
}

// Write implements [io.Writer].
func (d *Diagnostics) Write(p []byte) (int, error) {
	d.mu.Lock()
	defer d.mu.Unlock()

	return d.buf.Write(p)
}

// String returns everything written so far.
func (d *Diagnostics) String() string {
	d.mu.Lock()
	defer d.mu.Unlock()

	return d.buf.String()
}

// Lines returns the non-empty lines written so far.
func (d *Diagnostics) Lines() []string {
	var lines []string
	for line := range strings.Lines(d.String()) {
		if line = strings.TrimRight(line, "\n"); line != "" {
			lines = append(lines, line)
		}
	}

	return lines
}

// Faulty is a [chirp.Sink] whose hooks fail with [ErrSinkFailed], or panic
// when Panic is set. It counts how often each hook ran.
type Faulty struct {
	Panic bool

	initialized atomic.Int32
	appended    atomic.Int32
	destroyed   atomic.Int32
}

var _ chirp.Sink = (*Faulty)(nil)

// Initialize implements [chirp.Sink].
func (f *Faulty) Initialize() error {
	f.initialized.Add(1)

	return f.fail()
}

// Append implements [chirp.Sink].
func (f *Faulty) Append(chirp.Event) error {
	f.appended.Add(1)

	return f.fail()
}

// Destroy implements [chirp.Sink].
func (f *Faulty) Destroy() error {
	f.destroyed.Add(1)

	return f.fail()
}

// Calls returns how often Initialize, Append and Destroy ran.
func (f *Faulty) Calls() (initialized, appended, destroyed int) {
	return int(f.initialized.Load()), int(f.appended.Load()), int(f.destroyed.Load())
}

func (f *Faulty) fail() error {
	if f.Panic {
		panic(ErrSinkFailed)
	}

	return ErrSinkFailed
}

// JoinLF joins multiple strings with LF line endings.
// Use this to construct expected output with explicit line endings.
//
// Example:
//
//	want := chirptest.JoinLF(
//		"line1",
//		"line2",
//	) // -> "line1\nline2"
func JoinLF(ss ...string) string {
	return strings.Join(ss, "\n")
}
