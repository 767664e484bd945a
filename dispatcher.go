package chirp

import (
	"fmt"
	"log/slog"
	"slices"
	"strings"
	"sync"
	"sync/atomic"

	"go.jacobcolvin.com/chirp/channel"
	"go.jacobcolvin.com/chirp/version"
)

// State is the lifecycle state of a [Dispatcher].
type State int32

const (
	// StateUninitialized is the state before the first successful Initialize.
	StateUninitialized State = iota
	// StateActive is the state while a sink set is installed.
	StateActive
	// StateShutDown is the state after Shutdown cleared the sink set.
	StateShutDown
)

// String implements [fmt.Stringer].
func (s State) String() string {
	switch s {
	case StateUninitialized:
		return "uninitialized"
	case StateActive:
		return "active"
	case StateShutDown:
		return "shut down"
	}

	return fmt.Sprintf("state(%d)", int32(s))
}

const assertionFailed = "Assertion Failed"

// Dispatcher fans log events out to its active sinks. It is safe for
// concurrent use, including log calls made by a sink from inside its own
// Append hook.
//
// Log calls pin the active sink set under a shared lock and fan out after
// releasing it. [Dispatcher.Initialize] and [Dispatcher.Shutdown] are
// serialized; they swap the set under the exclusive lock and then wait for
// calls pinned to the old set before running its Destroy hooks.
//
// Create instances with [New].
type Dispatcher struct {
	registry *channel.Registry
	diag     *slog.Logger
	set      *sinkSet
	admin    sync.Mutex
	fanout   sync.RWMutex
	state    atomic.Int32
	minLevel atomic.Int32
	warned   atomic.Bool
}

// sinkSet is one installed sink set. inflight counts the log calls pinned to
// it; it is only incremented while the set is installed.
type sinkSet struct {
	sinks    []Sink
	inflight sync.WaitGroup
}

// Option configures a [Dispatcher].
type Option func(*Dispatcher)

// WithRegistry sets the channel registry used for stack-based inference and
// [Dispatcher.Channel]. The default is a new, empty registry.
func WithRegistry(reg *channel.Registry) Option {
	return func(d *Dispatcher) {
		if reg != nil {
			d.registry = reg
		}
	}
}

// WithMinLevel sets the minimum level that is dispatched. Calls below it are
// dropped before an event is built. The default is [LevelDebug].
func WithMinLevel(l Level) Option {
	return func(d *Dispatcher) {
		d.minLevel.Store(int32(l))
	}
}

// WithDiagnostics sets the logger that receives the dispatcher's own
// warnings: dropped calls while uninitialized and sink failures. The default
// is the [slog.Default] logger at the time of each report.
func WithDiagnostics(l *slog.Logger) Option {
	return func(d *Dispatcher) {
		if l != nil {
			d.diag = l
		}
	}
}

// New creates an uninitialized [Dispatcher].
func New(opts ...Option) *Dispatcher {
	d := &Dispatcher{
		registry: channel.NewRegistry(),
	}
	for _, opt := range opts {
		opt(d)
	}

	return d
}

// Registry returns the dispatcher's channel registry.
func (d *Dispatcher) Registry() *channel.Registry {
	return d.registry
}

// Channel returns the channel for id from the dispatcher's registry,
// creating it on first use.
func (d *Dispatcher) Channel(id string) *channel.Channel {
	return d.registry.Get(id)
}

// State returns the current lifecycle state.
func (d *Dispatcher) State() State {
	return State(d.state.Load())
}

// MinLevel returns the minimum dispatched level.
func (d *Dispatcher) MinLevel() Level {
	return Level(d.minLevel.Load())
}

// SetMinLevel changes the minimum dispatched level.
func (d *Dispatcher) SetMinLevel(l Level) {
	d.minLevel.Store(int32(l))
}

// Sinks returns a copy of the active sink set in registration order.
func (d *Dispatcher) Sinks() []Sink {
	d.fanout.RLock()
	defer d.fanout.RUnlock()

	if d.set == nil {
		return nil
	}

	return slices.Clone(d.set.sinks)
}

// Initialize installs sinks as the active set. Nil sinks are ignored, and a
// call with no sinks does nothing. Each sink's Initialize hook runs in order,
// then a debug event announcing the sinks is dispatched.
//
// Initializing an active dispatcher first shuts the previous sink set down as
// [Dispatcher.Shutdown] does.
func (d *Dispatcher) Initialize(sinks ...Sink) {
	active := slices.DeleteFunc(slices.Clone(sinks), func(s Sink) bool { return s == nil })
	if len(active) == 0 {
		return
	}

	d.admin.Lock()
	defer d.admin.Unlock()

	if d.State() == StateActive {
		d.shutdownLocked()
	}

	for _, s := range active {
		d.call(s, "initialize", s.Initialize)
	}

	d.fanout.Lock()
	d.set = &sinkSet{sinks: active}
	d.fanout.Unlock()

	d.warned.Store(false)
	d.state.Store(int32(StateActive))

	d.dispatch(1, nil, LevelDebug, nil, []any{announcement(active)})
}

// Shutdown dispatches an info "Destroy" event to the active sinks, clears the
// active set, and then calls each sink's Destroy hook in registration order.
// Shutdown waits for in-flight log calls, so no sink receives an event after
// its Destroy hook. Log calls made while Shutdown waits, including calls from
// inside a sink's Append hook, are dropped. Calling Shutdown when no sinks are
// active does nothing.
func (d *Dispatcher) Shutdown() {
	d.admin.Lock()
	defer d.admin.Unlock()

	d.shutdownLocked()
}

func (d *Dispatcher) shutdownLocked() {
	if d.State() != StateActive {
		return
	}

	d.dispatch(1, nil, LevelInfo, nil, []any{"Destroy"})

	d.fanout.Lock()
	set := d.set
	d.set = nil
	d.fanout.Unlock()

	d.state.Store(int32(StateShutDown))

	set.inflight.Wait()

	for _, s := range set.sinks {
		d.call(s, "destroy", s.Destroy)
	}
}

// Debug dispatches a debug event with an inferred channel.
func (d *Dispatcher) Debug(msgs ...any) { d.dispatch(2, nil, LevelDebug, nil, msgs) }

// DebugCh dispatches a debug event on ch.
func (d *Dispatcher) DebugCh(ch *channel.Channel, msgs ...any) {
	d.dispatch(2, ch, LevelDebug, nil, msgs)
}

// Log dispatches a log event with an inferred channel.
func (d *Dispatcher) Log(msgs ...any) { d.dispatch(2, nil, LevelLog, nil, msgs) }

// LogCh dispatches a log event on ch.
func (d *Dispatcher) LogCh(ch *channel.Channel, msgs ...any) {
	d.dispatch(2, ch, LevelLog, nil, msgs)
}

// Info dispatches an info event with an inferred channel.
func (d *Dispatcher) Info(msgs ...any) { d.dispatch(2, nil, LevelInfo, nil, msgs) }

// InfoCh dispatches an info event on ch.
func (d *Dispatcher) InfoCh(ch *channel.Channel, msgs ...any) {
	d.dispatch(2, ch, LevelInfo, nil, msgs)
}

// Warning dispatches a warning event with an inferred channel.
func (d *Dispatcher) Warning(msgs ...any) { d.dispatch(2, nil, LevelWarning, nil, msgs) }

// WarningCh dispatches a warning event on ch.
func (d *Dispatcher) WarningCh(ch *channel.Channel, msgs ...any) {
	d.dispatch(2, ch, LevelWarning, nil, msgs)
}

// Error dispatches an error event with an inferred channel.
func (d *Dispatcher) Error(msgs ...any) { d.dispatch(2, nil, LevelError, nil, msgs) }

// ErrorCh dispatches an error event on ch.
func (d *Dispatcher) ErrorCh(ch *channel.Channel, msgs ...any) {
	d.dispatch(2, ch, LevelError, nil, msgs)
}

// Assert dispatches an assert event when cond is false. Without msgs the
// message is "Assertion Failed".
func (d *Dispatcher) Assert(cond bool, msgs ...any) {
	if cond {
		return
	}

	d.dispatch(2, nil, LevelAssert, nil, assertMessages(msgs))
}

// AssertCh dispatches an assert event on ch when cond is false.
func (d *Dispatcher) AssertCh(ch *channel.Channel, cond bool, msgs ...any) {
	if cond {
		return
	}

	d.dispatch(2, ch, LevelAssert, nil, assertMessages(msgs))
}

// Exception dispatches an exception event carrying err. The event stack is
// the one embedded in err (see [stack.WithStack]) when present.
func (d *Dispatcher) Exception(err error, msgs ...any) {
	d.dispatch(2, nil, LevelException, err, msgs)
}

// ExceptionCh dispatches an exception event on ch carrying err.
func (d *Dispatcher) ExceptionCh(ch *channel.Channel, err error, msgs ...any) {
	d.dispatch(2, ch, LevelException, err, msgs)
}

// Emit dispatches an event at an arbitrary level. A nil ch infers the
// channel. Emit panics if lvl is not a defined level.
func (d *Dispatcher) Emit(lvl Level, ch *channel.Channel, err error, msgs ...any) {
	if !lvl.Valid() {
		panic(fmt.Sprintf("chirp: invalid level %d", int(lvl)))
	}

	d.dispatch(2, ch, lvl, err, msgs)
}

// dispatch builds and fans out one event. skip counts the frames above
// dispatch to the call site.
func (d *Dispatcher) dispatch(skip int, ch *channel.Channel, lvl Level, err error, msgs []any) {
	if lvl < d.MinLevel() {
		return
	}

	set := d.pin()
	if set == nil {
		if d.warned.CompareAndSwap(false, true) {
			d.diagnostics().Warn("chirp: dropping log call with no active sinks, call Initialize first",
				slog.String("level", lvl.String()))
		}

		return
	}
	defer set.inflight.Done()

	evt := newEvent(d.registry, skip+1, ch, lvl, err, msgs)

	for _, s := range set.sinks {
		d.call(s, "append", func() error { return s.Append(evt) })
	}
}

// pin returns the installed sink set with its in-flight count incremented, or
// nil when no set is installed.
func (d *Dispatcher) pin() *sinkSet {
	d.fanout.RLock()
	defer d.fanout.RUnlock()

	if d.set != nil {
		d.set.inflight.Add(1)
	}

	return d.set
}

// call runs a sink hook, reporting errors and panics on the diagnostic logger.
func (d *Dispatcher) call(s Sink, hook string, fn func() error) {
	defer func() {
		if r := recover(); r != nil {
			d.diagnostics().Error("chirp: sink panicked",
				slog.String("sink", SinkName(s)),
				slog.String("hook", hook),
				slog.Any("panic", r))
		}
	}()

	err := fn()
	if err != nil {
		d.diagnostics().Error("chirp: sink failed",
			slog.String("sink", SinkName(s)),
			slog.String("hook", hook),
			slog.Any("error", err))
	}
}

func (d *Dispatcher) diagnostics() *slog.Logger {
	if d.diag != nil {
		return d.diag
	}

	return slog.Default()
}

func assertMessages(msgs []any) []any {
	if len(msgs) == 0 {
		return []any{assertionFailed}
	}

	return msgs
}

func announcement(sinks []Sink) string {
	var sb strings.Builder

	fmt.Fprintf(&sb, "Chirp v%s Initialised.\nIncluded Loggers: ", version.String())

	for _, s := range sinks {
		sb.WriteString(SinkName(s))
		sb.WriteByte('\n')
	}

	return sb.String()
}
