package chirp

import (
	"sync"

	"go.jacobcolvin.com/chirp/channel"
)

var (
	defaultDispatcher = New(WithRegistry(channel.Default()))
	defaultMu         sync.RWMutex
)

// Default returns the process-wide dispatcher. It uses [channel.Default] as
// its registry unless replaced with [SetDefault].
func Default() *Dispatcher {
	defaultMu.RLock()
	defer defaultMu.RUnlock()

	return defaultDispatcher
}

// SetDefault replaces the process-wide dispatcher. The previous dispatcher
// is not shut down.
func SetDefault(d *Dispatcher) {
	if d == nil {
		return
	}

	defaultMu.Lock()
	defer defaultMu.Unlock()

	defaultDispatcher = d
}

// Initialize initializes the default dispatcher.
func Initialize(sinks ...Sink) { Default().Initialize(sinks...) }

// Shutdown shuts the default dispatcher down.
func Shutdown() { Default().Shutdown() }

// GetChannel returns the channel for id from the default registry, creating
// it on first use.
func GetChannel(id string) *channel.Channel { return Default().Channel(id) }

// Bind binds type T to the channel named after it in the default registry.
func Bind[T any]() *channel.Channel { return Default().Registry().Bind(channel.TypeOf[T]()) }

// Debug dispatches a debug event on the default dispatcher.
func Debug(msgs ...any) { Default().dispatch(2, nil, LevelDebug, nil, msgs) }

// DebugCh dispatches a debug event on ch.
func DebugCh(ch *channel.Channel, msgs ...any) { Default().dispatch(2, ch, LevelDebug, nil, msgs) }

// Log dispatches a log event on the default dispatcher.
func Log(msgs ...any) { Default().dispatch(2, nil, LevelLog, nil, msgs) }

// LogCh dispatches a log event on ch.
func LogCh(ch *channel.Channel, msgs ...any) { Default().dispatch(2, ch, LevelLog, nil, msgs) }

// Info dispatches an info event on the default dispatcher.
func Info(msgs ...any) { Default().dispatch(2, nil, LevelInfo, nil, msgs) }

// InfoCh dispatches an info event on ch.
func InfoCh(ch *channel.Channel, msgs ...any) { Default().dispatch(2, ch, LevelInfo, nil, msgs) }

// Warning dispatches a warning event on the default dispatcher.
func Warning(msgs ...any) { Default().dispatch(2, nil, LevelWarning, nil, msgs) }

// WarningCh dispatches a warning event on ch.
func WarningCh(ch *channel.Channel, msgs ...any) {
	Default().dispatch(2, ch, LevelWarning, nil, msgs)
}

// Error dispatches an error event on the default dispatcher.
func Error(msgs ...any) { Default().dispatch(2, nil, LevelError, nil, msgs) }

// ErrorCh dispatches an error event on ch.
func ErrorCh(ch *channel.Channel, msgs ...any) { Default().dispatch(2, ch, LevelError, nil, msgs) }

// Assert dispatches an assert event on the default dispatcher when cond is
// false.
func Assert(cond bool, msgs ...any) {
	if cond {
		return
	}

	Default().dispatch(2, nil, LevelAssert, nil, assertMessages(msgs))
}

// AssertCh dispatches an assert event on ch when cond is false.
func AssertCh(ch *channel.Channel, cond bool, msgs ...any) {
	if cond {
		return
	}

	Default().dispatch(2, ch, LevelAssert, nil, assertMessages(msgs))
}

// Exception dispatches an exception event carrying err on the default
// dispatcher.
func Exception(err error, msgs ...any) { Default().dispatch(2, nil, LevelException, err, msgs) }

// ExceptionCh dispatches an exception event on ch carrying err.
func ExceptionCh(ch *channel.Channel, err error, msgs ...any) {
	Default().dispatch(2, ch, LevelException, err, msgs)
}
