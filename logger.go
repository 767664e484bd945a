package chirp

import "go.jacobcolvin.com/chirp/channel"

// Logger dispatches every event on a fixed channel.
//
// Create instances with [Dispatcher.For].
type Logger struct {
	d  *Dispatcher
	ch *channel.Channel
}

// For returns a [Logger] bound to ch. A nil or fallback ch makes every call
// infer its channel from the call stack.
func (d *Dispatcher) For(ch *channel.Channel) Logger {
	return Logger{d: d, ch: ch}
}

// Channel returns the bound channel.
func (l Logger) Channel() *channel.Channel { return l.ch }

// Debug dispatches a debug event.
func (l Logger) Debug(msgs ...any) { l.d.dispatch(2, l.ch, LevelDebug, nil, msgs) }

// Log dispatches a log event.
func (l Logger) Log(msgs ...any) { l.d.dispatch(2, l.ch, LevelLog, nil, msgs) }

// Info dispatches an info event.
func (l Logger) Info(msgs ...any) { l.d.dispatch(2, l.ch, LevelInfo, nil, msgs) }

// Warning dispatches a warning event.
func (l Logger) Warning(msgs ...any) { l.d.dispatch(2, l.ch, LevelWarning, nil, msgs) }

// Error dispatches an error event.
func (l Logger) Error(msgs ...any) { l.d.dispatch(2, l.ch, LevelError, nil, msgs) }

// Assert dispatches an assert event when cond is false.
func (l Logger) Assert(cond bool, msgs ...any) {
	if cond {
		return
	}

	l.d.dispatch(2, l.ch, LevelAssert, nil, assertMessages(msgs))
}

// Exception dispatches an exception event carrying err.
func (l Logger) Exception(err error, msgs ...any) {
	l.d.dispatch(2, l.ch, LevelException, err, msgs)
}
