package chirp

import (
	"fmt"
	"slices"
	"time"

	"go.jacobcolvin.com/chirp/channel"
	"go.jacobcolvin.com/chirp/stack"
)

// Event is a single immutable log event. The payload is copied from the
// caller at construction. Sinks receive events by value and must treat
// [Event.Messages] as read-only.
type Event struct {
	time     time.Time
	err      error
	channel  *channel.Channel
	messages []any
	stack    stack.Trace
	level    Level
}

// Channel returns the resolved channel, or nil when none was given and none
// could be inferred from the call stack.
func (e Event) Channel() *channel.Channel { return e.channel }

// Level returns the severity.
func (e Event) Level() Level { return e.level }

// Time returns the UTC construction time.
func (e Event) Time() time.Time { return e.time }

// Messages returns the message payload in call order.
func (e Event) Messages() []any { return e.messages }

// Err returns the error attached to the event, if any.
func (e Event) Err() error { return e.err }

// Stack returns the call stack captured at construction, anchored at the
// original call site or at the creation site of [Event.Err].
func (e Event) Stack() stack.Trace { return e.stack }

// Message renders the payload with operands separated by spaces.
func (e Event) Message() string {
	s := fmt.Sprintln(e.messages...)

	return s[:len(s)-1]
}

// Caller returns the innermost captured frame.
func (e Event) Caller() (stack.Frame, bool) {
	if e.stack.Len() == 0 {
		return stack.Frame{}, false
	}

	return e.stack.Frame(0), true
}

// newEvent builds an event. skip counts the frames between newEvent and the
// call site: with skip 0 the stack would start at newEvent itself.
func newEvent(reg *channel.Registry, skip int, ch *channel.Channel, lvl Level, err error, msgs []any) Event {
	if !lvl.Valid() {
		panic(fmt.Sprintf("chirp: invalid level %d", int(lvl)))
	}

	evt := Event{
		channel:  ch,
		level:    lvl,
		time:     time.Now().UTC(),
		messages: slices.Clone(msgs),
		err:      err,
	}

	trace, ok := stack.FromError(err)
	if !ok {
		trace = stack.Capture(skip)
	}

	evt.stack = trace

	if ch == nil || ch.IsFallback() {
		evt.channel = inferChannel(reg, trace)
	}

	return evt
}

// inferChannel returns the channel bound to the innermost frame owner that
// has a binding, or nil.
func inferChannel(reg *channel.Registry, trace stack.Trace) *channel.Channel {
	for i := range trace.Len() {
		if ch := reg.ForOwner(trace.Owner(i)); ch != nil {
			return ch
		}
	}

	return nil
}
