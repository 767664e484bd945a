package chirp

import (
	"reflect"
)

// Sink receives dispatched events. The dispatcher calls Initialize once when
// the sink becomes active, Append once per event, and Destroy once at
// shutdown, always synchronously.
//
// Errors and panics from any hook are reported on the dispatcher's diagnostic
// logger and never reach the log call site or other sinks. Append may log
// through the dispatcher; hooks must not call [Dispatcher.Initialize] or
// [Dispatcher.Shutdown].
type Sink interface {
	Initialize() error
	Append(evt Event) error
	Destroy() error
}

// SinkName returns the type name of s without package qualifier or pointer
// indirection.
func SinkName(s Sink) string {
	if s == nil {
		return "<nil>"
	}

	t := reflect.TypeOf(s)
	for t.Kind() == reflect.Pointer {
		t = t.Elem()
	}

	if t.Name() == "" {
		return t.String()
	}

	return t.Name()
}
