package stack

import "runtime"

type withStack struct {
	err error
	pcs []uintptr
}

// WithStack annotates err with the stack at the point WithStack was called.
// It returns nil if err is nil.
func WithStack(err error) error {
	if err == nil {
		return nil
	}

	pcs := make([]uintptr, MaxDepth)
	n := runtime.Callers(2, pcs)

	return &withStack{err: err, pcs: pcs[:n]}
}

func (w *withStack) Error() string { return w.err.Error() }

func (w *withStack) Unwrap() error { return w.err }

// Callers implements [Callerser].
func (w *withStack) Callers() []uintptr { return w.pcs }
