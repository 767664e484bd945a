// Package stack captures call stacks with a capped depth and resolves the
// owner type of each frame.
//
// A [Trace] is the frame-indexed view the dispatcher walks to infer a channel
// from the call site: [Trace.Len] frames, innermost first, each with an
// [Trace.Owner].
package stack

import (
	"errors"
	"runtime"
	"strconv"
	"strings"

	"go.jacobcolvin.com/chirp/channel"
)

// MaxDepth is the maximum number of frames recorded by [Capture].
const MaxDepth = 64

// Frame is a single resolved stack frame.
type Frame struct {
	// Function is the fully qualified function symbol.
	Function string
	File     string
	Line     int
	PC       uintptr
}

// Owner returns the owner type that declares the frame's function.
func (f Frame) Owner() channel.Owner {
	return OwnerOfFunc(f.Function)
}

// Trace is an immutable captured call stack, innermost frame first.
type Trace struct {
	frames []Frame
}

// Capture records the calling goroutine's stack. With skip 0 the first frame
// is the caller of Capture; each increment skips one more frame outward.
func Capture(skip int) Trace {
	pcs := make([]uintptr, MaxDepth)
	n := runtime.Callers(skip+2, pcs)

	return FromPCs(pcs[:n])
}

// FromPCs resolves a program counter slice as returned by [runtime.Callers].
func FromPCs(pcs []uintptr) Trace {
	if len(pcs) == 0 {
		return Trace{}
	}

	frames := make([]Frame, 0, len(pcs))
	iter := runtime.CallersFrames(pcs)

	for len(frames) < MaxDepth {
		f, more := iter.Next()
		if f.Function != "" {
			frames = append(frames, Frame{
				Function: f.Function,
				File:     f.File,
				Line:     f.Line,
				PC:       f.PC,
			})
		}

		if !more {
			break
		}
	}

	return Trace{frames: frames}
}

// Len returns the number of frames.
func (t Trace) Len() int {
	return len(t.frames)
}

// Frame returns frame i. It panics if i is out of range.
func (t Trace) Frame(i int) Frame {
	return t.frames[i]
}

// Owner returns the owner type of frame i.
func (t Trace) Owner(i int) channel.Owner {
	return t.frames[i].Owner()
}

// Frames returns a copy of all frames.
func (t Trace) Frames() []Frame {
	out := make([]Frame, len(t.frames))
	copy(out, t.frames)

	return out
}

// String formats the trace one frame per line as "function\n\tfile:line".
func (t Trace) String() string {
	var sb strings.Builder
	for _, f := range t.frames {
		sb.WriteString(f.Function)
		sb.WriteString("\n\t")
		sb.WriteString(f.File)
		sb.WriteByte(':')
		sb.WriteString(strconv.Itoa(f.Line))
		sb.WriteByte('\n')
	}

	return sb.String()
}

// Callerser is implemented by errors that carry the stack of their creation
// site.
type Callerser interface {
	Callers() []uintptr
}

// FromError returns the stack carried by the first error in err's chain that
// implements [Callerser].
func FromError(err error) (Trace, bool) {
	var c Callerser
	if err == nil || !errors.As(err, &c) {
		return Trace{}, false
	}

	return FromPCs(c.Callers()), true
}

// OwnerOfFunc resolves the owner of a function symbol as reported by
// [runtime.Frame.Function]. Methods and closures inside methods resolve to
// their receiver type; all other functions resolve to their package.
func OwnerOfFunc(fn string) channel.Owner {
	slash := strings.LastIndexByte(fn, '/')

	dot := strings.IndexByte(fn[slash+1:], '.')
	if dot < 0 {
		return channel.Owner{}
	}

	dot += slash + 1

	pkg := strings.ReplaceAll(fn[:dot], "%2e", ".")
	rest := strings.ReplaceAll(fn[dot+1:], "[...]", "")

	if strings.HasPrefix(rest, "(*") {
		if end := strings.IndexByte(rest, ')'); end > 2 {
			return channel.Owner{Pkg: pkg, Type: rest[2:end]}
		}
	}

	parts := strings.SplitN(rest, ".", 3)
	if len(parts) >= 2 && !isGenerated(parts[1]) {
		return channel.Owner{Pkg: pkg, Type: parts[0]}
	}

	return channel.Owner{Pkg: pkg}
}

// isGenerated reports whether a symbol element was generated by the compiler
// for a closure, a go/defer wrapper or an init function. Closures in
// package-level initializers ("pkg.glob..func1") leave an empty element.
func isGenerated(s string) bool {
	if s == "" {
		return true
	}

	for _, prefix := range []string{"func", "gowrap", "deferwrap"} {
		if rest, ok := strings.CutPrefix(s, prefix); ok && isDigits(rest) {
			return true
		}
	}

	return isDigits(s)
}

func isDigits(s string) bool {
	if s == "" {
		return false
	}

	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}

	return true
}
