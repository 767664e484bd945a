package stack_test

import (
	"errors"
	"fmt"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"go.jacobcolvin.com/chirp/channel"
	"go.jacobcolvin.com/chirp/stack"
)

const pkgPath = "go.jacobcolvin.com/chirp/stack_test"

type tracer struct{}

func (tracer) byValue() stack.Trace { return stack.Capture(0) }

func (*tracer) byPointer() stack.Trace { return stack.Capture(0) }

func (t *tracer) inClosure() stack.Trace {
	var tr stack.Trace

	func() {
		tr = stack.Capture(0)
	}()

	return tr
}

func (t *tracer) skipped() stack.Trace { return t.helper() }

func (*tracer) helper() stack.Trace { return stack.Capture(1) }

func captureHere() stack.Trace { return stack.Capture(0) }

func TestOwnerOfFunc(t *testing.T) {
	t.Parallel()

	tcs := map[string]struct {
		fn   string
		want channel.Owner
	}{
		"pointer receiver": {
			fn:   "example.com/game.(*Player).Attack",
			want: channel.Owner{Pkg: "example.com/game", Type: "Player"},
		},
		"value receiver": {
			fn:   "example.com/game.Player.Name",
			want: channel.Owner{Pkg: "example.com/game", Type: "Player"},
		},
		"closure in method": {
			fn:   "example.com/game.(*Player).Attack.func1",
			want: channel.Owner{Pkg: "example.com/game", Type: "Player"},
		},
		"closure in value method": {
			fn:   "example.com/game.Player.Name.func2",
			want: channel.Owner{Pkg: "example.com/game", Type: "Player"},
		},
		"closure in package var initializer": {
			fn:   "example.com/game.glob..func1",
			want: channel.Owner{Pkg: "example.com/game"},
		},
		"nested closure in package var initializer": {
			fn:   "example.com/game.glob..func1.1",
			want: channel.Owner{Pkg: "example.com/game"},
		},
		"generic pointer receiver": {
			fn:   "example.com/game.(*Pool[...]).Get",
			want: channel.Owner{Pkg: "example.com/game", Type: "Pool"},
		},
		"generic value receiver": {
			fn:   "example.com/game.Pool[...].Len",
			want: channel.Owner{Pkg: "example.com/game", Type: "Pool"},
		},
		"package function": {
			fn:   "example.com/game.Run",
			want: channel.Owner{Pkg: "example.com/game"},
		},
		"closure in function": {
			fn:   "example.com/game.Run.func1",
			want: channel.Owner{Pkg: "example.com/game"},
		},
		"go wrapper": {
			fn:   "example.com/game.Run.gowrap1",
			want: channel.Owner{Pkg: "example.com/game"},
		},
		"init function": {
			fn:   "example.com/game.init.0",
			want: channel.Owner{Pkg: "example.com/game"},
		},
		"escaped dot in path": {
			fn:   "gopkg.in/yaml%2ev3.(*decoder).unmarshal",
			want: channel.Owner{Pkg: "gopkg.in/yaml.v3", Type: "decoder"},
		},
		"main package": {
			fn:   "main.main",
			want: channel.Owner{Pkg: "main"},
		},
		"no package": {
			fn:   "garbage",
			want: channel.Owner{},
		},
	}

	for name, tc := range tcs {
		t.Run(name, func(t *testing.T) {
			t.Parallel()

			assert.Equal(t, tc.want, stack.OwnerOfFunc(tc.fn))
		})
	}
}

func TestCapture(t *testing.T) {
	t.Parallel()

	tr := &tracer{}
	want := channel.Owner{Pkg: pkgPath, Type: "tracer"}

	tcs := map[string]struct {
		capture func() stack.Trace
		want    channel.Owner
	}{
		"value receiver":   {capture: tracer{}.byValue, want: want},
		"pointer receiver": {capture: tr.byPointer, want: want},
		"closure":          {capture: tr.inClosure, want: want},
		"function":         {capture: captureHere, want: channel.Package(pkgPath)},
	}

	for name, tc := range tcs {
		t.Run(name, func(t *testing.T) {
			t.Parallel()

			trace := tc.capture()
			require.Positive(t, trace.Len())
			assert.Equal(t, tc.want, trace.Owner(0))
			assert.True(t, strings.HasSuffix(trace.Frame(0).File, "stack_test.go"))
			assert.Positive(t, trace.Frame(0).Line)
			assert.LessOrEqual(t, trace.Len(), stack.MaxDepth)
		})
	}
}

func TestCaptureSkip(t *testing.T) {
	t.Parallel()

	trace := (&tracer{}).skipped()
	require.Positive(t, trace.Len())
	assert.True(t, strings.HasSuffix(trace.Frame(0).Function, ".(*tracer).skipped"), trace.Frame(0).Function)
}

func TestTraceFrames(t *testing.T) {
	t.Parallel()

	trace := captureHere()
	frames := trace.Frames()
	require.Len(t, frames, trace.Len())

	frames[0].Function = "mutated"
	assert.NotEqual(t, "mutated", trace.Frame(0).Function)
	assert.Contains(t, trace.String(), "stack_test.go:")

	assert.Zero(t, stack.FromPCs(nil).Len())
}

func TestFromError(t *testing.T) {
	t.Parallel()

	base := errors.New("boom")

	_, ok := stack.FromError(base)
	assert.False(t, ok)

	_, ok = stack.FromError(nil)
	assert.False(t, ok)

	assert.NoError(t, stack.WithStack(nil))

	err := fmt.Errorf("wrapped: %w", stack.WithStack(base))
	require.ErrorIs(t, err, base)
	assert.Equal(t, "wrapped: boom", err.Error())

	trace, ok := stack.FromError(err)
	require.True(t, ok)
	require.Positive(t, trace.Len())
	assert.True(t, strings.HasSuffix(trace.Frame(0).Function, ".TestFromError"), trace.Frame(0).Function)
}
