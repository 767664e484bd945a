package sink

import (
	"context"
	"log/slog"

	"go.jacobcolvin.com/chirp"
)

// Slog is a [chirp.Sink] that forwards events to a [slog.Handler].
//
// The record message is [chirp.Event.Message] and its source is the event's
// call site. Attributes carry the chirp level ("severity"), the channel id
// ("channel") and the event error ("error").
type Slog struct {
	handler slog.Handler
}

var _ chirp.Sink = (*Slog)(nil)

// NewSlog creates a [Slog] sink writing to h.
func NewSlog(h slog.Handler) *Slog {
	return &Slog{handler: h}
}

// SlogLevel maps a chirp level onto the nearest [slog.Level].
func SlogLevel(l chirp.Level) slog.Level {
	switch l {
	case chirp.LevelDebug:
		return slog.LevelDebug
	case chirp.LevelLog, chirp.LevelInfo:
		return slog.LevelInfo
	case chirp.LevelWarning:
		return slog.LevelWarn
	}

	return slog.LevelError
}

// Initialize implements [chirp.Sink].
func (s *Slog) Initialize() error { return nil }

// Destroy implements [chirp.Sink].
func (s *Slog) Destroy() error { return nil }

// Append implements [chirp.Sink].
func (s *Slog) Append(evt chirp.Event) error {
	ctx := context.Background()

	lvl := SlogLevel(evt.Level())
	if !s.handler.Enabled(ctx, lvl) {
		return nil
	}

	// Frame.PC is a call PC; records carry return PCs as from runtime.Callers.
	var pc uintptr
	if f, ok := evt.Caller(); ok {
		pc = f.PC + 1
	}

	rec := slog.NewRecord(evt.Time(), lvl, evt.Message(), pc)
	rec.AddAttrs(slog.String("severity", evt.Level().String()))

	if ch := evt.Channel(); ch != nil {
		rec.AddAttrs(slog.String("channel", ch.ID()))
	}

	if err := evt.Err(); err != nil {
		rec.AddAttrs(slog.Any("error", err))
	}

	return s.handler.Handle(ctx, rec)
}
