package channel

import (
	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// Fallback is the sentinel channel meaning "no channel chosen yet". Passing it
// to a dispatcher entry point behaves like passing nil: the channel is
// inferred from the call stack.
var Fallback = New("fallback", AsFallback())

// Channel is a named log category. Its id is the lower-cased name and is the
// only property that takes part in equality.
//
// Create instances with [New] or [Registry.Get].
type Channel struct {
	id       string
	name     string
	color    Color
	fallback bool
}

// Option configures a [Channel] created with [New].
type Option func(*Channel)

// WithColor overrides the derived color of the channel.
func WithColor(c Color) Option {
	return func(ch *Channel) {
		ch.color = c
	}
}

// AsFallback marks the channel as a fallback marker. Events carrying a
// fallback channel have their channel inferred from the call stack.
func AsFallback() Option {
	return func(ch *Channel) {
		ch.fallback = true
	}
}

// New creates a channel named name. The channel is not registered; use
// [Registry.Register] to make it the canonical instance for its id.
func New(name string, opts ...Option) *Channel {
	ch := &Channel{
		id:    normalize(name),
		name:  name,
		color: ColorFor(normalize(name)),
	}
	for _, opt := range opts {
		opt(ch)
	}

	return ch
}

// ID returns the case-insensitive canonical id.
func (c *Channel) ID() string {
	if c == nil {
		return ""
	}

	return c.id
}

// Name returns the display name in its original case.
func (c *Channel) Name() string {
	if c == nil {
		return ""
	}

	return c.name
}

// Color returns the display color.
func (c *Channel) Color() Color {
	if c == nil {
		return Color{}
	}

	return c.color
}

// IsFallback reports whether c is a fallback marker.
func (c *Channel) IsFallback() bool {
	return c != nil && c.fallback
}

// Equal reports whether both channels have the same id. Two nil channels are
// equal; a nil and a non-nil channel are not.
func (c *Channel) Equal(other *Channel) bool {
	if c == nil || other == nil {
		return c == other
	}

	return c.id == other.id
}

// EqualString reports whether id names this channel, ignoring case.
func (c *Channel) EqualString(id string) bool {
	return c != nil && c.id == normalize(id)
}

// String returns the display name.
func (c *Channel) String() string {
	return c.Name()
}

func normalize(id string) string {
	// Casers are stateful; one per call keeps normalize safe for concurrent use.
	return cases.Lower(language.Und).String(id)
}
