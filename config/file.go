package config

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/goccy/go-yaml"
	"github.com/pelletier/go-toml/v2"

	"go.jacobcolvin.com/chirp"
	"go.jacobcolvin.com/chirp/channel"
	"go.jacobcolvin.com/chirp/log"
	"go.jacobcolvin.com/chirp/sink"
)

var (
	// ErrReadConfig indicates the configuration file could not be read.
	ErrReadConfig = errors.New("read config")
	// ErrInvalidConfig indicates the configuration could not be decoded or
	// failed validation.
	ErrInvalidConfig = errors.New("invalid config")
)

// SinkType names a sink implementation.
type SinkType string

const (
	// SinkConsole renders events through a [log.NewHandler] handler.
	SinkConsole SinkType = "console"
	// SinkJSON writes JSON lines to the console writer.
	SinkJSON SinkType = "json"
	// SinkFile appends JSON lines to a file.
	SinkFile SinkType = "file"
)

var allSinkTypes = []SinkType{SinkConsole, SinkJSON, SinkFile}

// File is the configuration file.
type File struct {
	Level    string    `json:"level,omitempty"    jsonschema:"minimum dispatched level, one of debug, log, info, warning, assert, error, exception" toml:"level,omitempty"    yaml:"level,omitempty"`
	Sinks    []Sink    `json:"sinks,omitempty"    jsonschema:"sinks installed at initialization, in fan-out order"                                 toml:"sinks,omitempty"    yaml:"sinks,omitempty"`
	Channels []Channel `json:"channels,omitempty" jsonschema:"channels registered at startup"                                                      toml:"channels,omitempty" yaml:"channels,omitempty"`
}

// Sink configures one sink.
type Sink struct {
	Type   SinkType `json:"type"             jsonschema:"sink type, one of console, json, file"               toml:"type"             yaml:"type"`
	Format string   `json:"format,omitempty" jsonschema:"console format, one of json, logfmt, text"           toml:"format,omitempty" yaml:"format,omitempty"`
	Level  string   `json:"level,omitempty"  jsonschema:"console handler level, one of error, warn, info, debug" toml:"level,omitempty"  yaml:"level,omitempty"`
	Path   string   `json:"path,omitempty"   jsonschema:"file sink path"                                      toml:"path,omitempty"   yaml:"path,omitempty"`
}

// Channel configures one channel.
type Channel struct {
	Name   string   `json:"name"             jsonschema:"channel name; the id is its lower-case form"                 toml:"name"             yaml:"name"`
	Color  string   `json:"color,omitempty"  jsonschema:"hex color overriding the derived one"                         toml:"color,omitempty"  yaml:"color,omitempty"`
	Owners []string `json:"owners,omitempty" jsonschema:"package or type bound to the channel: import/path, import/path.Type, or import/path#Type" toml:"owners,omitempty" yaml:"owners,omitempty"`
}

// Parse decodes and validates a YAML configuration. Unknown fields are
// rejected.
func Parse(data []byte) (*File, error) {
	f := &File{}

	err := yaml.UnmarshalWithOptions(data, f, yaml.DisallowUnknownField())
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidConfig, err)
	}

	err = f.Validate()
	if err != nil {
		return nil, err
	}

	return f, nil
}

// ParseTOML is [Parse] for TOML documents.
func ParseTOML(data []byte) (*File, error) {
	f := &File{}

	err := toml.NewDecoder(bytes.NewReader(data)).DisallowUnknownFields().Decode(f)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidConfig, err)
	}

	err = f.Validate()
	if err != nil {
		return nil, err
	}

	return f, nil
}

// Load reads and parses the configuration file at path. Files ending in
// ".toml" are decoded as TOML, anything else as YAML.
func Load(path string) (*File, error) {
	data, err := os.ReadFile(path) //nolint:gosec // Path from CLI flag is expected.
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrReadConfig, err)
	}

	parse := Parse
	if strings.EqualFold(filepath.Ext(path), ".toml") {
		parse = ParseTOML
	}

	f, err := parse(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}

	return f, nil
}

// Validate reports every problem in f, joined and wrapped with
// [ErrInvalidConfig].
func (f *File) Validate() error {
	var errs []error

	if f.Level != "" {
		_, err := chirp.ParseLevel(f.Level)
		if err != nil {
			errs = append(errs, fmt.Errorf("level: %w", err))
		}
	}

	for i, s := range f.Sinks {
		err := s.validate()
		if err != nil {
			errs = append(errs, fmt.Errorf("sinks[%d]: %w", i, err))
		}
	}

	for i, c := range f.Channels {
		err := c.validate()
		if err != nil {
			errs = append(errs, fmt.Errorf("channels[%d]: %w", i, err))
		}
	}

	if len(errs) > 0 {
		return fmt.Errorf("%w: %w", ErrInvalidConfig, errors.Join(errs...))
	}

	return nil
}

// MinLevel returns the configured minimum level, or [chirp.LevelDebug] when
// unset.
func (f *File) MinLevel() (chirp.Level, error) {
	if f.Level == "" {
		return chirp.LevelDebug, nil
	}

	lvl, err := chirp.ParseLevel(f.Level)
	if err != nil {
		return 0, fmt.Errorf("%w: %w", ErrInvalidConfig, err)
	}

	return lvl, nil
}

// Apply registers the configured channels in reg and binds their owners.
// Channels already present in reg keep their existing color.
func (f *File) Apply(reg *channel.Registry) error {
	err := f.Validate()
	if err != nil {
		return err
	}

	for _, c := range f.Channels {
		var opts []channel.Option

		if c.Color != "" {
			col, err := channel.ParseHex(c.Color)
			if err != nil {
				return fmt.Errorf("%w: %w", ErrInvalidConfig, err)
			}

			opts = append(opts, channel.WithColor(col))
		}

		ch := reg.Register(channel.New(c.Name, opts...))
		for _, o := range c.Owners {
			reg.BindTo(channel.ParseOwner(o), ch)
		}
	}

	return nil
}

// BuildSinks builds the configured sinks in order. Console and json sinks
// write to w.
func (f *File) BuildSinks(w io.Writer) ([]chirp.Sink, error) {
	err := f.Validate()
	if err != nil {
		return nil, err
	}

	sinks := make([]chirp.Sink, 0, len(f.Sinks))
	for _, s := range f.Sinks {
		sinks = append(sinks, s.build(w))
	}

	return sinks, nil
}

func (s Sink) validate() error {
	switch s.Type {
	case SinkConsole:
		if s.Format != "" {
			_, err := log.ParseFormat(s.Format)
			if err != nil {
				return err
			}
		}

		if s.Level != "" {
			_, err := log.ParseLevel(s.Level)
			if err != nil {
				return err
			}
		}

	case SinkJSON:

	case SinkFile:
		if strings.TrimSpace(s.Path) == "" {
			return errors.New("file sink requires a path")
		}

	default:
		return fmt.Errorf("unknown sink type %q, want one of %v", s.Type, allSinkTypes)
	}

	return nil
}

// build assumes s is valid.
func (s Sink) build(w io.Writer) chirp.Sink {
	switch s.Type {
	case SinkJSON:
		return sink.NewJSON(w)
	case SinkFile:
		return sink.NewFile(s.Path)
	case SinkConsole:
	}

	format := log.FormatText
	if s.Format != "" {
		format, _ = log.ParseFormat(s.Format)
	}

	level := log.LevelDebug
	if s.Level != "" {
		level, _ = log.ParseLevel(s.Level)
	}

	return sink.NewSlog(log.NewHandler(w, level, format))
}

func (c Channel) validate() error {
	var errs []error

	if strings.TrimSpace(c.Name) == "" {
		errs = append(errs, errors.New("name is required"))
	}

	if c.Color != "" {
		_, err := channel.ParseHex(c.Color)
		if err != nil {
			errs = append(errs, err)
		}
	}

	for i, o := range c.Owners {
		if channel.ParseOwner(o).IsZero() {
			errs = append(errs, fmt.Errorf("owners[%d]: invalid owner %q", i, o))
		}
	}

	return errors.Join(errs...)
}
