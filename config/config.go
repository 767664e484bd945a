package config

import (
	"fmt"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"go.jacobcolvin.com/chirp"
)

// Flags holds CLI flag names for chirp configuration, allowing callers to
// customize flag names while keeping sensible defaults via [NewConfig].
type Flags struct {
	Path     string
	MinLevel string
}

// NewConfig creates a new [Config] embedding these flag names.
func (f Flags) NewConfig() *Config {
	return &Config{
		Flags: f,
	}
}

// Config holds CLI flag values for chirp configuration.
//
// Create instances with [NewConfig] and register CLI flags with
// [Config.RegisterFlags]. Use [Config.Load] to read the configured file.
type Config struct {
	Path     string
	MinLevel string
	Flags    Flags
}

// NewConfig returns a new [Config] with zero-value fields.
func NewConfig() *Config {
	f := Flags{
		Path:     "config",
		MinLevel: "min-level",
	}

	return f.NewConfig()
}

// RegisterFlags adds configuration flags to the given [*pflag.FlagSet].
func (c *Config) RegisterFlags(flags *pflag.FlagSet) {
	flags.StringVar(&c.Path, c.Flags.Path, "",
		"path to a chirp configuration file")
	flags.StringVar(&c.MinLevel, c.Flags.MinLevel, "",
		fmt.Sprintf("minimum dispatched level, overrides the file, one of: %s", chirp.GetAllLevelStrings()))
}

// RegisterCompletions registers shell completions for configuration flags on
// cmd.
func (c *Config) RegisterCompletions(cmd *cobra.Command) error {
	err := cmd.RegisterFlagCompletionFunc(c.Flags.Path,
		cobra.FixedCompletions([]string{"yaml", "yml", "toml"}, cobra.ShellCompDirectiveFilterFileExt))
	if err != nil {
		return fmt.Errorf("registering %s completion: %w", c.Flags.Path, err)
	}

	err = cmd.RegisterFlagCompletionFunc(c.Flags.MinLevel,
		cobra.FixedCompletions(chirp.GetAllLevelStrings(), cobra.ShellCompDirectiveNoFileComp))
	if err != nil {
		return fmt.Errorf("registering %s completion: %w", c.Flags.MinLevel, err)
	}

	return nil
}

// Load returns the configured [File], or an empty one when no path is set.
// A MinLevel flag value replaces the file's level.
func (c *Config) Load() (*File, error) {
	f := &File{}

	if c.Path != "" {
		var err error

		f, err = Load(c.Path)
		if err != nil {
			return nil, err
		}
	}

	if c.MinLevel != "" {
		f.Level = c.MinLevel

		err := f.Validate()
		if err != nil {
			return nil, err
		}
	}

	return f, nil
}
