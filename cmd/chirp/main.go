// Command chirp drives a chirp dispatcher from the command line.
//
// # Usage
//
//	chirp emit [flags] <message> ...
//	chirp color <channel> ...
//	chirp channels
//	chirp schema
//	chirp version
//	chirp bench [flags]
//
// emit initializes a dispatcher from the configuration file (or a console
// sink when none is configured), dispatches one event, and shuts down. The
// default console format is text on a terminal and JSON otherwise. bench
// measures dispatch throughput and can write CPU, heap and mutex profiles.
package main

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"go.jacobcolvin.com/chirp"
	"go.jacobcolvin.com/chirp/channel"
	"go.jacobcolvin.com/chirp/config"
	"go.jacobcolvin.com/chirp/log"
	"go.jacobcolvin.com/chirp/sink"
	"go.jacobcolvin.com/chirp/version"
)

// ErrWriteOutput indicates command output could not be written.
var ErrWriteOutput = errors.New("write output")

func main() {
	tty := term.IsTerminal(int(os.Stderr.Fd())) //nolint:gosec // Fd fits in int.

	rootCmd := newRootCmd(os.Stdout, os.Stderr, tty)

	err := rootCmd.Execute()
	if err != nil {
		fmt.Fprintf(os.Stderr, "%v\n", err)
		os.Exit(1)
	}
}

type app struct {
	stdout  io.Writer
	stderr  io.Writer
	logCfg  *log.Config
	confCfg *config.Config
	tty     bool
}

func newRootCmd(stdout, stderr io.Writer, tty bool) *cobra.Command {
	a := &app{
		stdout:  stdout,
		stderr:  stderr,
		logCfg:  log.NewConfig(),
		confCfg: config.NewConfig(),
		tty:     tty,
	}

	rootCmd := &cobra.Command{
		Use:   "chirp",
		Short: "Dispatch channel-tagged log events",
		Long: `chirp routes leveled, channel-tagged log events to configured sinks.
Channels get a stable color derived from their id and can be inferred from
the owner type of the calling code.`,
		SilenceErrors: true,
		SilenceUsage:  true,
	}

	rootCmd.SetOut(stdout)
	rootCmd.SetErr(stderr)

	a.logCfg.RegisterFlags(rootCmd.PersistentFlags())
	a.confCfg.RegisterFlags(rootCmd.PersistentFlags())

	err := errors.Join(a.logCfg.RegisterCompletions(rootCmd), a.confCfg.RegisterCompletions(rootCmd))
	if err != nil {
		fmt.Fprintf(stderr, "register completions: %v\n", err)
	}

	rootCmd.AddCommand(
		a.emitCmd(),
		a.colorCmd(),
		a.channelsCmd(),
		a.schemaCmd(),
		a.versionCmd(),
		a.benchCmd(),
	)

	return rootCmd
}

func (a *app) emitCmd() *cobra.Command {
	var (
		level   string
		chName  string
		errText string
	)

	cmd := &cobra.Command{
		Use:   "emit [flags] <message> ...",
		Short: "Dispatch a single event",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			lvl, err := chirp.ParseLevel(level)
			if err != nil {
				return fmt.Errorf("%w: %w", log.ErrInvalidArgument, err)
			}

			d, err := a.newDispatcher(cmd)
			if err != nil {
				return err
			}
			defer d.Shutdown()

			var ch *channel.Channel
			if chName != "" {
				ch = d.Channel(chName)
			}

			var evtErr error
			if errText != "" {
				evtErr = errors.New(errText)
			}

			msgs := make([]any, len(args))
			for i, arg := range args {
				msgs[i] = arg
			}

			d.Emit(lvl, ch, evtErr, msgs...)

			return nil
		},
	}

	cmd.Flags().StringVar(&level, "level", chirp.LevelLog.String(),
		fmt.Sprintf("event level, one of: %s", chirp.GetAllLevelStrings()))
	cmd.Flags().StringVar(&chName, "channel", "", "channel id; inferred when empty")
	cmd.Flags().StringVar(&errText, "error", "", "error text attached to the event")

	err := cmd.RegisterFlagCompletionFunc("level",
		cobra.FixedCompletions(chirp.GetAllLevelStrings(), cobra.ShellCompDirectiveNoFileComp))
	if err != nil {
		fmt.Fprintf(a.stderr, "register completions: %v\n", err)
	}

	return cmd
}

// newDispatcher builds an initialized dispatcher from the configuration file
// and log flags. Events go to stdout, diagnostics to stderr.
func (a *app) newDispatcher(cmd *cobra.Command) (*chirp.Dispatcher, error) {
	file, err := a.confCfg.Load()
	if err != nil {
		return nil, err
	}

	reg := channel.NewRegistry()

	err = file.Apply(reg)
	if err != nil {
		return nil, err
	}

	minLevel, err := file.MinLevel()
	if err != nil {
		return nil, err
	}

	if !a.tty {
		a.logCfg.DefaultFormat(cmd.Flags(), log.FormatJSON)
	}

	diag, err := a.logCfg.NewLogger(a.stderr)
	if err != nil {
		return nil, err
	}

	sinks, err := file.BuildSinks(a.stdout)
	if err != nil {
		return nil, err
	}

	if len(sinks) == 0 {
		format := log.FormatText
		if !a.tty {
			format = log.FormatJSON
		}

		sinks = append(sinks, sink.NewSlog(log.NewHandler(a.stdout, log.LevelDebug, format)))
	}

	d := chirp.New(
		chirp.WithRegistry(reg),
		chirp.WithMinLevel(minLevel),
		chirp.WithDiagnostics(diag),
	)
	d.Initialize(sinks...)

	return d, nil
}

func (a *app) colorCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "color <channel> ...",
		Short: "Print the derived color of channel ids",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(_ *cobra.Command, args []string) error {
			rows := make([][]string, 0, len(args))
			for _, arg := range args {
				ch := channel.New(arg)
				c := ch.Color()
				rows = append(rows, []string{
					ch.ID(),
					c.Hex(),
					fmt.Sprintf("%.4f", c.R),
					fmt.Sprintf("%.4f", c.G),
					fmt.Sprintf("%.4f", c.B),
				})
			}

			_, err := fmt.Fprintln(a.stdout, renderTable([]string{"ID", "HEX", "R", "G", "B"}, rows, 2, 3, 4))
			if err != nil {
				return fmt.Errorf("%w: %w", ErrWriteOutput, err)
			}

			return nil
		},
	}
}

func (a *app) channelsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "channels",
		Short: "List the channels registered by the configuration file",
		Args:  cobra.NoArgs,
		RunE: func(_ *cobra.Command, _ []string) error {
			file, err := a.confCfg.Load()
			if err != nil {
				return err
			}

			reg := channel.NewRegistry()

			err = file.Apply(reg)
			if err != nil {
				return err
			}

			var rows [][]string

			for _, id := range reg.IDs() {
				ch := reg.Lookup(id)

				var owners []string
				for _, o := range reg.Owners(ch) {
					owners = append(owners, o.String())
				}

				rows = append(rows, []string{ch.ID(), ch.Name(), ch.Color().Hex(), strings.Join(owners, "\n")})
			}

			_, err = fmt.Fprintln(a.stdout, renderTable([]string{"ID", "NAME", "HEX", "OWNERS"}, rows))
			if err != nil {
				return fmt.Errorf("%w: %w", ErrWriteOutput, err)
			}

			return nil
		},
	}
}

func (a *app) schemaCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "schema",
		Short: "Print the JSON Schema of the configuration file",
		Args:  cobra.NoArgs,
		RunE: func(_ *cobra.Command, _ []string) error {
			schema, err := config.Schema()
			if err != nil {
				return err
			}

			out, err := json.MarshalIndent(schema, "", "  ")
			if err != nil {
				return fmt.Errorf("%w: %w", ErrWriteOutput, err)
			}

			out = append(out, '\n')

			_, err = a.stdout.Write(out)
			if err != nil {
				return fmt.Errorf("%w: %w", ErrWriteOutput, err)
			}

			return nil
		},
	}
}

func (a *app) versionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print build information",
		Args:  cobra.NoArgs,
		RunE: func(_ *cobra.Command, _ []string) error {
			_, err := fmt.Fprintln(a.stdout, version.Info())
			if err != nil {
				return fmt.Errorf("%w: %w", ErrWriteOutput, err)
			}

			return nil
		},
	}
}
