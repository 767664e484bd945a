// Package log provides structured logging handler construction for use with
// [log/slog].
//
// It supports multiple output formats ([FormatJSON], [FormatLogfmt], and
// [FormatText]) and severity levels ([LevelError], [LevelWarn], [LevelInfo],
// and [LevelDebug]). Use [NewHandler] to create a handler directly, or use
// [Config] with CLI flag integration via [github.com/spf13/pflag] and shell
// completion support via [github.com/spf13/cobra].
//
// The handlers serve two roles in chirp: they receive a dispatcher's own
// diagnostics (see [go.jacobcolvin.com/chirp.WithDiagnostics]), and wrapped in a sink.Slog they
// render events on a console.
//
//	cfg := log.NewConfig()
//	cfg.RegisterFlags(rootCmd.PersistentFlags())
//	cfg.RegisterCompletions(rootCmd)
//
//	handler, err := cfg.NewHandler(os.Stderr)
//	d := chirp.New(chirp.WithDiagnostics(slog.New(handler)))
//	d.Initialize(sink.NewSlog(handler))
package log
