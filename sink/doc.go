// Package sink provides [chirp.Sink] implementations.
//
//   - [Slog] forwards events into any [slog.Handler], such as the console
//     handlers built by package log.
//   - [JSON] writes one JSON object per event to an [io.Writer]; [File] does
//     the same for a file it opens on Initialize and closes on Destroy.
//   - [Publisher] fans events out to in-process subscribers without ever
//     blocking the dispatcher.
//   - [Recorder] keeps events in memory.
package sink
