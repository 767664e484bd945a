package main

import (
	"fmt"
	"sync"
	"time"

	"github.com/spf13/cobra"

	"go.jacobcolvin.com/chirp"
	"go.jacobcolvin.com/chirp/channel"
	"go.jacobcolvin.com/chirp/sink"
)

// benchWorker is bound to the "bench" channel, so its events exercise
// stack-based inference.
type benchWorker struct {
	d *chirp.Dispatcher
}

func (w benchWorker) run(i int) { w.d.Info("event", i) }

func (a *app) benchCmd() *cobra.Command {
	var (
		events  int
		workers int
		buffer  int
	)

	prof := &profiling{}

	cmd := &cobra.Command{
		Use:   "bench",
		Short: "Measure dispatch throughput into a publisher sink",
		Args:  cobra.NoArgs,
		RunE: func(_ *cobra.Command, _ []string) error {
			diag, err := a.logCfg.NewLogger(a.stderr)
			if err != nil {
				return err
			}

			err = prof.start()
			if err != nil {
				return err
			}

			reg := channel.NewRegistry()
			reg.BindTo(channel.TypeOf[benchWorker](), reg.Get("bench"))

			pub := sink.NewPublisher(sink.WithBufferSize(buffer))
			sub := pub.Subscribe()

			received := make(chan int)
			go func() {
				n := 0
				for range sub.C() {
					n++
				}
				received <- n
			}()

			d := chirp.New(
				chirp.WithRegistry(reg),
				chirp.WithMinLevel(chirp.LevelLog),
				chirp.WithDiagnostics(diag),
			)

			d.Initialize(pub)

			start := time.Now()

			var wg sync.WaitGroup
			for range workers {
				w := benchWorker{d: d}
				wg.Go(func() {
					for i := range events {
						w.run(i)
					}
				})
			}

			wg.Wait()

			elapsed := time.Since(start)

			d.Shutdown()

			err = prof.stop()
			if err != nil {
				return err
			}

			total := events * workers
			rate := float64(total) / max(elapsed.Seconds(), 1e-9)

			_, err = fmt.Fprintf(a.stdout,
				"dispatched %d events from %d workers in %s (%.0f/s), subscriber received %d\n",
				total, workers, elapsed.Round(time.Microsecond), rate, <-received)
			if err != nil {
				return fmt.Errorf("%w: %w", ErrWriteOutput, err)
			}

			return nil
		},
	}

	cmd.Flags().IntVar(&events, "events", 10000, "events per worker")
	cmd.Flags().IntVar(&workers, "workers", 4, "concurrent log callers")
	cmd.Flags().IntVar(&buffer, "buffer", 1024, "subscriber buffer size")
	prof.registerFlags(cmd.Flags())

	return cmd
}
