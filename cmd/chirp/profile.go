package main

import (
	"errors"
	"fmt"
	"os"
	"runtime"
	"runtime/pprof"

	"github.com/spf13/pflag"
)

// profiling writes runtime profiles around a bench run. Empty paths disable
// the corresponding profile.
type profiling struct {
	cpuFile   *os.File
	cpuPath   string
	heapPath  string
	mutexPath string
}

func (p *profiling) registerFlags(flags *pflag.FlagSet) {
	flags.StringVar(&p.cpuPath, "cpu-profile", "", "write CPU profile to file")
	flags.StringVar(&p.heapPath, "heap-profile", "", "write heap profile to file")
	flags.StringVar(&p.mutexPath, "mutex-profile", "", "write mutex contention profile to file")
}

func (p *profiling) start() error {
	if p.mutexPath != "" {
		runtime.SetMutexProfileFraction(1)
	}

	if p.cpuPath == "" {
		return nil
	}

	f, err := os.Create(p.cpuPath) //nolint:gosec // Profile path from CLI flag is expected.
	if err != nil {
		return fmt.Errorf("creating CPU profile: %w", err)
	}

	err = pprof.StartCPUProfile(f)
	if err != nil {
		return errors.Join(fmt.Errorf("starting CPU profile: %w", err), f.Close())
	}

	p.cpuFile = f

	return nil
}

func (p *profiling) stop() error {
	var errs []error

	if p.cpuFile != nil {
		pprof.StopCPUProfile()

		err := p.cpuFile.Close()
		if err != nil {
			errs = append(errs, fmt.Errorf("closing CPU profile: %w", err))
		}

		p.cpuFile = nil
	}

	if p.heapPath != "" {
		runtime.GC()

		errs = append(errs, writeProfile("heap", p.heapPath))
	}

	if p.mutexPath != "" {
		errs = append(errs, writeProfile("mutex", p.mutexPath))
		runtime.SetMutexProfileFraction(0)
	}

	return errors.Join(errs...)
}

func writeProfile(name, path string) error {
	f, err := os.Create(path) //nolint:gosec // Profile path from CLI flag is expected.
	if err != nil {
		return fmt.Errorf("create %s profile: %w", name, err)
	}

	err = pprof.Lookup(name).WriteTo(f, 0)
	if err != nil {
		return errors.Join(fmt.Errorf("write %s profile: %w", name, err), f.Close())
	}

	err = f.Close()
	if err != nil {
		return fmt.Errorf("write %s profile: %w", name, err)
	}

	return nil
}
