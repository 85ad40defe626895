package main

import (
	"context"
	"fmt"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"

	"github.com/randomizedcoder/benchkit/internal/harness"
	"github.com/randomizedcoder/benchkit/internal/membuf"
	"github.com/randomizedcoder/benchkit/internal/tick"
)

type linesParams struct {
	mmap    bool
	html    int
	repeats int
}

func newLinesCommand(a *app) *cobra.Command {
	var params linesParams

	cmd := &cobra.Command{
		Use:   "lines FILE",
		Short: "Time a line scan over a file",
		Long: `Lines loads FILE (or maps it with --mmap), scans it line by line --repeat
times and reports the line count and scan speed. --html N also prints the
first N lines HTML-escaped. Interrupt stops the repeats early.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.lines(cmd.Context(), args[0], params)
		},
	}
	cmd.Flags().BoolVar(&params.mmap, "mmap", false, "map the file instead of reading it")
	cmd.Flags().IntVar(&params.html, "html", 0, "print the first N lines HTML-escaped")
	cmd.Flags().IntVar(&params.repeats, "repeat", 1, "number of scans to time")
	return cmd
}

func (a *app) lines(ctx context.Context, path string, params linesParams) error {
	if params.repeats < 1 {
		return fmt.Errorf("repeat %d must be positive", params.repeats)
	}

	var r membuf.Reader
	load := r.InitWithFile
	if params.mmap {
		load = r.InitWithMappedFile
	}
	if err := load(path); err != nil {
		return err
	}
	defer func() {
		if err := r.Release(); err != nil {
			a.log.WithError(err).Warn("Releasing file")
		}
	}()

	counter, err := tick.Lookup(a.cfg.Counter)
	if err != nil {
		return err
	}
	cal, unpin, err := a.calibrate(counter)
	if err != nil {
		return err
	}
	defer unpin()

	stop := harness.OnSignal(ctx)
	defer stop.Stop()
	h := harness.New(cal, counter, harness.WithStopper(stop), harness.WithPollEvery(1), harness.WithLogger(a.log))

	count := 0
	s := h.Measure(params.repeats, func() {
		count = 0
		for range r.Lines() {
			count++
		}
	})

	sb, err := membuf.NewBuilder(256)
	if err != nil {
		return err
	}
	defer sb.Release()

	if err := sb.AppendFormat("%s: %d lines, %s\n", path, count, humanize.Bytes(uint64(r.Len()))); err != nil {
		return err
	}
	if s.Iterations > 0 && s.Ticks > 0 {
		rate := float64(r.Len()) / (s.Seconds() / float64(s.Iterations))
		if err := sb.AppendFormat("scan: %v (%.0f cycles) over %d runs, %s/s\n",
			s.PerOp(), s.CyclesPerOp(), s.Iterations, humanize.Bytes(uint64(rate))); err != nil {
			return err
		}
	}

	i := 0
	for line := range r.Lines() {
		if i >= params.html {
			break
		}
		if err := sb.AppendEscaped(string(line), membuf.HTML); err != nil {
			return err
		}
		if err := sb.WriteByte('\n'); err != nil {
			return err
		}
		i++
	}

	_, err = a.out.Write(sb.Bytes())
	return err
}
