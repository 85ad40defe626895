package main

import (
	"github.com/spf13/cobra"

	"github.com/randomizedcoder/benchkit/internal/harness"
	"github.com/randomizedcoder/benchkit/internal/report"
	"github.com/randomizedcoder/benchkit/internal/tick"
)

func newCountersCommand(a *app) *cobra.Command {
	var iterations int

	cmd := &cobra.Command{
		Use:   "counters",
		Short: "Compare the read cost of every counter backend",
		Long: `Counters calibrates each backend available on this platform in turn and
times back-to-back reads of it. --counter is ignored.`,
		Args: cobra.NoArgs,
		RunE: func(*cobra.Command, []string) error {
			var rows []report.CounterRow
			for _, c := range tick.Counters() {
				row, err := a.counterRow(c, iterations)
				if err != nil {
					return err
				}
				rows = append(rows, row)
			}

			if a.cfg.Format == report.FormatPrometheus {
				return report.WritePrometheusCounters(a.out, rows)
			}
			report.Counters(a.out, rows)
			return nil
		},
	}
	cmd.Flags().IntVarP(&iterations, "iterations", "n", 1_000_000, "number of reads per counter")
	return cmd
}

func (a *app) counterRow(c tick.Counter, n int) (report.CounterRow, error) {
	cal, unpin, err := a.calibrate(c)
	if err != nil {
		return report.CounterRow{}, err
	}
	defer unpin()

	h := harness.New(cal, c, harness.WithLogger(a.log))
	return report.CounterRow{
		Name:     c.Name(),
		Nominal:  tick.NominalFrequency(c),
		Overhead: h.Overhead(n),
	}, nil
}
