package main

import (
	"github.com/spf13/cobra"

	"github.com/randomizedcoder/benchkit/internal/report"
	"github.com/randomizedcoder/benchkit/internal/tick"
)

func newCalibrateCommand(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "calibrate",
		Short: "Measure the counter rate and estimate the CPU frequency",
		Long: `Calibrate relates the selected counter to the wall clock over a fixed
interval, then estimates cycles per tick with a timed dependent-instruction
sequence. Use --warmup so the core leaves its power-saving states first.`,
		Args: cobra.NoArgs,
		RunE: func(*cobra.Command, []string) error {
			counter, err := tick.Lookup(a.cfg.Counter)
			if err != nil {
				return err
			}
			cal, unpin, err := a.calibrate(counter)
			if err != nil {
				return err
			}
			unpin()

			a.log.Info(cal.String())
			if a.cfg.Format == report.FormatPrometheus {
				return report.WritePrometheusCalibration(a.out, cal)
			}
			report.Calibration(a.out, cal)
			return nil
		},
	}
}
