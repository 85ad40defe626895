// Command benchkit calibrates the CPU cycle counter and times operations
// with it.
//
// Usage:
//
//	benchkit calibrate --warmup 500ms --format prometheus
//	benchkit counters -n 1000000
//	benchkit lines --mmap --html 5 FILE
//
// Every flag can also be set through a BENCHKIT_* environment variable or a
// --config file.
package main

import (
	"fmt"
	"io"
	"os"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/randomizedcoder/benchkit/internal/config"
	"github.com/randomizedcoder/benchkit/internal/fault"
	"github.com/randomizedcoder/benchkit/internal/logging"
	"github.com/randomizedcoder/benchkit/internal/tick"
)

// app is the state shared by the subcommands once flags are resolved.
type app struct {
	cfg config.Config
	out io.Writer
	log *logrus.Logger
}

func main() {
	err := run(os.Args[1:], os.Stdout, os.Stderr)
	if err == nil {
		return
	}
	if fault.IsViolation(err) {
		fmt.Fprintf(os.Stderr, "%+v\n", err)
	}
	os.Exit(1)
}

// run executes the command line args, turning invariant violations into
// errors.
func run(args []string, stdout, stderr io.Writer) (err error) {
	defer fault.Recover(&err)
	root := newRootCommand(stdout, stderr)
	root.SetArgs(args)
	return root.Execute()
}

func newRootCommand(stdout, stderr io.Writer) *cobra.Command {
	a := &app{cfg: config.Default(), out: stdout}

	root := &cobra.Command{
		Use:   "benchkit",
		Short: "Cycle-counter calibration and timing toolkit",
		Long: `benchkit calibrates the CPU cycle counter against the wall clock and uses the
result to time operations from a single pinned thread.`,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			if err := a.cfg.Apply(cmd); err != nil {
				return err
			}
			if err := a.cfg.Validate(); err != nil {
				return err
			}
			log, err := logging.New(a.cfg.LogLevel, a.cfg.LogFormat, stderr)
			if err != nil {
				return err
			}
			a.log = log
			return nil
		},
	}
	root.SetOut(stdout)
	root.SetErr(stderr)
	a.cfg.Bind(root.PersistentFlags())

	root.AddCommand(
		newCalibrateCommand(a),
		newCountersCommand(a),
		newLinesCommand(a),
	)
	return root
}

// calibrate pins the thread if configured and measures counter. The
// returned func undoes the pin and must be called when timing is done.
func (a *app) calibrate(counter tick.Counter) (*tick.Calibration, func(), error) {
	unpin := func() {}
	if a.cfg.Pin >= 0 {
		u, err := tick.PinThread(a.cfg.Pin)
		if err != nil {
			return nil, nil, err
		}
		unpin = u
		a.log.WithField("cpu", a.cfg.Pin).Debug("Pinned measuring thread")
	}

	opts := append(a.cfg.CalibratorOptions(),
		tick.WithCounter(counter),
		tick.WithLogger(a.log),
	)
	cal, err := tick.NewCalibrator(opts...).Measure()
	if err != nil {
		unpin()
		return nil, nil, err
	}
	return cal, unpin, nil
}
