// Package report renders calibrations and counter overheads for people
// (tables) and for scrapers (Prometheus text exposition).
package report

import (
	"fmt"
	"io"

	"github.com/dustin/go-humanize"
	"github.com/olekukonko/tablewriter"

	"github.com/randomizedcoder/benchkit/internal/harness"
	"github.com/randomizedcoder/benchkit/internal/tick"
)

// Output formats.
const (
	FormatTable      = "table"
	FormatPrometheus = "prometheus"
)

// CounterRow is one counter backend with its nominal rate and measured
// read cost.
type CounterRow struct {
	Name     string
	Nominal  uint64
	Overhead harness.Sample
}

// Calibration writes cal as a one-row table.
func Calibration(w io.Writer, cal *tick.Calibration) {
	table := tablewriter.NewWriter(w)
	table.SetHeader([]string{"Counter", "Tick rate", "Tick period", "Cycles/tick", "Frequency"})
	table.SetAlignment(tablewriter.ALIGN_LEFT)
	table.Append([]string{
		cal.Counter(),
		humanize.SI(float64(cal.TicksPerSecond()), "Hz"),
		period(cal.TicksPerSecond()),
		fmt.Sprintf("%.4f", cal.CyclesPerTick()),
		humanize.SI(float64(cal.Frequency()), "Hz"),
	})
	table.Render()
}

// Counters writes one row per counter backend.
func Counters(w io.Writer, rows []CounterRow) {
	table := tablewriter.NewWriter(w)
	table.SetHeader([]string{"Counter", "Nominal", "Reads", "Ticks/read", "Time/read"})
	table.SetAlignment(tablewriter.ALIGN_LEFT)
	for _, r := range rows {
		nominal := "-"
		if r.Nominal > 0 {
			nominal = humanize.SI(float64(r.Nominal), "Hz")
		}
		perRead := "-"
		if r.Overhead.Calibration != nil {
			perRead = r.Overhead.PerOp().String()
		}
		table.Append([]string{
			r.Name,
			nominal,
			humanize.Comma(int64(r.Overhead.Iterations)),
			fmt.Sprintf("%.2f", r.Overhead.TicksPerOp()),
			perRead,
		})
	}
	table.Render()
}

func period(ticksPerSecond uint64) string {
	if ticksPerSecond == 0 {
		return "-"
	}
	return humanize.SI(1/float64(ticksPerSecond), "s")
}
