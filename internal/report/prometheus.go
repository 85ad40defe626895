package report

import (
	"io"

	"github.com/pkg/errors"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/common/expfmt"

	"github.com/randomizedcoder/benchkit/internal/tick"
)

const namespace = "benchkit"

// WritePrometheusCalibration writes cal as gauges in the Prometheus text
// exposition format, labelled by counter.
func WritePrometheusCalibration(w io.Writer, cal *tick.Calibration) error {
	labels := prometheus.Labels{"counter": cal.Counter()}
	return write(w,
		gauge("counter_ticks_per_second", "Measured tick rate of the counter.", labels, float64(cal.TicksPerSecond())),
		gauge("counter_cycles_per_tick", "Estimated core cycles per counter tick.", labels, cal.CyclesPerTick()),
		gauge("cpu_frequency_hz", "Estimated core clock frequency.", labels, float64(cal.Frequency())),
	)
}

// WritePrometheusCounters writes the read cost of each counter backend.
func WritePrometheusCounters(w io.Writer, rows []CounterRow) error {
	ticks := prometheus.NewGaugeVec(prometheus.GaugeOpts{
		Namespace: namespace,
		Name:      "counter_read_ticks",
		Help:      "Mean ticks elapsed per counter read.",
	}, []string{"counter"})
	seconds := prometheus.NewGaugeVec(prometheus.GaugeOpts{
		Namespace: namespace,
		Name:      "counter_read_seconds",
		Help:      "Mean wall time per counter read.",
	}, []string{"counter"})

	for _, r := range rows {
		ticks.WithLabelValues(r.Name).Set(r.Overhead.TicksPerOp())
		if r.Overhead.Calibration != nil {
			seconds.WithLabelValues(r.Name).Set(r.Overhead.PerOp().Seconds())
		}
	}
	return write(w, ticks, seconds)
}

func gauge(name, help string, labels prometheus.Labels, v float64) prometheus.Collector {
	g := prometheus.NewGauge(prometheus.GaugeOpts{
		Namespace:   namespace,
		Name:        name,
		Help:        help,
		ConstLabels: labels,
	})
	g.Set(v)
	return g
}

// write registers cs on a private registry and writes what it gathers.
func write(w io.Writer, cs ...prometheus.Collector) error {
	reg := prometheus.NewPedanticRegistry()
	for _, c := range cs {
		if err := reg.Register(c); err != nil {
			return errors.Wrap(err, "report: registering metric")
		}
	}
	mfs, err := reg.Gather()
	if err != nil {
		return errors.Wrap(err, "report: gathering metrics")
	}
	for _, mf := range mfs {
		if _, err := expfmt.MetricFamilyToText(w, mf); err != nil {
			return errors.Wrap(err, "report: writing metrics")
		}
	}
	return nil
}
