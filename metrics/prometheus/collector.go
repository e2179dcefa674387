package prometheus

import (
	"time"

	prom "github.com/prometheus/client_golang/prometheus"
)

// Collector implements pixelsom.MetricsCollector on Prometheus vectors.
type Collector struct {
	opLatency     *prom.HistogramVec
	samples       *prom.CounterVec
	trainSteps    prom.Counter
	clusters      prom.Gauge
	snapshotBytes *prom.CounterVec
}

// NewCollector builds the metric vectors and registers them with reg.
// Pass prom.DefaultRegisterer to expose them on the default /metrics handler.
func NewCollector(reg prom.Registerer) (*Collector, error) {
	c := &Collector{
		opLatency: prom.NewHistogramVec(prom.HistogramOpts{
			Name:    "pixelsom_operation_latency_seconds",
			Help:    "Latency of train, assign and snapshot operations",
			Buckets: prom.ExponentialBuckets(0.001, 4, 10),
		}, []string{"op", "status"}),
		samples: prom.NewCounterVec(prom.CounterOpts{
			Name: "pixelsom_samples_total",
			Help: "Sample rows processed",
		}, []string{"op"}),
		trainSteps: prom.NewCounter(prom.CounterOpts{
			Name: "pixelsom_train_steps_total",
			Help: "Neighborhood update steps completed",
		}),
		clusters: prom.NewGauge(prom.GaugeOpts{
			Name: "pixelsom_last_assign_clusters",
			Help: "Distinct labels produced by the most recent assignment",
		}),
		snapshotBytes: prom.NewCounterVec(prom.CounterOpts{
			Name: "pixelsom_snapshot_bytes_total",
			Help: "Encoded snapshot bytes saved or loaded",
		}, []string{"op"}),
	}

	for _, m := range []prom.Collector{c.opLatency, c.samples, c.trainSteps, c.clusters, c.snapshotBytes} {
		if err := reg.Register(m); err != nil {
			return nil, err
		}
	}
	return c, nil
}

func status(err error) string {
	if err != nil {
		return "error"
	}
	return "success"
}

// RecordTrain implements pixelsom.MetricsCollector.
func (c *Collector) RecordTrain(samples, steps int, d time.Duration, err error) {
	c.opLatency.WithLabelValues("train", status(err)).Observe(d.Seconds())
	if err != nil {
		return
	}
	c.samples.WithLabelValues("train").Add(float64(samples))
	c.trainSteps.Add(float64(steps))
}

// RecordAssign implements pixelsom.MetricsCollector.
func (c *Collector) RecordAssign(samples, clusters int, d time.Duration, err error) {
	c.opLatency.WithLabelValues("assign", status(err)).Observe(d.Seconds())
	if err != nil {
		return
	}
	c.samples.WithLabelValues("assign").Add(float64(samples))
	c.clusters.Set(float64(clusters))
}

// RecordSnapshot implements pixelsom.MetricsCollector.
func (c *Collector) RecordSnapshot(op string, bytes int, d time.Duration, err error) {
	c.opLatency.WithLabelValues(op, status(err)).Observe(d.Seconds())
	if err != nil {
		return
	}
	c.snapshotBytes.WithLabelValues(op).Add(float64(bytes))
}
