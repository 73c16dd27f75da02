// Copyright © 2025 Texelation contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
//
// File: metrics/metrics.go
// Summary: Prometheus counters for a streamparse host process.

package metrics

import (
	"github.com/prometheus/client_golang/prometheus"

	"github.com/texelation/streamparse/streamparse"
)

const namespace = "streamparse"

// Counters is a prometheus.Collector tracking classification throughput and
// per-kind counts. It owns no registry of its own; a host registers it into
// whichever prometheus.Registerer it already uses (including a fresh one
// per test) via Register or MustRegister.
type Counters struct {
	elementsTotal   *prometheus.CounterVec
	unknownTotal    prometheus.Counter
	runesFed        prometheus.Counter
	transientEvents prometheus.Counter
	classifyLatency prometheus.Histogram
}

// New creates an unregistered set of counters.
func New() *Counters {
	return &Counters{
		elementsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "elements",
			Name:      "classified_total",
			Help:      "Count of stream elements appended, by kind",
		}, []string{"kind"}),
		unknownTotal: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "elements",
			Name:      "unknown_total",
			Help:      "Count of control sequences that matched no catalog rule",
		}),
		runesFed: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "input",
			Name:      "runes_fed_total",
			Help:      "Count of input runes fed to the splitter",
		}),
		transientEvents: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "input",
			Name:      "transient_text_updates_total",
			Help:      "Count of transient (in-progress) text notifications fired",
		}),
		classifyLatency: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "classifier",
			Name:      "classify_seconds",
			Help:      "Time spent classifying one completed control sequence",
			Buckets:   prometheus.ExponentialBuckets(0.0000025, 2, 12),
		}),
	}
}

// Describe implements prometheus.Collector.
func (c *Counters) Describe(ch chan<- *prometheus.Desc) {
	c.elementsTotal.Describe(ch)
	c.unknownTotal.Describe(ch)
	c.runesFed.Describe(ch)
	c.transientEvents.Describe(ch)
	c.classifyLatency.Describe(ch)
}

// Collect implements prometheus.Collector.
func (c *Counters) Collect(ch chan<- prometheus.Metric) {
	c.elementsTotal.Collect(ch)
	c.unknownTotal.Collect(ch)
	c.runesFed.Collect(ch)
	c.transientEvents.Collect(ch)
	c.classifyLatency.Collect(ch)
}

// ObserveElement records one appended stream element.
func (c *Counters) ObserveElement(e streamparse.StreamElement) {
	kind := string(e.Kind)
	if e.IsText {
		kind = "TEXT"
	}
	c.elementsTotal.WithLabelValues(kind).Inc()
	if !e.IsText && e.Kind == streamparse.Unknown {
		c.unknownTotal.Inc()
	}
}

// ObserveRune records one rune fed into a splitter.
func (c *Counters) ObserveRune() { c.runesFed.Inc() }

// ObserveTransient records one transient-text notification.
func (c *Counters) ObserveTransient() { c.transientEvents.Inc() }

// ObserveClassifyDuration records the time spent classifying one completed
// control sequence.
func (c *Counters) ObserveClassifyDuration(seconds float64) {
	c.classifyLatency.Observe(seconds)
}
