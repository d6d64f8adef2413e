/*
Licensed under the Apache License, Version 2.0 (the "License");
you may not use this file except in compliance with the License.
You may obtain a copy of the License at

    http://www.apache.org/licenses/LICENSE-2.0

Unless required by applicable law or agreed to in writing, software
distributed under the License is distributed on an "AS IS" BASIS,
WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
See the License for the specific language governing permissions and
limitations under the License.
*/

// Package metrics is the run's Prometheus collector set: iteration
// count, per-kind violation gauges, coverage, and attempt scores
// (§4.8's termination metadata, made scrape-able). The teacher wires
// its own collectors directly against prometheus.HistogramOpts/
// GaugeOpts rather than a generic metrics-façade package, so this
// package does the same with a private registry instead of the
// teacher's controller-runtime global registry, which has no meaning
// for a one-shot batch run.
package metrics

import "github.com/prometheus/client_golang/prometheus"

const namespace = "rosterengine"

// Collectors bundles every metric the orchestrator and optimizer
// publish during a single run.
type Collectors struct {
	Registry *prometheus.Registry

	IterationsRun    prometheus.Gauge
	ViolationsByKind *prometheus.GaugeVec
	CoveragePercent  prometheus.Gauge
	AttemptScore     prometheus.Histogram
	StagnationFinal  prometheus.Gauge
}

// New constructs and registers every collector against a fresh
// registry, so concurrent runs (e.g. tests) never collide on the
// default global registry.
func New() *Collectors {
	reg := prometheus.NewRegistry()
	c := &Collectors{
		Registry: reg,
		IterationsRun: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "iterations_run",
			Help:      "Number of relaxed-mode optimizer iterations run in the most recent pass.",
		}),
		ViolationsByKind: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "violations",
			Help:      "Outstanding violation count by kind at the end of the most recent optimizer pass.",
		}, []string{"kind"}),
		CoveragePercent: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "coverage_percent",
			Help:      "Percentage of slots filled at the end of the run.",
		}),
		AttemptScore: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "phase25_attempt_score",
			Help:      "Overall score of each Phase 2.5 initial-distribution attempt.",
			Buckets:   prometheus.DefBuckets,
		}),
		StagnationFinal: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "stagnation_final",
			Help:      "Stagnation counter value when the optimizer stopped.",
		}),
	}
	reg.MustRegister(c.IterationsRun, c.ViolationsByKind, c.CoveragePercent, c.AttemptScore, c.StagnationFinal)
	return c
}

// ObserveViolations publishes a optimizer.Counts-shaped breakdown.
// Takes plain fields instead of importing pkg/optimizer, keeping this
// package a leaf with no dependency on the engine it instruments.
func (c *Collectors) ObserveViolations(target, gap, pattern, monthly, weekend int) {
	c.ViolationsByKind.WithLabelValues("target").Set(float64(target))
	c.ViolationsByKind.WithLabelValues("gap").Set(float64(gap))
	c.ViolationsByKind.WithLabelValues("pattern").Set(float64(pattern))
	c.ViolationsByKind.WithLabelValues("monthly").Set(float64(monthly))
	c.ViolationsByKind.WithLabelValues("weekend").Set(float64(weekend))
}
