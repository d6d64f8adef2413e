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

package optimizer

import (
	"context"
	"math/rand"
	"time"

	"go.uber.org/zap"
	"k8s.io/utils/clock"

	"github.com/northbeam/rosterengine/pkg/calendar"
	"github.com/northbeam/rosterengine/pkg/scheduling"
	"github.com/northbeam/rosterengine/pkg/worker"
)

// Config tunes a single optimizer run.
type Config struct {
	// MaxIterations bounds the loop regardless of convergence; the
	// orchestrator passes its own Config.MaxIterations, 30 unless set.
	MaxIterations int
	// CapPercent is the active tolerance-phase ceiling fed to every
	// transfer-validity check (spec §4.4's capPercent parameter).
	CapPercent float64
	// Budget is an optional wall-clock ceiling; zero means unbounded.
	Budget time.Duration
	Clock  clock.Clock
	Log    *zap.Logger
	Seed   int64
}

// Result reports how a run ended.
type Result struct {
	IterationsRun   int
	Converged       bool
	StoppedReason   string
	FinalViolations Counts
	Stagnation      int
}

// Optimizer runs the relaxed-mode iterative loop over a builder
// already past the mandatory and strict-distribution phases (spec
// §4.6). The builder must already be in roster.Relaxed mode; the
// optimizer never flips modes itself.
type Optimizer struct {
	b   *scheduling.Builder
	cfg Config
	rng *rand.Rand
}

// New builds an Optimizer, filling unset Config fields with the same
// defaults the teacher's Scheduler.Solve loop and zap.NewNop assume.
func New(b *scheduling.Builder, cfg Config) *Optimizer {
	if cfg.Clock == nil {
		cfg.Clock = clock.RealClock{}
	}
	if cfg.Log == nil {
		cfg.Log = zap.NewNop()
	}
	if cfg.MaxIterations <= 0 {
		cfg.MaxIterations = 30
	}
	seed := cfg.Seed
	if seed == 0 {
		seed = 7
	}
	return &Optimizer{b: b, cfg: cfg, rng: rand.New(rand.NewSource(seed))}
}

// Run drives the loop to one of spec §4.6's four stopping criteria:
// zero violations; <=5 violations with stagnation>=5; average
// improvement over the trailing 10 iterations below 0.3/iter; or
// violation count non-decreasing for 3 consecutive iterations. ctx
// cancellation and cfg.Budget are additional, implementation-level
// escape hatches layered on top of those four.
func (o *Optimizer) Run(ctx context.Context) Result {
	start := o.cfg.Clock.Now()
	stagnation := 0
	var improvements []float64
	var totalsHistory []int

	result := Result{FinalViolations: Count(o.b)}

	for iter := 0; iter < o.cfg.MaxIterations; iter++ {
		select {
		case <-ctx.Done():
			result.StoppedReason = "context cancelled"
			return result
		default:
		}
		if o.cfg.Budget > 0 && o.cfg.Clock.Since(start) > o.cfg.Budget {
			result.StoppedReason = "wall-clock budget exceeded"
			return result
		}

		before := Count(o.b)
		if before.Total() == 0 {
			result.Converged = true
			result.StoppedReason = "zero violations"
			result.IterationsRun = iter
			result.FinalViolations = before
			return result
		}

		intensity := intensityFromStagnation(stagnation)
		snapshotSchedule, snapshotLock := o.b.CloneState()

		o.proposeRedistributions(before.Total())
		o.applyPerturbations(intensity)

		after := Count(o.b)
		o.cfg.Log.Debug("optimizer iteration",
			zap.Int("iteration", iter),
			zap.Int("before", before.Total()),
			zap.Int("after", after.Total()),
			zap.Float64("intensity", intensity),
		)

		if after.Total() < before.Total() {
			stagnation = 0
		} else {
			o.b.Restore(snapshotSchedule, snapshotLock)
			after = before
			stagnation++
		}

		improvements = appendBoundedFloat(improvements, float64(before.Total()-after.Total()), 10)
		totalsHistory = appendBoundedInt(totalsHistory, after.Total(), 3)

		result.IterationsRun = iter + 1
		result.Stagnation = stagnation
		result.FinalViolations = after

		if after.Total() == 0 {
			result.Converged = true
			result.StoppedReason = "zero violations"
			return result
		}
		if after.Total() <= 5 && stagnation >= 5 {
			result.StoppedReason = "near-converged and stagnant"
			return result
		}
		if len(improvements) == 10 && average(improvements) < 0.3 {
			result.StoppedReason = "average improvement below threshold"
			return result
		}
		if nonDecreasing(totalsHistory) {
			result.StoppedReason = "violations non-decreasing"
			return result
		}
	}
	result.StoppedReason = "max iterations reached"
	return result
}

func intensityFromStagnation(stagnation int) float64 {
	intensity := 1.0 - 0.1*float64(stagnation)
	if intensity < 0.3 {
		return 0.3
	}
	if intensity > 1.0 {
		return 1.0
	}
	return intensity
}

// proposeRedistributions applies the builder's targeted rebalancing
// transforms up to min(100, violations*5) total moves (spec §4.6
// "propose redistributions... bounded by min(100, violations*5)").
func (o *Optimizer) proposeRedistributions(violations int) {
	limit := violations * 5
	if limit > 100 {
		limit = 100
	}
	applied := 0
	for applied < limit {
		moved := o.b.BalanceWorkloads(o.cfg.CapPercent)
		moved += o.b.RebalanceWeekendShifts(o.cfg.CapPercent)
		moved += o.b.AdjustLastPostDistribution()
		if moved == 0 {
			return
		}
		applied += moved
	}
}

// applyPerturbations performs a bounded number of random 2-swaps,
// scaled by intensity, to escape local minima the targeted transforms
// cannot reach on their own (spec §4.6 "bounded random perturbations
// (2-swaps) proportional to intensity").
func (o *Optimizer) applyPerturbations(intensity float64) {
	n := int(intensity * 5)
	if n < 1 {
		n = 1
	}
	assignments := o.allAssignments()
	if len(assignments) < 2 {
		return
	}
	for i := 0; i < n; i++ {
		a := assignments[o.rng.Intn(len(assignments))]
		b := assignments[o.rng.Intn(len(assignments))]
		if a.worker == b.worker && a.date.Equal(b.date) {
			continue
		}
		o.b.SwapAssignments(a.worker, a.date, b.worker, b.date)
	}
}

type assignment struct {
	worker worker.ID
	date   calendar.Day
}

func (o *Optimizer) allAssignments() []assignment {
	var out []assignment
	for _, w := range o.b.Workers() {
		for _, d := range o.b.Schedule().AssignmentsFor(w.ID) {
			out = append(out, assignment{worker: w.ID, date: d})
		}
	}
	return out
}

func appendBoundedFloat(xs []float64, x float64, max int) []float64 {
	xs = append(xs, x)
	if len(xs) > max {
		xs = xs[len(xs)-max:]
	}
	return xs
}

func appendBoundedInt(xs []int, x int, max int) []int {
	xs = append(xs, x)
	if len(xs) > max {
		xs = xs[len(xs)-max:]
	}
	return xs
}

func average(xs []float64) float64 {
	if len(xs) == 0 {
		return 0
	}
	sum := 0.0
	for _, x := range xs {
		sum += x
	}
	return sum / float64(len(xs))
}

func nonDecreasing(xs []int) bool {
	if len(xs) < 3 {
		return false
	}
	for i := 1; i < len(xs); i++ {
		if xs[i] < xs[i-1] {
			return false
		}
	}
	return true
}
