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

// Package orchestrator drives a run end to end (spec §4.8): mandatory
// phase, multi-attempt strict initial distribution, relaxed iterative
// optimization with tolerance-phase escalation, the advanced final
// push, and the Phase 4 validation report. It owns the one builder a
// run mutates and is the only package that sequences the others.
package orchestrator

import (
	"context"
	"math"

	"github.com/google/uuid"
	"go.uber.org/multierr"
	"go.uber.org/zap"

	"github.com/northbeam/rosterengine/pkg/advanced"
	"github.com/northbeam/rosterengine/pkg/balance"
	"github.com/northbeam/rosterengine/pkg/calendar"
	"github.com/northbeam/rosterengine/pkg/iteration"
	"github.com/northbeam/rosterengine/pkg/optimizer"
	"github.com/northbeam/rosterengine/pkg/roster"
	"github.com/northbeam/rosterengine/pkg/scheduling"
	"github.com/northbeam/rosterengine/pkg/tolerance"
	"github.com/northbeam/rosterengine/pkg/worker"
)

// attemptResult is one Phase 2.5 candidate's outcome: the schedule and
// lock it produced plus the metrics used to rank it.
type attemptResult struct {
	schedule *roster.Schedule
	lock     *roster.MandatoryLock
	summary  AttemptSummary
}

// Run is a completed orchestration: the run ID, the final builder, the
// Phase 4 report, and the Phase 2.5 attempt ledger (spec §6
// "Termination metadata").
type Run struct {
	ID       string
	Builder  *scheduling.Builder
	Report   tolerance.Report
	Attempts []AttemptSummary
	Errors   error
}

// Orchestrator runs spec §4.8's full phase sequence once.
type Orchestrator struct {
	workers  []*worker.Worker
	dates    []calendar.Day
	numPosts int
	holidays calendar.Holidays
	cfg      Config
}

// New constructs an Orchestrator over a fixed problem instance.
func New(workers []*worker.Worker, dates []calendar.Day, numPosts int, holidays calendar.Holidays, cfg Config) *Orchestrator {
	return &Orchestrator{workers: workers, dates: dates, numPosts: numPosts, holidays: holidays, cfg: cfg.resolve()}
}

// RunOnce executes Phase 1 through Phase 4 and returns the assembled
// Run. Errors collected from the mandatory phase (spec §4.5's
// ConfigurationError set) are aggregated via multierr and returned
// without aborting the rest of the pipeline: a mandatory clash on one
// worker's date shouldn't stop every other worker from being
// scheduled, but the caller (cmd/rosterctl) must surface them as
// configuration failures (exit code 3).
func (o *Orchestrator) RunOnce(ctx context.Context) Run {
	runID := uuid.NewString()
	log := o.cfg.Log.With(zap.String("run_id", runID))
	log.Info("run starting", zap.Int("workers", len(o.workers)), zap.Int("days", len(o.dates)), zap.Int("posts", o.numPosts))

	b := scheduling.New(o.workers, o.dates, o.numPosts, o.holidays,
		scheduling.WithSeed(o.cfg.Seed),
		scheduling.WithThresholds(o.cfg.Thresholds),
		scheduling.WithLogger(log),
	)

	// Phase 2: mandatory guards.
	var runErr error
	for _, err := range b.AssignMandatoryGuards() {
		runErr = multierr.Append(runErr, err)
	}
	if runErr != nil {
		log.Warn("mandatory phase produced configuration errors", zap.Error(runErr))
	}

	// Phase 2.5: multi-attempt strict initial distribution.
	backupSchedule, backupLock := b.CloneState()
	complexity := iteration.Complexity(len(o.workers), o.numPosts, len(o.dates), o.restrictionFactors())
	hints := iteration.Derive(complexity)
	attempts := o.cfg.InitialAttempts
	if attempts <= 0 {
		attempts = hints.InitialAttempts
	}

	summaries, winner := o.runAttempts(b, backupSchedule, backupLock, attempts)
	b.Restore(winner.schedule, winner.lock)
	log.Info("phase 2.5 complete", zap.Int("attempts", len(summaries)), zap.Int("empty_shifts", winner.summary.EmptyShifts))

	// Phase 3: relaxed iterative optimization, with one tolerance-phase
	// escalation to Phase2/±12% if coverage is still short.
	b.EnableRelaxed()
	maxIter := o.cfg.MaxIterations
	if maxIter <= 0 {
		maxIter = hints.MaxIterations
	}
	optCfg := optimizer.Config{
		MaxIterations: maxIter,
		CapPercent:    o.cfg.TolerancePhase1,
		Budget:        o.cfg.Budget,
		Clock:         o.cfg.Clock,
		Log:           log,
		Seed:          o.cfg.Seed,
	}
	optResult := optimizer.New(b, optCfg).Run(ctx)
	log.Info("phase 3 pass 1", zap.Int("iterations", optResult.IterationsRun), zap.String("stopped", optResult.StoppedReason))
	o.observe(optResult)

	if coveragePercent(b) < o.cfg.CoverageTarget && optResult.FinalViolations.Total() > 0 {
		b.SetPhase(roster.Phase2)
		optCfg.CapPercent = o.cfg.TolerancePhase2
		optResult = optimizer.New(b, optCfg).Run(ctx)
		log.Info("phase 3 escalated pass", zap.Int("iterations", optResult.IterationsRun), zap.String("stopped", optResult.StoppedReason))
		o.observe(optResult)
	}

	// Phase 3.5: advanced final push, only if slots remain empty.
	if len(b.Schedule().EmptySlots()) > 0 {
		advResult := advanced.New(b, advanced.DefaultConfig()).Run()
		log.Info("phase 3.5 complete",
			zap.Int("chunk_filled", advResult.ChunkFilled),
			zap.Int("backtrack_filled", advResult.BacktrackFilled),
			zap.Int("swap_chain_filled", advResult.SwapChainFilled),
			zap.Int("relaxation_filled", advResult.RelaxationFilled),
			zap.Int("remaining_empty", advResult.RemainingEmpty),
		)
	}

	// Phase 4: validation & report.
	report := tolerance.Build(b, o.numPosts, o.cfg.Thresholds)
	log.Info("run complete", zap.Float64("coverage_percent", report.CoveragePercent), zap.Int("violations", report.Violations.Total()))
	if o.cfg.Metrics != nil {
		o.cfg.Metrics.CoveragePercent.Set(report.CoveragePercent)
		for _, a := range summaries {
			o.cfg.Metrics.AttemptScore.Observe(a.OverallScore)
		}
	}

	return Run{ID: runID, Builder: b, Report: report, Attempts: summaries, Errors: runErr}
}

// observe publishes one optimizer pass's outcome to the configured
// metrics collectors, a no-op when Metrics is unset.
func (o *Orchestrator) observe(r optimizer.Result) {
	if o.cfg.Metrics == nil {
		return
	}
	o.cfg.Metrics.IterationsRun.Set(float64(r.IterationsRun))
	o.cfg.Metrics.StagnationFinal.Set(float64(r.Stagnation))
	o.cfg.Metrics.ObserveViolations(r.FinalViolations.Target, r.FinalViolations.Gap, r.FinalViolations.Pattern, r.FinalViolations.Monthly, r.FinalViolations.Weekend)
}

// restrictionFactors reports which constraint classes are active
// across the worker set, feeding spec §4.7's complexity formula.
func (o *Orchestrator) restrictionFactors() iteration.RestrictionFactors {
	var f iteration.RestrictionFactors
	for _, w := range o.workers {
		if len(w.IncompatibleWith) > 0 {
			f.Incompatibility = true
		}
		if w.GapBetweenShifts > 0 {
			f.ConsecutiveGap = true
		}
		if w.MaxConsecutiveWeekends > 0 {
			f.ConsecutiveWeekends = true
		}
	}
	f.PatternAvoidance = true
	f.MonthlyBalance = true
	f.WeekendBalance = true
	f.LastPostBalance = true
	return f
}

// runAttempts drives Phase 2.5's N independent attempts in parallel,
// each restoring its own copy of the post-mandatory backup state, and
// returns every attempt's summary plus the winner selected by spec
// §4.8's lexicographic ordering: overall_score desc, then empty_shifts
// asc, then work_imbalance asc, then weekend_imbalance asc.
func (o *Orchestrator) runAttempts(b *scheduling.Builder, backupSchedule *roster.Schedule, backupLock *roster.MandatoryLock, n int) ([]AttemptSummary, attemptResult) {
	results := parallelizeAttempts(o.cfg.ParallelWorkers, n, func(i int) attemptResult {
		attemptIndex := i + 1
		attemptBuilder := scheduling.New(o.workers, o.dates, o.numPosts, o.holidays,
			scheduling.WithSeed(o.cfg.Seed+int64(attemptIndex)),
			scheduling.WithThresholds(o.cfg.Thresholds),
			scheduling.WithLogger(o.cfg.Log),
		)
		attemptBuilder.Restore(backupSchedule.Clone(), backupLock.Clone())

		order := workerOrder(attemptIndex, o.workers, attemptBuilder.Schedule())
		attemptBuilder.FillEmptyShifts(order)

		s := attemptBuilder.Schedule()
		empty := len(s.EmptySlots())
		workImb := workImbalance(o.workers, s)
		weekendImb := weekendImbalance(o.workers, s, attemptBuilder)
		score := overallScore(len(o.dates)*o.numPosts, empty, workImb, weekendImb)

		return attemptResult{
			schedule: s,
			lock:     attemptBuilder.MandatoryLock(),
			summary: AttemptSummary{
				Index:            attemptIndex,
				Strategy:         strategyName(strategyFor(attemptIndex)),
				OverallScore:     score,
				EmptyShifts:      empty,
				WorkImbalance:    workImb,
				WeekendImbalance: weekendImb,
			},
		}
	})

	summaries := make([]AttemptSummary, len(results))
	winnerIdx := 0
	for i, r := range results {
		summaries[i] = r.summary
		if betterAttempt(r.summary, results[winnerIdx].summary) {
			winnerIdx = i
		}
	}
	summaries[winnerIdx].Won = true
	return summaries, results[winnerIdx]
}

// betterAttempt implements spec §4.8's lexicographic attempt ranking.
func betterAttempt(a, best AttemptSummary) bool {
	if a.OverallScore != best.OverallScore {
		return a.OverallScore > best.OverallScore
	}
	if a.EmptyShifts != best.EmptyShifts {
		return a.EmptyShifts < best.EmptyShifts
	}
	if a.WorkImbalance != best.WorkImbalance {
		return a.WorkImbalance < best.WorkImbalance
	}
	return a.WeekendImbalance < best.WeekendImbalance
}

func overallScore(totalSlots, empty int, workImb, weekendImb float64) float64 {
	filled := totalSlots - empty
	return float64(filled) - 50*workImb - 25*weekendImb
}

func workImbalance(workers []*worker.Worker, s *roster.Schedule) float64 {
	var maxDev float64
	for _, w := range workers {
		dev := math.Abs(float64(worker.Deficit(w.TargetShifts, s.CountFor(w.ID))))
		if dev > maxDev {
			maxDev = dev
		}
	}
	return maxDev
}

// weekendImbalance is the largest gap between a worker's actual
// special-day count and their expected share (spec §4.3 S5), the
// highest deviation across the roster standing in for Phase 2.5's
// weekend_imbalance ranking term.
func weekendImbalance(workers []*worker.Worker, s *roster.Schedule, b *scheduling.Builder) float64 {
	holidays := b.Checker().Holidays
	rs := b.Checker().Range
	var maxDev float64
	for _, w := range workers {
		count := 0
		for _, d := range s.AssignmentsFor(w.ID) {
			if holidays.IsSpecial(d) {
				count++
			}
		}
		expected := balance.ExpectedWeekendShare(w.TargetShifts, rs.SpecialDays, rs.TotalDays)
		dev := math.Abs(float64(count) - expected)
		if dev > maxDev {
			maxDev = dev
		}
	}
	return maxDev
}

func coveragePercent(b *scheduling.Builder) float64 {
	filled, total := b.Schedule().Coverage()
	if total == 0 {
		return 100
	}
	return 100 * float64(filled) / float64(total)
}

func strategyName(s orderingStrategy) string {
	switch s {
	case strategyByIDAsc:
		return "by_id_asc"
	case strategyByIDDesc:
		return "by_id_desc"
	case strategyWorkloadPriority:
		return "workload_priority"
	case strategyAlternating:
		return "alternating"
	case strategySeeded42, strategySeeded100, strategySeeded200, strategySeeded300, strategySeeded400:
		return "seeded_shuffle"
	default:
		return "balanced"
	}
}
