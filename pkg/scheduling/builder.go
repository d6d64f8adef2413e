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

// Package scheduling is the schedule builder (spec §4.5): the sole
// owner and mutator of a Schedule, its Mode and TolerancePhase, and
// the locked-mandatory set during the mandatory phase. Every other
// package observes the builder's output through immutable
// roster.Schedule snapshots.
package scheduling

import (
	"math/rand"
	"time"

	"go.uber.org/zap"

	"github.com/northbeam/rosterengine/pkg/balance"
	"github.com/northbeam/rosterengine/pkg/calendar"
	"github.com/northbeam/rosterengine/pkg/constraints"
	"github.com/northbeam/rosterengine/pkg/roster"
	"github.com/northbeam/rosterengine/pkg/worker"
)

type patternKey struct {
	weekday time.Weekday
	post    int
}

// Builder owns a Schedule end to end (spec §4.5 "Responsibilities").
// Construct with New, drive the mandatory phase once, then alternate
// transforms under Strict or Relaxed mode.
type Builder struct {
	schedule *roster.Schedule
	lock     *roster.MandatoryLock
	workers  []*worker.Worker
	byID     map[worker.ID]*worker.Worker
	checker  *constraints.Checker

	mode               roster.Mode
	phase              roster.TolerancePhase
	relaxedTransformed bool // one-way guard: Relaxed->Strict forbidden once true

	thresholds balance.Thresholds
	log        *zap.Logger
	rng        *rand.Rand

	successfulPatterns map[patternKey]struct{}
}

// New constructs a Builder over an empty schedule for the given
// workers, date range, and posts-per-date.
func New(workers []*worker.Worker, dates []calendar.Day, numPosts int, holidays calendar.Holidays, opts ...Option) *Builder {
	o := resolve(opts...)
	log := o.log
	if log == nil {
		log = zap.NewNop()
	}
	th := o.thresholds
	if th == (balance.Thresholds{}) {
		th = balance.DefaultThresholds()
	}
	seed := o.seed
	if seed == 0 {
		seed = 1
	}
	return &Builder{
		schedule:           roster.New(dates, numPosts),
		lock:               &roster.MandatoryLock{},
		workers:            workers,
		byID:               worker.ByID(workers),
		checker:            constraints.NewChecker(workers, dates, holidays),
		mode:               roster.Strict,
		phase:              roster.Phase1,
		thresholds:         th,
		log:                log,
		rng:                rand.New(rand.NewSource(seed)),
		successfulPatterns: map[patternKey]struct{}{},
	}
}

// Schedule returns the builder's current schedule. Callers external
// to this package must treat it as read-only; there is no copy-on
// read, matching spec §5's "exclusively owned by the builder" model.
func (b *Builder) Schedule() *roster.Schedule { return b.schedule }

// MandatoryLock returns the builder's locked-mandatory set.
func (b *Builder) MandatoryLock() *roster.MandatoryLock { return b.lock }

// Mode returns the builder's current constraint regime.
func (b *Builder) Mode() roster.Mode { return b.mode }

// Phase returns the builder's current tolerance phase.
func (b *Builder) Phase() roster.TolerancePhase { return b.phase }

// SetPhase sets the tolerance phase (orchestrator-driven escalation,
// spec §4.6 "Tolerance-phase escalation"; one-way in practice since
// the orchestrator never calls it with an earlier phase).
func (b *Builder) SetPhase(p roster.TolerancePhase) { b.phase = p }

// Checker exposes the builder's constraint checker, e.g. for the
// optimizer's violation counting.
func (b *Builder) Checker() *constraints.Checker { return b.checker }

// Workers returns the builder's worker roster in construction order.
func (b *Builder) Workers() []*worker.Worker { return b.workers }

// CloneState snapshots the schedule and lock for an independent Phase
// 2.5 attempt (spec §9 "copy-on-write for attempts").
func (b *Builder) CloneState() (*roster.Schedule, *roster.MandatoryLock) {
	return b.schedule.Clone(), b.lock.Clone()
}

// Restore replaces the builder's schedule and lock wholesale, used to
// reset to a Phase-2-end backup before each Phase 2.5 attempt.
func (b *Builder) Restore(s *roster.Schedule, lock *roster.MandatoryLock) {
	b.schedule = s
	b.lock = lock
}

func (b *Builder) verify() []roster.Violation {
	return roster.VerifyAll(b.schedule, b.lock, b.workers, b.checker.Elig, b.mode)
}

// atomic runs fn against the live schedule, rolling back to a clone
// taken before fn ran if fn reports failure or the post-condition
// invariant check (I1-I7) finds a violation (spec §4.5 "wrapped in a
// pre/post invariant check... rolled back atomically").
func (b *Builder) atomic(fn func() bool) bool {
	before := b.schedule.Clone()
	if !fn() {
		b.schedule = before
		return false
	}
	if violations := b.verify(); len(violations) > 0 {
		b.schedule = before
		return false
	}
	return true
}

// Atomic exposes the builder's pre/post invariant-checked rollback
// wrapper to other packages (pkg/advanced's chunk fill, backtracking,
// and swap-chain strategies all need the same rollback discipline
// spec §4.9 requires of them without re-implementing it).
func (b *Builder) Atomic(fn func() bool) bool {
	return b.atomic(fn)
}

func (b *Builder) recordSuccessfulPattern(wd time.Weekday, post int) {
	b.successfulPatterns[patternKey{weekday: wd, post: post}] = struct{}{}
}

func (b *Builder) hasSuccessfulPattern(wd time.Weekday, post int) bool {
	_, ok := b.successfulPatterns[patternKey{weekday: wd, post: post}]
	return ok
}

// noteTransform marks that a transform ran while in Relaxed mode,
// tripping the one-way EnableStrict guard (spec §4.5 "Phase-switch
// guard: Relaxed->Strict is forbidden after the first transform in
// Relaxed mode").
func (b *Builder) noteTransform() {
	if b.mode == roster.Relaxed {
		b.relaxedTransformed = true
	}
}
