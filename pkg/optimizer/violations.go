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

// Package optimizer is the relaxed-mode, violation-driven iterative
// loop (spec §4.6): count violations by kind, propose redistributions
// and bounded random perturbations scaled by a stagnation-derived
// intensity, accept only when the violation count drops, and stop on
// any of four independent criteria.
package optimizer

import (
	"github.com/northbeam/rosterengine/pkg/balance"
	"github.com/northbeam/rosterengine/pkg/calendar"
	"github.com/northbeam/rosterengine/pkg/roster"
	"github.com/northbeam/rosterengine/pkg/scheduling"
	"github.com/northbeam/rosterengine/pkg/worker"
)

// Counts tallies outstanding violations by kind, the input to the
// optimizer's stopping criteria and intensity calculation.
type Counts struct {
	Target  int
	Gap     int
	Pattern int
	Monthly int
	Weekend int
}

// Total sums every kind, the scalar the loop actually optimizes.
func (c Counts) Total() int {
	return c.Target + c.Gap + c.Pattern + c.Monthly + c.Weekend
}

// Count inspects the builder's current schedule against every
// violation kind named in spec §4.6 ("violations by kind: target,
// gap, pattern, monthly, weekend"). Target/Gap/Pattern reuse the same
// roster.Check* invariant scans the builder's atomic() rollback uses
// for I1-I7; Monthly/Weekend are soft-predicate envelope checks with
// no roster.Violation equivalent, counted one per offending worker.
func Count(b *scheduling.Builder) Counts {
	s := b.Schedule()
	byID := workersByID(b)
	mode := b.Mode()

	c := Counts{
		Target:  len(roster.CheckTargetCap(s, byID)),
		Gap:     len(roster.CheckGap(s, byID, mode)),
		Pattern: len(roster.CheckPattern(s, byID, mode)),
	}
	for _, w := range b.Workers() {
		if !monthlyWithinEnvelope(b, w) {
			c.Monthly++
		}
		if !weekendWithinEnvelope(b, w) {
			c.Weekend++
		}
	}
	return c
}

func workersByID(b *scheduling.Builder) map[worker.ID]*worker.Worker {
	out := make(map[worker.ID]*worker.Worker, len(b.Workers()))
	for _, w := range b.Workers() {
		out[w.ID] = w
	}
	return out
}

func monthlyWithinEnvelope(b *scheduling.Builder, w *worker.Worker) bool {
	rng := b.Checker().Range
	expected := balance.ExpectedMonthly(w.TargetShifts, rng.MonthsInRange)
	counts := map[[2]int]int{}
	for _, d := range b.Schedule().AssignmentsFor(w.ID) {
		y, m := calendar.MonthOf(d)
		counts[[2]int{y, int(m)}]++
	}
	for _, n := range counts {
		if !balance.WithinEnvelope(n, expected, b.Mode()) {
			return false
		}
	}
	return true
}

func weekendWithinEnvelope(b *scheduling.Builder, w *worker.Worker) bool {
	rng := b.Checker().Range
	holidays := b.Checker().Holidays
	expected := balance.ExpectedWeekendShare(w.TargetShifts, rng.SpecialDays, rng.TotalDays)
	count := 0
	for _, d := range b.Schedule().AssignmentsFor(w.ID) {
		if holidays.IsSpecial(d) {
			count++
		}
	}
	return balance.WithinEnvelope(count, expected, b.Mode())
}
