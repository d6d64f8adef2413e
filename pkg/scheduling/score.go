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

package scheduling

import (
	"math"
	"time"

	"github.com/northbeam/rosterengine/pkg/balance"
	"github.com/northbeam/rosterengine/pkg/calendar"
	"github.com/northbeam/rosterengine/pkg/worker"
)

// score implements spec §4.5's score(w, d, p): a pure function of
// current builder state, never mutating anything, so candidate
// evaluation is safe to run in any order (spec §9 "scoring as a pure
// function... enables parallel attempt evaluation").
//
// Every bonus magnitude beyond the spec's explicit deficit (+10000/
// +14000/+18000+3000·deficit/+25000+5000·deficit) and gap
// (500+200·extra^1.5) examples is this implementation's own constant,
// chosen small relative to those two dominant terms so deficit and
// gap remain the primary drivers and the balance/pattern terms only
// break ties among otherwise-similar candidates.
// Score exposes score(w, d, p) to other packages (pkg/advanced's
// backtracking candidate ordering needs the same ranking the builder's
// own SelectWorker uses).
func (b *Builder) Score(w *worker.Worker, d calendar.Day, p int) float64 {
	return b.score(w, d, p)
}

func (b *Builder) score(w *worker.Worker, d calendar.Day, p int) float64 {
	count := b.schedule.CountFor(w.ID)
	total := deficitBonus(worker.Deficit(w.TargetShifts, count))
	total += gapBonus(w, d, b.schedule.AssignmentsFor(w.ID))

	if b.checker.Holidays.IsSpecial(d) {
		expected := balance.ExpectedWeekendShare(w.TargetShifts, b.checker.Range.SpecialDays, b.checker.Range.TotalDays)
		if float64(specialDayCount(b, w.ID)) < expected {
			total += 2000
		}
	}

	y, m := calendar.MonthOf(d)
	monthlyExpected := balance.ExpectedMonthly(w.TargetShifts, b.checker.Range.MonthsInRange)
	if float64(monthCount(b, w.ID, y, m)) < monthlyExpected {
		total += 2000
	}

	lastPost := b.schedule.NumPosts() - 1
	if p == lastPost {
		lastExpected := balance.ExpectedLastPostShare(w.TargetShifts, b.schedule.NumPosts())
		if float64(lastPostCount(b, w.ID, lastPost)) < lastExpected {
			total += 1500
		}
	}

	if count > w.TargetShifts && count+1 <= worker.TargetCap(w.TargetShifts) {
		total -= 3000
	}

	if b.hasSuccessfulPattern(d.Weekday(), p) {
		total += 500
	}

	return total
}

func deficitBonus(deficit int) float64 {
	switch {
	case deficit >= 5:
		return 25000 + 5000*float64(deficit)
	case deficit == 4, deficit == 3:
		return 18000 + 3000*float64(deficit)
	case deficit == 2:
		return 14000
	case deficit == 1:
		return 10000
	default:
		return 0
	}
}

// gapBonus rewards candidates whose nearest existing assignment sits
// comfortably clear of their required gap, growing super-linearly
// with the slack (spec: "500 + 200*max(0, δ-gap)^1.5"). A worker with
// no assignments yet has no gap to measure against and gets the flat
// base bonus.
func gapBonus(w *worker.Worker, d calendar.Day, assigned []calendar.Day) float64 {
	if len(assigned) == 0 {
		return 500
	}
	minDist := -1
	for _, a := range assigned {
		dist := absInt(d.Sub(a))
		if minDist < 0 || dist < minDist {
			minDist = dist
		}
	}
	extra := float64(minDist - w.GapBetweenShifts)
	if extra < 0 {
		extra = 0
	}
	return 500 + 200*math.Pow(extra, 1.5)
}

func absInt(n int) int {
	if n < 0 {
		return -n
	}
	return n
}

func specialDayCount(b *Builder, id worker.ID) int {
	n := 0
	for _, d := range b.schedule.AssignmentsFor(id) {
		if b.checker.Holidays.IsSpecial(d) {
			n++
		}
	}
	return n
}

func monthCount(b *Builder, id worker.ID, year int, month time.Month) int {
	n := 0
	for _, d := range b.schedule.AssignmentsFor(id) {
		y, m := calendar.MonthOf(d)
		if y == year && m == month {
			n++
		}
	}
	return n
}

func lastPostCount(b *Builder, id worker.ID, lastPost int) int {
	n := 0
	for _, d := range b.schedule.AssignmentsFor(id) {
		if p, ok := b.schedule.PostOn(id, d); ok && p == lastPost {
			n++
		}
	}
	return n
}
