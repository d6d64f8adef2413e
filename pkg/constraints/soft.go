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

package constraints

import (
	"fmt"

	"github.com/northbeam/rosterengine/pkg/balance"
	"github.com/northbeam/rosterengine/pkg/calendar"
	"github.com/northbeam/rosterengine/pkg/roster"
	"github.com/northbeam/rosterengine/pkg/worker"
)

func absInt(n int) int {
	if n < 0 {
		return -n
	}
	return n
}

// S1MinGap reports whether d keeps at least w's minimum gap from every
// other assignment w already holds. In Relaxed mode the gap narrows
// by one day once w's deficit reaches 3.
func S1MinGap(w *worker.Worker, d calendar.Day, s *roster.Schedule, mode roster.Mode) Result {
	minGap := w.GapBetweenShifts
	if mode == roster.Relaxed && worker.Deficit(w.TargetShifts, s.CountFor(w.ID)) >= 3 {
		minGap--
	}
	for _, assigned := range s.AssignmentsFor(w.ID) {
		if gap := absInt(d.Sub(assigned)); gap < minGap {
			return Fail(fmt.Sprintf("gap %d from %s under required %d", gap, assigned, minGap))
		}
	}
	return Pass
}

// S2Pattern reports whether d would create a same-weekday 7- or
// 14-day pattern with a prior assignment. In Relaxed mode this is
// permitted once w's deficit exceeds 10% of target.
func S2Pattern(w *worker.Worker, d calendar.Day, s *roster.Schedule, mode roster.Mode) Result {
	if mode == roster.Relaxed && worker.DeficitRatio(w.TargetShifts, s.CountFor(w.ID)) > 0.10 {
		return Pass
	}
	for _, assigned := range s.AssignmentsFor(w.ID) {
		diff := absInt(d.Sub(assigned))
		if (diff == 7 || diff == 14) && assigned.Weekday() == d.Weekday() {
			return Fail(fmt.Sprintf("%d-day same-weekday pattern with %s", diff, assigned))
		}
	}
	return Pass
}

// S3MonthlyBalance reports whether accepting d keeps w's count for
// d's month within the balance envelope around its expected share.
func S3MonthlyBalance(w *worker.Worker, d calendar.Day, s *roster.Schedule, mode roster.Mode, rs RangeStats) Result {
	y, m := calendar.MonthOf(d)
	count := 1
	for _, assigned := range s.AssignmentsFor(w.ID) {
		ay, am := calendar.MonthOf(assigned)
		if ay == y && am == m {
			count++
		}
	}
	expected := balance.ExpectedMonthly(w.TargetShifts, rs.MonthsInRange)
	if balance.WithinEnvelope(count, expected, mode) {
		return Pass
	}
	return Fail(fmt.Sprintf("month count %d outside envelope around expected %.1f", count, expected))
}

// S4WeekendBalance reports whether accepting a special-day d keeps
// w's special-day count within the balance envelope around its
// expected share. Non-special dates never affect the special-day
// count and always pass.
func S4WeekendBalance(w *worker.Worker, d calendar.Day, s *roster.Schedule, mode roster.Mode, rs RangeStats, holidays calendar.Holidays) Result {
	if !holidays.IsSpecial(d) {
		return Pass
	}
	count := 1
	for _, assigned := range s.AssignmentsFor(w.ID) {
		if holidays.IsSpecial(assigned) {
			count++
		}
	}
	expected := balance.ExpectedWeekendShare(w.TargetShifts, rs.SpecialDays, rs.TotalDays)
	if balance.WithinEnvelope(count, expected, mode) {
		return Pass
	}
	return Fail(fmt.Sprintf("special-day count %d outside envelope around expected %.1f", count, expected))
}

// S5LastPost reports whether, when p is the last post, accepting it
// keeps w's last-post count within the balance envelope. Any other
// post always passes.
func S5LastPost(w *worker.Worker, d calendar.Day, p int, s *roster.Schedule, mode roster.Mode) Result {
	lastPost := s.NumPosts() - 1
	if p != lastPost {
		return Pass
	}
	count := 1
	for _, assigned := range s.AssignmentsFor(w.ID) {
		if ap, ok := s.PostOn(w.ID, assigned); ok && ap == lastPost {
			count++
		}
	}
	expected := balance.ExpectedLastPostShare(w.TargetShifts, s.NumPosts())
	if balance.WithinEnvelope(count, expected, mode) {
		return Pass
	}
	return Fail(fmt.Sprintf("last-post count %d outside envelope around expected %.1f", count, expected))
}

// weekendBucket groups a day into a fixed 7-day window so consecutive
// special weekends can be detected as adjacent buckets regardless of
// which day of the Fri/Sat/Sun span an assignment falls on.
func weekendBucket(d calendar.Day) int64 {
	return d.Time().Unix() / 86400 / 7
}

// S6ConsecutiveWeekends reports whether accepting special-day d would
// extend w's run of consecutive special-weekend buckets past
// w.MaxConsecutiveWeekends. A zero limit means unconstrained, and
// non-special dates never start or extend a streak.
//
// [NEW — supplemented]: spec.md names max_consecutive_weekends in the
// Worker record but specifies no consumer for it; this predicate is
// that consumer (SPEC_FULL.md §3).
func S6ConsecutiveWeekends(w *worker.Worker, d calendar.Day, s *roster.Schedule, holidays calendar.Holidays) Result {
	if w.MaxConsecutiveWeekends <= 0 || !holidays.IsSpecial(d) {
		return Pass
	}
	occupied := map[int64]struct{}{weekendBucket(d): {}}
	for _, assigned := range s.AssignmentsFor(w.ID) {
		if holidays.IsSpecial(assigned) {
			occupied[weekendBucket(assigned)] = struct{}{}
		}
	}
	bucket := weekendBucket(d)
	streak := 1
	for b := bucket - 1; ; b-- {
		if _, ok := occupied[b]; !ok {
			break
		}
		streak++
	}
	for b := bucket + 1; ; b++ {
		if _, ok := occupied[b]; !ok {
			break
		}
		streak++
	}
	if streak > w.MaxConsecutiveWeekends {
		return Fail(fmt.Sprintf("would extend consecutive-weekend streak to %d, over limit %d", streak, w.MaxConsecutiveWeekends))
	}
	return Pass
}
