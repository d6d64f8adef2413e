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

package roster

import (
	"fmt"

	"github.com/northbeam/rosterengine/pkg/calendar"
	"github.com/northbeam/rosterengine/pkg/worker"
)

// Violation describes a single broken invariant, tagged by its spec
// identifier (I1..I8) for reporting.
type Violation struct {
	Invariant string
	Worker    worker.ID
	Date      calendar.Day
	Detail    string
}

func (v Violation) Error() string {
	return fmt.Sprintf("%s: worker=%s date=%s: %s", v.Invariant, v.Worker, v.Date, v.Detail)
}

// CheckMandatoryPreservation verifies I2/P1: every locked pin still
// has its worker on its date at some post.
func CheckMandatoryPreservation(s *Schedule, lock *MandatoryLock) []Violation {
	var out []Violation
	for _, pin := range lock.All() {
		if p, ok := s.PostOn(pin.Worker, pin.Date); !ok || s.At(pin.Date, p) != pin.Worker {
			out = append(out, Violation{Invariant: "I2", Worker: pin.Worker, Date: pin.Date, Detail: "mandatory pin not present in final schedule"})
		}
	}
	return out
}

// CheckIncompatibility verifies I3/P2: no two assigned workers on the
// same date are mutually incompatible.
func CheckIncompatibility(s *Schedule, byID map[worker.ID]*worker.Worker) []Violation {
	var out []Violation
	for _, d := range s.Dates() {
		workers := s.WorkersOn(d)
		for i := range workers {
			for j := i + 1; j < len(workers); j++ {
				wi, wj := byID[workers[i]], byID[workers[j]]
				if wi == nil || wj == nil {
					continue
				}
				if wi.IsIncompatibleWith(wj.ID) || wj.IsIncompatibleWith(wi.ID) {
					out = append(out, Violation{Invariant: "I3", Worker: wi.ID, Date: d, Detail: fmt.Sprintf("incompatible with %s on same date", wj.ID)})
				}
			}
		}
	}
	return out
}

// CheckAvailability verifies I4/P3: every assignment falls on a day
// the worker is available.
func CheckAvailability(s *Schedule, byID map[worker.ID]*worker.Worker, elig *worker.EligibilityCache) []Violation {
	var out []Violation
	for _, d := range s.Dates() {
		for _, w := range s.WorkersOn(d) {
			wk := byID[w]
			if wk == nil {
				continue
			}
			if !elig.IsAvailable(wk, d) {
				out = append(out, Violation{Invariant: "I4", Worker: w, Date: d, Detail: "assigned outside availability"})
			}
		}
	}
	return out
}

// CheckTargetCap verifies I5/P4: no worker exceeds the hard H3 cap.
func CheckTargetCap(s *Schedule, byID map[worker.ID]*worker.Worker) []Violation {
	var out []Violation
	for id, wk := range byID {
		if count := s.CountFor(id); count > worker.TargetCap(wk.TargetShifts) {
			out = append(out, Violation{Invariant: "I5", Worker: id, Detail: fmt.Sprintf("count=%d exceeds cap=%d", count, worker.TargetCap(wk.TargetShifts))})
		}
	}
	return out
}

// CheckGap verifies I6/P5: consecutive assignment dates respect the
// worker's gap, relaxable by 1 day in Relaxed mode when deficit >= 3.
func CheckGap(s *Schedule, byID map[worker.ID]*worker.Worker, mode Mode) []Violation {
	var out []Violation
	for id, wk := range byID {
		dates := s.AssignmentsFor(id)
		minGap := wk.GapBetweenShifts
		if mode == Relaxed && worker.Deficit(wk.TargetShifts, len(dates)) >= 3 {
			minGap--
		}
		for i := 1; i < len(dates); i++ {
			if got := dates[i].Sub(dates[i-1]); got < minGap {
				out = append(out, Violation{Invariant: "I6", Worker: id, Date: dates[i], Detail: fmt.Sprintf("gap=%d < required=%d", got, minGap)})
			}
		}
	}
	return out
}

// CheckPattern verifies I7/P6: no two assignments 7 or 14 days apart
// share a weekday, unless Relaxed mode's >10%-of-target deficit
// threshold permits it (spec §9's resolved Open Question).
func CheckPattern(s *Schedule, byID map[worker.ID]*worker.Worker, mode Mode) []Violation {
	var out []Violation
	for id, wk := range byID {
		dates := s.AssignmentsFor(id)
		relaxed := mode == Relaxed && worker.DeficitRatio(wk.TargetShifts, len(dates)) > 0.10
		if relaxed {
			continue
		}
		for i := range dates {
			for j := i + 1; j < len(dates); j++ {
				diff := dates[j].Sub(dates[i])
				if (diff == 7 || diff == 14) && dates[i].Weekday() == dates[j].Weekday() {
					out = append(out, Violation{Invariant: "I7", Worker: id, Date: dates[j], Detail: fmt.Sprintf("%d-day same-weekday pattern with %s", diff, dates[i])})
				}
			}
		}
	}
	return out
}

// VerifyAll runs every structural invariant check and returns the
// concatenated violation list. Builder transforms call this
// pre/post-condition style (spec §4.5 "wrapped in a pre/post
// invariant check... rolled back atomically on violation"); test
// suites call it as the shared P1-P6 assertion helper.
func VerifyAll(s *Schedule, lock *MandatoryLock, workers []*worker.Worker, elig *worker.EligibilityCache, mode Mode) []Violation {
	byID := worker.ByID(workers)
	var out []Violation
	out = append(out, CheckMandatoryPreservation(s, lock)...)
	out = append(out, CheckIncompatibility(s, byID)...)
	out = append(out, CheckAvailability(s, byID, elig)...)
	out = append(out, CheckTargetCap(s, byID)...)
	out = append(out, CheckGap(s, byID, mode)...)
	out = append(out, CheckPattern(s, byID, mode)...)
	return out
}
