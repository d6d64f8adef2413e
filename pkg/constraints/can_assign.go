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
	"github.com/northbeam/rosterengine/pkg/calendar"
	"github.com/northbeam/rosterengine/pkg/roster"
	"github.com/northbeam/rosterengine/pkg/worker"
)

// Checker bundles the run-scoped context every predicate needs,
// so call sites don't thread five parameters through every
// can_assign call.
type Checker struct {
	ByID     map[worker.ID]*worker.Worker
	Elig     *worker.EligibilityCache
	Holidays calendar.Holidays
	Range    RangeStats
}

// NewChecker builds a Checker from the run's worker roster, schedule
// dates, and holiday set.
func NewChecker(workers []*worker.Worker, dates []calendar.Day, holidays calendar.Holidays) *Checker {
	return &Checker{
		ByID:     worker.ByID(workers),
		Elig:     worker.NewEligibilityCache(),
		Holidays: holidays,
		Range:    NewRangeStats(dates, holidays),
	}
}

// CanAssign is can_assign(w, d, p, mode): the conjunction of H1-H3 and
// every applicable soft predicate (spec §4.3).
func (c *Checker) CanAssign(w *worker.Worker, d calendar.Day, p int, s *roster.Schedule, mode roster.Mode) Result {
	return And(
		H1Availability(w, d, c.Elig),
		H2Incompatibility(w, d, s, c.ByID),
		H3TargetCap(w, s),
		S1MinGap(w, d, s, mode),
		S2Pattern(w, d, s, mode),
		S3MonthlyBalance(w, d, s, mode, c.Range),
		S4WeekendBalance(w, d, s, mode, c.Range, c.Holidays),
		S5LastPost(w, d, p, s, mode),
		S6ConsecutiveWeekends(w, d, s, c.Holidays),
	)
}

// CandidatesFor returns every worker who passes CanAssign for (d, p)
// under mode, in roster order.
func (c *Checker) CandidatesFor(workers []*worker.Worker, d calendar.Day, p int, s *roster.Schedule, mode roster.Mode) []*worker.Worker {
	var out []*worker.Worker
	for _, w := range workers {
		if c.CanAssign(w, d, p, s, mode).OK {
			out = append(out, w)
		}
	}
	return out
}
