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

package constraints_test

import (
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/northbeam/rosterengine/pkg/calendar"
	"github.com/northbeam/rosterengine/pkg/constraints"
	"github.com/northbeam/rosterengine/pkg/roster"
	"github.com/northbeam/rosterengine/pkg/worker"
)

var _ = Describe("Checker.CanAssign", func() {
	It("passes for an eligible worker with no conflicts", func() {
		dates := calendar.Range(day(2026, 1, 1), day(2026, 1, 10))
		s := roster.New(dates, 1)
		w1 := worker.New("w1", 5, 100, []worker.Period{fullYear})
		c := constraints.NewChecker([]*worker.Worker{w1}, dates, calendar.NewHolidays())
		Expect(c.CanAssign(w1, dates[0], 0, s, roster.Strict).OK).To(BeTrue())
	})

	It("fails a hard predicate before ever reaching soft predicates", func() {
		dates := calendar.Range(day(2026, 1, 1), day(2026, 1, 10))
		s := roster.New(dates, 1)
		w1 := worker.New("w1", 5, 100, []worker.Period{{Start: day(2026, 2, 1), End: day(2026, 2, 28)}})
		c := constraints.NewChecker([]*worker.Worker{w1}, dates, calendar.NewHolidays())
		result := c.CanAssign(w1, dates[0], 0, s, roster.Strict)
		Expect(result.OK).To(BeFalse())
		Expect(result.Reason).To(ContainSubstring("availability"))
	})
})

var _ = Describe("Checker.CandidatesFor", func() {
	It("returns only the workers who pass CanAssign, in roster order", func() {
		dates := calendar.Range(day(2026, 1, 1), day(2026, 1, 10))
		s := roster.New(dates, 1)
		eligible := worker.New("eligible", 5, 100, []worker.Period{fullYear})
		ineligible := worker.New("ineligible", 5, 100, []worker.Period{{Start: day(2026, 2, 1), End: day(2026, 2, 28)}})
		workers := []*worker.Worker{eligible, ineligible}
		c := constraints.NewChecker(workers, dates, calendar.NewHolidays())
		candidates := c.CandidatesFor(workers, dates[0], 0, s, roster.Strict)
		Expect(candidates).To(HaveLen(1))
		Expect(candidates[0].ID).To(Equal(worker.ID("eligible")))
	})
})
