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

package tolerance_test

import (
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/northbeam/rosterengine/pkg/balance"
	"github.com/northbeam/rosterengine/pkg/calendar"
	"github.com/northbeam/rosterengine/pkg/optimizer"
	"github.com/northbeam/rosterengine/pkg/scheduling"
	"github.com/northbeam/rosterengine/pkg/tolerance"
	"github.com/northbeam/rosterengine/pkg/worker"
)

var _ = Describe("Build", func() {
	It("tallies per-worker counts, weekend/last-post breakdown, and overall coverage", func() {
		dates := calendar.Range(day(2026, 1, 1), day(2026, 1, 10))
		w1 := worker.New("w1", 5, 100, []worker.Period{fullYear})
		w2 := worker.New("w2", 5, 100, []worker.Period{fullYear})
		b := scheduling.New([]*worker.Worker{w1, w2}, dates, 2, calendar.NewHolidays())
		for i := 0; i < 5; i++ {
			b.Schedule().PlaceAt(dates[i], 0, "w1")
			b.Schedule().PlaceAt(dates[i], 1, "w2")
		}

		r := tolerance.Build(b, 2, balance.Thresholds{Within: 8, Emergency: 10, Critical: 15})

		Expect(r.Workers).To(HaveLen(2))
		Expect(r.Workers[0].ID).To(Equal(worker.ID("w1")))
		Expect(r.Workers[0].Count).To(Equal(5))
		Expect(r.Workers[1].ID).To(Equal(worker.ID("w2")))
		Expect(r.Workers[1].Count).To(Equal(5))
		Expect(r.Workers[1].LastPostCount).To(Equal(5))
		Expect(r.Workers[0].LastPostCount).To(Equal(0))

		Expect(r.EmptyShifts).To(Equal(10))
		Expect(r.CoveragePercent).To(BeNumerically("~", 50.0, 1e-9))
	})

	It("reports full coverage and zero empty shifts for a completely filled schedule", func() {
		dates := calendar.Range(day(2026, 1, 1), day(2026, 1, 5))
		w1 := worker.New("w1", 5, 100, []worker.Period{fullYear})
		b := scheduling.New([]*worker.Worker{w1}, dates, 1, calendar.NewHolidays())
		for _, d := range dates {
			b.Schedule().PlaceAt(d, 0, "w1")
		}

		r := tolerance.Build(b, 1, balance.Thresholds{Within: 8, Emergency: 10, Critical: 15})
		Expect(r.CoveragePercent).To(Equal(100.0))
		Expect(r.EmptyShifts).To(Equal(0))
	})
})

var _ = Describe("Report.ExitCode", func() {
	It("returns 0 when coverage meets target and there are no violations", func() {
		r := tolerance.Report{CoveragePercent: 100}
		Expect(r.ExitCode(95)).To(Equal(0))
	})

	It("returns 1 when coverage meets target but violations remain", func() {
		r := tolerance.Report{CoveragePercent: 100, Violations: optimizer.Counts{Target: 1}}
		Expect(r.ExitCode(95)).To(Equal(1))
	})

	It("returns 2 when coverage falls below target regardless of violations", func() {
		r := tolerance.Report{CoveragePercent: 80}
		Expect(r.ExitCode(95)).To(Equal(2))
	})
})

var _ = Describe("Report.Extreme", func() {
	It("returns only the workers classified Extreme", func() {
		r := tolerance.Report{Workers: []tolerance.WorkerStat{
			{ID: "w1", Classification: balance.Within},
			{ID: "w2", Classification: balance.Extreme},
			{ID: "w3", Classification: balance.Critical},
		}}
		extreme := r.Extreme()
		Expect(extreme).To(HaveLen(1))
		Expect(extreme[0].ID).To(Equal(worker.ID("w2")))
	})

	It("returns an empty slice when no worker is Extreme", func() {
		r := tolerance.Report{Workers: []tolerance.WorkerStat{
			{ID: "w1", Classification: balance.Within},
		}}
		Expect(r.Extreme()).To(BeEmpty())
	})
})
