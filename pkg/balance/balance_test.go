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

package balance_test

import (
	"time"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/northbeam/rosterengine/pkg/balance"
	"github.com/northbeam/rosterengine/pkg/calendar"
	"github.com/northbeam/rosterengine/pkg/roster"
	"github.com/northbeam/rosterengine/pkg/worker"
)

func day(y int, m time.Month, d int) calendar.Day { return calendar.NewDay(y, m, d) }

var _ = Describe("DeviationPercent", func() {
	It("computes a positive deviation when over target", func() {
		Expect(balance.DeviationPercent(10, 12)).To(BeNumerically("~", 20, 1e-9))
	})

	It("computes a negative deviation when under target", func() {
		Expect(balance.DeviationPercent(10, 8)).To(BeNumerically("~", -20, 1e-9))
	})

	It("guards against a zero target by flooring it to 1", func() {
		Expect(balance.DeviationPercent(0, 5)).To(BeNumerically("~", 500, 1e-9))
	})
})

var _ = Describe("Classify", func() {
	th := balance.DefaultThresholds()

	DescribeTable("buckets deviation magnitude into a tier",
		func(deviation float64, want balance.Classification) {
			Expect(balance.Classify(deviation, th)).To(Equal(want))
		},
		Entry("zero deviation", 0.0, balance.Within),
		Entry("at the Within boundary", 8.0, balance.Within),
		Entry("just past Within", 8.1, balance.Emergency),
		Entry("at the Emergency boundary", 10.0, balance.Emergency),
		Entry("at the Critical boundary", 15.0, balance.Critical),
		Entry("past Critical", 20.0, balance.Extreme),
		Entry("negative extreme", -30.0, balance.Extreme),
	)

	It("stringifies every tier", func() {
		Expect(balance.Within.String()).To(Equal("within"))
		Expect(balance.Emergency.String()).To(Equal("emergency"))
		Expect(balance.Critical.String()).To(Equal("critical"))
		Expect(balance.Extreme.String()).To(Equal("extreme"))
	})
})

var _ = Describe("Expected-share helpers", func() {
	It("spreads target evenly across the months in range", func() {
		Expect(balance.ExpectedMonthly(12, 4)).To(BeNumerically("~", 3, 1e-9))
	})

	It("falls back to the raw target when no months are in range", func() {
		Expect(balance.ExpectedMonthly(12, 0)).To(Equal(12.0))
	})

	It("computes a proportional special-day share", func() {
		Expect(balance.ExpectedWeekendShare(10, 5, 20)).To(BeNumerically("~", 2.5, 1e-9))
	})

	It("returns zero special-day share over an empty range", func() {
		Expect(balance.ExpectedWeekendShare(10, 5, 0)).To(Equal(0.0))
	})

	It("computes a proportional last-post share", func() {
		Expect(balance.ExpectedLastPostShare(10, 4)).To(BeNumerically("~", 2.5, 1e-9))
	})

	It("returns zero last-post share with zero posts", func() {
		Expect(balance.ExpectedLastPostShare(10, 0)).To(Equal(0.0))
	})
})

var _ = Describe("WithinEnvelope", func() {
	It("requires an exact +-1 match in Strict mode", func() {
		Expect(balance.WithinEnvelope(5, 5.5, roster.Strict)).To(BeTrue())
		Expect(balance.WithinEnvelope(3, 5.5, roster.Strict)).To(BeFalse())
	})

	It("widens to 10% of expected in Relaxed mode", func() {
		Expect(balance.WithinEnvelope(21, 20, roster.Relaxed)).To(BeTrue())
		Expect(balance.WithinEnvelope(24, 20, roster.Relaxed)).To(BeFalse())
	})

	It("floors the relaxed tolerance at 1 when 10% would be smaller", func() {
		Expect(balance.WithinEnvelope(6, 5.5, roster.Relaxed)).To(BeTrue())
	})
})

var _ = Describe("TransferValidity", func() {
	var byID map[worker.ID]*worker.Worker
	var s *roster.Schedule
	var lock *roster.MandatoryLock
	var dates []calendar.Day

	BeforeEach(func() {
		dates = calendar.Range(day(2026, 1, 1), day(2026, 3, 1))
		s = roster.New(dates, 1)
		over := worker.New("over", 10, 100, []worker.Period{{Start: dates[0], End: dates[len(dates)-1]}})
		under := worker.New("under", 10, 100, []worker.Period{{Start: dates[0], End: dates[len(dates)-1]}})
		byID = worker.ByID([]*worker.Worker{over, under})
		lock = &roster.MandatoryLock{}
	})

	It("approves a transfer that reduces combined deviation without breaching caps", func() {
		for i := 0; i < 15; i++ {
			s.PlaceAt(dates[i], 0, "over")
		}
		for i := 15; i < 24; i++ {
			s.PlaceAt(dates[i], 0, "under")
		}
		ok, reason := balance.TransferValidity("over", "under", dates[0], byID, s, lock, roster.Relaxed, 12)
		Expect(ok).To(BeTrue())
		Expect(reason).To(BeEmpty())
	})

	It("rejects a transfer whose source slot is a locked mandatory pin", func() {
		s.PlaceAt(dates[0], 0, "over")
		lock.Add("over", dates[0])
		ok, reason := balance.TransferValidity("over", "under", dates[0], byID, s, lock, roster.Relaxed, 12)
		Expect(ok).To(BeFalse())
		Expect(reason).To(ContainSubstring("mandatory pin"))
	})

	It("rejects a transfer naming an unknown worker", func() {
		s.PlaceAt(dates[0], 0, "over")
		ok, reason := balance.TransferValidity("over", "ghost", dates[0], byID, s, lock, roster.Relaxed, 12)
		Expect(ok).To(BeFalse())
		Expect(reason).To(ContainSubstring("unknown worker"))
	})

	It("rejects a transfer that would push the destination past its H3 cap", func() {
		for i := 0; i < 15; i++ {
			s.PlaceAt(dates[i], 0, "over")
		}
		for i := 15; i < 26; i++ {
			s.PlaceAt(dates[i], 0, "under")
		}
		ok, reason := balance.TransferValidity("over", "under", dates[0], byID, s, lock, roster.Relaxed, 100)
		Expect(ok).To(BeFalse())
		Expect(reason).To(ContainSubstring("H3 target cap"))
	})

	It("rejects a transfer that would push the destination past the active tolerance", func() {
		for i := 0; i < 12; i++ {
			s.PlaceAt(dates[i], 0, "over")
		}
		for i := 12; i < 20; i++ {
			s.PlaceAt(dates[i], 0, "under")
		}
		ok, reason := balance.TransferValidity("over", "under", dates[0], byID, s, lock, roster.Relaxed, 5)
		Expect(ok).To(BeFalse())
		Expect(reason).To(ContainSubstring("tolerance envelope"))
	})
})

var _ = Describe("RebalancingRecommendations", func() {
	It("returns no recommendations when every worker is exactly at target", func() {
		dates := calendar.Range(day(2026, 1, 1), day(2026, 1, 10))
		s := roster.New(dates, 1)
		w1 := worker.New("w1", 5, 100, []worker.Period{{Start: dates[0], End: dates[len(dates)-1]}})
		byID := worker.ByID([]*worker.Worker{w1})
		lock := &roster.MandatoryLock{}
		for i := 0; i < 5; i++ {
			s.PlaceAt(dates[i], 0, "w1")
		}
		Expect(balance.RebalancingRecommendations(byID, s, lock, roster.Relaxed, 12)).To(BeEmpty())
	})

	It("recommends a transfer from an over-target worker to an under-target one", func() {
		dates := calendar.Range(day(2026, 1, 1), day(2026, 3, 1))
		s := roster.New(dates, 1)
		over := worker.New("over", 10, 100, []worker.Period{{Start: dates[0], End: dates[len(dates)-1]}})
		under := worker.New("under", 10, 100, []worker.Period{{Start: dates[0], End: dates[len(dates)-1]}})
		byID := worker.ByID([]*worker.Worker{over, under})
		lock := &roster.MandatoryLock{}
		for i := 0; i < 15; i++ {
			s.PlaceAt(dates[i], 0, "over")
		}
		for i := 15; i < 24; i++ {
			s.PlaceAt(dates[i], 0, "under")
		}
		recs := balance.RebalancingRecommendations(byID, s, lock, roster.Relaxed, 12)
		Expect(recs).NotTo(BeEmpty())
		Expect(recs[0].Over).To(Equal(worker.ID("over")))
		Expect(recs[0].Under).To(Equal(worker.ID("under")))
		Expect(recs[0].ExpectedL1Reduce).To(BeNumerically(">", 0))
	})
})
