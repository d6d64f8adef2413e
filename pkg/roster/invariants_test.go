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

package roster_test

import (
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/northbeam/rosterengine/pkg/calendar"
	"github.com/northbeam/rosterengine/pkg/roster"
	"github.com/northbeam/rosterengine/pkg/worker"
)

var fullYear = worker.Period{Start: day(2026, 1, 1), End: day(2026, 12, 31)}

var _ = Describe("CheckMandatoryPreservation", func() {
	It("passes when every pin is present in the final schedule", func() {
		d := day(2026, 1, 1)
		s := roster.New([]calendar.Day{d}, 1)
		s.PlaceAt(d, 0, "w1")
		var lock roster.MandatoryLock
		lock.Add("w1", d)
		Expect(roster.CheckMandatoryPreservation(s, &lock)).To(BeEmpty())
	})

	It("flags a pin that never made it into the schedule", func() {
		d := day(2026, 1, 1)
		s := roster.New([]calendar.Day{d}, 1)
		var lock roster.MandatoryLock
		lock.Add("w1", d)
		violations := roster.CheckMandatoryPreservation(s, &lock)
		Expect(violations).To(HaveLen(1))
		Expect(violations[0].Invariant).To(Equal("I2"))
	})
})

var _ = Describe("CheckIncompatibility", func() {
	It("flags two mutually incompatible workers sharing a date", func() {
		d := day(2026, 1, 1)
		s := roster.New([]calendar.Day{d}, 2)
		s.PlaceAt(d, 0, "w1")
		s.PlaceAt(d, 1, "w2")
		w1 := worker.New("w1", 5, 100, []worker.Period{fullYear}, worker.WithIncompatibleWith("w2"))
		w2 := worker.New("w2", 5, 100, []worker.Period{fullYear})
		byID := worker.ByID([]*worker.Worker{w1, w2})
		violations := roster.CheckIncompatibility(s, byID)
		Expect(violations).To(HaveLen(1))
		Expect(violations[0].Invariant).To(Equal("I3"))
	})

	It("passes when assigned workers have no incompatibility", func() {
		d := day(2026, 1, 1)
		s := roster.New([]calendar.Day{d}, 2)
		s.PlaceAt(d, 0, "w1")
		s.PlaceAt(d, 1, "w2")
		w1 := worker.New("w1", 5, 100, []worker.Period{fullYear})
		w2 := worker.New("w2", 5, 100, []worker.Period{fullYear})
		byID := worker.ByID([]*worker.Worker{w1, w2})
		Expect(roster.CheckIncompatibility(s, byID)).To(BeEmpty())
	})
})

var _ = Describe("CheckAvailability", func() {
	It("flags an assignment outside the worker's availability", func() {
		d := day(2026, 2, 1)
		s := roster.New([]calendar.Day{d}, 1)
		s.PlaceAt(d, 0, "w1")
		w1 := worker.New("w1", 5, 100, []worker.Period{{Start: day(2026, 1, 1), End: day(2026, 1, 31)}})
		byID := worker.ByID([]*worker.Worker{w1})
		elig := worker.NewEligibilityCache()
		violations := roster.CheckAvailability(s, byID, elig)
		Expect(violations).To(HaveLen(1))
		Expect(violations[0].Invariant).To(Equal("I4"))
	})

	It("passes for an assignment within a work period and not a day off", func() {
		d := day(2026, 1, 10)
		s := roster.New([]calendar.Day{d}, 1)
		s.PlaceAt(d, 0, "w1")
		w1 := worker.New("w1", 5, 100, []worker.Period{fullYear})
		byID := worker.ByID([]*worker.Worker{w1})
		elig := worker.NewEligibilityCache()
		Expect(roster.CheckAvailability(s, byID, elig)).To(BeEmpty())
	})
})

var _ = Describe("CheckTargetCap", func() {
	It("flags a worker assigned beyond the 10%-over-target cap", func() {
		dates := calendar.Range(day(2026, 1, 1), day(2026, 1, 15))
		s := roster.New(dates, 1)
		for i := 0; i < 12; i++ {
			s.PlaceAt(dates[i], 0, "w1")
		}
		w1 := worker.New("w1", 10, 100, []worker.Period{fullYear})
		byID := worker.ByID([]*worker.Worker{w1})
		violations := roster.CheckTargetCap(s, byID)
		Expect(violations).To(HaveLen(1))
		Expect(violations[0].Invariant).To(Equal("I5"))
	})

	It("passes a worker within the cap", func() {
		dates := calendar.Range(day(2026, 1, 1), day(2026, 1, 11))
		s := roster.New(dates, 1)
		for i := 0; i < 10; i++ {
			s.PlaceAt(dates[i], 0, "w1")
		}
		w1 := worker.New("w1", 10, 100, []worker.Period{fullYear})
		byID := worker.ByID([]*worker.Worker{w1})
		Expect(roster.CheckTargetCap(s, byID)).To(BeEmpty())
	})
})

var _ = Describe("CheckGap", func() {
	It("flags back-to-back assignments violating the required gap", func() {
		d1, d2 := day(2026, 1, 1), day(2026, 1, 2)
		s := roster.New([]calendar.Day{d1, d2}, 1)
		s.PlaceAt(d1, 0, "w1")
		s.PlaceAt(d2, 0, "w1")
		w1 := worker.New("w1", 10, 100, []worker.Period{fullYear}, worker.WithGapBetweenShifts(2))
		byID := worker.ByID([]*worker.Worker{w1})
		violations := roster.CheckGap(s, byID, roster.Strict)
		Expect(violations).To(HaveLen(1))
		Expect(violations[0].Invariant).To(Equal("I6"))
	})

	It("relaxes the gap by 1 day in Relaxed mode once the deficit reaches 3", func() {
		d1, d2 := day(2026, 1, 1), day(2026, 1, 2)
		s := roster.New([]calendar.Day{d1, d2}, 1)
		s.PlaceAt(d1, 0, "w1")
		s.PlaceAt(d2, 0, "w1")
		w1 := worker.New("w1", 10, 100, []worker.Period{fullYear}, worker.WithGapBetweenShifts(2))
		byID := worker.ByID([]*worker.Worker{w1})
		Expect(roster.CheckGap(s, byID, roster.Relaxed)).To(BeEmpty())
	})
})

var _ = Describe("CheckPattern", func() {
	It("flags a 7-day same-weekday repeat", func() {
		d1, d2 := day(2026, 1, 1), day(2026, 1, 8)
		s := roster.New([]calendar.Day{d1, d2}, 1)
		s.PlaceAt(d1, 0, "w1")
		s.PlaceAt(d2, 0, "w1")
		w1 := worker.New("w1", 10, 100, []worker.Period{fullYear})
		byID := worker.ByID([]*worker.Worker{w1})
		violations := roster.CheckPattern(s, byID, roster.Strict)
		Expect(violations).To(HaveLen(1))
		Expect(violations[0].Invariant).To(Equal("I7"))
	})

	It("skips the pattern check in Relaxed mode once deficit ratio exceeds 10%", func() {
		d1, d2 := day(2026, 1, 1), day(2026, 1, 8)
		s := roster.New([]calendar.Day{d1, d2}, 1)
		s.PlaceAt(d1, 0, "w1")
		s.PlaceAt(d2, 0, "w1")
		w1 := worker.New("w1", 10, 100, []worker.Period{fullYear})
		byID := worker.ByID([]*worker.Worker{w1})
		Expect(roster.CheckPattern(s, byID, roster.Relaxed)).To(BeEmpty())
	})
})

var _ = Describe("VerifyAll", func() {
	It("aggregates violations from every check", func() {
		d := day(2026, 2, 1)
		s := roster.New([]calendar.Day{d}, 1)
		s.PlaceAt(d, 0, "w1")
		w1 := worker.New("w1", 5, 100, []worker.Period{{Start: day(2026, 1, 1), End: day(2026, 1, 31)}})
		var lock roster.MandatoryLock
		elig := worker.NewEligibilityCache()
		violations := roster.VerifyAll(s, &lock, []*worker.Worker{w1}, elig, roster.Strict)
		Expect(violations).To(HaveLen(1))
		Expect(violations[0].Invariant).To(Equal("I4"))
	})

	It("returns no violations for a clean strict schedule", func() {
		d := day(2026, 1, 10)
		s := roster.New([]calendar.Day{d}, 1)
		s.PlaceAt(d, 0, "w1")
		w1 := worker.New("w1", 5, 100, []worker.Period{fullYear})
		var lock roster.MandatoryLock
		lock.Add("w1", d)
		elig := worker.NewEligibilityCache()
		Expect(roster.VerifyAll(s, &lock, []*worker.Worker{w1}, elig, roster.Strict)).To(BeEmpty())
	})
})
