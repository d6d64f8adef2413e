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

var _ = Describe("S1MinGap", func() {
	It("fails when the candidate date is within the minimum gap of an existing assignment", func() {
		d1, d2 := day(2026, 1, 1), day(2026, 1, 2)
		s := roster.New([]calendar.Day{d1, d2}, 1)
		s.PlaceAt(d1, 0, "w1")
		w1 := worker.New("w1", 10, 100, []worker.Period{fullYear}, worker.WithGapBetweenShifts(3))
		Expect(constraints.S1MinGap(w1, d2, s, roster.Strict).OK).To(BeFalse())
	})

	It("narrows the gap by 1 day in Relaxed mode once deficit reaches 3", func() {
		d1, d2 := day(2026, 1, 1), day(2026, 1, 2)
		s := roster.New([]calendar.Day{d1, d2}, 1)
		s.PlaceAt(d1, 0, "w1")
		w1 := worker.New("w1", 10, 100, []worker.Period{fullYear}, worker.WithGapBetweenShifts(2))
		Expect(constraints.S1MinGap(w1, d2, s, roster.Relaxed).OK).To(BeTrue())
	})
})

var _ = Describe("S2Pattern", func() {
	It("fails on a 7-day same-weekday repeat", func() {
		d1, d2 := day(2026, 1, 1), day(2026, 1, 8)
		s := roster.New([]calendar.Day{d1}, 1)
		s.PlaceAt(d1, 0, "w1")
		w1 := worker.New("w1", 10, 100, []worker.Period{fullYear})
		Expect(constraints.S2Pattern(w1, d2, s, roster.Strict).OK).To(BeFalse())
	})

	It("permits the pattern in Relaxed mode once deficit ratio exceeds 10%", func() {
		d1, d2 := day(2026, 1, 1), day(2026, 1, 8)
		s := roster.New([]calendar.Day{d1}, 1)
		s.PlaceAt(d1, 0, "w1")
		w1 := worker.New("w1", 10, 100, []worker.Period{fullYear})
		Expect(constraints.S2Pattern(w1, d2, s, roster.Relaxed).OK).To(BeTrue())
	})
})

var _ = Describe("S3MonthlyBalance", func() {
	rs := constraints.RangeStats{TotalDays: 60, SpecialDays: 10, MonthsInRange: 2}

	It("passes when the month count after acceptance stays within the envelope", func() {
		d := day(2026, 1, 15)
		s := roster.New([]calendar.Day{d}, 1)
		w1 := worker.New("w1", 4, 100, []worker.Period{fullYear})
		Expect(constraints.S3MonthlyBalance(w1, d, s, roster.Strict, rs).OK).To(BeTrue())
	})

	It("fails when the month count would land outside the envelope", func() {
		dates := calendar.Range(day(2026, 1, 1), day(2026, 1, 5))
		s := roster.New(dates, 1)
		for i := 0; i < 4; i++ {
			s.PlaceAt(dates[i], 0, "w1")
		}
		w1 := worker.New("w1", 4, 100, []worker.Period{fullYear})
		Expect(constraints.S3MonthlyBalance(w1, dates[4], s, roster.Strict, rs).OK).To(BeFalse())
	})
})

var _ = Describe("S4WeekendBalance", func() {
	rs := constraints.RangeStats{TotalDays: 20, SpecialDays: 8}
	holidays := calendar.NewHolidays()

	It("always passes for a non-special date", func() {
		d := day(2026, 1, 5) // Monday
		s := roster.New([]calendar.Day{d}, 1)
		w1 := worker.New("w1", 10, 100, []worker.Period{fullYear})
		Expect(constraints.S4WeekendBalance(w1, d, s, roster.Strict, rs, holidays).OK).To(BeTrue())
	})

	It("fails when accepting a special day pushes the special-day count out of envelope", func() {
		weekendDates := []calendar.Day{day(2026, 1, 2), day(2026, 1, 3), day(2026, 1, 9), day(2026, 1, 10)}
		s := roster.New(weekendDates, 1)
		for i := 0; i < 3; i++ {
			s.PlaceAt(weekendDates[i], 0, "w1")
		}
		w1 := worker.New("w1", 4, 100, []worker.Period{fullYear})
		Expect(constraints.S4WeekendBalance(w1, weekendDates[3], s, roster.Strict, rs, holidays).OK).To(BeFalse())
	})
})

var _ = Describe("S5LastPost", func() {
	It("always passes for a post other than the last", func() {
		d := day(2026, 1, 1)
		s := roster.New([]calendar.Day{d}, 3)
		w1 := worker.New("w1", 10, 100, []worker.Period{fullYear})
		Expect(constraints.S5LastPost(w1, d, 0, s, roster.Strict).OK).To(BeTrue())
	})

	It("fails when accepting the last post pushes the last-post count out of envelope", func() {
		dates := calendar.Range(day(2026, 1, 1), day(2026, 1, 5))
		s := roster.New(dates, 2)
		for i := 0; i < 3; i++ {
			s.PlaceAt(dates[i], 1, "w1")
		}
		w1 := worker.New("w1", 4, 100, []worker.Period{fullYear})
		Expect(constraints.S5LastPost(w1, dates[3], 1, s, roster.Strict).OK).To(BeFalse())
	})
})

var _ = Describe("S6ConsecutiveWeekends", func() {
	holidays := calendar.NewHolidays()

	It("is unconstrained when MaxConsecutiveWeekends is zero", func() {
		d := day(2026, 1, 3) // Saturday
		s := roster.New([]calendar.Day{d}, 1)
		w1 := worker.New("w1", 10, 100, []worker.Period{fullYear})
		Expect(constraints.S6ConsecutiveWeekends(w1, d, s, holidays).OK).To(BeTrue())
	})

	It("always passes for a non-special date regardless of the limit", func() {
		d := day(2026, 1, 5) // Monday
		s := roster.New([]calendar.Day{d}, 1)
		w1 := worker.New("w1", 10, 100, []worker.Period{fullYear}, worker.WithMaxConsecutiveWeekends(1))
		Expect(constraints.S6ConsecutiveWeekends(w1, d, s, holidays).OK).To(BeTrue())
	})

	It("fails when accepting a special day would extend the streak past the limit", func() {
		firstWeekend := day(2026, 1, 3) // Saturday
		nextWeekend := day(2026, 1, 10) // Saturday, one bucket later
		s := roster.New([]calendar.Day{firstWeekend}, 1)
		s.PlaceAt(firstWeekend, 0, "w1")
		w1 := worker.New("w1", 10, 100, []worker.Period{fullYear}, worker.WithMaxConsecutiveWeekends(1))
		Expect(constraints.S6ConsecutiveWeekends(w1, nextWeekend, s, holidays).OK).To(BeFalse())
	})
})
