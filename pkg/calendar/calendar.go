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

// Package calendar classifies dates for scheduling purposes: weekday,
// holiday, and "special day" (weekend, holiday, or the day before a
// holiday) status. All functions are pure and operate over a
// caller-provided, immutable holiday set.
package calendar

import "time"

// Day truncates a time.Time to midnight UTC so it can be used as a
// map key and compared by value.
type Day struct {
	t time.Time
}

// NewDay returns the Day for the given year, month, day.
func NewDay(year int, month time.Month, day int) Day {
	return Day{t: time.Date(year, month, day, 0, 0, 0, 0, time.UTC)}
}

// FromTime truncates an arbitrary time.Time to its calendar Day.
func FromTime(t time.Time) Day {
	y, m, d := t.Date()
	return NewDay(y, m, d)
}

// Time returns the underlying UTC midnight time.Time.
func (d Day) Time() time.Time { return d.t }

// Add returns the Day n days after d (n may be negative).
func (d Day) Add(n int) Day { return Day{t: d.t.AddDate(0, 0, n)} }

// Sub returns the number of days between d and o (d - o).
func (d Day) Sub(o Day) int {
	return int(d.t.Sub(o.t).Hours() / 24)
}

// Before reports whether d is strictly before o.
func (d Day) Before(o Day) bool { return d.t.Before(o.t) }

// After reports whether d is strictly after o.
func (d Day) After(o Day) bool { return d.t.After(o.t) }

// Equal reports whether d and o denote the same calendar day.
func (d Day) Equal(o Day) bool { return d.t.Equal(o.t) }

// Weekday returns the day of week, 0=Sunday .. 6=Saturday, matching
// time.Weekday's numbering.
func (d Day) Weekday() time.Weekday { return d.t.Weekday() }

// Month returns the calendar month d falls in.
func (d Day) Month() time.Month { return d.t.Month() }

// String renders the day as YYYY-MM-DD.
func (d Day) String() string { return d.t.Format("2006-01-02") }

// ParseDay parses a YYYY-MM-DD string as produced by String.
func ParseDay(s string) (Day, error) {
	t, err := time.Parse("2006-01-02", s)
	if err != nil {
		return Day{}, err
	}
	return FromTime(t), nil
}

// Range enumerates the inclusive [start, end] date range.
func Range(start, end Day) []Day {
	if end.Before(start) {
		return nil
	}
	n := end.Sub(start) + 1
	days := make([]Day, 0, n)
	for i := 0; i < n; i++ {
		days = append(days, start.Add(i))
	}
	return days
}

// Holidays is an immutable set of holiday dates, supplied at
// construction (spec §4.1: "a small immutable holiday set provided at
// construction").
type Holidays struct {
	days map[Day]struct{}
}

// NewHolidays builds an immutable Holidays set from the given days.
func NewHolidays(days ...Day) Holidays {
	m := make(map[Day]struct{}, len(days))
	for _, d := range days {
		m[d] = struct{}{}
	}
	return Holidays{days: m}
}

// IsWeekend reports whether d falls on Friday, Saturday, or Sunday.
//
// The roster domain treats Friday as part of the "special day" weekend
// window alongside Saturday/Sunday (spec §1: "special-day test
// (Fri/Sat/Sun/holiday/pre-holiday)"), distinct from the conventional
// Sat/Sun definition of a calendar weekend.
func IsWeekend(d Day) bool {
	switch d.Weekday() {
	case time.Friday, time.Saturday, time.Sunday:
		return true
	default:
		return false
	}
}

// IsHoliday reports whether d is in the holiday set.
func (h Holidays) IsHoliday(d Day) bool {
	_, ok := h.days[d]
	return ok
}

// IsPreHoliday reports whether the day immediately following d is a
// holiday.
func (h Holidays) IsPreHoliday(d Day) bool {
	return h.IsHoliday(d.Add(1))
}

// IsSpecial reports whether d is a weekend, a holiday, or the day
// before a holiday.
func (h Holidays) IsSpecial(d Day) bool {
	return IsWeekend(d) || h.IsHoliday(d) || h.IsPreHoliday(d)
}

// MonthOf returns the (year, month) key for d's calendar month.
func MonthOf(d Day) (int, time.Month) {
	y, m, _ := d.t.Date()
	return y, m
}
