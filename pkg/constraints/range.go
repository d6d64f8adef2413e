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
)

// RangeStats summarizes the schedule's date range once, up front, so
// S3-S6 don't recompute month counts and special-day density on every
// candidate check.
type RangeStats struct {
	TotalDays     int
	SpecialDays   int
	MonthsInRange int
}

// NewRangeStats derives a RangeStats from the schedule's dates and
// holiday set.
func NewRangeStats(dates []calendar.Day, holidays calendar.Holidays) RangeStats {
	months := map[[2]int]struct{}{}
	special := 0
	for _, d := range dates {
		y, m := calendar.MonthOf(d)
		months[[2]int{y, int(m)}] = struct{}{}
		if holidays.IsSpecial(d) {
			special++
		}
	}
	return RangeStats{
		TotalDays:     len(dates),
		SpecialDays:   special,
		MonthsInRange: len(months),
	}
}
