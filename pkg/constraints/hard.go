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

	"github.com/northbeam/rosterengine/pkg/calendar"
	"github.com/northbeam/rosterengine/pkg/roster"
	"github.com/northbeam/rosterengine/pkg/worker"
)

// H1Availability reports whether w may work at all on d (spec §4.2,
// memoized by the caller's EligibilityCache).
func H1Availability(w *worker.Worker, d calendar.Day, elig *worker.EligibilityCache) Result {
	if elig.IsAvailable(w, d) {
		return Pass
	}
	return Fail("outside availability: day off or no matching work period")
}

// H2Incompatibility reports whether any worker already assigned on d
// is in w's incompatible set.
func H2Incompatibility(w *worker.Worker, d calendar.Day, s *roster.Schedule, byID map[worker.ID]*worker.Worker) Result {
	for _, other := range s.WorkersOn(d) {
		if other == w.ID {
			continue
		}
		if w.IsIncompatibleWith(other) {
			return Fail(fmt.Sprintf("incompatible with %s, already assigned on %s", other, d))
		}
		if ow := byID[other]; ow != nil && ow.IsIncompatibleWith(w.ID) {
			return Fail(fmt.Sprintf("incompatible with %s, already assigned on %s", other, d))
		}
	}
	return Pass
}

// H3TargetCap reports whether accepting one more assignment keeps w
// at or under its hard cap (spec §4.3/§3): count(w)+1 <= ceil(target *
// 1.10), via worker.TargetCap.
func H3TargetCap(w *worker.Worker, s *roster.Schedule) Result {
	limit := worker.TargetCap(w.TargetShifts)
	if s.CountFor(w.ID)+1 > limit {
		return Fail(fmt.Sprintf("would exceed target cap %d", limit))
	}
	return Pass
}
