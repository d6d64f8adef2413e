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

package scheduling

import (
	"sort"

	"github.com/northbeam/rosterengine/pkg/calendar"
	"github.com/northbeam/rosterengine/pkg/rosterrors"
	"github.com/northbeam/rosterengine/pkg/worker"
)

func sortedDays(m map[calendar.Day]struct{}) []calendar.Day {
	out := make([]calendar.Day, 0, len(m))
	for d := range m {
		out = append(out, d)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Before(out[j]) })
	return out
}

// AssignMandatoryGuards runs the mandatory phase (spec §4.5
// assign_mandatory_guards): for every (w, d) with d in w's mandatory
// set, verify H1 and H2, place w at the first empty post, and lock
// the pin. Soft predicates are never applied here; mandatory
// dominates. Returns every ConfigurationError encountered, one per
// mandatory date that could not be placed.
func (b *Builder) AssignMandatoryGuards() []error {
	var errs []error
	for _, w := range b.workers {
		for _, d := range sortedDays(w.MandatoryDays) {
			if !b.checker.Elig.IsAvailable(w, d) {
				errs = append(errs, rosterrors.Configuration("mandatory date outside availability", "worker", string(w.ID), "date", d.String()))
				continue
			}
			if conflictID, hasConflict := b.incompatibleOccupant(w, d); hasConflict {
				conflictWorker := b.byID[conflictID]
				if conflictWorker != nil && worker.IsMandatory(conflictWorker, d) {
					errs = append(errs, rosterrors.Configuration("mutually incompatible workers both mandatory on the same date", "worker", string(w.ID), "conflict", string(conflictID), "date", d.String()))
				} else {
					errs = append(errs, rosterrors.Configuration("incompatibility blocks mandatory placement", "worker", string(w.ID), "conflict", string(conflictID), "date", d.String()))
				}
				continue
			}
			p := b.schedule.FirstEmptyPost(d)
			if p < 0 {
				errs = append(errs, rosterrors.Configuration("no empty post available for mandatory placement", "worker", string(w.ID), "date", d.String()))
				continue
			}
			b.schedule.PlaceAt(d, p, w.ID)
			b.lock.Add(w.ID, d)
		}
	}
	return errs
}

func (b *Builder) incompatibleOccupant(w *worker.Worker, d calendar.Day) (worker.ID, bool) {
	for _, other := range b.schedule.WorkersOn(d) {
		if other == w.ID {
			continue
		}
		ow := b.byID[other]
		if w.IsIncompatibleWith(other) || (ow != nil && ow.IsIncompatibleWith(w.ID)) {
			return other, true
		}
	}
	return "", false
}
