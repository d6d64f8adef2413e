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
	"github.com/northbeam/rosterengine/pkg/roster"
	"github.com/northbeam/rosterengine/pkg/worker"
)

// FillEmptyShifts is the two-pass fill transform (spec §4.5): direct
// fill of empty slots via candidate selection, most-constrained-first,
// until a pass places nothing; then swap-based fill, until a pass
// swaps nothing. Never touches locked_mandatory. Returns the number
// of slots filled.
func (b *Builder) FillEmptyShifts(workerOrder []worker.ID) int {
	b.noteTransform()
	orderIndex := make(map[worker.ID]int, len(workerOrder))
	for i, id := range workerOrder {
		orderIndex[id] = i
	}

	filled := 0
	for {
		progressed := 0
		for _, slot := range b.mostConstrainedFirst(b.schedule.EmptySlots()) {
			if b.schedule.At(slot.Date, slot.Post) != roster.Empty {
				continue
			}
			id, ok := b.selectWorkerOrdered(slot.Date, slot.Post, orderIndex)
			if !ok {
				continue
			}
			if b.schedule.PlaceAt(slot.Date, slot.Post, id) {
				b.recordSuccessfulPattern(slot.Date.Weekday(), slot.Post)
				progressed++
			}
		}
		if progressed == 0 {
			break
		}
		filled += progressed
	}

	for {
		swapped := b.swapFillPass()
		if swapped == 0 {
			break
		}
		filled += swapped
	}
	return filled
}

func (b *Builder) swapFillPass() int {
	count := 0
	for _, slot := range b.schedule.EmptySlots() {
		if b.trySwapFill(slot) {
			count++
		}
	}
	return count
}

// trySwapFill looks for worker A who can fill the empty slot whose
// own existing assignment can instead be absorbed by worker B != A,
// applying (A: d'->d, B: empty->d') atomically (spec §4.5 pass 2).
func (b *Builder) trySwapFill(slot roster.Slot) bool {
	for _, a := range b.workers {
		if !b.checker.CanAssign(a, slot.Date, slot.Post, b.schedule, b.mode).OK {
			continue
		}
		for _, dPrime := range b.schedule.AssignmentsFor(a.ID) {
			pPrime, ok := b.schedule.PostOn(a.ID, dPrime)
			if !ok {
				continue
			}
			if canModify, _ := b.CanModify(a.ID, dPrime, "fill_empty_shifts.swap"); !canModify {
				continue
			}
			success := b.atomic(func() bool {
				occupant, _ := b.schedule.ClearAt(dPrime, pPrime)
				var chosen worker.ID
				for _, candidate := range b.workers {
					if candidate.ID == a.ID {
						continue
					}
					if b.checker.CanAssign(candidate, dPrime, pPrime, b.schedule, b.mode).OK {
						chosen = candidate.ID
						break
					}
				}
				if chosen == roster.Empty {
					b.schedule.PlaceAt(dPrime, pPrime, occupant)
					return false
				}
				if !b.schedule.PlaceAt(slot.Date, slot.Post, a.ID) {
					b.schedule.PlaceAt(dPrime, pPrime, occupant)
					return false
				}
				return b.schedule.PlaceAt(dPrime, pPrime, chosen)
			})
			if success {
				b.recordSuccessfulPattern(slot.Date.Weekday(), slot.Post)
				return true
			}
		}
	}
	return false
}
