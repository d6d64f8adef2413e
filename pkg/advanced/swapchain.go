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

package advanced

import (
	"github.com/northbeam/rosterengine/pkg/calendar"
	"github.com/northbeam/rosterengine/pkg/roster"
	"github.com/northbeam/rosterengine/pkg/worker"
)

// swapChains looks, for every remaining empty slot, for a two- or
// three-worker reassignment chain that fills it without creating a
// new empty slot elsewhere (spec §4.9 strategy 3).
func (e *Engine) swapChains() int {
	filled := 0
	for attempt := 0; attempt < e.cfg.MaxSwapChainAttempts; attempt++ {
		slots := e.b.Schedule().EmptySlots()
		if len(slots) == 0 {
			break
		}
		progressed := false
		for _, slot := range slots {
			if e.tryChain(slot) {
				filled++
				progressed = true
				break
			}
		}
		if !progressed {
			break
		}
	}
	return filled
}

// tryChain finds worker A eligible for slot, whose existing assignment
// d' can be vacated: first tries a direct two-worker swap (B takes
// d'), falling back to a three-worker chain (B moves from d'' into
// d', C takes d''). Both candidates are explored inside one Atomic
// closure so a partial chain never leaves the schedule mid-mutation.
func (e *Engine) tryChain(slot roster.Slot) bool {
	for _, a := range e.b.Workers() {
		if !e.b.Checker().CanAssign(a, slot.Date, slot.Post, e.b.Schedule(), e.b.Mode()).OK {
			continue
		}
		for _, dPrime := range e.b.Schedule().AssignmentsFor(a.ID) {
			pPrime, ok := e.b.Schedule().PostOn(a.ID, dPrime)
			if !ok {
				continue
			}
			if canModify, _ := e.b.CanModify(a.ID, dPrime, "advanced.swap_chain"); !canModify {
				continue
			}
			if e.b.Atomic(func() bool {
				occupant, _ := e.b.Schedule().ClearAt(dPrime, pPrime)
				if !e.b.Schedule().PlaceAt(slot.Date, slot.Post, a.ID) {
					e.b.Schedule().PlaceAt(dPrime, pPrime, occupant)
					return false
				}
				if e.fillDirect(dPrime, pPrime, a.ID) {
					return true
				}
				return e.fillViaThirdWorker(dPrime, pPrime, a.ID)
			}) {
				return true
			}
		}
	}
	return false
}

// fillDirect is the two-worker swap's second half: some B other than
// exclude takes the vacated (d, p) outright.
func (e *Engine) fillDirect(d calendar.Day, p int, exclude worker.ID) bool {
	for _, b := range e.b.Workers() {
		if b.ID == exclude {
			continue
		}
		if e.b.Checker().CanAssign(b, d, p, e.b.Schedule(), e.b.Mode()).OK {
			return e.b.Schedule().PlaceAt(d, p, b.ID)
		}
	}
	return false
}

// fillViaThirdWorker is the three-worker chain's second half: some B
// (other than exclude) vacates its own assignment d'' to take (d, p),
// and some C takes d''.
func (e *Engine) fillViaThirdWorker(d calendar.Day, p int, exclude worker.ID) bool {
	for _, b := range e.b.Workers() {
		if b.ID == exclude {
			continue
		}
		if !e.b.Checker().CanAssign(b, d, p, e.b.Schedule(), e.b.Mode()).OK {
			continue
		}
		for _, dDouble := range e.b.Schedule().AssignmentsFor(b.ID) {
			pDouble, ok := e.b.Schedule().PostOn(b.ID, dDouble)
			if !ok {
				continue
			}
			if canModify, _ := e.b.CanModify(b.ID, dDouble, "advanced.swap_chain"); !canModify {
				continue
			}
			occupant, _ := e.b.Schedule().ClearAt(dDouble, pDouble)
			if !e.b.Schedule().PlaceAt(d, p, b.ID) {
				e.b.Schedule().PlaceAt(dDouble, pDouble, occupant)
				continue
			}
			for _, c := range e.b.Workers() {
				if c.ID == exclude || c.ID == b.ID {
					continue
				}
				if e.b.Checker().CanAssign(c, dDouble, pDouble, e.b.Schedule(), e.b.Mode()).OK {
					if e.b.Schedule().PlaceAt(dDouble, pDouble, c.ID) {
						return true
					}
				}
			}
			// No C found: undo B's move and restore its prior slot.
			e.b.Schedule().ClearAt(d, p)
			e.b.Schedule().PlaceAt(dDouble, pDouble, occupant)
		}
	}
	return false
}
