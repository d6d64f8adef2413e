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

package roster

import (
	"github.com/northbeam/rosterengine/pkg/calendar"
	"github.com/northbeam/rosterengine/pkg/worker"
)

// Pin is a (worker, date) pair pinned by the mandatory phase.
type Pin struct {
	Worker worker.ID
	Date   calendar.Day
}

// MandatoryLock is the append-only locked-mandatory set (invariant
// I2, I8). Entries are added only by the mandatory phase; nothing may
// remove an entry once added. The zero value is ready to use.
type MandatoryLock struct {
	pins map[Pin]struct{}
}

// Add pins (w, d). Safe to call more than once for the same pair.
func (m *MandatoryLock) Add(w worker.ID, d calendar.Day) {
	if m.pins == nil {
		m.pins = map[Pin]struct{}{}
	}
	m.pins[Pin{Worker: w, Date: d}] = struct{}{}
}

// Contains reports whether (w, d) is locked.
func (m *MandatoryLock) Contains(w worker.ID, d calendar.Day) bool {
	if m.pins == nil {
		return false
	}
	_, ok := m.pins[Pin{Worker: w, Date: d}]
	return ok
}

// Len returns the number of locked pins.
func (m *MandatoryLock) Len() int { return len(m.pins) }

// All returns every locked pin, order unspecified.
func (m *MandatoryLock) All() []Pin {
	out := make([]Pin, 0, len(m.pins))
	for p := range m.pins {
		out = append(out, p)
	}
	return out
}

// Clone returns an independent copy, used alongside Schedule.Clone
// when Phase 2.5 forks per-attempt state; the lock itself never
// shrinks within an attempt, but each attempt must not see another
// attempt's restorations.
func (m *MandatoryLock) Clone() *MandatoryLock {
	cp := &MandatoryLock{pins: make(map[Pin]struct{}, len(m.pins))}
	for p := range m.pins {
		cp.pins[p] = struct{}{}
	}
	return cp
}
