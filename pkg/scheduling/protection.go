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
	"github.com/northbeam/rosterengine/pkg/calendar"
	"github.com/northbeam/rosterengine/pkg/rosterrors"
	"github.com/northbeam/rosterengine/pkg/worker"
)

// CanModify is the protection oracle (spec §4.5): can_modify(w, d,
// op_name) = (w, d) not locked and not mandatory. Every transform
// that clears, overwrites, moves, or swaps an assignment calls this
// first and logs a structured "blocked" event on false.
func (b *Builder) CanModify(w worker.ID, d calendar.Day, opName string) (bool, error) {
	if b.lock.Contains(w, d) {
		b.log.Warn("blocked mutation of locked mandatory slot", zapFields(opName, w, d)...)
		return false, rosterrors.ProtectionViolation(opName, "worker", string(w), "date", d.String())
	}
	if wk := b.byID[w]; wk != nil && worker.IsMandatory(wk, d) {
		b.log.Warn("blocked mutation of mandatory slot", zapFields(opName, w, d)...)
		return false, rosterrors.ProtectionViolation(opName, "worker", string(w), "date", d.String())
	}
	return true, nil
}
