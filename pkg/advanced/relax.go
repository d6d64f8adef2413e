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

import "github.com/northbeam/rosterengine/pkg/roster"

// progressiveRelaxation escalates Strict -> Relaxed(Phase1) ->
// Relaxed(Phase2), bounded, retrying chunk fill and backtracking at
// each wider tier and keeping only escalations that reduce the empty
// count (spec §4.9 strategy 4, "accepting only improvements").
//
// Mode escalation here is one-way: once a transform runs in Relaxed
// mode the builder's own guard (pkg/scheduling's EnableStrict) refuses
// to step back to Strict, matching spec §4.10's terminal-state model
// — the advanced engine is the last mutator before Phase 4 validation,
// so there is no need to revert.
func (e *Engine) progressiveRelaxation() int {
	filled := 0
	tiers := []roster.TolerancePhase{roster.Phase1, roster.Phase2}

	if e.b.Mode() != roster.Relaxed {
		e.b.EnableRelaxed()
	}
	for _, phase := range tiers {
		before := len(e.b.Schedule().EmptySlots())
		schedSnapshot, lockSnapshot := e.b.CloneState()
		e.b.SetPhase(phase)

		e.chunkFill()
		e.backtrack()

		after := len(e.b.Schedule().EmptySlots())
		if after < before {
			filled += before - after
		} else {
			e.b.Restore(schedSnapshot, lockSnapshot)
		}
		if e.remaining() == 0 {
			break
		}
	}
	return filled
}
