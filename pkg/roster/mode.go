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

// Mode is the constraint regime a builder run operates under (spec
// §3 "Mode flag"). Strict treats soft predicates as hard; Relaxed
// gates them by per-worker deficit.
type Mode int

const (
	Strict Mode = iota
	Relaxed
)

func (m Mode) String() string {
	if m == Relaxed {
		return "relaxed"
	}
	return "strict"
}

// TolerancePhase is the tier within Relaxed mode (spec §3 "Tolerance
// phase"). Phase1 is the ±8% goal; Phase2 is the ±12% absolute cap,
// entered only on stagnation below 95% coverage and never reverted.
type TolerancePhase int

const (
	Phase1 TolerancePhase = iota
	Phase2
)

// Percent returns the tolerance percentage for the phase.
func (p TolerancePhase) Percent() float64 {
	if p == Phase2 {
		return 12
	}
	return 8
}
