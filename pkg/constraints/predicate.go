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

// Package constraints implements the hard and soft candidate
// predicates (spec §4.3) and their conjunction, can_assign. Every
// predicate is a pure function of (worker, date[, post], schedule,
// mode) returning a Result, never mutating its arguments.
package constraints

// Result is a predicate outcome: whether the candidate passes, and if
// not, a short human-readable reason (spec's "(bool, reason)" result
// shape, surfaced unchanged in ConfigurationError/InfeasibleSlot
// reporting).
type Result struct {
	OK     bool
	Reason string
}

// Pass is the canonical passing Result.
var Pass = Result{OK: true}

// Fail builds a failing Result with the given reason.
func Fail(reason string) Result {
	return Result{OK: false, Reason: reason}
}

// And short-circuits through results in order, returning the first
// failure or Pass if every result passed.
func And(results ...Result) Result {
	for _, r := range results {
		if !r.OK {
			return r
		}
	}
	return Pass
}
