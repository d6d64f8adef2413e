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

// Package rosterrors defines the five structured error kinds of
// spec §7, kept in their own package so the taxonomy is declared once;
// pkg/scheduling is the package that raises them.
package rosterrors

import (
	"errors"

	"github.com/awslabs/operatorpkg/serrors"
)

// Kind tags which of the five error categories a value belongs to.
type Kind string

const (
	KindConfiguration       Kind = "ConfigurationError"
	KindInfeasibleSlot      Kind = "InfeasibleSlot"
	KindInvariantViolation  Kind = "InvariantViolation"
	KindProtectionViolation Kind = "ProtectionViolationAttempt"
	KindBudgetExceeded      Kind = "BudgetExceeded"
)

// ErrInfeasibleSlot and ErrBudgetExceeded are sentinel base errors so
// callers can branch with errors.Is instead of string matching or
// inspecting Kind, the same way the teacher's scheduler distinguishes
// reserved-offering and DRA errors in scheduler.go.
var (
	ErrInfeasibleSlot = errors.New("no feasible candidate for slot")
	ErrBudgetExceeded = errors.New("iteration or wall-clock budget exceeded")
)

// Configuration reports a ConfigurationError: a mandatory placement
// that cannot be satisfied (conflicting mandatory dates, mandatory
// date outside work-period, gap larger than the range). Reported, not
// recovered; the mandatory slot is left empty.
func Configuration(msg string, kv ...interface{}) error {
	return serrors.Wrap(errors.New(msg), withKind(KindConfiguration, kv)...)
}

// InfeasibleSlot reports that no candidate worker exists for a slot;
// the slot remains empty and a later phase may fill it.
func InfeasibleSlot(kv ...interface{}) error {
	return serrors.Wrap(ErrInfeasibleSlot, withKind(KindInfeasibleSlot, kv)...)
}

// InvariantViolation reports that a transform would leave I1-I8
// broken; the caller must roll the transform back atomically.
func InvariantViolation(msg string, kv ...interface{}) error {
	return serrors.Wrap(errors.New(msg), withKind(KindInvariantViolation, kv)...)
}

// ProtectionViolation reports a blocked attempt to mutate a locked
// mandatory slot, tagged with the calling operation's name.
func ProtectionViolation(op string, kv ...interface{}) error {
	return serrors.Wrap(errors.New("blocked: "+op+" touches a locked mandatory slot"), withKind(KindProtectionViolation, append([]interface{}{"op", op}, kv...))...)
}

// BudgetExceeded reports that the iteration or wall-clock cap was
// reached; the caller should return its best-known schedule.
func BudgetExceeded(kv ...interface{}) error {
	return serrors.Wrap(ErrBudgetExceeded, withKind(KindBudgetExceeded, kv)...)
}

func withKind(k Kind, kv []interface{}) []interface{} {
	return append([]interface{}{"kind", string(k)}, kv...)
}
