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

// Package worker holds the immutable per-run Worker record (spec §3)
// and the eligibility predicates that gate every candidate check
// (spec §4.2).
package worker

import (
	"github.com/samber/lo"

	"github.com/northbeam/rosterengine/pkg/calendar"
)

// Period is an inclusive, closed date interval during which a worker
// is, in principle, schedulable.
type Period struct {
	Start, End calendar.Day
}

// Contains reports whether d falls within the period, inclusive.
func (p Period) Contains(d calendar.Day) bool {
	return !d.Before(p.Start) && !d.After(p.End)
}

// ID identifies a Worker. Opaque to the engine.
type ID string

// Worker is the immutable per-run worker record (spec §3). All fields
// are set once at construction; the engine never mutates a Worker.
type Worker struct {
	ID                     ID
	TargetShifts           int
	WorkPercentage         int // 1-100
	WorkPeriods            []Period
	DaysOff                map[calendar.Day]struct{}
	MandatoryDays          map[calendar.Day]struct{}
	IncompatibleWith       map[ID]struct{}
	GapBetweenShifts       int
	MaxConsecutiveWeekends int
}

// New constructs a Worker, normalizing nil set fields to empty maps so
// callers never need nil-checks downstream.
func New(id ID, targetShifts, workPercentage int, periods []Period, opts ...Option) *Worker {
	w := &Worker{
		ID:               id,
		TargetShifts:     targetShifts,
		WorkPercentage:   workPercentage,
		WorkPeriods:      periods,
		DaysOff:          map[calendar.Day]struct{}{},
		MandatoryDays:    map[calendar.Day]struct{}{},
		IncompatibleWith: map[ID]struct{}{},
		GapBetweenShifts: 1,
	}
	for _, opt := range opts {
		opt(w)
	}
	return w
}

// Option customizes a Worker at construction.
type Option func(*Worker)

// WithDaysOff adds explicit unavailable dates.
func WithDaysOff(days ...calendar.Day) Option {
	return func(w *Worker) {
		for _, d := range days {
			w.DaysOff[d] = struct{}{}
		}
	}
}

// WithMandatoryDays adds dates the worker must be assigned.
func WithMandatoryDays(days ...calendar.Day) Option {
	return func(w *Worker) {
		for _, d := range days {
			w.MandatoryDays[d] = struct{}{}
		}
	}
}

// WithIncompatibleWith records a symmetric incompatibility; callers
// are responsible for applying it to both workers.
func WithIncompatibleWith(ids ...ID) Option {
	return func(w *Worker) {
		for _, id := range ids {
			w.IncompatibleWith[id] = struct{}{}
		}
	}
}

// WithGapBetweenShifts overrides the default gap of 1 day.
func WithGapBetweenShifts(days int) Option {
	return func(w *Worker) { w.GapBetweenShifts = days }
}

// WithMaxConsecutiveWeekends caps the rolling consecutive
// special-weekend window (spec §3, consumed by S6 in pkg/constraints).
func WithMaxConsecutiveWeekends(n int) Option {
	return func(w *Worker) { w.MaxConsecutiveWeekends = n }
}

// IsIncompatibleWith reports whether o is in w's own incompatibility
// set. Only w's side is consulted; callers that must tolerate
// asymmetric input data check both directions themselves.
func (w *Worker) IsIncompatibleWith(o ID) bool {
	_, ok := w.IncompatibleWith[o]
	return ok
}

// Targets returns worker IDs in construction order, a convenience
// used as the base slice for deterministic worker-ordering strategies
// elsewhere in the engine (sorted or shuffled by the caller as
// needed).
func Targets(workers []*Worker) []ID {
	return lo.Map(workers, func(w *Worker, _ int) ID { return w.ID })
}

// ByID indexes a worker slice by ID for O(1) lookup.
func ByID(workers []*Worker) map[ID]*Worker {
	return lo.SliceToMap(workers, func(w *Worker) (ID, *Worker) { return w.ID, w })
}
