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

// Package roster holds the core Schedule/Slot data model (spec §3):
// the date->posts grid, the derived worker->dates index kept coherent
// with it (invariant I1), and the append-only locked-mandatory set
// (invariant I2, I8). Schedule is owned by pkg/scheduling's builder;
// other packages reach it through the builder's Schedule accessor.
package roster

import (
	"sort"

	"github.com/northbeam/rosterengine/pkg/calendar"
	"github.com/northbeam/rosterengine/pkg/worker"
)

// Empty is the sentinel worker ID denoting an unfilled slot.
const Empty worker.ID = ""

// Slot is a (date, post) pair, spec's unit of assignment.
type Slot struct {
	Date calendar.Day
	Post int
}

// Schedule is the date -> ordered posts grid plus the worker -> dates
// index derived from it (invariant I1: schedule[d][p] = w iff
// d is in worker_assignments[w]).
type Schedule struct {
	numPosts int
	dates    []calendar.Day
	grid     map[calendar.Day][]worker.ID
	byWorker map[worker.ID]map[calendar.Day]int // date -> post
}

// New constructs an empty Schedule over the given dates with numPosts
// posts per date. dates need not be sorted; they are sorted and
// deduplicated on construction.
func New(dates []calendar.Day, numPosts int) *Schedule {
	uniq := map[calendar.Day]struct{}{}
	for _, d := range dates {
		uniq[d] = struct{}{}
	}
	sorted := make([]calendar.Day, 0, len(uniq))
	for d := range uniq {
		sorted = append(sorted, d)
	}
	sort.Slice(sorted, func(i, j int) bool { return sorted[i].Before(sorted[j]) })

	grid := make(map[calendar.Day][]worker.ID, len(sorted))
	for _, d := range sorted {
		row := make([]worker.ID, numPosts)
		for i := range row {
			row[i] = Empty
		}
		grid[d] = row
	}
	return &Schedule{
		numPosts: numPosts,
		dates:    sorted,
		grid:     grid,
		byWorker: map[worker.ID]map[calendar.Day]int{},
	}
}

// NumPosts returns the fixed number of posts per date.
func (s *Schedule) NumPosts() int { return s.numPosts }

// Dates returns the schedule's dates in ascending order. The returned
// slice is owned by the caller.
func (s *Schedule) Dates() []calendar.Day {
	out := make([]calendar.Day, len(s.dates))
	copy(out, s.dates)
	return out
}

// At returns the worker assigned to (d, p), or Empty.
func (s *Schedule) At(d calendar.Day, p int) worker.ID {
	row, ok := s.grid[d]
	if !ok || p < 0 || p >= len(row) {
		return Empty
	}
	return row[p]
}

// Row returns a copy of the posts assigned on d.
func (s *Schedule) Row(d calendar.Day) []worker.ID {
	row, ok := s.grid[d]
	if !ok {
		return nil
	}
	out := make([]worker.ID, len(row))
	copy(out, row)
	return out
}

// PlaceAt assigns w to the specific (d, p) slot, which must currently
// be Empty. It is the single mutation primitive everything else in
// this package composes from, so invariant I1 is maintained in one
// place.
func (s *Schedule) PlaceAt(d calendar.Day, p int, w worker.ID) bool {
	row, ok := s.grid[d]
	if !ok || p < 0 || p >= len(row) || row[p] != Empty {
		return false
	}
	row[p] = w
	if s.byWorker[w] == nil {
		s.byWorker[w] = map[calendar.Day]int{}
	}
	s.byWorker[w][d] = p
	return true
}

// ClearAt empties (d, p) and returns the worker that had been there,
// or (Empty, false) if it was already empty.
func (s *Schedule) ClearAt(d calendar.Day, p int) (worker.ID, bool) {
	row, ok := s.grid[d]
	if !ok || p < 0 || p >= len(row) {
		return Empty, false
	}
	w := row[p]
	if w == Empty {
		return Empty, false
	}
	row[p] = Empty
	delete(s.byWorker[w], d)
	if len(s.byWorker[w]) == 0 {
		delete(s.byWorker, w)
	}
	return w, true
}

// FirstEmptyPost returns the lowest-index empty post on d, or -1 if
// every post on d is filled.
func (s *Schedule) FirstEmptyPost(d calendar.Day) int {
	row, ok := s.grid[d]
	if !ok {
		return -1
	}
	for i, w := range row {
		if w == Empty {
			return i
		}
	}
	return -1
}

// EmptySlots returns every (date, post) pair still Empty, in schedule
// order.
func (s *Schedule) EmptySlots() []Slot {
	var out []Slot
	for _, d := range s.dates {
		for p, w := range s.grid[d] {
			if w == Empty {
				out = append(out, Slot{Date: d, Post: p})
			}
		}
	}
	return out
}

// Coverage returns (filled, total) slot counts.
func (s *Schedule) Coverage() (filled, total int) {
	total = len(s.dates) * s.numPosts
	for _, d := range s.dates {
		for _, w := range s.grid[d] {
			if w != Empty {
				filled++
			}
		}
	}
	return filled, total
}

// AssignmentsFor returns w's assigned dates in ascending order.
func (s *Schedule) AssignmentsFor(w worker.ID) []calendar.Day {
	dm := s.byWorker[w]
	out := make([]calendar.Day, 0, len(dm))
	for d := range dm {
		out = append(out, d)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Before(out[j]) })
	return out
}

// PostOn returns the post w occupies on d, and whether w is assigned
// on d at all.
func (s *Schedule) PostOn(w worker.ID, d calendar.Day) (int, bool) {
	p, ok := s.byWorker[w][d]
	return p, ok
}

// CountFor returns w's total assignment count.
func (s *Schedule) CountFor(w worker.ID) int { return len(s.byWorker[w]) }

// WorkersOn returns every worker assigned on d, used by
// incompatibility checks (H2).
func (s *Schedule) WorkersOn(d calendar.Day) []worker.ID {
	row := s.grid[d]
	out := make([]worker.ID, 0, len(row))
	for _, w := range row {
		if w != Empty {
			out = append(out, w)
		}
	}
	return out
}

// Clone performs a deep structural copy, the basis for Phase 2.5's
// independent per-attempt state (spec §9 "copy-on-write for
// attempts"). Each attempt clones once up front and mutates its own
// copy freely.
func (s *Schedule) Clone() *Schedule {
	grid := make(map[calendar.Day][]worker.ID, len(s.grid))
	for d, row := range s.grid {
		cp := make([]worker.ID, len(row))
		copy(cp, row)
		grid[d] = cp
	}
	byWorker := make(map[worker.ID]map[calendar.Day]int, len(s.byWorker))
	for w, dm := range s.byWorker {
		cp := make(map[calendar.Day]int, len(dm))
		for d, p := range dm {
			cp[d] = p
		}
		byWorker[w] = cp
	}
	dates := make([]calendar.Day, len(s.dates))
	copy(dates, s.dates)
	return &Schedule{numPosts: s.numPosts, dates: dates, grid: grid, byWorker: byWorker}
}
