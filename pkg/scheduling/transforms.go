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
	"sort"
	"time"

	"github.com/northbeam/rosterengine/pkg/balance"
	"github.com/northbeam/rosterengine/pkg/calendar"
	"github.com/northbeam/rosterengine/pkg/worker"
)

// BalanceWorkloads attempts to move one shift from each over-target
// worker to an under-target worker via transfer_validity + can_assign
// (spec §4.5), ranked by balance.RebalancingRecommendations. Returns
// the number of transfers applied.
func (b *Builder) BalanceWorkloads(capPercent float64) int {
	b.noteTransform()
	moved := 0
	for _, rec := range balance.RebalancingRecommendations(b.byID, b.schedule, b.lock, b.mode, capPercent) {
		if b.transferOne(rec.Over, rec.Under, capPercent) {
			moved++
		}
	}
	return moved
}

func (b *Builder) transferOne(fromID, toID worker.ID, capPercent float64) bool {
	for _, d := range b.schedule.AssignmentsFor(fromID) {
		if ok, _ := b.CanModify(fromID, d, "balance_workloads"); !ok {
			continue
		}
		if ok, _ := balance.TransferValidity(fromID, toID, d, b.byID, b.schedule, b.lock, b.mode, capPercent); !ok {
			continue
		}
		p, _ := b.schedule.PostOn(fromID, d)
		success := b.atomic(func() bool {
			b.schedule.ClearAt(d, p)
			if !b.checker.CanAssign(b.byID[toID], d, p, b.schedule, b.mode).OK {
				return false
			}
			return b.schedule.PlaceAt(d, p, toID)
		})
		if success {
			b.recordSuccessfulPattern(d.Weekday(), p)
			return true
		}
	}
	return false
}

// BalanceWeekdayDistribution evens out each worker's own weekday mix
// by swapping one of their overrepresented-weekday dates with another
// worker's underrepresented-weekday date (spec §4.5, "analogous [to
// balance_workloads] over weekday buckets").
func (b *Builder) BalanceWeekdayDistribution() int {
	b.noteTransform()
	swapped := 0
	for _, w := range b.workers {
		over, under, ok := weekdayImbalance(b, w.ID)
		if !ok {
			continue
		}
		if b.trySwapWeekday(w.ID, over, under) {
			swapped++
		}
	}
	return swapped
}

func weekdayImbalance(b *Builder, id worker.ID) (over, under time.Weekday, ok bool) {
	counts := map[time.Weekday]int{}
	for _, d := range b.schedule.AssignmentsFor(id) {
		counts[d.Weekday()]++
	}
	if len(counts) == 0 {
		return 0, 0, false
	}
	maxCount, minCount := -1, 1<<30
	for wd := time.Sunday; wd <= time.Saturday; wd++ {
		c := counts[wd]
		if c > maxCount {
			maxCount, over = c, wd
		}
		if c < minCount {
			minCount, under = c, wd
		}
	}
	if maxCount-minCount <= 1 {
		return 0, 0, false
	}
	return over, under, true
}

func (b *Builder) trySwapWeekday(wID worker.ID, overWd, underWd time.Weekday) bool {
	var overDate calendar.Day
	found := false
	for _, d := range b.schedule.AssignmentsFor(wID) {
		if d.Weekday() == overWd {
			overDate = d
			found = true
			break
		}
	}
	if !found {
		return false
	}
	if ok, _ := b.CanModify(wID, overDate, "balance_weekday_distribution"); !ok {
		return false
	}
	overPost, _ := b.schedule.PostOn(wID, overDate)
	w := b.byID[wID]

	for _, other := range b.workers {
		if other.ID == wID {
			continue
		}
		for _, d2 := range b.schedule.AssignmentsFor(other.ID) {
			if d2.Weekday() != underWd {
				continue
			}
			if ok, _ := b.CanModify(other.ID, d2, "balance_weekday_distribution"); !ok {
				continue
			}
			otherPost, _ := b.schedule.PostOn(other.ID, d2)
			success := b.atomic(func() bool {
				b.schedule.ClearAt(overDate, overPost)
				b.schedule.ClearAt(d2, otherPost)
				if !b.checker.CanAssign(w, d2, otherPost, b.schedule, b.mode).OK {
					return false
				}
				if !b.checker.CanAssign(other, overDate, overPost, b.schedule, b.mode).OK {
					return false
				}
				if !b.schedule.PlaceAt(d2, otherPost, wID) {
					return false
				}
				return b.schedule.PlaceAt(overDate, overPost, other.ID)
			})
			if success {
				return true
			}
		}
	}
	return false
}

// RebalanceWeekendShifts moves special-day assignments from
// over-represented workers to under-represented ones to equalize
// weekend counts within the active envelope (spec §4.5).
func (b *Builder) RebalanceWeekendShifts(capPercent float64) int {
	b.noteTransform()
	moved := 0
	over, under := b.weekendImbalancedWorkers()
	for _, overID := range over {
		placed := false
		for _, d := range b.schedule.AssignmentsFor(overID) {
			if !b.checker.Holidays.IsSpecial(d) {
				continue
			}
			if ok, _ := b.CanModify(overID, d, "rebalance_weekend_shifts"); !ok {
				continue
			}
			p, _ := b.schedule.PostOn(overID, d)
			for _, underID := range under {
				if underID == overID {
					continue
				}
				toW := b.byID[underID]
				success := b.atomic(func() bool {
					b.schedule.ClearAt(d, p)
					if !b.checker.CanAssign(toW, d, p, b.schedule, b.mode).OK {
						return false
					}
					return b.schedule.PlaceAt(d, p, underID)
				})
				if success {
					moved++
					placed = true
					break
				}
			}
			if placed {
				break
			}
		}
	}
	return moved
}

func (b *Builder) weekendImbalancedWorkers() (over, under []worker.ID) {
	for _, w := range b.workers {
		count := specialDayCount(b, w.ID)
		expected := balance.ExpectedWeekendShare(w.TargetShifts, b.checker.Range.SpecialDays, b.checker.Range.TotalDays)
		if balance.WithinEnvelope(count, expected, b.mode) {
			continue
		}
		if float64(count) > expected {
			over = append(over, w.ID)
		} else {
			under = append(under, w.ID)
		}
	}
	sort.Slice(over, func(i, j int) bool { return over[i] < over[j] })
	sort.Slice(under, func(i, j int) bool { return under[i] < under[j] })
	return over, under
}

// SwapSpecialDayShifts swaps one special-day assignment of an
// over-represented worker with one non-special assignment of an
// under-represented worker, correcting both sides' weekend balance in
// a single move (spec §4.5).
func (b *Builder) SwapSpecialDayShifts() int {
	b.noteTransform()
	swapped := 0
	over, under := b.weekendImbalancedWorkers()
	for _, overID := range over {
		for _, underID := range under {
			if overID == underID {
				continue
			}
			if b.trySwapSpecialDay(overID, underID) {
				swapped++
			}
		}
	}
	return swapped
}

func (b *Builder) trySwapSpecialDay(overID, underID worker.ID) bool {
	overW, underW := b.byID[overID], b.byID[underID]
	for _, d1 := range b.schedule.AssignmentsFor(overID) {
		if !b.checker.Holidays.IsSpecial(d1) {
			continue
		}
		if ok, _ := b.CanModify(overID, d1, "swap_special_day_shifts"); !ok {
			continue
		}
		p1, _ := b.schedule.PostOn(overID, d1)
		for _, d2 := range b.schedule.AssignmentsFor(underID) {
			if b.checker.Holidays.IsSpecial(d2) {
				continue
			}
			if ok, _ := b.CanModify(underID, d2, "swap_special_day_shifts"); !ok {
				continue
			}
			p2, _ := b.schedule.PostOn(underID, d2)
			success := b.atomic(func() bool {
				b.schedule.ClearAt(d1, p1)
				b.schedule.ClearAt(d2, p2)
				if !b.checker.CanAssign(underW, d1, p1, b.schedule, b.mode).OK {
					return false
				}
				if !b.checker.CanAssign(overW, d2, p2, b.schedule, b.mode).OK {
					return false
				}
				if !b.schedule.PlaceAt(d1, p1, underID) {
					return false
				}
				return b.schedule.PlaceAt(d2, p2, overID)
			})
			if success {
				return true
			}
		}
	}
	return false
}

// AdjustLastPostDistribution swaps the post indices of two
// already-assigned workers on the same date to balance last-post
// counts (spec §4.5).
func (b *Builder) AdjustLastPostDistribution() int {
	b.noteTransform()
	lastPost := b.schedule.NumPosts() - 1
	if lastPost <= 0 {
		return 0
	}
	adjusted := 0
	over, under := b.lastPostImbalancedWorkers()
	for _, overID := range over {
		placed := false
		for _, d := range b.schedule.AssignmentsFor(overID) {
			p, _ := b.schedule.PostOn(overID, d)
			if p != lastPost {
				continue
			}
			if ok, _ := b.CanModify(overID, d, "adjust_last_post_distribution"); !ok {
				continue
			}
			for _, underID := range under {
				if underID == overID {
					continue
				}
				p2, ok2 := b.schedule.PostOn(underID, d)
				if !ok2 || p2 == lastPost {
					continue
				}
				if ok, _ := b.CanModify(underID, d, "adjust_last_post_distribution"); !ok {
					continue
				}
				overW, underW := b.byID[overID], b.byID[underID]
				success := b.atomic(func() bool {
					b.schedule.ClearAt(d, p)
					b.schedule.ClearAt(d, p2)
					if !b.checker.CanAssign(underW, d, p, b.schedule, b.mode).OK {
						return false
					}
					if !b.checker.CanAssign(overW, d, p2, b.schedule, b.mode).OK {
						return false
					}
					if !b.schedule.PlaceAt(d, p, underID) {
						return false
					}
					return b.schedule.PlaceAt(d, p2, overID)
				})
				if success {
					adjusted++
					placed = true
					break
				}
			}
			if placed {
				break
			}
		}
	}
	return adjusted
}

func (b *Builder) lastPostImbalancedWorkers() (over, under []worker.ID) {
	lastPost := b.schedule.NumPosts() - 1
	for _, w := range b.workers {
		count := lastPostCount(b, w.ID, lastPost)
		expected := balance.ExpectedLastPostShare(w.TargetShifts, b.schedule.NumPosts())
		if balance.WithinEnvelope(count, expected, b.mode) {
			continue
		}
		if float64(count) > expected {
			over = append(over, w.ID)
		} else {
			under = append(under, w.ID)
		}
	}
	sort.Slice(over, func(i, j int) bool { return over[i] < over[j] })
	sort.Slice(under, func(i, j int) bool { return under[i] < under[j] })
	return over, under
}

// RedistributeExcessShifts force-moves shifts away from any worker
// who exceeds the H3 cap after some prior transformation — a guard
// that should not normally trigger (spec §4.5).
func (b *Builder) RedistributeExcessShifts(capPercent float64) int {
	b.noteTransform()
	moved := 0
	for _, w := range b.workers {
		limit := worker.TargetCap(w.TargetShifts)
		for b.schedule.CountFor(w.ID) > limit {
			if !b.forceMoveOneFrom(w.ID) {
				break
			}
			moved++
		}
	}
	return moved
}

// SwapAssignments swaps the workers holding two existing assignments,
// used by pkg/optimizer for bounded random 2-swap perturbations (spec
// §4.6 "apply bounded random perturbations (2-swaps) proportional to
// intensity").
func (b *Builder) SwapAssignments(w1ID worker.ID, d1 calendar.Day, w2ID worker.ID, d2 calendar.Day) bool {
	b.noteTransform()
	if w1ID == w2ID {
		return false
	}
	if ok, _ := b.CanModify(w1ID, d1, "optimizer.perturbation"); !ok {
		return false
	}
	if ok, _ := b.CanModify(w2ID, d2, "optimizer.perturbation"); !ok {
		return false
	}
	p1, ok1 := b.schedule.PostOn(w1ID, d1)
	p2, ok2 := b.schedule.PostOn(w2ID, d2)
	if !ok1 || !ok2 {
		return false
	}
	w1, w2 := b.byID[w1ID], b.byID[w2ID]
	if w1 == nil || w2 == nil {
		return false
	}
	return b.atomic(func() bool {
		b.schedule.ClearAt(d1, p1)
		b.schedule.ClearAt(d2, p2)
		if !b.checker.CanAssign(w2, d1, p1, b.schedule, b.mode).OK {
			return false
		}
		if !b.checker.CanAssign(w1, d2, p2, b.schedule, b.mode).OK {
			return false
		}
		if !b.schedule.PlaceAt(d1, p1, w2ID) {
			return false
		}
		return b.schedule.PlaceAt(d2, p2, w1ID)
	})
}

func (b *Builder) forceMoveOneFrom(fromID worker.ID) bool {
	for _, d := range b.schedule.AssignmentsFor(fromID) {
		if ok, _ := b.CanModify(fromID, d, "redistribute_excess_shifts"); !ok {
			continue
		}
		p, _ := b.schedule.PostOn(fromID, d)
		for _, w := range b.workers {
			if w.ID == fromID {
				continue
			}
			success := b.atomic(func() bool {
				b.schedule.ClearAt(d, p)
				if !b.checker.CanAssign(w, d, p, b.schedule, b.mode).OK {
					return false
				}
				return b.schedule.PlaceAt(d, p, w.ID)
			})
			if success {
				return true
			}
		}
	}
	return false
}
