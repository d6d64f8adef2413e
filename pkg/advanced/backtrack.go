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
	"errors"
	"sort"

	"github.com/avast/retry-go"
	"github.com/mitchellh/hashstructure/v2"

	"github.com/northbeam/rosterengine/pkg/roster"
	"github.com/northbeam/rosterengine/pkg/worker"
)

// failedPair is the memo key's source struct: a rejected (slot,
// worker) pair, hashed to a uint64 via hashstructure so the memo
// doesn't need a bespoke comparable key type per caller.
type failedPair struct {
	Date   string
	Post   int
	Worker worker.ID
}

// errTryNextCandidate signals retry-go to advance to the next
// candidate rather than abort the whole slot.
var errTryNextCandidate = errors.New("candidate rejected, try next")

// backtrack is the MRV-ordered adaptive backtracking pass (spec §4.9
// strategy 2): repeatedly pick the empty slot with the fewest valid
// candidates, try each in score order via a bounded retry-go loop,
// and memoize (slot, worker) pairs that fail so later passes skip
// them instead of re-deriving the same failure.
func (e *Engine) backtrack() int {
	filled := 0
	for attempt := 0; attempt < e.cfg.MaxBacktrackAttempts; attempt++ {
		slots := e.b.Schedule().EmptySlots()
		if len(slots) == 0 {
			break
		}
		slot, ok := e.mrvSlot(slots)
		if !ok {
			break
		}
		cands := e.b.Checker().CandidatesFor(e.b.Workers(), slot.Date, slot.Post, e.b.Schedule(), e.b.Mode())
		cands = e.excludeFailed(slot, cands)
		e.sortByScoreThenID(cands, slot)
		if e.tryCandidatesWithRetry(slot, cands) {
			filled++
		} else {
			// No candidate worked for this slot in this pass; mark it
			// fully exhausted so the next MRV pick moves on instead of
			// looping on the same unsolvable slot.
			for _, c := range cands {
				e.markFailed(slot, c.ID)
			}
			if len(cands) == 0 {
				break
			}
		}
	}
	return filled
}

// mrvSlot returns the empty slot with the fewest valid candidates not
// yet memoized as failed (minimum-remaining-values heuristic), ties
// broken by date then post for determinism. Slots with no such
// candidate left are skipped; false means no slot has any.
func (e *Engine) mrvSlot(slots []roster.Slot) (roster.Slot, bool) {
	type scored struct {
		slot roster.Slot
		n    int
	}
	all := make([]scored, 0, len(slots))
	for _, s := range slots {
		n := len(e.excludeFailed(s, e.b.Checker().CandidatesFor(e.b.Workers(), s.Date, s.Post, e.b.Schedule(), e.b.Mode())))
		if n == 0 {
			continue
		}
		all = append(all, scored{slot: s, n: n})
	}
	if len(all) == 0 {
		return roster.Slot{}, false
	}
	sort.SliceStable(all, func(i, j int) bool {
		if all[i].n != all[j].n {
			return all[i].n < all[j].n
		}
		if !all[i].slot.Date.Equal(all[j].slot.Date) {
			return all[i].slot.Date.Before(all[j].slot.Date)
		}
		return all[i].slot.Post < all[j].slot.Post
	})
	return all[0].slot, true
}

func (e *Engine) excludeFailed(slot roster.Slot, cands []*worker.Worker) []*worker.Worker {
	out := make([]*worker.Worker, 0, len(cands))
	for _, c := range cands {
		if _, failed := e.failedPairs[e.key(slot, c.ID)]; !failed {
			out = append(out, c)
		}
	}
	return out
}

func (e *Engine) markFailed(slot roster.Slot, id worker.ID) {
	e.failedPairs[e.key(slot, id)] = struct{}{}
}

// key hashes a (slot, worker) pair with hashstructure, the memo key
// spec §4.9's "memoize failed (slot, worker) pairs to prune" needs.
func (e *Engine) key(slot roster.Slot, id worker.ID) uint64 {
	h, err := hashstructure.Hash(failedPair{Date: slot.Date.String(), Post: slot.Post, Worker: id}, hashstructure.FormatV2, nil)
	if err != nil {
		// Hashing a plain string/int/worker.ID struct cannot fail;
		// this is an unreachable defensive fallback.
		return 0
	}
	return h
}

// tryCandidatesWithRetry attempts candidates in order using retry-go's
// bounded-attempt loop, gated on errTryNextCandidate, in place of a
// hand-rolled for-with-break counter.
func (e *Engine) tryCandidatesWithRetry(slot roster.Slot, cands []*worker.Worker) bool {
	if len(cands) == 0 {
		return false
	}
	idx := 0
	placed := false
	err := retry.Do(
		func() error {
			if idx >= len(cands) {
				return retry.Unrecoverable(errTryNextCandidate)
			}
			w := cands[idx]
			idx++
			if e.b.Atomic(func() bool {
				return e.b.Schedule().PlaceAt(slot.Date, slot.Post, w.ID)
			}) {
				placed = true
				return nil
			}
			e.markFailed(slot, w.ID)
			return errTryNextCandidate
		},
		retry.Attempts(uint(len(cands))),
		retry.RetryIf(func(err error) bool { return errors.Is(err, errTryNextCandidate) }),
		retry.Delay(0),
		retry.LastErrorOnly(true),
	)
	return err == nil && placed
}

// sortByScoreThenID orders candidates by score(w, slot.Date, slot.Post)
// descending, the same ranking the builder's own SelectWorker uses,
// ties broken by ID ascending for determinism.
func (e *Engine) sortByScoreThenID(cands []*worker.Worker, slot roster.Slot) {
	scores := make(map[worker.ID]float64, len(cands))
	for _, c := range cands {
		scores[c.ID] = e.b.Score(c, slot.Date, slot.Post)
	}
	sort.SliceStable(cands, func(i, j int) bool {
		if scores[cands[i].ID] != scores[cands[j].ID] {
			return scores[cands[i].ID] > scores[cands[j].ID]
		}
		return cands[i].ID < cands[j].ID
	})
}
