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

	"github.com/northbeam/rosterengine/pkg/calendar"
	"github.com/northbeam/rosterengine/pkg/roster"
	"github.com/northbeam/rosterengine/pkg/worker"
)

func (b *Builder) candidates(d calendar.Day, p int) []*worker.Worker {
	return b.checker.CandidatesFor(b.workers, d, p, b.schedule, b.mode)
}

// SelectWorker is select_worker(d, p, mode): the highest-scoring
// candidate for (d, p), ties broken by lower current count then
// lower worker id (spec §4.5). Returns (roster.Empty, false) when no
// candidate passes can_assign.
func (b *Builder) SelectWorker(d calendar.Day, p int) (worker.ID, bool) {
	return b.selectWorkerOrdered(d, p, nil)
}

// selectWorkerOrdered extends SelectWorker's tie-break chain with an
// explicit worker_order priority (spec §4.5 fill_empty_shifts takes a
// worker_order parameter); orderIndex may be nil to skip that tier.
func (b *Builder) selectWorkerOrdered(d calendar.Day, p int, orderIndex map[worker.ID]int) (worker.ID, bool) {
	cands := b.candidates(d, p)
	if len(cands) == 0 {
		return roster.Empty, false
	}
	scores := make(map[worker.ID]float64, len(cands))
	for _, w := range cands {
		scores[w.ID] = b.score(w, d, p)
	}
	sort.SliceStable(cands, func(i, j int) bool {
		wi, wj := cands[i], cands[j]
		if scores[wi.ID] != scores[wj.ID] {
			return scores[wi.ID] > scores[wj.ID]
		}
		ci, cj := b.schedule.CountFor(wi.ID), b.schedule.CountFor(wj.ID)
		if ci != cj {
			return ci < cj
		}
		if orderIndex != nil {
			oi, oj := orderIndex[wi.ID], orderIndex[wj.ID]
			if oi != oj {
				return oi < oj
			}
		}
		return wi.ID < wj.ID
	})
	return cands[0].ID, true
}

// mostConstrainedFirst reorders slots ascending by candidate count, so
// the tightest slots are attempted while the most options remain
// (spec §4.5 "most constrained first" global fill ordering).
func (b *Builder) mostConstrainedFirst(slots []roster.Slot) []roster.Slot {
	type scoredSlot struct {
		slot roster.Slot
		n    int
	}
	scored := make([]scoredSlot, len(slots))
	for i, s := range slots {
		scored[i] = scoredSlot{slot: s, n: len(b.candidates(s.Date, s.Post))}
	}
	sort.SliceStable(scored, func(i, j int) bool { return scored[i].n < scored[j].n })
	out := make([]roster.Slot, len(scored))
	for i, s := range scored {
		out[i] = s.slot
	}
	return out
}
