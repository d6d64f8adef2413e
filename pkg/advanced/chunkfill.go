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
	"sort"

	"github.com/northbeam/rosterengine/pkg/calendar"
	"github.com/northbeam/rosterengine/pkg/roster"
	"github.com/northbeam/rosterengine/pkg/scheduling"
	"github.com/northbeam/rosterengine/pkg/worker"
)

// chunkFill partitions the date range into 7-day windows and, within
// each, fills empty slots in deficit-priority order per worker (spec
// §4.9 strategy 1).
func (e *Engine) chunkFill() int {
	dates := e.b.Schedule().Dates()
	window := e.cfg.ChunkWindowDays
	filled := 0
	for start := 0; start < len(dates); start += window {
		end := start + window
		if end > len(dates) {
			end = len(dates)
		}
		filled += e.fillWindow(dates[start:end])
	}
	return filled
}

func (e *Engine) fillWindow(window []calendar.Day) int {
	filled := 0
	numPosts := e.b.Schedule().NumPosts()
	for _, d := range window {
		for p := 0; p < numPosts; p++ {
			if e.b.Schedule().At(d, p) != roster.Empty {
				continue
			}
			cands := e.b.Checker().CandidatesFor(e.b.Workers(), d, p, e.b.Schedule(), e.b.Mode())
			if len(cands) == 0 {
				continue
			}
			sortByDeficitDesc(cands, e.b)
			chosen := cands[0]
			if e.b.Atomic(func() bool {
				return e.b.Schedule().PlaceAt(d, p, chosen.ID)
			}) {
				filled++
			}
		}
	}
	return filled
}

// sortByDeficitDesc orders candidates by (target - count) descending,
// ties by ID ascending, spec §4.9's "deficit-priority ordering per
// worker".
func sortByDeficitDesc(cands []*worker.Worker, b *scheduling.Builder) {
	deficit := func(w *worker.Worker) int { return w.TargetShifts - b.Schedule().CountFor(w.ID) }
	sort.SliceStable(cands, func(i, j int) bool {
		di, dj := deficit(cands[i]), deficit(cands[j])
		if di != dj {
			return di > dj
		}
		return cands[i].ID < cands[j].ID
	})
}
