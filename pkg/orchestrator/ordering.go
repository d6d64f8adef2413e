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

package orchestrator

import (
	"math/rand"
	"sort"

	"github.com/northbeam/rosterengine/pkg/roster"
	"github.com/northbeam/rosterengine/pkg/worker"
)

type orderingStrategy int

const (
	strategyBalanced orderingStrategy = iota
	strategySeeded42
	strategyByIDAsc
	strategySeeded100
	strategyByIDDesc
	strategySeeded200
	strategyWorkloadPriority
	strategySeeded300
	strategyAlternating
	strategySeeded400
)

// rotation is spec §4.8 Phase 2.5's exact 10-entry worker-ordering
// rotation: {balanced, seed(42+i), by_id asc, seed(100+7i), by_id
// desc, seed(200+13i), workload-priority, seed(300+17i), alternating,
// seed(400+23i)}.
var rotation = []orderingStrategy{
	strategyBalanced, strategySeeded42, strategyByIDAsc, strategySeeded100, strategyByIDDesc,
	strategySeeded200, strategyWorkloadPriority, strategySeeded300, strategyAlternating, strategySeeded400,
}

// strategyFor picks attempt i's strategy (1-indexed, per spec's "for
// attempt i in 1..N"), cycling through the 10-entry rotation when
// N > 10.
func strategyFor(i int) orderingStrategy {
	return rotation[(i-1)%len(rotation)]
}

// workerOrder computes attempt i's worker_order argument to
// fill_empty_shifts, given a base schedule to read current counts
// from for the workload-priority strategy.
func workerOrder(i int, workers []*worker.Worker, s *roster.Schedule) []worker.ID {
	switch strategyFor(i) {
	case strategyByIDAsc:
		return sortedByID(workers, true)
	case strategyByIDDesc:
		return sortedByID(workers, false)
	case strategyWorkloadPriority:
		return byDeficitDesc(workers, s)
	case strategyAlternating:
		return alternatingByID(workers)
	case strategySeeded42:
		return shuffled(workers, int64(42+i))
	case strategySeeded100:
		return shuffled(workers, int64(100+7*i))
	case strategySeeded200:
		return shuffled(workers, int64(200+13*i))
	case strategySeeded300:
		return shuffled(workers, int64(300+17*i))
	case strategySeeded400:
		return shuffled(workers, int64(400+23*i))
	default: // strategyBalanced: unbiased construction order
		return worker.Targets(workers)
	}
}

func sortedByID(workers []*worker.Worker, ascending bool) []worker.ID {
	ids := worker.Targets(workers)
	sort.Slice(ids, func(i, j int) bool {
		if ascending {
			return ids[i] < ids[j]
		}
		return ids[i] > ids[j]
	})
	return ids
}

// byDeficitDesc orders workers by (target - current count) descending,
// prioritizing the most under-filled worker first.
func byDeficitDesc(workers []*worker.Worker, s *roster.Schedule) []worker.ID {
	type scored struct {
		id      worker.ID
		deficit int
	}
	all := make([]scored, len(workers))
	for i, w := range workers {
		all[i] = scored{id: w.ID, deficit: w.TargetShifts - s.CountFor(w.ID)}
	}
	sort.SliceStable(all, func(i, j int) bool {
		if all[i].deficit != all[j].deficit {
			return all[i].deficit > all[j].deficit
		}
		return all[i].id < all[j].id
	})
	out := make([]worker.ID, len(all))
	for i, a := range all {
		out[i] = a.id
	}
	return out
}

// alternatingByID interleaves ID-ascending and ID-descending order:
// lowest, highest, second-lowest, second-highest, ...
func alternatingByID(workers []*worker.Worker) []worker.ID {
	ids := sortedByID(workers, true)
	out := make([]worker.ID, 0, len(ids))
	lo, hi := 0, len(ids)-1
	fromLow := true
	for lo <= hi {
		if fromLow {
			out = append(out, ids[lo])
			lo++
		} else {
			out = append(out, ids[hi])
			hi--
		}
		fromLow = !fromLow
	}
	return out
}

func shuffled(workers []*worker.Worker, seed int64) []worker.ID {
	ids := worker.Targets(workers)
	rng := rand.New(rand.NewSource(seed))
	rng.Shuffle(len(ids), func(i, j int) { ids[i], ids[j] = ids[j], ids[i] })
	return ids
}
