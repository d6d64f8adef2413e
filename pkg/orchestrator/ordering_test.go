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
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/northbeam/rosterengine/pkg/calendar"
	"github.com/northbeam/rosterengine/pkg/roster"
	"github.com/northbeam/rosterengine/pkg/worker"
)

var _ = Describe("strategyFor", func() {
	It("cycles through the 10-entry rotation for attempts beyond 10", func() {
		Expect(strategyFor(1)).To(Equal(strategyBalanced))
		Expect(strategyFor(10)).To(Equal(strategySeeded400))
		Expect(strategyFor(11)).To(Equal(strategyFor(1)))
		Expect(strategyFor(21)).To(Equal(strategyFor(1)))
	})
})

var _ = Describe("workerOrder", func() {
	fullYear := worker.Period{Start: calendar.NewDay(2026, 1, 1), End: calendar.NewDay(2026, 12, 31)}
	makeWorkers := func() []*worker.Worker {
		return []*worker.Worker{
			worker.New("c", 5, 100, []worker.Period{fullYear}),
			worker.New("a", 5, 100, []worker.Period{fullYear}),
			worker.New("b", 5, 100, []worker.Period{fullYear}),
		}
	}

	It("orders ascending by ID for strategyByIDAsc", func() {
		order := workerOrder(3, makeWorkers(), nil) // attempt 3 is strategyByIDAsc
		Expect(order).To(Equal([]worker.ID{"a", "b", "c"}))
	})

	It("orders descending by ID for strategyByIDDesc", func() {
		order := workerOrder(5, makeWorkers(), nil) // attempt 5 is strategyByIDDesc
		Expect(order).To(Equal([]worker.ID{"c", "b", "a"}))
	})

	It("interleaves lowest/highest for strategyAlternating", func() {
		order := workerOrder(9, makeWorkers(), nil) // attempt 9 is strategyAlternating
		Expect(order).To(Equal([]worker.ID{"a", "c", "b"}))
	})

	It("orders by descending deficit for strategyWorkloadPriority", func() {
		dates := calendar.Range(calendar.NewDay(2026, 1, 1), calendar.NewDay(2026, 1, 10))
		workers := makeWorkers()
		s := roster.New(dates, 1)
		s.PlaceAt(dates[0], 0, "a")
		s.PlaceAt(dates[1], 0, "a")
		order := workerOrder(7, workers, s) // attempt 7 is strategyWorkloadPriority
		// a has deficit 3 (5-2), b and c have deficit 5; ties broken by ID.
		Expect(order).To(Equal([]worker.ID{"b", "c", "a"}))
	})

	It("returns unbiased construction order for strategyBalanced", func() {
		order := workerOrder(1, makeWorkers(), nil)
		Expect(order).To(Equal([]worker.ID{"c", "a", "b"}))
	})

	It("is deterministic for a seeded-shuffle strategy given the same attempt index", func() {
		order1 := workerOrder(2, makeWorkers(), nil) // attempt 2 is strategySeeded42
		order2 := workerOrder(2, makeWorkers(), nil)
		Expect(order1).To(Equal(order2))
		Expect(order1).To(ConsistOf(worker.ID("a"), worker.ID("b"), worker.ID("c")))
	})
})

var _ = Describe("strategyName", func() {
	It("labels every strategy family", func() {
		Expect(strategyName(strategyByIDAsc)).To(Equal("by_id_asc"))
		Expect(strategyName(strategyByIDDesc)).To(Equal("by_id_desc"))
		Expect(strategyName(strategyWorkloadPriority)).To(Equal("workload_priority"))
		Expect(strategyName(strategyAlternating)).To(Equal("alternating"))
		Expect(strategyName(strategySeeded42)).To(Equal("seeded_shuffle"))
		Expect(strategyName(strategyBalanced)).To(Equal("balanced"))
	})
})
