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

// Package tolerance is the Phase 4 post-hoc summarizer (spec §4.8
// "Validation & report"): per-worker balance statistics, the final
// violations-by-kind tally, and coverage percent, the document the
// orchestrator hands back to its caller and the CLI renders.
package tolerance

import (
	"sort"

	"github.com/samber/lo"

	"github.com/northbeam/rosterengine/pkg/balance"
	"github.com/northbeam/rosterengine/pkg/optimizer"
	"github.com/northbeam/rosterengine/pkg/roster"
	"github.com/northbeam/rosterengine/pkg/scheduling"
	"github.com/northbeam/rosterengine/pkg/worker"
)

// WorkerStat is one worker's row in the final report (spec §6
// "Outputs... Per-worker statistics").
type WorkerStat struct {
	ID               worker.ID
	Count            int
	WeekendCount     int
	LastPostCount    int
	DeviationPercent float64
	Classification   balance.Classification
}

// Report is the complete Phase 4 document (spec §6 "Outputs").
type Report struct {
	Workers         []WorkerStat
	Violations      optimizer.Counts
	CoveragePercent float64
	EmptyShifts     int
	Mode            roster.Mode
	Phase           roster.TolerancePhase
}

// Build assembles the final report from a builder's terminal state.
// lastPost is the index of the last post (numPosts-1), used for
// LastPostCount.
func Build(b *scheduling.Builder, numPosts int, th balance.Thresholds) Report {
	s := b.Schedule()
	holidays := b.Checker().Holidays
	lastPost := numPosts - 1

	workers := append([]*worker.Worker(nil), b.Workers()...)
	sort.Slice(workers, func(i, j int) bool { return workers[i].ID < workers[j].ID })

	stats := make([]WorkerStat, 0, len(workers))
	for _, w := range workers {
		count := s.CountFor(w.ID)
		weekendCount, lastPostCount := 0, 0
		for _, d := range s.AssignmentsFor(w.ID) {
			if holidays.IsSpecial(d) {
				weekendCount++
			}
			if p, ok := s.PostOn(w.ID, d); ok && p == lastPost {
				lastPostCount++
			}
		}
		dev := balance.DeviationPercent(w.TargetShifts, count)
		stats = append(stats, WorkerStat{
			ID:               w.ID,
			Count:            count,
			WeekendCount:     weekendCount,
			LastPostCount:    lastPostCount,
			DeviationPercent: dev,
			Classification:   balance.Classify(dev, th),
		})
	}

	filled, total := s.Coverage()
	empty := total - filled
	coverage := 100.0
	if total > 0 {
		coverage = 100.0 * float64(filled) / float64(total)
	}

	return Report{
		Workers:         stats,
		Violations:      optimizer.Count(b),
		CoveragePercent: coverage,
		EmptyShifts:     empty,
		Mode:            b.Mode(),
		Phase:           b.Phase(),
	}
}

// ExitCode maps the report onto spec §6's CLI exit-code contract: 0 on
// coverage >= target and zero violations; 1 on coverage >= target with
// violations; 2 on coverage below target.
func (r Report) ExitCode(coverageTargetPercent float64) int {
	if r.CoveragePercent < coverageTargetPercent {
		return 2
	}
	if r.Violations.Total() > 0 {
		return 1
	}
	return 0
}

// Extreme returns every worker currently classified Extreme, the
// cohort a follow-up rebalancing pass should prioritize.
func (r Report) Extreme() []WorkerStat {
	return lo.Filter(r.Workers, func(w WorkerStat, _ int) bool {
		return w.Classification == balance.Extreme
	})
}
