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

package worker

import (
	"strconv"

	gocache "github.com/patrickmn/go-cache"

	"github.com/northbeam/rosterengine/pkg/calendar"
)

// EligibilityCache memoizes is_available lookups across a single
// orchestration run; is_mandatory (IsMandatory) is a plain map lookup
// and is not cached. The builder re-derives availability for
// the same (worker, date) pair many times across Phase 2.5 attempts
// and optimizer iterations; caching it is the same bet the teacher
// makes with its per-pod cachedPodData map in scheduler.go, just keyed
// over (worker, date) instead of pod UID.
//
// A single cache is meant to be shared across one orchestration run
// and discarded afterward: Worker records are immutable per run, so
// there is no invalidation to manage.
type EligibilityCache struct {
	c *gocache.Cache
}

// NewEligibilityCache constructs a cache with no expiration: entries
// live exactly as long as the run that owns them.
func NewEligibilityCache() *EligibilityCache {
	return &EligibilityCache{c: gocache.New(gocache.NoExpiration, 0)}
}

func key(id ID, d calendar.Day, suffix string) string {
	return string(id) + "|" + strconv.FormatInt(d.Time().Unix(), 10) + "|" + suffix
}

// IsAvailable reports whether w may be assigned on d: d falls within
// some work period and is not an explicit day off (spec §4.2).
func (ec *EligibilityCache) IsAvailable(w *Worker, d calendar.Day) bool {
	k := key(w.ID, d, "avail")
	if v, ok := ec.c.Get(k); ok {
		return v.(bool)
	}
	result := isAvailable(w, d)
	ec.c.Set(k, result, gocache.NoExpiration)
	return result
}

func isAvailable(w *Worker, d calendar.Day) bool {
	if _, off := w.DaysOff[d]; off {
		return false
	}
	for _, p := range w.WorkPeriods {
		if p.Contains(d) {
			return true
		}
	}
	return false
}

// IsMandatory reports whether w must be assigned on d (spec §4.2).
// Mandatory days are a small fixed set; no memoization benefit beyond
// the map lookup itself, but the helper keeps the two predicates
// symmetric at call sites.
func IsMandatory(w *Worker, d calendar.Day) bool {
	_, ok := w.MandatoryDays[d]
	return ok
}

// Deficit returns target - current, the signed shortfall used
// throughout scoring and relaxation gating (spec Glossary: "Deficit").
func Deficit(target, current int) int { return target - current }

// DeficitRatio returns deficit/target, or 0 if target is 0 (spec S2's
// 10%-of-target relaxation threshold needs this guarded division).
func DeficitRatio(target, current int) float64 {
	if target <= 0 {
		return 0
	}
	return float64(Deficit(target, current)) / float64(target)
}

// TargetCap returns the single source of truth for H3/I5's hard
// ceiling: ceil(target * 1.10), ties resolved up, per spec §4.3/§3.
// Integer arithmetic keeps exact results such as 10 * 1.10 = 11 from
// being rounded up to 12 by floating-point error.
func TargetCap(target int) int {
	return (target*110 + 99) / 100
}
