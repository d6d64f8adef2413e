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

package roster

import (
	"github.com/northbeam/rosterengine/pkg/calendar"
	"github.com/northbeam/rosterengine/pkg/worker"
)

// Checkpoint is the optional persisted-state document (spec §6): the
// schedule grid plus the locked-mandatory set, sufficient to
// reconstruct a Schedule and MandatoryLock that still satisfy
// I1-I8.
type Checkpoint struct {
	NumPosts  int               `json:"num_posts"`
	Dates     []string          `json:"dates"`
	Grid      map[string][]string `json:"grid"`      // date -> posts (worker id or "")
	Mandatory []mandatoryPinDoc `json:"mandatory"`
}

type mandatoryPinDoc struct {
	Worker string `json:"worker"`
	Date   string `json:"date"`
}

// ToCheckpoint snapshots s and lock into a serializable document.
func ToCheckpoint(s *Schedule, lock *MandatoryLock) Checkpoint {
	cp := Checkpoint{
		NumPosts: s.NumPosts(),
		Grid:     make(map[string][]string, len(s.dates)),
	}
	for _, d := range s.Dates() {
		cp.Dates = append(cp.Dates, d.String())
		row := s.Row(d)
		strs := make([]string, len(row))
		for i, w := range row {
			strs[i] = string(w)
		}
		cp.Grid[d.String()] = strs
	}
	for _, pin := range lock.All() {
		cp.Mandatory = append(cp.Mandatory, mandatoryPinDoc{Worker: string(pin.Worker), Date: pin.Date.String()})
	}
	return cp
}

// FromCheckpoint reconstructs a Schedule and MandatoryLock from a
// decoded document. Round-tripping through ToCheckpoint/FromCheckpoint
// preserves I1-I8 because it replays exactly the same (date, post,
// worker) facts and mandatory pins that produced the original state.
func FromCheckpoint(cp Checkpoint) (*Schedule, *MandatoryLock, error) {
	dates := make([]calendar.Day, 0, len(cp.Dates))
	for _, ds := range cp.Dates {
		d, err := parseDay(ds)
		if err != nil {
			return nil, nil, err
		}
		dates = append(dates, d)
	}
	s := New(dates, cp.NumPosts)
	for ds, row := range cp.Grid {
		d, err := parseDay(ds)
		if err != nil {
			return nil, nil, err
		}
		for p, idStr := range row {
			if idStr == "" {
				continue
			}
			s.PlaceAt(d, p, worker.ID(idStr))
		}
	}
	lock := &MandatoryLock{}
	for _, pin := range cp.Mandatory {
		d, err := parseDay(pin.Date)
		if err != nil {
			return nil, nil, err
		}
		lock.Add(worker.ID(pin.Worker), d)
	}
	return s, lock, nil
}

func parseDay(s string) (calendar.Day, error) {
	return calendar.ParseDay(s)
}
