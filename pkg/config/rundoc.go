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

package config

import (
	"fmt"
	"os"

	"github.com/pelletier/go-toml/v2"

	"github.com/northbeam/rosterengine/pkg/calendar"
	"github.com/northbeam/rosterengine/pkg/worker"
)

// WorkerDoc is a worker's on-disk representation (spec §6 "Inputs").
type WorkerDoc struct {
	ID                     string   `toml:"id"`
	TargetShifts           int      `toml:"target_shifts"`
	WorkPercentage         int      `toml:"work_percentage"`
	StartDate              string   `toml:"start_date"`
	EndDate                string   `toml:"end_date"`
	DaysOff                []string `toml:"days_off"`
	MandatoryDays          []string `toml:"mandatory_days"`
	IncompatibleWith       []string `toml:"incompatible_with"`
	GapBetweenShifts       int      `toml:"gap_between_shifts"`
	MaxConsecutiveWeekends int      `toml:"max_consecutive_weekends"`
}

// RunDoc is the full on-disk run input: date range, holidays, posts,
// workers, and policy knobs (spec §6 "Inputs", consumed at
// construction).
type RunDoc struct {
	Policy    Policy      `toml:"policy"`
	StartDate string      `toml:"start_date"`
	EndDate   string      `toml:"end_date"`
	NumPosts  int         `toml:"num_posts"`
	Holidays  []string    `toml:"holidays"`
	Workers   []WorkerDoc `toml:"workers"`
}

// LoadRunDoc reads and parses a run document, layering its embedded
// policy block over DefaultPolicy the same way Load does for a
// policy-only file.
func LoadRunDoc(path string) (RunDoc, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return RunDoc{}, fmt.Errorf("reading run document %q: %w", path, err)
	}
	var doc RunDoc
	if err := toml.Unmarshal(data, &doc); err != nil {
		return RunDoc{}, fmt.Errorf("parsing run document %q: %w", path, err)
	}
	merged, err := mergedPolicy(doc.Policy)
	if err != nil {
		return RunDoc{}, err
	}
	doc.Policy = merged
	return doc, nil
}

// ToWorkers converts every WorkerDoc into a *worker.Worker, resolving
// date strings via calendar.ParseDay.
func (d RunDoc) ToWorkers() ([]*worker.Worker, error) {
	out := make([]*worker.Worker, 0, len(d.Workers))
	for _, wd := range d.Workers {
		w, err := wd.toWorker()
		if err != nil {
			return nil, fmt.Errorf("worker %q: %w", wd.ID, err)
		}
		out = append(out, w)
	}
	return out, nil
}

func (wd WorkerDoc) toWorker() (*worker.Worker, error) {
	start, err := calendar.ParseDay(wd.StartDate)
	if err != nil {
		return nil, fmt.Errorf("start_date: %w", err)
	}
	end, err := calendar.ParseDay(wd.EndDate)
	if err != nil {
		return nil, fmt.Errorf("end_date: %w", err)
	}
	daysOff, err := parseDays(wd.DaysOff)
	if err != nil {
		return nil, fmt.Errorf("days_off: %w", err)
	}
	mandatory, err := parseDays(wd.MandatoryDays)
	if err != nil {
		return nil, fmt.Errorf("mandatory_days: %w", err)
	}
	incompatible := make([]worker.ID, len(wd.IncompatibleWith))
	for i, id := range wd.IncompatibleWith {
		incompatible[i] = worker.ID(id)
	}
	gap := wd.GapBetweenShifts
	opts := []worker.Option{
		worker.WithDaysOff(daysOff...),
		worker.WithMandatoryDays(mandatory...),
		worker.WithIncompatibleWith(incompatible...),
		worker.WithMaxConsecutiveWeekends(wd.MaxConsecutiveWeekends),
	}
	if gap > 0 {
		opts = append(opts, worker.WithGapBetweenShifts(gap))
	}
	return worker.New(
		worker.ID(wd.ID),
		wd.TargetShifts,
		wd.WorkPercentage,
		[]worker.Period{{Start: start, End: end}},
		opts...,
	), nil
}

func parseDays(ss []string) ([]calendar.Day, error) {
	out := make([]calendar.Day, len(ss))
	for i, s := range ss {
		d, err := calendar.ParseDay(s)
		if err != nil {
			return nil, err
		}
		out[i] = d
	}
	return out, nil
}

// DateRange resolves the run document's [start_date, end_date] into a
// calendar.Range and its holiday set.
func (d RunDoc) DateRange() ([]calendar.Day, calendar.Holidays, error) {
	start, err := calendar.ParseDay(d.StartDate)
	if err != nil {
		return nil, calendar.Holidays{}, fmt.Errorf("start_date: %w", err)
	}
	end, err := calendar.ParseDay(d.EndDate)
	if err != nil {
		return nil, calendar.Holidays{}, fmt.Errorf("end_date: %w", err)
	}
	holidayDays, err := parseDays(d.Holidays)
	if err != nil {
		return nil, calendar.Holidays{}, fmt.Errorf("holidays: %w", err)
	}
	return calendar.Range(start, end), calendar.NewHolidays(holidayDays...), nil
}
