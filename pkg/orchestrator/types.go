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
	"time"

	"go.uber.org/zap"
	"k8s.io/utils/clock"

	"github.com/northbeam/rosterengine/pkg/balance"
	"github.com/northbeam/rosterengine/pkg/metrics"
)

// Config tunes a full orchestrator run.
type Config struct {
	InitialAttempts int
	MaxIterations   int
	TolerancePhase1 float64 // percent, default 8
	TolerancePhase2 float64 // percent, default 12
	CoverageTarget  float64 // percent, default 95
	Seed            int64
	Thresholds      balance.Thresholds
	Clock           clock.Clock
	Log             *zap.Logger
	Budget          time.Duration
	ParallelWorkers int
	// Metrics is optional; when set, RunOnce publishes every phase's
	// outcome to it. Nil means unobserved (e.g. short-lived tests).
	Metrics *metrics.Collectors
}

// DefaultConfig fills every knob from spec §4.6/§4.7/§6 defaults.
func DefaultConfig() Config {
	return Config{
		InitialAttempts: 5,
		MaxIterations:   30,
		TolerancePhase1: 8,
		TolerancePhase2: 12,
		CoverageTarget:  95,
		Seed:            1,
		Thresholds:      balance.DefaultThresholds(),
		ParallelWorkers: 4,
	}
}

func (c Config) resolve() Config {
	d := DefaultConfig()
	if c.InitialAttempts <= 0 {
		c.InitialAttempts = d.InitialAttempts
	}
	if c.MaxIterations <= 0 {
		c.MaxIterations = d.MaxIterations
	}
	if c.TolerancePhase1 <= 0 {
		c.TolerancePhase1 = d.TolerancePhase1
	}
	if c.TolerancePhase2 <= 0 {
		c.TolerancePhase2 = d.TolerancePhase2
	}
	if c.CoverageTarget <= 0 {
		c.CoverageTarget = d.CoverageTarget
	}
	if c.Thresholds == (balance.Thresholds{}) {
		c.Thresholds = d.Thresholds
	}
	if c.Clock == nil {
		c.Clock = clock.RealClock{}
	}
	if c.Log == nil {
		c.Log = zap.NewNop()
	}
	if c.ParallelWorkers <= 0 {
		c.ParallelWorkers = d.ParallelWorkers
	}
	return c
}

// AttemptSummary is one Phase 2.5 attempt's outcome (spec §6
// "Termination metadata: ... attempts summary (score, empty,
// imbalance)").
type AttemptSummary struct {
	Index            int
	Strategy         string
	OverallScore     float64
	EmptyShifts      int
	WorkImbalance    float64
	WeekendImbalance float64
	Won              bool
}
