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

// Package advanced is the Phase 3.5 final push (spec §4.9): four
// strategies applied in order when empty slots remain after the
// relaxed optimizer finishes — chunk-based fill, MRV backtracking with
// failed-pair memoization, two/three-worker swap chains, and bounded
// progressive relaxation. Every mutation still goes through the
// builder's protection oracle and atomic rollback.
package advanced

import (
	"go.uber.org/zap"

	"github.com/northbeam/rosterengine/pkg/roster"
	"github.com/northbeam/rosterengine/pkg/scheduling"
)

// Config bounds each strategy's own iteration cap (spec §4.9 "each
// bounded by its own iteration cap").
type Config struct {
	ChunkWindowDays      int
	MaxBacktrackAttempts int
	MaxSwapChainAttempts int
	Log                  *zap.Logger
}

// DefaultConfig mirrors spec §4.9's 7-day chunk window and gives the
// other bounds generous but finite caps.
func DefaultConfig() Config {
	return Config{
		ChunkWindowDays:      7,
		MaxBacktrackAttempts: 200,
		MaxSwapChainAttempts: 200,
	}
}

// Engine runs the four strategies over a builder that has already
// been through the mandatory phase, Phase 2.5, and the relaxed
// optimizer.
type Engine struct {
	b           *scheduling.Builder
	cfg         Config
	failedPairs map[uint64]struct{}
}

// New constructs an Engine, defaulting cfg's zero fields from
// DefaultConfig.
func New(b *scheduling.Builder, cfg Config) *Engine {
	d := DefaultConfig()
	if cfg.ChunkWindowDays <= 0 {
		cfg.ChunkWindowDays = d.ChunkWindowDays
	}
	if cfg.MaxBacktrackAttempts <= 0 {
		cfg.MaxBacktrackAttempts = d.MaxBacktrackAttempts
	}
	if cfg.MaxSwapChainAttempts <= 0 {
		cfg.MaxSwapChainAttempts = d.MaxSwapChainAttempts
	}
	if cfg.Log == nil {
		cfg.Log = zap.NewNop()
	}
	return &Engine{b: b, cfg: cfg, failedPairs: map[uint64]struct{}{}}
}

// Result reports how many slots each strategy filled.
type Result struct {
	ChunkFilled      int
	BacktrackFilled  int
	SwapChainFilled  int
	RelaxationFilled int
	RemainingEmpty   int
}

// Run executes the four strategies in spec order, stopping early once
// no empty slots remain.
func (e *Engine) Run() Result {
	var r Result
	r.ChunkFilled = e.chunkFill()
	if e.remaining() > 0 {
		r.BacktrackFilled = e.backtrack()
	}
	if e.remaining() > 0 {
		r.SwapChainFilled = e.swapChains()
	}
	if e.remaining() > 0 {
		r.RelaxationFilled = e.progressiveRelaxation()
	}
	r.RemainingEmpty = e.remaining()
	e.cfg.Log.Debug("advanced engine finished",
		zap.Int("chunk_filled", r.ChunkFilled),
		zap.Int("backtrack_filled", r.BacktrackFilled),
		zap.Int("swap_chain_filled", r.SwapChainFilled),
		zap.Int("relaxation_filled", r.RelaxationFilled),
		zap.Int("remaining_empty", r.RemainingEmpty),
	)
	return r
}

func (e *Engine) remaining() int {
	return len(e.b.Schedule().EmptySlots())
}
