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

// Package config loads and validates the run's policy knobs: the
// tolerance percentages, seed, and iteration caps the orchestrator
// hands down to pkg/scheduling and pkg/optimizer (spec §6).
package config

import (
	"fmt"
	"os"

	"github.com/imdario/mergo"
	"github.com/pelletier/go-toml/v2"
)

// Policy is the full set of tunable run knobs. Zero-value fields left
// unset by a config file are filled from DefaultPolicy by Load.
type Policy struct {
	TolerancePercent    float64 `toml:"tolerance_percent"`
	EmergencyTolerance  float64 `toml:"emergency_tolerance"`
	Seed                int64   `toml:"seed"`
	NumPosts            int     `toml:"num_posts"`
	InitialAttempts     int     `toml:"initial_attempts"`
	MaxIterations       int     `toml:"max_iterations"`
	FillAttempts        int     `toml:"fill_attempts"`
	CoverageTargetRatio float64 `toml:"coverage_target_ratio"`
}

// DefaultPolicy returns spec §6's stated defaults: tolerance_percent
// 8, emergency_tolerance 12, plus this implementation's own defaults
// for the knobs the spec leaves unspecified.
func DefaultPolicy() Policy {
	return Policy{
		TolerancePercent:    8,
		EmergencyTolerance:  12,
		Seed:                1,
		NumPosts:            1,
		InitialAttempts:     5,
		MaxIterations:       30,
		FillAttempts:        8,
		CoverageTargetRatio: 0.95,
	}
}

// Load decodes a TOML policy file at path and layers it over
// DefaultPolicy: any field left at its TOML zero value in the file
// keeps the default instead. Uses mergo with WithOverride so explicit
// zero values in the file (e.g. seed = 0) are indistinguishable from
// "not set" — acceptable here since none of these knobs has a
// meaningful zero value.
func Load(path string) (Policy, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Policy{}, fmt.Errorf("reading policy file %q: %w", path, err)
	}
	var fromFile Policy
	if err := toml.Unmarshal(data, &fromFile); err != nil {
		return Policy{}, fmt.Errorf("parsing policy file %q: %w", path, err)
	}
	return mergedPolicy(fromFile)
}

// mergedPolicy layers fromFile over DefaultPolicy via mergo.WithOverride.
func mergedPolicy(fromFile Policy) (Policy, error) {
	merged := DefaultPolicy()
	if err := mergo.Merge(&merged, fromFile, mergo.WithOverride); err != nil {
		return Policy{}, fmt.Errorf("merging policy defaults: %w", err)
	}
	return merged, nil
}

// Validate checks the policy is internally consistent (spec §7
// ConfigurationError class: "malformed config").
func (p Policy) Validate() error {
	if p.NumPosts < 1 {
		return fmt.Errorf("num_posts must be >= 1, got %d", p.NumPosts)
	}
	if p.TolerancePercent < 0 || p.TolerancePercent > 100 {
		return fmt.Errorf("tolerance_percent must be within [0, 100], got %v", p.TolerancePercent)
	}
	if p.EmergencyTolerance < p.TolerancePercent {
		return fmt.Errorf("emergency_tolerance (%v) must be >= tolerance_percent (%v)", p.EmergencyTolerance, p.TolerancePercent)
	}
	if p.CoverageTargetRatio <= 0 || p.CoverageTargetRatio > 1 {
		return fmt.Errorf("coverage_target_ratio must be within (0, 1], got %v", p.CoverageTargetRatio)
	}
	return nil
}
