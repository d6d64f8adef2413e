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

package scheduling

import (
	"github.com/awslabs/operatorpkg/option"
	"go.uber.org/zap"

	"github.com/northbeam/rosterengine/pkg/balance"
)

type options struct {
	seed       int64
	thresholds balance.Thresholds
	log        *zap.Logger
}

// Option customizes a Builder at construction, the teacher's
// functional-options constructor pattern (`option.Function[T]`).
type Option = option.Function[options]

func resolve(opts ...Option) options {
	return option.Resolve(opts...)
}

// WithSeed fixes the builder's internal RNG seed, used by transforms
// that need a tie-breaking or perturbation source.
func WithSeed(seed int64) Option {
	return func(o *options) { o.seed = seed }
}

// WithThresholds overrides the balance classification thresholds
// (defaults: balance.DefaultThresholds()).
func WithThresholds(th balance.Thresholds) Option {
	return func(o *options) { o.thresholds = th }
}

// WithLogger attaches a structured logger; defaults to a no-op logger.
func WithLogger(log *zap.Logger) Option {
	return func(o *options) { o.log = log }
}
