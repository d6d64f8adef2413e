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
	"errors"

	"github.com/northbeam/rosterengine/pkg/roster"
)

// ErrStrictAfterRelaxedTransform is returned by EnableStrict once a
// transform has already run in Relaxed mode (spec §4.5 "Phase-switch
// guard: Relaxed->Strict is forbidden after the first transform in
// Relaxed mode").
var ErrStrictAfterRelaxedTransform = errors.New("cannot re-enable strict mode after a transform has run in relaxed mode")

// EnableRelaxed switches the builder into Relaxed mode. Only the
// orchestrator calls this, at a named phase boundary (spec §4.10).
func (b *Builder) EnableRelaxed() {
	b.mode = roster.Relaxed
}

// EnableStrict switches the builder back into Strict mode, refusing
// if a transform has already run while Relaxed.
func (b *Builder) EnableStrict() error {
	if b.mode == roster.Relaxed && b.relaxedTransformed {
		return ErrStrictAfterRelaxedTransform
	}
	b.mode = roster.Strict
	return nil
}
