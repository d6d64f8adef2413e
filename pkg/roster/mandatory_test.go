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

package roster_test

import (
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/northbeam/rosterengine/pkg/roster"
)

var _ = Describe("MandatoryLock", func() {
	It("starts empty on the zero value", func() {
		var lock roster.MandatoryLock
		Expect(lock.Len()).To(Equal(0))
		Expect(lock.Contains("w1", day(2026, 1, 1))).To(BeFalse())
	})

	It("records a pin and reports it back", func() {
		var lock roster.MandatoryLock
		d := day(2026, 1, 1)
		lock.Add("w1", d)
		Expect(lock.Contains("w1", d)).To(BeTrue())
		Expect(lock.Len()).To(Equal(1))
	})

	It("is idempotent when the same pin is added twice", func() {
		var lock roster.MandatoryLock
		d := day(2026, 1, 1)
		lock.Add("w1", d)
		lock.Add("w1", d)
		Expect(lock.Len()).To(Equal(1))
	})

	It("lists every pin via All", func() {
		var lock roster.MandatoryLock
		lock.Add("w1", day(2026, 1, 1))
		lock.Add("w2", day(2026, 1, 2))
		Expect(lock.All()).To(HaveLen(2))
	})

	It("clones independently of the original", func() {
		var lock roster.MandatoryLock
		lock.Add("w1", day(2026, 1, 1))
		clone := lock.Clone()
		clone.Add("w2", day(2026, 1, 2))
		Expect(lock.Len()).To(Equal(1))
		Expect(clone.Len()).To(Equal(2))
	})
})
