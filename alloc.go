// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package own

import (
	"strconv"

	"go.uber.org/atomic"
)

// Allocator accounts for the memory reserved by the factory helpers.
//
// The Go runtime owns the actual allocation; an Allocator decides whether
// a reservation of size bytes may proceed and is told when it is returned.
// Implementations must be safe for concurrent use.
type Allocator interface {
	Alloc(size uintptr) error
	Free(size uintptr)
}

// Unbounded is the default Allocator. It accepts every reservation.
var Unbounded Allocator = unbounded{}

type unbounded struct{}

func (unbounded) Alloc(uintptr) error { return nil }
func (unbounded) Free(uintptr)        {}

// Budget is an Allocator with a fixed byte limit.
type Budget struct {
	used  atomic.Uintptr
	peak  atomic.Uintptr
	limit uintptr
}

// NewBudget returns a Budget that refuses reservations beyond limit bytes.
func NewBudget(limit uintptr) *Budget {
	return &Budget{limit: limit}
}

// Alloc reserves size bytes or fails with ErrAllocation.
func (b *Budget) Alloc(size uintptr) error {
	for {
		used := b.used.Load()
		if size > b.limit || used > b.limit-size {
			return &Error{
				Op:   "reserve",
				Kind: KindAllocation,
				Detail: "budget exceeded: " + strconv.FormatUint(uint64(used), 10) + " used + " +
					strconv.FormatUint(uint64(size), 10) + " requested > " + strconv.FormatUint(uint64(b.limit), 10),
			}
		}
		if b.used.CompareAndSwap(used, used+size) {
			b.notePeak(used + size)
			return nil
		}
	}
}

// Free returns size bytes to the budget.
func (b *Budget) Free(size uintptr) {
	b.used.Sub(size)
}

// Used returns the number of bytes currently reserved.
func (b *Budget) Used() uintptr { return b.used.Load() }

// Peak returns the highest reservation level observed.
func (b *Budget) Peak() uintptr { return b.peak.Load() }

// Limit returns the byte limit.
func (b *Budget) Limit() uintptr { return b.limit }

func (b *Budget) notePeak(v uintptr) {
	for {
		p := b.peak.Load()
		if v <= p || b.peak.CompareAndSwap(p, v) {
			return
		}
	}
}
