// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package own

import (
	"unsafe"

	"go.uber.org/atomic"
	"go.uber.org/zap"
)

// ControlBlock is the shared bookkeeping for one resource: the strong and
// weak counts, the element count of array resources and the teardown of
// the resource itself.
//
// The strong owners collectively hold one weak reference, released right
// after the deleter has run. The block is therefore freed by exactly one
// decrement: the one that takes the weak count to zero.
//
// All methods are safe for concurrent use. A block must not be touched
// after DecrementStrong or DecrementWeak reported it freed.
type ControlBlock struct {
	strong  atomic.Uint64
	weak    atomic.Uint64
	size    atomic.Int64
	destroy func()
	free    func()
	pooled  bool
}

var (
	blockSize  = unsafe.Sizeof(ControlBlock{})
	liveBlocks atomic.Int64
)

// LiveBlocks returns the number of control blocks not yet freed.
func LiveBlocks() int {
	return int(liveBlocks.Load())
}

// NewControlBlock returns a block owning p with a strong count of 1.
// A nil d selects DefaultDeleter.
func NewControlBlock[T any](p *T, d Deleter[T]) *ControlBlock {
	if d == nil {
		d = DefaultDeleter[T]()
	}
	b := new(ControlBlock)
	b.init(0, func() { d(p) }, nil)
	return b
}

// NewArrayControlBlock returns a block owning elems with a strong count
// of 1 and an element count of len(elems). A nil d selects
// DefaultArrayDeleter.
func NewArrayControlBlock[T any](elems []T, d ArrayDeleter[T]) *ControlBlock {
	if d == nil {
		d = DefaultArrayDeleter[T]()
	}
	b := new(ControlBlock)
	b.init(len(elems), func() { d(elems) }, nil)
	return b
}

func newPooledBlock(size int, destroy, free func()) *ControlBlock {
	b := acquireBlock()
	b.init(size, destroy, free)
	return b
}

func (b *ControlBlock) init(size int, destroy, free func()) {
	b.strong.Store(1)
	b.weak.Store(1)
	b.size.Store(int64(size))
	b.destroy = destroy
	b.free = free
	liveBlocks.Inc()
}

// IncrementStrong adds a strong owner. The caller must already hold one.
func (b *ControlBlock) IncrementStrong() {
	b.strong.Inc()
}

// TryIncrementStrong adds a strong owner only if the strong count is not
// zero, and reports whether it did. A resource that has started its
// teardown is never resurrected.
func (b *ControlBlock) TryIncrementStrong() bool {
	for {
		n := b.strong.Load()
		if n == 0 {
			return false
		}
		if b.strong.CompareAndSwap(n, n+1) {
			return true
		}
	}
}

// DecrementStrong removes a strong owner. When the count reaches zero the
// deleter runs and the strong group's weak reference is dropped.
// It reports whether the block was freed, i.e. no weak observer remained.
func (b *ControlBlock) DecrementStrong() (freed bool) {
	if b.strong.Dec() != 0 {
		return false
	}
	defer func() { freed = b.DecrementWeak() }()
	b.expire()
	return false
}

// IncrementWeak adds a weak observer. The caller must hold a strong or
// weak reference.
func (b *ControlBlock) IncrementWeak() {
	b.weak.Inc()
}

// DecrementWeak removes a weak observer and reports whether the weak
// count reached zero, in which case the block has been freed.
func (b *ControlBlock) DecrementWeak() bool {
	if b.weak.Dec() != 0 {
		return false
	}
	b.release()
	return true
}

// CounterValue returns the strong count.
func (b *ControlBlock) CounterValue() int {
	return int(b.strong.Load())
}

// WeakCount returns the number of weak observers.
// The value is a snapshot and may be stale under concurrent mutation.
func (b *ControlBlock) WeakCount() int {
	w := b.weak.Load()
	if w > 0 && b.strong.Load() > 0 {
		w--
	}
	return int(w)
}

// Size returns the element count of an array resource, 0 for scalar
// resources and once the resource has been destroyed.
func (b *ControlBlock) Size() int {
	return int(b.size.Load())
}

// Expired reports whether the resource has been destroyed.
func (b *ControlBlock) Expired() bool {
	return b.strong.Load() == 0
}

func (b *ControlBlock) expire() {
	b.size.Store(0)
	destroy := b.destroy
	b.destroy = nil
	if destroy != nil {
		destroy()
	}
}

func (b *ControlBlock) release() {
	if b.free != nil {
		b.free()
	}
	liveBlocks.Dec()
	if ce := Logger().Check(zap.DebugLevel, "control block freed"); ce != nil {
		ce.Write(zap.Bool("pooled", b.pooled))
	}
	releaseBlock(b)
}
