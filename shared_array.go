// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package own

import (
	"cmp"
	"iter"
	"unsafe"
)

// SharedArray is the array form of Shared. The element count is fixed when
// the array is attached and is shared with every copy.
type SharedArray[T any] struct {
	_     noCopy
	elems []T
	ref   strongRef
}

// NewSharedArray returns a handle owning elems, released with
// DefaultArrayDeleter. An empty slice yields an empty handle.
func NewSharedArray[T any](elems []T) *SharedArray[T] {
	a := new(SharedArray[T])
	if len(elems) > 0 {
		a.adopt(elems, DefaultArrayDeleter[T](), nil)
	}
	return a
}

// NewSharedArrayWithDeleter returns a handle owning elems, released with d.
// It panics if d is nil.
func NewSharedArrayWithDeleter[T any](elems []T, d ArrayDeleter[T]) *SharedArray[T] {
	d = mustDeleter(d)
	a := new(SharedArray[T])
	if len(elems) > 0 {
		a.adopt(elems, d, nil)
	}
	return a
}

func (a *SharedArray[T]) adopt(elems []T, d ArrayDeleter[T], free func()) {
	a.attach(elems, newPooledBlock(len(elems), func() { d(elems) }, free))
}

func (a *SharedArray[T]) attach(elems []T, cb *ControlBlock) {
	a.elems = elems
	trackStrong(a, &a.ref, cb)
}

// Clone returns a new strong owner of the same array.
func (a *SharedArray[T]) Clone() *SharedArray[T] {
	c := new(SharedArray[T])
	if a == nil || a.ref.cb == nil {
		return c
	}
	a.ref.cb.IncrementStrong()
	c.attach(a.elems, a.ref.cb)
	return c
}

// Assign makes a a strong owner of o's array, releasing what a owned.
func (a *SharedArray[T]) Assign(o *SharedArray[T]) {
	if a == o {
		return
	}
	var elems []T
	var cb *ControlBlock
	if o != nil && o.ref.cb != nil {
		elems, cb = o.elems, o.ref.cb
		cb.IncrementStrong()
	}
	a.Release()
	if cb != nil {
		a.attach(elems, cb)
	}
}

// Move transfers ownership to a new handle and leaves a empty.
func (a *SharedArray[T]) Move() *SharedArray[T] {
	m := new(SharedArray[T])
	if a == nil || a.ref.cb == nil {
		return m
	}
	elems := a.elems
	cb := a.ref.detach()
	a.elems = nil
	m.attach(elems, cb)
	return m
}

// MoveFrom transfers o's ownership into a and leaves o empty.
func (a *SharedArray[T]) MoveFrom(o *SharedArray[T]) {
	if a == o {
		return
	}
	a.Release()
	if o == nil || o.ref.cb == nil {
		return
	}
	elems := o.elems
	cb := o.ref.detach()
	o.elems = nil
	a.attach(elems, cb)
}

// Swap exchanges the arrays of a and o. A nil o does nothing.
func (a *SharedArray[T]) Swap(o *SharedArray[T]) {
	if a == o || o == nil {
		return
	}
	a.elems, o.elems = o.elems, a.elems
	swapStrong(a, o, &a.ref, &o.ref)
}

// Release gives up ownership. The deleter runs if a was the last strong
// owner.
func (a *SharedArray[T]) Release() {
	if a == nil {
		return
	}
	a.elems = nil
	a.ref.release()
}

// Reset releases the current array, then takes ownership of elems.
func (a *SharedArray[T]) Reset(elems []T) {
	a.Release()
	if len(elems) > 0 {
		a.adopt(elems, DefaultArrayDeleter[T](), nil)
	}
}

// ResetWithDeleter releases the current array, then takes ownership of
// elems with deleter d. It panics if d is nil.
func (a *SharedArray[T]) ResetWithDeleter(elems []T, d ArrayDeleter[T]) {
	d = mustDeleter(d)
	a.Release()
	if len(elems) > 0 {
		a.adopt(elems, d, nil)
	}
}

// Slice returns the owned elements, nil if a is empty.
func (a *SharedArray[T]) Slice() []T {
	if a == nil {
		return nil
	}
	return a.elems
}

// TryGet returns the owned elements and whether a owns any.
func (a *SharedArray[T]) TryGet() ([]T, bool) {
	elems := a.Slice()
	return elems, elems != nil
}

// Size returns the element count, 0 if a is empty.
func (a *SharedArray[T]) Size() int {
	return len(a.Slice())
}

// Empty reports whether a has no elements.
func (a *SharedArray[T]) Empty() bool {
	return a.Size() == 0
}

// At returns the element at index i. It fails with ErrEmpty on an empty
// handle and with ErrOutOfRange when i is not in [0, Size()).
func (a *SharedArray[T]) At(i int) (T, error) {
	var zero T
	elems := a.Slice()
	if elems == nil {
		return zero, emptyHandle("at")
	}
	if i < 0 || i >= len(elems) {
		return zero, outOfRange("at", i, len(elems))
	}
	return elems[i], nil
}

// Index returns a pointer to element i without a bounds check of its own.
func (a *SharedArray[T]) Index(i int) *T {
	return &a.elems[i]
}

// All iterates over the elements in index order.
func (a *SharedArray[T]) All() iter.Seq2[int, T] {
	elems := a.Slice()
	return func(yield func(int, T) bool) {
		for i, v := range elems {
			if !yield(i, v) {
				return
			}
		}
	}
}

// UseCount returns the number of strong owners, 0 if a is empty.
func (a *SharedArray[T]) UseCount() int {
	if a == nil {
		return 0
	}
	return a.ref.useCount()
}

// IsUnique reports whether a is the only strong owner.
func (a *SharedArray[T]) IsUnique() bool {
	return a.UseCount() == 1
}

// IsNil reports whether a owns no array.
func (a *SharedArray[T]) IsNil() bool {
	return a.Slice() == nil
}

// Equal reports whether a and o refer to the same elements.
func (a *SharedArray[T]) Equal(o *SharedArray[T]) bool {
	x, y := a.Slice(), o.Slice()
	return unsafe.SliceData(x) == unsafe.SliceData(y) && len(x) == len(y)
}

// Compare orders handles by the address of their first element.
func (a *SharedArray[T]) Compare(o *SharedArray[T]) int {
	return cmp.Compare(uintptr(unsafe.Pointer(unsafe.SliceData(a.Slice()))), uintptr(unsafe.Pointer(unsafe.SliceData(o.Slice()))))
}

// Weak returns a weak observer of a.
func (a *SharedArray[T]) Weak() *WeakArray[T] {
	return NewWeakArray(a)
}

// ConvertArray returns a strong owner of a's array that exposes f(a.Slice()).
// It panics if f changes the element count.
func ConvertArray[U, T any](a *SharedArray[T], f func([]T) []U) *SharedArray[U] {
	c := new(SharedArray[U])
	if a == nil || a.ref.cb == nil {
		return c
	}
	elems := f(a.elems)
	if len(elems) != len(a.elems) {
		panic("own: array conversion changed the element count")
	}
	a.ref.cb.IncrementStrong()
	c.attach(elems, a.ref.cb)
	return c
}
