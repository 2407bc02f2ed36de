// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package own

// Weak observes a resource owned by Shared handles without keeping it
// alive. It breaks ownership cycles and lets a cache or registry hold a
// resource only for as long as somebody else does. The zero value is
// expired.
type Weak[T any] struct {
	_   noCopy
	ptr *T
	ref weakRef
}

// NewWeak returns an observer of s's resource. An empty s yields an
// expired observer.
func NewWeak[T any](s *Shared[T]) *Weak[T] {
	w := new(Weak[T])
	w.AssignShared(s)
	return w
}

func (w *Weak[T]) attach(p *T, cb *ControlBlock) {
	w.ptr = p
	trackWeak(w, &w.ref, cb)
}

// Clone returns another observer of the same resource.
func (w *Weak[T]) Clone() *Weak[T] {
	c := new(Weak[T])
	if w == nil || w.ref.cb == nil {
		return c
	}
	w.ref.cb.IncrementWeak()
	c.attach(w.ptr, w.ref.cb)
	return c
}

// Assign makes w observe what o observes.
func (w *Weak[T]) Assign(o *Weak[T]) {
	if w == o {
		return
	}
	var p *T
	var cb *ControlBlock
	if o != nil && o.ref.cb != nil {
		p, cb = o.ptr, o.ref.cb
		cb.IncrementWeak()
	}
	w.Release()
	if cb != nil {
		w.attach(p, cb)
	}
}

// AssignShared makes w observe s's resource.
func (w *Weak[T]) AssignShared(s *Shared[T]) {
	var p *T
	var cb *ControlBlock
	if s != nil && s.ref.cb != nil {
		p, cb = s.ptr, s.ref.cb
		cb.IncrementWeak()
	}
	w.Release()
	if cb != nil {
		w.attach(p, cb)
	}
}

// Move transfers the observation to a new handle and leaves w expired.
func (w *Weak[T]) Move() *Weak[T] {
	m := new(Weak[T])
	if w == nil || w.ref.cb == nil {
		return m
	}
	p := w.ptr
	cb := w.ref.detach()
	w.ptr = nil
	m.attach(p, cb)
	return m
}

// MoveFrom transfers o's observation into w and leaves o expired.
func (w *Weak[T]) MoveFrom(o *Weak[T]) {
	if w == o {
		return
	}
	w.Release()
	if o == nil || o.ref.cb == nil {
		return
	}
	p := o.ptr
	cb := o.ref.detach()
	o.ptr = nil
	w.attach(p, cb)
}

// Swap exchanges the observed resources of w and o. A nil o does nothing.
func (w *Weak[T]) Swap(o *Weak[T]) {
	if w == o || o == nil {
		return
	}
	w.ptr, o.ptr = o.ptr, w.ptr
	swapWeak(w, o, &w.ref, &o.ref)
}

// Release stops observing. The control block is freed if this was the
// last reference of any kind.
func (w *Weak[T]) Release() {
	if w == nil {
		return
	}
	w.ptr = nil
	w.ref.release()
}

// Reset is Release; strong owners of the resource are not affected.
func (w *Weak[T]) Reset() {
	w.Release()
}

// IsExpired reports whether the resource is gone or w observes nothing.
func (w *Weak[T]) IsExpired() bool {
	return w == nil || w.ref.expired()
}

// Promote returns a new strong owner of the resource, or an empty handle
// if the resource has already been destroyed.
func (w *Weak[T]) Promote() *Shared[T] {
	s := new(Shared[T])
	if w == nil || w.ref.cb == nil || !w.ref.cb.TryIncrementStrong() {
		return s
	}
	s.attach(w.ptr, w.ref.cb)
	return s
}

// CounterValue returns the strong count of the resource, 0 once expired.
func (w *Weak[T]) CounterValue() int {
	if w == nil {
		return 0
	}
	return w.ref.counterValue()
}

// Equal reports whether w and o observe the same control block.
func (w *Weak[T]) Equal(o *Weak[T]) bool {
	return w.block() == o.block()
}

func (w *Weak[T]) block() *ControlBlock {
	if w == nil {
		return nil
	}
	return w.ref.cb
}

// WeakArray is the array form of Weak.
type WeakArray[T any] struct {
	_     noCopy
	elems []T
	ref   weakRef
}

// NewWeakArray returns an observer of a's array.
func NewWeakArray[T any](a *SharedArray[T]) *WeakArray[T] {
	w := new(WeakArray[T])
	w.AssignShared(a)
	return w
}

func (w *WeakArray[T]) attach(elems []T, cb *ControlBlock) {
	w.elems = elems
	trackWeak(w, &w.ref, cb)
}

// Clone returns another observer of the same array.
func (w *WeakArray[T]) Clone() *WeakArray[T] {
	c := new(WeakArray[T])
	if w == nil || w.ref.cb == nil {
		return c
	}
	w.ref.cb.IncrementWeak()
	c.attach(w.elems, w.ref.cb)
	return c
}

// Assign makes w observe what o observes.
func (w *WeakArray[T]) Assign(o *WeakArray[T]) {
	if w == o {
		return
	}
	var elems []T
	var cb *ControlBlock
	if o != nil && o.ref.cb != nil {
		elems, cb = o.elems, o.ref.cb
		cb.IncrementWeak()
	}
	w.Release()
	if cb != nil {
		w.attach(elems, cb)
	}
}

// AssignShared makes w observe a's array.
func (w *WeakArray[T]) AssignShared(a *SharedArray[T]) {
	var elems []T
	var cb *ControlBlock
	if a != nil && a.ref.cb != nil {
		elems, cb = a.elems, a.ref.cb
		cb.IncrementWeak()
	}
	w.Release()
	if cb != nil {
		w.attach(elems, cb)
	}
}

// Move transfers the observation to a new handle and leaves w expired.
func (w *WeakArray[T]) Move() *WeakArray[T] {
	m := new(WeakArray[T])
	if w == nil || w.ref.cb == nil {
		return m
	}
	elems := w.elems
	cb := w.ref.detach()
	w.elems = nil
	m.attach(elems, cb)
	return m
}

// MoveFrom transfers o's observation into w and leaves o expired.
func (w *WeakArray[T]) MoveFrom(o *WeakArray[T]) {
	if w == o {
		return
	}
	w.Release()
	if o == nil || o.ref.cb == nil {
		return
	}
	elems := o.elems
	cb := o.ref.detach()
	o.elems = nil
	w.attach(elems, cb)
}

// Swap exchanges the observed arrays of w and o. A nil o does nothing.
func (w *WeakArray[T]) Swap(o *WeakArray[T]) {
	if w == o || o == nil {
		return
	}
	w.elems, o.elems = o.elems, w.elems
	swapWeak(w, o, &w.ref, &o.ref)
}

// Release stops observing.
func (w *WeakArray[T]) Release() {
	if w == nil {
		return
	}
	w.elems = nil
	w.ref.release()
}

// Reset is Release.
func (w *WeakArray[T]) Reset() {
	w.Release()
}

// IsExpired reports whether the array is gone or w observes nothing.
func (w *WeakArray[T]) IsExpired() bool {
	return w == nil || w.ref.expired()
}

// Promote returns a new strong owner of the array, or an empty handle if
// the array has already been destroyed.
func (w *WeakArray[T]) Promote() *SharedArray[T] {
	a := new(SharedArray[T])
	if w == nil || w.ref.cb == nil || !w.ref.cb.TryIncrementStrong() {
		return a
	}
	a.attach(w.elems, w.ref.cb)
	return a
}

// CounterValue returns the strong count of the array, 0 once expired.
func (w *WeakArray[T]) CounterValue() int {
	if w == nil {
		return 0
	}
	return w.ref.counterValue()
}

// Size returns the element count, 0 once expired.
func (w *WeakArray[T]) Size() int {
	if w == nil || w.ref.cb == nil {
		return 0
	}
	return w.ref.cb.Size()
}

// Equal reports whether w and o observe the same control block.
func (w *WeakArray[T]) Equal(o *WeakArray[T]) bool {
	var x, y *ControlBlock
	if w != nil {
		x = w.ref.cb
	}
	if o != nil {
		y = o.ref.cb
	}
	return x == y
}
