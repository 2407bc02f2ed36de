// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package own

import "runtime"

// Unique exclusively owns a resource. There is no control block and no
// reference count: ownership moves between handles with Move and MoveFrom,
// and copying a Unique by value is reported by go vet.
//
// The deleter belongs to the handle and survives transfers of the
// resource in and out of it.
type Unique[T any] struct {
	_       noCopy
	ptr     *T
	deleter Deleter[T]
	cleanup runtime.Cleanup
}

// NewUnique returns a handle owning p, released with DefaultDeleter.
func NewUnique[T any](p *T) *Unique[T] {
	u := &Unique[T]{deleter: DefaultDeleter[T]()}
	u.attach(p)
	return u
}

// NewUniqueWithDeleter returns a handle owning p, released with d.
// It panics if d is nil.
func NewUniqueWithDeleter[T any](p *T, d Deleter[T]) *Unique[T] {
	u := &Unique[T]{deleter: mustDeleter(d)}
	u.attach(p)
	return u
}

func (u *Unique[T]) attach(p *T) {
	if p == nil {
		return
	}
	if u.deleter == nil {
		u.deleter = DefaultDeleter[T]()
	}
	u.ptr = p
	u.cleanup = trackUnique(u, p, (func(*T))(u.deleter))
}

func (u *Unique[T]) detach() *T {
	p := u.ptr
	if p == nil {
		return nil
	}
	u.cleanup.Stop()
	u.cleanup = runtime.Cleanup{}
	u.ptr = nil
	return p
}

// Move transfers the resource and the deleter to a new handle and leaves
// u empty.
func (u *Unique[T]) Move() *Unique[T] {
	m := &Unique[T]{deleter: u.deleter}
	m.attach(u.detach())
	return m
}

// MoveFrom releases u's resource, then takes o's resource and deleter,
// leaving o empty.
func (u *Unique[T]) MoveFrom(o *Unique[T]) {
	if u == o {
		return
	}
	u.Release()
	if o == nil {
		return
	}
	p := o.detach()
	if o.deleter != nil {
		u.deleter = o.deleter
	}
	u.attach(p)
}

// Release runs the deleter on the resource, if any, and leaves u empty.
func (u *Unique[T]) Release() {
	if u == nil {
		return
	}
	if p := u.detach(); p != nil {
		u.deleter(p)
	}
}

// GetAndRelease transfers the resource out of u; the caller becomes
// responsible for it. It fails with ErrNoResource if u is empty.
// Ignoring a successful result leaks the resource to the garbage collector
// without running the deleter.
func (u *Unique[T]) GetAndRelease() (*T, error) {
	p := u.detach()
	if p == nil {
		return nil, noResource("get and release")
	}
	return p, nil
}

// TryGetAndRelease is GetAndRelease reporting failure as false.
func (u *Unique[T]) TryGetAndRelease() (*T, bool) {
	p := u.detach()
	return p, p != nil
}

// SetResource takes ownership of p if u is empty and reports whether it did.
// A nil p is never taken.
func (u *Unique[T]) SetResource(p *T) bool {
	if u.ptr != nil || p == nil {
		return false
	}
	u.attach(p)
	return true
}

// Swap exchanges the resources and deleters of u and o. A nil o is
// treated as a handle that cannot receive, and Swap does nothing.
func (u *Unique[T]) Swap(o *Unique[T]) {
	if u == o || o == nil {
		return
	}
	p, q := u.detach(), o.detach()
	u.deleter, o.deleter = o.deleter, u.deleter
	u.attach(q)
	o.attach(p)
}

// Reset releases the current resource through the deleter, then takes
// ownership of p.
func (u *Unique[T]) Reset(p *T) {
	u.Release()
	u.attach(p)
}

// Get returns the resource pointer without giving up ownership.
func (u *Unique[T]) Get() *T {
	if u == nil {
		return nil
	}
	return u.ptr
}

// TryGet returns the resource pointer and whether u owns one.
func (u *Unique[T]) TryGet() (*T, bool) {
	p := u.Get()
	return p, p != nil
}

// HasResource reports whether u owns a resource.
func (u *Unique[T]) HasResource() bool {
	return u.Get() != nil
}

// IsNil reports whether u owns nothing.
func (u *Unique[T]) IsNil() bool {
	return u.Get() == nil
}

// Value returns a copy of the resource. It panics with ErrNoResource if u
// is empty.
func (u *Unique[T]) Value() T {
	p := u.Get()
	if p == nil {
		panic(noResource("value"))
	}
	return *p
}

// TryValue returns a copy of the resource and whether u owns one.
func (u *Unique[T]) TryValue() (T, bool) {
	p := u.Get()
	if p == nil {
		var zero T
		return zero, false
	}
	return *p, true
}

// UniqueArray exclusively owns an array.
type UniqueArray[T any] struct {
	_       noCopy
	elems   []T
	deleter ArrayDeleter[T]
	cleanup runtime.Cleanup
}

// NewUniqueArray returns a handle owning elems, released with
// DefaultArrayDeleter. An empty slice yields an empty handle.
func NewUniqueArray[T any](elems []T) *UniqueArray[T] {
	u := &UniqueArray[T]{deleter: DefaultArrayDeleter[T]()}
	u.attach(elems)
	return u
}

// NewUniqueArrayWithDeleter returns a handle owning elems, released with d.
// It panics if d is nil.
func NewUniqueArrayWithDeleter[T any](elems []T, d ArrayDeleter[T]) *UniqueArray[T] {
	u := &UniqueArray[T]{deleter: mustDeleter(d)}
	u.attach(elems)
	return u
}

func (u *UniqueArray[T]) attach(elems []T) {
	if len(elems) == 0 {
		return
	}
	if u.deleter == nil {
		u.deleter = DefaultArrayDeleter[T]()
	}
	u.elems = elems
	u.cleanup = trackUnique(u, elems, (func([]T))(u.deleter))
}

func (u *UniqueArray[T]) detach() []T {
	elems := u.elems
	if elems == nil {
		return nil
	}
	u.cleanup.Stop()
	u.cleanup = runtime.Cleanup{}
	u.elems = nil
	return elems
}

// Move transfers the array and the deleter to a new handle and leaves u
// empty.
func (u *UniqueArray[T]) Move() *UniqueArray[T] {
	m := &UniqueArray[T]{deleter: u.deleter}
	m.attach(u.detach())
	return m
}

// MoveFrom releases u's array, then takes o's array and deleter.
func (u *UniqueArray[T]) MoveFrom(o *UniqueArray[T]) {
	if u == o {
		return
	}
	u.Release()
	if o == nil {
		return
	}
	elems := o.detach()
	if o.deleter != nil {
		u.deleter = o.deleter
	}
	u.attach(elems)
}

// Release runs the deleter on the array, if any, and leaves u empty.
func (u *UniqueArray[T]) Release() {
	if u == nil {
		return
	}
	if elems := u.detach(); elems != nil {
		u.deleter(elems)
	}
}

// GetAndRelease transfers the array out of u. It fails with ErrNoResource
// if u is empty.
func (u *UniqueArray[T]) GetAndRelease() ([]T, error) {
	elems := u.detach()
	if elems == nil {
		return nil, noResource("get and release")
	}
	return elems, nil
}

// TryGetAndRelease is GetAndRelease reporting failure as false.
func (u *UniqueArray[T]) TryGetAndRelease() ([]T, bool) {
	elems := u.detach()
	return elems, elems != nil
}

// SetResource takes ownership of elems if u is empty and reports whether
// it did. An empty slice is never taken.
func (u *UniqueArray[T]) SetResource(elems []T) bool {
	if u.elems != nil || len(elems) == 0 {
		return false
	}
	u.attach(elems)
	return true
}

// Swap exchanges the arrays and deleters of u and o. A nil o does nothing.
func (u *UniqueArray[T]) Swap(o *UniqueArray[T]) {
	if u == o || o == nil {
		return
	}
	p, q := u.detach(), o.detach()
	u.deleter, o.deleter = o.deleter, u.deleter
	u.attach(q)
	o.attach(p)
}

// Reset releases the current array, then takes ownership of elems.
func (u *UniqueArray[T]) Reset(elems []T) {
	u.Release()
	u.attach(elems)
}

// Get returns the owned elements without giving up ownership.
func (u *UniqueArray[T]) Get() []T {
	if u == nil {
		return nil
	}
	return u.elems
}

// TryGet returns the owned elements and whether u owns any.
func (u *UniqueArray[T]) TryGet() ([]T, bool) {
	elems := u.Get()
	return elems, elems != nil
}

// HasResource reports whether u owns an array.
func (u *UniqueArray[T]) HasResource() bool {
	return u.Get() != nil
}

// Len returns the element count, 0 if u is empty.
func (u *UniqueArray[T]) Len() int {
	return len(u.Get())
}

// Index returns a pointer to element i. Bounds are the caller's concern;
// an invalid index panics like any slice access.
func (u *UniqueArray[T]) Index(i int) *T {
	return &u.elems[i]
}

// ValueAt returns a copy of element i. Like Index it does not check i.
func (u *UniqueArray[T]) ValueAt(i int) T {
	return u.elems[i]
}

// At returns a copy of element i. It fails with ErrEmpty if u is empty and
// with ErrOutOfRange when i is not in [0, Len()).
func (u *UniqueArray[T]) At(i int) (T, error) {
	var zero T
	elems := u.Get()
	if elems == nil {
		return zero, emptyHandle("at")
	}
	if i < 0 || i >= len(elems) {
		return zero, outOfRange("at", i, len(elems))
	}
	return elems[i], nil
}
