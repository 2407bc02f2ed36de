// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package own

import (
	"cmp"
	"unsafe"
)

// Shared is a strong-owning handle to a resource shared through a
// ControlBlock. The zero value owns nothing.
//
// Copies are made with Clone or Assign and each copy must be released with
// Release. A single Shared value is not safe for concurrent mutation;
// distinct copies of the same resource may be used from different
// goroutines. Access to the resource itself is not synchronized.
type Shared[T any] struct {
	_   noCopy
	ptr *T
	ref strongRef
}

// NewShared returns a handle owning p, released with DefaultDeleter.
// A nil p yields an empty handle.
func NewShared[T any](p *T) *Shared[T] {
	s := new(Shared[T])
	if p != nil {
		s.adopt(p, DefaultDeleter[T](), nil)
	}
	return s
}

// NewSharedWithDeleter returns a handle owning p, released with d.
// It panics if d is nil.
func NewSharedWithDeleter[T any](p *T, d Deleter[T]) *Shared[T] {
	d = mustDeleter(d)
	s := new(Shared[T])
	if p != nil {
		s.adopt(p, d, nil)
	}
	return s
}

func (s *Shared[T]) adopt(p *T, d Deleter[T], free func()) {
	s.attach(p, newPooledBlock(0, func() { d(p) }, free))
}

// attach takes over one strong count of cb.
func (s *Shared[T]) attach(p *T, cb *ControlBlock) {
	s.ptr = p
	trackStrong(s, &s.ref, cb)
}

// Clone returns a new strong owner of the same resource.
func (s *Shared[T]) Clone() *Shared[T] {
	c := new(Shared[T])
	if s == nil || s.ref.cb == nil {
		return c
	}
	s.ref.cb.IncrementStrong()
	c.attach(s.ptr, s.ref.cb)
	return c
}

// Assign makes s a strong owner of o's resource, releasing what s owned.
func (s *Shared[T]) Assign(o *Shared[T]) {
	if s == o {
		return
	}
	var p *T
	var cb *ControlBlock
	if o != nil && o.ref.cb != nil {
		p, cb = o.ptr, o.ref.cb
		cb.IncrementStrong()
	}
	s.Release()
	if cb != nil {
		s.attach(p, cb)
	}
}

// Move transfers ownership to a new handle and leaves s empty.
func (s *Shared[T]) Move() *Shared[T] {
	m := new(Shared[T])
	if s == nil || s.ref.cb == nil {
		return m
	}
	p := s.ptr
	cb := s.ref.detach()
	s.ptr = nil
	m.attach(p, cb)
	return m
}

// MoveFrom transfers o's ownership into s, releasing what s owned, and
// leaves o empty.
func (s *Shared[T]) MoveFrom(o *Shared[T]) {
	if s == o {
		return
	}
	s.Release()
	if o == nil || o.ref.cb == nil {
		return
	}
	p := o.ptr
	cb := o.ref.detach()
	o.ptr = nil
	s.attach(p, cb)
}

// Swap exchanges the resources of s and o. Use counts are unchanged.
// A nil o does nothing.
func (s *Shared[T]) Swap(o *Shared[T]) {
	if s == o || o == nil {
		return
	}
	s.ptr, o.ptr = o.ptr, s.ptr
	swapStrong(s, o, &s.ref, &o.ref)
}

// Release gives up ownership. The deleter runs if s was the last strong
// owner. Release on an empty handle is a no-op.
func (s *Shared[T]) Release() {
	if s == nil {
		return
	}
	s.ptr = nil
	s.ref.release()
}

// Reset releases the current resource, then takes ownership of p.
func (s *Shared[T]) Reset(p *T) {
	s.Release()
	if p != nil {
		s.adopt(p, DefaultDeleter[T](), nil)
	}
}

// ResetWithDeleter releases the current resource, then takes ownership of
// p with deleter d. It panics if d is nil.
func (s *Shared[T]) ResetWithDeleter(p *T, d Deleter[T]) {
	d = mustDeleter(d)
	s.Release()
	if p != nil {
		s.adopt(p, d, nil)
	}
}

// Get returns the resource pointer, nil if s is empty.
func (s *Shared[T]) Get() *T {
	if s == nil {
		return nil
	}
	return s.ptr
}

// TryGet returns the resource pointer and whether s owns one.
func (s *Shared[T]) TryGet() (*T, bool) {
	p := s.Get()
	return p, p != nil
}

// Value dereferences the resource. Calling it on an empty handle panics
// like any nil dereference.
func (s *Shared[T]) Value() T {
	return *s.ptr
}

// UseCount returns the number of strong owners, 0 if s is empty.
func (s *Shared[T]) UseCount() int {
	if s == nil {
		return 0
	}
	return s.ref.useCount()
}

// IsUnique reports whether s is the only strong owner.
func (s *Shared[T]) IsUnique() bool {
	return s.UseCount() == 1
}

// IsNil reports whether s owns no resource.
func (s *Shared[T]) IsNil() bool {
	return s.Get() == nil
}

// Equal reports whether s and o point to the same resource.
func (s *Shared[T]) Equal(o *Shared[T]) bool {
	return s.Get() == o.Get()
}

// Compare orders handles by resource address. Empty handles sort first.
func (s *Shared[T]) Compare(o *Shared[T]) int {
	return cmp.Compare(uintptr(unsafe.Pointer(s.Get())), uintptr(unsafe.Pointer(o.Get())))
}

// Weak returns a weak observer of s.
func (s *Shared[T]) Weak() *Weak[T] {
	return NewWeak(s)
}

// Convert returns a strong owner of s's resource that exposes f(s.Get()).
// Go expresses a derived-to-base conversion through embedding, so f
// typically selects an embedded field. The resource is still released
// through s's deleter.
func Convert[U, T any](s *Shared[T], f func(*T) *U) *Shared[U] {
	c := new(Shared[U])
	if s == nil || s.ref.cb == nil {
		return c
	}
	s.ref.cb.IncrementStrong()
	c.attach(f(s.ptr), s.ref.cb)
	return c
}
