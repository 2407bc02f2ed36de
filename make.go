// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package own

import (
	"math"
	"unsafe"
)

// Option configures the factory helpers.
type Option func(*options)

type options struct {
	alloc Allocator
}

// WithAllocator accounts the resource and its control block against a.
func WithAllocator(a Allocator) Option {
	return func(o *options) {
		if a != nil {
			o.alloc = a
		}
	}
}

func buildOptions(opts []Option) options {
	o := options{alloc: Unbounded}
	for _, opt := range opts {
		opt(&o)
	}
	return o
}

// MakeShared allocates a copy of v and a control block for it.
//
// If the control block cannot be reserved after the resource was, the
// resource is torn down and its reservation returned before the error is
// reported.
func MakeShared[T any](v T, opts ...Option) (*Shared[T], error) {
	const op = "make shared"
	o := buildOptions(opts)
	size := unsafe.Sizeof(v)
	if err := o.alloc.Alloc(size); err != nil {
		return nil, allocationFailed(op, size, err)
	}
	p := new(T)
	*p = v
	if err := o.alloc.Alloc(blockSize); err != nil {
		dropValue(p)
		o.alloc.Free(size)
		return nil, allocationFailed(op, blockSize, err)
	}
	a := o.alloc
	s := new(Shared[T])
	s.adopt(p, func(p *T) {
		dropValue(p)
		a.Free(size)
	}, func() { a.Free(blockSize) })
	return s, nil
}

// MakeSharedArray allocates n zero-valued elements and a control block.
// It fails with ErrZeroSize when n is not positive.
func MakeSharedArray[T any](n int, opts ...Option) (*SharedArray[T], error) {
	const op = "make shared array"
	if n <= 0 {
		return nil, zeroSize(op, n)
	}
	o := buildOptions(opts)
	size, err := arraySize[T](op, n)
	if err != nil {
		return nil, err
	}
	if err := o.alloc.Alloc(size); err != nil {
		return nil, allocationFailed(op, size, err)
	}
	elems := make([]T, n)
	if err := o.alloc.Alloc(blockSize); err != nil {
		dropSlice(elems)
		o.alloc.Free(size)
		return nil, allocationFailed(op, blockSize, err)
	}
	a := o.alloc
	s := new(SharedArray[T])
	s.adopt(elems, func(elems []T) {
		dropSlice(elems)
		a.Free(size)
	}, func() { a.Free(blockSize) })
	return s, nil
}

// MakeUnique allocates a copy of v owned by a new Unique.
func MakeUnique[T any](v T, opts ...Option) (*Unique[T], error) {
	const op = "make unique"
	o := buildOptions(opts)
	size := unsafe.Sizeof(v)
	if err := o.alloc.Alloc(size); err != nil {
		return nil, allocationFailed(op, size, err)
	}
	p := new(T)
	*p = v
	a := o.alloc
	return NewUniqueWithDeleter(p, func(p *T) {
		dropValue(p)
		a.Free(size)
	}), nil
}

// MakeUniqueArray allocates n zero-valued elements owned by a new
// UniqueArray. It fails with ErrZeroSize when n is not positive.
func MakeUniqueArray[T any](n int, opts ...Option) (*UniqueArray[T], error) {
	const op = "make unique array"
	if n <= 0 {
		return nil, zeroSize(op, n)
	}
	o := buildOptions(opts)
	size, err := arraySize[T](op, n)
	if err != nil {
		return nil, err
	}
	if err := o.alloc.Alloc(size); err != nil {
		return nil, allocationFailed(op, size, err)
	}
	a := o.alloc
	return NewUniqueArrayWithDeleter(make([]T, n), func(elems []T) {
		dropSlice(elems)
		a.Free(size)
	}), nil
}

func arraySize[T any](op string, n int) (uintptr, error) {
	var zero T
	elem := unsafe.Sizeof(zero)
	if elem != 0 && uintptr(n) > math.MaxInt/elem {
		return 0, &Error{Op: op, Kind: KindAllocation, Detail: "array size overflows", Size: n}
	}
	return uintptr(n) * elem, nil
}
