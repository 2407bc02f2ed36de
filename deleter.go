// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package own

import (
	"io"

	"go.uber.org/zap"
)

// Deleter releases a scalar resource. It is called exactly once.
type Deleter[T any] func(*T)

// ArrayDeleter releases an array resource. The slice carries the element count.
type ArrayDeleter[T any] func([]T)

// Dropper is implemented by resources that need explicit teardown.
type Dropper interface {
	Drop()
}

// DefaultDeleter returns the deleter used when none is supplied.
// It calls Drop when *T implements Dropper, otherwise Close when *T
// implements io.Closer, and leaves the memory to the garbage collector.
func DefaultDeleter[T any]() Deleter[T] {
	return dropValue[T]
}

// DefaultArrayDeleter returns the array counterpart of DefaultDeleter.
// Every element is dropped in index order and the slice is then cleared.
func DefaultArrayDeleter[T any]() ArrayDeleter[T] {
	return dropSlice[T]
}

func dropValue[T any](p *T) {
	if p == nil {
		return
	}
	switch r := any(p).(type) {
	case Dropper:
		r.Drop()
	case io.Closer:
		if err := r.Close(); err != nil {
			Logger().Error("close failed during teardown", zap.Error(err))
		}
	}
}

func dropSlice[T any](elems []T) {
	for i := range elems {
		dropValue(&elems[i])
	}
	clear(elems)
}

func mustDeleter[D ~func(P), P any](d D) D {
	if d == nil {
		panic("own: nil deleter")
	}
	return d
}
