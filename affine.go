// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package own

import (
	"go.uber.org/atomic"
)

// Parcel carries exclusive ownership across goroutines. Whoever takes it
// first receives the resource; later attempts get nothing. Unlike Unique,
// a Parcel may be shared between goroutines, e.g. sent on a channel to
// several candidate receivers.
type Parcel[T any] struct {
	taken atomic.Bool
	u     *Unique[T]
}

// Send moves u's resource into a new Parcel and leaves u empty.
func Send[T any](u *Unique[T]) *Parcel[T] {
	return &Parcel[T]{u: u.Move()}
}

// Take returns the carried handle.
// Panics if the parcel has already been taken or discarded.
func (p *Parcel[T]) Take() *Unique[T] {
	u, ok := p.TryTake()
	if !ok {
		panic("own: parcel taken twice")
	}
	return u
}

// TryTake returns (handle, true) on the first call, or (nil, false) if the
// parcel has already been taken or discarded.
func (p *Parcel[T]) TryTake() (*Unique[T], bool) {
	if !p.taken.CompareAndSwap(false, true) {
		return nil, false
	}
	u := p.u
	p.u = nil
	return u, true
}

// Discard releases the carried resource unless it has been taken.
func (p *Parcel[T]) Discard() {
	if u, ok := p.TryTake(); ok {
		u.Release()
	}
}
