// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package own

import (
	"runtime"

	"go.uber.org/zap"
)

// noCopy makes go vet (copylocks) report handles copied by value.
// Handles are shared through Clone and transferred through Move.
type noCopy struct{}

func (*noCopy) Lock()   {}
func (*noCopy) Unlock() {}

// strongRef is the strong-owner half of Shared and SharedArray.
// A handle that becomes unreachable while still attached is released by
// a runtime cleanup.
type strongRef struct {
	cb      *ControlBlock
	cleanup runtime.Cleanup
}

func (r *strongRef) detach() *ControlBlock {
	cb := r.cb
	if cb == nil {
		return nil
	}
	r.cleanup.Stop()
	r.cleanup = runtime.Cleanup{}
	r.cb = nil
	return cb
}

func (r *strongRef) release() {
	if cb := r.detach(); cb != nil {
		cb.DecrementStrong()
	}
}

func (r *strongRef) useCount() int {
	if r.cb == nil {
		return 0
	}
	return r.cb.CounterValue()
}

func trackStrong[H any](h *H, r *strongRef, cb *ControlBlock) {
	r.cb = cb
	r.cleanup = runtime.AddCleanup(h, reclaimStrong, cb)
}

// swapStrong exchanges the blocks of a and b and moves each cleanup to the
// handle that now holds the block.
func swapStrong[H any](a, b *H, ra, rb *strongRef) {
	ca, cb := ra.detach(), rb.detach()
	if cb != nil {
		trackStrong(a, ra, cb)
	}
	if ca != nil {
		trackStrong(b, rb, ca)
	}
}

func reclaimStrong(cb *ControlBlock) {
	Logger().Warn("shared handle reclaimed without Release", zap.Int("use_count", cb.CounterValue()))
	cb.DecrementStrong()
}

// weakRef is the observer half of Weak and WeakArray.
type weakRef struct {
	cb      *ControlBlock
	cleanup runtime.Cleanup
}

func (r *weakRef) detach() *ControlBlock {
	cb := r.cb
	if cb == nil {
		return nil
	}
	r.cleanup.Stop()
	r.cleanup = runtime.Cleanup{}
	r.cb = nil
	return cb
}

func (r *weakRef) release() {
	if cb := r.detach(); cb != nil {
		cb.DecrementWeak()
	}
}

func (r *weakRef) expired() bool {
	return r.cb == nil || r.cb.Expired()
}

func (r *weakRef) counterValue() int {
	if r.cb == nil {
		return 0
	}
	return r.cb.CounterValue()
}

func trackWeak[H any](h *H, r *weakRef, cb *ControlBlock) {
	r.cb = cb
	r.cleanup = runtime.AddCleanup(h, reclaimWeak, cb)
}

func swapWeak[H any](a, b *H, ra, rb *weakRef) {
	ca, cb := ra.detach(), rb.detach()
	if cb != nil {
		trackWeak(a, ra, cb)
	}
	if ca != nil {
		trackWeak(b, rb, ca)
	}
}

func reclaimWeak(cb *ControlBlock) {
	Logger().Debug("weak handle reclaimed without Release")
	cb.DecrementWeak()
}

// orphan is what an exclusive handle leaves behind for its cleanup.
type orphan[P any] struct {
	res  P
	drop func(P)
}

func trackUnique[H, P any](h *H, res P, drop func(P)) runtime.Cleanup {
	return runtime.AddCleanup(h, reclaimUnique[P], orphan[P]{res: res, drop: drop})
}

func reclaimUnique[P any](o orphan[P]) {
	Logger().Warn("unique handle reclaimed without Release")
	o.drop(o.res)
}
