// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package own

import "sync"

// Control block pool for blocks created by handle constructors and the
// factory helpers. Only handles reference a pooled block, and every handle
// drops its reference before the block can be freed, so a freed block is
// unreachable and safe to reuse. Blocks from NewControlBlock and
// NewArrayControlBlock are never pooled: their creator may keep them.

var blockPool = sync.Pool{New: func() any { return new(ControlBlock) }}

// acquireBlock returns a zeroed block marked as pooled.
func acquireBlock() *ControlBlock {
	b := blockPool.Get().(*ControlBlock)
	b.pooled = true
	return b
}

// releaseBlock zeroes b and returns it to the pool; no-op if not pooled.
func releaseBlock(b *ControlBlock) {
	if !b.pooled {
		return
	}
	b.destroy = nil
	b.free = nil
	b.size.Store(0)
	b.strong.Store(0)
	b.weak.Store(0)
	b.pooled = false
	blockPool.Put(b)
}
