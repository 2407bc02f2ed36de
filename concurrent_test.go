// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package own_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/atomic"
	"golang.org/x/sync/errgroup"

	"code.hybscloud.com/own"
)

func TestConcurrentCloneRelease(t *testing.T) {
	const goroutines, iterations = 16, 2000
	before := own.LiveBlocks()
	obj, drops := newTestObject(1)
	root := own.NewShared(obj)

	var g errgroup.Group
	for range goroutines {
		mine := root.Clone()
		g.Go(func() error {
			defer mine.Release()
			for range iterations {
				c := mine.Clone()
				if c.Get() != obj {
					return assert.AnError
				}
				c.Release()
			}
			return nil
		})
	}
	require.NoError(t, g.Wait())
	assert.Equal(t, 1, root.UseCount())
	assert.Zero(t, drops.Load())

	root.Release()
	assert.Equal(t, int64(1), drops.Load())
	assert.Equal(t, before, own.LiveBlocks())
}

func TestConcurrentPromoteVersusLastRelease(t *testing.T) {
	const rounds, observers = 200, 8
	before := own.LiveBlocks()
	for range rounds {
		obj, drops := newTestObject(1)
		s := own.NewShared(obj)
		var promoted, afterTeardown atomic.Int64

		var g errgroup.Group
		for range observers {
			w := s.Weak()
			g.Go(func() error {
				defer w.Release()
				for range 50 {
					p := w.Promote()
					if !p.IsNil() {
						promoted.Inc()
						if drops.Load() != 0 {
							afterTeardown.Inc()
						}
						p.Release()
					}
				}
				return nil
			})
		}
		g.Go(func() error {
			s.Release()
			return nil
		})
		require.NoError(t, g.Wait())

		require.Equal(t, int64(1), drops.Load(), "deleter must run exactly once")
		require.Zero(t, afterTeardown.Load(), "promoted a destroyed resource")
	}
	assert.Equal(t, before, own.LiveBlocks())
}

func TestConcurrentWeakAndStrongFinalRelease(t *testing.T) {
	const rounds = 500
	before := own.LiveBlocks()
	for range rounds {
		d, calls := counter[int]()
		v := 0
		s := own.NewSharedWithDeleter(&v, d)
		w := s.Weak()
		c := s.Clone()

		var g errgroup.Group
		g.Go(func() error { s.Release(); return nil })
		g.Go(func() error { c.Release(); return nil })
		g.Go(func() error { w.Release(); return nil })
		require.NoError(t, g.Wait())
		require.Equal(t, int64(1), calls.Load())
	}
	assert.Equal(t, before, own.LiveBlocks(), "every block freed exactly once")
}

func TestConcurrentBudget(t *testing.T) {
	const goroutines = 8
	budget := own.NewBudget(64 * goroutines)
	var g errgroup.Group
	for range goroutines {
		g.Go(func() error {
			for range 1000 {
				if err := budget.Alloc(64); err != nil {
					return err
				}
				budget.Free(64)
			}
			return nil
		})
	}
	require.NoError(t, g.Wait())
	assert.Zero(t, budget.Used())
	assert.LessOrEqual(t, budget.Peak(), budget.Limit())
}
