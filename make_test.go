// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package own_test

import (
	"errors"
	"math"
	"testing"
	"unsafe"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"code.hybscloud.com/own"
)

func TestMakeShared(t *testing.T) {
	before := own.LiveBlocks()
	obj, drops := newTestObject(42)

	s, err := own.MakeShared(*obj)
	require.NoError(t, err)
	assert.NotSame(t, obj, s.Get(), "the value is copied")
	assert.Equal(t, 42, s.Get().value)
	assert.Equal(t, 1, s.UseCount())

	s.Release()
	assert.Equal(t, int64(1), drops.Load())
	assert.Equal(t, before, own.LiveBlocks())
}

func TestMakeSharedArrayZeroSize(t *testing.T) {
	for _, n := range []int{0, -1} {
		a, err := own.MakeSharedArray[string](n)
		require.ErrorIs(t, err, own.ErrZeroSize)
		assert.Nil(t, a)

		var oe *own.Error
		require.True(t, errors.As(err, &oe))
		assert.Equal(t, n, oe.Size)
	}

	u, err := own.MakeUniqueArray[int](0)
	assert.ErrorIs(t, err, own.ErrZeroSize)
	assert.Nil(t, u)
}

func TestMakeSharedArray(t *testing.T) {
	a, err := own.MakeSharedArray[string](3)
	require.NoError(t, err)
	assert.Equal(t, 3, a.Size())
	assert.Equal(t, []string{"", "", ""}, a.Slice())

	w := a.Weak()
	a.Release()
	assert.True(t, w.IsExpired())
	w.Release()
}

func TestMakeBudgetExhausted(t *testing.T) {
	before := own.LiveBlocks()
	budget := own.NewBudget(4)

	_, err := own.MakeShared(int64(1), own.WithAllocator(budget))
	require.ErrorIs(t, err, own.ErrAllocation)
	assert.Contains(t, err.Error(), "budget exceeded")
	_, err = own.MakeUnique(int64(1), own.WithAllocator(budget))
	require.ErrorIs(t, err, own.ErrAllocation)
	_, err = own.MakeSharedArray[int32](2, own.WithAllocator(budget))
	require.ErrorIs(t, err, own.ErrAllocation)
	_, err = own.MakeUniqueArray[int32](2, own.WithAllocator(budget))
	require.ErrorIs(t, err, own.ErrAllocation)

	assert.Zero(t, budget.Used())
	assert.Equal(t, before, own.LiveBlocks())
}

func TestMakeRollsBackWhenBlockDoesNotFit(t *testing.T) {
	before := own.LiveBlocks()
	obj, drops := newTestObject(1)
	budget := own.NewBudget(unsafe.Sizeof(*obj))

	s, err := own.MakeShared(*obj, own.WithAllocator(budget))
	require.ErrorIs(t, err, own.ErrAllocation)
	assert.Nil(t, s)
	assert.Equal(t, int64(1), drops.Load(), "the half-built resource is torn down")
	assert.Zero(t, budget.Used())
	assert.Equal(t, before, own.LiveBlocks())

	elems := own.NewBudget(8)
	a, err := own.MakeSharedArray[int32](2, own.WithAllocator(elems))
	require.ErrorIs(t, err, own.ErrAllocation)
	assert.Nil(t, a)
	assert.Zero(t, elems.Used())
	assert.Equal(t, uintptr(8), elems.Peak())
}

func TestMakeOverflow(t *testing.T) {
	_, err := own.MakeSharedArray[[1 << 20]byte](math.MaxInt)
	require.ErrorIs(t, err, own.ErrAllocation)
	assert.Contains(t, err.Error(), "overflows")

	_, err = own.MakeUniqueArray[[1 << 20]byte](math.MaxInt)
	assert.ErrorIs(t, err, own.ErrAllocation)
}

func TestMakeWithBudget(t *testing.T) {
	budget := own.NewBudget(1 << 12)

	s, err := own.MakeShared(int64(1), own.WithAllocator(budget))
	require.NoError(t, err)
	held := budget.Used()
	assert.Greater(t, held, uintptr(8), "the control block is accounted as well")

	a, err := own.MakeSharedArray[int32](4, own.WithAllocator(budget))
	require.NoError(t, err)
	assert.Greater(t, budget.Used(), held+16)

	u, err := own.MakeUnique(int16(1), own.WithAllocator(budget))
	require.NoError(t, err)
	ua, err := own.MakeUniqueArray[byte](10, own.WithAllocator(budget))
	require.NoError(t, err)

	total := budget.Used()
	w := s.Weak()
	s.Release()
	assert.Equal(t, total-8, budget.Used(), "resource returned, block still observed")
	w.Release()
	assert.Equal(t, total-held, budget.Used())

	a.Release()
	u.Release()
	ua.Release()
	assert.Zero(t, budget.Used())
	assert.Equal(t, uintptr(1<<12), budget.Limit())
	assert.GreaterOrEqual(t, budget.Peak(), held)
}
