// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package own_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"code.hybscloud.com/own"
)

func TestSharedUseCountAndTeardown(t *testing.T) {
	before := own.LiveBlocks()
	obj, drops := newTestObject(42)

	s1 := own.NewShared(obj)
	assert.Equal(t, 1, s1.UseCount())
	assert.True(t, s1.IsUnique())

	s2 := s1.Clone()
	assert.Equal(t, 2, s1.UseCount())
	assert.Equal(t, 2, s2.UseCount())
	assert.True(t, s1.Equal(s2))
	assert.Equal(t, 42, s2.Get().value)

	s1.Release()
	assert.True(t, s1.IsNil())
	assert.Equal(t, 0, s1.UseCount())
	assert.Equal(t, 1, s2.UseCount())
	assert.Zero(t, drops.Load())

	s2.Release()
	assert.Equal(t, int64(1), drops.Load())
	assert.Equal(t, before, own.LiveBlocks())

	s2.Release()
	assert.Equal(t, int64(1), drops.Load(), "release is idempotent")
}

func TestSharedEmpty(t *testing.T) {
	var zero own.Shared[int]
	assert.True(t, zero.IsNil())
	assert.Zero(t, zero.UseCount())

	s := own.NewShared[int](nil)
	assert.True(t, s.IsNil())
	assert.False(t, s.IsUnique())
	_, ok := s.TryGet()
	assert.False(t, ok)

	c := s.Clone()
	assert.True(t, c.IsNil())
	assert.True(t, s.Equal(c))
	s.Release()
	c.Release()

	var nilHandle *own.Shared[int]
	assert.Nil(t, nilHandle.Get())
	assert.Zero(t, nilHandle.UseCount())
	assert.True(t, nilHandle.Clone().IsNil())
	nilHandle.Release()
}

func TestSharedWithDeleter(t *testing.T) {
	v := 3
	d, calls := counter[int]()
	s := own.NewSharedWithDeleter(&v, d)
	c := s.Clone()
	s.Release()
	assert.Zero(t, calls.Load())
	c.Release()
	assert.Equal(t, int64(1), calls.Load())

	assert.PanicsWithValue(t, "own: nil deleter", func() {
		own.NewSharedWithDeleter(&v, nil)
	})
}

func TestSharedMove(t *testing.T) {
	obj, drops := newTestObject(1)
	s := own.NewShared(obj)

	m := s.Move()
	assert.True(t, s.IsNil())
	assert.Equal(t, 1, m.UseCount())
	assert.Same(t, obj, m.Get())

	var dst own.Shared[testObject]
	dst.MoveFrom(m)
	assert.True(t, m.IsNil())
	assert.Same(t, obj, dst.Get())
	assert.Zero(t, drops.Load())

	dst.MoveFrom(&dst)
	assert.Same(t, obj, dst.Get(), "self move is a no-op")

	dst.Release()
	assert.Equal(t, int64(1), drops.Load())
}

func TestSharedMoveFromReleasesPrevious(t *testing.T) {
	a, dropsA := newTestObject(1)
	b, dropsB := newTestObject(2)
	sa := own.NewShared(a)
	sb := own.NewShared(b)

	sa.MoveFrom(sb)
	assert.Equal(t, int64(1), dropsA.Load())
	assert.Equal(t, 2, sa.Get().value)
	sa.Release()
	assert.Equal(t, int64(1), dropsB.Load())
}

func TestSharedAssign(t *testing.T) {
	a, dropsA := newTestObject(1)
	b, dropsB := newTestObject(2)
	sa := own.NewShared(a)
	sb := own.NewShared(b)

	sa.Assign(sa)
	assert.Equal(t, 1, sa.UseCount())

	sa.Assign(sb)
	assert.Equal(t, int64(1), dropsA.Load())
	assert.Equal(t, 2, sb.UseCount())
	assert.True(t, sa.Equal(sb))

	c := sb.Clone()
	c.Assign(sb)
	assert.Equal(t, 3, sb.UseCount(), "assigning the same resource keeps it alive")

	sa.Assign(own.NewShared[testObject](nil))
	assert.True(t, sa.IsNil())
	assert.Equal(t, 2, sb.UseCount())

	c.Release()
	sb.Release()
	assert.Equal(t, int64(1), dropsB.Load())
}

func TestSharedReset(t *testing.T) {
	a, dropsA := newTestObject(1)
	b, dropsB := newTestObject(2)
	s := own.NewShared(a)

	s.Reset(b)
	assert.Equal(t, int64(1), dropsA.Load())
	assert.Same(t, b, s.Get())
	assert.Equal(t, 1, s.UseCount())

	v := 5
	d, calls := counter[testObject]()
	s.ResetWithDeleter(&testObject{value: v}, d)
	assert.Equal(t, int64(1), dropsB.Load())
	assert.Equal(t, v, s.Value().value)

	s.Reset(nil)
	assert.Equal(t, int64(1), calls.Load())
	assert.True(t, s.IsNil())
}

func TestSharedAccess(t *testing.T) {
	v := 9
	s := own.NewSharedWithDeleter(&v, func(*int) {})
	defer s.Release()

	p, ok := s.TryGet()
	require.True(t, ok)
	assert.Same(t, &v, p)
	assert.Equal(t, 9, s.Value())

	*s.Get() = 10
	assert.Equal(t, 10, v)
}

func TestSharedCompare(t *testing.T) {
	x, y := 1, 2
	sx := own.NewSharedWithDeleter(&x, func(*int) {})
	sy := own.NewSharedWithDeleter(&y, func(*int) {})
	empty := own.NewShared[int](nil)
	defer sx.Release()
	defer sy.Release()

	c := sx.Clone()
	defer c.Release()

	assert.Zero(t, sx.Compare(c))
	assert.Equal(t, -sx.Compare(sy), sy.Compare(sx))
	assert.NotZero(t, sx.Compare(sy))
	assert.Equal(t, -1, empty.Compare(sx))
	assert.Equal(t, 1, sx.Compare(empty))
	assert.False(t, sx.Equal(sy))
}

type base struct {
	name string
}

type derived struct {
	base
	drops int
}

func (d *derived) Drop() {
	d.drops++
}

func TestConvert(t *testing.T) {
	d := &derived{base: base{name: "dev"}}
	s := own.NewShared(d)

	b := own.Convert(s, func(d *derived) *base { return &d.base })
	assert.Equal(t, 2, s.UseCount())
	assert.Equal(t, 2, b.UseCount())
	assert.Equal(t, "dev", b.Get().name)

	s.Release()
	assert.Zero(t, d.drops)
	b.Release()
	assert.Equal(t, 1, d.drops, "the derived deleter runs")

	empty := own.Convert(own.NewShared[derived](nil), func(d *derived) *base { return &d.base })
	assert.True(t, empty.IsNil())
}

func TestSharedSwap(t *testing.T) {
	before := own.LiveBlocks()
	a, dropsA := newTestObject(1)
	b, dropsB := newTestObject(2)
	sa := own.NewShared(a)
	sb := own.NewShared(b)
	cb := sb.Clone()

	sa.Swap(sa)
	assert.Same(t, a, sa.Get(), "self swap is a no-op")

	sa.Swap(sb)
	assert.Same(t, b, sa.Get())
	assert.Same(t, a, sb.Get())
	assert.Equal(t, 2, sa.UseCount(), "use counts travel with the resource")
	assert.Equal(t, 1, sb.UseCount())
	assert.True(t, sa.Equal(cb))

	var empty own.Shared[testObject]
	sb.Swap(&empty)
	assert.True(t, sb.IsNil())
	assert.Same(t, a, empty.Get())
	assert.Zero(t, dropsA.Load())

	sb.Swap(nil)
	assert.True(t, sb.IsNil())

	empty.Release()
	assert.Equal(t, int64(1), dropsA.Load())
	sa.Release()
	cb.Release()
	assert.Equal(t, int64(1), dropsB.Load())
	assert.Equal(t, before, own.LiveBlocks())
}
