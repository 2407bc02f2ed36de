// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

// Package own provides reference-counted shared ownership, weak
// observation and exclusive ownership of resources that need deterministic
// teardown.
//
// Go's garbage collector reclaims memory, but not file descriptors, pooled
// buffers, GPU memory or leases. A resource of that kind is handed to an
// ownership handle together with a deleter; the deleter runs exactly once,
// when the last owner lets go.
//
// # Design Philosophy
//
// own provides:
//   - One control block per resource with atomic strong and weak counts
//   - Handles that are explicit about copying ([Shared.Clone]), moving
//     ([Shared.Move]) and destruction ([Shared.Release])
//   - Scalar and array forms built on the same bookkeeping
//   - Fallible operations that return (value, error) instead of panicking
//
// Handles carry a noCopy marker: go vet reports a handle copied by value.
// A handle that becomes unreachable without Release is released by a
// runtime cleanup and reported through the package [Logger].
//
// # Control Block
//
// [ControlBlock] holds the strong count, the weak count, the element count
// of array resources and the deleter.
//
//   - [NewControlBlock], [NewArrayControlBlock]: Standalone blocks
//   - [ControlBlock.IncrementStrong], [ControlBlock.DecrementStrong]: Strong owners
//   - [ControlBlock.TryIncrementStrong]: Increment only if not zero (promotion)
//   - [ControlBlock.IncrementWeak], [ControlBlock.DecrementWeak]: Weak observers
//   - [ControlBlock.CounterValue], [ControlBlock.WeakCount], [ControlBlock.Size]: Observers
//   - [LiveBlocks]: Number of blocks not yet freed
//
// The deleter runs when the strong count reaches zero. The block itself is
// freed once both counts have reached zero, in either order, by exactly one
// of the decrements involved.
//
// # Shared Ownership
//
//   - [NewShared], [NewSharedWithDeleter], [MakeShared]: Constructors
//   - [Shared.Clone], [Shared.Assign]: Copy
//   - [Shared.Move], [Shared.MoveFrom]: Move
//   - [Shared.Swap]: Exchange resources
//   - [Shared.Release], [Shared.Reset], [Shared.ResetWithDeleter]: Release
//   - [Shared.Get], [Shared.TryGet], [Shared.Value]: Access
//   - [Shared.UseCount], [Shared.IsUnique], [Shared.IsNil]: Observers
//   - [Shared.Equal], [Shared.Compare]: Identity and ordering
//   - [Convert]: Share ownership while exposing a derived pointer
//
// [SharedArray] adds [SharedArray.Size], [SharedArray.At] (bounds checked),
// [SharedArray.Index] and [SharedArray.All]; [ConvertArray] preserves the
// element count.
//
// # Weak Observation
//
// [Weak] and [WeakArray] observe a resource without keeping it alive.
//
//   - [NewWeak], [Shared.Weak]: Constructors
//   - [Weak.Promote]: Obtain a strong owner, or an empty handle once expired
//   - [Weak.Swap]: Exchange observed resources
//   - [Weak.IsExpired], [Weak.CounterValue]: Observers
//
// Promotion raises the strong count with a compare-and-swap loop and never
// resurrects a resource whose count has reached zero.
//
// # Exclusive Ownership
//
// [Unique] and [UniqueArray] own a resource alone, with no control block
// and no atomics.
//
//   - [NewUnique], [NewUniqueWithDeleter], [MakeUnique]: Constructors
//   - [Unique.Move], [Unique.MoveFrom], [Unique.Swap]: Transfer
//   - [Unique.GetAndRelease], [Unique.TryGetAndRelease]: Give up ownership
//   - [Unique.SetResource], [Unique.Reset]: Take ownership
//   - [Parcel]: Hand a Unique to exactly one of several goroutines
//
// # Allocation Accounting
//
// The factory helpers reserve memory through an [Allocator] before they
// allocate. [Budget] refuses reservations beyond a limit; the failure is
// reported as [ErrAllocation]. [MakeSharedArray] and [MakeUniqueArray]
// report [ErrZeroSize] for non-positive lengths.
//
// # Resource Safety
//
//   - [Bracket]: Acquire-use-release with guaranteed release
//   - [OnError]: Release only if the body fails
//   - [Scope]: Release a set of handles together
package own
