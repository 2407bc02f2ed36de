// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package own

import (
	"strconv"
	"strings"
)

// Kind categorizes an ownership error.
type Kind uint8

const (
	KindOutOfRange Kind = iota + 1 // index outside [0, size)
	KindEmpty                      // handle owns no resource
	KindZeroSize                   // array of zero or negative length requested
	KindAllocation                 // allocator refused a reservation
	KindNoResource                 // ownership transfer out of an empty handle
)

func (k Kind) String() string {
	switch k {
	case KindOutOfRange:
		return "out of range"
	case KindEmpty:
		return "empty"
	case KindZeroSize:
		return "zero size"
	case KindAllocation:
		return "allocation failed"
	case KindNoResource:
		return "no resource"
	default:
		return "unknown"
	}
}

// Error is the error type returned by fallible operations.
// Two errors are equal under errors.Is when their kinds match.
type Error struct {
	Cause  error
	Op     string
	Detail string
	Index  int
	Size   int
	Kind   Kind
}

// Sentinel errors for errors.Is.
var (
	ErrOutOfRange = &Error{Kind: KindOutOfRange}
	ErrEmpty      = &Error{Kind: KindEmpty}
	ErrZeroSize   = &Error{Kind: KindZeroSize}
	ErrAllocation = &Error{Kind: KindAllocation}
	ErrNoResource = &Error{Kind: KindNoResource}
)

// Error implements the error interface.
func (e *Error) Error() string {
	var b strings.Builder
	b.WriteString("own: ")
	if e.Op != "" {
		b.WriteString(e.Op)
		b.WriteString(": ")
	}
	b.WriteString(e.Kind.String())
	switch {
	case e.Kind == KindOutOfRange:
		b.WriteString(": index ")
		b.WriteString(strconv.Itoa(e.Index))
		b.WriteString(" not in [0, ")
		b.WriteString(strconv.Itoa(e.Size))
		b.WriteByte(')')
	case e.Detail != "":
		b.WriteString(": ")
		b.WriteString(e.Detail)
	}
	if e.Cause != nil {
		b.WriteString(" (caused by: ")
		b.WriteString(e.Cause.Error())
		b.WriteByte(')')
	}
	return b.String()
}

// Message returns the human-readable message without the package prefix.
func (e *Error) Message() string {
	return strings.TrimPrefix(e.Error(), "own: ")
}

// Unwrap returns the underlying cause.
func (e *Error) Unwrap() error {
	return e.Cause
}

// Is reports whether target is an *Error of the same kind.
func (e *Error) Is(target error) bool {
	if t, ok := target.(*Error); ok {
		return e.Kind == t.Kind
	}
	return false
}

func outOfRange(op string, index, size int) *Error {
	return &Error{Op: op, Kind: KindOutOfRange, Index: index, Size: size}
}

func emptyHandle(op string) *Error {
	return &Error{Op: op, Kind: KindEmpty, Detail: "handle owns no resource"}
}

func zeroSize(op string, n int) *Error {
	return &Error{Op: op, Kind: KindZeroSize, Detail: "array length " + strconv.Itoa(n) + " is not positive", Size: n}
}

func allocationFailed(op string, size uintptr, cause error) *Error {
	return &Error{
		Op:     op,
		Kind:   KindAllocation,
		Detail: "failed to reserve " + strconv.FormatUint(uint64(size), 10) + " bytes",
		Cause:  cause,
	}
}

func noResource(op string) *Error {
	return &Error{Op: op, Kind: KindNoResource, Detail: "nothing to transfer"}
}
