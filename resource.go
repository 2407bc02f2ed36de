// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package own

import (
	"fmt"
	"sync"

	"go.uber.org/multierr"
)

// Resource safety helpers for handles.
// These provide bracketed acquisition and scoped release.

// Releaser is implemented by every handle type.
type Releaser interface {
	Release()
}

// Bracket acquires a handle, passes it to use and releases it afterwards,
// also when use fails or panics.
func Bracket[H Releaser, A any](acquire func() (H, error), use func(H) (A, error)) (A, error) {
	h, err := acquire()
	if err != nil {
		var zero A
		return zero, err
	}
	defer h.Release()
	return use(h)
}

// OnError runs body and releases h only if body fails or panics.
// On success the caller keeps ownership of h.
func OnError[H Releaser, A any](h H, body func(H) (A, error)) (a A, err error) {
	ok := false
	defer func() {
		if !ok {
			h.Release()
		}
	}()
	a, err = body(h)
	ok = err == nil
	return a, err
}

// Scope releases a set of handles together, most recently added first.
// The zero value is ready to use and a Scope is safe for concurrent use.
type Scope struct {
	mu     sync.Mutex
	items  []Releaser
	closed bool
}

// Add registers r for release when the scope closes. If the scope is
// already closed, r is released immediately.
func (s *Scope) Add(r Releaser) {
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		r.Release()
		return
	}
	s.items = append(s.items, r)
	s.mu.Unlock()
}

// Keep registers h with s and returns it.
func Keep[H Releaser](s *Scope, h H) H {
	s.Add(h)
	return h
}

// Len returns the number of handles awaiting release.
func (s *Scope) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.items)
}

// Close releases every registered handle in reverse order. A release that
// panics does not stop the others; the panics are returned as one error.
// Closing a closed scope is a no-op.
func (s *Scope) Close() error {
	s.mu.Lock()
	items := s.items
	s.items = nil
	s.closed = true
	s.mu.Unlock()

	var err error
	for i := len(items) - 1; i >= 0; i-- {
		err = multierr.Append(err, safeRelease(items[i]))
	}
	return err
}

func safeRelease(r Releaser) (err error) {
	defer func() {
		if v := recover(); v != nil {
			if e, ok := v.(error); ok {
				err = fmt.Errorf("own: release panicked: %w", e)
				return
			}
			err = fmt.Errorf("own: release panicked: %v", v)
		}
	}()
	r.Release()
	return nil
}
