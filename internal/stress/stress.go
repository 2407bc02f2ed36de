// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

// Package stress races clones, releases and promotions of shared resources
// across goroutines and checks that every resource is torn down exactly
// once and every control block is freed.
package stress

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/atomic"
	"go.uber.org/multierr"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"code.hybscloud.com/own"
)

// Config describes one stress run.
type Config struct {
	Workers    int    `mapstructure:"workers"`
	Iterations int    `mapstructure:"iterations"`
	Resources  int    `mapstructure:"resources"`
	ArrayLen   int    `mapstructure:"array_len"`
	Budget     uint64 `mapstructure:"budget"`
}

// Validate reports configuration values that cannot produce a run.
func (c Config) Validate() error {
	var err error
	if c.Workers <= 0 {
		err = multierr.Append(err, fmt.Errorf("workers must be positive, got %d", c.Workers))
	}
	if c.Iterations <= 0 {
		err = multierr.Append(err, fmt.Errorf("iterations must be positive, got %d", c.Iterations))
	}
	if c.Resources <= 0 {
		err = multierr.Append(err, fmt.Errorf("resources must be positive, got %d", c.Resources))
	}
	if c.ArrayLen < 0 {
		err = multierr.Append(err, fmt.Errorf("array_len must not be negative, got %d", c.ArrayLen))
	}
	return err
}

// Report summarizes a finished run.
type Report struct {
	Resources        int
	Clones           int64
	Promotions       int64
	FailedPromotions int64
	Deletions        int64
	PeakBytes        uint64
	Elapsed          time.Duration
}

type token struct {
	drops *atomic.Int64
	id    int
}

// Drop counts the teardown. Zero values dropped by a failed factory call
// have no counter.
func (p *token) Drop() {
	if p.drops != nil {
		p.drops.Inc()
	}
}

// subject is one resource under test: a root owner and a root observer.
// Every element of an array resource counts, so one teardown drops
// elems times.
type subject struct {
	scalar  *own.Shared[token]
	array   *own.SharedArray[token]
	weak    *own.Weak[token]
	weakArr *own.WeakArray[token]
	drops   atomic.Int64
	elems   int64
}

// Run executes cfg and returns its report. It fails if a resource was torn
// down other than exactly once, if a promotion succeeded after teardown, or
// if a control block or budget reservation was leaked.
func Run(ctx context.Context, cfg Config, log *zap.Logger) (Report, error) {
	if err := cfg.Validate(); err != nil {
		return Report{}, err
	}
	if log == nil {
		log = zap.NewNop()
	}
	start := time.Now()
	baseline := own.LiveBlocks()

	var alloc own.Allocator = own.Unbounded
	var budget *own.Budget
	if cfg.Budget > 0 {
		budget = own.NewBudget(uintptr(cfg.Budget))
		alloc = budget
	}

	subjects := make([]*subject, cfg.Resources)
	for i := range subjects {
		s, err := newSubject(i, cfg, alloc)
		if err != nil {
			for _, prev := range subjects[:i] {
				prev.release()
			}
			return Report{}, fmt.Errorf("create resource %d: %w", i, err)
		}
		subjects[i] = s
	}

	var rep Report
	var clones, promotions, failed atomic.Int64
	g, gctx := errgroup.WithContext(ctx)
	for _, s := range subjects {
		for range cfg.Workers {
			mine, weak := s.handles()
			g.Go(func() error {
				defer mine.Release()
				defer weak.Release()
				for i := range cfg.Iterations {
					if err := gctx.Err(); err != nil {
						return err
					}
					c := mine.Clone()
					clones.Inc()
					p := weak.Promote()
					if p.IsNil() {
						failed.Inc()
					} else {
						promotions.Inc()
					}
					if i%2 == 0 {
						p.Release()
						c.Release()
					} else {
						c.Release()
						p.Release()
					}
				}
				return nil
			})
		}
		s.dropRoot()
	}
	runErr := g.Wait()

	var err error
	for i, s := range subjects {
		err = multierr.Append(err, s.verify(i))
		rep.Deletions += s.drops.Load() / s.elems
		s.release()
	}
	if live := own.LiveBlocks(); live != baseline {
		err = multierr.Append(err, fmt.Errorf("%d control blocks leaked", live-baseline))
	}
	if budget != nil {
		if used := budget.Used(); used != 0 {
			err = multierr.Append(err, fmt.Errorf("%d bytes still reserved", used))
		}
		rep.PeakBytes = uint64(budget.Peak())
	}

	rep.Resources = cfg.Resources
	rep.Clones = clones.Load()
	rep.Promotions = promotions.Load()
	rep.FailedPromotions = failed.Load()
	rep.Elapsed = time.Since(start)
	log.Info("stress run finished",
		zap.Int("resources", rep.Resources),
		zap.Int64("clones", rep.Clones),
		zap.Int64("promotions", rep.Promotions),
		zap.Int64("failed_promotions", rep.FailedPromotions),
		zap.Int64("deletions", rep.Deletions),
		zap.Duration("elapsed", rep.Elapsed),
	)
	return rep, multierr.Append(runErr, err)
}

func newSubject(id int, cfg Config, alloc own.Allocator) (*subject, error) {
	s := &subject{elems: 1}
	if cfg.ArrayLen > 0 {
		a, err := own.MakeSharedArray[token](cfg.ArrayLen, own.WithAllocator(alloc))
		if err != nil {
			return nil, err
		}
		for i := range a.Size() {
			p := a.Index(i)
			p.drops, p.id = &s.drops, id
		}
		s.array = a
		s.weakArr = a.Weak()
		s.elems = int64(cfg.ArrayLen)
		return s, nil
	}
	sh, err := own.MakeShared(token{drops: &s.drops, id: id}, own.WithAllocator(alloc))
	if err != nil {
		return nil, err
	}
	s.scalar = sh
	s.weak = sh.Weak()
	return s, nil
}

// handle is the subset of a strong handle a worker needs.
type handle interface {
	own.Releaser
	Clone() handle
	IsNil() bool
}

type observer interface {
	own.Releaser
	Promote() handle
}

type scalarHandle struct{ *own.Shared[token] }

func (h scalarHandle) Clone() handle { return scalarHandle{h.Shared.Clone()} }
func (h scalarHandle) IsNil() bool   { return h.Shared.IsNil() }

type scalarObserver struct{ *own.Weak[token] }

func (o scalarObserver) Promote() handle { return scalarHandle{o.Weak.Promote()} }

type arrayHandle struct{ *own.SharedArray[token] }

func (h arrayHandle) Clone() handle { return arrayHandle{h.SharedArray.Clone()} }
func (h arrayHandle) IsNil() bool   { return h.SharedArray.IsNil() }

type arrayObserver struct{ *own.WeakArray[token] }

func (o arrayObserver) Promote() handle { return arrayHandle{o.WeakArray.Promote()} }

// handles returns a strong and a weak handle owned by one worker.
func (s *subject) handles() (handle, observer) {
	if s.array != nil {
		return arrayHandle{s.array.Clone()}, arrayObserver{s.weakArr.Clone()}
	}
	return scalarHandle{s.scalar.Clone()}, scalarObserver{s.weak.Clone()}
}

func (s *subject) dropRoot() {
	s.scalar.Release()
	s.array.Release()
}

func (s *subject) release() {
	s.dropRoot()
	s.weak.Release()
	s.weakArr.Release()
}

func (s *subject) verify(i int) error {
	var err error
	if n := s.drops.Load(); n != s.elems {
		err = multierr.Append(err, fmt.Errorf("resource %d: %d drops, want %d", i, n, s.elems))
	}
	if s.array != nil {
		if !s.weakArr.IsExpired() || s.weakArr.Size() != 0 {
			err = multierr.Append(err, fmt.Errorf("resource %d: weak array not expired", i))
		}
		if p := s.weakArr.Promote(); !p.IsNil() {
			p.Release()
			err = multierr.Append(err, fmt.Errorf("resource %d: promoted after teardown", i))
		}
		return err
	}
	if !s.weak.IsExpired() || s.weak.CounterValue() != 0 {
		err = multierr.Append(err, fmt.Errorf("resource %d: weak handle not expired", i))
	}
	if p := s.weak.Promote(); !p.IsNil() {
		p.Release()
		err = multierr.Append(err, fmt.Errorf("resource %d: promoted after teardown", i))
	}
	return err
}
