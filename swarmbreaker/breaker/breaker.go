// Copyright © 2023-2024 Wei Shen <shenwei356@gmail.com>
//
// Permission is hereby granted, free of charge, to any person obtaining a copy
// of this software and associated documentation files (the "Software"), to deal
// in the Software without restriction, including without limitation the rights
// to use, copy, modify, merge, publish, distribute, sublicense, and/or sell
// copies of the Software, and to permit persons to whom the Software is
// furnished to do so, subject to the following conditions:
//
// The above copyright notice and this permission notice shall be included in
// all copies or substantial portions of the Software.
//
// THE SOFTWARE IS PROVIDED "AS IS", WITHOUT WARRANTY OF ANY KIND, EXPRESS OR
// IMPLIED, INCLUDING BUT NOT LIMITED TO THE WARRANTIES OF MERCHANTABILITY,
// FITNESS FOR A PARTICULAR PURPOSE AND NONINFRINGEMENT. IN NO EVENT SHALL THE
// AUTHORS OR COPYRIGHT HOLDERS BE LIABLE FOR ANY CLAIM, DAMAGES OR OTHER
// LIABILITY, WHETHER IN AN ACTION OF CONTRACT, TORT OR OTHERWISE, ARISING FROM,
// OUT OF OR IN CONNECTION WITH THE SOFTWARE OR THE USE OR OTHER DEALINGS IN
// THE SOFTWARE.

package breaker

import (
	"context"

	"github.com/pkg/errors"
	"github.com/shenwei356/SwarmBreaker/swarmbreaker/amplicon"
	"github.com/shenwei356/SwarmBreaker/swarmbreaker/graph"
	"github.com/shenwei356/SwarmBreaker/swarmbreaker/linker"
	"github.com/shenwei356/SwarmBreaker/swarmbreaker/swarm"
)

// Stats contains counts of a Breaker.
type Stats struct {
	Input       int // swarms given
	Output      int // final swarms emitted
	Split       int // swarms split
	Cuts        int // edges deleted
	LinkerCalls int
	Orphans     int // amplicons reached from no seed
}

// Breaker breaks swarms containing deep valleys between peaks.
type Breaker struct {
	opt      *Options
	store    *amplicon.Store
	linker   linker.Linker
	detector *Detector

	// OnValley, if not nil, is called for every inspected valley of a swarm.
	OnValley func(s *swarm.Swarm, v *Valley) error

	Stats Stats
}

// New creates a Breaker.
func New(opt *Options, store *amplicon.Store, l linker.Linker) *Breaker {
	return &Breaker{
		opt:      opt,
		store:    store,
		linker:   l,
		detector: NewDetector(opt, store),
	}
}

// Active tells if a swarm is a candidate for splitting.
func (b *Breaker) Active(s *swarm.Swarm) bool {
	return s.Size > 2 && s.TopAbundance > b.opt.ActivityThreshold
}

// BreakAll breaks swarms one by one, in the given order.
func (b *Breaker) BreakAll(ctx context.Context, swarms []*swarm.Swarm, emit func(*swarm.Swarm) error) error {
	for _, s := range swarms {
		if err := b.Break(ctx, s, emit); err != nil {
			return err
		}
	}
	return nil
}

// Break splits a swarm and the resulting sub-swarms until no more cut
// can be made, and calls emit for every final swarm. The sub-swarm holding
// the seed of a split swarm is final immediately. Others are inspected
// again, depth first, the heaviest one first.
func (b *Breaker) Break(ctx context.Context, s *swarm.Swarm, emit func(*swarm.Swarm) error) error {
	b.Stats.Input++

	stack := []*swarm.Swarm{s}
	var subs []*swarm.Swarm
	var err error
	for len(stack) > 0 {
		s = stack[len(stack)-1]
		stack = stack[:len(stack)-1]

		subs, err = b.split(ctx, s)
		if err != nil {
			return err
		}

		if len(subs) < 2 {
			if err = b.emit(s, emit); err != nil {
				return err
			}
			continue
		}

		b.Stats.Split++
		if err = b.emit(subs[0], emit); err != nil {
			return err
		}

		subs = subs[1:]
		swarm.Sort(subs)
		for i := len(subs) - 1; i >= 0; i-- {
			stack = append(stack, subs[i])
		}
	}

	return nil
}

func (b *Breaker) emit(s *swarm.Swarm, emit func(*swarm.Swarm) error) error {
	b.Stats.Output++
	return emit(s)
}

// split re-clusters an active swarm and cuts its link graph.
// It returns nil if the swarm is not active or no cut is made.
func (b *Breaker) split(ctx context.Context, s *swarm.Swarm) ([]*swarm.Swarm, error) {
	if !b.Active(s) {
		return nil, nil
	}

	members := make([]*amplicon.Amplicon, s.Size)
	var err error
	for i, m := range s.Members {
		members[i], err = b.store.Get(m.ID)
		if err != nil {
			return nil, err
		}
	}

	b.Stats.LinkerCalls++
	links, err := b.linker.Link(ctx, members, b.opt.Differences)
	if err != nil {
		return nil, errors.Wrapf(err, "linking amplicons of swarm %s", s.Seed)
	}

	g := graph.Build(links)

	seeds, valleys, err := b.detector.Detect(s, g)
	if err != nil {
		return nil, errors.Wrapf(err, "detecting valleys in swarm %s", s.Seed)
	}

	if b.OnValley != nil {
		for _, v := range valleys {
			if err = b.OnValley(s, v); err != nil {
				return nil, err
			}
		}
	}

	if len(seeds) < 2 {
		return nil, nil
	}
	b.Stats.Cuts += len(seeds) - 1

	subs, orphans, err := SubSwarms(s, g, seeds, b.store)
	if err != nil {
		return nil, errors.Wrapf(err, "building sub-swarms of swarm %s", s.Seed)
	}
	b.Stats.Orphans += orphans

	return subs, nil
}
