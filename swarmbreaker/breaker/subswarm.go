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
	"github.com/shenwei356/SwarmBreaker/swarmbreaker/amplicon"
	"github.com/shenwei356/SwarmBreaker/swarmbreaker/graph"
	"github.com/shenwei356/SwarmBreaker/swarmbreaker/swarm"
)

// SubSwarms rebuilds one sub-swarm for each seed by exploring the cut graph.
// An amplicon reached from an earlier seed is not assigned again, and a seed
// already assigned produces no sub-swarm. Members of s reached from no seed
// are added to the first sub-swarm, and their number is returned.
// The first sub-swarm always contains seeds[0].
func SubSwarms(s *swarm.Swarm, g *graph.Graph, seeds []string, store *amplicon.Store) ([]*swarm.Swarm, int, error) {
	claimed := make(map[string]struct{}, s.Size)
	groups := make([][]swarm.Member, 0, len(seeds))

	var nodes []string
	var err error
	for _, seed := range seeds {
		nodes = graph.Reachable(g, seed, claimed)
		if len(nodes) == 0 {
			continue
		}

		members := make([]swarm.Member, len(nodes))
		for i, id := range nodes {
			members[i].ID = id
			members[i].Abundance, err = store.Abundance(id)
			if err != nil {
				return nil, 0, err
			}
		}
		groups = append(groups, members)
	}

	var orphans int
	var ok bool
	for _, m := range s.Members {
		if _, ok = claimed[m.ID]; !ok {
			groups[0] = append(groups[0], m)
			orphans++
		}
	}

	subs := make([]*swarm.Swarm, len(groups))
	for i, members := range groups {
		subs[i] = swarm.New(members)
	}
	return subs, orphans, nil
}
