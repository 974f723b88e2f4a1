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

// Package swarm defines swarm records, i.e., coarse amplicon clusters,
// and reads/writes them in the one-swarm-per-line cluster format.
package swarm

import (
	"github.com/twotwotwo/sorts"
)

// Member is an amplicon in a swarm.
type Member struct {
	ID        string
	Abundance int
}

// Members is a list of swarm members, sorted by
// decreasing abundance and then decreasing identifier.
type Members []Member

func (s Members) Len() int { return len(s) }
func (s Members) Less(i, j int) bool {
	if s[i].Abundance == s[j].Abundance {
		return s[i].ID > s[j].ID
	}
	return s[i].Abundance > s[j].Abundance
}
func (s Members) Swap(i, j int) { s[i], s[j] = s[j], s[i] }

// Swarm is a cluster of amplicons.
// The first member is always the seed, i.e., the most abundant amplicon.
// A Swarm is not modified after creation, splitting one creates new ones.
type Swarm struct {
	Seed         string
	Mass         int // sum of abundances
	Size         int // number of members
	TopAbundance int
	Members      Members
}

// New creates a swarm from a non-empty member list, which is sorted in place.
func New(members []Member) *Swarm {
	ms := Members(members)
	sorts.Quicksort(ms)

	var mass int
	for _, m := range ms {
		mass += m.Abundance
	}
	return &Swarm{
		Seed:         ms[0].ID,
		Mass:         mass,
		Size:         len(ms),
		TopAbundance: ms[0].Abundance,
		Members:      ms,
	}
}

// IDs returns identifiers of all members, in the member order.
func (s *Swarm) IDs() []string {
	ids := make([]string, len(s.Members))
	for i, m := range s.Members {
		ids[i] = m.ID
	}
	return ids
}

// Swarms is a list of swarms, sorted by decreasing mass,
// decreasing size and then decreasing seed identifier.
type Swarms []*Swarm

func (s Swarms) Len() int { return len(s) }
func (s Swarms) Less(i, j int) bool {
	a, b := s[i], s[j]
	if a.Mass != b.Mass {
		return a.Mass > b.Mass
	}
	if a.Size != b.Size {
		return a.Size > b.Size
	}
	return a.Seed > b.Seed
}
func (s Swarms) Swap(i, j int) { s[i], s[j] = s[j], s[i] }

// Sort sorts swarms by decreasing mass, size and seed identifier,
// so the processing order is reproducible.
func Sort(swarms []*Swarm) {
	sorts.Quicksort(Swarms(swarms))
}
