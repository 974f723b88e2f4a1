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
	"github.com/shenwei356/SwarmBreaker/swarmbreaker/util"
)

// Valley is the weakest point on the path between two peaks.
type Valley struct {
	Start, End string   // the two peaks
	Path       []string // from Start to End
	Abundances []int    // abundances of nodes in Path
	Lowest     int

	Cut         bool
	Left, Right string // the deleted edge, Right is the seed of a new sub-swarm
}

// Detector finds deep valleys between peaks of a swarm and cuts the link graph.
type Detector struct {
	opt   *Options
	store *amplicon.Store
}

// NewDetector creates a Detector.
func NewDetector(opt *Options, store *amplicon.Store) *Detector {
	return &Detector{opt: opt, store: store}
}

// Peaks returns members with an abundance >= the activity threshold,
// in the member order, i.e., the most abundant one first.
func (d *Detector) Peaks(s *swarm.Swarm) []string {
	peaks := make([]string, 0, 8)
	for _, m := range s.Members {
		if m.Abundance < d.opt.ActivityThreshold {
			break // members are sorted
		}
		peaks = append(peaks, m.ID)
	}
	return peaks
}

// Detect inspects the path between every pair of peaks, and deletes the edge
// on the left of the valley if it is deep enough. The graph is modified in place.
// It returns seeds of sub-swarms with the most abundant peak first,
// and all inspected valleys.
func (d *Detector) Detect(s *swarm.Swarm, g *graph.Graph) ([]string, []*Valley, error) {
	peaks := d.Peaks(s)
	if len(peaks) == 0 {
		return []string{s.Seed}, nil, nil
	}

	seeds := []string{peaks[0]}
	if len(peaks) < 2 {
		return seeds, nil, nil
	}

	valleys := make([]*Valley, 0, 4)

	var path []string
	var abundances []int
	var lowest, last, i int
	var err error
	for _, pair := range util.Pairs(len(peaks)) {
		path = graph.FindPath(g, peaks[pair[0]], peaks[pair[1]])
		// the path might be broken by previous cuts
		if len(path) <= 1 {
			continue
		}

		abundances = make([]int, len(path))
		for i = range path {
			abundances[i], err = d.store.Abundance(path[i])
			if err != nil {
				return nil, nil, err
			}
		}

		lowest = util.MinInts(abundances)
		last = abundances[len(abundances)-1]
		if lowest == last { // no valley before the ending peak
			continue
		}

		v := &Valley{
			Start:      path[0],
			End:        path[len(path)-1],
			Path:       path,
			Abundances: abundances,
			Lowest:     lowest,
		}
		valleys = append(valleys, v)

		if !d.deep(abundances[0], last, lowest) {
			continue
		}

		// cut on the left of the rightmost lowest point
		i = util.LastIndexInt(abundances, lowest)
		if i == 0 { // the starting peak itself is the lowest point
			continue
		}
		v.Left, v.Right = path[i-1], path[i]
		v.Cut = g.DeleteEdge(v.Left, v.Right)
		if v.Cut {
			seeds = append(seeds, v.Right)
		}
	}

	return seeds, valleys, nil
}

// deep tells if a valley is deep enough compared to the ending peak.
func (d *Detector) deep(first, last, lowest int) bool {
	r := float64(last) / float64(lowest)
	return (r > d.opt.ValleyRatio/2 && float64(first)/float64(last) < d.opt.PeakRatio) ||
		r >= d.opt.ValleyRatio
}
