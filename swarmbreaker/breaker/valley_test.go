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
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/shenwei356/SwarmBreaker/swarmbreaker/graph"
)

func TestDeep(t *testing.T) {
	d := NewDetector(&DefaultOptions, nil)

	cases := []struct {
		first, last, lowest int
		deep                bool
	}{
		{500, 300, 2, true},    // 150 >= 50
		{1000, 300, 10, true},  // 30 > 25, and 3.3 < 10
		{5000, 300, 10, false}, // 30 > 25, but 16.7 >= 10
		{500, 300, 12, false},  // 25 is not > 25
		{5000, 500, 10, true},  // 50 >= 50
		{5000, 499, 10, false}, // 49.9, no truncation
		{500, 300, 20, false},
	}
	for _, c := range cases {
		if deep := d.deep(c.first, c.last, c.lowest); deep != c.deep {
			t.Errorf("deep(%d, %d, %d) error: expected %v, returned %v",
				c.first, c.last, c.lowest, c.deep, deep)
		}
	}
}

func TestDetect(t *testing.T) {
	store, s := prepare(t, "A_500 B_10 C_2 D_300 E_150 F_1")
	d := NewDetector(&DefaultOptions, store)

	if diff := cmp.Diff([]string{"A", "D", "E"}, d.Peaks(s)); diff != "" {
		t.Errorf("Peaks error (-want +got):\n%s", diff)
	}

	// A-B-C-D, A-F-E
	g := graph.Build(append(chain("A", "B", "C", "D"), chain("A", "F", "E")...))
	seeds, valleys, err := d.Detect(s, g)
	if err != nil {
		t.Fatalf("Detect error: %s", err)
	}

	if diff := cmp.Diff([]string{"A", "C", "F"}, seeds); diff != "" {
		t.Errorf("Detect error: seeds (-want +got):\n%s", diff)
	}
	if len(valleys) != 2 || !valleys[0].Cut || !valleys[1].Cut {
		t.Fatalf("Detect error: expected 2 cut valleys, returned %d", len(valleys))
	}
	if valleys[1].Left != "A" || valleys[1].Right != "F" {
		t.Errorf("Detect error: unexpected cut: %s -> %s", valleys[1].Left, valleys[1].Right)
	}

	// the graph never gains an edge
	if g.NumEdges() != 3 || g.HasEdge("B", "C") || g.HasEdge("A", "F") {
		t.Errorf("Detect error: unexpected graph after cutting: %d edges", g.NumEdges())
	}
}

func TestDetectRightmostValley(t *testing.T) {
	store, s := prepare(t, "A_500 B_2 C_40 D_2 E_300")
	d := NewDetector(&DefaultOptions, store)

	g := graph.Build(chain("A", "B", "C", "D", "E"))
	seeds, valleys, err := d.Detect(s, g)
	if err != nil {
		t.Fatalf("Detect error: %s", err)
	}

	if diff := cmp.Diff([]string{"A", "D"}, seeds); diff != "" {
		t.Errorf("Detect error: seeds (-want +got):\n%s", diff)
	}
	if valleys[0].Left != "C" {
		t.Errorf("Detect error: expected a cut at C -> D, returned %s -> %s", valleys[0].Left, valleys[0].Right)
	}
}

func TestDetectSinglePeak(t *testing.T) {
	store, s := prepare(t, "A_500 B_10 C_2 D_30")
	d := NewDetector(&DefaultOptions, store)

	g := graph.Build(chain("A", "B", "C", "D"))
	seeds, valleys, err := d.Detect(s, g)
	if err != nil {
		t.Fatalf("Detect error: %s", err)
	}
	if diff := cmp.Diff([]string{"A"}, seeds); diff != "" {
		t.Errorf("Detect error: seeds (-want +got):\n%s", diff)
	}
	if len(valleys) != 0 || g.NumEdges() != 3 {
		t.Errorf("Detect error: the graph should not be touched")
	}
}

func TestSubSwarmsOrphans(t *testing.T) {
	store, s := prepare(t, "A_500 B_10 C_2 D_300 E_1")

	// E is reported by no link
	g := graph.Build(chain("A", "B", "C", "D"))
	g.DeleteEdge("B", "C")

	subs, orphans, err := SubSwarms(s, g, []string{"A", "C", "B"}, store)
	if err != nil {
		t.Fatalf("SubSwarms error: %s", err)
	}
	if orphans != 1 {
		t.Errorf("SubSwarms error: expected 1 orphan, returned %d", orphans)
	}

	// B is already assigned to the sub-swarm of A
	if len(subs) != 2 {
		t.Fatalf("SubSwarms error: expected 2 sub-swarms, returned %d", len(subs))
	}
	if got := string(subs[0].Format()); got != "A_500 B_10 E_1\n" {
		t.Errorf("SubSwarms error: returned %q", got)
	}
	if got := string(subs[1].Format()); got != "D_300 C_2\n" {
		t.Errorf("SubSwarms error: returned %q", got)
	}
	if subs[0].Mass+subs[1].Mass != s.Mass {
		t.Errorf("SubSwarms error: mass is not conserved")
	}
}
