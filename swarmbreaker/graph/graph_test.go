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

package graph

import (
	"testing"

	"github.com/google/go-cmp/cmp"
)

func chain() *Graph {
	return Build([]Link{
		{"A", "B", 1},
		{"B", "C", 1},
		{"C", "D", 1},
		{"A", "E", 1},
		{"A", "B", 1}, // duplicated
	})
}

func TestBuild(t *testing.T) {
	g := chain()

	if g.NumEdges() != 4 {
		t.Errorf("Build error: expected %d edges, returned %d", 4, g.NumEdges())
	}
	if g.NumNodes() != 3 {
		t.Errorf("Build error: expected %d nodes with edges, returned %d", 3, g.NumNodes())
	}
	if diff := cmp.Diff([]string{"B", "E"}, g.Successors("A")); diff != "" {
		t.Errorf("Build error: successors of A (-want +got):\n%s", diff)
	}

	// directed
	if !g.HasEdge("A", "B") || g.HasEdge("B", "A") {
		t.Errorf("Build error: edges should be directed")
	}
}

func TestFindPath(t *testing.T) {
	g := chain()

	cases := []struct {
		start, end string
		path       []string
	}{
		{"A", "D", []string{"A", "B", "C", "D"}},
		{"A", "E", []string{"A", "E"}},
		{"B", "D", []string{"B", "C", "D"}},
		{"D", "A", nil}, // D has no outgoing edges
		{"B", "E", nil},
		{"C", "C", []string{"C"}},
	}
	for _, c := range cases {
		path := FindPath(g, c.start, c.end)
		if diff := cmp.Diff(c.path, path); diff != "" {
			t.Errorf("FindPath(%s, %s) error (-want +got):\n%s", c.start, c.end, diff)
		}
	}
}

func TestFindPathCycle(t *testing.T) {
	g := Build([]Link{
		{"A", "B", 1},
		{"B", "A", 1},
		{"B", "C", 1},
		{"C", "B", 1},
		{"C", "D", 1},
	})

	if diff := cmp.Diff([]string{"A", "B", "C", "D"}, FindPath(g, "A", "D")); diff != "" {
		t.Errorf("FindPath error (-want +got):\n%s", diff)
	}
	if path := FindPath(g, "A", "X"); path != nil {
		t.Errorf("FindPath error: expected nil, returned %v", path)
	}
}

func TestDeleteEdge(t *testing.T) {
	g := chain()

	if !g.DeleteEdge("B", "C") {
		t.Fatalf("DeleteEdge error: edge B->C should exist")
	}
	if g.DeleteEdge("B", "C") {
		t.Errorf("DeleteEdge error: edge B->C is already deleted")
	}
	if g.Successors("B") != nil {
		t.Errorf("DeleteEdge error: empty entry of B should be removed")
	}
	if g.NumEdges() != 3 || g.NumNodes() != 2 {
		t.Errorf("DeleteEdge error: unexpected graph size: %d nodes, %d edges", g.NumNodes(), g.NumEdges())
	}

	// a deleted edge is never used
	if path := FindPath(g, "A", "D"); path != nil {
		t.Errorf("FindPath error: expected nil after deletion, returned %v", path)
	}
	if diff := cmp.Diff([]string{"C", "D"}, FindPath(g, "C", "D")); diff != "" {
		t.Errorf("FindPath error (-want +got):\n%s", diff)
	}

	// order of remaining successors is kept
	g.DeleteEdge("A", "B")
	if diff := cmp.Diff([]string{"E"}, g.Successors("A")); diff != "" {
		t.Errorf("DeleteEdge error (-want +got):\n%s", diff)
	}
}

func TestReachable(t *testing.T) {
	g := Build([]Link{
		{"A", "B", 1},
		{"B", "C", 1},
		{"A", "D", 1},
		{"D", "E", 1},
		{"C", "F", 1},
	})

	if diff := cmp.Diff([]string{"A", "B", "C", "F", "D", "E"}, Reachable(g, "A", nil)); diff != "" {
		t.Errorf("Reachable error (-want +got):\n%s", diff)
	}

	g.DeleteEdge("B", "C")
	claimed := make(map[string]struct{})
	if diff := cmp.Diff([]string{"A", "B", "D", "E"}, Reachable(g, "A", claimed)); diff != "" {
		t.Errorf("Reachable error (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff([]string{"C", "F"}, Reachable(g, "C", claimed)); diff != "" {
		t.Errorf("Reachable error (-want +got):\n%s", diff)
	}

	// claimed nodes are skipped
	if nodes := Reachable(g, "D", claimed); nodes != nil {
		t.Errorf("Reachable error: expected nil for a claimed seed, returned %v", nodes)
	}

	// a node without edges
	if diff := cmp.Diff([]string{"X"}, Reachable(g, "X", nil)); diff != "" {
		t.Errorf("Reachable error (-want +got):\n%s", diff)
	}
}
