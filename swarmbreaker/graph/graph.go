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

// Package graph implements the directed link graph of amplicons in a swarm,
// built from pairwise links reported by the clustering tool.
package graph

// Link is a pairwise relation between two amplicons, the edge is From -> To.
// Traversing edges from the seed of a swarm reaches every amplicon
// recruited by the clustering starting from the seed.
type Link struct {
	From     string
	To       string
	Distance int // number of differences
}

// Graph is a directed adjacency list, the order of successors
// is the order in which links were added.
// After building, edges can only be deleted.
type Graph struct {
	adj    map[string][]string
	nEdges int
}

// Build creates a graph from links, duplicated links are ignored.
func Build(links []Link) *Graph {
	g := &Graph{adj: make(map[string][]string, len(links))}

	var existed bool
	for _, l := range links {
		tos := g.adj[l.From]

		existed = false
		for _, to := range tos {
			if to == l.To {
				existed = true
				break
			}
		}
		if existed {
			continue
		}

		g.adj[l.From] = append(tos, l.To)
		g.nEdges++
	}
	return g
}

// NumNodes returns the number of nodes with at least one outgoing edge.
func (g *Graph) NumNodes() int {
	return len(g.adj)
}

// NumEdges returns the number of edges.
func (g *Graph) NumEdges() int {
	return g.nEdges
}

// Successors returns the direct successors of a node, in insertion order.
// The returned slice should not be modified.
func (g *Graph) Successors(id string) []string {
	return g.adj[id]
}

// HasEdge tells if the edge from -> to exists.
func (g *Graph) HasEdge(from, to string) bool {
	for _, v := range g.adj[from] {
		if v == to {
			return true
		}
	}
	return false
}

// DeleteEdge deletes the edge from -> to, and returns false if it does not exist.
// A node without outgoing edges is removed from the adjacency map.
func (g *Graph) DeleteEdge(from, to string) bool {
	tos, ok := g.adj[from]
	if !ok {
		return false
	}
	for i, v := range tos {
		if v != to {
			continue
		}

		if len(tos) == 1 {
			delete(g.adj, from)
		} else {
			// keep the order, and do not touch the shared backing array
			_tos := make([]string, 0, len(tos)-1)
			_tos = append(_tos, tos[:i]...)
			g.adj[from] = append(_tos, tos[i+1:]...)
		}
		g.nEdges--
		return true
	}
	return false
}

// Reachable returns all nodes reachable from the seed, including the seed,
// in the pre-order of a depth-first traversal following successor order.
// Nodes in claimed are neither visited nor returned,
// and visited nodes are added to claimed if it is not nil.
func Reachable(g *Graph, seed string, claimed map[string]struct{}) []string {
	if claimed == nil {
		claimed = make(map[string]struct{}, 8)
	}
	if _, ok := claimed[seed]; ok {
		return nil
	}

	nodes := make([]string, 0, 8)
	stack := []string{seed}
	var node string
	var tos []string
	var ok bool
	for len(stack) > 0 {
		node = stack[len(stack)-1]
		stack = stack[:len(stack)-1]

		if _, ok = claimed[node]; ok {
			continue
		}
		claimed[node] = struct{}{}
		nodes = append(nodes, node)

		// push in reverse order, so the first successor is visited first
		tos = g.adj[node]
		for i := len(tos) - 1; i >= 0; i-- {
			if _, ok = claimed[tos[i]]; !ok {
				stack = append(stack, tos[i])
			}
		}
	}
	return nodes
}
