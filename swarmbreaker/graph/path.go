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

type frame struct {
	node string
	next int // index of the next successor to try
}

// FindPath returns the first path from start to end found by a depth-first
// search following successor order. Nodes already on the current path are
// not revisited. It returns nil if start has no outgoing edges or end is
// not reachable, which is normal after edges are deleted.
func FindPath(g *Graph, start, end string) []string {
	if start == end {
		return []string{start}
	}
	if _, ok := g.adj[start]; !ok {
		return nil
	}

	onPath := map[string]struct{}{start: {}}
	// nodes fully explored without reaching the end.
	// This is exact for acyclic graphs, which links from clustering are.
	dead := make(map[string]struct{}, 8)

	stack := []*frame{{node: start}}
	var f *frame
	var tos []string
	var to string
	var ok bool
	for len(stack) > 0 {
		f = stack[len(stack)-1]
		tos = g.adj[f.node]

		if f.next >= len(tos) { // backtrack
			dead[f.node] = struct{}{}
			delete(onPath, f.node)
			stack = stack[:len(stack)-1]
			continue
		}

		to = tos[f.next]
		f.next++

		if to == end {
			path := make([]string, 0, len(stack)+1)
			for _, f = range stack {
				path = append(path, f.node)
			}
			return append(path, end)
		}

		if _, ok = onPath[to]; ok {
			continue
		}
		if _, ok = dead[to]; ok {
			continue
		}
		onPath[to] = struct{}{}
		stack = append(stack, &frame{node: to})
	}

	return nil
}
