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

// Package linker obtains pairwise links of amplicons in a swarm
// by re-clustering its members with an external clustering tool.
package linker

import (
	"context"
	"fmt"
	"strings"

	"github.com/shenwei356/SwarmBreaker/swarmbreaker/amplicon"
	"github.com/shenwei356/SwarmBreaker/swarmbreaker/graph"
)

// Linker returns directed links among the given amplicons,
// clustered with a maximum number of differences.
type Linker interface {
	Link(ctx context.Context, members []*amplicon.Amplicon, differences int) ([]graph.Link, error)
}

// Format is the format of link records reported by the clustering tool.
type Format int

const (
	// FormatLegacy is the "@"-prefixed stderr lines of swarm 1.x with -b.
	FormatLegacy Format = iota
	// FormatInternal is the internal structure file of swarm >= 2 (-i).
	FormatInternal
)

var formatNames = []string{"legacy", "internal"}

func (f Format) String() string {
	if int(f) < len(formatNames) {
		return formatNames[f]
	}
	return fmt.Sprintf("Format(%d)", int(f))
}

// ParseFormat parses a format name.
func ParseFormat(s string) (Format, error) {
	for i, name := range formatNames {
		if strings.EqualFold(s, name) {
			return Format(i), nil
		}
	}
	return 0, fmt.Errorf("invalid link format: %s, available: %s", s, strings.Join(formatNames, ", "))
}

// CollaboratorError means the clustering tool failed
// or reported something that could not be understood.
type CollaboratorError struct {
	Binary string
	Reason string
	Stderr string // the last lines of stderr
	Err    error
}

func (e *CollaboratorError) Error() string {
	var b strings.Builder
	b.WriteString(e.Binary)
	b.WriteString(": ")
	b.WriteString(e.Reason)
	if e.Err != nil {
		b.WriteString(": ")
		b.WriteString(e.Err.Error())
	}
	if e.Stderr != "" {
		b.WriteString("\n")
		b.WriteString(e.Stderr)
	}
	return b.String()
}

func (e *CollaboratorError) Unwrap() error { return e.Err }
