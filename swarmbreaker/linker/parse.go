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

package linker

import (
	"bufio"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/shenwei356/SwarmBreaker/swarmbreaker/amplicon"
	"github.com/shenwei356/SwarmBreaker/swarmbreaker/graph"
)

// ParseLegacy parses "@"-prefixed lines of swarm 1.x (-b), other lines are ignored.
// Fields are tab-separated, the second to the fourth ones are
// the source amplicon, the target amplicon and the number of differences.
// Identifiers must belong to members.
func ParseLegacy(r io.Reader, members map[string]struct{}) ([]graph.Link, error) {
	return parse(r, members, func(line string) ([]string, bool) {
		if !strings.HasPrefix(line, "@") {
			return nil, false
		}
		fields := strings.Split(line, "\t")
		return fields[1:], true
	})
}

// ParseInternal parses the internal structure file of swarm >= 2 (-i).
// Fields are tab-separated, the first three ones are
// the source amplicon, the target amplicon and the number of differences.
// Identifiers must belong to members.
func ParseInternal(r io.Reader, members map[string]struct{}) ([]graph.Link, error) {
	return parse(r, members, func(line string) ([]string, bool) {
		if line == "" {
			return nil, false
		}
		return strings.Split(line, "\t"), true
	})
}

func parse(r io.Reader, members map[string]struct{},
	fieldsOf func(line string) ([]string, bool)) ([]graph.Link, error) {

	links := make([]graph.Link, 0, len(members))

	br := bufio.NewReader(r)
	var line string
	var fields []string
	var ok bool
	var n int
	var from, to string
	var d int
	var err error
	for {
		line, err = br.ReadString('\n')
		if err != nil && err != io.EOF {
			return nil, err
		}
		if line == "" && err == io.EOF {
			break
		}
		n++

		fields, ok = fieldsOf(strings.TrimRight(line, "\r\n"))
		if !ok {
			continue
		}
		if len(fields) < 3 {
			return nil, fmt.Errorf("line %d: at least 3 fields expected: %s", n, line)
		}

		if from, ok = resolve(fields[0], members); !ok {
			return nil, fmt.Errorf("line %d: unknown amplicon: %s", n, fields[0])
		}
		if to, ok = resolve(fields[1], members); !ok {
			return nil, fmt.Errorf("line %d: unknown amplicon: %s", n, fields[1])
		}
		if from == to {
			return nil, fmt.Errorf("line %d: self link: %s", n, from)
		}
		d, err = strconv.Atoi(strings.TrimSpace(fields[2]))
		if err != nil || d < 0 {
			return nil, fmt.Errorf("line %d: invalid number of differences: %s", n, fields[2])
		}

		links = append(links, graph.Link{From: from, To: to, Distance: d})
	}

	return links, nil
}

// resolve returns the member identifier of a name reported by the tool,
// which might carry an abundance suffix.
func resolve(name string, members map[string]struct{}) (string, bool) {
	name = strings.TrimSpace(name)
	if _, ok := members[name]; ok {
		return name, true
	}
	id, _, err := amplicon.ParseToken(name)
	if err != nil {
		return "", false
	}
	if _, ok := members[id]; ok {
		return id, true
	}
	return "", false
}
