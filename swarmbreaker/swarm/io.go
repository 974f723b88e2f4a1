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

package swarm

import (
	"bufio"
	"io"
	"strconv"
	"strings"

	"github.com/pkg/errors"
	"github.com/shenwei356/SwarmBreaker/swarmbreaker/amplicon"
	"github.com/shenwei356/xopen"
)

// ParseLine parses a line of whitespace-separated "id_abundance" tokens.
// If store is not nil, every identifier must exist in it with
// the same abundance.
func ParseLine(line string, store *amplicon.Store) (*Swarm, error) {
	tokens := strings.Fields(line)
	if len(tokens) == 0 {
		return nil, &amplicon.FormatError{Text: line, Reason: "empty swarm"}
	}

	members := make([]Member, 0, len(tokens))
	seen := make(map[string]struct{}, len(tokens))
	var id string
	var abundance, abundance2 int
	var err error
	for _, token := range tokens {
		id, abundance, err = amplicon.ParseToken(token)
		if err != nil {
			return nil, err
		}
		if _, ok := seen[id]; ok {
			return nil, &amplicon.FormatError{Text: token, Reason: "duplicated member"}
		}
		seen[id] = struct{}{}

		if store != nil {
			abundance2, err = store.Abundance(id)
			if err != nil {
				return nil, err
			}
			if abundance2 != abundance {
				return nil, &amplicon.FormatError{Text: token,
					Reason: "abundance differs from the amplicon file (" + strconv.Itoa(abundance2) + ")"}
			}
		}

		members = append(members, Member{ID: id, Abundance: abundance})
	}

	return New(members), nil
}

// Read reads swarms from a (gzipped) cluster file, "-" for stdin.
// Blank lines are skipped. Returned swarms are sorted with Sort.
func Read(file string, store *amplicon.Store) ([]*Swarm, error) {
	fh, err := xopen.Ropen(file)
	if err != nil {
		return nil, errors.Wrapf(err, "reading swarms from %s", file)
	}
	defer fh.Close()

	swarms := make([]*Swarm, 0, 1024)

	r := bufio.NewReaderSize(fh, 1<<20)
	var line string
	var n int
	var s *Swarm
	for {
		line, err = r.ReadString('\n')
		if err != nil && err != io.EOF {
			return nil, errors.Wrapf(err, "reading swarms from %s", file)
		}
		if line == "" && err == io.EOF {
			break
		}
		n++

		line = strings.TrimRight(line, "\r\n")
		if strings.TrimSpace(line) != "" {
			s, err = ParseLine(line, store)
			if err != nil {
				var fe *amplicon.FormatError
				if errors.As(err, &fe) {
					fe.File = file
					fe.Line = n
					return nil, err
				}
				return nil, errors.Wrapf(err, "%s: line %d", file, n)
			}
			swarms = append(swarms, s)
		}
	}

	Sort(swarms)
	return swarms, nil
}

// Format returns the swarm in the cluster file format,
// seed first, with a trailing newline.
func (s *Swarm) Format() []byte {
	buf := make([]byte, 0, s.Size*16)
	for i, m := range s.Members {
		if i > 0 {
			buf = append(buf, ' ')
		}
		buf = append(buf, m.ID...)
		buf = append(buf, '_')
		buf = strconv.AppendInt(buf, int64(m.Abundance), 10)
	}
	return append(buf, '\n')
}

// WriteTo writes the swarm in the cluster file format.
func (s *Swarm) WriteTo(w io.Writer) (int64, error) {
	n, err := w.Write(s.Format())
	return int64(n), err
}
