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
	"bytes"
	"context"
	"os"
	"os/exec"
	"strconv"
	"strings"

	"github.com/mitchellh/go-homedir"
	"github.com/pkg/errors"
	"github.com/shenwei356/SwarmBreaker/swarmbreaker/amplicon"
	"github.com/shenwei356/SwarmBreaker/swarmbreaker/graph"
)

// Swarm runs the swarm binary on the members of a swarm and collects
// the pairwise links it reports.
type Swarm struct {
	Binary  string // absolute path of the binary
	Format  Format
	Threads int
}

// NewSwarm checks the binary, a leading "~" is expanded and
// a bare name is searched in the directories of PATH.
func NewSwarm(binary string, format Format, threads int) (*Swarm, error) {
	bin, err := homedir.Expand(binary)
	if err != nil {
		return nil, errors.Wrapf(err, "expanding path: %s", binary)
	}
	bin, err = exec.LookPath(bin)
	if err != nil {
		return nil, errors.Wrapf(err, "swarm binary not found: %s", binary)
	}
	if threads < 1 {
		threads = 1
	}
	return &Swarm{Binary: bin, Format: format, Threads: threads}, nil
}

// maximum number of stderr lines kept in a CollaboratorError
const stderrTailLines = 10

// Link implements Linker.
func (s *Swarm) Link(ctx context.Context, members []*amplicon.Amplicon, differences int) ([]graph.Link, error) {
	set := make(map[string]struct{}, len(members))
	var buf bytes.Buffer
	for _, a := range members {
		set[a.ID] = struct{}{}

		buf.WriteByte('>')
		buf.WriteString(a.ID)
		buf.WriteByte('_')
		buf.WriteString(strconv.Itoa(a.Abundance))
		buf.WriteByte('\n')
		buf.Write(a.Seq)
		buf.WriteByte('\n')
	}

	args := []string{"-d", strconv.Itoa(differences)}
	if s.Threads > 1 {
		args = append(args, "-t", strconv.Itoa(s.Threads))
	}

	var fileStruct string
	switch s.Format {
	case FormatLegacy:
		args = append(args, "-b")
	case FormatInternal:
		fh, err := os.CreateTemp("", "swarmbreaker-*.struct")
		if err != nil {
			return nil, errors.Wrap(err, "creating temporary file")
		}
		fileStruct = fh.Name()
		if err = fh.Close(); err != nil {
			return nil, errors.Wrap(err, "creating temporary file")
		}
		defer os.Remove(fileStruct)

		args = append(args, "-i", fileStruct, "-o", os.DevNull)
	default:
		return nil, errors.Errorf("unsupported link format: %s", s.Format)
	}

	var stderr bytes.Buffer
	cmd := exec.CommandContext(ctx, s.Binary, args...)
	cmd.Stdin = &buf
	cmd.Stdout = nil // discarded
	cmd.Stderr = &stderr

	if err := cmd.Run(); err != nil {
		return nil, &CollaboratorError{
			Binary: s.Binary,
			Reason: "failed to run: " + strings.Join(args, " "),
			Stderr: tail(stderr.Bytes(), stderrTailLines),
			Err:    err,
		}
	}

	var links []graph.Link
	var err error
	if s.Format == FormatLegacy {
		links, err = ParseLegacy(&stderr, set)
	} else {
		var data []byte
		data, err = os.ReadFile(fileStruct)
		if err != nil {
			return nil, errors.Wrapf(err, "reading internal structure file: %s", fileStruct)
		}
		links, err = ParseInternal(bytes.NewReader(data), set)
	}
	if err != nil {
		return nil, &CollaboratorError{
			Binary: s.Binary,
			Reason: "unexpected " + s.Format.String() + " output",
			Err:    err,
		}
	}
	return links, nil
}

// tail returns the last n lines of data.
func tail(data []byte, n int) string {
	data = bytes.TrimRight(data, "\r\n")
	i := len(data)
	for ; n > 0 && i > 0; n-- {
		i = bytes.LastIndexByte(data[:i], '\n')
		if i < 0 {
			i = 0
			break
		}
	}
	return string(bytes.TrimLeft(data[i:], "\n"))
}
