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
	"context"
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/pkg/errors"
	"github.com/shenwei356/SwarmBreaker/swarmbreaker/amplicon"
	"github.com/shenwei356/SwarmBreaker/swarmbreaker/graph"
)

var members = map[string]struct{}{"A": {}, "B": {}, "C": {}, "D": {}}

func TestParseLegacy(t *testing.T) {
	data := "Warning: something\n" +
		"@@\tA\tB\t1\t1\t1\n" +
		"@@\tB_10\tC\t1\t1\t2\n" +
		"\n" +
		"@@\tC\tD\t1\t1\t3\n"

	links, err := ParseLegacy(strings.NewReader(data), members)
	if err != nil {
		t.Fatalf("ParseLegacy error: %s", err)
	}

	expected := []graph.Link{{From: "A", To: "B", Distance: 1}, {From: "B", To: "C", Distance: 1}, {From: "C", To: "D", Distance: 1}}
	if diff := cmp.Diff(expected, links); diff != "" {
		t.Errorf("ParseLegacy error (-want +got):\n%s", diff)
	}
}

func TestParseInternal(t *testing.T) {
	data := "A\tB\t1\t1\t1\nA\tC\t2\t1\t1\r\n"

	links, err := ParseInternal(strings.NewReader(data), members)
	if err != nil {
		t.Fatalf("ParseInternal error: %s", err)
	}

	expected := []graph.Link{{From: "A", To: "B", Distance: 1}, {From: "A", To: "C", Distance: 2}}
	if diff := cmp.Diff(expected, links); diff != "" {
		t.Errorf("ParseInternal error (-want +got):\n%s", diff)
	}
}

func TestParseInvalid(t *testing.T) {
	for _, data := range []string{
		"A\tB\n",    // too few fields
		"A\tX\t1\n", // unknown amplicon
		"A\tA\t1\n", // self link
		"A\tB\tx\n", // invalid differences
		"A\tB\t-1\n",
	} {
		if _, err := ParseInternal(strings.NewReader(data), members); err == nil {
			t.Errorf("ParseInternal error: expected an error for %q", data)
		}
	}

	if _, err := ParseLegacy(strings.NewReader("@@\tA\tB\n"), members); err == nil {
		t.Errorf("ParseLegacy error: expected an error for too few fields")
	}
}

func TestParseFormat(t *testing.T) {
	f, err := ParseFormat("Internal")
	if err != nil || f != FormatInternal {
		t.Errorf("ParseFormat error: expected %s, returned %s (%v)", FormatInternal, f, err)
	}
	if _, err = ParseFormat("json"); err == nil {
		t.Errorf("ParseFormat error: expected an error for an unknown format")
	}
}

func TestTail(t *testing.T) {
	if s := tail([]byte("a\nb\nc\n"), 2); s != "b\nc" {
		t.Errorf("tail error: returned %q", s)
	}
	if s := tail([]byte("a\nb"), 5); s != "a\nb" {
		t.Errorf("tail error: returned %q", s)
	}
}

// fakeSwarm writes an executable shell script that acts like swarm.
func fakeSwarm(t *testing.T, script string) string {
	if runtime.GOOS == "windows" {
		t.Skip("shell scripts are not supported on windows")
	}
	file := filepath.Join(t.TempDir(), "swarm")
	if err := os.WriteFile(file, []byte("#!/bin/sh\n"+script), 0755); err != nil {
		t.Fatal(err)
	}
	return file
}

var amplicons = []*amplicon.Amplicon{
	{ID: "A", Abundance: 500, Seq: []byte("ACGT")},
	{ID: "B", Abundance: 10, Seq: []byte("ACGA")},
	{ID: "C", Abundance: 2, Seq: []byte("ACCA")},
}

func TestSwarmLegacy(t *testing.T) {
	// check the input and the options, then report two links
	bin := fakeSwarm(t, `
n=$(grep -c '^>' -)
[ "$n" = "3" ] || { echo "unexpected input: $n" >&2; exit 2; }
[ "$1 $2 $3" = "-d 1 -b" ] || { echo "unexpected options: $*" >&2; exit 2; }
printf '@@\tA\tB\t1\n@@\tB\tC\t1\n' >&2
`)

	s, err := NewSwarm(bin, FormatLegacy, 1)
	if err != nil {
		t.Fatal(err)
	}

	links, err := s.Link(context.Background(), amplicons, 1)
	if err != nil {
		t.Fatalf("Link error: %s", err)
	}
	expected := []graph.Link{{From: "A", To: "B", Distance: 1}, {From: "B", To: "C", Distance: 1}}
	if diff := cmp.Diff(expected, links); diff != "" {
		t.Errorf("Link error (-want +got):\n%s", diff)
	}
}

func TestSwarmInternal(t *testing.T) {
	bin := fakeSwarm(t, `
cat > /dev/null
while [ $# -gt 0 ]; do
  if [ "$1" = "-i" ]; then out=$2; fi
  shift
done
printf 'A\tB\t1\t1\t1\nA\tC\t2\t1\t1\n' > "$out"
`)

	s, err := NewSwarm(bin, FormatInternal, 2)
	if err != nil {
		t.Fatal(err)
	}

	links, err := s.Link(context.Background(), amplicons, 2)
	if err != nil {
		t.Fatalf("Link error: %s", err)
	}
	expected := []graph.Link{{From: "A", To: "B", Distance: 1}, {From: "A", To: "C", Distance: 2}}
	if diff := cmp.Diff(expected, links); diff != "" {
		t.Errorf("Link error (-want +got):\n%s", diff)
	}
}

func TestSwarmFailure(t *testing.T) {
	bin := fakeSwarm(t, `
cat > /dev/null
echo "Error: out of memory" >&2
exit 3
`)

	s, err := NewSwarm(bin, FormatLegacy, 1)
	if err != nil {
		t.Fatal(err)
	}

	_, err = s.Link(context.Background(), amplicons, 1)
	var ce *CollaboratorError
	if !errors.As(err, &ce) {
		t.Fatalf("Link error: expected a CollaboratorError, returned %v", err)
	}
	if !strings.Contains(ce.Stderr, "out of memory") {
		t.Errorf("Link error: stderr should be kept, returned %q", ce.Stderr)
	}
}

func TestSwarmUnexpectedOutput(t *testing.T) {
	bin := fakeSwarm(t, `
cat > /dev/null
printf '@@\tA\tZ\t1\n' >&2
`)

	s, err := NewSwarm(bin, FormatLegacy, 1)
	if err != nil {
		t.Fatal(err)
	}

	_, err = s.Link(context.Background(), amplicons, 1)
	var ce *CollaboratorError
	if !errors.As(err, &ce) {
		t.Errorf("Link error: expected a CollaboratorError, returned %v", err)
	}
}

func TestNewSwarmMissingBinary(t *testing.T) {
	if _, err := NewSwarm(filepath.Join(t.TempDir(), "no-such-swarm"), FormatLegacy, 1); err == nil {
		t.Errorf("NewSwarm error: expected an error for a missing binary")
	}
}
