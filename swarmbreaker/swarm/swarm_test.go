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
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/pkg/errors"
	"github.com/shenwei356/SwarmBreaker/swarmbreaker/amplicon"
)

func newStore(t *testing.T, amplicons ...*amplicon.Amplicon) *amplicon.Store {
	s := amplicon.NewStore()
	for _, a := range amplicons {
		if err := s.Add(a); err != nil {
			t.Fatal(err)
		}
	}
	return s
}

func TestNew(t *testing.T) {
	s := New([]Member{{"B", 10}, {"A", 500}, {"C", 2}, {"D", 300}, {"E", 10}})

	if s.Seed != "A" || s.TopAbundance != 500 {
		t.Errorf("New error: expected seed A_500, returned %s_%d", s.Seed, s.TopAbundance)
	}
	if s.Mass != 822 || s.Size != 5 {
		t.Errorf("New error: expected mass 822 and size 5, returned %d and %d", s.Mass, s.Size)
	}

	// ties are broken by decreasing identifier
	if diff := cmp.Diff([]string{"A", "D", "E", "B", "C"}, s.IDs()); diff != "" {
		t.Errorf("New error: unexpected member order (-want +got):\n%s", diff)
	}
}

func TestParseLine(t *testing.T) {
	store := newStore(t,
		&amplicon.Amplicon{ID: "A", Abundance: 500},
		&amplicon.Amplicon{ID: "B", Abundance: 10},
	)

	s, err := ParseLine("B_10 A_500", store)
	if err != nil {
		t.Fatalf("ParseLine error: %s", err)
	}
	if got := string(s.Format()); got != "A_500 B_10\n" {
		t.Errorf("Format error: returned %q", got)
	}

	_, err = ParseLine("A_500 X_3", store)
	var le *amplicon.LookupError
	if !errors.As(err, &le) {
		t.Errorf("ParseLine error: expected a LookupError, returned %v", err)
	}

	var fe *amplicon.FormatError
	for _, line := range []string{"A_500 B_11", "A_500 A_500", "A_500 B", "   "} {
		_, err = ParseLine(line, store)
		if !errors.As(err, &fe) {
			t.Errorf("ParseLine error: expected a FormatError for %q, returned %v", line, err)
		}
	}

	// without a store, tokens are trusted
	if _, err = ParseLine("X_3 Y_1", nil); err != nil {
		t.Errorf("ParseLine error: %s", err)
	}
}

func TestRead(t *testing.T) {
	file := filepath.Join(t.TempDir(), "swarms.txt")
	content := "C_5 D_5\nA_100 B_1\n\nE_9 F_1\nG_10\n"
	if err := os.WriteFile(file, []byte(content), 0644); err != nil {
		t.Fatal(err)
	}

	swarms, err := Read(file, nil)
	if err != nil {
		t.Fatalf("Read error: %s", err)
	}

	var buf bytes.Buffer
	for _, s := range swarms {
		if _, err = s.WriteTo(&buf); err != nil {
			t.Fatal(err)
		}
	}

	// sorted by mass, size and seed, all decreasing
	expected := "A_100 B_1\nE_9 F_1\nD_5 C_5\nG_10\n"
	if diff := cmp.Diff(expected, buf.String()); diff != "" {
		t.Errorf("Read error (-want +got):\n%s", diff)
	}
}

func TestReadMalformed(t *testing.T) {
	file := filepath.Join(t.TempDir(), "swarms.txt")
	if err := os.WriteFile(file, []byte("A_100 B_1\nC_x\n"), 0644); err != nil {
		t.Fatal(err)
	}

	_, err := Read(file, nil)
	var fe *amplicon.FormatError
	if !errors.As(err, &fe) {
		t.Fatalf("Read error: expected a FormatError, returned %v", err)
	}
	if fe.Line != 2 || fe.File != file {
		t.Errorf("Read error: expected line 2 of %s, returned %s", file, fe)
	}
}
