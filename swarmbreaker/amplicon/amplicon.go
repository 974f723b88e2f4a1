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

// Package amplicon stores amplicon identifiers, abundances and sequences
// loaded from a dereplicated FASTA file.
package amplicon

import (
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/pkg/errors"
	"github.com/shenwei356/bio/seq"
	"github.com/shenwei356/bio/seqio/fastx"
)

// Amplicon is a dereplicated sequence with its abundance.
type Amplicon struct {
	ID        string
	Abundance int
	Seq       []byte
}

// String returns the "id_abundance" token of the amplicon.
func (a *Amplicon) String() string {
	return Token(a.ID, a.Abundance)
}

// Token formats an identifier and an abundance as "id_abundance".
func Token(id string, abundance int) string {
	return id + "_" + strconv.Itoa(abundance)
}

// ParseToken splits a "id_abundance" token at the last underscore.
// The abundance must be a positive decimal integer.
func ParseToken(s string) (string, int, error) {
	i := strings.LastIndexByte(s, '_')
	if i < 0 {
		return "", 0, &FormatError{Text: s, Reason: "missing abundance suffix"}
	}
	if i == 0 {
		return "", 0, &FormatError{Text: s, Reason: "empty identifier"}
	}
	abundance, err := strconv.Atoi(s[i+1:])
	if err != nil {
		return "", 0, &FormatError{Text: s, Reason: "non-integer abundance"}
	}
	if abundance <= 0 {
		return "", 0, &FormatError{Text: s, Reason: "abundance should be positive"}
	}
	return s[:i], abundance, nil
}

// Store maps amplicon identifiers to amplicons.
// It is built once and read-only afterwards.
type Store struct {
	m map[string]*Amplicon
}

// NewStore creates an empty store.
func NewStore() *Store {
	return &Store{m: make(map[string]*Amplicon, 1024)}
}

// Add adds an amplicon, duplicated identifiers are not allowed.
func (s *Store) Add(a *Amplicon) error {
	if _, ok := s.m[a.ID]; ok {
		return &FormatError{Text: a.String(), Reason: "duplicated amplicon identifier"}
	}
	s.m[a.ID] = a
	return nil
}

// Len returns the number of amplicons.
func (s *Store) Len() int {
	return len(s.m)
}

// Get returns the amplicon of the given identifier.
func (s *Store) Get(id string) (*Amplicon, error) {
	a, ok := s.m[id]
	if !ok {
		return nil, &LookupError{ID: id}
	}
	return a, nil
}

// Abundance returns the abundance of the given identifier.
func (s *Store) Abundance(id string) (int, error) {
	a, ok := s.m[id]
	if !ok {
		return 0, &LookupError{ID: id}
	}
	return a.Abundance, nil
}

// Load reads amplicons from a (gzipped) FASTA file, "-" for stdin.
// Headers should be in the format of ">id_abundance".
func Load(file string) (*Store, error) {
	seq.ValidateSeq = false

	fastxReader, err := fastx.NewReader(nil, file, "")
	if err != nil {
		return nil, errors.Wrapf(err, "reading amplicons from %s", file)
	}
	defer fastxReader.Close()

	s := NewStore()

	var record *fastx.Record
	var id string
	var abundance int
	for {
		record, err = fastxReader.Read()
		if err != nil {
			if err == io.EOF {
				break
			}
			return nil, errors.Wrapf(err, "reading amplicons from %s", file)
		}

		id, abundance, err = ParseToken(string(record.ID))
		if err != nil {
			return nil, withSource(err, file, fmt.Sprintf(">%s", record.Name))
		}

		err = s.Add(&Amplicon{
			ID:        id,
			Abundance: abundance,
			Seq:       append([]byte(nil), record.Seq.Seq...),
		})
		if err != nil {
			return nil, withSource(err, file, fmt.Sprintf(">%s", record.Name))
		}
	}

	return s, nil
}
