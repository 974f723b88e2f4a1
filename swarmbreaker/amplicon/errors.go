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

package amplicon

import "fmt"

// FormatError means a malformed FASTA header, cluster line or abundance.
type FormatError struct {
	File   string
	Line   int    // 1-based, 0 for unknown
	Text   string // the offending text
	Reason string
}

func (e *FormatError) Error() string {
	switch {
	case e.File != "" && e.Line > 0:
		return fmt.Sprintf("%s: line %d: %s: %s", e.File, e.Line, e.Reason, e.Text)
	case e.File != "":
		return fmt.Sprintf("%s: %s: %s", e.File, e.Reason, e.Text)
	}
	return fmt.Sprintf("%s: %s", e.Reason, e.Text)
}

// LookupError means an amplicon identifier is absent from the store.
type LookupError struct {
	ID string
}

func (e *LookupError) Error() string {
	return fmt.Sprintf("amplicon not found: %s", e.ID)
}

// withSource fills the file and the offending text of a FormatError.
func withSource(err error, file string, text string) error {
	if e, ok := err.(*FormatError); ok {
		e.File = file
		e.Text = text
	}
	return err
}
