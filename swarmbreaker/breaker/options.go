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

// Package breaker detects chains of low-abundance amplicons bridging
// distinct abundance peaks in a swarm, and breaks the swarm into
// sub-swarms recursively.
package breaker

import "fmt"

// Options contains the parameters of the valley heuristic.
type Options struct {
	// Minimum abundance for an amplicon to be a peak.
	// Swarms with a top abundance not higher than it are not inspected.
	ActivityThreshold int
	// Minimum ratio of the ending peak to the valley to force a cut.
	// Half of it suffices when the two peaks are comparable (see PeakRatio).
	ValleyRatio float64
	// Maximum ratio of the starting peak to the ending peak
	// for the two peaks to be comparable.
	PeakRatio float64
	// Maximum number of differences for local re-clustering.
	Differences int
}

// DefaultOptions is the default value of Options.
var DefaultOptions = Options{
	ActivityThreshold: 100,
	ValleyRatio:       50,
	PeakRatio:         10,
	Differences:       1,
}

// CheckOptions checks the options.
func CheckOptions(opt *Options) error {
	if opt.ActivityThreshold < 1 {
		return fmt.Errorf("the activity threshold should be positive: %d", opt.ActivityThreshold)
	}
	if opt.ValleyRatio <= 0 {
		return fmt.Errorf("the valley ratio should be positive: %f", opt.ValleyRatio)
	}
	if opt.PeakRatio <= 0 {
		return fmt.Errorf("the peak ratio should be positive: %f", opt.PeakRatio)
	}
	if opt.Differences < 1 {
		return fmt.Errorf("the number of differences should be positive: %d", opt.Differences)
	}
	return nil
}
