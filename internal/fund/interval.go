// Copyright 2026 Blink Labs Software
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package fund

// Interval is the half-open range [From, To).
type Interval struct {
	From uint64
	To   uint64
}

// Contains reports whether x falls in [From, To).
func (iv Interval) Contains(x uint64) bool {
	return iv.From <= x && x < iv.To
}

// IntervalPartition is an ordered, contiguous set of half-open intervals,
// searchable by key in O(log n).
type IntervalPartition struct {
	cells []Interval
}

// NewIntervalPartition wraps an already-ordered slice of cells. Callers that
// need the contiguity/ordering invariants enforced should go through
// ValidatedParticipationConstraints instead of constructing this directly.
func NewIntervalPartition(cells []Interval) IntervalPartition {
	return IntervalPartition{cells: cells}
}

// Len returns the number of cells in the partition.
func (p IntervalPartition) Len() int {
	return len(p.cells)
}

// Cell returns the i'th cell.
func (p IntervalPartition) Cell(i int) Interval {
	return p.cells[i]
}

// FindInterval returns the index of the unique cell containing x, or false
// if x lies outside the union of cells. The midpoint is computed over int
// cell indices as lo+(hi-lo)/2, which cannot overflow; keys are compared as
// uint64 values, so x = math.MaxUint64 needs no special handling.
func (p IntervalPartition) FindInterval(x uint64) (int, bool) {
	if len(p.cells) == 0 {
		return 0, false
	}
	lo, hi := 0, len(p.cells)-1
	for lo <= hi {
		// Cell indices are small ints, so lo+(hi-lo)/2 is exact; the key
		// domain's extremes are handled by Interval.Contains operating on
		// uint64 directly.
		mid := lo + (hi-lo)/2
		cell := p.cells[mid]
		switch {
		case cell.Contains(x):
			return mid, true
		case x < cell.From:
			hi = mid - 1
		default:
			lo = mid + 1
		}
	}
	return 0, false
}
