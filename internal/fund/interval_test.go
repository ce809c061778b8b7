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

import (
	"math"
	"testing"
)

func TestIntervalContains(t *testing.T) {
	iv := Interval{From: 10, To: 20}
	cases := []struct {
		x    uint64
		want bool
	}{
		{9, false},
		{10, true},
		{15, true},
		{19, true},
		{20, false},
	}
	for _, c := range cases {
		if got := iv.Contains(c.x); got != c.want {
			t.Errorf("Contains(%d) = %v, want %v", c.x, got, c.want)
		}
	}
}

func TestIntervalPartitionFindInterval(t *testing.T) {
	p := NewIntervalPartition([]Interval{
		{From: 0, To: 100},
		{From: 100, To: 1000},
		{From: 1000, To: math.MaxUint64},
	})
	cases := []struct {
		x       uint64
		wantIdx int
		wantOk  bool
	}{
		{0, 0, true},
		{99, 0, true},
		{100, 1, true},
		{999, 1, true},
		{1000, 2, true},
		{math.MaxUint64 - 1, 2, true},
	}
	for _, c := range cases {
		idx, ok := p.FindInterval(c.x)
		if ok != c.wantOk || (ok && idx != c.wantIdx) {
			t.Errorf("FindInterval(%d) = (%d, %v), want (%d, %v)", c.x, idx, ok, c.wantIdx, c.wantOk)
		}
	}
}

func TestEmptyPartitionReturnsNone(t *testing.T) {
	p := NewIntervalPartition(nil)
	_, ok := p.FindInterval(42)
	if ok {
		t.Error("expected empty partition to never find a containing cell")
	}
}

func TestPartitionSoundness(t *testing.T) {
	cells := []Interval{
		{From: 0, To: 10},
		{From: 10, To: 20},
		{From: 20, To: 30},
	}
	p := NewIntervalPartition(cells)
	for x := uint64(0); x < 35; x++ {
		idx, ok := p.FindInterval(x)
		var want = -1
		for i, c := range cells {
			if c.Contains(x) {
				want = i
				break
			}
		}
		if want == -1 {
			if ok {
				t.Errorf("FindInterval(%d) found cell %d, want none", x, idx)
			}
			continue
		}
		if !ok || idx != want {
			t.Errorf("FindInterval(%d) = (%d, %v), want (%d, true)", x, idx, ok, want)
		}
	}
}
