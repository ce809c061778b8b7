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

// piecewiseS6Constraints builds the five-cell constraint set from the
// matched-participation evaluation scenario: cell boundaries at 100, 1 000,
// 10 000, 100 000, and 1 000 000 ICP (in E8s), slopes 100k/200k..180k/200k,
// intercepts 111..555, a 50 ICP minimum direct-participation threshold, and a
// 95 000 ICP fund cap.
func piecewiseS6Constraints(t *testing.T) ValidatedParticipationConstraints {
	t.Helper()
	bounds := []uint64{0, 100 * E8, 1_000 * E8, 10_000 * E8, 100_000 * E8, 1_000_000 * E8}
	slopeNum := []uint64{100_000, 120_000, 140_000, 160_000, 180_000}
	intercepts := []uint64{111, 222, 333, 444, 555}

	cells := make([]LinearScalingCoefficient, len(slopeNum))
	for i := range slopeNum {
		cells[i] = LinearScalingCoefficient{
			FromDirectParticipationIcpE8s: u64p(bounds[i]),
			ToDirectParticipationIcpE8s:   u64p(bounds[i+1]),
			SlopeNumerator:                u64p(slopeNum[i]),
			SlopeDenominator:              u64p(200_000),
			InterceptIcpE8s:               u64p(intercepts[i]),
		}
	}
	p := ParticipationConstraints{
		MinDirectParticipationThresholdIcpE8s: u64p(50 * E8),
		MaxNeuronsFundParticipationIcpE8s:     u64p(95_000 * E8),
		CoefficientIntervals:                  cells,
	}
	v, err := p.Validated()
	if err != nil {
		t.Fatalf("piecewiseS6Constraints: invalid fixture: %s", err)
	}
	return v
}

func TestMatchedParticipationFunctionPiecewiseEvaluation(t *testing.T) {
	constraints := piecewiseS6Constraints(t)
	m := NewMatchedParticipationFunction(constraints, SimpleLinearFunction{})

	cases := []struct {
		name string
		d    uint64
		want uint64
	}{
		{"zero", 0, 0},
		{"first cell", 90 * E8, 45*E8 + 111},
		{"second cell lower bound", 100 * E8, 60*E8 + 222},
		{"third cell", 5_000 * E8, 3_500*E8 + 333},
		{"fourth cell upper edge", 100_000*E8 - 1, 80_000*E8 - 1 + 444},
		{"fifth cell lower bound", 100_000 * E8, 90_000*E8 + 555},
		{"saturates at last cell boundary", 1_000_000 * E8, 95_000 * E8},
		{"saturates at max uint64", math.MaxUint64, 95_000 * E8},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			got := m.Apply(c.d)
			if got != c.want {
				t.Errorf("Apply(%d) = %d, want %d", c.d, got, c.want)
			}
		})
	}
}

func TestMatchedParticipationFunctionBelowThresholdIsZero(t *testing.T) {
	cells := []LinearScalingCoefficient{
		{
			FromDirectParticipationIcpE8s: u64p(0),
			ToDirectParticipationIcpE8s:   u64p(math.MaxUint64),
			SlopeNumerator:                u64p(1),
			SlopeDenominator:              u64p(1),
			InterceptIcpE8s:               u64p(0),
		},
	}
	p := ParticipationConstraints{
		MinDirectParticipationThresholdIcpE8s: u64p(1_000 * E8),
		MaxNeuronsFundParticipationIcpE8s:     u64p(10_000 * E8),
		CoefficientIntervals:                  cells,
	}
	v, err := p.Validated()
	if err != nil {
		t.Fatalf("unexpected error: %s", err)
	}
	m := NewMatchedParticipationFunction(v, SimpleLinearFunction{})
	if got := m.Apply(999 * E8); got != 0 {
		t.Errorf("Apply below threshold = %d, want 0", got)
	}
	if got := m.Apply(1_000 * E8); got == 0 {
		t.Error("Apply at threshold should not be zero")
	}
}

func TestMatchedParticipationFunctionNeverExceedsHardCap(t *testing.T) {
	cells := []LinearScalingCoefficient{
		{
			FromDirectParticipationIcpE8s: u64p(0),
			ToDirectParticipationIcpE8s:   u64p(math.MaxUint64),
			SlopeNumerator:                u64p(1),
			SlopeDenominator:              u64p(1),
			InterceptIcpE8s:               u64p(0),
		},
	}
	p := ParticipationConstraints{
		MinDirectParticipationThresholdIcpE8s: u64p(0),
		MaxNeuronsFundParticipationIcpE8s:     u64p(math.MaxUint64),
		CoefficientIntervals:                  cells,
	}
	v, err := p.Validated()
	if err != nil {
		t.Fatalf("unexpected error: %s", err)
	}
	m := NewMatchedParticipationFunction(v, SimpleLinearFunction{})
	if got := m.Apply(math.MaxUint64 / 2); got > TheoreticalHardCapE8s {
		t.Errorf("Apply exceeded hard cap: %d > %d", got, TheoreticalHardCapE8s)
	}
}
