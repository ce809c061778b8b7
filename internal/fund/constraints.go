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

import "fmt"

// ParticipationConstraints is the wire representation of a matching-function
// summary: a minimum direct-participation threshold, a maximum Fund
// contribution, and an ordered, contiguous partition of linear coefficients
// starting at 0 and ending at the last cell's To. Direct participation at or
// past that end is handled by MatchedParticipationFunction's saturation branch.
type ParticipationConstraints struct {
	MinDirectParticipationThresholdIcpE8s *uint64
	MaxNeuronsFundParticipationIcpE8s     *uint64
	CoefficientIntervals                  []LinearScalingCoefficient
}

// Validate checks, in order: required scalar fields, interval count bounds,
// per-cell validity, exact chaining between adjacent cells, and that the
// first cell starts at 0.
func (p *ParticipationConstraints) Validate() error {
	if p.MinDirectParticipationThresholdIcpE8s == nil {
		return fmt.Errorf("%w: min_direct_participation_threshold_icp_e8s", ErrFieldUnspecified)
	}
	if p.MaxNeuronsFundParticipationIcpE8s == nil {
		return fmt.Errorf("%w: max_neurons_fund_participation_icp_e8s", ErrFieldUnspecified)
	}
	n := len(p.CoefficientIntervals)
	if n < 1 || n > MaxIntervals {
		return fmt.Errorf(
			"%w: coefficient_intervals length %d not in [1, %d]",
			ErrBoundsExceeded,
			n,
			MaxIntervals,
		)
	}
	validated := make([]ValidatedLinearScalingCoefficient, 0, n)
	for i := range p.CoefficientIntervals {
		v, err := p.CoefficientIntervals[i].Validated()
		if err != nil {
			return fmt.Errorf("coefficient_intervals[%d]: %w", i, err)
		}
		validated = append(validated, v)
	}
	for i := 1; i < len(validated); i++ {
		if validated[i].From != validated[i-1].To {
			return fmt.Errorf(
				"%w: interval %d starts at %d but interval %d ends at %d",
				ErrInvariantViolated,
				i, validated[i].From, i-1, validated[i-1].To,
			)
		}
	}
	if validated[0].From != 0 {
		return fmt.Errorf(
			"%w: first interval must start at 0, got %d",
			ErrInvariantViolated,
			validated[0].From,
		)
	}
	return nil
}

// ValidatedParticipationConstraints is a ParticipationConstraints that has
// passed Validate.
type ValidatedParticipationConstraints struct {
	MinDirectThresholdE8s uint64
	MaxFundParticipation  uint64
	Intervals             []ValidatedLinearScalingCoefficient
	partition             IntervalPartition
}

// Validated runs Validate and, on success, returns the dereferenced,
// partition-indexed form.
func (p *ParticipationConstraints) Validated() (ValidatedParticipationConstraints, error) {
	if err := p.Validate(); err != nil {
		return ValidatedParticipationConstraints{}, err
	}
	intervals := make([]ValidatedLinearScalingCoefficient, len(p.CoefficientIntervals))
	cells := make([]Interval, len(p.CoefficientIntervals))
	for i := range p.CoefficientIntervals {
		v, _ := p.CoefficientIntervals[i].Validated()
		intervals[i] = v
		cells[i] = v.interval()
	}
	return ValidatedParticipationConstraints{
		MinDirectThresholdE8s: *p.MinDirectParticipationThresholdIcpE8s,
		MaxFundParticipation:  *p.MaxNeuronsFundParticipationIcpE8s,
		Intervals:             intervals,
		partition:             NewIntervalPartition(cells),
	}, nil
}

// ToWire is total over a validated value.
func (v ValidatedParticipationConstraints) ToWire() ParticipationConstraints {
	minThreshold := v.MinDirectThresholdE8s
	maxParticipation := v.MaxFundParticipation
	cells := make([]LinearScalingCoefficient, len(v.Intervals))
	for i, c := range v.Intervals {
		cells[i] = c.ToWire()
	}
	return ParticipationConstraints{
		MinDirectParticipationThresholdIcpE8s: &minThreshold,
		MaxNeuronsFundParticipationIcpE8s:     &maxParticipation,
		CoefficientIntervals:                  cells,
	}
}
