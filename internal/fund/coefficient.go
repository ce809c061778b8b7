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

// LinearScalingCoefficient is the wire representation of a single partition
// cell: intervals [FromDirectParticipationIcpE8s, ToDirectParticipationIcpE8s)
// map to `intercept + (slopeNumerator/slopeDenominator) * ideal`. All fields
// are optional pointers on the wire; Validate reports the first missing one.
type LinearScalingCoefficient struct {
	FromDirectParticipationIcpE8s *uint64
	ToDirectParticipationIcpE8s   *uint64
	SlopeNumerator                *uint64
	SlopeDenominator              *uint64
	InterceptIcpE8s               *uint64
}

// Validate checks field presence and the per-cell laws: From < To,
// SlopeDenominator > 0, SlopeNumerator <= SlopeDenominator (slope in [0,1]).
// Intercept is unchecked beyond presence; it is non-negative by type.
func (c *LinearScalingCoefficient) Validate() error {
	switch {
	case c.FromDirectParticipationIcpE8s == nil:
		return fmt.Errorf("%w: from_direct_participation_icp_e8s", ErrFieldUnspecified)
	case c.ToDirectParticipationIcpE8s == nil:
		return fmt.Errorf("%w: to_direct_participation_icp_e8s", ErrFieldUnspecified)
	case c.SlopeNumerator == nil:
		return fmt.Errorf("%w: slope_numerator", ErrFieldUnspecified)
	case c.SlopeDenominator == nil:
		return fmt.Errorf("%w: slope_denominator", ErrFieldUnspecified)
	case c.InterceptIcpE8s == nil:
		return fmt.Errorf("%w: intercept_icp_e8s", ErrFieldUnspecified)
	}
	if *c.ToDirectParticipationIcpE8s <= *c.FromDirectParticipationIcpE8s {
		return fmt.Errorf(
			"%w: interval [%d, %d) is empty or inverted",
			ErrInvariantViolated,
			*c.FromDirectParticipationIcpE8s,
			*c.ToDirectParticipationIcpE8s,
		)
	}
	if *c.SlopeDenominator == 0 {
		return fmt.Errorf("%w: slope_denominator is zero", ErrInvariantViolated)
	}
	if *c.SlopeNumerator > *c.SlopeDenominator {
		return fmt.Errorf(
			"%w: slope_numerator %d exceeds slope_denominator %d",
			ErrInvariantViolated,
			*c.SlopeNumerator,
			*c.SlopeDenominator,
		)
	}
	return nil
}

// ValidatedLinearScalingCoefficient is a LinearScalingCoefficient that has
// passed Validate, with all fields dereferenced.
type ValidatedLinearScalingCoefficient struct {
	From             uint64
	To               uint64
	SlopeNumerator   uint64
	SlopeDenominator uint64
	InterceptIcpE8s  uint64
}

// Validated runs Validate and, on success, returns the dereferenced form.
func (c *LinearScalingCoefficient) Validated() (ValidatedLinearScalingCoefficient, error) {
	if err := c.Validate(); err != nil {
		return ValidatedLinearScalingCoefficient{}, err
	}
	return ValidatedLinearScalingCoefficient{
		From:             *c.FromDirectParticipationIcpE8s,
		To:               *c.ToDirectParticipationIcpE8s,
		SlopeNumerator:   *c.SlopeNumerator,
		SlopeDenominator: *c.SlopeDenominator,
		InterceptIcpE8s:  *c.InterceptIcpE8s,
	}, nil
}

// ToWire is total: every validated coefficient converts back to a fully
// populated wire value.
func (c ValidatedLinearScalingCoefficient) ToWire() LinearScalingCoefficient {
	from, to := c.From, c.To
	num, denom, intercept := c.SlopeNumerator, c.SlopeDenominator, c.InterceptIcpE8s
	return LinearScalingCoefficient{
		FromDirectParticipationIcpE8s: &from,
		ToDirectParticipationIcpE8s:   &to,
		SlopeNumerator:                &num,
		SlopeDenominator:              &denom,
		InterceptIcpE8s:               &intercept,
	}
}

func (c ValidatedLinearScalingCoefficient) interval() Interval {
	return Interval{From: c.From, To: c.To}
}
