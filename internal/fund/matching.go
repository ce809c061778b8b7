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

import "github.com/shopspring/decimal"

// MatchedParticipationFunction composes an ideal matching function with a
// validated set of constraints to yield the effective Fund contribution for
// any direct-participation amount.
type MatchedParticipationFunction struct {
	constraints ValidatedParticipationConstraints
	ideal       InvertibleFunction
}

// NewMatchedParticipationFunction composes constraints and an ideal function.
func NewMatchedParticipationFunction(
	constraints ValidatedParticipationConstraints,
	ideal InvertibleFunction,
) MatchedParticipationFunction {
	return MatchedParticipationFunction{constraints: constraints, ideal: ideal}
}

// Apply computes the effective Fund contribution, in e8s, for a given
// direct-participation amount d, per the five-branch algorithm:
//  1. d below the minimum threshold contributes nothing.
//  2. d below the first cell (defensive; cells always start at 0) contributes
//     nothing.
//  3. d at or past the last cell saturates at min(maxFundParticipation,
//     THEORETICAL_HARD_CAP).
//  4. Otherwise the containing cell's slope and intercept are applied to the
//     ideal value.
func (m MatchedParticipationFunction) Apply(d uint64) uint64 {
	c := m.constraints
	hardCap := U64ToDec(TheoreticalHardCapE8s)
	maxFund := U64ToDec(c.MaxFundParticipation)

	if d < c.MinDirectThresholdE8s {
		return 0
	}
	if c.partition.Len() == 0 || d < c.Intervals[0].From {
		return 0
	}
	lastCell := c.Intervals[len(c.Intervals)-1]
	if d >= lastCell.To {
		capped, err := DecToU64(decMin(maxFund, hardCap))
		if err != nil {
			// maxFund/hardCap are both bounded uint64 inputs; this cannot fail.
			return c.MaxFundParticipation
		}
		return capped
	}

	idx, ok := c.partition.FindInterval(d)
	if !ok {
		return 0
	}
	cell := c.Intervals[idx]
	ideal := m.ideal.Apply(d)
	// Multiply before dividing and keep ample scale (decimalComputePrecision)
	// so the single division in this computation never loses precision that
	// would move the final banker's-rounded result.
	scaled := U64ToDec(cell.SlopeNumerator).
		Mul(ideal).
		DivRound(U64ToDec(cell.SlopeDenominator), decimalComputePrecision)
	intercept := U64ToDec(cell.InterceptIcpE8s)
	effective := decMin(hardCap, intercept.Add(scaled))

	out, err := DecToU64(effective)
	if err != nil {
		return c.MaxFundParticipation
	}
	return out
}
