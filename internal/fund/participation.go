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
	"fmt"
	"sort"
)

// SwapParticipationLimits bounds both the aggregate direct participation a
// swap will accept and the per-participant neuron contribution.
type SwapParticipationLimits struct {
	MinDirectParticipationIcpE8s uint64
	MaxDirectParticipationIcpE8s uint64
	MinParticipantIcpE8s         uint64
	MaxParticipantIcpE8s         uint64
}

// Validate checks min <= max for both the direct and per-participant bounds.
func (l SwapParticipationLimits) Validate() error {
	if l.MinDirectParticipationIcpE8s > l.MaxDirectParticipationIcpE8s {
		return fmt.Errorf(
			"%w: min_direct %d exceeds max_direct %d",
			ErrInvariantViolated, l.MinDirectParticipationIcpE8s, l.MaxDirectParticipationIcpE8s,
		)
	}
	if l.MinParticipantIcpE8s > l.MaxParticipantIcpE8s {
		return fmt.Errorf(
			"%w: min_participant %d exceeds max_participant %d",
			ErrInvariantViolated, l.MinParticipantIcpE8s, l.MaxParticipantIcpE8s,
		)
	}
	return nil
}

// NeuronMaturity is the minimal view of a neuron the engine needs to build a
// participation: its id, current maturity, and controller principal.
type NeuronMaturity struct {
	Id                 uint64
	MaturityEquivalent uint64
	Controller         string
}

// Participation is the top-level lifecycle object. It is immutable after
// construction.
type Participation struct {
	snapshot               Snapshot
	limits                 SwapParticipationLimits
	ideal                  InvertibleFunction
	directParticipationE8s uint64
	totalMaturityE8s       uint64
	maxSwapE8s             uint64
	intendedE8s            uint64
	roster                 []NeuronMaturity
}

// Snapshot returns the participation's neuron portion snapshot.
func (p *Participation) Snapshot() Snapshot { return p.snapshot }

// DirectParticipationE8s returns the direct-participation amount this
// participation was built for.
func (p *Participation) DirectParticipationE8s() uint64 { return p.directParticipationE8s }

// TotalMaturityE8s returns the Fund's total maturity at build time.
func (p *Participation) TotalMaturityE8s() uint64 { return p.totalMaturityE8s }

// MaxSwapE8s returns the computed ceiling on Fund participation for this swap.
func (p *Participation) MaxSwapE8s() uint64 { return p.maxSwapE8s }

// IntendedE8s returns the computed ideal (pre-apportionment) Fund
// contribution.
func (p *Participation) IntendedE8s() uint64 { return p.intendedE8s }

// New constructs the initial or any subsequent participation for a given
// direct-participation amount. It implements the new_impl algorithm of
// NeuronsFundParticipation:
//  1. total_maturity = sum of neuron maturities (saturating).
//  2. max_swap = min(THEORETICAL_HARD_CAP, 10% * total_maturity, f(max_direct)).
//  3. intended = min(f(directE8s), max_swap).
//  4. per neuron: ideal_i = round(share_i * intended); drop below
//     min_participant, cap above max_participant, else include uncapped.
func New(
	limits SwapParticipationLimits,
	ideal InvertibleFunction,
	neurons []NeuronMaturity,
	directE8s uint64,
) (*Participation, error) {
	if err := limits.Validate(); err != nil {
		return nil, err
	}

	var totalMaturity uint64
	for _, n := range neurons {
		totalMaturity = saturatingAddU64(totalMaturity, n.MaturityEquivalent)
	}

	hardCap := U64ToDec(TheoreticalHardCapE8s)
	tenPercentOfMaturity := U64ToDec(totalMaturity).
		Mul(U64ToDec(MaxParticipationBps)).
		DivRound(U64ToDec(BasisPointsPerUnity), decimalComputePrecision)
	fAtMaxDirect := ideal.Apply(limits.MaxDirectParticipationIcpE8s)

	maxSwapDec := decMin(hardCap, decMin(tenPercentOfMaturity, fAtMaxDirect))
	maxSwapE8s, err := DecToU64(maxSwapDec)
	if err != nil {
		return nil, fmt.Errorf("computing max_swap: %w", err)
	}

	fAtDirect := ideal.Apply(directE8s)
	intendedDec := decMin(fAtDirect, U64ToDec(maxSwapE8s))
	intendedE8s, err := DecToU64(intendedDec)
	if err != nil {
		return nil, fmt.Errorf("computing intended: %w", err)
	}

	portions := make([]NeuronPortion, 0, len(neurons))
	if totalMaturity > 0 && intendedE8s > 0 {
		sorted := make([]NeuronMaturity, len(neurons))
		copy(sorted, neurons)
		sort.Slice(sorted, func(i, j int) bool { return sorted[i].Id < sorted[j].Id })

		totalMaturityDec := U64ToDec(totalMaturity)
		intendedDecActual := U64ToDec(intendedE8s)
		for _, n := range sorted {
			share := U64ToDec(n.MaturityEquivalent).
				DivRound(totalMaturityDec, decimalComputePrecision)
			idealAmountDec := share.Mul(intendedDecActual)
			idealAmount, err := DecToU64(idealAmountDec)
			if err != nil {
				return nil, fmt.Errorf("computing neuron %d share: %w", n.Id, err)
			}
			switch {
			case idealAmount < limits.MinParticipantIcpE8s:
				// Dropped: below the per-participant floor.
				continue
			case idealAmount > limits.MaxParticipantIcpE8s:
				portions = append(portions, NeuronPortion{
					Id:                 n.Id,
					Amount:             limits.MaxParticipantIcpE8s,
					MaturityEquivalent: n.MaturityEquivalent,
					Controller:         n.Controller,
					IsCapped:           true,
				})
			default:
				portions = append(portions, NeuronPortion{
					Id:                 n.Id,
					Amount:             idealAmount,
					MaturityEquivalent: n.MaturityEquivalent,
					Controller:         n.Controller,
					IsCapped:           false,
				})
			}
		}
	}

	roster := make([]NeuronMaturity, len(neurons))
	copy(roster, neurons)

	return &Participation{
		snapshot:               NewSnapshot(portions),
		limits:                 limits,
		ideal:                  ideal,
		directParticipationE8s: directE8s,
		totalMaturityE8s:       totalMaturity,
		maxSwapE8s:             maxSwapE8s,
		intendedE8s:            intendedE8s,
		roster:                 roster,
	}, nil
}

// FromInitialParticipation rebuilds the participation against the same
// neuron roster (reconstructed from the current snapshot's ids and
// maturities) and the same swap limits and ideal matching function
// (round-tripped through Serialize/NewFromSerialized), for a new realized
// direct-participation amount. This is the finalization step of the
// lifecycle.
func (p *Participation) FromInitialParticipation(directE8s uint64) (*Participation, error) {
	ideal, err := NewFromSerialized(p.ideal.Serialize())
	if err != nil {
		return nil, fmt.Errorf("round-tripping ideal matching function: %w", err)
	}
	portions := p.snapshot.Portions()
	roster := make([]NeuronMaturity, len(portions))
	for i, portion := range portions {
		roster[i] = NeuronMaturity{
			Id:                 portion.Id,
			MaturityEquivalent: portion.MaturityEquivalent,
			Controller:         portion.Controller,
		}
	}
	return New(p.limits, ideal, roster, directE8s)
}

// ComputeConstraints derives the compact piecewise-linear summary an
// external swap canister can use to reproduce the matching decision. This
// currently returns the placeholder single-cell partition [0, max_swap) with
// slope 1/1 and intercept 0 described in the design notes; any replacement
// must preserve this contract (monotone, validated, starting at 0).
func (p *Participation) ComputeConstraints() (ValidatedParticipationConstraints, error) {
	from := uint64(0)
	to := p.maxSwapE8s
	if to == 0 {
		// A degenerate [0, 0) cell would fail validation; widen to the
		// smallest valid interval for a swap with no possible contribution.
		to = 1
	}
	one := uint64(1)
	zero := uint64(0)
	wire := ParticipationConstraints{
		MinDirectParticipationThresholdIcpE8s: &zero,
		MaxNeuronsFundParticipationIcpE8s:     ptr(p.maxSwapE8s),
		CoefficientIntervals: []LinearScalingCoefficient{
			{
				FromDirectParticipationIcpE8s: &from,
				ToDirectParticipationIcpE8s:   &to,
				SlopeNumerator:                &one,
				SlopeDenominator:              &one,
				InterceptIcpE8s:               &zero,
			},
		},
	}
	return wire.Validated()
}

func ptr(v uint64) *uint64 { return &v }

// ParticipationWire is the wire representation of a Participation's
// boundary-crossing fields: every field optional, validated on entry.
type ParticipationWire struct {
	DirectParticipationIcpE8s *uint64
	TotalMaturityIcpE8s       *uint64
	MaxSwapIcpE8s             *uint64
	IntendedIcpE8s            *uint64
	Snapshot                  *SnapshotWire
}

// Validate checks required scalar fields and, if the snapshot is present,
// validates it.
func (w *ParticipationWire) Validate() error {
	switch {
	case w.DirectParticipationIcpE8s == nil:
		return fmt.Errorf("%w: direct_participation_icp_e8s", ErrFieldUnspecified)
	case w.TotalMaturityIcpE8s == nil:
		return fmt.Errorf("%w: total_maturity_icp_e8s", ErrFieldUnspecified)
	case w.MaxSwapIcpE8s == nil:
		return fmt.Errorf("%w: max_swap_icp_e8s", ErrFieldUnspecified)
	case w.IntendedIcpE8s == nil:
		return fmt.Errorf("%w: intended_icp_e8s", ErrFieldUnspecified)
	case w.Snapshot == nil:
		return fmt.Errorf("%w: snapshot", ErrFieldUnspecified)
	}
	return w.Snapshot.Validate()
}

// ValidatedParticipation is the dereferenced, round-trippable subset of a
// Participation's wire-crossing fields. It excludes the swap limits, ideal
// matching function, and neuron roster used to construct a Participation,
// since those never cross the wire as part of a result.
type ValidatedParticipation struct {
	DirectParticipationE8s uint64
	TotalMaturityE8s       uint64
	MaxSwapE8s             uint64
	IntendedE8s            uint64
	Snapshot               Snapshot
}

// Validated runs Validate and, on success, returns the assembled
// ValidatedParticipation.
func (w *ParticipationWire) Validated() (ValidatedParticipation, error) {
	if err := w.Validate(); err != nil {
		return ValidatedParticipation{}, err
	}
	snap, err := w.Snapshot.Validated()
	if err != nil {
		return ValidatedParticipation{}, err
	}
	return ValidatedParticipation{
		DirectParticipationE8s: *w.DirectParticipationIcpE8s,
		TotalMaturityE8s:       *w.TotalMaturityIcpE8s,
		MaxSwapE8s:             *w.MaxSwapIcpE8s,
		IntendedE8s:            *w.IntendedIcpE8s,
		Snapshot:               snap,
	}, nil
}

// ToWire is total: every Participation converts back to a fully populated
// wire value.
func (p *Participation) ToWire() ParticipationWire {
	direct, total := p.directParticipationE8s, p.totalMaturityE8s
	maxSwap, intended := p.maxSwapE8s, p.intendedE8s
	snapWire := p.snapshot.ToWire()
	return ParticipationWire{
		DirectParticipationIcpE8s: &direct,
		TotalMaturityIcpE8s:       &total,
		MaxSwapIcpE8s:             &maxSwap,
		IntendedIcpE8s:            &intended,
		Snapshot:                  &snapWire,
	}
}
