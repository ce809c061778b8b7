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

// Icp is a single { e8s } wire value, matching the nested amount types used
// throughout the external swap surface.
type Icp struct {
	E8s *uint64
}

// SwapParameters is the subset of the external swap canister's parameters
// this core needs in order to derive SwapParticipationLimits.
type SwapParameters struct {
	MinimumIcp               Icp
	MaximumIcp               Icp
	MinimumParticipantIcp    Icp
	MaximumParticipantIcp    Icp
	NeuronsFundInvestmentIcp Icp
}

func (i Icp) value(path string) (uint64, error) {
	if i.E8s == nil {
		return 0, fmt.Errorf("%w: %s", ErrFieldUnspecified, path)
	}
	return *i.E8s, nil
}

// DeriveSwapParticipationLimits computes SwapParticipationLimits from
// SwapParameters: min_direct and max_direct are the saturating subtraction
// of the Fund's own investment from minimum_icp/maximum_icp; min_participant
// and max_participant pass through unchanged.
func DeriveSwapParticipationLimits(p SwapParameters) (SwapParticipationLimits, error) {
	minIcp, err := p.MinimumIcp.value("minimum_icp.e8s")
	if err != nil {
		return SwapParticipationLimits{}, err
	}
	maxIcp, err := p.MaximumIcp.value("maximum_icp.e8s")
	if err != nil {
		return SwapParticipationLimits{}, err
	}
	minParticipant, err := p.MinimumParticipantIcp.value("minimum_participant_icp.e8s")
	if err != nil {
		return SwapParticipationLimits{}, err
	}
	maxParticipant, err := p.MaximumParticipantIcp.value("maximum_participant_icp.e8s")
	if err != nil {
		return SwapParticipationLimits{}, err
	}
	investment, err := p.NeuronsFundInvestmentIcp.value("neurons_fund_investment_icp.e8s")
	if err != nil {
		return SwapParticipationLimits{}, err
	}

	limits := SwapParticipationLimits{
		MinDirectParticipationIcpE8s: saturatingSubU64(minIcp, investment),
		MaxDirectParticipationIcpE8s: saturatingSubU64(maxIcp, investment),
		MinParticipantIcpE8s:         minParticipant,
		MaxParticipantIcpE8s:         maxParticipant,
	}
	return limits, limits.Validate()
}

func saturatingSubU64(a, b uint64) uint64 {
	if b > a {
		return 0
	}
	return a - b
}
