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
	"math/big"

	"github.com/shopspring/decimal"
)

// E8 is the scale of one unit in e8s (one hundred-millionth).
const E8 = 100_000_000

// THEORETICAL_HARD_CAP bounds the Fund's absolute exposure regardless of
// configuration, expressed in e8s.
const TheoreticalHardCapE8s uint64 = 333_000 * E8

// MaxIntervals is the largest number of coefficient cells a
// ParticipationConstraints partition may carry.
const MaxIntervals = 100_000

// MaxParticipationBps is the Fund's maximum share of its own maturity it may
// ever commit to a single swap, in basis points.
const MaxParticipationBps = 1_000

// BasisPointsPerUnity is the denominator basis-point scale.
const BasisPointsPerUnity = 10_000

var maxUint64Big = new(big.Int).SetUint64(^uint64(0))

// decimalComputePrecision is the number of fractional decimal digits kept
// for intermediate ratio division. It is chosen far above the handful of
// significant digits an e8s-scale quantity needs, so that it never affects
// the outcome of the final banker's rounding to u64.
const decimalComputePrecision = 24

// U64ToDec converts a non-negative 64-bit integer into the decimal domain.
// This conversion is total.
func U64ToDec(x uint64) decimal.Decimal {
	return decimal.NewFromBigInt(new(big.Int).SetUint64(x), 0)
}

// DecToU64 converts a decimal value back into a 64-bit integer, rounding
// ties to even at scale 0. It fails on negative input and on overflow past
// math.MaxUint64. These two functions are the only conversion points between
// the integer and decimal domains, and DecToU64 is the only place a value is
// rounded to an integer; intermediate ratio divisions elsewhere round only at
// decimalComputePrecision fractional digits.
func DecToU64(x decimal.Decimal) (uint64, error) {
	if x.IsNegative() {
		return 0, fmt.Errorf(
			"%w: decimal value %s is negative",
			ErrArithmeticFailure,
			x.String(),
		)
	}
	rounded := x.RoundBank(0)
	bi, ok := new(big.Int).SetString(rounded.String(), 10)
	if !ok {
		return 0, fmt.Errorf(
			"%w: cannot parse rounded decimal %q",
			ErrArithmeticFailure,
			rounded.String(),
		)
	}
	if bi.Sign() < 0 {
		return 0, fmt.Errorf(
			"%w: rounded decimal %s is negative",
			ErrArithmeticFailure,
			rounded.String(),
		)
	}
	if bi.Cmp(maxUint64Big) > 0 {
		return 0, fmt.Errorf(
			"%w: decimal value %s overflows uint64",
			ErrArithmeticFailure,
			rounded.String(),
		)
	}
	return bi.Uint64(), nil
}

// decMin returns the smaller of two decimals.
func decMin(a, b decimal.Decimal) decimal.Decimal {
	if a.Cmp(b) <= 0 {
		return a
	}
	return b
}
