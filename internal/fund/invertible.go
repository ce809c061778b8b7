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
	"math"

	"github.com/shopspring/decimal"
)

// simpleLinearFunctionToken is the only matching-function family this core
// supports. Any other serialized token fails to deserialize.
const simpleLinearFunctionToken = "<SimpleLinearFunction>"

// InvertibleFunction is a monotone-non-decreasing map from a direct
// participation amount (e8s) to an ideal decimal contribution. Implementations
// are carried by value across the participation lifecycle via Serialize, not
// by reference, so that snapshots remain value types.
type InvertibleFunction interface {
	// Apply must be non-decreasing over [0, math.MaxUint64].
	Apply(x uint64) decimal.Decimal
	// Serialize returns an opaque token identifying this function and any
	// parameters it needs to be reconstructed by NewFromSerialized.
	Serialize() string
}

// SimpleLinearFunction is the identity function into the decimal domain:
// Apply(x) == U64ToDec(x).
type SimpleLinearFunction struct{}

func (SimpleLinearFunction) Apply(x uint64) decimal.Decimal {
	return U64ToDec(x)
}

func (SimpleLinearFunction) Serialize() string {
	return simpleLinearFunctionToken
}

// NewFromSerialized reconstructs an InvertibleFunction from the token
// produced by a prior call to Serialize. This is the only dispatch point for
// matching-function families; new families are registered here.
func NewFromSerialized(token string) (InvertibleFunction, error) {
	if token == simpleLinearFunctionToken {
		return SimpleLinearFunction{}, nil
	}
	return nil, fmt.Errorf(
		"%w: unrecognized ideal matching function token %q",
		ErrInvariantViolated,
		token,
	)
}

// maxInvertIterations bounds the binary search in Invert/InvertTraced. The
// domain is 64 bits wide, so 65 iterations (one more than bits) always
// suffices to either converge or exhaust the search space.
const maxInvertIterations = 65

// InvertProbe is one (left, x, right, y) sample taken during a binary search
// inversion, returned by InvertTraced for test introspection.
type InvertProbe struct {
	Left  uint64
	X     uint64
	Right uint64
	Y     decimal.Decimal
}

// Invert performs a binary search over u64 to find x such that
// f.Apply(x) == targetY, or the closest achievable approximation. See
// InvertTraced for the full probe trace and loop invariants.
func Invert(f InvertibleFunction, targetY decimal.Decimal) (uint64, error) {
	x, _, err := InvertTraced(f, targetY)
	return x, err
}

// InvertTraced is Invert but additionally returns the sequence of probes
// taken, for test introspection of the search's loop invariants.
func InvertTraced(
	f InvertibleFunction,
	targetY decimal.Decimal,
) (uint64, []InvertProbe, error) {
	if targetY.IsNegative() {
		return 0, nil, fmt.Errorf(
			"%w: cannot invert a negative target value %s",
			ErrArithmeticFailure,
			targetY.String(),
		)
	}

	var left uint64 = 0
	var right uint64 = math.MaxUint64
	probes := make([]InvertProbe, 0, maxInvertIterations)

	havePrev := false
	var prevX uint64
	var prevY decimal.Decimal

	var lastX uint64
	var lastY decimal.Decimal
	haveLast := false

	for i := 0; i < maxInvertIterations && left <= right; i++ {
		x := left + (right-left)/2
		y := f.Apply(x)
		probes = append(probes, InvertProbe{Left: left, X: x, Right: right, Y: y})

		if havePrev {
			if x > prevX && y.Cmp(prevY) < 0 {
				return 0, probes, fmt.Errorf(
					"%w: apply(%d)=%s < apply(%d)=%s but %d > %d",
					ErrNonMonotone,
					x, y.String(), prevX, prevY.String(),
					x, prevX,
				)
			}
			if x < prevX && y.Cmp(prevY) > 0 {
				return 0, probes, fmt.Errorf(
					"%w: apply(%d)=%s > apply(%d)=%s but %d < %d",
					ErrNonMonotone,
					x, y.String(), prevX, prevY.String(),
					x, prevX,
				)
			}
		}
		prevX, prevY, havePrev = x, y, true
		lastX, lastY, haveLast = x, y, true

		cmp := y.Cmp(targetY)
		switch {
		case cmp == 0:
			return x, probes, nil
		case cmp < 0:
			if x == math.MaxUint64 {
				// Nothing higher to try; stop searching.
				i = maxInvertIterations
				continue
			}
			left = x + 1
		default: // cmp > 0
			if x == 0 {
				return 0, probes, fmt.Errorf(
					"%w: cannot invert small value %s (apply(0)=%s)",
					ErrArithmeticFailure,
					targetY.String(),
					y.String(),
				)
			}
			right = x - 1
		}
	}

	if !haveLast {
		return 0, probes, fmt.Errorf(
			"%w: search space exhausted without a single probe",
			ErrNonMonotone,
		)
	}

	// Best-effort: return whichever of the last two probes minimizes
	// |targetY - y|.
	best := lastX
	bestDiff := absDecimal(lastY.Sub(targetY))
	if len(probes) >= 2 {
		prev := probes[len(probes)-2]
		prevDiff := absDecimal(prev.Y.Sub(targetY))
		if prevDiff.Cmp(bestDiff) < 0 {
			best = prev.X
		}
	}
	return best, probes, nil
}

func absDecimal(d decimal.Decimal) decimal.Decimal {
	if d.IsNegative() {
		return d.Neg()
	}
	return d
}
