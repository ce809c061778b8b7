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

// Package fund implements the matched funding engine: the piecewise-linear
// matching of external swap participation against proportional contributions
// drawn from member neurons.
package fund

import "errors"

// Error kinds. Every error returned by this package wraps one of these
// sentinels so callers can classify failures with errors.Is.
var (
	// ErrFieldUnspecified means a required optional field was absent on a
	// wire value.
	ErrFieldUnspecified = errors.New("field unspecified")
	// ErrInvariantViolated means a structural invariant (interval ordering,
	// slope bounds, partition contiguity) does not hold.
	ErrInvariantViolated = errors.New("invariant violated")
	// ErrBoundsExceeded means a count or amount fell outside its allowed
	// range.
	ErrBoundsExceeded = errors.New("bounds exceeded")
	// ErrNonMonotone means Invert detected two samples that contradict the
	// non-decreasing contract of an InvertibleFunction.
	ErrNonMonotone = errors.New("function is not monotone")
	// ErrArithmeticFailure means a decimal-to-integer conversion failed
	// (negative value or overflow).
	ErrArithmeticFailure = errors.New("arithmetic failure")
	// ErrDiffMismatch means a snapshot diff found inconsistent portion
	// metadata, or ids on the right-hand side not present on the left.
	ErrDiffMismatch = errors.New("snapshot diff mismatch")
	// ErrApplyFailure means one or more per-neuron draw/refund operations
	// failed against the neuron store.
	ErrApplyFailure = errors.New("apply failure")
)
