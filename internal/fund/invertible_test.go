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
	"errors"
	"math"
	"testing"

	"github.com/shopspring/decimal"
)

func TestSimpleLinearFunctionSerialize(t *testing.T) {
	f := SimpleLinearFunction{}
	if f.Serialize() != "<SimpleLinearFunction>" {
		t.Errorf("unexpected serialization: %s", f.Serialize())
	}
	back, err := NewFromSerialized(f.Serialize())
	if err != nil {
		t.Fatalf("NewFromSerialized failed: %s", err)
	}
	if back.Serialize() != f.Serialize() {
		t.Errorf("round trip mismatch")
	}
}

func TestNewFromSerializedUnknownTokenFails(t *testing.T) {
	_, err := NewFromSerialized("<SomethingElse>")
	if err == nil {
		t.Fatal("expected error for unknown token")
	}
}

func TestInvertRoundTrip(t *testing.T) {
	f := SimpleLinearFunction{}
	xs := []uint64{0, 1, 100, 1_000_000, math.MaxUint64/2, math.MaxUint64 - 1, math.MaxUint64}
	for _, x := range xs {
		y := f.Apply(x)
		got, err := Invert(f, y)
		if err != nil {
			t.Fatalf("Invert(f(%d)) failed: %s", x, err)
		}
		diff := int64(got) - int64(x)
		if diff < -1 || diff > 1 {
			t.Errorf("Invert(f(%d)) = %d, want within 1 of %d", x, got, x)
		}
	}
}

func TestInvertApplyRoundTrip(t *testing.T) {
	f := SimpleLinearFunction{}
	xs := []uint64{0, 7, 12345, 1_000_000_000}
	for _, x := range xs {
		y := f.Apply(x)
		inv, err := Invert(f, y)
		if err != nil {
			t.Fatalf("Invert failed: %s", err)
		}
		if !f.Apply(inv).Equal(y) {
			t.Errorf("f(invert(f(%d))) != f(%d)", x, x)
		}
	}
}

func TestInvertNegativeTargetFails(t *testing.T) {
	f := SimpleLinearFunction{}
	_, err := Invert(f, decimal.NewFromInt(-5))
	if !errors.Is(err, ErrArithmeticFailure) {
		t.Errorf("expected ErrArithmeticFailure, got %v", err)
	}
}

// decreasingFunction is a deliberately non-monotone InvertibleFunction used
// to exercise the non-monotonicity diagnostic.
type decreasingFunction struct{}

func (decreasingFunction) Apply(x uint64) decimal.Decimal {
	return U64ToDec(math.MaxUint64 - x)
}

func (decreasingFunction) Serialize() string { return "<decreasing-test-fixture>" }

func TestInvertDetectsNonMonotone(t *testing.T) {
	_, _, err := InvertTraced(decreasingFunction{}, U64ToDec(100))
	if !errors.Is(err, ErrNonMonotone) {
		t.Errorf("expected ErrNonMonotone, got %v", err)
	}
}

func TestInvertTracedLoopInvariants(t *testing.T) {
	f := SimpleLinearFunction{}
	_, probes, err := InvertTraced(f, U64ToDec(123456))
	if err != nil {
		t.Fatalf("InvertTraced failed: %s", err)
	}
	if len(probes) == 0 {
		t.Fatal("expected at least one probe")
	}
	if len(probes) > maxInvertIterations {
		t.Errorf("too many iterations: %d > %d", len(probes), maxInvertIterations)
	}
	seen := make(map[uint64]bool)
	for _, p := range probes {
		if p.Left > p.Right+1 {
			t.Errorf("invariant violated: left=%d > right+1=%d", p.Left, p.Right+1)
		}
		if p.Left < p.Right+1 {
			if seen[p.X] {
				t.Errorf("probe x=%d repeated while left < right+1", p.X)
			}
			seen[p.X] = true
		}
	}
}

func TestInvertCannotInvertSmallValue(t *testing.T) {
	// A function whose minimum value already exceeds the target cannot be
	// inverted at x=0.
	f := offsetFunction{offset: 1000}
	_, err := Invert(f, U64ToDec(5))
	if !errors.Is(err, ErrArithmeticFailure) {
		t.Errorf("expected ErrArithmeticFailure, got %v", err)
	}
}

type offsetFunction struct{ offset uint64 }

func (o offsetFunction) Apply(x uint64) decimal.Decimal {
	return U64ToDec(x + o.offset)
}

func (o offsetFunction) Serialize() string { return "<offset-test-fixture>" }
