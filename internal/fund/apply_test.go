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
	"context"
	"errors"
	"testing"
)

// fakeNeuronStore is an in-memory NeuronStore for exercising Draw/Refund.
type fakeNeuronStore struct {
	maturities map[uint64]uint64
}

func newFakeNeuronStore(seed map[uint64]uint64) *fakeNeuronStore {
	m := make(map[uint64]uint64, len(seed))
	for id, maturity := range seed {
		m[id] = maturity
	}
	return &fakeNeuronStore{maturities: m}
}

func (s *fakeNeuronStore) WithNeuronMut(
	ctx context.Context,
	id uint64,
	fn func(maturity uint64) (uint64, error),
) error {
	maturity, ok := s.maturities[id]
	if !ok {
		return errors.New("neuron not found")
	}
	next, err := fn(maturity)
	if err != nil {
		return err
	}
	s.maturities[id] = next
	return nil
}

func TestDrawSubtractsFromMaturity(t *testing.T) {
	store := newFakeNeuronStore(map[uint64]uint64{1: 1000, 2: 2000})
	snap := NewSnapshot([]NeuronPortion{
		{Id: 1, Amount: 100},
		{Id: 2, Amount: 200},
	})
	if err := Draw(context.Background(), store, snap); err != nil {
		t.Fatalf("unexpected error: %s", err)
	}
	if store.maturities[1] != 900 {
		t.Errorf("neuron 1 maturity = %d, want 900", store.maturities[1])
	}
	if store.maturities[2] != 1800 {
		t.Errorf("neuron 2 maturity = %d, want 1800", store.maturities[2])
	}
}

func TestRefundAddsToMaturity(t *testing.T) {
	store := newFakeNeuronStore(map[uint64]uint64{1: 900})
	snap := NewSnapshot([]NeuronPortion{{Id: 1, Amount: 100}})
	if err := Refund(context.Background(), store, snap); err != nil {
		t.Fatalf("unexpected error: %s", err)
	}
	if store.maturities[1] != 1000 {
		t.Errorf("neuron 1 maturity = %d, want 1000", store.maturities[1])
	}
}

func TestDrawExceedingMaturityFailsWithoutAbortingOthers(t *testing.T) {
	store := newFakeNeuronStore(map[uint64]uint64{1: 50, 2: 2000})
	snap := NewSnapshot([]NeuronPortion{
		{Id: 1, Amount: 100}, // exceeds neuron 1's maturity
		{Id: 2, Amount: 200},
	})
	err := Draw(context.Background(), store, snap)
	if !errors.Is(err, ErrApplyFailure) {
		t.Fatalf("expected ErrApplyFailure, got %v", err)
	}
	// Neuron 1 is untouched by the failed mutation.
	if store.maturities[1] != 50 {
		t.Errorf("neuron 1 maturity = %d, want unchanged 50", store.maturities[1])
	}
	// Neuron 2's draw still proceeds despite neuron 1's failure.
	if store.maturities[2] != 1800 {
		t.Errorf("neuron 2 maturity = %d, want 1800", store.maturities[2])
	}
}

func TestDrawMissingNeuronFails(t *testing.T) {
	store := newFakeNeuronStore(nil)
	snap := NewSnapshot([]NeuronPortion{{Id: 99, Amount: 1}})
	err := Draw(context.Background(), store, snap)
	if !errors.Is(err, ErrApplyFailure) {
		t.Fatalf("expected ErrApplyFailure, got %v", err)
	}
}

func TestRefundOverflowFails(t *testing.T) {
	store := newFakeNeuronStore(map[uint64]uint64{1: ^uint64(0)})
	snap := NewSnapshot([]NeuronPortion{{Id: 1, Amount: 1}})
	err := Refund(context.Background(), store, snap)
	if !errors.Is(err, ErrApplyFailure) {
		t.Fatalf("expected ErrApplyFailure, got %v", err)
	}
}
