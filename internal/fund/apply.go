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
	"fmt"
	"strings"
)

// NeuronStore is the external collaborator that owns real neuron balances.
// Only its draw/refund contract is used here; the engine never retains
// references into the store. Implementations must be safe to call from a
// single logical executor with no internal suspension points of their own.
type NeuronStore interface {
	// WithNeuronMut looks up the neuron by id and invokes fn with its current
	// maturity, persisting the value fn returns. It returns an error if the
	// neuron does not exist or if fn itself fails.
	WithNeuronMut(ctx context.Context, id uint64, fn func(maturity uint64) (uint64, error)) error
}

// Draw applies a snapshot as a reservation: it subtracts each portion's
// amount from the corresponding neuron's maturity.
func Draw(ctx context.Context, store NeuronStore, snap Snapshot) error {
	return apply(ctx, store, snap, func(maturity, amount uint64) (uint64, error) {
		if amount > maturity {
			return 0, fmt.Errorf("draw of %d exceeds maturity %d", amount, maturity)
		}
		return maturity - amount, nil
	})
}

// Refund applies a snapshot as a refund: it adds each portion's amount back
// to the corresponding neuron's maturity, with checked (non-overflowing)
// addition.
func Refund(ctx context.Context, store NeuronStore, snap Snapshot) error {
	return apply(ctx, store, snap, func(maturity, amount uint64) (uint64, error) {
		sum := maturity + amount
		if sum < maturity {
			return 0, fmt.Errorf("refund of %d overflows maturity %d", amount, maturity)
		}
		return sum, nil
	})
}

// apply iterates the snapshot in neuron-id order, calling op against the
// store for each portion. Per-neuron failures (overflow, missing id) are
// accumulated rather than aborting the loop: on failure, that neuron's
// maturity is left unchanged by WithNeuronMut returning an error, and every
// other neuron's mutation still proceeds. There is no cross-neuron rollback;
// this is the intentional at-most-once semantics for a deterministic ledger.
func apply(
	ctx context.Context,
	store NeuronStore,
	snap Snapshot,
	op func(maturity, amount uint64) (uint64, error),
) error {
	var failures []string
	for _, id := range snap.SortedIds() {
		portion, _ := snap.Portion(id)
		err := store.WithNeuronMut(ctx, id, func(maturity uint64) (uint64, error) {
			return op(maturity, portion.Amount)
		})
		if err != nil {
			failures = append(
				failures,
				fmt.Sprintf("neuron %d: %s", id, err),
			)
		}
	}
	if len(failures) > 0 {
		return fmt.Errorf(
			"%w:\n  - %s",
			ErrApplyFailure,
			strings.Join(failures, "\n  - "),
		)
	}
	return nil
}
