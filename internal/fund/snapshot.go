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

// NeuronPortion is an immutable record of how much was reserved from one
// neuron.
type NeuronPortion struct {
	Id                 uint64
	Amount             uint64
	MaturityEquivalent uint64
	Controller         string
	IsCapped           bool
}

// NeuronPortionWire is the wire representation of a NeuronPortion: every
// field optional, validated on entry.
type NeuronPortionWire struct {
	Id                 *uint64
	Amount             *uint64
	MaturityEquivalent *uint64
	Controller         *string
	IsCapped           *bool
}

// Validate reports the first unspecified field, in declaration order.
func (w *NeuronPortionWire) Validate() error {
	switch {
	case w.Id == nil:
		return fmt.Errorf("%w: id", ErrFieldUnspecified)
	case w.Amount == nil:
		return fmt.Errorf("%w: amount", ErrFieldUnspecified)
	case w.MaturityEquivalent == nil:
		return fmt.Errorf("%w: maturity_equivalent", ErrFieldUnspecified)
	case w.Controller == nil:
		return fmt.Errorf("%w: controller", ErrFieldUnspecified)
	case w.IsCapped == nil:
		return fmt.Errorf("%w: is_capped", ErrFieldUnspecified)
	}
	return nil
}

// Validated runs Validate and, on success, returns the dereferenced form.
func (w *NeuronPortionWire) Validated() (NeuronPortion, error) {
	if err := w.Validate(); err != nil {
		return NeuronPortion{}, err
	}
	return NeuronPortion{
		Id:                 *w.Id,
		Amount:             *w.Amount,
		MaturityEquivalent: *w.MaturityEquivalent,
		Controller:         *w.Controller,
		IsCapped:           *w.IsCapped,
	}, nil
}

// ToWire is total: every NeuronPortion converts back to a fully populated
// wire value.
func (p NeuronPortion) ToWire() NeuronPortionWire {
	id, amount, maturity, isCapped := p.Id, p.Amount, p.MaturityEquivalent, p.IsCapped
	controller := p.Controller
	return NeuronPortionWire{
		Id:                 &id,
		Amount:             &amount,
		MaturityEquivalent: &maturity,
		Controller:         &controller,
		IsCapped:           &isCapped,
	}
}

// Snapshot is an immutable per-neuron decomposition of a participation
// total: a mapping from neuron id to exactly one portion. Insertion order is
// irrelevant; equality is by content.
type Snapshot struct {
	portions map[uint64]NeuronPortion
}

// NewSnapshot builds a Snapshot from a set of portions. Later entries for the
// same id overwrite earlier ones.
func NewSnapshot(portions []NeuronPortion) Snapshot {
	m := make(map[uint64]NeuronPortion, len(portions))
	for _, p := range portions {
		m[p.Id] = p
	}
	return Snapshot{portions: m}
}

// Len returns the number of portions in the snapshot.
func (s Snapshot) Len() int {
	return len(s.portions)
}

// Portion returns the portion for id, if present.
func (s Snapshot) Portion(id uint64) (NeuronPortion, bool) {
	p, ok := s.portions[id]
	return p, ok
}

// SortedIds returns the neuron ids present in the snapshot, in ascending
// order, so that callers iterate deterministically.
func (s Snapshot) SortedIds() []uint64 {
	ids := make([]uint64, 0, len(s.portions))
	for id := range s.portions {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	return ids
}

// Portions returns the snapshot's portions in neuron-id order.
func (s Snapshot) Portions() []NeuronPortion {
	ids := s.SortedIds()
	out := make([]NeuronPortion, len(ids))
	for i, id := range ids {
		out[i] = s.portions[id]
	}
	return out
}

// SnapshotWire is the wire representation of a Snapshot: an unordered list
// of optional-field NeuronPortionWire values.
type SnapshotWire struct {
	Portions []NeuronPortionWire
}

// Validate validates every portion, in order, failing on the first invalid
// one.
func (w *SnapshotWire) Validate() error {
	for i := range w.Portions {
		if err := w.Portions[i].Validate(); err != nil {
			return fmt.Errorf("portions[%d]: %w", i, err)
		}
	}
	return nil
}

// Validated runs Validate and, on success, returns the assembled Snapshot.
func (w *SnapshotWire) Validated() (Snapshot, error) {
	if err := w.Validate(); err != nil {
		return Snapshot{}, err
	}
	portions := make([]NeuronPortion, len(w.Portions))
	for i := range w.Portions {
		p, _ := w.Portions[i].Validated()
		portions[i] = p
	}
	return NewSnapshot(portions), nil
}

// ToWire is total: every Snapshot converts back to a fully populated wire
// value, with portions in neuron-id order.
func (s Snapshot) ToWire() SnapshotWire {
	ps := s.Portions()
	wire := make([]NeuronPortionWire, len(ps))
	for i, p := range ps {
		wire[i] = p.ToWire()
	}
	return SnapshotWire{Portions: wire}
}

// TotalAmount returns the saturating sum of all portion amounts.
func (s Snapshot) TotalAmount() uint64 {
	var total uint64
	for _, p := range s.portions {
		total = saturatingAddU64(total, p.Amount)
	}
	return total
}

func saturatingAddU64(a, b uint64) uint64 {
	sum := a + b
	if sum < a {
		return ^uint64(0)
	}
	return sum
}

// Diff computes the per-neuron refund between an initial (self) and a final
// (other) snapshot. For each id in self: if other also has it, the
// refund amount is self.Amount - other.Amount, which must be non-negative,
// and the maturity/controller must match, and other.IsCapped implies
// self.IsCapped (capping is monotone through the lifecycle). If other lacks
// the id, self's portion is emitted unchanged. Any id present in other but
// absent from self is a reconciliation error.
func Diff(self, other Snapshot) (Snapshot, error) {
	seen := make(map[uint64]struct{}, len(other.portions))
	out := make([]NeuronPortion, 0, len(self.portions))

	for _, id := range self.SortedIds() {
		l := self.portions[id]
		r, ok := other.portions[id]
		if !ok {
			out = append(out, l)
			continue
		}
		seen[id] = struct{}{}
		if r.Amount > l.Amount {
			return Snapshot{}, fmt.Errorf(
				"%w: neuron %d: final amount %d exceeds initial amount %d",
				ErrDiffMismatch, id, r.Amount, l.Amount,
			)
		}
		if r.MaturityEquivalent != l.MaturityEquivalent {
			return Snapshot{}, fmt.Errorf(
				"%w: neuron %d: maturity_equivalent mismatch (initial %d, final %d)",
				ErrDiffMismatch, id, l.MaturityEquivalent, r.MaturityEquivalent,
			)
		}
		if r.Controller != l.Controller {
			return Snapshot{}, fmt.Errorf(
				"%w: neuron %d: controller mismatch (initial %q, final %q)",
				ErrDiffMismatch, id, l.Controller, r.Controller,
			)
		}
		if r.IsCapped && !l.IsCapped {
			return Snapshot{}, fmt.Errorf(
				"%w: neuron %d: capped in final snapshot but not in initial",
				ErrDiffMismatch, id,
			)
		}
		out = append(out, NeuronPortion{
			Id:                 id,
			Amount:             l.Amount - r.Amount,
			MaturityEquivalent: l.MaturityEquivalent,
			Controller:         l.Controller,
			IsCapped:           r.IsCapped,
		})
	}

	if len(seen) != len(other.portions) {
		var extra []uint64
		for id := range other.portions {
			if _, ok := seen[id]; !ok {
				extra = append(extra, id)
			}
		}
		sort.Slice(extra, func(i, j int) bool { return extra[i] < extra[j] })
		return Snapshot{}, fmt.Errorf(
			"%w: final snapshot has neuron ids not present in initial snapshot: %v",
			ErrDiffMismatch, extra,
		)
	}

	return NewSnapshot(out), nil
}
