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

// Package neuronstore is a reference, badger-backed implementation of the
// fund.NeuronStore contract. The real neuron store lives outside this core
// (see spec §1, "external collaborators referenced only by the interfaces
// they expose"); this package exists so the draw/refund path in
// internal/fund/apply.go has a concrete, swappable backend to run against
// in the CLI driver.
package neuronstore

import (
	"context"
	"encoding/binary"
	"fmt"

	"github.com/blinklabs-io/gouroboros/cbor"
	"github.com/dgraph-io/badger/v4"
	"go.uber.org/zap"
)

const neuronKeyPrefix = "neuron_"

// record is the on-disk representation of one neuron, encoded as a CBOR
// array (StructAsArray) the same way internal storage records are encoded
// elsewhere in this codebase's ancestry.
type record struct {
	cbor.StructAsArray
	MaturityEquivalent uint64
	Controller         string
}

// Store is a badger-backed NeuronStore.
type Store struct {
	db *badger.DB
}

// Open opens (creating if necessary) a badger database at dir to back the
// neuron store.
func Open(dir string, logger *zap.SugaredLogger) (*Store, error) {
	opts := badger.DefaultOptions(dir).
		WithLogger(newBadgerLogger(logger)).
		WithLoggingLevel(badger.WARNING)
	db, err := badger.Open(opts)
	if err != nil {
		return nil, fmt.Errorf("opening neuron store at %s: %w", dir, err)
	}
	return &Store{db: db}, nil
}

// Close releases the underlying badger database.
func (s *Store) Close() error {
	return s.db.Close()
}

func neuronKey(id uint64) []byte {
	key := make([]byte, len(neuronKeyPrefix)+8)
	copy(key, neuronKeyPrefix)
	binary.BigEndian.PutUint64(key[len(neuronKeyPrefix):], id)
	return key
}

// Seed creates or overwrites a neuron record, for test and demo setup.
func (s *Store) Seed(id uint64, maturityEquivalent uint64, controller string) error {
	return s.db.Update(func(txn *badger.Txn) error {
		return putRecord(txn, id, record{
			MaturityEquivalent: maturityEquivalent,
			Controller:         controller,
		})
	})
}

// Get returns a neuron's current maturity and controller.
func (s *Store) Get(id uint64) (maturity uint64, controller string, err error) {
	err = s.db.View(func(txn *badger.Txn) error {
		rec, err := getRecord(txn, id)
		if err != nil {
			return err
		}
		maturity = rec.MaturityEquivalent
		controller = rec.Controller
		return nil
	})
	return maturity, controller, err
}

// WithNeuronMut implements fund.NeuronStore: it looks up the neuron,
// invokes fn with its current maturity, and persists whatever fn returns.
// On any error the neuron's stored maturity is left unchanged.
func (s *Store) WithNeuronMut(
	_ context.Context,
	id uint64,
	fn func(maturity uint64) (uint64, error),
) error {
	return s.db.Update(func(txn *badger.Txn) error {
		rec, err := getRecord(txn, id)
		if err != nil {
			return err
		}
		newMaturity, err := fn(rec.MaturityEquivalent)
		if err != nil {
			return err
		}
		rec.MaturityEquivalent = newMaturity
		return putRecord(txn, id, rec)
	})
}

func getRecord(txn *badger.Txn, id uint64) (record, error) {
	item, err := txn.Get(neuronKey(id))
	if err != nil {
		if err == badger.ErrKeyNotFound {
			return record{}, fmt.Errorf("neuron %d not found", id)
		}
		return record{}, err
	}
	var rec record
	err = item.Value(func(v []byte) error {
		_, decErr := cbor.Decode(v, &rec)
		return decErr
	})
	return rec, err
}

func putRecord(txn *badger.Txn, id uint64, rec record) error {
	encoded, err := cbor.Encode(&rec)
	if err != nil {
		return err
	}
	return txn.Set(neuronKey(id), encoded)
}

// badgerLogger adapts a zap.SugaredLogger to badger's expected Logger
// interface (Errorf, Warningf, Infof, Debugf).
type badgerLogger struct {
	*zap.SugaredLogger
}

func newBadgerLogger(logger *zap.SugaredLogger) *badgerLogger {
	return &badgerLogger{SugaredLogger: logger}
}

func (b *badgerLogger) Warningf(msg string, args ...any) {
	b.SugaredLogger.Warnf(msg, args...)
}
