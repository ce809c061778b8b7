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

// Package audit is an append-only, badger-backed record of each swap's
// reservation, finalization, and refund snapshots, keyed by swap id. The
// engine itself retains no references after a lifecycle completes (spec §5,
// "ownership"); this package is what lets a reconciliation task reconstruct
// a swap's full history after the fact.
package audit

import (
	"fmt"

	"github.com/blinklabs-io/gouroboros/cbor"
	"github.com/dgraph-io/badger/v4"
	"go.uber.org/zap"

	"github.com/neuronsfund/matchedfunding/internal/fund"
)

// Stage identifies which point in the lifecycle a recorded snapshot belongs
// to.
type Stage string

const (
	StageInitial Stage = "initial"
	StageFinal   Stage = "final"
	StageRefund  Stage = "refund"
)

// portionRecord is the CBOR-array encoding of one fund.NeuronPortion.
type portionRecord struct {
	cbor.StructAsArray
	Id                 uint64
	Amount             uint64
	MaturityEquivalent uint64
	Controller         string
	IsCapped           bool
}

// snapshotRecord is the CBOR-array encoding of a fund.Snapshot.
type snapshotRecord struct {
	cbor.StructAsArray
	Portions []portionRecord
}

// Log is a badger-backed append-only store of per-swap snapshots.
type Log struct {
	db *badger.DB
}

// Open opens (creating if necessary) a badger database at dir to back the
// audit log.
func Open(dir string, logger *zap.SugaredLogger) (*Log, error) {
	opts := badger.DefaultOptions(dir).
		WithLogger(adaptLogger(logger)).
		WithLoggingLevel(badger.WARNING)
	db, err := badger.Open(opts)
	if err != nil {
		return nil, fmt.Errorf("opening audit log at %s: %w", dir, err)
	}
	return &Log{db: db}, nil
}

// Close releases the underlying badger database.
func (l *Log) Close() error {
	return l.db.Close()
}

func key(swapId string, stage Stage) []byte {
	return []byte(fmt.Sprintf("swap_%s_%s", swapId, stage))
}

// Record persists a snapshot for a swap at the given lifecycle stage. It fails
// if a snapshot for that swap and stage has already been recorded.
func (l *Log) Record(swapId string, stage Stage, snap fund.Snapshot) error {
	rec := toRecord(snap)
	encoded, err := cbor.Encode(&rec)
	if err != nil {
		return fmt.Errorf("encoding snapshot for swap %s/%s: %w", swapId, stage, err)
	}
	return l.db.Update(func(txn *badger.Txn) error {
		k := key(swapId, stage)
		if _, err := txn.Get(k); err == nil {
			return fmt.Errorf("snapshot for swap %s/%s already recorded", swapId, stage)
		} else if err != badger.ErrKeyNotFound {
			return err
		}
		return txn.Set(k, encoded)
	})
}

// Get retrieves a previously recorded snapshot, if present.
func (l *Log) Get(swapId string, stage Stage) (fund.Snapshot, bool, error) {
	var rec snapshotRecord
	found := true
	err := l.db.View(func(txn *badger.Txn) error {
		item, err := txn.Get(key(swapId, stage))
		if err != nil {
			if err == badger.ErrKeyNotFound {
				found = false
				return nil
			}
			return err
		}
		return item.Value(func(v []byte) error {
			_, decErr := cbor.Decode(v, &rec)
			return decErr
		})
	})
	if err != nil || !found {
		return fund.Snapshot{}, found, err
	}
	return fromRecord(rec), true, nil
}

func toRecord(snap fund.Snapshot) snapshotRecord {
	portions := snap.Portions()
	out := make([]portionRecord, len(portions))
	for i, p := range portions {
		out[i] = portionRecord{
			Id:                 p.Id,
			Amount:             p.Amount,
			MaturityEquivalent: p.MaturityEquivalent,
			Controller:         p.Controller,
			IsCapped:           p.IsCapped,
		}
	}
	return snapshotRecord{Portions: out}
}

func fromRecord(rec snapshotRecord) fund.Snapshot {
	portions := make([]fund.NeuronPortion, len(rec.Portions))
	for i, p := range rec.Portions {
		portions[i] = fund.NeuronPortion{
			Id:                 p.Id,
			Amount:             p.Amount,
			MaturityEquivalent: p.MaturityEquivalent,
			Controller:         p.Controller,
			IsCapped:           p.IsCapped,
		}
	}
	return fund.NewSnapshot(portions)
}

// badgerLoggerAdapter adapts a zap.SugaredLogger to badger's expected Logger
// interface (Errorf, Warningf, Infof, Debugf).
type badgerLoggerAdapter struct {
	*zap.SugaredLogger
}

func adaptLogger(logger *zap.SugaredLogger) *badgerLoggerAdapter {
	return &badgerLoggerAdapter{SugaredLogger: logger}
}

func (b *badgerLoggerAdapter) Warningf(msg string, args ...any) {
	b.SugaredLogger.Warnf(msg, args...)
}
