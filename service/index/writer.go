// Copyright 2021 Optakt Labs OÜ
//
// Licensed under the Apache License, Version 2.0 (the "License"); you may not
// use this file except in compliance with the License. You may obtain a copy of
// the License at
//
//     https://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS, WITHOUT
// WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied. See the
// License for the specific language governing permissions and limitations under
// the License.

package index

import (
	"errors"
	"fmt"
	"time"

	"github.com/dgraph-io/badger/v2"
	"github.com/google/uuid"

	"github.com/optakt/nem-adapter/models/nem"
	"github.com/optakt/nem-adapter/service/storage"
)

// Writer drives all lifecycle transitions of the on-disk index. Each
// transition runs as a single Badger transaction on the operation record,
// which makes the record the serialization point for concurrent writers.
type Writer struct {
	db  *badger.DB
	lib *storage.Library
}

// NewWriter creates a new index writer using the given database and
// storage library.
func NewWriter(db *badger.DB, lib *storage.Library) *Writer {

	w := Writer{
		db:  db,
		lib: lib,
	}

	return &w
}

// Built upserts the operation record produced by the transaction builder.
// Rebuilding an operation that has not been sent yet simply overwrites the
// skeleton; once a broadcast has been committed, the upsert fails with
// nem.ErrAlreadySent.
func (w *Writer) Built(operation *nem.Operation) error {
	return w.db.Update(func(tx *badger.Txn) error {
		var existing nem.Operation
		err := w.lib.RetrieveOperation(operation.ID, &existing)(tx)
		if err != nil && !errors.Is(err, badger.ErrKeyNotFound) {
			return fmt.Errorf("could not check for existing operation: %w", err)
		}
		if err == nil && existing.IsSent() {
			return nem.ErrAlreadySent
		}
		return w.lib.SaveOperation(operation)(tx)
	})
}

// Claimed commits the broadcast claim on the operation: it durably writes
// the expiry index entry first, then merges the send and expiry times into
// the operation record. The merge fails with nem.ErrAlreadySent when
// another broadcast already claimed the operation, so at most one caller
// ever proceeds to announce; a losing claim also removes its own expiry
// index entry again. The index entry is written before the send time on
// purpose: a crash in between leaves a dangling index entry the sweeper
// tolerates, never a sent operation the sweeper cannot find.
func (w *Writer) Claimed(operationID uuid.UUID, sendTime time.Time, expiry time.Time) error {
	err := w.db.Update(w.lib.IndexOperationForExpiry(expiry, operationID))
	if err != nil {
		return fmt.Errorf("could not index operation for expiry: %w", err)
	}

	merge := w.lib.MergeOperation(operationID, func(operation *nem.Operation) error {
		if operation.IsSent() {
			return nem.ErrAlreadySent
		}
		operation.SendTime = &sendTime
		operation.ExpiryTime = &expiry
		return nil
	})
	err = w.db.Update(merge)
	for errors.Is(err, badger.ErrConflict) {
		// A concurrent claim committed between our read and our commit;
		// re-run the merge so the outcome is judged against the winning
		// record instead of surfacing the transaction conflict.
		err = w.db.Update(merge)
	}
	if errors.Is(err, badger.ErrKeyNotFound) {
		return nem.ErrNotFound
	}
	if errors.Is(err, nem.ErrAlreadySent) {
		// Only remove the entry when it is not the one the winning claim
		// committed, which shares the key if both picked the same deadline.
		var committed nem.Operation
		viewErr := w.db.View(w.lib.RetrieveOperation(operationID, &committed))
		if viewErr != nil {
			return fmt.Errorf("could not read winning claim: %w", viewErr)
		}
		if committed.ExpiryTime == nil || !committed.ExpiryTime.Equal(expiry) {
			removeErr := w.db.Update(w.lib.RemoveExpiryEntry(expiry, operationID))
			if removeErr != nil {
				return fmt.Errorf("could not remove expiry entry of losing claim: %w", removeErr)
			}
		}
		return nem.ErrAlreadySent
	}
	return err
}

// Unclaimed rolls back a broadcast claim after the node definitively
// rejected the announcement, so the caller can rebuild the operation. The
// expiry index entry is removed after the merge; a crash in between again
// only leaves a dangling index entry.
func (w *Writer) Unclaimed(operationID uuid.UUID, expiry time.Time) error {
	err := w.db.Update(w.lib.MergeOperation(operationID, func(operation *nem.Operation) error {
		operation.SendTime = nil
		operation.ExpiryTime = nil
		return nil
	}))
	if err != nil {
		return fmt.Errorf("could not roll back broadcast claim: %w", err)
	}

	err = w.db.Update(w.lib.RemoveExpiryEntry(expiry, operationID))
	if err != nil {
		return fmt.Errorf("could not remove expiry entry: %w", err)
	}

	return nil
}

// Announced records the transaction hash returned by the node for a
// claimed operation and indexes the operation under it.
func (w *Writer) Announced(operationID uuid.UUID, txID string) error {
	return w.db.Update(storage.Combine(
		w.lib.IndexOperationForTx(txID, operationID),
		w.lib.MergeOperation(operationID, func(operation *nem.Operation) error {
			operation.TxID = txID
			return nil
		}),
	))
}

// Completed marks the operation as confirmed at the given block. Terminal
// states are mutually exclusive, so an operation that already completed or
// failed is left untouched.
func (w *Writer) Completed(operationID uuid.UUID, block uint64, blockTime time.Time) error {
	now := time.Now().UTC()
	return w.db.Update(w.lib.MergeOperation(operationID, func(operation *nem.Operation) error {
		if operation.IsFinal() {
			return nil
		}
		operation.CompletionTime = &now
		operation.BlockTime = &blockTime
		operation.Block = block
		return nil
	}))
}

// Failed marks the operation as failed with the given reason. An operation
// that already reached a terminal state is left untouched.
func (w *Writer) Failed(operationID uuid.UUID, reason string) error {
	now := time.Now().UTC()
	return w.db.Update(w.lib.MergeOperation(operationID, func(operation *nem.Operation) error {
		if operation.IsFinal() {
			return nil
		}
		operation.FailTime = &now
		operation.Error = reason
		return nil
	}))
}

// Deleted marks the operation as logically deleted. The record itself is
// retained for audit and idempotency.
func (w *Writer) Deleted(operationID uuid.UUID) error {
	now := time.Now().UTC()
	err := w.db.Update(w.lib.MergeOperation(operationID, func(operation *nem.Operation) error {
		if operation.DeleteTime != nil {
			return nil
		}
		operation.DeleteTime = &now
		return nil
	}))
	if errors.Is(err, badger.ErrKeyNotFound) {
		return nem.ErrNotFound
	}
	return err
}

// RemoveExpiry deletes the expiry index entry once the sweeper resolved
// the operation it points to.
func (w *Writer) RemoveExpiry(entry storage.ExpiryEntry) error {
	return w.db.Update(w.lib.RemoveExpiryEntry(entry.Expiry, entry.OperationID))
}

// IndexExpiry re-derives an expiry index entry during the reconciliation
// audit pass.
func (w *Writer) IndexExpiry(expiry time.Time, operationID uuid.UUID) error {
	return w.db.Update(w.lib.IndexOperationForExpiry(expiry, operationID))
}

// Observed adds the given address to the balance observation set.
func (w *Writer) Observed(address string) error {
	return w.db.Update(w.lib.SaveObservedAddress(address))
}

// Unobserved removes the given address from the balance observation set.
func (w *Writer) Unobserved(address string) error {
	return w.db.Update(w.lib.RemoveObservedAddress(address))
}

// Asset upserts the given asset record.
func (w *Writer) Asset(asset *nem.Asset) error {
	return w.db.Update(w.lib.SaveAsset(asset))
}
