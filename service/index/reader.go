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
	"time"

	"github.com/dgraph-io/badger/v2"
	"github.com/google/uuid"

	"github.com/optakt/nem-adapter/models/nem"
	"github.com/optakt/nem-adapter/service/storage"
)

// Reader provides read access to the on-disk index of operations, expiry
// deadlines, observed addresses and assets.
type Reader struct {
	db  *badger.DB
	lib *storage.Library
}

// NewReader creates a new index reader using the given database and
// storage library.
func NewReader(db *badger.DB, lib *storage.Library) *Reader {

	r := Reader{
		db:  db,
		lib: lib,
	}

	return &r
}

// Operation returns the operation record with the given identifier, or
// nem.ErrNotFound when no such record exists.
func (r *Reader) Operation(operationID uuid.UUID) (*nem.Operation, error) {
	var operation nem.Operation
	err := r.db.View(r.lib.RetrieveOperation(operationID, &operation))
	if errors.Is(err, badger.ErrKeyNotFound) {
		return nil, nem.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &operation, nil
}

// OperationForTx returns the identifier of the operation that broadcast
// the transaction with the given hash.
func (r *Reader) OperationForTx(txID string) (uuid.UUID, error) {
	var operationID uuid.UUID
	err := r.db.View(r.lib.LookupOperationForTx(txID, &operationID))
	if errors.Is(err, badger.ErrKeyNotFound) {
		return uuid.Nil, nem.ErrNotFound
	}
	if err != nil {
		return uuid.Nil, err
	}
	return operationID, nil
}

// ExpiryRange returns all expiry index entries with a deadline in the
// half-open window (from, to].
func (r *Reader) ExpiryRange(from time.Time, to time.Time) ([]storage.ExpiryEntry, error) {
	var entries []storage.ExpiryEntry
	err := r.db.View(r.lib.ScanExpiryRange(from, to, &entries))
	if err != nil {
		return nil, err
	}
	return entries, nil
}

// IterateOperations steps through all operation records, calling the
// process callback for each one.
func (r *Reader) IterateOperations(process func(*nem.Operation) error) error {
	return r.db.View(r.lib.IterateOperations(process))
}

// IsObserved checks whether the given address is under balance observation.
func (r *Reader) IsObserved(address string) (bool, error) {
	var exists bool
	err := r.db.View(r.lib.HasObservedAddress(address, &exists))
	if err != nil {
		return false, err
	}
	return exists, nil
}

// ObservedAddresses returns one page of observed addresses along with the
// continuation token for the next page.
func (r *Reader) ObservedAddresses(take int, continuation string) ([]string, string, error) {
	addresses := []string{}
	var next string
	err := r.db.View(r.lib.ListObservedAddresses(take, continuation, &addresses, &next))
	if err != nil {
		return nil, "", err
	}
	return addresses, next, nil
}

// Asset returns the asset record with the given identifier, or
// nem.ErrNotFound when the asset is unknown.
func (r *Reader) Asset(assetID string) (*nem.Asset, error) {
	var asset nem.Asset
	err := r.db.View(r.lib.RetrieveAsset(assetID, &asset))
	if errors.Is(err, badger.ErrKeyNotFound) {
		return nil, nem.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &asset, nil
}

// Assets returns one page of asset records along with the continuation
// token for the next page.
func (r *Reader) Assets(take int, continuation string) ([]nem.Asset, string, error) {
	assets := []nem.Asset{}
	var next string
	err := r.db.View(r.lib.ListAssets(take, continuation, &assets, &next))
	if err != nil {
		return nil, "", err
	}
	return assets, next, nil
}
