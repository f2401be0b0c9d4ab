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

package storage

import (
	"bytes"
	"encoding/base64"
	"encoding/binary"
	"errors"
	"fmt"
	"time"

	"github.com/dgraph-io/badger/v2"
	"github.com/google/uuid"

	"github.com/optakt/nem-adapter/models/nem"
)

// ErrInvalidToken indicates a continuation token that was not produced by
// a previous scan over the same key space.
var ErrInvalidToken = errors.New("invalid continuation token")

// ExpiryEntry is one record of the expiry index: the deadline of a sent
// operation paired with the operation identifier.
type ExpiryEntry struct {
	Expiry      time.Time
	OperationID uuid.UUID
}

// SaveOperation is an operation that writes the full operation record,
// overwriting any previous version.
func (l *Library) SaveOperation(operation *nem.Operation) func(*badger.Txn) error {
	return l.save(EncodeKey(PrefixOperation, operation.ID), operation)
}

// RetrieveOperation retrieves the operation record with the given identifier.
func (l *Library) RetrieveOperation(operationID uuid.UUID, operation *nem.Operation) func(*badger.Txn) error {
	return l.retrieve(EncodeKey(PrefixOperation, operationID), operation)
}

// MergeOperation reads the operation record with the given identifier,
// applies the merge function to it and writes the result back, all within
// the same transaction. Badger's conflict detection on the key makes this
// the single-writer commit point for lifecycle transitions.
func (l *Library) MergeOperation(operationID uuid.UUID, merge func(*nem.Operation) error) func(*badger.Txn) error {
	return func(tx *badger.Txn) error {
		var operation nem.Operation
		err := l.retrieve(EncodeKey(PrefixOperation, operationID), &operation)(tx)
		if err != nil {
			return err
		}
		err = merge(&operation)
		if err != nil {
			return err
		}
		return l.save(EncodeKey(PrefixOperation, operationID), &operation)(tx)
	}
}

// IterateOperations steps through all operation records and calls the
// given callback for each of them. Used by the reconciliation audit pass.
func (l *Library) IterateOperations(process func(*nem.Operation) error) func(*badger.Txn) error {
	prefix := EncodeKey(PrefixOperation)
	return func(tx *badger.Txn) error {
		opts := badger.DefaultIteratorOptions
		opts.Prefix = prefix

		it := tx.NewIterator(opts)
		defer it.Close()

		for it.Seek(prefix); it.ValidForPrefix(prefix); it.Next() {
			var operation nem.Operation
			err := it.Item().Value(func(val []byte) error {
				return l.codec.Unmarshal(val, &operation)
			})
			if err != nil {
				return fmt.Errorf("could not decode operation: %w", err)
			}
			err = process(&operation)
			if err != nil {
				return err
			}
		}

		return nil
	}
}

// IndexOperationForExpiry is an operation that writes the expiry index
// entry for the given deadline and operation identifier.
func (l *Library) IndexOperationForExpiry(expiry time.Time, operationID uuid.UUID) func(*badger.Txn) error {
	return l.save(EncodeKey(PrefixExpiry, expiry, operationID), operationID)
}

// RemoveExpiryEntry is an operation that deletes the expiry index entry
// for the given deadline and operation identifier.
func (l *Library) RemoveExpiryEntry(expiry time.Time, operationID uuid.UUID) func(*badger.Txn) error {
	return remove(EncodeKey(PrefixExpiry, expiry, operationID))
}

// ScanExpiryRange retrieves all expiry index entries with a deadline in
// the half-open window (from, to]. Keys are ordered by deadline, so the
// scan seeks just past the window start and stops at the first entry
// beyond the window end. A window start before the Unix epoch, such as
// the zero time on the first sweep after a restart, scans from the
// beginning of the index.
func (l *Library) ScanExpiryRange(from time.Time, to time.Time, entries *[]ExpiryEntry) func(*badger.Txn) error {
	prefix := EncodeKey(PrefixExpiry)
	return func(tx *badger.Txn) error {
		opts := badger.DefaultIteratorOptions
		opts.Prefix = prefix

		it := tx.NewIterator(opts)
		defer it.Close()

		var startNanos uint64
		if nanos := from.UTC().UnixNano(); nanos >= 0 {
			startNanos = uint64(nanos) + 1
		}
		start := EncodeKey(PrefixExpiry, startNanos)
		for it.Seek(start); it.ValidForPrefix(prefix); it.Next() {
			key := it.Item().Key()
			if len(key) != 1+8+16 {
				return fmt.Errorf("invalid expiry index key (key: %x)", key)
			}

			nanos := binary.BigEndian.Uint64(key[1:9])
			expiry := time.Unix(0, int64(nanos)).UTC()
			if expiry.After(to) {
				break
			}

			var operationID uuid.UUID
			copy(operationID[:], key[9:])
			*entries = append(*entries, ExpiryEntry{
				Expiry:      expiry,
				OperationID: operationID,
			})
		}

		return nil
	}
}

// IndexOperationForTx is an operation that indexes the operation
// identifier under the hash of its broadcast transaction.
func (l *Library) IndexOperationForTx(txID string, operationID uuid.UUID) func(*badger.Txn) error {
	return l.save(EncodeKey(PrefixTx, txID), operationID)
}

// LookupOperationForTx retrieves the identifier of the operation that
// produced the transaction with the given hash.
func (l *Library) LookupOperationForTx(txID string, operationID *uuid.UUID) func(*badger.Txn) error {
	return l.retrieve(EncodeKey(PrefixTx, txID), operationID)
}

// SaveObservedAddress is an operation that adds the given address to the
// balance observation set.
func (l *Library) SaveObservedAddress(address string) func(*badger.Txn) error {
	return l.save(EncodeKey(PrefixObserved, address), address)
}

// RemoveObservedAddress is an operation that removes the given address
// from the balance observation set.
func (l *Library) RemoveObservedAddress(address string) func(*badger.Txn) error {
	return remove(EncodeKey(PrefixObserved, address))
}

// HasObservedAddress checks whether the given address is part of the
// balance observation set.
func (l *Library) HasObservedAddress(address string, exists *bool) func(*badger.Txn) error {
	return func(tx *badger.Txn) error {
		_, err := tx.Get(EncodeKey(PrefixObserved, address))
		if errors.Is(err, badger.ErrKeyNotFound) {
			*exists = false
			return nil
		}
		if err != nil {
			return fmt.Errorf("could not get observed address (address: %s): %w", address, err)
		}
		*exists = true
		return nil
	}
}

// ListObservedAddresses retrieves one page of observed addresses, starting
// after the position encoded in the continuation token.
func (l *Library) ListObservedAddresses(take int, continuation string, addresses *[]string, next *string) func(*badger.Txn) error {
	return l.page(PrefixObserved, take, continuation, next, func(val []byte) error {
		var address string
		err := l.codec.Unmarshal(val, &address)
		if err != nil {
			return err
		}
		*addresses = append(*addresses, address)
		return nil
	})
}

// SaveAsset is an operation that writes the given asset record.
func (l *Library) SaveAsset(asset *nem.Asset) func(*badger.Txn) error {
	return l.save(EncodeKey(PrefixAsset, asset.ID), asset)
}

// RetrieveAsset retrieves the asset record with the given identifier.
func (l *Library) RetrieveAsset(assetID string, asset *nem.Asset) func(*badger.Txn) error {
	return l.retrieve(EncodeKey(PrefixAsset, assetID), asset)
}

// ListAssets retrieves one page of asset records, starting after the
// position encoded in the continuation token.
func (l *Library) ListAssets(take int, continuation string, assets *[]nem.Asset, next *string) func(*badger.Txn) error {
	return l.page(PrefixAsset, take, continuation, next, func(val []byte) error {
		var asset nem.Asset
		err := l.codec.Unmarshal(val, &asset)
		if err != nil {
			return err
		}
		*assets = append(*assets, asset)
		return nil
	})
}

// page iterates one page of values under the given prefix. The
// continuation token is the opaque encoding of the last key of the
// previous page; an empty next token means the scan is exhausted.
func (l *Library) page(prefix uint8, take int, continuation string, next *string, process func(val []byte) error) func(*badger.Txn) error {
	return func(tx *badger.Txn) error {
		start := EncodeKey(prefix)
		resume, err := decodeToken(prefix, continuation)
		if err != nil {
			return err
		}

		opts := badger.DefaultIteratorOptions
		opts.Prefix = EncodeKey(prefix)

		it := tx.NewIterator(opts)
		defer it.Close()

		if resume != nil {
			start = resume
		}

		count := 0
		var last []byte
		for it.Seek(start); it.ValidForPrefix(opts.Prefix); it.Next() {
			key := it.Item().KeyCopy(nil)

			// The token points at the last key already returned, so the
			// resumed scan skips it.
			if resume != nil && bytes.Equal(key, resume) {
				continue
			}
			if count >= take {
				*next = encodeToken(last)
				return nil
			}

			err := it.Item().Value(process)
			if err != nil {
				return fmt.Errorf("could not decode value (key: %x): %w", key, err)
			}
			last = key
			count++
		}

		*next = ""
		return nil
	}
}

func encodeToken(key []byte) string {
	return base64.RawURLEncoding.EncodeToString(key)
}

func decodeToken(prefix uint8, token string) ([]byte, error) {
	if token == "" {
		return nil, nil
	}
	key, err := base64.RawURLEncoding.DecodeString(token)
	if err != nil {
		return nil, fmt.Errorf("%w: %s", ErrInvalidToken, token)
	}
	if len(key) < 2 || key[0] != prefix {
		return nil, fmt.Errorf("%w: %s", ErrInvalidToken, token)
	}
	return key, nil
}
