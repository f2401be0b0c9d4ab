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

package mocks

import (
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/optakt/nem-adapter/models/nem"
	"github.com/optakt/nem-adapter/service/storage"
)

type Reader struct {
	OperationFunc         func(operationID uuid.UUID) (*nem.Operation, error)
	OperationForTxFunc    func(txID string) (uuid.UUID, error)
	ExpiryRangeFunc       func(from time.Time, to time.Time) ([]storage.ExpiryEntry, error)
	IterateOperationsFunc func(process func(*nem.Operation) error) error
	IsObservedFunc        func(address string) (bool, error)
	ObservedAddressesFunc func(take int, continuation string) ([]string, string, error)
	AssetFunc             func(assetID string) (*nem.Asset, error)
	AssetsFunc            func(take int, continuation string) ([]nem.Asset, string, error)
}

func BaselineReader(t *testing.T) *Reader {
	t.Helper()

	r := Reader{
		OperationFunc: func(uuid.UUID) (*nem.Operation, error) {
			return GenericOperation(), nil
		},
		OperationForTxFunc: func(string) (uuid.UUID, error) {
			return GenericOperationID, nil
		},
		ExpiryRangeFunc: func(time.Time, time.Time) ([]storage.ExpiryEntry, error) {
			return nil, nil
		},
		IterateOperationsFunc: func(func(*nem.Operation) error) error {
			return nil
		},
		IsObservedFunc: func(string) (bool, error) {
			return false, nil
		},
		ObservedAddressesFunc: func(int, string) ([]string, string, error) {
			return []string{GenericSender}, "", nil
		},
		AssetFunc: func(string) (*nem.Asset, error) {
			return GenericAsset(), nil
		},
		AssetsFunc: func(int, string) ([]nem.Asset, string, error) {
			return []nem.Asset{*GenericAsset()}, "", nil
		},
	}

	return &r
}

func (r *Reader) Operation(operationID uuid.UUID) (*nem.Operation, error) {
	return r.OperationFunc(operationID)
}

func (r *Reader) OperationForTx(txID string) (uuid.UUID, error) {
	return r.OperationForTxFunc(txID)
}

func (r *Reader) ExpiryRange(from time.Time, to time.Time) ([]storage.ExpiryEntry, error) {
	return r.ExpiryRangeFunc(from, to)
}

func (r *Reader) IterateOperations(process func(*nem.Operation) error) error {
	return r.IterateOperationsFunc(process)
}

func (r *Reader) IsObserved(address string) (bool, error) {
	return r.IsObservedFunc(address)
}

func (r *Reader) ObservedAddresses(take int, continuation string) ([]string, string, error) {
	return r.ObservedAddressesFunc(take, continuation)
}

func (r *Reader) Asset(assetID string) (*nem.Asset, error) {
	return r.AssetFunc(assetID)
}

func (r *Reader) Assets(take int, continuation string) ([]nem.Asset, string, error) {
	return r.AssetsFunc(take, continuation)
}
