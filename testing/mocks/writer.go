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

type Writer struct {
	BuiltFunc        func(operation *nem.Operation) error
	ClaimedFunc      func(operationID uuid.UUID, sendTime time.Time, expiry time.Time) error
	UnclaimedFunc    func(operationID uuid.UUID, expiry time.Time) error
	AnnouncedFunc    func(operationID uuid.UUID, txID string) error
	CompletedFunc    func(operationID uuid.UUID, block uint64, blockTime time.Time) error
	FailedFunc       func(operationID uuid.UUID, reason string) error
	DeletedFunc      func(operationID uuid.UUID) error
	RemoveExpiryFunc func(entry storage.ExpiryEntry) error
	IndexExpiryFunc  func(expiry time.Time, operationID uuid.UUID) error
	ObservedFunc     func(address string) error
	UnobservedFunc   func(address string) error
	AssetFunc        func(asset *nem.Asset) error
}

func BaselineWriter(t *testing.T) *Writer {
	t.Helper()

	w := Writer{
		BuiltFunc: func(*nem.Operation) error {
			return nil
		},
		ClaimedFunc: func(uuid.UUID, time.Time, time.Time) error {
			return nil
		},
		UnclaimedFunc: func(uuid.UUID, time.Time) error {
			return nil
		},
		AnnouncedFunc: func(uuid.UUID, string) error {
			return nil
		},
		CompletedFunc: func(uuid.UUID, uint64, time.Time) error {
			return nil
		},
		FailedFunc: func(uuid.UUID, string) error {
			return nil
		},
		DeletedFunc: func(uuid.UUID) error {
			return nil
		},
		RemoveExpiryFunc: func(storage.ExpiryEntry) error {
			return nil
		},
		IndexExpiryFunc: func(time.Time, uuid.UUID) error {
			return nil
		},
		ObservedFunc: func(string) error {
			return nil
		},
		UnobservedFunc: func(string) error {
			return nil
		},
		AssetFunc: func(*nem.Asset) error {
			return nil
		},
	}

	return &w
}

func (w *Writer) Built(operation *nem.Operation) error {
	return w.BuiltFunc(operation)
}

func (w *Writer) Claimed(operationID uuid.UUID, sendTime time.Time, expiry time.Time) error {
	return w.ClaimedFunc(operationID, sendTime, expiry)
}

func (w *Writer) Unclaimed(operationID uuid.UUID, expiry time.Time) error {
	return w.UnclaimedFunc(operationID, expiry)
}

func (w *Writer) Announced(operationID uuid.UUID, txID string) error {
	return w.AnnouncedFunc(operationID, txID)
}

func (w *Writer) Completed(operationID uuid.UUID, block uint64, blockTime time.Time) error {
	return w.CompletedFunc(operationID, block, blockTime)
}

func (w *Writer) Failed(operationID uuid.UUID, reason string) error {
	return w.FailedFunc(operationID, reason)
}

func (w *Writer) Deleted(operationID uuid.UUID) error {
	return w.DeletedFunc(operationID)
}

func (w *Writer) RemoveExpiry(entry storage.ExpiryEntry) error {
	return w.RemoveExpiryFunc(entry)
}

func (w *Writer) IndexExpiry(expiry time.Time, operationID uuid.UUID) error {
	return w.IndexExpiryFunc(expiry, operationID)
}

func (w *Writer) Observed(address string) error {
	return w.ObservedFunc(address)
}

func (w *Writer) Unobserved(address string) error {
	return w.UnobservedFunc(address)
}

func (w *Writer) Asset(asset *nem.Asset) error {
	return w.AssetFunc(asset)
}
