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
	"errors"
	"time"

	"github.com/google/uuid"

	"github.com/optakt/nem-adapter/models/nem"
)

// GenericError is used when not testing for a specific error.
var GenericError = errors.New("dummy error")

// Generic fixtures shared between component tests.
var (
	GenericOperationID = uuid.MustParse("b0a30e31-4a9f-4653-be1f-9b29e5b52b49")

	GenericSender    = "TALICE2GMA34CXHD7XLJQ536NM5UNKQHTORNNT2J"
	GenericRecipient = "TBOBBY2GMA34CXHD7XLJQ536NM5UNKQHTPHDRNCM"

	GenericBuildTime = time.Date(2021, 11, 3, 11, 0, 0, 0, time.UTC)
	GenericSendTime  = time.Date(2021, 11, 3, 12, 0, 0, 0, time.UTC)
	GenericExpiry    = time.Date(2021, 11, 3, 14, 0, 0, 0, time.UTC)
	GenericBlockTime = time.Date(2021, 11, 3, 12, 10, 0, 0, time.UTC)

	GenericTxHash = "2c2b2e8b8b0a7d2f0d5a5f8e6a2e4c9d1b3f5a7c9e1d3b5f7a9c1e3d5b7f9a1c"
)

// GenericParams returns the network parameters used by component tests.
func GenericParams() nem.Params {
	return nem.Params{
		Network:       "testnet",
		NativeAsset:   nem.XEM,
		Confirmations: 6,
		ExpiryWindow:  2 * time.Hour,
		ExplorerURL:   "http://explorer.nemtool.com/#/s_account?account=%s",
	}
}

// GenericAsset returns the native asset definition used by component
// tests.
func GenericAsset() *nem.Asset {
	return &nem.Asset{
		ID:       nem.XEM,
		Name:     "XEM",
		Accuracy: 6,
	}
}

// GenericOperation returns an operation skeleton as the builder would
// persist it.
func GenericOperation() *nem.Operation {
	return &nem.Operation{
		ID:          GenericOperationID,
		FromAddress: GenericSender,
		ToAddress:   GenericRecipient,
		AssetID:     nem.XEM,
		AmountBase:  10_000_000,
		Amount:      "10",
		FeeBase:     50_000,
		Fee:         "0.05",
		BuildTime:   GenericBuildTime,
	}
}

// GenericSentOperation returns an operation that was claimed and
// announced.
func GenericSentOperation() *nem.Operation {
	operation := GenericOperation()
	sendTime := GenericSendTime
	expiry := GenericExpiry
	operation.SendTime = &sendTime
	operation.ExpiryTime = &expiry
	operation.TxID = GenericTxHash
	return operation
}
