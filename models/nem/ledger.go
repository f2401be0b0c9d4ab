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

package nem

import (
	"context"
	"time"
)

// Announce result codes as returned by the NEM node.
// See https://nemproject.github.io/#nemRequestResult for their meaning.
const (
	AnnounceCodeNeutral             = 0
	AnnounceCodeSuccess             = 1
	AnnounceCodePastDeadline        = 3
	AnnounceCodeInsufficientBalance = 5
	AnnounceCodeHashExists          = 7
	AnnounceCodeTimestampTooFar     = 9
)

// Mosaic is an asset identifier paired with an amount in base units.
type Mosaic struct {
	AssetID string
	Amount  uint64
}

// Transfer is the skeleton of a single-recipient transfer, used to query
// the node's fee schedule before the transaction is signed.
type Transfer struct {
	To       string
	Mosaic   Mosaic
	Message  string
	Deadline time.Time
}

// Fee is the node's fee quote for a transfer: the network fee in base units
// of the native asset, plus any mosaic levies charged on top of it.
type Fee struct {
	Fee    uint64
	Levies []Mosaic
}

// SignedTransaction is a serialized transaction with its signature bundle,
// produced off-band by the signer and handed to the adapter for broadcast.
// All byte fields are hex-encoded.
type SignedTransaction struct {
	Payload   string `json:"payload"`
	Signature string `json:"signature"`
	Hash      string `json:"hash"`
	Signer    string `json:"signer"`
	Type      int    `json:"type"`
}

// AnnounceResult is the node's response to a transaction announcement.
type AnnounceResult struct {
	Code    int
	Message string
	TxHash  string
}

// TransactionInfo describes a transfer as seen by the ledger. A height of
// zero means the transaction is known but not yet included in a block.
type TransactionInfo struct {
	Hash      string
	Height    uint64
	Timestamp time.Time
	Signer    string
	Recipient string
	Mosaics   []Mosaic
}

// Block is the subset of block data the adapter needs.
type Block struct {
	Height    uint64
	Timestamp time.Time
}

// Ledger is the NEM node client. Implementations are expected to be safe
// for concurrent use; all calls are network-bound and honor the context.
type Ledger interface {
	Height(ctx context.Context) (uint64, error)
	Balances(ctx context.Context, address string) ([]Mosaic, error)
	FeeSchedule(ctx context.Context, transfer Transfer) (Fee, error)
	Announce(ctx context.Context, signed SignedTransaction) (AnnounceResult, error)
	TransactionByHash(ctx context.Context, hash string) (*TransactionInfo, error)
	BlockByHeight(ctx context.Context, height uint64) (Block, error)
}
