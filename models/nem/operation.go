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
	"time"

	"github.com/google/uuid"
)

// Operation is the durable record of one client-intended transfer. The
// operation identifier is chosen by the caller and acts as the idempotency
// key for the whole build/sign/broadcast sequence. Lifecycle timestamps are
// set at most once; a nil pointer means the operation has not reached that
// stage yet.
type Operation struct {
	ID          uuid.UUID
	FromAddress string
	ToAddress   string
	AssetID     string

	AmountBase uint64
	Amount     string
	FeeBase    uint64
	Fee        string
	IncludeFee bool

	BuildTime      time.Time
	SendTime       *time.Time
	ExpiryTime     *time.Time
	BlockTime      *time.Time
	CompletionTime *time.Time
	FailTime       *time.Time
	DeleteTime     *time.Time

	TxID  string
	Block uint64
	Error string
}

// IsSent returns true once a broadcast attempt has been committed for the
// operation. It does not imply the transfer was confirmed.
func (o *Operation) IsSent() bool {
	return o.SendTime != nil
}

// IsFinal returns true once the operation has reached one of its mutually
// exclusive terminal states.
func (o *Operation) IsFinal() bool {
	return o.CompletionTime != nil || o.FailTime != nil || o.DeleteTime != nil
}

// Action is one signed ledger entry derived from a confirmed transfer. A
// completed operation yields a pair of actions per transferred asset, a
// negative one for the sender and a positive one for the receiver, sharing
// the same deterministic action identifier.
type Action struct {
	ID      string
	Block   uint64
	Time    time.Time
	TxID    string
	Address string
	AssetID string
	Amount  string
}
