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

package failure

import (
	"fmt"

	"github.com/google/uuid"
)

// InvalidAddress is a validation failure for a malformed ledger address.
type InvalidAddress struct {
	Description Description
	Address     string
}

func (i InvalidAddress) Error() string {
	return fmt.Sprintf("invalid address: %s", i.Description)
}

// UnknownAsset is a validation failure for an asset identifier that does
// not resolve in the asset catalog.
type UnknownAsset struct {
	Description Description
	AssetID     string
}

func (u UnknownAsset) Error() string {
	return fmt.Sprintf("unknown asset: %s", u.Description)
}

// InvalidAmount is a validation failure for an amount that does not parse
// to a positive integer in base units.
type InvalidAmount struct {
	Description Description
	Amount      string
}

func (i InvalidAmount) Error() string {
	return fmt.Sprintf("invalid amount: %s", i.Description)
}

// AmountTooSmall indicates that deducting the fee from the requested
// amount would leave nothing to transfer. This is an expected input, not
// a bug; the caller should retry with a larger amount.
type AmountTooSmall struct {
	Description Description
	Amount      uint64
	Fee         uint64
}

func (a AmountTooSmall) Error() string {
	return fmt.Sprintf("amount is too small: %s", a.Description)
}

// NotEnoughBalance indicates that the sender's on-chain balance does not
// cover one of the assets required for the transfer.
type NotEnoughBalance struct {
	Description Description
	AssetID     string
	Required    uint64
	Owned       uint64
}

func (n NotEnoughBalance) Error() string {
	return fmt.Sprintf("not enough balance: %s", n.Description)
}

// AlreadySent is a conflict failure: the operation was already broadcast,
// so rebuilding it is not allowed.
type AlreadySent struct {
	Description Description
	OperationID uuid.UUID
}

func (a AlreadySent) Error() string {
	return fmt.Sprintf("operation already sent: %s", a.Description)
}

// AlreadyBroadcast is a conflict failure: a broadcast was already
// committed for the operation, so a second one is rejected.
type AlreadyBroadcast struct {
	Description Description
	OperationID uuid.UUID
}

func (a AlreadyBroadcast) Error() string {
	return fmt.Sprintf("operation already broadcast: %s", a.Description)
}

// InvalidPayload is a validation failure for a signed payload that does
// not deserialize into a ledger-native signed transaction.
type InvalidPayload struct {
	Description Description
}

func (i InvalidPayload) Error() string {
	return fmt.Sprintf("invalid signed transaction: %s", i.Description)
}

// RebuildRequired indicates that the signed payload can no longer be
// announced, typically because its deadline passed. The caller must build
// and sign a fresh transaction rather than resend the same payload.
type RebuildRequired struct {
	Description Description
	OperationID uuid.UUID
}

func (r RebuildRequired) Error() string {
	return fmt.Sprintf("transaction must be rebuilt: %s", r.Description)
}

// UnknownOperation is a validation failure: a broadcast or status query
// referenced an operation that was never built.
type UnknownOperation struct {
	Description Description
	OperationID uuid.UUID
}

func (u UnknownOperation) Error() string {
	return fmt.Sprintf("unknown operation: %s", u.Description)
}

// AddressObserved is a conflict failure: the address is already under
// balance observation.
type AddressObserved struct {
	Description Description
	Address     string
}

func (a AddressObserved) Error() string {
	return fmt.Sprintf("address already observed: %s", a.Description)
}

// FatalAnnounce is an unexpected node response to a transaction
// announcement, surfaced verbatim and never retried automatically.
type FatalAnnounce struct {
	Description Description
	Code        int
	Message     string
}

func (f FatalAnnounce) Error() string {
	return fmt.Sprintf("announce failed: %s", f.Description)
}
