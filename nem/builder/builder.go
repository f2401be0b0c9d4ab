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

package builder

import (
	"context"
	"errors"
	"fmt"
	"math"
	"time"

	"github.com/google/uuid"

	"github.com/optakt/nem-adapter/models/nem"
	"github.com/optakt/nem-adapter/nem/failure"
)

// Divisibility of the native XEM mosaic, used to render the fee as a
// display amount.
const nativeAccuracy = 6

// Catalog resolves asset identifiers to their metadata.
type Catalog interface {
	Lookup(assetID string) (*nem.Asset, error)
}

// OperationReader reads operation records from the on-disk index.
type OperationReader interface {
	Operation(operationID uuid.UUID) (*nem.Operation, error)
}

// OperationWriter persists built operation skeletons.
type OperationWriter interface {
	Built(operation *nem.Operation) error
}

// Request carries the parameters of a single-transfer build call. The
// operation identifier is the caller-supplied idempotency key.
type Request struct {
	OperationID uuid.UUID
	FromAddress string
	ToAddress   string
	AssetID     string
	Amount      string
	IncludeFee  bool
}

// Context is the signable context handed back to the caller. It contains
// everything the off-band signer needs and nothing else; in particular, no
// key material ever passes through the adapter.
type Context struct {
	OperationID uuid.UUID `json:"operationId"`
	To          string    `json:"to"`
	Message     string    `json:"message,omitempty"`
	AssetID     string    `json:"assetId"`
	Amount      uint64    `json:"amount"`
	Fee         uint64    `json:"fee"`
	FeeDecimal  string    `json:"feeDecimal"`
	Deadline    time.Time `json:"deadline"`
	Network     string    `json:"network"`
}

// Builder turns transfer requests into signable transaction skeletons,
// validating fees and balances against the live ledger state.
type Builder struct {
	params  nem.Params
	catalog Catalog
	ledger  nem.Ledger
	read    OperationReader
	write   OperationWriter
}

// New creates a new transaction builder with the given collaborators.
func New(params nem.Params, catalog Catalog, ledger nem.Ledger, read OperationReader, write OperationWriter) *Builder {

	b := Builder{
		params:  params,
		catalog: catalog,
		ledger:  ledger,
		read:    read,
		write:   write,
	}

	return &b
}

// Build validates the requested transfer, computes its fee and persists
// the operation skeleton. Rebuilding an operation that has not been sent
// overwrites the skeleton; once the operation was broadcast the build is
// rejected, as a changed skeleton could no longer match the signed payload.
func (b *Builder) Build(ctx context.Context, req Request) (*Context, error) {

	if !nem.ValidAddress(req.FromAddress) {
		return nil, failure.InvalidAddress{
			Description: failure.NewDescription("sender address is not a valid NEM address",
				failure.WithString("address", req.FromAddress),
			),
			Address: req.FromAddress,
		}
	}
	if !nem.ValidAddress(req.ToAddress) {
		return nil, failure.InvalidAddress{
			Description: failure.NewDescription("receiver address is not a valid NEM address",
				failure.WithString("address", req.ToAddress),
			),
			Address: req.ToAddress,
		}
	}

	asset, err := b.catalog.Lookup(req.AssetID)
	if err != nil {
		return nil, err
	}

	amount, err := asset.ToBaseUnit(req.Amount)
	if err != nil {
		return nil, failure.InvalidAmount{
			Description: failure.NewDescription("amount does not parse to base units",
				failure.WithString("amount", req.Amount),
				failure.WithErr(err),
			),
			Amount: req.Amount,
		}
	}
	if amount == 0 {
		return nil, failure.InvalidAmount{
			Description: failure.NewDescription("amount must be positive",
				failure.WithString("amount", req.Amount),
			),
			Amount: req.Amount,
		}
	}

	// Rebuilding before the first broadcast is allowed and simply
	// overwrites the skeleton; after a broadcast it must be rejected.
	existing, err := b.read.Operation(req.OperationID)
	if err != nil && !errors.Is(err, nem.ErrNotFound) {
		return nil, fmt.Errorf("could not check for existing operation: %w", err)
	}
	if existing != nil && existing.IsSent() {
		return nil, failure.AlreadySent{
			Description: failure.NewDescription("operation was already broadcast",
				failure.WithID("operation", req.OperationID),
			),
			OperationID: req.OperationID,
		}
	}

	deadline := time.Now().UTC().Add(b.params.ExpiryWindow)
	transfer := nem.Transfer{
		To:       nem.PlainAddress(req.ToAddress),
		Mosaic:   nem.Mosaic{AssetID: asset.ID, Amount: amount},
		Message:  nem.AddressMessage(req.ToAddress),
		Deadline: deadline,
	}

	fee, err := b.ledger.FeeSchedule(ctx, transfer)
	if err != nil {
		return nil, fmt.Errorf("could not get fee schedule: %w", err)
	}

	// When the caller wants the fee taken out of the transferred amount,
	// the deduction only applies to charges denominated in the transferred
	// asset itself. The subtraction is checked explicitly; a fee larger
	// than the amount is a normal input.
	if req.IncludeFee {
		if asset.ID == b.params.NativeAsset {
			if amount <= fee.Fee {
				return nil, failure.AmountTooSmall{
					Description: failure.NewDescription("amount is less than fee",
						failure.WithUint64("amount", amount),
						failure.WithUint64("fee", fee.Fee),
					),
					Amount: amount,
					Fee:    fee.Fee,
				}
			}
			amount -= fee.Fee
		}
		for _, levy := range fee.Levies {
			if levy.AssetID != asset.ID {
				continue
			}
			if amount <= levy.Amount {
				return nil, failure.AmountTooSmall{
					Description: failure.NewDescription("amount is less than levy",
						failure.WithUint64("amount", amount),
						failure.WithUint64("levy", levy.Amount),
					),
					Amount: amount,
					Fee:    levy.Amount,
				}
			}
			amount -= levy.Amount
		}
	}

	// Sum up the per-asset requirements: the network fee in the native
	// asset, the levies and the transfer amount itself, merged whenever
	// they share an asset. The additions are checked like the fee
	// deduction above; a sum past the base unit range can never be
	// covered by any balance.
	required := make(map[string]uint64)
	required[b.params.NativeAsset] = fee.Fee
	charges := append([]nem.Mosaic{{AssetID: asset.ID, Amount: amount}}, fee.Levies...)
	for _, charge := range charges {
		have := required[charge.AssetID]
		if charge.Amount > math.MaxUint64-have {
			return nil, failure.NotEnoughBalance{
				Description: failure.NewDescription("total requirement overflows base unit range",
					failure.WithString("asset", charge.AssetID),
				),
				AssetID:  charge.AssetID,
				Required: math.MaxUint64,
			}
		}
		required[charge.AssetID] = have + charge.Amount
	}

	balances, err := b.ledger.Balances(ctx, nem.PlainAddress(req.FromAddress))
	if err != nil {
		return nil, fmt.Errorf("could not get balances: %w", err)
	}
	owned := make(map[string]uint64)
	for _, balance := range balances {
		owned[balance.AssetID] += balance.Amount
	}
	for assetID, need := range required {
		if owned[assetID] < need {
			return nil, failure.NotEnoughBalance{
				Description: failure.NewDescription("sender balance does not cover requirement",
					failure.WithString("asset", assetID),
					failure.WithUint64("required", need),
					failure.WithUint64("owned", owned[assetID]),
				),
				AssetID:  assetID,
				Required: need,
				Owned:    owned[assetID],
			}
		}
	}

	feeDecimal := nem.Asset{Accuracy: nativeAccuracy}.FromBaseUnit(fee.Fee)
	operation := nem.Operation{
		ID:          req.OperationID,
		FromAddress: req.FromAddress,
		ToAddress:   req.ToAddress,
		AssetID:     asset.ID,
		AmountBase:  amount,
		Amount:      asset.FromBaseUnit(amount),
		FeeBase:     fee.Fee,
		Fee:         feeDecimal,
		IncludeFee:  req.IncludeFee,
		BuildTime:   time.Now().UTC(),
	}

	err = b.write.Built(&operation)
	if errors.Is(err, nem.ErrAlreadySent) {
		return nil, failure.AlreadySent{
			Description: failure.NewDescription("operation was already broadcast",
				failure.WithID("operation", req.OperationID),
			),
			OperationID: req.OperationID,
		}
	}
	if err != nil {
		return nil, fmt.Errorf("could not persist operation: %w", err)
	}

	sign := Context{
		OperationID: req.OperationID,
		To:          transfer.To,
		Message:     transfer.Message,
		AssetID:     asset.ID,
		Amount:      amount,
		Fee:         fee.Fee,
		FeeDecimal:  feeDecimal,
		Deadline:    deadline,
		Network:     b.params.Network,
	}

	return &sign, nil
}
