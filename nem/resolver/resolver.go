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

package resolver

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/OneOfOne/xxhash"
	"github.com/google/uuid"

	"github.com/optakt/nem-adapter/models/nem"
	"github.com/optakt/nem-adapter/nem/failure"
)

// Reason recorded on operations that expire without a confirmation.
const ReasonExpired = "transaction expired"

// State of an operation as seen by the resolver.
type State int

const (
	StateInProgress State = iota + 1
	StateCompleted
	StateFailed
)

// Status is the resolved outcome of an operation.
type Status struct {
	State     State
	Block     uint64
	BlockTime time.Time
	Actions   []nem.Action
	Reason    string
}

// OperationReader reads operation records from the on-disk index.
type OperationReader interface {
	Operation(operationID uuid.UUID) (*nem.Operation, error)
}

// OperationWriter commits terminal lifecycle transitions.
type OperationWriter interface {
	Completed(operationID uuid.UUID, block uint64, blockTime time.Time) error
	Failed(operationID uuid.UUID, reason string) error
}

// Catalog resolves asset identifiers to their metadata.
type Catalog interface {
	Lookup(assetID string) (*nem.Asset, error)
}

// Resolver determines the outcome of sent operations by observing the
// ledger. Resolving an operation that already reached a terminal state is
// a no-op and reproduces the stored outcome.
type Resolver struct {
	params  nem.Params
	ledger  nem.Ledger
	catalog Catalog
	read    OperationReader
	write   OperationWriter
}

// New creates a new confirmation resolver with the given collaborators.
func New(params nem.Params, ledger nem.Ledger, catalog Catalog, read OperationReader, write OperationWriter) *Resolver {

	r := Resolver{
		params:  params,
		ledger:  ledger,
		catalog: catalog,
		read:    read,
		write:   write,
	}

	return &r
}

// Resolve determines and persists the outcome of the given operation. A
// transaction that is included in a block is only treated as confirmed
// once the configured confirmation depth has built on top of it; below
// that depth the operation stays in progress, even when its deadline has
// already passed. Only an operation whose transaction cannot be found at
// all past its deadline fails as expired.
func (r *Resolver) Resolve(ctx context.Context, operationID uuid.UUID) (*Status, error) {

	operation, err := r.read.Operation(operationID)
	if errors.Is(err, nem.ErrNotFound) {
		return nil, failure.UnknownOperation{
			Description: failure.NewDescription("operation was never built",
				failure.WithID("operation", operationID),
			),
			OperationID: operationID,
		}
	}
	if err != nil {
		return nil, fmt.Errorf("could not read operation: %w", err)
	}

	// Terminal states never transition again; reproduce the stored
	// outcome so repeated resolution is idempotent.
	if operation.CompletionTime != nil {
		actions, err := r.actions(operation, operation.AmountBase)
		if err != nil {
			return nil, err
		}
		status := Status{
			State:     StateCompleted,
			Block:     operation.Block,
			BlockTime: timeOrZero(operation.BlockTime),
			Actions:   actions,
		}
		return &status, nil
	}
	if operation.FailTime != nil {
		return &Status{State: StateFailed, Reason: operation.Error}, nil
	}
	if operation.DeleteTime != nil {
		return &Status{State: StateFailed, Reason: "operation deleted"}, nil
	}

	if !operation.IsSent() {
		return &Status{State: StateInProgress}, nil
	}

	// A claimed operation without a transaction hash means the announce
	// outcome was unknown; only the expiry deadline can settle it.
	if operation.TxID != "" {
		tx, err := r.ledger.TransactionByHash(ctx, operation.TxID)
		if err != nil {
			return nil, fmt.Errorf("could not look up transaction: %w", err)
		}
		if tx != nil && tx.Height > 0 {
			height, err := r.ledger.Height(ctx)
			if err != nil {
				return nil, fmt.Errorf("could not get ledger height: %w", err)
			}
			if height < tx.Height+r.params.Confirmations {
				return &Status{State: StateInProgress}, nil
			}

			err = r.write.Completed(operationID, tx.Height, tx.Timestamp)
			if err != nil {
				return nil, fmt.Errorf("could not record completion: %w", err)
			}

			operation.Block = tx.Height
			operation.BlockTime = &tx.Timestamp

			amount := operation.AmountBase
			for _, mosaic := range tx.Mosaics {
				if mosaic.AssetID == operation.AssetID {
					amount = mosaic.Amount
					break
				}
			}
			actions, err := r.actions(operation, amount)
			if err != nil {
				return nil, err
			}
			status := Status{
				State:     StateCompleted,
				Block:     tx.Height,
				BlockTime: tx.Timestamp,
				Actions:   actions,
			}
			return &status, nil
		}
	}

	expired, err := r.pastExpiry(ctx, operation)
	if err != nil {
		return nil, err
	}
	if !expired {
		return &Status{State: StateInProgress}, nil
	}

	err = r.write.Failed(operationID, ReasonExpired)
	if err != nil {
		return nil, fmt.Errorf("could not record failure: %w", err)
	}

	return &Status{State: StateFailed, Reason: ReasonExpired}, nil
}

// pastExpiry compares the operation's deadline against the timestamp of
// the last block that already has the full confirmation depth on top of
// it, so a transaction is never expired while a block that could still
// contain it is within the reorg safety margin.
func (r *Resolver) pastExpiry(ctx context.Context, operation *nem.Operation) (bool, error) {

	if operation.ExpiryTime == nil {
		return false, nil
	}

	height, err := r.ledger.Height(ctx)
	if err != nil {
		return false, fmt.Errorf("could not get ledger height: %w", err)
	}
	if height <= r.params.Confirmations {
		return false, nil
	}

	confirmed, err := r.ledger.BlockByHeight(ctx, height-r.params.Confirmations)
	if err != nil {
		return false, fmt.Errorf("could not get confirmed block: %w", err)
	}

	return confirmed.Timestamp.After(*operation.ExpiryTime), nil
}

// actions derives the signed ledger-action pair for the transferred
// asset. The action identifier is a deterministic hash over the asset,
// the amount and the transaction hash, so repeated resolution produces
// identical identifiers.
func (r *Resolver) actions(operation *nem.Operation, amount uint64) ([]nem.Action, error) {

	asset, err := r.catalog.Lookup(operation.AssetID)
	if err != nil {
		return nil, err
	}

	actionID := fmt.Sprintf("%016x", xxhash.ChecksumString64(
		fmt.Sprintf("%s:%d:%s", operation.AssetID, amount, operation.TxID),
	))
	decimal := asset.FromBaseUnit(amount)
	blockTime := timeOrZero(operation.BlockTime)

	actions := []nem.Action{
		{
			ID:      actionID,
			Block:   operation.Block,
			Time:    blockTime,
			TxID:    operation.TxID,
			Address: operation.FromAddress,
			AssetID: operation.AssetID,
			Amount:  "-" + decimal,
		},
		{
			ID:      actionID,
			Block:   operation.Block,
			Time:    blockTime,
			TxID:    operation.TxID,
			Address: operation.ToAddress,
			AssetID: operation.AssetID,
			Amount:  decimal,
		},
	}

	return actions, nil
}

func timeOrZero(t *time.Time) time.Time {
	if t == nil {
		return time.Time{}
	}
	return *t
}
