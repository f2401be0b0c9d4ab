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

package broadcaster

import (
	"context"
	"encoding/base64"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/optakt/nem-adapter/models/nem"
	"github.com/optakt/nem-adapter/nem/failure"
)

// OperationReader reads operation records from the on-disk index.
type OperationReader interface {
	Operation(operationID uuid.UUID) (*nem.Operation, error)
}

// OperationWriter commits broadcast lifecycle transitions.
type OperationWriter interface {
	Claimed(operationID uuid.UUID, sendTime time.Time, expiry time.Time) error
	Unclaimed(operationID uuid.UUID, expiry time.Time) error
	Announced(operationID uuid.UUID, txID string) error
}

// Result describes an accepted broadcast.
type Result struct {
	TxID      string
	Expiry    time.Time
	Duplicate bool
}

// Broadcaster hands signed payloads to the ledger node and classifies the
// outcome. Its duplicate guard exists to prevent logically distinct
// double-sends; the ledger itself tolerates re-announcement of an
// identical payload.
type Broadcaster struct {
	log    zerolog.Logger
	params nem.Params
	ledger nem.Ledger
	read   OperationReader
	write  OperationWriter
}

// New creates a new broadcast coordinator with the given collaborators.
func New(log zerolog.Logger, params nem.Params, ledger nem.Ledger, read OperationReader, write OperationWriter) *Broadcaster {

	b := Broadcaster{
		log:    log.With().Str("component", "broadcaster").Logger(),
		params: params,
		ledger: ledger,
		read:   read,
		write:  write,
	}

	return &b
}

// Broadcast announces the signed payload for the given operation. The
// broadcast claim on the operation record is committed before the node is
// called, so that concurrent broadcasts for the same operation result in
// exactly one announcement; if the node then definitively rejects the
// payload, the claim is rolled back so the caller can rebuild. When the
// announcement outcome is unknown (node unreachable, timeout), the claim
// is kept and the operation is left for the sweeper to reconcile.
func (b *Broadcaster) Broadcast(ctx context.Context, operationID uuid.UUID, signedPayload string) (*Result, error) {

	signed, err := decodePayload(signedPayload)
	if err != nil {
		return nil, failure.InvalidPayload{
			Description: failure.NewDescription("signed payload does not deserialize",
				failure.WithErr(err),
			),
		}
	}

	operation, err := b.read.Operation(operationID)
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
	if operation.IsSent() {
		return nil, failure.AlreadyBroadcast{
			Description: failure.NewDescription("operation was already broadcast",
				failure.WithID("operation", operationID),
			),
			OperationID: operationID,
		}
	}

	sendTime := time.Now().UTC()
	expiry := sendTime.Add(b.params.ExpiryWindow)
	err = b.write.Claimed(operationID, sendTime, expiry)
	if errors.Is(err, nem.ErrAlreadySent) {
		return nil, failure.AlreadyBroadcast{
			Description: failure.NewDescription("operation was already broadcast",
				failure.WithID("operation", operationID),
			),
			OperationID: operationID,
		}
	}
	if err != nil {
		return nil, fmt.Errorf("could not claim operation for broadcast: %w", err)
	}

	result, err := b.ledger.Announce(ctx, signed)
	if err != nil {
		// Unknown outcome: the operation stays claimed with no transaction
		// hash and is resolved later by the sweeper's audit pass.
		b.log.Warn().Err(err).Str("operation", operationID.String()).Msg("announce outcome unknown")
		return nil, fmt.Errorf("could not announce transaction: %w", err)
	}

	switch result.Code {

	case nem.AnnounceCodeNeutral, nem.AnnounceCodeSuccess:
		// proceed

	case nem.AnnounceCodeHashExists:
		// The node already has this exact transaction. Re-announcing an
		// identical payload is a no-op on NEM, so this counts as accepted.
		b.log.Info().Str("operation", operationID.String()).Msg("transaction hash already known to node")

	case nem.AnnounceCodePastDeadline, nem.AnnounceCodeTimestampTooFar:
		err = b.rollback(operationID, expiry)
		if err != nil {
			return nil, err
		}
		return nil, failure.RebuildRequired{
			Description: failure.NewDescription("transaction deadline passed",
				failure.WithID("operation", operationID),
				failure.WithInt("code", result.Code),
			),
			OperationID: operationID,
		}

	case nem.AnnounceCodeInsufficientBalance:
		err = b.rollback(operationID, expiry)
		if err != nil {
			return nil, err
		}
		return nil, failure.NotEnoughBalance{
			Description: failure.NewDescription("node rejected announcement for insufficient balance",
				failure.WithID("operation", operationID),
			),
		}

	default:
		err = b.rollback(operationID, expiry)
		if err != nil {
			return nil, err
		}
		return nil, failure.FatalAnnounce{
			Description: failure.NewDescription("unexpected announce result",
				failure.WithInt("code", result.Code),
				failure.WithString("message", result.Message),
			),
			Code:    result.Code,
			Message: result.Message,
		}
	}

	txID := result.TxHash
	if txID == "" {
		txID = signed.Hash
	}

	err = b.write.Announced(operationID, txID)
	if err != nil {
		return nil, fmt.Errorf("could not record announced transaction: %w", err)
	}

	res := Result{
		TxID:      txID,
		Expiry:    expiry,
		Duplicate: result.Code == nem.AnnounceCodeHashExists,
	}

	return &res, nil
}

func (b *Broadcaster) rollback(operationID uuid.UUID, expiry time.Time) error {
	err := b.write.Unclaimed(operationID, expiry)
	if err != nil {
		return fmt.Errorf("could not roll back broadcast claim: %w", err)
	}
	return nil
}

func decodePayload(payload string) (nem.SignedTransaction, error) {

	var signed nem.SignedTransaction

	data, err := base64.StdEncoding.DecodeString(payload)
	if err != nil {
		return signed, fmt.Errorf("could not decode payload: %w", err)
	}
	err = json.Unmarshal(data, &signed)
	if err != nil {
		return signed, fmt.Errorf("could not unmarshal payload: %w", err)
	}

	if signed.Payload == "" || signed.Signature == "" || signed.Hash == "" || signed.Signer == "" {
		return signed, fmt.Errorf("payload is missing required fields")
	}
	for _, field := range []string{signed.Payload, signed.Signature, signed.Hash, signed.Signer} {
		_, err := hex.DecodeString(field)
		if err != nil {
			return signed, fmt.Errorf("payload field is not valid hex: %w", err)
		}
	}

	return signed, nil
}
