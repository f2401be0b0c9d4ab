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
	"encoding/base64"
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"

	"github.com/optakt/nem-adapter/models/nem"
	"github.com/optakt/nem-adapter/nem/builder"
	"github.com/optakt/nem-adapter/nem/failure"
	"github.com/optakt/nem-adapter/nem/resolver"
)

// Operation states as reported to the integration layer.
const (
	stateInProgress = "inProgress"
	stateCompleted  = "completed"
	stateFailed     = "failed"
)

type BuildSingleRequest struct {
	OperationID string `json:"operationId" validate:"required,uuid"`
	FromAddress string `json:"fromAddress" validate:"required,nemaddress"`
	ToAddress   string `json:"toAddress" validate:"required,nemaddress"`
	AssetID     string `json:"assetId" validate:"required"`
	Amount      string `json:"amount" validate:"required"`
	IncludeFee  bool   `json:"includeFee"`
}

type BuildSingleResponse struct {
	TransactionContext string `json:"transactionContext"`
}

type BroadcastRequest struct {
	OperationID       string `json:"operationId" validate:"required,uuid"`
	SignedTransaction string `json:"signedTransaction" validate:"required"`
}

type BroadcastResponse struct {
	TxID      string     `json:"txId"`
	Expiry    *time.Time `json:"expiryTime,omitempty"`
	Duplicate bool       `json:"duplicate,omitempty"`
}

type ActionContract struct {
	ActionID string    `json:"actionId"`
	TxID     string    `json:"txId"`
	Address  string    `json:"address"`
	AssetID  string    `json:"assetId"`
	Amount   string    `json:"amount"`
	Block    uint64    `json:"block"`
	Time     time.Time `json:"blockTime"`
}

type OperationStatusResponse struct {
	OperationID string           `json:"operationId"`
	State       string           `json:"state"`
	SendTime    *time.Time       `json:"sendTime,omitempty"`
	TxID        string           `json:"txId,omitempty"`
	Block       uint64           `json:"block,omitempty"`
	BlockTime   *time.Time       `json:"blockTime,omitempty"`
	Error       string           `json:"error,omitempty"`
	Actions     []ActionContract `json:"actions,omitempty"`
}

// BuildSingle builds a signable context for a single-recipient transfer.
func (a *API) BuildSingle(ctx echo.Context) error {

	var req BuildSingleRequest
	err := ctx.Bind(&req)
	if err != nil {
		return badRequest("body does not have valid JSON")
	}
	err = ctx.Validate(&req)
	if err != nil {
		return badRequest(err.Error())
	}

	operationID, err := uuid.Parse(req.OperationID)
	if err != nil {
		return badRequest("operation identifier must be a valid UUID")
	}

	signable, err := a.build.Build(ctx.Request().Context(), builder.Request{
		OperationID: operationID,
		FromAddress: req.FromAddress,
		ToAddress:   req.ToAddress,
		AssetID:     req.AssetID,
		Amount:      req.Amount,
		IncludeFee:  req.IncludeFee,
	})
	if err != nil {
		return apiError(err)
	}

	payload, err := json.Marshal(signable)
	if err != nil {
		return apiError(err)
	}

	res := BuildSingleResponse{
		TransactionContext: base64.StdEncoding.EncodeToString(payload),
	}

	return ctx.JSON(http.StatusOK, res)
}

// BuildManyInputs is not supported on this network; every transfer has
// exactly one sender.
func (a *API) BuildManyInputs(ctx echo.Context) error {
	return ctx.NoContent(http.StatusNotImplemented)
}

// BuildManyOutputs is not supported on this network; every transfer has
// exactly one recipient.
func (a *API) BuildManyOutputs(ctx echo.Context) error {
	return ctx.NoContent(http.StatusNotImplemented)
}

// Rebuild with a fee factor is not supported; clients rebuild through
// the regular build endpoint after an expiry.
func (a *API) Rebuild(ctx echo.Context) error {
	return ctx.NoContent(http.StatusNotImplemented)
}

// Broadcast relays a signed transaction to the network.
func (a *API) Broadcast(ctx echo.Context) error {

	var req BroadcastRequest
	err := ctx.Bind(&req)
	if err != nil {
		return badRequest("body does not have valid JSON")
	}
	err = ctx.Validate(&req)
	if err != nil {
		return badRequest(err.Error())
	}

	operationID, err := uuid.Parse(req.OperationID)
	if err != nil {
		return badRequest("operation identifier must be a valid UUID")
	}

	result, err := a.broadcast.Broadcast(ctx.Request().Context(), operationID, req.SignedTransaction)
	if err != nil {
		return apiError(err)
	}

	res := BroadcastResponse{
		TxID:      result.TxID,
		Duplicate: result.Duplicate,
	}
	if !result.Expiry.IsZero() {
		res.Expiry = &result.Expiry
	}

	return ctx.JSON(http.StatusOK, res)
}

// OperationStatus resolves and returns the current state of a broadcast
// operation. An operation that was never built yields an empty response.
func (a *API) OperationStatus(ctx echo.Context) error {

	operationID, err := uuid.Parse(ctx.Param("operationId"))
	if err != nil {
		return badRequest("operation identifier must be a valid UUID")
	}

	status, err := a.resolve.Resolve(ctx.Request().Context(), operationID)
	var uoErr failure.UnknownOperation
	if errors.As(err, &uoErr) {
		return ctx.NoContent(http.StatusNoContent)
	}
	if err != nil {
		return apiError(err)
	}

	operation, err := a.read.Operation(operationID)
	if err != nil {
		return apiError(err)
	}

	res := OperationStatusResponse{
		OperationID: operationID.String(),
		SendTime:    operation.SendTime,
		TxID:        operation.TxID,
	}
	switch status.State {
	case resolver.StateCompleted:
		res.State = stateCompleted
		res.Block = status.Block
		res.BlockTime = &status.BlockTime
		res.Actions = actionContracts(status.Actions)
	case resolver.StateFailed:
		res.State = stateFailed
		res.Error = status.Reason
	default:
		res.State = stateInProgress
	}

	return ctx.JSON(http.StatusOK, res)
}

// DeleteOperation stops observation of the given operation. Deleting an
// unknown operation yields an empty response.
func (a *API) DeleteOperation(ctx echo.Context) error {

	operationID, err := uuid.Parse(ctx.Param("operationId"))
	if err != nil {
		return badRequest("operation identifier must be a valid UUID")
	}

	_, err = a.read.Operation(operationID)
	if errors.Is(err, nem.ErrNotFound) {
		return ctx.NoContent(http.StatusNoContent)
	}
	if err != nil {
		return apiError(err)
	}

	err = a.write.Deleted(operationID)
	if err != nil {
		return apiError(err)
	}

	return ctx.NoContent(http.StatusOK)
}

func actionContracts(actions []nem.Action) []ActionContract {
	contracts := make([]ActionContract, 0, len(actions))
	for _, action := range actions {
		contracts = append(contracts, ActionContract{
			ActionID: action.ID,
			TxID:     action.TxID,
			Address:  action.Address,
			AssetID:  action.AssetID,
			Amount:   action.Amount,
			Block:    action.Block,
			Time:     action.Time,
		})
	}
	return contracts
}
