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

package nem_test

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"net/http"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	api "github.com/optakt/nem-adapter/api/nem"
	"github.com/optakt/nem-adapter/models/nem"
	"github.com/optakt/nem-adapter/nem/broadcaster"
	"github.com/optakt/nem-adapter/nem/builder"
	"github.com/optakt/nem-adapter/nem/failure"
	"github.com/optakt/nem-adapter/nem/resolver"
	"github.com/optakt/nem-adapter/testing/mocks"
)

func TestAPI_BuildSingle(t *testing.T) {
	t.Parallel()

	buildBody := func(from string, to string) string {
		return fmt.Sprintf(`{
			"operationId": %q,
			"fromAddress": %q,
			"toAddress": %q,
			"assetId": %q,
			"amount": "10",
			"includeFee": false
		}`, mocks.GenericOperationID, from, to, nem.XEM)
	}

	t.Run("nominal case", func(t *testing.T) {
		t.Parallel()

		a, d := baselineAPI(t)
		d.build.BuildFunc = func(_ context.Context, req builder.Request) (*builder.Context, error) {
			assert.Equal(t, mocks.GenericOperationID, req.OperationID)
			assert.Equal(t, mocks.GenericSender, req.FromAddress)
			assert.Equal(t, mocks.GenericRecipient, req.ToAddress)
			assert.Equal(t, nem.XEM, req.AssetID)
			assert.Equal(t, "10", req.Amount)

			return &builder.Context{
				OperationID: req.OperationID,
				To:          req.ToAddress,
				AssetID:     req.AssetID,
				Amount:      10_000_000,
				Fee:         50_000,
				FeeDecimal:  "0.05",
				Deadline:    mocks.GenericExpiry,
				Network:     "testnet",
			}, nil
		}

		ctx, rec := request(t, http.MethodPost, "/", buildBody(mocks.GenericSender, mocks.GenericRecipient))

		err := a.BuildSingle(ctx)

		require.NoError(t, err)
		assert.Equal(t, http.StatusOK, rec.Code)

		// The transaction context round-trips through base64 so the
		// integration layer can treat it as an opaque blob.
		var res api.BuildSingleResponse
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &res))

		payload, err := base64.StdEncoding.DecodeString(res.TransactionContext)
		require.NoError(t, err)

		var signable builder.Context
		require.NoError(t, json.Unmarshal(payload, &signable))
		assert.Equal(t, mocks.GenericOperationID, signable.OperationID)
		assert.Equal(t, mocks.GenericRecipient, signable.To)
		assert.Equal(t, uint64(10_000_000), signable.Amount)
		assert.Equal(t, uint64(50_000), signable.Fee)
	})

	t.Run("handles invalid sender address", func(t *testing.T) {
		t.Parallel()

		a, _ := baselineAPI(t)

		ctx, _ := request(t, http.MethodPost, "/", buildBody("not-an-address", mocks.GenericRecipient))

		err := a.BuildSingle(ctx)

		assert.Equal(t, http.StatusBadRequest, httpStatus(t, err))
	})

	t.Run("handles insufficient balance", func(t *testing.T) {
		t.Parallel()

		a, d := baselineAPI(t)
		d.build.BuildFunc = func(context.Context, builder.Request) (*builder.Context, error) {
			return nil, failure.NotEnoughBalance{
				Description: failure.NewDescription("address balance does not cover transfer"),
			}
		}

		ctx, _ := request(t, http.MethodPost, "/", buildBody(mocks.GenericSender, mocks.GenericRecipient))

		err := a.BuildSingle(ctx)

		require.Equal(t, http.StatusBadRequest, httpStatus(t, err))
		assert.Equal(t, "notEnoughBalance", errorBody(t, err).ErrorCode)
	})

	t.Run("handles dust amount", func(t *testing.T) {
		t.Parallel()

		a, d := baselineAPI(t)
		d.build.BuildFunc = func(context.Context, builder.Request) (*builder.Context, error) {
			return nil, failure.AmountTooSmall{
				Description: failure.NewDescription("amount is below the smallest transferable unit"),
			}
		}

		ctx, _ := request(t, http.MethodPost, "/", buildBody(mocks.GenericSender, mocks.GenericRecipient))

		err := a.BuildSingle(ctx)

		require.Equal(t, http.StatusBadRequest, httpStatus(t, err))
		assert.Equal(t, "amountIsTooSmall", errorBody(t, err).ErrorCode)
	})
}

func TestAPI_UnsupportedShapes(t *testing.T) {
	t.Parallel()

	a, _ := baselineAPI(t)

	t.Run("many inputs", func(t *testing.T) {
		t.Parallel()

		ctx, rec := request(t, http.MethodPost, "/", "")
		require.NoError(t, a.BuildManyInputs(ctx))
		assert.Equal(t, http.StatusNotImplemented, rec.Code)
	})

	t.Run("many outputs", func(t *testing.T) {
		t.Parallel()

		ctx, rec := request(t, http.MethodPost, "/", "")
		require.NoError(t, a.BuildManyOutputs(ctx))
		assert.Equal(t, http.StatusNotImplemented, rec.Code)
	})

	t.Run("rebuild", func(t *testing.T) {
		t.Parallel()

		ctx, rec := request(t, http.MethodPut, "/", "")
		require.NoError(t, a.Rebuild(ctx))
		assert.Equal(t, http.StatusNotImplemented, rec.Code)
	})
}

func TestAPI_Broadcast(t *testing.T) {
	t.Parallel()

	body := fmt.Sprintf(`{"operationId": %q, "signedTransaction": "c2lnbmVk"}`, mocks.GenericOperationID)

	t.Run("nominal case", func(t *testing.T) {
		t.Parallel()

		a, d := baselineAPI(t)
		d.broadcast.BroadcastFunc = func(_ context.Context, operationID uuid.UUID, signedPayload string) (*broadcaster.Result, error) {
			assert.Equal(t, mocks.GenericOperationID, operationID)
			assert.Equal(t, "c2lnbmVk", signedPayload)
			return &broadcaster.Result{
				TxID:   mocks.GenericTxHash,
				Expiry: mocks.GenericExpiry,
			}, nil
		}

		ctx, rec := request(t, http.MethodPost, "/", body)

		err := a.Broadcast(ctx)

		require.NoError(t, err)
		assert.Equal(t, http.StatusOK, rec.Code)

		var res api.BroadcastResponse
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &res))
		assert.Equal(t, mocks.GenericTxHash, res.TxID)
		require.NotNil(t, res.Expiry)
		assert.True(t, mocks.GenericExpiry.Equal(*res.Expiry))
		assert.False(t, res.Duplicate)
	})

	t.Run("duplicate broadcast is flagged", func(t *testing.T) {
		t.Parallel()

		a, d := baselineAPI(t)
		d.broadcast.BroadcastFunc = func(context.Context, uuid.UUID, string) (*broadcaster.Result, error) {
			return &broadcaster.Result{
				TxID:      mocks.GenericTxHash,
				Duplicate: true,
			}, nil
		}

		ctx, rec := request(t, http.MethodPost, "/", body)

		err := a.Broadcast(ctx)

		require.NoError(t, err)

		var res api.BroadcastResponse
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &res))
		assert.True(t, res.Duplicate)
		assert.Nil(t, res.Expiry)
	})

	t.Run("repeated broadcast is a conflict", func(t *testing.T) {
		t.Parallel()

		a, d := baselineAPI(t)
		d.broadcast.BroadcastFunc = func(context.Context, uuid.UUID, string) (*broadcaster.Result, error) {
			return nil, failure.AlreadyBroadcast{
				Description: failure.NewDescription("operation was already broadcast"),
			}
		}

		ctx, _ := request(t, http.MethodPost, "/", body)

		err := a.Broadcast(ctx)

		assert.Equal(t, http.StatusConflict, httpStatus(t, err))
	})

	t.Run("handles missing payload", func(t *testing.T) {
		t.Parallel()

		a, _ := baselineAPI(t)

		missing := fmt.Sprintf(`{"operationId": %q}`, mocks.GenericOperationID)
		ctx, _ := request(t, http.MethodPost, "/", missing)

		err := a.Broadcast(ctx)

		assert.Equal(t, http.StatusBadRequest, httpStatus(t, err))
	})
}

func TestAPI_OperationStatus(t *testing.T) {
	t.Parallel()

	t.Run("completed operation", func(t *testing.T) {
		t.Parallel()

		a, d := baselineAPI(t)
		d.resolve.ResolveFunc = func(_ context.Context, operationID uuid.UUID) (*resolver.Status, error) {
			assert.Equal(t, mocks.GenericOperationID, operationID)
			return &resolver.Status{
				State:     resolver.StateCompleted,
				Block:     994,
				BlockTime: mocks.GenericBlockTime,
				Actions: []nem.Action{{
					ID:      "00ff00ff00ff00ff",
					TxID:    mocks.GenericTxHash,
					Address: mocks.GenericRecipient,
					AssetID: nem.XEM,
					Amount:  "10",
					Block:   994,
					Time:    mocks.GenericBlockTime,
				}},
			}, nil
		}
		d.read.OperationFunc = func(uuid.UUID) (*nem.Operation, error) {
			return mocks.GenericSentOperation(), nil
		}

		ctx, rec := request(t, http.MethodGet, "/", "")
		ctx.SetParamNames("operationId")
		ctx.SetParamValues(mocks.GenericOperationID.String())

		err := a.OperationStatus(ctx)

		require.NoError(t, err)
		assert.Equal(t, http.StatusOK, rec.Code)

		var res api.OperationStatusResponse
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &res))
		assert.Equal(t, mocks.GenericOperationID.String(), res.OperationID)
		assert.Equal(t, "completed", res.State)
		assert.Equal(t, mocks.GenericTxHash, res.TxID)
		assert.Equal(t, uint64(994), res.Block)
		require.NotNil(t, res.BlockTime)
		assert.True(t, mocks.GenericBlockTime.Equal(*res.BlockTime))
		require.Len(t, res.Actions, 1)
		assert.Equal(t, mocks.GenericRecipient, res.Actions[0].Address)
	})

	t.Run("failed operation", func(t *testing.T) {
		t.Parallel()

		a, d := baselineAPI(t)
		d.resolve.ResolveFunc = func(context.Context, uuid.UUID) (*resolver.Status, error) {
			return &resolver.Status{
				State:  resolver.StateFailed,
				Reason: resolver.ReasonExpired,
			}, nil
		}
		d.read.OperationFunc = func(uuid.UUID) (*nem.Operation, error) {
			return mocks.GenericSentOperation(), nil
		}

		ctx, rec := request(t, http.MethodGet, "/", "")
		ctx.SetParamNames("operationId")
		ctx.SetParamValues(mocks.GenericOperationID.String())

		err := a.OperationStatus(ctx)

		require.NoError(t, err)

		var res api.OperationStatusResponse
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &res))
		assert.Equal(t, "failed", res.State)
		assert.Equal(t, resolver.ReasonExpired, res.Error)
	})

	t.Run("operation in progress", func(t *testing.T) {
		t.Parallel()

		a, _ := baselineAPI(t)

		ctx, rec := request(t, http.MethodGet, "/", "")
		ctx.SetParamNames("operationId")
		ctx.SetParamValues(mocks.GenericOperationID.String())

		err := a.OperationStatus(ctx)

		require.NoError(t, err)

		var res api.OperationStatusResponse
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &res))
		assert.Equal(t, "inProgress", res.State)
	})

	t.Run("unknown operation yields empty response", func(t *testing.T) {
		t.Parallel()

		a, d := baselineAPI(t)
		d.resolve.ResolveFunc = func(_ context.Context, operationID uuid.UUID) (*resolver.Status, error) {
			return nil, failure.UnknownOperation{
				Description: failure.NewDescription("operation is not known"),
				OperationID: operationID,
			}
		}

		ctx, rec := request(t, http.MethodGet, "/", "")
		ctx.SetParamNames("operationId")
		ctx.SetParamValues(mocks.GenericOperationID.String())

		err := a.OperationStatus(ctx)

		require.NoError(t, err)
		assert.Equal(t, http.StatusNoContent, rec.Code)
	})

	t.Run("handles invalid identifier", func(t *testing.T) {
		t.Parallel()

		a, _ := baselineAPI(t)

		ctx, _ := request(t, http.MethodGet, "/", "")
		ctx.SetParamNames("operationId")
		ctx.SetParamValues("not-a-uuid")

		err := a.OperationStatus(ctx)

		assert.Equal(t, http.StatusBadRequest, httpStatus(t, err))
	})
}

func TestAPI_DeleteOperation(t *testing.T) {
	t.Parallel()

	t.Run("nominal case", func(t *testing.T) {
		t.Parallel()

		a, d := baselineAPI(t)

		deleted := uuid.Nil
		d.write.DeletedFunc = func(operationID uuid.UUID) error {
			deleted = operationID
			return nil
		}

		ctx, rec := request(t, http.MethodDelete, "/", "")
		ctx.SetParamNames("operationId")
		ctx.SetParamValues(mocks.GenericOperationID.String())

		err := a.DeleteOperation(ctx)

		require.NoError(t, err)
		assert.Equal(t, http.StatusOK, rec.Code)
		assert.Equal(t, mocks.GenericOperationID, deleted)
	})

	t.Run("unknown operation yields empty response", func(t *testing.T) {
		t.Parallel()

		a, d := baselineAPI(t)
		d.read.OperationFunc = func(uuid.UUID) (*nem.Operation, error) {
			return nil, nem.ErrNotFound
		}
		d.write.DeletedFunc = func(uuid.UUID) error {
			t.Fatal("unexpected call to write.Deleted")
			return nil
		}

		ctx, rec := request(t, http.MethodDelete, "/", "")
		ctx.SetParamNames("operationId")
		ctx.SetParamValues(mocks.GenericOperationID.String())

		err := a.DeleteOperation(ctx)

		require.NoError(t, err)
		assert.Equal(t, http.StatusNoContent, rec.Code)
	})
}
