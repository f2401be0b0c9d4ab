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

package builder_test

import (
	"context"
	"math"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/optakt/nem-adapter/models/nem"
	"github.com/optakt/nem-adapter/nem/builder"
	"github.com/optakt/nem-adapter/nem/failure"
	"github.com/optakt/nem-adapter/testing/mocks"
)

func genericRequest() builder.Request {
	return builder.Request{
		OperationID: mocks.GenericOperationID,
		FromAddress: mocks.GenericSender,
		ToAddress:   mocks.GenericRecipient,
		AssetID:     nem.XEM,
		Amount:      "10",
	}
}

func baselineBuilder(t *testing.T) (*builder.Builder, *mocks.Ledger, *mocks.Reader, *mocks.Writer) {
	t.Helper()

	ledger := mocks.BaselineLedger(t)
	read := mocks.BaselineReader(t)
	read.OperationFunc = func(uuid.UUID) (*nem.Operation, error) {
		return nil, nem.ErrNotFound
	}
	write := mocks.BaselineWriter(t)
	build := builder.New(mocks.GenericParams(), mocks.BaselineCatalog(t), ledger, read, write)

	return build, ledger, read, write
}

func TestBuilder_Build(t *testing.T) {
	t.Run("nominal case", func(t *testing.T) {
		t.Parallel()

		build, _, _, write := baselineBuilder(t)

		var built *nem.Operation
		write.BuiltFunc = func(operation *nem.Operation) error {
			built = operation
			return nil
		}

		signable, err := build.Build(context.Background(), genericRequest())
		require.NoError(t, err)

		assert.Equal(t, mocks.GenericOperationID, signable.OperationID)
		assert.Equal(t, mocks.GenericRecipient, signable.To)
		assert.Equal(t, nem.XEM, signable.AssetID)
		assert.Equal(t, uint64(10_000_000), signable.Amount)
		assert.Equal(t, uint64(50_000), signable.Fee)
		assert.Equal(t, "0.05", signable.FeeDecimal)
		assert.Equal(t, "testnet", signable.Network)
		assert.False(t, signable.Deadline.IsZero())

		require.NotNil(t, built)
		assert.Equal(t, uint64(10_000_000), built.AmountBase)
		assert.Equal(t, "10", built.Amount)
		assert.Equal(t, uint64(50_000), built.FeeBase)
	})

	t.Run("include fee deducts network fee from amount", func(t *testing.T) {
		t.Parallel()

		build, ledger, _, _ := baselineBuilder(t)
		ledger.FeeScheduleFunc = func(context.Context, nem.Transfer) (nem.Fee, error) {
			return nem.Fee{Fee: 1_000_000}, nil
		}

		req := genericRequest()
		req.IncludeFee = true

		signable, err := build.Build(context.Background(), req)
		require.NoError(t, err)
		assert.Equal(t, uint64(9_000_000), signable.Amount)
		assert.Equal(t, uint64(1_000_000), signable.Fee)
	})

	t.Run("include fee with amount not above fee", func(t *testing.T) {
		t.Parallel()

		build, ledger, _, _ := baselineBuilder(t)
		ledger.FeeScheduleFunc = func(context.Context, nem.Transfer) (nem.Fee, error) {
			return nem.Fee{Fee: 10_000_000}, nil
		}

		req := genericRequest()
		req.IncludeFee = true

		_, err := build.Build(context.Background(), req)

		var tsErr failure.AmountTooSmall
		require.ErrorAs(t, err, &tsErr)
		assert.Equal(t, uint64(10_000_000), tsErr.Amount)
		assert.Equal(t, uint64(10_000_000), tsErr.Fee)
	})

	t.Run("insufficient native balance names native asset", func(t *testing.T) {
		t.Parallel()

		build, ledger, _, _ := baselineBuilder(t)
		ledger.BalancesFunc = func(context.Context, string) ([]nem.Mosaic, error) {
			return []nem.Mosaic{{AssetID: nem.XEM, Amount: 10_000_000}}, nil
		}

		// Amount covers the transfer but not the fee on top of it.
		_, err := build.Build(context.Background(), genericRequest())

		var nbErr failure.NotEnoughBalance
		require.ErrorAs(t, err, &nbErr)
		assert.Equal(t, nem.XEM, nbErr.AssetID)
		assert.Equal(t, uint64(10_050_000), nbErr.Required)
		assert.Equal(t, uint64(10_000_000), nbErr.Owned)
	})

	t.Run("invalid sender address", func(t *testing.T) {
		t.Parallel()

		build, _, _, _ := baselineBuilder(t)

		req := genericRequest()
		req.FromAddress = "not-an-address"

		_, err := build.Build(context.Background(), req)

		var iaErr failure.InvalidAddress
		assert.ErrorAs(t, err, &iaErr)
	})

	t.Run("unknown asset", func(t *testing.T) {
		t.Parallel()

		ledger := mocks.BaselineLedger(t)
		read := mocks.BaselineReader(t)
		write := mocks.BaselineWriter(t)
		assets := mocks.BaselineCatalog(t)
		assets.LookupFunc = func(assetID string) (*nem.Asset, error) {
			return nil, failure.UnknownAsset{AssetID: assetID}
		}
		build := builder.New(mocks.GenericParams(), assets, ledger, read, write)

		_, err := build.Build(context.Background(), genericRequest())

		var uaErr failure.UnknownAsset
		assert.ErrorAs(t, err, &uaErr)
	})

	t.Run("zero amount", func(t *testing.T) {
		t.Parallel()

		build, _, _, _ := baselineBuilder(t)

		req := genericRequest()
		req.Amount = "0"

		_, err := build.Build(context.Background(), req)

		var imErr failure.InvalidAmount
		assert.ErrorAs(t, err, &imErr)
	})

	t.Run("rebuild after broadcast is rejected", func(t *testing.T) {
		t.Parallel()

		build, _, read, _ := baselineBuilder(t)
		read.OperationFunc = func(uuid.UUID) (*nem.Operation, error) {
			return mocks.GenericSentOperation(), nil
		}

		_, err := build.Build(context.Background(), genericRequest())

		var asErr failure.AlreadySent
		assert.ErrorAs(t, err, &asErr)
	})

	t.Run("requirement sum past base unit range", func(t *testing.T) {
		t.Parallel()

		build, ledger, _, _ := baselineBuilder(t)
		ledger.FeeScheduleFunc = func(context.Context, nem.Transfer) (nem.Fee, error) {
			return nem.Fee{
				Fee:    50_000,
				Levies: []nem.Mosaic{{AssetID: nem.XEM, Amount: math.MaxUint64}},
			}, nil
		}

		// The merged requirement would wrap around and slip past the
		// balance check.
		_, err := build.Build(context.Background(), genericRequest())

		var nbErr failure.NotEnoughBalance
		require.ErrorAs(t, err, &nbErr)
		assert.Equal(t, nem.XEM, nbErr.AssetID)
		assert.Equal(t, uint64(math.MaxUint64), nbErr.Required)
	})

	t.Run("levy in transferred asset is deducted too", func(t *testing.T) {
		t.Parallel()

		ledger := mocks.BaselineLedger(t)
		ledger.FeeScheduleFunc = func(context.Context, nem.Transfer) (nem.Fee, error) {
			return nem.Fee{
				Fee:    1_000_000,
				Levies: []nem.Mosaic{{AssetID: "alice:token", Amount: 500}},
			}, nil
		}
		ledger.BalancesFunc = func(context.Context, string) ([]nem.Mosaic, error) {
			return []nem.Mosaic{
				{AssetID: nem.XEM, Amount: 100_000_000},
				{AssetID: "alice:token", Amount: 100_000},
			}, nil
		}
		read := mocks.BaselineReader(t)
		read.OperationFunc = func(uuid.UUID) (*nem.Operation, error) {
			return nil, nem.ErrNotFound
		}
		assets := mocks.BaselineCatalog(t)
		assets.LookupFunc = func(string) (*nem.Asset, error) {
			return &nem.Asset{ID: "alice:token", Name: "TOKEN", Accuracy: 3}, nil
		}
		build := builder.New(mocks.GenericParams(), assets, ledger, read, mocks.BaselineWriter(t))

		req := genericRequest()
		req.AssetID = "alice:token"
		req.Amount = "10"
		req.IncludeFee = true

		signable, err := build.Build(context.Background(), req)
		require.NoError(t, err)

		// The network fee is in XEM and must not shrink the mosaic
		// amount; only the matching levy does.
		assert.Equal(t, uint64(9_500), signable.Amount)
	})
}
