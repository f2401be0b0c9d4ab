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
	"context"
	"testing"

	"github.com/optakt/nem-adapter/models/nem"
)

type Ledger struct {
	HeightFunc            func(ctx context.Context) (uint64, error)
	BalancesFunc          func(ctx context.Context, address string) ([]nem.Mosaic, error)
	FeeScheduleFunc       func(ctx context.Context, transfer nem.Transfer) (nem.Fee, error)
	AnnounceFunc          func(ctx context.Context, signed nem.SignedTransaction) (nem.AnnounceResult, error)
	TransactionByHashFunc func(ctx context.Context, hash string) (*nem.TransactionInfo, error)
	BlockByHeightFunc     func(ctx context.Context, height uint64) (nem.Block, error)
}

func BaselineLedger(t *testing.T) *Ledger {
	t.Helper()

	l := Ledger{
		HeightFunc: func(context.Context) (uint64, error) {
			return 1000, nil
		},
		BalancesFunc: func(context.Context, string) ([]nem.Mosaic, error) {
			return []nem.Mosaic{{AssetID: nem.XEM, Amount: 100_000_000}}, nil
		},
		FeeScheduleFunc: func(context.Context, nem.Transfer) (nem.Fee, error) {
			return nem.Fee{Fee: 50_000}, nil
		},
		AnnounceFunc: func(context.Context, nem.SignedTransaction) (nem.AnnounceResult, error) {
			return nem.AnnounceResult{Code: nem.AnnounceCodeSuccess, TxHash: GenericTxHash}, nil
		},
		TransactionByHashFunc: func(context.Context, string) (*nem.TransactionInfo, error) {
			return nil, nil
		},
		BlockByHeightFunc: func(_ context.Context, height uint64) (nem.Block, error) {
			return nem.Block{Height: height, Timestamp: GenericBlockTime}, nil
		},
	}

	return &l
}

func (l *Ledger) Height(ctx context.Context) (uint64, error) {
	return l.HeightFunc(ctx)
}

func (l *Ledger) Balances(ctx context.Context, address string) ([]nem.Mosaic, error) {
	return l.BalancesFunc(ctx, address)
}

func (l *Ledger) FeeSchedule(ctx context.Context, transfer nem.Transfer) (nem.Fee, error) {
	return l.FeeScheduleFunc(ctx, transfer)
}

func (l *Ledger) Announce(ctx context.Context, signed nem.SignedTransaction) (nem.AnnounceResult, error) {
	return l.AnnounceFunc(ctx, signed)
}

func (l *Ledger) TransactionByHash(ctx context.Context, hash string) (*nem.TransactionInfo, error) {
	return l.TransactionByHashFunc(ctx, hash)
}

func (l *Ledger) BlockByHeight(ctx context.Context, height uint64) (nem.Block, error) {
	return l.BlockByHeightFunc(ctx, height)
}
