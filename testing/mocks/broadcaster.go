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

	"github.com/google/uuid"

	"github.com/optakt/nem-adapter/nem/broadcaster"
)

type Broadcaster struct {
	BroadcastFunc func(ctx context.Context, operationID uuid.UUID, signedPayload string) (*broadcaster.Result, error)
}

func BaselineBroadcaster(t *testing.T) *Broadcaster {
	t.Helper()

	b := Broadcaster{
		BroadcastFunc: func(context.Context, uuid.UUID, string) (*broadcaster.Result, error) {
			return &broadcaster.Result{
				TxID:   GenericTxHash,
				Expiry: GenericExpiry,
			}, nil
		},
	}

	return &b
}

func (b *Broadcaster) Broadcast(ctx context.Context, operationID uuid.UUID, signedPayload string) (*broadcaster.Result, error) {
	return b.BroadcastFunc(ctx, operationID, signedPayload)
}
