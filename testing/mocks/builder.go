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

	"github.com/optakt/nem-adapter/nem/builder"
)

type Builder struct {
	BuildFunc func(ctx context.Context, req builder.Request) (*builder.Context, error)
}

func BaselineBuilder(t *testing.T) *Builder {
	t.Helper()

	b := Builder{
		BuildFunc: func(_ context.Context, req builder.Request) (*builder.Context, error) {
			operation := GenericOperation()
			return &builder.Context{
				OperationID: req.OperationID,
				To:          req.ToAddress,
				AssetID:     req.AssetID,
				Amount:      operation.AmountBase,
				Fee:         operation.FeeBase,
				FeeDecimal:  operation.Fee,
				Deadline:    GenericExpiry,
				Network:     GenericParams().Network,
			}, nil
		},
	}

	return &b
}

func (b *Builder) Build(ctx context.Context, req builder.Request) (*builder.Context, error) {
	return b.BuildFunc(ctx, req)
}
