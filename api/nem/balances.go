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
	"net/http"
	"strconv"
	"sync"

	"github.com/labstack/echo/v4"
	"golang.org/x/sync/errgroup"

	"github.com/optakt/nem-adapter/models/nem"
)

type BalanceContract struct {
	Address string `json:"address"`
	AssetID string `json:"assetId"`
	Balance string `json:"balance"`
	Block   uint64 `json:"block"`
}

type BalanceListResponse struct {
	Continuation string            `json:"continuation,omitempty"`
	Items        []BalanceContract `json:"items"`
}

// Balances returns the confirmed balances of a page of observed
// addresses. Balances are reported as of the latest block that has the
// full confirmation depth on top of it, and zero balances are omitted.
func (a *API) Balances(ctx echo.Context) error {

	take, err := takeParam(ctx)
	if err != nil {
		return err
	}

	addresses, continuation, err := a.registry.List(take, ctx.QueryParam("continuation"))
	if err != nil {
		return apiError(err)
	}

	height, err := a.ledger.Height(ctx.Request().Context())
	if err != nil {
		return apiError(err)
	}
	block := uint64(0)
	if height > a.params.Confirmations {
		block = height - a.params.Confirmations
	}

	var mutex sync.Mutex
	items := make([]BalanceContract, 0, len(addresses))

	group, groupCtx := errgroup.WithContext(ctx.Request().Context())
	for _, address := range addresses {
		address := address
		group.Go(func() error {
			balances, err := a.ledger.Balances(groupCtx, address)
			if err != nil {
				return err
			}
			mutex.Lock()
			defer mutex.Unlock()
			for _, balance := range balances {
				if balance.Amount == 0 {
					continue
				}
				items = append(items, BalanceContract{
					Address: address,
					AssetID: balance.AssetID,
					Balance: strconv.FormatUint(balance.Amount, 10),
					Block:   block,
				})
			}
			return nil
		})
	}
	err = group.Wait()
	if err != nil {
		return apiError(err)
	}

	res := BalanceListResponse{
		Continuation: continuation,
		Items:        items,
	}

	return ctx.JSON(http.StatusOK, res)
}

// Observe puts the given address under balance observation. Observing an
// address twice is a conflict.
func (a *API) Observe(ctx echo.Context) error {

	err := a.registry.Observe(ctx.Param("address"))
	if err != nil {
		return apiError(err)
	}

	return ctx.NoContent(http.StatusOK)
}

// Unobserve removes the given address from balance observation. Removing
// an address that is not observed yields an empty response.
func (a *API) Unobserve(ctx echo.Context) error {

	address := ctx.Param("address")
	if !nem.ValidAddress(address) {
		return badRequest("address is not a valid network address")
	}

	observed, err := a.registry.IsObserved(address)
	if err != nil {
		return apiError(err)
	}
	if !observed {
		return ctx.NoContent(http.StatusNoContent)
	}

	err = a.registry.Unobserve(address)
	if err != nil {
		return apiError(err)
	}

	return ctx.NoContent(http.StatusOK)
}

// takeParam parses the mandatory page size parameter.
func takeParam(ctx echo.Context) (int, error) {
	take, err := strconv.Atoi(ctx.QueryParam("take"))
	if err != nil || take < 1 {
		return 0, badRequest("take must be a positive integer")
	}
	return take, nil
}
