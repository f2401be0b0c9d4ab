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
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/optakt/nem-adapter/models/nem"
	"github.com/optakt/nem-adapter/nem/failure"
)

type AssetContract struct {
	AssetID  string `json:"assetId"`
	Address  string `json:"address,omitempty"`
	Name     string `json:"name"`
	Accuracy uint   `json:"accuracy"`
}

type AssetListResponse struct {
	Continuation string          `json:"continuation,omitempty"`
	Items        []AssetContract `json:"items"`
}

type UpsertAssetRequest struct {
	AssetID  string `json:"assetId" validate:"required"`
	Address  string `json:"address"`
	Name     string `json:"name" validate:"required"`
	Accuracy uint   `json:"accuracy" validate:"lte=12"`
}

// Assets returns a page of known asset definitions.
func (a *API) Assets(ctx echo.Context) error {

	take, err := takeParam(ctx)
	if err != nil {
		return err
	}

	assets, continuation, err := a.catalog.List(take, ctx.QueryParam("continuation"))
	if err != nil {
		return apiError(err)
	}

	items := make([]AssetContract, 0, len(assets))
	for _, asset := range assets {
		items = append(items, assetContract(asset))
	}

	res := AssetListResponse{
		Continuation: continuation,
		Items:        items,
	}

	return ctx.JSON(http.StatusOK, res)
}

// Asset returns a single asset definition. An unknown asset identifier
// yields an empty response rather than an error.
func (a *API) Asset(ctx echo.Context) error {

	asset, err := a.catalog.Lookup(ctx.Param("assetId"))
	var uaErr failure.UnknownAsset
	if errors.As(err, &uaErr) {
		return ctx.NoContent(http.StatusNoContent)
	}
	if err != nil {
		return apiError(err)
	}

	return ctx.JSON(http.StatusOK, assetContract(*asset))
}

// UpsertAsset creates or replaces an asset definition.
func (a *API) UpsertAsset(ctx echo.Context) error {

	var req UpsertAssetRequest
	err := ctx.Bind(&req)
	if err != nil {
		return badRequest("body does not have valid JSON")
	}
	err = ctx.Validate(&req)
	if err != nil {
		return badRequest(err.Error())
	}

	asset := nem.Asset{
		ID:       req.AssetID,
		Address:  req.Address,
		Name:     req.Name,
		Accuracy: req.Accuracy,
	}
	err = a.catalog.Upsert(asset)
	if err != nil {
		return apiError(err)
	}

	return ctx.NoContent(http.StatusOK)
}

func assetContract(asset nem.Asset) AssetContract {
	return AssetContract{
		AssetID:  asset.ID,
		Address:  asset.Address,
		Name:     asset.Name,
		Accuracy: asset.Accuracy,
	}
}
