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
	"encoding/json"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	api "github.com/optakt/nem-adapter/api/nem"
	"github.com/optakt/nem-adapter/models/nem"
	"github.com/optakt/nem-adapter/nem/failure"
	"github.com/optakt/nem-adapter/testing/mocks"
)

func TestAPI_Assets(t *testing.T) {
	t.Parallel()

	t.Run("nominal case", func(t *testing.T) {
		t.Parallel()

		a, d := baselineAPI(t)
		d.catalog.ListFunc = func(take int, continuation string) ([]nem.Asset, string, error) {
			assert.Equal(t, 25, take)
			return []nem.Asset{*mocks.GenericAsset()}, "next", nil
		}

		ctx, rec := request(t, http.MethodGet, "/?take=25", "")

		err := a.Assets(ctx)

		require.NoError(t, err)
		assert.Equal(t, http.StatusOK, rec.Code)

		var res api.AssetListResponse
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &res))
		assert.Equal(t, "next", res.Continuation)
		require.Len(t, res.Items, 1)
		assert.Equal(t, nem.XEM, res.Items[0].AssetID)
		assert.Equal(t, "XEM", res.Items[0].Name)
		assert.Equal(t, uint(6), res.Items[0].Accuracy)
	})

	t.Run("handles missing page size", func(t *testing.T) {
		t.Parallel()

		a, _ := baselineAPI(t)

		ctx, _ := request(t, http.MethodGet, "/", "")

		err := a.Assets(ctx)

		assert.Equal(t, http.StatusBadRequest, httpStatus(t, err))
	})
}

func TestAPI_Asset(t *testing.T) {
	t.Parallel()

	t.Run("nominal case", func(t *testing.T) {
		t.Parallel()

		a, _ := baselineAPI(t)

		ctx, rec := request(t, http.MethodGet, "/", "")
		ctx.SetParamNames("assetId")
		ctx.SetParamValues(nem.XEM)

		err := a.Asset(ctx)

		require.NoError(t, err)
		assert.Equal(t, http.StatusOK, rec.Code)

		var res api.AssetContract
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &res))
		assert.Equal(t, nem.XEM, res.AssetID)
	})

	t.Run("unknown asset yields empty response", func(t *testing.T) {
		t.Parallel()

		a, d := baselineAPI(t)
		d.catalog.LookupFunc = func(assetID string) (*nem.Asset, error) {
			return nil, failure.UnknownAsset{
				Description: failure.NewDescription("asset is not registered"),
				AssetID:     assetID,
			}
		}

		ctx, rec := request(t, http.MethodGet, "/", "")
		ctx.SetParamNames("assetId")
		ctx.SetParamValues("acme:token")

		err := a.Asset(ctx)

		require.NoError(t, err)
		assert.Equal(t, http.StatusNoContent, rec.Code)
	})
}

func TestAPI_UpsertAsset(t *testing.T) {
	t.Parallel()

	t.Run("nominal case", func(t *testing.T) {
		t.Parallel()

		a, d := baselineAPI(t)

		var recorded nem.Asset
		d.catalog.UpsertFunc = func(asset nem.Asset) error {
			recorded = asset
			return nil
		}

		body := `{"assetId":"acme:token","name":"Acme Token","accuracy":4}`
		ctx, rec := request(t, http.MethodPost, "/", body)

		err := a.UpsertAsset(ctx)

		require.NoError(t, err)
		assert.Equal(t, http.StatusOK, rec.Code)
		assert.Equal(t, nem.Asset{ID: "acme:token", Name: "Acme Token", Accuracy: 4}, recorded)
	})

	t.Run("handles invalid body", func(t *testing.T) {
		t.Parallel()

		a, _ := baselineAPI(t)

		ctx, _ := request(t, http.MethodPost, "/", `not json`)

		err := a.UpsertAsset(ctx)

		assert.Equal(t, http.StatusBadRequest, httpStatus(t, err))
	})

	t.Run("handles excessive accuracy", func(t *testing.T) {
		t.Parallel()

		a, _ := baselineAPI(t)

		body := `{"assetId":"acme:token","name":"Acme Token","accuracy":13}`
		ctx, _ := request(t, http.MethodPost, "/", body)

		err := a.UpsertAsset(ctx)

		assert.Equal(t, http.StatusBadRequest, httpStatus(t, err))
	})
}
