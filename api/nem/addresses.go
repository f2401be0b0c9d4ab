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

	"github.com/labstack/echo/v4"

	"github.com/optakt/nem-adapter/models/nem"
)

type ValidityResponse struct {
	IsValid bool `json:"isValid"`
}

// Validity reports whether the given address is well-formed for the
// configured network. It never fails; malformed input is a negative
// answer, not an error.
func (a *API) Validity(ctx echo.Context) error {

	address := ctx.Param("address")

	res := ValidityResponse{
		IsValid: nem.ValidAddress(address),
	}

	return ctx.JSON(http.StatusOK, res)
}

// ExplorerURL returns the explorer links for the given address, which is
// an empty list when no explorer is configured.
func (a *API) ExplorerURL(ctx echo.Context) error {

	address := ctx.Param("address")
	if !nem.ValidAddress(address) {
		return badRequest("address is not a valid network address")
	}

	return ctx.JSON(http.StatusOK, a.params.ExplorerURLs(address))
}
