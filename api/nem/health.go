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
)

type IsAliveResponse struct {
	Name    string `json:"name"`
	Version string `json:"version"`
	Env     string `json:"env,omitempty"`
}

// Version of the adapter, set through build flags.
var Version = "dev"

// IsAlive is the liveness probe. It reports healthy as long as the node
// connection works; a node that cannot be reached makes the adapter
// useless even though the process itself is up.
func (a *API) IsAlive(ctx echo.Context) error {

	_, err := a.ledger.Height(ctx.Request().Context())
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, Error{
			ErrorMessage: "node is not reachable",
		})
	}

	res := IsAliveResponse{
		Name:    "nem-adapter",
		Version: Version,
		Env:     a.params.Network,
	}

	return ctx.JSON(http.StatusOK, res)
}
