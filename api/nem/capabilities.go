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

type CapabilitiesResponse struct {
	AreManyInputsSupported            bool `json:"areManyInputsSupported"`
	AreManyOutputsSupported           bool `json:"areManyOutputsSupported"`
	IsTransactionsRebuildingSupported bool `json:"isTransactionsRebuildingSupported"`
	IsTestingTransfersSupported       bool `json:"isTestingTransfersSupported"`
	IsPublicAddressExtensionRequired  bool `json:"isPublicAddressExtensionRequired"`
	IsReceiveTransactionRequired      bool `json:"isReceiveTransactionRequired"`
	CanReturnExplorerURL              bool `json:"canReturnExplorerUrl"`
	IsAddressMappingRequired          bool `json:"isAddressMappingRequired"`
	IsExclusiveWithdrawalsRequired    bool `json:"isExclusiveWithdrawalsRequired"`
}

// Capabilities describes which optional parts of the integration
// contract this adapter implements.
func (a *API) Capabilities(ctx echo.Context) error {

	res := CapabilitiesResponse{
		CanReturnExplorerURL: true,
	}

	return ctx.JSON(http.StatusOK, res)
}

// Constants is part of the integration contract but carries nothing for
// this network.
func (a *API) Constants(ctx echo.Context) error {
	return ctx.NoContent(http.StatusNotImplemented)
}
