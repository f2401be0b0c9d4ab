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

	"github.com/optakt/nem-adapter/nem/failure"
)

// Well-known error codes of the integration contract. Clients switch on
// these to decide whether to retry, rebuild or surface the failure.
const (
	codeAmountTooSmall   = "amountIsTooSmall"
	codeNotEnoughBalance = "notEnoughBalance"
	codeRebuildRequired  = "buildingShouldBeRepeated"
	codeUnknown          = "unknown"
)

// Error is the structured error body returned by all handlers.
type Error struct {
	ErrorCode    string                 `json:"errorCode,omitempty"`
	ErrorMessage string                 `json:"errorMessage"`
	Details      map[string]interface{} `json:"details,omitempty"`
}

// apiError translates component failures into HTTP errors with
// structured bodies. Failures unknown to the taxonomy become internal
// server errors with the wrapped message.
func apiError(err error) error {

	var iaErr failure.InvalidAddress
	if errors.As(err, &iaErr) {
		return echo.NewHTTPError(http.StatusBadRequest, Error{
			ErrorMessage: iaErr.Description.Text,
			Details:      details(iaErr.Description),
		})
	}

	var uaErr failure.UnknownAsset
	if errors.As(err, &uaErr) {
		return echo.NewHTTPError(http.StatusBadRequest, Error{
			ErrorMessage: uaErr.Description.Text,
			Details:      details(uaErr.Description),
		})
	}

	var imErr failure.InvalidAmount
	if errors.As(err, &imErr) {
		return echo.NewHTTPError(http.StatusBadRequest, Error{
			ErrorMessage: imErr.Description.Text,
			Details:      details(imErr.Description),
		})
	}

	var tsErr failure.AmountTooSmall
	if errors.As(err, &tsErr) {
		return echo.NewHTTPError(http.StatusBadRequest, Error{
			ErrorCode:    codeAmountTooSmall,
			ErrorMessage: tsErr.Description.Text,
			Details:      details(tsErr.Description),
		})
	}

	var nbErr failure.NotEnoughBalance
	if errors.As(err, &nbErr) {
		return echo.NewHTTPError(http.StatusBadRequest, Error{
			ErrorCode:    codeNotEnoughBalance,
			ErrorMessage: nbErr.Description.Text,
			Details:      details(nbErr.Description),
		})
	}

	var rbErr failure.RebuildRequired
	if errors.As(err, &rbErr) {
		return echo.NewHTTPError(http.StatusBadRequest, Error{
			ErrorCode:    codeRebuildRequired,
			ErrorMessage: rbErr.Description.Text,
			Details:      details(rbErr.Description),
		})
	}

	var ipErr failure.InvalidPayload
	if errors.As(err, &ipErr) {
		return echo.NewHTTPError(http.StatusBadRequest, Error{
			ErrorMessage: ipErr.Description.Text,
			Details:      details(ipErr.Description),
		})
	}

	var asErr failure.AlreadySent
	if errors.As(err, &asErr) {
		return echo.NewHTTPError(http.StatusConflict, Error{
			ErrorMessage: asErr.Description.Text,
			Details:      details(asErr.Description),
		})
	}

	var abErr failure.AlreadyBroadcast
	if errors.As(err, &abErr) {
		return echo.NewHTTPError(http.StatusConflict, Error{
			ErrorMessage: abErr.Description.Text,
			Details:      details(abErr.Description),
		})
	}

	var aoErr failure.AddressObserved
	if errors.As(err, &aoErr) {
		return echo.NewHTTPError(http.StatusConflict, Error{
			ErrorMessage: aoErr.Description.Text,
			Details:      details(aoErr.Description),
		})
	}

	var uoErr failure.UnknownOperation
	if errors.As(err, &uoErr) {
		return echo.NewHTTPError(http.StatusBadRequest, Error{
			ErrorMessage: uoErr.Description.Text,
			Details:      details(uoErr.Description),
		})
	}

	var faErr failure.FatalAnnounce
	if errors.As(err, &faErr) {
		return echo.NewHTTPError(http.StatusInternalServerError, Error{
			ErrorCode:    codeUnknown,
			ErrorMessage: faErr.Description.Text,
			Details:      details(faErr.Description),
		})
	}

	return echo.NewHTTPError(http.StatusInternalServerError, Error{
		ErrorMessage: err.Error(),
	})
}

// badRequest is a plain validation failure with no taxonomy code.
func badRequest(message string) error {
	return echo.NewHTTPError(http.StatusBadRequest, Error{
		ErrorMessage: message,
	})
}

func details(description failure.Description) map[string]interface{} {
	if len(description.Fields) == 0 {
		return nil
	}
	out := make(map[string]interface{}, len(description.Fields))
	description.Fields.Iterate(func(key string, val interface{}) {
		out[key] = val
	})
	return out
}
