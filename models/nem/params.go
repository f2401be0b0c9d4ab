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
	"fmt"
	"time"
)

// XEM is the asset identifier of the native mosaic.
const XEM = "nem:xem"

// AddressSeparator splits a ledger address from an optional message suffix
// in addresses of the form `TALIC3...$memo`.
const AddressSeparator = "$"

// Params bundles the ledger-specific configuration injected into the
// adapter components, so none of them rely on process-wide globals.
type Params struct {
	Network       string
	NativeAsset   string
	Confirmations uint64
	ExpiryWindow  time.Duration
	ExplorerURL   string
}

// ExplorerURLs returns the explorer links for the given address, or an
// empty slice when no explorer is configured.
func (p Params) ExplorerURLs(address string) []string {
	if p.ExplorerURL == "" {
		return []string{}
	}
	return []string{fmt.Sprintf(p.ExplorerURL, address)}
}
