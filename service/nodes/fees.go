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

package nodes

import (
	"context"
	"fmt"
	"math"
	"net/url"
	"strconv"
	"strings"

	"github.com/optakt/nem-adapter/models/nem"
)

// Network fee constants, in micro XEM. One fee unit is 0.05 XEM.
const (
	feeUnit               = 50_000
	feeUnitCap            = 25
	microPerXEM           = 1_000_000
	xemSupply             = 8_999_999_999
	messageChunk          = 32
	smallSupply           = 10_000
	levyPercentileDivisor = 10_000
)

// FeeSchedule quotes the network fee for the given transfer along with
// any levies the transferred mosaic charges. NIS has no fee endpoint, so
// the quote reproduces the network's fee rules; mosaic parameters come
// from the node's definition registry.
func (c *Client) FeeSchedule(ctx context.Context, transfer nem.Transfer) (nem.Fee, error) {

	fee := messageFee(transfer.Message)

	if transfer.Mosaic.AssetID == nem.XEM {
		fee += xemTransferFee(transfer.Mosaic.Amount / microPerXEM)
		return nem.Fee{Fee: fee}, nil
	}

	definition, err := c.mosaicDefinition(ctx, transfer.Mosaic.AssetID)
	if err != nil {
		return nem.Fee{}, fmt.Errorf("could not get mosaic definition: %w", err)
	}

	fee += mosaicTransferFee(transfer.Mosaic.Amount, definition)

	quote := nem.Fee{Fee: fee}
	if definition.levyAssetID != "" {
		amount := definition.levyFee
		if definition.levyPercentile {
			amount = definition.levyFee * transfer.Mosaic.Amount / levyPercentileDivisor
		}
		quote.Levies = append(quote.Levies, nem.Mosaic{
			AssetID: definition.levyAssetID,
			Amount:  amount,
		})
	}

	return quote, nil
}

// messageFee is one fee unit per commenced 32 bytes of message.
func messageFee(message string) uint64 {
	if message == "" {
		return 0
	}
	return feeUnit * (1 + uint64(len(message))/messageChunk)
}

// xemTransferFee is one fee unit per 10,000 whole XEM transferred,
// bounded to [1, 25] units.
func xemTransferFee(xem uint64) uint64 {
	units := xem / smallSupply
	if units < 1 {
		units = 1
	}
	if units > feeUnitCap {
		units = feeUnitCap
	}
	return feeUnit * units
}

// mosaicTransferFee converts the transferred quantity into its XEM
// equivalent based on the mosaic's supply, applies the XEM fee rule and
// discounts by the supply ratio, as the network does.
func mosaicTransferFee(quantity uint64, definition *mosaicDefinition) uint64 {

	// Small business mosaics pay the flat minimum.
	if definition.divisibility == 0 && definition.supply <= smallSupply {
		return feeUnit
	}

	scale := float64(definition.supply) * math.Pow10(definition.divisibility)
	equivalent := uint64(float64(xemSupply) * float64(quantity) / scale)

	units := int64(equivalent / smallSupply)
	units -= int64(math.Floor(0.8 * math.Log(float64(xemSupply)*microPerXEM/scale/math.Pow10(definition.divisibility))))
	if units < 1 {
		units = 1
	}
	if units > feeUnitCap {
		units = feeUnitCap
	}

	return feeUnit * uint64(units)
}

// mosaicDefinition is the subset of a mosaic definition the fee rules
// need.
type mosaicDefinition struct {
	divisibility   int
	supply         uint64
	levyAssetID    string
	levyFee        uint64
	levyPercentile bool
}

// mosaicDefinition looks up the definition of the given mosaic in the
// node's definition registry for its namespace.
func (c *Client) mosaicDefinition(ctx context.Context, assetID string) (*mosaicDefinition, error) {

	namespace, name, ok := splitAssetID(assetID)
	if !ok {
		return nil, fmt.Errorf("invalid asset identifier (asset: %s)", assetID)
	}

	var res struct {
		Data []struct {
			Mosaic struct {
				ID struct {
					NamespaceID string `json:"namespaceId"`
					Name        string `json:"name"`
				} `json:"id"`
				Properties []struct {
					Name  string `json:"name"`
					Value string `json:"value"`
				} `json:"properties"`
				Levy struct {
					Type     int `json:"type"`
					MosaicID struct {
						NamespaceID string `json:"namespaceId"`
						Name        string `json:"name"`
					} `json:"mosaicId"`
					Fee uint64 `json:"fee"`
				} `json:"levy"`
			} `json:"mosaic"`
		} `json:"data"`
	}
	query := url.Values{"namespace": {namespace}}
	err := c.get(ctx, "/namespace/mosaic/definition/page", query, &res)
	if err != nil {
		return nil, fmt.Errorf("could not get definition page: %w", err)
	}

	for _, entry := range res.Data {
		if entry.Mosaic.ID.NamespaceID != namespace || entry.Mosaic.ID.Name != name {
			continue
		}

		definition := mosaicDefinition{}
		for _, property := range entry.Mosaic.Properties {
			value, err := strconv.ParseUint(property.Value, 10, 64)
			if err != nil {
				continue
			}
			switch property.Name {
			case "divisibility":
				definition.divisibility = int(value)
			case "initialSupply":
				definition.supply = value
			}
		}
		if entry.Mosaic.Levy.Fee > 0 {
			definition.levyAssetID = entry.Mosaic.Levy.MosaicID.NamespaceID + ":" + entry.Mosaic.Levy.MosaicID.Name
			definition.levyFee = entry.Mosaic.Levy.Fee
			definition.levyPercentile = entry.Mosaic.Levy.Type == 2
		}

		return &definition, nil
	}

	return nil, fmt.Errorf("mosaic definition not found (asset: %s)", assetID)
}

func splitAssetID(assetID string) (string, string, bool) {
	index := strings.LastIndex(assetID, ":")
	if index <= 0 || index == len(assetID)-1 {
		return "", "", false
	}
	return assetID[:index], assetID[index+1:], true
}
