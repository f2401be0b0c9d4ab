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

// Package nodes implements a client for the HTTP API of a NIS node, the
// reference NEM node software.
package nodes

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/optakt/nem-adapter/models/nem"
)

// NEM network timestamps count seconds since the nemesis block.
var nemEpoch = time.Date(2015, 3, 29, 0, 6, 25, 0, time.UTC)

// Client talks to a single NIS node over its HTTP API and implements the
// ledger interface on top of it. It is safe for concurrent use.
type Client struct {
	log  zerolog.Logger
	host string
	http *http.Client
}

// NewClient creates a NIS client for the node at the given host, which
// should include the scheme and port, such as "http://localhost:7890".
func NewClient(log zerolog.Logger, host string) *Client {

	c := Client{
		log:  log.With().Str("component", "nis_client").Logger(),
		host: strings.TrimSuffix(host, "/"),
		http: &http.Client{Timeout: 30 * time.Second},
	}

	return &c
}

// Height returns the current chain height of the node.
func (c *Client) Height(ctx context.Context) (uint64, error) {

	var res struct {
		Height uint64 `json:"height"`
	}
	err := c.get(ctx, "/chain/height", nil, &res)
	if err != nil {
		return 0, fmt.Errorf("could not get chain height: %w", err)
	}

	return res.Height, nil
}

// Balances returns the confirmed mosaic balances of the given address.
func (c *Client) Balances(ctx context.Context, address string) ([]nem.Mosaic, error) {

	var res struct {
		Data []struct {
			MosaicID struct {
				NamespaceID string `json:"namespaceId"`
				Name        string `json:"name"`
			} `json:"mosaicId"`
			Quantity uint64 `json:"quantity"`
		} `json:"data"`
	}
	query := url.Values{"address": {nem.PlainAddress(address)}}
	err := c.get(ctx, "/account/mosaic/owned", query, &res)
	if err != nil {
		return nil, fmt.Errorf("could not get owned mosaics: %w", err)
	}

	balances := make([]nem.Mosaic, 0, len(res.Data))
	for _, owned := range res.Data {
		balances = append(balances, nem.Mosaic{
			AssetID: owned.MosaicID.NamespaceID + ":" + owned.MosaicID.Name,
			Amount:  owned.Quantity,
		})
	}

	return balances, nil
}

// Announce relays a signed transaction to the node and returns the
// node's verdict without interpreting it.
func (c *Client) Announce(ctx context.Context, signed nem.SignedTransaction) (nem.AnnounceResult, error) {

	req := struct {
		Data      string `json:"data"`
		Signature string `json:"signature"`
	}{
		Data:      signed.Payload,
		Signature: signed.Signature,
	}
	var res struct {
		Code            int    `json:"code"`
		Message         string `json:"message"`
		TransactionHash struct {
			Data string `json:"data"`
		} `json:"transactionHash"`
	}
	err := c.post(ctx, "/transaction/announce", req, &res)
	if err != nil {
		return nem.AnnounceResult{}, fmt.Errorf("could not announce transaction: %w", err)
	}

	result := nem.AnnounceResult{
		Code:    res.Code,
		Message: res.Message,
		TxHash:  res.TransactionHash.Data,
	}

	return result, nil
}

// TransactionByHash looks up a confirmed transaction. It returns no info
// and no error when the node does not know the hash.
func (c *Client) TransactionByHash(ctx context.Context, hash string) (*nem.TransactionInfo, error) {

	var res struct {
		Meta struct {
			Height uint64 `json:"height"`
			Hash   struct {
				Data string `json:"data"`
			} `json:"hash"`
		} `json:"meta"`
		Transaction struct {
			TimeStamp int64  `json:"timeStamp"`
			Signer    string `json:"signer"`
			Recipient string `json:"recipient"`
			Amount    uint64 `json:"amount"`
			Mosaics   []struct {
				MosaicID struct {
					NamespaceID string `json:"namespaceId"`
					Name        string `json:"name"`
				} `json:"mosaicId"`
				Quantity uint64 `json:"quantity"`
			} `json:"mosaics"`
		} `json:"transaction"`
	}
	query := url.Values{"hash": {hash}}
	err := c.get(ctx, "/transaction/get", query, &res)
	var nodeErr *nodeError
	if errors.As(err, &nodeErr) && nodeErr.Status == http.StatusBadRequest {
		// NIS answers a lookup of an unknown hash with a client error.
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("could not get transaction: %w", err)
	}

	mosaics := make([]nem.Mosaic, 0, len(res.Transaction.Mosaics))
	for _, attached := range res.Transaction.Mosaics {
		mosaics = append(mosaics, nem.Mosaic{
			AssetID: attached.MosaicID.NamespaceID + ":" + attached.MosaicID.Name,
			Amount:  attached.Quantity,
		})
	}
	// Version one transfers carry the amount directly instead of an
	// attached mosaic list.
	if len(mosaics) == 0 {
		mosaics = append(mosaics, nem.Mosaic{
			AssetID: nem.XEM,
			Amount:  res.Transaction.Amount,
		})
	}

	info := nem.TransactionInfo{
		Hash:      res.Meta.Hash.Data,
		Height:    res.Meta.Height,
		Timestamp: nemEpoch.Add(time.Duration(res.Transaction.TimeStamp) * time.Second),
		Signer:    res.Transaction.Signer,
		Recipient: res.Transaction.Recipient,
		Mosaics:   mosaics,
	}

	return &info, nil
}

// BlockByHeight returns the block at the given height.
func (c *Client) BlockByHeight(ctx context.Context, height uint64) (nem.Block, error) {

	req := struct {
		Height uint64 `json:"height"`
	}{
		Height: height,
	}
	var res struct {
		TimeStamp int64 `json:"timeStamp"`
	}
	err := c.post(ctx, "/block/at/public", req, &res)
	if err != nil {
		return nem.Block{}, fmt.Errorf("could not get block: %w", err)
	}

	block := nem.Block{
		Height:    height,
		Timestamp: nemEpoch.Add(time.Duration(res.TimeStamp) * time.Second),
	}

	return block, nil
}

func (c *Client) get(ctx context.Context, path string, query url.Values, out interface{}) error {

	target := c.host + path
	if len(query) > 0 {
		target += "?" + query.Encode()
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, target, nil)
	if err != nil {
		return fmt.Errorf("could not create request: %w", err)
	}

	return c.do(req, out)
}

func (c *Client) post(ctx context.Context, path string, in interface{}, out interface{}) error {

	body, err := json.Marshal(in)
	if err != nil {
		return fmt.Errorf("could not encode request: %w", err)
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.host+path, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("could not create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	return c.do(req, out)
}

func (c *Client) do(req *http.Request, out interface{}) error {

	res, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("could not execute request: %w", err)
	}
	defer res.Body.Close()

	body, err := io.ReadAll(res.Body)
	if err != nil {
		return fmt.Errorf("could not read response: %w", err)
	}

	if res.StatusCode != http.StatusOK {
		nodeErr := nodeError{Status: res.StatusCode}
		// NIS wraps errors in a JSON envelope with a message field.
		var envelope struct {
			Message string `json:"message"`
		}
		if json.Unmarshal(body, &envelope) == nil {
			nodeErr.Message = envelope.Message
		}
		c.log.Debug().
			Str("path", req.URL.Path).
			Int("status", res.StatusCode).
			Str("message", nodeErr.Message).
			Msg("node returned error")
		return &nodeErr
	}

	err = json.Unmarshal(body, out)
	if err != nil {
		return fmt.Errorf("could not decode response: %w", err)
	}

	return nil
}
