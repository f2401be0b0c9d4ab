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

package catalog

import (
	"errors"
	"fmt"

	"github.com/dgraph-io/ristretto"

	"github.com/optakt/nem-adapter/models/nem"
	"github.com/optakt/nem-adapter/nem/failure"
)

// Reader reads asset records from the on-disk index.
type Reader interface {
	Asset(assetID string) (*nem.Asset, error)
	Assets(take int, continuation string) ([]nem.Asset, string, error)
}

// Writer upserts asset records into the on-disk index.
type Writer interface {
	Asset(asset *nem.Asset) error
}

// Catalog maps asset identifiers to their on-chain metadata. Lookups go
// through a read-through cache, since the same few assets are resolved on
// every build and balance request.
type Catalog struct {
	read  Reader
	write Writer
	cache *ristretto.Cache
}

// New creates a new asset catalog on top of the given index reader and
// writer.
func New(read Reader, write Writer) (*Catalog, error) {

	// Asset records are tiny; the cache is bounded by item count rather
	// than by memory footprint.
	cache, err := ristretto.NewCache(&ristretto.Config{
		NumCounters: 10_000,
		MaxCost:     1_000,
		BufferItems: 64,
	})
	if err != nil {
		return nil, fmt.Errorf("could not initialize cache: %w", err)
	}

	c := Catalog{
		read:  read,
		write: write,
		cache: cache,
	}

	return &c, nil
}

// Lookup resolves the asset with the given identifier.
func (c *Catalog) Lookup(assetID string) (*nem.Asset, error) {

	cached, ok := c.cache.Get(assetID)
	if ok {
		asset := cached.(nem.Asset)
		return &asset, nil
	}

	asset, err := c.read.Asset(assetID)
	if errors.Is(err, nem.ErrNotFound) {
		return nil, failure.UnknownAsset{
			Description: failure.NewDescription("asset is not registered",
				failure.WithString("asset", assetID),
			),
			AssetID: assetID,
		}
	}
	if err != nil {
		return nil, fmt.Errorf("could not look up asset: %w", err)
	}

	c.cache.Set(assetID, *asset, 1)

	return asset, nil
}

// Upsert creates or updates the asset record and drops any cached copy.
func (c *Catalog) Upsert(asset nem.Asset) error {
	err := c.write.Asset(&asset)
	if err != nil {
		return fmt.Errorf("could not upsert asset: %w", err)
	}

	c.cache.Del(asset.ID)

	return nil
}

// List returns one page of registered assets.
func (c *Catalog) List(take int, continuation string) ([]nem.Asset, string, error) {
	return c.read.Assets(take, continuation)
}
