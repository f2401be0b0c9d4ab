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

package mocks

import (
	"testing"

	"github.com/optakt/nem-adapter/models/nem"
)

type Catalog struct {
	LookupFunc func(assetID string) (*nem.Asset, error)
	UpsertFunc func(asset nem.Asset) error
	ListFunc   func(take int, continuation string) ([]nem.Asset, string, error)
}

func BaselineCatalog(t *testing.T) *Catalog {
	t.Helper()

	c := Catalog{
		LookupFunc: func(string) (*nem.Asset, error) {
			return GenericAsset(), nil
		},
		UpsertFunc: func(nem.Asset) error {
			return nil
		},
		ListFunc: func(int, string) ([]nem.Asset, string, error) {
			return []nem.Asset{*GenericAsset()}, "", nil
		},
	}

	return &c
}

func (c *Catalog) Lookup(assetID string) (*nem.Asset, error) {
	return c.LookupFunc(assetID)
}

func (c *Catalog) Upsert(asset nem.Asset) error {
	return c.UpsertFunc(asset)
}

func (c *Catalog) List(take int, continuation string) ([]nem.Asset, string, error) {
	return c.ListFunc(take, continuation)
}
