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

// Package nem implements the HTTP API of the adapter, following the
// integration contract of the exchange's blockchain API services.
package nem

import (
	"context"

	"github.com/google/uuid"

	"github.com/optakt/nem-adapter/models/nem"
	"github.com/optakt/nem-adapter/nem/builder"
	"github.com/optakt/nem-adapter/nem/broadcaster"
	"github.com/optakt/nem-adapter/nem/resolver"
)

// Builder creates signable transaction contexts.
type Builder interface {
	Build(ctx context.Context, req builder.Request) (*builder.Context, error)
}

// Broadcaster relays signed transactions to the network.
type Broadcaster interface {
	Broadcast(ctx context.Context, operationID uuid.UUID, signedPayload string) (*broadcaster.Result, error)
}

// Resolver settles the outcome of sent operations.
type Resolver interface {
	Resolve(ctx context.Context, operationID uuid.UUID) (*resolver.Status, error)
}

// Registry manages observed addresses.
type Registry interface {
	Observe(address string) error
	Unobserve(address string) error
	IsObserved(address string) (bool, error)
	List(take int, continuation string) ([]string, string, error)
}

// Catalog manages asset definitions.
type Catalog interface {
	Lookup(assetID string) (*nem.Asset, error)
	Upsert(asset nem.Asset) error
	List(take int, continuation string) ([]nem.Asset, string, error)
}

// OperationReader reads stored operation records.
type OperationReader interface {
	Operation(operationID uuid.UUID) (*nem.Operation, error)
}

// OperationWriter removes operation records from observation.
type OperationWriter interface {
	Deleted(operationID uuid.UUID) error
}

// API implements the HTTP handlers of the adapter.
type API struct {
	params    nem.Params
	ledger    nem.Ledger
	build     Builder
	broadcast Broadcaster
	resolve   Resolver
	registry  Registry
	catalog   Catalog
	read      OperationReader
	write     OperationWriter
}

// NewAPI creates the HTTP API on top of the given components.
func NewAPI(
	params nem.Params,
	ledger nem.Ledger,
	build Builder,
	broadcast Broadcaster,
	resolve Resolver,
	registry Registry,
	catalog Catalog,
	read OperationReader,
	write OperationWriter,
) *API {

	a := API{
		params:    params,
		ledger:    ledger,
		build:     build,
		broadcast: broadcast,
		resolve:   resolve,
		registry:  registry,
		catalog:   catalog,
		read:      read,
		write:     write,
	}

	return &a
}
