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

package registry

import (
	"fmt"

	"github.com/optakt/nem-adapter/models/nem"
	"github.com/optakt/nem-adapter/nem/failure"
)

// Reader reads the set of observed addresses.
type Reader interface {
	IsObserved(address string) (bool, error)
	ObservedAddresses(take int, continuation string) ([]string, string, error)
}

// Writer modifies the set of observed addresses.
type Writer interface {
	Observed(address string) error
	Unobserved(address string) error
}

// Registry manages the set of addresses under balance observation.
type Registry struct {
	read  Reader
	write Writer
}

// New creates a registry on top of the given observation index.
func New(read Reader, write Writer) *Registry {

	r := Registry{
		read:  read,
		write: write,
	}

	return &r
}

// Observe starts balance observation for the given address. Observing an
// address that is already observed is a conflict.
func (r *Registry) Observe(address string) error {

	if !nem.ValidAddress(address) {
		return failure.InvalidAddress{
			Description: failure.NewDescription("address is not a valid network address",
				failure.WithString("address", address),
			),
			Address: address,
		}
	}

	observed, err := r.read.IsObserved(address)
	if err != nil {
		return fmt.Errorf("could not check observation: %w", err)
	}
	if observed {
		return failure.AddressObserved{
			Description: failure.NewDescription("address is already under observation",
				failure.WithString("address", address),
			),
			Address: address,
		}
	}

	err = r.write.Observed(address)
	if err != nil {
		return fmt.Errorf("could not record observation: %w", err)
	}

	return nil
}

// Unobserve stops balance observation for the given address. Removing an
// address that was never observed is not an error.
func (r *Registry) Unobserve(address string) error {

	if !nem.ValidAddress(address) {
		return failure.InvalidAddress{
			Description: failure.NewDescription("address is not a valid network address",
				failure.WithString("address", address),
			),
			Address: address,
		}
	}

	err := r.write.Unobserved(address)
	if err != nil {
		return fmt.Errorf("could not remove observation: %w", err)
	}

	return nil
}

// IsObserved reports whether the given address is under observation.
func (r *Registry) IsObserved(address string) (bool, error) {
	return r.read.IsObserved(address)
}

// List returns a page of observed addresses with a continuation token
// for the next page.
func (r *Registry) List(take int, continuation string) ([]string, string, error) {
	return r.read.ObservedAddresses(take, continuation)
}
