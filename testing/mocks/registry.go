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
)

type Registry struct {
	ObserveFunc    func(address string) error
	UnobserveFunc  func(address string) error
	IsObservedFunc func(address string) (bool, error)
	ListFunc       func(take int, continuation string) ([]string, string, error)
}

func BaselineRegistry(t *testing.T) *Registry {
	t.Helper()

	r := Registry{
		ObserveFunc: func(string) error {
			return nil
		},
		UnobserveFunc: func(string) error {
			return nil
		},
		IsObservedFunc: func(string) (bool, error) {
			return true, nil
		},
		ListFunc: func(int, string) ([]string, string, error) {
			return []string{GenericSender}, "", nil
		},
	}

	return &r
}

func (r *Registry) Observe(address string) error {
	return r.ObserveFunc(address)
}

func (r *Registry) Unobserve(address string) error {
	return r.UnobserveFunc(address)
}

func (r *Registry) IsObserved(address string) (bool, error) {
	return r.IsObservedFunc(address)
}

func (r *Registry) List(take int, continuation string) ([]string, string, error) {
	return r.ListFunc(take, continuation)
}
