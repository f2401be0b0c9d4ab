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

package registry_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/optakt/nem-adapter/nem/failure"
	"github.com/optakt/nem-adapter/nem/registry"
	"github.com/optakt/nem-adapter/testing/mocks"
)

func TestRegistry_Observe(t *testing.T) {
	t.Parallel()

	t.Run("nominal case", func(t *testing.T) {
		t.Parallel()

		read := mocks.BaselineReader(t)
		read.IsObservedFunc = func(address string) (bool, error) {
			assert.Equal(t, mocks.GenericSender, address)
			return false, nil
		}

		recorded := ""
		write := mocks.BaselineWriter(t)
		write.ObservedFunc = func(address string) error {
			recorded = address
			return nil
		}

		reg := registry.New(read, write)

		err := reg.Observe(mocks.GenericSender)

		require.NoError(t, err)
		assert.Equal(t, mocks.GenericSender, recorded)
	})

	t.Run("handles invalid address", func(t *testing.T) {
		t.Parallel()

		read := mocks.BaselineReader(t)
		write := mocks.BaselineWriter(t)

		reg := registry.New(read, write)

		err := reg.Observe("not-an-address")

		var iaErr failure.InvalidAddress
		assert.ErrorAs(t, err, &iaErr)
	})

	t.Run("handles address already observed", func(t *testing.T) {
		t.Parallel()

		read := mocks.BaselineReader(t)
		read.IsObservedFunc = func(string) (bool, error) {
			return true, nil
		}
		write := mocks.BaselineWriter(t)
		write.ObservedFunc = func(string) error {
			t.Fatal("unexpected call to write.Observed")
			return nil
		}

		reg := registry.New(read, write)

		err := reg.Observe(mocks.GenericSender)

		var aoErr failure.AddressObserved
		assert.ErrorAs(t, err, &aoErr)
	})

	t.Run("handles observation check failure", func(t *testing.T) {
		t.Parallel()

		read := mocks.BaselineReader(t)
		read.IsObservedFunc = func(string) (bool, error) {
			return false, mocks.GenericError
		}
		write := mocks.BaselineWriter(t)

		reg := registry.New(read, write)

		err := reg.Observe(mocks.GenericSender)

		assert.Error(t, err)
	})

	t.Run("handles write failure", func(t *testing.T) {
		t.Parallel()

		read := mocks.BaselineReader(t)
		read.IsObservedFunc = func(string) (bool, error) {
			return false, nil
		}
		write := mocks.BaselineWriter(t)
		write.ObservedFunc = func(string) error {
			return mocks.GenericError
		}

		reg := registry.New(read, write)

		err := reg.Observe(mocks.GenericSender)

		assert.Error(t, err)
	})
}

func TestRegistry_Unobserve(t *testing.T) {
	t.Parallel()

	t.Run("nominal case", func(t *testing.T) {
		t.Parallel()

		read := mocks.BaselineReader(t)

		removed := ""
		write := mocks.BaselineWriter(t)
		write.UnobservedFunc = func(address string) error {
			removed = address
			return nil
		}

		reg := registry.New(read, write)

		err := reg.Unobserve(mocks.GenericSender)

		require.NoError(t, err)
		assert.Equal(t, mocks.GenericSender, removed)
	})

	t.Run("address never observed is not an error", func(t *testing.T) {
		t.Parallel()

		read := mocks.BaselineReader(t)
		write := mocks.BaselineWriter(t)

		reg := registry.New(read, write)

		err := reg.Unobserve(mocks.GenericSender)

		assert.NoError(t, err)
	})

	t.Run("handles invalid address", func(t *testing.T) {
		t.Parallel()

		read := mocks.BaselineReader(t)
		write := mocks.BaselineWriter(t)
		write.UnobservedFunc = func(string) error {
			t.Fatal("unexpected call to write.Unobserved")
			return nil
		}

		reg := registry.New(read, write)

		err := reg.Unobserve("not-an-address")

		var iaErr failure.InvalidAddress
		assert.ErrorAs(t, err, &iaErr)
	})

	t.Run("handles write failure", func(t *testing.T) {
		t.Parallel()

		read := mocks.BaselineReader(t)
		write := mocks.BaselineWriter(t)
		write.UnobservedFunc = func(string) error {
			return mocks.GenericError
		}

		reg := registry.New(read, write)

		err := reg.Unobserve(mocks.GenericSender)

		assert.Error(t, err)
	})
}

func TestRegistry_IsObserved(t *testing.T) {
	t.Parallel()

	read := mocks.BaselineReader(t)
	read.IsObservedFunc = func(address string) (bool, error) {
		assert.Equal(t, mocks.GenericSender, address)
		return true, nil
	}
	write := mocks.BaselineWriter(t)

	reg := registry.New(read, write)

	observed, err := reg.IsObserved(mocks.GenericSender)

	require.NoError(t, err)
	assert.True(t, observed)
}

func TestRegistry_List(t *testing.T) {
	t.Parallel()

	read := mocks.BaselineReader(t)
	read.ObservedAddressesFunc = func(take int, continuation string) ([]string, string, error) {
		assert.Equal(t, 10, take)
		assert.Equal(t, "token", continuation)
		return []string{mocks.GenericSender, mocks.GenericRecipient}, "next", nil
	}
	write := mocks.BaselineWriter(t)

	reg := registry.New(read, write)

	addresses, next, err := reg.List(10, "token")

	require.NoError(t, err)
	assert.Equal(t, []string{mocks.GenericSender, mocks.GenericRecipient}, addresses)
	assert.Equal(t, "next", next)
}
