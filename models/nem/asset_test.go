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

package nem_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/optakt/nem-adapter/models/nem"
)

func TestAsset_ToBaseUnit(t *testing.T) {
	asset := nem.Asset{ID: nem.XEM, Name: "XEM", Accuracy: 6}

	t.Run("nominal cases", func(t *testing.T) {
		t.Parallel()

		vectors := []struct {
			amount string
			want   uint64
		}{
			{amount: "10", want: 10_000_000},
			{amount: "0.05", want: 50_000},
			{amount: "1.234567", want: 1_234_567},
			{amount: "0.000001", want: 1},
			{amount: "8999999999", want: 8_999_999_999_000_000},
		}

		for _, vector := range vectors {
			got, err := asset.ToBaseUnit(vector.amount)
			require.NoError(t, err)
			assert.Equal(t, vector.want, got)
		}
	})

	t.Run("rejects excess precision", func(t *testing.T) {
		t.Parallel()

		_, err := asset.ToBaseUnit("0.0000001")
		assert.Error(t, err)
	})

	t.Run("rejects malformed amounts", func(t *testing.T) {
		t.Parallel()

		for _, amount := range []string{"", "-1", "1.2.3", "abc", "1,5"} {
			_, err := asset.ToBaseUnit(amount)
			assert.Error(t, err, amount)
		}
	})

	t.Run("rejects overflow", func(t *testing.T) {
		t.Parallel()

		_, err := asset.ToBaseUnit("99999999999999999999")
		assert.Error(t, err)
	})
}

func TestAsset_FromBaseUnit(t *testing.T) {
	asset := nem.Asset{ID: nem.XEM, Name: "XEM", Accuracy: 6}

	vectors := []struct {
		base uint64
		want string
	}{
		{base: 10_000_000, want: "10"},
		{base: 50_000, want: "0.05"},
		{base: 1_234_567, want: "1.234567"},
		{base: 1, want: "0.000001"},
		{base: 0, want: "0"},
	}

	for _, vector := range vectors {
		assert.Equal(t, vector.want, asset.FromBaseUnit(vector.base))
	}
}

func TestAsset_RoundTrip(t *testing.T) {
	asset := nem.Asset{ID: nem.XEM, Name: "XEM", Accuracy: 6}

	for _, amount := range []string{"10", "0.05", "1.234567", "0.000001"} {
		base, err := asset.ToBaseUnit(amount)
		require.NoError(t, err)
		assert.Equal(t, amount, asset.FromBaseUnit(base))
	}
}
