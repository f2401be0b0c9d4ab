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

	"github.com/optakt/nem-adapter/models/nem"
)

func TestValidAddress(t *testing.T) {

	valid := []string{
		"TALICE2GMA34CXHD7XLJQ536NM5UNKQHTORNNT2J",
		"NALICE2GMA34CXHD7XLJQ536NM5UNKQHTORNNT2J",
		"MALICE2GMA34CXHD7XLJQ536NM5UNKQHTORNNT2J",
		"TALICE-2GMA34-CXHD7X-LJQ536-NM5UNK-QHTORN-NT2J",
		"talice2gma34cxhd7xljq536nm5unkqhtornnt2j",
		"TALICE2GMA34CXHD7XLJQ536NM5UNKQHTORNNT2J$order-42",
	}
	for _, address := range valid {
		assert.True(t, nem.ValidAddress(address), address)
	}

	invalid := []string{
		"",
		"TALICE",
		"XALICE2GMA34CXHD7XLJQ536NM5UNKQHTORNNT2J",
		"TALICE2GMA34CXHD7XLJQ536NM5UNKQHTORNNT2",
		"TALICE2GMA34CXHD7XLJQ536NM5UNKQHTORNNT2J2",
		"TALICE2GMA34CXHD7XLJQ536NM5UNKQHT0RNNT2J",
		"$order-42",
	}
	for _, address := range invalid {
		assert.False(t, nem.ValidAddress(address), address)
	}
}

func TestPlainAddress(t *testing.T) {
	assert.Equal(t,
		"TALICE2GMA34CXHD7XLJQ536NM5UNKQHTORNNT2J",
		nem.PlainAddress("talice-2gma34-cxhd7x-ljq536-nm5unk-qhtorn-nt2j$order-42"),
	)
}

func TestAddressMessage(t *testing.T) {
	assert.Equal(t, "order-42", nem.AddressMessage("TALICE2GMA34CXHD7XLJQ536NM5UNKQHTORNNT2J$order-42"))
	assert.Equal(t, "", nem.AddressMessage("TALICE2GMA34CXHD7XLJQ536NM5UNKQHTORNNT2J"))
}
