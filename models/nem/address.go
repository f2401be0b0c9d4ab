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

package nem

import (
	"strings"
)

// Encoded NEM addresses are 40 base32 characters; the dashed display form
// adds a dash every six characters.
const encodedAddressLength = 40

// ValidAddress checks whether the given string is a well-formed NEM address,
// ignoring any message suffix after the address separator. Both the plain
// and the dashed display encoding are accepted.
func ValidAddress(address string) bool {

	address = PlainAddress(address)
	if len(address) != encodedAddressLength {
		return false
	}

	for _, c := range address {
		valid := (c >= 'A' && c <= 'Z') || (c >= '2' && c <= '7')
		if !valid {
			return false
		}
	}

	// The first character encodes the network; anything else cannot be a
	// NEM address regardless of the checksum.
	switch address[0] {
	case 'N', 'T', 'M':
		return true
	default:
		return false
	}
}

// PlainAddress strips the optional message suffix and normalizes the
// address to its plain upper-case encoding.
func PlainAddress(address string) string {
	address = strings.SplitN(address, AddressSeparator, 2)[0]
	return strings.ToUpper(strings.ReplaceAll(address, "-", ""))
}

// AddressMessage returns the message suffix of an extended address, or an
// empty string when there is none.
func AddressMessage(address string) string {
	parts := strings.SplitN(address, AddressSeparator, 2)
	if len(parts) < 2 {
		return ""
	}
	return parts[1]
}
