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
	"fmt"
	"math"
	"strings"
)

// Asset describes one mosaic known to the adapter. The accuracy is the
// number of decimal places used to scale display amounts to the mosaic's
// smallest indivisible unit.
type Asset struct {
	ID       string
	Address  string
	Name     string
	Accuracy uint
}

// ToBaseUnit converts a decimal amount string into base units according to
// the asset's accuracy. It fails on malformed input, on amounts with more
// decimal places than the accuracy allows and on values that do not fit
// into an unsigned 64-bit integer.
func (a Asset) ToBaseUnit(amount string) (uint64, error) {

	amount = strings.TrimSpace(amount)
	if amount == "" {
		return 0, fmt.Errorf("amount is empty")
	}
	if strings.HasPrefix(amount, "-") || strings.HasPrefix(amount, "+") {
		return 0, fmt.Errorf("amount must be an unsigned decimal (amount: %s)", amount)
	}

	whole := amount
	frac := ""
	if i := strings.IndexByte(amount, '.'); i >= 0 {
		whole, frac = amount[:i], amount[i+1:]
	}
	if whole == "" {
		whole = "0"
	}
	if uint(len(frac)) > a.Accuracy {
		return 0, fmt.Errorf("amount has too many decimal places (amount: %s, accuracy: %d)", amount, a.Accuracy)
	}

	// Right-pad the fractional part to the full accuracy, so that the
	// concatenation of both parts reads as the base unit amount.
	frac = frac + strings.Repeat("0", int(a.Accuracy)-len(frac))

	var base uint64
	for _, c := range whole + frac {
		if c < '0' || c > '9' {
			return 0, fmt.Errorf("amount is not a valid decimal (amount: %s)", amount)
		}
		digit := uint64(c - '0')
		if base > (math.MaxUint64-digit)/10 {
			return 0, fmt.Errorf("amount overflows base unit range (amount: %s)", amount)
		}
		base = base*10 + digit
	}

	return base, nil
}

// FromBaseUnit converts a base unit amount into its decimal string
// representation according to the asset's accuracy.
func (a Asset) FromBaseUnit(base uint64) string {

	if a.Accuracy == 0 {
		return fmt.Sprintf("%d", base)
	}

	digits := fmt.Sprintf("%0*d", a.Accuracy+1, base)
	cut := len(digits) - int(a.Accuracy)
	whole, frac := digits[:cut], digits[cut:]
	frac = strings.TrimRight(frac, "0")
	if frac == "" {
		return whole
	}

	return whole + "." + frac
}
