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
	"github.com/go-playground/validator/v10"

	"github.com/optakt/nem-adapter/models/nem"
)

// Validator plugs struct validation into the HTTP framework.
type Validator struct {
	validate *validator.Validate
}

// NewValidator creates a request validator with the network address rule
// registered.
func NewValidator() *Validator {

	validate := validator.New()
	_ = validate.RegisterValidation("nemaddress", func(fl validator.FieldLevel) bool {
		return nem.ValidAddress(fl.Field().String())
	})

	v := Validator{
		validate: validate,
	}

	return &v
}

// Validate implements the framework's validation hook.
func (v *Validator) Validate(in interface{}) error {
	return v.validate.Struct(in)
}
