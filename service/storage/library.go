package storage

import (
	"github.com/optakt/nem-adapter/models/nem"
)

// Library is the storage library.
type Library struct {
	codec nem.Codec
}

// New returns a new storage library using the given codec.
func New(codec nem.Codec) *Library {
	lib := Library{
		codec: codec,
	}

	return &lib
}
