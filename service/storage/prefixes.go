package storage

const (
	PrefixOperation = 1
	PrefixExpiry    = 2
	PrefixTx        = 3
	PrefixObserved  = 4
	PrefixAsset     = 5
)
