package storage

import (
	"encoding/binary"
	"fmt"
	"time"

	"github.com/google/uuid"
)

// EncodeKey produces a storage key from a prefix and a sequence of
// segments. Unsigned integers and timestamps are encoded big-endian, so
// that the byte order of the keys matches their natural order and range
// scans over the expiry index work on raw keys.
func EncodeKey(prefix uint8, segments ...interface{}) []byte {
	key := []byte{prefix}
	var val []byte
	for _, segment := range segments {
		switch s := segment.(type) {
		case uint64:
			val = make([]byte, 8)
			binary.BigEndian.PutUint64(val, s)
		case time.Time:
			val = make([]byte, 8)
			binary.BigEndian.PutUint64(val, uint64(s.UTC().UnixNano()))
		case uuid.UUID:
			val = make([]byte, 16)
			copy(val, s[:])
		case string:
			val = []byte(s)
		default:
			panic(fmt.Sprintf("unknown type (%T)", segment))
		}
		key = append(key, val...)
	}

	return key
}
