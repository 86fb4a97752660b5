package ledger

import "encoding/binary"

func decodeU64(b []byte) uint64 {
	return binary.LittleEndian.Uint64(b)
}

func putU64(b []byte, v uint64) {
	binary.LittleEndian.PutUint64(b, v)
}
