package utils

import "encoding/binary"

// Int16FromBytesLE converts two little-endian bytes to a signed int16.
func Int16FromBytesLE(bytes []byte) int16 {
	return int16(binary.LittleEndian.Uint16(bytes))
}

