// File: core/protocol/byteorder.go
// Package protocol
// Author: momentics <momentics@gmail.com>
//
// Host-endian-conditional byte swap for wire integers. The WebSocket wire
// format is always big-endian (network byte order); on a big-endian host
// CondByteSwap is the identity, on a little-endian host it reverses the
// bytes, matching RFC 6455's multi-byte length and close-code fields.

package protocol

import (
	"encoding/binary"
	"math/bits"
)

var hostIsLittleEndian = binary.NativeEndian.Uint16([]byte{1, 0}) == 1

// CondByteSwap16 returns v with its bytes reversed on a little-endian host,
// unchanged on a big-endian host.
func CondByteSwap16(v uint16) uint16 {
	if hostIsLittleEndian {
		return bits.ReverseBytes16(v)
	}
	return v
}

// CondByteSwap64 returns v with its bytes reversed on a little-endian host,
// unchanged on a big-endian host.
func CondByteSwap64(v uint64) uint64 {
	if hostIsLittleEndian {
		return bits.ReverseBytes64(v)
	}
	return v
}
