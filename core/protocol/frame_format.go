// File: core/protocol/frame_format.go
// Package protocol
// Author: momentics <momentics@gmail.com>
//
// Frame formatter: given an opcode, payload, compression bit, FIN bit,
// and role, writes a well-formed WebSocket frame header and payload,
// applying the client mask when role is Client.

package protocol

import (
	"encoding/binary"
	"math/rand/v2"
)

// Role selects header sizes and mask behavior. Server frames carry no
// mask; client frames carry a 4-byte mask the receiver must strip.
type Role bool

const (
	ServerRole Role = false
	ClientRole Role = true
)

// HeaderSizes returns the {short, medium, long} header byte counts for a
// masked or unmasked frame, indexed by payload-length bucket (<126,
// ==126, ==127). Masked frames (always client->server on the wire)
// carry an extra 4 bytes for the mask key.
//
// Both the formatter and the incremental parser use this: the formatter
// masks outgoing frames iff its role is Client, while the parser expects
// incoming frames to be masked iff its role is Server (the two sides of
// the same "client always masks" rule).
func HeaderSizes(masked bool) (short, medium, long int) {
	if masked {
		return ShortMessageHeaderClient, MediumMessageHeaderClient, LongMessageHeaderClient
	}
	return ShortMessageHeaderServer, MediumMessageHeaderServer, LongMessageHeaderServer
}

// MessageFrameSize returns the number of bytes FormatMessage would write
// for a payload of length n under the given role: header(role, n) + n.
func MessageFrameSize(role Role, n int) int {
	short, medium, long := HeaderSizes(role == ClientRole)
	switch {
	case n < 126:
		return short + n
	case n <= 0xFFFF:
		return medium + n
	default:
		return long + n
	}
}

// FormatMessage writes a complete WebSocket frame for src[:length] into
// dst, returning the total number of bytes written (header + payload).
//
// reportedLength may differ from length: the header advertises
// reportedLength (used by compression to advertise the pre-compression
// size) while only length bytes of payload are copied from src.
//
// dst must have room for MessageFrameSize(role, max(length, reportedLength)).
// When role is ClientRole, a fresh 4-byte mask is generated and the
// payload is XOR'd into dst as it is copied; the mask is not
// cryptographically strong but varies per call.
func FormatMessage(dst []byte, src []byte, length int, opCode OpCode, reportedLength int, compressed, fin bool, role Role) int {
	var headerLength int
	switch {
	case reportedLength < 126:
		headerLength = 2
		dst[1] = byte(reportedLength)
	case reportedLength <= 0xFFFF:
		headerLength = 4
		dst[1] = Len16Marker
		binary.BigEndian.PutUint16(dst[2:4], uint16(reportedLength))
	default:
		headerLength = 10
		dst[1] = Len64Marker
		binary.BigEndian.PutUint64(dst[2:10], uint64(reportedLength))
	}

	var finBit, compressedBit byte
	if fin {
		finBit = FinBit
	}
	if compressed && opCode != OpcodeContinuation {
		compressedBit = Rsv1Bit
	}
	dst[0] = finBit | compressedBit | byte(opCode)&OpCodeMask

	if role != ClientRole {
		copy(dst[headerLength:headerLength+length], src[:length])
		return headerLength + length
	}

	dst[1] |= MaskBit
	var mask [4]byte
	genMask(&mask)
	copy(dst[headerLength:headerLength+4], mask[:])
	headerLength += 4
	xorCopy(dst[headerLength:headerLength+length], src[:length], mask)
	return headerLength + length
}

// FormatMessageFlags writes a frame like FormatMessage, but takes the
// FIN/compressed/continuation bits as a SendFlags bitmask instead of
// three separate arguments, for callers that build up a frame's
// options incrementally rather than passing booleans directly. When
// flags has SndContinuation set, opCode is overridden to
// OpcodeContinuation, matching a continuation frame's wire requirement
// of carrying opcode 0 regardless of the message's original data
// opcode.
func FormatMessageFlags(dst []byte, src []byte, length int, opCode OpCode, reportedLength int, flags SendFlags, role Role) int {
	if flags.Continuation() {
		opCode = OpcodeContinuation
	}
	return FormatMessage(dst, src, length, opCode, reportedLength, flags.Compressed(), flags.Fin(), role)
}

// genMask fills mask with four pseudo-random bytes. The source need not
// be cryptographically strong, only vary per call, matching the spec's
// "must vary per frame" contract for client-side masking.
func genMask(mask *[4]byte) {
	binary.BigEndian.PutUint32(mask[:], rand.Uint32())
}

// xorCopy copies src into dst while XOR-ing each byte with the repeating
// 4-byte mask, used for client-side outbound masking.
func xorCopy(dst, src []byte, mask [4]byte) {
	for i, b := range src {
		dst[i] = b ^ mask[i%4]
	}
}
