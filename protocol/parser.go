// File: protocol/parser.go
//
// Parser is the incremental WebSocket frame parser: the central state
// machine this package exists for. It accepts arbitrary byte chunks as
// they arrive from a transport, reconstructs logical frames (respecting
// fragmentation, masking, control frames, and reserved-bit semantics),
// and drives a Consumer via SetCompressed/RefusePayloadLength/
// HandleFragment/ForceClose. It performs no allocation and unmasks
// payloads in place.
//
// Parser is grounded on WebSocketProtocol<isServer,Impl> from the
// engine this package ports; role is a construction-time field rather
// than a template parameter (see DESIGN.md, Open Question 1).

package protocol

import (
	"encoding/binary"

	wire "github.com/relaywire/wsframe/core/protocol"
)

// Parser reconstructs WebSocket messages from a byte stream for one
// connection. It is not safe for concurrent use by multiple goroutines
// against the same ParserState; all state is owned by a single logical
// parser task, matching the engine's single-threaded-per-connection
// model.
type Parser struct {
	role     wire.Role
	consumer Consumer
}

// NewParser returns a Parser that expects incoming frames masked iff
// role is wire.ServerRole (the wire rule is "clients always mask";
// a server parser is reading client-sent, masked frames, while a
// client parser is reading server-sent, unmasked frames).
func NewParser(role wire.Role, consumer Consumer) *Parser {
	return &Parser{role: role, consumer: consumer}
}

// masked reports whether frames this Parser reads from the wire carry
// a mask key, per the "clients always mask" rule.
func (p *Parser) masked() bool {
	return p.role == wire.ServerRole
}

// Consume processes buf, driving the Consumer as complete frames and
// frame fragments are recognized, and updating state for any data left
// over at a chunk boundary (a partial header goes to state.spill; a
// partial payload is tracked via state.remainingBytes/state.mask).
//
// buf is mutated in place: masked payloads are unmasked as they are
// delivered. The caller must not reuse buf's bytes as a still-masked
// payload after a Consume call that delivered them.
func (p *Parser) Consume(buf []byte, state *ParserState) {
	if !state.wantsHead {
		rest, completed := p.consumeContinuation(buf, state)
		if !completed {
			return
		}
		buf = rest
	}
	p.consumeHeaders(buf, state)
}

// headerByte returns the logical byte at position i of the stream
// formed by prepending state.spill[:state.spillLength] to buf, without
// physically concatenating the two. Header fields never reach past the
// longest possible header, so this is the only stitching the parser
// needs across a spilled header boundary.
func (p *Parser) headerByte(buf []byte, state *ParserState, i int) byte {
	if i < state.spillLength {
		return state.spill[i]
	}
	return buf[i-state.spillLength]
}

// headerUint16 reads a big-endian uint16 starting at logical offset
// off. When the two bytes are wholly within buf (the common case, no
// pending spill) it takes the fast path ported from the original's
// bit_cast+cond_byte_swap pair; otherwise it composes the value
// byte-by-byte across the spill/buf boundary.
func (p *Parser) headerUint16(buf []byte, state *ParserState, off int) uint16 {
	if state.spillLength == 0 && off+2 <= len(buf) {
		return wire.CondByteSwap16(binary.NativeEndian.Uint16(buf[off : off+2]))
	}
	return uint16(p.headerByte(buf, state, off))<<8 | uint16(p.headerByte(buf, state, off+1))
}

// headerUint64 is headerUint16's 8-byte counterpart, used for the
// 64-bit extended payload length field.
func (p *Parser) headerUint64(buf []byte, state *ParserState, off int) uint64 {
	if state.spillLength == 0 && off+8 <= len(buf) {
		return wire.CondByteSwap64(binary.NativeEndian.Uint64(buf[off : off+8]))
	}
	var v uint64
	for i := 0; i < 8; i++ {
		v = v<<8 | uint64(p.headerByte(buf, state, off+i))
	}
	return v
}

// headerMask extracts the 4-byte mask key occupying the last four bytes
// of a headerSize-byte header, which may itself straddle the
// spill/buf boundary.
func (p *Parser) headerMask(buf []byte, state *ParserState, headerSize int) [4]byte {
	var mask [4]byte
	base := headerSize - 4
	for i := 0; i < 4; i++ {
		mask[i] = p.headerByte(buf, state, base+i)
	}
	return mask
}

// consumeHeaders is the main loop: while enough bytes remain for at
// least the shortest possible header, parse one frame header, validate
// it, and either deliver its payload in full or hand off to the
// straddling-chunk path and return. Any bytes left over that are too
// few to form a header are copied into state.spill for the next call.
func (p *Parser) consumeHeaders(buf []byte, state *ParserState) {
	shortHeader, mediumHeader, longHeader := wire.HeaderSizes(p.masked())

	var effLen int
headerLoop:
	for {
		effLen = state.spillLength + len(buf)
		if effLen < shortHeader {
			break headerLoop
		}

		b0 := p.headerByte(buf, state, 0)
		b1 := p.headerByte(buf, state, 1)
		fin := b0&wire.FinBit != 0
		rsv1 := b0&wire.Rsv1Bit != 0
		rsv23 := b0&(wire.Rsv2Bit|wire.Rsv3Bit) != 0
		op := wire.OpCode(b0 & wire.OpCodeMask)
		lenMarker := b1 & wire.LenMask

		if (rsv1 && !p.consumer.SetCompressed(state)) || rsv23 ||
			(op > wire.OpcodeBinary && op < wire.OpcodeClose) || op > wire.OpcodePong ||
			(op > wire.OpcodeBinary && (!fin || lenMarker > wire.MaxControlPayloadLen)) {
			p.consumer.ForceClose(state, wire.ErrProtocol)
			return
		}

		var headerSize, payLen int
		switch {
		case lenMarker < wire.Len16Marker:
			headerSize = shortHeader
			payLen = int(lenMarker)
		case lenMarker == wire.Len16Marker:
			if effLen < mediumHeader {
				break headerLoop
			}
			headerSize = mediumHeader
			payLen = int(p.headerUint16(buf, state, 2))
		default:
			if effLen < longHeader {
				break headerLoop
			}
			headerSize = longHeader
			payLen = int(p.headerUint64(buf, state, 2))
		}

		if op != wire.OpcodeContinuation {
			if state.opStack == errorOpStack || (!state.lastFin && op == wire.OpcodeText) {
				p.consumer.ForceClose(state, wire.ErrProtocol)
				return
			}
			state.opStack++
			state.opCode[state.opStack] = op
		} else if state.opStack == idleOpStack {
			p.consumer.ForceClose(state, wire.ErrProtocol)
			return
		}
		state.lastFin = fin
		topOp := state.opCode[state.opStack]

		if p.consumer.RefusePayloadLength(payLen, state) {
			p.consumer.ForceClose(state, wire.ErrTooBigMessage)
			return
		}

		bufPayloadStart := headerSize - state.spillLength

		if payLen+headerSize <= effLen {
			payload := buf[bufPayloadStart : bufPayloadStart+payLen]
			if p.masked() {
				unmaskFull(payload, p.headerMask(buf, state, headerSize))
			}
			abort := p.consumer.HandleFragment(payload, 0, topOp, fin, state)
			if fin {
				state.opStack--
			}
			buf = buf[bufPayloadStart+payLen:]
			state.spillLength = 0
			if abort {
				return
			}
			continue headerLoop
		}

		// Payload straddles this chunk's end: hand off the bytes
		// present so far and park the rest for consumeContinuation.
		partial := buf[bufPayloadStart:]
		state.remainingBytes = payLen - len(partial)
		state.spillLength = 0
		state.wantsHead = false
		if p.masked() {
			mask := p.headerMask(buf, state, headerSize)
			unmaskFull(partial, mask)
			state.mask = rotateMask(mask, maskRotationOffset(len(partial)))
		}
		p.consumer.HandleFragment(partial, state.remainingBytes, topOp, fin, state)
		return
	}

	if effLen > 0 {
		old := state.spillLength
		copy(state.spill[old:effLen], buf)
		state.spillLength = effLen
	}
}

// consumeContinuation delivers additional bytes of a frame whose
// payload was already in progress when Consume was called. It returns
// the unconsumed remainder of buf and true when the frame's payload
// completed and header parsing should resume on that remainder; it
// returns nil, false when there is nothing left to parse in this
// Consume call, either because the frame is still incomplete or the
// Consumer aborted by returning true from HandleFragment.
func (p *Parser) consumeContinuation(buf []byte, state *ParserState) ([]byte, bool) {
	topOp := state.opCode[state.opStack]

	if state.remainingBytes <= len(buf) {
		chunk := buf[:state.remainingBytes]
		if p.masked() {
			unmaskFull(chunk, state.mask)
		}
		abort := p.consumer.HandleFragment(chunk, 0, topOp, state.lastFin, state)
		if state.lastFin {
			state.opStack--
		}
		state.wantsHead = true
		rest := buf[state.remainingBytes:]
		state.remainingBytes = 0
		if abort {
			return nil, false
		}
		return rest, true
	}

	if p.masked() {
		unmaskFull(buf, state.mask)
		state.mask = rotateMask(state.mask, maskRotationOffset(len(buf)))
	}
	state.remainingBytes -= len(buf)
	p.consumer.HandleFragment(buf, state.remainingBytes, topOp, state.lastFin, state)
	return nil, false
}
