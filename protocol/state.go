// File: protocol/state.go
//
// ParserState is the per-connection state block the incremental parser
// reads and mutates across Consume calls. It owns no heap memory and is
// safe to embed by value in a connection struct.

package protocol

import wire "github.com/relaywire/wsframe/core/protocol"

// idleOpStack is the opStack value meaning "no data message in progress".
// A Continuation opcode arriving while opStack == idleOpStack is a
// protocol error.
const idleOpStack = -1

// errorOpStack is the deepest opStack value. opStack reaches it when a
// non-continuation frame (normally a control frame) arrives while a
// data message is open, and drops back when that frame's FIN payload
// completes. A further non-continuation opcode arriving while opStack
// is errorOpStack is a protocol error.
const errorOpStack = 1

// spillCapacity is the longest possible partial header the parser may
// need to buffer between Consume calls: the longest header size minus
// one byte (a header whose bytes are all present is parsed, never
// spilled).
const spillCapacity = wire.LongestHeader - 1

// ParserState holds everything the incremental parser needs to remember
// about one connection between Consume calls. Its zero value is not
// ready for use; construct it with NewParserState.
type ParserState struct {
	// wantsHead is true iff the next input byte begins a new frame
	// header, false iff it continues a frame's payload.
	wantsHead bool

	// spillLength is the number of valid bytes currently buffered in
	// spill, left over from a header split across a chunk boundary.
	spillLength int

	// spill buffers partial header bytes across Consume calls.
	spill [spillCapacity]byte

	// opStack tracks the nesting of an in-progress fragmented data
	// message: idleOpStack (-1) when idle, 0 while one message is in
	// flight, errorOpStack (1) while a further frame is nested inside it.
	opStack int

	// opCode holds the opcode of the in-progress data message(s),
	// indexed by opStack (so opCode[0] is always the data opcode of
	// the current fragmented message, if any).
	opCode [2]wire.OpCode

	// lastFin is the FIN bit of the most recently processed frame.
	lastFin bool

	// remainingBytes is the number of payload bytes of the current
	// frame still expected across future Consume calls.
	remainingBytes int

	// mask holds the 4-byte client mask, carried across chunk
	// boundaries and rotated so each chunk's first byte XORs against
	// the correct mask byte. Left unset for client-role parsers, which
	// read unmasked server->client traffic.
	mask [4]byte
}

// NewParserState returns a ParserState ready to begin reading a fresh
// connection: no data message in progress, expecting a frame header.
func NewParserState() *ParserState {
	return &ParserState{
		wantsHead: true,
		opStack:   idleOpStack,
		lastFin:   true,
	}
}

// InProgress reports whether exactly one frame's message is open on the
// opcode stack: a frame has started and the FIN frame completing its
// message has not yet been fully read. This covers a fragmented message
// waiting for a Continuation frame and a single frame whose payload is
// still incomplete; it is false while a second frame is nested inside
// an open message.
func (s *ParserState) InProgress() bool {
	return s.opStack == 0
}

// SpillLength reports how many bytes of a partial frame header are
// currently buffered pending more data, for debug introspection (see
// control.DebugProbes).
func (s *ParserState) SpillLength() int {
	return s.spillLength
}

// Remaining reports how many payload bytes of the frame currently
// being read are still expected across future Consume calls.
func (s *ParserState) Remaining() int {
	return s.remainingBytes
}

// LastFin reports the FIN bit of the most recently processed frame.
func (s *ParserState) LastFin() bool {
	return s.lastFin
}
