// File: protocol/consumer.go
//
// Consumer is the capability interface the incremental parser drives as
// it reconstructs messages from a byte stream. It replaces the
// compile-time "Impl" template parameter of the engine this package is
// grounded on with a Go interface, per the capability-interface option
// named in the design notes this module follows.

package protocol

import wire "github.com/relaywire/wsframe/core/protocol"

// Consumer receives callbacks from Parser.Consume as frames and
// fragments are recognized. Implementations must not call back into the
// same Parser from within a callback; the parser is not reentrant.
type Consumer interface {
	// SetCompressed is invoked each time the parser examines a frame
	// header that has RSV1 set (a header split across Consume calls may
	// be examined, and this invoked, more than once), asking whether
	// permessage-deflate is negotiated on this connection. Returning false causes Consume to treat the frame as
	// a protocol violation and call ForceClose.
	SetCompressed(state *ParserState) bool

	// RefusePayloadLength is invoked after a frame's header (and full
	// payload length) has been parsed, before any payload bytes are
	// delivered. Returning true causes Consume to call ForceClose with
	// the "too big" reason and stop processing the current buffer.
	RefusePayloadLength(payloadLen int, state *ParserState) bool

	// HandleFragment delivers up to one frame's worth of payload
	// bytes. remaining is the number of bytes still outstanding for
	// the frame this fragment belongs to (0 means this call completes
	// the frame's payload). fin is the FIN bit of the frame the
	// fragment belongs to, not of the overall message. Returning true
	// aborts further parsing of the current Consume call; the caller
	// must invoke Consume again with any subsequent bytes to resume.
	HandleFragment(payload []byte, remaining int, opCode OpCode, fin bool, state *ParserState) bool

	// ForceClose reports a fatal, unrecoverable protocol violation.
	// No further callbacks follow for this connection; the Parser's
	// state is undefined afterward and it must be discarded.
	ForceClose(state *ParserState, reason string)
}

// OpCode re-exports the wire opcode type so Consumer implementations
// need not import the core/protocol package directly.
type OpCode = wire.OpCode
