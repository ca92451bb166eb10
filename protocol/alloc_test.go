package protocol_test

import (
	"testing"

	wire "github.com/relaywire/wsframe/core/protocol"
	"github.com/relaywire/wsframe/protocol"
)

// silentConsumer is a protocol.Consumer that does no bookkeeping of its
// own, so a benchmark against it measures only Parser.Consume's own
// allocations, not a test fixture's.
type silentConsumer struct{}

func (silentConsumer) SetCompressed(state *protocol.ParserState) bool { return false }

func (silentConsumer) RefusePayloadLength(payloadLen int, state *protocol.ParserState) bool {
	return false
}

func (silentConsumer) HandleFragment(payload []byte, remaining int, opCode wire.OpCode, fin bool, state *protocol.ParserState) bool {
	return false
}

func (silentConsumer) ForceClose(state *protocol.ParserState, reason string) {}

// TestNoAllocConsume checks the testable property from spec.md §8 ("no
// allocation occurs in consume() ... regardless of input") for a
// complete, unfragmented masked frame handled in one Consume call.
func TestNoAllocConsume(t *testing.T) {
	buf := []byte{0x81, 0x85, 0x37, 0xfa, 0x21, 0x3d, 0x7f, 0x9f, 0x4d, 0x51, 0x58}
	p := protocol.NewParser(wire.ServerRole, silentConsumer{})
	state := protocol.NewParserState()

	allocs := testing.AllocsPerRun(1000, func() {
		p.Consume(buf, state)
	})
	if allocs != 0 {
		t.Errorf("Consume allocated %v times per run, want 0", allocs)
	}
}

// TestNoAllocConsumeAcrossChunkBoundary covers the consumeContinuation
// path, which a single complete frame never exercises. The frame (FIN
// set, unmasked) returns the parser to its idle state by the end of
// each two-call round, so repeated AllocsPerRun iterations stay
// well-formed.
func TestNoAllocConsumeAcrossChunkBoundary(t *testing.T) {
	head := []byte{0x82, 0x05, 1, 2, 3}
	tail := []byte{4, 5}
	p := protocol.NewParser(wire.ClientRole, silentConsumer{})
	state := protocol.NewParserState()

	allocs := testing.AllocsPerRun(1000, func() {
		p.Consume(head, state)
		p.Consume(tail, state)
	})
	if allocs != 0 {
		t.Errorf("Consume across a chunk boundary allocated %v times per run, want 0", allocs)
	}
}
