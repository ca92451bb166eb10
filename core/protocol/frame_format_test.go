package protocol_test

import (
	"bytes"
	"testing"

	protocol "github.com/relaywire/wsframe/core/protocol"
)

func TestMessageFrameSizeMatchesFormatMessage(t *testing.T) {
	lengths := []int{0, 1, 31, 125, 126, 127, 1000, 65535, 65536, 70000}
	for _, role := range []protocol.Role{protocol.ServerRole, protocol.ClientRole} {
		for _, n := range lengths {
			want := protocol.MessageFrameSize(role, n)
			dst := make([]byte, want+4)
			src := make([]byte, n)
			got := protocol.FormatMessage(dst, src, n, protocol.OpcodeBinary, n, false, true, role)
			if got != want {
				t.Errorf("role=%v n=%d: FormatMessage wrote %d bytes, MessageFrameSize said %d", role, n, got, want)
			}
		}
	}
}

func TestFormatMessageHeaderBits(t *testing.T) {
	dst := make([]byte, 32)
	payload := []byte("hi")
	n := protocol.FormatMessage(dst, payload, len(payload), protocol.OpcodeText, len(payload), false, true, protocol.ServerRole)
	if dst[0] != 0x81 {
		t.Errorf("got byte0 %#x, want 0x81 (FIN+TEXT)", dst[0])
	}
	if dst[1] != byte(len(payload)) {
		t.Errorf("got byte1 %#x, want length %d", dst[1], len(payload))
	}
	if !bytes.Equal(dst[2:n], payload) {
		t.Errorf("payload mismatch: got %q", dst[2:n])
	}
}

func TestFormatMessageNonFinClearsFinBit(t *testing.T) {
	dst := make([]byte, 16)
	protocol.FormatMessage(dst, nil, 0, protocol.OpcodeBinary, 0, false, false, protocol.ServerRole)
	if dst[0]&protocol.FinBit != 0 {
		t.Errorf("FIN bit set on non-final frame: %#x", dst[0])
	}
}

func TestFormatMessageCompressedBit(t *testing.T) {
	dst := make([]byte, 16)
	protocol.FormatMessage(dst, nil, 0, protocol.OpcodeBinary, 0, true, true, protocol.ServerRole)
	if dst[0]&protocol.Rsv1Bit == 0 {
		t.Errorf("RSV1 not set for compressed frame: %#x", dst[0])
	}
}

func TestFormatMessageClientSetsMaskBitAndVariesMask(t *testing.T) {
	payload := []byte("hello")
	dst1 := make([]byte, protocol.MessageFrameSize(protocol.ClientRole, len(payload)))
	dst2 := make([]byte, protocol.MessageFrameSize(protocol.ClientRole, len(payload)))
	protocol.FormatMessage(dst1, payload, len(payload), protocol.OpcodeText, len(payload), false, true, protocol.ClientRole)
	protocol.FormatMessage(dst2, payload, len(payload), protocol.OpcodeText, len(payload), false, true, protocol.ClientRole)

	if dst1[1]&protocol.MaskBit == 0 {
		t.Fatal("client frame missing MASK bit")
	}

	maskKey1 := dst1[2:6]
	maskKey2 := dst2[2:6]
	if bytes.Equal(maskKey1, maskKey2) {
		t.Error("two successive client frames used the same mask (expected per-frame variation)")
	}
}

func TestFormatMessageClientMaskRoundTrip(t *testing.T) {
	payload := []byte("round trip me")
	dst := make([]byte, protocol.MessageFrameSize(protocol.ClientRole, len(payload)))
	protocol.FormatMessage(dst, payload, len(payload), protocol.OpcodeBinary, len(payload), false, true, protocol.ClientRole)

	var mask [4]byte
	copy(mask[:], dst[2:6])
	got := make([]byte, len(payload))
	copy(got, dst[6:])
	for i := range got {
		got[i] ^= mask[i%4]
	}
	if !bytes.Equal(got, payload) {
		t.Errorf("unmasked payload mismatch: got %q, want %q", got, payload)
	}
}

func TestFormatMessageFlagsMatchesBooleanForm(t *testing.T) {
	payload := []byte("flagged")
	cases := []struct {
		name  string
		flags protocol.SendFlags
	}{
		{"finUncompressed", 0},
		{"noFin", protocol.SndNoFin},
		{"compressed", protocol.SndCompressed},
		{"noFinCompressed", protocol.SndNoFin | protocol.SndCompressed},
	}
	for _, c := range cases {
		want := make([]byte, protocol.MessageFrameSize(protocol.ServerRole, len(payload)))
		protocol.FormatMessage(want, payload, len(payload), protocol.OpcodeBinary, len(payload), c.flags.Compressed(), c.flags.Fin(), protocol.ServerRole)

		got := make([]byte, protocol.MessageFrameSize(protocol.ServerRole, len(payload)))
		protocol.FormatMessageFlags(got, payload, len(payload), protocol.OpcodeBinary, len(payload), c.flags, protocol.ServerRole)

		if !bytes.Equal(got, want) {
			t.Errorf("%s: FormatMessageFlags = %x, want %x", c.name, got, want)
		}
	}
}

func TestFormatMessageFlagsContinuationOverridesOpcode(t *testing.T) {
	payload := []byte("cont")
	dst := make([]byte, protocol.MessageFrameSize(protocol.ServerRole, len(payload)))
	protocol.FormatMessageFlags(dst, payload, len(payload), protocol.OpcodeText, len(payload), protocol.SndContinuation, protocol.ServerRole)

	if protocol.OpCode(dst[0]&protocol.OpCodeMask) != protocol.OpcodeContinuation {
		t.Errorf("got opcode %#x, want Continuation (SndContinuation should override OpcodeText)", dst[0]&protocol.OpCodeMask)
	}
}

func TestFormatMessageExtendedLengths(t *testing.T) {
	cases := []struct {
		n           int
		wantMarker  byte
		wantHdrSize int
	}{
		{125, 125, 2},
		{126, 126, 4},
		{65535, 126, 4},
		{65536, 127, 10},
	}
	for _, c := range cases {
		dst := make([]byte, c.n+16)
		src := make([]byte, c.n)
		written := protocol.FormatMessage(dst, src, c.n, protocol.OpcodeBinary, c.n, false, true, protocol.ServerRole)
		if dst[1] != c.wantMarker {
			t.Errorf("n=%d: byte1=%d, want marker %d", c.n, dst[1], c.wantMarker)
		}
		if written-c.n != c.wantHdrSize {
			t.Errorf("n=%d: header size %d, want %d", c.n, written-c.n, c.wantHdrSize)
		}
	}
}
