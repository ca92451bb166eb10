// File: core/protocol/closeframe.go
// Package protocol
// Author: momentics <momentics@gmail.com>
//
// Close-frame payload codec: parses and formats the 2-byte big-endian
// close code plus optional UTF-8 reason payload, enforcing the reserved
// close-code ranges from RFC 6455 §7.4.

package protocol

import "encoding/binary"

// CloseFrame is the decoded body of a CLOSE control frame.
type CloseFrame struct {
	Code    uint16
	Message []byte
	Length  int
}

// ParseClosePayload decodes a CLOSE frame payload. If length < 2, it
// returns the synthetic "no status code present" sentinel (1005). If the
// code falls outside the legal wire ranges, is one of the reserved
// sentinels (1004, 1005, 1006), or the message fails UTF-8 validation
// (unless skipUTF8Validation is set), it returns the synthetic "abnormal
// closure" sentinel (1006) carrying the fixed ErrInvalidClosePayload text
// as its message.
func ParseClosePayload(src []byte, skipUTF8Validation bool) CloseFrame {
	if len(src) < 2 {
		return CloseFrame{Code: CloseNoStatusRcvd}
	}

	code := binary.BigEndian.Uint16(src[:2])
	message := src[2:]

	if code < 1000 || code > 4999 ||
		(code > 1011 && code < 4000) ||
		(code >= CloseReserved1004 && code <= CloseAbnormalClosure) ||
		(!skipUTF8Validation && !IsValidUTF8(message)) {
		reason := []byte(ErrInvalidClosePayload)
		return CloseFrame{Code: CloseAbnormalClosure, Message: reason, Length: len(reason)}
	}

	return CloseFrame{Code: code, Message: message, Length: len(message)}
}

// FormatClosePayload writes the close code and message into dst, returning
// the number of bytes written. Codes 0, 1005, and 1006 are never valid on
// the wire and cause FormatClosePayload to write nothing and return 0.
func FormatClosePayload(dst []byte, code uint16, message []byte) int {
	if code == 0 || code == CloseNoStatusRcvd || code == CloseAbnormalClosure {
		return 0
	}
	binary.BigEndian.PutUint16(dst, code)
	if message != nil {
		copy(dst[2:], message)
	}
	return len(message) + 2
}
