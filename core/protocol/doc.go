// Package protocol
// Author: momentics <momentics@gmail.com>
//
// Implements the wire-level primitives of the RFC 6455 WebSocket framing
// protocol: byte-order helpers, a UTF-8 validator with an ASCII fast path,
// the close-frame codec, and the frame formatter used to write outbound
// frames.
//
// Includes:
//   - Conditional byte swap for 16/64-bit big-endian wire integers
//   - Fast UTF-8 validation with a 16-byte ASCII fast path
//   - Close-frame payload parsing and formatting with code-range validation
//   - Frame header formatting and per-frame client mask generation
//
// Everything here is allocation-free and stateless. The stateful
// incremental parser that drives these primitives lives in the sibling
// protocol package at the module root.
package protocol
