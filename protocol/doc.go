// Package protocol implements the incremental, allocation-free WebSocket
// frame parser: the stateful half of the framing engine that survives
// arbitrary chunk boundaries, unmasks client payloads in place, and
// drives a Consumer via HandleFragment/SetCompressed/RefusePayloadLength/
// ForceClose callbacks.
//
// The wire-level primitives (byte order, UTF-8, close-frame codec, frame
// formatter) this parser is built on live in the sibling package
// github.com/relaywire/wsframe/core/protocol.
//
// A Parser is not safe for concurrent use: all of its state is owned by
// a single logical connection, and Consume must not be called again
// until the previous call has returned.
package protocol
