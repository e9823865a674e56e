// Package wire provides the length-framed channel used by the authentication
// handshake, plus transport dialers for the connection types a database
// client commonly uses on Windows.
//
// # Framing
//
// Every logical message (the client principal name and each negotiation
// token) is sent as one frame:
//
//	[0:4]  payload length (uint32, little-endian)
//	[4:.]  payload bytes
//
// Zero-length frames are legal. The frame format is part of the contract
// with the companion server-side implementation; both ends must agree on it
// exactly.
//
// # Error discipline
//
// Conn keeps a sticky error: the first transport failure is recorded and all
// later operations fail fast without further I/O. Retry policy belongs to
// the caller, which must open a fresh session on a fresh transport.
package wire
