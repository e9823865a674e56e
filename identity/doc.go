// Package identity resolves and compares Windows account identities.
//
// Two identity shapes matter to the handshake:
//
//   - SID: the opaque security identifier used for the trust decision at the
//     end of the negotiation. Equality is byte equality of the raw binary
//     SID, never comparison of any textual rendering.
//   - UPN: the human-readable User Principal Name (user@realm) of the
//     current process, sent to the server as the first handshake message.
//
// All lookups go through the Store interface. Lookups are fallible and the
// resolvers never panic or raise: a failed resolution yields a value that
// reports itself invalid, and every query on an invalid value answers false.
// An invalid identity equals nothing, including another invalid identity; a
// missed login is recoverable, a false-positive match is not.
//
// On Windows the SystemStore is backed by golang.org/x/sys/windows. On other
// platforms it reports ErrNotSupported and is only useful behind fakes, which
// is how the tests exercise this package everywhere.
package identity
