// Package handshake drives the client side of the single-sign-on token
// exchange and makes the final trust decision about the server's identity.
//
// A Session owns one wire.Conn for the lifetime of one login attempt and
// moves through NotStarted -> InProgress -> Completed or Failed; the
// terminal states are absorbing. The token negotiation itself is delegated
// to a SecurityProvider: SSPI on Windows (true single sign-on), pure-Go
// Kerberos or NTLM elsewhere.
//
// Completion requires two things: the provider must report an established
// security context, and the peer identity it negotiated must resolve to a
// SID equal to the expected server identity supplied by the caller. Every
// failure - transport, negotiation, resolution, or identity mismatch -
// collapses into the single ErrAuthFailed so an unauthenticated peer cannot
// distinguish a rejected impersonation from an ordinary failed login. The
// specific reason goes to the session logger only.
package handshake
