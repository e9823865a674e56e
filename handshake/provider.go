package handshake

import "context"

// SecurityProvider is the platform negotiation boundary: it turns inbound
// server tokens into outbound client tokens until a security context is
// established.
//
// Implementations are NOT safe for concurrent use; each login attempt owns
// its own provider instance.
//
// The flow driven by Session:
//  1. Step(nil) -> initial token (possibly empty)
//  2. Session sends the token, reads the server's reply
//  3. Step(serverToken) -> response token
//  4. Repeat while continueNeeded; an empty output token simply means
//     nothing further needs to be sent.
type SecurityProvider interface {
	// Step processes an inbound token and produces the next outbound token.
	// On the first call inToken is nil. continueNeeded reports whether the
	// provider expects another inbound token.
	Step(ctx context.Context, inToken []byte) (outToken []byte, continueNeeded bool, err error)

	// Complete reports whether the security context has been established.
	Complete() bool

	// PeerName returns the account name of the negotiated peer, or "" until
	// Complete. The Session resolves it through the identity store and
	// compares the resulting SID against the expected server identity.
	PeerName() string

	// Close releases platform resources held by the context.
	Close() error
}
