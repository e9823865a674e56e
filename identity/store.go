package identity

import "errors"

// ErrNotSupported is returned by SystemStore queries on platforms without a
// native identity store.
var ErrNotSupported = errors.New("identity: not supported on this platform")

// Store is the platform identity boundary: synchronous, fallible lookups
// against the operating system's account database and the current process
// token. Implementations must return errors, never panic; the resolvers in
// this package turn every error into an invalid identity.
type Store interface {
	// LookupAccount resolves the binary SID and classification for a named
	// account (SAM or UPN form).
	LookupAccount(name string) (raw []byte, use SIDUse, err error)

	// TokenIdentity resolves the SID bound to the current process token.
	TokenIdentity() (raw []byte, use SIDUse, err error)

	// PrincipalName returns the current process identity's User Principal
	// Name (user@realm) in UTF-8.
	PrincipalName() (string, error)
}

// SystemStore returns the native identity store for this platform.
func SystemStore() Store {
	return systemStore{}
}
