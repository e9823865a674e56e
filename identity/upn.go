package identity

import "github.com/smnsjas/go-winauth/blob"

// UPN holds the User Principal Name of the account the current process runs
// under, stored as UTF-8. Resolution happens once, at construction; the
// value is immutable afterwards.
//
// The platform hands the name over in its native wide-character form; the
// Store implementation converts it to UTF-8 exactly, multi-byte sequences
// included. A zero-length name means no principal is available and IsValid
// reports false.
type UPN struct {
	name []byte
}

// ResolveUPN queries store for the current process's principal name.
// A single attempt; a failed query yields an invalid UPN.
func ResolveUPN(store Store) UPN {
	if store == nil {
		return UPN{}
	}
	name, err := store.PrincipalName()
	if err != nil || name == "" {
		return UPN{}
	}
	return UPN{name: []byte(name)}
}

// IsValid reports whether a non-empty principal name was obtained.
func (u UPN) IsValid() bool {
	return len(u.name) > 0
}

// AsBlob exposes the UTF-8 name for transmission. The null Blob when invalid.
func (u UPN) AsBlob() blob.Blob {
	if !u.IsValid() {
		return blob.Blob{}
	}
	return blob.New(u.name)
}

// String returns the name for logging and diagnostics.
func (u UPN) String() string {
	return string(u.name)
}
