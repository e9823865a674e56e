//go:build !windows

package identity

// systemStore on non-Windows platforms has no account database to consult.
// Every query fails with ErrNotSupported, which the resolvers surface as
// invalid identities; callers on these platforms supply explicit
// configuration instead of OS single sign-on.
type systemStore struct{}

func (systemStore) LookupAccount(name string) ([]byte, SIDUse, error) {
	return nil, UseInvalid, ErrNotSupported
}

func (systemStore) TokenIdentity() ([]byte, SIDUse, error) {
	return nil, UseInvalid, ErrNotSupported
}

func (systemStore) PrincipalName() (string, error) {
	return "", ErrNotSupported
}
