//go:build windows

package identity

import (
	"fmt"
	"unsafe"

	"golang.org/x/sys/windows"
)

// systemStore is backed by the Windows security subsystem.
type systemStore struct{}

func (systemStore) LookupAccount(name string) ([]byte, SIDUse, error) {
	sid, _, accType, err := windows.LookupSID("", name)
	if err != nil {
		return nil, UseInvalid, fmt.Errorf("identity: lookup account %q: %w", name, err)
	}
	return sidBytes(sid), SIDUse(accType), nil
}

func (systemStore) TokenIdentity() ([]byte, SIDUse, error) {
	token, err := windows.OpenCurrentProcessToken()
	if err != nil {
		return nil, UseInvalid, fmt.Errorf("identity: open process token: %w", err)
	}
	defer token.Close()

	user, err := token.GetTokenUser()
	if err != nil {
		return nil, UseInvalid, fmt.Errorf("identity: query token user: %w", err)
	}
	// The token user is by definition a user account.
	return sidBytes(user.User.Sid), UseUser, nil
}

func (systemStore) PrincipalName() (string, error) {
	// GetUserNameEx reports the required size through n on ERROR_MORE_DATA.
	n := uint32(128)
	for {
		buf := make([]uint16, n)
		err := windows.GetUserNameEx(windows.NameUserPrincipal, &buf[0], &n)
		if err == nil {
			return windows.UTF16ToString(buf[:n]), nil
		}
		if err == windows.ERROR_MORE_DATA && n > uint32(len(buf)) {
			continue
		}
		return "", fmt.Errorf("identity: query principal name: %w", err)
	}
}

// sidBytes copies the variable-length binary SID out of process memory owned
// by the Windows API.
func sidBytes(sid *windows.SID) []byte {
	n := sid.Len()
	raw := make([]byte, n)
	copy(raw, unsafe.Slice((*byte)(unsafe.Pointer(sid)), n))
	return raw
}
