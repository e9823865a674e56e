package identity

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeStore is an in-memory identity store for tests.
type fakeStore struct {
	accounts  map[string]SID
	token     SID
	principal string
	err       error
}

func (f *fakeStore) LookupAccount(name string) ([]byte, SIDUse, error) {
	if f.err != nil {
		return nil, UseInvalid, f.err
	}
	sid, ok := f.accounts[name]
	if !ok {
		return nil, UseInvalid, errors.New("no such account")
	}
	return sid.Raw(), sid.Use(), nil
}

func (f *fakeStore) TokenIdentity() ([]byte, SIDUse, error) {
	if f.err != nil {
		return nil, UseInvalid, f.err
	}
	if !f.token.IsValid() {
		return nil, UseInvalid, errors.New("no token identity")
	}
	return f.token.Raw(), f.token.Use(), nil
}

func (f *fakeStore) PrincipalName() (string, error) {
	if f.err != nil {
		return "", f.err
	}
	return f.principal, nil
}

// userSID builds a valid user SID from its textual form.
func userSID(t *testing.T, text string) SID {
	t.Helper()
	parsed, err := Parse(text)
	require.NoError(t, err)
	return FromRaw(parsed.Raw(), UseUser)
}

func TestParseStringRoundTrip(t *testing.T) {
	tests := []string{
		"S-1-5-21-3623811015-3361044348-30300820-1001",
		"S-1-5-18",
		"S-1-5-32-544",
		"S-1-5",
		"S-1-0-0",
	}
	for _, text := range tests {
		sid, err := Parse(text)
		require.NoError(t, err, text)
		assert.True(t, sid.IsValid(), text)
		assert.Equal(t, text, sid.String())
	}
}

func TestParseRejectsMalformed(t *testing.T) {
	tests := []string{
		"",
		"S",
		"S-1",
		"S-2-5-18",  // unsupported revision
		"X-1-5-18",  // wrong prefix
		"S-1-5-abc", // non-numeric sub-authority
		"S-1-5-21-1-2-3-4-5-6-7-8-9-10-11-12-13-14-15-16", // too many subs
	}
	for _, text := range tests {
		_, err := Parse(text)
		assert.Error(t, err, text)
	}
}

func TestEqualityReflexiveAndConservative(t *testing.T) {
	a := userSID(t, "S-1-5-21-1-2-3-1001")
	b := userSID(t, "S-1-5-21-1-2-3-1001")
	c := userSID(t, "S-1-5-21-1-2-3-1002")
	var invalid SID

	assert.True(t, a.Equal(a), "valid identity must equal itself")
	assert.True(t, a.Equal(b), "equal blobs must compare equal")
	assert.False(t, a.Equal(c))
	assert.False(t, c.Equal(a))

	assert.False(t, invalid.Equal(a), "invalid never equals valid")
	assert.False(t, a.Equal(invalid), "valid never equals invalid")
	assert.False(t, invalid.Equal(invalid), "invalid never equals invalid, even itself")
}

func TestEqualityIgnoresClassification(t *testing.T) {
	// Same blob, different entity type: still the same identity.
	parsed := MustParse("S-1-5-21-1-2-3-513")
	user := FromRaw(parsed.Raw(), UseUser)
	group := FromRaw(parsed.Raw(), UseGroup)
	assert.True(t, user.Equal(group))
}

func TestInvalidByConstruction(t *testing.T) {
	store := &fakeStore{accounts: map[string]SID{}}

	fromEmptyName := ResolveAccount(store, "")
	fromMissing := ResolveAccount(store, "ghost@EXAMPLE.COM")
	fromNilStore := ResolveAccount(nil, "alice@EXAMPLE.COM")
	fromBadToken := ResolveToken(store)

	for _, sid := range []SID{fromEmptyName, fromMissing, fromNilStore, fromBadToken} {
		assert.False(t, sid.IsValid())
		assert.False(t, sid.IsUser())
		assert.False(t, sid.IsGroup())
		assert.Equal(t, UseInvalid, sid.Use())
		assert.Nil(t, sid.Raw())
		assert.Equal(t, "<invalid>", sid.String())
	}
}

func TestFromRawRejectsMalformedBlobs(t *testing.T) {
	tests := [][]byte{
		nil,
		{},
		{1, 1, 0, 0, 0, 0, 5},          // truncated
		{2, 0, 0, 0, 0, 0, 0, 5},       // bad revision
		{1, 2, 0, 0, 0, 0, 0, 5, 0, 0}, // count/length mismatch
	}
	for _, raw := range tests {
		assert.False(t, FromRaw(raw, UseUser).IsValid())
	}
}

func TestResolveAccountClassification(t *testing.T) {
	admins := FromRaw(MustParse("S-1-5-32-544").Raw(), UseAlias)
	users := FromRaw(MustParse("S-1-5-21-1-2-3-513").Raw(), UseGroup)
	alice := userSID(t, "S-1-5-21-1-2-3-1001")

	store := &fakeStore{accounts: map[string]SID{
		"Administrators":    admins,
		"Domain Users":      users,
		"alice@EXAMPLE.COM": alice,
	}}

	got := ResolveAccount(store, "alice@EXAMPLE.COM")
	assert.True(t, got.IsUser())
	assert.False(t, got.IsGroup())

	for _, name := range []string{"Administrators", "Domain Users"} {
		got := ResolveAccount(store, name)
		assert.True(t, got.IsGroup(), name)
		assert.False(t, got.IsUser(), name)
	}
}

func TestRawIsACopy(t *testing.T) {
	sid := userSID(t, "S-1-5-21-1-2-3-1001")
	raw := sid.Raw()
	raw[0] = 0xFF
	assert.True(t, sid.IsValid())
	assert.Equal(t, "S-1-5-21-1-2-3-1001", sid.String())
}
