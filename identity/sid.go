package identity

import (
	"bytes"
	"encoding/binary"
	"fmt"
	"strconv"
	"strings"
)

// SIDUse classifies the entity a SID names. The values mirror the Windows
// SID_NAME_USE enumeration.
type SIDUse uint32

const (
	UseUser SIDUse = iota + 1
	UseGroup
	UseDomain
	UseAlias
	UseWellKnownGroup
	UseDeletedAccount
	UseInvalid
	UseUnknown
	UseComputer
	UseLabel
)

// maxSubAuthorities is the Windows SID_MAX_SUB_AUTHORITIES limit.
const maxSubAuthorities = 15

// SID holds a resolved security identifier: the raw binary blob plus the
// entity classification reported by the identity store.
//
// The zero SID is invalid. Construct through ResolveAccount, ResolveToken,
// Parse, or FromRaw; a failed resolution yields an invalid SID rather than
// an error, and the only operations permitted on an invalid SID are
// IsValid, the classification queries (which answer false), and String.
type SID struct {
	raw []byte
	use SIDUse
}

// ResolveAccount resolves the SID for a named account through store.
// An empty name or a failed lookup yields an invalid SID.
func ResolveAccount(store Store, name string) SID {
	if store == nil || name == "" {
		return SID{}
	}
	raw, use, err := store.LookupAccount(name)
	if err != nil {
		return SID{}
	}
	return FromRaw(raw, use)
}

// ResolveToken resolves the SID bound to the current process's access token.
// A failed query yields an invalid SID.
func ResolveToken(store Store) SID {
	if store == nil {
		return SID{}
	}
	raw, use, err := store.TokenIdentity()
	if err != nil {
		return SID{}
	}
	return FromRaw(raw, use)
}

// FromRaw builds a SID from a binary identifier blob and its classification.
// Malformed blobs yield an invalid SID. The blob is copied.
func FromRaw(raw []byte, use SIDUse) SID {
	if !wellFormed(raw) {
		return SID{}
	}
	cp := make([]byte, len(raw))
	copy(cp, raw)
	return SID{raw: cp, use: use}
}

// Parse converts the textual S-R-I-S... form into a SID. Parsed SIDs carry
// the UseUnknown classification: the text form names an identifier, not what
// kind of entity it is.
func Parse(s string) (SID, error) {
	fields := strings.Split(s, "-")
	if len(fields) < 3 || !strings.EqualFold(fields[0], "S") {
		return SID{}, fmt.Errorf("identity: malformed SID %q", s)
	}

	rev, err := strconv.ParseUint(fields[1], 10, 8)
	if err != nil || rev != 1 {
		return SID{}, fmt.Errorf("identity: unsupported SID revision in %q", s)
	}

	// The identifier authority is decimal, or hex when it exceeds 32 bits.
	var auth uint64
	if strings.HasPrefix(fields[2], "0x") || strings.HasPrefix(fields[2], "0X") {
		auth, err = strconv.ParseUint(fields[2][2:], 16, 48)
	} else {
		auth, err = strconv.ParseUint(fields[2], 10, 48)
	}
	if err != nil {
		return SID{}, fmt.Errorf("identity: malformed SID authority in %q", s)
	}

	subs := fields[3:]
	if len(subs) > maxSubAuthorities {
		return SID{}, fmt.Errorf("identity: too many sub-authorities in %q", s)
	}

	raw := make([]byte, 8+4*len(subs))
	raw[0] = byte(rev)
	raw[1] = byte(len(subs))
	for i := 0; i < 6; i++ {
		raw[2+i] = byte(auth >> (8 * (5 - i)))
	}
	for i, f := range subs {
		sub, err := strconv.ParseUint(f, 10, 32)
		if err != nil {
			return SID{}, fmt.Errorf("identity: malformed sub-authority %q in %q", f, s)
		}
		binary.LittleEndian.PutUint32(raw[8+4*i:], uint32(sub))
	}
	return SID{raw: raw, use: UseUnknown}, nil
}

// MustParse is Parse for configuration literals; it panics on bad input.
func MustParse(s string) SID {
	sid, err := Parse(s)
	if err != nil {
		panic(err)
	}
	return sid
}

// IsValid reports whether resolution succeeded.
func (s SID) IsValid() bool {
	return s.raw != nil
}

// Use returns the entity classification, or UseInvalid for an invalid SID.
func (s SID) Use() SIDUse {
	if !s.IsValid() {
		return UseInvalid
	}
	return s.use
}

// IsUser reports whether the SID names a user account. False when invalid.
func (s SID) IsUser() bool {
	return s.IsValid() && s.use == UseUser
}

// IsGroup reports whether the SID names a group-like entity (group,
// well-known group, or alias). False when invalid.
func (s SID) IsGroup() bool {
	if !s.IsValid() {
		return false
	}
	switch s.use {
	case UseGroup, UseWellKnownGroup, UseAlias:
		return true
	}
	return false
}

// Equal compares the raw identifier blobs. It is the trust decision at the
// end of the handshake: defined only between two valid SIDs, and always
// false when either side is invalid.
func (s SID) Equal(other SID) bool {
	if !s.IsValid() || !other.IsValid() {
		return false
	}
	return bytes.Equal(s.raw, other.raw)
}

// Raw returns a copy of the binary identifier blob, or nil when invalid.
func (s SID) Raw() []byte {
	if !s.IsValid() {
		return nil
	}
	cp := make([]byte, len(s.raw))
	copy(cp, s.raw)
	return cp
}

// String renders the S-R-I-S... form for logging and diagnostics.
// Never use the rendering for comparisons.
func (s SID) String() string {
	if !s.IsValid() {
		return "<invalid>"
	}

	var auth uint64
	for i := 0; i < 6; i++ {
		auth = auth<<8 | uint64(s.raw[2+i])
	}

	var sb strings.Builder
	fmt.Fprintf(&sb, "S-%d-%d", s.raw[0], auth)
	count := int(s.raw[1])
	for i := 0; i < count; i++ {
		fmt.Fprintf(&sb, "-%d", binary.LittleEndian.Uint32(s.raw[8+4*i:]))
	}
	return sb.String()
}

func wellFormed(raw []byte) bool {
	if len(raw) < 8 {
		return false
	}
	if raw[0] != 1 {
		return false
	}
	count := int(raw[1])
	if count > maxSubAuthorities {
		return false
	}
	return len(raw) == 8+4*count
}
