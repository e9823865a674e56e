package handshake

import (
	"context"
	"errors"
	"fmt"

	"github.com/Azure/go-ntlmssp"
)

// Credentials holds explicit credentials for the providers that cannot use
// operating-system single sign-on. They feed the token computation only;
// the wire never carries them.
type Credentials struct {
	// Username is the account name, with or without domain qualification.
	Username string

	// Password is the account password.
	Password string

	// Domain qualifies Username when it is a bare SAM name. When empty it
	// is derived from DOMAIN\user or user@domain forms of Username.
	Domain string

	// Workstation is the client machine name offered in the NTLM negotiate
	// message. Optional.
	Workstation string
}

// NTLMProvider performs the three-leg NTLM exchange using explicit
// credentials. NTLM proves the client to the server but not the reverse, so
// the session's identity check rests entirely on resolving the configured
// target account; prefer Kerberos or SSPI where available.
type NTLMProvider struct {
	creds  Credentials
	target string

	negotiated bool
	complete   bool
}

// NewNTLMProvider validates the credentials and binds the provider to the
// target service account name.
func NewNTLMProvider(creds Credentials, targetName string) (*NTLMProvider, error) {
	if creds.Username == "" {
		return nil, errors.New("handshake: ntlm: username is required")
	}
	if creds.Password == "" {
		return nil, errors.New("handshake: ntlm: password is required")
	}
	if targetName == "" {
		return nil, errors.New("handshake: ntlm: target name is required")
	}
	return &NTLMProvider{creds: creds, target: targetName}, nil
}

// Step produces the NEGOTIATE message on the first call and the AUTHENTICATE
// message in response to the server's CHALLENGE on the second.
func (p *NTLMProvider) Step(ctx context.Context, inToken []byte) ([]byte, bool, error) {
	if p.complete {
		return nil, false, nil
	}

	if !p.negotiated {
		if len(inToken) != 0 {
			return nil, false, errors.New("handshake: ntlm: unexpected token before negotiate")
		}
		msg, err := ntlmssp.NewNegotiateMessage(p.creds.Domain, p.creds.Workstation)
		if err != nil {
			return nil, false, fmt.Errorf("handshake: ntlm: build negotiate message: %w", err)
		}
		p.negotiated = true
		return msg, true, nil
	}

	if len(inToken) == 0 {
		return nil, false, errors.New("handshake: ntlm: empty challenge from server")
	}

	user, domain := p.creds.Username, p.creds.Domain
	domainNeeded := domain != ""
	if domain == "" {
		user, domain, domainNeeded = ntlmssp.GetDomain(user)
		p.creds.Domain = domain
	}

	msg, err := ntlmssp.ProcessChallenge(inToken, user, p.creds.Password, domainNeeded)
	if err != nil {
		return nil, false, fmt.Errorf("handshake: ntlm: process challenge: %w", err)
	}
	p.complete = true
	return msg, false, nil
}

// Complete reports whether the AUTHENTICATE message has been produced.
func (p *NTLMProvider) Complete() bool {
	return p.complete
}

// PeerName returns the configured target account once the exchange is done.
func (p *NTLMProvider) PeerName() string {
	if !p.complete {
		return ""
	}
	return p.target
}

// Close wipes nothing persistent; NTLM holds no platform handles.
func (p *NTLMProvider) Close() error {
	return nil
}
