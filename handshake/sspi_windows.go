//go:build windows

package handshake

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"syscall"
	"unsafe"

	"github.com/alexbrainman/sspi"
)

// SSPIConfig configures the native Windows provider.
type SSPIConfig struct {
	// Credentials, when nil, selects single sign-on with the logged-in
	// user's credentials. Otherwise an explicit identity is acquired.
	Credentials *Credentials

	// PackageName selects the security package. Defaults to Negotiate,
	// which picks Kerberos when the target SPN resolves and falls back to
	// NTLM otherwise.
	PackageName string
}

// SSPIProvider implements SecurityProvider with the Windows SSPI Negotiate
// package. Mutual authentication is always requested, so an established
// context means SSPI has verified the server really holds the target
// account's key.
type SSPIProvider struct {
	cfg      SSPIConfig
	target   string
	maxToken uint32

	cred       *sspi.Credentials
	ctx        *sspi.Context
	targetName *uint16
	complete   bool
}

type sspiStatusError struct {
	code uint32
}

func (e sspiStatusError) Error() string {
	return fmt.Sprintf("SSPI status 0x%x", e.code)
}

// NewSSPIProvider queries the security package and binds the provider to the
// target service account.
func NewSSPIProvider(cfg SSPIConfig, targetName string) (*SSPIProvider, error) {
	if targetName == "" {
		return nil, errors.New("handshake: sspi: target name is required")
	}
	pkg := cfg.PackageName
	if pkg == "" {
		pkg = sspi.NEGOSSP_NAME
	}
	cfg.PackageName = pkg

	info, err := sspi.QueryPackageInfo(pkg)
	if err != nil {
		return nil, fmt.Errorf("handshake: sspi: query package %q: %w", pkg, err)
	}

	return &SSPIProvider{
		cfg:      cfg,
		target:   targetName,
		maxToken: info.MaxToken,
	}, nil
}

// Step runs one InitializeSecurityContext round.
func (p *SSPIProvider) Step(ctx context.Context, inToken []byte) ([]byte, bool, error) {
	if p.complete {
		return nil, false, nil
	}

	if p.cred == nil {
		if err := p.acquire(); err != nil {
			return nil, false, err
		}
	}

	out, done, err := p.update(inToken)
	if err != nil {
		return nil, false, err
	}
	p.complete = done
	return out, !done, nil
}

// acquire obtains credentials and creates the client context.
func (p *SSPIProvider) acquire() error {
	var err error
	if p.cfg.Credentials == nil {
		// Single sign-on: the logged-in user's credentials.
		p.cred, err = sspi.AcquireCredentials("", p.cfg.PackageName, sspi.SECPKG_CRED_OUTBOUND, nil)
	} else {
		identity, idErr := buildAuthIdentity(p.cfg.Credentials)
		if idErr != nil {
			return idErr
		}
		p.cred, err = sspi.AcquireCredentials("", p.cfg.PackageName, sspi.SECPKG_CRED_OUTBOUND, identity)
	}
	if err != nil {
		return fmt.Errorf("handshake: sspi: acquire credentials: %w", err)
	}

	tname, err := syscall.UTF16PtrFromString(p.target)
	if err != nil {
		return fmt.Errorf("handshake: sspi: encode target name: %w", err)
	}
	p.targetName = tname

	// Mutual auth is what turns a completed context into proof of the
	// server's identity; it is not optional here.
	flags := sspi.ISC_REQ_CONNECTION |
		sspi.ISC_REQ_MUTUAL_AUTH |
		sspi.ISC_REQ_INTEGRITY |
		sspi.ISC_REQ_REPLAY_DETECT |
		sspi.ISC_REQ_SEQUENCE_DETECT

	p.ctx = sspi.NewClientContext(p.cred, uint32(flags))
	return nil
}

// update performs one InitializeSecurityContext call and interprets the
// continue/done/complete status family.
func (p *SSPIProvider) update(inToken []byte) ([]byte, bool, error) {
	var inBuf [1]sspi.SecBuffer
	var inBufs *sspi.SecBufferDesc
	if len(inToken) > 0 {
		inBuf[0].Set(sspi.SECBUFFER_TOKEN, inToken)
		inBufs = &sspi.SecBufferDesc{
			Version:      sspi.SECBUFFER_VERSION,
			BuffersCount: 1,
			Buffers:      &inBuf[0],
		}
	}

	dst := make([]byte, p.maxToken)
	var outBuf [1]sspi.SecBuffer
	outBuf[0].Set(sspi.SECBUFFER_TOKEN, dst)
	outBufs := &sspi.SecBufferDesc{
		Version:      sspi.SECBUFFER_VERSION,
		BuffersCount: 1,
		Buffers:      &outBuf[0],
	}

	ret := p.ctx.Update(p.targetName, outBufs, inBufs)
	n := int(outBuf[0].BufferSize)

	switch ret {
	case sspi.SEC_E_OK:
		return dst[:n], true, nil
	case sspi.SEC_I_CONTINUE_NEEDED:
		return dst[:n], false, nil
	case sspi.SEC_I_COMPLETE_NEEDED, sspi.SEC_I_COMPLETE_AND_CONTINUE:
		if cret := sspi.CompleteAuthToken(p.ctx.Handle, outBufs); cret != sspi.SEC_E_OK {
			return nil, false, fmt.Errorf("handshake: sspi: complete auth token: %w", sspiStatusError{code: uint32(cret)})
		}
		return dst[:n], ret == sspi.SEC_I_COMPLETE_NEEDED, nil
	default:
		return nil, false, fmt.Errorf("handshake: sspi: initialize security context: %w", sspiStatusError{code: uint32(ret)})
	}
}

// Complete reports whether the security context is established.
func (p *SSPIProvider) Complete() bool {
	return p.complete
}

// PeerName returns the target the context was established against. With
// ISC_REQ_MUTUAL_AUTH a completed context means SSPI verified that account,
// so resolving its SID is the right trust anchor.
func (p *SSPIProvider) PeerName() string {
	if !p.complete {
		return ""
	}
	return p.target
}

// Close releases the context and credential handles.
func (p *SSPIProvider) Close() error {
	var errs []string
	if p.ctx != nil {
		if err := p.ctx.Release(); err != nil {
			errs = append(errs, fmt.Sprintf("context release: %v", err))
		}
		p.ctx = nil
	}
	if p.cred != nil {
		if err := p.cred.Release(); err != nil {
			errs = append(errs, fmt.Sprintf("credentials release: %v", err))
		}
		p.cred = nil
	}
	if len(errs) > 0 {
		return fmt.Errorf("handshake: sspi: close: %s", strings.Join(errs, "; "))
	}
	return nil
}

// buildAuthIdentity creates a SEC_WINNT_AUTH_IDENTITY for explicit
// credentials.
func buildAuthIdentity(creds *Credentials) (*byte, error) {
	d, err := syscall.UTF16FromString(creds.Domain)
	if err != nil {
		return nil, fmt.Errorf("handshake: sspi: encode domain: %w", err)
	}
	u, err := syscall.UTF16FromString(creds.Username)
	if err != nil {
		return nil, fmt.Errorf("handshake: sspi: encode username: %w", err)
	}
	pw, err := syscall.UTF16FromString(creds.Password)
	if err != nil {
		return nil, fmt.Errorf("handshake: sspi: encode password: %w", err)
	}
	identity := &sspi.SEC_WINNT_AUTH_IDENTITY{
		User:           &u[0],
		UserLength:     uint32(len(u) - 1),
		Domain:         &d[0],
		DomainLength:   uint32(len(d) - 1),
		Password:       &pw[0],
		PasswordLength: uint32(len(pw) - 1),
		Flags:          sspi.SEC_WINNT_AUTH_IDENTITY_UNICODE,
	}
	return (*byte)(unsafe.Pointer(identity)), nil
}
