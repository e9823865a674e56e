package handshake

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"

	"github.com/google/uuid"

	"github.com/smnsjas/go-winauth/blob"
	"github.com/smnsjas/go-winauth/identity"
	"github.com/smnsjas/go-winauth/wire"
)

// State is the lifecycle of one login attempt.
type State int

const (
	// NotStarted means Authenticate has not been called yet.
	NotStarted State = iota
	// InProgress means the token exchange is running.
	InProgress
	// Completed means negotiation succeeded and the peer identity matched.
	Completed
	// Failed is the terminal state for every kind of failure.
	Failed
)

// String returns the state name.
func (s State) String() string {
	switch s {
	case NotStarted:
		return "NotStarted"
	case InProgress:
		return "InProgress"
	case Completed:
		return "Completed"
	case Failed:
		return "Failed"
	default:
		return "Unknown"
	}
}

// ErrAuthFailed is the only error Authenticate returns for a failed login.
// Transport failures, rejected tokens, and identity mismatches are
// deliberately indistinguishable through it; the reason is logged locally
// and never put on the wire.
var ErrAuthFailed = errors.New("authentication failed")

// maxRounds bounds the token exchange so a confused or malicious server
// cannot keep a client stepping forever.
const maxRounds = 10

// Config describes one login attempt.
type Config struct {
	// Transport is the open byte-stream channel to the server. Borrowed for
	// the duration of the session, never closed by it.
	Transport io.ReadWriter

	// Provider performs the token negotiation.
	Provider SecurityProvider

	// Expected is the server identity the peer must prove. Required unless
	// InsecureSkipVerify is set.
	Expected identity.SID

	// Store resolves identities. Defaults to identity.SystemStore().
	Store identity.Store

	// Logger receives handshake diagnostics. Defaults to slog.Default().
	// Callers should wrap handlers with the module's redaction support
	// before passing them in.
	Logger *slog.Logger

	// InsecureSkipVerify disables the peer identity check. Only for lab
	// servers whose service account has no resolvable SID; a client that
	// sets it cannot detect server impersonation.
	InsecureSkipVerify bool
}

// Session is a single-use handshake engine. It is not safe for concurrent
// use and must not be shared across login attempts.
type Session struct {
	id       uuid.UUID
	conn     *wire.Conn
	provider SecurityProvider
	expected identity.SID
	store    identity.Store
	log      *slog.Logger
	skip     bool

	state State
	peer  identity.SID
}

// NewSession validates cfg and binds a session to its transport.
func NewSession(cfg Config) (*Session, error) {
	if cfg.Transport == nil {
		return nil, errors.New("handshake: transport is required")
	}
	if cfg.Provider == nil {
		return nil, errors.New("handshake: security provider is required")
	}
	if !cfg.Expected.IsValid() && !cfg.InsecureSkipVerify {
		return nil, errors.New("handshake: expected server identity is required")
	}

	store := cfg.Store
	if store == nil {
		store = identity.SystemStore()
	}
	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}

	id := uuid.New()
	return &Session{
		id:       id,
		conn:     wire.NewConn(cfg.Transport),
		provider: cfg.Provider,
		expected: cfg.Expected,
		store:    store,
		log:      logger.With("session", id.String()),
		skip:     cfg.InsecureSkipVerify,
		state:    NotStarted,
	}, nil
}

// State returns the current session state.
func (s *Session) State() State {
	return s.state
}

// PeerIdentity returns the resolved peer identity once negotiation has
// completed, and the invalid SID before that.
func (s *Session) PeerIdentity() identity.SID {
	return s.peer
}

// Authenticate runs the handshake to a terminal state. It blocks the calling
// goroutine on transport I/O; cancellation happens by closing the transport,
// which surfaces as a channel error on the next blocking call.
func (s *Session) Authenticate(ctx context.Context) error {
	if s.state != NotStarted {
		return fmt.Errorf("handshake: session already used (state %s)", s.state)
	}
	s.state = InProgress

	// The client principal goes first so the server can pick the right
	// account to negotiate against. A zero-length frame means no principal
	// is available and the server falls back to the login-record name.
	upn := identity.ResolveUPN(s.store)
	if !upn.IsValid() {
		s.log.Debug("no local principal available, sending empty principal frame")
	} else {
		s.log.Debug("sending local principal", "upn", upn.String())
	}
	if err := s.conn.Write(upn.AsBlob()); err != nil {
		return s.fail("send principal", err)
	}

	out, cont, err := s.provider.Step(ctx, nil)
	if err != nil {
		return s.fail("initial negotiation step", err)
	}
	if len(out) > 0 {
		if err := s.conn.Write(blob.New(out)); err != nil {
			return s.fail("send initial token", err)
		}
	}
	s.log.Debug("initial token produced", "len", len(out), "continue", cont)

	for round := 0; cont; round++ {
		if round >= maxRounds {
			return s.fail("negotiation did not converge", fmt.Errorf("%d rounds exchanged", round))
		}

		in := s.conn.Read()
		if err := s.conn.Err(); err != nil {
			return s.fail("receive server token", err)
		}

		out, cont, err = s.provider.Step(ctx, in.Bytes())
		if err != nil {
			return s.fail("negotiation step", err)
		}
		s.log.Debug("negotiation round", "round", round, "inLen", in.Len(), "outLen", len(out), "continue", cont)

		// An empty output token is not an error; nothing further needs to
		// be sent for this round.
		if len(out) > 0 {
			if err := s.conn.Write(blob.New(out)); err != nil {
				return s.fail("send token", err)
			}
		}
	}

	if !s.provider.Complete() {
		return s.fail("negotiation ended without an established context", nil)
	}

	if s.skip {
		s.log.Warn("peer identity verification disabled, accepting server unverified")
		s.state = Completed
		return nil
	}

	peerName := s.provider.PeerName()
	s.peer = identity.ResolveAccount(s.store, peerName)
	if !s.peer.Equal(s.expected) {
		// Security-relevant: logged here, invisible in the returned error.
		return s.fail("peer identity mismatch",
			fmt.Errorf("peer %q resolved to %s, expected %s", peerName, s.peer, s.expected))
	}

	s.state = Completed
	s.log.Info("authentication completed", "peer", s.peer.String())
	return nil
}

// fail records the terminal state and the internal reason, and returns the
// uniform authentication error.
func (s *Session) fail(reason string, err error) error {
	s.state = Failed
	if err != nil {
		s.log.Error("authentication failed", "reason", reason, "err", err)
	} else {
		s.log.Error("authentication failed", "reason", reason)
	}
	return ErrAuthFailed
}
