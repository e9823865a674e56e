package winauth

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"strconv"

	ilog "github.com/smnsjas/go-winauth/internal/log"
)

// MaxServiceNameLength bounds the target service name.
const MaxServiceNameLength = 1024

// Environment switches, mirroring the client plugin options of the original
// server product:
//
//	WINAUTH_LOG_LEVEL  0 = silent (default), 1 = errors, 2 = debug
//	WINAUTH_CLIENT_LOG path of the debug log file; stderr when unset
//	WINAUTH_PASSWORD   password for the explicit-credential providers
const (
	envLogLevel  = "WINAUTH_LOG_LEVEL"
	envClientLog = "WINAUTH_CLIENT_LOG"
	envPassword  = "WINAUTH_PASSWORD"
)

// Config describes one login attempt for Authenticate.
type Config struct {
	// TargetName is the service account of the server, e.g.
	// "mysqlsvc@EXAMPLE.COM". Required; at most MaxServiceNameLength bytes.
	TargetName string

	// ExpectedIdentity is the textual SID the server must prove
	// ("S-1-5-21-..."). Required unless InsecureSkipVerify is set.
	ExpectedIdentity string

	// Domain, Username, Password select explicit credentials instead of
	// single sign-on. Leave empty on Windows for SSO.
	Domain   string
	Username string
	Password string

	// Realm, Krb5ConfPath, CCachePath, KeytabPath configure the pure-Go
	// Kerberos provider; setting any of them selects it.
	Realm        string
	Krb5ConfPath string
	CCachePath   string
	KeytabPath   string

	// InsecureSkipVerify disables server identity verification. See
	// handshake.Config.
	InsecureSkipVerify bool

	// Logger overrides the logger built from the environment switches.
	Logger *slog.Logger
}

// FromEnv fills unset fields from the environment (currently the password).
// Flag- or caller-provided values win.
func (c Config) FromEnv() Config {
	if c.Password == "" {
		c.Password = os.Getenv(envPassword)
	}
	return c
}

func (c Config) validate() error {
	// The target is the negotiation SPN for every provider, so skip-verify
	// does not lift the requirement; it only disables the SID check.
	if c.TargetName == "" {
		return fmt.Errorf("winauth: target service name is required")
	}
	if len(c.TargetName) > MaxServiceNameLength {
		return fmt.Errorf("winauth: target service name exceeds %d bytes", MaxServiceNameLength)
	}
	return nil
}

// wantsKerberos reports whether any Kerberos-specific field is set.
func (c Config) wantsKerberos() bool {
	return c.Realm != "" || c.CCachePath != "" || c.KeytabPath != "" || c.Krb5ConfPath != ""
}

// logger resolves the logger for a session: the explicit one when given,
// otherwise one built from WINAUTH_LOG_LEVEL / WINAUTH_CLIENT_LOG. The
// returned closer is non-nil when a log file was opened.
func (c Config) logger() (*slog.Logger, io.Closer, error) {
	if c.Logger != nil {
		return c.Logger, nil, nil
	}

	level, err := envLevel()
	if err != nil {
		return nil, nil, err
	}
	if level == nil {
		// Silent: discard everything below the handler.
		return slog.New(slog.DiscardHandler), nil, nil
	}

	var w io.Writer = os.Stderr
	var closer io.Closer
	if path := os.Getenv(envClientLog); path != "" {
		// 1 MiB per file, two backups kept.
		rf, err := ilog.NewRotatingFile(path, 1<<20, 2)
		if err != nil {
			return nil, nil, fmt.Errorf("winauth: open client log: %w", err)
		}
		w = rf
		closer = rf
	}
	return ilog.New(w, *level), closer, nil
}

func envLevel() (*slog.Level, error) {
	raw := os.Getenv(envLogLevel)
	if raw == "" {
		return nil, nil
	}
	n, err := strconv.Atoi(raw)
	if err != nil {
		return nil, fmt.Errorf("winauth: parse %s=%q: %w", envLogLevel, raw, err)
	}
	var level slog.Level
	switch {
	case n <= 0:
		return nil, nil
	case n == 1:
		level = slog.LevelError
	default:
		level = slog.LevelDebug
	}
	return &level, nil
}
