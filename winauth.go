package winauth

import (
	"context"
	"fmt"
	"io"
	"sort"
	"sync"

	"github.com/smnsjas/go-winauth/handshake"
	"github.com/smnsjas/go-winauth/identity"
)

// ErrAuthFailed is returned for every failed login attempt, regardless of
// cause. See handshake.ErrAuthFailed.
var ErrAuthFailed = handshake.ErrAuthFailed

// Authenticate performs one single-sign-on login attempt over transport.
// The transport is borrowed: it is never closed here, and after a failure
// the caller must discard it and dial a fresh one before retrying.
func Authenticate(ctx context.Context, transport io.ReadWriter, cfg Config) error {
	cfg = cfg.FromEnv()
	if err := cfg.validate(); err != nil {
		return err
	}

	var expected identity.SID
	if cfg.ExpectedIdentity != "" {
		var err error
		expected, err = identity.Parse(cfg.ExpectedIdentity)
		if err != nil {
			return fmt.Errorf("winauth: expected identity: %w", err)
		}
	}

	logger, closer, err := cfg.logger()
	if err != nil {
		return err
	}
	if closer != nil {
		defer closer.Close()
	}

	pcfg := handshake.ProviderConfig{TargetName: cfg.TargetName}
	if cfg.Username != "" {
		pcfg.Credentials = &handshake.Credentials{
			Username: cfg.Username,
			Password: cfg.Password,
			Domain:   cfg.Domain,
		}
	}
	if cfg.wantsKerberos() {
		pcfg.Kerberos = &handshake.KerberosConfig{
			Realm:        cfg.Realm,
			Krb5ConfPath: cfg.Krb5ConfPath,
			CCachePath:   cfg.CCachePath,
			KeytabPath:   cfg.KeytabPath,
			Credentials:  pcfg.Credentials,
		}
	}

	provider, err := handshake.NewProvider(pcfg)
	if err != nil {
		return err
	}
	defer provider.Close()

	sess, err := handshake.NewSession(handshake.Config{
		Transport:          transport,
		Provider:           provider,
		Expected:           expected,
		Logger:             logger,
		InsecureSkipVerify: cfg.InsecureSkipVerify,
	})
	if err != nil {
		return err
	}
	return sess.Authenticate(ctx)
}

// Plugin is a named authentication method a database driver can select.
type Plugin interface {
	// Name is the method name the driver matches on, e.g. "windows".
	Name() string

	// Authenticate runs one login attempt over transport.
	Authenticate(ctx context.Context, transport io.ReadWriter, cfg Config) error
}

var (
	pluginsMu sync.RWMutex
	plugins   = map[string]Plugin{}
)

// Register makes a plugin selectable by name. Registering two plugins under
// the same name is a programming error and panics, matching the behavior
// drivers expect from method registries.
func Register(p Plugin) {
	pluginsMu.Lock()
	defer pluginsMu.Unlock()
	if p == nil || p.Name() == "" {
		panic("winauth: Register called with nil or unnamed plugin")
	}
	if _, dup := plugins[p.Name()]; dup {
		panic(fmt.Sprintf("winauth: plugin %q registered twice", p.Name()))
	}
	plugins[p.Name()] = p
}

// Lookup returns the plugin registered under name.
func Lookup(name string) (Plugin, bool) {
	pluginsMu.RLock()
	defer pluginsMu.RUnlock()
	p, ok := plugins[name]
	return p, ok
}

// Plugins returns the registered plugin names, sorted.
func Plugins() []string {
	pluginsMu.RLock()
	defer pluginsMu.RUnlock()
	names := make([]string, 0, len(plugins))
	for name := range plugins {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// windowsPlugin is the built-in plugin wrapping Authenticate.
type windowsPlugin struct{}

func (windowsPlugin) Name() string { return "windows" }

func (windowsPlugin) Authenticate(ctx context.Context, transport io.ReadWriter, cfg Config) error {
	return Authenticate(ctx, transport, cfg)
}

func init() {
	Register(windowsPlugin{})
}
