package handshake

import (
	"context"
	"errors"
	"fmt"
	"os"

	"github.com/go-krb5/krb5/client"
	"github.com/go-krb5/krb5/config"
	"github.com/go-krb5/krb5/credentials"
	"github.com/go-krb5/krb5/keytab"
	"github.com/go-krb5/krb5/spnego"
)

// KerberosConfig configures the pure-Go Kerberos provider. Exactly one
// credential source is used, tried in order: keytab, credential cache,
// password. A ccache from kinit gives single sign-on without SSPI.
type KerberosConfig struct {
	// Realm is the Kerberos realm (e.g. EXAMPLE.COM).
	Realm string

	// Krb5ConfPath locates krb5.conf. Defaults to $KRB5_CONFIG, then
	// /etc/krb5.conf.
	Krb5ConfPath string

	// KeytabPath is the path to a keytab file (optional).
	KeytabPath string

	// CCachePath is the path to a credential cache (optional).
	CCachePath string

	// Credentials supply username/password when no keytab or ccache is
	// given. Username alone is required with KeytabPath.
	Credentials *Credentials
}

// KerberosProvider implements SecurityProvider with gokrb5 SPNEGO. It works
// on every platform; on Windows the SSPI provider is preferred because it
// reuses the logged-in session outright.
type KerberosProvider struct {
	client   *client.Client
	spnegoCl *spnego.SPNEGO
	target   string
	complete bool
}

// NewKerberosProvider loads krb5.conf and builds a Kerberos client from the
// configured credential source.
func NewKerberosProvider(cfg KerberosConfig, targetName string) (*KerberosProvider, error) {
	if targetName == "" {
		return nil, errors.New("handshake: kerberos: target name is required")
	}

	confPath := cfg.Krb5ConfPath
	if confPath == "" {
		confPath = os.Getenv("KRB5_CONFIG")
		if confPath == "" {
			confPath = "/etc/krb5.conf"
		}
	}
	conf, err := config.Load(confPath)
	if err != nil {
		return nil, fmt.Errorf("handshake: kerberos: load krb5.conf from %s: %w", confPath, err)
	}

	var cl *client.Client
	switch {
	case cfg.KeytabPath != "":
		if cfg.Credentials == nil || cfg.Credentials.Username == "" {
			return nil, errors.New("handshake: kerberos: keytab requires a username")
		}
		kt, err := keytab.Load(cfg.KeytabPath)
		if err != nil {
			return nil, fmt.Errorf("handshake: kerberos: load keytab from %s: %w", cfg.KeytabPath, err)
		}
		cl = client.NewWithKeytab(cfg.Credentials.Username, cfg.Realm, kt, conf, client.DisablePAFXFAST(true))

	case cfg.CCachePath != "":
		cc, err := credentials.LoadCCache(cfg.CCachePath)
		if err != nil {
			return nil, fmt.Errorf("handshake: kerberos: load ccache from %s: %w", cfg.CCachePath, err)
		}
		cl, err = client.NewFromCCache(cc, conf, client.DisablePAFXFAST(true))
		if err != nil {
			return nil, fmt.Errorf("handshake: kerberos: client from ccache: %w", err)
		}

	case cfg.Credentials != nil && cfg.Credentials.Password != "":
		cl = client.NewWithPassword(
			cfg.Credentials.Username,
			cfg.Realm,
			cfg.Credentials.Password,
			conf,
			client.DisablePAFXFAST(true),
		)

	default:
		return nil, errors.New("handshake: kerberos: no credential source (keytab, ccache, or password)")
	}

	return &KerberosProvider{client: cl, target: targetName}, nil
}

// Step produces the SPNEGO NegTokenInit carrying the AP-REQ for the target
// service. The Kerberos exchange completes in one leg from the client's
// side; a subsequent inbound token would be the server's acceptance, which
// needs no reply.
func (p *KerberosProvider) Step(ctx context.Context, inToken []byte) ([]byte, bool, error) {
	if err := p.client.Login(); err != nil {
		return nil, false, fmt.Errorf("handshake: kerberos: login: %w", err)
	}

	if len(inToken) == 0 && !p.complete {
		if p.spnegoCl == nil {
			p.spnegoCl = spnego.SPNEGOClient(p.client, p.target)
		}
		tkn, err := p.spnegoCl.InitSecContext()
		if err != nil {
			return nil, false, fmt.Errorf("handshake: kerberos: init security context: %w", err)
		}
		out, err := tkn.Marshal()
		if err != nil {
			return nil, false, fmt.Errorf("handshake: kerberos: marshal token: %w", err)
		}
		p.complete = true
		return out, false, nil
	}

	if !p.complete {
		return nil, false, errors.New("handshake: kerberos: server token before client context established")
	}
	// Server acceptance token; nothing further to send.
	return nil, false, nil
}

// Complete reports whether the AP-REQ has been produced.
func (p *KerberosProvider) Complete() bool {
	return p.complete
}

// PeerName returns the service principal the ticket was obtained for. The
// KDC only issues a ticket a genuine holder of that principal's key can
// decrypt, which is what makes resolving the SPN's account sound here.
func (p *KerberosProvider) PeerName() string {
	if !p.complete {
		return ""
	}
	return p.target
}

// Close destroys the Kerberos client session.
func (p *KerberosProvider) Close() error {
	if p.client != nil {
		p.client.Destroy()
	}
	return nil
}
