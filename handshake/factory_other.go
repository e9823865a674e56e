//go:build !windows

package handshake

import "errors"

// ProviderConfig selects and configures a SecurityProvider for the current
// platform. Off Windows there is no ambient logged-in identity; either a
// Kerberos credential source (ccache from kinit gives SSO-like behavior) or
// explicit NTLM credentials are required.
type ProviderConfig struct {
	// TargetName is the service account the server must prove
	// (e.g. mysqlsvc@EXAMPLE.COM).
	TargetName string

	// Credentials supply an explicit identity for NTLM, or the
	// username/password source for Kerberos.
	Credentials *Credentials

	// Kerberos selects the pure-Go Kerberos provider.
	Kerberos *KerberosConfig

	// SSPIPackage is accepted for config compatibility and ignored here.
	SSPIPackage string
}

// NewProvider returns the platform default provider: Kerberos when a
// credential source is configured, NTLM otherwise.
func NewProvider(cfg ProviderConfig) (SecurityProvider, error) {
	if cfg.Kerberos != nil {
		kcfg := *cfg.Kerberos
		if kcfg.Credentials == nil {
			kcfg.Credentials = cfg.Credentials
		}
		return NewKerberosProvider(kcfg, cfg.TargetName)
	}
	if cfg.Credentials != nil {
		return NewNTLMProvider(*cfg.Credentials, cfg.TargetName)
	}
	return nil, errors.New("handshake: single sign-on requires Windows; configure Kerberos or explicit credentials")
}

// SupportsSSO reports whether this platform can authenticate with the
// logged-in user's credentials without explicit configuration.
func SupportsSSO() bool {
	return false
}
