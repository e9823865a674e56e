//go:build windows

package handshake

// ProviderConfig selects and configures a SecurityProvider for the current
// platform. The zero value plus TargetName gives single sign-on where the
// platform supports it.
type ProviderConfig struct {
	// TargetName is the service account the server must prove
	// (e.g. mysqlsvc@EXAMPLE.COM).
	TargetName string

	// Credentials force an explicit identity instead of single sign-on.
	Credentials *Credentials

	// Kerberos selects the pure-Go Kerberos provider even on Windows.
	// Useful when the process runs outside a domain session.
	Kerberos *KerberosConfig

	// SSPIPackage selects the SSPI package (default Negotiate). Use
	// "Kerberos" to forbid NTLM fallback.
	SSPIPackage string
}

// NewProvider returns the platform default provider: SSPI, with single
// sign-on unless explicit credentials are supplied.
func NewProvider(cfg ProviderConfig) (SecurityProvider, error) {
	if cfg.Kerberos != nil {
		kcfg := *cfg.Kerberos
		if kcfg.Credentials == nil {
			kcfg.Credentials = cfg.Credentials
		}
		return NewKerberosProvider(kcfg, cfg.TargetName)
	}
	return NewSSPIProvider(SSPIConfig{
		Credentials: cfg.Credentials,
		PackageName: cfg.SSPIPackage,
	}, cfg.TargetName)
}

// SupportsSSO reports whether this platform can authenticate with the
// logged-in user's credentials without explicit configuration.
func SupportsSSO() bool {
	return true
}
