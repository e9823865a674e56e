package winauth

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestConfigValidate(t *testing.T) {
	tests := []struct {
		name    string
		cfg     Config
		wantErr string
	}{
		{
			name: "valid",
			cfg:  Config{TargetName: "mysqlsvc@EXAMPLE.COM", ExpectedIdentity: "S-1-5-18"},
		},
		{
			name:    "missing target",
			cfg:     Config{ExpectedIdentity: "S-1-5-18"},
			wantErr: "target service name is required",
		},
		{
			name:    "skip-verify still requires target",
			cfg:     Config{InsecureSkipVerify: true},
			wantErr: "target service name is required",
		},
		{
			name: "skip-verify with target",
			cfg:  Config{TargetName: "mysqlsvc@EXAMPLE.COM", InsecureSkipVerify: true},
		},
		{
			name:    "oversized target",
			cfg:     Config{TargetName: strings.Repeat("x", MaxServiceNameLength+1)},
			wantErr: "exceeds",
		},
		{
			name: "target at the bound",
			cfg:  Config{TargetName: strings.Repeat("x", MaxServiceNameLength)},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.cfg.validate()
			if tt.wantErr == "" {
				assert.NoError(t, err)
			} else {
				require.Error(t, err)
				assert.Contains(t, err.Error(), tt.wantErr)
			}
		})
	}
}

func TestConfigFromEnv(t *testing.T) {
	t.Setenv(envPassword, "env-secret")

	got := Config{}.FromEnv()
	assert.Equal(t, "env-secret", got.Password)

	// Caller-provided values win over the environment.
	got = Config{Password: "explicit"}.FromEnv()
	assert.Equal(t, "explicit", got.Password)
}

func TestConfigWantsKerberos(t *testing.T) {
	assert.False(t, Config{}.wantsKerberos())
	assert.True(t, Config{Realm: "EXAMPLE.COM"}.wantsKerberos())
	assert.True(t, Config{CCachePath: "/tmp/krb5cc_1000"}.wantsKerberos())
	assert.True(t, Config{KeytabPath: "/etc/svc.keytab"}.wantsKerberos())
	assert.True(t, Config{Krb5ConfPath: "/etc/krb5.conf"}.wantsKerberos())
}

func TestEnvLevel(t *testing.T) {
	tests := []struct {
		raw    string
		silent bool
	}{
		{"", true},
		{"0", true},
		{"-3", true},
		{"1", false},
		{"2", false},
		{"7", false},
	}
	for _, tt := range tests {
		t.Run("level="+tt.raw, func(t *testing.T) {
			t.Setenv(envLogLevel, tt.raw)
			level, err := envLevel()
			require.NoError(t, err)
			assert.Equal(t, tt.silent, level == nil)
		})
	}

	t.Setenv(envLogLevel, "verbose")
	_, err := envLevel()
	assert.Error(t, err)
}

func TestPluginRegistry(t *testing.T) {
	// The built-in method registers itself at package load.
	p, ok := Lookup("windows")
	require.True(t, ok)
	assert.Equal(t, "windows", p.Name())
	assert.Contains(t, Plugins(), "windows")

	_, ok = Lookup("no-such-method")
	assert.False(t, ok)

	assert.Panics(t, func() { Register(windowsPlugin{}) }, "duplicate registration must panic")
	assert.Panics(t, func() { Register(nil) }, "nil plugin must panic")
}
