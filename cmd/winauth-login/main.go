// Command winauth-login performs a single-sign-on login attempt against a
// test server and reports the outcome.
//
// Password (only needed for the explicit-credential providers) can be
// provided via:
//   - WINAUTH_PASSWORD environment variable (recommended)
//   - stdin prompt (if the env var is not set and -user is given)
//
// Usage:
//
//	winauth-login -server <host:port> -target <service> -expected-sid <sid>
//
// Examples:
//
//	# Windows SSO over TCP
//	winauth-login -server dbhost:3306 -target mysqlsvc@EXAMPLE.COM \
//	    -expected-sid S-1-5-21-3623811015-3361044348-30300820-1001
//
//	# Windows SSO over a named pipe
//	winauth-login -pipe \\.\pipe\MySQL -target mysqlsvc@EXAMPLE.COM \
//	    -expected-sid S-1-5-21-3623811015-3361044348-30300820-1001
//
//	# Kerberos SSO on Linux after kinit
//	winauth-login -server dbhost:3306 -target mysqlsvc@EXAMPLE.COM \
//	    -ccache /tmp/krb5cc_1000 -realm EXAMPLE.COM \
//	    -expected-sid S-1-5-21-3623811015-3361044348-30300820-1001
package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"net"
	"os"
	"time"

	"golang.org/x/term"

	"github.com/smnsjas/go-winauth"
	"github.com/smnsjas/go-winauth/wire"
)

func main() {
	var (
		server      = flag.String("server", "", "server address (host:port)")
		pipe        = flag.String("pipe", "", `named pipe path (windows, e.g. \\.\pipe\MySQL)`)
		target      = flag.String("target", "", "target service account name")
		expectedSID = flag.String("expected-sid", "", "expected server SID (S-1-5-...)")
		user        = flag.String("user", "", "username for explicit credentials (default: SSO)")
		domain      = flag.String("domain", "", "domain for explicit credentials")
		realm       = flag.String("realm", "", "kerberos realm")
		ccache      = flag.String("ccache", "", "kerberos credential cache path")
		keytab      = flag.String("keytab", "", "kerberos keytab path")
		krb5conf    = flag.String("krb5conf", "", "krb5.conf path")
		skipVerify  = flag.Bool("skip-verify", false, "do not verify the server identity (insecure)")
		timeout     = flag.Duration("timeout", 30*time.Second, "overall login timeout")
		verbose     = flag.Bool("v", false, "debug logging to stderr")
	)
	flag.Parse()

	if (*server == "") == (*pipe == "") {
		fmt.Fprintln(os.Stderr, "exactly one of -server or -pipe is required")
		flag.Usage()
		os.Exit(2)
	}

	if *verbose {
		os.Setenv("WINAUTH_LOG_LEVEL", "2")
	}

	ctx, cancel := context.WithTimeout(context.Background(), *timeout)
	defer cancel()

	conn, err := dial(ctx, *server, *pipe)
	if err != nil {
		slog.Error("dial failed", "err", err)
		os.Exit(1)
	}
	defer conn.Close()

	cfg := winauth.Config{
		TargetName:         *target,
		ExpectedIdentity:   *expectedSID,
		Username:           *user,
		Domain:             *domain,
		Realm:              *realm,
		CCachePath:         *ccache,
		KeytabPath:         *keytab,
		Krb5ConfPath:       *krb5conf,
		InsecureSkipVerify: *skipVerify,
	}.FromEnv()

	if cfg.Username != "" && cfg.Password == "" {
		cfg.Password, err = promptPassword()
		if err != nil {
			slog.Error("read password", "err", err)
			os.Exit(1)
		}
	}

	// Abandon the transport when the timeout fires; the handshake observes
	// it as a channel error on its next blocking call.
	go func() {
		<-ctx.Done()
		if ctx.Err() == context.DeadlineExceeded {
			conn.Close()
		}
	}()

	if err := winauth.Authenticate(ctx, conn, cfg); err != nil {
		fmt.Fprintf(os.Stderr, "login failed: %v\n", err)
		os.Exit(1)
	}
	fmt.Println("login succeeded")
}

func dial(ctx context.Context, server, pipe string) (net.Conn, error) {
	if pipe != "" {
		return wire.DialPipe(ctx, pipe)
	}
	var d net.Dialer
	return d.DialContext(ctx, "tcp", server)
}

func promptPassword() (string, error) {
	fmt.Fprint(os.Stderr, "Password: ")
	pw, err := term.ReadPassword(int(os.Stdin.Fd()))
	fmt.Fprintln(os.Stderr)
	if err != nil {
		return "", err
	}
	return string(pw), nil
}
