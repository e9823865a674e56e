// Package winauth implements the client side of Windows single-sign-on
// authentication for a database connection: the process proves its
// logged-in operating-system identity to the server, and verifies the
// server's identity in return, over an already-open byte channel the
// database driver supplies.
//
// # Architecture
//
// The library is organized into layers:
//
//	┌─────────────────────────────────────────────────────────┐
//	│  winauth       One-call login API + plugin registry     │
//	├─────────────────────────────────────────────────────────┤
//	│  handshake/    Token-exchange engine + providers        │
//	│                (SSPI, Kerberos, NTLM)                   │
//	├─────────────────────────────────────────────────────────┤
//	│  identity/     SID + UPN resolution and comparison      │
//	├─────────────────────────────────────────────────────────┤
//	│  wire/         Length-framed messages over the channel  │
//	└─────────────────────────────────────────────────────────┘
//
// The handshake sends the client's User Principal Name, then exchanges
// opaque negotiation tokens until the platform security context is
// established, and finally compares the negotiated peer identity against
// the server SID the caller expects. A mismatch fails the login with the
// same error as any other failure; an impersonating server learns nothing.
//
// # Quick Start
//
//	conn, err := net.Dial("tcp", "dbhost:3306")
//	if err != nil {
//	    log.Fatal(err)
//	}
//	defer conn.Close()
//
//	err = winauth.Authenticate(ctx, conn, winauth.Config{
//	    TargetName:       "mysqlsvc@EXAMPLE.COM",
//	    ExpectedIdentity: "S-1-5-21-3623811015-3361044348-30300820-1001",
//	})
//
// On Windows this uses the logged-in user's credentials via SSPI. On other
// platforms supply a Kerberos credential cache (kinit) or explicit
// credentials; see Config.
package winauth
