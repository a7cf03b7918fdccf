// Dev helper: mints signed session tokens against a running
// identity-service without going through the login flow. Useful for
// load tests and for poking the internal token/validate endpoint.
package main

import (
	"bufio"
	"flag"
	"fmt"
	"os"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/buildmaster/projecttracker/services/identity-service/internal/application/auth"
	"github.com/buildmaster/projecttracker/services/identity-service/internal/infrastructure/security"
)

func main() {
	var (
		subject = flag.String("sub", "", "token subject (username); random when empty")
		kind    = flag.String("kind", "access", "token kind: access or refresh")
		count   = flag.Int("n", 1, "how many tokens to mint (random subjects)")
		ttl     = flag.Duration("ttl", 15*time.Minute, "token lifetime")
		issuer  = flag.String("iss", "identity-service", "token issuer")
		out     = flag.String("out", "", "write tokens to this file, one per line (stdout when empty)")
	)
	flag.Parse()

	secret := os.Getenv("JWT_SECRET")
	if secret == "" {
		fmt.Fprintln(os.Stderr, "JWT_SECRET must be set")
		os.Exit(1)
	}

	tokenKind := auth.TokenKind(*kind)
	if tokenKind != auth.TokenKindAccess && tokenKind != auth.TokenKindRefresh {
		fmt.Fprintf(os.Stderr, "unknown token kind %q\n", *kind)
		os.Exit(1)
	}

	signer := security.NewJWTSigner(secret, *issuer, *ttl, *ttl, zerolog.Nop())

	w := bufio.NewWriter(os.Stdout)
	if *out != "" {
		f, err := os.Create(*out)
		if err != nil {
			fmt.Fprintf(os.Stderr, "create %s: %v\n", *out, err)
			os.Exit(1)
		}
		defer f.Close()
		w = bufio.NewWriter(f)
	}
	defer w.Flush()

	for i := 0; i < *count; i++ {
		sub := *subject
		if sub == "" || *count > 1 {
			sub = uuid.NewString()
		}

		tok, err := signer.Issue(sub, tokenKind)
		if err != nil {
			fmt.Fprintf(os.Stderr, "issue token: %v\n", err)
			os.Exit(1)
		}
		fmt.Fprintln(w, tok)
	}
}
