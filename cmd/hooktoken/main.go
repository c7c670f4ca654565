// Command hooktoken mints a service token for calling the /notify hooks.
//
//	NOTIFY_JWT_SECRET=... hooktoken -caller store-backend -ttl 24h
package main

import (
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/rs/zerolog"

	"github.com/orderpush/orderpush/internal/auth"
	"github.com/orderpush/orderpush/internal/config"
)

var errMissingSecret = errors.New("NOTIFY_JWT_SECRET is not set")

func main() {
	log := zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr}).With().Timestamp().Logger()

	if err := run(os.Args[1:], config.FromEnv().NotifyJWTSecret, os.Stdout); err != nil {
		log.Fatal().Err(err).Msg("failed to mint hook token")
	}
}

// run parses args and writes the token followed by its expiry to out.
func run(args []string, secret string, out io.Writer) error {
	fs := flag.NewFlagSet("hooktoken", flag.ContinueOnError)
	fs.SetOutput(io.Discard)
	caller := fs.String("caller", "", "name of the system that will call the hooks")
	ttl := fs.Duration("ttl", auth.DefaultTokenTTL, "token lifetime")
	issuer := fs.String("issuer", "", "issuer claim")
	if err := fs.Parse(args); err != nil {
		return err
	}

	if secret == "" {
		return errMissingSecret
	}
	if *caller == "" {
		return errors.New("-caller is required")
	}

	svc := auth.NewJWTService(auth.JWTConfig{SigningKey: secret, Issuer: *issuer})
	token, expiresAt, err := svc.GenerateServiceToken(*caller, *ttl)
	if err != nil {
		return err
	}

	_, err = fmt.Fprintf(out, "%s\nexpires %s\n", token, expiresAt.UTC().Format(time.RFC3339))
	return err
}
