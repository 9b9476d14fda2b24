// Command admin-token mints an admin access token for local use of the dashboard API.
//
// Usage:
//
//	go run ./cmd/admin-token --email ops@example.com --role admin
//	go run ./cmd/admin-token --role operator --ttl 1h
package main

import (
	"flag"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/google/uuid"

	"github.com/rocketbird/rocketbird-api/internal/config"
	"github.com/rocketbird/rocketbird-api/internal/domain/admin"
	"github.com/rocketbird/rocketbird-api/internal/pkg/jwt"
)

func main() {
	cfg := config.Load()
	if err := run(os.Args[1:], cfg, os.Stdout, os.Stderr); err != nil {
		fmt.Fprintln(os.Stderr, "admin-token:", err)
		os.Exit(1)
	}
}

func run(args []string, cfg *config.Config, stdout, stderr io.Writer) error {
	fs := flag.NewFlagSet("admin-token", flag.ContinueOnError)
	fs.SetOutput(stderr)

	email := fs.String("email", "admin@localhost", "admin email")
	role := fs.String("role", string(admin.RoleAdmin), "admin role")
	id := fs.String("id", "", "admin id (random when empty)")
	ttl := fs.Duration("ttl", cfg.JWTAccessTTL, "token lifetime")

	if err := fs.Parse(args); err != nil {
		return err
	}

	if !admin.Role(*role).IsValid() {
		return fmt.Errorf("unknown role %q", *role)
	}
	if *ttl <= 0 {
		return fmt.Errorf("ttl must be positive")
	}

	adminID := uuid.New()
	if *id != "" {
		parsed, err := uuid.Parse(*id)
		if err != nil {
			return fmt.Errorf("invalid id: %w", err)
		}
		adminID = parsed
	}

	tokens := jwt.NewService(cfg.JWTSecret, *ttl)
	token, err := tokens.GenerateAccessToken(adminID, *email, *role)
	if err != nil {
		return fmt.Errorf("sign token: %w", err)
	}

	fmt.Fprintln(stdout, token)
	fmt.Fprintf(stderr, "admin %s (%s) valid for %s, until %s\n", adminID, *role,
		tokens.GetAccessTTL(), time.Now().Add(tokens.GetAccessTTL()).Format(time.RFC3339))
	return nil
}
