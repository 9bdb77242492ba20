// Command devtoken mints an access token for local play against the API.
// The signing secret comes from WORDSTONE_AUTH_JWT_SECRET, read from the
// environment or a .env file.
package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"os"

	"github.com/google/uuid"
	"github.com/joho/godotenv"
	"github.com/phrazzld/wordstone/internal/config"
	"github.com/phrazzld/wordstone/internal/service/auth"
)

const secretEnv = config.EnvPrefix + "_AUTH_JWT_SECRET"

func main() {
	userFlag := flag.String("user", "", "user ID to issue the token for (default: random)")
	minutes := flag.Int("minutes", 60, "token lifetime in minutes")
	flag.Parse()

	_ = godotenv.Load()

	if err := run(os.Stdout, os.Getenv(secretEnv), *userFlag, *minutes); err != nil {
		fmt.Fprintln(os.Stderr, "devtoken:", err)
		os.Exit(1)
	}
}

func run(out io.Writer, secret, user string, minutes int) error {
	userID := uuid.New()
	if user != "" {
		var err error
		if userID, err = uuid.Parse(user); err != nil {
			return fmt.Errorf("invalid user ID %q: %w", user, err)
		}
	}

	svc, err := auth.NewJWTService(config.AuthConfig{JWTSecret: secret, TokenLifetimeMinutes: minutes})
	if err != nil {
		return fmt.Errorf("%s: %w", secretEnv, err)
	}
	token, err := svc.GenerateToken(context.Background(), userID)
	if err != nil {
		return err
	}

	_, err = fmt.Fprintf(out, "user_id: %s\ntoken:   %s\n", userID, token)
	return err
}
