// Command tokengen issues editor tokens for the question create and delete routes.
package main

import (
	"flag"
	"fmt"
	"os"
	"time"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/gokatarajesh/trivia-api/internal/auth/jwt"
)

func main() {
	var (
		subject = flag.String("subject", "", "Who the token is issued to")
		ttl     = flag.Duration("ttl", 24*time.Hour, "Token lifetime")
	)
	flag.Parse()

	log.Logger = zerolog.New(os.Stderr).With().Timestamp().Str("app", "tokengen").Logger()

	if os.Getenv("APP_ENV") != "production" {
		_ = godotenv.Load("configs/.env")
	}

	secret := os.Getenv("JWT_SECRET")
	if secret == "" {
		log.Fatal().Msg("JWT_SECRET must be set")
	}
	if *subject == "" {
		log.Fatal().Msg("-subject is required")
	}

	tokens := jwt.NewManager(jwt.TokenConfig{
		Secret: []byte(secret),
		TTL:    *ttl,
		Issuer: os.Getenv("JWT_ISSUER"),
	})
	token, err := tokens.Generate(*subject, jwt.RoleEditor)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to sign token")
	}

	log.Info().Str("subject", *subject).Dur("ttl", *ttl).Msg("editor token issued")
	fmt.Println(token)
}
