// Command api serves the trivia question bank over HTTP.
package main

import (
	"context"
	"os"
	"time"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/gokatarajesh/trivia-api/internal/app"
	"github.com/gokatarajesh/trivia-api/internal/config"
)

const bootstrapTimeout = 15 * time.Second

func main() {
	log.Logger = zerolog.New(os.Stderr).With().Timestamp().Str("app", "api").Logger()

	if os.Getenv("APP_ENV") != "production" {
		if err := godotenv.Load("configs/.env"); err != nil {
			log.Warn().Err(err).Msg("could not load configs/.env; using process environment")
		}
	}

	cfg, err := config.Load(context.Background())
	if err != nil {
		log.Fatal().Err(err).Msg("invalid configuration")
	}

	bootCtx, cancel := context.WithTimeout(context.Background(), bootstrapTimeout)
	instance, err := app.New(bootCtx, cfg)
	cancel()
	if err != nil {
		log.Fatal().Err(err).Msg("bootstrap failed")
	}

	if err := instance.Run(context.Background()); err != nil {
		log.Fatal().Err(err).Msg("server stopped with error")
	}
}
