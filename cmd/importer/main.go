// Command importer loads questions into Postgres from an .xlsx workbook or
// from the Open Trivia DB.
package main

import (
	"context"
	"flag"
	"os"
	"time"

	"github.com/caarlos0/env/v10"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/joho/godotenv"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/gokatarajesh/trivia-api/internal/config"
	"github.com/gokatarajesh/trivia-api/internal/db/repository"
	sqlcgen "github.com/gokatarajesh/trivia-api/internal/db/sqlc"
	"github.com/gokatarajesh/trivia-api/internal/importer"
)

func main() {
	defaults := importer.DefaultConfig()
	var (
		source     = flag.String("source", "xlsx", "Question source: xlsx or opentdb")
		file       = flag.String("file", "", "Path to the .xlsx workbook")
		sheet      = flag.String("sheet", defaults.SheetName, "Sheet to import")
		startRow   = flag.Int("start-row", defaults.StartRow, "First data row (1-based)")
		amount     = flag.Int("amount", 20, "Number of questions to fetch from opentdb (max 50)")
		category   = flag.Int("opentdb-category", 0, "OpenTDB category id, 0 for any")
		difficulty = flag.String("difficulty", "", "OpenTDB difficulty: easy, medium or hard")
		timeout    = flag.Duration("timeout", 5*time.Minute, "Overall import timeout")
	)
	flag.Parse()

	log.Logger = zerolog.New(os.Stderr).With().Timestamp().Str("app", "importer").Logger()

	switch *source {
	case "xlsx":
		if *file == "" {
			log.Fatal().Msg("-file is required for the xlsx source")
		}
	case "opentdb":
		if *amount < 1 || *amount > 50 {
			log.Fatal().Int("amount", *amount).Msg("-amount must be between 1 and 50")
		}
	default:
		log.Fatal().Str("source", *source).Msg("unknown source. Use: xlsx or opentdb")
	}

	if os.Getenv("APP_ENV") != "production" {
		if err := godotenv.Load("configs/.env"); err != nil {
			log.Warn().Err(err).Msg("could not load .env file")
		}
	}

	var pg config.Postgres
	if err := env.ParseWithOptions(&pg, env.Options{RequiredIfNoDef: true}); err != nil {
		log.Fatal().Err(err).Msg("invalid postgres configuration")
	}

	ctx, cancel := context.WithTimeout(context.Background(), *timeout)
	defer cancel()

	pool, err := pgxpool.New(ctx, pg.ConnString())
	if err != nil {
		log.Fatal().Err(err).Msg("failed to connect to postgres")
	}
	defer pool.Close()

	queries := sqlcgen.New(pool)
	im := importer.New(
		repository.NewCategoryRepository(queries),
		repository.NewQuestionRepository(queries),
		log.Logger,
	)

	var result *importer.Result
	if *source == "opentdb" {
		result, err = im.ImportOpenTDB(ctx, importer.NewOpenTDBClient("", nil), importer.OpenTDBQuery{
			Amount:     *amount,
			CategoryID: *category,
			Difficulty: *difficulty,
		})
	} else {
		result, err = im.ImportFile(ctx, *file, importer.Config{SheetName: *sheet, StartRow: *startRow})
	}
	if err != nil {
		log.Fatal().Err(err).Str("source", *source).Msg("import aborted")
	}

	for _, rowErr := range result.Errors {
		log.Warn().Msg(rowErr)
	}
	log.Info().
		Int("processed", result.TotalProcessed).
		Int("created", result.Created).
		Int("skipped", result.Skipped).
		Int("errors", len(result.Errors)).
		Msg("import complete")
}
