package main

import (
	"context"
	"database/sql"
	"flag"
	"os"

	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/joho/godotenv"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/gokatarajesh/trivia-api/internal/config"
	"github.com/gokatarajesh/trivia-api/internal/db"
)

func main() {
	command := flag.String("command", db.MigrateUp, "Migration command: up, down, or status")
	flag.Parse()

	log.Logger = zerolog.New(os.Stderr).With().Timestamp().Logger()

	if os.Getenv("APP_ENV") != "production" {
		_ = godotenv.Load("configs/.env")
	}

	pg, err := config.LoadPostgres()
	if err != nil {
		log.Fatal().Err(err).Msg("failed to load database config")
	}

	// Connect to database using pgx via stdlib (database/sql compatible)
	sqlDB, err := sql.Open("pgx", pg.DSN())
	if err != nil {
		log.Fatal().Err(err).Str("host", pg.Host).Int("port", pg.Port).Msg("failed to open database connection")
	}
	defer sqlDB.Close()

	ctx := context.Background()
	if err := sqlDB.PingContext(ctx); err != nil {
		log.Fatal().Err(err).Msg("failed to ping database")
	}

	log.Info().
		Str("host", pg.Host).
		Int("port", pg.Port).
		Str("database", pg.Database).
		Str("command", *command).
		Msg("connected to database")

	if err := db.Migrate(ctx, sqlDB, *command); err != nil {
		log.Fatal().Err(err).Str("command", *command).Msg("migration failed")
	}
	log.Info().Str("command", *command).Msg("migration command finished")
}
