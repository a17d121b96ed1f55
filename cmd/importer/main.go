package main

import (
	"context"
	"flag"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"

	"github.com/gokatarajesh/trivia-api/internal/config"
	"github.com/gokatarajesh/trivia-api/internal/db"
	"github.com/gokatarajesh/trivia-api/internal/db/repository"
	"github.com/gokatarajesh/trivia-api/internal/importer"
	"github.com/gokatarajesh/trivia-api/internal/logging"
)

func main() {
	amount := flag.Int("amount", 10, "Number of questions to fetch (1-50)")
	difficulty := flag.String("difficulty", "", "Optional difficulty: easy, medium or hard")
	flag.Parse()

	if os.Getenv("APP_ENV") != "production" {
		_ = godotenv.Load("configs/.env")
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	cfg, err := config.Load(ctx)
	if err != nil {
		// No logger yet; fall back to a bare one.
		bootLogger := logging.NewWithWriter("trivia-importer", "", "info", os.Stderr)
		bootLogger.Fatal().Err(err).Msg("failed to load config")
	}

	logger := logging.New(cfg.Name+"-importer", cfg.Env, logging.Options{Level: cfg.Log.Level})

	gdb, err := db.Open(ctx, cfg.Postgres, logger)
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to open database")
	}

	client := importer.NewOpenTDBClient(cfg.OpenTDB.BaseURL, &http.Client{Timeout: cfg.OpenTDB.Timeout})
	im := importer.New(
		client,
		repository.NewCategoryRepository(gdb),
		repository.NewQuestionRepository(gdb),
		logger,
	)

	res, err := im.Run(ctx, importer.Request{Amount: *amount, Difficulty: *difficulty})
	if cerr := db.Close(gdb); cerr != nil {
		logger.Error().Err(cerr).Msg("postgres shutdown error")
	}
	if err != nil {
		logger.Error().Err(err).Int("imported", res.Imported).Msg("import failed")
		stop()
		os.Exit(1)
	}
}
