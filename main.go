package main

import (
	"context"
	"os"

	"boozetrack/cli"
	"boozetrack/config"
	"boozetrack/database"
	"boozetrack/logger"
)

func main() {
	ctx := context.Background()

	rt, err := config.LoadRuntime(ctx)
	if err != nil {
		l := logger.Get()
		l.Fatal().Err(err).Msg("failed to load runtime configuration")
	}

	log := logger.Init(logger.Options{Level: rt.LogLevel, Pretty: rt.LogPretty})

	if _, err := config.LoadSettings(); err != nil {
		log.Warn().Err(err).Msg("failed to load settings file, using defaults")
	}

	log.Info().Str("path", rt.DBPath).Msg("connecting to database")
	db, err := database.Open(rt.DBPath)
	if err != nil {
		log.Fatal().Err(err).Msg("db open error")
	}
	defer db.Close()

	if err := database.InitSchema(db); err != nil {
		log.Fatal().Err(err).Msg("database initialization failed")
	}
	if err := database.SeedDefaultUsers(db); err != nil {
		log.Fatal().Err(err).Msg("failed to seed default accounts")
	}
	if err := database.SeedSampleProducts(db); err != nil {
		log.Fatal().Err(err).Msg("failed to seed sample products")
	}
	log.Info().Msg("database initialization complete")

	app := cli.New(db, rt.DBPath)
	if err := app.Run(); err != nil {
		log.Error().Err(err).Msg("application error")
		os.Exit(1)
	}
}
