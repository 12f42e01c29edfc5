// Command seeder loads a demo staff account and sample releases.
package main

import (
	"os"

	"github.com/pushp314/releasenotes-backend/internal/config"
	"github.com/pushp314/releasenotes-backend/internal/database"
	"github.com/pushp314/releasenotes-backend/internal/migrations"
	"github.com/pushp314/releasenotes-backend/internal/seeds"
	"github.com/pushp314/releasenotes-backend/pkg/logger"
)

func main() {
	config.LoadConfig()
	logger.Init(config.AppConfig.Env)
	database.Connect()

	if config.AppConfig.Env == "production" {
		logger.Fatal().Msg("Refusing to seed a production database")
	}

	if _, err := migrations.NewMigrator(database.DB).Run(); err != nil {
		logger.Fatal().Err(err).Msg("Failed to run migrations")
	}

	password := os.Getenv("SEED_EDITOR_PASSWORD")
	if password == "" {
		password = "password123"
	}
	editor, err := seeds.GetOrCreateEditor(database.DB, password)
	if err != nil {
		logger.Fatal().Err(err).Msg("Failed to create editor")
	}

	if err := seeds.SeedReleases(database.DB, editor.ID); err != nil {
		logger.Fatal().Err(err).Msg("Failed to seed releases")
	}
	logger.Info().Str("editor", editor.Username).Msg("Database seeding complete")
}
