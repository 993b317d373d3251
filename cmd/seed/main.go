package main

import (
	"context"
	"time"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog/log"

	"github.com/workpulse/workpulse/internal/config"
	"github.com/workpulse/workpulse/internal/repository/mongo"
)

// Seeds the role catalog and creates the indexes the repositories rely on.
// Safe to run repeatedly; existing roles and indexes are left untouched.
func main() {
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		log.Fatal().Err(err).Msg("failed to load config")
	}

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	db, err := mongo.NewDB(ctx, cfg.Mongo)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to connect to MongoDB")
	}
	defer db.Close(ctx)

	if err := db.EnsureIndexes(ctx); err != nil {
		log.Fatal().Err(err).Msg("failed to create indexes")
	}
	log.Info().Msg("indexes ensured")

	roleRepo := mongo.NewRoleRepository(db)
	created, err := roleRepo.Seed(ctx)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to seed roles")
	}

	log.Info().Int("created", created).Msg("role catalog seeded")
}
