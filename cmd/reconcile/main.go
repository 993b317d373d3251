package main

import (
	"context"
	"time"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog/log"

	"github.com/workpulse/workpulse/internal/config"
	"github.com/workpulse/workpulse/internal/repository/mongo"
	"github.com/workpulse/workpulse/internal/service"
)

// Sweeps every membership record and repairs dangling role references.
// Idempotent: a second run right after the first reports zero repairs.
func main() {
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		log.Fatal().Err(err).Msg("failed to load config")
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Minute)
	defer cancel()

	db, err := mongo.NewDB(ctx, cfg.Mongo)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to connect to MongoDB")
	}
	defer db.Close(ctx)

	userRepo := mongo.NewUserRepository(db)
	roleRepo := mongo.NewRoleRepository(db)
	workspaceRepo := mongo.NewWorkspaceRepository(db)
	memberRepo := mongo.NewMemberRepository(db)

	members := service.NewMemberService(memberRepo, roleRepo, workspaceRepo, userRepo, nil)

	report, err := members.ReconcileAll(ctx)
	if err != nil {
		log.Fatal().Err(err).Msg("reconciliation failed")
	}

	log.Info().
		Int("checked", report.Checked).
		Int("repaired", report.Repaired).
		Int("repaired_by_owner_rule", report.RepairedByOwnerRule).
		Int("repaired_by_default_rule", report.RepairedByDefaultRule).
		Msg("reconciliation complete")
}
