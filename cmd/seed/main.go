package main

import (
	"context"
	"os"
	"time"

	"github.com/rs/zerolog/log"

	"hotel_concierge/internal/adapters/observability"
	"hotel_concierge/internal/shared"
	"hotel_concierge/internal/storage"
)

// seed creates the schema and reference data, then exits. Safe to run repeatedly.
func main() {
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
	defer cancel()

	cfg, err := shared.Load()
	if err != nil {
		log.Fatal().Err(err).Msg("invalid configuration")
	}
	log.Logger = observability.NewLogger(cfg.AppEnv, os.Stderr)

	log.Info().
		Str("driver", cfg.StoreDriver).
		Bool("demo", cfg.SeedDemo).
		Msg("seeder starting")

	st, err := storage.Open(ctx, cfg)
	if err != nil {
		log.Fatal().Err(err).Msg("open store failed")
	}
	defer st.Close()

	if err := storage.Init(ctx, st, cfg.SeedDemo, time.Now()); err != nil {
		_ = st.Close()
		log.Fatal().Err(err).Msg("seeding failed")
	}
	log.Info().Msg("seeding completed")
}
