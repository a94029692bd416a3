// Package storage selects and initializes the configured booking store.
package storage

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	_ "github.com/go-sql-driver/mysql"
	"github.com/rs/zerolog/log"

	"hotel_concierge/internal/domain"
	"hotel_concierge/internal/shared"
	mysqlrepo "hotel_concierge/internal/storage/mysql"
	"hotel_concierge/internal/storage/seed"
	"hotel_concierge/internal/storage/sqlite"
)

// Store is a booking repository that can seed itself.
type Store interface {
	domain.BookingRepository
	Seed(ctx context.Context, d seed.Data) (bool, error)
	SeedDemo(ctx context.Context, today time.Time) (int, error)
	Ping(ctx context.Context) error
	Close() error
}

var (
	_ Store = (*sqlite.Store)(nil)
	_ Store = (*mysqlrepo.Repo)(nil)
)

// Open connects to the configured driver and creates the schema if absent.
func Open(ctx context.Context, cfg shared.Config) (Store, error) {
	switch cfg.StoreDriver {
	case shared.DriverSQLite:
		st, err := sqlite.Open(cfg.SQLitePath)
		if err != nil {
			return nil, err
		}
		log.Info().Str("driver", cfg.StoreDriver).Str("path", cfg.SQLitePath).Msg("store ready")
		return st, nil
	case shared.DriverMySQL:
		db, err := sql.Open("mysql", cfg.MySQLDSN)
		if err != nil {
			return nil, fmt.Errorf("sql.Open: %w", err)
		}
		db.SetMaxOpenConns(10)
		db.SetConnMaxIdleTime(5 * time.Minute)
		if err := db.PingContext(ctx); err != nil {
			_ = db.Close()
			return nil, fmt.Errorf("db.Ping: %w", err)
		}
		repo := mysqlrepo.New(db)
		if err := repo.Migrate(ctx); err != nil {
			_ = db.Close()
			return nil, err
		}
		log.Info().Str("driver", cfg.StoreDriver).Msg("store ready")
		return repo, nil
	default:
		return nil, fmt.Errorf("unsupported store driver %q", cfg.StoreDriver)
	}
}

// Init applies the reference seed once and, when demo is set, the sample bookings.
func Init(ctx context.Context, st Store, demo bool, today time.Time) error {
	seeded, err := st.Seed(ctx, seed.Default())
	if err != nil {
		return fmt.Errorf("seed: %w", err)
	}
	if seeded {
		log.Info().Msg("reference data seeded")
	} else {
		log.Debug().Msg("reference data already present")
	}
	if !demo {
		return nil
	}
	n, err := st.SeedDemo(ctx, today)
	if err != nil {
		return fmt.Errorf("seed demo reservations: %w", err)
	}
	log.Info().Int("reservations", n).Msg("demo reservations seeded")
	return nil
}
