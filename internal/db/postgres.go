package db

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
)

func ConnectPostgres(ctx context.Context, dsn string) (*pgxpool.Pool, error) {
	cfg, err := pgxpool.ParseConfig(dsn)
	if err != nil {
		return nil, fmt.Errorf("parse postgres dsn: %w", err)
	}

	cfg.MaxConns = 10
	cfg.MinConns = 1
	cfg.HealthCheckPeriod = 30 * time.Second
	cfg.MaxConnLifetime = time.Hour
	cfg.MaxConnIdleTime = 15 * time.Minute

	pool, err := pgxpool.NewWithConfig(ctx, cfg)
	if err != nil {
		return nil, fmt.Errorf("create pgx pool: %w", err)
	}

	// Check connectivity on startup
	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	if err := pool.Ping(pingCtx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("ping postgres: %w", err)
	}

	return pool, nil
}

// schema holds the appointments table: one flattened row per aggregate,
// keyed by id, with the lookup indexes the repository queries rely on.
const schema = `
CREATE TABLE IF NOT EXISTS appointments (
	id                  TEXT PRIMARY KEY,
	patient_name        TEXT NOT NULL,
	patient_email       TEXT NOT NULL,
	patient_phone       TEXT NOT NULL,
	scheduled_at        TIMESTAMPTZ NOT NULL,
	reason              TEXT NOT NULL,
	status              TEXT NOT NULL,
	created_at          TIMESTAMPTZ NOT NULL,
	updated_at          TIMESTAMPTZ NOT NULL,
	confirmed_at        TIMESTAMPTZ,
	cancelled_at        TIMESTAMPTZ,
	cancellation_reason TEXT
);

CREATE INDEX IF NOT EXISTS idx_appointments_patient_email ON appointments (patient_email);
CREATE INDEX IF NOT EXISTS idx_appointments_scheduled_at  ON appointments (scheduled_at);
CREATE INDEX IF NOT EXISTS idx_appointments_status        ON appointments (status);
CREATE INDEX IF NOT EXISTS idx_appointments_email_scheduled
	ON appointments (patient_email, scheduled_at);
`

// EnsureSchema creates the appointments table and indexes if missing.
func EnsureSchema(ctx context.Context, pool *pgxpool.Pool) error {
	if _, err := pool.Exec(ctx, schema); err != nil {
		return fmt.Errorf("ensure appointments schema: %w", err)
	}
	return nil
}
