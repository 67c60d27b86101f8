package database

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/jackc/pgx/v5/pgxpool"
)

type Database struct {
	Pool *pgxpool.Pool
}

func NewDatabase() Database {
	return Database{Pool: nil}
}

func (db *Database) Connect(ctx context.Context, connString string) error {
	config, err := pgxpool.ParseConfig(connString)
	if err != nil {
		return fmt.Errorf("database: unable to parse configuration: %w", err)
	}

	db.Pool, err = pgxpool.NewWithConfig(ctx, config)
	if err != nil {
		return fmt.Errorf("database: unable to create pool: %w", err)
	}

	return nil
}

func (db *Database) Close() {
	db.Pool.Close()
}

func (db *Database) Ping(ctx context.Context) error {
	return db.Pool.Ping(ctx)
}

// Migrate creates the schema if it does not exist yet. Statements are
// idempotent and run on every startup.
//
// The UNIQUE (user_id, event_id) constraint on registrations is the
// authority for the no-duplicate-signup invariant: the application
// pre-checks, but a concurrent second insert must fail here.
func (db *Database) Migrate(ctx context.Context) error {
	statements := []string{
		`CREATE TABLE IF NOT EXISTS users (
			id UUID PRIMARY KEY,
			username VARCHAR(100) NOT NULL,
			email VARCHAR(255) NOT NULL UNIQUE,
			password_hash VARCHAR(255) NOT NULL,
			role VARCHAR(20) NOT NULL DEFAULT 'student',
			created_at TIMESTAMPTZ NOT NULL,
			updated_at TIMESTAMPTZ NOT NULL
		);`,
		`CREATE TABLE IF NOT EXISTS admins (
			id UUID PRIMARY KEY,
			username VARCHAR(100) NOT NULL,
			admin_name VARCHAR(100),
			email VARCHAR(255) NOT NULL UNIQUE,
			password_hash VARCHAR(255) NOT NULL,
			role VARCHAR(20) NOT NULL DEFAULT 'admin',
			created_at TIMESTAMPTZ NOT NULL,
			updated_at TIMESTAMPTZ NOT NULL
		);`,
		`CREATE TABLE IF NOT EXISTS events (
			id UUID PRIMARY KEY,
			title VARCHAR(255) NOT NULL,
			description TEXT,
			date VARCHAR(20) NOT NULL,
			time VARCHAR(20) NOT NULL,
			location VARCHAR(255) NOT NULL,
			image_url TEXT,
			video_url TEXT,
			organizer_id UUID NOT NULL REFERENCES admins(id),
			created_at TIMESTAMPTZ NOT NULL,
			updated_at TIMESTAMPTZ NOT NULL
		);`,
		`CREATE TABLE IF NOT EXISTS registrations (
			id UUID PRIMARY KEY,
			user_id UUID NOT NULL REFERENCES users(id),
			event_id UUID NOT NULL REFERENCES events(id),
			registered_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
			CONSTRAINT registrations_user_event_key UNIQUE (user_id, event_id)
		);`,
		`CREATE INDEX IF NOT EXISTS idx_registrations_event_id ON registrations(event_id);`,
		`CREATE INDEX IF NOT EXISTS idx_events_organizer_id ON events(organizer_id);`,
	}

	for _, stmt := range statements {
		if _, err := db.Pool.Exec(ctx, stmt); err != nil {
			return fmt.Errorf("database: failed to migrate: %w", err)
		}
	}

	slog.Info("Database migration completed")
	return nil
}
