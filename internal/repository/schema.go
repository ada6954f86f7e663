package repository

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"
)

var schema = []string{
	`CREATE TABLE IF NOT EXISTS users (
		id         TEXT PRIMARY KEY,
		name       TEXT NOT NULL,
		is_smoker  BOOLEAN NOT NULL DEFAULT FALSE,
		streak     INTEGER NOT NULL DEFAULT 0,
		push_token TEXT,
		duo_id     TEXT,
		created_at TIMESTAMPTZ NOT NULL DEFAULT now()
	)`,
	`CREATE TABLE IF NOT EXISTS duos (
		id                TEXT PRIMARY KEY,
		user_a_id         TEXT NOT NULL REFERENCES users (id),
		user_b_id         TEXT REFERENCES users (id),
		invite_code       TEXT NOT NULL,
		status            TEXT NOT NULL CHECK (status IN ('pending', 'active', 'ended')),
		water_a           INTEGER NOT NULL DEFAULT 0,
		water_b           INTEGER NOT NULL DEFAULT 0,
		meals_a           INTEGER NOT NULL DEFAULT 0,
		meals_b           INTEGER NOT NULL DEFAULT 0,
		goals_completed_a INTEGER NOT NULL DEFAULT 0,
		goals_completed_b INTEGER NOT NULL DEFAULT 0,
		goals_total_a     INTEGER NOT NULL DEFAULT 0,
		goals_total_b     INTEGER NOT NULL DEFAULT 0,
		smokes_a          INTEGER NOT NULL DEFAULT 0,
		smokes_b          INTEGER NOT NULL DEFAULT 0,
		steps_a           INTEGER NOT NULL DEFAULT 0,
		steps_b           INTEGER NOT NULL DEFAULT 0,
		calories_a        INTEGER NOT NULL DEFAULT 0,
		calories_b        INTEGER NOT NULL DEFAULT 0,
		last_reset_date   TEXT,
		version           BIGINT NOT NULL DEFAULT 0,
		created_at        TIMESTAMPTZ NOT NULL DEFAULT now(),
		updated_at        TIMESTAMPTZ NOT NULL DEFAULT now()
	)`,
	// invite codes only need to be unique among live duos
	`CREATE UNIQUE INDEX IF NOT EXISTS duos_invite_code_live_idx
		ON duos (invite_code) WHERE status <> 'ended'`,
}

// Migrate creates the tables used by the repositories if they are missing
func Migrate(ctx context.Context, db *pgxpool.Pool) error {
	for _, stmt := range schema {
		if _, err := db.Exec(ctx, stmt); err != nil {
			return fmt.Errorf("failed to apply schema: %w", err)
		}
	}
	return nil
}
