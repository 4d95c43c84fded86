package store

import (
	"context"
	"strings"

	"github.com/jackc/pgx/v5/pgxpool"
)

var migrationStatements = []string{
	`CREATE TABLE IF NOT EXISTS xp_profiles (
		guild_id TEXT NOT NULL,
		user_id TEXT NOT NULL,
		xp DOUBLE PRECISION NOT NULL DEFAULT 0,
		level INTEGER NOT NULL DEFAULT 1,
		last_activity BIGINT NOT NULL DEFAULT 0,
		streak_day INTEGER NOT NULL DEFAULT 1,
		chat_xp DOUBLE PRECISION NOT NULL DEFAULT 0,
		reaction_xp DOUBLE PRECISION NOT NULL DEFAULT 0,
		voice_xp DOUBLE PRECISION NOT NULL DEFAULT 0,
		last_chat_award BIGINT NOT NULL DEFAULT 0,
		last_reaction_award BIGINT NOT NULL DEFAULT 0,
		last_voice_award BIGINT NOT NULL DEFAULT 0,
		created_at BIGINT NOT NULL DEFAULT 0,
		PRIMARY KEY (guild_id, user_id)
	)`,
	`CREATE INDEX IF NOT EXISTS idx_xp_profiles_guild_xp ON xp_profiles (guild_id, xp DESC)`,
}

func RunMigration(ctx context.Context, pool *pgxpool.Pool) error {
	for _, s := range migrationStatements {
		stmt := strings.TrimSpace(s)
		if stmt == "" {
			continue
		}
		if _, err := pool.Exec(ctx, stmt); err != nil {
			return err
		}
	}
	return nil
}
