package store

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"
	internalstore "github.com/sabawlabs/kudos/internal/store"
)

// PostgresStore keeps the same whole-snapshot contract as the file
// store: Save upserts every profile inside one transaction, Load reads
// the full table.
type PostgresStore struct {
	pool *pgxpool.Pool
}

func NewPostgresStore(pool *pgxpool.Pool) internalstore.Store {
	return &PostgresStore{pool: pool}
}

func (s *PostgresStore) Load(ctx context.Context) (internalstore.Snapshot, error) {
	rows, err := s.pool.Query(ctx,
		`SELECT guild_id, user_id, xp, level, last_activity, streak_day,
		        chat_xp, reaction_xp, voice_xp,
		        last_chat_award, last_reaction_award, last_voice_award, created_at
		 FROM xp_profiles`)
	if err != nil {
		return internalstore.Snapshot{}, err
	}
	defer rows.Close()

	snapshot := internalstore.Snapshot{}
	for rows.Next() {
		var (
			guildID string
			userID  string
			p       internalstore.Profile
		)
		if err := rows.Scan(&guildID, &userID, &p.XP, &p.Level, &p.LastActivity, &p.StreakDay,
			&p.Breakdown.Chat, &p.Breakdown.Reaction, &p.Breakdown.Voice,
			&p.LastChatAward, &p.LastReactAward, &p.LastVoiceAward, &p.CreatedAt); err != nil {
			return internalstore.Snapshot{}, err
		}
		users, ok := snapshot[guildID]
		if !ok {
			users = make(map[string]*internalstore.Profile)
			snapshot[guildID] = users
		}
		users[userID] = &p
	}
	return snapshot, rows.Err()
}

func (s *PostgresStore) Save(ctx context.Context, snapshot internalstore.Snapshot) error {
	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return err
	}
	defer func() {
		_ = tx.Rollback(ctx)
	}()

	for guildID, users := range snapshot {
		for userID, p := range users {
			if _, err := tx.Exec(ctx,
				`INSERT INTO xp_profiles (guild_id, user_id, xp, level, last_activity, streak_day,
				                          chat_xp, reaction_xp, voice_xp,
				                          last_chat_award, last_reaction_award, last_voice_award, created_at)
				 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13)
				 ON CONFLICT (guild_id, user_id) DO UPDATE SET
				     xp = EXCLUDED.xp,
				     level = EXCLUDED.level,
				     last_activity = EXCLUDED.last_activity,
				     streak_day = EXCLUDED.streak_day,
				     chat_xp = EXCLUDED.chat_xp,
				     reaction_xp = EXCLUDED.reaction_xp,
				     voice_xp = EXCLUDED.voice_xp,
				     last_chat_award = EXCLUDED.last_chat_award,
				     last_reaction_award = EXCLUDED.last_reaction_award,
				     last_voice_award = EXCLUDED.last_voice_award,
				     created_at = EXCLUDED.created_at`,
				guildID, userID, p.XP, p.Level, p.LastActivity, p.StreakDay,
				p.Breakdown.Chat, p.Breakdown.Reaction, p.Breakdown.Voice,
				p.LastChatAward, p.LastReactAward, p.LastVoiceAward, p.CreatedAt); err != nil {
				return err
			}
		}
	}
	return tx.Commit(ctx)
}
