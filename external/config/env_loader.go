package config

import (
	"fmt"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
	internalconfig "github.com/sabawlabs/kudos/internal/config"
)

type envConfig struct {
	Env                 string  `env:"ENV" envDefault:"production"`
	DiscordToken        string  `env:"DISCORD_TOKEN,required"`
	DatabaseURL         string  `env:"DATABASE_URL"`
	XPDataPath          string  `env:"XP_DATA_PATH" envDefault:"xp_data.json"`
	XPBackupPath        string  `env:"XP_BACKUP_PATH" envDefault:"xp_data_backup.json"`
	MessageXP           float64 `env:"MESSAGE_XP" envDefault:"2"`
	MessageCooldownSec  int     `env:"MESSAGE_XP_COOLDOWN_SEC" envDefault:"30"`
	ReactionXP          float64 `env:"REACTION_XP" envDefault:"1"`
	ReactionCooldownSec int     `env:"REACTION_XP_COOLDOWN_SEC" envDefault:"30"`
	VoiceHeartbeatSec   int     `env:"VC_HEARTBEAT_INTERVAL_SEC" envDefault:"300"`
	VoiceHeartbeatXP    float64 `env:"VC_HEARTBEAT_XP" envDefault:"0.5"`
	VoiceCooldownSec    int     `env:"VC_XP_COOLDOWN_SEC" envDefault:"300"`
	AutosaveMinutes     int     `env:"AUTOSAVE_MINUTES" envDefault:"10"`
	LevelXPMultiplier   float64 `env:"LEVEL_XP_MULTIPLIER" envDefault:"100"`
	DailyStreakBonusXP  float64 `env:"DAILY_STREAK_BONUS_XP" envDefault:"5"`
	CommandCooldownSec  int     `env:"COMMAND_COOLDOWN_SEC" envDefault:"30"`
	WelcomeChannelID    string  `env:"WELCOME_CHANNEL_ID"`
	GoodbyeChannelID    string  `env:"GOODBYE_CHANNEL_ID"`
	BoostChannelID      string  `env:"BOOST_CHANNEL_ID"`
	LevelUpChannelID    string  `env:"LEVELUP_CHANNEL_ID"`
}

func Load() (*internalconfig.Config, error) {
	// .env is optional; real deployments set the environment directly.
	_ = godotenv.Load()

	var raw envConfig
	if err := env.Parse(&raw); err != nil {
		return nil, fmt.Errorf("environment variables are invalid or missing: %w", err)
	}

	cfg := &internalconfig.Config{
		Env:                 raw.Env,
		DiscordToken:        raw.DiscordToken,
		DatabaseURL:         raw.DatabaseURL,
		XPDataPath:          raw.XPDataPath,
		XPBackupPath:        raw.XPBackupPath,
		MessageXP:           raw.MessageXP,
		MessageCooldownSec:  raw.MessageCooldownSec,
		ReactionXP:          raw.ReactionXP,
		ReactionCooldownSec: raw.ReactionCooldownSec,
		VoiceHeartbeatSec:   raw.VoiceHeartbeatSec,
		VoiceHeartbeatXP:    raw.VoiceHeartbeatXP,
		VoiceCooldownSec:    raw.VoiceCooldownSec,
		AutosaveMinutes:     raw.AutosaveMinutes,
		LevelXPMultiplier:   raw.LevelXPMultiplier,
		DailyStreakBonusXP:  raw.DailyStreakBonusXP,
		CommandCooldownSec:  raw.CommandCooldownSec,
		WelcomeChannelID:    raw.WelcomeChannelID,
		GoodbyeChannelID:    raw.GoodbyeChannelID,
		BoostChannelID:      raw.BoostChannelID,
		LevelUpChannelID:    raw.LevelUpChannelID,
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}
