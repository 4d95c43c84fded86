package config

import "fmt"

type Config struct {
	Env                 string
	DiscordToken        string
	DatabaseURL         string
	XPDataPath          string
	XPBackupPath        string
	MessageXP           float64
	MessageCooldownSec  int
	ReactionXP          float64
	ReactionCooldownSec int
	VoiceHeartbeatSec   int
	VoiceHeartbeatXP    float64
	VoiceCooldownSec    int
	AutosaveMinutes     int
	LevelXPMultiplier   float64
	DailyStreakBonusXP  float64
	CommandCooldownSec  int
	WelcomeChannelID    string
	GoodbyeChannelID    string
	BoostChannelID      string
	LevelUpChannelID    string
}

func (c *Config) Validate() error {
	if c.DiscordToken == "" {
		return fmt.Errorf("DISCORD_TOKEN is required")
	}
	if c.DatabaseURL == "" && c.XPDataPath == "" {
		return fmt.Errorf("XP_DATA_PATH is required when DATABASE_URL is not set")
	}
	for _, p := range []struct {
		name  string
		value float64
	}{
		{name: "MESSAGE_XP", value: c.MessageXP},
		{name: "REACTION_XP", value: c.ReactionXP},
		{name: "VC_HEARTBEAT_XP", value: c.VoiceHeartbeatXP},
		{name: "LEVEL_XP_MULTIPLIER", value: c.LevelXPMultiplier},
	} {
		if p.value <= 0 {
			return fmt.Errorf("%s must be positive, got %v", p.name, p.value)
		}
	}
	for _, p := range []struct {
		name  string
		value int
	}{
		{name: "MESSAGE_XP_COOLDOWN_SEC", value: c.MessageCooldownSec},
		{name: "REACTION_XP_COOLDOWN_SEC", value: c.ReactionCooldownSec},
		{name: "VC_HEARTBEAT_INTERVAL_SEC", value: c.VoiceHeartbeatSec},
		{name: "VC_XP_COOLDOWN_SEC", value: c.VoiceCooldownSec},
		{name: "AUTOSAVE_MINUTES", value: c.AutosaveMinutes},
		{name: "COMMAND_COOLDOWN_SEC", value: c.CommandCooldownSec},
	} {
		if p.value <= 0 {
			return fmt.Errorf("%s must be positive, got %d", p.name, p.value)
		}
	}
	if c.DailyStreakBonusXP < 0 {
		return fmt.Errorf("DAILY_STREAK_BONUS_XP must not be negative, got %v", c.DailyStreakBonusXP)
	}
	return nil
}

func (c *Config) IsDevelopment() bool {
	return c.Env == "development"
}

func (c *Config) UsesDatabase() bool {
	return c.DatabaseURL != ""
}
