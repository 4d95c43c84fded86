package bot

import (
	"fmt"
	"log/slog"

	"github.com/sabawlabs/kudos/internal/config"
	"github.com/sabawlabs/kudos/internal/discord"
	"github.com/sabawlabs/kudos/internal/xp"
)

// Announcer renders level-up events as plain-text messages. It posts to
// the configured level-up channel, falling back to the channel the
// triggering activity came from.
type Announcer struct {
	cfg    *config.Config
	dc     discord.Client
	picker *linePicker
}

func NewAnnouncer(cfg *config.Config, dc discord.Client) *Announcer {
	return &Announcer{
		cfg:    cfg,
		dc:     dc,
		picker: newLinePicker(),
	}
}

func (a *Announcer) NotifyLevelUp(up xp.LevelUp) {
	channelID := a.cfg.LevelUpChannelID
	if channelID == "" {
		channelID = up.ChannelID
	}
	if channelID == "" {
		slog.Warn("no channel available for level-up announcement", "guild_id", up.GuildID, "user_id", up.UserID, "new_level", up.NewLevel)
		return
	}
	line := fmt.Sprintf(a.picker.pick("levelup", levelUpLines), a.dc.MentionUser(up.UserID), up.NewLevel)
	if err := a.dc.SendChannelMessage(channelID, line); err != nil {
		slog.Error("failed to send level-up announcement", "error", err, "guild_id", up.GuildID, "channel_id", channelID, "user_id", up.UserID)
	}
}
