package bot

import (
	"fmt"
	"log/slog"
	"math/rand/v2"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/sabawlabs/kudos/internal/announce"
	"github.com/sabawlabs/kudos/internal/config"
	"github.com/sabawlabs/kudos/internal/discord"
	"github.com/sabawlabs/kudos/internal/xp"
)

// engineAPI is the slice of the XP engine the presentation layer needs.
type engineAPI interface {
	Rank(guildID, userID string) (xp.ProfileView, bool)
	Leaderboard(guildID string) []xp.LeaderboardEntry
	VoiceSessionStatus(guildID, userID string) (xp.VoiceStatus, bool)
}

// Router dispatches slash commands and membership events to plain-text
// responses. It enforces a per-user command cooldown of its own; a
// rejected command gets an ephemeral retry hint instead of silence.
type Router struct {
	cfg    *config.Config
	dc     discord.Client
	engine engineAPI
	picker *linePicker
	now    func() time.Time

	mu          sync.Mutex
	lastCommand map[string]time.Time
}

func NewRouter(cfg *config.Config, dc discord.Client, engine engineAPI) *Router {
	return &Router{
		cfg:         cfg,
		dc:          dc,
		engine:      engine,
		picker:      newLinePicker(),
		now:         time.Now,
		lastCommand: make(map[string]time.Time),
	}
}

func SlashCommandDefinitions() []discord.SlashCommandDefinition {
	return []discord.SlashCommandDefinition{
		{Name: commandRank, Description: "Show your XP and level"},
		{Name: commandLeaderboard, Description: "Show the guild's top 10 by XP"},
		{Name: commandVoiceStats, Description: "Show your current voice session"},
		{Name: commandHelp, Description: "List all commands"},
		{Name: commandPing, Description: "Check whether the bot is breathing"},
		{Name: commandRoast, Description: "Roast yourself or a friend", Options: []discord.SlashCommandOptionDefinition{
			{Name: optionUser, Description: "Who to roast", IsUser: true},
		}},
		{Name: commandQuip, Description: "A random line of chatroom wisdom"},
		{Name: commandBlame, Description: "Randomly pick someone to take the fall"},
		{Name: commandAnnounce, Description: "Post an announcement", Options: []discord.SlashCommandOptionDefinition{
			{Name: optionText, Description: "emoji | title | body | image-url", Required: true},
		}},
	}
}

func (r *Router) HandleSlashCommand(ev discord.SlashCommandEvent) {
	if ev.GuildID == "" {
		r.respondEphemeral(ev, ":warning: commands only work inside a server.")
		return
	}
	// Announcements are moderation traffic and skip the novelty cooldown.
	if ev.CommandName != commandAnnounce {
		if remaining := r.consumeCommandCooldown(ev.GuildID, ev.UserID); remaining > 0 {
			r.respondEphemeral(ev, cooldownReply(remaining))
			return
		}
	}

	switch ev.CommandName {
	case commandRank:
		r.handleRank(ev)
	case commandLeaderboard:
		r.handleLeaderboard(ev)
	case commandVoiceStats:
		r.handleVoiceStats(ev)
	case commandHelp:
		r.respond(ev, helpText)
	case commandPing:
		r.respond(ev, fmt.Sprintf(r.picker.pick("ping", pingLines), r.dc.HeartbeatLatency().Milliseconds()))
	case commandRoast:
		r.handleRoast(ev)
	case commandQuip:
		r.respond(ev, r.picker.pick("quip-intro", quipIntros)+"\n> "+r.picker.pick("quip", quipLines))
	case commandBlame:
		r.handleBlame(ev)
	case commandAnnounce:
		r.handleAnnounce(ev)
	default:
		r.respondEphemeral(ev, ":warning: unknown command.")
	}
}

// consumeCommandCooldown returns the remaining whole seconds when the
// user is still on cooldown, zero when the command may run (in which
// case the attempt is recorded).
func (r *Router) consumeCommandCooldown(guildID, userID string) int {
	window := time.Duration(r.cfg.CommandCooldownSec) * time.Second
	key := guildID + ":" + userID
	now := r.now()

	r.mu.Lock()
	defer r.mu.Unlock()
	if last, ok := r.lastCommand[key]; ok {
		if elapsed := now.Sub(last); elapsed < window {
			return int((window - elapsed).Seconds()) + 1
		}
	}
	r.lastCommand[key] = now
	return 0
}

func (r *Router) handleRank(ev discord.SlashCommandEvent) {
	view, ok := r.engine.Rank(ev.GuildID, ev.UserID)
	if !ok {
		r.respond(ev, r.dc.MentionUser(ev.UserID)+", "+r.picker.pick("no-profile", noProfileLines))
		return
	}
	r.respond(ev, fmt.Sprintf("%s's rank:\nLevel: `%d`\nXP: `%s/%s`\nStreak: `%d day(s)`\n%s",
		r.dc.MentionUser(ev.UserID),
		view.Level,
		formatXP(view.XP), formatXP(view.NextLevelXP),
		view.StreakDay,
		r.picker.pick("rank", rankFlavorLines)))
}

func (r *Router) handleLeaderboard(ev discord.SlashCommandEvent) {
	entries := r.engine.Leaderboard(ev.GuildID)
	if len(entries) == 0 {
		r.respond(ev, messageLeaderboardEmpty)
		return
	}
	var b strings.Builder
	b.WriteString("**top grinders**\n")
	for i, entry := range entries {
		fmt.Fprintf(&b, "%d. %s — Level %d | XP %s\n", i+1, r.dc.MentionUser(entry.UserID), entry.Level, formatXP(entry.XP))
	}
	r.respond(ev, b.String())
}

func (r *Router) handleVoiceStats(ev discord.SlashCommandEvent) {
	status, ok := r.engine.VoiceSessionStatus(ev.GuildID, ev.UserID)
	if !ok {
		r.respond(ev, messageNotInVoice)
		return
	}
	minutes := int(status.Elapsed.Minutes())
	seconds := int(status.Elapsed.Seconds()) % 60
	r.respond(ev, fmt.Sprintf("%s has been in <#%s> for **%dm %ds** — %s",
		r.dc.MentionUser(ev.UserID), status.ChannelID, minutes, seconds, r.picker.pick("voice", voiceStatusLines)))
}

func (r *Router) handleRoast(ev discord.SlashCommandEvent) {
	target := optionValue(ev, optionUser)
	if target == "" {
		target = ev.UserID
	}
	r.respond(ev, fmt.Sprintf(r.picker.pick("roast", roastLines), r.dc.MentionUser(target)))
}

func (r *Router) handleBlame(ev discord.SlashCommandEvent) {
	target := ev.UserID
	if entries := r.engine.Leaderboard(ev.GuildID); len(entries) > 0 {
		target = entries[rand.IntN(len(entries))].UserID
	}
	r.respond(ev, fmt.Sprintf(r.picker.pick("blame", blameLines), r.dc.MentionUser(target)))
}

func (r *Router) handleAnnounce(ev discord.SlashCommandEvent) {
	ann := announce.Parse(optionValue(ev, optionText))
	if ann.IsEmpty() {
		r.respondEphemeral(ev, messageEphemeralAnnounceEmpty)
		return
	}
	var b strings.Builder
	b.WriteString("@everyone")
	if ann.Title != "" {
		b.WriteString("\n**" + ann.Title + "**")
	}
	if ann.Body != "" {
		b.WriteString("\n" + ann.Body)
	}
	if ann.ImageURL != "" {
		b.WriteString("\n" + ann.ImageURL)
	}
	if err := r.dc.SendChannelMessageWithReactions(ev.ChannelID, b.String(), ann.Emojis); err != nil {
		slog.Error("failed to post announcement", "error", err, "guild_id", ev.GuildID, "channel_id", ev.ChannelID)
		r.respondEphemeral(ev, messageEphemeralAnnounceFailed)
		return
	}
	r.respondEphemeral(ev, "announcement posted.")
}

func (r *Router) HandleMemberJoin(ev discord.MemberEvent) {
	if ev.UserIsBot {
		return
	}
	if r.cfg.WelcomeChannelID == "" {
		slog.Warn("welcome channel not configured; skipping welcome message", "guild_id", ev.GuildID, "user_id", ev.UserID)
		return
	}
	msg := fmt.Sprintf("welcome to the server, %s! grab your roles and come say hi — we don't bite unless it's a joke.", r.dc.MentionUser(ev.UserID))
	if err := r.dc.SendChannelMessage(r.cfg.WelcomeChannelID, msg); err != nil {
		slog.Error("failed to send welcome message", "error", err, "guild_id", ev.GuildID, "user_id", ev.UserID)
	}
}

func (r *Router) HandleMemberLeave(ev discord.MemberEvent) {
	if ev.UserIsBot {
		return
	}
	if r.cfg.GoodbyeChannelID == "" {
		slog.Warn("goodbye channel not configured; skipping goodbye message", "guild_id", ev.GuildID, "user_id", ev.UserID)
		return
	}
	name := ev.DisplayName
	if name == "" {
		name = ev.UserID
	}
	if err := r.dc.SendChannelMessage(r.cfg.GoodbyeChannelID, fmt.Sprintf(r.picker.pick("goodbye", goodbyeLines), name)); err != nil {
		slog.Error("failed to send goodbye message", "error", err, "guild_id", ev.GuildID, "user_id", ev.UserID)
	}
}

func (r *Router) HandleBoost(ev discord.BoostEvent) {
	if r.cfg.BoostChannelID == "" {
		slog.Warn("boost channel not configured; skipping boost message", "guild_id", ev.GuildID, "user_id", ev.UserID)
		return
	}
	msg := fmt.Sprintf("%s just boosted the server! unmatched generosity; in return we offer vibes and maybe a noodle.", r.dc.MentionUser(ev.UserID))
	if err := r.dc.SendChannelMessage(r.cfg.BoostChannelID, msg); err != nil {
		slog.Error("failed to send boost message", "error", err, "guild_id", ev.GuildID, "user_id", ev.UserID)
	}
}

func (r *Router) respond(ev discord.SlashCommandEvent, content string) {
	if ev.Respond == nil {
		return
	}
	if err := ev.Respond(content); err != nil {
		slog.Error("failed to respond to command", "error", err, "command", ev.CommandName, "guild_id", ev.GuildID)
	}
}

func (r *Router) respondEphemeral(ev discord.SlashCommandEvent, content string) {
	if ev.RespondEphemeral == nil {
		return
	}
	if err := ev.RespondEphemeral(content); err != nil {
		slog.Error("failed to respond to command", "error", err, "command", ev.CommandName, "guild_id", ev.GuildID)
	}
}

func optionValue(ev discord.SlashCommandEvent, name string) string {
	for _, opt := range ev.Options {
		if opt.Name == name {
			return opt.Value
		}
	}
	return ""
}

// formatXP renders an XP amount without a trailing ".0" for whole values.
func formatXP(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}
