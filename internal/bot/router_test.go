package bot

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/sabawlabs/kudos/internal/config"
	"github.com/sabawlabs/kudos/internal/discord"
	"github.com/sabawlabs/kudos/internal/xp"
)

type mockDiscordClient struct {
	sendCalls     []string
	sendChannels  []string
	reactionCalls [][]string
	sendErr       error
}

func (m *mockDiscordClient) Connect(_ context.Context) error { return nil }
func (m *mockDiscordClient) Close() error                    { return nil }
func (m *mockDiscordClient) GetBotUserID() (string, error)   { return "bot-self", nil }
func (m *mockDiscordClient) SendChannelMessage(channelID, content string) error {
	m.sendChannels = append(m.sendChannels, channelID)
	m.sendCalls = append(m.sendCalls, content)
	return m.sendErr
}
func (m *mockDiscordClient) SendChannelMessageWithReactions(channelID, content string, emojis []string) error {
	m.sendChannels = append(m.sendChannels, channelID)
	m.sendCalls = append(m.sendCalls, content)
	m.reactionCalls = append(m.reactionCalls, emojis)
	return m.sendErr
}
func (m *mockDiscordClient) MentionUser(userID string) string           { return "<@" + userID + ">" }
func (m *mockDiscordClient) HeartbeatLatency() time.Duration            { return 42 * time.Millisecond }
func (m *mockDiscordClient) RegisterMessageHandler(_ func(discord.MessageEvent))         {}
func (m *mockDiscordClient) RegisterReactionHandler(_ func(discord.ReactionEvent))       {}
func (m *mockDiscordClient) RegisterVoiceStateUpdateHandler(_ func(discord.VoiceStateEvent)) {}
func (m *mockDiscordClient) RegisterMemberJoinHandler(_ func(discord.MemberEvent))       {}
func (m *mockDiscordClient) RegisterMemberLeaveHandler(_ func(discord.MemberEvent))      {}
func (m *mockDiscordClient) RegisterBoostHandler(_ func(discord.BoostEvent))             {}
func (m *mockDiscordClient) RegisterSlashCommandHandler(_ func(discord.SlashCommandEvent)) {}
func (m *mockDiscordClient) UpsertSlashCommands(_ []discord.SlashCommandDefinition) error {
	return nil
}
func (m *mockDiscordClient) ListVoiceOccupants() ([]discord.VoiceOccupant, error) { return nil, nil }
func (m *mockDiscordClient) ResolveDisplayName(_, userID string) string           { return userID }
func (m *mockDiscordClient) Run() error                                           { return nil }

type mockEngine struct {
	rankView     xp.ProfileView
	rankFound    bool
	entries      []xp.LeaderboardEntry
	voiceStatus  xp.VoiceStatus
	voiceInVoice bool
}

func (m *mockEngine) Rank(_, _ string) (xp.ProfileView, bool) { return m.rankView, m.rankFound }
func (m *mockEngine) Leaderboard(_ string) []xp.LeaderboardEntry {
	return m.entries
}
func (m *mockEngine) VoiceSessionStatus(_, _ string) (xp.VoiceStatus, bool) {
	return m.voiceStatus, m.voiceInVoice
}

func testRouterConfig() *config.Config {
	return &config.Config{
		CommandCooldownSec: 30,
		WelcomeChannelID:   "welcome-chan",
		GoodbyeChannelID:   "goodbye-chan",
		BoostChannelID:     "boost-chan",
		LevelUpChannelID:   "levelup-chan",
	}
}

func newTestRouter(dc *mockDiscordClient, engine *mockEngine) (*Router, *time.Time) {
	r := NewRouter(testRouterConfig(), dc, engine)
	now := time.Unix(1_700_000_000, 0)
	r.now = func() time.Time { return now }
	return r, &now
}

func commandEvent(name, userID string, public, ephemeral *string) discord.SlashCommandEvent {
	return discord.SlashCommandEvent{
		GuildID:     "guild-1",
		ChannelID:   "chan-1",
		CommandName: name,
		UserID:      userID,
		Respond: func(content string) error {
			*public = content
			return nil
		},
		RespondEphemeral: func(content string) error {
			*ephemeral = content
			return nil
		},
	}
}

func TestHandleSlashCommand_RankWithProfile(t *testing.T) {
	dc := &mockDiscordClient{}
	engine := &mockEngine{
		rankFound: true,
		rankView:  xp.ProfileView{XP: 137.5, Level: 2, StreakDay: 3, NextLevelXP: 200},
	}
	r, _ := newTestRouter(dc, engine)

	var public, ephemeral string
	r.HandleSlashCommand(commandEvent(commandRank, "user-1", &public, &ephemeral))

	if !strings.Contains(public, "Level: `2`") {
		t.Fatalf("expected level in response, got %q", public)
	}
	if !strings.Contains(public, "137.5/200") {
		t.Fatalf("expected xp ratio in response, got %q", public)
	}
	if ephemeral != "" {
		t.Fatalf("expected no ephemeral response, got %q", ephemeral)
	}
}

func TestHandleSlashCommand_RankWithoutProfile(t *testing.T) {
	dc := &mockDiscordClient{}
	r, _ := newTestRouter(dc, &mockEngine{})

	var public, ephemeral string
	r.HandleSlashCommand(commandEvent(commandRank, "user-1", &public, &ephemeral))

	if public == "" {
		t.Fatal("expected a public no-profile response")
	}
	if !strings.Contains(public, "<@user-1>") {
		t.Fatalf("expected user mention, got %q", public)
	}
}

func TestHandleSlashCommand_Leaderboard(t *testing.T) {
	dc := &mockDiscordClient{}
	engine := &mockEngine{entries: []xp.LeaderboardEntry{
		{UserID: "B", Level: 2, XP: 120},
		{UserID: "C", Level: 2, XP: 120},
		{UserID: "A", Level: 1, XP: 50},
	}}
	r, _ := newTestRouter(dc, engine)

	var public, ephemeral string
	r.HandleSlashCommand(commandEvent(commandLeaderboard, "user-1", &public, &ephemeral))

	bIdx := strings.Index(public, "<@B>")
	cIdx := strings.Index(public, "<@C>")
	aIdx := strings.Index(public, "<@A>")
	if bIdx == -1 || cIdx == -1 || aIdx == -1 {
		t.Fatalf("expected all three entries, got %q", public)
	}
	if !(bIdx < cIdx && cIdx < aIdx) {
		t.Fatalf("expected order B, C, A in %q", public)
	}
}

func TestHandleSlashCommand_CommandCooldown(t *testing.T) {
	dc := &mockDiscordClient{}
	r, nowRef := newTestRouter(dc, &mockEngine{})

	var public1, eph1 string
	r.HandleSlashCommand(commandEvent(commandQuip, "user-1", &public1, &eph1))
	if public1 == "" {
		t.Fatal("expected first command to run")
	}

	var public2, eph2 string
	*nowRef = nowRef.Add(10 * time.Second)
	r.HandleSlashCommand(commandEvent(commandQuip, "user-1", &public2, &eph2))
	if public2 != "" {
		t.Fatalf("expected second command blocked, got %q", public2)
	}
	if !strings.Contains(eph2, "try again") {
		t.Fatalf("expected retry hint, got %q", eph2)
	}

	var public3, eph3 string
	*nowRef = nowRef.Add(25 * time.Second)
	r.HandleSlashCommand(commandEvent(commandQuip, "user-1", &public3, &eph3))
	if public3 == "" {
		t.Fatal("expected command allowed after the window")
	}
}

func TestHandleSlashCommand_VoiceStats(t *testing.T) {
	dc := &mockDiscordClient{}
	engine := &mockEngine{
		voiceInVoice: true,
		voiceStatus:  xp.VoiceStatus{ChannelID: "vc-1", Elapsed: 125 * time.Second},
	}
	r, _ := newTestRouter(dc, engine)

	var public, ephemeral string
	r.HandleSlashCommand(commandEvent(commandVoiceStats, "user-1", &public, &ephemeral))
	if !strings.Contains(public, "2m 5s") {
		t.Fatalf("expected elapsed formatting, got %q", public)
	}
	if !strings.Contains(public, "<#vc-1>") {
		t.Fatalf("expected channel reference, got %q", public)
	}
}

func TestHandleSlashCommand_AnnouncePostsWithReactions(t *testing.T) {
	dc := &mockDiscordClient{}
	r, _ := newTestRouter(dc, &mockEngine{})

	var public, ephemeral string
	ev := commandEvent(commandAnnounce, "admin-1", &public, &ephemeral)
	ev.Options = []discord.SlashCommandOption{{Name: optionText, Value: "🎉 | Game Night | starts at 9pm"}}
	r.HandleSlashCommand(ev)

	if len(dc.sendCalls) != 1 {
		t.Fatalf("expected one posted message, got %d", len(dc.sendCalls))
	}
	if !strings.Contains(dc.sendCalls[0], "**Game Night**") || !strings.Contains(dc.sendCalls[0], "starts at 9pm") {
		t.Fatalf("unexpected announcement content: %q", dc.sendCalls[0])
	}
	if len(dc.reactionCalls) != 1 || len(dc.reactionCalls[0]) != 1 || dc.reactionCalls[0][0] != "🎉" {
		t.Fatalf("unexpected reactions: %+v", dc.reactionCalls)
	}
	if ephemeral == "" {
		t.Fatal("expected an ephemeral confirmation")
	}
}

func TestHandleSlashCommand_AnnounceRejectsEmpty(t *testing.T) {
	dc := &mockDiscordClient{}
	r, _ := newTestRouter(dc, &mockEngine{})

	var public, ephemeral string
	ev := commandEvent(commandAnnounce, "admin-1", &public, &ephemeral)
	ev.Options = []discord.SlashCommandOption{{Name: optionText, Value: "   "}}
	r.HandleSlashCommand(ev)

	if len(dc.sendCalls) != 0 {
		t.Fatalf("expected nothing posted, got %d messages", len(dc.sendCalls))
	}
	if ephemeral != messageEphemeralAnnounceEmpty {
		t.Fatalf("unexpected ephemeral response: %q", ephemeral)
	}
}

func TestHandleMemberJoin_SendsWelcome(t *testing.T) {
	dc := &mockDiscordClient{}
	r, _ := newTestRouter(dc, &mockEngine{})

	r.HandleMemberJoin(discord.MemberEvent{GuildID: "guild-1", UserID: "user-1"})
	if len(dc.sendCalls) != 1 {
		t.Fatalf("expected one welcome message, got %d", len(dc.sendCalls))
	}
	if dc.sendChannels[0] != "welcome-chan" {
		t.Fatalf("unexpected channel: %s", dc.sendChannels[0])
	}
	if !strings.Contains(dc.sendCalls[0], "<@user-1>") {
		t.Fatalf("expected mention in welcome, got %q", dc.sendCalls[0])
	}
}

func TestHandleMemberJoin_SkipsWhenUnconfigured(t *testing.T) {
	dc := &mockDiscordClient{}
	r, _ := newTestRouter(dc, &mockEngine{})
	r.cfg = &config.Config{CommandCooldownSec: 30}

	r.HandleMemberJoin(discord.MemberEvent{GuildID: "guild-1", UserID: "user-1"})
	if len(dc.sendCalls) != 0 {
		t.Fatalf("expected no message without a configured channel, got %d", len(dc.sendCalls))
	}
}

func TestHandleMemberLeave_UsesDisplayName(t *testing.T) {
	dc := &mockDiscordClient{}
	r, _ := newTestRouter(dc, &mockEngine{})

	r.HandleMemberLeave(discord.MemberEvent{GuildID: "guild-1", UserID: "user-1", DisplayName: "somebody"})
	if len(dc.sendCalls) != 1 {
		t.Fatalf("expected one goodbye message, got %d", len(dc.sendCalls))
	}
	if !strings.Contains(dc.sendCalls[0], "somebody") {
		t.Fatalf("expected display name in goodbye, got %q", dc.sendCalls[0])
	}
}

func TestNotifyLevelUp_PrefersConfiguredChannel(t *testing.T) {
	dc := &mockDiscordClient{}
	a := NewAnnouncer(testRouterConfig(), dc)

	a.NotifyLevelUp(xp.LevelUp{GuildID: "guild-1", ChannelID: "origin-chan", UserID: "user-1", NewLevel: 2})
	if len(dc.sendCalls) != 1 {
		t.Fatalf("expected one announcement, got %d", len(dc.sendCalls))
	}
	if dc.sendChannels[0] != "levelup-chan" {
		t.Fatalf("expected configured channel, got %s", dc.sendChannels[0])
	}
	if !strings.Contains(dc.sendCalls[0], "Level 2") {
		t.Fatalf("expected new level in announcement, got %q", dc.sendCalls[0])
	}
}

func TestNotifyLevelUp_FallsBackToOriginChannel(t *testing.T) {
	dc := &mockDiscordClient{}
	cfg := testRouterConfig()
	cfg.LevelUpChannelID = ""
	a := NewAnnouncer(cfg, dc)

	a.NotifyLevelUp(xp.LevelUp{GuildID: "guild-1", ChannelID: "origin-chan", UserID: "user-1", NewLevel: 2})
	if len(dc.sendChannels) != 1 || dc.sendChannels[0] != "origin-chan" {
		t.Fatalf("expected origin channel fallback, got %+v", dc.sendChannels)
	}

	// No configured channel and no origin (voice-driven level up): skip.
	a.NotifyLevelUp(xp.LevelUp{GuildID: "guild-1", UserID: "user-1", NewLevel: 3})
	if len(dc.sendChannels) != 1 {
		t.Fatalf("expected no send without any channel, got %d", len(dc.sendChannels))
	}
}

func TestPicker_AvoidsImmediateRepeat(t *testing.T) {
	p := newLinePicker()
	lines := []string{"a", "b", "c"}
	prev := p.pick("pool", lines)
	for i := 0; i < 50; i++ {
		got := p.pick("pool", lines)
		if got == prev {
			t.Fatalf("picked the same line twice in a row: %q", got)
		}
		prev = got
	}
}
