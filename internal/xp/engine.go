package xp

import (
	"context"
	"log/slog"
	"sort"
	"time"

	"github.com/google/uuid"
	"github.com/sabawlabs/kudos/internal/config"
	"github.com/sabawlabs/kudos/internal/discord"
	"github.com/sabawlabs/kudos/internal/store"
)

const opQueueSize = 256

// Engine owns all XP state: the profile map, per-kind cooldown timestamps
// and the set of open voice sessions. A single goroutine started by Run
// consumes inbound events, queries and timer ticks from one queue, so
// handler bodies never run concurrently and the state needs no locking.
type Engine struct {
	cfg      *config.Config
	store    store.Store
	notifier Notifier
	now      func() time.Time

	botUserID string

	profiles store.Snapshot
	order    map[string][]string // guild id -> user ids in profile creation order
	sessions map[string]*voiceSession

	ops chan func()
}

type voiceSession struct {
	id        string
	guildID   string
	userID    string
	channelID string
	startedAt time.Time
}

func NewEngine(cfg *config.Config, st store.Store, notifier Notifier) *Engine {
	return &Engine{
		cfg:      cfg,
		store:    st,
		notifier: notifier,
		now:      time.Now,
		profiles: store.Snapshot{},
		order:    make(map[string][]string),
		sessions: make(map[string]*voiceSession),
		ops:      make(chan func(), opQueueSize),
	}
}

func (e *Engine) SetBotUserID(id string) {
	e.botUserID = id
}

// Load replaces the in-memory snapshot with the persisted one. A load
// failure is not fatal: the engine starts from an empty snapshot and the
// condition is logged.
func (e *Engine) Load(ctx context.Context) {
	snapshot, err := e.store.Load(ctx)
	if err != nil {
		slog.Warn("failed to load xp snapshot; starting with empty state", "error", err)
	}
	if snapshot == nil {
		snapshot = store.Snapshot{}
	}
	e.profiles = snapshot
	e.order = make(map[string][]string, len(snapshot))
	for guildID, users := range snapshot {
		ids := make([]string, 0, len(users))
		for userID := range users {
			ids = append(ids, userID)
		}
		sort.Slice(ids, func(i, j int) bool {
			a, b := users[ids[i]], users[ids[j]]
			if a.CreatedAt != b.CreatedAt {
				return a.CreatedAt < b.CreatedAt
			}
			return ids[i] < ids[j]
		})
		e.order[guildID] = ids
	}
	slog.Info("xp snapshot loaded", "guilds", len(snapshot))
}

// Run consumes the op queue until ctx is canceled. The voice heartbeat
// and autosave tickers are cases of the same select, so ticks interleave
// with event handling but never interrupt a handler body.
func (e *Engine) Run(ctx context.Context) {
	heartbeat := time.NewTicker(time.Duration(e.cfg.VoiceHeartbeatSec) * time.Second)
	autosave := time.NewTicker(time.Duration(e.cfg.AutosaveMinutes) * time.Minute)
	defer heartbeat.Stop()
	defer autosave.Stop()

	slog.Info("xp engine started",
		"heartbeat_interval_sec", e.cfg.VoiceHeartbeatSec,
		"autosave_minutes", e.cfg.AutosaveMinutes)
	for {
		select {
		case <-ctx.Done():
			e.save("shutdown")
			slog.Info("xp engine stopped")
			return
		case op := <-e.ops:
			op()
		case <-heartbeat.C:
			e.applyHeartbeat(e.now())
		case <-autosave.C:
			slog.Info("autosaving xp snapshot")
			e.save("autosave")
		}
	}
}

func (e *Engine) do(op func()) {
	e.ops <- op
}

func (e *Engine) call(op func()) {
	done := make(chan struct{})
	e.ops <- func() {
		op()
		close(done)
	}
	<-done
}

// HandleMessage enqueues a chat XP grant attempt for a posted message.
func (e *Engine) HandleMessage(ev discord.MessageEvent) {
	if ev.UserIsBot || ev.GuildID == "" || ev.UserID == e.botUserID {
		return
	}
	e.do(func() { e.applyMessage(ev, e.now()) })
}

// HandleReaction enqueues a reaction XP grant attempt.
func (e *Engine) HandleReaction(ev discord.ReactionEvent) {
	if ev.UserIsBot || ev.GuildID == "" || ev.UserID == e.botUserID {
		return
	}
	e.do(func() { e.applyReaction(ev, e.now()) })
}

// HandleVoiceState enqueues a voice session transition.
func (e *Engine) HandleVoiceState(ev discord.VoiceStateEvent) {
	if ev.UserIsBot || ev.GuildID == "" || ev.UserID == e.botUserID {
		return
	}
	e.do(func() { e.applyVoiceState(ev, e.now()) })
}

// ReconcileVoiceSessions synthesizes join transitions for users already
// connected to voice when the process starts. Elapsed time before startup
// is unknowable and is not credited.
func (e *Engine) ReconcileVoiceSessions(occupants []discord.VoiceOccupant) {
	e.do(func() {
		now := e.now()
		for _, occ := range occupants {
			if occ.IsBot || occ.UserID == e.botUserID {
				continue
			}
			e.openSession(occ.GuildID, occ.ChannelID, occ.UserID, now)
		}
		slog.Info("voice sessions reconciled", "open_sessions", len(e.sessions))
	})
}

func (e *Engine) applyMessage(ev discord.MessageEvent, now time.Time) {
	p := e.ensureProfile(ev.GuildID, ev.UserID, now)
	awarded := false

	if tryConsume(p, KindChat, now, time.Duration(e.cfg.MessageCooldownSec)*time.Second) {
		p.XP += e.cfg.MessageXP
		p.Breakdown.Chat += e.cfg.MessageXP
		awarded = true
		slog.Debug("chat xp granted", "guild_id", ev.GuildID, "user_id", ev.UserID, "amount", e.cfg.MessageXP)
	}

	// Streak accounting runs regardless of the chat cooldown outcome.
	gap := now.Unix() - p.LastActivity
	switch {
	case gap >= 86400 && gap < 172800:
		p.StreakDay++
		p.XP += e.cfg.DailyStreakBonusXP
		awarded = true
		slog.Info("daily streak extended", "guild_id", ev.GuildID, "user_id", ev.UserID, "streak_day", p.StreakDay)
	case gap >= 172800:
		p.StreakDay = 1
	}
	p.LastActivity = now.Unix()

	if awarded {
		e.levelCheck(ev.GuildID, ev.ChannelID, ev.UserID, p)
		e.save("chat award")
	}
}

func (e *Engine) applyReaction(ev discord.ReactionEvent, now time.Time) {
	p := e.ensureProfile(ev.GuildID, ev.UserID, now)
	if !tryConsume(p, KindReaction, now, time.Duration(e.cfg.ReactionCooldownSec)*time.Second) {
		return
	}
	p.XP += e.cfg.ReactionXP
	p.Breakdown.Reaction += e.cfg.ReactionXP
	slog.Debug("reaction xp granted", "guild_id", ev.GuildID, "user_id", ev.UserID, "amount", e.cfg.ReactionXP)

	e.levelCheck(ev.GuildID, ev.ChannelID, ev.UserID, p)
	e.save("reaction award")
}

func (e *Engine) applyVoiceState(ev discord.VoiceStateEvent, now time.Time) {
	key := sessionKey(ev.GuildID, ev.UserID)
	switch {
	case ev.AfterChannelID != "":
		if s, ok := e.sessions[key]; ok {
			// Channel hop keeps the running session.
			s.channelID = ev.AfterChannelID
			return
		}
		e.openSession(ev.GuildID, ev.AfterChannelID, ev.UserID, now)
	case ev.BeforeChannelID != "":
		s, ok := e.sessions[key]
		if !ok {
			return
		}
		delete(e.sessions, key)
		e.closeSession(s, now)
	}
}

func (e *Engine) openSession(guildID, channelID, userID string, now time.Time) {
	key := sessionKey(guildID, userID)
	if _, ok := e.sessions[key]; ok {
		return
	}
	e.ensureProfile(guildID, userID, now)
	s := &voiceSession{
		id:        uuid.NewString(),
		guildID:   guildID,
		userID:    userID,
		channelID: channelID,
		startedAt: now,
	}
	e.sessions[key] = s
	slog.Info("voice session opened", "session_id", s.id, "guild_id", guildID, "channel_id", channelID, "user_id", userID)
}

// closeSession converts the elapsed session duration to whole minutes of
// XP. This grant is separate from heartbeat awards already made during
// the session; the two mechanisms coexist on purpose.
func (e *Engine) closeSession(s *voiceSession, now time.Time) {
	elapsed := now.Sub(s.startedAt)
	minutes := int(elapsed / time.Minute)
	slog.Info("voice session closed", "session_id", s.id, "guild_id", s.guildID, "user_id", s.userID, "elapsed_sec", int(elapsed.Seconds()), "minutes_awarded", minutes)
	if minutes < 1 {
		return
	}
	p := e.ensureProfile(s.guildID, s.userID, now)
	p.XP += float64(minutes)
	p.Breakdown.Voice += float64(minutes)
	e.levelCheck(s.guildID, "", s.userID, p)
	e.save("voice leave award")
}

func (e *Engine) applyHeartbeat(now time.Time) {
	awarded := 0
	for _, s := range e.sessions {
		p := e.ensureProfile(s.guildID, s.userID, now)
		if !tryConsume(p, KindVoice, now, time.Duration(e.cfg.VoiceCooldownSec)*time.Second) {
			continue
		}
		p.XP += e.cfg.VoiceHeartbeatXP
		p.Breakdown.Voice += e.cfg.VoiceHeartbeatXP
		awarded++
		slog.Debug("voice heartbeat xp granted", "session_id", s.id, "guild_id", s.guildID, "user_id", s.userID, "amount", e.cfg.VoiceHeartbeatXP)
		e.levelCheck(s.guildID, "", s.userID, p)
	}
	if awarded > 0 {
		e.save("voice heartbeat")
	}
}

func (e *Engine) levelCheck(guildID, channelID, userID string, p *store.Profile) {
	newLevel, leveled := checkLevelUp(p, e.cfg.LevelXPMultiplier)
	if !leveled {
		return
	}
	slog.Info("level up", "guild_id", guildID, "user_id", userID, "new_level", newLevel)
	if e.notifier != nil {
		e.notifier.NotifyLevelUp(LevelUp{
			GuildID:   guildID,
			ChannelID: channelID,
			UserID:    userID,
			NewLevel:  newLevel,
		})
	}
}

// save writes the whole snapshot. A failed write is logged and otherwise
// ignored; in-memory state stays authoritative.
func (e *Engine) save(reason string) {
	if err := e.store.Save(context.Background(), e.profiles); err != nil {
		slog.Error("failed to save xp snapshot", "error", err, "reason", reason)
	}
}

func (e *Engine) ensureProfile(guildID, userID string, now time.Time) *store.Profile {
	users, ok := e.profiles[guildID]
	if !ok {
		users = make(map[string]*store.Profile)
		e.profiles[guildID] = users
	}
	p, ok := users[userID]
	if !ok {
		p = store.NewProfile(now.Unix())
		users[userID] = p
		e.order[guildID] = append(e.order[guildID], userID)
		slog.Debug("profile created", "guild_id", guildID, "user_id", userID)
	}
	return p
}

func sessionKey(guildID, userID string) string {
	return guildID + ":" + userID
}
