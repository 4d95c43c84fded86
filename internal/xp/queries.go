package xp

import (
	"sort"
	"time"

	"github.com/sabawlabs/kudos/internal/store"
)

const leaderboardSize = 10

// ProfileView is a read-only copy of a profile handed to the
// presentation layer.
type ProfileView struct {
	XP          float64
	Level       int
	StreakDay   int
	Breakdown   store.Breakdown
	NextLevelXP float64
}

type LeaderboardEntry struct {
	UserID string
	Level  int
	XP     float64
}

type VoiceStatus struct {
	ChannelID string
	Elapsed   time.Duration
}

// Rank returns a snapshot of the user's profile, or false when the user
// has no profile in the guild yet.
func (e *Engine) Rank(guildID, userID string) (ProfileView, bool) {
	var (
		view  ProfileView
		found bool
	)
	e.call(func() {
		p, ok := e.profiles[guildID][userID]
		if !ok {
			return
		}
		found = true
		view = ProfileView{
			XP:          p.XP,
			Level:       p.Level,
			StreakDay:   p.StreakDay,
			Breakdown:   p.Breakdown,
			NextLevelXP: float64(p.Level) * e.cfg.LevelXPMultiplier,
		}
	})
	return view, found
}

// Leaderboard returns the guild's top profiles ordered by XP descending.
// Ties keep profile creation order (stable sort), and the result is
// capped to ten entries.
func (e *Engine) Leaderboard(guildID string) []LeaderboardEntry {
	var entries []LeaderboardEntry
	e.call(func() {
		entries = e.leaderboard(guildID)
	})
	return entries
}

func (e *Engine) leaderboard(guildID string) []LeaderboardEntry {
	users := e.profiles[guildID]
	entries := make([]LeaderboardEntry, 0, len(users))
	for _, userID := range e.order[guildID] {
		p, ok := users[userID]
		if !ok {
			continue
		}
		entries = append(entries, LeaderboardEntry{UserID: userID, Level: p.Level, XP: p.XP})
	}
	sort.SliceStable(entries, func(i, j int) bool {
		return entries[i].XP > entries[j].XP
	})
	if len(entries) > leaderboardSize {
		entries = entries[:leaderboardSize]
	}
	return entries
}

// VoiceSessionStatus reports the user's open voice session, when any.
func (e *Engine) VoiceSessionStatus(guildID, userID string) (VoiceStatus, bool) {
	var (
		status VoiceStatus
		found  bool
	)
	e.call(func() {
		s, ok := e.sessions[sessionKey(guildID, userID)]
		if !ok {
			return
		}
		found = true
		status = VoiceStatus{
			ChannelID: s.channelID,
			Elapsed:   e.now().Sub(s.startedAt),
		}
	})
	return status, found
}
