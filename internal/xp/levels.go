package xp

import "github.com/sabawlabs/kudos/internal/store"

// LevelUp is the notification payload handed to the presentation layer
// when a profile crosses its level threshold. ChannelID is the channel
// the triggering activity originated in, empty for voice-driven awards.
type LevelUp struct {
	GuildID   string
	ChannelID string
	UserID    string
	NewLevel  int
}

// Notifier receives level-up events. Implementations decide how (and
// whether) to announce them; the engine never waits on the outcome.
type Notifier interface {
	NotifyLevelUp(up LevelUp)
}

// checkLevelUp applies at most one level increment per call. XP grants are
// small relative to the threshold curve, so a single increment is enough
// to keep up; a profile seeded far past its threshold simply levels on
// the next few checks.
func checkLevelUp(p *store.Profile, multiplier float64) (int, bool) {
	if p.XP >= float64(p.Level)*multiplier {
		p.Level++
		return p.Level, true
	}
	return p.Level, false
}
