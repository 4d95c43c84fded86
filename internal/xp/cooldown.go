package xp

import (
	"time"

	"github.com/sabawlabs/kudos/internal/store"
)

// Kind identifies the source of an XP grant. Every grant passes through
// the per-kind cooldown gate keyed by these values.
type Kind string

const (
	KindChat     Kind = "chat"
	KindReaction Kind = "reaction"
	KindVoice    Kind = "voice"
)

func lastAward(p *store.Profile, kind Kind) int64 {
	switch kind {
	case KindChat:
		return p.LastChatAward
	case KindReaction:
		return p.LastReactAward
	case KindVoice:
		return p.LastVoiceAward
	}
	return 0
}

func setLastAward(p *store.Profile, kind Kind, at int64) {
	switch kind {
	case KindChat:
		p.LastChatAward = at
	case KindReaction:
		p.LastReactAward = at
	case KindVoice:
		p.LastVoiceAward = at
	}
}

// tryConsume reports whether a grant of the given kind is allowed at now,
// and records now as the new last-award time when it is. On a rejected
// attempt the profile is left untouched. Comparison is whole seconds, so
// an attempt exactly at the window boundary succeeds.
func tryConsume(p *store.Profile, kind Kind, now time.Time, window time.Duration) bool {
	nowUnix := now.Unix()
	if nowUnix-lastAward(p, kind) < int64(window/time.Second) {
		return false
	}
	setLastAward(p, kind, nowUnix)
	return true
}
