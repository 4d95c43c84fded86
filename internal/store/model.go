package store

// Breakdown is the per-source XP subtotal retained for reporting.
// The values never exceed the profile's total xp.
type Breakdown struct {
	Chat     float64 `json:"chat"`
	Reaction float64 `json:"reaction"`
	Voice    float64 `json:"vc"`
}

// Profile is the persisted XP record for one user within one guild.
// Timestamps are unix seconds. A profile is created lazily on first
// observed activity and never deleted.
type Profile struct {
	XP             float64   `json:"xp"`
	Level          int       `json:"level"`
	LastActivity   int64     `json:"last_activity"`
	StreakDay      int       `json:"streak_day"`
	Breakdown      Breakdown `json:"breakdown"`
	LastChatAward  int64     `json:"last_chat_award,omitempty"`
	LastReactAward int64     `json:"last_reaction_award,omitempty"`
	LastVoiceAward int64     `json:"last_voice_award,omitempty"`
	CreatedAt      int64     `json:"created_at,omitempty"`
}

// NewProfile returns a fresh profile for a user first seen at the given time.
func NewProfile(now int64) *Profile {
	return &Profile{
		Level:     1,
		StreakDay: 1,
		CreatedAt: now,
	}
}

// Snapshot is the whole persisted state: guild id -> user id -> profile.
type Snapshot map[string]map[string]*Profile
