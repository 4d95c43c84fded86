package discord

import (
	"context"
	"time"
)

type MessageEvent struct {
	GuildID   string
	ChannelID string
	UserID    string
	UserIsBot bool
	SentAt    time.Time
}

type ReactionEvent struct {
	GuildID   string
	ChannelID string
	UserID    string
	UserIsBot bool
	AddedAt   time.Time
}

// VoiceStateEvent reports a user's channel membership change. An empty
// BeforeChannelID means the user just connected; an empty AfterChannelID
// means they fully disconnected.
type VoiceStateEvent struct {
	GuildID         string
	UserID          string
	UserIsBot       bool
	BeforeChannelID string
	AfterChannelID  string
}

type MemberEvent struct {
	GuildID     string
	UserID      string
	DisplayName string
	UserIsBot   bool
}

// BoostEvent fires when a member's premium flag transitions from unset to set.
type BoostEvent struct {
	GuildID     string
	UserID      string
	DisplayName string
}

type SlashCommandOption struct {
	Name  string
	Value string
}

type SlashCommandEvent struct {
	GuildID          string
	ChannelID        string
	CommandName      string
	UserID           string
	Options          []SlashCommandOption
	Respond          func(content string) error
	RespondEphemeral func(content string) error
}

type SlashCommandOptionDefinition struct {
	Name        string
	Description string
	IsUser      bool
	Required    bool
}

type SlashCommandDefinition struct {
	Name        string
	Description string
	Options     []SlashCommandOptionDefinition
}

// VoiceOccupant is a user currently connected to some voice channel,
// as reported by the gateway state at startup.
type VoiceOccupant struct {
	GuildID   string
	ChannelID string
	UserID    string
	IsBot     bool
}

type Client interface {
	Connect(ctx context.Context) error
	Close() error
	GetBotUserID() (string, error)
	SendChannelMessage(channelID, content string) error
	SendChannelMessageWithReactions(channelID, content string, emojis []string) error
	MentionUser(userID string) string
	HeartbeatLatency() time.Duration
	RegisterMessageHandler(handler func(MessageEvent))
	RegisterReactionHandler(handler func(ReactionEvent))
	RegisterVoiceStateUpdateHandler(handler func(VoiceStateEvent))
	RegisterMemberJoinHandler(handler func(MemberEvent))
	RegisterMemberLeaveHandler(handler func(MemberEvent))
	RegisterBoostHandler(handler func(BoostEvent))
	RegisterSlashCommandHandler(handler func(SlashCommandEvent))
	UpsertSlashCommands(defs []SlashCommandDefinition) error
	ListVoiceOccupants() ([]VoiceOccupant, error)
	ResolveDisplayName(guildID, userID string) string
	Run() error
}
