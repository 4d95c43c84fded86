package discord

import (
	"context"
	"fmt"
	"time"

	"github.com/bwmarrin/discordgo"
	discordpkg "github.com/sabawlabs/kudos/internal/discord"
)

type Client struct {
	session   *discordgo.Session
	token     string
	botUserID string
}

func NewClient(token string) discordpkg.Client {
	return &Client{
		token: token,
	}
}

func (c *Client) Connect(_ context.Context) error {
	s, err := discordgo.New("Bot " + c.token)
	if err != nil {
		return err
	}
	c.session = s
	s.Identify.Intents = discordgo.MakeIntent(
		discordgo.IntentsGuilds |
			discordgo.IntentsGuildMessages |
			discordgo.IntentsGuildMessageReactions |
			discordgo.IntentsGuildVoiceStates |
			discordgo.IntentsGuildMembers)
	s.State.TrackVoice = true
	s.State.TrackMembers = true
	if err := s.Open(); err != nil {
		return err
	}
	userID, err := c.GetBotUserID()
	if err != nil {
		return err
	}
	c.botUserID = userID
	return nil
}

func (c *Client) Close() error {
	if c.session != nil {
		return c.session.Close()
	}
	return nil
}

func (c *Client) GetBotUserID() (string, error) {
	if c.botUserID != "" {
		return c.botUserID, nil
	}
	if c.session == nil {
		return "", fmt.Errorf("discord session is not initialized")
	}
	if c.session.State != nil && c.session.State.User != nil && c.session.State.User.ID != "" {
		c.botUserID = c.session.State.User.ID
		return c.botUserID, nil
	}
	u, err := c.session.User("@me")
	if err != nil {
		return "", err
	}
	c.botUserID = u.ID
	return c.botUserID, nil
}

func (c *Client) SendChannelMessage(channelID, content string) error {
	_, err := c.session.ChannelMessageSend(channelID, content)
	return err
}

func (c *Client) SendChannelMessageWithReactions(channelID, content string, emojis []string) error {
	msg, err := c.session.ChannelMessageSend(channelID, content)
	if err != nil {
		return err
	}
	for _, emoji := range emojis {
		if err := c.session.MessageReactionAdd(channelID, msg.ID, emoji); err != nil {
			// A bad emoji only loses that one reaction, not the post.
			continue
		}
	}
	return nil
}

func (c *Client) MentionUser(userID string) string {
	return "<@" + userID + ">"
}

func (c *Client) HeartbeatLatency() time.Duration {
	if c.session == nil {
		return 0
	}
	return c.session.HeartbeatLatency()
}

func (c *Client) RegisterMessageHandler(handler func(discordpkg.MessageEvent)) {
	c.session.AddHandler(func(s *discordgo.Session, m *discordgo.MessageCreate) {
		if m == nil || m.Author == nil || m.GuildID == "" {
			return
		}
		handler(discordpkg.MessageEvent{
			GuildID:   m.GuildID,
			ChannelID: m.ChannelID,
			UserID:    m.Author.ID,
			UserIsBot: m.Author.Bot,
			SentAt:    m.Timestamp,
		})
	})
}

func (c *Client) RegisterReactionHandler(handler func(discordpkg.ReactionEvent)) {
	c.session.AddHandler(func(s *discordgo.Session, r *discordgo.MessageReactionAdd) {
		if r == nil || r.GuildID == "" || r.UserID == "" {
			return
		}
		isBot := false
		if r.Member != nil && r.Member.User != nil {
			isBot = r.Member.User.Bot
		} else {
			isBot = c.resolveUserIsBot(r.GuildID, r.UserID, nil)
		}
		handler(discordpkg.ReactionEvent{
			GuildID:   r.GuildID,
			ChannelID: r.ChannelID,
			UserID:    r.UserID,
			UserIsBot: isBot,
			AddedAt:   time.Now(),
		})
	})
}

func (c *Client) RegisterVoiceStateUpdateHandler(handler func(discordpkg.VoiceStateEvent)) {
	c.session.AddHandler(func(s *discordgo.Session, vs *discordgo.VoiceStateUpdate) {
		if vs == nil {
			return
		}
		beforeChannelID := ""
		if vs.BeforeUpdate != nil {
			beforeChannelID = vs.BeforeUpdate.ChannelID
		}
		afterChannelID := vs.ChannelID
		if beforeChannelID == afterChannelID && beforeChannelID != "" {
			return
		}
		if vs.GuildID == "" || vs.UserID == "" {
			return
		}
		handler(discordpkg.VoiceStateEvent{
			GuildID:         vs.GuildID,
			UserID:          vs.UserID,
			UserIsBot:       c.resolveUserIsBot(vs.GuildID, vs.UserID, vs.VoiceState),
			BeforeChannelID: beforeChannelID,
			AfterChannelID:  afterChannelID,
		})
	})
}

func (c *Client) RegisterMemberJoinHandler(handler func(discordpkg.MemberEvent)) {
	c.session.AddHandler(func(s *discordgo.Session, m *discordgo.GuildMemberAdd) {
		if m == nil || m.Member == nil || m.User == nil {
			return
		}
		handler(memberEventFrom(m.Member))
	})
}

func (c *Client) RegisterMemberLeaveHandler(handler func(discordpkg.MemberEvent)) {
	c.session.AddHandler(func(s *discordgo.Session, m *discordgo.GuildMemberRemove) {
		if m == nil || m.Member == nil || m.User == nil {
			return
		}
		handler(memberEventFrom(m.Member))
	})
}

func (c *Client) RegisterBoostHandler(handler func(discordpkg.BoostEvent)) {
	c.session.AddHandler(func(s *discordgo.Session, m *discordgo.GuildMemberUpdate) {
		if m == nil || m.Member == nil || m.User == nil {
			return
		}
		// Only the unset -> set premium transition counts as a boost.
		if m.PremiumSince == nil {
			return
		}
		if m.BeforeUpdate != nil && m.BeforeUpdate.PremiumSince != nil {
			return
		}
		handler(discordpkg.BoostEvent{
			GuildID:     m.GuildID,
			UserID:      m.User.ID,
			DisplayName: displayNameFromMember(m.Member),
		})
	})
}

func memberEventFrom(m *discordgo.Member) discordpkg.MemberEvent {
	return discordpkg.MemberEvent{
		GuildID:     m.GuildID,
		UserID:      m.User.ID,
		DisplayName: displayNameFromMember(m),
		UserIsBot:   m.User.Bot,
	}
}

func displayNameFromMember(m *discordgo.Member) string {
	if m.Nick != "" {
		return m.Nick
	}
	if m.User != nil {
		return preferredDiscordName(m.User.GlobalName, m.User.Username, m.User.ID)
	}
	return ""
}

func (c *Client) RegisterSlashCommandHandler(handler func(discordpkg.SlashCommandEvent)) {
	c.session.AddHandler(func(s *discordgo.Session, ic *discordgo.InteractionCreate) {
		if ic == nil || ic.Type != discordgo.InteractionApplicationCommand {
			return
		}
		data := ic.ApplicationCommandData()
		if data.Name == "" {
			return
		}
		userID := ""
		if ic.Member != nil && ic.Member.User != nil {
			userID = ic.Member.User.ID
		}
		if userID == "" && ic.User != nil {
			userID = ic.User.ID
		}
		if userID == "" {
			return
		}
		options := make([]discordpkg.SlashCommandOption, 0, len(data.Options))
		for _, opt := range data.Options {
			if opt == nil {
				continue
			}
			options = append(options, discordpkg.SlashCommandOption{
				Name:  opt.Name,
				Value: optionValueString(opt),
			})
		}
		handler(discordpkg.SlashCommandEvent{
			GuildID:     ic.GuildID,
			ChannelID:   ic.ChannelID,
			CommandName: data.Name,
			UserID:      userID,
			Options:     options,
			Respond: func(content string) error {
				return s.InteractionRespond(ic.Interaction, &discordgo.InteractionResponse{
					Type: discordgo.InteractionResponseChannelMessageWithSource,
					Data: &discordgo.InteractionResponseData{
						Content: content,
					},
				})
			},
			RespondEphemeral: func(content string) error {
				return s.InteractionRespond(ic.Interaction, &discordgo.InteractionResponse{
					Type: discordgo.InteractionResponseChannelMessageWithSource,
					Data: &discordgo.InteractionResponseData{
						Content: content,
						Flags:   discordgo.MessageFlagsEphemeral,
					},
				})
			},
		})
	})
}

func optionValueString(opt *discordgo.ApplicationCommandInteractionDataOption) string {
	switch opt.Type {
	case discordgo.ApplicationCommandOptionUser:
		if u := opt.UserValue(nil); u != nil {
			return u.ID
		}
		return ""
	case discordgo.ApplicationCommandOptionString:
		return opt.StringValue()
	default:
		return fmt.Sprint(opt.Value)
	}
}

// UpsertSlashCommands registers the command set globally, creating new
// commands and editing ones whose definition drifted.
func (c *Client) UpsertSlashCommands(defs []discordpkg.SlashCommandDefinition) error {
	appID := c.applicationID()
	if appID == "" {
		return fmt.Errorf("discord application id is not available")
	}
	existing, err := c.session.ApplicationCommands(appID, "")
	if err != nil {
		return err
	}
	existingByName := make(map[string]*discordgo.ApplicationCommand, len(existing))
	for _, cmd := range existing {
		if cmd == nil || cmd.Name == "" {
			continue
		}
		existingByName[cmd.Name] = cmd
	}
	for _, def := range defs {
		if err := c.upsertSlashCommand(appID, def, existingByName); err != nil {
			return err
		}
	}
	return nil
}

func (c *Client) upsertSlashCommand(appID string, def discordpkg.SlashCommandDefinition, existingByName map[string]*discordgo.ApplicationCommand) error {
	if def.Name == "" {
		return nil
	}
	payload := &discordgo.ApplicationCommand{
		Name:        def.Name,
		Description: def.Description,
		Options:     commandOptionsPayload(def.Options),
	}
	cmd, ok := existingByName[def.Name]
	if !ok {
		_, err := c.session.ApplicationCommandCreate(appID, "", payload)
		return err
	}
	if cmd.Description == def.Description && len(cmd.Options) == len(payload.Options) {
		return nil
	}
	_, err := c.session.ApplicationCommandEdit(appID, "", cmd.ID, payload)
	return err
}

func commandOptionsPayload(opts []discordpkg.SlashCommandOptionDefinition) []*discordgo.ApplicationCommandOption {
	if len(opts) == 0 {
		return nil
	}
	out := make([]*discordgo.ApplicationCommandOption, 0, len(opts))
	for _, opt := range opts {
		optType := discordgo.ApplicationCommandOptionString
		if opt.IsUser {
			optType = discordgo.ApplicationCommandOptionUser
		}
		out = append(out, &discordgo.ApplicationCommandOption{
			Type:        optType,
			Name:        opt.Name,
			Description: opt.Description,
			Required:    opt.Required,
		})
	}
	return out
}

// ListVoiceOccupants reports everyone currently connected to any voice
// channel across all guilds in the gateway state. Used once at startup
// to rebuild voice sessions.
func (c *Client) ListVoiceOccupants() ([]discordpkg.VoiceOccupant, error) {
	if c.session == nil || c.session.State == nil {
		return nil, nil
	}
	var occupants []discordpkg.VoiceOccupant
	for _, guild := range c.session.State.Guilds {
		if guild == nil {
			continue
		}
		seen := make(map[string]struct{})
		for _, state := range guild.VoiceStates {
			if state == nil || state.ChannelID == "" || state.UserID == "" {
				continue
			}
			if _, exists := seen[state.UserID]; exists {
				continue
			}
			seen[state.UserID] = struct{}{}
			occupants = append(occupants, discordpkg.VoiceOccupant{
				GuildID:   guild.ID,
				ChannelID: state.ChannelID,
				UserID:    state.UserID,
				IsBot:     c.resolveUserIsBot(guild.ID, state.UserID, state),
			})
		}
	}
	return occupants, nil
}

func (c *Client) ResolveDisplayName(guildID, userID string) string {
	member := c.resolveGuildMember(guildID, userID)
	if member != nil {
		if name := displayNameFromMember(member); name != "" {
			return name
		}
	}
	u, err := c.session.User(userID)
	if err == nil && u != nil {
		return preferredDiscordName(u.GlobalName, u.Username, userID)
	}
	return userID
}

func (c *Client) resolveUserIsBot(guildID, userID string, state *discordgo.VoiceState) bool {
	if isBot, ok := botFlagFromVoiceState(state); ok {
		return isBot
	}
	if isBot, ok := c.botFlagFromSessionState(guildID, userID); ok {
		return isBot
	}
	return c.botFlagFromUserAPI(userID)
}

func botFlagFromVoiceState(state *discordgo.VoiceState) (bool, bool) {
	if state != nil && state.Member != nil && state.Member.User != nil {
		return state.Member.User.Bot, true
	}
	return false, false
}

func (c *Client) botFlagFromSessionState(guildID, userID string) (bool, bool) {
	if c.session == nil || c.session.State == nil {
		return false, false
	}
	if c.session.State.User != nil && c.session.State.User.ID == userID {
		return true, true
	}
	member, err := c.session.State.Member(guildID, userID)
	if err == nil && member != nil && member.User != nil {
		return member.User.Bot, true
	}
	return false, false
}

func (c *Client) botFlagFromUserAPI(userID string) bool {
	u, err := c.session.User(userID)
	if err != nil {
		return false
	}
	return u.Bot
}

func (c *Client) resolveGuildMember(guildID, userID string) *discordgo.Member {
	if c.session == nil {
		return nil
	}
	if c.session.State != nil {
		member, err := c.session.State.Member(guildID, userID)
		if err == nil && member != nil {
			return member
		}
	}
	member, err := c.session.GuildMember(guildID, userID)
	if err != nil {
		return nil
	}
	return member
}

func preferredDiscordName(globalName, username, fallback string) string {
	if globalName != "" {
		return globalName
	}
	if username != "" {
		return username
	}
	return fallback
}

func (c *Client) applicationID() string {
	if c.session == nil || c.session.State == nil {
		return ""
	}
	if c.session.State.Application != nil && c.session.State.Application.ID != "" {
		return c.session.State.Application.ID
	}
	if c.session.State.User != nil {
		return c.session.State.User.ID
	}
	return ""
}

func (c *Client) Run() error {
	select {}
}
