package bot

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"github.com/disgoorg/disgo/discord"
	"github.com/disgoorg/disgo/rest"
	"github.com/disgoorg/snowflake/v2"
	"github.com/havenmod/haven/internal/moderation"
	"go.uber.org/zap"
)

// Platform implements the moderation collaborators on top of the Discord REST API.
type Platform struct {
	rest   rest.Rest
	logger *zap.Logger
}

// NewPlatform creates a Platform.
func NewPlatform(client rest.Rest, logger *zap.Logger) *Platform {
	return &Platform{
		rest:   client,
		logger: logger.Named("platform"),
	}
}

// ResolveMessage looks up a reported message, distinguishing a missing guild,
// channel or message.
func (p *Platform) ResolveMessage(ctx context.Context, loc moderation.Locator) (*moderation.Message, error) {
	guildID := snowflake.ID(loc.GuildID)

	if _, err := p.rest.GetGuild(guildID, false, rest.WithCtx(ctx)); err != nil {
		if isNotFound(err) {
			return nil, moderation.ErrGuildNotFound
		}
		return nil, fmt.Errorf("failed to get guild: %w", err)
	}

	channel, err := p.rest.GetChannel(snowflake.ID(loc.ChannelID), rest.WithCtx(ctx))
	if err != nil {
		if isNotFound(err) {
			return nil, moderation.ErrChannelNotFound
		}
		return nil, fmt.Errorf("failed to get channel: %w", err)
	}

	if guildChannel, ok := channel.(discord.GuildChannel); !ok || guildChannel.GuildID() != guildID {
		return nil, moderation.ErrChannelNotFound
	}

	msg, err := p.FetchMessage(ctx, channel.ID(), snowflake.ID(loc.MessageID))
	if err != nil {
		if isNotFound(err) {
			return nil, moderation.ErrMessageNotFound
		}
		return nil, err
	}

	return toMessage(*msg), nil
}

// FetchMessage loads a single message.
func (p *Platform) FetchMessage(ctx context.Context, channelID, messageID snowflake.ID) (*discord.Message, error) {
	msg, err := p.rest.GetMessage(channelID, messageID, rest.WithCtx(ctx))
	if err != nil {
		return nil, fmt.Errorf("failed to get message: %w", err)
	}

	return msg, nil
}

// SendToUser delivers a direct message.
func (p *Platform) SendToUser(ctx context.Context, userID, text string) error {
	id, err := snowflake.Parse(userID)
	if err != nil {
		return fmt.Errorf("invalid user id %q: %w", userID, err)
	}

	dm, err := p.rest.CreateDMChannel(id, rest.WithCtx(ctx))
	if err != nil {
		return fmt.Errorf("failed to open dm channel: %w", err)
	}

	for _, chunk := range packLines([]string{text}, maxMessageLength) {
		if err := p.Send(ctx, dm.ID(), chunk); err != nil {
			return err
		}
	}

	return nil
}

// SendToChannel posts a message to a channel.
func (p *Platform) SendToChannel(ctx context.Context, channelID, text string) error {
	id, err := snowflake.Parse(channelID)
	if err != nil {
		return fmt.Errorf("invalid channel id %q: %w", channelID, err)
	}

	for _, chunk := range packLines([]string{text}, maxMessageLength) {
		if err := p.Send(ctx, id, chunk); err != nil {
			return err
		}
	}

	return nil
}

// Send posts one message without pinging anyone.
func (p *Platform) Send(ctx context.Context, channelID snowflake.ID, content string) error {
	_, err := p.rest.CreateMessage(channelID, discord.MessageCreate{
		Content:         content,
		AllowedMentions: &discord.AllowedMentions{},
	}, rest.WithCtx(ctx))
	if err != nil {
		return fmt.Errorf("failed to send message: %w", err)
	}

	return nil
}

// isNotFound reports whether a REST error means the resource is missing or
// not visible to the bot.
func isNotFound(err error) bool {
	var restErr *rest.Error
	if !errors.As(err, &restErr) || restErr.Response == nil {
		return false
	}

	return restErr.Response.StatusCode == http.StatusNotFound ||
		restErr.Response.StatusCode == http.StatusForbidden
}
