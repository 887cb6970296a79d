package bot

import (
	"context"
	"time"

	"github.com/disgoorg/disgo/discord"
	"github.com/disgoorg/disgo/events"
	"github.com/disgoorg/snowflake/v2"
	"github.com/havenmod/haven/internal/moderation"
	"go.uber.org/zap"
)

// handleMessageCreate dispatches every message the bot can see.
// Direct messages are serialized per author and moderator commands per
// channel so dialogue turns run in arrival order. Monitored messages and
// dataset evaluations run on their own goroutines.
func (b *Bot) handleMessageCreate(event *events.MessageCreate) {
	msg := event.Message
	if msg.Author.Bot {
		return
	}

	switch {
	case msg.GuildID == nil:
		b.turns.Do("user:"+msg.Author.ID.String(), func() {
			b.run(msg, b.handleDirectMessage)
		})
	case msg.ChannelID == b.modChannelID:
		if path, ok := parseEvalCommand(msg.Content); ok {
			go b.run(msg, func(msg discord.Message) {
				b.handleEvalCommand(msg.ChannelID, path)
			})
			return
		}

		b.turns.Do("channel:"+msg.ChannelID.String(), func() {
			b.run(msg, b.handleModeratorMessage)
		})
	default:
		if _, ok := b.monitored[msg.ChannelID]; ok {
			go b.run(msg, b.handleMonitoredMessage)
		}
	}
}

// run calls handler with panic recovery and duration logging.
func (b *Bot) run(msg discord.Message, handler func(discord.Message)) {
	start := time.Now()
	defer func() {
		if r := recover(); r != nil {
			b.logger.Error("Panic in message handler",
				zap.Any("panic", r),
				zap.String("message_id", msg.ID.String()))
		}
		b.logger.Debug("Message handled",
			zap.String("channel_id", msg.ChannelID.String()),
			zap.Duration("duration", time.Since(start)))
	}()

	handler(msg)
}

// handleDirectMessage runs a report dialogue turn.
func (b *Bot) handleDirectMessage(msg discord.Message) {
	ctx, cancel := context.WithTimeout(context.Background(), b.turnTimeout)
	defer cancel()

	lines, err := b.engine.HandleDirectMessage(ctx, toUser(msg.Author), msg.Content)
	if err != nil {
		b.logger.Error("Failed to handle direct message",
			zap.Error(err),
			zap.String("user_id", msg.Author.ID.String()))
		lines = []string{moderation.MsgProcessingFailed}
	}

	b.reply(ctx, msg.ChannelID, lines)
}

// handleModeratorMessage runs a review turn.
func (b *Bot) handleModeratorMessage(msg discord.Message) {
	ctx, cancel := context.WithTimeout(context.Background(), b.turnTimeout)
	defer cancel()

	lines, err := b.engine.HandleModeratorMessage(ctx, msg.ChannelID.String(), toUser(msg.Author), msg.Content)
	if err != nil {
		b.logger.Error("Failed to handle moderator message",
			zap.Error(err),
			zap.String("moderator_id", msg.Author.ID.String()))
		lines = []string{moderation.MsgProcessingFailed}
	}

	b.reply(ctx, msg.ChannelID, lines)
}

// handleMonitoredMessage forwards and classifies a message from a monitored channel.
func (b *Bot) handleMonitoredMessage(msg discord.Message) {
	ctx, cancel := context.WithTimeout(context.Background(), b.turnTimeout)
	defer cancel()

	if msg.ReferencedMessage == nil && msg.MessageReference != nil && msg.MessageReference.MessageID != nil {
		referenced, err := b.platform.FetchMessage(ctx, msg.ChannelID, *msg.MessageReference.MessageID)
		if err != nil {
			b.logger.Warn("Failed to fetch referenced message",
				zap.Error(err),
				zap.String("message_id", msg.ID.String()))
		} else {
			msg.ReferencedMessage = referenced
		}
	}

	lines, err := b.engine.ScanMessage(ctx, toMessage(msg))
	if err != nil {
		b.logger.Error("Failed to scan message",
			zap.Error(err),
			zap.String("message_id", msg.ID.String()))
	}

	b.reply(ctx, b.modChannelID, lines)
}

// reply sends lines to a channel, packed into as few messages as possible.
func (b *Bot) reply(ctx context.Context, channelID snowflake.ID, lines []string) {
	for _, chunk := range packLines(lines, maxMessageLength) {
		if err := b.platform.Send(ctx, channelID, chunk); err != nil {
			b.logger.Error("Failed to send reply",
				zap.Error(err),
				zap.String("channel_id", channelID.String()))
			return
		}
	}
}
