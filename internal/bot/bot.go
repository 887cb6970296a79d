package bot

import (
	"context"
	"fmt"
	"time"

	"github.com/disgoorg/disgo"
	"github.com/disgoorg/disgo/bot"
	"github.com/disgoorg/disgo/events"
	"github.com/disgoorg/disgo/gateway"
	"github.com/disgoorg/snowflake/v2"
	"github.com/havenmod/haven/internal/eval"
	"github.com/havenmod/haven/internal/moderation"
	"github.com/havenmod/haven/internal/setup/config"
	"go.uber.org/zap"
)

// defaultTurnTimeout bounds a dialogue turn when no request timeout is configured.
const defaultTurnTimeout = 2 * time.Minute

// Bot routes Discord messages into the moderation engine.
type Bot struct {
	client       bot.Client
	engine       *moderation.Engine
	evaluator    *eval.Evaluator
	platform     *Platform
	turns        *serialQueue
	evalCfg      config.Eval
	modChannelID snowflake.ID
	monitored    map[snowflake.ID]struct{}
	turnTimeout  time.Duration
	logger       *zap.Logger
}

// New creates the Discord client and wires the moderation engine to it.
func New(
	cfg *config.Config,
	classifier moderation.Classifier,
	offenses moderation.OffenseLedger,
	turnTimeout time.Duration,
	logger *zap.Logger,
) (*Bot, error) {
	if turnTimeout <= 0 {
		turnTimeout = defaultTurnTimeout
	}

	b := &Bot{
		evalCfg:      cfg.Common.Eval,
		modChannelID: snowflake.ID(cfg.Bot.Discord.ModChannelID),
		monitored:    make(map[snowflake.ID]struct{}, len(cfg.Bot.Discord.MonitoredChannelIDs)),
		turns:        newSerialQueue(),
		turnTimeout:  turnTimeout,
		logger:       logger.Named("bot"),
	}

	for _, id := range cfg.Bot.Discord.MonitoredChannelIDs {
		b.monitored[snowflake.ID(id)] = struct{}{}
	}

	client, err := disgo.New(cfg.Bot.Discord.Token,
		bot.WithGatewayConfigOpts(
			gateway.WithIntents(
				gateway.IntentGuilds,
				gateway.IntentGuildMessages,
				gateway.IntentDirectMessages,
				gateway.IntentMessageContent,
			),
		),
		bot.WithEventListeners(&events.ListenerAdapter{
			OnMessageCreate: b.handleMessageCreate,
		}),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create discord client: %w", err)
	}

	b.client = client
	b.platform = NewPlatform(client.Rest(), b.logger)
	b.engine = moderation.NewEngine(moderation.Config{
		Registry:     moderation.NewRegistry(),
		Resolver:     b.platform,
		Notifier:     b.platform,
		Classifier:   classifier,
		Ledger:       offenses,
		ModChannelID: b.modChannelID.String(),
	}, logger)
	b.evaluator = eval.New(classifier, logger)

	return b, nil
}

// Start opens the gateway connection.
func (b *Bot) Start(ctx context.Context) error {
	b.logger.Info("Starting bot",
		zap.String("mod_channel", b.modChannelID.String()),
		zap.Int("monitored_channels", len(b.monitored)))

	if err := b.client.OpenGateway(ctx); err != nil {
		return fmt.Errorf("failed to open gateway: %w", err)
	}

	return nil
}

// Close shuts down the gateway connection.
func (b *Bot) Close(ctx context.Context) {
	b.logger.Info("Closing bot")
	b.client.Close(ctx)
}
