package moderation

import (
	"context"
	"errors"

	"github.com/havenmod/haven/internal/ai"
	"github.com/havenmod/haven/internal/ledger"
)

var (
	// ErrGuildNotFound is returned when the bot is not a member of the guild.
	ErrGuildNotFound = errors.New("guild not found")
	// ErrChannelNotFound is returned when the channel does not exist in the guild.
	ErrChannelNotFound = errors.New("channel not found")
	// ErrMessageNotFound is returned when the message does not exist in the channel.
	ErrMessageNotFound = errors.New("message not found")
)

// User identifies a platform account.
type User struct {
	ID   string
	Name string
}

// Message is a platform message as seen by the moderation flows.
type Message struct {
	ID        string
	GuildID   string
	ChannelID string
	Author    User
	Content   string
	ImageURLs []string
	// ReferencedAuthor and ReferencedImageURLs describe the message this one replies to.
	ReferencedAuthor    *User
	ReferencedImageURLs []string
}

// ClassificationRequest returns the message as classifier input.
func (m *Message) ClassificationRequest() ai.Request {
	return ai.Request{
		Text:             m.Content,
		PrimaryImages:    m.ImageURLs,
		ReferencedImages: m.ReferencedImageURLs,
	}
}

// Resolver looks up messages referenced by a report.
type Resolver interface {
	ResolveMessage(ctx context.Context, loc Locator) (*Message, error)
}

// Notifier delivers text outside of the current conversation.
type Notifier interface {
	SendToUser(ctx context.Context, userID, text string) error
	SendToChannel(ctx context.Context, channelID, text string) error
}

// Classifier is the content classification service.
type Classifier interface {
	Classify(ctx context.Context, req ai.Request) (*ai.Result, error)
	Explain(ctx context.Context, req ai.Request) (string, error)
	SuggestResources(ctx context.Context, report []ai.ReportField) (string, error)
}

// OffenseLedger records adjudicated offenses.
type OffenseLedger interface {
	// Record increments the counter and returns the count before the increment.
	Record(ctx context.Context, kind ledger.Kind, userID string) (int64, error)
	// Count returns the current counter without changing it.
	Count(ctx context.Context, kind ledger.Kind, userID string) (int64, error)
}
