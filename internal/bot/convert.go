package bot

import (
	"strings"
	"unicode/utf8"

	"github.com/disgoorg/disgo/discord"
	"github.com/havenmod/haven/internal/moderation"
	"github.com/havenmod/haven/pkg/utils"
)

// maxMessageLength is Discord's content limit in characters per message.
const maxMessageLength = 2000

func toUser(u discord.User) moderation.User {
	return moderation.User{ID: u.ID.String(), Name: u.Username}
}

// toMessage converts a Discord message, keeping only image attachments.
func toMessage(m discord.Message) *moderation.Message {
	msg := &moderation.Message{
		ID:        m.ID.String(),
		ChannelID: m.ChannelID.String(),
		Author:    toUser(m.Author),
		Content:   m.Content,
		ImageURLs: imageURLs(m.Attachments),
	}

	if m.GuildID != nil {
		msg.GuildID = m.GuildID.String()
	}

	if ref := m.ReferencedMessage; ref != nil {
		author := toUser(ref.Author)
		msg.ReferencedAuthor = &author
		msg.ReferencedImageURLs = imageURLs(ref.Attachments)
	}

	return msg
}

func imageURLs(attachments []discord.Attachment) []string {
	var urls []string
	for _, a := range attachments {
		if a.ContentType != nil && strings.HasPrefix(*a.ContentType, "image/") {
			urls = append(urls, a.URL)
		}
	}
	return urls
}

// packLines joins reply lines into messages of at most limit characters.
// A single line longer than limit is truncated.
func packLines(lines []string, limit int) []string {
	var (
		chunks  []string
		current strings.Builder
		length  int
	)

	for _, line := range lines {
		if line == "" {
			continue
		}

		line = utils.Truncate(line, limit)
		lineLength := utf8.RuneCountInString(line)

		if length > 0 && length+1+lineLength > limit {
			chunks = append(chunks, current.String())
			current.Reset()
			length = 0
		}

		if length > 0 {
			current.WriteByte('\n')
			length++
		}
		current.WriteString(line)
		length += lineLength
	}

	if current.Len() > 0 {
		chunks = append(chunks, current.String())
	}

	return chunks
}
