package moderation

import (
	"strconv"
	"strings"
)

// LocatorReason explains why a message link could not be parsed.
type LocatorReason int

const (
	LocatorOK LocatorReason = iota
	// LocatorMissing means no /guild/channel/message triple was found.
	LocatorMissing
	// LocatorOutOfRange means an identifier does not fit in 64 bits.
	LocatorOutOfRange
)

// Locator identifies a message by its guild, channel and message IDs.
type Locator struct {
	GuildID   uint64
	ChannelID uint64
	MessageID uint64
}

// ParseLocator extracts the first "/<guild>/<channel>/<message>" triple of
// numeric segments from a message link.
func ParseLocator(input string) (Locator, LocatorReason) {
	input = strings.TrimSpace(input)
	if i := strings.IndexAny(input, "?#"); i >= 0 {
		input = input[:i]
	}

	segments := strings.Split(input, "/")

	// The first segment is never preceded by a slash.
	for i := 1; i+2 < len(segments); i++ {
		if !isDigits(segments[i]) || !isDigits(segments[i+1]) || !isDigits(segments[i+2]) {
			continue
		}

		ids := [3]uint64{}
		for j := range ids {
			id, err := strconv.ParseUint(segments[i+j], 10, 64)
			if err != nil {
				return Locator{}, LocatorOutOfRange
			}
			ids[j] = id
		}

		return Locator{GuildID: ids[0], ChannelID: ids[1], MessageID: ids[2]}, LocatorOK
	}

	return Locator{}, LocatorMissing
}

func isDigits(s string) bool {
	if s == "" {
		return false
	}

	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}

	return true
}
