package bot

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/bwmarrin/discordgo"

	"poketally/models"
	"poketally/service"
)

// parseSnowflake converts a Discord string id to int64.
func parseSnowflake(id string) (int64, error) {
	n, err := strconv.ParseInt(id, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("%w: invalid id %q", service.ErrValidation, id)
	}
	return n, nil
}

// normalizeChannelArg accepts a raw channel id or a <#id> mention and
// returns the numeric id.
func normalizeChannelArg(arg string) (int64, error) {
	arg = strings.TrimSpace(arg)
	if strings.HasPrefix(arg, "<#") && strings.HasSuffix(arg, ">") {
		arg = arg[2 : len(arg)-1]
	}
	return parseSnowflake(arg)
}

// normalizeUserArg accepts a raw user id or a <@id>/<@!id> mention and
// returns the numeric id.
func normalizeUserArg(arg string) (int64, error) {
	arg = strings.TrimSpace(arg)
	if strings.HasPrefix(arg, "<@") && strings.HasSuffix(arg, ">") {
		arg = strings.TrimPrefix(arg[2:len(arg)-1], "!")
	}
	return parseSnowflake(arg)
}

// toInboundMessage normalizes a gateway message into the shape the core
// services consume. Embed descriptions and titles are folded into EmbedText
// because catch announcements carry their text either way.
func toInboundMessage(m *discordgo.MessageCreate) (service.InboundMessage, error) {
	authorID, err := parseSnowflake(m.Author.ID)
	if err != nil {
		return service.InboundMessage{}, err
	}
	channelID, err := parseSnowflake(m.ChannelID)
	if err != nil {
		return service.InboundMessage{}, err
	}

	msg := service.InboundMessage{
		AuthorID:            authorID,
		AuthorUsername:      m.Author.Username,
		AuthorDiscriminator: m.Author.Discriminator,
		IsBot:               m.Author.Bot,
		Content:             m.Content,
		ChannelID:           channelID,
	}

	for _, mention := range m.Mentions {
		id, err := parseSnowflake(mention.ID)
		if err != nil {
			continue
		}
		msg.Mentions = append(msg.Mentions, service.Mention{
			ID:            id,
			Username:      mention.Username,
			Discriminator: mention.Discriminator,
		})
	}

	var embedText strings.Builder
	for _, embed := range m.Embeds {
		if embed.Title != "" {
			embedText.WriteString(embed.Title)
			embedText.WriteString(" ")
		}
		if embed.Description != "" {
			embedText.WriteString(embed.Description)
			embedText.WriteString(" ")
		}
	}
	msg.EmbedText = strings.TrimSpace(embedText.String())

	return msg, nil
}

// tierEmoji maps a catch tier to its acknowledgement reaction.
func tierEmoji(tier models.CatchTier) string {
	switch tier {
	case models.CatchTierRareShiny:
		return "💎"
	case models.CatchTierShiny:
		return "✨"
	default:
		return "🎯"
	}
}

// medal decorates a leaderboard position.
func medal(position int) string {
	switch position {
	case 1:
		return "🥇"
	case 2:
		return "🥈"
	case 3:
		return "🥉"
	default:
		return fmt.Sprintf("%d.", position)
	}
}
