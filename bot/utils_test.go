package bot

import (
	"testing"

	"github.com/bwmarrin/discordgo"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"poketally/models"
)

func TestNormalizeChannelArg(t *testing.T) {
	tests := []struct {
		arg     string
		want    int64
		wantErr bool
	}{
		{"123456789", 123456789, false},
		{"<#123456789>", 123456789, false},
		{" <#42> ", 42, false},
		{"not-a-channel", 0, true},
		{"<#>", 0, true},
	}

	for _, tt := range tests {
		got, err := normalizeChannelArg(tt.arg)
		if tt.wantErr {
			assert.Error(t, err, "arg %q", tt.arg)
			continue
		}
		require.NoError(t, err, "arg %q", tt.arg)
		assert.Equal(t, tt.want, got)
	}
}

func TestNormalizeUserArg(t *testing.T) {
	tests := []struct {
		arg  string
		want int64
	}{
		{"100", 100},
		{"<@100>", 100},
		{"<@!100>", 100},
	}

	for _, tt := range tests {
		got, err := normalizeUserArg(tt.arg)
		require.NoError(t, err, "arg %q", tt.arg)
		assert.Equal(t, tt.want, got)
	}

	_, err := normalizeUserArg("<@abc>")
	assert.Error(t, err)
}

func TestToInboundMessage(t *testing.T) {
	m := &discordgo.MessageCreate{
		Message: &discordgo.Message{
			ID:        "1",
			ChannelID: "555",
			Content:   "Congratulations!",
			Author:    &discordgo.User{ID: "716390085896962058", Username: "Poketwo", Bot: true},
			Mentions:  []*discordgo.User{{ID: "100", Username: "ash", Discriminator: "0001"}},
			Embeds: []*discordgo.MessageEmbed{
				{Title: "Catch", Description: "You caught a Pidgey!"},
			},
		},
	}

	msg, err := toInboundMessage(m)
	require.NoError(t, err)

	assert.Equal(t, int64(716390085896962058), msg.AuthorID)
	assert.True(t, msg.IsBot)
	assert.Equal(t, int64(555), msg.ChannelID)
	require.Len(t, msg.Mentions, 1)
	assert.Equal(t, int64(100), msg.Mentions[0].ID)
	assert.Equal(t, "Catch You caught a Pidgey!", msg.EmbedText)
}

func TestTierEmoji(t *testing.T) {
	assert.Equal(t, "🎯", tierEmoji(models.CatchTierNormal))
	assert.Equal(t, "✨", tierEmoji(models.CatchTierShiny))
	assert.Equal(t, "💎", tierEmoji(models.CatchTierRareShiny))
}

func TestMedal(t *testing.T) {
	assert.Equal(t, "🥇", medal(1))
	assert.Equal(t, "🥈", medal(2))
	assert.Equal(t, "🥉", medal(3))
	assert.Equal(t, "4.", medal(4))
}
