package service

import (
	"testing"

	"poketally/models"

	"github.com/stretchr/testify/assert"
)

func TestGradeCatch_NormalCatch(t *testing.T) {
	tier, ok := GradeCatch("Congratulations <@100>! You caught a Level 12 Pidgey!", "")

	assert.True(t, ok)
	assert.Equal(t, models.CatchTierNormal, tier)
}

func TestGradeCatch_ShinyCatch(t *testing.T) {
	tier, ok := GradeCatch("Congratulations <@100>! You caught a Level 30 ✨ Eevee!", "")

	assert.True(t, ok)
	assert.Equal(t, models.CatchTierShiny, tier)
}

func TestGradeCatch_RareShinyCatch(t *testing.T) {
	tier, ok := GradeCatch(
		"Congratulations <@100>! You caught a Level 45 ✨ Charizard! These colors seem unusual...",
		"",
	)

	assert.True(t, ok)
	assert.Equal(t, models.CatchTierRareShiny, tier)
}

func TestGradeCatch_CaughtPhraseInEmbed(t *testing.T) {
	tier, ok := GradeCatch("Congratulations <@100>!", "You caught a Level 8 Magikarp!")

	assert.True(t, ok)
	assert.Equal(t, models.CatchTierNormal, tier)
}

func TestGradeCatch_RarityPhraseInEmbed(t *testing.T) {
	tier, ok := GradeCatch(
		"Congratulations <@100>! You caught a ✨ Umbreon!",
		"These colors seem unusual... maybe it's special?",
	)

	assert.True(t, ok)
	assert.Equal(t, models.CatchTierRareShiny, tier)
}

func TestGradeCatch_RarityPhraseWithoutShinyMarkerIsNormal(t *testing.T) {
	// The rarity phrase only upgrades a shiny; on its own it means nothing.
	tier, ok := GradeCatch(
		"Congratulations <@100>! You caught a Ditto! These colors seem unusual...",
		"",
	)

	assert.True(t, ok)
	assert.Equal(t, models.CatchTierNormal, tier)
}

func TestGradeCatch_MissingCongratulations(t *testing.T) {
	_, ok := GradeCatch("You caught a Level 12 Pidgey!", "")

	assert.False(t, ok)
}

func TestGradeCatch_MissingCaught(t *testing.T) {
	_, ok := GradeCatch("Congratulations <@100>! What a throw!", "")

	assert.False(t, ok)
}

func TestGradeCatch_EventKeywordsExcluded(t *testing.T) {
	for _, content := range []string{
		"Congratulations! You caught a bonus Pikachu!",
		"Congratulations! You caught an event exclusive!",
		"Congratulations! You caught a halloween Gastly!",
		"Congratulations! You caught a gift Togepi!",
	} {
		_, ok := GradeCatch(content, "")
		assert.False(t, ok, "expected %q to be excluded", content)
	}
}

func TestGradeCatch_EventKeywordInEmbedExcluded(t *testing.T) {
	_, ok := GradeCatch(
		"Congratulations <@100>! You caught a Pikachu!",
		"This was a Halloween event reward.",
	)

	assert.False(t, ok)
}

func TestGradeCatch_CaseInsensitive(t *testing.T) {
	tier, ok := GradeCatch("CONGRATULATIONS <@100>! You CAUGHT a Rattata!", "")

	assert.True(t, ok)
	assert.Equal(t, models.CatchTierNormal, tier)
}
