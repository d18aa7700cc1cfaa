package service

import (
	"strings"

	"poketally/models"
)

const (
	shinyMarker  = "✨"
	rarityPhrase = "these colors seem unusual"
)

// eventKeywords mark promotional giveaway messages that look like catches
// but must not be counted.
var eventKeywords = []string{"bonus", "event", "halloween", "gift"}

// GradeCatch inspects a catch-source message and reports whether it is a
// real catch announcement and, if so, its tier. content is matched for the
// congratulatory phrase on its own; the "caught" phrase may appear in either
// the content or the attached embed description.
func GradeCatch(content, embedText string) (models.CatchTier, bool) {
	hasCongrats := strings.Contains(strings.ToLower(content), "congratulations")
	fullText := strings.ToLower(content + " " + embedText)
	hasCaught := strings.Contains(fullText, "caught")

	if !hasCongrats || !hasCaught {
		return "", false
	}

	for _, keyword := range eventKeywords {
		if strings.Contains(fullText, keyword) {
			return "", false
		}
	}

	hasShiny := strings.Contains(fullText, shinyMarker)
	hasRarity := strings.Contains(fullText, rarityPhrase)

	switch {
	case hasShiny && hasRarity:
		return models.CatchTierRareShiny, true
	case hasShiny:
		return models.CatchTierShiny, true
	default:
		return models.CatchTierNormal, true
	}
}
