package models

// CatchTier grades a recognized catch announcement.
// Rare shiny strictly dominates shiny, which dominates normal.
type CatchTier string

const (
	CatchTierNormal    CatchTier = "normal"
	CatchTierShiny     CatchTier = "shiny"
	CatchTierRareShiny CatchTier = "rare_shiny"
)
