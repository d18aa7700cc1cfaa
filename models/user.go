package models

import (
	"time"
)

// User represents a Discord user tracked by the bot.
// Counter invariant: RareShinyCatches <= ShinyCatches <= Catches.
type User struct {
	DiscordID        int64     `db:"discord_id"`
	Username         string    `db:"username"`
	Discriminator    string    `db:"discriminator"`
	Messages         int64     `db:"messages"`
	Catches          int64     `db:"catches"`
	ShinyCatches     int64     `db:"shiny_catches"`
	RareShinyCatches int64     `db:"rare_shiny_catches"`
	Balance          int64     `db:"balance"` // pokecoins, never negative
	CreatedAt        time.Time `db:"created_at"`
	UpdatedAt        time.Time `db:"updated_at"`
}
