package common

import (
	"fmt"
	"strings"
	"time"
)

// FormatBalance formats a pokecoin amount with thousand separators
func FormatBalance(balance int64) string {
	str := fmt.Sprintf("%d", balance)

	n := len(str)
	if n <= 3 {
		return str
	}

	var result strings.Builder
	for i, digit := range str {
		if i > 0 && (n-i)%3 == 0 {
			result.WriteRune(',')
		}
		result.WriteRune(digit)
	}

	return result.String()
}

// FormatDiscordTimestamp formats a time as a Discord timestamp that displays in user's local timezone
// Format types: "t" = short time, "T" = long time, "d" = short date, "D" = long date,
// "f" = short date/time, "F" = long date/time, "R" = relative time
func FormatDiscordTimestamp(t time.Time, format string) string {
	return fmt.Sprintf("<t:%d:%s>", t.Unix(), format)
}

// FormatReward formats the reward acknowledgement line
func FormatReward(amount, newBalance int64) string {
	return fmt.Sprintf("🪙 **+%s pokecoins!** New balance: **%s**",
		FormatBalance(amount), FormatBalance(newBalance))
}
