package bot

import (
	"fmt"
	"strings"

	"github.com/bwmarrin/discordgo"

	"poketally/bot/common"
	"poketally/models"
	"poketally/service"
)

const (
	colorPrimary = 0x5865F2
	colorSuccess = 0x57F287
	colorWarning = 0xFEE75C
)

func buildHelpEmbed(prefix string) *discordgo.MessageEmbed {
	return &discordgo.MessageEmbed{
		Title: "Poketally Commands",
		Color: colorPrimary,
		Fields: []*discordgo.MessageEmbedField{
			{
				Name: "Everyone",
				Value: strings.Join([]string{
					fmt.Sprintf("`%shelp` — this message", prefix),
					fmt.Sprintf("`%sprofile` — your stats and balance", prefix),
					fmt.Sprintf("`%scatches` — your catch summary", prefix),
					fmt.Sprintf("`%sleaderboard messages|catches` — top 10 (alias `%slb`)", prefix, prefix),
					fmt.Sprintf("`%swithdraw <amount>` — redeem pokecoins", prefix),
				}, "\n"),
			},
			{
				Name: "Admin",
				Value: strings.Join([]string{
					fmt.Sprintf("`%sevent <messages|catches> <on|off>`", prefix),
					fmt.Sprintf("`%srate <messagesPerReward> <coinAmount>`", prefix),
					fmt.Sprintf("`%sreset <messages|catches|all> <userId|all>`", prefix),
					fmt.Sprintf("`%sresetbal <userId> <amount>`", prefix),
					fmt.Sprintf("`%ssetproofs <channel>` / `%ssetwithdrawal <channel>`", prefix, prefix),
					fmt.Sprintf("`%saddcounting <channel>` / `%sremovecounting <channel>`", prefix, prefix),
					fmt.Sprintf("`%schannels` — show channel configuration", prefix),
				}, "\n"),
			},
		},
	}
}

func buildProfileEmbed(profile *service.ProfileStats) *discordgo.MessageEmbed {
	user := profile.User
	return &discordgo.MessageEmbed{
		Title: fmt.Sprintf("Profile — %s", user.Username),
		Color: colorPrimary,
		Fields: []*discordgo.MessageEmbedField{
			{Name: "Messages", Value: fmt.Sprintf("%s (rank %d of %d)", common.FormatBalance(user.Messages), profile.MessageRank, profile.TotalUsers), Inline: true},
			{Name: "Catches", Value: fmt.Sprintf("%s (rank %d of %d)", common.FormatBalance(user.Catches), profile.CatchRank, profile.TotalUsers), Inline: true},
			{Name: "Balance", Value: fmt.Sprintf("%s pokecoins", common.FormatBalance(user.Balance)), Inline: true},
		},
		Footer: &discordgo.MessageEmbedFooter{
			Text: fmt.Sprintf("Tracked since %s", user.CreatedAt.Format("Jan 2, 2006")),
		},
	}
}

func buildCatchesEmbed(summary *service.CatchSummary) *discordgo.MessageEmbed {
	user := summary.User
	return &discordgo.MessageEmbed{
		Title: fmt.Sprintf("Catches — %s", user.Username),
		Color: colorPrimary,
		Fields: []*discordgo.MessageEmbedField{
			{Name: "🎯 Total", Value: common.FormatBalance(user.Catches), Inline: true},
			{Name: "✨ Shiny", Value: common.FormatBalance(user.ShinyCatches), Inline: true},
			{Name: "💎 Rare shiny", Value: common.FormatBalance(user.RareShinyCatches), Inline: true},
			{Name: "Server rank", Value: fmt.Sprintf("%d of %d", summary.Rank, summary.TotalUsers), Inline: true},
			{Name: "Server total", Value: common.FormatBalance(summary.ServerTotal), Inline: true},
		},
	}
}

func buildLeaderboardEmbed(board *service.Leaderboard) *discordgo.MessageEmbed {
	title := "Leaderboard — Messages"
	unit := "messages"
	if board.Kind == service.LeaderboardCatches {
		title = "Leaderboard — Catches"
		unit = "catches"
	}

	var rows []string
	for i, entry := range board.Entries {
		rows = append(rows, fmt.Sprintf("%s <@%d> — **%s** %s",
			medal(i+1), entry.UserID, common.FormatBalance(entry.Count), unit))
	}
	if len(rows) == 0 {
		rows = append(rows, "No activity yet.")
	}

	return &discordgo.MessageEmbed{
		Title:       title,
		Color:       colorPrimary,
		Description: strings.Join(rows, "\n"),
		Footer: &discordgo.MessageEmbedFooter{
			Text: fmt.Sprintf("%s %s across %d active users", common.FormatBalance(board.Total), unit, board.ActiveUsers),
		},
	}
}

func buildChannelsEmbed(settings *models.BotSettings) *discordgo.MessageEmbed {
	formatChannel := func(id int64) string {
		if id == 0 {
			return "not set"
		}
		return fmt.Sprintf("<#%d>", id)
	}

	counting := "none"
	if len(settings.CountingChannels) > 0 {
		var mentions []string
		for _, id := range settings.CountingChannels {
			mentions = append(mentions, fmt.Sprintf("<#%d>", id))
		}
		counting = strings.Join(mentions, " ")
	}

	onOff := func(active bool) string {
		if active {
			return "on"
		}
		return "off"
	}

	return &discordgo.MessageEmbed{
		Title: "Channel configuration",
		Color: colorPrimary,
		Fields: []*discordgo.MessageEmbedField{
			{Name: "Counting channels", Value: counting},
			{Name: "Proofs channel", Value: formatChannel(settings.ProofsChannelID), Inline: true},
			{Name: "Withdrawal channel", Value: formatChannel(settings.WithdrawalChannelID), Inline: true},
			{Name: "Message event", Value: onOff(settings.MessageEventActive), Inline: true},
			{Name: "Catch event", Value: onOff(settings.CatchEventActive), Inline: true},
			{Name: "Reward", Value: fmt.Sprintf("%s pokecoins per %d messages", common.FormatBalance(settings.PokecoinRate), settings.MessagesPerReward), Inline: true},
		},
	}
}

// buildWithdrawalPrompt is the reply to a withdraw command: the quote plus
// the confirm button that opens the market-id modal.
func buildWithdrawalPrompt(userID int64, quote *service.WithdrawalQuote, ttlFooter string) (*discordgo.MessageEmbed, []discordgo.MessageComponent) {
	embed := &discordgo.MessageEmbed{
		Title: "Withdrawal request",
		Color: colorWarning,
		Description: fmt.Sprintf("Withdrawing **%s** of your **%s** pokecoins.\nPress the button to enter your market ID.",
			common.FormatBalance(quote.Amount), common.FormatBalance(quote.Balance)),
		Footer: &discordgo.MessageEmbedFooter{Text: ttlFooter},
	}

	components := []discordgo.MessageComponent{
		discordgo.ActionsRow{
			Components: []discordgo.MessageComponent{
				discordgo.Button{
					Label:    "Enter market ID",
					Style:    discordgo.PrimaryButton,
					CustomID: fmt.Sprintf("withdraw_confirm_%d", userID),
				},
			},
		},
	}

	return embed, components
}

func buildWithdrawalLoggedEmbed(request *models.WithdrawalRequest) *discordgo.MessageEmbed {
	return &discordgo.MessageEmbed{
		Title: fmt.Sprintf("Withdrawal request #%d", request.RequestNumber),
		Color: colorWarning,
		Fields: []*discordgo.MessageEmbedField{
			{Name: "User", Value: fmt.Sprintf("<@%d>", request.UserID), Inline: true},
			{Name: "Amount", Value: fmt.Sprintf("%s pokecoins", common.FormatBalance(request.Amount)), Inline: true},
			{Name: "Market ID", Value: request.MarketID, Inline: true},
			{Name: "Requested", Value: common.FormatDiscordTimestamp(request.Timestamp, "f"), Inline: true},
		},
	}
}

func buildPaymentProofEmbed(result *service.CompletionResult) *discordgo.MessageEmbed {
	request := result.Request
	return &discordgo.MessageEmbed{
		Title: fmt.Sprintf("Payment proof — request #%d", request.RequestNumber),
		Color: colorSuccess,
		Fields: []*discordgo.MessageEmbedField{
			{Name: "User", Value: fmt.Sprintf("<@%d>", request.UserID), Inline: true},
			{Name: "Amount", Value: fmt.Sprintf("%s pokecoins", common.FormatBalance(request.Amount)), Inline: true},
			{Name: "Market ID", Value: request.MarketID, Inline: true},
			{Name: "New balance", Value: common.FormatBalance(result.NewBalance), Inline: true},
		},
	}
}
