package bot

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"

	log "github.com/sirupsen/logrus"

	"github.com/bwmarrin/discordgo"

	"poketally/bot/common"
	"poketally/service"
)

// command describes one entry in the dispatch registry.
type command struct {
	name      string
	adminOnly bool
	minArgs   int
	usage     string
	handler   func(ctx context.Context, s *discordgo.Session, m *discordgo.MessageCreate, msg service.InboundMessage, args []string) error
}

func (b *Bot) buildCommandRegistry() map[string]*command {
	commands := []*command{
		{name: "help", handler: b.handleHelp},
		{name: "profile", handler: b.handleProfile},
		{name: "catches", handler: b.handleCatches},
		{name: "leaderboard", handler: b.handleLeaderboard},
		{name: "withdraw", minArgs: 1, usage: "withdraw <amount>", handler: b.handleWithdraw},
		{name: "event", adminOnly: true, minArgs: 2, usage: "event <messages|catches> <on|off>", handler: b.handleEvent},
		{name: "rate", adminOnly: true, minArgs: 2, usage: "rate <messagesPerReward> <coinAmount>", handler: b.handleRate},
		{name: "reset", adminOnly: true, minArgs: 2, usage: "reset <messages|catches|all> <userId|all>", handler: b.handleReset},
		{name: "resetbal", adminOnly: true, minArgs: 2, usage: "resetbal <userId> <amount>", handler: b.handleResetBal},
		{name: "setproofs", adminOnly: true, minArgs: 1, usage: "setproofs <channel>", handler: b.handleSetProofs},
		{name: "setwithdrawal", adminOnly: true, minArgs: 1, usage: "setwithdrawal <channel>", handler: b.handleSetWithdrawal},
		{name: "addcounting", adminOnly: true, minArgs: 1, usage: "addcounting <channel>", handler: b.handleAddCounting},
		{name: "removecounting", adminOnly: true, minArgs: 1, usage: "removecounting <channel>", handler: b.handleRemoveCounting},
		{name: "channels", adminOnly: true, handler: b.handleChannels},
	}

	registry := make(map[string]*command, len(commands)+1)
	for _, cmd := range commands {
		registry[cmd.name] = cmd
	}
	registry["lb"] = registry["leaderboard"]

	return registry
}

// dispatchCommand parses the prefixed message and runs the matching
// registry entry. Unknown commands are ignored silently.
func (b *Bot) dispatchCommand(ctx context.Context, s *discordgo.Session, m *discordgo.MessageCreate, msg service.InboundMessage) {
	fields := strings.Fields(strings.TrimPrefix(msg.Content, b.config.CommandPrefix))
	if len(fields) == 0 {
		return
	}

	cmd, ok := b.commands[strings.ToLower(fields[0])]
	if !ok {
		return
	}
	args := fields[1:]

	if cmd.adminOnly && msg.AuthorID != b.config.AdminUserID {
		b.replyError(s, m, cmd, service.ErrPermissionDenied)
		return
	}
	if len(args) < cmd.minArgs {
		b.reply(s, m, fmt.Sprintf("Usage: `%s%s`", b.config.CommandPrefix, cmd.usage))
		return
	}

	if err := cmd.handler(ctx, s, m, msg, args); err != nil {
		b.replyError(s, m, cmd, err)
	}
}

// replyError translates service errors into short user replies. Anything
// unexpected is logged and acknowledged generically.
func (b *Bot) replyError(s *discordgo.Session, m *discordgo.MessageCreate, cmd *command, err error) {
	message, known := errorReply(b.config.CommandPrefix, cmd, err)
	if !known {
		log.WithError(err).WithField("command", cmd.name).Error("Command failed")
	}
	b.reply(s, m, message)
}

// errorReply maps a service error to its user-facing line. The second
// return reports whether the error was one of the known sentinels.
func errorReply(prefix string, cmd *command, err error) (string, bool) {
	switch {
	case errors.Is(err, service.ErrPermissionDenied):
		return "You don't have permission to use this command.", true
	case errors.Is(err, service.ErrValidation):
		if cmd.usage != "" {
			return fmt.Sprintf("Invalid arguments. Usage: `%s%s`", prefix, cmd.usage), true
		}
		return "Invalid arguments.", true
	case errors.Is(err, service.ErrInsufficientBalance):
		return "You don't have enough pokecoins for that.", true
	case errors.Is(err, service.ErrNotFound):
		return "No such user or request.", true
	case errors.Is(err, service.ErrChannelUnavailable):
		return "That channel doesn't exist or isn't a text channel.", true
	}
	return "Something went wrong. Please try again.", false
}

func (b *Bot) handleHelp(ctx context.Context, s *discordgo.Session, m *discordgo.MessageCreate, msg service.InboundMessage, args []string) error {
	_, err := s.ChannelMessageSendEmbed(m.ChannelID, buildHelpEmbed(b.config.CommandPrefix))
	return err
}

func (b *Bot) handleProfile(ctx context.Context, s *discordgo.Session, m *discordgo.MessageCreate, msg service.InboundMessage, args []string) error {
	profile, err := b.statsService.GetProfile(ctx, msg)
	if err != nil {
		return err
	}
	_, err = s.ChannelMessageSendEmbed(m.ChannelID, buildProfileEmbed(profile))
	return err
}

func (b *Bot) handleCatches(ctx context.Context, s *discordgo.Session, m *discordgo.MessageCreate, msg service.InboundMessage, args []string) error {
	summary, err := b.statsService.GetCatchSummary(ctx, msg)
	if err != nil {
		return err
	}
	_, err = s.ChannelMessageSendEmbed(m.ChannelID, buildCatchesEmbed(summary))
	return err
}

func (b *Bot) handleLeaderboard(ctx context.Context, s *discordgo.Session, m *discordgo.MessageCreate, msg service.InboundMessage, args []string) error {
	kind := service.LeaderboardMessages
	if len(args) > 0 && strings.EqualFold(args[0], "catches") {
		kind = service.LeaderboardCatches
	}

	board, err := b.statsService.GetLeaderboard(ctx, kind, 10)
	if err != nil {
		return err
	}
	_, err = s.ChannelMessageSendEmbed(m.ChannelID, buildLeaderboardEmbed(board))
	return err
}

func (b *Bot) handleWithdraw(ctx context.Context, s *discordgo.Session, m *discordgo.MessageCreate, msg service.InboundMessage, args []string) error {
	amount, err := strconv.ParseInt(args[0], 10, 64)
	if err != nil {
		return fmt.Errorf("%w: amount must be numeric", service.ErrValidation)
	}

	quote, err := b.withdrawalService.Request(ctx, msg, amount)
	if err != nil {
		return err
	}

	ttlFooter := fmt.Sprintf("This request expires in %s.", b.config.PendingWithdrawalTTL)
	embed, components := buildWithdrawalPrompt(msg.AuthorID, quote, ttlFooter)
	_, err = s.ChannelMessageSendComplex(m.ChannelID, &discordgo.MessageSend{
		Embeds:     []*discordgo.MessageEmbed{embed},
		Components: components,
		Reference:  m.Reference(),
	})
	return err
}

func (b *Bot) handleEvent(ctx context.Context, s *discordgo.Session, m *discordgo.MessageCreate, msg service.InboundMessage, args []string) error {
	var event string
	switch strings.ToLower(args[0]) {
	case "messages", "message":
		event = "message"
	case "catches", "catch":
		event = "catch"
	default:
		return fmt.Errorf("%w: unknown event %q", service.ErrValidation, args[0])
	}

	var active bool
	switch strings.ToLower(args[1]) {
	case "on":
		active = true
	case "off":
		active = false
	default:
		return fmt.Errorf("%w: expected on or off", service.ErrValidation)
	}

	if err := b.settingsService.SetEventActive(ctx, event, active); err != nil {
		return err
	}

	b.reply(s, m, fmt.Sprintf("The %s event is now %s.", strings.ToLower(args[0]), args[1]))
	return nil
}

func (b *Bot) handleRate(ctx context.Context, s *discordgo.Session, m *discordgo.MessageCreate, msg service.InboundMessage, args []string) error {
	messagesPerReward, err := strconv.ParseInt(args[0], 10, 64)
	if err != nil {
		return fmt.Errorf("%w: messages per reward must be numeric", service.ErrValidation)
	}
	pokecoinRate, err := strconv.ParseInt(args[1], 10, 64)
	if err != nil {
		return fmt.Errorf("%w: coin amount must be numeric", service.ErrValidation)
	}

	if err := b.settingsService.SetRewardRate(ctx, messagesPerReward, pokecoinRate); err != nil {
		return err
	}

	b.reply(s, m, fmt.Sprintf("Reward rate set: %s pokecoins per %d messages.",
		common.FormatBalance(pokecoinRate), messagesPerReward))
	return nil
}

func (b *Bot) handleReset(ctx context.Context, s *discordgo.Session, m *discordgo.MessageCreate, msg service.InboundMessage, args []string) error {
	category, ok := service.ParseResetCategory(strings.ToLower(args[0]))
	if !ok {
		return fmt.Errorf("%w: unknown category %q", service.ErrValidation, args[0])
	}

	if strings.EqualFold(args[1], "all") {
		if err := b.ledgerService.ResetAll(ctx, category); err != nil {
			return err
		}
		b.reply(s, m, fmt.Sprintf("Reset %s for all users.", category))
		return nil
	}

	userID, err := normalizeUserArg(args[1])
	if err != nil {
		return err
	}
	if err := b.ledgerService.ResetUser(ctx, userID, category); err != nil {
		return err
	}

	b.reply(s, m, fmt.Sprintf("Reset %s for <@%d>.", category, userID))
	return nil
}

func (b *Bot) handleResetBal(ctx context.Context, s *discordgo.Session, m *discordgo.MessageCreate, msg service.InboundMessage, args []string) error {
	userID, err := normalizeUserArg(args[0])
	if err != nil {
		return err
	}
	amount, err := strconv.ParseInt(args[1], 10, 64)
	if err != nil {
		return fmt.Errorf("%w: amount must be numeric", service.ErrValidation)
	}

	oldBalance, err := b.ledgerService.SetBalance(ctx, userID, amount)
	if err != nil {
		return err
	}

	b.reply(s, m, fmt.Sprintf("Balance for <@%d> set to %s (was %s).",
		userID, common.FormatBalance(amount), common.FormatBalance(oldBalance)))
	return nil
}

// verifyTextChannel checks through the session that a channel exists and
// can receive messages before any settings mutation.
func (b *Bot) verifyTextChannel(s *discordgo.Session, channelID int64) error {
	channel, err := s.Channel(strconv.FormatInt(channelID, 10))
	if err != nil {
		return fmt.Errorf("%w: channel %d: %v", service.ErrChannelUnavailable, channelID, err)
	}
	if channel.Type != discordgo.ChannelTypeGuildText && channel.Type != discordgo.ChannelTypeGuildNews {
		return fmt.Errorf("%w: channel %d is not a text channel", service.ErrChannelUnavailable, channelID)
	}
	return nil
}

func (b *Bot) handleSetProofs(ctx context.Context, s *discordgo.Session, m *discordgo.MessageCreate, msg service.InboundMessage, args []string) error {
	channelID, err := normalizeChannelArg(args[0])
	if err != nil {
		return err
	}
	if err := b.verifyTextChannel(s, channelID); err != nil {
		return err
	}
	if err := b.settingsService.SetProofsChannel(ctx, channelID); err != nil {
		return err
	}

	b.reply(s, m, fmt.Sprintf("Payment proofs will be posted to <#%d>.", channelID))
	return nil
}

func (b *Bot) handleSetWithdrawal(ctx context.Context, s *discordgo.Session, m *discordgo.MessageCreate, msg service.InboundMessage, args []string) error {
	channelID, err := normalizeChannelArg(args[0])
	if err != nil {
		return err
	}
	if err := b.verifyTextChannel(s, channelID); err != nil {
		return err
	}
	if err := b.settingsService.SetWithdrawalChannel(ctx, channelID); err != nil {
		return err
	}

	b.reply(s, m, fmt.Sprintf("Withdrawal requests will be routed to <#%d>.", channelID))
	return nil
}

func (b *Bot) handleAddCounting(ctx context.Context, s *discordgo.Session, m *discordgo.MessageCreate, msg service.InboundMessage, args []string) error {
	channelID, err := normalizeChannelArg(args[0])
	if err != nil {
		return err
	}
	if err := b.verifyTextChannel(s, channelID); err != nil {
		return err
	}
	if err := b.settingsService.AddCountingChannel(ctx, channelID); err != nil {
		return err
	}

	b.reply(s, m, fmt.Sprintf("<#%d> now counts toward message rewards.", channelID))
	return nil
}

func (b *Bot) handleRemoveCounting(ctx context.Context, s *discordgo.Session, m *discordgo.MessageCreate, msg service.InboundMessage, args []string) error {
	channelID, err := normalizeChannelArg(args[0])
	if err != nil {
		return err
	}
	if err := b.settingsService.RemoveCountingChannel(ctx, channelID); err != nil {
		return err
	}

	b.reply(s, m, fmt.Sprintf("<#%d> no longer counts toward message rewards.", channelID))
	return nil
}

func (b *Bot) handleChannels(ctx context.Context, s *discordgo.Session, m *discordgo.MessageCreate, msg service.InboundMessage, args []string) error {
	settings, err := b.settingsService.Get(ctx)
	if err != nil {
		return err
	}
	_, err = s.ChannelMessageSendEmbed(m.ChannelID, buildChannelsEmbed(settings))
	return err
}
