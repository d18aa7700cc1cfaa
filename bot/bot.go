package bot

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	log "github.com/sirupsen/logrus"

	"github.com/bwmarrin/discordgo"

	"poketally/bot/common"
	"poketally/events"
	"poketally/service"
)

// Config holds bot configuration
type Config struct {
	Token                string
	AdminUserID          int64
	CommandPrefix        string
	PayConfirmToken      string
	CatchSourceBotID     int64
	PendingWithdrawalTTL time.Duration
}

type Bot struct {
	config            Config
	session           *discordgo.Session
	classifier        *service.Classifier
	ledgerService     service.LedgerService
	catchService      service.CatchService
	withdrawalService service.WithdrawalService
	settingsService   service.SettingsService
	statsService      service.StatsService
	eventBus          *events.Bus
	commands          map[string]*command
	selfID            string
}

func New(config Config, ledgerService service.LedgerService, catchService service.CatchService, withdrawalService service.WithdrawalService, settingsService service.SettingsService, statsService service.StatsService, eventBus *events.Bus) (*Bot, error) {
	dg, err := discordgo.New("Bot " + config.Token)
	if err != nil {
		return nil, fmt.Errorf("error creating discord session: %w", err)
	}
	dg.Identify.Intents = discordgo.IntentsAll

	bot := &Bot{
		config:            config,
		session:           dg,
		classifier:        service.NewClassifier(config.CommandPrefix, config.PayConfirmToken, config.CatchSourceBotID),
		ledgerService:     ledgerService,
		catchService:      catchService,
		withdrawalService: withdrawalService,
		settingsService:   settingsService,
		statsService:      statsService,
		eventBus:          eventBus,
	}
	bot.commands = bot.buildCommandRegistry()

	dg.AddHandler(bot.handleMessageCreate)
	dg.AddHandler(bot.handleWithdrawalInteractions)

	if err := dg.Open(); err != nil {
		return nil, fmt.Errorf("error opening connection: %w", err)
	}
	if dg.State != nil && dg.State.User != nil {
		bot.selfID = dg.State.User.ID
	}

	bot.subscribeAuditLog()

	log.Info("Bot connected")
	return bot, nil
}

func (b *Bot) Close() error {
	return b.session.Close()
}

// subscribeAuditLog mirrors economy events into the structured log.
func (b *Bot) subscribeAuditLog() {
	b.eventBus.Subscribe(events.EventTypeBalanceChange, func(ctx context.Context, event events.Event) {
		if e, ok := event.(events.BalanceChangeEvent); ok {
			log.WithFields(log.Fields{
				"userID":     e.UserID,
				"oldBalance": e.OldBalance,
				"newBalance": e.NewBalance,
				"reason":     e.Reason,
			}).Info("Balance changed")
		}
	})
	b.eventBus.Subscribe(events.EventTypeWithdrawalCompleted, func(ctx context.Context, event events.Event) {
		if e, ok := event.(events.WithdrawalCompletedEvent); ok {
			log.WithFields(log.Fields{
				"userID":        e.UserID,
				"requestNumber": e.RequestNumber,
				"amount":        e.Amount,
			}).Info("Withdrawal settled")
		}
	})
}

// handleMessageCreate routes every gateway message through the classifier.
// Errors never escape: each branch logs and, where a user is waiting,
// replies with a short message.
func (b *Bot) handleMessageCreate(s *discordgo.Session, m *discordgo.MessageCreate) {
	if m.Author == nil || m.Author.ID == b.selfID {
		return
	}

	ctx := context.Background()

	msg, err := toInboundMessage(m)
	if err != nil {
		log.WithError(err).Warn("Dropping message with malformed ids")
		return
	}

	settings, err := b.settingsService.Get(ctx)
	if err != nil {
		log.WithError(err).Error("Failed to load settings")
		return
	}

	switch b.classifier.Classify(msg, settings) {
	case service.CategoryCatchAnnouncement:
		b.handleCatchAnnouncement(ctx, s, m, msg)
	case service.CategoryCommand:
		b.dispatchCommand(ctx, s, m, msg)
	case service.CategoryPayConfirm:
		b.handlePayConfirm(ctx, s, m, msg)
	case service.CategoryChatMessage:
		b.handleChatMessage(ctx, s, m, msg)
	}
}

func (b *Bot) handleCatchAnnouncement(ctx context.Context, s *discordgo.Session, m *discordgo.MessageCreate, msg service.InboundMessage) {
	result, err := b.catchService.ProcessCatch(ctx, msg)
	if err != nil {
		log.WithError(err).Error("Failed to process catch announcement")
		return
	}
	if result.Counted {
		b.react(s, m, tierEmoji(result.Tier))
	}
}

func (b *Bot) handleChatMessage(ctx context.Context, s *discordgo.Session, m *discordgo.MessageCreate, msg service.InboundMessage) {
	result, err := b.ledgerService.RecordChatMessage(ctx, msg)
	if err != nil {
		log.WithError(err).Error("Failed to record chat message")
		return
	}

	if result.SpamReason != "" {
		b.react(s, m, "💣")
		return
	}
	if result.Rewarded {
		b.react(s, m, "✅")
		b.reply(s, m, common.FormatReward(result.RewardAmount, result.User.Balance))
	}
}

// handlePayConfirm drives the completion step of the withdrawal state
// machine. Only the admin may confirm, and only inside the configured
// withdrawal channel.
func (b *Bot) handlePayConfirm(ctx context.Context, s *discordgo.Session, m *discordgo.MessageCreate, msg service.InboundMessage) {
	if msg.AuthorID != b.config.AdminUserID {
		b.reply(s, m, "Only the admin can confirm payments.")
		return
	}

	settings, err := b.settingsService.Get(ctx)
	if err != nil {
		log.WithError(err).Error("Failed to load settings")
		return
	}
	if settings.WithdrawalChannelID == 0 {
		b.reply(s, m, "No withdrawal channel is configured.")
		return
	}
	if msg.ChannelID != settings.WithdrawalChannelID {
		b.reply(s, m, fmt.Sprintf("Payment confirmations belong in <#%d>.", settings.WithdrawalChannelID))
		return
	}

	args := strings.Fields(strings.TrimPrefix(msg.Content, b.config.PayConfirmToken))
	if len(args) < 1 {
		b.reply(s, m, fmt.Sprintf("Usage: `%s <requestNumber>`", b.config.PayConfirmToken))
		return
	}
	requestNumber, err := strconv.ParseInt(args[0], 10, 64)
	if err != nil {
		b.reply(s, m, "Request number must be numeric.")
		return
	}

	result, err := b.withdrawalService.Complete(ctx, requestNumber)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrNotFound):
			b.reply(s, m, fmt.Sprintf("No withdrawal request #%d.", requestNumber))
		case errors.Is(err, service.ErrAlreadyProcessed):
			b.reply(s, m, fmt.Sprintf("Request #%d was already processed; the debit has been refunded.", requestNumber))
		case errors.Is(err, service.ErrInsufficientBalance):
			b.reply(s, m, fmt.Sprintf("The user no longer has enough balance to cover request #%d.", requestNumber))
		default:
			log.WithError(err).Error("Failed to complete withdrawal")
			b.reply(s, m, "Something went wrong completing the withdrawal.")
		}
		return
	}

	b.react(s, m, "✅")
	b.postPaymentProof(s, m, settings.ProofsChannelID, result)
}

// postPaymentProof sends the proof embed to the proofs channel, falling
// back to an inline reply when the channel is unset or unreachable.
func (b *Bot) postPaymentProof(s *discordgo.Session, m *discordgo.MessageCreate, proofsChannelID int64, result *service.CompletionResult) {
	embed := buildPaymentProofEmbed(result)

	if proofsChannelID != 0 {
		_, err := s.ChannelMessageSendEmbed(strconv.FormatInt(proofsChannelID, 10), embed)
		if err == nil {
			return
		}
		log.WithError(err).Warn("Proofs channel unreachable, posting proof inline")
	}

	if _, err := s.ChannelMessageSendEmbed(m.ChannelID, embed); err != nil {
		log.WithError(err).Error("Failed to post payment proof")
	}
}

func (b *Bot) reply(s *discordgo.Session, m *discordgo.MessageCreate, content string) {
	if _, err := s.ChannelMessageSendReply(m.ChannelID, content, m.Reference()); err != nil {
		log.WithError(err).Warn("Failed to send reply")
	}
}

func (b *Bot) react(s *discordgo.Session, m *discordgo.MessageCreate, emoji string) {
	if err := s.MessageReactionAdd(m.ChannelID, m.ID, emoji); err != nil {
		log.WithError(err).Warn("Failed to add reaction")
	}
}
