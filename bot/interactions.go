package bot

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"

	log "github.com/sirupsen/logrus"

	"github.com/bwmarrin/discordgo"

	"poketally/models"
	"poketally/service"
)

// handleWithdrawalInteractions routes the withdraw button and the market-id
// modal. Custom IDs carry the requesting user's id so the button stays
// scoped to whoever issued the withdraw command.
func (b *Bot) handleWithdrawalInteractions(s *discordgo.Session, i *discordgo.InteractionCreate) {
	switch i.Type {
	case discordgo.InteractionMessageComponent:
		if strings.HasPrefix(i.MessageComponentData().CustomID, "withdraw_confirm_") {
			b.handleWithdrawButton(s, i)
		}
	case discordgo.InteractionModalSubmit:
		if strings.HasPrefix(i.ModalSubmitData().CustomID, "withdraw_modal_") {
			b.handleMarketIDModal(s, i)
		}
	}
}

func interactionUserID(i *discordgo.InteractionCreate) (int64, error) {
	if i.Member != nil && i.Member.User != nil {
		return parseSnowflake(i.Member.User.ID)
	}
	if i.User != nil {
		return parseSnowflake(i.User.ID)
	}
	return 0, fmt.Errorf("%w: interaction has no user", service.ErrValidation)
}

func (b *Bot) handleWithdrawButton(s *discordgo.Session, i *discordgo.InteractionCreate) {
	requesterID, err := parseSnowflake(strings.TrimPrefix(i.MessageComponentData().CustomID, "withdraw_confirm_"))
	if err != nil {
		b.respondEphemeral(s, i, "This button is broken. Start a new withdrawal.")
		return
	}

	clickerID, err := interactionUserID(i)
	if err != nil || clickerID != requesterID {
		b.respondEphemeral(s, i, "This withdrawal belongs to someone else.")
		return
	}

	modal := discordgo.InteractionResponseData{
		CustomID: fmt.Sprintf("withdraw_modal_%d", requesterID),
		Title:    "Withdrawal destination",
		Components: []discordgo.MessageComponent{
			discordgo.ActionsRow{
				Components: []discordgo.MessageComponent{
					discordgo.TextInput{
						CustomID:    "market_id_input",
						Label:       "Market ID",
						Style:       discordgo.TextInputShort,
						Placeholder: "Where should the payment go?",
						Required:    true,
						MaxLength:   100,
					},
				},
			},
		},
	}

	err = s.InteractionRespond(i.Interaction, &discordgo.InteractionResponse{
		Type: discordgo.InteractionResponseModal,
		Data: &modal,
	})
	if err != nil {
		log.WithError(err).Error("Failed to show market ID modal")
	}
}

func (b *Bot) handleMarketIDModal(s *discordgo.Session, i *discordgo.InteractionCreate) {
	ctx := context.Background()

	userID, err := parseSnowflake(strings.TrimPrefix(i.ModalSubmitData().CustomID, "withdraw_modal_"))
	if err != nil {
		b.respondEphemeral(s, i, "This form is broken. Start a new withdrawal.")
		return
	}

	clickerID, err := interactionUserID(i)
	if err != nil || clickerID != userID {
		b.respondEphemeral(s, i, "This withdrawal belongs to someone else.")
		return
	}

	marketID := i.ModalSubmitData().Components[0].(*discordgo.ActionsRow).Components[0].(*discordgo.TextInput).Value

	request, err := b.withdrawalService.SubmitMarketID(ctx, userID, marketID)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrExpiredRequest):
			b.respondEphemeral(s, i, "Your withdrawal request expired. Start over with the withdraw command.")
		case errors.Is(err, service.ErrValidation):
			b.respondEphemeral(s, i, "Market ID cannot be empty. Start over with the withdraw command.")
		default:
			log.WithError(err).Error("Failed to log withdrawal request")
			b.respondEphemeral(s, i, "Something went wrong logging your request. Please try again.")
		}
		return
	}

	// Route the logged request to the withdrawal channel. The request is
	// already persisted, so a routing failure must not look like a loss.
	routed := b.postWithdrawalNotification(ctx, s, request)

	content := fmt.Sprintf("Your withdrawal request **#%d** has been logged.", request.RequestNumber)
	if !routed {
		content += " The withdrawal channel is unavailable; please contact an admin with your request number."
	}
	b.respondEphemeral(s, i, content)
}

func (b *Bot) postWithdrawalNotification(ctx context.Context, s *discordgo.Session, request *models.WithdrawalRequest) bool {
	settings, err := b.settingsService.Get(ctx)
	if err != nil {
		log.WithError(err).Error("Failed to load settings for withdrawal routing")
		return false
	}
	if settings.WithdrawalChannelID == 0 {
		log.Warn("No withdrawal channel configured; request not routed")
		return false
	}

	_, err = s.ChannelMessageSendEmbed(strconv.FormatInt(settings.WithdrawalChannelID, 10), buildWithdrawalLoggedEmbed(request))
	if err != nil {
		log.WithError(err).Warn("Withdrawal channel unreachable")
		return false
	}
	return true
}

func (b *Bot) respondEphemeral(s *discordgo.Session, i *discordgo.InteractionCreate, content string) {
	err := s.InteractionRespond(i.Interaction, &discordgo.InteractionResponse{
		Type: discordgo.InteractionResponseChannelMessageWithSource,
		Data: &discordgo.InteractionResponseData{
			Content: content,
			Flags:   discordgo.MessageFlagsEphemeral,
		},
	})
	if err != nil {
		log.WithError(err).Warn("Failed to respond to interaction")
	}
}
