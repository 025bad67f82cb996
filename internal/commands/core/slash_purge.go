package core

import (
	"errors"
	"fmt"
	"time"

	"github.com/bwmarrin/discordgo"

	"github.com/varstad/deckhand/internal/command"
	"github.com/varstad/deckhand/internal/discord"
	"github.com/varstad/deckhand/internal/process"
)

const purgeConfirmTimeout = 30 * time.Second

// Purge bulk-deletes recent messages after an interactive confirmation. The
// confirm step suspends on the event waiter, so a second purge in the same
// channel by the same user is rejected by the busy gate until this one
// resolves.
type Purge struct {
	command.Base
}

func (c *Purge) Name() string        { return "purge" }
func (c *Purge) Description() string { return "Delete recent messages in this channel" }
func (c *Purge) Category() string    { return "core" }
func (c *Purge) DevOnly() bool       { return true }
func (c *Purge) BotPermissions() int64 {
	return discordgo.PermissionManageMessages | discordgo.PermissionReadMessageHistory
}

func (c *Purge) SlashDefinition() *discordgo.ApplicationCommand {
	minCount := float64(1)
	return &discordgo.ApplicationCommand{
		Name:        c.Name(),
		Description: c.Description(),
		Options: []*discordgo.ApplicationCommandOption{
			{
				Type:        discordgo.ApplicationCommandOptionInteger,
				Name:        "count",
				Description: "How many messages to delete (max 100)",
				Required:    true,
				MinValue:    &minCount,
				MaxValue:    100,
			},
		},
	}
}

func (c *Purge) Slash(ctx *command.SlashContext) error {
	count := int(ctx.Event.ApplicationCommandData().Options[0].IntValue())
	userID := discord.InteractionUserID(ctx.Event)
	channelID := ctx.Event.ChannelID

	confirmID := command.ComponentID{Command: c.Name(), Action: "confirm"}
	cancelID := command.ComponentID{Command: c.Name(), Action: "cancel"}

	err := ctx.Session.InteractionRespond(ctx.Event.Interaction, &discordgo.InteractionResponse{
		Type: discordgo.InteractionResponseChannelMessageWithSource,
		Data: &discordgo.InteractionResponseData{
			Content: fmt.Sprintf("Delete the last **%d** messages in this channel?", count),
			Flags:   discordgo.MessageFlagsEphemeral,
			Components: []discordgo.MessageComponent{
				discordgo.ActionsRow{Components: []discordgo.MessageComponent{
					discordgo.Button{Label: "Purge", Style: discordgo.DangerButton, CustomID: confirmID.Encode()},
					discordgo.Button{Label: "Cancel", Style: discordgo.SecondaryButton, CustomID: cancelID.Encode()},
				}},
			},
		},
	})
	if err != nil {
		return fmt.Errorf("failed to send confirmation: %w", err)
	}

	proc := process.New(channelID, []string{userID}, process.WithCommand(c.Name()))
	evt, err := process.Await(ctx.Ctx, ctx.Core.Waiter(),
		process.AwaitOptions{Timeout: purgeConfirmTimeout, Process: proc},
		func(e process.ComponentEvent) bool {
			if e.UserID != userID || e.Channel != channelID {
				return false
			}
			cid, err := command.ParseComponentID(e.CustomID)
			return err == nil && cid.Command == c.Name()
		})

	switch {
	case errors.Is(err, process.ErrTimeout):
		_ = discord.FollowupEphemeral(ctx.Session, ctx.Event, "⌛ Confirmation timed out, nothing deleted.")
		return nil
	case err != nil:
		return err
	case evt == nil:
		// killed externally, e.g. /stop
		_ = discord.FollowupEphemeral(ctx.Session, ctx.Event, "⏹ Purge was stopped.")
		return nil
	}

	cid, _ := command.ParseComponentID(evt.CustomID)
	_ = discord.RespondDeferredEphemeral(ctx.Session, evt.Raw)
	if cid.Action != "confirm" {
		return discord.FollowupEphemeral(ctx.Session, ctx.Event, "Purge cancelled.")
	}

	deleted, err := c.purge(ctx.Session, channelID, count)
	if err != nil {
		return fmt.Errorf("purge failed after %d deletions: %w", deleted, err)
	}
	return discord.FollowupEphemeral(ctx.Session, ctx.Event,
		fmt.Sprintf("🧹 Deleted %d message(s).", deleted))
}

func (c *Purge) purge(s *discordgo.Session, channelID string, count int) (int, error) {
	msgs, err := s.ChannelMessages(channelID, count, "", "", "")
	if err != nil {
		return 0, fmt.Errorf("failed to list messages: %w", err)
	}
	ids := make([]string, 0, len(msgs))
	for _, m := range msgs {
		ids = append(ids, m.ID)
	}
	if len(ids) == 0 {
		return 0, nil
	}
	if err := s.ChannelMessagesBulkDelete(channelID, ids); err != nil {
		return 0, err
	}
	return len(ids), nil
}
