package core

import (
	"fmt"

	"github.com/bwmarrin/discordgo"

	"github.com/varstad/deckhand/internal/command"
	"github.com/varstad/deckhand/internal/discord"
)

// Stop kills the caller's live processes in the current channel. It is on the
// pipeline's override list, so it still works while a process occupies the
// channel.
type Stop struct {
	command.Base
}

func (c *Stop) Name() string        { return "stop" }
func (c *Stop) Description() string { return "Force-stop your running operation in this channel" }
func (c *Stop) Aliases() []string   { return []string{"kill"} }
func (c *Stop) Category() string    { return "core" }

func (c *Stop) SlashDefinition() *discordgo.ApplicationCommand {
	return &discordgo.ApplicationCommand{
		Name:        c.Name(),
		Description: c.Description(),
	}
}

func (c *Stop) Slash(ctx *command.SlashContext) error {
	userID := discord.InteractionUserID(ctx.Event)
	channelID := ctx.Event.ChannelID

	killed := 0
	for _, p := range ctx.Core.Processes().ByUser(userID) {
		if p.Channel() != channelID {
			continue
		}
		if ctx.Core.Processes().Kill(p.ID()) {
			killed++
		}
	}

	if killed == 0 {
		return command.Errorf("you have no running operation in this channel")
	}
	return discord.RespondEphemeral(ctx.Session, ctx.Event,
		fmt.Sprintf("⏹ Stopped %d operation(s).", killed))
}
