package core

import (
	"fmt"
	"time"

	"github.com/bwmarrin/discordgo"

	"github.com/varstad/deckhand/internal/command"
	"github.com/varstad/deckhand/internal/discord"
)

// Ping answers with the gateway heartbeat latency. Carries a short cooldown
// so it cannot be spammed.
type Ping struct {
	command.Base
}

func (c *Ping) Name() string            { return "ping" }
func (c *Ping) Description() string     { return "Check whether the bot is alive" }
func (c *Ping) Category() string        { return "core" }
func (c *Ping) Cooldown() time.Duration { return 5 * time.Second }

func (c *Ping) SlashDefinition() *discordgo.ApplicationCommand {
	return &discordgo.ApplicationCommand{
		Name:        c.Name(),
		Description: c.Description(),
	}
}

func (c *Ping) Slash(ctx *command.SlashContext) error {
	latency := ctx.Session.HeartbeatLatency().Round(time.Millisecond)
	return discord.Respond(ctx.Session, ctx.Event, fmt.Sprintf("🏓 Pong! `%s`", latency))
}

func (c *Ping) Message(ctx *command.MessageContext) error {
	latency := ctx.Session.HeartbeatLatency().Round(time.Millisecond)
	_, err := ctx.Session.ChannelMessageSend(ctx.Event.ChannelID, fmt.Sprintf("🏓 Pong! `%s`", latency))
	return err
}
