package core

import (
	"fmt"
	"sort"
	"strings"

	"github.com/bwmarrin/discordgo"

	"github.com/varstad/deckhand/internal/command"
	"github.com/varstad/deckhand/internal/discord"
)

// Help lists every registered command grouped by category.
type Help struct {
	command.Base
}

func (c *Help) Name() string        { return "help" }
func (c *Help) Description() string { return "List available commands" }
func (c *Help) Aliases() []string   { return []string{"h", "commands"} }
func (c *Help) Category() string    { return "core" }

func (c *Help) SlashDefinition() *discordgo.ApplicationCommand {
	return &discordgo.ApplicationCommand{
		Name:        c.Name(),
		Description: c.Description(),
	}
}

func (c *Help) Slash(ctx *command.SlashContext) error {
	return discord.RespondEmbedEphemeral(ctx.Session, ctx.Event, helpEmbed(ctx.Core.Registry()))
}

func (c *Help) Message(ctx *command.MessageContext) error {
	_, err := discord.SendEmbed(ctx.Session, ctx.Event.ChannelID, helpEmbed(ctx.Core.Registry()))
	return err
}

func helpEmbed(reg *command.Registry) *discordgo.MessageEmbed {
	byCategory := make(map[string][]command.Command)
	for _, cmd := range reg.All() {
		byCategory[cmd.Category()] = append(byCategory[cmd.Category()], cmd)
	}

	categories := make([]string, 0, len(byCategory))
	for cat := range byCategory {
		categories = append(categories, cat)
	}
	sort.Strings(categories)

	embed := &discordgo.MessageEmbed{Title: "Commands"}
	for _, cat := range categories {
		var lines []string
		for _, cmd := range byCategory[cat] {
			line := fmt.Sprintf("`/%s` — %s", cmd.Name(), cmd.Description())
			if aliases := cmd.Aliases(); len(aliases) != 0 {
				line += fmt.Sprintf(" (aliases: %s)", strings.Join(aliases, ", "))
			}
			lines = append(lines, line)
		}
		embed.Fields = append(embed.Fields, &discordgo.MessageEmbedField{
			Name:  strings.ToUpper(cat[:1]) + cat[1:],
			Value: strings.Join(lines, "\n"),
		})
	}
	return embed
}
