// Package music holds the /music command family driving the per-guild track
// scheduler.
package music

import (
	"time"

	"github.com/bwmarrin/discordgo"

	"github.com/varstad/deckhand/internal/command"
)

// Music is the /music command with its subcommands. All state lives in the
// guild's scheduler; the command only translates interactions into calls.
type Music struct {
	command.Base
}

func (c *Music) Name() string            { return "music" }
func (c *Music) Description() string     { return "Play and control music" }
func (c *Music) Aliases() []string       { return []string{"m"} }
func (c *Music) Category() string        { return "music" }
func (c *Music) Cooldown() time.Duration { return 2 * time.Second }
func (c *Music) BotPermissions() int64 {
	return discordgo.PermissionVoiceConnect | discordgo.PermissionVoiceSpeak
}

func (c *Music) SlashDefinition() *discordgo.ApplicationCommand {
	return &discordgo.ApplicationCommand{
		Name:        c.Name(),
		Description: c.Description(),
		Options: []*discordgo.ApplicationCommandOption{
			{
				Type:        discordgo.ApplicationCommandOptionSubCommand,
				Name:        "play",
				Description: "Queue a track",
				Options: []*discordgo.ApplicationCommandOption{
					{
						Type:        discordgo.ApplicationCommandOptionString,
						Name:        "query",
						Description: "URL of the track to play",
						Required:    true,
					},
				},
			},
			{
				Type:        discordgo.ApplicationCommandOptionSubCommand,
				Name:        "skip",
				Description: "Skip the current track",
			},
			{
				Type:        discordgo.ApplicationCommandOptionSubCommand,
				Name:        "stop",
				Description: "Stop playback and clear the queue",
			},
			{
				Type:        discordgo.ApplicationCommandOptionSubCommand,
				Name:        "loop",
				Description: "Set the repeat mode",
				Options: []*discordgo.ApplicationCommandOption{
					{
						Type:        discordgo.ApplicationCommandOptionString,
						Name:        "mode",
						Description: "Repeat mode",
						Required:    true,
						Choices: []*discordgo.ApplicationCommandOptionChoice{
							{Name: "song", Value: "song"},
							{Name: "queue", Value: "queue"},
							{Name: "disabled", Value: "disabled"},
						},
					},
				},
			},
			{
				Type:        discordgo.ApplicationCommandOptionSubCommand,
				Name:        "shuffle",
				Description: "Shuffle the pending queue",
			},
			{
				Type:        discordgo.ApplicationCommandOptionSubCommand,
				Name:        "queue",
				Description: "Show the pending queue",
			},
		},
	}
}

func (c *Music) Slash(ctx *command.SlashContext) error {
	if ctx.Event.GuildID == "" {
		return command.Errorf("music only works inside a server")
	}

	options := ctx.Event.ApplicationCommandData().Options
	if len(options) == 0 {
		return command.Errorf("missing subcommand")
	}
	sub := options[0]

	switch sub.Name {
	case "play":
		return c.play(ctx, sub)
	case "skip":
		return c.skip(ctx)
	case "stop":
		return c.stop(ctx)
	case "loop":
		return c.loop(ctx, sub)
	case "shuffle":
		return c.shuffle(ctx)
	case "queue":
		return c.queue(ctx)
	}
	return command.Errorf("unknown subcommand %q", sub.Name)
}
