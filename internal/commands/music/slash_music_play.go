package music

import (
	"fmt"
	"strings"

	"github.com/bwmarrin/discordgo"

	"github.com/varstad/deckhand/internal/command"
	"github.com/varstad/deckhand/internal/discord"
	"github.com/varstad/deckhand/internal/music"
)

func (c *Music) play(ctx *command.SlashContext, sub *discordgo.ApplicationCommandInteractionDataOption) error {
	query := strings.TrimSpace(sub.Options[0].StringValue())
	if query == "" {
		return command.Errorf("give me something to play")
	}

	resolver := ctx.Core.Resolver()
	if resolver == nil {
		return command.Errorf("no media source is configured")
	}

	tracks, err := resolver.Resolve(ctx.Ctx, query)
	if err != nil {
		return command.Errorf("could not resolve %q", query).WithFooter(err.Error())
	}

	mgr := ctx.Core.Music(ctx.Event.GuildID)
	for _, t := range tracks {
		t.UserData = &music.UserData{
			RequesterID:    discord.InteractionUserID(ctx.Event),
			ChannelID:      ctx.Event.ChannelID,
			AnnounceQueued: true,
		}
		mgr.Scheduler.Enqueue(t)
	}

	if len(tracks) == 1 {
		return discord.Respond(ctx.Session, ctx.Event,
			fmt.Sprintf("🎶 Queued **%s**", tracks[0].Title))
	}
	return discord.Respond(ctx.Session, ctx.Event,
		fmt.Sprintf("🎶 Queued %d tracks", len(tracks)))
}

func (c *Music) queue(ctx *command.SlashContext) error {
	sched := ctx.Core.Music(ctx.Event.GuildID).Scheduler

	var lines []string
	if current := sched.Current(); current != nil {
		lines = append(lines, fmt.Sprintf("▶️ **%s**", current.Title))
	}
	for i, t := range sched.Queue() {
		lines = append(lines, fmt.Sprintf("%d. %s", i+1, t.Title))
	}
	if len(lines) == 0 {
		return discord.RespondEphemeral(ctx.Session, ctx.Event, "The queue is empty.")
	}

	return discord.RespondEmbed(ctx.Session, ctx.Event, &discordgo.MessageEmbed{
		Title:       "Queue",
		Description: strings.Join(lines, "\n"),
		Footer:      &discordgo.MessageEmbedFooter{Text: "loop: " + sched.Loop().String()},
	})
}
