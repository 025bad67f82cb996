package music

import (
	"errors"

	"github.com/bwmarrin/discordgo"

	"github.com/varstad/deckhand/internal/command"
	"github.com/varstad/deckhand/internal/discord"
	"github.com/varstad/deckhand/internal/music"
)

func (c *Music) skip(ctx *command.SlashContext) error {
	sched := ctx.Core.Music(ctx.Event.GuildID).Scheduler
	if err := sched.Skip(); err != nil {
		if errors.Is(err, music.ErrNothingPlaying) {
			return command.Errorf("nothing is playing")
		}
		return err
	}
	return discord.Respond(ctx.Session, ctx.Event, "⏭ Skipped.")
}

func (c *Music) stop(ctx *command.SlashContext) error {
	ctx.Core.Music(ctx.Event.GuildID).Scheduler.Reset()
	return discord.Respond(ctx.Session, ctx.Event, "⏹ Playback stopped, queue cleared.")
}

func (c *Music) loop(ctx *command.SlashContext, sub *discordgo.ApplicationCommandInteractionDataOption) error {
	mode, ok := music.ParseLoopMode(sub.Options[0].StringValue())
	if !ok {
		return command.Errorf("unknown loop mode %q", sub.Options[0].StringValue())
	}
	ctx.Core.Music(ctx.Event.GuildID).Scheduler.SetLoop(mode)
	return discord.Respond(ctx.Session, ctx.Event, "🔁 Loop mode: "+mode.String())
}

func (c *Music) shuffle(ctx *command.SlashContext) error {
	sched := ctx.Core.Music(ctx.Event.GuildID).Scheduler
	if len(sched.Queue()) < 2 {
		return command.Errorf("not enough queued tracks to shuffle")
	}
	sched.Shuffle()
	return discord.Respond(ctx.Session, ctx.Event, "🔀 Queue shuffled.")
}
