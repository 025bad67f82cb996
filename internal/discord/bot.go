// Package discord binds the orchestration core to a discordgo session: it
// turns gateway events into command executions and waiter dispatches, and
// backs the music notifier with channel messages.
package discord

import (
	"context"
	"fmt"
	"time"

	"github.com/bwmarrin/discordgo"
	"github.com/rs/zerolog/log"
	"golang.org/x/time/rate"

	"github.com/varstad/deckhand/internal/command"
	"github.com/varstad/deckhand/internal/config"
	"github.com/varstad/deckhand/internal/music"
	"github.com/varstad/deckhand/internal/process"
	"github.com/varstad/deckhand/internal/worker"
)

// Bot is the running Discord bot.
type Bot struct {
	dg  *discordgo.Session
	cfg *config.Config
	ctx context.Context

	registry  *command.Registry
	cooldowns *command.CooldownTracker
	procs     *process.Registry
	waiter    *process.Waiter
	managers  *music.Managers
	resolver  music.Resolver

	cmdPool   *worker.Pool
	waitPool  *worker.Pool
	audioPool *worker.Pool

	clicks *clickLimiter
}

// New builds a bot around the given registry and resolver. Nothing talks to
// Discord until Run.
func New(cfg *config.Config, registry *command.Registry, resolver music.Resolver) *Bot {
	b := &Bot{
		cfg:       cfg,
		registry:  registry,
		cooldowns: command.NewCooldownTracker(),
		procs:     process.NewRegistry(),
		resolver:  resolver,
		cmdPool: worker.New("commands", cfg.CommandWorkers, 64),
		// waiter dispatch is a single lane: same-kind events must reach
		// listeners in arrival order
		waitPool:  worker.New("waiters", 1, 128),
		audioPool: worker.New("audio", cfg.AudioWorkers, 64),
		clicks:    newClickLimiter(rate.Every(time.Second), 2),
	}
	b.waiter = process.NewWaiter(b.procs)
	b.managers = music.NewManagers(
		func(string) music.Player {
			return music.NewTimerPlayer(func(fn func()) {
				if !b.audioPool.Submit(fn) {
					go fn()
				}
			})
		},
		func(guildID string) music.Notifier { return &channelNotifier{bot: b} },
	)
	return b
}

// Run opens the session and blocks until ctx is done.
func (b *Bot) Run(ctx context.Context) error {
	b.ctx = ctx

	dg, err := discordgo.New("Bot " + b.cfg.DiscordToken)
	if err != nil {
		return fmt.Errorf("failed to create session: %w", err)
	}
	b.dg = dg

	dg.Identify.Intents = discordgo.IntentsGuilds |
		discordgo.IntentsGuildMessages |
		discordgo.IntentsGuildVoiceStates |
		discordgo.IntentsMessageContent

	dg.AddHandler(b.onReady)
	dg.AddHandler(b.onMessageCreate)
	dg.AddHandler(b.onInteractionCreate)

	if err := dg.Open(); err != nil {
		return fmt.Errorf("failed to open Discord session: %w", err)
	}
	defer dg.Close()

	go b.cooldowns.Run(ctx)

	<-ctx.Done()
	log.Info().Msg("shutdown signal received, cleaning up")

	b.cmdPool.Shutdown()
	b.waitPool.Shutdown()
	b.audioPool.Shutdown()
	return nil
}

// onReady registers slash commands for every known guild.
func (b *Bot) onReady(s *discordgo.Session, r *discordgo.Ready) {
	if !b.cfg.InitSlashCommands {
		log.Info().Msg("slash command registration skipped")
	} else {
		for _, g := range r.Guilds {
			if err := b.registerSlashCommands(g.ID); err != nil {
				log.Error().Err(err).Str("guild", g.ID).Msg("failed to register slash commands")
			}
		}
	}
	log.Info().Str("user", s.State.User.Username).Msg("discord bot is running")
}

// registerSlashCommands pushes every SlashProvider definition, paced so a
// large registry does not trip the API rate limit.
func (b *Bot) registerSlashCommands(guildID string) error {
	appID := b.dg.State.User.ID
	limiter := rate.NewLimiter(rate.Limit(40), 1)

	for _, cmd := range b.registry.All() {
		provider, ok := cmd.(command.SlashProvider)
		if !ok {
			continue
		}
		def := provider.SlashDefinition()
		if def == nil {
			continue
		}
		if err := limiter.Wait(b.ctx); err != nil {
			return err
		}
		if _, err := b.dg.ApplicationCommandCreate(appID, guildID, def); err != nil {
			log.Error().Err(err).Str("command", cmd.Name()).Str("guild", guildID).
				Msg("failed to create slash command")
			continue
		}
		log.Debug().Str("command", cmd.Name()).Str("guild", guildID).Msg("slash command registered")
	}
	return nil
}

// --- command.Core ---

func (b *Bot) Registry() *command.Registry         { return b.registry }
func (b *Bot) Cooldowns() *command.CooldownTracker { return b.cooldowns }
func (b *Bot) Processes() *process.Registry        { return b.procs }
func (b *Bot) Waiter() *process.Waiter             { return b.waiter }
func (b *Bot) Resolver() music.Resolver            { return b.resolver }
func (b *Bot) IsDeveloper(userID string) bool      { return b.cfg.IsDeveloper(userID) }

// Music returns the guild's music manager, creating it on first use.
func (b *Bot) Music(guildID string) *music.Manager {
	return b.managers.GetOrCreate(guildID)
}
