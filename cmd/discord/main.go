// cmd/discord/main.go
package main

import (
	"context"
	"io"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"gopkg.in/natefinch/lumberjack.v2"

	"github.com/varstad/deckhand/internal/command"
	corecmds "github.com/varstad/deckhand/internal/commands/core"
	musiccmds "github.com/varstad/deckhand/internal/commands/music"
	"github.com/varstad/deckhand/internal/config"
	"github.com/varstad/deckhand/internal/discord"
	"github.com/varstad/deckhand/internal/music"
)

func main() {
	cfg, err := config.New()
	if err != nil {
		log.Fatal().Err(err).Msg("configuration error")
	}

	setupLogging(cfg)
	log.Info().Msg("starting deckhand")

	registry := command.NewRegistry()
	registry.MustRegister(&corecmds.Ping{})
	registry.MustRegister(&corecmds.Help{})
	registry.MustRegister(&corecmds.Stop{})
	registry.MustRegister(&corecmds.Purge{})
	registry.MustRegister(&musiccmds.Music{})

	bot := discord.New(cfg, registry, &music.URLResolver{DefaultDuration: 3 * time.Minute})

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	errCh := make(chan error, 1)
	go func() {
		if err := bot.Run(ctx); err != nil {
			errCh <- err
		}
		close(errCh)
	}()

	sig := make(chan os.Signal, 1)
	signal.Notify(sig, syscall.SIGINT, syscall.SIGTERM)

	select {
	case s := <-sig:
		log.Info().Str("signal", s.String()).Msg("shutting down")
		cancel()
		<-errCh
	case err := <-errCh:
		if err != nil {
			log.Error().Err(err).Msg("discord bot error")
		}
		cancel()
	}

	log.Info().Msg("deckhand exited cleanly")
}

func setupLogging(cfg *config.Config) {
	level, err := zerolog.ParseLevel(cfg.LogLevel)
	if err != nil {
		level = zerolog.InfoLevel
	}
	zerolog.SetGlobalLevel(level)

	console := zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.RFC3339}
	writers := []io.Writer{console}
	if cfg.LogFile != "" {
		writers = append(writers, &lumberjack.Logger{
			Filename:   cfg.LogFile,
			MaxSize:    10, // megabytes
			MaxBackups: 5,
			MaxAge:     30, // days
			Compress:   true,
		})
	}
	log.Logger = zerolog.New(zerolog.MultiLevelWriter(writers...)).With().Timestamp().Logger()
}
