package discord

import (
	"fmt"
	"time"

	"github.com/bwmarrin/discordgo"
	"github.com/rs/zerolog/log"

	"github.com/varstad/deckhand/internal/music"
)

// channelNotifier backs music.Notifier with channel embeds.
type channelNotifier struct {
	bot *Bot
}

var _ music.Notifier = (*channelNotifier)(nil)

func (n *channelNotifier) AnnounceNowPlaying(t *music.Track) (string, error) {
	embed := &discordgo.MessageEmbed{
		Title:       "▶️ Now Playing",
		Description: trackLine(t),
	}
	if t.UserData != nil && t.UserData.Thumbnail != "" {
		embed.Thumbnail = &discordgo.MessageEmbedThumbnail{URL: t.UserData.Thumbnail}
	}
	msg, err := SendEmbed(n.bot.dg, t.UserData.ChannelID, embed)
	if err != nil {
		return "", fmt.Errorf("failed to announce track: %w", err)
	}
	return msg.ID, nil
}

func (n *channelNotifier) NoticeNowPlaying(t *music.Track) (string, error) {
	msg, err := SendEmbed(n.bot.dg, t.UserData.ChannelID, &discordgo.MessageEmbed{
		Description: "▶️ " + trackLine(t),
	})
	if err != nil {
		return "", fmt.Errorf("failed to post track notice: %w", err)
	}
	return msg.ID, nil
}

func (n *channelNotifier) NoticeQueued(t *music.Track) {
	if t.UserData == nil {
		return
	}
	_, err := SendEmbed(n.bot.dg, t.UserData.ChannelID, &discordgo.MessageEmbed{
		Description: "🎶 Added to queue: " + trackLine(t),
	})
	if err != nil {
		log.Warn().Err(err).Msg("failed to post queued notice")
	}
}

func (n *channelNotifier) DeleteAnnouncement(channelID, messageID string) {
	if err := n.bot.dg.ChannelMessageDelete(channelID, messageID); err != nil {
		log.Debug().Err(err).Str("message", messageID).Msg("announcement cleanup failed")
	}
}

func trackLine(t *music.Track) string {
	line := "**" + t.Title + "**"
	if t.Duration > 0 {
		line += fmt.Sprintf(" `%s`", formatDuration(t.Duration))
	}
	if t.UserData != nil && t.UserData.RequesterID != "" {
		line += fmt.Sprintf(" — requested by <@%s>", t.UserData.RequesterID)
	}
	return line
}

func formatDuration(d time.Duration) string {
	d = d.Round(time.Second)
	h := d / time.Hour
	m := (d % time.Hour) / time.Minute
	s := (d % time.Minute) / time.Second
	if h > 0 {
		return fmt.Sprintf("%d:%02d:%02d", h, m, s)
	}
	return fmt.Sprintf("%d:%02d", m, s)
}
