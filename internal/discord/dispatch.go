package discord

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/bwmarrin/discordgo"
	"github.com/rs/zerolog/log"

	"github.com/varstad/deckhand/internal/command"
	"github.com/varstad/deckhand/internal/process"
	"github.com/varstad/deckhand/internal/worker"
)

// overrideCommands may run even while the caller has a live process in the
// channel. Without this a stuck interaction could never be force-stopped.
var overrideCommands = map[string]bool{
	"stop": true,
}

// How long self-deleting gate errors linger.
const gateErrorTTL = 10 * time.Second

// onMessageCreate feeds plain messages to waiting listeners and runs
// prefix-triggered commands.
func (b *Bot) onMessageCreate(s *discordgo.Session, m *discordgo.MessageCreate) {
	if m.Author == nil || m.Author.ID == s.State.User.ID || m.Author.Bot {
		return
	}
	if m.Type != discordgo.MessageTypeDefault && m.Type != discordgo.MessageTypeReply {
		return
	}

	evt := process.MessageEvent{
		UserID:    m.Author.ID,
		Channel:   m.ChannelID,
		MessageID: m.ID,
		Content:   m.Content,
	}
	if !b.waitPool.Submit(func() { b.waiter.Dispatch(evt) }) {
		log.Warn().Msg("waiter pool saturated, message event not dispatched")
	}

	if !strings.HasPrefix(m.Content, b.cfg.Prefix) {
		return
	}
	fields := strings.Fields(strings.TrimPrefix(m.Content, b.cfg.Prefix))
	if len(fields) == 0 {
		return
	}

	cmd, ok := b.registry.Resolve(fields[0])
	if !ok {
		// unresolved tokens are not an error
		return
	}
	handler, ok := cmd.(command.MessageHandler)
	if !ok {
		return
	}

	if err := b.gate(s, cmd, m.Author.ID, m.ChannelID, false); err != nil {
		b.reportMessageFailure(s, m.ChannelID, cmd, err)
		return
	}

	cctx := &command.MessageContext{
		Ctx:     worker.WithSlot(b.ctx, b.cmdPool),
		Session: s,
		Event:   m,
		Args:    fields[1:],
		Core:    b,
	}
	ok = b.cmdPool.Submit(func() {
		if err := handler.Message(cctx); err != nil {
			b.reportMessageFailure(s, m.ChannelID, cmd, err)
		}
	})
	if !ok {
		b.reportMessageFailure(s, m.ChannelID, cmd,
			command.Errorf("too many commands in flight, try again shortly").SelfDeleting(gateErrorTTL))
	}
}

// onInteractionCreate routes slash commands, component callbacks and modal
// submissions. Component and modal events also fan out to waiting listeners.
func (b *Bot) onInteractionCreate(s *discordgo.Session, i *discordgo.InteractionCreate) {
	switch i.Type {
	case discordgo.InteractionApplicationCommand:
		b.handleApplicationCommand(s, i)
	case discordgo.InteractionMessageComponent:
		b.handleMessageComponent(s, i)
	case discordgo.InteractionModalSubmit:
		b.handleModalSubmit(s, i)
	}
}

func (b *Bot) handleApplicationCommand(s *discordgo.Session, i *discordgo.InteractionCreate) {
	data := i.ApplicationCommandData()
	cmd, ok := b.registry.Resolve(data.Name)
	if !ok {
		log.Warn().Str("command", data.Name).Msg("unknown application command")
		return
	}
	handler, ok := cmd.(command.SlashHandler)
	if !ok {
		return
	}

	userID := InteractionUserID(i)
	if err := b.gate(s, cmd, userID, i.ChannelID, false); err != nil {
		b.reportInteractionFailure(s, i, cmd, err)
		return
	}

	cctx := &command.SlashContext{Ctx: worker.WithSlot(b.ctx, b.cmdPool), Session: s, Event: i, Core: b}
	ok = b.cmdPool.Submit(func() {
		if err := handler.Slash(cctx); err != nil {
			b.reportInteractionFailure(s, i, cmd, err)
		}
	})
	if !ok {
		b.reportInteractionFailure(s, i, cmd,
			command.Errorf("too many commands in flight, try again shortly"))
	}
}

func (b *Bot) handleMessageComponent(s *discordgo.Session, i *discordgo.InteractionCreate) {
	userID := InteractionUserID(i)
	if !b.clicks.Allow(userID) {
		_ = RespondEphemeral(s, i, "Easy there, one click at a time.")
		return
	}

	data := i.MessageComponentData()
	evt := process.ComponentEvent{
		UserID:    userID,
		Channel:   i.ChannelID,
		MessageID: messageID(i),
		CustomID:  data.CustomID,
		Values:    data.Values,
		Raw:       i,
	}
	if !b.waitPool.Submit(func() { b.waiter.Dispatch(evt) }) {
		log.Warn().Msg("waiter pool saturated, component event not dispatched")
	}

	cid, err := command.ParseComponentID(data.CustomID)
	if err != nil {
		// waiter-only controls carry ids no command owns
		log.Debug().Str("custom_id", data.CustomID).Msg("component id not command-addressed")
		return
	}
	cmd, ok := b.registry.Resolve(cid.Command)
	if !ok {
		return
	}
	handler, ok := cmd.(command.ComponentHandler)
	if !ok {
		// command resolves its components through the waiter instead
		return
	}

	// component callbacks skip the busy gate: they ARE the follow-up the
	// live process is waiting for
	if err := b.gate(s, cmd, userID, i.ChannelID, true); err != nil {
		b.reportInteractionFailure(s, i, cmd, err)
		return
	}

	cctx := &command.ComponentContext{Ctx: worker.WithSlot(b.ctx, b.cmdPool), Session: s, Event: i, ID: cid, Core: b}
	ok = b.cmdPool.Submit(func() {
		if err := handler.Component(cctx); err != nil {
			b.reportInteractionFailure(s, i, cmd, err)
		}
	})
	if !ok {
		b.reportInteractionFailure(s, i, cmd,
			command.Errorf("too many commands in flight, try again shortly"))
	}
}

func (b *Bot) handleModalSubmit(s *discordgo.Session, i *discordgo.InteractionCreate) {
	userID := InteractionUserID(i)
	data := i.ModalSubmitData()

	evt := process.ModalEvent{
		UserID:   userID,
		Channel:  i.ChannelID,
		CustomID: data.CustomID,
		Fields:   modalFields(data),
		Raw:      i,
	}
	if !b.waitPool.Submit(func() { b.waiter.Dispatch(evt) }) {
		log.Warn().Msg("waiter pool saturated, modal event not dispatched")
	}

	cid, err := command.ParseComponentID(data.CustomID)
	if err != nil {
		log.Debug().Str("custom_id", data.CustomID).Msg("modal id not command-addressed")
		return
	}
	cmd, ok := b.registry.Resolve(cid.Command)
	if !ok {
		return
	}
	handler, ok := cmd.(command.ModalHandler)
	if !ok {
		return
	}

	if err := b.gate(s, cmd, userID, i.ChannelID, true); err != nil {
		b.reportInteractionFailure(s, i, cmd, err)
		return
	}

	cctx := &command.ModalContext{Ctx: worker.WithSlot(b.ctx, b.cmdPool), Session: s, Event: i, ID: cid, Core: b}
	ok = b.cmdPool.Submit(func() {
		if err := handler.Modal(cctx); err != nil {
			b.reportInteractionFailure(s, i, cmd, err)
		}
	})
	if !ok {
		b.reportInteractionFailure(s, i, cmd,
			command.Errorf("too many commands in flight, try again shortly"))
	}
}

// gate applies the pre-execution checks in pipeline order: busy process,
// developer restriction, bot permissions, caller permissions, cooldown.
// Component/modal callbacks set skipBusy.
func (b *Bot) gate(s *discordgo.Session, cmd command.Command, userID, channelID string, skipBusy bool) error {
	if !skipBusy && !overrideCommands[cmd.Name()] {
		if p := b.procs.ByMember(userID, channelID); p != nil {
			return command.Errorf("you already have an operation running here").
				WithFooter(fmt.Sprintf("process %04d, started by /%s", p.ID(), p.Command()))
		}
	}

	if cmd.DevOnly() && !b.IsDeveloper(userID) {
		return command.Errorf("this command is restricted to developers")
	}

	if required := cmd.BotPermissions(); required != 0 {
		held, err := s.UserChannelPermissions(s.State.User.ID, channelID)
		if err != nil {
			return fmt.Errorf("failed to get bot permissions: %w", err)
		}
		if missing := missingPermissionNames(required, held); missing != nil {
			return command.Errorf("I am missing permissions: %s", formatPermissionList(missing))
		}
	}

	if required := cmd.UserPermissions(); required != 0 {
		held, err := s.UserChannelPermissions(userID, channelID)
		if err != nil {
			return fmt.Errorf("failed to get caller permissions: %w", err)
		}
		if held&discordgo.PermissionAdministrator == 0 {
			if missing := missingPermissionNames(required, held); missing != nil {
				return command.Errorf("you are missing permissions: %s", formatPermissionList(missing))
			}
		}
	}

	if left := b.cooldowns.Gate(cmd, userID); left > 0 {
		return command.Errorf("wait %ds", int(left/time.Second)).SelfDeleting(gateErrorTTL)
	}
	return nil
}

// --- failure classification ---

func failureEmbed(message, footer string) *discordgo.MessageEmbed {
	embed := &discordgo.MessageEmbed{
		Description: "❌ " + message,
		Color:       0xd64545,
	}
	if footer != "" {
		embed.Footer = &discordgo.MessageEmbedFooter{Text: footer}
	}
	return embed
}

// reportInteractionFailure classifies and reports a failed interaction. The
// reply is attempted ephemerally first; when the interaction was already
// acknowledged it falls back to a followup, then to a channel message with
// the same footer and self-delete rules.
func (b *Bot) reportInteractionFailure(s *discordgo.Session, i *discordgo.InteractionCreate, cmd command.Command, err error) {
	var cmdErr *command.Error
	switch {
	case errors.As(err, &cmdErr):
		b.sendInteractionFailure(s, i, failureEmbed(cmdErr.Message, cmdErr.Footer), cmdErr.DeleteAfter)

	case isPlatformPermissionError(err):
		// a prior explicit check should have caught this; a second error
		// message would only confuse
		log.Debug().Err(err).Str("command", cmd.Name()).Msg("platform permission error swallowed")

	default:
		log.Error().Err(err).Str("command", cmd.Name()).Msg("command failed")
		b.sendInteractionFailure(s, i, failureEmbed(fmt.Sprintf("%T: %v", err, err), ""), 0)
	}
}

func (b *Bot) sendInteractionFailure(s *discordgo.Session, i *discordgo.InteractionCreate, embed *discordgo.MessageEmbed, deleteAfter time.Duration) {
	if err := RespondEmbedEphemeral(s, i, embed); err == nil {
		return
	}
	if err := FollowupEmbedEphemeral(s, i, embed); err == nil {
		return
	}
	SendSelfDeleting(s, i.ChannelID, embed, deleteAfter)
}

func (b *Bot) reportMessageFailure(s *discordgo.Session, channelID string, cmd command.Command, err error) {
	var cmdErr *command.Error
	switch {
	case errors.As(err, &cmdErr):
		SendSelfDeleting(s, channelID, failureEmbed(cmdErr.Message, cmdErr.Footer), cmdErr.DeleteAfter)

	case isPlatformPermissionError(err):
		log.Debug().Err(err).Str("command", cmd.Name()).Msg("platform permission error swallowed")

	default:
		log.Error().Err(err).Str("command", cmd.Name()).Msg("command failed")
		SendSelfDeleting(s, channelID, failureEmbed(fmt.Sprintf("%T: %v", err, err), ""), 0)
	}
}

// isPlatformPermissionError detects the messaging backend itself rejecting an
// action for missing access.
func isPlatformPermissionError(err error) bool {
	var rest *discordgo.RESTError
	if !errors.As(err, &rest) || rest.Message == nil {
		return false
	}
	switch rest.Message.Code {
	case discordgo.ErrCodeMissingAccess, discordgo.ErrCodeMissingPermissions:
		return true
	}
	return false
}

// --- helpers ---

// InteractionUserID returns the invoking user's id, whether the interaction
// arrived from a guild (Member) or a direct message (User). Empty when the
// payload carries neither.
func InteractionUserID(i *discordgo.InteractionCreate) string {
	if i.Member != nil && i.Member.User != nil {
		return i.Member.User.ID
	}
	if i.User != nil {
		return i.User.ID
	}
	return ""
}

func messageID(i *discordgo.InteractionCreate) string {
	if i.Message != nil {
		return i.Message.ID
	}
	return ""
}

// modalFields flattens a modal's text inputs into custom-id → value.
func modalFields(data discordgo.ModalSubmitInteractionData) map[string]string {
	fields := make(map[string]string)
	for _, row := range data.Components {
		actionRow, ok := row.(*discordgo.ActionsRow)
		if !ok {
			continue
		}
		for _, comp := range actionRow.Components {
			if input, ok := comp.(*discordgo.TextInput); ok {
				fields[input.CustomID] = input.Value
			}
		}
	}
	return fields
}
