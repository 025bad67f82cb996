// Package command defines the command contract, the registry, and the gates
// (cooldowns, component-id routing) the execution pipeline applies before a
// command body runs.
package command

import (
	"context"
	"time"

	"github.com/bwmarrin/discordgo"

	"github.com/varstad/deckhand/internal/music"
	"github.com/varstad/deckhand/internal/process"
)

// Command is the descriptor every deckhand command implements. Descriptors
// are immutable once registered.
type Command interface {
	Name() string
	Description() string
	Aliases() []string
	Category() string

	// Cooldown is the minimum spacing between invocations per user;
	// zero disables the cooldown.
	Cooldown() time.Duration

	// BotPermissions and UserPermissions are discordgo permission bit sets
	// the bot resp. the caller must hold in the channel.
	BotPermissions() int64
	UserPermissions() int64

	// DevOnly restricts the command to the developer allow-list.
	DevOnly() bool
}

// Capability interfaces. A command implements only the event kinds it handles;
// the pipeline type-asserts at the boundary instead of calling empty stubs.

// SlashProvider supplies the slash definition registered with Discord.
type SlashProvider interface {
	SlashDefinition() *discordgo.ApplicationCommand
}

// SlashHandler runs on a slash-style invocation.
type SlashHandler interface {
	Slash(*SlashContext) error
}

// ComponentHandler runs on a button press or menu selection whose component
// id names this command.
type ComponentHandler interface {
	Component(*ComponentContext) error
}

// ModalHandler runs on a modal submission whose component id names this command.
type ModalHandler interface {
	Modal(*ModalContext) error
}

// MessageHandler runs on a prefixed plain message.
type MessageHandler interface {
	Message(*MessageContext) error
}

// Core is the slice of the running bot a command body may touch. The discord
// bot implements it; tests supply lightweight fakes.
type Core interface {
	Registry() *Registry
	Cooldowns() *CooldownTracker
	Processes() *process.Registry
	Waiter() *process.Waiter
	Music(guildID string) *music.Manager
	Resolver() music.Resolver
	IsDeveloper(userID string) bool
}

// SlashContext is handed to SlashHandler.Slash.
type SlashContext struct {
	Ctx     context.Context
	Session *discordgo.Session
	Event   *discordgo.InteractionCreate
	Core    Core
}

// ComponentContext is handed to ComponentHandler.Component. ID is the parsed
// component id of the pressed control.
type ComponentContext struct {
	Ctx     context.Context
	Session *discordgo.Session
	Event   *discordgo.InteractionCreate
	ID      ComponentID
	Core    Core
}

// ModalContext is handed to ModalHandler.Modal.
type ModalContext struct {
	Ctx     context.Context
	Session *discordgo.Session
	Event   *discordgo.InteractionCreate
	ID      ComponentID
	Core    Core
}

// MessageContext is handed to MessageHandler.Message. Args are the
// whitespace-split tokens after the command token.
type MessageContext struct {
	Ctx     context.Context
	Session *discordgo.Session
	Event   *discordgo.MessageCreate
	Args    []string
	Core    Core
}

// Base provides neutral defaults so commands only declare what they need.
type Base struct{}

func (Base) Aliases() []string       { return nil }
func (Base) Category() string        { return "general" }
func (Base) Cooldown() time.Duration { return 0 }
func (Base) BotPermissions() int64   { return 0 }
func (Base) UserPermissions() int64  { return 0 }
func (Base) DevOnly() bool           { return false }
