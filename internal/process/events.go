package process

import "github.com/bwmarrin/discordgo"

// Kind tags the closed set of follow-up events a waiter can suspend on.
type Kind string

const (
	KindNone      Kind = ""
	KindMessage   Kind = "message"
	KindComponent Kind = "component"
	KindModal     Kind = "modal"
)

// Event is a follow-up event routed through the Waiter. The set of
// implementations is closed: MessageEvent, ComponentEvent, ModalEvent.
type Event interface {
	Kind() Kind
	ActorID() string
	ChannelID() string
}

// MessageEvent is a plain chat message from a user.
type MessageEvent struct {
	UserID    string
	Channel   string
	MessageID string
	Content   string
}

func (MessageEvent) Kind() Kind          { return KindMessage }
func (e MessageEvent) ActorID() string   { return e.UserID }
func (e MessageEvent) ChannelID() string { return e.Channel }

// ComponentEvent is a button press or select-menu choice. Raw carries the
// interaction so the resumed command can respond to it.
type ComponentEvent struct {
	UserID    string
	Channel   string
	MessageID string
	CustomID  string
	Values    []string
	Raw       *discordgo.InteractionCreate
}

func (ComponentEvent) Kind() Kind          { return KindComponent }
func (e ComponentEvent) ActorID() string   { return e.UserID }
func (e ComponentEvent) ChannelID() string { return e.Channel }

// ModalEvent is a submitted modal form.
type ModalEvent struct {
	UserID   string
	Channel  string
	CustomID string
	Fields   map[string]string
	Raw      *discordgo.InteractionCreate
}

func (ModalEvent) Kind() Kind          { return KindModal }
func (e ModalEvent) ActorID() string   { return e.UserID }
func (e ModalEvent) ChannelID() string { return e.Channel }
