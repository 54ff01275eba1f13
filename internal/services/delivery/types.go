package delivery

import (
	"errors"

	"github.com/bwmarrin/discordgo"
)

var (
	// ErrMessageNotFound is returned when the target message was deleted externally
	ErrMessageNotFound = errors.New("message not found")

	// ErrPermission is returned when the destination is missing or not writable
	ErrPermission = errors.New("destination not reachable")

	// ErrNilSession is returned by New without a session
	ErrNilSession = errors.New("discord session cannot be nil")
)

// Payload is one rendered message
type Payload struct {
	Content string
	Embeds  []*discordgo.MessageEmbed
}

// SendInput contains parameters for posting a message
type SendInput struct {
	ChannelID string
	Payload   *Payload
}

// SendOutput contains the id of the posted message
type SendOutput struct {
	MessageID string
}

// EditInput contains parameters for editing a message in place
type EditInput struct {
	ChannelID string
	MessageID string
	Payload   *Payload
}

// FetchInput contains parameters for resolving a message
type FetchInput struct {
	ChannelID string
	MessageID string
}

// FetchOutput contains the resolved message id
type FetchOutput struct {
	MessageID string
}
