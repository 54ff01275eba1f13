package delivery

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"github.com/bwmarrin/discordgo"
)

// Session is the subset of *discordgo.Session used for delivery
type Session interface {
	ChannelMessageSendComplex(channelID string, data *discordgo.MessageSend, options ...discordgo.RequestOption) (*discordgo.Message, error)
	ChannelMessageEditComplex(m *discordgo.MessageEdit, options ...discordgo.RequestOption) (*discordgo.Message, error)
	ChannelMessage(channelID, messageID string, options ...discordgo.RequestOption) (*discordgo.Message, error)
}

// Config holds configuration for the Discord delivery client
type Config struct {
	Session Session
}

// discordClient implements the Client interface over the Discord REST API
type discordClient struct {
	session Session
}

// NewDiscord creates a Discord backed delivery client
func NewDiscord(cfg *Config) (*discordClient, error) {
	if cfg == nil {
		return nil, errors.New("config cannot be nil")
	}

	if cfg.Session == nil {
		return nil, ErrNilSession
	}

	return &discordClient{
		session: cfg.Session,
	}, nil
}

// Send posts a new message
func (c *discordClient) Send(ctx context.Context, input *SendInput) (*SendOutput, error) {
	if input == nil || input.ChannelID == "" || input.Payload == nil {
		return nil, errors.New("channel ID and payload cannot be empty")
	}

	msg, err := c.session.ChannelMessageSendComplex(input.ChannelID, &discordgo.MessageSend{
		Content: input.Payload.Content,
		Embeds:  input.Payload.Embeds,
	}, discordgo.WithContext(ctx))
	if err != nil {
		return nil, classify(err)
	}

	return &SendOutput{
		MessageID: msg.ID,
	}, nil
}

// Edit replaces the content of an existing message
func (c *discordClient) Edit(ctx context.Context, input *EditInput) error {
	if input == nil || input.ChannelID == "" || input.MessageID == "" || input.Payload == nil {
		return errors.New("channel ID, message ID and payload cannot be empty")
	}

	content := input.Payload.Content
	embeds := input.Payload.Embeds
	if embeds == nil {
		embeds = []*discordgo.MessageEmbed{}
	}

	_, err := c.session.ChannelMessageEditComplex(&discordgo.MessageEdit{
		Channel: input.ChannelID,
		ID:      input.MessageID,
		Content: &content,
		Embeds:  &embeds,
	}, discordgo.WithContext(ctx))
	if err != nil {
		return classify(err)
	}

	return nil
}

// Fetch checks that a message still exists
func (c *discordClient) Fetch(ctx context.Context, input *FetchInput) (*FetchOutput, error) {
	if input == nil || input.ChannelID == "" || input.MessageID == "" {
		return nil, errors.New("channel ID and message ID cannot be empty")
	}

	msg, err := c.session.ChannelMessage(input.ChannelID, input.MessageID, discordgo.WithContext(ctx))
	if err != nil {
		return nil, classify(err)
	}

	return &FetchOutput{
		MessageID: msg.ID,
	}, nil
}

// classify maps Discord REST failures onto ErrMessageNotFound and ErrPermission.
// Anything else is returned wrapped and treated as transient by callers.
func classify(err error) error {
	var restErr *discordgo.RESTError
	if !errors.As(err, &restErr) {
		return fmt.Errorf("discord request failed: %w", err)
	}

	if restErr.Message != nil {
		switch restErr.Message.Code {
		case discordgo.ErrCodeUnknownMessage:
			return fmt.Errorf("%w: %v", ErrMessageNotFound, err)
		case discordgo.ErrCodeUnknownChannel,
			discordgo.ErrCodeMissingAccess,
			discordgo.ErrCodeMissingPermissions:
			return fmt.Errorf("%w: %v", ErrPermission, err)
		}
	}

	if restErr.Response != nil && restErr.Response.StatusCode == http.StatusForbidden {
		return fmt.Errorf("%w: %v", ErrPermission, err)
	}

	return fmt.Errorf("discord request failed: %w", err)
}
