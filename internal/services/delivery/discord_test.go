package delivery

import (
	"context"
	"errors"
	"net/http"
	"testing"

	"github.com/bwmarrin/discordgo"
	"github.com/stretchr/testify/suite"
)

type fakeSession struct {
	sent    []*discordgo.MessageSend
	edits   []*discordgo.MessageEdit
	nextID  string
	sendErr error
	editErr error
	getErr  error
}

func (f *fakeSession) ChannelMessageSendComplex(channelID string, data *discordgo.MessageSend, _ ...discordgo.RequestOption) (*discordgo.Message, error) {
	if f.sendErr != nil {
		return nil, f.sendErr
	}
	f.sent = append(f.sent, data)
	return &discordgo.Message{ID: f.nextID, ChannelID: channelID}, nil
}

func (f *fakeSession) ChannelMessageEditComplex(m *discordgo.MessageEdit, _ ...discordgo.RequestOption) (*discordgo.Message, error) {
	if f.editErr != nil {
		return nil, f.editErr
	}
	f.edits = append(f.edits, m)
	return &discordgo.Message{ID: m.ID, ChannelID: m.Channel}, nil
}

func (f *fakeSession) ChannelMessage(channelID, messageID string, _ ...discordgo.RequestOption) (*discordgo.Message, error) {
	if f.getErr != nil {
		return nil, f.getErr
	}
	return &discordgo.Message{ID: messageID, ChannelID: channelID}, nil
}

func restError(status, code int) error {
	return &discordgo.RESTError{
		Response: &http.Response{StatusCode: status},
		Message:  &discordgo.APIErrorMessage{Code: code, Message: "test"},
	}
}

type DiscordClientTestSuite struct {
	suite.Suite
	session *fakeSession
	client  Client
	ctx     context.Context
}

func (s *DiscordClientTestSuite) SetupTest() {
	s.session = &fakeSession{nextID: "msg-1"}
	client, err := NewDiscord(&Config{Session: s.session})
	s.Require().NoError(err)
	s.client = client
	s.ctx = context.Background()
}

func TestDiscordClientTestSuite(t *testing.T) {
	suite.Run(t, new(DiscordClientTestSuite))
}

func (s *DiscordClientTestSuite) TestNewRequiresSession() {
	_, err := NewDiscord(&Config{})
	s.ErrorIs(err, ErrNilSession)
}

func (s *DiscordClientTestSuite) TestSend() {
	out, err := s.client.Send(s.ctx, &SendInput{
		ChannelID: "channel-1",
		Payload:   &Payload{Embeds: []*discordgo.MessageEmbed{{Title: "Donations"}}},
	})
	s.Require().NoError(err)
	s.Equal("msg-1", out.MessageID)
	s.Require().Len(s.session.sent, 1)
	s.Equal("Donations", s.session.sent[0].Embeds[0].Title)
}

func (s *DiscordClientTestSuite) TestEditSetsContentAndEmbeds() {
	err := s.client.Edit(s.ctx, &EditInput{
		ChannelID: "channel-1",
		MessageID: "msg-9",
		Payload:   &Payload{Content: "hello"},
	})
	s.Require().NoError(err)
	s.Require().Len(s.session.edits, 1)
	s.Equal("msg-9", s.session.edits[0].ID)
	s.Equal("hello", *s.session.edits[0].Content)
	s.NotNil(s.session.edits[0].Embeds)
}

func (s *DiscordClientTestSuite) TestEditUnknownMessage() {
	s.session.editErr = restError(http.StatusNotFound, discordgo.ErrCodeUnknownMessage)

	err := s.client.Edit(s.ctx, &EditInput{ChannelID: "c", MessageID: "m", Payload: &Payload{}})
	s.ErrorIs(err, ErrMessageNotFound)
}

func (s *DiscordClientTestSuite) TestPermissionErrors() {
	for _, code := range []int{discordgo.ErrCodeMissingAccess, discordgo.ErrCodeMissingPermissions, discordgo.ErrCodeUnknownChannel} {
		s.session.sendErr = restError(http.StatusForbidden, code)
		_, err := s.client.Send(s.ctx, &SendInput{ChannelID: "c", Payload: &Payload{}})
		s.ErrorIs(err, ErrPermission, "code %d", code)
	}
}

func (s *DiscordClientTestSuite) TestTransientError() {
	s.session.getErr = errors.New("connection reset")

	_, err := s.client.Fetch(s.ctx, &FetchInput{ChannelID: "c", MessageID: "m"})
	s.Require().Error(err)
	s.NotErrorIs(err, ErrMessageNotFound)
	s.NotErrorIs(err, ErrPermission)
}

func (s *DiscordClientTestSuite) TestFetch() {
	out, err := s.client.Fetch(s.ctx, &FetchInput{ChannelID: "c", MessageID: "m"})
	s.Require().NoError(err)
	s.Equal("m", out.MessageID)
}
