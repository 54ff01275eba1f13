package discord

import (
	"errors"
	"testing"

	"github.com/KirkDiggler/clanboard/internal/models"
	"github.com/KirkDiggler/clanboard/internal/repositories/tracking"
	"github.com/KirkDiggler/clanboard/internal/services/tracker"
	trackerMocks "github.com/KirkDiggler/clanboard/internal/services/tracker/mocks"
	"github.com/bwmarrin/discordgo"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/suite"
	"go.uber.org/mock/gomock"
)

type fakeResponder struct {
	responses []*discordgo.InteractionResponse
}

func (f *fakeResponder) InteractionRespond(_ *discordgo.Interaction, resp *discordgo.InteractionResponse, _ ...discordgo.RequestOption) error {
	f.responses = append(f.responses, resp)
	return nil
}

type ClanboardCommandTestSuite struct {
	suite.Suite
	mockCtrl    *gomock.Controller
	mockTracker *trackerMocks.MockService
	responder   *fakeResponder
	command     *ClanboardCommand
}

func (s *ClanboardCommandTestSuite) SetupTest() {
	s.mockCtrl = gomock.NewController(s.T())
	s.mockTracker = trackerMocks.NewMockService(s.mockCtrl)
	s.responder = &fakeResponder{}
	s.command = NewClanboardCommand(s.mockTracker, zerolog.Nop())
}

func (s *ClanboardCommandTestSuite) TearDownTest() {
	s.mockCtrl.Finish()
}

func TestClanboardCommandTestSuite(t *testing.T) {
	suite.Run(t, new(ClanboardCommandTestSuite))
}

func option(name string, optType discordgo.ApplicationCommandOptionType, value string) *discordgo.ApplicationCommandInteractionDataOption {
	return &discordgo.ApplicationCommandInteractionDataOption{Name: name, Type: optType, Value: value}
}

func interaction(guildID, sub string, options ...*discordgo.ApplicationCommandInteractionDataOption) *discordgo.InteractionCreate {
	return &discordgo.InteractionCreate{
		Interaction: &discordgo.Interaction{
			Type:      discordgo.InteractionApplicationCommand,
			GuildID:   guildID,
			ChannelID: "current-channel",
			Data: discordgo.ApplicationCommandInteractionData{
				Name: "clanboard",
				Options: []*discordgo.ApplicationCommandInteractionDataOption{
					{
						Name:    sub,
						Type:    discordgo.ApplicationCommandOptionSubCommand,
						Options: options,
					},
				},
			},
		},
	}
}

func (s *ClanboardCommandTestSuite) lastEmbed() *discordgo.MessageEmbed {
	s.Require().NotEmpty(s.responder.responses)
	resp := s.responder.responses[len(s.responder.responses)-1]
	s.Require().Len(resp.Data.Embeds, 1)
	return resp.Data.Embeds[0]
}

func (s *ClanboardCommandTestSuite) TestAddDefaultsToCurrentChannel() {
	s.mockTracker.EXPECT().
		Configure(gomock.Any(), &tracker.ConfigureInput{
			GuildID:  "guild-1",
			ClanTag:  "#2PP",
			SinkType: models.SinkTypeBoard,
			Sink:     &models.SinkConfig{ChannelID: "current-channel"},
		}).
		Return(&tracker.ConfigureOutput{Config: &models.TrackingConfig{
			GuildID: "guild-1",
			ClanTag: "#2PP",
			Sinks: map[models.SinkType]*models.SinkConfig{
				models.SinkTypeBoard: {ChannelID: "current-channel"},
			},
		}}, nil)

	err := s.command.Handle(s.responder, interaction("guild-1", "add",
		option("clan", discordgo.ApplicationCommandOptionString, "#2PP"),
		option("sink", discordgo.ApplicationCommandOptionString, "board"),
	))
	s.Require().NoError(err)

	embed := s.lastEmbed()
	s.Equal("Tracking #2PP", embed.Title)
	s.Require().Len(embed.Fields, 1)
	s.Equal("<#current-channel>", embed.Fields[0].Value)
}

func (s *ClanboardCommandTestSuite) TestAddWithChannelColorAndText() {
	s.mockTracker.EXPECT().
		Configure(gomock.Any(), &tracker.ConfigureInput{
			GuildID:  "guild-1",
			ClanTag:  "#2PP",
			SinkType: models.SinkTypeSummary,
			Sink: &models.SinkConfig{
				ChannelID:  "other-channel",
				Color:      0x3498db,
				CustomText: "Recruiting!",
			},
		}).
		Return(&tracker.ConfigureOutput{Config: &models.TrackingConfig{ClanTag: "#2PP"}}, nil)

	err := s.command.Handle(s.responder, interaction("guild-1", "add",
		option("clan", discordgo.ApplicationCommandOptionString, "#2PP"),
		option("sink", discordgo.ApplicationCommandOptionString, "summary"),
		option("channel", discordgo.ApplicationCommandOptionChannel, "other-channel"),
		option("color", discordgo.ApplicationCommandOptionString, "#3498db"),
		option("text", discordgo.ApplicationCommandOptionString, "Recruiting!"),
	))
	s.Require().NoError(err)
}

func (s *ClanboardCommandTestSuite) TestAddInvalidColor() {
	err := s.command.Handle(s.responder, interaction("guild-1", "add",
		option("clan", discordgo.ApplicationCommandOptionString, "#2PP"),
		option("sink", discordgo.ApplicationCommandOptionString, "board"),
		option("color", discordgo.ApplicationCommandOptionString, "blue"),
	))
	s.Require().NoError(err)

	s.Equal("Error", s.lastEmbed().Title)
}

func (s *ClanboardCommandTestSuite) TestAddTrackerError() {
	s.mockTracker.EXPECT().
		Configure(gomock.Any(), gomock.Any()).
		Return(nil, errors.New("redis down"))

	err := s.command.Handle(s.responder, interaction("guild-1", "add",
		option("clan", discordgo.ApplicationCommandOptionString, "#2PP"),
		option("sink", discordgo.ApplicationCommandOptionString, "feed"),
	))
	s.Require().NoError(err)

	s.Equal("Error", s.lastEmbed().Title)
}

func (s *ClanboardCommandTestSuite) TestRemoveAll() {
	s.mockTracker.EXPECT().
		Deconfigure(gomock.Any(), &tracker.DeconfigureInput{GuildID: "guild-1", ClanTag: "#2PP"}).
		Return(&tracker.DeconfigureOutput{}, nil)

	err := s.command.Handle(s.responder, interaction("guild-1", "remove",
		option("clan", discordgo.ApplicationCommandOptionString, "#2PP"),
	))
	s.Require().NoError(err)

	s.Equal("Tracking stopped", s.lastEmbed().Title)
}

func (s *ClanboardCommandTestSuite) TestRemoveSinkNotEnabled() {
	s.mockTracker.EXPECT().
		Deconfigure(gomock.Any(), &tracker.DeconfigureInput{GuildID: "guild-1", ClanTag: "#2PP", SinkType: models.SinkTypeFeed}).
		Return(nil, tracking.ErrSinkNotEnabled)

	err := s.command.Handle(s.responder, interaction("guild-1", "remove",
		option("clan", discordgo.ApplicationCommandOptionString, "#2PP"),
		option("sink", discordgo.ApplicationCommandOptionString, "feed"),
	))
	s.Require().NoError(err)

	embed := s.lastEmbed()
	s.Equal("Error", embed.Title)
	s.Equal("The feed is not enabled for #2PP.", embed.Description)
}

func (s *ClanboardCommandTestSuite) TestRejectsDirectMessages() {
	err := s.command.Handle(s.responder, interaction("", "add",
		option("clan", discordgo.ApplicationCommandOptionString, "#2PP"),
	))
	s.Require().NoError(err)

	s.Equal("Error", s.lastEmbed().Title)
}

func (s *ClanboardCommandTestSuite) TestCommandDefinition() {
	cmd := s.command.GetCommand()

	s.Equal("clanboard", cmd.Name)
	s.Require().NotNil(cmd.DefaultMemberPermissions)
	s.Equal(int64(discordgo.PermissionManageServer), *cmd.DefaultMemberPermissions)
	s.Len(cmd.Options, 2)
}

func (s *ClanboardCommandTestSuite) TestParseColor() {
	color, err := parseColor("#FF8800")
	s.Require().NoError(err)
	s.Equal(0xff8800, color)

	_, err = parseColor("1000000")
	s.Error(err)
}
