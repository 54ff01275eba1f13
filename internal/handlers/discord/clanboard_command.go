package discord

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/KirkDiggler/clanboard/internal/models"
	"github.com/KirkDiggler/clanboard/internal/repositories/tracking"
	"github.com/KirkDiggler/clanboard/internal/services/tracker"
	"github.com/bwmarrin/discordgo"
	"github.com/rs/zerolog"
)

const commandTimeout = 10 * time.Second

// ClanboardCommand handles the /clanboard command
type ClanboardCommand struct {
	BaseCommand
	tracker tracker.Service
	log     zerolog.Logger
}

func sinkChoices() []*discordgo.ApplicationCommandOptionChoice {
	return []*discordgo.ApplicationCommandOptionChoice{
		{Name: "Donation ledger", Value: string(models.SinkTypeDonation)},
		{Name: "Join/leave feed", Value: string(models.SinkTypeFeed)},
		{Name: "Last active board", Value: string(models.SinkTypeBoard)},
		{Name: "Clan summary", Value: string(models.SinkTypeSummary)},
	}
}

// NewClanboardCommand creates a new clanboard command handler
func NewClanboardCommand(trackerService tracker.Service, logger zerolog.Logger) *ClanboardCommand {
	return &ClanboardCommand{
		BaseCommand: BaseCommand{
			Name:        "clanboard",
			Description: "Mirror a clan into this server",
			Permissions: discordgo.PermissionManageServer,
			Options: []*discordgo.ApplicationCommandOption{
				{
					Type:        discordgo.ApplicationCommandOptionSubCommand,
					Name:        "add",
					Description: "Post a clan board to a channel",
					Options: []*discordgo.ApplicationCommandOption{
						{
							Type:        discordgo.ApplicationCommandOptionString,
							Name:        "clan",
							Description: "Clan tag, e.g. #2PP",
							Required:    true,
						},
						{
							Type:        discordgo.ApplicationCommandOptionString,
							Name:        "sink",
							Description: "What to post",
							Required:    true,
							Choices:     sinkChoices(),
						},
						{
							Type:         discordgo.ApplicationCommandOptionChannel,
							Name:         "channel",
							Description:  "Destination channel, defaults to this one",
							ChannelTypes: []discordgo.ChannelType{discordgo.ChannelTypeGuildText},
						},
						{
							Type:        discordgo.ApplicationCommandOptionString,
							Name:        "color",
							Description: "Embed colour as hex, e.g. #3498db",
						},
						{
							Type:        discordgo.ApplicationCommandOptionString,
							Name:        "text",
							Description: "Custom text shown on the clan summary",
						},
					},
				},
				{
					Type:        discordgo.ApplicationCommandOptionSubCommand,
					Name:        "remove",
					Description: "Stop posting a clan board",
					Options: []*discordgo.ApplicationCommandOption{
						{
							Type:        discordgo.ApplicationCommandOptionString,
							Name:        "clan",
							Description: "Clan tag, e.g. #2PP",
							Required:    true,
						},
						{
							Type:        discordgo.ApplicationCommandOptionString,
							Name:        "sink",
							Description: "Board to remove, all when omitted",
							Choices:     sinkChoices(),
						},
					},
				},
			},
		},
		tracker: trackerService,
		log:     logger,
	}
}

// Handle processes a Discord interaction for the clanboard command
func (c *ClanboardCommand) Handle(s Responder, i *discordgo.InteractionCreate) error {
	if i.Type != discordgo.InteractionApplicationCommand {
		return nil
	}

	data := i.ApplicationCommandData()
	if data.Name != c.Name || len(data.Options) == 0 {
		return nil
	}

	if i.GuildID == "" {
		return RespondWithError(s, i, "This command can only be used in a server.")
	}

	sub := data.Options[0]
	options := make(map[string]*discordgo.ApplicationCommandInteractionDataOption, len(sub.Options))
	for _, opt := range sub.Options {
		options[opt.Name] = opt
	}

	switch sub.Name {
	case "add":
		return c.handleAdd(s, i, options)
	case "remove":
		return c.handleRemove(s, i, options)
	default:
		return errors.New("unknown subcommand")
	}
}

// handleAdd handles the add subcommand
func (c *ClanboardCommand) handleAdd(s Responder, i *discordgo.InteractionCreate, options map[string]*discordgo.ApplicationCommandInteractionDataOption) error {
	sink := &models.SinkConfig{ChannelID: i.ChannelID}

	if opt, ok := options["channel"]; ok {
		sink.ChannelID = opt.ChannelValue(nil).ID
	}

	if opt, ok := options["color"]; ok {
		color, err := parseColor(opt.StringValue())
		if err != nil {
			return RespondWithError(s, i, fmt.Sprintf("Invalid colour %q, use a hex value like #3498db.", opt.StringValue()))
		}
		sink.Color = color
	}

	if opt, ok := options["text"]; ok {
		sink.CustomText = opt.StringValue()
	}

	sinkType := models.SinkType(stringOption(options, "sink"))

	ctx, cancel := context.WithTimeout(context.Background(), commandTimeout)
	defer cancel()

	out, err := c.tracker.Configure(ctx, &tracker.ConfigureInput{
		GuildID:  i.GuildID,
		ClanTag:  stringOption(options, "clan"),
		SinkType: sinkType,
		Sink:     sink,
	})
	if err != nil {
		c.log.Error().Err(err).Str("guild_id", i.GuildID).Msg("failed to configure sink")
		return RespondWithError(s, i, fmt.Sprintf("Failed to add %s: %v", sinkType, err))
	}

	return RespondWithEmbed(s, i,
		fmt.Sprintf("Tracking %s", out.Config.ClanTag),
		fmt.Sprintf("The %s will be posted in <#%s>.", sinkType, sink.ChannelID),
		sinkFields(out.Config),
	)
}

// handleRemove handles the remove subcommand
func (c *ClanboardCommand) handleRemove(s Responder, i *discordgo.InteractionCreate, options map[string]*discordgo.ApplicationCommandInteractionDataOption) error {
	clanTag := stringOption(options, "clan")
	sinkType := models.SinkType(stringOption(options, "sink"))

	ctx, cancel := context.WithTimeout(context.Background(), commandTimeout)
	defer cancel()

	out, err := c.tracker.Deconfigure(ctx, &tracker.DeconfigureInput{
		GuildID:  i.GuildID,
		ClanTag:  clanTag,
		SinkType: sinkType,
	})
	if err != nil {
		switch {
		case errors.Is(err, tracker.ErrNotTracked):
			return RespondWithError(s, i, fmt.Sprintf("%s is not tracked in this server.", clanTag))
		case errors.Is(err, tracking.ErrSinkNotEnabled):
			return RespondWithError(s, i, fmt.Sprintf("The %s is not enabled for %s.", sinkType, clanTag))
		}
		c.log.Error().Err(err).Str("guild_id", i.GuildID).Msg("failed to deconfigure sink")
		return RespondWithError(s, i, fmt.Sprintf("Failed to remove: %v", err))
	}

	if out.Config == nil {
		return RespondWithEmbed(s, i, "Tracking stopped", fmt.Sprintf("%s is no longer tracked.", clanTag), nil)
	}

	return RespondWithEmbed(s, i,
		fmt.Sprintf("Removed %s", sinkType),
		fmt.Sprintf("%s is still tracked.", out.Config.ClanTag),
		sinkFields(out.Config),
	)
}

func sinkFields(cfg *models.TrackingConfig) []*discordgo.MessageEmbedField {
	var fields []*discordgo.MessageEmbedField
	for _, t := range models.AllSinkTypes {
		if sink := cfg.Sink(t); sink != nil {
			fields = append(fields, &discordgo.MessageEmbedField{
				Name:   string(t),
				Value:  fmt.Sprintf("<#%s>", sink.ChannelID),
				Inline: true,
			})
		}
	}
	return fields
}

func stringOption(options map[string]*discordgo.ApplicationCommandInteractionDataOption, name string) string {
	if opt, ok := options[name]; ok {
		return opt.StringValue()
	}
	return ""
}

// parseColor parses "#3498db" or "3498db"
func parseColor(value string) (int, error) {
	value = strings.TrimPrefix(strings.TrimSpace(value), "#")
	color, err := strconv.ParseInt(value, 16, 32)
	if err != nil || color < 0 || color > 0xffffff {
		return 0, fmt.Errorf("invalid colour %q", value)
	}
	return int(color), nil
}
