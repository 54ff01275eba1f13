// Package dispatch renders a cycle's change set and snapshot to the enabled sinks of a
// tracked clan.
package dispatch

import (
	"context"
	"errors"
	"time"

	"github.com/KirkDiggler/clanboard/internal/clients/coc"
	"github.com/KirkDiggler/clanboard/internal/common/clock"
	"github.com/KirkDiggler/clanboard/internal/metrics"
	"github.com/KirkDiggler/clanboard/internal/models"
	"github.com/KirkDiggler/clanboard/internal/repositories/last_seen"
	"github.com/KirkDiggler/clanboard/internal/services/board"
	"github.com/KirkDiggler/clanboard/internal/services/delivery"
	"github.com/KirkDiggler/clanboard/internal/services/throttle"
	"github.com/rs/zerolog"
)

// Config holds configuration for the dispatcher
type Config struct {
	Delivery     delivery.Client
	Throttle     throttle.Throttle
	ClanClient   coc.Client
	LastSeenRepo last_seen.Repository

	// FetchTimeout bounds each profile lookup, defaults to 10s
	FetchTimeout time.Duration

	// Clock defaults to the real clock
	Clock  clock.Clock
	Logger zerolog.Logger
}

const defaultFetchTimeout = 10 * time.Second

type service struct {
	delivery     delivery.Client
	throttle     throttle.Throttle
	clanClient   coc.Client
	lastSeenRepo last_seen.Repository
	fetchTimeout time.Duration
	clock        clock.Clock
	log          zerolog.Logger
}

// New creates a new dispatcher
func New(cfg *Config) (*service, error) {
	if cfg == nil {
		return nil, ErrNilConfig
	}

	if cfg.Delivery == nil {
		return nil, ErrNilDelivery
	}

	if cfg.Throttle == nil {
		return nil, ErrNilThrottle
	}

	if cfg.ClanClient == nil {
		return nil, ErrNilClanClient
	}

	if cfg.LastSeenRepo == nil {
		return nil, ErrNilLastSeenRepo
	}

	fetchTimeout := cfg.FetchTimeout
	if fetchTimeout <= 0 {
		fetchTimeout = defaultFetchTimeout
	}

	clk := cfg.Clock
	if clk == nil {
		clk = clock.New()
	}

	return &service{
		delivery:     cfg.Delivery,
		throttle:     cfg.Throttle,
		clanClient:   cfg.ClanClient,
		lastSeenRepo: cfg.LastSeenRepo,
		fetchTimeout: fetchTimeout,
		clock:        clk,
		log:          cfg.Logger,
	}, nil
}

// Dispatch renders every enabled sink in a fixed order
func (s *service) Dispatch(ctx context.Context, input *DispatchInput) (*DispatchOutput, error) {
	if input == nil || input.Config == nil || input.ChangeSet == nil || input.Clan == nil || input.Boards == nil {
		return nil, ErrNilInput
	}

	log := s.log.With().
		Str("guild_id", input.Config.GuildID).
		Str("clan_tag", input.Config.ClanTag).
		Logger()

	output := &DispatchOutput{Results: make(map[models.SinkType]*SinkResult)}

	for _, sinkType := range models.AllSinkTypes {
		sink := input.Config.Sink(sinkType)
		if sink == nil {
			continue
		}

		sinkLog := log.With().Str("sink", string(sinkType)).Str("channel_id", sink.ChannelID).Logger()

		var result *SinkResult
		if sink.ChannelID == "" {
			result = resultFor(board.ErrNoDestination, 0)
		} else {
			switch sinkType {
			case models.SinkTypeDonation:
				result = s.dispatchDonations(ctx, input, sink, sinkLog)
			case models.SinkTypeFeed:
				result = s.dispatchFeed(ctx, input, sink, sinkLog)
			case models.SinkTypeBoard:
				result = s.dispatchBoard(ctx, input, sink, sinkLog)
			case models.SinkTypeSummary:
				result = s.dispatchSummary(ctx, input, sink)
			}
		}

		output.Results[sinkType] = result
		metrics.SinkDeliveries.WithLabelValues(string(sinkType), string(result.Outcome)).Inc()

		switch result.Outcome {
		case OutcomePermission:
			sinkLog.Warn().Err(result.Err).Msg("destination unreachable, sink disabled for this cycle")
		case OutcomeError:
			if errors.Is(result.Err, board.ErrMessageGone) {
				sinkLog.Info().Err(result.Err).Msg("board message gone")
			} else {
				sinkLog.Warn().Err(result.Err).Msg("sink delivery failed")
			}
		}
	}

	return output, nil
}

func (s *service) send(ctx context.Context, channelID string, payload *delivery.Payload) error {
	if err := s.throttle.Wait(ctx, channelID); err != nil {
		return err
	}

	_, err := s.delivery.Send(ctx, &delivery.SendInput{
		ChannelID: channelID,
		Payload:   payload,
	})
	return err
}

func (s *service) dispatchDonations(ctx context.Context, input *DispatchInput, sink *models.SinkConfig, log zerolog.Logger) *SinkResult {
	cs := input.ChangeSet
	if !cs.HasDonations() {
		return resultFor(nil, 0)
	}

	donated, received := cs.TotalDonated(), cs.TotalReceived()
	mismatch := donated != received
	if mismatch && !cs.MembershipChanged() {
		log.Warn().
			Int("donated", donated).
			Int("received", received).
			Msg("donation totals differ without a membership change")
	}

	payload := renderDonations(input.Clan, cs, sink, mismatch && cs.MembershipChanged())
	if err := s.send(ctx, sink.ChannelID, payload); err != nil {
		return resultFor(err, 0)
	}

	return resultFor(nil, 1)
}

// dispatchFeed sends one message per joined and per left member. A permission error
// stops the sink for the rest of the cycle; other failures skip only that member.
func (s *service) dispatchFeed(ctx context.Context, input *DispatchInput, sink *models.SinkConfig, log zerolog.Logger) *SinkResult {
	cs := input.ChangeSet

	type event struct {
		kind   memberEvent
		tag    string
		member *models.Member
	}

	events := make([]event, 0, len(cs.Joined)+len(cs.Left))
	for _, tag := range cs.Joined {
		events = append(events, event{kind: memberJoined, tag: tag, member: input.Clan.MemberByTag(tag)})
	}
	for _, tag := range cs.Left {
		var member *models.Member
		if input.Previous != nil {
			member = input.Previous.MemberByTag(tag)
		}
		events = append(events, event{kind: memberLeft, tag: tag, member: member})
	}

	sent := 0
	var lastErr error
	for _, e := range events {
		profile, err := s.lookupPlayer(ctx, e.tag)
		if err != nil {
			log.Debug().Err(err).Str("member_tag", e.tag).Msg("profile lookup failed, rendering from roster")
			profile = nil
		}

		payload := renderMemberEvent(e.kind, e.tag, input.Clan, e.member, profile, sink)
		if err := s.send(ctx, sink.ChannelID, payload); err != nil {
			if errors.Is(err, delivery.ErrPermission) {
				return resultFor(err, sent)
			}
			log.Warn().Err(err).Str("member_tag", e.tag).Msg("failed to send feed entry")
			lastErr = err
			continue
		}
		sent++
	}

	if lastErr != nil && sent == 0 {
		return resultFor(lastErr, 0)
	}
	return resultFor(nil, sent)
}

// lookupPlayer bounds a profile lookup so a hung request cannot stall the loop
func (s *service) lookupPlayer(ctx context.Context, tag string) (*models.Player, error) {
	ctx, cancel := context.WithTimeout(ctx, s.fetchTimeout)
	defer cancel()

	return s.clanClient.GetPlayer(ctx, &coc.GetPlayerInput{PlayerTag: tag})
}

func (s *service) dispatchBoard(ctx context.Context, input *DispatchInput, sink *models.SinkConfig, log zerolog.Logger) *SinkResult {
	read, err := s.lastSeenRepo.Read(ctx, &last_seen.ReadInput{ClanTag: input.Config.ClanTag})
	if err != nil {
		log.Warn().Err(err).Msg("failed to read last seen records")
		return resultFor(err, 0)
	}

	payload := renderBoard(input.Clan, read.LastSeen, s.clock.Now(), sink)
	return s.render(ctx, input.Boards, models.SinkTypeBoard, sink, payload)
}

func (s *service) dispatchSummary(ctx context.Context, input *DispatchInput, sink *models.SinkConfig) *SinkResult {
	payload := renderSummary(input.Clan, sink)
	return s.render(ctx, input.Boards, models.SinkTypeSummary, sink, payload)
}

func (s *service) render(ctx context.Context, boards BoardRenderer, sinkType models.SinkType, sink *models.SinkConfig, payload *delivery.Payload) *SinkResult {
	_, err := boards.EnsureAndRender(ctx, &board.RenderInput{
		SinkType: sinkType,
		Sink:     sink,
		Payload:  payload,
	})
	if err != nil {
		return resultFor(err, 0)
	}
	return resultFor(nil, 1)
}

func resultFor(err error, messages int) *SinkResult {
	switch {
	case err == nil && messages == 0:
		return &SinkResult{Outcome: OutcomeSkipped}
	case err == nil:
		return &SinkResult{Outcome: OutcomeDelivered, Messages: messages}
	case errors.Is(err, delivery.ErrPermission), errors.Is(err, board.ErrNoDestination):
		return &SinkResult{Outcome: OutcomePermission, Messages: messages, Err: err}
	default:
		return &SinkResult{Outcome: OutcomeError, Messages: messages, Err: err}
	}
}
