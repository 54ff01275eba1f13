// Package board keeps the backing messages of edited-in-place sinks alive.
//
// Each tracking loop owns one Manager, so handles are never shared between goroutines.
// A handle moves Unresolved -> Cached on a successful fetch, Cached -> Gone when an edit
// finds the message deleted, and Gone -> Cached when the replacement is sent. The new
// message id is written back to the tracking registry.
package board

import (
	"context"
	"errors"
	"fmt"

	"github.com/KirkDiggler/clanboard/internal/metrics"
	"github.com/KirkDiggler/clanboard/internal/models"
	"github.com/KirkDiggler/clanboard/internal/repositories/tracking"
	"github.com/KirkDiggler/clanboard/internal/services/delivery"
	"github.com/KirkDiggler/clanboard/internal/services/throttle"
	"github.com/rs/zerolog"
)

// Config holds configuration for a board manager
type Config struct {
	GuildID string
	ClanTag string

	Delivery     delivery.Client
	Throttle     throttle.Throttle
	TrackingRepo tracking.Repository
	Logger       zerolog.Logger
}

// Manager owns the handles of one tracked clan
type Manager struct {
	guildID      string
	clanTag      string
	delivery     delivery.Client
	throttle     throttle.Throttle
	trackingRepo tracking.Repository
	log          zerolog.Logger

	handles map[models.SinkType]*Handle
}

// New creates a board manager for one tracked clan
func New(cfg *Config) (*Manager, error) {
	if cfg == nil {
		return nil, ErrNilConfig
	}

	if cfg.Delivery == nil {
		return nil, ErrNilDelivery
	}

	if cfg.Throttle == nil {
		return nil, ErrNilThrottle
	}

	if cfg.TrackingRepo == nil {
		return nil, ErrNilTrackingRepo
	}

	return &Manager{
		guildID:      cfg.GuildID,
		clanTag:      cfg.ClanTag,
		delivery:     cfg.Delivery,
		throttle:     cfg.Throttle,
		trackingRepo: cfg.TrackingRepo,
		log:          cfg.Logger,
		handles:      make(map[models.SinkType]*Handle),
	}, nil
}

// Handle returns a copy of the current handle for a sink
func (m *Manager) Handle(sinkType models.SinkType) (Handle, bool) {
	h, ok := m.handles[sinkType]
	if !ok {
		return Handle{}, false
	}
	return *h, true
}

// EnsureAndRender delivers payload to the sink's backing message, editing it when it
// exists and sending a replacement when it is gone
func (m *Manager) EnsureAndRender(ctx context.Context, input *RenderInput) (*RenderOutput, error) {
	if input == nil || input.Sink == nil || input.Payload == nil {
		return nil, errors.New("sink and payload cannot be nil")
	}

	if !input.SinkType.IsBoard() {
		return nil, ErrNotBoardSink
	}

	if input.Sink.ChannelID == "" {
		return nil, ErrNoDestination
	}

	h := m.handle(input.SinkType, input.Sink)
	log := m.log.With().Str("sink", string(input.SinkType)).Str("channel_id", h.ChannelID).Logger()

	if h.State == StateUnresolved {
		if err := m.resolve(ctx, h); err != nil {
			return nil, err
		}
	}

	switch h.State {
	case StateCached:
		m.persist(ctx, input.SinkType, h, log)

		if err := m.throttle.Wait(ctx, h.ChannelID); err != nil {
			return nil, err
		}

		err := m.delivery.Edit(ctx, &delivery.EditInput{
			ChannelID: h.ChannelID,
			MessageID: h.MessageID,
			Payload:   input.Payload,
		})
		if err == nil {
			return &RenderOutput{MessageID: h.MessageID}, nil
		}

		if errors.Is(err, delivery.ErrMessageNotFound) {
			log.Info().Str("message_id", h.MessageID).Msg("board message deleted, re-creating on next render")
			h.gone()
			return nil, fmt.Errorf("%w: %v", ErrMessageGone, err)
		}

		// transient: keep the handle and retry next cycle
		return nil, err

	case StateGone:
		if err := m.throttle.Wait(ctx, h.ChannelID); err != nil {
			return nil, err
		}

		out, err := m.delivery.Send(ctx, &delivery.SendInput{
			ChannelID: h.ChannelID,
			Payload:   input.Payload,
		})
		if err != nil {
			return nil, err
		}

		h.cache(out.MessageID)
		h.Dirty = true
		metrics.BoardRecreations.WithLabelValues(string(input.SinkType)).Inc()
		log.Info().Str("message_id", out.MessageID).Msg("board message created")

		m.persist(ctx, input.SinkType, h, log)

		return &RenderOutput{MessageID: h.MessageID, Sent: true}, nil
	}

	return nil, fmt.Errorf("unexpected board state %s", h.State)
}

// handle returns the handle for a sink, starting over when the destination changed
func (m *Manager) handle(sinkType models.SinkType, sink *models.SinkConfig) *Handle {
	h, ok := m.handles[sinkType]
	if !ok || h.ChannelID != sink.ChannelID {
		h = unresolved(sink.ChannelID, sink.MessageID)
		m.handles[sinkType] = h
	}
	return h
}

func (m *Manager) resolve(ctx context.Context, h *Handle) error {
	if h.MessageID == "" {
		h.gone()
		return nil
	}

	out, err := m.delivery.Fetch(ctx, &delivery.FetchInput{
		ChannelID: h.ChannelID,
		MessageID: h.MessageID,
	})
	switch {
	case err == nil:
		h.cache(out.MessageID)
		return nil
	case errors.Is(err, delivery.ErrMessageNotFound):
		h.gone()
		return nil
	default:
		return err
	}
}

// persist writes a new message id back to the registry. Failures leave the handle
// dirty and are retried on the next render.
func (m *Manager) persist(ctx context.Context, sinkType models.SinkType, h *Handle, log zerolog.Logger) {
	if !h.Dirty {
		return
	}

	err := m.trackingRepo.UpdateMessageID(ctx, &tracking.UpdateMessageIDInput{
		GuildID:   m.guildID,
		ClanTag:   m.clanTag,
		SinkType:  sinkType,
		MessageID: h.MessageID,
	})
	if err != nil {
		log.Warn().Err(err).Str("message_id", h.MessageID).Msg("failed to persist board message id")
		return
	}

	h.Dirty = false
}
