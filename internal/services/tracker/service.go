// Package tracker schedules one self-rescheduling loop per tracked clan.
//
// Each loop runs fetch, diff, persist and dispatch in order and only then waits for the
// next interval, so a slow cycle never overlaps its successor. The previous snapshot and
// the board handles belong to the loop; the registry only hands them over when a loop is
// restarted.
package tracker

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/KirkDiggler/clanboard/internal/clients/coc"
	"github.com/KirkDiggler/clanboard/internal/common/clock"
	"github.com/KirkDiggler/clanboard/internal/common/uuid"
	"github.com/KirkDiggler/clanboard/internal/metrics"
	"github.com/KirkDiggler/clanboard/internal/models"
	"github.com/KirkDiggler/clanboard/internal/repositories/last_seen"
	"github.com/KirkDiggler/clanboard/internal/repositories/tracking"
	"github.com/KirkDiggler/clanboard/internal/services/board"
	"github.com/KirkDiggler/clanboard/internal/services/delivery"
	"github.com/KirkDiggler/clanboard/internal/services/dispatch"
	"github.com/KirkDiggler/clanboard/internal/services/throttle"
	"github.com/rs/zerolog"
)

const defaultFetchTimeout = 10 * time.Second

// Config holds configuration for the tracker
type Config struct {
	TrackingRepo tracking.Repository
	LastSeenRepo last_seen.Repository
	ClanClient   coc.Client
	Dispatcher   dispatch.Dispatcher

	// Delivery and Throttle back the per-clan board managers
	Delivery delivery.Client
	Throttle throttle.Throttle

	// Interval is the delay between the end of one cycle and the start of the next
	Interval time.Duration

	// FetchTimeout bounds one snapshot fetch; defaults to 10s
	FetchTimeout time.Duration

	Clock  clock.Clock
	UUID   uuid.UUID
	Logger zerolog.Logger
}

type key struct {
	guildID string
	clanTag string
}

// trackerState is the loop of one tracked clan
type trackerState struct {
	config *models.TrackingConfig
	cancel context.CancelFunc
	done   chan struct{}

	// owned by the loop goroutine until done is closed
	previous *models.Clan
	boards   *board.Manager
}

type service struct {
	trackingRepo tracking.Repository
	lastSeenRepo last_seen.Repository
	clanClient   coc.Client
	dispatcher   dispatch.Dispatcher
	delivery     delivery.Client
	throttle     throttle.Throttle
	interval     time.Duration
	fetchTimeout time.Duration
	clock        clock.Clock
	uuid         uuid.UUID
	log          zerolog.Logger

	root       context.Context
	rootCancel context.CancelFunc

	mu      sync.Mutex
	states  map[key]*trackerState
	stopped bool

	listenersMu sync.RWMutex
	listeners   []MembershipListener
}

// New creates a new tracker service
func New(cfg *Config) (*service, error) {
	if cfg == nil {
		return nil, ErrNilConfig
	}

	if cfg.TrackingRepo == nil {
		return nil, ErrNilTrackingRepo
	}

	if cfg.LastSeenRepo == nil {
		return nil, ErrNilLastSeenRepo
	}

	if cfg.ClanClient == nil {
		return nil, ErrNilClanClient
	}

	if cfg.Dispatcher == nil {
		return nil, ErrNilDispatcher
	}

	if cfg.Delivery == nil {
		return nil, ErrNilDelivery
	}

	if cfg.Throttle == nil {
		return nil, ErrNilThrottle
	}

	if cfg.Interval <= 0 {
		return nil, ErrInvalidInterval
	}

	fetchTimeout := cfg.FetchTimeout
	if fetchTimeout <= 0 {
		fetchTimeout = defaultFetchTimeout
	}

	clk := cfg.Clock
	if clk == nil {
		clk = clock.New()
	}

	ids := cfg.UUID
	if ids == nil {
		ids = uuid.New()
	}

	root, cancel := context.WithCancel(context.Background())

	return &service{
		trackingRepo: cfg.TrackingRepo,
		lastSeenRepo: cfg.LastSeenRepo,
		clanClient:   cfg.ClanClient,
		dispatcher:   cfg.Dispatcher,
		delivery:     cfg.Delivery,
		throttle:     cfg.Throttle,
		interval:     cfg.Interval,
		fetchTimeout: fetchTimeout,
		clock:        clk,
		uuid:         ids,
		log:          cfg.Logger,
		root:         root,
		rootCancel:   cancel,
		states:       make(map[key]*trackerState),
	}, nil
}

// Start loads every persisted configuration and starts one loop per clan
func (s *service) Start(ctx context.Context) error {
	out, err := s.trackingRepo.ListConfigs(ctx)
	if err != nil {
		return fmt.Errorf("failed to load tracking configs: %w", err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if s.stopped {
		return ErrStopped
	}

	for _, cfg := range out.Configs {
		if !cfg.HasSinks() {
			continue
		}
		s.restartLocked(cfg)
	}

	s.log.Info().Int("clans", len(s.states)).Msg("tracker started")
	return nil
}

// Stop cancels every loop and waits for them to exit
func (s *service) Stop() {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.stopped = true
	s.rootCancel()

	for k, st := range s.states {
		<-st.done
		delete(s.states, k)
	}
	metrics.TrackedEntities.Set(0)
}

// OnMembershipChanged registers a membership listener
func (s *service) OnMembershipChanged(listener MembershipListener) {
	if listener == nil {
		return
	}

	s.listenersMu.Lock()
	defer s.listenersMu.Unlock()

	s.listeners = append(s.listeners, listener)
}

// Configure enables or replaces one sink and restarts the clan's loop
func (s *service) Configure(ctx context.Context, input *ConfigureInput) (*ConfigureOutput, error) {
	if input == nil || input.GuildID == "" || input.ClanTag == "" {
		return nil, ErrInvalidInput
	}

	if !input.SinkType.IsValid() {
		return nil, ErrInvalidSinkType
	}

	if input.Sink == nil || input.Sink.ChannelID == "" {
		return nil, ErrNoDestination
	}

	clanTag := coc.NormalizeTag(input.ClanTag)

	s.mu.Lock()
	defer s.mu.Unlock()

	if s.stopped {
		return nil, ErrStopped
	}

	cfg, err := s.trackingRepo.GetConfig(ctx, &tracking.GetConfigInput{
		GuildID: input.GuildID,
		ClanTag: clanTag,
	})
	if err != nil {
		if !errors.Is(err, tracking.ErrConfigNotFound) {
			return nil, err
		}
		cfg = &models.TrackingConfig{
			GuildID: input.GuildID,
			ClanTag: clanTag,
			Sinks:   make(map[models.SinkType]*models.SinkConfig),
		}
	}

	if cfg.Sinks == nil {
		cfg.Sinks = make(map[models.SinkType]*models.SinkConfig)
	}

	sink := *input.Sink
	// the live board message stays valid while the channel is unchanged
	if existing := cfg.Sinks[input.SinkType]; existing != nil && existing.ChannelID == sink.ChannelID && sink.MessageID == "" {
		sink.MessageID = existing.MessageID
	}
	cfg.Sinks[input.SinkType] = &sink

	if err := s.trackingRepo.SaveConfig(ctx, &tracking.SaveConfigInput{Config: cfg}); err != nil {
		return nil, err
	}

	s.restartLocked(cfg)

	s.log.Info().
		Str("guild_id", cfg.GuildID).
		Str("clan_tag", cfg.ClanTag).
		Str("sink", string(input.SinkType)).
		Str("channel_id", sink.ChannelID).
		Msg("sink configured")

	return &ConfigureOutput{Config: cfg.Clone()}, nil
}

// Deconfigure disables one sink or the whole configuration
func (s *service) Deconfigure(ctx context.Context, input *DeconfigureInput) (*DeconfigureOutput, error) {
	if input == nil || input.GuildID == "" || input.ClanTag == "" {
		return nil, ErrInvalidInput
	}

	if input.SinkType != "" && !input.SinkType.IsValid() {
		return nil, ErrInvalidSinkType
	}

	clanTag := coc.NormalizeTag(input.ClanTag)
	k := key{guildID: input.GuildID, clanTag: clanTag}

	s.mu.Lock()
	defer s.mu.Unlock()

	cfg, err := s.trackingRepo.GetConfig(ctx, &tracking.GetConfigInput{
		GuildID: input.GuildID,
		ClanTag: clanTag,
	})
	if err != nil {
		if errors.Is(err, tracking.ErrConfigNotFound) {
			// a loop without a stored config should not outlive this call
			s.stopLocked(k)
			return nil, ErrNotTracked
		}
		return nil, err
	}

	if input.SinkType != "" {
		if cfg.Sink(input.SinkType) == nil {
			return nil, tracking.ErrSinkNotEnabled
		}
		delete(cfg.Sinks, input.SinkType)
	}

	log := s.log.With().
		Str("guild_id", cfg.GuildID).
		Str("clan_tag", cfg.ClanTag).
		Str("sink", string(input.SinkType)).
		Logger()

	if input.SinkType == "" || !cfg.HasSinks() {
		if err := s.trackingRepo.DeleteConfig(ctx, &tracking.DeleteConfigInput{
			GuildID: cfg.GuildID,
			ClanTag: cfg.ClanTag,
		}); err != nil {
			return nil, err
		}

		s.stopLocked(k)
		log.Info().Msg("clan no longer tracked")
		return &DeconfigureOutput{}, nil
	}

	if err := s.trackingRepo.SaveConfig(ctx, &tracking.SaveConfigInput{Config: cfg}); err != nil {
		return nil, err
	}

	if !s.stopped {
		s.restartLocked(cfg)
	}

	log.Info().Msg("sink removed")
	return &DeconfigureOutput{Config: cfg.Clone()}, nil
}

// restartLocked cancels the clan's loop, waits for it to exit and starts a fresh one
// that inherits its previous snapshot and board handles. Callers hold s.mu.
func (s *service) restartLocked(cfg *models.TrackingConfig) {
	k := key{guildID: cfg.GuildID, clanTag: cfg.ClanTag}

	var (
		previous *models.Clan
		boards   *board.Manager
	)
	if old, ok := s.states[k]; ok {
		old.cancel()
		<-old.done
		previous = old.previous
		boards = old.boards
	}

	if boards == nil {
		var err error
		boards, err = board.New(&board.Config{
			GuildID:      cfg.GuildID,
			ClanTag:      cfg.ClanTag,
			Delivery:     s.delivery,
			Throttle:     s.throttle,
			TrackingRepo: s.trackingRepo,
			Logger:       s.log.With().Str("guild_id", cfg.GuildID).Str("clan_tag", cfg.ClanTag).Logger(),
		})
		if err != nil {
			// only reachable with a nil dependency, which New rejects
			s.log.Error().Err(err).Msg("failed to create board manager")
			return
		}
	}

	ctx, cancel := context.WithCancel(s.root)
	st := &trackerState{
		config:   cfg.Clone(),
		cancel:   cancel,
		done:     make(chan struct{}),
		previous: previous,
		boards:   boards,
	}
	s.states[k] = st
	metrics.TrackedEntities.Set(float64(len(s.states)))

	go s.run(ctx, st)
}

func (s *service) stopLocked(k key) {
	st, ok := s.states[k]
	if !ok {
		return
	}

	st.cancel()
	<-st.done
	delete(s.states, k)
	metrics.TrackedEntities.Set(float64(len(s.states)))
}

// tracked reports whether a loop is running for the clan
func (s *service) tracked(guildID, clanTag string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	_, ok := s.states[key{guildID: guildID, clanTag: coc.NormalizeTag(clanTag)}]
	return ok
}
