package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/KirkDiggler/clanboard/internal/clients/coc"
	"github.com/KirkDiggler/clanboard/internal/common/clock"
	"github.com/KirkDiggler/clanboard/internal/common/logging"
	"github.com/KirkDiggler/clanboard/internal/common/uuid"
	"github.com/KirkDiggler/clanboard/internal/config"
	"github.com/KirkDiggler/clanboard/internal/handlers/discord"
	"github.com/KirkDiggler/clanboard/internal/repositories/last_seen"
	"github.com/KirkDiggler/clanboard/internal/repositories/tracking"
	"github.com/KirkDiggler/clanboard/internal/services/delivery"
	"github.com/KirkDiggler/clanboard/internal/services/dispatch"
	"github.com/KirkDiggler/clanboard/internal/services/throttle"
	"github.com/KirkDiggler/clanboard/internal/services/tracker"
	"github.com/bwmarrin/discordgo"
	"github.com/cenkalti/backoff/v5"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load config: %v\n", err)
		os.Exit(1)
	}

	logger := logging.New(cfg.LogLevel, logging.Format(cfg.LogFormat))
	if !cfg.DotEnvLoaded {
		logger.Info().Msg("no .env file found, using environment variables")
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// Initialize Redis client
	redisClient := redis.NewClient(&redis.Options{
		Addr:     cfg.RedisAddr,
		Password: cfg.RedisPassword,
		DB:       cfg.RedisDB,
	})
	defer redisClient.Close()

	if err := waitForRedis(ctx, redisClient, logger); err != nil {
		logger.Fatal().Err(err).Str("addr", cfg.RedisAddr).Msg("failed to connect to Redis")
	}

	// Initialize repositories
	trackingRepo, err := tracking.NewRedis(&tracking.Config{
		RedisClient: redisClient,
	})
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to create tracking repository")
	}

	lastSeenRepo, err := last_seen.NewRedis(&last_seen.Config{
		RedisClient: redisClient,
	})
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to create last seen repository")
	}

	clanClient, err := coc.New(&coc.Config{
		Token:             cfg.CocAPIToken,
		BaseURL:           cfg.CocAPIURL,
		RequestsPerSecond: cfg.CocRequestsPerSecond,
		Logger:            logger,
	})
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to create clan API client")
	}

	session, err := discordgo.New("Bot " + cfg.DiscordToken)
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to create Discord session")
	}

	deliveryClient, err := delivery.NewDiscord(&delivery.Config{
		Session: session,
	})
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to create delivery client")
	}

	// One limiter for every loop, so boards sharing a channel are spaced out together
	destinationThrottle := throttle.New(&throttle.Config{
		MinSpacing: cfg.EditSpacing,
	})

	dispatcher, err := dispatch.New(&dispatch.Config{
		Delivery:     deliveryClient,
		Throttle:     destinationThrottle,
		ClanClient:   clanClient,
		LastSeenRepo: lastSeenRepo,
		FetchTimeout: cfg.FetchTimeout,
		Clock:        clock.New(),
		Logger:       logger.With().Str("component", "dispatch").Logger(),
	})
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to create dispatcher")
	}

	trackerSvc, err := tracker.New(&tracker.Config{
		TrackingRepo: trackingRepo,
		LastSeenRepo: lastSeenRepo,
		ClanClient:   clanClient,
		Dispatcher:   dispatcher,
		Delivery:     deliveryClient,
		Throttle:     destinationThrottle,
		Interval:     cfg.TrackInterval,
		FetchTimeout: cfg.FetchTimeout,
		Clock:        clock.New(),
		UUID:         uuid.New(),
		Logger:       logger.With().Str("component", "tracker").Logger(),
	})
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to create tracker")
	}

	trackerSvc.OnMembershipChanged(func(_ context.Context, change *tracker.MembershipChange) {
		logger.Info().
			Str("guild_id", change.GuildID).
			Str("clan_tag", change.ClanTag).
			Strs("joined", change.Joined).
			Strs("left", change.Left).
			Msg("membership changed")
	})

	// Initialize Discord bot
	bot, err := discord.New(&discord.Config{
		Session:       session,
		ApplicationID: cfg.ApplicationID,
		GuildID:       cfg.GuildID,
		Tracker:       trackerSvc,
		Logger:        logger.With().Str("component", "discord").Logger(),
	})
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to create Discord bot")
	}

	// Start the bot
	if err := bot.Start(); err != nil {
		logger.Fatal().Err(err).Msg("failed to start Discord bot")
	}

	if err := trackerSvc.Start(ctx); err != nil {
		logger.Fatal().Err(err).Msg("failed to start tracker")
	}

	metricsServer := startMetricsServer(cfg.MetricsAddr, logger)

	// Wait for interrupt signal to gracefully shutdown
	<-ctx.Done()
	logger.Info().Msg("shutting down")

	trackerSvc.Stop()

	if err := bot.Stop(); err != nil {
		logger.Error().Err(err).Msg("error stopping bot")
	}

	if metricsServer != nil {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := metricsServer.Shutdown(shutdownCtx); err != nil {
			logger.Error().Err(err).Msg("error stopping metrics server")
		}
	}

	logger.Info().Msg("bot has been shut down")
}

// waitForRedis pings Redis with exponential backoff until it answers or a minute has passed
func waitForRedis(ctx context.Context, client *redis.Client, logger zerolog.Logger) error {
	_, err := backoff.Retry(ctx, func() (struct{}, error) {
		pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
		defer cancel()
		return struct{}{}, client.Ping(pingCtx).Err()
	},
		backoff.WithBackOff(backoff.NewExponentialBackOff()),
		backoff.WithMaxElapsedTime(time.Minute),
		backoff.WithNotify(func(err error, next time.Duration) {
			logger.Warn().Err(err).Dur("retry_in", next).Msg("redis not ready")
		}),
	)
	return err
}

// startMetricsServer serves /metrics in the background; an empty addr disables it
func startMetricsServer(addr string, logger zerolog.Logger) *http.Server {
	if addr == "" {
		return nil
	}

	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.Handler())

	server := &http.Server{
		Addr:              addr,
		Handler:           mux,
		ReadHeaderTimeout: 5 * time.Second,
	}

	go func() {
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error().Err(err).Str("addr", addr).Msg("metrics server stopped")
		}
	}()

	logger.Info().Str("addr", addr).Msg("serving metrics")
	return server
}
